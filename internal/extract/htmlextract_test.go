package extract

import "strings"

import "testing"

func TestFromHTMLExtractsArticleSelector(t *testing.T) {
	html := `<html><body><nav>skip</nav><article>` +
		strings.Repeat("<p>Swiss franc strengthens amid global uncertainty today. </p>", 20) +
		`</article></body></html>`
	text := FromHTML(html)
	if len(text) < MinAcceptableLength {
		t.Fatalf("expected extracted text to clear the floor, got %d chars", len(text))
	}
	if strings.Contains(text, "skip") {
		t.Fatalf("expected nav content to be stripped")
	}
}

func TestFromHTMLFallsBackToJSONLD(t *testing.T) {
	body := strings.Repeat("UBS reports record profit amid Swiss franc volatility. ", 15)
	html := `<html><head><script type="application/ld+json">{"articleBody":"` + body + `"}</script></head><body><div>short</div></body></html>`
	text := FromHTML(html)
	if len(text) < MinAcceptableLength {
		t.Fatalf("expected JSON-LD articleBody fallback to clear the floor, got %d chars", len(text))
	}
}

func TestFromHTMLReturnsShortTextWhenNothingClearsFloor(t *testing.T) {
	html := `<html><body><div>too short</div></body></html>`
	text := FromHTML(html)
	if len(text) >= MinAcceptableLength {
		t.Fatalf("expected short text to stay under the floor")
	}
}
