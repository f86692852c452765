// Package extract implements the Content Extractor step: pulling article body
// text out of a fetched HTML page, falling back to an embedded JSON-LD
// articleBody, and finally to a headless-browser render for JS-heavy pages.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MinAcceptableLength is the floor below which extracted text is treated as
// a failed extraction rather than a thin article.
const MinAcceptableLength = 600

var jsonLDBlock = regexp.MustCompile(`(?s)<script[^>]+type=["']application/ld\+json["'][^>]*>(.*?)</script>`)

// mainContentSelectors mirrors the main-content walk used across the
// teacher's HTML fetcher, generalized to a standalone extractor.
var mainContentSelectors = []string{
	"article", "main", ".main-content", ".entry-content", ".post-content",
	".post-body", ".article-body", "[role='main']", ".content", "#content",
}

// FromHTML extracts the main article text from raw HTML, trying
// selector-based main-content extraction first and an embedded JSON-LD
// articleBody second.
func FromHTML(html string) string {
	selectorText := fromSelectors(html)
	if len(selectorText) >= MinAcceptableLength {
		return selectorText
	}
	ldText := fromJSONLD(html)
	if len(ldText) >= MinAcceptableLength {
		return ldText
	}
	// Both candidates are under the floor; return whichever is longer and let
	// the caller decide whether to fall back to the browser.
	if len(ldText) > len(selectorText) {
		return ldText
	}
	return selectorText
}

func fromSelectors(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style, nav, footer, header, aside, form, iframe, noscript, .sidebar, #sidebar, .ad, .advertisement, .popup, .modal, .cookie-banner").Remove()

	var textBuilder strings.Builder
	for _, selector := range mainContentSelectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			s.Find("p, h1, h2, h3, h4, h5, h6, li, blockquote, pre").Each(func(_ int, item *goquery.Selection) {
				textBuilder.WriteString(strings.TrimSpace(item.Text()))
				textBuilder.WriteString("\n\n")
			})
		})
		if textBuilder.Len() > 0 {
			break
		}
	}
	if textBuilder.Len() == 0 {
		doc.Find("body").Find("p, h1, h2, h3, h4, h5, h6, li, blockquote, pre").Each(func(_ int, item *goquery.Selection) {
			textBuilder.WriteString(strings.TrimSpace(item.Text()))
			textBuilder.WriteString("\n\n")
		})
	}

	newlineRegex := regexp.MustCompile(`(\n\s*){2,}`)
	return strings.TrimSpace(newlineRegex.ReplaceAllString(textBuilder.String(), "\n"))
}

func fromJSONLD(html string) string {
	for _, match := range jsonLDBlock.FindAllStringSubmatch(html, -1) {
		if len(match) < 2 {
			continue
		}
		if body := articleBodyFrom(match[1]); body != "" {
			return strings.TrimSpace(body)
		}
	}
	return ""
}

func articleBodyFrom(raw string) string {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err == nil {
		if body, ok := obj["articleBody"].(string); ok {
			return body
		}
		return ""
	}

	var list []map[string]any
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		for _, item := range list {
			if body, ok := item["articleBody"].(string); ok && body != "" {
				return body
			}
		}
	}
	return ""
}
