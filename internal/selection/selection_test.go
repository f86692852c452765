package selection

import "testing"

type fakeStore struct {
	threshold   float64
	maxArticles int
	selectCalls int
}

func (f *fakeStore) SelectTopItems(runID string, threshold float64, maxArticles int) (int, error) {
	f.selectCalls++
	f.threshold = threshold
	f.maxArticles = maxArticles
	return 2, nil
}

func (f *fakeStore) SelectedItems(runID string) ([]string, error) {
	return []string{"a", "b"}, nil
}

func TestNewGateAppliesDefaultsWhenUnset(t *testing.T) {
	s := &fakeStore{}
	g := NewGate(s, 0, 0)

	if _, err := g.Run("run1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.threshold != 0.70 {
		t.Fatalf("expected default threshold 0.70, got %v", s.threshold)
	}
	if s.maxArticles != 35 {
		t.Fatalf("expected default max articles 35, got %v", s.maxArticles)
	}
}

func TestNewGateHonorsExplicitValues(t *testing.T) {
	s := &fakeStore{}
	g := NewGate(s, 0.85, 10)

	if _, err := g.Run("run1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.threshold != 0.85 || s.maxArticles != 10 {
		t.Fatalf("expected explicit values to be honored, got threshold=%v max=%v", s.threshold, s.maxArticles)
	}
}

func TestSelectedDelegatesToStore(t *testing.T) {
	s := &fakeStore{}
	g := NewGate(s, 0.7, 35)

	ids, err := g.Selected("run1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 selected ids, got %d", len(ids))
	}
}
