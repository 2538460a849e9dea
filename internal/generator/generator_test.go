package generator

import (
	"strings"
	"testing"

	"github.com/verte-zerg/calmtype/internal/session"
)

func TestPassageWordCountAndCharset(t *testing.T) {
	g := NewWithSeed(42)
	text := g.Passage([]string{"calm", "breath", "slow"}, Options{Words: 30, CapsPct: 0.5, PunctPct: 0.5})
	if got := len(strings.Fields(text)); got != 30 {
		t.Fatalf("expected 30 words, got %d", got)
	}
	if _, err := session.Start(text); err != nil {
		t.Fatalf("generated passage should be practicable: %v", err)
	}
}

func TestPassagePlain(t *testing.T) {
	g := NewWithSeed(1)
	text := g.Passage([]string{"calm"}, Options{Words: 3})
	if text != "calm calm calm" {
		t.Fatalf("unexpected passage %q", text)
	}
}

func TestPassageEmpty(t *testing.T) {
	g := NewWithSeed(1)
	if got := g.Passage(nil, Options{Words: 3}); got != "" {
		t.Fatalf("expected empty passage, got %q", got)
	}
}

func TestPassageWeightedFavorsWeakWords(t *testing.T) {
	g := NewWithSeed(7)
	words := []string{"aaaa", "zzzz"}
	text := g.Passage(words, Options{
		Words:      400,
		Weak:       map[rune]struct{}{'z': {}},
		WeakFactor: 10,
	})
	z := strings.Count(text, "zzzz")
	if z < 300 {
		t.Fatalf("expected weak word to dominate, got %d of 400", z)
	}
}
