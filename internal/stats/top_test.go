package stats

import (
	"testing"

	"github.com/verte-zerg/calmtype/internal/model"
)

func TestTopCharsByFrequency(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: "b", Correct: 3, Incorrect: 1},
		{Char: " ", Correct: 2, Incorrect: 2},
		{Char: "c", Correct: 1, Incorrect: 0},
	}
	top := TopCharsByFrequency(aggs, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 chars, got %d", len(top))
	}
	if top[0] != "<space>" || top[1] != "b" {
		t.Fatalf("unexpected order: %v", top)
	}
	if got := TopCharsByFrequency(aggs, 10); len(got) != 3 {
		t.Fatalf("expected n clamped to 3, got %v", got)
	}
}
