package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/calmtype/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "calmtype.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func testRecord(i int, source string) model.SessionRecord {
	start := time.Unix(1_700_000_000, 0).UTC().Add(time.Duration(i) * time.Hour)
	return model.SessionRecord{
		RunID:      fmt.Sprintf("run-%d", i),
		StartedAt:  start,
		EndedAt:    start.Add(time.Minute),
		Source:     source,
		TextLen:    50,
		Correct:    50,
		Errors:     i,
		Keystrokes: 50 + i,
		DurationMs: 60_000,
		WPM:        10,
		Accuracy:   90,
	}
}

func TestInsertAndListSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		source := "a.txt"
		if i == 1 {
			source = "b.txt"
		}
		chars := []model.CharStats{{Char: "a", Correct: 3, Incorrect: i}}
		if _, err := st.InsertSession(ctx, testRecord(i, source), chars); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	all, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].RunID != "run-0" || all[2].RunID != "run-2" {
		t.Fatalf("unexpected sessions: %+v", all)
	}
	if all[2].Incorrect != 2 || all[2].WPM != 10 || all[2].Accuracy != 90 {
		t.Fatalf("unexpected aggregate fields: %+v", all[2])
	}

	filtered, err := st.ListSessions(ctx, model.StatsConfig{Source: "b.txt"})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].RunID != "run-1" {
		t.Fatalf("unexpected filtered sessions: %+v", filtered)
	}

	since := all[1].EndedAt
	recent, err := st.ListSessions(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 sessions since %v, got %d", since, len(recent))
	}
}

func TestInsertDuplicateRunIDRollsBack(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	rec := testRecord(0, "a.txt")
	if _, err := st.InsertSession(ctx, rec, nil); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := st.InsertSession(ctx, rec, []model.CharStats{{Char: "z", Correct: 1}}); err == nil {
		t.Fatalf("expected duplicate run id to fail")
	}
	aggs, err := st.GetWeakChars(ctx, 10)
	if err != nil {
		t.Fatalf("weak chars: %v", err)
	}
	if len(aggs) != 0 {
		t.Fatalf("expected rolled back char stats, got %+v", aggs)
	}
}

func TestGetWeakCharsWindow(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		chars := []model.CharStats{{Char: "e", Correct: 10, Incorrect: i, LatencySumMs: 100, LatencyCount: 2}}
		if _, err := st.InsertSession(ctx, testRecord(i, "a.txt"), chars); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	aggs, err := st.GetWeakChars(ctx, 2)
	if err != nil {
		t.Fatalf("weak chars: %v", err)
	}
	if len(aggs) != 1 {
		t.Fatalf("expected one char, got %+v", aggs)
	}
	if aggs[0].Correct != 20 || aggs[0].Incorrect != 3 || aggs[0].LatencyCount != 4 {
		t.Fatalf("expected last two sessions only, got %+v", aggs[0])
	}
	none, err := st.GetWeakChars(ctx, 0)
	if err != nil || none != nil {
		t.Fatalf("expected nil for empty window, got %v %v", none, err)
	}
}

func TestListRecordsRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	rec := testRecord(4, "poem.txt")
	if _, err := st.InsertSession(ctx, rec, nil); err != nil {
		t.Fatalf("insert: %v", err)
	}
	records, err := st.ListRecords(ctx)
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	got := records[0]
	if !got.StartedAt.Equal(rec.StartedAt) || !got.EndedAt.Equal(rec.EndedAt) {
		t.Fatalf("timestamps changed: %+v", got)
	}
	if got.RunID != rec.RunID || got.Keystrokes != rec.Keystrokes || got.TextLen != rec.TextLen {
		t.Fatalf("unexpected record: %+v", got)
	}
}
