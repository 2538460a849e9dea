// Package export writes practice history as canonical JSON Lines.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gowebpki/jcs"

	"github.com/verte-zerg/calmtype/internal/model"
)

// Record is the exported shape of one practice run.
type Record struct {
	RunID      string `json:"run_id"`
	StartedAt  string `json:"started_at"`
	EndedAt    string `json:"ended_at"`
	Source     string `json:"source"`
	TextLen    int    `json:"text_len"`
	Correct    int    `json:"correct"`
	Errors     int    `json:"errors"`
	Keystrokes int    `json:"keystrokes"`
	DurationMs int64  `json:"duration_ms"`
	WPM        int    `json:"wpm"`
	Accuracy   int    `json:"accuracy"`
}

// FromModel converts a stored record, normalizing timestamps to UTC.
func FromModel(rec model.SessionRecord) Record {
	return Record{
		RunID:      rec.RunID,
		StartedAt:  rec.StartedAt.UTC().Format(time.RFC3339Nano),
		EndedAt:    rec.EndedAt.UTC().Format(time.RFC3339Nano),
		Source:     rec.Source,
		TextLen:    rec.TextLen,
		Correct:    rec.Correct,
		Errors:     rec.Errors,
		Keystrokes: rec.Keystrokes,
		DurationMs: rec.DurationMs,
		WPM:        rec.WPM,
		Accuracy:   rec.Accuracy,
	}
}

// Write emits one RFC 8785 canonical JSON object per line.
func Write(w io.Writer, records []model.SessionRecord) error {
	for _, rec := range records {
		raw, err := json.Marshal(FromModel(rec))
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", rec.RunID, err)
		}
		canonical, err := jcs.Transform(raw)
		if err != nil {
			return fmt.Errorf("failed to canonicalize %s: %w", rec.RunID, err)
		}
		if _, err := w.Write(append(canonical, '\n')); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
	}
	return nil
}
