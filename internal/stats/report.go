package stats

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/verte-zerg/calmtype/internal/model"
	"github.com/verte-zerg/calmtype/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions       []model.SessionAggregate
	CharAggsAll    []model.CharAggregate
	CharAggsWindow []model.CharAggregate
	CurveWindow    int
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list sessions: %w", err)
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	charAggsAll, err := st.ListCharAggregatesForSessions(ctx, sessionIDs(sessions))
	if err != nil {
		return Report{}, fmt.Errorf("failed to aggregate characters: %w", err)
	}
	charAggsWindow, err := st.ListCharAggregatesForSessions(ctx, lastSessionIDs(sessions, cfg.CurveWindow))
	if err != nil {
		return Report{}, fmt.Errorf("failed to aggregate characters: %w", err)
	}

	return Report{
		Sessions:       sessions,
		CharAggsAll:    charAggsAll,
		CharAggsWindow: charAggsWindow,
		CurveWindow:    cfg.CurveWindow,
	}, nil
}

// Render writes the plain-text report: summary, recent runs and the
// per-character table for the curve window.
func (r Report) Render(w io.Writer, now time.Time) error {
	if err := RenderSummary(w, r.Sessions, r.CurveWindow); err != nil {
		return err
	}
	if len(r.Sessions) == 0 {
		return nil
	}
	if top := TopCharsByFrequency(r.CharAggsAll, 10); len(top) > 0 {
		if _, err := fmt.Fprintf(w, "Most typed: %s\n\n", strings.Join(top, " ")); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "Recent"); err != nil {
		return err
	}
	if err := RenderHistory(w, r.Sessions, 10, now); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return RenderCharTable(w, r.CharAggsWindow)
}

func sessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}

func lastSessionIDs(sessions []model.SessionAggregate, window int) []int64 {
	if window <= 0 || len(sessions) <= window {
		return sessionIDs(sessions)
	}
	return sessionIDs(sessions[len(sessions)-window:])
}
