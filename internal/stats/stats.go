// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/calmtype/internal/model"
	"github.com/verte-zerg/calmtype/internal/session"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes WPM and accuracy (0-1) for a stored run, using the
// same formulas as the live session.
func SessionMetrics(correct, incorrect int, durationMs int64) (wpm, accuracy float64) {
	total := correct + incorrect
	accuracy = 1
	if total > 0 {
		accuracy = math.Max(0, float64(correct-incorrect)/float64(total))
	}
	if durationMs <= 0 {
		return 0, accuracy
	}
	minutes := float64(durationMs) / 60000.0
	wpm = (float64(correct) / session.CharsPerWord) / minutes
	return wpm, accuracy
}

// CharStatsFromLog folds a keystroke log into per-character counts. Latency is
// the gap between consecutive correct keystrokes, credited to the later one.
func CharStatsFromLog(log []session.Keystroke) []model.CharStats {
	type entry struct {
		model.CharStats
		order int
	}
	byChar := map[rune]*entry{}
	var prevCorrectAt int64
	havePrev := false
	for _, k := range log {
		e, ok := byChar[k.Expected]
		if !ok {
			e = &entry{CharStats: model.CharStats{Char: string(k.Expected)}, order: len(byChar)}
			byChar[k.Expected] = e
		}
		if !k.Correct {
			e.Incorrect++
			continue
		}
		e.Correct++
		if havePrev {
			e.LatencySumMs += k.TimestampMillis - prevCorrectAt
			e.LatencyCount++
		}
		prevCorrectAt = k.TimestampMillis
		havePrev = true
	}
	entries := make([]*entry, 0, len(byChar))
	for _, e := range byChar {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].order < entries[j].order })
	out := make([]model.CharStats, len(entries))
	for i, e := range entries {
		out[i] = e.CharStats
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Curves returns WPM and accuracy (percent) series smoothed over window.
func Curves(sessions []model.SessionAggregate, window int) (wpms, accs []float64) {
	wpms = make([]float64, len(sessions))
	accs = make([]float64, len(sessions))
	for i, s := range sessions {
		wpm, acc := SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		wpms[i] = wpm
		accs[i] = acc * 100
	}
	return MovingAverage(wpms, window), MovingAverage(accs, window)
}

// RenderSummary prints a summary block for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate, window int) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalWPM, totalAcc float64
	bestWPM := 0.0
	var practiced int64
	for _, s := range sessions {
		wpm, acc := SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		totalWPM += wpm
		totalAcc += acc
		bestWPM = math.Max(bestWPM, wpm)
		practiced += s.DurationMs
	}
	count := float64(len(sessions))
	wpms, accs := Curves(sessions, window)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Practice time: %s", FormatDuration(practiced)),
		fmt.Sprintf("Avg WPM: %.2f", totalWPM/count),
		fmt.Sprintf("Best WPM: %.2f", bestWPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", (totalAcc/count)*100),
		fmt.Sprintf("WPM trend:      %s", Sparkline(wpms)),
		fmt.Sprintf("Accuracy trend: %s", Sparkline(accs)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistory prints the most recent sessions, newest first.
func RenderHistory(w io.Writer, sessions []model.SessionAggregate, limit int, now time.Time) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if limit <= 0 || limit > len(sessions) {
		limit = len(sessions)
	}
	headers := []string{"When", "Source", "WPM", "Accuracy", "Errors", "Time"}
	rows := make([][]string, 0, limit)
	for i := len(sessions) - 1; i >= len(sessions)-limit; i-- {
		s := sessions[i]
		rows = append(rows, []string{
			humanize.RelTime(s.EndedAt, now, "ago", "from now"),
			s.Source,
			fmt.Sprintf("%d", s.WPM),
			fmt.Sprintf("%d%%", s.Accuracy),
			fmt.Sprintf("%d", s.Incorrect),
			FormatDuration(s.DurationMs),
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// FormatDuration renders milliseconds as "1m05s" or "42s".
func FormatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	secs := int64(d / time.Second)
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	if secs < 3600 {
		return fmt.Sprintf("%dm%02ds", secs/60, secs%60)
	}
	return fmt.Sprintf("%dh%02dm", secs/3600, (secs%3600)/60)
}

// RenderCharTable prints per-character aggregates, weakest first.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Character"); err != nil {
		return err
	}
	headers := []string{"Char", "Accuracy", "Avg Latency (ms)", "Correct", "Incorrect"}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, CharRows(aggs), rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// CharRows formats aggregates as table rows sorted by lowest accuracy.
func CharRows(aggs []model.CharAggregate) [][]string {
	sorted := make([]model.CharAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		ai, aj := charAccuracy(sorted[i]), charAccuracy(sorted[j])
		if ai == aj {
			return sorted[i].Char < sorted[j].Char
		}
		return ai < aj
	})
	rows := make([][]string, 0, len(sorted))
	for _, agg := range sorted {
		label := agg.Char
		if label == " " {
			label = "<space>"
		}
		lat := 0.0
		if agg.LatencyCount > 0 {
			lat = float64(agg.LatencySumMs) / float64(agg.LatencyCount)
		}
		rows = append(rows, []string{
			label,
			fmt.Sprintf("%.2f%%", charAccuracy(agg)*100),
			fmt.Sprintf("%.1f", lat),
			fmt.Sprintf("%d", agg.Correct),
			fmt.Sprintf("%d", agg.Incorrect),
		})
	}
	return rows
}
