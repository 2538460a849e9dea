package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var sinceLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
}

// ParseSince parses a --since value: an explicit date ("2024-11-01") or a
// natural phrase ("yesterday", "last week", "3 days ago"). Phrases resolve to
// the start of the matched day.
func ParseSince(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range sinceLayouts {
		if t, err := time.ParseInLocation(layout, input, now.Location()); err == nil {
			return t, nil
		}
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	result, err := w.Parse(input, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", input, err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", input)
	}
	y, m, d := result.Time.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
}
