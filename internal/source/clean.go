// Package source loads and sanitizes practice text.
package source

import (
	"strings"
	"unicode"

	"github.com/verte-zerg/calmtype/internal/session"
)

// Clean collapses whitespace runs into single spaces, drops characters outside
// the practice set, trims the ends and truncates to session.MaxTextLen runes.
func Clean(raw string) string {
	var collapsed strings.Builder
	collapsed.Grow(len(raw))
	inSpace := false
	for _, r := range raw {
		if unicode.IsSpace(r) {
			if !inSpace {
				collapsed.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		collapsed.WriteRune(r)
	}

	var kept strings.Builder
	kept.Grow(collapsed.Len())
	for _, r := range collapsed.String() {
		if session.Allowed(r) {
			kept.WriteRune(r)
		}
	}

	out := strings.TrimSpace(kept.String())
	// Only ASCII survives filtering, so bytes and runes line up.
	if len(out) > session.MaxTextLen {
		out = out[:session.MaxTextLen]
	}
	return out
}
