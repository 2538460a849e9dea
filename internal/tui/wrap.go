package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes styles the session segments: typed runes, the current word,
// the cursor rune itself and the rest. miss marks the cursor rune after a wrong
// attempt. Nothing is highlighted while paused.
func buildStyledRunes(typed, cursorRune, remaining string, miss, focused bool) []styledRune {
	cursor := len([]rune(typed))
	target := []rune(typed + cursorRune + remaining)
	var current *wordRange
	if focused {
		current = wordForCursor(findWords(target), cursor)
	}

	out := make([]styledRune, 0, len(target))
	for i, r := range target {
		style := pendingStyle
		switch {
		case i < cursor:
			style = correctStyle
		case i == cursor && focused && miss:
			style = missStyle
		case i == cursor && focused:
			style = cursorStyle
		case current != nil && i >= current.start && i < current.end:
			style = currentWordStyle
		}
		displayed := r
		if i == cursor && miss && r == ' ' {
			displayed = '•'
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: r == ' ',
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(target []rune) []wordRange {
	var words []wordRange
	start := -1
	for i := 0; i <= len(target); i++ {
		atBreak := i == len(target) || target[i] == ' '
		switch {
		case atBreak && start >= 0:
			words = append(words, wordRange{start: start, end: i})
			start = -1
		case !atBreak && start < 0:
			start = i
		}
	}
	return words
}

// wordForCursor returns the word containing the cursor, or the next word when
// the cursor sits on a space, or the last word past the end.
func wordForCursor(words []wordRange, cursor int) *wordRange {
	if len(words) == 0 {
		return nil
	}
	for i := range words {
		if cursor < words[i].end {
			return &words[i]
		}
	}
	return &words[len(words)-1]
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks lines after the last space that fits within width.
// The space stays as the last cell of the broken line, since it may be the
// rune under the cursor. Words longer than width are split.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var lines []string
	lineStart, lineWidth, lastSpace := 0, 0, -1
	for i := 0; i < len(runes); i++ {
		if lineWidth+runes[i].width > width && i > lineStart {
			breakAt := i
			if lastSpace >= lineStart {
				breakAt = lastSpace + 1
			}
			lines = append(lines, renderStyledRunes(runes[lineStart:breakAt]))
			lineStart, lastSpace = breakAt, -1
			lineWidth = 0
			for _, r := range runes[lineStart:i] {
				lineWidth += r.width
			}
		}
		lineWidth += runes[i].width
		if runes[i].isSpace {
			lastSpace = i
		}
	}
	lines = append(lines, renderStyledRunes(runes[lineStart:]))
	return strings.Join(lines, "\n")
}
