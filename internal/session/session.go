// Package session tracks progress through a single typing practice run.
package session

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

// MaxTextLen is the largest reference text a session accepts, in runes.
const MaxTextLen = 1500

// CharsPerWord is the standard word length used for WPM.
const CharsPerWord = 5

// ErrInvalidInput is returned by Start for text outside the length or character constraints.
var ErrInvalidInput = errors.New("invalid input text")

// Keystroke is one recorded attempt at the rune under the cursor.
type Keystroke struct {
	Expected        rune
	Actual          rune
	Correct         bool
	TimestampMillis int64
}

// Session is the state of one practice run over a fixed reference text.
// It is a plain value: the owner passes it to every operation and no
// operation retains it.
type Session struct {
	text []rune

	Cursor     int
	ErrorCount int
	Log        []Keystroke

	StartedAtMillis int64
	EndedAtMillis   int64
	Started         bool
	Active          bool
}

// Start validates text and returns a fresh session over it.
func Start(text string) (Session, error) {
	if !utf8.ValidString(text) {
		return Session{}, fmt.Errorf("%w: not valid UTF-8", ErrInvalidInput)
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return Session{}, fmt.Errorf("%w: text is empty", ErrInvalidInput)
	}
	if len(runes) > MaxTextLen {
		return Session{}, fmt.Errorf("%w: text has %d characters (max %d)", ErrInvalidInput, len(runes), MaxTextLen)
	}
	for i, r := range runes {
		if !Allowed(r) {
			return Session{}, fmt.Errorf("%w: character %q at position %d is not allowed", ErrInvalidInput, r, i)
		}
	}
	return Session{text: runes}, nil
}

// Allowed reports whether r belongs to the practice character set:
// ASCII word characters, space, and .,!?;:()'-
func Allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	switch r {
	case '_', ' ', '.', ',', '!', '?', ';', ':', '(', ')', '\'', '-':
		return true
	}
	return false
}

// Text returns the reference text.
func (s *Session) Text() string {
	return string(s.text)
}

// Len returns the reference text length in runes.
func (s *Session) Len() int {
	return len(s.text)
}

// RecordKeystroke records an attempt to type actual at the cursor and reports
// whether the cursor advanced. Once the session is finished the call is a no-op.
func (s *Session) RecordKeystroke(actual rune, nowMillis int64) bool {
	if s.IsFinished() {
		return false
	}
	if !s.Started {
		s.Started = true
		s.StartedAtMillis = nowMillis
		s.Active = true
	}
	expected := s.text[s.Cursor]
	correct := actual == expected
	// Full slice expression so appends never write into a log shared with a copy.
	s.Log = append(s.Log[:len(s.Log):len(s.Log)], Keystroke{
		Expected:        expected,
		Actual:          actual,
		Correct:         correct,
		TimestampMillis: nowMillis,
	})
	if !correct {
		s.ErrorCount++
		return false
	}
	s.Cursor++
	if s.IsFinished() {
		s.Active = false
		s.EndedAtMillis = nowMillis
	}
	return true
}

// UndoLastKeystroke steps the cursor back one rune and drops the newest log
// entry. ErrorCount is never rolled back. No-op at cursor 0 or once finished.
func (s *Session) UndoLastKeystroke() {
	if s.Cursor == 0 || s.IsFinished() {
		return
	}
	s.Cursor--
	if len(s.Log) > 0 {
		s.Log = s.Log[:len(s.Log)-1:len(s.Log)-1]
	}
}

// IsFinished reports whether the whole reference text has been typed.
func (s *Session) IsFinished() bool {
	return len(s.text) > 0 && s.Cursor == len(s.text)
}

// ElapsedSeconds returns whole seconds since the first keystroke.
func (s *Session) ElapsedSeconds(nowMillis int64) int {
	if !s.Started {
		return 0
	}
	delta := nowMillis - s.StartedAtMillis
	if delta <= 0 {
		return 0
	}
	return int(delta / 1000)
}

// WordsPerMinute returns correct progress in five-rune words per elapsed minute.
func (s *Session) WordsPerMinute(nowMillis int64) int {
	if !s.Started {
		return 0
	}
	minutes := float64(nowMillis-s.StartedAtMillis) / 60000.0
	if minutes <= 0 {
		return 0
	}
	words := float64(s.Cursor) / CharsPerWord
	return int(math.Round(words / minutes))
}

// AccuracyPercent returns (cursor-errors)/(cursor+errors) as a percentage
// clamped to [0, 100]. Errors count against both terms.
func (s *Session) AccuracyPercent() int {
	total := s.Cursor + s.ErrorCount
	if total == 0 {
		return 100
	}
	pct := math.Round(float64(s.Cursor-s.ErrorCount) / float64(total) * 100)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return int(pct)
}

// LastAttemptWrong reports whether the newest keystroke missed the rune now under the cursor.
func (s *Session) LastAttemptWrong() bool {
	if len(s.Log) == 0 || s.IsFinished() {
		return false
	}
	last := s.Log[len(s.Log)-1]
	return !last.Correct && last.Expected == s.text[s.Cursor]
}

// Segments splits the reference text around the cursor for display.
// current is empty once the session is finished.
func (s *Session) Segments() (typed, current, remaining string) {
	typed = string(s.text[:s.Cursor])
	if s.Cursor < len(s.text) {
		current = string(s.text[s.Cursor])
		remaining = string(s.text[s.Cursor+1:])
	}
	return typed, current, remaining
}
