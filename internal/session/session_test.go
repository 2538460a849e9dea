package session

import (
	"errors"
	"strings"
	"testing"
)

func mustStart(t *testing.T, text string) Session {
	t.Helper()
	s, err := Start(text)
	if err != nil {
		t.Fatalf("start %q: %v", text, err)
	}
	return s
}

func TestStartFreshSession(t *testing.T) {
	s := mustStart(t, "hello there")
	if s.Cursor != 0 || s.ErrorCount != 0 {
		t.Fatalf("expected zero cursor and errors, got %d/%d", s.Cursor, s.ErrorCount)
	}
	if s.Active || s.Started {
		t.Fatalf("expected inactive unstarted session")
	}
	if s.Len() != 11 || s.Text() != "hello there" {
		t.Fatalf("unexpected text %q", s.Text())
	}
}

func TestStartRejectsInvalidText(t *testing.T) {
	cases := map[string]string{
		"empty":      "",
		"too long":   strings.Repeat("a", MaxTextLen+1),
		"disallowed": "café",
		"newline":    "a\nb",
		"symbol":     "a@b",
	}
	for name, text := range cases {
		if _, err := Start(text); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
	if _, err := Start(strings.Repeat("a", MaxTextLen)); err != nil {
		t.Fatalf("expected max length text to be accepted: %v", err)
	}
}

func TestCatScenario(t *testing.T) {
	s := mustStart(t, "cat")
	const t0 = int64(1_000)

	if !s.RecordKeystroke('c', t0) || s.Cursor != 1 {
		t.Fatalf("expected c to advance to 1, cursor=%d", s.Cursor)
	}
	if !s.Active || s.StartedAtMillis != t0 {
		t.Fatalf("expected session to start at first keystroke")
	}
	if s.RecordKeystroke('x', t0+100) || s.Cursor != 1 || s.ErrorCount != 1 {
		t.Fatalf("expected x to be an error without advancing, cursor=%d errors=%d", s.Cursor, s.ErrorCount)
	}
	if !s.RecordKeystroke('a', t0+200) || s.Cursor != 2 {
		t.Fatalf("expected a to advance to 2, cursor=%d", s.Cursor)
	}
	if !s.RecordKeystroke('t', t0+300) || s.Cursor != 3 {
		t.Fatalf("expected t to advance to 3, cursor=%d", s.Cursor)
	}
	if !s.IsFinished() || s.Active {
		t.Fatalf("expected finished inactive session")
	}
	if got := s.AccuracyPercent(); got != 50 {
		t.Fatalf("expected accuracy 50, got %d", got)
	}
	if len(s.Log) != 4 {
		t.Fatalf("expected 4 log entries, got %d", len(s.Log))
	}
	if s.Log[1].Expected != 'a' || s.Log[1].Actual != 'x' || s.Log[1].Correct {
		t.Fatalf("unexpected error entry: %+v", s.Log[1])
	}
}

func TestAccuracyBeforeAnyKeystroke(t *testing.T) {
	s := mustStart(t, "abc")
	if got := s.AccuracyPercent(); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
}

func TestAccuracyClampsAtZero(t *testing.T) {
	s := mustStart(t, "ab")
	s.RecordKeystroke('a', 0)
	for i := 0; i < 5; i++ {
		s.RecordKeystroke('z', int64(i))
	}
	if got := s.AccuracyPercent(); got != 0 {
		t.Fatalf("expected accuracy clamped to 0, got %d", got)
	}
}

func TestWordsPerMinute(t *testing.T) {
	s := mustStart(t, strings.Repeat("a", 60))
	for i := 0; i < 50; i++ {
		s.RecordKeystroke('a', 0)
	}
	if got := s.WordsPerMinute(60_000); got != 10 {
		t.Fatalf("expected 10 wpm, got %d", got)
	}
	if got := s.WordsPerMinute(0); got != 0 {
		t.Fatalf("expected 0 wpm with no elapsed time, got %d", got)
	}
	fresh := mustStart(t, "abc")
	if got := fresh.WordsPerMinute(60_000); got != 0 {
		t.Fatalf("expected 0 wpm before start, got %d", got)
	}
}

func TestElapsedSeconds(t *testing.T) {
	s := mustStart(t, "abc")
	if got := s.ElapsedSeconds(5_000); got != 0 {
		t.Fatalf("expected 0 before start, got %d", got)
	}
	s.RecordKeystroke('a', 10_000)
	if got := s.ElapsedSeconds(12_999); got != 2 {
		t.Fatalf("expected floor to 2, got %d", got)
	}
}

func TestUndoAtZeroIsNoop(t *testing.T) {
	s := mustStart(t, "abc")
	s.RecordKeystroke('x', 0)
	before := s
	s.UndoLastKeystroke()
	if s.Cursor != before.Cursor || s.ErrorCount != before.ErrorCount || len(s.Log) != len(before.Log) {
		t.Fatalf("expected undo at cursor 0 to be a no-op")
	}
}

func TestUndoKeepsErrors(t *testing.T) {
	s := mustStart(t, "abc")
	s.RecordKeystroke('a', 0)
	s.RecordKeystroke('q', 1)
	s.RecordKeystroke('b', 2)
	s.UndoLastKeystroke()
	if s.Cursor != 1 || s.ErrorCount != 1 {
		t.Fatalf("expected cursor 1 errors 1, got %d/%d", s.Cursor, s.ErrorCount)
	}
	if len(s.Log) != 2 {
		t.Fatalf("expected newest entry popped, got %d entries", len(s.Log))
	}
}

func TestUndoThenRetypeRestoresState(t *testing.T) {
	s := mustStart(t, "hello")
	s.RecordKeystroke('h', 0)
	s.RecordKeystroke('x', 1)
	s.RecordKeystroke('e', 2)
	cursor, errs := s.Cursor, s.ErrorCount

	s.UndoLastKeystroke()
	s.RecordKeystroke('e', 3)
	if s.Cursor != cursor || s.ErrorCount != errs {
		t.Fatalf("expected %d/%d after undo+retype, got %d/%d", cursor, errs, s.Cursor, s.ErrorCount)
	}
}

func TestFinishedSessionIgnoresInput(t *testing.T) {
	s := mustStart(t, "ab")
	s.RecordKeystroke('a', 0)
	s.RecordKeystroke('b', 1)
	if s.RecordKeystroke('c', 2) {
		t.Fatalf("expected keystroke after finish to be ignored")
	}
	s.UndoLastKeystroke()
	if !s.IsFinished() || s.ErrorCount != 0 || len(s.Log) != 2 {
		t.Fatalf("expected finished session to stay unchanged")
	}
}

func TestCursorBoundsAndMonotonicErrors(t *testing.T) {
	s := mustStart(t, "go on")
	input := []rune("gxo  oXn!!")
	prevErrors := 0
	for i, r := range input {
		if i%4 == 3 {
			s.UndoLastKeystroke()
		} else {
			s.RecordKeystroke(r, int64(i))
		}
		if s.Cursor < 0 || s.Cursor > s.Len() {
			t.Fatalf("cursor out of bounds: %d", s.Cursor)
		}
		if s.ErrorCount < prevErrors {
			t.Fatalf("error count decreased from %d to %d", prevErrors, s.ErrorCount)
		}
		prevErrors = s.ErrorCount
		if acc := s.AccuracyPercent(); acc < 0 || acc > 100 {
			t.Fatalf("accuracy out of range: %d", acc)
		}
	}
}

func TestSegments(t *testing.T) {
	s := mustStart(t, "abcd")
	s.RecordKeystroke('a', 0)
	typed, current, remaining := s.Segments()
	if typed != "a" || current != "b" || remaining != "cd" {
		t.Fatalf("unexpected segments %q %q %q", typed, current, remaining)
	}
	for _, r := range "bcd" {
		s.RecordKeystroke(r, 1)
	}
	typed, current, remaining = s.Segments()
	if typed != "abcd" || current != "" || remaining != "" {
		t.Fatalf("unexpected finished segments %q %q %q", typed, current, remaining)
	}
}

func TestLastAttemptWrong(t *testing.T) {
	s := mustStart(t, "ab")
	s.RecordKeystroke('x', 0)
	if !s.LastAttemptWrong() {
		t.Fatalf("expected last attempt to be wrong")
	}
	s.RecordKeystroke('a', 1)
	if s.LastAttemptWrong() {
		t.Fatalf("expected last attempt to be correct")
	}
}
