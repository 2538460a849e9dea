package session

// Event is an input to Apply.
type Event interface {
	isEvent()
}

// KeystrokeEvent is a single typed rune.
type KeystrokeEvent struct {
	Rune       rune
	TimeMillis int64
}

// BackspaceEvent deletes the last typed rune.
type BackspaceEvent struct{}

// TickEvent is a periodic clock reading. It never changes the session.
type TickEvent struct {
	TimeMillis int64
}

func (KeystrokeEvent) isEvent() {}
func (BackspaceEvent) isEvent() {}
func (TickEvent) isEvent()      {}

// Apply returns the session that results from ev. s itself is left unchanged.
func Apply(s Session, ev Event) Session {
	switch ev := ev.(type) {
	case KeystrokeEvent:
		s.RecordKeystroke(ev.Rune, ev.TimeMillis)
	case BackspaceEvent:
		s.UndoLastKeystroke()
	case TickEvent:
	}
	return s
}

// Stats is a read-only snapshot of the derived display values.
type Stats struct {
	ElapsedSeconds int
	WPM            int
	Accuracy       int
	Finished       bool
	Started        bool
}

// Snapshot derives display stats at nowMillis. A finished session is
// measured at its final keystroke so the numbers stop moving.
func Snapshot(s Session, nowMillis int64) Stats {
	if s.IsFinished() {
		nowMillis = s.EndedAtMillis
	}
	return Stats{
		ElapsedSeconds: s.ElapsedSeconds(nowMillis),
		WPM:            s.WordsPerMinute(nowMillis),
		Accuracy:       s.AccuracyPercent(),
		Finished:       s.IsFinished(),
		Started:        s.Started,
	}
}
