// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	WordListPath  string
	Words         int
	CapsPct       float64
	PunctPct      float64
	FocusWeak     bool
	WeakTop       int
	WeakFactor    float64
	WeakWindow    int
	History       bool
	FinishMessage string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Source      string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionRecord captures a completed practice run.
type SessionRecord struct {
	RunID      string
	StartedAt  time.Time
	EndedAt    time.Time
	Source     string
	TextLen    int
	Correct    int
	Errors     int
	Keystrokes int
	DurationMs int64
	WPM        int
	Accuracy   int
}

// CharStats stores per-character stats for a session.
type CharStats struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// CharAggregate aggregates character stats across sessions.
type CharAggregate struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID  int64
	RunID      string
	Source     string
	EndedAt    time.Time
	Correct    int
	Incorrect  int
	DurationMs int64
	WPM        int
	Accuracy   int
}
