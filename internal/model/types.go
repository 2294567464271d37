// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Seed       int64
	PairsShown int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
	TopScores   int
}

// Mistake is a single expected/typed confusion.
type Mistake struct {
	Expected rune
	Typed    rune
}

// SessionStats captures a completed practice round.
type SessionStats struct {
	StartedAt  time.Time
	EndedAt    time.Time
	PromptLen  int
	Correct    int
	Incorrect  int
	DurationMs int64
}

// CharStats stores per-character stats for a round.
type CharStats struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// CharAggregate aggregates character stats across rounds.
type CharAggregate struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// SessionAggregate summarizes a round for reporting.
type SessionAggregate struct {
	SessionID  int64
	EndedAt    time.Time
	Correct    int
	Incorrect  int
	DurationMs int64
}
