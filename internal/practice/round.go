package practice

import (
	"sort"
	"time"

	"github.com/verte-zerg/symdrill/internal/model"
)

// Round is the outcome of a completed round.
type Round struct {
	Stats model.SessionStats
	Chars []model.CharStats
}

type charStat struct {
	correct      int
	incorrect    int
	latencySumMs int64
	latencyCount int64
}

// roundTracker accumulates timing and per-character counts. Backspace does
// not rewind it: every accepted keystroke counts once.
type roundTracker struct {
	started       bool
	done          bool
	startedAt     time.Time
	endedAt       time.Time
	prevCorrectAt time.Time
	promptLen     int
	correct       int
	incorrect     int
	chars         map[rune]*charStat
}

func (t *roundTracker) record(expected rune, correct bool, now time.Time) {
	if !t.started {
		t.started = true
		t.startedAt = now
	}
	if t.chars == nil {
		t.chars = map[rune]*charStat{}
	}
	entry, ok := t.chars[expected]
	if !ok {
		entry = &charStat{}
		t.chars[expected] = entry
	}
	if !correct {
		t.incorrect++
		entry.incorrect++
		return
	}
	t.correct++
	entry.correct++
	if !t.prevCorrectAt.IsZero() {
		entry.latencySumMs += now.Sub(t.prevCorrectAt).Milliseconds()
		entry.latencyCount++
	}
	t.prevCorrectAt = now
}

func (t *roundTracker) finish(now time.Time, promptLen int) {
	t.done = true
	t.endedAt = now
	t.promptLen = promptLen
}

func (t *roundTracker) result() Round {
	stats := model.SessionStats{
		StartedAt:  t.startedAt,
		EndedAt:    t.endedAt,
		PromptLen:  t.promptLen,
		Correct:    t.correct,
		Incorrect:  t.incorrect,
		DurationMs: t.endedAt.Sub(t.startedAt).Milliseconds(),
	}
	chars := make([]model.CharStats, 0, len(t.chars))
	for ch, entry := range t.chars {
		chars = append(chars, model.CharStats{
			Char:         string(ch),
			Correct:      entry.correct,
			Incorrect:    entry.incorrect,
			LatencySumMs: entry.latencySumMs,
			LatencyCount: entry.latencyCount,
		})
	}
	sort.Slice(chars, func(i, j int) bool {
		return chars[i].Char < chars[j].Char
	})
	return Round{Stats: stats, Chars: chars}
}
