// Package errmodel tracks how error-prone each symbol is and persists it.
package errmodel

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

const pairSeparator = " -> "

// Params controls how scores grow and decay.
type Params struct {
	// ScoreIncr is added to the expected character's score on a mistake.
	ScoreIncr int
	// PairIncr is added to the confusion pair counter on a mistake.
	PairIncr int
	// Decay is subtracted from scores and pair counters on a correct keystroke.
	Decay int
}

// DefaultParams returns the stock increments.
func DefaultParams() Params {
	return Params{ScoreIncr: 10, PairIncr: 50, Decay: 1}
}

// Pair is an expected character and the character typed in its place.
type Pair struct {
	Expected rune
	Typed    rune
}

// Key formats the pair as "<expected> -> <typed>".
func (p Pair) Key() string {
	return string(p.Expected) + pairSeparator + string(p.Typed)
}

// ParsePairKey parses a key produced by Pair.Key.
func ParsePairKey(key string) (Pair, error) {
	expected, size := utf8.DecodeRuneInString(key)
	if expected == utf8.RuneError || !strings.HasPrefix(key[size:], pairSeparator) {
		return Pair{}, fmt.Errorf("malformed pair key %q", key)
	}
	rest := key[size+len(pairSeparator):]
	typed, size := utf8.DecodeRuneInString(rest)
	if typed == utf8.RuneError || size != len(rest) {
		return Pair{}, fmt.Errorf("malformed pair key %q", key)
	}
	return Pair{Expected: expected, Typed: typed}, nil
}

// PairStat is a ranked confusion pair.
type PairStat struct {
	Pair  Pair
	Count int
	Tier  int
}

// CharScore is a character with its current error score.
type CharScore struct {
	Char  rune
	Score int
}

// Model holds per-character error scores and per-pair confusion counters.
// The zero value is not usable; call New.
type Model struct {
	params Params
	scores map[rune]int
	pairs  map[Pair]int
}

// New returns an empty model.
func New(params Params) *Model {
	if params == (Params{}) {
		params = DefaultParams()
	}
	if params.ScoreIncr <= 0 {
		params.ScoreIncr = DefaultParams().ScoreIncr
	}
	if params.PairIncr <= 0 {
		params.PairIncr = DefaultParams().PairIncr
	}
	if params.Decay < 0 {
		params.Decay = 0
	}
	return &Model{
		params: params,
		scores: map[rune]int{},
		pairs:  map[Pair]int{},
	}
}

// ScoreFor returns the error score of c, zero when unseen.
func (m *Model) ScoreFor(c rune) int {
	return m.scores[c]
}

// PairCount returns the confusion counter for p, zero when unseen.
func (m *Model) PairCount(p Pair) int {
	return m.pairs[p]
}

// ScoreTier buckets the score of c into whole increments, rounding up.
func (m *Model) ScoreTier(c rune) int {
	return ceilDiv(m.scores[c], m.params.ScoreIncr)
}

// Account records one scored keystroke.
func (m *Model) Account(expected, typed rune) {
	if expected == typed {
		m.scores[expected] = decay(m.scores[expected], m.params.Decay)
		for p, v := range m.pairs {
			if p.Expected == expected {
				m.pairs[p] = decay(v, m.params.Decay)
			}
		}
		return
	}
	m.scores[expected] += m.params.ScoreIncr
	// The substitute only becomes slightly suspect, regardless of ScoreIncr.
	m.scores[typed]++
	m.pairs[Pair{Expected: expected, Typed: typed}] += m.params.PairIncr
}

// RankedPairs returns every confusion pair ordered by descending count.
func (m *Model) RankedPairs() []PairStat {
	out := make([]PairStat, 0, len(m.pairs))
	for p, v := range m.pairs {
		out = append(out, PairStat{Pair: p, Count: v, Tier: ceilDiv(v, m.params.PairIncr)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Pair.Key() < out[j].Pair.Key()
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// TopScores returns up to n characters with a positive score, highest first.
// A non-positive n returns all of them.
func (m *Model) TopScores(n int) []CharScore {
	out := make([]CharScore, 0, len(m.scores))
	for c, v := range m.scores {
		if v > 0 {
			out = append(out, CharScore{Char: c, Score: v})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score == out[j].Score {
			return out[i].Char < out[j].Char
		}
		return out[i].Score > out[j].Score
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// Clone returns a deep copy.
func (m *Model) Clone() *Model {
	c := New(m.params)
	for k, v := range m.scores {
		c.scores[k] = v
	}
	for k, v := range m.pairs {
		c.pairs[k] = v
	}
	return c
}

func decay(v, by int) int {
	if v <= by {
		return 0
	}
	return v - by
}

func ceilDiv(v, d int) int {
	if v <= 0 {
		return 0
	}
	return (v + d - 1) / d
}
