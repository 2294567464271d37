// Package practice implements the keystroke state machine for a practice round.
package practice

import (
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/verte-zerg/symdrill/internal/errmodel"
	"github.com/verte-zerg/symdrill/internal/generator"
	"github.com/verte-zerg/symdrill/internal/model"
)

// Key names with special meaning. Every other multi-character name is ignored.
const (
	KeyBackspace = "Backspace"
	KeyEnter     = "Enter"
)

// MistakeCapacity bounds the recent mistakes buffer.
const MistakeCapacity = 10

// State is the round state.
type State int

const (
	// InProgress means the cursor has not reached the end of the prompt.
	InProgress State = iota
	// Complete means every prompt character has been typed.
	Complete
)

func (s State) String() string {
	if s == Complete {
		return "complete"
	}
	return "in-progress"
}

// Mark tags a prompt character for rendering.
type Mark int

// Marks, in rendering terms. Cursor is the first untyped position.
const (
	Untyped Mark = iota
	Correct
	Incorrect
	Cursor
)

// Cell is one prompt character and its mark.
type Cell struct {
	Char rune
	Mark Mark
}

// ErrorModel receives scored keystrokes.
type ErrorModel interface {
	generator.Scorer
	Account(expected, typed rune)
}

// PromptGenerator builds a new prompt from the current error model.
type PromptGenerator interface {
	Generate(scores generator.Scorer) []rune
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides time.Now for round timing.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine holds the state of one practice session across rounds.
// It is not safe for concurrent use.
type Engine struct {
	errs   ErrorModel
	gen    PromptGenerator
	now    func() time.Time
	logger *zap.Logger

	prompt      []rune
	correctness []bool
	mistakes    mistakeQueue
	round       roundTracker
}

// NewEngine starts an engine with a freshly generated prompt.
func NewEngine(errs ErrorModel, gen PromptGenerator, opts ...Option) *Engine {
	e := &Engine{
		errs:     errs,
		gen:      gen,
		now:      time.Now,
		logger:   zap.NewNop(),
		mistakes: mistakeQueue{capacity: MistakeCapacity},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.newRound()
	return e
}

// HandleKey applies one key event. It reports whether the key was consumed,
// so hosts know when to suppress default handling.
func (e *Engine) HandleKey(key string) bool {
	switch key {
	case KeyBackspace:
		if e.Complete() {
			return false
		}
		if len(e.correctness) > 0 {
			e.correctness = e.correctness[:len(e.correctness)-1]
		}
		return true
	case KeyEnter:
		if !e.Complete() {
			return false
		}
		e.newRound()
		return true
	}

	typed, size := utf8.DecodeRuneInString(key)
	if size == 0 || size != len(key) || !errmodel.InAlphabet(typed) {
		return false
	}
	if e.Complete() {
		return false
	}

	pos := len(e.correctness)
	expected := e.prompt[pos]
	correct := expected == typed
	e.correctness = append(e.correctness, correct)
	e.errs.Account(expected, typed)
	if !correct {
		e.mistakes.push(model.Mistake{Expected: expected, Typed: typed})
	}
	e.round.record(expected, correct, e.now())
	if e.Complete() {
		e.round.finish(e.now(), len(e.prompt))
		e.logger.Debug("round complete",
			zap.Int("correct", e.round.correct),
			zap.Int("incorrect", e.round.incorrect))
	}
	return true
}

// State returns the current round state.
func (e *Engine) State() State {
	if len(e.correctness) == len(e.prompt) {
		return Complete
	}
	return InProgress
}

// Complete reports whether every prompt character has been typed.
func (e *Engine) Complete() bool {
	return e.State() == Complete
}

// Cursor returns the index of the next character to type.
func (e *Engine) Cursor() int {
	return len(e.correctness)
}

// Prompt returns a copy of the current prompt.
func (e *Engine) Prompt() []rune {
	return append([]rune(nil), e.prompt...)
}

// Correctness returns a copy of the per-position results so far.
func (e *Engine) Correctness() []bool {
	return append([]bool(nil), e.correctness...)
}

// Cells tags every prompt character as correct, incorrect, cursor or untyped.
func (e *Engine) Cells() []Cell {
	cells := make([]Cell, len(e.prompt))
	for i, r := range e.prompt {
		mark := Untyped
		switch {
		case i < len(e.correctness) && e.correctness[i]:
			mark = Correct
		case i < len(e.correctness):
			mark = Incorrect
		case i == len(e.correctness):
			mark = Cursor
		}
		cells[i] = Cell{Char: r, Mark: mark}
	}
	return cells
}

// RecentMistakes returns up to MistakeCapacity mistakes, most recent first.
func (e *Engine) RecentMistakes() []model.Mistake {
	return e.mistakes.newestFirst()
}

// RoundResult returns the timing and per-character stats of the round once
// it is complete.
func (e *Engine) RoundResult() (Round, bool) {
	if !e.Complete() || !e.round.done {
		return Round{}, false
	}
	return e.round.result(), true
}

func (e *Engine) newRound() {
	e.prompt = e.gen.Generate(e.errs)
	e.correctness = e.correctness[:0]
	e.round = roundTracker{}
	e.logger.Debug("new prompt", zap.String("prompt", string(e.prompt)))
}

type mistakeQueue struct {
	capacity int
	items    []model.Mistake
}

func (q *mistakeQueue) push(m model.Mistake) {
	q.items = append(q.items, m)
	if len(q.items) > q.capacity {
		q.items = append(q.items[:0], q.items[len(q.items)-q.capacity:]...)
	}
}

func (q *mistakeQueue) newestFirst() []model.Mistake {
	out := make([]model.Mistake, len(q.items))
	for i, m := range q.items {
		out[len(q.items)-1-i] = m
	}
	return out
}
