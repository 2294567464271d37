package errmodel

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// RecordName is the name under which the model is persisted.
const RecordName = "typing_errors"

// Records loads and stores named blobs.
type Records interface {
	GetRecord(ctx context.Context, name string) ([]byte, bool, error)
	PutRecord(ctx context.Context, name string, data []byte) error
}

// Load reads the persisted model. A missing or unreadable record yields an
// empty model; the failure is logged, never returned.
func Load(ctx context.Context, records Records, params Params, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := New(params)
	data, ok, err := records.GetRecord(ctx, RecordName)
	if err != nil {
		logger.Warn("failed to load error model, starting empty", zap.Error(err))
		return m
	}
	if !ok {
		logger.Debug("no error model stored yet")
		return m
	}
	if err := json.Unmarshal(data, m); err != nil {
		logger.Warn("failed to parse error model, starting empty", zap.Error(err))
		return New(params)
	}
	logger.Debug("loaded error model",
		zap.Int("scores", len(m.scores)),
		zap.Int("pairs", len(m.pairs)))
	return m
}

// Tracker applies keystrokes to a model and saves it after each one.
type Tracker struct {
	model   *Model
	records Records
	logger  *zap.Logger
}

// NewTracker wraps m. A nil logger disables logging.
func NewTracker(m *Model, records Records, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{model: m, records: records, logger: logger}
}

// Account updates the model and synchronously persists it. Save failures
// are logged; the in-memory update is kept either way.
func (t *Tracker) Account(expected, typed rune) {
	t.model.Account(expected, typed)
	if err := t.Save(context.Background()); err != nil {
		t.logger.Error("failed to save error model",
			zap.String("expected", string(expected)),
			zap.String("typed", string(typed)),
			zap.Error(err))
	}
}

// Save writes the full model, replacing the stored record.
func (t *Tracker) Save(ctx context.Context) error {
	data, err := json.Marshal(t.model)
	if err != nil {
		return fmt.Errorf("failed to encode error model: %w", err)
	}
	if err := t.records.PutRecord(ctx, RecordName, data); err != nil {
		return fmt.Errorf("failed to store error model: %w", err)
	}
	return nil
}

// ScoreTier returns the score tier of c.
func (t *Tracker) ScoreTier(c rune) int {
	return t.model.ScoreTier(c)
}

// RankedPairs returns confusion pairs, most frequent first.
func (t *Tracker) RankedPairs() []PairStat {
	return t.model.RankedPairs()
}

// Snapshot returns a copy of the current model.
func (t *Tracker) Snapshot() *Model {
	return t.model.Clone()
}
