package errmodel

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type memRecords struct {
	data    map[string][]byte
	getErr  error
	putErr  error
	putRuns int
}

func newMemRecords() *memRecords {
	return &memRecords{data: map[string][]byte{}}
}

func (r *memRecords) GetRecord(_ context.Context, name string) ([]byte, bool, error) {
	if r.getErr != nil {
		return nil, false, r.getErr
	}
	v, ok := r.data[name]
	return v, ok, nil
}

func (r *memRecords) PutRecord(_ context.Context, name string, data []byte) error {
	r.putRuns++
	if r.putErr != nil {
		return r.putErr
	}
	r.data[name] = append([]byte(nil), data...)
	return nil
}

func TestLoadMissingRecord(t *testing.T) {
	m := Load(context.Background(), newMemRecords(), DefaultParams(), zap.NewNop())
	if len(m.RankedPairs()) != 0 || len(m.TopScores(0)) != 0 {
		t.Fatalf("expected empty model")
	}
}

func TestLoadCorruptRecord(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	records := newMemRecords()
	records.data[RecordName] = []byte(`{"error_score": {"a": "ten"}}`)

	m := Load(context.Background(), records, DefaultParams(), zap.New(core))
	if m.ScoreFor('a') != 0 {
		t.Fatalf("expected empty model on corrupt record")
	}
	if logs.FilterMessage("failed to parse error model, starting empty").Len() != 1 {
		t.Fatalf("expected parse failure to be logged, got %v", logs.All())
	}
}

func TestLoadReadError(t *testing.T) {
	records := newMemRecords()
	records.getErr = errors.New("disk on fire")
	m := Load(context.Background(), records, DefaultParams(), nil)
	if len(m.TopScores(0)) != 0 {
		t.Fatalf("expected empty model on read error")
	}
}

func TestTrackerPersistsEveryKeystroke(t *testing.T) {
	records := newMemRecords()
	tr := NewTracker(New(DefaultParams()), records, zap.NewNop())

	tr.Account('a', 'b')
	tr.Account('a', 'a')
	if records.putRuns != 2 {
		t.Fatalf("expected 2 saves, got %d", records.putRuns)
	}

	var saved map[string]map[string]int
	if err := json.Unmarshal(records.data[RecordName], &saved); err != nil {
		t.Fatalf("decode saved record: %v", err)
	}
	if saved["error_score"]["a"] != 9 {
		t.Fatalf("expected saved score 9, got %v", saved["error_score"])
	}
	if saved["error_stats"]["a -> b"] != 49 {
		t.Fatalf("expected saved pair 49, got %v", saved["error_stats"])
	}

	reloaded := Load(context.Background(), records, DefaultParams(), nil)
	current := tr.Snapshot()
	if reloaded.ScoreFor('a') != current.ScoreFor('a') || reloaded.ScoreFor('b') != current.ScoreFor('b') {
		t.Fatalf("reloaded model differs from tracker state")
	}
}

func TestTrackerKeepsStateOnSaveFailure(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	records := newMemRecords()
	records.putErr = errors.New("quota exceeded")
	tr := NewTracker(New(DefaultParams()), records, zap.New(core))

	tr.Account('x', 'y')
	if got := tr.Snapshot().ScoreFor('x'); got != 10 {
		t.Fatalf("expected in-memory score 10, got %d", got)
	}
	if got := tr.ScoreTier('x'); got != 1 {
		t.Fatalf("expected tier 1, got %d", got)
	}
	entries := logs.FilterMessage("failed to save error model").All()
	if len(entries) != 1 {
		t.Fatalf("expected one logged save failure, got %d", len(entries))
	}
	if entries[0].ContextMap()["expected"] != "x" {
		t.Fatalf("expected context field for expected char, got %v", entries[0].ContextMap())
	}
}

func TestTrackerSnapshotIsIndependent(t *testing.T) {
	tr := NewTracker(New(DefaultParams()), newMemRecords(), nil)
	tr.Account('a', 'b')
	snap := tr.Snapshot()
	tr.Account('a', 'b')
	if snap.ScoreFor('a') != 10 {
		t.Fatalf("snapshot changed after later keystrokes: %d", snap.ScoreFor('a'))
	}
	if len(tr.RankedPairs()) != 1 {
		t.Fatalf("expected one pair")
	}
}
