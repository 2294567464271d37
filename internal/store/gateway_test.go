package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/verte-zerg/symdrill/internal/errmodel"
)

func TestErrorModelPersistsThroughStore(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	m := errmodel.Load(ctx, st, errmodel.DefaultParams(), zap.NewNop())
	tr := errmodel.NewTracker(m, st, zap.NewNop())
	tr.Account('[', '{')
	tr.Account('[', '{')
	tr.Account('[', '[')

	reloaded := errmodel.Load(ctx, st, errmodel.DefaultParams(), zap.NewNop())
	assert.Equal(t, 19, reloaded.ScoreFor('['))
	assert.Equal(t, 2, reloaded.ScoreFor('{'))
	assert.Equal(t, 99, reloaded.PairCount(errmodel.Pair{Expected: '[', Typed: '{'}))
}

func TestCorruptRecordLoadsEmpty(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.PutRecord(ctx, errmodel.RecordName, []byte("garbage")))

	m := errmodel.Load(ctx, st, errmodel.DefaultParams(), zap.NewNop())
	assert.Empty(t, m.RankedPairs())
	assert.Empty(t, m.TopScores(0))
}
