package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/symdrill/internal/errmodel"
	"github.com/verte-zerg/symdrill/internal/model"
	"github.com/verte-zerg/symdrill/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "symdrill.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).UTC().Add(time.Duration(i) * time.Minute)
		end := start.Add(30 * time.Second)
		stats := model.SessionStats{
			StartedAt:  start,
			EndedAt:    end,
			PromptLen:  50,
			Correct:    49,
			Incorrect:  1,
			DurationMs: end.Sub(start).Milliseconds(),
		}
		charStats := []model.CharStats{
			{Char: "a", Correct: 5, Incorrect: 0},
			{Char: "b", Correct: 4, Incorrect: 1},
		}
		id, err := st.InsertSession(ctx, stats, charStats)
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}

	tr := errmodel.NewTracker(errmodel.New(errmodel.DefaultParams()), st, zap.NewNop())
	tr.Account('b', 'n')

	cfg := model.StatsConfig{
		Last:        2,
		CurveWindow: 1,
	}
	report, err := BuildReport(ctx, st, cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].SessionID != ids[1] || report.Sessions[1].SessionID != ids[2] {
		t.Fatalf("unexpected session ids: %+v", report.Sessions)
	}
	if len(report.WindowSessionIDs) != 1 || report.WindowSessionIDs[0] != ids[2] {
		t.Fatalf("unexpected window session ids: %v", report.WindowSessionIDs)
	}
	if len(report.CharAggsAll) != 2 || report.CharAggsAll[1].Correct != 8 {
		t.Fatalf("unexpected aggregates for all sessions: %+v", report.CharAggsAll)
	}
	if len(report.CharAggsWindow) != 2 || report.CharAggsWindow[1].Correct != 4 {
		t.Fatalf("unexpected aggregates for window sessions: %+v", report.CharAggsWindow)
	}
	if report.Errors == nil || report.Errors.ScoreFor('b') != 10 {
		t.Fatalf("expected persisted error model in report")
	}
}
