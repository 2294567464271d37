package stats

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/symdrill/internal/errmodel"
	"github.com/verte-zerg/symdrill/internal/model"
	"github.com/verte-zerg/symdrill/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions         []model.SessionAggregate
	WindowSessionIDs []int64
	CharAggsAll      []model.CharAggregate
	CharAggsWindow   []model.CharAggregate
	Errors           *errmodel.Model
}

// BuildReport loads round history and the current error model.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig, logger *zap.Logger) (Report, error) {
	var report Report
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report.Errors = errmodel.Load(gctx, st, errmodel.DefaultParams(), logger)
		return nil
	})
	g.Go(func() error {
		sessions, err := st.ListSessions(gctx, cfg)
		if err != nil {
			return err
		}
		if cfg.Last > 0 && len(sessions) > cfg.Last {
			sessions = sessions[len(sessions)-cfg.Last:]
		}
		windowIDs := lastSessionIDs(sessions, cfg.CurveWindow)
		all, err := st.ListCharAggregatesForSessions(gctx, sessionIDs(sessions))
		if err != nil {
			return err
		}
		window, err := st.ListCharAggregatesForSessions(gctx, windowIDs)
		if err != nil {
			return err
		}
		report.Sessions = sessions
		report.WindowSessionIDs = windowIDs
		report.CharAggsAll = all
		report.CharAggsWindow = window
		return nil
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return report, nil
}

func sessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}

func lastSessionIDs(sessions []model.SessionAggregate, window int) []int64 {
	if window <= 0 || len(sessions) <= window {
		return sessionIDs(sessions)
	}
	return sessionIDs(sessions[len(sessions)-window:])
}
