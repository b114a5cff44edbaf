package roster

import (
	"context"
	"errors"
	"time"

	"mlist-manager/core/logger"
	"mlist-manager/core/persist"
	"mlist-manager/core/reconcile"
	"mlist-manager/feature/history"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder stores a history row for every run.
type Recorder interface {
	Record(ctx context.Context, run *history.Run) error
}

// Summary describes the roster files as they are on disk.
type Summary struct {
	Counts reconcile.Counts `json:"counts"`
	// RemovedPresent is false when the removed file has not been created yet.
	RemovedPresent bool      `json:"removed_present"`
	LoadedAt       time.Time `json:"loaded_at"`
}

// Service runs roster operations and the side work around them.
type Service struct {
	store    *persist.Store
	cfg      reconcile.Config
	logger   *zap.Logger
	recorder Recorder
	mirror   *Mirror
	cache    *summaryCache
}

// NewService creates a roster service. recorder and mirror are optional.
func NewService(store *persist.Store, cfg reconcile.Config, logger *zap.Logger, recorder Recorder, mirror *Mirror, summaryTTL time.Duration) *Service {
	return &Service{
		store:    store,
		cfg:      cfg,
		logger:   logger,
		recorder: recorder,
		mirror:   mirror,
		cache:    newSummaryCache(summaryTTL),
	}
}

// Run executes op. Mirroring and history failures do not fail the run; they
// are reported in Result.Errors.
func (s *Service) Run(ctx context.Context, op reconcile.Operation) (*reconcile.Result, error) {
	runID := uuid.NewString()
	l := logger.WithRunID(s.logger, runID).With(zap.String("operation", string(op)))

	l.Debug("Running roster operation",
		zap.String("full", s.cfg.Full),
		zap.String("current", s.cfg.Current),
		zap.String("removed", s.cfg.Removed),
		zap.String("input", s.cfg.Input),
		zap.String("output", s.cfg.Output),
	)

	started := time.Now()
	res, err := reconcile.Run(ctx, op, s.store, s.cfg)
	finished := time.Now()

	if err != nil {
		l.Debug("Roster operation failed", zap.Error(err))
	} else {
		res.RunID = runID
		if len(res.Written) > 0 {
			s.cache.invalidate()
		}
		if s.mirror != nil && len(res.Written) > 0 {
			if mErr := s.mirror.Upload(ctx, res.Written); mErr != nil {
				l.Warn("Mirroring roster files failed", zap.Error(mErr))
				res.Errors = append(res.Errors, mErr.Error())
			} else {
				l.Debug("Mirrored roster files", zap.Strings("files", res.Written))
			}
		}
	}

	// Usage errors never reached the files and are not worth a history row.
	if s.recorder != nil && !errors.Is(err, reconcile.ErrUsage) {
		run := history.NewRun(runID, op, started, finished, res, err)
		if rErr := s.recorder.Record(ctx, run); rErr != nil {
			l.Warn("Recording run history failed", zap.Error(rErr))
			if res != nil {
				res.Errors = append(res.Errors, rErr.Error())
			}
		}
	}

	return res, err
}

// Summary returns the set sizes of the roster files, served from cache while fresh.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	return s.cache.getOrBuild(ctx, s.buildSummary)
}

func (s *Service) buildSummary(ctx context.Context) (*Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r, err := reconcile.Load(s.store, s.cfg)
	if err != nil {
		return nil, err
	}

	removedPresent, err := s.store.Exists(s.cfg.Removed)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Counts:         r.Counts(),
		RemovedPresent: removedPresent,
		LoadedAt:       time.Now(),
	}, nil
}
