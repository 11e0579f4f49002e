package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/talent-matcher/internal/logger"
	"alfredoptarigan/talent-matcher/internal/matching"
	"alfredoptarigan/talent-matcher/internal/models"
	"alfredoptarigan/talent-matcher/internal/repositories"
)

// finalizeTimeout bounds the status write of a run after its context is gone.
const finalizeTimeout = 5 * time.Second

type MatchService interface {
	Match(ctx context.Context, req matching.MatchRequest) (*matching.MatchResponse, error)
	Enqueue(ctx context.Context, req matching.MatchRequest, requestedBy string) (*models.MatchRun, error)
	ProcessRun(ctx context.Context, runID uuid.UUID) error
	GetRun(ctx context.Context, runID uuid.UUID) (*models.MatchRun, error)
}

type matchService struct {
	engine *matching.Engine
	runs   repositories.MatchRunRepository
	logger *zap.Logger
}

func NewMatchService(engine *matching.Engine, runs repositories.MatchRunRepository, logger *zap.Logger) MatchService {
	return &matchService{
		engine: engine,
		runs:   runs,
		logger: logger,
	}
}

// Match implements MatchService.
func (s *matchService) Match(ctx context.Context, req matching.MatchRequest) (*matching.MatchResponse, error) {
	start := time.Now()

	resp, err := s.engine.Match(ctx, req)
	if err != nil {
		s.logger.Warn("match failed",
			zap.String(logger.FieldJobID, req.JobID),
			zap.String("code", string(matching.ErrorCode(err))),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Debug("match request served",
		zap.String(logger.FieldJobID, req.JobID),
		zap.Int("results", resp.TotalCandidates),
		zap.Duration("took", time.Since(start)),
	)
	return resp, nil
}

// Enqueue implements MatchService. The run is stored as queued; a worker picks it up.
func (s *matchService) Enqueue(ctx context.Context, req matching.MatchRequest, requestedBy string) (*models.MatchRun, error) {
	run := &models.MatchRun{
		ID:             uuid.New(),
		JobID:          req.JobID,
		JobDescription: req.JobDescription,
		CandidateIDs:   req.CandidateIDs,
		RequestedBy:    requestedBy,
		Status:         models.StatusQueued,
	}

	if err := s.runs.Create(ctx, run); err != nil {
		return nil, err
	}

	s.logger.Info("match run queued",
		zap.String(logger.FieldRunID, run.ID.String()),
		zap.String(logger.FieldJobID, run.JobID),
	)
	return run, nil
}

// ProcessRun implements MatchService. Runs already claimed by another worker are skipped.
// A claimed run always leaves processing: it completes, fails, or goes back to
// the queue when ctx is cancelled mid-run.
func (s *matchService) ProcessRun(ctx context.Context, runID uuid.UUID) error {
	log := s.logger.With(zap.String(logger.FieldRunID, runID.String()))

	claimed, err := s.runs.Claim(ctx, runID)
	if err != nil {
		return err
	}
	if !claimed {
		log.Debug("match run already claimed")
		return nil
	}

	run, err := s.runs.FindByID(ctx, runID)
	if err != nil {
		s.release(ctx, log, runID, err)
		return err
	}

	resp, err := s.Match(ctx, run.Request())
	if err != nil {
		s.release(ctx, log, runID, err)
		return fmt.Errorf("match run %s failed: %w", runID, err)
	}

	// The result is kept even if shutdown started while it was computed.
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalizeTimeout)
	defer cancel()
	if err := s.runs.UpdateResult(wctx, runID, resp); err != nil {
		s.release(ctx, log, runID, err)
		return err
	}

	log.Info("match run completed", zap.Int("results", len(resp.Results)))
	return nil
}

// release settles a claimed run that did not complete.
func (s *matchService) release(ctx context.Context, log *zap.Logger, runID uuid.UUID, cause error) {
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalizeTimeout)
	defer cancel()

	if ctx.Err() != nil {
		if err := s.runs.Requeue(wctx, runID); err != nil {
			log.Error("failed to requeue interrupted match run", zap.Error(err))
			return
		}
		log.Warn("match run interrupted, requeued", zap.Error(cause))
		return
	}

	if err := s.runs.UpdateError(wctx, runID, matching.ErrorCode(cause), cause.Error()); err != nil {
		log.Error("failed to record match error", zap.Error(err))
	}
}

// GetRun implements MatchService.
func (s *matchService) GetRun(ctx context.Context, runID uuid.UUID) (*models.MatchRun, error) {
	return s.runs.FindByID(ctx, runID)
}
