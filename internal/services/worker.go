package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/talent-matcher/internal/logger"
	"alfredoptarigan/talent-matcher/internal/repositories"
)

const (
	defaultPollInterval = 10 * time.Second
	pendingBatchSize    = 10
	queueSize           = 100
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueRun(runID uuid.UUID)
}

type RunProcessor interface {
	ProcessRun(ctx context.Context, runID uuid.UUID) error
}

type worker struct {
	runs         repositories.MatchRunRepository
	processor    RunProcessor
	queue        chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	logger       *zap.Logger
	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

func NewWorker(
	runs repositories.MatchRunRepository,
	processor RunProcessor,
	concurrency int,
	logger *zap.Logger,
) Worker {
	return newWorker(runs, processor, concurrency, defaultPollInterval, logger)
}

func newWorker(
	runs repositories.MatchRunRepository,
	processor RunProcessor,
	concurrency int,
	pollInterval time.Duration,
	logger *zap.Logger,
) *worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &worker{
		runs:         runs,
		processor:    processor,
		queue:        make(chan uuid.UUID, queueSize),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.logger.Info("starting match workers", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processRuns(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingRuns(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("stopping match workers")
		close(w.stopChan)
	})
	w.wg.Wait()
	w.logger.Info("match workers stopped")
}

// EnqueueRun implements Worker.
func (w *worker) EnqueueRun(runID uuid.UUID) {
	select {
	case w.queue <- runID:
		w.logger.Debug("match run enqueued", zap.String(logger.FieldRunID, runID.String()))
	case <-w.stopChan:
		w.logger.Warn("worker stopped, run left queued", zap.String(logger.FieldRunID, runID.String()))
	}
}

func (w *worker) processRuns(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := w.logger.With(zap.Int("worker", workerID))

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case runID := <-w.queue:
			if err := w.processor.ProcessRun(ctx, runID); err != nil {
				log.Error("match run failed", zap.String(logger.FieldRunID, runID.String()), zap.Error(err))
			}
		}
	}
}

func (w *worker) pollPendingRuns(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			pending, err := w.runs.FindPendingRuns(ctx, pendingBatchSize)
			if err != nil {
				w.logger.Warn("failed to fetch pending runs", zap.Error(err))
				continue
			}

			if len(pending) > 0 {
				w.logger.Info("found pending match runs", zap.Int("count", len(pending)))
			}

			for _, run := range pending {
				w.EnqueueRun(run.ID)
			}
		}
	}
}
