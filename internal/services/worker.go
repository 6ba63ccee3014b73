package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/resume-checker/internal/config"
	"alfredoptarigan/resume-checker/internal/logger"
	"alfredoptarigan/resume-checker/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(analysisID uuid.UUID)
}

type worker struct {
	analysisRepo    repositories.AnalysisRepository
	analysisService AnalysisService
	jobQueue        chan uuid.UUID
	concurrency     int
	pollInterval    time.Duration
	pollBatch       int
	wg              sync.WaitGroup
	stopChan        chan struct{}
	stopOnce        sync.Once
}

func NewWorker(
	analysisRepo repositories.AnalysisRepository,
	analysisService AnalysisService,
	cfg config.WorkerConfig,
) Worker {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}

	return &worker{
		analysisRepo:    analysisRepo,
		analysisService: analysisService,
		jobQueue:        make(chan uuid.UUID, queueSize),
		concurrency:     max(cfg.Concurrency, 1),
		pollInterval:    pollInterval,
		pollBatch:       max(cfg.PollBatch, 1),
		stopChan:        make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	logger.Info().Int("concurrency", w.concurrency).Msg("starting analysis worker")

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		logger.Info().Msg("stopping analysis worker")
		close(w.stopChan)
		w.wg.Wait()
		logger.Info().Msg("analysis worker stopped")
	})
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(analysisID uuid.UUID) {
	select {
	case w.jobQueue <- analysisID:
		logger.Debug().Str("analysis_id", analysisID.String()).Msg("job enqueued")
	case <-w.stopChan:
		logger.Warn().Str("analysis_id", analysisID.String()).Msg("worker stopped, job left queued")
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := logger.Logger.With().Int("worker", workerID).Logger()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case analysisID := <-w.jobQueue:
			log.Info().Str("analysis_id", analysisID.String()).Msg("processing job")
			if err := w.analysisService.ProcessAnalysis(ctx, analysisID); err != nil {
				log.Error().Err(err).Str("analysis_id", analysisID.String()).Msg("job failed")
			} else {
				log.Info().Str("analysis_id", analysisID.String()).Msg("job completed")
			}
		}
	}
}

// pollPendingJobs re-enqueues analyses still marked queued, which covers
// jobs submitted before a restart.
func (w *worker) pollPendingJobs(ctx context.Context) {
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
			pendingJobs, err := w.analysisRepo.FindPendingJobs(w.pollBatch)
			if err != nil {
				logger.Warn().Err(err).Msg("failed to fetch pending jobs")
				continue
			}

			if len(pendingJobs) > 0 {
				logger.Info().Int("count", len(pendingJobs)).Msg("found pending jobs")
			}

			for _, job := range pendingJobs {
				w.EnqueueJob(job.ID)
			}
		}
	}
}
