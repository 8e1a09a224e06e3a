package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(evalID uuid.UUID)
}

type worker struct {
	evalRepo         repositories.EvaluationRepository
	evaluatorService EvaluatorService
	jobQueue         chan uuid.UUID
	concurrency      int
	wg               sync.WaitGroup
	stopChan         chan struct{}
	logger           *zap.Logger
}

func NewWorker(
	evalRepo repositories.EvaluationRepository,
	evaluatorService EvaluatorService,
	concurrency int,
	logger *zap.Logger,
) Worker {
	return &worker{
		evalRepo:         evalRepo,
		evaluatorService: evaluatorService,
		jobQueue:         make(chan uuid.UUID, 100),
		concurrency:      concurrency,
		stopChan:         make(chan struct{}),
		logger:           logger,
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.logger.Info("🚀 Starting worker", zap.Int("concurrency", w.concurrency))

	// Start worker goroutines
	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	// Start polling for pending jobs
	w.wg.Add(1)
	go w.pollPendingJobs(ctx)

	w.logger.Info("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.logger.Info("🛑 Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("✅ Worker stopped")
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(evalID uuid.UUID) {
	select {
	case w.jobQueue <- evalID:
		w.logger.Info("📥 Job enqueued", zap.String("evaluation_id", evalID.String()))
	case <-w.stopChan:
		w.logger.Warn("⚠️ Worker stopped, cannot enqueue job", zap.String("evaluation_id", evalID.String()))
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	w.logger.Info("👷 Worker started processing jobs", zap.Int("worker_id", workerID))

	for {
		select {
		case <-w.stopChan:
			w.logger.Info("👷 Worker stopped", zap.Int("worker_id", workerID))
			return
		case evalID := <-w.jobQueue:
			w.logger.Info("👷 Worker processing job",
				zap.Int("worker_id", workerID),
				zap.String("evaluation_id", evalID.String()),
			)
			if err := w.evaluatorService.EvaluateCandidate(ctx, evalID); err != nil {
				w.logger.Error("❌ Worker failed to process job",
					zap.Int("worker_id", workerID),
					zap.String("evaluation_id", evalID.String()),
					zap.Error(err),
				)
			} else {
				w.logger.Info("✅ Worker completed job",
					zap.Int("worker_id", workerID),
					zap.String("evaluation_id", evalID.String()),
				)
			}
		}
	}
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	w.logger.Info("🔄 Starting pending jobs poller")

	for {
		select {
		case <-w.stopChan:
			w.logger.Info("🔄 Pending jobs poller stopped")
			return
		case <-ticker.C:
			// Find pending jobs
			pendingJobs, err := w.evalRepo.FindPendingJobs(10)
			if err != nil {
				w.logger.Warn("⚠️ Failed to fetch pending jobs", zap.Error(err))
				continue
			}

			if len(pendingJobs) > 0 {
				w.logger.Info("📋 Found pending jobs", zap.Int("count", len(pendingJobs)))
			}

			// Enqueue pending jobs
			for _, job := range pendingJobs {
				w.EnqueueJob(job.ID)
			}
		}
	}
}
