package services

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/resume-screener/internal/models"
)

// RunOptions carries the async-path extras: the raw document texts used
// for text-signal boosts and the heuristic-fallback flags that degrade
// the confidence score. A nil options value means the sync JSON path.
type RunOptions struct {
	ResumeText     string
	JobText        string
	ResumeFallback bool
	JobFallback    bool
}

// PipelineService runs the full evaluation workflow: normalize, score and
// estimate confidence in parallel, decide, summarize, dispatch. All-or-
// nothing: either a complete EvaluationResult comes back or an error.
// Stateless across requests, so concurrent evaluations need no locking.
type PipelineService interface {
	Run(ctx context.Context, rawResume, rawJob map[string]interface{}, opts *RunOptions) (*models.EvaluationResult, error)
}

type pipelineService struct {
	normalizer NormalizerService
	scorer     ScorerService
	confidence ConfidenceService
	decision   DecisionService
	summary    SummaryService
	dispatcher ActionDispatcher
	logger     *zap.Logger
}

func NewPipelineService(
	normalizer NormalizerService,
	scorer ScorerService,
	confidence ConfidenceService,
	decision DecisionService,
	summary SummaryService,
	dispatcher ActionDispatcher,
	logger *zap.Logger,
) PipelineService {
	return &pipelineService{
		normalizer: normalizer,
		scorer:     scorer,
		confidence: confidence,
		decision:   decision,
		summary:    summary,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (p *pipelineService) Run(ctx context.Context, rawResume, rawJob map[string]interface{}, opts *RunOptions) (*models.EvaluationResult, error) {
	resume, err := p.normalizer.NormalizeResume(rawResume)
	if err != nil {
		return nil, err
	}

	job, err := p.normalizer.NormalizeJob(rawJob)
	if err != nil {
		return nil, err
	}

	extractionQuality := extractionQualityFull
	if opts != nil {
		extractionQuality = ExtractionQuality(opts.ResumeFallback, opts.JobFallback)
	}

	// Scoring and structural confidence are independent, so they fan out
	// concurrently. The Wait below is the join barrier; the decision never
	// starts before both are done.
	var breakdown *models.ScoreBreakdown
	var confidenceScore float64

	scoringStarted := time.Now()
	group, _ := errgroup.WithContext(ctx)
	group.Go(func() error {
		breakdown = p.scorer.Compute(resume, job)
		return nil
	})
	group.Go(func() error {
		confidenceScore = p.confidence.ConfidenceScore(resume, job, extractionQuality)
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if opts != nil {
		p.scorer.ApplyTextBoosts(breakdown, opts.ResumeText, opts.JobText)
	}
	scoringMs := time.Since(scoringStarted).Milliseconds()

	decisionStarted := time.Now()
	outcome := p.decision.Decide(breakdown.TotalScore, confidenceScore)
	summary := p.summary.Build(resume, job, breakdown, outcome.Decision)
	decisionMs := time.Since(decisionStarted).Milliseconds()

	// Delivery failure is absorbed by the dispatcher: the finalized score
	// and decision are returned regardless.
	dispatchStarted := time.Now()
	dispatch := p.dispatcher.Dispatch(ctx, outcome.Decision, resume.FullName)
	dispatchMs := time.Since(dispatchStarted).Milliseconds()

	p.logger.Info("⏱️ Evaluation pipeline completed",
		zap.Float64("total_score", breakdown.TotalScore),
		zap.String("decision", string(outcome.Decision)),
		zap.Int64("scoring_ms", scoringMs),
		zap.Int64("decision_ms", decisionMs),
		zap.Int64("dispatch_ms", dispatchMs),
	)

	return &models.EvaluationResult{
		EvaluationID:       nil,
		TotalScore:         breakdown.TotalScore,
		ScoreBreakdown:     breakdown,
		ConfidenceScore:    confidenceScore,
		Decision:           outcome.Decision,
		DecisionReason:     outcome.Reason,
		ThresholdsUsed:     outcome.ThresholdsUsed,
		DecisionConfidence: outcome.Confidence,
		ActionTriggered:    dispatch.ActionTriggered,
		ActionType:         dispatch.ActionType,
		Summary:            summary,
	}, nil
}
