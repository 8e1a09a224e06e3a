package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
)

// EvaluatorService drives the async document path: load documents,
// extract text and structured entities, run the scoring pipeline, and
// persist the complete result. Any failure marks the evaluation failed;
// no partial result is ever stored.
type EvaluatorService interface {
	EvaluateCandidate(ctx context.Context, evalID uuid.UUID) error
}

type evaluatorService struct {
	evalRepo  repositories.EvaluationRepository
	docRepo   repositories.DocumentRepository
	extractor ExtractorService
	pdfParser PDFParserService
	pipeline  PipelineService
	logger    *zap.Logger
}

func NewEvaluatorService(
	evalRepo repositories.EvaluationRepository,
	docRepo repositories.DocumentRepository,
	extractor ExtractorService,
	pdfParser PDFParserService,
	pipeline PipelineService,
	logger *zap.Logger,
) EvaluatorService {
	return &evaluatorService{
		evalRepo:  evalRepo,
		docRepo:   docRepo,
		extractor: extractor,
		pdfParser: pdfParser,
		pipeline:  pipeline,
		logger:    logger,
	}
}

func (e *evaluatorService) EvaluateCandidate(ctx context.Context, evalID uuid.UUID) error {
	// Update status to processing
	if err := e.evalRepo.UpdateStatus(evalID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	e.logger.Info("🔄 Starting evaluation", zap.String("evaluation_id", evalID.String()))

	evaluation, err := e.evalRepo.FindByID(evalID)
	if err != nil {
		e.evalRepo.UpdateError(evalID, err.Error())
		return fmt.Errorf("failed to get evaluation: %w", err)
	}

	resumeDoc, err := e.docRepo.FindByID(evaluation.ResumeDocumentID)
	if err != nil {
		e.evalRepo.UpdateError(evalID, fmt.Sprintf("Resume document not found: %v", err))
		return fmt.Errorf("failed to get resume document: %w", err)
	}

	jobDoc, err := e.docRepo.FindByID(evaluation.JobDocumentID)
	if err != nil {
		e.evalRepo.UpdateError(evalID, fmt.Sprintf("Job document not found: %v", err))
		return fmt.Errorf("failed to get job document: %w", err)
	}

	// Step 1: Parse PDFs
	e.logger.Info("📄 Parsing resume PDF", zap.String("evaluation_id", evalID.String()))
	resumeContent, err := e.pdfParser.ExtractTextWithMetaData(resumeDoc.FilePath)
	if err != nil {
		e.evalRepo.UpdateError(evalID, fmt.Sprintf("Failed to parse resume: %v", err))
		return fmt.Errorf("failed to parse resume: %w", err)
	}

	e.logger.Info("📄 Parsing job description PDF", zap.String("evaluation_id", evalID.String()))
	jobContent, err := e.pdfParser.ExtractTextWithMetaData(jobDoc.FilePath)
	if err != nil {
		e.evalRepo.UpdateError(evalID, fmt.Sprintf("Failed to parse job description: %v", err))
		return fmt.Errorf("failed to parse job description: %w", err)
	}

	// Step 2: Structured extraction (model with heuristic fallback)
	rawResume, resumeMeta, err := e.extractor.ExtractResume(ctx, resumeContent.Text)
	if err != nil {
		e.evalRepo.UpdateError(evalID, fmt.Sprintf("Resume extraction failed: %v", err))
		return fmt.Errorf("resume extraction failed: %w", err)
	}

	rawJob, jobMeta, err := e.extractor.ExtractJob(ctx, jobContent.Text)
	if err != nil {
		e.evalRepo.UpdateError(evalID, fmt.Sprintf("Job extraction failed: %v", err))
		return fmt.Errorf("job extraction failed: %w", err)
	}

	// Step 3: Run the scoring pipeline
	result, err := e.pipeline.Run(ctx, rawResume, rawJob, &RunOptions{
		ResumeText:     resumeContent.Text,
		JobText:        jobContent.Text,
		ResumeFallback: resumeMeta.FallbackUsed,
		JobFallback:    jobMeta.FallbackUsed,
	})
	if err != nil {
		e.evalRepo.UpdateError(evalID, fmt.Sprintf("Evaluation failed: %v", err))
		return fmt.Errorf("evaluation failed: %w", err)
	}

	// Step 4: Save the complete result
	e.logger.Info("💾 Saving evaluation result", zap.String("evaluation_id", evalID.String()))
	updateData, err := buildUpdateData(result)
	if err != nil {
		e.evalRepo.UpdateError(evalID, fmt.Sprintf("Failed to encode result: %v", err))
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if err := e.evalRepo.UpdateResult(evalID, updateData); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	e.logger.Info("✅ Evaluation completed",
		zap.String("evaluation_id", evalID.String()),
		zap.Float64("total_score", result.TotalScore),
		zap.String("decision", string(result.Decision)),
	)
	return nil
}

func buildUpdateData(result *models.EvaluationResult) (*repositories.EvaluationUpdateData, error) {
	breakdownJSON, err := json.Marshal(result.ScoreBreakdown)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal breakdown: %w", err)
	}

	summaryJSON, err := json.Marshal(result.Summary)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}

	decision := string(result.Decision)
	breakdown := string(breakdownJSON)
	summary := string(summaryJSON)

	return &repositories.EvaluationUpdateData{
		TotalScore:         &result.TotalScore,
		Decision:           &decision,
		DecisionReason:     &result.DecisionReason,
		ConfidenceScore:    &result.ConfidenceScore,
		DecisionConfidence: &result.DecisionConfidence,
		ActionType:         result.ActionType,
		ActionTriggered:    &result.ActionTriggered,
		AutoAdvanceUsed:    &result.ThresholdsUsed.AutoAdvance,
		ManualReviewUsed:   &result.ThresholdsUsed.ManualReview,
		BreakdownJSON:      &breakdown,
		SummaryJSON:        &summary,
	}, nil
}
