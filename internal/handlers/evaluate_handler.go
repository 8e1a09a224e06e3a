package handlers

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

type EvaluationHandler struct {
	evalRepo repositories.EvaluationRepository
	docRepo  repositories.DocumentRepository
	worker   services.Worker
	pipeline services.PipelineService
	validate *validator.Validate
}

func NewEvaluationHandler(
	evalRepo repositories.EvaluationRepository,
	docRepo repositories.DocumentRepository,
	worker services.Worker,
	pipeline services.PipelineService,
) *EvaluationHandler {
	return &EvaluationHandler{
		evalRepo: evalRepo,
		docRepo:  docRepo,
		worker:   worker,
		pipeline: pipeline,
		validate: validator.New(),
	}
}

// HandleRun handles POST /evaluations/run: the synchronous path over raw
// structured entities. The result is returned directly and not persisted.
func (h *EvaluationHandler) HandleRun(c *fiber.Ctx) error {
	var req models.RunEvaluationRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.Resume == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume is required",
			"field": "resume",
		})
	}

	if req.Job == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job is required",
			"field": "job",
		})
	}

	result, err := h.pipeline.Run(c.UserContext(), req.Resume, req.Job, nil)
	if err != nil {
		return evaluationError(c, err)
	}

	return c.JSON(result)
}

// HandleSubmit handles POST /evaluations: queue an async evaluation over
// previously uploaded documents.
func (h *EvaluationHandler) HandleSubmit(c *fiber.Ctx) error {
	var req models.EvaluateRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := h.validate.Struct(&req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request payload",
				"field": fieldErrs[0].Field(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	resumeDocID, err := uuid.Parse(req.ResumeDocumentID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid resume_document_id format",
		})
	}

	jobDocID, err := uuid.Parse(req.JobDocumentID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job_document_id format",
		})
	}

	// Verify documents exist
	if _, err := h.docRepo.FindByID(resumeDocID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Resume document not found",
		})
	}

	if _, err := h.docRepo.FindByID(jobDocID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job document not found",
		})
	}

	evaluation := &models.Evaluation{
		ID:               uuid.New(),
		ResumeDocumentID: resumeDocID,
		JobDocumentID:    jobDocID,
		Status:           models.StatusQueued,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.evalRepo.Create(evaluation); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create evaluation job",
		})
	}

	// Enqueue job to worker
	h.worker.EnqueueJob(evaluation.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.EvaluateResponse{
		ID:     evaluation.ID.String(),
		Status: string(models.StatusQueued),
	})
}

// evaluationError maps pipeline errors onto HTTP statuses. A request
// either yields a complete result or one of these errors, never both.
func evaluationError(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationErr.Error(),
			"field": validationErr.Field,
		})
	}

	var extractionErr *services.UpstreamExtractionError
	if errors.As(err, &extractionErr) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": extractionErr.Error(),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Evaluation failed",
	})
}
