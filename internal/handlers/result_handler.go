package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
)

type ResultHandler struct {
	evalRepo repositories.EvaluationRepository
}

func NewResultHandler(evalRepo repositories.EvaluationRepository) *ResultHandler {
	return &ResultHandler{
		evalRepo: evalRepo,
	}
}

func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	// Parse ID from params
	idParam := c.Params("id")
	evalID, err := uuid.Parse(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid evaluation ID format",
		})
	}

	// Get evaluation
	evaluation, err := h.evalRepo.FindByID(evalID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Evaluation not found",
		})
	}

	// Build response based on status
	response := models.ResultResponse{
		ID:     evaluation.ID.String(),
		Status: string(evaluation.Status),
	}

	// If completed, include the full result
	if evaluation.Status == models.StatusCompleted {
		result, err := resultFromEvaluation(evaluation)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to decode stored result",
			})
		}
		response.Result = result
	}

	// If failed, include error message
	if evaluation.Status == models.StatusFailed && evaluation.ErrorMessage != nil {
		response.ErrorMessage = evaluation.ErrorMessage
	}

	return c.JSON(response)
}

// resultFromEvaluation rebuilds the EvaluationResult from the stored
// columns so the async path returns the same shape as the sync path,
// with evaluation_id set.
func resultFromEvaluation(evaluation *models.Evaluation) (*models.EvaluationResult, error) {
	id := evaluation.ID.String()
	result := &models.EvaluationResult{EvaluationID: &id}

	if evaluation.TotalScore != nil {
		result.TotalScore = *evaluation.TotalScore
	}
	if evaluation.Decision != nil {
		result.Decision = models.Decision(*evaluation.Decision)
	}
	if evaluation.DecisionReason != nil {
		result.DecisionReason = *evaluation.DecisionReason
	}
	if evaluation.ConfidenceScore != nil {
		result.ConfidenceScore = *evaluation.ConfidenceScore
	}
	if evaluation.DecisionConfidence != nil {
		result.DecisionConfidence = *evaluation.DecisionConfidence
	}
	if evaluation.ActionTriggered != nil {
		result.ActionTriggered = *evaluation.ActionTriggered
	}
	result.ActionType = evaluation.ActionType
	if evaluation.AutoAdvanceUsed != nil {
		result.ThresholdsUsed.AutoAdvance = *evaluation.AutoAdvanceUsed
	}
	if evaluation.ManualReviewUsed != nil {
		result.ThresholdsUsed.ManualReview = *evaluation.ManualReviewUsed
	}

	if evaluation.BreakdownJSON != nil {
		var breakdown models.ScoreBreakdown
		if err := json.Unmarshal([]byte(*evaluation.BreakdownJSON), &breakdown); err != nil {
			return nil, err
		}
		result.ScoreBreakdown = &breakdown
	}

	if evaluation.SummaryJSON != nil {
		var summary models.Summary
		if err := json.Unmarshal([]byte(*evaluation.SummaryJSON), &summary); err != nil {
			return nil, err
		}
		result.Summary = &summary
	}

	return result, nil
}
