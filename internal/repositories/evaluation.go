package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-screener/internal/models"
)

type EvaluationRepository interface {
	Create(eval *models.Evaluation) error
	FindByID(id uuid.UUID) (*models.Evaluation, error)
	UpdateStatus(id uuid.UUID, status models.EvaluationStatus) error
	UpdateResult(id uuid.UUID, result *EvaluationUpdateData) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindPendingJobs(limit int) ([]models.Evaluation, error)
}

type EvaluationUpdateData struct {
	TotalScore         *float64
	Decision           *string
	DecisionReason     *string
	ConfidenceScore    *float64
	DecisionConfidence *float64
	ActionType         *string
	ActionTriggered    *bool
	AutoAdvanceUsed    *float64
	ManualReviewUsed   *float64
	BreakdownJSON      *string
	SummaryJSON        *string
}

type evaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) Create(eval *models.Evaluation) error {
	if err := r.db.Create(eval).Error; err != nil {
		return fmt.Errorf("failed to create evaluation: %w", err)
	}
	return nil
}

func (r *evaluationRepository) FindByID(id uuid.UUID) (*models.Evaluation, error) {
	var eval models.Evaluation
	if err := r.db.Where("id = ?", id).First(&eval).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("evaluation not found")
		}
		return nil, fmt.Errorf("failed to find evaluation: %w", err)
	}
	return &eval, nil
}

func (r *evaluationRepository) UpdateStatus(id uuid.UUID, status models.EvaluationStatus) error {
	result := r.db.Model(&models.Evaluation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("evaluation not found")
	}

	return nil
}

func (r *evaluationRepository) UpdateResult(id uuid.UUID, data *EvaluationUpdateData) error {
	updates := map[string]interface{}{
		"status":     models.StatusCompleted,
		"updated_at": time.Now(),
	}

	if data.TotalScore != nil {
		updates["total_score"] = *data.TotalScore
	}
	if data.Decision != nil {
		updates["decision"] = *data.Decision
	}
	if data.DecisionReason != nil {
		updates["decision_reason"] = *data.DecisionReason
	}
	if data.ConfidenceScore != nil {
		updates["confidence_score"] = *data.ConfidenceScore
	}
	if data.DecisionConfidence != nil {
		updates["decision_confidence"] = *data.DecisionConfidence
	}
	if data.ActionType != nil {
		updates["action_type"] = *data.ActionType
	}
	if data.ActionTriggered != nil {
		updates["action_triggered"] = *data.ActionTriggered
	}
	if data.AutoAdvanceUsed != nil {
		updates["auto_advance_used"] = *data.AutoAdvanceUsed
	}
	if data.ManualReviewUsed != nil {
		updates["manual_review_used"] = *data.ManualReviewUsed
	}
	if data.BreakdownJSON != nil {
		updates["breakdown_json"] = *data.BreakdownJSON
	}
	if data.SummaryJSON != nil {
		updates["summary_json"] = *data.SummaryJSON
	}

	result := r.db.Model(&models.Evaluation{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update result: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("evaluation not found")
	}

	return nil
}

func (r *evaluationRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.Evaluation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("evaluation not found")
	}

	return nil
}

func (r *evaluationRepository) FindPendingJobs(limit int) ([]models.Evaluation, error) {
	var evals []models.Evaluation
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&evals).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}

	return evals, nil
}
