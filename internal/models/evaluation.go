package models

import (
	"time"

	"github.com/google/uuid"
)

type EvaluationStatus string

const (
	StatusQueued     EvaluationStatus = "queued"
	StatusProcessing EvaluationStatus = "processing"
	StatusCompleted  EvaluationStatus = "completed"
	StatusFailed     EvaluationStatus = "failed"
)

type Evaluation struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ResumeDocumentID   uuid.UUID        `gorm:"type:uuid;not null" json:"resume_document_id"`
	JobDocumentID      uuid.UUID        `gorm:"type:uuid;not null" json:"job_document_id"`
	Status             EvaluationStatus `gorm:"not null;default:'queued'" json:"status"`
	TotalScore         *float64         `gorm:"type:decimal(5,2)" json:"total_score,omitempty"`
	Decision           *string          `gorm:"type:text" json:"decision,omitempty"`
	DecisionReason     *string          `gorm:"type:text" json:"decision_reason,omitempty"`
	ConfidenceScore    *float64         `gorm:"type:decimal(4,3)" json:"confidence_score,omitempty"`
	DecisionConfidence *float64         `gorm:"type:decimal(4,3)" json:"decision_confidence,omitempty"`
	ActionType         *string          `gorm:"type:text" json:"action_type,omitempty"`
	ActionTriggered    *bool            `json:"action_triggered,omitempty"`
	AutoAdvanceUsed    *float64         `gorm:"type:decimal(5,2)" json:"auto_advance_used,omitempty"`
	ManualReviewUsed   *float64         `gorm:"type:decimal(5,2)" json:"manual_review_used,omitempty"`
	BreakdownJSON      *string          `gorm:"type:jsonb" json:"-"`
	SummaryJSON        *string          `gorm:"type:jsonb" json:"-"`
	ErrorMessage       *string          `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt          time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	ResumeDocument Document `gorm:"foreignKey:ResumeDocumentID" json:"-"`
	JobDocument    Document `gorm:"foreignKey:JobDocumentID" json:"-"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}
