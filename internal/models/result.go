package models

type Decision string

const (
	DecisionAutoAdvance  Decision = "AUTO_ADVANCE"
	DecisionManualReview Decision = "MANUAL_REVIEW"
	DecisionReject       Decision = "REJECT"
)

// DimensionScore is one weighted rubric axis. Computed once, never mutated.
type DimensionScore struct {
	Score        float64 `json:"score_0_to_1"`
	Weight       float64 `json:"weight_0_to_1"`
	Contribution float64 `json:"contribution_0_to_100"`
}

// SkillsCoverage details how the required_skills_coverage dimension was
// computed, so every matched and missing requirement is auditable.
type SkillsCoverage struct {
	Matched         int      `json:"matched"`
	Total           int      `json:"total"`
	Ratio           float64  `json:"ratio_0_to_1"`
	MatchedRequired []string `json:"matched_required"`
	MissingRequired []string `json:"missing_required"`
}

// Boosts records text-signal score adjustments applied on top of the
// weighted rubric aggregate.
type Boosts struct {
	Points  float64  `json:"points"`
	Signals []string `json:"signals"`
}

type ScoreBreakdown struct {
	TotalScore     float64                   `json:"total_score_0_to_100"`
	Weights        map[string]float64        `json:"weights"`
	Dimensions     map[string]DimensionScore `json:"dimensions"`
	SkillsCoverage SkillsCoverage            `json:"required_skills_coverage"`
	Boosts         *Boosts                   `json:"boosts,omitempty"`
}

type Thresholds struct {
	AutoAdvance  float64 `json:"auto_advance" mapstructure:"auto_advance"`
	ManualReview float64 `json:"manual_review" mapstructure:"manual_review"`
}

type Summary struct {
	Strengths      []string `json:"strengths"`
	Gaps           []string `json:"gaps"`
	Recommendation string   `json:"recommendation"`
}

// EvaluationResult is the complete outcome of one evaluation. It is
// constructed once and returned as a whole; a request either yields this
// entire object or an error, never a partial result.
type EvaluationResult struct {
	EvaluationID       *string         `json:"evaluation_id"`
	TotalScore         float64         `json:"total_score"`
	ScoreBreakdown     *ScoreBreakdown `json:"score_breakdown"`
	ConfidenceScore    float64         `json:"confidence_score"`
	Decision           Decision        `json:"decision"`
	DecisionReason     string          `json:"decision_reason"`
	ThresholdsUsed     Thresholds      `json:"thresholds_used"`
	DecisionConfidence float64         `json:"decision_confidence_0_to_1"`
	ActionTriggered    bool            `json:"action_triggered"`
	ActionType         *string         `json:"action_type"`
	Summary            *Summary        `json:"summary"`
}

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
	SizeBytes    int64  `json:"size_bytes"`
}

type RunEvaluationRequest struct {
	Resume map[string]interface{} `json:"resume"`
	Job    map[string]interface{} `json:"job"`
}

type EvaluateRequest struct {
	ResumeDocumentID string `json:"resume_document_id" validate:"required,uuid"`
	JobDocumentID    string `json:"job_document_id" validate:"required,uuid"`
}

type EvaluateResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ResultResponse struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"`
	Result       *EvaluationResult `json:"result,omitempty"`
	ErrorMessage *string           `json:"error_message,omitempty"`
}
