package services

import (
	"fmt"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/models"
)

// DecisionOutcome is the full output of the one-shot classifier.
type DecisionOutcome struct {
	Decision       models.Decision
	Reason         string
	ThresholdsUsed models.Thresholds
	Confidence     float64
}

// DecisionService classifies a total score against the configured
// thresholds. Stateless and pure; thresholds were validated at startup
// and are never re-validated per request.
type DecisionService interface {
	Decide(totalScore, confidenceScore float64) *DecisionOutcome
}

type decisionService struct {
	rubric     *config.Rubric
	confidence ConfidenceService
}

func NewDecisionService(rubric *config.Rubric, confidence ConfidenceService) DecisionService {
	return &decisionService{
		rubric:     rubric,
		confidence: confidence,
	}
}

// Decide applies the threshold bands, each inclusive on its lower bound:
// score >= auto_advance wins AUTO_ADVANCE, score >= manual_review wins
// MANUAL_REVIEW, everything below is REJECT. When the thresholds are
// equal the review band is empty, which is valid, not an error. A
// configured borderline band promotes near-miss rejects to review.
func (d *decisionService) Decide(totalScore, confidenceScore float64) *DecisionOutcome {
	thresholds := d.rubric.Thresholds
	auto := thresholds.AutoAdvance
	review := thresholds.ManualReview
	band := d.rubric.BorderlineBand

	var decision models.Decision
	var reason string

	switch {
	case totalScore >= auto:
		decision = models.DecisionAutoAdvance
		if band > 0 && totalScore < auto+band {
			reason = fmt.Sprintf("Auto-advance: score %.2f is just above the %.2f threshold.", totalScore, auto)
		} else {
			reason = fmt.Sprintf("Auto-advance: score %.2f clears the %.2f threshold.", totalScore, auto)
		}

	case totalScore >= review:
		decision = models.DecisionManualReview
		if band > 0 && totalScore >= auto-band {
			reason = fmt.Sprintf("Manual review: score %.2f is borderline for auto-advance (%.2f).", totalScore, auto)
		} else {
			reason = fmt.Sprintf("Manual review: score %.2f meets the review threshold (%.2f).", totalScore, review)
		}

	case band > 0 && totalScore >= review-band:
		decision = models.DecisionManualReview
		reason = fmt.Sprintf("Manual review: score %.2f is within %.2f of the review threshold (%.2f).", totalScore, band, review)

	default:
		decision = models.DecisionReject
		if band > 0 {
			reason = fmt.Sprintf("Reject: score %.2f is below the review threshold (%.2f).", totalScore, review)
		} else {
			reason = fmt.Sprintf("Reject: score %.2f < manual_review %.2f", totalScore, review)
		}
	}

	return &DecisionOutcome{
		Decision:       decision,
		Reason:         reason,
		ThresholdsUsed: thresholds,
		Confidence:     d.confidence.DecisionConfidence(totalScore, decision, thresholds, confidenceScore),
	}
}
