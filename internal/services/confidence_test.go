package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"alfredoptarigan/resume-screener/internal/models"
)

func fullResumeRecord() *models.ResumeRecord {
	return &models.ResumeRecord{
		FullName:        "Jane Smith",
		YearsExperience: 5,
		Skills:          []string{"python"},
		Education:       []string{"bachelor"},
		Projects:        []string{"ledger service"},
		Domains:         []string{"fintech"},
		Companies:       []string{"Acme"},
	}
}

func fullJobRecord() *models.JobRecord {
	return &models.JobRecord{
		Title:              "Backend Engineer",
		RequiredSkills:     []string{"python"},
		PreferredSkills:    []string{"go"},
		MinYearsExperience: 3,
		Domain:             "fintech",
		RequiredEducation:  "bachelor",
	}
}

func TestConfidenceScoreCompleteness(t *testing.T) {
	confidence := NewConfidenceService()

	t.Run("fully populated input with clean extraction", func(t *testing.T) {
		score := confidence.ConfidenceScore(fullResumeRecord(), fullJobRecord(), 1.0)
		assert.InDelta(t, 1.0, score, 1e-9)
	})

	t.Run("empty input keeps only the extraction term", func(t *testing.T) {
		score := confidence.ConfidenceScore(
			&models.ResumeRecord{FullName: "Jane Smith"},
			&models.JobRecord{Title: "Backend Engineer"},
			1.0,
		)
		assert.InDelta(t, 0.4, score, 1e-9)
	})

	t.Run("half populated input", func(t *testing.T) {
		resume := &models.ResumeRecord{
			FullName:        "Jane Smith",
			YearsExperience: 5,
			Skills:          []string{"python"},
			Education:       []string{"bachelor"},
		}
		job := &models.JobRecord{
			Title:              "Backend Engineer",
			MinYearsExperience: 3,
			Domain:             "fintech",
		}

		score := confidence.ConfidenceScore(resume, job, 1.0)
		assert.InDelta(t, 0.5*0.6+0.4, score, 1e-9)
	})

	t.Run("degraded extraction lowers the score", func(t *testing.T) {
		clean := confidence.ConfidenceScore(fullResumeRecord(), fullJobRecord(), 1.0)
		degraded := confidence.ConfidenceScore(fullResumeRecord(), fullJobRecord(), 0.4)
		assert.Less(t, degraded, clean)
		assert.InDelta(t, 0.6+0.4*0.4, degraded, 1e-9)
	})
}

func TestExtractionQuality(t *testing.T) {
	assert.Equal(t, 1.0, ExtractionQuality(false, false))
	assert.Equal(t, 0.7, ExtractionQuality(true, false))
	assert.Equal(t, 0.7, ExtractionQuality(false, true))
	assert.Equal(t, 0.4, ExtractionQuality(true, true))
}

func TestDecisionConfidenceDecreasesTowardThresholds(t *testing.T) {
	confidence := NewConfidenceService()
	thresholds := models.Thresholds{AutoAdvance: 80, ManualReview: 60}

	conf := func(score float64, decision models.Decision) float64 {
		return confidence.DecisionConfidence(score, decision, thresholds, 0.8)
	}

	t.Run("auto advance", func(t *testing.T) {
		assert.Greater(t, conf(100, models.DecisionAutoAdvance), conf(90, models.DecisionAutoAdvance))
		assert.Greater(t, conf(90, models.DecisionAutoAdvance), conf(80.5, models.DecisionAutoAdvance))
	})

	t.Run("reject", func(t *testing.T) {
		assert.Greater(t, conf(0, models.DecisionReject), conf(30, models.DecisionReject))
		assert.Greater(t, conf(30, models.DecisionReject), conf(59, models.DecisionReject))
	})

	t.Run("manual review peaks mid band", func(t *testing.T) {
		mid := conf(70, models.DecisionManualReview)
		assert.Greater(t, mid, conf(61, models.DecisionManualReview))
		assert.Greater(t, mid, conf(79, models.DecisionManualReview))
	})

	t.Run("always within unit interval", func(t *testing.T) {
		for _, score := range []float64{0, 59.99, 60, 70, 79.99, 80, 100} {
			for _, decision := range []models.Decision{models.DecisionAutoAdvance, models.DecisionManualReview, models.DecisionReject} {
				value := conf(score, decision)
				assert.GreaterOrEqual(t, value, 0.0)
				assert.LessOrEqual(t, value, 1.0)
			}
		}
	})
}

func TestDecisionConfidenceExactBlend(t *testing.T) {
	confidence := NewConfidenceService()
	thresholds := models.Thresholds{AutoAdvance: 80, ManualReview: 60}

	// Score 90 in the auto band: ratio (90-80)/(100-80) = 0.5,
	// base 0.5 + 0.5*0.5 = 0.75, blended 0.75*0.6 + 0.5*0.4 = 0.65.
	value := confidence.DecisionConfidence(90, models.DecisionAutoAdvance, thresholds, 0.5)
	assert.InDelta(t, 0.65, value, 1e-9)
}

func TestDecisionConfidenceDegenerateBand(t *testing.T) {
	confidence := NewConfidenceService()
	thresholds := models.Thresholds{AutoAdvance: 70, ManualReview: 70}

	// Zero review-band extent means there is no boundary to be near, so
	// the ratio term is full.
	value := confidence.DecisionConfidence(70, models.DecisionManualReview, thresholds, 0.5)
	assert.InDelta(t, 1.0*0.6+0.5*0.4, value, 1e-9)
}
