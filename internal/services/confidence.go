package services

import (
	"alfredoptarigan/resume-screener/internal/models"
)

// Extraction quality levels blended into the structural confidence. The
// sync JSON path always reports full quality; the async path degrades it
// when one or both extractions fell back to heuristics.
const (
	extractionQualityFull     = 1.0
	extractionQualityOneSide  = 0.7
	extractionQualityBothSide = 0.4
)

// ConfidenceService estimates how trustworthy an evaluation is. Both
// methods are pure functions and must not fail on any valid input.
type ConfidenceService interface {
	ConfidenceScore(resume *models.ResumeRecord, job *models.JobRecord, extractionQuality float64) float64
	DecisionConfidence(totalScore float64, decision models.Decision, thresholds models.Thresholds, confidenceScore float64) float64
}

type confidenceService struct{}

func NewConfidenceService() ConfidenceService {
	return &confidenceService{}
}

// ConfidenceScore reflects structural completeness of the normalized
// input: the populated fraction across ten optional-but-informative
// signals, blended with extraction quality.
func (c *confidenceService) ConfidenceScore(resume *models.ResumeRecord, job *models.JobRecord, extractionQuality float64) float64 {
	signals := []bool{
		len(resume.Skills) > 0,
		resume.YearsExperience > 0,
		len(resume.Education) > 0,
		len(resume.Projects) > 0,
		len(resume.Domains) > 0,
		len(resume.Companies) > 0,
		job.Domain != "",
		job.RequiredEducation != "",
		job.MinYearsExperience > 0,
		len(job.PreferredSkills) > 0,
	}

	populated := 0
	for _, present := range signals {
		if present {
			populated++
		}
	}

	completeness := float64(populated) / float64(len(signals))
	return clamp01(completeness*0.6 + clamp01(extractionQuality)*0.4)
}

// DecisionConfidence measures distance from the governing threshold
// boundary, normalized by the extent of the band the score landed in. It
// strictly decreases as the score approaches either threshold and is
// highest at the extremes (0 and 100).
func (c *confidenceService) DecisionConfidence(totalScore float64, decision models.Decision, thresholds models.Thresholds, confidenceScore float64) float64 {
	auto := thresholds.AutoAdvance
	review := thresholds.ManualReview

	var ratio float64
	switch decision {
	case models.DecisionAutoAdvance:
		ratio = bandRatio(totalScore-auto, 100-auto)
	case models.DecisionReject:
		ratio = bandRatio(review-totalScore, review)
	default:
		lower := totalScore - review
		upper := auto - totalScore
		margin := lower
		if upper < margin {
			margin = upper
		}
		ratio = bandRatio(margin, (auto-review)/2)
	}

	base := 0.5 + 0.5*clamp01(ratio)
	return clamp01(base*0.6 + clamp01(confidenceScore)*0.4)
}

// bandRatio normalizes a boundary margin by the band extent. A degenerate
// band (zero extent) yields full ratio: there is no boundary to be near.
func bandRatio(margin, extent float64) float64 {
	if extent <= 0 {
		return 1.0
	}
	if margin < 0 {
		margin = 0
	}
	return clamp01(margin / extent)
}

// ExtractionQuality maps heuristic-fallback flags to the quality level
// blended into the confidence score.
func ExtractionQuality(resumeFallback, jobFallback bool) float64 {
	switch {
	case resumeFallback && jobFallback:
		return extractionQualityBothSide
	case resumeFallback || jobFallback:
		return extractionQualityOneSide
	default:
		return extractionQualityFull
	}
}
