package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/models"
)

const maxSummaryItems = 8

// SummaryService derives strengths, gaps and a recommendation from the
// finalized breakdown and records. Deterministic templates only, no
// language model.
type SummaryService interface {
	Build(resume *models.ResumeRecord, job *models.JobRecord, breakdown *models.ScoreBreakdown, decision models.Decision) *models.Summary
}

type summaryService struct{}

func NewSummaryService() SummaryService {
	return &summaryService{}
}

func (s *summaryService) Build(resume *models.ResumeRecord, job *models.JobRecord, breakdown *models.ScoreBreakdown, decision models.Decision) *models.Summary {
	strengths := []string{}
	gaps := []string{}

	coverage := breakdown.SkillsCoverage
	if coverage.Total > 0 {
		strengths = append(strengths, fmt.Sprintf("Matched %d/%d required skills.", coverage.Matched, coverage.Total))
		if len(coverage.MissingRequired) > 0 {
			missing := coverage.MissingRequired
			suffix := ""
			if len(missing) > maxSummaryItems {
				missing = missing[:maxSummaryItems]
				suffix = ", …"
			}
			gaps = append(gaps, "Missing required skills: "+strings.Join(missing, ", ")+suffix)
		}
	}

	switch {
	case job.MinYearsExperience <= 0:
		strengths = append(strengths, "No minimum experience requirement.")
	case resume.YearsExperience >= job.MinYearsExperience:
		strengths = append(strengths, fmt.Sprintf("Meets experience requirement (%gy vs %gy).", resume.YearsExperience, job.MinYearsExperience))
	default:
		gaps = append(gaps, fmt.Sprintf("Experience below requirement (%gy vs %gy).", resume.YearsExperience, job.MinYearsExperience))
	}

	if job.RequiredEducation == "" {
		strengths = append(strengths, "No required education constraint.")
	} else if educationScore(breakdown) >= 1.0 {
		strengths = append(strengths, fmt.Sprintf("Meets education requirement (%s).", job.RequiredEducation))
	} else {
		gaps = append(gaps, fmt.Sprintf("Education requirement not evidenced (%s).", job.RequiredEducation))
	}

	switch {
	case job.Domain == "":
		strengths = append(strengths, "No domain constraint.")
	case containsString(resume.Domains, job.Domain):
		strengths = append(strengths, fmt.Sprintf("Domain match: %s.", job.Domain))
	case domainScore(breakdown) > 0:
		strengths = append(strengths, fmt.Sprintf("Adjacent domain match: %s.", job.Domain))
	default:
		gaps = append(gaps, fmt.Sprintf("Domain match not evidenced (%s).", job.Domain))
	}

	if len(resume.Projects) > 0 {
		strengths = append(strengths, "Has projects listed.")
	} else {
		gaps = append(gaps, "No projects detected.")
	}

	if len(strengths) > maxSummaryItems {
		strengths = strengths[:maxSummaryItems]
	}
	if len(gaps) > maxSummaryItems {
		gaps = gaps[:maxSummaryItems]
	}

	return &models.Summary{
		Strengths:      strengths,
		Gaps:           gaps,
		Recommendation: recommendationFor(decision),
	}
}

func recommendationFor(decision models.Decision) string {
	switch decision {
	case models.DecisionAutoAdvance:
		return "Proceed to interview scheduling."
	case models.DecisionManualReview:
		return "Route to recruiter review for validation."
	default:
		return "Recommend rejection based on current evidence."
	}
}

func educationScore(breakdown *models.ScoreBreakdown) float64 {
	return breakdown.Dimensions[config.DimEducation].Score
}

func domainScore(breakdown *models.ScoreBreakdown) float64 {
	return breakdown.Dimensions[config.DimDomainMatch].Score
}
