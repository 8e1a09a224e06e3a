package services

import (
	"math"
	"strings"
	"sync"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/models"
)

// ScorerService computes the weighted rubric breakdown. Compute is pure
// and deterministic: no I/O, no clock, no randomness. The rubric is
// validated at startup and never re-checked here.
type ScorerService interface {
	Compute(resume *models.ResumeRecord, job *models.JobRecord) *models.ScoreBreakdown
	ApplyTextBoosts(breakdown *models.ScoreBreakdown, resumeText, jobText string)
}

type scorerService struct {
	rubric *config.Rubric
}

func NewScorerService(rubric *config.Rubric) ScorerService {
	return &scorerService{rubric: rubric}
}

func (s *scorerService) Compute(resume *models.ResumeRecord, job *models.JobRecord) *models.ScoreBreakdown {
	// The five dimensions are independent of each other, so they fan out
	// concurrently into fixed result slots. Aggregation below is a join
	// barrier: nothing downstream starts before every slot is filled.
	scores := make(map[string]float64, len(config.DimensionOrder))
	var coverage models.SkillsCoverage
	var mu sync.Mutex
	var wg sync.WaitGroup

	compute := map[string]func() float64{
		config.DimRequiredSkills: func() float64 {
			detail := s.requiredSkillsCoverage(resume.Skills, job.RequiredSkills)
			mu.Lock()
			coverage = detail
			mu.Unlock()
			return detail.Ratio
		},
		config.DimExperience: func() float64 {
			return scoreExperience(resume.YearsExperience, job.MinYearsExperience)
		},
		config.DimDomainMatch: func() float64 {
			return s.scoreDomainMatch(resume.Domains, job.Domain)
		},
		config.DimProjects: func() float64 {
			return scoreProjects(len(resume.Projects), s.rubric.TargetProjects)
		},
		config.DimEducation: func() float64 {
			return s.scoreEducation(resume.Education, job.RequiredEducation)
		},
	}

	for _, dim := range config.DimensionOrder {
		wg.Add(1)
		go func(dim string, fn func() float64) {
			defer wg.Done()
			score := clamp01(fn())
			mu.Lock()
			scores[dim] = score
			mu.Unlock()
		}(dim, compute[dim])
	}

	wg.Wait()

	weights := make(map[string]float64, len(s.rubric.Weights))
	dimensions := make(map[string]models.DimensionScore, len(config.DimensionOrder))
	weightedSum := 0.0

	for _, dim := range config.DimensionOrder {
		score := scores[dim]
		weight := s.rubric.Weights[dim]
		weights[dim] = weight
		weightedSum += weight * score

		dimensions[dim] = models.DimensionScore{
			Score:        score,
			Weight:       weight,
			Contribution: weight * score * 100.0,
		}
	}

	return &models.ScoreBreakdown{
		TotalScore:     round2(clamp(weightedSum*100.0, 0, 100)),
		Weights:        weights,
		Dimensions:     dimensions,
		SkillsCoverage: coverage,
	}
}

var (
	seniorityTerms  = []string{"senior", "principal", "staff", "lead", "architect", "manager", "head of"}
	leadershipTerms = []string{"led", "managed", "mentored", "ownership", "owned", "stakeholder", "roadmap", "strategy"}
)

// ApplyTextBoosts adds seniority/leadership signal points on top of the
// weighted aggregate when raw document texts are available. The boosted
// total stays within [0,100] and the applied signals are recorded so the
// adjustment remains auditable.
func (s *scorerService) ApplyTextBoosts(breakdown *models.ScoreBreakdown, resumeText, jobText string) {
	if resumeText == "" || jobText == "" {
		return
	}

	rt := strings.ToLower(resumeText)
	jt := strings.ToLower(jobText)

	boost := 0.0
	signals := []string{}

	if containsAny(rt, seniorityTerms) {
		boost += 1.0
		signals = append(signals, "seniority_signal")
	}
	if containsAny(jt, seniorityTerms) && containsAny(rt, leadershipTerms) {
		boost += 1.0
		signals = append(signals, "leadership_signal")
	}

	if boost <= 0 {
		return
	}

	if boost > 2.0 {
		boost = 2.0
	}

	breakdown.Boosts = &models.Boosts{Points: boost, Signals: signals}
	breakdown.TotalScore = round2(clamp(breakdown.TotalScore+boost, 0, 100))
}

// requiredSkillsCoverage matches canonicalized required skills against the
// canonicalized resume skill set. A job with zero required skills is a
// vacuous match (1.0), never a division by zero.
func (s *scorerService) requiredSkillsCoverage(resumeSkills, requiredSkills []string) models.SkillsCoverage {
	type requiredItem struct {
		raw   string
		canon string
	}

	var required []requiredItem
	for _, raw := range requiredSkills {
		if canon := canonicalSkill(raw, s.rubric.SkillSynonyms); canon != "" {
			required = append(required, requiredItem{raw: raw, canon: canon})
		}
	}

	if len(required) == 0 {
		return models.SkillsCoverage{
			Ratio:           1.0,
			MatchedRequired: []string{},
			MissingRequired: []string{},
		}
	}

	resumeSet := make(map[string]bool, len(resumeSkills))
	for _, skill := range resumeSkills {
		if canon := canonicalSkill(skill, s.rubric.SkillSynonyms); canon != "" {
			resumeSet[canon] = true
		}
	}

	matched := []string{}
	missing := []string{}
	for _, item := range required {
		if skillInSet(item.canon, resumeSet) {
			matched = append(matched, item.raw)
		} else {
			missing = append(missing, item.raw)
		}
	}

	return models.SkillsCoverage{
		Matched:         len(matched),
		Total:           len(required),
		Ratio:           clamp01(float64(len(matched)) / float64(len(required))),
		MatchedRequired: matched,
		MissingRequired: missing,
	}
}

// canonicalSkill lower-cases, folds separators to spaces, and resolves
// synonyms both before and after the spaces are stripped, so "Node.js",
// "node js" and "nodejs" all land on the same token.
func canonicalSkill(value string, synonyms map[string]string) string {
	s := strings.ToLower(normalizeToken(value))
	if s == "" {
		return ""
	}

	replacer := strings.NewReplacer("/", " ", "-", " ", "_", " ")
	s = normalizeToken(replacer.Replace(s))
	if canonical, ok := synonyms[s]; ok {
		s = canonical
	}

	s = strings.ReplaceAll(s, " ", "")
	if canonical, ok := synonyms[s]; ok {
		s = canonical
	}

	return s
}

// skillInSet checks exact canonical membership first, then substring
// containment either way for tokens long enough to avoid false positives.
func skillInSet(required string, resumeSet map[string]bool) bool {
	if resumeSet[required] {
		return true
	}

	if len(required) < 4 {
		return false
	}

	for skill := range resumeSet {
		if skill == "" {
			continue
		}
		if strings.Contains(skill, required) || strings.Contains(required, skill) {
			return true
		}
	}

	return false
}

func scoreExperience(years, minYears float64) float64 {
	if minYears <= 0 {
		return 1.0
	}
	if years >= minYears {
		return 1.0
	}
	if years <= 0 {
		return 0.0
	}
	return clamp01(years / math.Max(1, minYears))
}

func (s *scorerService) scoreDomainMatch(resumeDomains []string, jobDomain string) float64 {
	if jobDomain == "" {
		return 1.0
	}

	for _, domain := range resumeDomains {
		if domain == jobDomain {
			return 1.0
		}
	}

	for _, domain := range resumeDomains {
		if s.domainsAdjacent(jobDomain, domain) {
			return s.rubric.AdjacentCredit
		}
	}

	return 0.0
}

// domainsAdjacent treats the configured adjacency table as symmetric.
func (s *scorerService) domainsAdjacent(a, b string) bool {
	for _, adjacent := range s.rubric.AdjacentDomains[a] {
		if strings.ToLower(adjacent) == b {
			return true
		}
	}
	for _, adjacent := range s.rubric.AdjacentDomains[b] {
		if strings.ToLower(adjacent) == a {
			return true
		}
	}
	return false
}

func scoreProjects(count, target int) float64 {
	if count <= 0 {
		return 0.0
	}
	if target < 1 {
		target = 1
	}
	return clamp01(float64(count) / float64(target))
}

// scoreEducation maps education to the configured ordinal scale. Full
// credit when the candidate meets or exceeds the requirement, else linear
// fractional credit by ordinal distance, floored at 0.
func (s *scorerService) scoreEducation(resumeEducation []string, requiredEducation string) float64 {
	required := s.educationOrdinal(requiredEducation)
	if required <= 0 {
		return 1.0
	}

	candidate := 0
	for _, entry := range resumeEducation {
		if rank := s.educationOrdinal(entry); rank > candidate {
			candidate = rank
		}
	}

	if candidate >= required {
		return 1.0
	}

	return clamp01(float64(candidate) / float64(required))
}

// educationOrdinal recognizes a level by substring so entries like
// "bachelor of science" resolve to the bachelor rank. Unrecognized
// entries rank 0.
func (s *scorerService) educationOrdinal(entry string) int {
	entry = strings.ToLower(normalizeToken(entry))
	if entry == "" {
		return 0
	}

	if rank, ok := s.rubric.EducationRanks[entry]; ok {
		return rank
	}

	best := 0
	for level, rank := range s.rubric.EducationRanks {
		if rank > best && strings.Contains(entry, level) {
			best = rank
		}
	}
	return best
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func clamp01(x float64) float64 {
	return clamp(x, 0, 1)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
