package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/models"
)

func fintechResume() *models.ResumeRecord {
	return &models.ResumeRecord{
		FullName:        "Jane Smith",
		YearsExperience: 5,
		Skills:          []string{"python", "sql"},
		Education:       []string{"bachelor"},
		Projects:        []string{},
		Domains:         []string{"fintech"},
	}
}

func fintechJob() *models.JobRecord {
	return &models.JobRecord{
		Title:              "Backend Engineer",
		RequiredSkills:     []string{"python", "sql", "go"},
		MinYearsExperience: 3,
		Domain:             "fintech",
		RequiredEducation:  "bachelor",
	}
}

func TestComputeWeightedAggregate(t *testing.T) {
	scorer := NewScorerService(config.DefaultRubric())

	breakdown := scorer.Compute(fintechResume(), fintechJob())

	// "go" is too short for substring matching, so coverage is 2/3.
	assert.InDelta(t, 2.0/3.0, breakdown.Dimensions[config.DimRequiredSkills].Score, 1e-9)
	assert.Equal(t, 1.0, breakdown.Dimensions[config.DimExperience].Score)
	assert.Equal(t, 1.0, breakdown.Dimensions[config.DimDomainMatch].Score)
	assert.Equal(t, 0.0, breakdown.Dimensions[config.DimProjects].Score)
	assert.Equal(t, 1.0, breakdown.Dimensions[config.DimEducation].Score)

	assert.Equal(t, 76.67, breakdown.TotalScore)

	assert.Equal(t, 2, breakdown.SkillsCoverage.Matched)
	assert.Equal(t, 3, breakdown.SkillsCoverage.Total)
	assert.Equal(t, []string{"python", "sql"}, breakdown.SkillsCoverage.MatchedRequired)
	assert.Equal(t, []string{"go"}, breakdown.SkillsCoverage.MissingRequired)
}

func TestComputeInvariants(t *testing.T) {
	scorer := NewScorerService(config.DefaultRubric())

	breakdown := scorer.Compute(fintechResume(), fintechJob())

	sum := 0.0
	for dim, weight := range breakdown.Weights {
		sum += weight

		score := breakdown.Dimensions[dim].Score
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
		assert.InDelta(t, weight*score*100, breakdown.Dimensions[dim].Contribution, 1e-9)
	}
	assert.InDelta(t, 1.0, sum, 1e-6)

	assert.GreaterOrEqual(t, breakdown.TotalScore, 0.0)
	assert.LessOrEqual(t, breakdown.TotalScore, 100.0)
}

func TestComputeIsDeterministic(t *testing.T) {
	scorer := NewScorerService(config.DefaultRubric())

	first := scorer.Compute(fintechResume(), fintechJob())
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, scorer.Compute(fintechResume(), fintechJob()))
	}
}

func TestComputeVacuousSkillMatch(t *testing.T) {
	scorer := NewScorerService(config.DefaultRubric())

	job := fintechJob()
	job.RequiredSkills = nil

	breakdown := scorer.Compute(fintechResume(), job)

	assert.Equal(t, 1.0, breakdown.Dimensions[config.DimRequiredSkills].Score)
	assert.Equal(t, 1.0, breakdown.SkillsCoverage.Ratio)
	assert.Equal(t, 0, breakdown.SkillsCoverage.Total)
	assert.NotNil(t, breakdown.SkillsCoverage.MatchedRequired)
	assert.NotNil(t, breakdown.SkillsCoverage.MissingRequired)
}

func TestCanonicalSkill(t *testing.T) {
	synonyms := config.DefaultRubric().SkillSynonyms

	tests := []struct {
		input    string
		expected string
	}{
		{"Python", "python"},
		{"Node.js", "nodejs"},
		{"node js", "nodejs"},
		{"React.JS", "react"},
		{"K8s", "kubernetes"},
		{"GoLang", "go"},
		{"C++", "cpp"},
		{"Postgres", "postgresql"},
		{"machine learning", "machinelearning"},
		{"  spaced   out  ", "spacedout"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, canonicalSkill(tt.input, synonyms))
		})
	}
}

func TestSkillInSetSubstringMatching(t *testing.T) {
	set := map[string]bool{
		"postgresql":  true,
		"reactnative": true,
		"go":          true,
	}

	assert.True(t, skillInSet("postgresql", set))
	// Substring containment works both ways for tokens of length >= 4.
	assert.True(t, skillInSet("react", set))
	assert.True(t, skillInSet("advancedpostgresqladministration", set))
	// Short tokens only match exactly.
	assert.True(t, skillInSet("go", set))
	assert.False(t, skillInSet("js", set))
	assert.False(t, skillInSet("rust", set))
}

func TestScoreExperience(t *testing.T) {
	tests := []struct {
		name     string
		years    float64
		minYears float64
		expected float64
	}{
		{"no requirement", 0, 0, 1.0},
		{"meets requirement", 5, 3, 1.0},
		{"exactly at requirement", 3, 3, 1.0},
		{"no experience", 0, 3, 0.0},
		{"partial credit", 2, 4, 0.5},
		{"fractional minimum floors at one", 0.5, 0.8, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, scoreExperience(tt.years, tt.minYears), 1e-9)
		})
	}
}

func TestScoreDomainMatch(t *testing.T) {
	rubric := config.DefaultRubric()
	rubric.AdjacentDomains = map[string][]string{
		"fintech": {"banking"},
	}
	scorer := NewScorerService(rubric).(*scorerService)

	assert.Equal(t, 1.0, scorer.scoreDomainMatch([]string{"healthcare"}, ""))
	assert.Equal(t, 1.0, scorer.scoreDomainMatch([]string{"fintech"}, "fintech"))
	assert.Equal(t, 0.5, scorer.scoreDomainMatch([]string{"banking"}, "fintech"))
	// Adjacency is symmetric.
	assert.Equal(t, 0.5, scorer.scoreDomainMatch([]string{"fintech"}, "banking"))
	assert.Equal(t, 0.0, scorer.scoreDomainMatch([]string{"healthcare"}, "fintech"))
	assert.Equal(t, 0.0, scorer.scoreDomainMatch(nil, "fintech"))
}

func TestScoreProjects(t *testing.T) {
	assert.Equal(t, 0.0, scoreProjects(0, 1))
	assert.Equal(t, 1.0, scoreProjects(1, 1))
	assert.Equal(t, 1.0, scoreProjects(5, 3))
	assert.InDelta(t, 2.0/3.0, scoreProjects(2, 3), 1e-9)
}

func TestScoreEducation(t *testing.T) {
	scorer := NewScorerService(config.DefaultRubric()).(*scorerService)

	tests := []struct {
		name      string
		education []string
		required  string
		expected  float64
	}{
		{"no requirement", nil, "", 1.0},
		{"meets requirement", []string{"bachelor"}, "bachelor", 1.0},
		{"exceeds requirement", []string{"phd"}, "master", 1.0},
		{"substring recognition", []string{"Bachelor of Science in CS"}, "bachelor", 1.0},
		{"below requirement", []string{"bachelor"}, "master", 0.5},
		{"no evidence", nil, "master", 0.0},
		{"unrecognized entries rank zero", []string{"bootcamp"}, "bachelor", 0.0},
		{"phd equals doctorate", []string{"doctorate"}, "phd", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, scorer.scoreEducation(tt.education, tt.required), 1e-9)
		})
	}
}

func TestApplyTextBoosts(t *testing.T) {
	scorer := NewScorerService(config.DefaultRubric())

	t.Run("both signals", func(t *testing.T) {
		breakdown := scorer.Compute(fintechResume(), fintechJob())
		require.Equal(t, 76.67, breakdown.TotalScore)

		scorer.ApplyTextBoosts(breakdown,
			"Senior engineer who led the payments team",
			"Looking for a senior backend engineer",
		)

		assert.Equal(t, 78.67, breakdown.TotalScore)
		require.NotNil(t, breakdown.Boosts)
		assert.Equal(t, 2.0, breakdown.Boosts.Points)
		assert.Equal(t, []string{"seniority_signal", "leadership_signal"}, breakdown.Boosts.Signals)
	})

	t.Run("seniority only", func(t *testing.T) {
		breakdown := scorer.Compute(fintechResume(), fintechJob())

		scorer.ApplyTextBoosts(breakdown,
			"Staff engineer with backend focus",
			"Backend engineer role",
		)

		assert.Equal(t, 77.67, breakdown.TotalScore)
		require.NotNil(t, breakdown.Boosts)
		assert.Equal(t, 1.0, breakdown.Boosts.Points)
	})

	t.Run("no signals leaves score untouched", func(t *testing.T) {
		breakdown := scorer.Compute(fintechResume(), fintechJob())

		scorer.ApplyTextBoosts(breakdown, "junior developer", "entry level role")

		assert.Equal(t, 76.67, breakdown.TotalScore)
		assert.Nil(t, breakdown.Boosts)
	})

	t.Run("missing text disables boosts", func(t *testing.T) {
		breakdown := scorer.Compute(fintechResume(), fintechJob())

		scorer.ApplyTextBoosts(breakdown, "", "senior role")

		assert.Equal(t, 76.67, breakdown.TotalScore)
		assert.Nil(t, breakdown.Boosts)
	})

	t.Run("boosted score stays within bounds", func(t *testing.T) {
		resume := fintechResume()
		resume.Skills = []string{"go", "python", "sql"}
		resume.Projects = []string{"ledger service"}

		breakdown := scorer.Compute(resume, fintechJob())
		require.Equal(t, 100.0, breakdown.TotalScore)

		scorer.ApplyTextBoosts(breakdown,
			"Senior engineer who led the team",
			"Senior backend engineer",
		)

		assert.Equal(t, 100.0, breakdown.TotalScore)
	})
}
