package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRubricIsValid(t *testing.T) {
	rubric := DefaultRubric()
	require.NoError(t, rubric.Validate())

	sum := 0.0
	for _, dim := range DimensionOrder {
		weight, ok := rubric.Weights[dim]
		require.True(t, ok, "missing weight for %s", dim)
		assert.GreaterOrEqual(t, weight, 0.0)
		assert.LessOrEqual(t, weight, 1.0)
		sum += weight
	}
	assert.InDelta(t, 1.0, sum, 1e-6)

	assert.Equal(t, 80.0, rubric.Thresholds.AutoAdvance)
	assert.Equal(t, 60.0, rubric.Thresholds.ManualReview)
}

func TestRubricValidateRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Rubric)
	}{
		{
			name: "weights do not sum to 1",
			mutate: func(r *Rubric) {
				r.Weights[DimRequiredSkills] = 0.5
			},
		},
		{
			name: "unknown dimension",
			mutate: func(r *Rubric) {
				r.Weights[DimRequiredSkills] = 0.3
				r.Weights["vibes"] = 0.1
			},
		},
		{
			name: "missing dimension",
			mutate: func(r *Rubric) {
				delete(r.Weights, DimEducation)
				r.Weights[DimRequiredSkills] = 0.5
			},
		},
		{
			name: "negative weight",
			mutate: func(r *Rubric) {
				r.Weights[DimProjects] = -0.1
				r.Weights[DimRequiredSkills] = 0.6
			},
		},
		{
			name: "auto_advance below manual_review",
			mutate: func(r *Rubric) {
				r.Thresholds.AutoAdvance = 50
				r.Thresholds.ManualReview = 60
			},
		},
		{
			name: "threshold out of range",
			mutate: func(r *Rubric) {
				r.Thresholds.AutoAdvance = 120
			},
		},
		{
			name: "adjacent credit out of range",
			mutate: func(r *Rubric) {
				r.AdjacentCredit = 1.5
			},
		},
		{
			name: "target projects below one",
			mutate: func(r *Rubric) {
				r.TargetProjects = 0
			},
		},
		{
			name: "negative education rank",
			mutate: func(r *Rubric) {
				r.EducationRanks["bachelor"] = -1
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rubric := DefaultRubric()
			tt.mutate(rubric)

			err := rubric.Validate()
			require.Error(t, err)

			var cfgErr *ConfigurationError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestRubricValidateClampsBorderlineBand(t *testing.T) {
	rubric := DefaultRubric()
	rubric.BorderlineBand = -5
	require.NoError(t, rubric.Validate())
	assert.Equal(t, 0.0, rubric.BorderlineBand)

	rubric = DefaultRubric()
	rubric.BorderlineBand = 25
	require.NoError(t, rubric.Validate())
	assert.Equal(t, 10.0, rubric.BorderlineBand)
}

func TestRubricEqualThresholdsAreValid(t *testing.T) {
	rubric := DefaultRubric()
	rubric.Thresholds.AutoAdvance = 70
	rubric.Thresholds.ManualReview = 70
	assert.NoError(t, rubric.Validate())
}

func TestLoadRubricWithoutPathReturnsDefaults(t *testing.T) {
	rubric, err := LoadRubric("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRubric().Weights, rubric.Weights)
	assert.Equal(t, DefaultRubric().Thresholds, rubric.Thresholds)
}

func TestLoadRubricMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rubric.yaml")
	content := `
thresholds:
  auto_advance: 75
borderline_band: 2
skill_synonyms:
  rb: ruby
adjacent_domains:
  fintech:
    - banking
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rubric, err := LoadRubric(path)
	require.NoError(t, err)

	assert.Equal(t, 75.0, rubric.Thresholds.AutoAdvance)
	// Untouched keys keep their defaults.
	assert.Equal(t, 60.0, rubric.Thresholds.ManualReview)
	assert.Equal(t, 2.0, rubric.BorderlineBand)
	assert.Equal(t, DefaultRubric().Weights, rubric.Weights)

	// Synonyms merge per key instead of replacing the table.
	assert.Equal(t, "ruby", rubric.SkillSynonyms["rb"])
	assert.Equal(t, "python", rubric.SkillSynonyms["py"])

	assert.Equal(t, []string{"banking"}, rubric.AdjacentDomains["fintech"])
}

func TestLoadRubricInvalidFileIsConfigurationError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rubric.yaml")
	content := `
weights:
  required_skills_coverage: 0.9
  experience_alignment: 0.9
  domain_match: 0.1
  projects_presence: 0.05
  education_alignment: 0.05
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadRubric(path)
	require.Error(t, err)

	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoadRubricMissingFileFails(t *testing.T) {
	_, err := LoadRubric(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}
