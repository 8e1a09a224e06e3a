package config

import (
	"fmt"
	"math"

	"github.com/spf13/viper"

	"alfredoptarigan/resume-screener/internal/models"
)

// Rubric dimension names. The scorer computes exactly these five axes.
const (
	DimRequiredSkills = "required_skills_coverage"
	DimExperience     = "experience_alignment"
	DimDomainMatch    = "domain_match"
	DimProjects       = "projects_presence"
	DimEducation      = "education_alignment"
)

// DimensionOrder fixes the iteration order used for aggregation and
// fan-out so breakdowns are reproducible run to run.
var DimensionOrder = []string{
	DimRequiredSkills,
	DimExperience,
	DimDomainMatch,
	DimProjects,
	DimEducation,
}

const weightSumTolerance = 1e-6

// ConfigurationError is fatal at startup. The service refuses to accept
// requests until the rubric is fixed; it is never re-validated per request.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid rubric configuration: %s", e.Message)
}

// Rubric is the full scoring and decisioning configuration. It is built
// once at startup, validated, and passed by reference into the scorer and
// decision engine. Never mutated afterwards.
type Rubric struct {
	Weights         map[string]float64  `mapstructure:"weights"`
	Thresholds      models.Thresholds   `mapstructure:"thresholds"`
	BorderlineBand  float64             `mapstructure:"borderline_band"`
	AdjacentCredit  float64             `mapstructure:"adjacent_credit"`
	AdjacentDomains map[string][]string `mapstructure:"adjacent_domains"`
	TargetProjects  int                 `mapstructure:"target_projects"`
	SkillSynonyms   map[string]string   `mapstructure:"skill_synonyms"`
	EducationRanks  map[string]int      `mapstructure:"education_ranks"`
}

func defaultSkillSynonyms() map[string]string {
	return map[string]string{
		"py":       "python",
		"js":       "javascript",
		"ts":       "typescript",
		"node":     "nodejs",
		"node.js":  "nodejs",
		"reactjs":  "react",
		"react.js": "react",
		"next":     "nextjs",
		"next.js":  "nextjs",
		"postgres": "postgresql",
		"postgre":  "postgresql",
		"k8s":      "kubernetes",
		"c++":      "cpp",
		"c#":       "csharp",
		".net":     "dotnet",
		"golang":   "go",
	}
}

func defaultEducationRanks() map[string]int {
	return map[string]int{
		"none":      0,
		"bachelor":  1,
		"master":    2,
		"doctorate": 3,
		"phd":       3,
	}
}

// DefaultRubric returns the compiled-in rubric used when no rubric file is
// configured.
func DefaultRubric() *Rubric {
	return &Rubric{
		Weights: map[string]float64{
			DimRequiredSkills: 0.4,
			DimExperience:     0.25,
			DimDomainMatch:    0.15,
			DimProjects:       0.1,
			DimEducation:      0.1,
		},
		Thresholds: models.Thresholds{
			AutoAdvance:  80,
			ManualReview: 60,
		},
		BorderlineBand:  0,
		AdjacentCredit:  0.5,
		AdjacentDomains: map[string][]string{},
		TargetProjects:  1,
		SkillSynonyms:   defaultSkillSynonyms(),
		EducationRanks:  defaultEducationRanks(),
	}
}

// LoadRubric builds the rubric from compiled-in defaults, optionally
// overridden by the JSON/YAML file at path, and validates it once. A
// validation failure is a ConfigurationError and must be treated as fatal.
func LoadRubric(path string) (*Rubric, error) {
	rubric := DefaultRubric()

	if path != "" {
		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, &ConfigurationError{Message: fmt.Sprintf("failed to read rubric file %s: %v", path, err)}
		}

		var override Rubric
		if err := v.Unmarshal(&override); err != nil {
			return nil, &ConfigurationError{Message: fmt.Sprintf("failed to decode rubric file %s: %v", path, err)}
		}

		mergeRubric(rubric, &override, v)
	}

	if err := rubric.Validate(); err != nil {
		return nil, err
	}

	return rubric, nil
}

// mergeRubric overlays the file values onto the defaults. Maps merge per
// key; scalars replace only when the file actually sets them.
func mergeRubric(base, override *Rubric, v *viper.Viper) {
	if len(override.Weights) > 0 {
		base.Weights = override.Weights
	}
	if v.IsSet("thresholds.auto_advance") {
		base.Thresholds.AutoAdvance = override.Thresholds.AutoAdvance
	}
	if v.IsSet("thresholds.manual_review") {
		base.Thresholds.ManualReview = override.Thresholds.ManualReview
	}
	if v.IsSet("borderline_band") {
		base.BorderlineBand = override.BorderlineBand
	}
	if v.IsSet("adjacent_credit") {
		base.AdjacentCredit = override.AdjacentCredit
	}
	if len(override.AdjacentDomains) > 0 {
		base.AdjacentDomains = override.AdjacentDomains
	}
	if v.IsSet("target_projects") {
		base.TargetProjects = override.TargetProjects
	}
	for alias, canonical := range override.SkillSynonyms {
		base.SkillSynonyms[alias] = canonical
	}
	for level, rank := range override.EducationRanks {
		base.EducationRanks[level] = rank
	}
}

// Validate enforces the rubric invariants. Called once at startup.
func (r *Rubric) Validate() error {
	known := make(map[string]bool, len(DimensionOrder))
	for _, dim := range DimensionOrder {
		known[dim] = true
	}

	sum := 0.0
	for dim, w := range r.Weights {
		if !known[dim] {
			return &ConfigurationError{Message: fmt.Sprintf("unknown dimension %q in weights", dim)}
		}
		if w < 0 || w > 1 {
			return &ConfigurationError{Message: fmt.Sprintf("weight for %q must be within [0,1], got %v", dim, w)}
		}
		sum += w
	}

	for _, dim := range DimensionOrder {
		if _, ok := r.Weights[dim]; !ok {
			return &ConfigurationError{Message: fmt.Sprintf("missing weight for dimension %q", dim)}
		}
	}

	if math.Abs(sum-1.0) > weightSumTolerance {
		return &ConfigurationError{Message: fmt.Sprintf("weights must sum to 1, got %v", sum)}
	}

	if r.Thresholds.AutoAdvance < 0 || r.Thresholds.AutoAdvance > 100 {
		return &ConfigurationError{Message: fmt.Sprintf("auto_advance threshold must be within [0,100], got %v", r.Thresholds.AutoAdvance)}
	}
	if r.Thresholds.ManualReview < 0 || r.Thresholds.ManualReview > 100 {
		return &ConfigurationError{Message: fmt.Sprintf("manual_review threshold must be within [0,100], got %v", r.Thresholds.ManualReview)}
	}
	if r.Thresholds.AutoAdvance < r.Thresholds.ManualReview {
		return &ConfigurationError{Message: "auto_advance threshold must be >= manual_review threshold"}
	}

	if r.BorderlineBand < 0 {
		r.BorderlineBand = 0
	}
	if r.BorderlineBand > 10 {
		r.BorderlineBand = 10
	}

	if r.AdjacentCredit < 0 || r.AdjacentCredit > 1 {
		return &ConfigurationError{Message: fmt.Sprintf("adjacent_credit must be within [0,1], got %v", r.AdjacentCredit)}
	}

	if r.TargetProjects < 1 {
		return &ConfigurationError{Message: fmt.Sprintf("target_projects must be >= 1, got %d", r.TargetProjects)}
	}

	for level, rank := range r.EducationRanks {
		if rank < 0 {
			return &ConfigurationError{Message: fmt.Sprintf("education rank for %q must be >= 0, got %d", level, rank)}
		}
	}

	return nil
}
