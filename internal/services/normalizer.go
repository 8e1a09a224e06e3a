package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"

	"alfredoptarigan/resume-screener/internal/models"
)

// NormalizerService turns raw extracted entities into canonical records.
// Both methods are pure: same raw input always yields the same record.
type NormalizerService interface {
	NormalizeResume(raw map[string]interface{}) (*models.ResumeRecord, error)
	NormalizeJob(raw map[string]interface{}) (*models.JobRecord, error)
}

type normalizerService struct{}

func NewNormalizerService() NormalizerService {
	return &normalizerService{}
}

// rawResume accepts the loosely-shaped extraction output. Education and
// projects are polymorphic (string or list, strings or objects) and are
// coerced by explicit helpers after decoding.
type rawResume struct {
	FullName        string      `mapstructure:"full_name"`
	YearsExperience float64     `mapstructure:"years_experience"`
	TotalYears      float64     `mapstructure:"total_years_experience"`
	Skills          []string    `mapstructure:"skills"`
	Education       interface{} `mapstructure:"education"`
	Projects        interface{} `mapstructure:"projects"`
	Domain          string      `mapstructure:"domain"`
	Domains         []string    `mapstructure:"domains"`
	Companies       []string    `mapstructure:"companies"`
}

type rawJob struct {
	Title                string      `mapstructure:"title"`
	RequiredSkills       []string    `mapstructure:"required_skills"`
	PreferredSkills      []string    `mapstructure:"preferred_skills"`
	NiceToHaveSkills     []string    `mapstructure:"nice_to_have_skills"`
	MinYearsExperience   float64     `mapstructure:"min_years_experience"`
	MinimumYears         float64     `mapstructure:"minimum_years_experience"`
	Domain               string      `mapstructure:"domain"`
	RequiredEducation    interface{} `mapstructure:"required_education"`
	EducationRequirement interface{} `mapstructure:"education_requirement"`
}

func (n *normalizerService) NormalizeResume(raw map[string]interface{}) (*models.ResumeRecord, error) {
	var decoded rawResume
	if err := decodeWeakly(raw, &decoded); err != nil {
		return nil, &ValidationError{Field: "resume", Message: err.Error()}
	}

	fullName := normalizeToken(decoded.FullName)
	if fullName == "" {
		return nil, &ValidationError{Field: "full_name", Message: "required field is missing"}
	}

	years := decoded.YearsExperience
	yearsField := "years_experience"
	if _, ok := raw["years_experience"]; !ok {
		years = decoded.TotalYears
		if _, ok := raw["total_years_experience"]; ok {
			yearsField = "total_years_experience"
		}
	}
	if years < 0 {
		return nil, &ValidationError{Field: yearsField, Message: "must be >= 0"}
	}

	domains := normalizeLowerSet(decoded.Domains)
	if d := strings.ToLower(normalizeToken(decoded.Domain)); d != "" && !containsString(domains, d) {
		domains = append(domains, d)
	}

	skills := normalizeLowerSet(decoded.Skills)
	sort.Strings(skills)

	return &models.ResumeRecord{
		FullName:        fullName,
		YearsExperience: years,
		Skills:          skills,
		Education:       coerceStringList(decoded.Education, true),
		Projects:        coerceProjectList(decoded.Projects),
		Domains:         domains,
		Companies:       normalizeSet(decoded.Companies),
	}, nil
}

func (n *normalizerService) NormalizeJob(raw map[string]interface{}) (*models.JobRecord, error) {
	var decoded rawJob
	if err := decodeWeakly(raw, &decoded); err != nil {
		return nil, &ValidationError{Field: "job", Message: err.Error()}
	}

	title := normalizeToken(decoded.Title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Message: "required field is missing"}
	}

	minYears := decoded.MinYearsExperience
	minYearsField := "min_years_experience"
	if _, ok := raw["min_years_experience"]; !ok {
		minYears = decoded.MinimumYears
		if _, ok := raw["minimum_years_experience"]; ok {
			minYearsField = "minimum_years_experience"
		}
	}
	if minYears < 0 {
		return nil, &ValidationError{Field: minYearsField, Message: "must be >= 0"}
	}

	preferred := decoded.PreferredSkills
	if len(preferred) == 0 {
		preferred = decoded.NiceToHaveSkills
	}

	requiredEducation := decoded.RequiredEducation
	if requiredEducation == nil {
		requiredEducation = decoded.EducationRequirement
	}

	var educationLevel string
	if levels := coerceStringList(requiredEducation, true); len(levels) > 0 {
		educationLevel = levels[0]
	}

	// Required skills keep the caller's order so coverage details report
	// requirements the way the job listed them. An empty list is valid:
	// coverage treats it as a vacuous match.
	return &models.JobRecord{
		Title:              title,
		RequiredSkills:     normalizeLowerSet(decoded.RequiredSkills),
		PreferredSkills:    normalizeLowerSet(preferred),
		MinYearsExperience: minYears,
		Domain:             strings.ToLower(normalizeToken(decoded.Domain)),
		RequiredEducation:  educationLevel,
	}, nil
}

func decodeWeakly(raw map[string]interface{}, target interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("failed to decode input: %w", err)
	}

	return nil
}

// normalizeToken trims and collapses inner whitespace.
func normalizeToken(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// normalizeSet trims, drops empties and dedups case-insensitively while
// preserving first-seen order and display case.
func normalizeSet(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := []string{}

	for _, raw := range values {
		token := normalizeToken(raw)
		if token == "" {
			continue
		}
		key := strings.ToLower(token)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, token)
	}

	return out
}

func normalizeLowerSet(values []string) []string {
	lowered := make([]string, 0, len(values))
	for _, v := range values {
		lowered = append(lowered, strings.ToLower(v))
	}
	return normalizeSet(lowered)
}

// coerceStringList accepts a single string or a list of strings.
func coerceStringList(value interface{}, lower bool) []string {
	var items []string

	switch v := value.(type) {
	case nil:
		return []string{}
	case string:
		items = []string{v}
	case []string:
		items = v
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
	default:
		return []string{}
	}

	if lower {
		return normalizeLowerSet(items)
	}
	return normalizeSet(items)
}

// coerceProjectList accepts project entries as plain strings or objects
// carrying a name or title key.
func coerceProjectList(value interface{}) []string {
	list, ok := value.([]interface{})
	if !ok {
		return coerceStringList(value, false)
	}

	var items []string
	for _, item := range list {
		switch v := item.(type) {
		case string:
			items = append(items, v)
		case map[string]interface{}:
			if name, ok := v["name"].(string); ok {
				items = append(items, name)
			} else if title, ok := v["title"].(string); ok {
				items = append(items, title)
			}
		}
	}

	return normalizeSet(items)
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
