package models

// ResumeRecord is the canonical candidate profile produced by the schema
// normalizer. It is created once per request and never mutated afterwards.
// Skill, domain and education entries are trimmed, lower-cased and deduped;
// skills are kept sorted so the record is a stable set representation.
type ResumeRecord struct {
	FullName        string   `json:"full_name"`
	YearsExperience float64  `json:"years_experience"`
	Skills          []string `json:"skills"`
	Education       []string `json:"education"`
	Projects        []string `json:"projects"`
	Domains         []string `json:"domains"`
	Companies       []string `json:"companies"`
}

// JobRecord is the canonical role requirement profile. RequiredSkills keeps
// the input order so coverage details report requirements the way the job
// listed them.
type JobRecord struct {
	Title              string   `json:"title"`
	RequiredSkills     []string `json:"required_skills"`
	PreferredSkills    []string `json:"preferred_skills"`
	MinYearsExperience float64  `json:"min_years_experience"`
	Domain             string   `json:"domain"`
	RequiredEducation  string   `json:"required_education"`
}
