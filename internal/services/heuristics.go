package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Deterministic fallback extraction used when the model collaborator
// fails. Keyword scans only, so repeated runs on the same text always
// produce the same entities.

const (
	maxResumeYears = 50
	maxJobYears    = 40
)

var yearsRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\+?\s+years`)

// knownSkills maps the lower-case scan token to the display name reported
// in extracted entities.
var knownSkills = []struct {
	token   string
	display string
	aliases []string
}{
	{token: "python", display: "Python"},
	{token: "java", display: "Java"},
	{token: "javascript", display: "Javascript"},
	{token: "typescript", display: "Typescript"},
	{token: "react", display: "React"},
	{token: "nextjs", display: "Next.js", aliases: []string{"next.js"}},
	{token: "nodejs", display: "Node.js", aliases: []string{"node.js"}},
	{token: "fastapi", display: "Fastapi"},
	{token: "django", display: "Django"},
	{token: "flask", display: "Flask"},
	{token: "sql", display: "SQL"},
	{token: "postgresql", display: "PostgreSQL", aliases: []string{"postgres"}},
	{token: "mysql", display: "Mysql"},
	{token: "mongodb", display: "Mongodb"},
	{token: "redis", display: "Redis"},
	{token: "aws", display: "AWS", aliases: []string{"amazon web services"}},
	{token: "azure", display: "Azure"},
	{token: "gcp", display: "GCP", aliases: []string{"google cloud"}},
	{token: "docker", display: "Docker"},
	{token: "kubernetes", display: "Kubernetes"},
	{token: "git", display: "Git"},
	{token: "linux", display: "Linux"},
}

var domainBuckets = map[string][]string{
	"fintech":    {"fintech", "payment", "payments", "bank", "banking", "credit", "lending", "wallet", "kyc", "aml"},
	"healthcare": {"healthcare", "hospital", "clinical", "patient", "hipaa", "ehr", "emr"},
	"ecommerce":  {"ecommerce", "e-commerce", "shop", "checkout", "cart", "order", "retail", "marketplace", "shopify"},
	"saas":       {"saas", "b2b", "subscription", "multi-tenant", "tenant", "crm", "erp"},
	"data":       {"data", "analytics", "etl", "warehouse", "bigquery", "snowflake", "databricks", "pipeline"},
	"ml_ai":      {"machine learning", "ml", "llm", "nlp", "computer vision", "rag", "prompt"},
}

// domainBucketOrder keeps tie-breaking deterministic across runs.
var domainBucketOrder = []string{"fintech", "healthcare", "ecommerce", "saas", "data", "ml_ai"}

func heuristicExtractResume(text string) (map[string]interface{}, error) {
	name := "Candidate"
	for _, line := range strings.Split(text, "\n") {
		candidate := strings.TrimSpace(line)
		if candidate == "" {
			continue
		}
		if len(candidate) >= 2 && len(candidate) <= 80 && hasLetter(candidate) && !strings.Contains(candidate, "@") {
			name = candidate
		}
		break
	}

	years := scanMaxYears(text, nil, maxResumeYears)
	lower := strings.ToLower(text)

	education := []string{}
	if containsAny(lower, []string{"bachelor", "b.tech", "btech", "b.sc"}) {
		education = append(education, "Bachelor")
	}
	if containsAny(lower, []string{"master", "m.tech", "mtech", "m.sc"}) {
		education = append(education, "Master")
	}
	if containsAny(lower, []string{"phd", "doctorate"}) {
		education = append(education, "PhD")
	}

	domains := []string{}
	if domain := inferDomain(text); domain != "" {
		domains = append(domains, domain)
	}

	return map[string]interface{}{
		"full_name":        name,
		"years_experience": years,
		"skills":           scanSkills(text),
		"education":        education,
		"projects":         []string{},
		"domains":          domains,
		"companies":        []string{},
	}, nil
}

func heuristicExtractJob(text string) (map[string]interface{}, error) {
	skills := scanSkills(text)
	if len(skills) == 0 {
		return nil, fmt.Errorf("unable to infer required skills from job description text")
	}

	// Only count a years figure toward the minimum when it sits in an
	// experience context.
	minYears := scanMaxYears(text, func(window string) bool {
		return strings.Contains(window, "experience") || strings.Contains(window, "years")
	}, maxJobYears)

	lower := strings.ToLower(text)
	requiredEducation := ""
	if containsAny(lower, []string{"bachelor", "b.tech", "btech"}) {
		requiredEducation = "Bachelor"
	}
	if containsAny(lower, []string{"master", "m.tech", "mtech"}) {
		requiredEducation = "Master"
	}

	title := "Role"
	for _, line := range strings.Split(text, "\n") {
		candidate := strings.TrimSpace(line)
		if candidate != "" {
			if len(candidate) <= 120 && hasLetter(candidate) {
				title = candidate
			}
			break
		}
	}

	return map[string]interface{}{
		"title":                title,
		"required_skills":      skills,
		"preferred_skills":     []string{},
		"min_years_experience": minYears,
		"domain":               inferDomain(text),
		"required_education":   requiredEducation,
	}, nil
}

func scanSkills(text string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	out := []string{}

	for _, skill := range knownSkills {
		found := strings.Contains(lower, skill.token)
		for _, alias := range skill.aliases {
			if strings.Contains(lower, alias) {
				found = true
			}
		}
		if !found {
			continue
		}

		key := strings.ToLower(skill.display)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, skill.display)
	}

	return out
}

func scanMaxYears(text string, windowOK func(window string) bool, limit float64) float64 {
	years := 0.0
	for _, match := range yearsRe.FindAllStringSubmatchIndex(text, -1) {
		if windowOK != nil {
			start := match[0] - 40
			if start < 0 {
				start = 0
			}
			end := match[1] + 40
			if end > len(text) {
				end = len(text)
			}
			if !windowOK(strings.ToLower(text[start:end])) {
				continue
			}
		}

		value, err := strconv.ParseFloat(text[match[2]:match[3]], 64)
		if err != nil {
			continue
		}
		if value > years {
			years = value
		}
	}

	if years > limit {
		years = limit
	}
	return years
}

// inferDomain scores keyword buckets against the text and picks the best
// scoring one; empty when nothing matches.
func inferDomain(text string) string {
	lower := strings.ToLower(text)

	best := ""
	bestScore := 0
	for _, domain := range domainBucketOrder {
		score := 0
		for _, keyword := range domainBuckets[domain] {
			if strings.Contains(lower, keyword) {
				score++
			}
		}
		if score > bestScore {
			best = domain
			bestScore = score
		}
	}

	return best
}

func hasLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
