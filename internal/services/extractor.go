package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

const (
	extractionTargetResume = "resume"
	extractionTargetJob    = "job_description"

	// Raw document text is capped before prompting; anything past this is
	// boilerplate for the fields we extract.
	maxExtractionTextLen = 12000
)

const resumeSchemaJSON = `{
	"type": "object",
	"additionalProperties": false,
	"required": ["full_name", "years_experience", "skills", "education", "projects", "domains", "companies"],
	"properties": {
		"full_name": {"type": "string", "minLength": 1},
		"years_experience": {"type": "number", "minimum": 0},
		"skills": {"type": "array", "items": {"type": "string"}},
		"education": {"type": "array", "items": {"type": "string"}},
		"projects": {"type": "array", "items": {"type": "string"}},
		"domains": {"type": "array", "items": {"type": "string"}},
		"companies": {"type": "array", "items": {"type": "string"}}
	}
}`

const jobSchemaJSON = `{
	"type": "object",
	"additionalProperties": false,
	"required": ["title", "required_skills", "preferred_skills", "min_years_experience"],
	"properties": {
		"title": {"type": "string", "minLength": 1},
		"required_skills": {"type": "array", "items": {"type": "string"}},
		"preferred_skills": {"type": "array", "items": {"type": "string"}},
		"min_years_experience": {"type": "number", "minimum": 0},
		"domain": {"type": ["string", "null"]},
		"required_education": {"type": ["string", "null"]}
	}
}`

// ExtractionMeta records how a structured entity was obtained so the
// pipeline can degrade the confidence score when heuristics kicked in.
type ExtractionMeta struct {
	Target       string
	Attempts     int
	FallbackUsed bool
}

// ExtractorService turns raw document text into loosely-shaped structured
// entities. The LLM path validates its output against an embedded JSON
// Schema with one corrective retry; on failure a deterministic heuristic
// extractor takes over.
type ExtractorService interface {
	ExtractResume(ctx context.Context, text string) (map[string]interface{}, *ExtractionMeta, error)
	ExtractJob(ctx context.Context, text string) (map[string]interface{}, *ExtractionMeta, error)
}

type extractorService struct {
	gemini      GeminiService
	maxAttempts int
	logger      *zap.Logger

	resumeSchema *gojsonschema.Schema
	jobSchema    *gojsonschema.Schema
}

// NewExtractorService builds the extractor. maxAttempts bounds the
// transport-level retries of each model call.
func NewExtractorService(gemini GeminiService, maxAttempts int, logger *zap.Logger) (ExtractorService, error) {
	resumeSchema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(resumeSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to compile resume schema: %w", err)
	}

	jobSchema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(jobSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to compile job schema: %w", err)
	}

	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &extractorService{
		gemini:       gemini,
		maxAttempts:  maxAttempts,
		logger:       logger,
		resumeSchema: resumeSchema,
		jobSchema:    jobSchema,
	}, nil
}

func (e *extractorService) ExtractResume(ctx context.Context, text string) (map[string]interface{}, *ExtractionMeta, error) {
	return e.extract(ctx, text, extractionTargetResume, resumeSchemaJSON, e.resumeSchema, heuristicExtractResume)
}

func (e *extractorService) ExtractJob(ctx context.Context, text string) (map[string]interface{}, *ExtractionMeta, error) {
	return e.extract(ctx, text, extractionTargetJob, jobSchemaJSON, e.jobSchema, heuristicExtractJob)
}

func (e *extractorService) extract(
	ctx context.Context,
	text string,
	target string,
	schemaJSON string,
	schema *gojsonschema.Schema,
	fallback func(text string) (map[string]interface{}, error),
) (map[string]interface{}, *ExtractionMeta, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, &UpstreamExtractionError{Target: target, Err: fmt.Errorf("document text is empty")}
	}

	if len(text) > maxExtractionTextLen {
		text = text[:maxExtractionTextLen]
	}

	meta := &ExtractionMeta{Target: target}

	entity, err := e.extractWithModel(ctx, text, target, schemaJSON, schema, meta)
	if err == nil {
		return entity, meta, nil
	}

	e.logger.Warn("⚠️ Model extraction failed, falling back to heuristics",
		zap.String("target", target),
		zap.Int("attempts", meta.Attempts),
		zap.Error(err),
	)

	entity, fallbackErr := fallback(text)
	if fallbackErr != nil {
		return nil, nil, &UpstreamExtractionError{Target: target, Err: fallbackErr}
	}

	meta.FallbackUsed = true
	return entity, meta, nil
}

func (e *extractorService) extractWithModel(
	ctx context.Context,
	text string,
	target string,
	schemaJSON string,
	schema *gojsonschema.Schema,
	meta *ExtractionMeta,
) (map[string]interface{}, error) {
	prompt := buildExtractionPrompt(target, schemaJSON, text, "")

	meta.Attempts++
	response, err := e.gemini.GenerateJSONWithRetry(ctx, prompt, e.maxAttempts)
	if err != nil {
		return nil, err
	}

	entity, validationErr := parseAndValidate(response, schema)
	if validationErr == nil {
		return entity, nil
	}

	// One corrective retry: feed the validation failure back to the model.
	meta.Attempts++
	retryPrompt := buildExtractionPrompt(target, schemaJSON, text, validationErr.Error())
	response, err = e.gemini.GenerateJSONWithRetry(ctx, retryPrompt, e.maxAttempts)
	if err != nil {
		return nil, err
	}

	return parseAndValidate(response, schema)
}

func buildExtractionPrompt(target, schemaJSON, text, previousError string) string {
	var sb strings.Builder

	sb.WriteString("You are a strict information extraction engine for a hiring evaluation system.\n")
	fmt.Fprintf(&sb, "Extract structured factual data for: %s.\n", target)
	sb.WriteString("Rules:\n")
	sb.WriteString("- Output MUST be a single JSON object with no surrounding text.\n")
	sb.WriteString("- Output MUST match the provided JSON Schema exactly.\n")
	sb.WriteString("- Extract ONLY facts present in the input text. Do not infer, guess, or hallucinate.\n")
	sb.WriteString("- If a field is missing, use an empty list [] for list fields and null for optional fields.\n")

	if previousError != "" {
		fmt.Fprintf(&sb, "The previous output did not validate. Fix it.\nValidation error:\n%s\n", previousError)
	}

	fmt.Fprintf(&sb, "JSON Schema:\n%s\n\nINPUT TEXT:\n%s\n", schemaJSON, text)
	return sb.String()
}

func parseAndValidate(response string, schema *gojsonschema.Schema) (map[string]interface{}, error) {
	jsonStr := extractJSON(response)

	var entity map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &entity); err != nil {
		return nil, fmt.Errorf("invalid JSON in model output: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(entity))
	if err != nil {
		return nil, fmt.Errorf("failed to validate model output: %w", err)
	}

	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return nil, fmt.Errorf("model output does not match schema: %s", strings.Join(issues, "; "))
	}

	return entity, nil
}

// extractJSON pulls a JSON object or array out of text that may wrap it
// in markdown fences or commentary.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	endObj := strings.LastIndex(text, "}")
	if startObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	}

	startArr := strings.Index(text, "[")
	endArr := strings.LastIndex(text, "]")
	if startArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}
