package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const validResumeJSON = `{
	"full_name": "Jane Smith",
	"years_experience": 6,
	"skills": ["Python", "PostgreSQL"],
	"education": ["Bachelor of Science in Computer Science"],
	"projects": ["Payment Gateway"],
	"domains": ["fintech"],
	"companies": ["Acme"]
}`

// stubGemini replays canned responses and records the retry budget each
// model call was given.
type stubGemini struct {
	responses    []string
	errs         []error
	calls        int
	retryBudgets []int
}

func (s *stubGemini) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return s.next()
}

func (s *stubGemini) GenerateJSONWithRetry(ctx context.Context, prompt string, maxRetries int) (string, error) {
	s.retryBudgets = append(s.retryBudgets, maxRetries)
	return s.next()
}

func (s *stubGemini) next() (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", errors.New("no canned response left")
}

func TestExtractResume(t *testing.T) {
	ctx := context.Background()

	t.Run("model call carries the configured retry budget", func(t *testing.T) {
		gemini := &stubGemini{responses: []string{validResumeJSON}}
		extractor, err := NewExtractorService(gemini, 4, zap.NewNop())
		require.NoError(t, err)

		entity, meta, err := extractor.ExtractResume(ctx, "Jane Smith resume text")
		require.NoError(t, err)

		assert.Equal(t, []int{4}, gemini.retryBudgets)
		assert.Equal(t, 1, meta.Attempts)
		assert.False(t, meta.FallbackUsed)
		assert.Equal(t, "Jane Smith", entity["full_name"])
	})

	t.Run("retry budget floors at one attempt", func(t *testing.T) {
		gemini := &stubGemini{responses: []string{validResumeJSON}}
		extractor, err := NewExtractorService(gemini, 0, zap.NewNop())
		require.NoError(t, err)

		_, _, err = extractor.ExtractResume(ctx, "Jane Smith resume text")
		require.NoError(t, err)
		assert.Equal(t, []int{1}, gemini.retryBudgets)
	})

	t.Run("invalid output gets one corrective retry", func(t *testing.T) {
		gemini := &stubGemini{responses: []string{`{"bogus": true}`, validResumeJSON}}
		extractor, err := NewExtractorService(gemini, 3, zap.NewNop())
		require.NoError(t, err)

		entity, meta, err := extractor.ExtractResume(ctx, "Jane Smith resume text")
		require.NoError(t, err)

		assert.Equal(t, []int{3, 3}, gemini.retryBudgets)
		assert.Equal(t, 2, meta.Attempts)
		assert.False(t, meta.FallbackUsed)
		assert.Equal(t, "Jane Smith", entity["full_name"])
	})

	t.Run("transport failure falls back to heuristics", func(t *testing.T) {
		gemini := &stubGemini{errs: []error{errors.New("upstream unavailable")}}
		extractor, err := NewExtractorService(gemini, 3, zap.NewNop())
		require.NoError(t, err)

		entity, meta, err := extractor.ExtractResume(ctx, sampleResumeText)
		require.NoError(t, err)

		assert.True(t, meta.FallbackUsed)
		assert.Equal(t, "Jane Smith", entity["full_name"])
	})

	t.Run("empty text fails", func(t *testing.T) {
		extractor, err := NewExtractorService(&stubGemini{}, 3, zap.NewNop())
		require.NoError(t, err)

		_, _, err = extractor.ExtractResume(ctx, "   ")
		require.Error(t, err)

		var upstreamErr *UpstreamExtractionError
		require.True(t, errors.As(err, &upstreamErr))
	})
}

func TestExtractJob(t *testing.T) {
	ctx := context.Background()

	t.Run("fallback failure surfaces as upstream error", func(t *testing.T) {
		gemini := &stubGemini{errs: []error{errors.New("upstream unavailable")}}
		extractor, err := NewExtractorService(gemini, 2, zap.NewNop())
		require.NoError(t, err)

		// No recognizable skills in the text, so heuristics cannot recover.
		_, _, err = extractor.ExtractJob(ctx, "We sell artisanal candles.")
		require.Error(t, err)

		var upstreamErr *UpstreamExtractionError
		require.True(t, errors.As(err, &upstreamErr))
	})

	t.Run("fallback extracts a usable job", func(t *testing.T) {
		gemini := &stubGemini{errs: []error{errors.New("upstream unavailable")}}
		extractor, err := NewExtractorService(gemini, 2, zap.NewNop())
		require.NoError(t, err)

		entity, meta, err := extractor.ExtractJob(ctx, sampleJobText)
		require.NoError(t, err)

		assert.True(t, meta.FallbackUsed)
		assert.NotEmpty(t, entity["required_skills"])
	})
}
