package llm

import (
	"context"

	"lexipipe/internal/model"
)

// Provider defines the interface for generative backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Rewrite simplifies an article to the requested CEFR level and
	// attaches a short glossary
	Rewrite(ctx context.Context, text, level string) (*model.Rewrite, error)

	// MineTerms lists specialized terms general learners might not know
	MineTerms(ctx context.Context, text string, limit int) ([]string, error)

	// CorrectSentence reviews one learner sentence for grammar and
	// naturalness
	CorrectSentence(ctx context.Context, req CorrectionRequest) (*model.Correction, error)

	// ExplainTerm produces a learner-friendly note for a single term
	ExplainTerm(ctx context.Context, req ExplainRequest) (*model.TermNote, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CorrectionRequest carries a learner sentence and its writing context
type CorrectionRequest struct {
	Sentence string
	Pattern  string
	Topic    string
	Keywords []string
}

// ExplainRequest asks for a vocabulary note on a term in context
type ExplainRequest struct {
	Term        string
	ArticleText string

	// ExtraLanguage adds translations into this language when set
	ExtraLanguage string
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "gemini" or "openai"
	Provider string

	// Model name (provider-specific)
	Model string

	// FallbackModel retries once when the primary returns nothing
	FallbackModel string

	// APIKey for the backend
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:      "gemini",
		Model:         "gemini-2.5-flash",
		FallbackModel: "gemini-2.0-flash",
		Timeout:       60,
		MaxTokens:     2000,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:      modelConfig.Provider,
		Model:         modelConfig.Model,
		FallbackModel: modelConfig.FallbackModel,
		APIKey:        modelConfig.APIKey,
		BaseURL:       modelConfig.BaseURL,
		Timeout:       modelConfig.Timeout,
		MaxTokens:     modelConfig.MaxTokens,
	}
}
