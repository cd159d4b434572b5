package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"lexipipe/internal/model"
)

// chatClient implements the Provider operations on any OpenAI-compatible
// chat completions endpoint.
type chatClient struct {
	name   string
	client *openai.Client
	config Config
}

func newChatClient(name string, config Config) (*chatClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", name)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &chatClient{
		name:   name,
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (c *chatClient) Name() string {
	return c.name
}

// IsAvailable checks if the provider is properly configured
func (c *chatClient) IsAvailable(ctx context.Context) bool {
	_, err := c.client.ListModels(ctx)
	return err == nil
}

// complete sends one user prompt and returns the response text. An empty
// response from the primary model retries once on the fallback model.
func (c *chatClient) complete(ctx context.Context, prompt string) (string, error) {
	timeout := time.Duration(c.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	text, err := c.completeWith(ctx, c.config.Model, prompt)
	if err != nil {
		return "", err
	}
	if text == "" && c.config.FallbackModel != "" && c.config.FallbackModel != c.config.Model {
		text, err = c.completeWith(ctx, c.config.FallbackModel, prompt)
		if err != nil {
			return "", err
		}
	}
	if text == "" {
		return "", fmt.Errorf("empty response (model=%s fallback=%s)", c.config.Model, c.config.FallbackModel)
	}
	return text, nil
}

func (c *chatClient) completeWith(ctx context.Context, chatModel, prompt string) (string, error) {
	maxTokens := c.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("%s API error: %w", c.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Rewrite simplifies an article to the requested CEFR level
func (c *chatClient) Rewrite(ctx context.Context, text, level string) (*model.Rewrite, error) {
	raw, err := c.complete(ctx, rewritePrompt(text, level))
	if err != nil {
		return nil, err
	}
	raw = stripMarkdownFence(raw)

	var out struct {
		Body     string                `json:"body"`
		Glossary []model.GlossaryEntry `json:"glossary"`
	}
	payload := raw
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		salvaged, ok := salvageTrailingObject(raw)
		if !ok {
			return nil, fmt.Errorf("parse rewrite response: %w (raw=%s)", err, truncate(raw, 300))
		}
		if err := json.Unmarshal([]byte(salvaged), &out); err != nil {
			return nil, fmt.Errorf("parse rewrite response: %w (raw=%s)", err, truncate(raw, 300))
		}
	}

	// A response without the expected keys still carries prose.
	if out.Body == "" {
		return &model.Rewrite{Body: raw, Glossary: []model.GlossaryEntry{}}, nil
	}
	if out.Glossary == nil {
		out.Glossary = []model.GlossaryEntry{}
	}
	return &model.Rewrite{Body: out.Body, Glossary: out.Glossary}, nil
}

var termCleanPat = regexp.MustCompile(`[^a-z0-9\- ]`)

// MineTerms lists specialized terms from the article
func (c *chatClient) MineTerms(ctx context.Context, text string, limit int) ([]string, error) {
	raw, err := c.complete(ctx, mineTermsPrompt(text, limit))
	if err != nil {
		return nil, err
	}
	raw = stripMarkdownFence(raw)

	var out struct {
		Terms []string `json:"terms"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		salvaged, ok := salvageObject(raw)
		if !ok {
			return nil, fmt.Errorf("parse terms response: %w", err)
		}
		if err := json.Unmarshal([]byte(salvaged), &out); err != nil {
			return nil, fmt.Errorf("parse terms response: %w", err)
		}
	}

	seen := make(map[string]bool)
	cleaned := make([]string, 0, len(out.Terms))
	for _, t := range out.Terms {
		word := strings.TrimSpace(termCleanPat.ReplaceAllString(strings.ToLower(t), ""))
		if word == "" || seen[word] {
			continue
		}
		seen[word] = true
		cleaned = append(cleaned, word)
		if len(cleaned) >= limit {
			break
		}
	}
	return cleaned, nil
}

// CorrectSentence reviews one learner sentence. A malformed response falls
// back to echoing the model text as the correction.
func (c *chatClient) CorrectSentence(ctx context.Context, req CorrectionRequest) (*model.Correction, error) {
	raw, err := c.complete(ctx, correctionPrompt(req))
	if err != nil {
		return nil, err
	}
	raw = stripMarkdownFence(raw)

	if salvaged, ok := salvageObject(raw); ok {
		var out model.Correction
		if err := json.Unmarshal([]byte(salvaged), &out); err == nil && out.Corrected != "" {
			if out.Draft == "" {
				out.Draft = req.Sentence
			}
			return &out, nil
		}
	}

	corrected := raw
	if corrected == "" {
		corrected = req.Sentence
	}
	return &model.Correction{Draft: req.Sentence, Corrected: corrected}, nil
}

// ExplainTerm produces a vocabulary note for a single term
func (c *chatClient) ExplainTerm(ctx context.Context, req ExplainRequest) (*model.TermNote, error) {
	raw, err := c.complete(ctx, explainPrompt(req))
	if err != nil {
		return nil, err
	}
	raw = stripMarkdownFence(raw)

	var out model.TermNote
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		salvaged, ok := salvageObject(raw)
		if !ok {
			return nil, fmt.Errorf("parse term note: %w", err)
		}
		if err := json.Unmarshal([]byte(salvaged), &out); err != nil {
			return nil, fmt.Errorf("parse term note: %w", err)
		}
	}

	out.Term = strings.ToLower(strings.TrimSpace(out.Term))
	if out.Term == "" {
		out.Term = strings.ToLower(strings.TrimSpace(req.Term))
	}
	return &out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
