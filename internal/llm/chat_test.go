package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func mockCompletionServer(t *testing.T, replies ...string) *httptest.Server {
	t.Helper()
	call := 0
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		reply := ""
		if call < len(replies) {
			reply = replies[call]
		}
		call++

		resp := openai.ChatCompletionResponse{
			ID:    "chatcmpl-1",
			Model: "test-model",
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: reply}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func testConfig(baseURL string) Config {
	return Config{
		Provider:      "gemini",
		Model:         "primary-model",
		FallbackModel: "fallback-model",
		APIKey:        "test-key",
		BaseURL:       baseURL,
		Timeout:       5,
		MaxTokens:     500,
	}
}

func TestRewriteParsesFencedJSON(t *testing.T) {
	reply := "```json\n{\"body\": \"Simple text.\", \"glossary\": [{\"term\": \"tariff\", \"definition\": \"a tax on imports\"}]}\n```"
	server := mockCompletionServer(t, reply)
	defer server.Close()

	provider, err := NewGeminiProvider(testConfig(server.URL))
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}

	rewrite, err := provider.Rewrite(context.Background(), "Long article text", "B1")
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	if rewrite.Body != "Simple text." {
		t.Errorf("unexpected body: %q", rewrite.Body)
	}
	if len(rewrite.Glossary) != 1 || rewrite.Glossary[0].Term != "tariff" {
		t.Errorf("unexpected glossary: %+v", rewrite.Glossary)
	}
}

func TestRewriteSalvagesTrailingObject(t *testing.T) {
	reply := "Here is your rewrite:\n{\"body\": \"Short version.\", \"glossary\": []}"
	server := mockCompletionServer(t, reply)
	defer server.Close()

	provider, err := NewGeminiProvider(testConfig(server.URL))
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}

	rewrite, err := provider.Rewrite(context.Background(), "text", "B1")
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	if rewrite.Body != "Short version." {
		t.Errorf("unexpected body: %q", rewrite.Body)
	}
}

func TestRewriteFallsBackToRawProse(t *testing.T) {
	server := mockCompletionServer(t, `{"text": "no body key here"}`)
	defer server.Close()

	provider, err := NewGeminiProvider(testConfig(server.URL))
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}

	rewrite, err := provider.Rewrite(context.Background(), "text", "A2")
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	if rewrite.Body != `{"text": "no body key here"}` {
		t.Errorf("expected raw text as body, got %q", rewrite.Body)
	}
	if len(rewrite.Glossary) != 0 {
		t.Errorf("expected empty glossary, got %+v", rewrite.Glossary)
	}
}

func TestCompleteRetriesFallbackModelOnEmpty(t *testing.T) {
	models := []string{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		models = append(models, req.Model)

		content := ""
		if len(models) > 1 {
			content = `{"body": "From fallback.", "glossary": []}`
		}
		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: content}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := NewGeminiProvider(testConfig(server.URL))
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}

	rewrite, err := provider.Rewrite(context.Background(), "text", "B1")
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	if rewrite.Body != "From fallback." {
		t.Errorf("unexpected body: %q", rewrite.Body)
	}
	if len(models) != 2 || models[0] != "primary-model" || models[1] != "fallback-model" {
		t.Errorf("unexpected model sequence: %v", models)
	}
}

func TestMineTermsCleansAndLimits(t *testing.T) {
	reply := `{"terms": ["Tariff!", "trade deficit", "TARIFF", "supply-chain", "x", "", "émigré"]}`
	server := mockCompletionServer(t, reply)
	defer server.Close()

	provider, err := NewGeminiProvider(testConfig(server.URL))
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}

	terms, err := provider.MineTerms(context.Background(), "text", 3)
	if err != nil {
		t.Fatalf("MineTerms failed: %v", err)
	}
	want := []string{"tariff", "trade deficit", "supply-chain"}
	if len(terms) != len(want) {
		t.Fatalf("unexpected terms: %v", terms)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Errorf("term %d: want %q, got %q", i, want[i], terms[i])
		}
	}
}

func TestCorrectSentenceFallsBackToEcho(t *testing.T) {
	server := mockCompletionServer(t, "Your sentence looks fine.")
	defer server.Close()

	provider, err := NewGeminiProvider(testConfig(server.URL))
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}

	correction, err := provider.CorrectSentence(context.Background(), CorrectionRequest{
		Sentence: "I thinks it is good.",
		Pattern:  "In my opinion, ... because ...",
		Topic:    "Trade",
		Keywords: []string{"tariff"},
	})
	if err != nil {
		t.Fatalf("CorrectSentence failed: %v", err)
	}
	if correction.Draft != "I thinks it is good." {
		t.Errorf("draft should echo input, got %q", correction.Draft)
	}
	if correction.Corrected != "Your sentence looks fine." {
		t.Errorf("unexpected corrected: %q", correction.Corrected)
	}
}

func TestExplainTermLowercasesAndDefaults(t *testing.T) {
	reply := `{"term": "Tariff", "meaning": "A tax on imported goods.", "context": "new tariffs on steel", "tip": "think tax"}`
	server := mockCompletionServer(t, reply)
	defer server.Close()

	provider, err := NewGeminiProvider(testConfig(server.URL))
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}

	note, err := provider.ExplainTerm(context.Background(), ExplainRequest{Term: "tariff", ArticleText: "text"})
	if err != nil {
		t.Fatalf("ExplainTerm failed: %v", err)
	}
	if note.Term != "tariff" {
		t.Errorf("term should be lowercased, got %q", note.Term)
	}
	if note.Meaning == "" || note.Tip == "" {
		t.Errorf("unexpected note: %+v", note)
	}
}

func TestNewProviderSelection(t *testing.T) {
	cfg := Config{Provider: "gemini", APIKey: "k"}
	p, err := NewProvider(cfg)
	if err != nil || p.Name() != "gemini" {
		t.Errorf("gemini provider: %v %v", p, err)
	}

	cfg.Provider = "openai"
	p, err = NewProvider(cfg)
	if err != nil || p.Name() != "openai" {
		t.Errorf("openai provider: %v %v", p, err)
	}

	cfg.Provider = "bard"
	if _, err = NewProvider(cfg); err == nil {
		t.Error("expected error for unknown provider")
	}

	cfg.Provider = "gemini"
	cfg.APIKey = ""
	if _, err = NewProvider(cfg); err == nil {
		t.Error("expected error for missing API key")
	}
}
