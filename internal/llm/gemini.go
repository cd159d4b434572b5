package llm

// geminiOpenAIBaseURL is Google's OpenAI-compatible endpoint for the
// Gemini API.
const geminiOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// GeminiProvider drives Gemini models through their OpenAI-compatible
// endpoint, so the same chat client serves both backends.
type GeminiProvider struct {
	*chatClient
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(config Config) (*GeminiProvider, error) {
	if config.BaseURL == "" {
		config.BaseURL = geminiOpenAIBaseURL
	}
	client, err := newChatClient("gemini", config)
	if err != nil {
		return nil, err
	}
	return &GeminiProvider{chatClient: client}, nil
}
