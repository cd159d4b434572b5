package llm

// OpenAIProvider drives OpenAI models through the chat completions API
type OpenAIProvider struct {
	*chatClient
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	client, err := newChatClient("openai", config)
	if err != nil {
		return nil, err
	}
	return &OpenAIProvider{chatClient: client}, nil
}
