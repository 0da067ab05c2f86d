package providers

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultAPIBase targets OpenRouter, which fronts the models the agents use.
const DefaultAPIBase = "https://openrouter.ai/api/v1"

// DefaultDecisionModel is the model used for agent decisions unless
// overridden in config.
const DefaultDecisionModel = "openai/gpt-3.5-turbo"

// OpenAIProvider calls any OpenAI-compatible chat completions endpoint via
// the official client.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider creates a provider for the given endpoint. Empty
// apiBase and model fall back to OpenRouter and the default decision model.
func NewOpenAIProvider(apiKey, apiBase, model string) *OpenAIProvider {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	if model == "" {
		model = DefaultDecisionModel
	}
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(apiBase),
	)
	return &OpenAIProvider{client: client, model: model}
}

// DefaultModel satisfies the LLMProvider interface.
func (p *OpenAIProvider) DefaultModel() string { return p.model }

// Chat sends a chat completion request and returns the first choice's text.
func (p *OpenAIProvider) Chat(ctx context.Context, req ChatRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}
	maxTokens := req.MaxTokens
	if maxTokens < 1 {
		maxTokens = 300
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			messages = append(messages, openai.SystemMessage(m.Content))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    messages,
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(req.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
