// Package inference provides language model provider clients.
package inference

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/chatlab/chatlab-server/internal/domain/generation"
)

// OpenAIProvider fulfills completion requests through the OpenAI chat
// completions API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

var _ generation.Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider builds a provider for the given API key and model.
// A non-empty baseURL points the client at a compatible gateway.
func NewOpenAIProvider(apiKey, baseURL, model string) *OpenAIProvider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIProvider{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// Name implements generation.Provider.
func (p *OpenAIProvider) Name() string {
	return generation.ProviderOpenAI
}

// Complete implements generation.Provider.
func (p *OpenAIProvider) Complete(ctx context.Context, req generation.CompletionRequest) (string, error) {
	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.Prompt),
		}),
		Model:       openai.F(p.model),
		Temperature: openai.F(req.Temperature),
		MaxTokens:   openai.F(int64(req.MaxTokens)),
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("openai: completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
