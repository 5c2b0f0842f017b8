package inference

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/chatlab/chatlab-server/internal/domain/generation"
)

// AnthropicProvider fulfills completion requests through the Anthropic
// messages API.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
}

var _ generation.Provider = (*AnthropicProvider)(nil)

// NewAnthropicProvider builds a provider for the given API key and model.
func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	return &AnthropicProvider{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Name implements generation.Provider.
func (p *AnthropicProvider) Name() string {
	return generation.ProviderAnthropic
}

// Complete implements generation.Provider.
func (p *AnthropicProvider) Complete(ctx context.Context, req generation.CompletionRequest) (string, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(req.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: req.System},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("anthropic: message returned no text content")
	}
	return sb.String(), nil
}
