package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	"github.com/recapbot/recapbot/internal/config"
	"github.com/recapbot/recapbot/internal/providers"
)

// Provider implements the Anthropic provider on the Messages API
type Provider struct {
	id     string
	config config.ProviderConfig
	client anthropic.Client
}

// NewProvider creates a new Anthropic provider
func NewProvider(id string, cfg config.ProviderConfig) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("Anthropic API key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Provider{
		id:     id,
		config: cfg,
		client: anthropic.NewClient(opts...),
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return p.id
}

// Complete performs a non-streaming completion
func (p *Provider) Complete(ctx context.Context, req providers.CompletionRequest) (*providers.CompletionResponse, error) {
	msg, err := p.client.Messages.New(ctx, p.convertRequest(req))
	if err != nil {
		return nil, fmt.Errorf("anthropic completion: %w", err)
	}

	return p.convertResponse(msg), nil
}

// ValidateConfig validates the provider configuration
func (p *Provider) ValidateConfig() error {
	if p.config.APIKey == "" {
		return errors.New("API key is required")
	}
	return nil
}

// convertRequest converts internal request to Anthropic request params
func (p *Provider) convertRequest(req providers.CompletionRequest) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: int64(req.MaxTokens),
	}

	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	var systemMessage string

	for _, msg := range req.Messages {
		switch msg.Role {
		case "system":
			// Anthropic takes the system prompt as a top-level field.
			systemMessage = msg.Content
		case "assistant":
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	params.Messages = messages
	if systemMessage != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemMessage},
		}
	}
	if req.Temperature != nil {
		params.Temperature = param.NewOpt(float64(*req.Temperature))
	}

	return params
}

// convertResponse converts Anthropic response to internal response
func (p *Provider) convertResponse(msg *anthropic.Message) *providers.CompletionResponse {
	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &providers.CompletionResponse{
		Text:         text.String(),
		Model:        string(msg.Model),
		FinishReason: convertStopReason(msg.StopReason),
		Usage: providers.Usage{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
			TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}
}

// convertStopReason converts Anthropic stop reason to OpenAI format
func convertStopReason(reason anthropic.StopReason) string {
	switch reason {
	case anthropic.StopReasonEndTurn:
		return "stop"
	case anthropic.StopReasonMaxTokens:
		return "length"
	default:
		return string(reason)
	}
}
