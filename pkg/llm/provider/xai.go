package provider

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/carlmjohnson/requests"
	"github.com/sashabaranov/go-openai"

	"github.com/promptdeck/promptdeck/pkg/llm"
)

const (
	xaiBaseURL = "https://api.x.ai/v1/chat/completions"
	xaiModel   = "grok-3-mini"
)

// Compile-time proof of interface implementation.
var _ llm.Generator = (*XAI)(nil)

type XAIOptions struct {
	ApiKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

// XAI talks to the xAI chat completions endpoint, which is wire-compatible
// with the OpenAI API.
type XAI struct {
	options XAIOptions
}

func NewXAIProvider(opts ...XAIOptions) llm.Generator {
	o := XAIOptions{}

	if len(opts) > 0 {
		o = opts[0]
	}

	if o.ApiKey == "" {
		o.ApiKey = os.Getenv("XAI_API_KEY")
	}

	if o.BaseURL == "" {
		o.BaseURL = xaiBaseURL
	}
	if o.Model == "" {
		o.Model = xaiModel
	}
	if o.Temperature == 0 {
		o.Temperature = llm.DefaultTemperature
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = llm.DefaultMaxTokens
	}

	return &XAI{
		options: o,
	}
}

func (p *XAI) String() string {
	return fmt.Sprintf("xAI (%s)", p.options.Model)
}

func (p *XAI) IsAvailable() bool {
	return p.options.ApiKey != ""
}

func (p *XAI) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if p.options.ApiKey == "" {
		return "", fmt.Errorf("xAI API key is not set: %w", llm.ErrAuth)
	}

	payload := openai.ChatCompletionRequest{
		Model: p.options.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		Temperature: p.options.Temperature,
		MaxTokens:   p.options.MaxTokens,
		Stream:      false,
		N:           1,
	}

	var (
		respContent openai.ChatCompletionResponse
		respError   openai.ErrorResponse
	)

	err := requests.
		URL(p.options.BaseURL).
		Post().
		Headers(map[string][]string{
			"Authorization": {fmt.Sprintf("Bearer %s", p.options.ApiKey)},
		}).
		BodyJSON(payload).
		ToJSON(&respContent).
		ErrorJSON(&respError).
		Fetch(ctx)
	if err != nil {
		return "", chatCompletionError(err, &respError)
	}

	if len(respContent.Choices) == 0 {
		return "", errors.New("no completion choice available")
	}

	return respContent.Choices[0].Message.Content, nil
}
