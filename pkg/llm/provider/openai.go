package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/carlmjohnson/requests"
	"github.com/sashabaranov/go-openai"

	"github.com/promptdeck/promptdeck/pkg/llm"
)

const (
	openaiBaseURL = "https://api.openai.com/v1/chat/completions"
	openaiModel   = openai.GPT4oMini
)

// Compile-time proof of interface implementation.
var _ llm.Generator = (*OpenAI)(nil)

type OpenAIOptions struct {
	ApiKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

type OpenAI struct {
	options OpenAIOptions
}

func NewOpenAIProvider(opts ...OpenAIOptions) llm.Generator {
	o := OpenAIOptions{}

	if len(opts) > 0 {
		o = opts[0]
	}

	if o.ApiKey == "" {
		o.ApiKey = os.Getenv("OPENAI_API_KEY")
	}

	if o.BaseURL == "" {
		o.BaseURL = openaiBaseURL
	}
	if o.Model == "" {
		o.Model = openaiModel
	}
	if o.Temperature == 0 {
		o.Temperature = llm.DefaultTemperature
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = llm.DefaultMaxTokens
	}

	return &OpenAI{
		options: o,
	}
}

func (p *OpenAI) String() string {
	return fmt.Sprintf("OpenAI (%s)", p.options.Model)
}

func (p *OpenAI) IsAvailable() bool {
	return p.options.ApiKey != ""
}

func (p *OpenAI) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if p.options.ApiKey == "" {
		return "", fmt.Errorf("OpenAI API key is not set: %w", llm.ErrAuth)
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

// chatCompletionError folds the decoded API error body, when present, into
// the transport error, tagging auth failures for the batch runner.
func chatCompletionError(err error, respError *openai.ErrorResponse) error {
	authFailed := requests.HasStatusErr(err, http.StatusUnauthorized, http.StatusForbidden)

	if respError != nil && respError.Error != nil && respError.Error.Message != "" {
		if authFailed {
			return fmt.Errorf("%s: %w", respError.Error.Message, llm.ErrAuth)
		}
		return errors.New(respError.Error.Message)
	}

	if authFailed {
		return fmt.Errorf("%w: %w", llm.ErrAuth, err)
	}

	return err
}
