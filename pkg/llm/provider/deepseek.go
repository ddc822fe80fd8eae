package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/carlmjohnson/requests"
	"github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"

	"github.com/promptdeck/promptdeck/pkg/llm"
)

const (
	deepseekBaseURL = "https://api.deepseek.com/v1/chat/completions"
	deepseekModel   = "deepseek-chat"
)

// Compile-time proof of interface implementation.
var _ llm.Generator = (*DeepSeek)(nil)

type DeepSeekOptions struct {
	ApiKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	// Stream switches the request to SSE streaming; the full text is still
	// assembled before returning.
	Stream bool
}

type DeepSeek struct {
	options DeepSeekOptions
}

func NewDeepSeekProvider(opts ...DeepSeekOptions) llm.Generator {
	o := DeepSeekOptions{}

	if len(opts) > 0 {
		o = opts[0]
	}

	if o.ApiKey == "" {
		o.ApiKey = os.Getenv("DEEPSEEK_API_KEY")
	}

	if o.BaseURL == "" {
		o.BaseURL = deepseekBaseURL
	}
	if o.Model == "" {
		o.Model = deepseekModel
	}
	if o.Temperature == 0 {
		o.Temperature = llm.DefaultTemperature
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = llm.DefaultMaxTokens
	}

	return &DeepSeek{
		options: o,
	}
}

func (d *DeepSeek) String() string {
	return fmt.Sprintf("DeepSeek (%s)", d.options.Model)
}

func (d *DeepSeek) IsAvailable() bool {
	return d.options.ApiKey != ""
}

func (d *DeepSeek) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if d.options.ApiKey == "" {
		return "", fmt.Errorf("DeepSeek API key is not set: %w", llm.ErrAuth)
	}

	payload := openai.ChatCompletionRequest{
		Model: d.options.Model,
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
		Temperature: d.options.Temperature,
		MaxTokens:   d.options.MaxTokens,
		Stream:      d.options.Stream,
		N:           1,
	}

	if d.options.Stream {
		return d.generateStream(ctx, payload)
	}

	var (
		respContent openai.ChatCompletionResponse
		respError   openai.ErrorResponse
	)

	err := requests.
		URL(d.options.BaseURL).
		Post().
		Headers(map[string][]string{
			"Authorization": {fmt.Sprintf("Bearer %s", d.options.ApiKey)},
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

func (d *DeepSeek) generateStream(ctx context.Context, payload openai.ChatCompletionRequest) (string, error) {
	var responseText string

	err := requests.
		URL(d.options.BaseURL).
		Post().
		Headers(map[string][]string{
			"Authorization": {fmt.Sprintf("Bearer %s", d.options.ApiKey)},
			"Accept":        {"text/event-stream"},
		}).
		BodyJSON(payload).
		ToString(&responseText).
		Fetch(ctx)
	if err != nil {
		return "", chatCompletionError(err, nil)
	}

	text, err := parseStreamResponse(responseText)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", errors.New("empty streamed response")
	}

	return text, nil
}

// parseStreamResponse assembles the delta fragments of an SSE chat
// completion stream. Keep-alive comments and the [DONE] sentinel carry no
// content and fall through.
func parseStreamResponse(responseText string) (string, error) {
	var b strings.Builder
	for _, line := range strings.Split(responseText, "\n") {
		b.WriteString(parseStreamLine(line))
	}
	return b.String(), nil
}

func parseStreamLine(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, ":") {
		return ""
	}

	data := strings.TrimPrefix(line, "data: ")
	if data == "[DONE]" {
		return ""
	}

	if val := gjson.Get(data, "choices.0.delta.content"); val.Exists() && val.Type == gjson.String {
		return val.String()
	}

	return ""
}
