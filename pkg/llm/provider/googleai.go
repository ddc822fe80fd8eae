package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/promptdeck/promptdeck/pkg/llm"
)

const (
	googleAIModel = "gemini-2.5-flash"
)

// Compile-time proof of interface implementation.
var _ llm.Generator = (*GoogleAI)(nil)

// GoogleAIOptions holds configuration for the GoogleAI provider.
type GoogleAIOptions struct {
	ApiKey      string
	Model       string
	Temperature float32
	MaxTokens   int
}

// GoogleAI is the provider implementation for Google AI Studio (Gemini)
// using the genai library.
type GoogleAI struct {
	options GoogleAIOptions
	client  *genai.Client
}

// NewGoogleAIProvider creates a new GoogleAI provider instance.
func NewGoogleAIProvider(opts ...GoogleAIOptions) (llm.Generator, error) {
	o := GoogleAIOptions{}

	if len(opts) > 0 {
		o = opts[0]
	}

	if o.Model == "" {
		o.Model = googleAIModel
	}
	if o.Temperature == 0 {
		o.Temperature = llm.DefaultTemperature
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = llm.DefaultMaxTokens
	}

	if o.ApiKey == "" {
		o.ApiKey = os.Getenv("GEMINI_API_KEY")
	}

	if o.ApiKey == "" {
		return nil, fmt.Errorf("google AI API key is not set: %w", llm.ErrAuth)
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  o.ApiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}

	return &GoogleAI{
		options: o,
		client:  client,
	}, nil
}

func (p *GoogleAI) String() string {
	return fmt.Sprintf("GoogleAI (%s)", p.options.Model)
}

func (p *GoogleAI) IsAvailable() bool {
	return p.options.ApiKey != ""
}

// Generate sends a prompt to the Google AI API and returns the generated text.
func (p *GoogleAI) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if p.client == nil {
		return "", errors.New("client is not initialized")
	}

	resp, err := p.client.Models.GenerateContent(
		ctx,
		p.options.Model,
		genai.Text(userPrompt),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{
					{Text: systemPrompt},
				},
			},
			Temperature:     genai.Ptr(p.options.Temperature),
			MaxOutputTokens: int32(p.options.MaxTokens),
			CandidateCount:  1,
		},
	)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) &&
			(apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden) {
			return "", fmt.Errorf("%w: %w", llm.ErrAuth, err)
		}
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
			return "", fmt.Errorf("prompt blocked due to: %s. Safety Ratings: %+v", resp.PromptFeedback.BlockReason, resp.PromptFeedback.SafetyRatings)
		}
		return "", errors.New("returned no candidates")
	}

	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		if cand.FinishReason != genai.FinishReasonUnspecified {
			return "", fmt.Errorf("returned no text content; finish reason: %s", cand.FinishReason)
		}
		return "", errors.New("returned no text content from candidates")
	}

	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("returned no text content from candidates")
	}

	return b.String(), nil
}
