package llm

import (
	"context"

	"github.com/duke-git/lancet/v2/strutil"
)

// GenerateFieldContent runs one filled prompt through the provider and
// returns the trimmed text to write into the note field.
func GenerateFieldContent(ctx context.Context, g Generator, prompt string) (string, error) {
	return GenerateFieldContentWithSystemPrompt(ctx, g, DefaultSystemPrompt, prompt)
}

// GenerateFieldContentWithSystemPrompt is GenerateFieldContent with a
// caller-supplied system prompt.
func GenerateFieldContentWithSystemPrompt(ctx context.Context, g Generator, systemPrompt, prompt string) (string, error) {
	text, err := g.Generate(ctx, systemPrompt, prompt)
	if err != nil {
		return "", err
	}

	text = strutil.Trim(text)
	if strutil.IsBlank(text) {
		return "", ErrEmptyResponse
	}

	return text, nil
}
