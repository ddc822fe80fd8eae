package cmd

import (
	"github.com/thediveo/enumflag/v2"
)

// ProviderType represents the supported AI providers.
type ProviderType enumflag.Flag

const (
	// OpenAIProvider represents the OpenAI provider.
	OpenAIProvider ProviderType = iota
	// DeepSeekProvider represents the DeepSeek provider.
	DeepSeekProvider
	// ClaudeProvider represents the Claude provider.
	ClaudeProvider
	// GoogleAIProvider represents the GoogleAI (Gemini) provider.
	GoogleAIProvider
	// XAIProvider represents the xAI provider.
	XAIProvider
)

// ProviderIds maps ProviderType to their string representations.
var ProviderIds = map[ProviderType][]string{
	OpenAIProvider:   {"openai"},
	DeepSeekProvider: {"deepseek"},
	ClaudeProvider:   {"claude"},
	GoogleAIProvider: {"googleai", "gemini"},
	XAIProvider:      {"xai", "grok"},
}

// providerName returns the canonical configuration name for a provider.
func providerName(t ProviderType) string {
	if ids, ok := ProviderIds[t]; ok && len(ids) > 0 {
		return ids[0]
	}
	return ""
}
