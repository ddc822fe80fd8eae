package cmd

import (
	"errors"
	"fmt"

	"github.com/promptdeck/promptdeck/internal/config"
	"github.com/promptdeck/promptdeck/pkg/llm"
	"github.com/promptdeck/promptdeck/pkg/llm/provider"
)

// buildProvider constructs one provider with its settings from config,
// optionally overriding the model.
func buildProvider(cfg *config.Config, name, model string) (llm.Generator, error) {
	if p, ok := cfg.Providers[name]; ok && p.Disable {
		return nil, fmt.Errorf("provider %s is disabled in configuration", name)
	}

	if model == "" {
		model = cfg.ProviderModel(name)
	}

	switch name {
	case "openai":
		return provider.NewOpenAIProvider(provider.OpenAIOptions{
			ApiKey:      cfg.APIKey(name),
			BaseURL:     cfg.ProviderBaseURL(name),
			Model:       model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		}), nil
	case "deepseek":
		return provider.NewDeepSeekProvider(provider.DeepSeekOptions{
			ApiKey:      cfg.APIKey(name),
			BaseURL:     cfg.ProviderBaseURL(name),
			Model:       model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Stream:      cfg.Stream,
		}), nil
	case "claude":
		return provider.NewClaudeProvider(provider.ClaudeOptions{
			ApiKey:      cfg.APIKey(name),
			BaseURL:     cfg.ProviderBaseURL(name),
			Model:       model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		})
	case "googleai":
		return provider.NewGoogleAIProvider(provider.GoogleAIOptions{
			ApiKey:      cfg.APIKey(name),
			Model:       model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		})
	case "xai":
		return provider.NewXAIProvider(provider.XAIOptions{
			ApiKey:      cfg.APIKey(name),
			BaseURL:     cfg.ProviderBaseURL(name),
			Model:       model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider: %q", name)
	}
}

// initializeLLMProvider picks the provider for a run: an explicit --provider
// flag wins, then the configured active provider, then the first available
// provider in preferred order.
func initializeLLMProvider(cfg *config.Config, flagChanged bool, providerType ProviderType, model string) (llm.Generator, error) {
	if flagChanged {
		name := providerName(providerType)
		g, err := buildProvider(cfg, name, model)
		if err != nil {
			return nil, err
		}
		if !g.IsAvailable() {
			return nil, fmt.Errorf("provider %s has no API key configured", name)
		}
		return g, nil
	}

	if cfg.Provider != "" {
		g, err := buildProvider(cfg, cfg.Provider, model)
		if err != nil {
			return nil, err
		}
		if !g.IsAvailable() {
			return nil, fmt.Errorf("provider %s has no API key configured", cfg.Provider)
		}
		return g, nil
	}

	// Try providers in preferred order
	for _, name := range []string{"openai", "deepseek", "googleai", "claude", "xai"} {
		g, err := buildProvider(cfg, name, model)
		if err != nil {
			continue
		}
		if g.IsAvailable() {
			return g, nil
		}
	}

	return nil, errors.New("no available AI providers found - please configure at least one provider's API key")
}
