package config

import "os"

// DefaultAnkiConnectURL is where a stock AnkiConnect install listens.
const DefaultAnkiConnectURL = "http://127.0.0.1:8765"

// Config represents the current version of configuration
type Config = configV1

// ProviderConfig is a type alias for external packages
type ProviderConfig = providerConfigV1

// NewDefault creates a new configuration
func NewDefault() *Config {
	return newConfigV1()
}

// Validate validates the configuration
func (c *Config) Validate() error {
	return c.validateV1()
}

// providerEnvKeys maps provider names to the environment variable holding
// their API key.
var providerEnvKeys = map[string]string{
	"openai":   "OPENAI_API_KEY",
	"deepseek": "DEEPSEEK_API_KEY",
	"claude":   "ANTHROPIC_API_KEY",
	"googleai": "GEMINI_API_KEY",
	"xai":      "XAI_API_KEY",
}

// APIKey returns the key for a provider: the configured value wins over the
// provider's environment variable.
func (c *Config) APIKey(provider string) string {
	if p, ok := c.Providers[provider]; ok && p.APIKey != "" {
		return p.APIKey
	}
	if env, ok := providerEnvKeys[provider]; ok {
		return os.Getenv(env)
	}
	return ""
}

// ProviderModel returns the configured model for a provider, which may be
// empty when the provider's built-in default should apply.
func (c *Config) ProviderModel(provider string) string {
	if p, ok := c.Providers[provider]; ok {
		return p.Model
	}
	return ""
}

// ProviderBaseURL returns the configured base URL override for a provider.
func (c *Config) ProviderBaseURL(provider string) string {
	if p, ok := c.Providers[provider]; ok {
		return p.BaseURL
	}
	return ""
}
