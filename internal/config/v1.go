package config

import "fmt"

const configVersionV1 = "1"

type configV1 struct {
	Version string `json:"version"` // required by vconfig-go

	// Provider is the active provider name.
	Provider  string                      `json:"provider"`
	Providers map[string]providerConfigV1 `json:"providers"`

	// Generation parameters, shared by all providers.
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`

	// Request parameters.
	TimeoutSeconds float64 `json:"timeout_seconds"`
	DelaySeconds   float64 `json:"delay_seconds"`
	Stream         bool    `json:"stream,omitempty"` // DeepSeek SSE streaming

	// Output behavior.
	OutputField  string `json:"output_field,omitempty"`
	AppendOutput bool   `json:"append_output,omitempty"`
	MissingField string `json:"missing_field,omitempty"` // "error" or "keep"

	// AnkiConnectURL points at the running Anki instance.
	AnkiConnectURL string `json:"anki_connect_url,omitempty"`
}

// providerConfigV1 represents a single provider configuration
type providerConfigV1 struct {
	Name    string `json:"name"`
	APIKey  string `json:"api_key,omitempty"`
	Model   string `json:"model,omitempty"`
	BaseURL string `json:"base_url,omitempty"`
	Disable bool   `json:"disable,omitempty"`
}

// newConfigV1 creates a new v1 configuration
func newConfigV1() *configV1 {
	return &configV1{
		Version:  configVersionV1,
		Provider: "openai",
		Providers: map[string]providerConfigV1{
			"openai":   {Name: "OpenAI", Model: "gpt-4o-mini"},
			"deepseek": {Name: "DeepSeek", Model: "deepseek-chat"},
			"claude":   {Name: "Claude"},
			"googleai": {Name: "GoogleAI"},
			"xai":      {Name: "xAI"},
		},
		Temperature:    0.2,
		MaxTokens:      200,
		TimeoutSeconds: 20,
		DelaySeconds:   1,
		OutputField:    "Output",
		MissingField:   "error",
		AnkiConnectURL: DefaultAnkiConnectURL,
	}
}

func (c *configV1) validateV1() error {
	if c.Providers == nil {
		return fmt.Errorf("providers section is required")
	}

	if c.Provider != "" {
		if _, exists := c.Providers[c.Provider]; !exists {
			return fmt.Errorf("active provider '%s' does not exist in providers", c.Provider)
		}
	}

	for providerName, provider := range c.Providers {
		if provider.Name == "" {
			return fmt.Errorf("provider '%s' must have a name", providerName)
		}
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must not be negative")
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	if c.DelaySeconds < 0 {
		return fmt.Errorf("delay_seconds must not be negative")
	}

	switch c.MissingField {
	case "", "error", "keep":
	default:
		return fmt.Errorf("missing_field must be 'error' or 'keep', got '%s'", c.MissingField)
	}

	return nil
}
