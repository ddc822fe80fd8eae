package llm

// DefaultSystemPrompt frames every field-generation request.
const DefaultSystemPrompt = `You are a helpful assistant that writes flashcard field content.
Output only the requested content, with no preamble or explanations.`

// Default generation parameters, applied when a provider's options leave
// them unset.
const (
	DefaultTemperature float32 = 0.2
	DefaultMaxTokens           = 200
)
