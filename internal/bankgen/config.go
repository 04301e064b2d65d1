package bankgen

// Config controls the behavior of the Generator.
type Config struct {
	// DefaultCount is used when a request does not say how many
	// questions to generate.
	DefaultCount int

	// MaxCount caps the number of questions asked for in one request.
	MaxCount int

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxExistingPrompts is the maximum number of existing prompts
	// to include in the prompt for deduplication.
	MaxExistingPrompts int
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		DefaultCount:       5,
		MaxCount:           10,
		MaxTokens:          4096,
		Temperature:        0.7,
		MaxExistingPrompts: 20,
	}
}
