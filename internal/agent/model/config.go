package model

import "time"

// ================ Config ================
type ProviderConfig struct {
	Provider    string  `envconfig:"LLM_PROVIDER" default:"openai"`
	Temperature float32 `envconfig:"LLM_TEMPERATURE" default:"0"`
	MaxTokens   int     `envconfig:"LLM_MAX_TOKENS" default:"2000"`
	// VerifyModel looks the model name up with the provider before the first question.
	VerifyModel bool `envconfig:"LLM_VERIFY_MODEL" default:"true"`

	OpenAI struct {
		APIKey  string `envconfig:"OPENAI_API_KEY"`
		Model   string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
		BaseURL string `envconfig:"OPENAI_BASE_URL"`
	}
	Gemini struct {
		APIKey  string `envconfig:"GOOGLE_API_KEY"`
		Model   string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
		BaseURL string `envconfig:"GEMINI_BASE_URL"`
	}
	Ollama struct {
		BaseURL string `envconfig:"OLLAMA_BASE_URL" default:"http://localhost:11434"`
		Model   string `envconfig:"OLLAMA_MODEL" default:"llama3.1"`
	}
}

type AgentConfig struct {
	MaxIterations int           `envconfig:"AGENT_MAX_ITERATIONS" default:"10"`
	Timeout       time.Duration `envconfig:"AGENT_TIMEOUT" default:"60s"`
	SampleRows    int           `envconfig:"AGENT_SAMPLE_ROWS" default:"5"`
}

type ConversationConfig struct {
	TTL          time.Duration `envconfig:"CONVERSATION_TTL" default:"30m"`
	HistoryTurns int           `envconfig:"CONVERSATION_HISTORY_TURNS" default:"10"`
}
