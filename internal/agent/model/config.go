package model

// ================ Config ================

type ChatModelConfig struct {
	Model       string  `envconfig:"CHAT_MODEL" default:"gemini-2.0-flash"`
	MaxTokens   int     `envconfig:"CHAT_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"CHAT_TEMPERATURE" default:"0.4"`
}

type EmbeddingConfig struct {
	Model      string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-004"`
	Dimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"768"`
}

// SessionConfig bounds every generation call made through a session handle.
type SessionConfig struct {
	GenerateTimeout string `envconfig:"SESSION_GENERATE_TIMEOUT" default:"30s"`
	MaxToolCalls    int    `envconfig:"SESSION_TOOL_MAX_CALLS" default:"10"`
}

type ConversationConfig struct {
	TTL string `envconfig:"CONVERSATION_TTL" default:"15m"`
}
