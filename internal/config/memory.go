package config

// StoreConfig configures the primary SQLite store.
type StoreConfig struct {
	// DatabasePath is the path to the primary store file.
	DatabasePath string `yaml:"database_path" json:"database_path"`

	// BusyTimeout bounds how long a writer waits on SQLITE_BUSY before
	// giving up, per spec.md's "10s busy timeout" concurrency rule.
	BusyTimeout string `yaml:"busy_timeout" json:"busy_timeout"`
}

// DefaultStoreConfig returns sensible defaults for the store.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		DatabasePath: "data/jaybrain.store",
		BusyTimeout:  "10s",
	}
}

// EmbeddingConfig configures the vector embedding engine.
// Supports Ollama (local) and GenAI (cloud) backends.
type EmbeddingConfig struct {
	// Provider: "ollama" or "genai"
	Provider string `yaml:"provider" json:"provider"`

	// Ollama configuration (local embedding server)
	OllamaEndpoint string `yaml:"ollama_endpoint" json:"ollama_endpoint"`
	OllamaModel    string `yaml:"ollama_model" json:"ollama_model"`

	// GenAI configuration (Google cloud embedding)
	GenAIAPIKey string `yaml:"genai_api_key" json:"genai_api_key"`
	GenAIModel  string `yaml:"genai_model" json:"genai_model"`

	// TaskType for GenAI embeddings:
	// SEMANTIC_SIMILARITY, CLASSIFICATION, CLUSTERING,
	// RETRIEVAL_DOCUMENT, RETRIEVAL_QUERY, CODE_RETRIEVAL_QUERY,
	// QUESTION_ANSWERING, FACT_VERIFICATION
	TaskType string `yaml:"task_type" json:"task_type"`
}

// DefaultEmbeddingConfig returns defaults favoring the local Ollama backend.
func DefaultEmbeddingConfig() EmbeddingConfig {
	return EmbeddingConfig{
		Provider:       "ollama",
		OllamaEndpoint: "http://localhost:11434",
		OllamaModel:    "embeddinggemma",
		GenAIModel:     "gemini-embedding-001",
		TaskType:       "SEMANTIC_SIMILARITY",
	}
}

// ModelPath returns the active model identifier for the configured provider.
func (e EmbeddingConfig) ModelPath() string {
	if e.Provider == "genai" {
		return e.GenAIModel
	}
	return e.OllamaModel
}

// SetModelPath overrides the active model identifier for the configured provider.
func (e *EmbeddingConfig) SetModelPath(path string) {
	if e.Provider == "genai" {
		e.GenAIModel = path
		return
	}
	e.OllamaModel = path
}
