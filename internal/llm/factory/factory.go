// internal/llm/factory/factory.go
package factory

import (
	"fmt"

	"github.com/wqkoh/reitwatch/internal/config"
	"github.com/wqkoh/reitwatch/internal/llm"
	"github.com/wqkoh/reitwatch/internal/llm/claude"
	"github.com/wqkoh/reitwatch/internal/llm/ollama"
	"github.com/wqkoh/reitwatch/internal/llm/openai"
)

// New creates an LLM provider based on configuration. An empty provider
// name returns (nil, nil): commentary falls back to static text.
func New(cfg config.LLMConfig) (llm.Provider, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "claude":
		return claude.New(cfg.Claude.APIKey, cfg.Claude.Model)
	case "openai":
		return openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	case "ollama":
		return ollama.New(cfg.Ollama.Endpoint, cfg.Ollama.Model)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}
