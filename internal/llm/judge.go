// Package llm holds the outbound LLM-classifier collaborator. The core
// treats it as a single fallible capability: prompt in, raw text out.
package llm

import (
	"context"
	"fmt"

	"github.com/kaiwa-coach/memory-service/internal/config"
)

// Judge sends a prompt to an LLM and returns its raw text reply. A Judge
// may be slow or erroring; callers must bound it with a context deadline
// and carry a deterministic fallback.
type Judge interface {
	Judge(ctx context.Context, prompt string) (string, error)
}

// New selects a judge based on cfg.LLMProvider. Provider "none" yields a
// nil judge; the classifier then runs keyword-only.
func New(cfg *config.Config) (Judge, error) {
	switch cfg.LLMProvider {
	case "anthropic":
		return NewAnthropicJudge(cfg.LLMModel), nil
	case "ollama":
		return NewOllamaJudge(cfg.OllamaURL, cfg.LLMModel, cfg.LLMTimeout), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER: %s", cfg.LLMProvider)
	}
}
