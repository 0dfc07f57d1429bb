package llm

import (
	"context"
)

// Provider identifiers. The set is closed: the sidebar offers exactly these
// choices, and the dispatch layer refuses anything else.
const (
	ProviderGemini   = "gemini"
	ProviderOpenAI   = "openai"
	ProviderClaude   = "claude"
	ProviderDeepseek = "deepseek"
	ProviderOllama   = "ollama"
)

// Client is the contract for any LLM backend.
//
// Answer always returns prose, never an error: the sidebar has exactly one
// rendering path (show the response as an assistant bubble), so expected
// failures — missing API key, empty prompt, non-2xx status, malformed body —
// must already be human-readable text by the time they leave the client.
type Client interface {
	Answer(ctx context.Context, prompt string) string
}
