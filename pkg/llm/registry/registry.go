package registry

import (
	"ai-sidebar-be/pkg/llm"
	"ai-sidebar-be/pkg/llm/gemini"
	"ai-sidebar-be/pkg/llm/openai"
)

// Config carries the per-provider credentials and endpoints the registry
// needs to construct cloud clients. Base URLs are only overridden in tests.
type Config struct {
	GeminiAPIKey  string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIBaseURL string
}

// Constructor builds a configured client for one provider id.
type Constructor func(cfg Config, model string) llm.Client

// Registry maps provider ids to client constructors. Adding a provider is a
// single Register call; ids without a constructor (claude, deepseek) fall
// through to the dispatcher's not-configured response.
type Registry struct {
	cfg          Config
	constructors map[string]Constructor
}

func New(cfg Config) *Registry {
	r := &Registry{
		cfg:          cfg,
		constructors: make(map[string]Constructor),
	}

	r.Register(llm.ProviderGemini, func(cfg Config, model string) llm.Client {
		return gemini.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiBaseURL, model)
	})
	r.Register(llm.ProviderOpenAI, func(cfg Config, model string) llm.Client {
		return openai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, model)
	})

	return r
}

func (r *Registry) Register(id string, c Constructor) {
	r.constructors[id] = c
}

// Client constructs the client for the given provider id, or reports false
// when the id has no registered backend.
func (r *Registry) Client(provider, model string) (llm.Client, bool) {
	c, ok := r.constructors[provider]
	if !ok {
		return nil, false
	}
	return c(r.cfg, model), true
}
