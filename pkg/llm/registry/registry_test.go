package registry

import (
	"context"
	"testing"

	"ai-sidebar-be/pkg/llm"
)

func TestClientKnownProviders(t *testing.T) {
	r := New(Config{GeminiAPIKey: "g-key", OpenAIAPIKey: "o-key"})

	for _, provider := range []string{llm.ProviderGemini, llm.ProviderOpenAI} {
		client, ok := r.Client(provider, "")
		if !ok {
			t.Errorf("provider %s should be registered", provider)
		}
		if client == nil {
			t.Errorf("provider %s returned nil client", provider)
		}
	}
}

func TestClientUnregisteredProviders(t *testing.T) {
	r := New(Config{})

	// Known ids without a backing client yet
	for _, provider := range []string{llm.ProviderClaude, llm.ProviderDeepseek, "no-such-provider"} {
		if _, ok := r.Client(provider, ""); ok {
			t.Errorf("provider %s should not be registered", provider)
		}
	}
}

type stubClient struct{ reply string }

func (s *stubClient) Answer(ctx context.Context, prompt string) string { return s.reply }

func TestRegisterOverridesConstructor(t *testing.T) {
	r := New(Config{})
	r.Register(llm.ProviderGemini, func(cfg Config, model string) llm.Client {
		return &stubClient{reply: "stubbed"}
	})

	client, ok := r.Client(llm.ProviderGemini, "any-model")
	if !ok {
		t.Fatal("gemini should stay registered after override")
	}
	if got := client.Answer(context.Background(), "hi"); got != "stubbed" {
		t.Errorf("got %q", got)
	}
}
