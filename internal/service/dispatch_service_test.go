package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-sidebar-be/internal/config"
	"ai-sidebar-be/internal/dto"
	"ai-sidebar-be/internal/repository/contract"
	"ai-sidebar-be/pkg/llm"
	"ai-sidebar-be/pkg/llm/registry"

	"github.com/stretchr/testify/assert"
)

type stubClient struct {
	reply string
}

func (s *stubClient) Answer(ctx context.Context, prompt string) string {
	return s.reply
}

func stubRegistry(providers map[string]string) *registry.Registry {
	r := registry.New(registry.Config{})
	// Override the real constructors with canned replies.
	for id, reply := range providers {
		reply := reply
		r.Register(id, func(cfg registry.Config, model string) llm.Client {
			return &stubClient{reply: reply}
		})
	}
	return r
}

func newDispatchForTest(reg *registry.Registry, cfg config.AIConfig) (IDispatchService, *fakeConversationRepo, *fakeSettingRepo) {
	chats, conversations, settings, _ := newChatServiceForTest()
	return NewDispatchService(reg, chats, cfg, nopLogger{}), conversations, settings
}

func TestHandleUnknownProviderNotPersisted(t *testing.T) {
	svc, conversations, _ := newDispatchForTest(
		registry.New(registry.Config{}),
		config.AIConfig{},
	)

	got := svc.Handle(context.Background(), &dto.ChatMessageRequest{
		Provider: "claude",
		Prompt:   "hello",
	})
	assert.Equal(t, "Provider claude is not configured in background.", got)

	count, _ := conversations.Count(context.Background())
	assert.Zero(t, count)
}

func TestHandleDefaultsToGemini(t *testing.T) {
	reg := stubRegistry(map[string]string{llm.ProviderGemini: "gemini says hi"})
	svc, _, _ := newDispatchForTest(reg, config.AIConfig{DefaultProvider: "gemini"})

	got := svc.Handle(context.Background(), &dto.ChatMessageRequest{Prompt: "hello"})
	assert.Equal(t, "gemini says hi", got)
}

func TestHandleExplicitProviderBeatsDefault(t *testing.T) {
	reg := stubRegistry(map[string]string{
		llm.ProviderGemini: "from gemini",
		llm.ProviderOpenAI: "from openai",
	})
	svc, _, _ := newDispatchForTest(reg, config.AIConfig{DefaultProvider: "gemini"})

	got := svc.Handle(context.Background(), &dto.ChatMessageRequest{
		Provider: "openai",
		Prompt:   "hello",
	})
	assert.Equal(t, "from openai", got)
}

func TestHandlePersistsExchangeUnderRequestedConversation(t *testing.T) {
	reg := stubRegistry(map[string]string{llm.ProviderGemini: "the answer"})
	svc, conversations, _ := newDispatchForTest(reg, config.AIConfig{})

	svc.Handle(context.Background(), &dto.ChatMessageRequest{
		Prompt:            "PAGE CONTENT ... question",
		ActualUserPrompt:  "question",
		CurrentChatListId: "list-7",
	})

	c, err := conversations.FindById(context.Background(), "list-7")
	assert.NoError(t, err)
	assert.NotNil(t, c)
	assert.Len(t, c.Messages, 2)
	// The stored user message is the bare question, not the page-stuffed prompt.
	assert.Equal(t, "question", c.Messages[0].Content)
	assert.Equal(t, "the answer", c.Messages[1].Content)
}

func TestHandleFallsBackToActiveConversation(t *testing.T) {
	reg := stubRegistry(map[string]string{llm.ProviderGemini: "ok"})
	svc, conversations, settings := newDispatchForTest(reg, config.AIConfig{})
	ctx := context.Background()

	assert.NoError(t, settings.SetString(ctx, contract.SettingActiveConversation, "active-list"))

	svc.Handle(ctx, &dto.ChatMessageRequest{Prompt: "hello"})

	c, _ := conversations.FindById(ctx, "active-list")
	assert.NotNil(t, c)
	assert.Len(t, c.Messages, 2)
}

func TestHandleNoConversationAnywhereCreatesOne(t *testing.T) {
	reg := stubRegistry(map[string]string{llm.ProviderGemini: "ok"})
	svc, conversations, _ := newDispatchForTest(reg, config.AIConfig{})
	ctx := context.Background()

	svc.Handle(ctx, &dto.ChatMessageRequest{Prompt: "hello"})

	count, _ := conversations.Count(ctx)
	assert.EqualValues(t, 1, count)
}

func TestHandleOfflineSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"local answer","done":true}`))
	}))
	defer server.Close()

	svc, conversations, _ := newDispatchForTest(registry.New(registry.Config{}), config.AIConfig{
		OfflineTimeout: 5 * time.Second,
	})

	got := svc.Handle(context.Background(), &dto.ChatMessageRequest{
		Mode:              dto.ModeOffline,
		OllamaURL:         server.URL,
		CurrentChatListId: "list-1",
		Prompt:            "hello",
	})
	assert.Equal(t, "local answer", got)

	c, _ := conversations.FindById(context.Background(), "list-1")
	assert.NotNil(t, c)
	assert.Len(t, c.Messages, 2)
}

func TestHandleOfflineTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	svc, conversations, _ := newDispatchForTest(registry.New(registry.Config{}), config.AIConfig{
		OfflineTimeout: 50 * time.Millisecond,
	})

	start := time.Now()
	got := svc.Handle(context.Background(), &dto.ChatMessageRequest{
		Mode:              dto.ModeOffline,
		OllamaURL:         server.URL,
		CurrentChatListId: "list-1",
		Prompt:            "hello",
	})
	elapsed := time.Since(start)

	assert.Equal(t, OfflineTimeoutMessage, got)
	assert.Less(t, elapsed, 2*time.Second, "losing the race must settle promptly")

	// Timed-out calls leave no trace in storage.
	count, _ := conversations.Count(context.Background())
	assert.Zero(t, count)
}

func TestHandleOfflineErrorStillPersists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`boom`))
	}))
	defer server.Close()

	svc, conversations, _ := newDispatchForTest(registry.New(registry.Config{}), config.AIConfig{
		OfflineTimeout: 5 * time.Second,
	})

	got := svc.Handle(context.Background(), &dto.ChatMessageRequest{
		Mode:              dto.ModeOffline,
		OllamaURL:         server.URL,
		CurrentChatListId: "list-1",
		Prompt:            "hello",
	})
	assert.Equal(t, "Error: 500 Internal Server Error - boom", got)

	// The rendered error is an answer like any other and gets stored.
	c, _ := conversations.FindById(context.Background(), "list-1")
	assert.NotNil(t, c)
	assert.Equal(t, "Error: 500 Internal Server Error - boom", c.Messages[1].Content)
}
