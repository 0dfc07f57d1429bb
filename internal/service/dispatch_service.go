package service

import (
	"context"
	"fmt"

	"ai-sidebar-be/internal/config"
	"ai-sidebar-be/internal/dto"
	"ai-sidebar-be/internal/pkg/logger"
	"ai-sidebar-be/pkg/llm"
	"ai-sidebar-be/pkg/llm/ollama"
	"ai-sidebar-be/pkg/llm/registry"

	"github.com/google/uuid"
)

// OfflineTimeoutMessage is what the user sees when the local server loses
// the timeout race.
const OfflineTimeoutMessage = "Error: Server did not respond within 30 seconds or failed."

// IDispatchService routes a chat request to the right backend and persists
// the exchange. Handle never fails: every branch, including routing and
// transport failures, resolves to a string the sidebar can render.
type IDispatchService interface {
	Handle(ctx context.Context, req *dto.ChatMessageRequest) string
}

type dispatchService struct {
	registry *registry.Registry
	chats    IChatService
	cfg      config.AIConfig
	logger   logger.ILogger
}

func NewDispatchService(
	reg *registry.Registry,
	chats IChatService,
	cfg config.AIConfig,
	log logger.ILogger,
) IDispatchService {
	return &dispatchService{
		registry: reg,
		chats:    chats,
		cfg:      cfg,
		logger:   log,
	}
}

func (s *dispatchService) Handle(ctx context.Context, req *dto.ChatMessageRequest) string {
	mode := req.Mode
	if mode == "" {
		mode = dto.ModeOnline
	}

	if mode == dto.ModeOffline {
		return s.handleOffline(ctx, req)
	}
	return s.handleOnline(ctx, req)
}

// handleOnline dispatches to a cloud provider. Explicit request fields beat
// the configured defaults; the defaults only fill gaps.
func (s *dispatchService) handleOnline(ctx context.Context, req *dto.ChatMessageRequest) string {
	provider := req.Provider
	if provider == "" {
		provider = s.cfg.DefaultProvider
	}
	if provider == "" {
		provider = llm.ProviderGemini
	}

	model := req.Model
	if model == "" {
		model = s.cfg.DefaultModel
	}

	client, ok := s.registry.Client(provider, model)
	if !ok {
		// No client is constructed and nothing is persisted.
		return fmt.Sprintf("Provider %s is not configured in background.", provider)
	}

	response := client.Answer(ctx, req.Prompt)
	s.persistExchange(ctx, req, response)
	return response
}

// handleOffline races the local server against the configured timeout. The
// deadline is a real context deadline, so losing the race also cancels the
// underlying request instead of leaving it running.
func (s *dispatchService) handleOffline(ctx context.Context, req *dto.ChatMessageRequest) string {
	baseURL := req.OllamaURL
	if baseURL == "" {
		baseURL = s.cfg.OllamaBaseURL
	}
	model := req.Model
	if model == "" {
		model = s.cfg.OllamaModel
	}

	client := ollama.NewOllamaClient(baseURL, model, ollama.Strategy(s.cfg.OllamaStrategy))

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.OfflineTimeout)
	defer cancel()

	resultCh := make(chan string, 1)
	go func() {
		resultCh <- client.Answer(callCtx, req.Prompt)
	}()

	select {
	case response := <-resultCh:
		if callCtx.Err() != nil {
			// The client only settled because the deadline cancelled it.
			return OfflineTimeoutMessage
		}
		s.persistExchange(ctx, req, response)
		return response
	case <-callCtx.Done():
		// Timed-out calls are never persisted and never retried.
		return OfflineTimeoutMessage
	}
}

// persistExchange is fire-and-forget: storage failures are logged, never
// surfaced to the sidebar, so Handle keeps its always-resolves contract.
func (s *dispatchService) persistExchange(ctx context.Context, req *dto.ChatMessageRequest, response string) {
	userText := req.ActualUserPrompt
	if userText == "" {
		userText = req.Prompt
	}

	conversationId := req.CurrentChatListId
	if conversationId == "" {
		active, err := s.chats.ActiveConversation(ctx)
		if err != nil {
			s.logger.Warn("DispatchService", "Failed to read active conversation", map[string]interface{}{
				"error": err.Error(),
			})
		}
		conversationId = active
	}
	if conversationId == "" {
		conversationId = uuid.NewString()
	}

	if err := s.chats.AppendExchange(ctx, userText, response, conversationId); err != nil {
		s.logger.Error("DispatchService", "Failed to persist exchange", map[string]interface{}{
			"conversation_id": conversationId,
			"error":           err.Error(),
		})
	}
}
