package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ai-sidebar-be/internal/dto"
	"ai-sidebar-be/internal/entity"
	"ai-sidebar-be/internal/pkg/logger"
	"ai-sidebar-be/internal/repository/contract"
	"ai-sidebar-be/pkg/events"

	"github.com/google/uuid"
)

// IChatService is the conversation store: an append-only collection of
// conversations plus the single active-conversation pointer.
type IChatService interface {
	// AppendExchange appends one user/assistant pair to the conversation,
	// creating it (and making it active) when the id is unknown.
	AppendExchange(ctx context.Context, userText, assistantText, conversationId string) error
	// CreateConversation eagerly creates an empty conversation with page
	// metadata and makes it active. Safe to call for an existing id.
	CreateConversation(ctx context.Context, id, pageURL, domain string) error
	SetActiveConversation(ctx context.Context, id string) error
	ActiveConversation(ctx context.Context) (string, error)
	GetAllConversations(ctx context.Context) ([]*dto.ConversationSummaryResponse, error)
	GetHistory(ctx context.Context, conversationId string) ([]*dto.ChatHistoryResponse, error)
}

type chatService struct {
	conversations contract.ConversationRepository
	settings      contract.SettingRepository
	publisher     IPublisherService
	logger        logger.ILogger

	// One lock per conversation id. Appends are read-modify-write over the
	// whole message blob, so concurrent appends to the same conversation
	// must not interleave; different conversations stay independent.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewChatService(
	conversations contract.ConversationRepository,
	settings contract.SettingRepository,
	publisher IPublisherService,
	log logger.ILogger,
) IChatService {
	return &chatService{
		conversations: conversations,
		settings:      settings,
		publisher:     publisher,
		logger:        log,
		locks:         make(map[string]*sync.Mutex),
	}
}

func (s *chatService) lockFor(conversationId string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[conversationId]
	if !ok {
		l = &sync.Mutex{}
		s.locks[conversationId] = l
	}
	return l
}

func (s *chatService) AppendExchange(ctx context.Context, userText, assistantText, conversationId string) error {
	lock := s.lockFor(conversationId)
	lock.Lock()
	defer lock.Unlock()

	conversation, err := s.conversations.FindById(ctx, conversationId)
	if err != nil {
		return err
	}

	created := false
	if conversation == nil {
		conversation = &entity.Conversation{
			Id:        conversationId,
			Name:      fmt.Sprintf("Chat %s", conversationId),
			CreatedAt: time.Now(),
		}
		created = true
	}

	// Assistant timestamp is user + 1ms so sorting by timestamp alone keeps
	// the pair in order even under coarse clocks. Position in the sequence
	// stays the authoritative order.
	now := time.Now().UnixMilli()
	userMessage := entity.Message{
		Id:        uuid.NewString(),
		Role:      entity.RoleUser,
		Content:   userText,
		Timestamp: now,
	}
	assistantMessage := entity.Message{
		Id:        uuid.NewString(),
		Role:      entity.RoleAssistant,
		Content:   assistantText,
		Timestamp: now + 1,
	}
	conversation.Messages = append(conversation.Messages, userMessage, assistantMessage)

	if err := s.conversations.Save(ctx, conversation); err != nil {
		return err
	}

	if created {
		if err := s.settings.SetString(ctx, contract.SettingActiveConversation, conversationId); err != nil {
			s.logger.Error("ChatService", "Failed to set active conversation", map[string]interface{}{
				"conversation_id": conversationId,
				"error":           err.Error(),
			})
		}
		s.publish(ctx, events.NewConversationCreated(conversationId, conversation.Name))
	}
	s.publish(ctx, events.NewExchangeAppended(conversationId, userMessage.Id, assistantMessage.Id))

	return nil
}

func (s *chatService) CreateConversation(ctx context.Context, id, pageURL, domain string) error {
	lock := s.lockFor(id)
	lock.Lock()

	conversation, err := s.conversations.FindById(ctx, id)
	if err != nil {
		lock.Unlock()
		return err
	}

	if conversation == nil {
		conversation = &entity.Conversation{
			Id:        id,
			Name:      fmt.Sprintf("Chat %s", id),
			PageURL:   pageURL,
			Domain:    domain,
			CreatedAt: time.Now(),
		}
		if err := s.conversations.Save(ctx, conversation); err != nil {
			lock.Unlock()
			return err
		}
		s.publish(ctx, events.NewConversationCreated(id, conversation.Name))
	}
	lock.Unlock()

	return s.SetActiveConversation(ctx, id)
}

func (s *chatService) SetActiveConversation(ctx context.Context, id string) error {
	if err := s.settings.SetString(ctx, contract.SettingActiveConversation, id); err != nil {
		return err
	}
	s.publish(ctx, events.NewActiveConversationChanged(id))
	return nil
}

func (s *chatService) ActiveConversation(ctx context.Context) (string, error) {
	return s.settings.GetString(ctx, contract.SettingActiveConversation)
}

func (s *chatService) GetAllConversations(ctx context.Context) ([]*dto.ConversationSummaryResponse, error) {
	conversations, err := s.conversations.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ConversationSummaryResponse, len(conversations))
	for i, c := range conversations {
		res[i] = &dto.ConversationSummaryResponse{
			Id:           c.Id,
			Name:         c.Name,
			PageURL:      c.PageURL,
			Domain:       c.Domain,
			MessageCount: len(c.Messages),
			CreatedAt:    c.CreatedAt.UnixMilli(),
		}
	}
	return res, nil
}

func (s *chatService) GetHistory(ctx context.Context, conversationId string) ([]*dto.ChatHistoryResponse, error) {
	conversation, err := s.conversations.FindById(ctx, conversationId)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return []*dto.ChatHistoryResponse{}, nil
	}

	res := make([]*dto.ChatHistoryResponse, len(conversation.Messages))
	for i, m := range conversation.Messages {
		res[i] = &dto.ChatHistoryResponse{
			Id:        m.Id,
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: m.Timestamp,
		}
	}
	return res, nil
}

func (s *chatService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("ChatService", "Failed to publish chat event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
