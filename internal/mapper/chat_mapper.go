package mapper

import (
	"encoding/json"

	"ai-sidebar-be/internal/entity"
	"ai-sidebar-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ConversationToEntity(c *model.Conversation) (*entity.Conversation, error) {
	if c == nil {
		return nil, nil
	}

	var messages []entity.Message
	if len(c.Messages) > 0 {
		if err := json.Unmarshal(c.Messages, &messages); err != nil {
			return nil, err
		}
	}

	return &entity.Conversation{
		Id:        c.Id,
		Name:      c.Name,
		PageURL:   c.PageURL,
		Domain:    c.Domain,
		CreatedAt: c.CreatedAt,
		Messages:  messages,
	}, nil
}

func (m *ChatMapper) ConversationToModel(c *entity.Conversation) (*model.Conversation, error) {
	if c == nil {
		return nil, nil
	}

	messages := c.Messages
	if messages == nil {
		messages = []entity.Message{}
	}
	raw, err := json.Marshal(messages)
	if err != nil {
		return nil, err
	}

	return &model.Conversation{
		Id:        c.Id,
		Name:      c.Name,
		PageURL:   c.PageURL,
		Domain:    c.Domain,
		Messages:  raw,
		CreatedAt: c.CreatedAt,
	}, nil
}
