package mapper

import (
	"testing"
	"time"

	"ai-sidebar-be/internal/entity"
	"ai-sidebar-be/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestConversationRoundTrip(t *testing.T) {
	m := NewChatMapper()

	original := &entity.Conversation{
		Id:        "list-1",
		Name:      "Chat list-1",
		PageURL:   "https://example.com/article",
		Domain:    "example.com",
		CreatedAt: time.Now().Truncate(time.Millisecond),
		Messages: []entity.Message{
			{Id: "m1", Role: entity.RoleUser, Content: "question", Timestamp: 1700000000000},
			{Id: "m2", Role: entity.RoleAssistant, Content: "answer", Timestamp: 1700000000001},
		},
	}

	row, err := m.ConversationToModel(original)
	assert.NoError(t, err)
	assert.Equal(t, "list-1", row.Id)
	assert.NotEmpty(t, row.Messages)

	back, err := m.ConversationToEntity(row)
	assert.NoError(t, err)
	assert.Equal(t, original.Id, back.Id)
	assert.Equal(t, original.Name, back.Name)
	assert.Equal(t, original.PageURL, back.PageURL)
	assert.Equal(t, original.Domain, back.Domain)
	assert.Equal(t, original.Messages, back.Messages)
}

func TestConversationToModelNilMessages(t *testing.T) {
	m := NewChatMapper()

	row, err := m.ConversationToModel(&entity.Conversation{Id: "list-1", Name: "Chat list-1"})
	assert.NoError(t, err)
	// jsonb column is not null, so an empty conversation stores [].
	assert.Equal(t, "[]", string(row.Messages))
}

func TestConversationToEntityNil(t *testing.T) {
	m := NewChatMapper()

	e, err := m.ConversationToEntity(nil)
	assert.NoError(t, err)
	assert.Nil(t, e)
}

func TestConversationToEntityEmptyBlob(t *testing.T) {
	m := NewChatMapper()

	e, err := m.ConversationToEntity(&model.Conversation{Id: "list-1", Name: "Chat list-1"})
	assert.NoError(t, err)
	assert.Empty(t, e.Messages)
}
