package events

import "time"

const (
	TypeExchangeAppended    = "EXCHANGE_APPENDED"
	TypeConversationCreated = "CONVERSATION_CREATED"
	TypeActiveConversation  = "ACTIVE_CONVERSATION_CHANGED"
)

// NewExchangeAppended fires after a user/assistant pair lands in storage.
func NewExchangeAppended(conversationId, userMessageId, assistantMessageId string) Event {
	return BaseEvent{
		Type: TypeExchangeAppended,
		Data: map[string]interface{}{
			"conversation_id":      conversationId,
			"user_message_id":      userMessageId,
			"assistant_message_id": assistantMessageId,
		},
		OccurredAt: time.Now(),
	}
}

// NewConversationCreated fires when an append lazily creates a conversation.
func NewConversationCreated(conversationId, name string) Event {
	return BaseEvent{
		Type: TypeConversationCreated,
		Data: map[string]interface{}{
			"conversation_id": conversationId,
			"name":            name,
		},
		OccurredAt: time.Now(),
	}
}

// NewActiveConversationChanged fires when the active pointer is overwritten.
func NewActiveConversationChanged(conversationId string) Event {
	return BaseEvent{
		Type: TypeActiveConversation,
		Data: map[string]interface{}{
			"conversation_id": conversationId,
		},
		OccurredAt: time.Now(),
	}
}
