package dto

// Envelope type discriminators. These mirror the message types the sidebar
// used to send to the extension background script, so the UI migrates to the
// backend without reshaping its payloads.
const (
	EnvelopeChatMessage    = "chat_message"
	EnvelopeCreateChatList = "create_new_chat_list"
	EnvelopeWakeUp         = "BACKGROUND_SCRIPT_WAKE_UP"
)

const (
	ModeOnline  = "online"
	ModeOffline = "offline"
)

// EnvelopeRequest is the union of every envelope the extension sends. The
// controller switches on Type; all other fields are optional and ignored by
// the types that do not use them.
type EnvelopeRequest struct {
	Type string `json:"type" validate:"required"`

	// chat_message
	Provider          string `json:"provider,omitempty"`
	Mode              string `json:"mode,omitempty"`
	Model             string `json:"model,omitempty"`
	Prompt            string `json:"prompt,omitempty"`
	OllamaURL         string `json:"ollamaUrl,omitempty"`
	CurrentChatListId string `json:"currentChatListId,omitempty"`
	ActualUserPrompt  string `json:"actualUserPrompt,omitempty"`

	// create_new_chat_list
	ChatListId string `json:"chatListId,omitempty"`
	PageURL    string `json:"pageUrl,omitempty"`
	Domain     string `json:"domain,omitempty"`
}

// ChatMessageRequest is the dispatch-facing view of a chat_message envelope.
type ChatMessageRequest struct {
	Provider          string
	Mode              string
	Model             string
	Prompt            string
	OllamaURL         string
	CurrentChatListId string
	// ActualUserPrompt is the user's question before page content was
	// prepended. It is what gets persisted as the user message.
	ActualUserPrompt string
}

type ChatMessageResponse struct {
	Response string `json:"response"`
}

type ControlResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type WakeUpResponse struct {
	Status string `json:"status"`
}

// --- Conversation read models (sidebar history panel) ---

type ConversationSummaryResponse struct {
	Id           string `json:"id"`
	Name         string `json:"name"`
	PageURL      string `json:"page_url,omitempty"`
	Domain       string `json:"domain,omitempty"`
	MessageCount int    `json:"message_count"`
	CreatedAt    int64  `json:"created_at"`
}

type ChatHistoryResponse struct {
	Id        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}
