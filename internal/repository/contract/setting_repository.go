package contract

import "context"

// Well-known setting keys.
const (
	SettingActiveConversation = "currentChatListId"
	SettingLastProvider       = "currentProvider"
	SettingLastModel          = "currentModel"
)

type SettingRepository interface {
	// GetString returns "" when the key is absent.
	GetString(ctx context.Context, key string) (string, error)
	SetString(ctx context.Context, key, value string) error
}
