package contract

import (
	"context"

	"ai-sidebar-be/internal/entity"
)

type ConversationRepository interface {
	// FindById returns (nil, nil) when no conversation has the id.
	FindById(ctx context.Context, id string) (*entity.Conversation, error)
	FindAll(ctx context.Context) ([]*entity.Conversation, error)
	// Save upserts the whole conversation row, messages included.
	Save(ctx context.Context, conversation *entity.Conversation) error
	Count(ctx context.Context) (int64, error)
}
