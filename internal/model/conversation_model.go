package model

import (
	"time"

	"gorm.io/datatypes"
)

// Conversation stores the whole message sequence as one JSON blob on the
// row. Appends are a read-modify-write of the row, which keeps the storage
// shape the sidebar expects while the row key gives per-conversation
// isolation.
type Conversation struct {
	Id        string         `gorm:"type:text;primaryKey"`
	Name      string         `gorm:"type:text;not null"`
	PageURL   string         `gorm:"type:text"`
	Domain    string         `gorm:"type:text"`
	Messages  datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (Conversation) TableName() string {
	return "conversations"
}
