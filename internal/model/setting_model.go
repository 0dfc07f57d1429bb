package model

import (
	"time"

	"gorm.io/datatypes"
)

// Setting is a top-level key/value entry: the active conversation pointer
// and per-provider configuration live here, separate from the conversation
// rows.
type Setting struct {
	Key       string         `gorm:"type:text;primaryKey"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (Setting) TableName() string {
	return "settings"
}
