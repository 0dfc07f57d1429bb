package model

import (
	"time"

	"github.com/google/uuid"
)

// Device is one paired extension install.
type Device struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InstallId  string    `gorm:"type:text;not null;uniqueIndex"`
	UserAgent  string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	LastSeenAt *time.Time
}

func (Device) TableName() string {
	return "devices"
}
