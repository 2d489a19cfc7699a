package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PageSession stores one browser session's list page state using GORM.
// It corresponds to the 'page_sessions' table.
type PageSession struct {
	ID        string `gorm:"primaryKey" json:"id"`
	ListState string `gorm:"type:text;not null;default:'{}'" json:"list_state"` // JSON encoded ListState
	CreatedAt int64  `gorm:"not null" json:"created_at"`                        // Unix timestamp
	UpdatedAt int64  `gorm:"not null;index" json:"updated_at"`                  // Unix timestamp, drives expiry
}

// TableName explicitly sets the table name for GORM.
func (PageSession) TableName() string {
	return "page_sessions"
}

// BeforeCreate generates a session id if not provided.
func (s *PageSession) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}
