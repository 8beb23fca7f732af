package telegram

import "time"

// SessionModel is the database row holding one credential bundle
type SessionModel struct {
	SessionID string    `gorm:"primaryKey;column:session_id;size:128"`
	Data      []byte    `gorm:"type:bytea;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for SessionModel
func (SessionModel) TableName() string {
	return "sessions"
}
