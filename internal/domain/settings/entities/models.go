package entities

import "time"

// Columns are the settings columns shared by both tables
type Columns struct {
	AutoTyping          bool              `gorm:"column:autotyping;not null"`
	AutoRecording       bool              `gorm:"column:autorecording;not null"`
	AlwaysOnline        bool              `gorm:"column:alwaysonline;not null"`
	AntiLink            bool              `gorm:"column:antilink;not null"`
	AntiBot             bool              `gorm:"column:antibot;not null"`
	AutoRespond         bool              `gorm:"column:autorespond;not null"`
	AutoRespondTriggers map[string]string `gorm:"column:auto_respond_triggers;type:jsonb;serializer:json"`
	BannedWords         []string          `gorm:"column:banned_words;type:jsonb;serializer:json"`
}

// UserSettingsModel is a GORM model for user_settings table
type UserSettingsModel struct {
	Identity  string `gorm:"primaryKey;size:255"`
	Columns   `gorm:"embedded"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserSettingsModel) TableName() string {
	return "user_settings"
}

// GroupSettingsModel is a GORM model for group_settings table
type GroupSettingsModel struct {
	Identity     string `gorm:"primaryKey;size:255"`
	Columns      `gorm:"embedded"`
	CommandCount int64      `gorm:"not null;default:0"`
	LastActive   *time.Time `gorm:"column:last_active"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
}

func (GroupSettingsModel) TableName() string {
	return "group_settings"
}

// ColumnsFrom converts an entity to its columns
func ColumnsFrom(s Settings) Columns {
	s = s.Clone()
	return Columns{
		AutoTyping:          s.AutoTyping,
		AutoRecording:       s.AutoRecording,
		AlwaysOnline:        s.AlwaysOnline,
		AntiLink:            s.AntiLink,
		AntiBot:             s.AntiBot,
		AutoRespond:         s.AutoRespond,
		AutoRespondTriggers: s.AutoRespondTriggers,
		BannedWords:         s.BannedWords,
	}
}

// ToEntity converts DB columns to domain entity
func (c Columns) ToEntity() *Settings {
	s := Settings{
		AutoTyping:          c.AutoTyping,
		AutoRecording:       c.AutoRecording,
		AlwaysOnline:        c.AlwaysOnline,
		AntiLink:            c.AntiLink,
		AntiBot:             c.AntiBot,
		AutoRespond:         c.AutoRespond,
		AutoRespondTriggers: c.AutoRespondTriggers,
		BannedWords:         c.BannedWords,
	}.Clone()
	return &s
}
