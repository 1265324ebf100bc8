package model

import "time"

const (
	MessageSent      = "sent"
	MessageDelivered = "delivered"
	MessageRead      = "read"
)

type Chat struct {
	ID        uint64 `gorm:"primaryKey"`
	IsGroup   bool   `gorm:"not null;default:false"`
	Name      string `gorm:"size:64"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Members  []ChatMember `gorm:"foreignKey:ChatID"`
	Messages []Message    `gorm:"foreignKey:ChatID"`
}

type ChatMember struct {
	ID        uint64 `gorm:"primaryKey"`
	ChatID    uint64 `gorm:"not null;index;uniqueIndex:uk_chat_user"`
	UserID    uint64 `gorm:"not null;index;uniqueIndex:uk_chat_user"`
	CreatedAt time.Time
}

type Message struct {
	ID       uint64    `gorm:"primaryKey"`
	ChatID   uint64    `gorm:"not null;index:idx_chat_time,priority:1"`
	SenderID uint64    `gorm:"not null;index"`
	Content  string    `gorm:"type:text;not null"`
	Status   string    `gorm:"size:16;not null;default:'sent'"` // sent / delivered / read
	SentAt   time.Time `gorm:"index:idx_chat_time,priority:2"`
}
