package model

import "time"

const (
	AvailabilityPartTime     = "part-time"
	AvailabilityFullTime     = "full-time"
	AvailabilityProjectBased = "project-based"
	AvailabilityWeekends     = "weekends"
)

type User struct {
	ID           uint64 `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:32;not null"`
	Password     string `gorm:"size:255;not null"`
	Email        string `gorm:"uniqueIndex;size:64;not null"`
	Bio          string `gorm:"type:text"`
	AvatarURL    string `gorm:"size:255"`
	Location     string `gorm:"size:64"`
	Availability string `gorm:"size:16;default:'part-time'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Skill 全局技能词表，保存资料时懒创建去重
type Skill struct {
	ID   uint64 `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:64;not null"`
}

type UserSkill struct {
	ID      uint64 `gorm:"primaryKey"`
	UserID  uint64 `gorm:"not null;index;uniqueIndex:uk_user_skill"`
	SkillID uint64 `gorm:"not null;index;uniqueIndex:uk_user_skill"`
}

// CollabNeed 每个用户一行，两个自由文本数组整体替换
type CollabNeed struct {
	ID         uint64   `gorm:"primaryKey"`
	UserID     uint64   `gorm:"uniqueIndex;not null"`
	LookingFor []string `gorm:"serializer:json;type:json"`
	Conditions []string `gorm:"serializer:json;type:json"`
	UpdatedAt  time.Time
}
