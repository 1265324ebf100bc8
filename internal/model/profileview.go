package model

import "time"

// ProfileView 谁看过我，24小时内同一对用户最多记录一条
type ProfileView struct {
	ID        uint64 `gorm:"primaryKey"`
	ViewerID  uint64 `gorm:"not null;index:idx_viewer_viewed,priority:1"`
	ViewedID  uint64 `gorm:"not null;index:idx_viewer_viewed,priority:2;index"`
	CreatedAt time.Time
}
