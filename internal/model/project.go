package model

import "time"

const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

type Project struct {
	ID          uint64 `gorm:"primaryKey"`
	OwnerID     uint64 `gorm:"not null;index"`
	Title       string `gorm:"size:200;not null"`
	Description string `gorm:"type:text"`
	URL         string `gorm:"size:255"`
	Accepting   bool   `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Application 用户对项目的加入申请
type Application struct {
	ID          uint64 `gorm:"primaryKey"`
	ProjectID   uint64 `gorm:"not null;index;uniqueIndex:uk_project_applicant"`
	ApplicantID uint64 `gorm:"not null;index;uniqueIndex:uk_project_applicant"`
	Status      string `gorm:"size:16;not null;default:'pending'"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
