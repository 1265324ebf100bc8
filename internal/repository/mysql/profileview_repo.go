package mysql

import (
	"errors"
	"time"

	"Skill_Link/internal/model"

	"gorm.io/gorm"
)

const ViewDedupWindow = 24 * time.Hour

type ProfileViewRepository struct {
	DB *gorm.DB
}

// Record 先读后写的条件插入：24小时窗口内同一对用户只记一条。
// 非原子，并发下可能重复，分析信号可接受，不值得加锁
func (r *ProfileViewRepository) Record(viewerID, viewedID uint64) (bool, error) {
	var last model.ProfileView
	err := r.DB.
		Where("viewer_id = ? AND viewed_id = ?", viewerID, viewedID).
		Order("created_at DESC").
		First(&last).Error
	if err == nil && time.Since(last.CreatedAt) < ViewDedupWindow {
		return false, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	view := model.ProfileView{ViewerID: viewerID, ViewedID: viewedID}
	if err := r.DB.Create(&view).Error; err != nil {
		return false, err
	}
	return true, nil
}

// ListViewers 谁看过我，最近的在前
func (r *ProfileViewRepository) ListViewers(viewedID uint64, limit int) ([]model.ProfileView, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var rows []model.ProfileView
	err := r.DB.
		Where("viewed_id = ?", viewedID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
