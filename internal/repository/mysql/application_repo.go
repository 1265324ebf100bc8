package mysql

import (
	"errors"

	"Skill_Link/internal/model"

	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicationSettled  = errors.New("application already settled")
)

type ApplicationRepository struct {
	DB *gorm.DB
}

func (r *ApplicationRepository) Create(a *model.Application) error {
	return r.DB.Create(a).Error
}

func (r *ApplicationRepository) FindByID(id uint64) (*model.Application, error) {
	var a model.Application
	err := r.DB.First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	}
	return &a, err
}

func (r *ApplicationRepository) Exists(projectID, applicantID uint64) (bool, error) {
	var n int64
	err := r.DB.Model(&model.Application{}).
		Where("project_id = ? AND applicant_id = ?", projectID, applicantID).
		Count(&n).Error
	return n > 0, err
}

func (r *ApplicationRepository) ListByProject(projectID uint64) ([]model.Application, error) {
	var rows []model.Application
	err := r.DB.Where("project_id = ?", projectID).Order("id DESC").Find(&rows).Error
	return rows, err
}

func (r *ApplicationRepository) ListByApplicant(applicantID uint64) ([]model.Application, error) {
	var rows []model.Application
	err := r.DB.Where("applicant_id = ?", applicantID).Order("id DESC").Find(&rows).Error
	return rows, err
}

// SettleFromPending 状态守卫在 WHERE 里，只允许 pending → accepted/rejected
func (r *ApplicationRepository) SettleFromPending(id uint64, status string) error {
	res := r.DB.Model(&model.Application{}).
		Where("id = ? AND status = ?", id, model.ApplicationPending).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrApplicationSettled
	}
	return nil
}
