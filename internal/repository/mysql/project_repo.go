package mysql

import (
	"Skill_Link/internal/model"

	"gorm.io/gorm"
)

type ProjectRepository struct {
	DB *gorm.DB
}

func (r *ProjectRepository) Create(p *model.Project) error {
	return r.DB.Create(p).Error
}

func (r *ProjectRepository) FindByID(id uint64) (*model.Project, error) {
	var p model.Project
	err := r.DB.First(&p, id).Error
	return &p, err
}

func (r *ProjectRepository) Update(id uint64, fields map[string]any) error {
	return r.DB.Model(&model.Project{}).Where("id = ?", id).Updates(fields).Error
}

func (r *ProjectRepository) DeleteByID(id uint64) error {
	// 幂等硬删除
	return r.DB.Delete(&model.Project{}, id).Error
}

// ListAccepting 开放申请的项目流，游标分页
func (r *ProjectRepository) ListAccepting(cursor uint64, limit int) ([]model.Project, uint64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := r.DB.Model(&model.Project{}).Where("accepting = ?", true)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}
	var rows []model.Project
	// limit+1 探测是否还有下一页
	if err := q.Order("id DESC").Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	var next uint64
	if len(rows) > limit {
		next = rows[limit-1].ID
		rows = rows[:limit]
	}
	return rows, next, nil
}

func (r *ProjectRepository) ListByOwner(ownerID uint64) ([]model.Project, error) {
	var rows []model.Project
	err := r.DB.Where("owner_id = ?", ownerID).Order("id DESC").Find(&rows).Error
	return rows, err
}
