package mysql

import (
	"Skill_Link/internal/model"

	"gorm.io/gorm"
)

type SkillRepository struct {
	DB *gorm.DB
}

// ResolveNames 把技能名解析成 ID，词表里没有的懒创建
func (r *SkillRepository) ResolveNames(names []string) ([]uint64, error) {
	ids := make([]uint64, 0, len(names))
	for _, name := range names {
		var skill model.Skill
		if err := r.DB.Where("name = ?", name).FirstOrCreate(&skill, model.Skill{Name: name}).Error; err != nil {
			return nil, err
		}
		ids = append(ids, skill.ID)
	}
	return ids, nil
}

// ReplaceUserSkills 整体替换：先删后插，不做增量 diff
func (r *SkillRepository) ReplaceUserSkills(userID uint64, skillIDs []uint64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.UserSkill{}).Error; err != nil {
			return err
		}
		for _, sid := range skillIDs {
			if err := tx.Create(&model.UserSkill{UserID: userID, SkillID: sid}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SkillRepository) ListUserSkills(userID uint64) ([]model.Skill, error) {
	var skills []model.Skill
	err := r.DB.Model(&model.Skill{}).
		Joins("JOIN user_skills ON user_skills.skill_id = skills.id").
		Where("user_skills.user_id = ?", userID).
		Order("skills.name ASC").
		Find(&skills).Error
	return skills, err
}

// Search 标签补全用的前缀搜索
func (r *SkillRepository) Search(prefix string, limit int) ([]model.Skill, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	var skills []model.Skill
	err := r.DB.Where("name LIKE ?", prefix+"%").
		Order("name ASC").
		Limit(limit).
		Find(&skills).Error
	return skills, err
}

// ReplaceCollabNeed 每用户一行，保存时整体覆盖
func (r *SkillRepository) ReplaceCollabNeed(userID uint64, lookingFor, conditions []string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.CollabNeed{}).Error; err != nil {
			return err
		}
		return tx.Create(&model.CollabNeed{
			UserID:     userID,
			LookingFor: lookingFor,
			Conditions: conditions,
		}).Error
	})
}

func (r *SkillRepository) GetCollabNeed(userID uint64) (*model.CollabNeed, error) {
	var need model.CollabNeed
	err := r.DB.Where("user_id = ?", userID).First(&need).Error
	return &need, err
}
