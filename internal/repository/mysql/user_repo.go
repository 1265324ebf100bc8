package mysql

import (
	"Skill_Link/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ? OR email = ?", username, username).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByID(id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByIDs(ids []uint64) (map[uint64]model.User, error) {
	var rows []model.User
	if len(ids) == 0 {
		return map[uint64]model.User{}, nil
	}
	if err := r.DB.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	m := make(map[uint64]model.User, len(rows))
	for _, u := range rows {
		m[u.ID] = u
	}
	return m, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var usr model.User
	err := r.DB.Where("email = ?", email).First(&usr).Error
	return &usr, err
}

func (r *UserRepository) UpdatePassword(user *model.User, newPassword string) error {
	return r.DB.Model(user).Update("password", newPassword).Error
}

// UpdateProfile 只更新资料字段，密码邮箱走各自接口
func (r *UserRepository) UpdateProfile(userID uint64, fields map[string]any) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).Updates(fields).Error
}

func (r *UserRepository) UpdateAvatar(userID uint64, url string) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).Update("avatar_url", url).Error
}
