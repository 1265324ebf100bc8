package service

import (
	"context"
	"errors"

	"Skill_Link/internal/model"
	"Skill_Link/internal/repository/mysql"

	"gorm.io/gorm"
)

type ProfileService struct {
	userRepo  *mysql.UserRepository
	skillRepo *mysql.SkillRepository
	connRepo  *mysql.ConnectionRepository
	viewRepo  *mysql.ProfileViewRepository
}

// ProfileDetail 资料页聚合
type ProfileDetail struct {
	UserID          uint64   `json:"user_id"`
	Username        string   `json:"username"`
	Bio             string   `json:"bio"`
	AvatarURL       string   `json:"avatar_url"`
	Location        string   `json:"location"`
	Availability    string   `json:"availability"`
	Skills          []string `json:"skills"`
	LookingFor      []string `json:"looking_for"`
	Conditions      []string `json:"conditions"`
	ConnectionCount int64    `json:"connection_count"`
}

// ViewerSummary 谁看过我
type ViewerSummary struct {
	UserID    uint64 `json:"user_id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Location  string `json:"location"`
	ViewedAt  string `json:"viewed_at"`
}

func NewProfileService() *ProfileService {
	return NewProfileServiceWith(mysql.DB)
}

func NewProfileServiceWith(db *gorm.DB) *ProfileService {
	return &ProfileService{
		userRepo:  &mysql.UserRepository{DB: db},
		skillRepo: &mysql.SkillRepository{DB: db},
		connRepo:  &mysql.ConnectionRepository{DB: db},
		viewRepo:  &mysql.ProfileViewRepository{DB: db},
	}
}

// Get 资料页聚合；看别人的主页时顺带记一条浏览
func (s *ProfileService) Get(ctx context.Context, actorID, targetID uint64) (*ProfileDetail, error) {
	user, err := s.userRepo.FindByID(targetID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	skills, err := s.skillRepo.ListUserSkills(targetID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(skills))
	for _, sk := range skills {
		names = append(names, sk.Name)
	}

	detail := &ProfileDetail{
		UserID:       user.ID,
		Username:     user.Username,
		Bio:          user.Bio,
		AvatarURL:    user.AvatarURL,
		Location:     user.Location,
		Availability: user.Availability,
		Skills:       names,
	}

	if need, err := s.skillRepo.GetCollabNeed(targetID); err == nil {
		detail.LookingFor = need.LookingFor
		detail.Conditions = need.Conditions
	}

	if n, err := s.connRepo.CountAccepted(ctx, targetID); err == nil {
		detail.ConnectionCount = n
	}

	if actorID != 0 && actorID != targetID {
		// 浏览记录是分析信号，失败不影响页面
		_, _ = s.viewRepo.Record(actorID, targetID)
	}
	return detail, nil
}

type ProfileUpdate struct {
	Bio          string
	Location     string
	Availability string
	Skills       []string
	LookingFor   []string
	Conditions   []string
}

// Update 基本字段直接更新，技能和协作需求整体替换
func (s *ProfileService) Update(ctx context.Context, actorID uint64, upd ProfileUpdate) error {
	fields := map[string]any{
		"bio":          upd.Bio,
		"location":     upd.Location,
		"availability": upd.Availability,
	}
	if err := s.userRepo.UpdateProfile(actorID, fields); err != nil {
		return err
	}

	ids, err := s.skillRepo.ResolveNames(upd.Skills)
	if err != nil {
		return err
	}
	if err = s.skillRepo.ReplaceUserSkills(actorID, ids); err != nil {
		return err
	}
	return s.skillRepo.ReplaceCollabNeed(actorID, upd.LookingFor, upd.Conditions)
}

func (s *ProfileService) UpdateAvatar(actorID uint64, url string) error {
	return s.userRepo.UpdateAvatar(actorID, url)
}

func (s *ProfileService) SearchSkills(prefix string, limit int) ([]model.Skill, error) {
	return s.skillRepo.Search(prefix, limit)
}

// ListViewers 谁看过我，带浏览人资料
func (s *ProfileService) ListViewers(actorID uint64, limit int) ([]ViewerSummary, error) {
	views, err := s.viewRepo.ListViewers(actorID, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ViewerID)
	}
	users, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	out := make([]ViewerSummary, 0, len(views))
	for _, v := range views {
		u := users[v.ViewerID]
		out = append(out, ViewerSummary{
			UserID:    v.ViewerID,
			Username:  u.Username,
			AvatarURL: u.AvatarURL,
			Location:  u.Location,
			ViewedAt:  v.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return out, nil
}
