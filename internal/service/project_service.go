package service

import (
	"errors"

	"Skill_Link/internal/model"
	"Skill_Link/internal/repository/mysql"

	"gorm.io/gorm"
)

var ErrNotProjectOwner = errors.New("not the project owner")

type ProjectService struct {
	repo *mysql.ProjectRepository
}

func NewProjectService() *ProjectService {
	return NewProjectServiceWith(mysql.DB)
}

func NewProjectServiceWith(db *gorm.DB) *ProjectService {
	return &ProjectService{repo: &mysql.ProjectRepository{DB: db}}
}

func (s *ProjectService) Create(ownerID uint64, title, desc, url string, accepting bool) (*model.Project, error) {
	if title == "" {
		return nil, errors.New("project title required")
	}
	p := &model.Project{
		OwnerID:     ownerID,
		Title:       title,
		Description: desc,
		URL:         url,
		Accepting:   accepting,
	}
	if err := s.repo.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) Update(actorID, projectID uint64, fields map[string]any) error {
	p, err := s.repo.FindByID(projectID)
	if err != nil {
		return errors.New("project not found")
	}
	if p.OwnerID != actorID {
		return ErrNotProjectOwner
	}
	return s.repo.Update(projectID, fields)
}

func (s *ProjectService) Delete(actorID, projectID uint64) error {
	p, err := s.repo.FindByID(projectID)
	if err != nil {
		// 已不存在视为成功，保证幂等
		return nil
	}
	if p.OwnerID != actorID {
		return ErrNotProjectOwner
	}
	return s.repo.DeleteByID(projectID)
}

func (s *ProjectService) Get(projectID uint64) (*model.Project, error) {
	return s.repo.FindByID(projectID)
}

// ListOpen 开放申请的项目流
func (s *ProjectService) ListOpen(cursor uint64, limit int) ([]model.Project, uint64, error) {
	return s.repo.ListAccepting(cursor, limit)
}

func (s *ProjectService) ListMine(ownerID uint64) ([]model.Project, error) {
	return s.repo.ListByOwner(ownerID)
}
