package service

import (
	"context"
	"errors"
	"fmt"

	"Skill_Link/internal/model"
	"Skill_Link/internal/pkg"
	"Skill_Link/internal/repository/mysql"

	"gorm.io/gorm"
)

type ApplicationService struct {
	repo        *mysql.ApplicationRepository
	projectRepo *mysql.ProjectRepository
	userRepo    *mysql.UserRepository
	chatSvc     *ChatService
	emailSvc    *EmailService
}

// ApplicantSummary 项目方看到的申请行
type ApplicantSummary struct {
	ID          uint64 `json:"id"`
	Status      string `json:"status"`
	Description string `json:"description"`
	ApplicantID uint64 `json:"applicant_id"`
	Username    string `json:"username"`
	AvatarURL   string `json:"avatar_url"`
	Location    string `json:"location"`
}

func NewApplicationService(chatSvc *ChatService, emailSvc *EmailService) *ApplicationService {
	return NewApplicationServiceWith(mysql.DB, chatSvc, emailSvc)
}

func NewApplicationServiceWith(db *gorm.DB, chatSvc *ChatService, emailSvc *EmailService) *ApplicationService {
	return &ApplicationService{
		repo:        &mysql.ApplicationRepository{DB: db},
		projectRepo: &mysql.ProjectRepository{DB: db},
		userRepo:    &mysql.UserRepository{DB: db},
		chatSvc:     chatSvc,
		emailSvc:    emailSvc,
	}
}

func (s *ApplicationService) Apply(ctx context.Context, actorID, projectID uint64, description string) (*model.Application, error) {
	p, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		return nil, errors.New("project not found")
	}
	if !p.Accepting {
		return nil, errors.New("project not accepting applications")
	}
	if p.OwnerID == actorID {
		return nil, errors.New("cannot apply to own project")
	}
	exists, err := s.repo.Exists(projectID, actorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.New("already applied")
	}
	a := &model.Application{
		ProjectID:   projectID,
		ApplicantID: actorID,
		Status:      model.ApplicationPending,
		Description: description,
	}
	if err = s.repo.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

// ListForProject 项目方查看申请列表，带申请人资料
func (s *ApplicationService) ListForProject(actorID, projectID uint64) ([]ApplicantSummary, error) {
	p, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		return nil, errors.New("project not found")
	}
	if p.OwnerID != actorID {
		return nil, ErrNotProjectOwner
	}
	rows, err := s.repo.ListByProject(projectID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(rows))
	for _, a := range rows {
		ids = append(ids, a.ApplicantID)
	}
	users, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	out := make([]ApplicantSummary, 0, len(rows))
	for _, a := range rows {
		u := users[a.ApplicantID]
		out = append(out, ApplicantSummary{
			ID:          a.ID,
			Status:      a.Status,
			Description: a.Description,
			ApplicantID: a.ApplicantID,
			Username:    u.Username,
			AvatarURL:   u.AvatarURL,
			Location:    u.Location,
		})
	}
	return out, nil
}

func (s *ApplicationService) ListMine(actorID uint64) ([]model.Application, error) {
	return s.repo.ListByApplicant(actorID)
}

// Reply 三步 saga：改申请状态 → 找或建与申请人的 1:1 会话 → 写决定消息。
// 每步失败可人工重试，数据非关键，不做补偿
func (s *ApplicationService) Reply(ctx context.Context, actorID, applicationID uint64, accept bool, note string) error {
	a, err := s.repo.FindByID(applicationID)
	if err != nil {
		return err
	}
	p, err := s.projectRepo.FindByID(a.ProjectID)
	if err != nil {
		return errors.New("project not found")
	}
	if p.OwnerID != actorID {
		return ErrNotProjectOwner
	}

	status := model.ApplicationRejected
	decision := "已拒绝"
	if accept {
		status = model.ApplicationAccepted
		decision = "已接受"
	}
	if err = s.repo.SettleFromPending(applicationID, status); err != nil {
		return err
	}

	// 会话查找逻辑与新消息入口共用，避免重复建 1:1 会话
	text := fmt.Sprintf("你对「%s」的申请%s。%s", p.Title, decision, note)
	chat, _, err := s.chatSvc.OpenDirect(ctx, actorID, a.ApplicantID, "")
	if err != nil {
		return err
	}
	if _, err = s.chatSvc.SendMessage(ctx, actorID, chat.ID, text); err != nil {
		return err
	}

	if s.emailSvc != nil {
		if applicant, uerr := s.userRepo.FindByID(a.ApplicantID); uerr == nil {
			s.emailSvc.Notify(applicant.Email, "项目申请结果", pkg.ApplicationReplyHTML(p.Title, decision, note))
		}
	}
	return nil
}
