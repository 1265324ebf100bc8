package service

import (
	"context"
	"errors"
	"log"
	"time"

	"Skill_Link/internal/model"
	"Skill_Link/internal/pkg"
	"Skill_Link/internal/repository/mysql"

	"gorm.io/gorm"
)

type ConnectionService struct {
	repo     *mysql.ConnectionRepository
	userRepo *mysql.UserRepository
	emailSvc *EmailService
}

// PeerSummary 连接列表里对端的展示字段
type PeerSummary struct {
	EdgeID    uint64 `json:"edge_id"`
	Status    string `json:"status"`
	UserID    uint64 `json:"user_id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Location  string `json:"location"`
}

func NewConnectionService(emailSvc *EmailService) *ConnectionService {
	return NewConnectionServiceWith(mysql.DB, emailSvc)
}

func NewConnectionServiceWith(db *gorm.DB, emailSvc *EmailService) *ConnectionService {
	return &ConnectionService{
		repo:     &mysql.ConnectionRepository{DB: db},
		userRepo: &mysql.UserRepository{DB: db},
		emailSvc: emailSvc,
	}
}

func (s *ConnectionService) Request(ctx context.Context, actorID, targetID uint64) (*model.Connection, error) {
	if actorID == 0 || targetID == 0 {
		return nil, errors.New("invalid user id")
	}
	if actorID == targetID {
		return nil, errors.New("cannot connect to self")
	}
	if _, err := s.userRepo.FindByID(targetID); err != nil {
		return nil, errors.New("user not found")
	}
	edge, err := s.repo.Request(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	s.notifyRequest(actorID, targetID)
	return edge, nil
}

func (s *ConnectionService) Respond(ctx context.Context, actorID, edgeID uint64, accept bool) (*model.Connection, error) {
	if actorID == 0 || edgeID == 0 {
		return nil, errors.New("invalid id")
	}
	edge, err := s.repo.Respond(ctx, actorID, edgeID, accept)
	if err != nil {
		return nil, err
	}
	if accept {
		s.notifyAccept(actorID, edge.UserAID)
	}
	return edge, nil
}

func (s *ConnectionService) Remove(ctx context.Context, actorID, edgeID uint64) error {
	if actorID == 0 || edgeID == 0 {
		return errors.New("invalid id")
	}
	return s.repo.Remove(ctx, actorID, edgeID)
}

// ListConnections 已接受的连接，双向并集加对端资料
func (s *ConnectionService) ListConnections(ctx context.Context, actorID uint64) ([]PeerSummary, error) {
	edges, err := s.repo.ListAccepted(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.enrich(actorID, edges)
}

// ListPending 等我回复的请求，带发起方资料
func (s *ConnectionService) ListPending(ctx context.Context, actorID uint64) ([]PeerSummary, error) {
	edges, err := s.repo.ListPendingIncoming(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.enrich(actorID, edges)
}

// Relation 两人之间的连接状态，前端状态机的输入
func (s *ConnectionService) Relation(ctx context.Context, actorID, otherID uint64) (string, uint64, error) {
	edge, err := s.repo.FindEdge(ctx, actorID, otherID)
	if errors.Is(err, mysql.ErrEdgeNotFound) {
		return "not_connected", 0, nil
	}
	if err != nil {
		return "", 0, err
	}
	return edge.Status, edge.ID, nil
}

func (s *ConnectionService) enrich(actorID uint64, edges []model.Connection) ([]PeerSummary, error) {
	peerIDs := make([]uint64, 0, len(edges))
	for _, e := range edges {
		peerIDs = append(peerIDs, peerOf(e, actorID))
	}
	users, err := s.userRepo.FindByIDs(peerIDs)
	if err != nil {
		return nil, err
	}
	out := make([]PeerSummary, 0, len(edges))
	for _, e := range edges {
		pid := peerOf(e, actorID)
		u := users[pid]
		out = append(out, PeerSummary{
			EdgeID:    e.ID,
			Status:    e.Status,
			UserID:    pid,
			Username:  u.Username,
			AvatarURL: u.AvatarURL,
			Location:  u.Location,
		})
	}
	return out, nil
}

func peerOf(e model.Connection, actorID uint64) uint64 {
	if e.UserAID == actorID {
		return e.UserBID
	}
	return e.UserAID
}

func (s *ConnectionService) notifyRequest(actorID, targetID uint64) {
	if s.emailSvc == nil {
		return
	}
	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		return
	}
	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		return
	}
	s.emailSvc.Notify(target.Email, "新的连接请求", pkg.ConnectRequestHTML(actor.Username))
}

func (s *ConnectionService) notifyAccept(actorID, requesterID uint64) {
	if s.emailSvc == nil {
		return
	}
	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		return
	}
	requester, err := s.userRepo.FindByID(requesterID)
	if err != nil {
		return
	}
	s.emailSvc.Notify(requester.Email, "连接请求已通过", pkg.ConnectAcceptHTML(actor.Username))
}

type Sender func(ctx context.Context, ob *model.ConnectOutbox) error

// OutboxRelayer outbox表相关服务
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(sender Sender) *OutboxRelayer {
	return NewOutboxRelayerWith(mysql.DB, sender)
}

func NewOutboxRelayerWith(db *gorm.DB, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

// Run outbox启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

// 投递一批：从数据库读事件，异步交给 sender
func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		log.Printf("outbox query err: %v", err)
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			_ = r.repo.RetryUpdate(ctx, ob.ID)
			continue
		}
		_ = r.repo.SuccessUpdate(ctx, ob.ID)
	}
}

// KafkaSender 用发起方 ID 作 key 投递到连接事件 topic
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.ConnectOutbox) error {
		return p.Send(ctx, pkg.MakeKeyFromID(ob.Actor), []byte(ob.Payload))
	}
}

// LogSender 未配置 kafka 时的占位 sender
func LogSender(ctx context.Context, ob *model.ConnectOutbox) error {
	log.Printf("OUTBOX SEND type=%s actor=%d target=%d payload=%s", ob.EventType, ob.Actor, ob.Target, ob.Payload)
	return nil
}
