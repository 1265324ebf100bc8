package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"Skill_Link/internal/model"

	"gorm.io/gorm"
)

var (
	ErrEdgeExists      = errors.New("connection already exists")
	ErrEdgeNotFound    = errors.New("connection not found")
	ErrEdgeNotPending  = errors.New("connection not pending")
	ErrNotEdgeEndpoint = errors.New("not a member of this connection")
)

type ConnectionRepository struct {
	DB *gorm.DB
}

type OutboxRepository struct {
	DB *gorm.DB
}

// Request 创建 pending 边，事务内双向查重，两个写入口都走这里
func (r *ConnectionRepository) Request(ctx context.Context, actorID, targetID uint64) (*model.Connection, error) {
	var edge model.Connection
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		// 无向边：两个方向都要查，rejected 的旧边不挡新请求
		if err := tx.Model(&model.Connection{}).
			Where("((user_a_id = ? AND user_b_id = ?) OR (user_a_id = ? AND user_b_id = ?)) AND status <> ?",
				actorID, targetID, targetID, actorID, model.ConnectionRejected).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrEdgeExists
		}
		edge = model.Connection{
			UserAID: actorID,
			UserBID: targetID,
			Status:  model.ConnectionPending,
		}
		if err := tx.Create(&edge).Error; err != nil {
			return err
		}
		return r.insertOutbox(tx, "request", actorID, targetID)
	})
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

// Respond 只允许 pending → accepted / rejected，且只有接收方能回复
func (r *ConnectionRepository) Respond(ctx context.Context, actorID, edgeID uint64, accept bool) (*model.Connection, error) {
	var edge model.Connection
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&edge, edgeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEdgeNotFound
			}
			return err
		}
		if edge.UserBID != actorID {
			return ErrNotEdgeEndpoint
		}
		if edge.Status != model.ConnectionPending {
			return ErrEdgeNotPending
		}
		next := model.ConnectionRejected
		event := "reject"
		if accept {
			next = model.ConnectionAccepted
			event = "accept"
		}
		// 状态守卫写在 WHERE 里，防止并发下重复回复
		res := tx.Model(&model.Connection{}).
			Where("id = ? AND status = ?", edgeID, model.ConnectionPending).
			Update("status", next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrEdgeNotPending
		}
		edge.Status = next
		return r.insertOutbox(tx, event, actorID, edge.UserAID)
	})
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

// Remove 直接硬删边，任一端点都可以撤回/移除
func (r *ConnectionRepository) Remove(ctx context.Context, actorID, edgeID uint64) error {
	var edge model.Connection
	if err := r.DB.WithContext(ctx).First(&edge, edgeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEdgeNotFound
		}
		return err
	}
	if edge.UserAID != actorID && edge.UserBID != actorID {
		return ErrNotEdgeEndpoint
	}
	return r.DB.WithContext(ctx).Delete(&model.Connection{}, edgeID).Error
}

// FindEdge 查某一对用户之间的非 rejected 边，两个方向
func (r *ConnectionRepository) FindEdge(ctx context.Context, a, b uint64) (*model.Connection, error) {
	var edge model.Connection
	err := r.DB.WithContext(ctx).
		Where("((user_a_id = ? AND user_b_id = ?) OR (user_a_id = ? AND user_b_id = ?)) AND status <> ?",
			a, b, b, a, model.ConnectionRejected).
		First(&edge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEdgeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

// ListAccepted 作为发起方和接收方的两个对称查询取并集
func (r *ConnectionRepository) ListAccepted(ctx context.Context, userID uint64) ([]model.Connection, error) {
	var rows []model.Connection
	err := r.DB.WithContext(ctx).
		Where("(user_a_id = ? OR user_b_id = ?) AND status = ?", userID, userID, model.ConnectionAccepted).
		Order("updated_at DESC").
		Find(&rows).Error
	return rows, err
}

// ListPendingIncoming 等我回复的请求
func (r *ConnectionRepository) ListPendingIncoming(ctx context.Context, userID uint64) ([]model.Connection, error) {
	var rows []model.Connection
	err := r.DB.WithContext(ctx).
		Where("user_b_id = ? AND status = ?", userID, model.ConnectionPending).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *ConnectionRepository) CountAccepted(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Connection{}).
		Where("(user_a_id = ? OR user_b_id = ?) AND status = ?", userID, userID, model.ConnectionAccepted).
		Count(&n).Error
	return n, err
}

// 插入outbox事件表
func (r *ConnectionRepository) insertOutbox(tx *gorm.DB, event string, actor, target uint64) error {
	payload, _ := json.Marshal(map[string]any{
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"actor":      actor,
		"target":     target,
	})
	ob := &model.ConnectOutbox{
		EventType: event,
		Actor:     actor,
		Target:    target,
		Payload:   string(payload),
		Status:    0,
	}
	return tx.Create(ob).Error
}

// List outbox查询
func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.ConnectOutbox, error) {
	var list []model.ConnectOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = 0").
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate outbox记录消息失败重试
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ConnectOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}

// SuccessUpdate outbox成功记录消息更新
func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ConnectOutbox{}).Where("id = ?", id).
		Update("status", 1).Error
}
