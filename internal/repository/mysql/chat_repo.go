package mysql

import (
	"context"
	"errors"
	"time"

	"Skill_Link/internal/model"

	"gorm.io/gorm"
)

var (
	ErrChatNotFound  = errors.New("chat not found")
	ErrNotChatMember = errors.New("not a member of this chat")
)

type ChatRepository struct {
	DB *gorm.DB
}

// ListChatsOf 一次扇出查询：用户所在的会话，带成员表和消息表
func (r *ChatRepository) ListChatsOf(ctx context.Context, userID uint64) ([]model.Chat, error) {
	var chats []model.Chat
	err := r.DB.WithContext(ctx).
		Joins("JOIN chat_members ON chat_members.chat_id = chats.id").
		Where("chat_members.user_id = ?", userID).
		Preload("Members").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("sent_at DESC")
		}).
		Find(&chats).Error
	return chats, err
}

func (r *ChatRepository) IsMember(ctx context.Context, chatID, userID uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.ChatMember{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *ChatRepository) Members(ctx context.Context, chatID uint64) ([]model.ChatMember, error) {
	var rows []model.ChatMember
	err := r.DB.WithContext(ctx).Where("chat_id = ?", chatID).Find(&rows).Error
	return rows, err
}

// FindDirect 找两人共同的 1:1 会话，新消息和申请回复两个入口共用
func (r *ChatRepository) FindDirect(ctx context.Context, a, b uint64) (*model.Chat, error) {
	memberOf := func(uid uint64) *gorm.DB {
		return r.DB.Model(&model.ChatMember{}).Select("chat_id").Where("user_id = ?", uid)
	}
	var chat model.Chat
	err := r.DB.WithContext(ctx).
		Where("is_group = ?", false).
		Where("id IN (?)", memberOf(a)).
		Where("id IN (?)", memberOf(b)).
		First(&chat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// CreateDirect 建会话+两条成员+首条消息，单库事务开销很低，直接包一个
func (r *ChatRepository) CreateDirect(ctx context.Context, a, b uint64, firstMessage string) (*model.Chat, error) {
	var chat model.Chat
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chat = model.Chat{IsGroup: false}
		if err := tx.Create(&chat).Error; err != nil {
			return err
		}
		for _, uid := range []uint64{a, b} {
			if err := tx.Create(&model.ChatMember{ChatID: chat.ID, UserID: uid}).Error; err != nil {
				return err
			}
		}
		if firstMessage == "" {
			return nil
		}
		return tx.Create(&model.Message{
			ChatID:   chat.ID,
			SenderID: a,
			Content:  firstMessage,
			Status:   model.MessageSent,
			SentAt:   time.Now(),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *ChatRepository) CreateMessage(ctx context.Context, chatID, senderID uint64, content string) (*model.Message, error) {
	msg := model.Message{
		ChatID:   chatID,
		SenderID: senderID,
		Content:  content,
		Status:   model.MessageSent,
		SentAt:   time.Now(),
	}
	if err := r.DB.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *ChatRepository) ListMessages(ctx context.Context, chatID uint64, limit int) ([]model.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	var rows []model.Message
	err := r.DB.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("sent_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// MarkRead 把会话里别人发的消息全部置 read
func (r *ChatRepository) MarkRead(ctx context.Context, chatID, readerID uint64) error {
	return r.DB.WithContext(ctx).Model(&model.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND status <> ?", chatID, readerID, model.MessageRead).
		Update("status", model.MessageRead).Error
}

// UnreadTotal 角标用的未读总数
func (r *ChatRepository) UnreadTotal(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Message{}).
		Joins("JOIN chat_members ON chat_members.chat_id = messages.chat_id").
		Where("chat_members.user_id = ? AND messages.sender_id <> ? AND messages.status <> ?",
			userID, userID, model.MessageRead).
		Count(&n).Error
	return n, err
}
