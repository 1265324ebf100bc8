package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"Skill_Link/internal/model"
	"Skill_Link/internal/pkg"
	"Skill_Link/internal/repository/mysql"

	"gorm.io/gorm"
)

type ChatService struct {
	repo     *mysql.ChatRepository
	userRepo *mysql.UserRepository
	hub      *pkg.Hub
}

// ConversationSummary 会话列表里的一行
type ConversationSummary struct {
	ChatID      uint64    `json:"chat_id"`
	DisplayName string    `json:"display_name"`
	IsGroup     bool      `json:"is_group"`
	LastMessage string    `json:"last_message"`
	LastSender  uint64    `json:"last_sender"`
	LastSentAt  time.Time `json:"last_sent_at"`
	UnreadCount int64     `json:"unread_count"`
}

type MessagePush struct {
	Type     string    `json:"type"`
	ChatID   uint64    `json:"chat_id"`
	ID       uint64    `json:"id"`
	SenderID uint64    `json:"sender_id"`
	Content  string    `json:"content"`
	SentAt   time.Time `json:"sent_at"`
}

func NewChatService(hub *pkg.Hub) *ChatService {
	return NewChatServiceWith(mysql.DB, hub)
}

func NewChatServiceWith(db *gorm.DB, hub *pkg.Hub) *ChatService {
	return &ChatService{
		repo:     &mysql.ChatRepository{DB: db},
		userRepo: &mysql.UserRepository{DB: db},
		hub:      hub,
	}
}

// ListConversations 会话聚合：最新消息、未读数、展示名，按最后消息时间倒序，
// 没有消息的会话沉底。总未读数同时推给角标通道
func (s *ChatService) ListConversations(ctx context.Context, actorID uint64) ([]ConversationSummary, int64, error) {
	chats, err := s.repo.ListChatsOf(ctx, actorID)
	if err != nil {
		return nil, 0, err
	}

	// 1:1 会话展示名需要对端用户名，先收集再批量查
	peerIDs := make([]uint64, 0, len(chats))
	for _, c := range chats {
		if c.IsGroup || c.Name != "" {
			continue
		}
		for _, m := range c.Members {
			if m.UserID != actorID {
				peerIDs = append(peerIDs, m.UserID)
			}
		}
	}
	users, err := s.userRepo.FindByIDs(peerIDs)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	out := make([]ConversationSummary, 0, len(chats))
	for _, c := range chats {
		row := ConversationSummary{
			ChatID:      c.ID,
			IsGroup:     c.IsGroup,
			DisplayName: s.displayName(c, actorID, users),
		}
		// repo 按 sent_at 倒序预载，头部即最新一条
		if len(c.Messages) > 0 {
			head := c.Messages[0]
			row.LastMessage = head.Content
			row.LastSender = head.SenderID
			row.LastSentAt = head.SentAt
		}
		for _, m := range c.Messages {
			if m.SenderID != actorID && m.Status != model.MessageRead {
				row.UnreadCount++
			}
		}
		total += row.UnreadCount
		out = append(out, row)
	}

	// 最后消息时间倒序，空会话排最后
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.LastSentAt.IsZero() != b.LastSentAt.IsZero() {
			return !a.LastSentAt.IsZero()
		}
		return a.LastSentAt.After(b.LastSentAt)
	})

	if s.hub != nil {
		s.hub.NotifyUnread(actorID, total)
	}
	return out, total, nil
}

func (s *ChatService) displayName(c model.Chat, actorID uint64, users map[uint64]model.User) string {
	if c.Name != "" {
		return c.Name
	}
	if !c.IsGroup {
		for _, m := range c.Members {
			if m.UserID != actorID {
				if u, ok := users[m.UserID]; ok {
					return u.Username
				}
			}
		}
	}
	return "Group Chat"
}

// OpenDirect 新消息入口：有共同 1:1 会话就复用，否则建会话+成员+首条消息
func (s *ChatService) OpenDirect(ctx context.Context, actorID, targetID uint64, firstMessage string) (*model.Chat, bool, error) {
	if actorID == targetID {
		return nil, false, errors.New("cannot message self")
	}
	if _, err := s.userRepo.FindByID(targetID); err != nil {
		return nil, false, errors.New("user not found")
	}
	chat, err := s.repo.FindDirect(ctx, actorID, targetID)
	if err == nil {
		if firstMessage != "" {
			if _, err = s.SendMessage(ctx, actorID, chat.ID, firstMessage); err != nil {
				return nil, false, err
			}
		}
		return chat, false, nil
	}
	if !errors.Is(err, mysql.ErrChatNotFound) {
		return nil, false, err
	}
	chat, err = s.repo.CreateDirect(ctx, actorID, targetID, firstMessage)
	if err != nil {
		return nil, false, err
	}
	s.pushUnread(ctx, chat.ID, actorID)
	return chat, true, nil
}

func (s *ChatService) SendMessage(ctx context.Context, actorID, chatID uint64, content string) (*model.Message, error) {
	if content == "" {
		return nil, errors.New("empty message")
	}
	ok, err := s.repo.IsMember(ctx, chatID, actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, mysql.ErrNotChatMember
	}
	msg, err := s.repo.CreateMessage(ctx, chatID, actorID, content)
	if err != nil {
		return nil, err
	}
	if s.hub != nil {
		s.hub.BroadcastMessage(chatID, MessagePush{
			Type:     "message",
			ChatID:   chatID,
			ID:       msg.ID,
			SenderID: msg.SenderID,
			Content:  msg.Content,
			SentAt:   msg.SentAt,
		})
	}
	s.pushUnread(ctx, chatID, actorID)
	return msg, nil
}

func (s *ChatService) ListMessages(ctx context.Context, actorID, chatID uint64, limit int) ([]model.Message, error) {
	ok, err := s.repo.IsMember(ctx, chatID, actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, mysql.ErrNotChatMember
	}
	return s.repo.ListMessages(ctx, chatID, limit)
}

// MarkRead 已读回执：把会话里别人发的消息置 read，角标跟着刷新
func (s *ChatService) MarkRead(ctx context.Context, actorID, chatID uint64) error {
	ok, err := s.repo.IsMember(ctx, chatID, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return mysql.ErrNotChatMember
	}
	if err = s.repo.MarkRead(ctx, chatID, actorID); err != nil {
		return err
	}
	if s.hub != nil {
		total, err := s.repo.UnreadTotal(ctx, actorID)
		if err == nil {
			s.hub.NotifyUnread(actorID, total)
		}
	}
	return nil
}

func (s *ChatService) IsMember(ctx context.Context, chatID, userID uint64) (bool, error) {
	return s.repo.IsMember(ctx, chatID, userID)
}

// pushUnread 给会话里除发送者外的成员重算未读总数并推角标
func (s *ChatService) pushUnread(ctx context.Context, chatID, senderID uint64) {
	if s.hub == nil {
		return
	}
	members, err := s.repo.Members(ctx, chatID)
	if err != nil {
		return
	}
	for _, m := range members {
		if m.UserID == senderID {
			continue
		}
		total, err := s.repo.UnreadTotal(ctx, m.UserID)
		if err != nil {
			continue
		}
		s.hub.NotifyUnread(m.UserID, total)
	}
}
