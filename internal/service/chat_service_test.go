package service

import (
	"context"
	"testing"
	"time"

	"Skill_Link/internal/model"
	"Skill_Link/internal/repository/mysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDirectCreatesExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatServiceWith(db, nil)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	chat, created, err := svc.OpenDirect(ctx, alice.ID, bob.ID, "Hello")
	require.NoError(t, err)
	assert.True(t, created)

	// 恰好一条 Chat、两条 ChatMember、一条 Message
	var chats, members, messages int64
	require.NoError(t, db.Model(&model.Chat{}).Count(&chats).Error)
	require.NoError(t, db.Model(&model.ChatMember{}).Count(&members).Error)
	require.NoError(t, db.Model(&model.Message{}).Count(&messages).Error)
	assert.EqualValues(t, 1, chats)
	assert.EqualValues(t, 2, members)
	assert.EqualValues(t, 1, messages)

	// 再开一次必须复用，哪个方向发起都一样
	again, created, err := svc.OpenDirect(ctx, bob.ID, alice.ID, "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, chat.ID, again.ID)

	require.NoError(t, db.Model(&model.Chat{}).Count(&chats).Error)
	assert.EqualValues(t, 1, chats)
}

func TestConversationAggregation(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatServiceWith(db, nil)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	chatBob, _, err := svc.OpenDirect(ctx, alice.ID, bob.ID, "hi bob")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, bob.ID, chatBob.ID, "hey alice")
	require.NoError(t, err)

	chatCarol, _, err := svc.OpenDirect(ctx, carol.ID, alice.ID, "hello from carol")
	require.NoError(t, err)

	// 没有任何消息的群聊，应该沉底并用缺省展示名
	empty := model.Chat{IsGroup: true}
	require.NoError(t, db.Create(&empty).Error)
	require.NoError(t, db.Create(&model.ChatMember{ChatID: empty.ID, UserID: alice.ID}).Error)
	require.NoError(t, db.Create(&model.ChatMember{ChatID: empty.ID, UserID: bob.ID}).Error)
	require.NoError(t, db.Create(&model.ChatMember{ChatID: empty.ID, UserID: carol.ID}).Error)

	rows, total, err := svc.ListConversations(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// carol 的会话消息更晚，排最前；空会话最后
	assert.Equal(t, chatCarol.ID, rows[0].ChatID)
	assert.Equal(t, chatBob.ID, rows[1].ChatID)
	assert.Equal(t, empty.ID, rows[2].ChatID)

	// 1:1 用对端用户名，群聊没名字用缺省
	assert.Equal(t, "carol", rows[0].DisplayName)
	assert.Equal(t, "bob", rows[1].DisplayName)
	assert.Equal(t, "Group Chat", rows[2].DisplayName)

	// 未读只数别人发的：carol 1 条，bob 1 条（alice 自己的首条不算）
	assert.EqualValues(t, 1, rows[0].UnreadCount)
	assert.EqualValues(t, 1, rows[1].UnreadCount)
	assert.EqualValues(t, 0, rows[2].UnreadCount)
	assert.EqualValues(t, 2, total)

	assert.Equal(t, "hello from carol", rows[0].LastMessage)
	assert.Equal(t, "hey alice", rows[1].LastMessage)
}

func TestOwnMessagesNeverUnread(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatServiceWith(db, nil)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	chat, _, err := svc.OpenDirect(ctx, alice.ID, bob.ID, "one")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, alice.ID, chat.ID, "two")
	require.NoError(t, err)

	_, total, err := svc.ListConversations(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	rows, total, err := svc.ListConversations(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.EqualValues(t, 2, rows[0].UnreadCount)
}

func TestMarkRead(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatServiceWith(db, nil)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	chat, _, err := svc.OpenDirect(ctx, alice.ID, bob.ID, "one")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, alice.ID, chat.ID, "two")
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(ctx, bob.ID, chat.ID))

	_, total, err := svc.ListConversations(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	// 已读的是 alice 发的消息，状态确实写成了 read
	var msgs []model.Message
	require.NoError(t, db.Where("chat_id = ?", chat.ID).Find(&msgs).Error)
	for _, m := range msgs {
		assert.Equal(t, model.MessageRead, m.Status)
	}
}

func TestSendMessageMembershipGuard(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatServiceWith(db, nil)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	mallory := seedUser(t, db, "mallory")

	chat, _, err := svc.OpenDirect(ctx, alice.ID, bob.ID, "hi")
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, mallory.ID, chat.ID, "let me in")
	assert.ErrorIs(t, err, mysql.ErrNotChatMember)

	_, err = svc.ListMessages(ctx, mallory.ID, chat.ID, 0)
	assert.ErrorIs(t, err, mysql.ErrNotChatMember)
}

func TestMessagesAscendingWithSentAt(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatServiceWith(db, nil)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	chat, _, err := svc.OpenDirect(ctx, alice.ID, bob.ID, "first")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, bob.ID, chat.ID, "second")
	require.NoError(t, err)

	msgs, err := svc.ListMessages(ctx, alice.ID, chat.ID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "second", msgs[1].Content)
	assert.True(t, msgs[0].SentAt.Before(msgs[1].SentAt) || msgs[0].SentAt.Equal(msgs[1].SentAt))
	assert.WithinDuration(t, time.Now(), msgs[1].SentAt, time.Minute)
}
