package service

import (
	"context"
	"testing"

	"Skill_Link/internal/model"
	"Skill_Link/internal/repository/mysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyGuards(t *testing.T) {
	db := newTestDB(t)
	chatSvc := NewChatServiceWith(db, nil)
	svc := NewApplicationServiceWith(db, chatSvc, nil)
	projSvc := NewProjectServiceWith(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	dev := seedUser(t, db, "dev")

	open, err := projSvc.Create(owner.ID, "Skill Link App", "", "", true)
	require.NoError(t, err)
	closed, err := projSvc.Create(owner.ID, "Closed Project", "", "", false)
	require.NoError(t, err)

	// 项目方不能申请自己的项目
	_, err = svc.Apply(ctx, owner.ID, open.ID, "me")
	assert.Error(t, err)

	// 关闭申请的项目拒收
	_, err = svc.Apply(ctx, dev.ID, closed.ID, "please")
	assert.Error(t, err)

	a, err := svc.Apply(ctx, dev.ID, open.ID, "I can build the frontend")
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationPending, a.Status)

	// 重复申请拒收
	_, err = svc.Apply(ctx, dev.ID, open.ID, "again")
	assert.Error(t, err)
}

func TestReplyAcceptSettlesAndMessages(t *testing.T) {
	db := newTestDB(t)
	chatSvc := NewChatServiceWith(db, nil)
	svc := NewApplicationServiceWith(db, chatSvc, nil)
	projSvc := NewProjectServiceWith(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	dev := seedUser(t, db, "dev")

	p, err := projSvc.Create(owner.ID, "Skill Link App", "", "", true)
	require.NoError(t, err)
	a, err := svc.Apply(ctx, dev.ID, p.ID, "I can build the frontend")
	require.NoError(t, err)

	require.NoError(t, svc.Reply(ctx, owner.ID, a.ID, true, "welcome aboard"))

	got, err := svc.repo.FindByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationAccepted, got.Status)

	// 决定消息落在双方的 1:1 会话里
	rows, _, err := chatSvc.ListConversations(ctx, dev.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0].LastMessage, "Skill Link App")
	assert.Contains(t, rows[0].LastMessage, "welcome aboard")

	// 已落定的申请不能再回复
	err = svc.Reply(ctx, owner.ID, a.ID, false, "changed my mind")
	assert.ErrorIs(t, err, mysql.ErrApplicationSettled)
}

func TestReplyReusesExistingDirectChat(t *testing.T) {
	db := newTestDB(t)
	chatSvc := NewChatServiceWith(db, nil)
	svc := NewApplicationServiceWith(db, chatSvc, nil)
	projSvc := NewProjectServiceWith(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	dev := seedUser(t, db, "dev")

	// 双方已经聊过，回复申请必须复用这条会话
	existing, _, err := chatSvc.OpenDirect(ctx, dev.ID, owner.ID, "hi, saw your project")
	require.NoError(t, err)

	p, err := projSvc.Create(owner.ID, "Skill Link App", "", "", true)
	require.NoError(t, err)
	a, err := svc.Apply(ctx, dev.ID, p.ID, "count me in")
	require.NoError(t, err)

	require.NoError(t, svc.Reply(ctx, owner.ID, a.ID, false, "team is full"))

	var chats int64
	require.NoError(t, db.Model(&model.Chat{}).Count(&chats).Error)
	assert.EqualValues(t, 1, chats)

	msgs, err := chatSvc.ListMessages(ctx, owner.ID, existing.ID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].Content, "已拒绝")
	assert.Contains(t, msgs[1].Content, "team is full")
}

func TestReplyOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	chatSvc := NewChatServiceWith(db, nil)
	svc := NewApplicationServiceWith(db, chatSvc, nil)
	projSvc := NewProjectServiceWith(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	dev := seedUser(t, db, "dev")
	mallory := seedUser(t, db, "mallory")

	p, err := projSvc.Create(owner.ID, "Skill Link App", "", "", true)
	require.NoError(t, err)
	a, err := svc.Apply(ctx, dev.ID, p.ID, "count me in")
	require.NoError(t, err)

	err = svc.Reply(ctx, mallory.ID, a.ID, true, "")
	assert.ErrorIs(t, err, ErrNotProjectOwner)
}
