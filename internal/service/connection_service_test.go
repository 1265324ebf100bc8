package service

import (
	"context"
	"errors"
	"testing"

	"Skill_Link/internal/model"
	"Skill_Link/internal/repository/mysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewConnectionServiceWith(db, nil)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	edge, err := svc.Request(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConnectionPending, edge.Status)
	assert.Equal(t, alice.ID, edge.UserAID)

	// B 的待回复列表里能看到 A
	pending, err := svc.ListPending(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, alice.ID, pending[0].UserID)
	assert.Equal(t, "alice", pending[0].Username)

	// A 这边还没有已接受的连接
	conns, err := svc.ListConnections(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, conns)

	// B 接受后双方列表互相可见
	edge, err = svc.Respond(ctx, bob.ID, edge.ID, true)
	require.NoError(t, err)
	assert.Equal(t, model.ConnectionAccepted, edge.Status)

	conns, err = svc.ListConnections(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, bob.ID, conns[0].UserID)

	conns, err = svc.ListConnections(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, alice.ID, conns[0].UserID)
}

func TestRequestDuplicateBothDirections(t *testing.T) {
	db := newTestDB(t)
	svc := NewConnectionServiceWith(db, nil)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := svc.Request(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// 同向重复
	_, err = svc.Request(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, mysql.ErrEdgeExists)

	// 反向也要挡住
	_, err = svc.Request(ctx, bob.ID, alice.ID)
	assert.ErrorIs(t, err, mysql.ErrEdgeExists)
}

func TestRequestAfterRejectAllowed(t *testing.T) {
	db := newTestDB(t)
	svc := NewConnectionServiceWith(db, nil)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	edge, err := svc.Request(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.Respond(ctx, bob.ID, edge.ID, false)
	require.NoError(t, err)

	// rejected 的旧边不挡新请求
	_, err = svc.Request(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
}

func TestRespondGuards(t *testing.T) {
	db := newTestDB(t)
	svc := NewConnectionServiceWith(db, nil)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	edge, err := svc.Request(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// 发起方和局外人都不能回复
	_, err = svc.Respond(ctx, alice.ID, edge.ID, true)
	assert.ErrorIs(t, err, mysql.ErrNotEdgeEndpoint)
	_, err = svc.Respond(ctx, carol.ID, edge.ID, true)
	assert.ErrorIs(t, err, mysql.ErrNotEdgeEndpoint)

	_, err = svc.Respond(ctx, bob.ID, edge.ID, true)
	require.NoError(t, err)

	// 终态不可再回复，accepted 永远回不到 pending
	_, err = svc.Respond(ctx, bob.ID, edge.ID, false)
	assert.ErrorIs(t, err, mysql.ErrEdgeNotPending)

	var got model.Connection
	require.NoError(t, db.First(&got, edge.ID).Error)
	assert.Equal(t, model.ConnectionAccepted, got.Status)
}

func TestSelfAndMissingTarget(t *testing.T) {
	db := newTestDB(t)
	svc := NewConnectionServiceWith(db, nil)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")

	_, err := svc.Request(ctx, alice.ID, alice.ID)
	assert.Error(t, err)

	_, err = svc.Request(ctx, alice.ID, 9999)
	assert.Error(t, err)
}

func TestRelationAndRemove(t *testing.T) {
	db := newTestDB(t)
	svc := NewConnectionServiceWith(db, nil)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	status, _, err := svc.Relation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "not_connected", status)

	edge, err := svc.Request(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// 反方向查也能看到同一条边
	status, edgeID, err := svc.Relation(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConnectionPending, status)
	assert.Equal(t, edge.ID, edgeID)

	// 撤回后回到 not_connected
	require.NoError(t, svc.Remove(ctx, alice.ID, edge.ID))
	status, _, err = svc.Relation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "not_connected", status)
}

func TestRequestWritesOutbox(t *testing.T) {
	db := newTestDB(t)
	svc := NewConnectionServiceWith(db, nil)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	edge, err := svc.Request(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.Respond(ctx, bob.ID, edge.ID, true)
	require.NoError(t, err)

	var rows []model.ConnectOutbox
	require.NoError(t, db.Order("id ASC").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, "request", rows[0].EventType)
	assert.Equal(t, "accept", rows[1].EventType)
	assert.EqualValues(t, 0, rows[0].Status)
}

func TestOutboxRelayerDrain(t *testing.T) {
	db := newTestDB(t)
	svc := NewConnectionServiceWith(db, nil)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	_, err := svc.Request(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// 投递失败：status 置 2，retry 加一
	var sent []string
	fail := func(ctx context.Context, ob *model.ConnectOutbox) error {
		sent = append(sent, ob.EventType)
		return errors.New("broker down")
	}
	relayer := NewOutboxRelayerWith(db, fail)
	relayer.drainOnce(ctx)

	var row model.ConnectOutbox
	require.NoError(t, db.First(&row).Error)
	assert.EqualValues(t, 2, row.Status)
	assert.EqualValues(t, 1, row.Retry)
	assert.Equal(t, []string{"request"}, sent)

	// 失败的行不会被原样重投，只有新的 pending 行会被捞起来
	_, err = svc.Request(ctx, alice.ID, carol.ID)
	require.NoError(t, err)

	sent = nil
	ok := func(ctx context.Context, ob *model.ConnectOutbox) error {
		sent = append(sent, ob.EventType)
		return nil
	}
	relayer = NewOutboxRelayerWith(db, ok)
	relayer.drainOnce(ctx)

	assert.Equal(t, []string{"request"}, sent)
	var rows []model.ConnectOutbox
	require.NoError(t, db.Order("id ASC").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.EqualValues(t, 2, rows[0].Status)
	assert.EqualValues(t, 1, rows[1].Status)

	// 投成功后再 drain 一轮，sender 不会再被调用
	sent = nil
	relayer.drainOnce(ctx)
	assert.Empty(t, sent)
}
