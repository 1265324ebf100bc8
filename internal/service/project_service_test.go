package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectOwnerGuards(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectServiceWith(db)

	owner := seedUser(t, db, "owner")
	mallory := seedUser(t, db, "mallory")

	p, err := svc.Create(owner.ID, "Skill Link App", "a network for solopreneurs", "https://example.com", true)
	require.NoError(t, err)

	err = svc.Update(mallory.ID, p.ID, map[string]any{"title": "mine now"})
	assert.ErrorIs(t, err, ErrNotProjectOwner)

	err = svc.Delete(mallory.ID, p.ID)
	assert.ErrorIs(t, err, ErrNotProjectOwner)

	require.NoError(t, svc.Update(owner.ID, p.ID, map[string]any{"accepting": false}))
	got, err := svc.Get(p.ID)
	require.NoError(t, err)
	assert.False(t, got.Accepting)

	require.NoError(t, svc.Delete(owner.ID, p.ID))
	// 重复删除保持幂等
	require.NoError(t, svc.Delete(owner.ID, p.ID))
}

func TestProjectFeedCursor(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectServiceWith(db)

	owner := seedUser(t, db, "owner")
	for i := 0; i < 5; i++ {
		_, err := svc.Create(owner.ID, "open project", "", "", true)
		require.NoError(t, err)
	}
	_, err := svc.Create(owner.ID, "closed project", "", "", false)
	require.NoError(t, err)

	rows, next, err := svc.ListOpen(0, 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.NotZero(t, next)
	// 关闭申请的项目不进公开流
	for _, p := range rows {
		assert.True(t, p.Accepting)
	}

	rest, next, err := svc.ListOpen(next, 3)
	require.NoError(t, err)
	assert.Len(t, rest, 2)
	assert.Zero(t, next)

	// 两页无重叠
	seen := map[uint64]bool{}
	for _, p := range append(rows, rest...) {
		assert.False(t, seen[p.ID])
		seen[p.ID] = true
	}
}
