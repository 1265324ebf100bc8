package service

import (
	"testing"

	"Skill_Link/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// 内存库只能挂一条连接，多连接会各开各的库
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Skill{},
		&model.UserSkill{},
		&model.CollabNeed{},
		&model.Project{},
		&model.Application{},
		&model.Connection{},
		&model.ConnectOutbox{},
		&model.Chat{},
		&model.ChatMember{},
		&model.Message{},
		&model.ProfileView{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{
		Username: username,
		Password: "x",
		Email:    username + "@example.com",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}
