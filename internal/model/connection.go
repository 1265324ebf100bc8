package model

import "time"

const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
	ConnectionRejected = "rejected"
)

// Connection 用户间的无向连接边，UserA 为发起方。
// 每对用户至多一条非 rejected 边，事务里双向查重保证；
// rejected 的旧边会留底，所以这里不能上唯一索引
type Connection struct {
	ID        uint64 `gorm:"primaryKey"`
	UserAID   uint64 `gorm:"not null;index:idx_user_a"`
	UserBID   uint64 `gorm:"not null;index:idx_user_b"`
	Status    string `gorm:"size:16;not null;default:'pending'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Connection) TableName() string {
	return "connections"
}

// ConnectOutbox 连接事件监控表
type ConnectOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:16;not null"` // request / accept / reject
	Actor     uint64 `gorm:"not null"`
	Target    uint64 `gorm:"not null"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ConnectOutbox) TableName() string { return "connect_outbox" }
