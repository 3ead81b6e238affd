package model

import (
	"time"
)

// Member 会员表
// inviter_id 注册时写入后不可变；group_id 仅由自动分组写入一次，
// 后续变更属于后台人工转组操作
type Member struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Nickname     string    `gorm:"type:varchar(64)"`
	InviterID    *uint64   `gorm:"index"`
	GroupID      *uint64   `gorm:"index"`
	IsGroupOwner bool      `gorm:"not null;default:false"`
	AuditStatus  string    `gorm:"type:varchar(16);not null;default:'pending'"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Member) TableName() string {
	return "member"
}
