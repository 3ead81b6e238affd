package model

import (
	"time"
)

// Group 分组表
// 成员数不落列，任何容量判断都在事务内对 member.group_id 实时计数，
// 避免计数列漂移
type Group struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	Name       string    `gorm:"type:varchar(64);not null"`
	OwnerID    *uint64   `gorm:"index"`
	MaxMembers int       `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Group) TableName() string {
	return "group_info"
}
