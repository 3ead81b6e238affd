package model

import (
	"time"
)

// Task 赞助商任务表（结算引擎只读取奖励金额）
type Task struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Title        string    `gorm:"type:varchar(128);not null"`
	RewardAmount float64   `gorm:"type:decimal(12,2);not null;default:0.00"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Task) TableName() string {
	return "task"
}
