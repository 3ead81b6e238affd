package biz

import (
	"context"
	"time"
)

// Task 任务领域对象（结算引擎只消费奖励金额）
type Task struct {
	ID           uint64
	Title        string
	RewardAmount float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TaskRepo 任务数据层接口（定义在 biz 层）
type TaskRepo interface {
	// GetTask 按主键查询，不存在时返回 (nil, nil)
	GetTask(ctx context.Context, id uint64) (*Task, error)
}
