package data

import (
	"context"
	"errors"

	"settlement-service/internal/biz"
	"settlement-service/internal/data/model"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// taskRepo 任务相关数据访问（结算引擎只读）
type taskRepo struct {
	data *Data
	log  *log.Helper
}

// NewTaskRepo 创建任务 repo（返回 biz.TaskRepo 接口）
func NewTaskRepo(data *Data, logger log.Logger) biz.TaskRepo {
	return &taskRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// GetTask 按主键查询任务
func (r *taskRepo) GetTask(ctx context.Context, id uint64) (*biz.Task, error) {
	var m model.Task
	if err := r.data.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &biz.Task{
		ID:           m.ID,
		Title:        m.Title,
		RewardAmount: m.RewardAmount,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}
