package biz

import (
	"context"
	"time"
)

// Group 分组领域对象
// MemberCount 为查询时实时计数得出，不落库
type Group struct {
	ID          uint64
	Name        string
	OwnerID     *uint64
	MaxMembers  int
	MemberCount int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GroupRepo 分组数据层接口（定义在 biz 层）
type GroupRepo interface {
	// GetGroup 按主键查询，不存在时返回 (nil, nil)
	GetGroup(ctx context.Context, id uint64) (*Group, error)
	// ListGroupsByOwner 按群主查询名下分组，按分组 id 升序返回
	ListGroupsByOwner(ctx context.Context, ownerID uint64) ([]*Group, error)
	// CountGroupMembers 实时统计分组内会员数
	CountGroupMembers(ctx context.Context, groupID uint64) (int64, error)
	// AssignMemberToGroup 在单个事务内锁定分组行、计数并写入会员的 group_id；
	// 分组已满时返回 (false, nil)，由调用方尝试下一个候选分组
	AssignMemberToGroup(ctx context.Context, memberID, groupID uint64) (bool, error)
}
