package data

import (
	"context"
	"errors"

	"settlement-service/internal/biz"
	"settlement-service/internal/data/model"
	settlementErrors "settlement-service/internal/errors"

	pkgErrors "github.com/gaoyong06/go-pkg/errors"
	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// groupRepo 分组相关数据访问
type groupRepo struct {
	data *Data
	log  *log.Helper
}

// NewGroupRepo 创建分组 repo（返回 biz.GroupRepo 接口）
func NewGroupRepo(data *Data, logger log.Logger) biz.GroupRepo {
	return &groupRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func toBizGroup(m *model.Group) *biz.Group {
	return &biz.Group{
		ID:         m.ID,
		Name:       m.Name,
		OwnerID:    m.OwnerID,
		MaxMembers: m.MaxMembers,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// GetGroup 按主键查询分组
func (r *groupRepo) GetGroup(ctx context.Context, id uint64) (*biz.Group, error) {
	var m model.Group
	if err := r.data.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	group := toBizGroup(&m)

	count, err := r.CountGroupMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	group.MemberCount = count
	return group, nil
}

// ListGroupsByOwner 按群主查询名下分组，按分组 id 升序
func (r *groupRepo) ListGroupsByOwner(ctx context.Context, ownerID uint64) ([]*biz.Group, error) {
	var models []model.Group
	if err := r.data.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	groups := make([]*biz.Group, 0, len(models))
	for i := range models {
		groups = append(groups, toBizGroup(&models[i]))
	}
	return groups, nil
}

// CountGroupMembers 实时统计分组内会员数
// 成员数永远现算，不维护计数列
func (r *groupRepo) CountGroupMembers(ctx context.Context, groupID uint64) (int64, error) {
	var count int64
	if err := r.data.db.WithContext(ctx).Model(&model.Member{}).
		Where("group_id = ?", groupID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AssignMemberToGroup 容量判断 + 入组写入，单事务原子完成
// 锁定分组行后在事务内计数，两个并发分配抢同一个名额时只有一个成功，
// 失败方拿到 (false, nil) 去尝试下一个候选分组
func (r *groupRepo) AssignMemberToGroup(ctx context.Context, memberID, groupID uint64) (bool, error) {
	assigned := false
	err := r.data.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var group model.Group
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&group, groupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeGroupNotFound)
			}
			return err
		}

		var count int64
		if err := tx.Model(&model.Member{}).
			Where("group_id = ?", groupID).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(group.MaxMembers) {
			// 已满，不视为错误，由调用方回退到下一个候选分组
			return nil
		}

		// group_id IS NULL 条件保证已入组的会员不会被覆盖
		result := tx.Model(&model.Member{}).
			Where("id = ? AND group_id IS NULL", memberID).
			Update("group_id", groupID)
		if result.Error != nil {
			return pkgErrors.WrapErrorWithLang(ctx, result.Error, settlementErrors.ErrCodeGroupAssignFailed)
		}
		if result.RowsAffected == 0 {
			// 会员不存在或已被并发分配
			return nil
		}

		assigned = true
		return nil
	})
	return assigned, err
}
