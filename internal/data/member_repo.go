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
)

// memberRepo 会员相关数据访问
type memberRepo struct {
	data *Data
	log  *log.Helper
}

// NewMemberRepo 创建会员 repo（返回 biz.MemberRepo 接口）
func NewMemberRepo(data *Data, logger log.Logger) biz.MemberRepo {
	return &memberRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func toBizMember(m *model.Member) *biz.Member {
	return &biz.Member{
		ID:           m.ID,
		Nickname:     m.Nickname,
		InviterID:    m.InviterID,
		GroupID:      m.GroupID,
		IsGroupOwner: m.IsGroupOwner,
		AuditStatus:  m.AuditStatus,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// GetMember 按主键查询会员
func (r *memberRepo) GetMember(ctx context.Context, id uint64) (*biz.Member, error) {
	var m model.Member
	if err := r.data.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toBizMember(&m), nil
}

// UpdateAuditStatus 更新会员审核状态
func (r *memberRepo) UpdateAuditStatus(ctx context.Context, id uint64, status string) error {
	result := r.data.db.WithContext(ctx).Model(&model.Member{}).
		Where("id = ?", id).
		Update("audit_status", status)
	if result.Error != nil {
		return pkgErrors.WrapErrorWithLang(ctx, result.Error, settlementErrors.ErrCodeMemberAuditFailed)
	}
	if result.RowsAffected == 0 {
		return pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeMemberNotFound)
	}
	return nil
}
