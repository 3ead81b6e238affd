package biz

import (
	"context"
	"time"

	"settlement-service/internal/constants"
	settlementErrors "settlement-service/internal/errors"

	pkgErrors "github.com/gaoyong06/go-pkg/errors"
	"github.com/go-kratos/kratos/v2/log"
)

// Bill 账单领域对象
// 创建后 Amount/BillType/MemberID 不可变，只允许变更结算状态和备注
type Bill struct {
	ID               uint64
	BillNo           string
	MemberID         uint64
	BillType         string
	Amount           float64
	TaskID           *uint64
	WithdrawalID     *uint64
	RelatedMemberID  *uint64
	RelatedGroupID   *uint64
	SettlementStatus string
	Remark           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BillListFilter 账单列表过滤条件
type BillListFilter struct {
	MemberID         uint64
	BillType         string
	SettlementStatus string
	StartTime        *time.Time
	EndTime          *time.Time
}

// BillRepo 账单数据层接口（定义在 biz 层）
type BillRepo interface {
	// GetBill 按主键查询，不存在时返回 (nil, nil)
	GetBill(ctx context.Context, id uint64) (*Bill, error)
	// GetBillByNo 按账单编号查询，不存在时返回 (nil, nil)
	GetBillByNo(ctx context.Context, billNo string) (*Bill, error)
	// FindBillByTaskMemberType 幂等查询：同一 (task, member, type) 至多一条
	FindBillByTaskMemberType(ctx context.Context, taskID, memberID uint64, billType string) (*Bill, error)
	// FindBillByRelatedMemberType 按关联会员查询（用于首单邀请奖励判定）
	FindBillByRelatedMemberType(ctx context.Context, relatedMemberID uint64, billType string) (*Bill, error)
	ListBills(ctx context.Context, filter *BillListFilter, page, pageSize int) ([]*Bill, int64, error)
	// UpdateBillStatus 仅允许变更结算状态和备注
	UpdateBillStatus(ctx context.Context, id uint64, status, remark string) error
}

// BillUseCase 账单业务逻辑（账本读取与状态流转）
type BillUseCase struct {
	repo BillRepo
	log  *log.Helper
}

// NewBillUseCase 创建账单 UseCase
func NewBillUseCase(repo BillRepo, logger log.Logger) *BillUseCase {
	return &BillUseCase{
		repo: repo,
		log:  log.NewHelper(logger),
	}
}

// GetByBillNo 按账单编号查询账单
func (uc *BillUseCase) GetByBillNo(ctx context.Context, billNo string) (*Bill, error) {
	bill, err := uc.repo.GetBillByNo(ctx, billNo)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeBillNotFound)
	}
	return bill, nil
}

// ListBills 分页查询账单
func (uc *BillUseCase) ListBills(ctx context.Context, filter *BillListFilter, page, pageSize int) ([]*Bill, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return uc.repo.ListBills(ctx, filter, page, pageSize)
}

// UpdateStatus 变更账单结算状态
// 允许 settled -> failed（冲正），禁止 failed -> settled：
// 冲正后的账单只能以新账单重新入账，保证账本只追加
func (uc *BillUseCase) UpdateStatus(ctx context.Context, id uint64, status, remark string) error {
	switch status {
	case constants.SettlementStatusSettled, constants.SettlementStatusPending, constants.SettlementStatusFailed:
	default:
		return pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeInvalidSettlementStatus)
	}

	current, err := uc.repo.GetBill(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeBillNotFound)
	}
	if current.SettlementStatus == constants.SettlementStatusFailed &&
		status == constants.SettlementStatusSettled {
		return pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeInvalidSettlementStatus)
	}

	return uc.repo.UpdateBillStatus(ctx, id, status, remark)
}
