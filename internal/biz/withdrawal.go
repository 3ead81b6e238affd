package biz

import (
	"context"
	"time"

	"settlement-service/internal/constants"
	settlementErrors "settlement-service/internal/errors"
	"settlement-service/internal/metrics"

	pkgErrors "github.com/gaoyong06/go-pkg/errors"
	"github.com/go-kratos/kratos/v2/log"
)

// Withdrawal 提现申请领域对象
type Withdrawal struct {
	ID          uint64
	BillNo      string
	MemberID    uint64
	Amount      float64
	Status      string
	ApplyTime   time.Time
	ProcessTime *time.Time
}

// WithdrawalRepo 提现数据层接口（定义在 biz 层）
type WithdrawalRepo interface {
	// CreateWithdrawal 在单个事务内复核余额并创建 pending 申请，
	// 账单编号由 data 层分配（冲突重试）
	CreateWithdrawal(ctx context.Context, memberID uint64, amount float64) (*Withdrawal, error)
	// GetWithdrawal 按主键查询，不存在时返回 (nil, nil)
	GetWithdrawal(ctx context.Context, id uint64) (*Withdrawal, error)
	ListWithdrawals(ctx context.Context, memberID uint64, status string, page, pageSize int) ([]*Withdrawal, int64, error)
	// ResolveWithdrawal 单个事务内锁定申请行并流转状态；
	// outcome 为 success 时追加同编号的提现账单（settled）
	ResolveWithdrawal(ctx context.Context, id uint64, outcome string) (*Withdrawal, error)
}

// WithdrawalUseCase 提现对账业务逻辑
// 提现申请与提现账单通过同一账单编号一一配对，配对只建立一次
type WithdrawalUseCase struct {
	repo           WithdrawalRepo
	settlementRepo SettlementRepo
	log            *log.Helper
	metrics        *metrics.SettlementMetrics
}

// NewWithdrawalUseCase 创建提现 UseCase
func NewWithdrawalUseCase(repo WithdrawalRepo, settlementRepo SettlementRepo, logger log.Logger) *WithdrawalUseCase {
	return &WithdrawalUseCase{
		repo:           repo,
		settlementRepo: settlementRepo,
		log:            log.NewHelper(logger),
		metrics:        metrics.GetMetrics(),
	}
}

// Request 发起提现申请
// 余额先行校验，不足直接拒绝且不产生任何副作用；
// 校验与创建之间的并发窗口由 data 层事务内的二次复核封堵
func (uc *WithdrawalUseCase) Request(ctx context.Context, memberID uint64, amount float64) (*Withdrawal, error) {
	if amount <= 0 {
		return nil, pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeInvalidWithdrawalAmount)
	}

	balance, err := uc.settlementRepo.MemberBalance(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if balance < amount {
		if uc.metrics != nil {
			uc.metrics.WithdrawalTotal.WithLabelValues("rejected").Inc()
		}
		return nil, pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeInsufficientBalance)
	}

	w, err := uc.repo.CreateWithdrawal(ctx, memberID, amount)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.WithdrawalTotal.WithLabelValues(constants.WithdrawalStatusPending).Inc()
		uc.metrics.WithdrawalAmount.WithLabelValues(constants.WithdrawalStatusPending).Add(amount)
	}
	uc.log.Infof("Withdrawal requested: withdrawal_id=%d, member_id=%d, amount=%.2f, bill_no=%s",
		w.ID, memberID, amount, w.BillNo)
	return w, nil
}

// Resolve 处理提现申请（单次生效）
// success 时追加同编号提现账单；failed 时不产生账单、不扣余额；
// 重复处理返回 AlreadyResolved
func (uc *WithdrawalUseCase) Resolve(ctx context.Context, withdrawalID uint64, outcome string) (*Withdrawal, error) {
	if outcome != constants.WithdrawalOutcomeSuccess && outcome != constants.WithdrawalOutcomeFailed {
		return nil, pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeInvalidWithdrawalOutcome)
	}

	w, err := uc.repo.GetWithdrawal(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeWithdrawalNotFound)
	}
	if w.Status != constants.WithdrawalStatusPending {
		return nil, pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeWithdrawalAlreadyResolved)
	}

	resolved, err := uc.repo.ResolveWithdrawal(ctx, withdrawalID, outcome)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.WithdrawalTotal.WithLabelValues(resolved.Status).Inc()
		uc.metrics.WithdrawalAmount.WithLabelValues(resolved.Status).Add(resolved.Amount)
	}
	uc.log.Infof("Withdrawal resolved: withdrawal_id=%d, outcome=%s, bill_no=%s",
		withdrawalID, outcome, resolved.BillNo)
	return resolved, nil
}

// ResolveBatch 批量处理提现申请
// 每个申请独立事务，单个失败不回滚其他申请，结果按单元聚合
func (uc *WithdrawalUseCase) ResolveBatch(ctx context.Context, withdrawalIDs []uint64, outcome string) (int, int, error) {
	if outcome != constants.WithdrawalOutcomeSuccess && outcome != constants.WithdrawalOutcomeFailed {
		return 0, 0, pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeInvalidWithdrawalOutcome)
	}

	success, failed := 0, 0
	for _, id := range withdrawalIDs {
		if _, err := uc.Resolve(ctx, id, outcome); err != nil {
			uc.log.Warnf("ResolveBatch unit failed: withdrawal_id=%d, error=%v", id, err)
			failed++
			continue
		}
		success++
	}
	return success, failed, nil
}

// List 分页查询提现申请
func (uc *WithdrawalUseCase) List(ctx context.Context, memberID uint64, status string, page, pageSize int) ([]*Withdrawal, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return uc.repo.ListWithdrawals(ctx, memberID, status, page, pageSize)
}

// Balance 查询会员可提现余额
func (uc *WithdrawalUseCase) Balance(ctx context.Context, memberID uint64) (float64, error) {
	return uc.settlementRepo.MemberBalance(ctx, memberID)
}
