package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"settlement-service/internal/biz"
	"settlement-service/internal/constants"
	"settlement-service/internal/data/model"
	settlementErrors "settlement-service/internal/errors"

	pkgErrors "github.com/gaoyong06/go-pkg/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-redsync/redsync/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// withdrawalRepo 提现相关数据访问
type withdrawalRepo struct {
	data *Data
	gen  *biz.BillNoGenerator
	sync *redsync.Redsync
	log  *log.Helper
}

// NewWithdrawalRepo 创建提现 repo（返回 biz.WithdrawalRepo 接口）
func NewWithdrawalRepo(
	data *Data,
	gen *biz.BillNoGenerator,
	sync *redsync.Redsync,
	logger log.Logger,
) biz.WithdrawalRepo {
	return &withdrawalRepo{
		data: data,
		gen:  gen,
		sync: sync,
		log:  log.NewHelper(logger),
	}
}

func toBizWithdrawal(m *model.Withdrawal) *biz.Withdrawal {
	return &biz.Withdrawal{
		ID:          m.ID,
		BillNo:      m.BillNo,
		MemberID:    m.MemberID,
		Amount:      m.Amount,
		Status:      m.Status,
		ApplyTime:   m.ApplyTime,
		ProcessTime: m.ProcessTime,
	}
}

// CreateWithdrawal 创建 pending 提现申请
// 按会员加分布式锁 + 事务内余额复核，封堵同一会员并发申请套取余额；
// 账单编号冲突时换新编号重试
func (r *withdrawalRepo) CreateWithdrawal(ctx context.Context, memberID uint64, amount float64) (*biz.Withdrawal, error) {
	if r.sync != nil {
		lockKey := fmt.Sprintf("withdrawal:lock:%d", memberID)
		mutex := r.sync.NewMutex(lockKey, redsync.WithExpiry(5*time.Second))
		if err := mutex.Lock(); err != nil {
			r.log.Errorf("Failed to acquire lock for withdrawal: member_id=%d, error=%v", memberID, err)
			return nil, pkgErrors.WrapErrorWithLang(ctx, err, settlementErrors.ErrCodeWithdrawalCreateFailed)
		}
		defer func() {
			if ok, err := mutex.Unlock(); !ok || err != nil {
				r.log.Warnf("Failed to unlock for withdrawal: member_id=%d, error=%v", memberID, err)
			}
		}()
	}

	var created *model.Withdrawal
	err := r.data.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 事务内余额复核：biz 层预检和创建之间可能有并发入账/提现，
		// 聚合和创建走同一个事务连接
		balance, err := memberBalanceTx(tx, memberID)
		if err != nil {
			return err
		}
		if balance < amount {
			return pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeInsufficientBalance)
		}

		m := &model.Withdrawal{
			MemberID: memberID,
			Amount:   amount,
			Status:   constants.WithdrawalStatusPending,
		}
		for i := 0; i < constants.BillNoMaxRetries; i++ {
			m.BillNo = r.gen.Generate(constants.BillNoPrefixWithdrawal)
			err := tx.Create(m).Error
			if err == nil {
				created = m
				return nil
			}
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return pkgErrors.WrapErrorWithLang(ctx, err, settlementErrors.ErrCodeWithdrawalCreateFailed)
			}
			m.ID = 0
		}
		return pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeBillNoExhausted)
	})
	if err != nil {
		return nil, err
	}
	return toBizWithdrawal(created), nil
}

// GetWithdrawal 按主键查询提现申请
func (r *withdrawalRepo) GetWithdrawal(ctx context.Context, id uint64) (*biz.Withdrawal, error) {
	var m model.Withdrawal
	if err := r.data.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toBizWithdrawal(&m), nil
}

// ListWithdrawals 分页查询提现申请
func (r *withdrawalRepo) ListWithdrawals(ctx context.Context, memberID uint64, status string, page, pageSize int) ([]*biz.Withdrawal, int64, error) {
	db := r.data.db.WithContext(ctx).Model(&model.Withdrawal{})
	if memberID > 0 {
		db = db.Where("member_id = ?", memberID)
	}
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []model.Withdrawal
	offset := (page - 1) * pageSize
	if err := db.Offset(offset).Limit(pageSize).Order("apply_time DESC, id DESC").Find(&models).Error; err != nil {
		return nil, 0, err
	}

	withdrawals := make([]*biz.Withdrawal, 0, len(models))
	for i := range models {
		withdrawals = append(withdrawals, toBizWithdrawal(&models[i]))
	}
	return withdrawals, total, nil
}

// ResolveWithdrawal 提现申请状态流转（单次生效）
// 锁定申请行复核 pending 后流转；success 时在同一事务内
// 追加同编号提现账单，配对只建立一次，failed 不产生账单
func (r *withdrawalRepo) ResolveWithdrawal(ctx context.Context, id uint64, outcome string) (*biz.Withdrawal, error) {
	var resolved *model.Withdrawal

	err := r.data.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.Withdrawal
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&m, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeWithdrawalNotFound)
			}
			return err
		}
		if m.Status != constants.WithdrawalStatusPending {
			return pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeWithdrawalAlreadyResolved)
		}

		now := time.Now()
		status := constants.WithdrawalStatusFailed
		if outcome == constants.WithdrawalOutcomeSuccess {
			status = constants.WithdrawalStatusSuccess
		}
		if err := tx.Model(&m).Updates(map[string]interface{}{
			"status":       status,
			"process_time": now,
		}).Error; err != nil {
			return err
		}
		m.Status = status
		m.ProcessTime = &now

		if status == constants.WithdrawalStatusSuccess {
			// 提现账单沿用申请的编号，不重新生成；
			// 编号唯一索引兜底，保证一笔提现至多配对一条账单
			wID := m.ID
			bill := &model.Bill{
				BillNo:           m.BillNo,
				MemberID:         m.MemberID,
				BillType:         constants.BillTypeWithdrawal,
				Amount:           m.Amount,
				WithdrawalID:     &wID,
				SettlementStatus: constants.SettlementStatusSettled,
			}
			if err := tx.Create(bill).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeDuplicateBillNo)
				}
				return err
			}
		}

		resolved = &m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toBizWithdrawal(resolved), nil
}
