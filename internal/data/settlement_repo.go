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

// settlementRepo 结算相关数据访问（跨领域事务）
type settlementRepo struct {
	data *Data
	gen  *biz.BillNoGenerator
	sync *redsync.Redsync
	log  *log.Helper
}

// NewSettlementRepo 创建结算 repo（返回 biz.SettlementRepo 接口）
func NewSettlementRepo(data *Data, gen *biz.BillNoGenerator, sync *redsync.Redsync, logger log.Logger) biz.SettlementRepo {
	return &settlementRepo{
		data: data,
		gen:  gen,
		sync: sync,
		log:  log.NewHelper(logger),
	}
}

// ExecuteSettlement 在单个事务内执行结算计划
// 同一会员的并发结算（消息重复投递、HTTP 与 MQ 并发、跨任务的首单
// 邀请奖励）先由按会员的分布式锁串行化；事务内再加锁复核幂等，
// 竞争方先提交的账单会在这里被读到，后到的事务直接返回不会双付
func (r *settlementRepo) ExecuteSettlement(ctx context.Context, plan *biz.SettlementPlan) ([]*biz.Bill, bool, error) {
	if r.sync != nil {
		lockKey := fmt.Sprintf("settlement:lock:%d", plan.MemberID)
		mutex := r.sync.NewMutex(lockKey, redsync.WithExpiry(5*time.Second))
		if err := mutex.Lock(); err != nil {
			r.log.Errorf("Failed to acquire lock for settlement: member_id=%d, error=%v", plan.MemberID, err)
			return nil, false, pkgErrors.WrapErrorWithLang(ctx, err, settlementErrors.ErrCodeSettlementFailed)
		}
		defer func() {
			if ok, err := mutex.Unlock(); !ok || err != nil {
				r.log.Warnf("Failed to unlock for settlement: member_id=%d, error=%v", plan.MemberID, err)
			}
		}()
	}

	var bills []*biz.Bill
	created := false

	err := r.data.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Bill
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("task_id = ? AND member_id = ? AND bill_type = ?",
				plan.TaskID, plan.MemberID, constants.BillTypeTaskReward).
			First(&existing).Error
		if err == nil {
			bills = []*biz.Bill{toBizBill(&existing)}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		for _, entry := range plan.Entries {
			// 首单邀请奖励在事务内复核：biz 层预检到写入之间
			// 另一个任务的结算可能已经发过
			if entry.BillType == constants.BillTypeInviteReward && plan.InviteFirstTaskOnly {
				var prior model.Bill
				err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					Where("related_member_id = ? AND bill_type = ?",
						plan.MemberID, constants.BillTypeInviteReward).
					First(&prior).Error
				if err == nil {
					continue
				}
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
			}

			m := &model.Bill{
				MemberID:         entry.MemberID,
				BillType:         entry.BillType,
				Amount:           entry.Amount,
				TaskID:           entry.TaskID,
				RelatedMemberID:  entry.RelatedMemberID,
				RelatedGroupID:   entry.RelatedGroupID,
				SettlementStatus: constants.SettlementStatusSettled,
				Remark:           entry.Remark,
			}
			if err := insertBillWithFreshNo(ctx, tx, r.gen, m); err != nil {
				return err
			}
			bills = append(bills, toBizBill(m))
		}

		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return bills, created, nil
}

// memberBalanceTx 在给定连接/事务上计算会员可提现余额
// 已结算的入账账单之和 - 已结算的提现账单之和 - 处理中提现的冻结金额；
// 提现创建事务内的余额复核必须走这里，保证和创建在同一事务里
func memberBalanceTx(db *gorm.DB, memberID uint64) (float64, error) {
	var credit float64
	if err := db.Model(&model.Bill{}).
		Where("member_id = ? AND settlement_status = ? AND bill_type <> ?",
			memberID, constants.SettlementStatusSettled, constants.BillTypeWithdrawal).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&credit).Error; err != nil {
		return 0, err
	}

	var debit float64
	if err := db.Model(&model.Bill{}).
		Where("member_id = ? AND settlement_status = ? AND bill_type = ?",
			memberID, constants.SettlementStatusSettled, constants.BillTypeWithdrawal).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&debit).Error; err != nil {
		return 0, err
	}

	var hold float64
	if err := db.Model(&model.Withdrawal{}).
		Where("member_id = ? AND status = ?", memberID, constants.WithdrawalStatusPending).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&hold).Error; err != nil {
		return 0, err
	}

	return credit - debit - hold, nil
}

// MemberBalance 计算会员可提现余额
func (r *settlementRepo) MemberBalance(ctx context.Context, memberID uint64) (float64, error) {
	return memberBalanceTx(r.data.db.WithContext(ctx), memberID)
}
