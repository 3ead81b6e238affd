package data

import (
	"context"
	"time"

	"settlement-service/internal/constants"
	settlementErrors "settlement-service/internal/errors"
	"settlement-service/internal/metrics"

	pkgErrors "github.com/gaoyong06/go-pkg/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-redsync/redsync/v4"
)

// BackfillRepo 历史账单 related_group_id 回填
// 幂等修复任务：只补 NULL 字段，可以重复执行；新写入的账单
// 由结算事务在落账时直接填好该字段，回填只针对存量数据
type BackfillRepo struct {
	data *Data
	sync *redsync.Redsync
	log  *log.Helper
}

// NewBackfillRepo 创建回填 repo
func NewBackfillRepo(data *Data, sync *redsync.Redsync, logger log.Logger) *BackfillRepo {
	return &BackfillRepo{
		data: data,
		sync: sync,
		log:  log.NewHelper(logger),
	}
}

// BackfillRelatedGroupID 执行回填，返回修复的行数
// 分布式锁防止两个操作员同时触发；回填取会员当前分组，
// 属于尽力而为的历史修复，不追溯结算时点的分组
func (r *BackfillRepo) BackfillRelatedGroupID(ctx context.Context) (int64, error) {
	mts := metrics.GetMetrics()

	if r.sync != nil {
		lockStart := time.Now()
		mutex := r.sync.NewMutex(constants.RedisKeyBackfillLock, redsync.WithExpiry(10*time.Minute))
		if err := mutex.Lock(); err != nil {
			if mts != nil {
				mts.LockAcquireTotal.WithLabelValues("failed").Inc()
				mts.LockAcquireDuration.Observe(time.Since(lockStart).Seconds())
			}
			return 0, pkgErrors.WrapErrorWithLang(ctx, err, settlementErrors.ErrCodeBackfillLockFailed)
		}
		if mts != nil {
			mts.LockAcquireTotal.WithLabelValues("success").Inc()
			mts.LockAcquireDuration.Observe(time.Since(lockStart).Seconds())
		}
		defer func() {
			if ok, err := mutex.Unlock(); !ok || err != nil {
				r.log.Warnf("Failed to unlock backfill lock: %v", err)
			}
		}()
	}

	var total int64

	// 奖励/佣金类账单：related_member_id 指向产生收益的会员
	result := r.data.db.WithContext(ctx).Exec(`
		UPDATE bill b
		JOIN member m ON b.related_member_id = m.id
		SET b.related_group_id = m.group_id
		WHERE b.related_group_id IS NULL
		  AND b.related_member_id IS NOT NULL
		  AND m.group_id IS NOT NULL`)
	if result.Error != nil {
		return total, result.Error
	}
	total += result.RowsAffected

	// 任务奖励账单：分组取账单归属会员自己的分组
	result = r.data.db.WithContext(ctx).Exec(`
		UPDATE bill b
		JOIN member m ON b.member_id = m.id
		SET b.related_group_id = m.group_id
		WHERE b.bill_type = ?
		  AND b.related_group_id IS NULL
		  AND m.group_id IS NOT NULL`, constants.BillTypeTaskReward)
	if result.Error != nil {
		return total, result.Error
	}
	total += result.RowsAffected

	r.log.Infof("BackfillRelatedGroupID completed: rows=%d", total)
	return total, nil
}
