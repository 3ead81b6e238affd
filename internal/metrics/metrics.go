package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SettlementMetrics 结算服务指标
type SettlementMetrics struct {
	// 结算相关指标
	SettleTotal    *prometheus.CounterVec   // 结算总数（按结果）
	SettleDuration prometheus.Histogram     // 结算耗时
	BillTotal      *prometheus.CounterVec   // 账单写入总数（按账单类型）
	BillAmount     *prometheus.CounterVec   // 账单金额（按账单类型）
	BillNoRetry    prometheus.Counter       // 账单编号冲突重试次数

	// 分组相关指标
	AssignTotal    *prometheus.CounterVec // 分组结果总数（按原因）
	AssignDuration prometheus.Histogram   // 分组耗时

	// 提现相关指标
	WithdrawalTotal  *prometheus.CounterVec // 提现处理总数（按状态）
	WithdrawalAmount *prometheus.CounterVec // 提现金额（按状态）

	// 批量审核相关指标
	AuditBatchTotal *prometheus.CounterVec // 批量审核单元总数（按结果）

	// 回填任务锁相关指标
	LockAcquireTotal    *prometheus.CounterVec // 锁获取总数（按结果）
	LockAcquireDuration prometheus.Histogram   // 锁获取耗时
}

// NewSettlementMetrics 创建结算服务指标
func NewSettlementMetrics() *SettlementMetrics {
	return &SettlementMetrics{
		SettleTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_settle_total",
				Help: "Total number of task approval settlements",
			},
			[]string{"result"}, // result: settled/already_settled/failed
		),
		SettleDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "settlement_settle_duration_seconds",
				Help:    "Duration of settlement transactions",
				Buckets: prometheus.DefBuckets,
			},
		),
		BillTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_bill_total",
				Help: "Total number of ledger entries created",
			},
			[]string{"bill_type"},
		),
		BillAmount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_bill_amount_total",
				Help: "Total amount recorded on ledger entries",
			},
			[]string{"bill_type"},
		),
		BillNoRetry: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "settlement_bill_no_retry_total",
				Help: "Total number of bill number collision retries",
			},
		),

		AssignTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_assign_total",
				Help: "Total number of group assignment attempts",
			},
			[]string{"reason"},
		),
		AssignDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "settlement_assign_duration_seconds",
				Help:    "Duration of group assignment",
				Buckets: prometheus.DefBuckets,
			},
		),

		WithdrawalTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_withdrawal_total",
				Help: "Total number of withdrawal requests and resolutions",
			},
			[]string{"status"}, // status: pending/success/failed/rejected
		),
		WithdrawalAmount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_withdrawal_amount_total",
				Help: "Total withdrawal amount",
			},
			[]string{"status"},
		),

		AuditBatchTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_audit_batch_total",
				Help: "Total number of batch audit units",
			},
			[]string{"result"}, // result: success/failed
		),

		LockAcquireTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_lock_acquire_total",
				Help: "Total number of backfill lock acquisitions",
			},
			[]string{"result"},
		),
		LockAcquireDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "settlement_lock_acquire_duration_seconds",
				Help:    "Duration of backfill lock acquisition",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

var defaultMetrics *SettlementMetrics

// InitMetrics 初始化全局指标
func InitMetrics() {
	defaultMetrics = NewSettlementMetrics()
}

// GetMetrics 获取全局指标实例
func GetMetrics() *SettlementMetrics {
	return defaultMetrics
}
