package constants

// 时间格式常量
const (
	// TimeFormatBillNo 账单编号中的时间戳格式 (yyyyMMddHHmmss)
	TimeFormatBillNo = "20060102150405"
)

// 账单类型常量
const (
	// BillTypeTaskReward 任务奖励
	BillTypeTaskReward = "task_reward"
	// BillTypeInviteReward 邀请奖励
	BillTypeInviteReward = "invite_reward"
	// BillTypeGroupOwnerCommission 群主佣金
	BillTypeGroupOwnerCommission = "group_owner_commission"
	// BillTypeWithdrawal 提现
	BillTypeWithdrawal = "withdrawal"
	// BillTypeOther 其他
	BillTypeOther = "other"
)

// 账单编号前缀常量（按账单类型）
const (
	// BillNoPrefixTaskReward 任务奖励账单前缀
	BillNoPrefixTaskReward = "TR"
	// BillNoPrefixInviteReward 邀请奖励账单前缀
	BillNoPrefixInviteReward = "IR"
	// BillNoPrefixCommission 群主佣金账单前缀
	BillNoPrefixCommission = "GC"
	// BillNoPrefixWithdrawal 提现账单前缀
	BillNoPrefixWithdrawal = "WD"
	// BillNoPrefixOther 其他账单前缀
	BillNoPrefixOther = "OT"
)

// 结算状态常量
const (
	// SettlementStatusSettled 已结算
	SettlementStatusSettled = "settled"
	// SettlementStatusPending 待结算
	SettlementStatusPending = "pending"
	// SettlementStatusFailed 结算失败
	SettlementStatusFailed = "failed"
)

// 提现状态常量
const (
	// WithdrawalStatusPending 待处理
	WithdrawalStatusPending = "pending"
	// WithdrawalStatusSuccess 成功
	WithdrawalStatusSuccess = "success"
	// WithdrawalStatusFailed 失败
	WithdrawalStatusFailed = "failed"
)

// 提现处理结果常量
const (
	// WithdrawalOutcomeSuccess 提现成功
	WithdrawalOutcomeSuccess = "success"
	// WithdrawalOutcomeFailed 提现失败
	WithdrawalOutcomeFailed = "failed"
)

// 会员审核状态常量
const (
	// MemberAuditStatusPending 待审核
	MemberAuditStatusPending = "pending"
	// MemberAuditStatusApproved 审核通过
	MemberAuditStatusApproved = "approved"
	// MemberAuditStatusRejected 审核拒绝
	MemberAuditStatusRejected = "rejected"
)

// 分组结果常量（用户可见的业务结果，不是异常）
const (
	// AssignReasonInviterGroup 已分配到邀请人所在组
	AssignReasonInviterGroup = "assignedToInviterGroup"
	// AssignReasonOtherGroup 已分配到同一群主名下的其他组
	AssignReasonOtherGroup = "assignedToOtherGroup"
	// AssignReasonAlreadyAssigned 已在组中，无需重复分配
	AssignReasonAlreadyAssigned = "alreadyAssigned"
	// AssignReasonNoInviter 无邀请人
	AssignReasonNoInviter = "noInviter"
	// AssignReasonInviterNoGroup 邀请人未入组
	AssignReasonInviterNoGroup = "inviterNoGroup"
	// AssignReasonInviterNoOwner 邀请人所在组无群主
	AssignReasonInviterNoOwner = "inviterNoOwner"
	// AssignReasonAllGroupFull 群主名下所有组已满
	AssignReasonAllGroupFull = "inviterAllGroupFull"
)

// 奖励策略计算方式常量
const (
	// PolicyModeAmount 固定金额
	PolicyModeAmount = "amount"
	// PolicyModeRate 按任务奖励比例
	PolicyModeRate = "rate"
)

// Redis Key 前缀常量
const (
	// RedisKeyBackfillLock 历史数据回填任务锁
	RedisKeyBackfillLock = "settlement:backfill:lock"
)

// 账单编号生成重试次数上限
const (
	// BillNoMaxRetries 编号冲突时的最大重试次数
	BillNoMaxRetries = 5
)
