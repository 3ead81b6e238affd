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

// PlanEntry 结算计划中的一条账单
type PlanEntry struct {
	BillType        string
	MemberID        uint64
	Amount          float64
	TaskID          *uint64
	RelatedMemberID *uint64
	RelatedGroupID  *uint64
	Remark          string
}

// SettlementPlan 一次任务审批结算要写入的全部账单
// 计划由 UseCase 计算（纯逻辑，便于测试），由 data 层在单个事务内执行
type SettlementPlan struct {
	TaskID   uint64
	MemberID uint64
	// InviteFirstTaskOnly 为真时邀请奖励只发首单，
	// data 层需在事务内复核未发过后才写入邀请奖励账单
	InviteFirstTaskOnly bool
	Entries             []*PlanEntry
}

// SettlementRepo 结算数据层接口（跨领域事务，定义在 biz 层）
type SettlementRepo interface {
	// ExecuteSettlement 在单个事务内执行结算计划：
	// 先按 (task_id, member_id, bill_type=task_reward) 复核幂等，
	// 已结算则返回已有账单且 created 为 false；否则为每条账单
	// 分配编号（冲突重试）并全部写入，任一步失败整体回滚
	ExecuteSettlement(ctx context.Context, plan *SettlementPlan) (bills []*Bill, created bool, err error)
	// MemberBalance 计算会员可提现余额：
	// 已结算的奖励类账单之和 - 提现账单之和 - 处理中的提现冻结金额
	MemberBalance(ctx context.Context, memberID uint64) (float64, error)
}

// BillSettledItem 落账事件中的单条账单
type BillSettledItem struct {
	BillNo   string  `json:"bill_no"`
	BillType string  `json:"bill_type"`
	MemberID uint64  `json:"member_id"`
	Amount   float64 `json:"amount"`
}

// BillSettledEvent 账单落账事件（发布给下游报表消费）
type BillSettledEvent struct {
	TaskID    uint64            `json:"task_id"`
	MemberID  uint64            `json:"member_id"`
	Bills     []BillSettledItem `json:"bills"`
	SettledAt time.Time         `json:"settled_at"`
}

// EventPublisher 结算事件发布接口
// 发布失败不影响结算事务，仅记录日志
type EventPublisher interface {
	PublishBillSettled(ctx context.Context, event *BillSettledEvent) error
}

// SettlementUseCase 结算编排业务逻辑
// 任务审批、邀请奖励、群主佣金的账单在一次事务内落账
type SettlementUseCase struct {
	repo       SettlementRepo
	billRepo   BillRepo
	memberRepo MemberRepo
	groupRepo  GroupRepo
	taskRepo   TaskRepo
	publisher  EventPublisher
	conf       *SettlementConfig
	log        *log.Helper
	metrics    *metrics.SettlementMetrics
}

// NewSettlementUseCase 创建结算 UseCase
func NewSettlementUseCase(
	repo SettlementRepo,
	billRepo BillRepo,
	memberRepo MemberRepo,
	groupRepo GroupRepo,
	taskRepo TaskRepo,
	publisher EventPublisher,
	conf *SettlementConfig,
	logger log.Logger,
) *SettlementUseCase {
	return &SettlementUseCase{
		repo:       repo,
		billRepo:   billRepo,
		memberRepo: memberRepo,
		groupRepo:  groupRepo,
		taskRepo:   taskRepo,
		publisher:  publisher,
		conf:       conf,
		log:        log.NewHelper(logger),
		metrics:    metrics.GetMetrics(),
	}
}

// SettleTaskApproval 任务审批结算
// 幂等：同一 (task, member) 重复审批不会重复付款，直接返回已有账单
func (uc *SettlementUseCase) SettleTaskApproval(ctx context.Context, taskID, memberID uint64) ([]*Bill, error) {
	startTime := time.Now()
	defer func() {
		if uc.metrics != nil {
			uc.metrics.SettleDuration.Observe(time.Since(startTime).Seconds())
		}
	}()

	// 1. 幂等预检：已有任务奖励账单说明本次审批已结算过
	existing, err := uc.billRepo.FindBillByTaskMemberType(ctx, taskID, memberID, constants.BillTypeTaskReward)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if uc.metrics != nil {
			uc.metrics.SettleTotal.WithLabelValues("already_settled").Inc()
		}
		return []*Bill{existing}, nil
	}

	// 2. 计算结算计划
	plan, err := uc.buildPlan(ctx, taskID, memberID)
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.SettleTotal.WithLabelValues("failed").Inc()
		}
		return nil, err
	}

	// 3. 单事务执行（事务内再次复核幂等，防止并发审批双付）
	bills, created, err := uc.repo.ExecuteSettlement(ctx, plan)
	if err != nil {
		uc.log.Errorf("ExecuteSettlement failed: task_id=%d, member_id=%d, error=%v", taskID, memberID, err)
		if uc.metrics != nil {
			uc.metrics.SettleTotal.WithLabelValues("failed").Inc()
		}
		return nil, pkgErrors.WrapErrorWithLang(ctx, err, settlementErrors.ErrCodeSettlementFailed)
	}

	if !created {
		if uc.metrics != nil {
			uc.metrics.SettleTotal.WithLabelValues("already_settled").Inc()
		}
		return bills, nil
	}

	if uc.metrics != nil {
		uc.metrics.SettleTotal.WithLabelValues("settled").Inc()
		for _, b := range bills {
			uc.metrics.BillTotal.WithLabelValues(b.BillType).Inc()
			uc.metrics.BillAmount.WithLabelValues(b.BillType).Add(b.Amount)
		}
	}

	uc.publishSettled(ctx, taskID, memberID, bills)
	return bills, nil
}

// buildPlan 计算一次任务审批要写入的账单
func (uc *SettlementUseCase) buildPlan(ctx context.Context, taskID, memberID uint64) (*SettlementPlan, error) {
	task, err := uc.taskRepo.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeTaskNotFound)
	}

	member, err := uc.memberRepo.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeMemberNotFound)
	}

	// 结算时点的分组快照，落在账单上仅供下游报表使用，之后不再重算
	relatedGroupID := member.GroupID
	tID := taskID

	plan := &SettlementPlan{
		TaskID:   taskID,
		MemberID: memberID,
		Entries: []*PlanEntry{
			{
				BillType:       constants.BillTypeTaskReward,
				MemberID:       memberID,
				Amount:         task.RewardAmount,
				TaskID:         &tID,
				RelatedGroupID: relatedGroupID,
			},
		},
	}

	// 邀请奖励
	if member.InviterID != nil {
		apply, err := uc.inviteRewardApplies(ctx, memberID)
		if err != nil {
			return nil, err
		}
		if apply {
			if amount := uc.conf.InviteReward.Compute(task.RewardAmount); amount > 0 {
				mID := memberID
				plan.InviteFirstTaskOnly = uc.conf.InviteReward.FirstTaskOnly
				plan.Entries = append(plan.Entries, &PlanEntry{
					BillType:        constants.BillTypeInviteReward,
					MemberID:        *member.InviterID,
					Amount:          amount,
					TaskID:          &tID,
					RelatedMemberID: &mID,
					RelatedGroupID:  relatedGroupID,
				})
			}
		}
	}

	// 群主佣金（群主为会员本人时不发）
	if member.GroupID != nil {
		group, err := uc.groupRepo.GetGroup(ctx, *member.GroupID)
		if err != nil {
			return nil, err
		}
		if group != nil && group.OwnerID != nil && *group.OwnerID != memberID {
			if amount := uc.conf.OwnerCommission.Compute(task.RewardAmount); amount > 0 {
				mID := memberID
				gID := group.ID
				plan.Entries = append(plan.Entries, &PlanEntry{
					BillType:        constants.BillTypeGroupOwnerCommission,
					MemberID:        *group.OwnerID,
					Amount:          amount,
					TaskID:          &tID,
					RelatedMemberID: &mID,
					RelatedGroupID:  &gID,
				})
			}
		}
	}

	return plan, nil
}

// inviteRewardApplies 邀请奖励是否适用
// first_task_only 开启时，同一被邀请人只在首个任务上发放一次
func (uc *SettlementUseCase) inviteRewardApplies(ctx context.Context, memberID uint64) (bool, error) {
	if uc.conf.InviteReward == nil || !uc.conf.InviteReward.Enabled {
		return false, nil
	}
	if !uc.conf.InviteReward.FirstTaskOnly {
		return true, nil
	}
	prior, err := uc.billRepo.FindBillByRelatedMemberType(ctx, memberID, constants.BillTypeInviteReward)
	if err != nil {
		return false, err
	}
	return prior == nil, nil
}

func (uc *SettlementUseCase) publishSettled(ctx context.Context, taskID, memberID uint64, bills []*Bill) {
	if uc.publisher == nil {
		return
	}
	event := &BillSettledEvent{
		TaskID:    taskID,
		MemberID:  memberID,
		SettledAt: time.Now(),
	}
	for _, b := range bills {
		event.Bills = append(event.Bills, BillSettledItem{
			BillNo:   b.BillNo,
			BillType: b.BillType,
			MemberID: b.MemberID,
			Amount:   b.Amount,
		})
	}
	if err := uc.publisher.PublishBillSettled(ctx, event); err != nil {
		// 事件仅用于下游报表，发布失败不影响已提交的结算
		uc.log.Warnf("PublishBillSettled failed: task_id=%d, member_id=%d, error=%v", taskID, memberID, err)
	}
}
