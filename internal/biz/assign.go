package biz

import (
	"context"
	"strconv"
	"time"

	"settlement-service/internal/constants"
	settlementErrors "settlement-service/internal/errors"
	"settlement-service/internal/metrics"

	pkgErrors "github.com/gaoyong06/go-pkg/errors"
	"github.com/go-kratos/kratos/v2/log"
)

// AssignOutcome 分组结果
// NoAssignment 不是错误：Reason 为用户可见的结构化结果码，
// Params 为消息模板占位参数，渲染交给展示层
type AssignOutcome struct {
	Assigned bool              `json:"assigned"`
	GroupID  uint64            `json:"group_id,omitempty"`
	Reason   string            `json:"reason"`
	Params   map[string]string `json:"params,omitempty"`
}

// AssignUseCase 分组容量分配业务逻辑
// 在会员首次审核通过且 group_id 为空时调用，按顺序回退：
// 邀请人所在组 -> 同一群主名下其他组（按组 id 升序）-> 不分组
type AssignUseCase struct {
	memberRepo MemberRepo
	groupRepo  GroupRepo
	log        *log.Helper
	metrics    *metrics.SettlementMetrics
}

// NewAssignUseCase 创建分组 UseCase
func NewAssignUseCase(memberRepo MemberRepo, groupRepo GroupRepo, logger log.Logger) *AssignUseCase {
	return &AssignUseCase{
		memberRepo: memberRepo,
		groupRepo:  groupRepo,
		log:        log.NewHelper(logger),
		metrics:    metrics.GetMetrics(),
	}
}

// Assign 为会员选择分组并写入
// 容量判断和写入在 repo 的单个事务内完成；抢占最后一个名额失败的并发
// 调用会拿到 (false, nil)，这里继续尝试下一个候选分组而不是直接失败
func (uc *AssignUseCase) Assign(ctx context.Context, memberID uint64) (*AssignOutcome, error) {
	startTime := time.Now()
	outcome, err := uc.assign(ctx, memberID)
	if uc.metrics != nil {
		uc.metrics.AssignDuration.Observe(time.Since(startTime).Seconds())
		if outcome != nil {
			uc.metrics.AssignTotal.WithLabelValues(outcome.Reason).Inc()
		}
	}
	return outcome, err
}

func (uc *AssignUseCase) assign(ctx context.Context, memberID uint64) (*AssignOutcome, error) {
	member, err := uc.memberRepo.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeMemberNotFound)
	}

	// 已入组的会员不重复分配，自动分组只在首次生效
	if member.GroupID != nil {
		return &AssignOutcome{
			Assigned: false,
			GroupID:  *member.GroupID,
			Reason:   constants.AssignReasonAlreadyAssigned,
		}, nil
	}

	// 1. 无邀请人
	if member.InviterID == nil {
		return &AssignOutcome{Reason: constants.AssignReasonNoInviter}, nil
	}

	// 2. 邀请人未入组
	inviter, err := uc.memberRepo.GetMember(ctx, *member.InviterID)
	if err != nil {
		return nil, err
	}
	if inviter == nil || inviter.GroupID == nil {
		return &AssignOutcome{Reason: constants.AssignReasonInviterNoGroup}, nil
	}

	// 3. 邀请人所在组有余量则直接入组
	ok, err := uc.groupRepo.AssignMemberToGroup(ctx, memberID, *inviter.GroupID)
	if err != nil {
		return nil, err
	}
	if ok {
		return &AssignOutcome{
			Assigned: true,
			GroupID:  *inviter.GroupID,
			Reason:   constants.AssignReasonInviterGroup,
			Params:   map[string]string{"groupId": strconv.FormatUint(*inviter.GroupID, 10)},
		}, nil
	}

	// 4. 邀请人所在组已满，回退到群主名下其他组
	inviterGroup, err := uc.groupRepo.GetGroup(ctx, *inviter.GroupID)
	if err != nil {
		return nil, err
	}
	if inviterGroup == nil || inviterGroup.OwnerID == nil {
		if outcome, err := uc.recheckAssigned(ctx, memberID); outcome != nil || err != nil {
			return outcome, err
		}
		return &AssignOutcome{Reason: constants.AssignReasonInviterNoOwner}, nil
	}

	// 5. 按组 id 升序扫描群主名下分组，取第一个有余量的
	groups, err := uc.groupRepo.ListGroupsByOwner(ctx, *inviterGroup.OwnerID)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		if g.ID == inviterGroup.ID {
			continue
		}
		ok, err := uc.groupRepo.AssignMemberToGroup(ctx, memberID, g.ID)
		if err != nil {
			return nil, err
		}
		if ok {
			return &AssignOutcome{
				Assigned: true,
				GroupID:  g.ID,
				Reason:   constants.AssignReasonOtherGroup,
				Params:   map[string]string{"groupId": strconv.FormatUint(g.ID, 10)},
			}, nil
		}
	}

	// 6. 群主名下所有组都已满
	if outcome, err := uc.recheckAssigned(ctx, memberID); outcome != nil || err != nil {
		return outcome, err
	}
	return &AssignOutcome{
		Reason: constants.AssignReasonAllGroupFull,
		Params: map[string]string{
			"ownerId": strconv.FormatUint(*inviterGroup.OwnerID, 10),
		},
	}, nil
}

// recheckAssigned 落空收尾前复核会员是否已被并发流程入组
// AssignMemberToGroup 的 (false, nil) 既可能是分组已满，也可能是
// 会员的 group_id 已非空；后者要按已入组返回而不是报所有组已满
func (uc *AssignUseCase) recheckAssigned(ctx context.Context, memberID uint64) (*AssignOutcome, error) {
	member, err := uc.memberRepo.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member != nil && member.GroupID != nil {
		return &AssignOutcome{
			Assigned: false,
			GroupID:  *member.GroupID,
			Reason:   constants.AssignReasonAlreadyAssigned,
		}, nil
	}
	return nil, nil
}
