package biz

import (
	"context"
	"time"

	"settlement-service/internal/constants"
	"settlement-service/internal/metrics"

	"github.com/go-kratos/kratos/v2/log"
)

// Member 会员领域对象
type Member struct {
	ID           uint64
	Nickname     string
	InviterID    *uint64
	GroupID      *uint64
	IsGroupOwner bool
	AuditStatus  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MemberRepo 会员数据层接口（定义在 biz 层）
type MemberRepo interface {
	// GetMember 按主键查询，不存在时返回 (nil, nil)
	GetMember(ctx context.Context, id uint64) (*Member, error)
	UpdateAuditStatus(ctx context.Context, id uint64, status string) error
}

// MemberAuditOutcome 批量审核中单个会员的处理结果
type MemberAuditOutcome struct {
	MemberID     uint64            `json:"member_id"`
	Approved     bool              `json:"approved"`
	AssignReason string            `json:"assign_reason,omitempty"`
	AssignParams map[string]string `json:"assign_params,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// MemberAuditResult 批量审核聚合结果
// 部分失败是正常情况，按单元计数返回，不作为致命错误抛出
type MemberAuditResult struct {
	Total    int                  `json:"total"`
	Success  int                  `json:"success"`
	Failed   int                  `json:"failed"`
	Outcomes []MemberAuditOutcome `json:"outcomes"`
}

// MemberUseCase 会员审核业务逻辑
type MemberUseCase struct {
	repo    MemberRepo
	assign  *AssignUseCase
	log     *log.Helper
	metrics *metrics.SettlementMetrics
}

// NewMemberUseCase 创建会员 UseCase
func NewMemberUseCase(repo MemberRepo, assign *AssignUseCase, logger log.Logger) *MemberUseCase {
	return &MemberUseCase{
		repo:    repo,
		assign:  assign,
		log:     log.NewHelper(logger),
		metrics: metrics.GetMetrics(),
	}
}

// ApproveMembers 批量审核通过
// 每个会员独立处理：审核状态更新和自动分组各自提交，
// 单个会员失败不影响其他会员，结果按单元聚合返回
func (uc *MemberUseCase) ApproveMembers(ctx context.Context, memberIDs []uint64) (*MemberAuditResult, error) {
	result := &MemberAuditResult{
		Total:    len(memberIDs),
		Outcomes: make([]MemberAuditOutcome, 0, len(memberIDs)),
	}

	for _, memberID := range memberIDs {
		outcome := uc.approveOne(ctx, memberID)
		if outcome.Error == "" {
			result.Success++
			if uc.metrics != nil {
				uc.metrics.AuditBatchTotal.WithLabelValues("success").Inc()
			}
		} else {
			result.Failed++
			if uc.metrics != nil {
				uc.metrics.AuditBatchTotal.WithLabelValues("failed").Inc()
			}
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	uc.log.Infof("ApproveMembers completed: total=%d, success=%d, failed=%d",
		result.Total, result.Success, result.Failed)
	return result, nil
}

func (uc *MemberUseCase) approveOne(ctx context.Context, memberID uint64) MemberAuditOutcome {
	outcome := MemberAuditOutcome{MemberID: memberID}

	member, err := uc.repo.GetMember(ctx, memberID)
	if err != nil {
		uc.log.Errorf("GetMember failed: member_id=%d, error=%v", memberID, err)
		outcome.Error = err.Error()
		return outcome
	}
	if member == nil {
		outcome.Error = "member not found"
		return outcome
	}

	if member.AuditStatus != constants.MemberAuditStatusApproved {
		if err := uc.repo.UpdateAuditStatus(ctx, memberID, constants.MemberAuditStatusApproved); err != nil {
			uc.log.Errorf("UpdateAuditStatus failed: member_id=%d, error=%v", memberID, err)
			outcome.Error = err.Error()
			return outcome
		}
	}
	outcome.Approved = true

	// 审核通过后触发自动分组；NoAssignment 不算失败，
	// group_id 留空等待后台人工分组
	assignOutcome, err := uc.assign.Assign(ctx, memberID)
	if err != nil {
		uc.log.Errorf("Assign failed: member_id=%d, error=%v", memberID, err)
		outcome.Error = err.Error()
		return outcome
	}
	outcome.AssignReason = assignOutcome.Reason
	outcome.AssignParams = assignOutcome.Params
	return outcome
}
