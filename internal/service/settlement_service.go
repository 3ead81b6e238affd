package service

import (
	"context"

	"settlement-service/internal/biz"
	settlementErrors "settlement-service/internal/errors"

	pkgErrors "github.com/gaoyong06/go-pkg/errors"
	"github.com/go-kratos/kratos/v2/log"
)

// SettlementService 结算写入口：任务审批结算、会员审核分组、提现申请与处理
type SettlementService struct {
	settlement *biz.SettlementUseCase
	member     *biz.MemberUseCase
	assign     *biz.AssignUseCase
	withdrawal *biz.WithdrawalUseCase
	log        *log.Helper
}

// NewSettlementService 创建结算服务
func NewSettlementService(
	settlement *biz.SettlementUseCase,
	member *biz.MemberUseCase,
	assign *biz.AssignUseCase,
	withdrawal *biz.WithdrawalUseCase,
	logger log.Logger,
) *SettlementService {
	return &SettlementService{
		settlement: settlement,
		member:     member,
		assign:     assign,
		withdrawal: withdrawal,
		log:        log.NewHelper(logger),
	}
}

// SettleTaskApproval 任务审批通过结算
func (s *SettlementService) SettleTaskApproval(ctx context.Context, req *SettleTaskApprovalRequest) (*SettleTaskApprovalReply, error) {
	if req.TaskID == 0 {
		return nil, pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeTaskNotFound)
	}
	if req.MemberID == 0 {
		return nil, pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeMemberNotFound)
	}

	bills, err := s.settlement.SettleTaskApproval(ctx, req.TaskID, req.MemberID)
	if err != nil {
		return nil, err
	}

	reply := &SettleTaskApprovalReply{Bills: make([]*BillReply, 0, len(bills))}
	for _, b := range bills {
		reply.Bills = append(reply.Bills, toBillReply(b))
	}
	return reply, nil
}

// AuditMembers 批量审核通过会员并触发自动分组
func (s *SettlementService) AuditMembers(ctx context.Context, req *AuditMembersRequest) (*biz.MemberAuditResult, error) {
	if len(req.MemberIDs) == 0 {
		return nil, pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeMemberAuditFailed)
	}
	return s.member.ApproveMembers(ctx, req.MemberIDs)
}

// AssignMember 单个会员分组
func (s *SettlementService) AssignMember(ctx context.Context, memberID uint64) (*AssignMemberReply, error) {
	outcome, err := s.assign.Assign(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return &AssignMemberReply{
		Assigned: outcome.Assigned,
		GroupID:  outcome.GroupID,
		Reason:   outcome.Reason,
		Params:   outcome.Params,
	}, nil
}

// RequestWithdrawal 提现申请
func (s *SettlementService) RequestWithdrawal(ctx context.Context, req *RequestWithdrawalRequest) (*WithdrawalReply, error) {
	if req.MemberID == 0 {
		return nil, pkgErrors.NewBizErrorWithLang(ctx, settlementErrors.ErrCodeMemberNotFound)
	}

	w, err := s.withdrawal.Request(ctx, req.MemberID, req.Amount)
	if err != nil {
		return nil, err
	}
	return toWithdrawalReply(w), nil
}

// ResolveWithdrawal 提现申请处理（打款成功/失败）
func (s *SettlementService) ResolveWithdrawal(ctx context.Context, withdrawalID uint64, req *ResolveWithdrawalRequest) (*WithdrawalReply, error) {
	w, err := s.withdrawal.Resolve(ctx, withdrawalID, req.Outcome)
	if err != nil {
		return nil, err
	}
	return toWithdrawalReply(w), nil
}
