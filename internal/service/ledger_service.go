package service

import (
	"context"
	"time"

	"settlement-service/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
)

// LedgerService 账本查询入口：账单、提现记录、会员余额
type LedgerService struct {
	bill       *biz.BillUseCase
	withdrawal *biz.WithdrawalUseCase
	log        *log.Helper
}

// NewLedgerService 创建账本查询服务
func NewLedgerService(bill *biz.BillUseCase, withdrawal *biz.WithdrawalUseCase, logger log.Logger) *LedgerService {
	return &LedgerService{
		bill:       bill,
		withdrawal: withdrawal,
		log:        log.NewHelper(logger),
	}
}

// ListBills 分页查询账单
func (s *LedgerService) ListBills(ctx context.Context, req *ListBillsRequest) (*ListBillsReply, error) {
	filter := &biz.BillListFilter{
		MemberID:         req.MemberID,
		BillType:         req.BillType,
		SettlementStatus: req.SettlementStatus,
	}
	if req.StartTime != "" {
		t, err := time.Parse(time.RFC3339, req.StartTime)
		if err == nil {
			filter.StartTime = &t
		}
	}
	if req.EndTime != "" {
		t, err := time.Parse(time.RFC3339, req.EndTime)
		if err == nil {
			filter.EndTime = &t
		}
	}

	bills, total, err := s.bill.ListBills(ctx, filter, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	reply := &ListBillsReply{Total: total, Bills: make([]*BillReply, 0, len(bills))}
	for _, b := range bills {
		reply.Bills = append(reply.Bills, toBillReply(b))
	}
	return reply, nil
}

// GetBill 按账单编号查询账单
func (s *LedgerService) GetBill(ctx context.Context, billNo string) (*BillReply, error) {
	b, err := s.bill.GetByBillNo(ctx, billNo)
	if err != nil {
		return nil, err
	}
	return toBillReply(b), nil
}

// ListWithdrawals 分页查询提现记录
func (s *LedgerService) ListWithdrawals(ctx context.Context, req *ListWithdrawalsRequest) (*ListWithdrawalsReply, error) {
	withdrawals, total, err := s.withdrawal.List(ctx, req.MemberID, req.Status, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	reply := &ListWithdrawalsReply{Total: total, Withdrawals: make([]*WithdrawalReply, 0, len(withdrawals))}
	for _, w := range withdrawals {
		reply.Withdrawals = append(reply.Withdrawals, toWithdrawalReply(w))
	}
	return reply, nil
}

// MemberBalance 查询会员可提现余额
func (s *LedgerService) MemberBalance(ctx context.Context, memberID uint64) (*MemberBalanceReply, error) {
	balance, err := s.withdrawal.Balance(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return &MemberBalanceReply{MemberID: memberID, Balance: balance}, nil
}
