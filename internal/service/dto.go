package service

import (
	"time"

	"settlement-service/internal/biz"
)

// SettleTaskApprovalRequest 任务审批结算请求
type SettleTaskApprovalRequest struct {
	TaskID   uint64 `json:"task_id"`
	MemberID uint64 `json:"member_id"`
}

// SettleTaskApprovalReply 任务审批结算响应
type SettleTaskApprovalReply struct {
	Bills []*BillReply `json:"bills"`
}

// BillReply 账单响应
type BillReply struct {
	ID               uint64  `json:"id"`
	BillNo           string  `json:"bill_no"`
	MemberID         uint64  `json:"member_id"`
	BillType         string  `json:"bill_type"`
	Amount           float64 `json:"amount"`
	TaskID           *uint64 `json:"task_id,omitempty"`
	WithdrawalID     *uint64 `json:"withdrawal_id,omitempty"`
	RelatedMemberID  *uint64 `json:"related_member_id,omitempty"`
	RelatedGroupID   *uint64 `json:"related_group_id,omitempty"`
	SettlementStatus string  `json:"settlement_status"`
	Remark           string  `json:"remark,omitempty"`
	CreateTime       string  `json:"create_time"`
}

func toBillReply(b *biz.Bill) *BillReply {
	return &BillReply{
		ID:               b.ID,
		BillNo:           b.BillNo,
		MemberID:         b.MemberID,
		BillType:         b.BillType,
		Amount:           b.Amount,
		TaskID:           b.TaskID,
		WithdrawalID:     b.WithdrawalID,
		RelatedMemberID:  b.RelatedMemberID,
		RelatedGroupID:   b.RelatedGroupID,
		SettlementStatus: b.SettlementStatus,
		Remark:           b.Remark,
		CreateTime:       b.CreatedAt.Format(time.RFC3339),
	}
}

// AuditMembersRequest 批量审核请求
type AuditMembersRequest struct {
	MemberIDs []uint64 `json:"member_ids"`
}

// AssignMemberReply 分组结果响应
type AssignMemberReply struct {
	Assigned bool              `json:"assigned"`
	GroupID  uint64            `json:"group_id,omitempty"`
	Reason   string            `json:"reason"`
	Params   map[string]string `json:"params,omitempty"`
}

// RequestWithdrawalRequest 提现申请请求
type RequestWithdrawalRequest struct {
	MemberID uint64  `json:"member_id"`
	Amount   float64 `json:"amount"`
}

// ResolveWithdrawalRequest 提现处理请求
type ResolveWithdrawalRequest struct {
	Outcome string `json:"outcome"` // success / failed
}

// WithdrawalReply 提现申请响应
type WithdrawalReply struct {
	ID          uint64  `json:"id"`
	BillNo      string  `json:"bill_no"`
	MemberID    uint64  `json:"member_id"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
	ApplyTime   string  `json:"apply_time"`
	ProcessTime string  `json:"process_time,omitempty"`
}

func toWithdrawalReply(w *biz.Withdrawal) *WithdrawalReply {
	reply := &WithdrawalReply{
		ID:        w.ID,
		BillNo:    w.BillNo,
		MemberID:  w.MemberID,
		Amount:    w.Amount,
		Status:    w.Status,
		ApplyTime: w.ApplyTime.Format(time.RFC3339),
	}
	if w.ProcessTime != nil {
		reply.ProcessTime = w.ProcessTime.Format(time.RFC3339)
	}
	return reply
}

// ListBillsRequest 账单列表查询参数
type ListBillsRequest struct {
	MemberID         uint64 `json:"member_id"`
	BillType         string `json:"bill_type"`
	SettlementStatus string `json:"settlement_status"`
	StartTime        string `json:"start_time"` // RFC3339
	EndTime          string `json:"end_time"`
	Page             int    `json:"page"`
	PageSize         int    `json:"page_size"`
}

// ListBillsReply 账单列表响应
type ListBillsReply struct {
	Total int64        `json:"total"`
	Bills []*BillReply `json:"bills"`
}

// ListWithdrawalsRequest 提现列表查询参数
type ListWithdrawalsRequest struct {
	MemberID uint64 `json:"member_id"`
	Status   string `json:"status"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// ListWithdrawalsReply 提现列表响应
type ListWithdrawalsReply struct {
	Total       int64              `json:"total"`
	Withdrawals []*WithdrawalReply `json:"withdrawals"`
}

// MemberBalanceReply 会员余额响应
type MemberBalanceReply struct {
	MemberID uint64  `json:"member_id"`
	Balance  float64 `json:"balance"`
}

// EncryptSecretRequest 密钥加密请求
type EncryptSecretRequest struct {
	PlainText string `json:"plain_text"`
}

// EncryptSecretReply 密钥加密响应
type EncryptSecretReply struct {
	CipherText string `json:"cipher_text"`
}

// DecryptSecretRequest 密钥解密请求
type DecryptSecretRequest struct {
	CipherText string `json:"cipher_text"`
}

// DecryptSecretReply 密钥解密响应
type DecryptSecretReply struct {
	PlainText string `json:"plain_text"`
}
