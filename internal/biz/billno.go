package biz

import (
	"encoding/hex"
	"strings"
	"time"

	"settlement-service/internal/constants"

	"github.com/google/uuid"
)

// BillNoGenerator 账单编号生成器
// 编号格式：<类型前缀><yyyyMMddHHmmss><8位随机十六进制>
// 无中心计数器，时间戳只保证可追溯，不保证严格递增；
// 唯一性由账单表的唯一索引兜底，冲突时调用方换新编号重试
type BillNoGenerator struct{}

// NewBillNoGenerator 创建账单编号生成器
func NewBillNoGenerator() *BillNoGenerator {
	return &BillNoGenerator{}
}

// Generate 生成一个候选账单编号
func (g *BillNoGenerator) Generate(prefix string) string {
	u := uuid.New()
	suffix := strings.ToUpper(hex.EncodeToString(u[:4]))
	return prefix + time.Now().Format(constants.TimeFormatBillNo) + suffix
}

// BillNoPrefix 根据账单类型返回编号前缀
func BillNoPrefix(billType string) string {
	switch billType {
	case constants.BillTypeTaskReward:
		return constants.BillNoPrefixTaskReward
	case constants.BillTypeInviteReward:
		return constants.BillNoPrefixInviteReward
	case constants.BillTypeGroupOwnerCommission:
		return constants.BillNoPrefixCommission
	case constants.BillTypeWithdrawal:
		return constants.BillNoPrefixWithdrawal
	default:
		return constants.BillNoPrefixOther
	}
}
