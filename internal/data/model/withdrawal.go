package model

import (
	"time"
)

// Withdrawal 提现申请表
// 状态只允许从 pending 单向流转到 success 或 failed
type Withdrawal struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement"`
	BillNo      string     `gorm:"type:varchar(32);not null;uniqueIndex:uk_withdrawal_bill_no"`
	MemberID    uint64     `gorm:"not null;index:idx_member_status,priority:1"`
	Amount      float64    `gorm:"type:decimal(12,2);not null"`
	Status      string     `gorm:"type:varchar(16);not null;default:'pending';index:idx_member_status,priority:2"`
	ApplyTime   time.Time  `gorm:"autoCreateTime"`
	ProcessTime *time.Time `gorm:""`
}

// TableName 指定表名
func (Withdrawal) TableName() string {
	return "withdrawal"
}
