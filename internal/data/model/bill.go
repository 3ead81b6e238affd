package model

import (
	"time"
)

// Bill 账单流水表
// 每条记录对应一次资金事件，创建后金额、类型、归属会员不可变，
// 只允许变更结算状态和备注
type Bill struct {
	ID               uint64     `gorm:"primaryKey;autoIncrement"`
	BillNo           string     `gorm:"type:varchar(32);not null;uniqueIndex:uk_bill_no"`
	MemberID         uint64     `gorm:"not null;index:idx_member_type,priority:1;index:idx_task_member_type,priority:2"`
	BillType         string     `gorm:"type:varchar(32);not null;index:idx_member_type,priority:2;index:idx_task_member_type,priority:3"`
	Amount           float64    `gorm:"type:decimal(12,2);not null;default:0.00"`
	TaskID           *uint64    `gorm:"index:idx_task_member_type,priority:1"`
	WithdrawalID     *uint64    `gorm:""`
	RelatedMemberID  *uint64    `gorm:"index"`
	RelatedGroupID   *uint64    `gorm:""`
	SettlementStatus string     `gorm:"type:varchar(16);not null;default:'settled'"`
	Remark           string     `gorm:"type:varchar(255)"`
	CreatedAt        time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Bill) TableName() string {
	return "bill"
}
