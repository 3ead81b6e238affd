package biz

import (
	"settlement-service/internal/conf"
	"settlement-service/internal/constants"
)

// RewardPolicy 奖励策略（来自配置的策略输入）
type RewardPolicy struct {
	Enabled       bool
	Mode          string // amount: 固定金额, rate: 按任务奖励比例
	Value         float64
	FirstTaskOnly bool
}

// Compute 按策略计算奖励金额，rewardAmount 为触发任务的奖励
func (p *RewardPolicy) Compute(rewardAmount float64) float64 {
	if p == nil || !p.Enabled {
		return 0
	}
	switch p.Mode {
	case constants.PolicyModeRate:
		return rewardAmount * p.Value
	case constants.PolicyModeAmount:
		return p.Value
	default:
		return 0
	}
}

// SettlementConfig 结算策略配置
// 邀请奖励与群主佣金的计算方式由配置决定，不在代码里写死
type SettlementConfig struct {
	InviteReward    *RewardPolicy
	OwnerCommission *RewardPolicy
}

// NewSettlementConfig 从启动配置创建 SettlementConfig
func NewSettlementConfig(c *conf.Bootstrap) *SettlementConfig {
	config := &SettlementConfig{
		InviteReward:    &RewardPolicy{},
		OwnerCommission: &RewardPolicy{},
	}
	if c.Settlement == nil {
		return config
	}
	if p := c.Settlement.InviteReward; p != nil {
		config.InviteReward = &RewardPolicy{
			Enabled:       p.Enabled,
			Mode:          p.Mode,
			Value:         p.Value,
			FirstTaskOnly: p.FirstTaskOnly,
		}
	}
	if p := c.Settlement.OwnerCommission; p != nil {
		config.OwnerCommission = &RewardPolicy{
			Enabled: p.Enabled,
			Mode:    p.Mode,
			Value:   p.Value,
		}
	}
	return config
}
