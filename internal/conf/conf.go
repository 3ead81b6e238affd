package conf

import "time"

// Bootstrap 启动配置
// 通过 kratos config 从 YAML 文件加载（c.Scan 使用 json tag 匹配字段）
type Bootstrap struct {
	Server     *Server     `json:"server"`
	Data       *Data       `json:"data"`
	Settlement *Settlement `json:"settlement"`
	Secret     *Secret     `json:"secret"`
}

// Server 服务配置
type Server struct {
	HTTP *HTTPServer `json:"http"`
}

// HTTPServer HTTP 服务配置
type HTTPServer struct {
	Network string `json:"network"`
	Addr    string `json:"addr"`
	Timeout string `json:"timeout"` // 如 "1s"，空值使用 kratos 默认超时
}

// Data 数据层配置
type Data struct {
	Database *Database `json:"database"`
	Redis    *Redis    `json:"redis"`
	Rocketmq *Rocketmq `json:"rocketmq"`
}

// Database 数据库配置
type Database struct {
	Driver string `json:"driver"`
	Source string `json:"source"`
}

// Redis Redis 配置
type Redis struct {
	Addr         string `json:"addr"`
	ReadTimeout  string `json:"read_timeout"`
	WriteTimeout string `json:"write_timeout"`
}

// Rocketmq 消息队列配置
// Enabled 为 false 时结算事件不发布、审批事件消费者不启动
type Rocketmq struct {
	Enabled       bool     `json:"enabled"`
	NameServers   []string `json:"name_servers"`
	ApprovalTopic string   `json:"approval_topic"` // 任务审批事件（消费）
	SettledTopic  string   `json:"settled_topic"`  // 账单落账事件（发布）
	GroupName     string   `json:"group_name"`
	RetryTimes    int      `json:"retry_times"`
}

// Settlement 结算策略配置
type Settlement struct {
	InviteReward    *RewardPolicy `json:"invite_reward"`
	OwnerCommission *RewardPolicy `json:"owner_commission"`
}

// RewardPolicy 奖励策略
// Mode 为 "amount" 时 Value 为固定金额，为 "rate" 时 Value 为任务奖励的比例
type RewardPolicy struct {
	Enabled       bool    `json:"enabled"`
	Mode          string  `json:"mode"`
	Value         float64 `json:"value"`
	FirstTaskOnly bool    `json:"first_task_only"`
}

// Secret 支付渠道密钥加密配置
type Secret struct {
	Passphrase string `json:"passphrase"`
}

// ParseDuration 解析配置中的超时字符串，空值或非法值返回 0
func ParseDuration(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}
