package data

import (
	"context"
	"encoding/json"

	"settlement-service/internal/biz"
	"settlement-service/internal/conf"

	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/go-kratos/kratos/v2/log"
)

// eventPublisher 账单落账事件发布（RocketMQ）
// 事件仅供下游报表/统计消费，发布失败不影响结算事务
type eventPublisher struct {
	data  *Data
	topic string
	log   *log.Helper
}

// NewEventPublisher 创建事件发布器（返回 biz.EventPublisher 接口）
func NewEventPublisher(c *conf.Bootstrap, data *Data, logger log.Logger) biz.EventPublisher {
	topic := ""
	if c.Data != nil && c.Data.Rocketmq != nil {
		topic = c.Data.Rocketmq.SettledTopic
	}
	return &eventPublisher{
		data:  data,
		topic: topic,
		log:   log.NewHelper(logger),
	}
}

// PublishBillSettled 发布账单落账事件
func (p *eventPublisher) PublishBillSettled(ctx context.Context, event *biz.BillSettledEvent) error {
	if p.data.mq == nil || p.topic == "" {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := primitive.NewMessage(p.topic, body)
	if _, err := p.data.mq.SendSync(ctx, msg); err != nil {
		return err
	}
	return nil
}
