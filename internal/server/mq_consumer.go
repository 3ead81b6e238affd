package server

import (
	"context"
	"encoding/json"

	"settlement-service/internal/biz"
	"settlement-service/internal/conf"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/go-kratos/kratos/v2/log"
)

// TaskApprovedEvent is the message body published by the task service
// when a submission passes review.
type TaskApprovedEvent struct {
	TaskID   uint64 `json:"task_id"`
	MemberID uint64 `json:"member_id"`
}

// MQConsumerServer consumes task approval events from RocketMQ
type MQConsumerServer struct {
	c          rocketmq.PushConsumer
	settlement *biz.SettlementUseCase
	conf       *conf.Data
	log        *log.Helper
	enabled    bool
}

// NewMQConsumerServer creates a RocketMQ consumer server
func NewMQConsumerServer(c *conf.Bootstrap, settlement *biz.SettlementUseCase, logger log.Logger) *MQConsumerServer {
	d := c.Data
	if d == nil || d.Rocketmq == nil || !d.Rocketmq.Enabled {
		return &MQConsumerServer{enabled: false, log: log.NewHelper(logger)}
	}

	r, err := rocketmq.NewPushConsumer(
		consumer.WithNsResolver(primitive.NewPassthroughResolver(d.Rocketmq.NameServers)),
		consumer.WithGroupName(d.Rocketmq.GroupName),
		consumer.WithRetry(d.Rocketmq.RetryTimes),
	)
	if err != nil {
		log.NewHelper(logger).Errorf("init consumer error: %v", err)
		return &MQConsumerServer{enabled: false, log: log.NewHelper(logger)}
	}

	return &MQConsumerServer{
		c:          r,
		settlement: settlement,
		conf:       d,
		log:        log.NewHelper(logger),
		enabled:    true,
	}
}

// Start starts the consumer
func (s *MQConsumerServer) Start(ctx context.Context) error {
	if !s.enabled {
		s.log.Infof("MQConsumerServer is disabled, skipping startup")
		return nil
	}

	s.log.Infof("Starting MQConsumerServer, topic: %s", s.conf.Rocketmq.ApprovalTopic)

	err := s.c.Subscribe(s.conf.Rocketmq.ApprovalTopic, consumer.MessageSelector{}, s.handler)
	if err != nil {
		s.log.Errorf("Failed to subscribe to topic %s: %v", s.conf.Rocketmq.ApprovalTopic, err)
		// 不返回错误，避免导致整个应用启动失败
		// 在开发环境中，RocketMQ 可能不可用
		return nil
	}

	err = s.c.Start()
	if err != nil {
		s.log.Errorf("Failed to start RocketMQ consumer: %v", err)
		// 不返回错误，避免导致整个应用启动失败
		return nil
	}

	return nil
}

// Stop stops the consumer
func (s *MQConsumerServer) Stop(ctx context.Context) error {
	if !s.enabled || s.c == nil {
		return nil
	}
	s.log.Info("Stopping MQConsumerServer")
	return s.c.Shutdown()
}

func (s *MQConsumerServer) handler(ctx context.Context, msgs ...*primitive.MessageExt) (consumer.ConsumeResult, error) {
	for _, msg := range msgs {
		var event TaskApprovedEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			s.log.Errorf("Unmarshal message failed: %v, body: %s", err, string(msg.Body))
			continue
		}
		if event.TaskID == 0 || event.MemberID == 0 {
			s.log.Warnf("Skip invalid approval event: body=%s", string(msg.Body))
			continue
		}

		// 结算本身幂等，重复投递的消息会命中已有账单直接返回
		if _, err := s.settlement.SettleTaskApproval(ctx, event.TaskID, event.MemberID); err != nil {
			s.log.Errorf("SettleTaskApproval failed: task_id=%d, member_id=%d, error=%v", event.TaskID, event.MemberID, err)
			return consumer.ConsumeRetryLater, nil
		}
	}
	return consumer.ConsumeSuccess, nil
}
