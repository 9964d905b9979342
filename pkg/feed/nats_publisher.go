// 文件: pkg/feed/nats_publisher.go
// 成交事件 NATS 发布器

package feed

import (
	"obx.com/pkg/nats"
	"obx.com/pkg/trade"
)

// 确保实现了接口
var _ Publisher = (*NatsPublisher)(nil)

// NatsPublisher NATS 成交事件发布器
type NatsPublisher struct {
	publisher *nats.Publisher
}

// NewNatsPublisher 创建 NATS 发布器
func NewNatsPublisher(natsURL string) (*NatsPublisher, error) {
	publisher, err := nats.NewPublisher(natsURL)
	if err != nil {
		return nil, err
	}
	return &NatsPublisher{publisher: publisher}, nil
}

// PublishTrade 发布成交事件
func (p *NatsPublisher) PublishTrade(t *trade.Trade) error {
	return p.publisher.Publish(SubjectTrades, t)
}

// Close 关闭连接
func (p *NatsPublisher) Close() error {
	p.publisher.Close()
	return nil
}
