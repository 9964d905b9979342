// 文件: pkg/feed/kafka_publisher.go
// 成交事件 Kafka 发布器

package feed

import (
	"obx.com/pkg/kafka"
	"obx.com/pkg/trade"
)

// 确保实现了接口
var _ Publisher = (*KafkaPublisher)(nil)

// KafkaPublisher Kafka 成交事件发布器
type KafkaPublisher struct {
	producer *kafka.Producer
}

// NewKafkaPublisher 创建 Kafka 发布器
func NewKafkaPublisher(brokers []string) (*KafkaPublisher, error) {
	producer, err := kafka.NewProducer(kafka.DefaultProducerConfig(brokers))
	if err != nil {
		return nil, err
	}
	return &KafkaPublisher{producer: producer}, nil
}

// PublishTrade 发布成交事件 (异步)
func (p *KafkaPublisher) PublishTrade(t *trade.Trade) error {
	return p.producer.Send(tradeMessage{t: t})
}

// Close 关闭生产者
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
