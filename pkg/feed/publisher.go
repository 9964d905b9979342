// 文件: pkg/feed/publisher.go
// 成交事件对外推送
//
// 成交日志 (pkg/trade) 是真相来源，feed 只负责把新成交推出去:
// - NATS: 本地/单机部署
// - Kafka: 已有 Kafka 集群的部署
// 推送失败不影响结算，引擎只记日志。

package feed

import (
	"encoding/json"
	"strconv"

	"obx.com/pkg/trade"
)

// 主题/Topic 约定
const (
	SubjectTrades = "trades.events" // NATS subject
	TopicTrades   = "trade-events"  // Kafka topic
)

// Publisher 成交事件发布器
type Publisher interface {
	PublishTrade(t *trade.Trade) error
	Close() error
}

// =============================================================================
// tradeMessage 实现 kafka.Message 接口
// =============================================================================

type tradeMessage struct {
	t *trade.Trade
}

// Topic 返回 Kafka topic
func (m tradeMessage) Topic() string {
	return TopicTrades
}

// Key 分区 key (按成交 ID)
func (m tradeMessage) Key() string {
	return strconv.FormatInt(m.t.ID, 10)
}

// Value 序列化消息体
func (m tradeMessage) Value() ([]byte, error) {
	return json.Marshal(m.t)
}
