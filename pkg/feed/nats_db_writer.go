// 文件: pkg/feed/nats_db_writer.go
// 成交事件数据库写入器
//
// 监听 NATS 成交事件，写入 MySQL 成交日志。
// 引擎进程内是内存日志，落库由独立的 writer 进程异步完成；
// Append 按 trade_id 幂等，重放/重投不会产生重复行。

package feed

import (
	"context"
	"sync/atomic"

	"obx.com/pkg/nats"
	"obx.com/pkg/trade"
)

// NatsDBWriter NATS 成交落库写入器
type NatsDBWriter struct {
	log        trade.Log
	subscriber *nats.Subscriber

	// 统计
	received atomic.Int64
	written  atomic.Int64
	errors   atomic.Int64
}

// NewNatsDBWriter 创建写入器
// log 通常是 trade.NewMySQLLog(db)
func NewNatsDBWriter(log trade.Log, natsURL string) (*NatsDBWriter, error) {
	w := &NatsDBWriter{log: log}

	subscriber, err := nats.NewSubscriber(natsURL, w.handleMessage)
	if err != nil {
		return nil, err
	}
	w.subscriber = subscriber

	return w, nil
}

// Start 启动监听 (队列订阅，多实例安全)
func (w *NatsDBWriter) Start() error {
	return w.subscriber.SubscribeQueue(SubjectTrades, "trade-db-writer")
}

// Stop 停止监听
func (w *NatsDBWriter) Stop() error {
	return w.subscriber.Close()
}

// handleMessage 处理单条成交事件
func (w *NatsDBWriter) handleMessage(subject string, data []byte) error {
	w.received.Add(1)

	t, err := nats.UnmarshalJSON[trade.Trade](data)
	if err != nil {
		w.errors.Add(1)
		return err
	}

	if err := w.log.Append(context.Background(), t); err != nil {
		w.errors.Add(1)
		return err
	}
	w.written.Add(1)
	return nil
}

// WriterStats 统计信息
type WriterStats struct {
	Received int64
	Written  int64
	Errors   int64
}

// Stats 获取统计信息
func (w *NatsDBWriter) Stats() WriterStats {
	return WriterStats{
		Received: w.received.Load(),
		Written:  w.written.Load(),
		Errors:   w.errors.Load(),
	}
}
