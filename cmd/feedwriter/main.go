// 文件: cmd/feedwriter/main.go
// 成交落库进程
//
// 独立于引擎运行: 队列订阅 NATS 成交事件，写入 MySQL 成交日志。
// 引擎侧只管发布，落库由本进程异步完成，重放安全 (按 trade_id 幂等)。
//
// 用法:
//
//	feedwriter -nats nats://localhost:4222 -dsn 'user:pass@tcp(127.0.0.1:3306)/obx?parseTime=True'

package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"obx.com/pkg/feed"
	"obx.com/pkg/trade"
)

func main() {
	natsURL := flag.String("nats", "nats://localhost:4222", "NATS server URL")
	dsn := flag.String("dsn", "", "MySQL DSN")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	if *dsn == "" {
		log.Fatal("missing -dsn")
	}

	db, err := gorm.Open(mysql.Open(*dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("Failed to connect MySQL: %v", err)
	}
	if err := db.AutoMigrate(&trade.Trade{}); err != nil {
		log.Fatalf("Failed to migrate trades table: %v", err)
	}
	log.Println("✅ MySQL connected")

	writer, err := feed.NewNatsDBWriter(trade.NewMySQLLog(db), *natsURL)
	if err != nil {
		log.Fatalf("Failed to connect NATS: %v", err)
	}
	if err := writer.Start(); err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}
	defer writer.Stop()
	log.Printf("✅ Listening on %s -> trades table", feed.SubjectTrades)

	// 定期打印统计
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			s := writer.Stats()
			log.Printf("📊 received=%d written=%d errors=%d", s.Received, s.Written, s.Errors)
		case sig := <-sigCh:
			log.Printf("🛑 Received %v, shutting down...", sig)
			return
		}
	}
}
