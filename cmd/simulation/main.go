// 文件: cmd/simulation/main.go
// 全流程模拟: 充值 -> 挂单 -> 吃单/撮合 -> 撤单 -> 成交查询
//
// 默认纯内存运行，不依赖任何外部服务。
// 设置 NATS_URL 可把成交事件推送到 NATS，
// 设置 KAFKA_BROKERS (逗号分隔) 则改走 Kafka。

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"obx.com/pkg/engine"
	"obx.com/pkg/feed"
	"obx.com/pkg/ledger"
	"obx.com/pkg/trade"
)

const (
	alice   ledger.AccountID = 1
	bob     ledger.AccountID = 2
	matcher ledger.AccountID = 9

	eth  ledger.AssetID = "ETH"
	usdc ledger.AssetID = "USDC"
	btc  ledger.AssetID = "BTC"
)

func main() {
	runCases := flag.Bool("cases", true, "run the six-case price/quantity match matrix")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)
	log.Println("🚀 Starting Order Book Simulation...")

	ctx := context.Background()

	if err := trade.InitSnowflake(1); err != nil {
		log.Fatalf("Failed to init snowflake: %v", err)
	}

	// 1. 初始化引擎
	// -------------------------------------------------------------------------
	cfg := engine.DefaultConfig()

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		pub, err := feed.NewKafkaPublisher(strings.Split(brokers, ","))
		if err != nil {
			log.Fatalf("Failed to connect Kafka: %v", err)
		}
		defer pub.Close()
		cfg.Publisher = pub
		log.Println("✅ Kafka publisher connected")
	} else if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		pub, err := feed.NewNatsPublisher(natsURL)
		if err != nil {
			log.Fatalf("Failed to connect NATS: %v", err)
		}
		defer pub.Close()
		cfg.Publisher = pub
		log.Println("✅ NATS publisher connected")
	}

	eng := engine.New(cfg)
	log.Println("✅ Engine started (fee asset: ETH)")

	// 2. 入金与手续费充值
	// -------------------------------------------------------------------------
	mustFund(ctx, eng, alice, usdc, 50_000_000_000)
	mustFund(ctx, eng, alice, eth, 5_000)
	mustFund(ctx, eng, bob, btc, 300_000_000)
	mustFund(ctx, eng, bob, eth, 5_000)

	must(eng.Deposit(ctx, alice, engine.Payment{Asset: eth, Amount: 5_000}))
	must(eng.Deposit(ctx, bob, engine.Payment{Asset: eth, Amount: 5_000}))
	log.Println("💰 Deposited fee balances: alice=5000 ETH, bob=5000 ETH")

	// 3. 直接吃单: alice 挂 20k USDC -> 1 BTC，bob 分两口吃掉
	// -------------------------------------------------------------------------
	id1, err := eng.CreateOrder(ctx, alice,
		engine.Payment{Asset: usdc, Amount: 20_000_000_000}, btc, 100_000_000, 1_000)
	must(err)
	log.Printf("📋 Order %d: alice sells 20000 USDC for 1 BTC (fee 1000)", id1)

	must(eng.FulfillOrder(ctx, bob, id1, engine.Payment{Asset: btc, Amount: 40_000_000}))
	must(eng.FulfillOrder(ctx, bob, id1, engine.Payment{Asset: btc, Amount: 60_000_000}))

	o, err := eng.OrderByID(ctx, id1)
	must(err)
	log.Printf("🤝 Order %d filled in 2 bites: status=%s fulfilled0=%d fulfilled1=%d feeUsed=%d",
		id1, o.Status, o.Fulfilled0, o.Fulfilled1, o.MatcherFeeUsed)

	// 4. 第三方撮合: 交叉价差全部让利给先挂的一侧
	// -------------------------------------------------------------------------
	id2, err := eng.CreateOrder(ctx, alice,
		engine.Payment{Asset: usdc, Amount: 20_000_000_000}, btc, 100_000_000, 1_000)
	must(err)
	id3, err := eng.CreateOrder(ctx, bob,
		engine.Payment{Asset: btc, Amount: 51_000_000}, usdc, 10_000_000_000, 1_000)
	must(err)
	log.Printf("📋 Order %d: alice 20000 USDC -> 1 BTC | Order %d: bob 0.51 BTC -> 10000 USDC", id2, id3)

	must(eng.MatchOrders(ctx, matcher, id2, id3))

	a, _ := eng.OrderByID(ctx, id2)
	b, _ := eng.OrderByID(ctx, id3)
	log.Printf("🤝 MATCHED: A status=%s fulfilled=(%d,%d) | B status=%s fulfilled=(%d,%d)",
		a.Status, a.Fulfilled0, a.Fulfilled1, b.Status, b.Fulfilled0, b.Fulfilled1)
	log.Printf("💸 Matcher earned %d ETH", eng.State().Available(matcher, eth))

	// 5. 撤掉剩余的一半
	// -------------------------------------------------------------------------
	must(eng.CancelOrder(ctx, alice, id2))
	a, _ = eng.OrderByID(ctx, id2)
	log.Printf("🗑 Order %d canceled: refunded %d USDC", id2, a.Amount0-a.Fulfilled0)

	// 6. 成交分页
	// -------------------------------------------------------------------------
	for offset := uint64(0); ; offset += trade.PageSize {
		page, err := eng.Trades(ctx, offset)
		must(err)
		if len(page) == 0 {
			break
		}
		for _, t := range page {
			log.Printf("📜 Trade %d: kind=%d orders=(%d,%d) amount0=%d amount1=%d fee=%d",
				t.ID, t.Kind, t.OrderA, t.OrderB, t.Amount0, t.Amount1, t.FeePaid)
		}
	}

	// 7. 终态余额对账
	// -------------------------------------------------------------------------
	log.Printf("📊 alice: %d USDC, %d BTC-sats, %d ETH",
		eng.State().Available(alice, usdc),
		eng.State().Available(alice, btc),
		eng.State().Available(alice, eth))
	log.Printf("📊 bob:   %d USDC, %d BTC-sats, %d ETH",
		eng.State().Available(bob, usdc),
		eng.State().Available(bob, btc),
		eng.State().Available(bob, eth))
	log.Printf("📊 escrow USDC=%d BTC=%d (should be 0)",
		eng.State().Available(ledger.EscrowAccount, usdc),
		eng.State().Available(ledger.EscrowAccount, btc))

	// 8. 价格/数量组合矩阵
	// -------------------------------------------------------------------------
	if *runCases {
		runMatchMatrix(ctx)
	}

	log.Println("✅ Simulation finished")
}

// matrixCase 价格关系 × 数量关系 的一个组合
type matrixCase struct {
	name             string
	amount0A, amount1A uint64 // alice: USDC -> BTC
	amount0B, amount1B uint64 // bob:   BTC -> USDC
}

// runMatchMatrix 跑一遍撮合组合矩阵，每个用例用独立引擎
func runMatchMatrix(ctx context.Context) {
	log.Println("🧪 Running match matrix (price x quantity)...")

	cases := []matrixCase{
		{"price_a<price_b qty_a>qty_b", 20_000_000_000, 100_000_000, 51_000_000, 10_000_000_000},
		{"price_a<price_b qty_a==qty_b", 20_000_000_000, 100_000_000, 102_000_000, 20_000_000_000},
		{"price_a<price_b qty_a<qty_b", 10_000_000_000, 50_000_000, 102_000_000, 20_000_000_000},
		{"price_a==price_b qty_a>qty_b", 20_000_000_000, 100_000_000, 50_000_000, 10_000_000_000},
		{"price_a==price_b qty_a==qty_b", 20_000_000_000, 100_000_000, 100_000_000, 20_000_000_000},
		{"price_a==price_b qty_a<qty_b", 10_000_000_000, 50_000_000, 100_000_000, 20_000_000_000},
	}

	for i, c := range cases {
		e := engine.New(engine.DefaultConfig())

		mustFund(ctx, e, alice, usdc, c.amount0A)
		mustFund(ctx, e, alice, eth, 1_000)
		mustFund(ctx, e, bob, btc, c.amount0B)
		mustFund(ctx, e, bob, eth, 1_000)
		must(e.Deposit(ctx, alice, engine.Payment{Asset: eth, Amount: 1_000}))
		must(e.Deposit(ctx, bob, engine.Payment{Asset: eth, Amount: 1_000}))

		idA, err := e.CreateOrder(ctx, alice,
			engine.Payment{Asset: usdc, Amount: c.amount0A}, btc, c.amount1A, 1_000)
		must(err)
		idB, err := e.CreateOrder(ctx, bob,
			engine.Payment{Asset: btc, Amount: c.amount0B}, usdc, c.amount1B, 1_000)
		must(err)

		must(e.MatchOrders(ctx, matcher, idA, idB))

		a, _ := e.OrderByID(ctx, idA)
		b, _ := e.OrderByID(ctx, idB)
		log.Printf("  case %d [%s]: A=%s (%d,%d) | B=%s (%d,%d) | matcher fee=%d",
			i+1, c.name,
			a.Status, a.Fulfilled0, a.Fulfilled1,
			b.Status, b.Fulfilled0, b.Fulfilled1,
			e.State().Available(matcher, eth))
	}
}

func mustFund(ctx context.Context, e *engine.Engine, account ledger.AccountID, asset ledger.AssetID, amount uint64) {
	if err := e.FundAccount(ctx, account, asset, amount); err != nil {
		log.Fatalf("Fund account %d failed: %v", account, err)
	}
}

func must(err error) {
	if err != nil {
		log.Fatalf("Simulation step failed: %v", err)
	}
}
