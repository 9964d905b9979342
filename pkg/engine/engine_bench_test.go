// 文件: pkg/engine/engine_bench_test.go
// 引擎性能基准

package engine

import (
	"context"
	"testing"

	"obx.com/pkg/ledger"
)

func BenchmarkCreateOrder(b *testing.B) {
	ctx := context.Background()
	e := New(Config{FeeAsset: eth})

	// 预充值: 每单 1000 USDC + 10 ETH 押金
	n := uint64(b.N)
	if err := e.FundAccount(ctx, alice, usdc, n*1_000); err != nil {
		b.Fatal(err)
	}
	if err := e.FundAccount(ctx, alice, eth, n*10); err != nil {
		b.Fatal(err)
	}
	if err := e.Deposit(ctx, alice, Payment{Asset: eth, Amount: n * 10}); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.CreateOrder(ctx, alice, Payment{Asset: usdc, Amount: 1_000}, btc, 100, 10); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFulfillOrder(b *testing.B) {
	ctx := context.Background()
	e := New(Config{FeeAsset: eth})

	n := uint64(b.N)
	if err := e.FundAccount(ctx, alice, usdc, n*1_000); err != nil {
		b.Fatal(err)
	}
	if err := e.FundAccount(ctx, bob, btc, n*100); err != nil {
		b.Fatal(err)
	}

	ids := make([]uint64, b.N)
	for i := range ids {
		id, err := e.CreateOrder(ctx, alice, Payment{Asset: usdc, Amount: 1_000}, btc, 100, 0)
		if err != nil {
			b.Fatal(err)
		}
		ids[i] = id
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := e.FulfillOrder(ctx, bob, ids[i], Payment{Asset: btc, Amount: 100}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMatchOrders(b *testing.B) {
	ctx := context.Background()
	e := New(Config{FeeAsset: eth})

	n := uint64(b.N)
	if err := e.FundAccount(ctx, alice, usdc, n*1_000); err != nil {
		b.Fatal(err)
	}
	if err := e.FundAccount(ctx, bob, btc, n*100); err != nil {
		b.Fatal(err)
	}

	type pair struct{ a, b uint64 }
	pairs := make([]pair, b.N)
	for i := range pairs {
		idA, err := e.CreateOrder(ctx, alice, Payment{Asset: usdc, Amount: 1_000}, btc, 100, 0)
		if err != nil {
			b.Fatal(err)
		}
		idB, err := e.CreateOrder(ctx, bob, Payment{Asset: btc, Amount: 100}, usdc, 1_000, 0)
		if err != nil {
			b.Fatal(err)
		}
		pairs[i] = pair{idA, idB}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := e.MatchOrders(ctx, matcher, pairs[i].a, pairs[i].b); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLedgerTxn(b *testing.B) {
	st := ledger.NewState()
	txn := st.Begin()
	if err := txn.Credit(alice, usdc, uint64(b.N)); err != nil {
		b.Fatal(err)
	}
	txn.Commit()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		txn := st.Begin()
		if err := txn.Transfer(alice, bob, usdc, 1); err != nil {
			b.Fatal(err)
		}
		txn.Commit()
	}
}
