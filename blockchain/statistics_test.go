package blockchain

import (
	"integrity-chain-go/blocks"
	"testing"
	"time"
)

func TestGetChainStatisticsEmpty(t *testing.T) {
	stats := GetChainStatistics(nil)
	if stats.TotalBlocks != 0 || stats.FirstBlock != nil || stats.LastBlock != nil ||
		stats.TotalTimespan != 0 || stats.AverageBlockTime != 0 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestGetChainStatistics(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	chain := []*blocks.Block{}
	prev := blocks.GENESIS_PREVIOUS_HASH
	for i, offset := range []time.Duration{0, 1500 * time.Millisecond, 6 * time.Second} {
		b, err := blocks.NewBlock(i, prev, uint64(i), 0, start.Add(offset))
		if err != nil {
			t.Fatal(err)
		}
		chain = append(chain, b)
		prev = b.Hash
	}

	stats := GetChainStatistics(chain)
	if stats.TotalBlocks != 3 || stats.FirstBlock != chain[0] || stats.LastBlock != chain[2] {
		t.Fatalf("stats: %+v", stats)
	}
	if stats.TotalTimespan != 6000 {
		t.Fatalf("timespan: %d", stats.TotalTimespan)
	}
	if stats.AverageBlockTime != 3000 {
		t.Fatalf("average: %v", stats.AverageBlockTime)
	}
}

func TestGetChainStatisticsSingleBlock(t *testing.T) {
	b, err := blocks.NewBlock("x", blocks.GENESIS_PREVIOUS_HASH, 0, 0, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	stats := GetChainStatistics([]*blocks.Block{b})
	if stats.TotalBlocks != 1 || stats.TotalTimespan != 0 || stats.AverageBlockTime != 0 {
		t.Fatalf("stats: %+v", stats)
	}
}
