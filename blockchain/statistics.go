package blockchain

import "integrity-chain-go/blocks"

// Statistics summarizes a chain. Times are in milliseconds.
type Statistics struct {
	TotalBlocks      int           `json:"totalBlocks"`
	FirstBlock       *blocks.Block `json:"firstBlock"`
	LastBlock        *blocks.Block `json:"lastBlock"`
	TotalTimespan    int64         `json:"totalTimespan"`
	AverageBlockTime float64       `json:"averageBlockTime"`
}

func GetChainStatistics(chain []*blocks.Block) Statistics {
	if len(chain) == 0 {
		return Statistics{}
	}
	first := chain[0]
	last := chain[len(chain)-1]
	stats := Statistics{
		TotalBlocks:   len(chain),
		FirstBlock:    first,
		LastBlock:     last,
		TotalTimespan: last.Timestamp.UnixMilli() - first.Timestamp.UnixMilli(),
	}
	if len(chain) > 1 {
		stats.AverageBlockTime = float64(stats.TotalTimespan) / float64(len(chain)-1)
	}
	return stats
}
