package blockchain

import (
	"context"
	"integrity-chain-go/blocks"
	"integrity-chain-go/database"
	"log"
	"sync"
)

// Blockchain is the write/read path for chains kept in a Database, one
// chain per grouping key such as a shipment or vehicle id.
type Blockchain struct {
	sync.Mutex
	*Engine
	db *database.Database
}

func NewBlockchain(engine *Engine, db *database.Database) *Blockchain {
	return &Blockchain{
		Engine: engine,
		db:     db,
	}
}

// Append links data to the tip of chainID, starting the chain with a
// genesis block when it is empty.
func (bc *Blockchain) Append(
	ctx context.Context, chainID string, data interface{},
) (*blocks.Block, error) {
	bc.Lock()
	defer bc.Unlock()

	latest, err := bc.db.GetLatest(chainID)
	if err != nil {
		return nil, err
	}

	var block *blocks.Block
	if latest == nil {
		block, err = bc.CreateGenesisBlock(ctx, data)
	} else {
		block, err = bc.CreateBlock(ctx, data, latest.Hash, latest.BlockNumber+1)
	}
	if err != nil {
		return nil, err
	}

	err = bc.db.PutBlock(chainID, block)
	if err != nil {
		return nil, err
	}
	log.Printf(
		"appended block %d to %s\n hash: %s",
		block.BlockNumber, chainID, block.Hash,
	)
	return block, nil
}

func (bc *Blockchain) Chain(chainID string) ([]*blocks.Block, error) {
	return bc.db.GetChain(chainID)
}

func (bc *Blockchain) Verify(chainID string) (ChainReport, error) {
	chain, err := bc.db.GetChain(chainID)
	if err != nil {
		return ChainReport{}, err
	}
	report := VerifyChain(chain)
	if !report.IsValid {
		log.Printf("chain %s failed verification: %s\n", chainID, report.Message)
	}
	return report, nil
}

func (bc *Blockchain) Statistics(chainID string) (Statistics, error) {
	chain, err := bc.db.GetChain(chainID)
	if err != nil {
		return Statistics{}, err
	}
	return GetChainStatistics(chain), nil
}
