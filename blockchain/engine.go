package blockchain

import (
	"context"
	"errors"
	"integrity-chain-go/blocks"
	"integrity-chain-go/ledger"
	"integrity-chain-go/records"
	"integrity-chain-go/tokens"
	"log"
	"time"
)

const (
	DEFAULT_PUBLISH_TIMEOUT = 5 * time.Second
)

// Engine builds hashed, linked blocks. Ledger publication is a separate,
// optional step and never affects the validity of a block.
type Engine struct {
	publisher ledger.Publisher
	timeout   time.Duration
	now       func() time.Time
}

func NewEngine(publisher ledger.Publisher, timeout time.Duration) *Engine {
	if publisher == nil {
		publisher = ledger.Noop{}
	}
	if timeout <= 0 {
		timeout = DEFAULT_PUBLISH_TIMEOUT
	}
	return &Engine{
		publisher: publisher,
		timeout:   timeout,
		now:       time.Now,
	}
}

// CreateBlockLocal computes a block without touching the ledger. It only
// fails when data cannot be serialized or randomness is unavailable.
func (e *Engine) CreateBlockLocal(
	data interface{}, previousHash string, blockNumber uint64,
) (*blocks.Block, error) {
	nonce, err := tokens.GenerateNonce()
	if err != nil {
		return nil, err
	}
	return blocks.NewBlock(data, previousHash, blockNumber, nonce, e.now())
}

// PublishToLedger anchors an existing block and returns the ledger
// reference. Blocks without a recognizable record are published under
// their own hash.
func (e *Engine) PublishToLedger(ctx context.Context, block *blocks.Block) (string, error) {
	if block == nil || block.Hash == "" {
		return "", errors.New("blockchain: cannot publish block without hash")
	}
	record := records.Classify(block.Data)
	recordID := record.ID
	if recordID == "" {
		recordID = block.Hash
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.publisher.Publish(ctx, recordID, record.Kind.ToString(), block.Hash)
}

// CreateBlock builds a block and then tries to anchor it. A ledger failure
// is logged and leaves TransactionHash nil.
func (e *Engine) CreateBlock(
	ctx context.Context, data interface{}, previousHash string, blockNumber uint64,
) (*blocks.Block, error) {
	block, err := e.CreateBlockLocal(data, previousHash, blockNumber)
	if err != nil {
		return nil, err
	}

	ref, err := e.PublishToLedger(ctx, block)
	if err != nil {
		if !errors.Is(err, ledger.ErrDisabled) {
			log.Printf(
				"ledger publication failed for block %d:\n %s\n %v",
				block.BlockNumber, block.Hash, err,
			)
		}
		return block, nil
	}
	block.TransactionHash = &ref
	return block, nil
}

func (e *Engine) CreateGenesisBlock(ctx context.Context, data interface{}) (*blocks.Block, error) {
	return e.CreateBlock(ctx, data, blocks.GENESIS_PREVIOUS_HASH, blocks.GENESIS_BLOCK_NUMBER)
}
