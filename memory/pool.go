package memory

import (
	"encoding/hex"
	"integrity-chain-go/blocks"
	"log"
	"sync"

	"github.com/btcsuite/btcutil/base58"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Pending is a stored block still waiting for a ledger reference.
type Pending struct {
	ChainID string
	Block   *blocks.Block
}

// Pool holds blocks awaiting publication, keyed by their hash.
type Pool struct {
	sync.Mutex
	pool map[string]Pending
}

func NewPool() *Pool {
	return &Pool{
		pool: map[string]Pending{},
	}
}

// Key encodes a hex block hash as base58; non-hex hashes are used as is.
func Key(block *blocks.Block) string {
	raw, err := hex.DecodeString(block.Hash)
	if err != nil {
		return block.Hash
	}
	return base58.Encode(raw)
}

func (p *Pool) Len() int {
	p.Lock()
	defer p.Unlock()
	return len(p.pool)
}

func (p *Pool) Contains(block *blocks.Block) bool {
	p.Lock()
	defer p.Unlock()
	_, ok := p.pool[Key(block)]
	return ok
}

func (p *Pool) Append(chainID string, block *blocks.Block) {
	p.Lock()
	defer p.Unlock()
	key := Key(block)
	_, ok := p.pool[key]
	if ok {
		log.Printf("block is already pending, skipping:\n%s\n", key)
		return
	}
	p.pool[key] = Pending{ChainID: chainID, Block: block}
}

// GetAll returns pending entries oldest first.
func (p *Pool) GetAll() []Pending {
	p.Lock()
	defer p.Unlock()
	all := maps.Values(p.pool)
	slices.SortFunc(all, func(a, b Pending) bool {
		if a.Block.Timestamp.Equal(b.Block.Timestamp) {
			return a.Block.BlockNumber < b.Block.BlockNumber
		}
		return a.Block.Timestamp.Before(b.Block.Timestamp)
	})
	return all
}

func (p *Pool) Remove(block *blocks.Block) {
	p.Lock()
	defer p.Unlock()
	delete(p.pool, Key(block))
}
