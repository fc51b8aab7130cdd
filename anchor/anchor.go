// Package anchor retries ledger publication for stored blocks that have no
// transaction reference yet.
package anchor

import (
	"context"
	"integrity-chain-go/blockchain"
	"integrity-chain-go/database"
	"integrity-chain-go/epoch"
	"integrity-chain-go/memory"
	"log"
	"time"
)

type Anchorer struct {
	engine *blockchain.Engine
	db     *database.Database
	pool   *memory.Pool
}

func NewAnchorer(engine *blockchain.Engine, db *database.Database) *Anchorer {
	return &Anchorer{
		engine: engine,
		db:     db,
		pool:   memory.NewPool(),
	}
}

func (a *Anchorer) Pending() int {
	return a.pool.Len()
}

// Load queues every stored block that is not anchored.
func (a *Anchorer) Load() error {
	entries, err := a.db.FindUnanchored()
	if err != nil {
		return err
	}
	added := 0
	for _, e := range entries {
		if a.pool.Contains(e.Block) {
			continue
		}
		a.pool.Append(e.ChainID, e.Block)
		added++
	}
	if added > 0 {
		log.Printf("%d blocks waiting for anchoring\n", a.pool.Len())
	}
	return nil
}

// Flush publishes pending blocks oldest first. Blocks whose publication
// fails stay queued for the next flush.
func (a *Anchorer) Flush(ctx context.Context) (int, error) {
	anchored := 0
	for _, p := range a.pool.GetAll() {
		if err := ctx.Err(); err != nil {
			return anchored, err
		}
		ref, err := a.engine.PublishToLedger(ctx, p.Block)
		if err != nil {
			log.Printf(
				"anchoring block %d of %s failed, keeping it queued: %v\n",
				p.Block.BlockNumber, p.ChainID, err,
			)
			continue
		}
		err = a.db.SetTransactionHash(p.ChainID, p.Block.BlockNumber, ref)
		if err != nil {
			return anchored, err
		}
		a.pool.Remove(p.Block)
		anchored++
	}
	return anchored, nil
}

// Run reloads unanchored blocks and flushes them every interval until ctx
// ends, so blocks stored after the sweep started are picked up too.
func (a *Anchorer) Run(ctx context.Context, interval time.Duration) error {
	err := a.Load()
	if err != nil {
		return err
	}
	e := epoch.NewEpoch(func() {
		err := a.Load()
		if err != nil {
			log.Printf("loading unanchored blocks failed: %v\n", err)
			return
		}
		n, err := a.Flush(ctx)
		if err != nil {
			log.Printf("anchoring sweep stopped: %v\n", err)
			return
		}
		if n > 0 {
			log.Printf("anchored %d blocks, %d still pending\n", n, a.pool.Len())
		}
	}, interval)
	go func() {
		e.Trigger()
	}()
	e.StartEpochRoutine(ctx)
	return nil
}
