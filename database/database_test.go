package database

import (
	"errors"
	"integrity-chain-go/blocks"
	"integrity-chain-go/common"
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"
)

func openTemp(t *testing.T) *Database {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "integrity.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustBlock(t *testing.T, n uint64, prev string) *blocks.Block {
	t.Helper()
	b, err := blocks.NewBlock(map[string]interface{}{"seq": float64(n)}, prev, n, uint32(n), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestPutAndGetChain(t *testing.T) {
	db := openTemp(t)
	genesis := mustBlock(t, 0, blocks.GENESIS_PREVIOUS_HASH)
	second := mustBlock(t, 1, genesis.Hash)
	third := mustBlock(t, 2, second.Hash)

	// insertion order does not matter for retrieval
	for _, b := range []*blocks.Block{genesis, third, second} {
		if err := db.PutBlock("SHP-1", b); err != nil {
			t.Fatalf("put %d: %v", b.BlockNumber, err)
		}
	}

	chain, err := db.GetChain("SHP-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(chain) != 3 {
		t.Fatalf("want 3 blocks, got %d", len(chain))
	}
	for i, b := range chain {
		if b.BlockNumber != uint64(i) {
			t.Errorf("position %d holds block %d", i, b.BlockNumber)
		}
	}
	if chain[1].RawHashInput != second.RawHashInput || chain[1].Hash != second.Hash {
		t.Error("stored block fields changed")
	}

	latest, err := db.GetLatest("SHP-1")
	if err != nil {
		t.Fatal(err)
	}
	if latest.BlockNumber != 2 {
		t.Errorf("latest: %d", latest.BlockNumber)
	}
	tip, err := db.GetTip("SHP-1")
	if err != nil {
		t.Fatal(err)
	}
	if tip != second.Hash {
		// tip follows the last write, not the highest number
		t.Errorf("tip: %s", tip)
	}
}

func TestPutBlockRejectsDuplicateNumber(t *testing.T) {
	db := openTemp(t)
	if err := db.PutBlock("V-1", mustBlock(t, 0, blocks.GENESIS_PREVIOUS_HASH)); err != nil {
		t.Fatal(err)
	}
	err := db.PutBlock("V-1", mustBlock(t, 0, blocks.GENESIS_PREVIOUS_HASH))
	if !errors.Is(err, ErrBlockExists) {
		t.Fatalf("want ErrBlockExists, got %v", err)
	}
	if err := db.PutBlock("", mustBlock(t, 0, "x")); !errors.Is(err, ErrEmptyChain) {
		t.Fatalf("want ErrEmptyChain, got %v", err)
	}
}

func TestUnknownChain(t *testing.T) {
	db := openTemp(t)
	chain, err := db.GetChain("missing")
	if err != nil || len(chain) != 0 {
		t.Fatalf("GetChain: %v %v", chain, err)
	}
	latest, err := db.GetLatest("missing")
	if err != nil || latest != nil {
		t.Fatalf("GetLatest: %v %v", latest, err)
	}
	if _, err := db.GetBlock("missing", 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetBlock: %v", err)
	}
	if _, err := db.GetTip("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetTip: %v", err)
	}
}

func TestSetTransactionHashAndFindUnanchored(t *testing.T) {
	db := openTemp(t)
	a := mustBlock(t, 0, blocks.GENESIS_PREVIOUS_HASH)
	b := mustBlock(t, 1, a.Hash)
	if err := db.PutBlock("DOC-1", a); err != nil {
		t.Fatal(err)
	}
	if err := db.PutBlock("DOC-1", b); err != nil {
		t.Fatal(err)
	}
	if err := db.PutBlock("DOC-2", mustBlock(t, 0, blocks.GENESIS_PREVIOUS_HASH)); err != nil {
		t.Fatal(err)
	}

	pending, err := db.FindUnanchored()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 3 {
		t.Fatalf("want 3 pending, got %d", len(pending))
	}

	if err := db.SetTransactionHash("DOC-1", 0, "ref-1"); err != nil {
		t.Fatal(err)
	}
	stored, err := db.GetBlock("DOC-1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if stored.TransactionHash == nil || *stored.TransactionHash != "ref-1" {
		t.Fatalf("transaction hash not stored: %v", stored.TransactionHash)
	}
	if stored.Hash != a.Hash {
		t.Fatal("anchoring must not change the block hash")
	}

	pending, err = db.FindUnanchored()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 {
		t.Fatalf("want 2 pending, got %d", len(pending))
	}
	if err := db.SetTransactionHash("DOC-9", 0, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	ids, err := db.ListChains()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "DOC-1" || ids[1] != "DOC-2" {
		t.Fatalf("ListChains: %v", ids)
	}
}

func TestReopenKeepsBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "integrity.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.PutBlock("SHP-9", mustBlock(t, 0, blocks.GENESIS_PREVIOUS_HASH)); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	chain, err := db.GetChain("SHP-9")
	if err != nil || len(chain) != 1 {
		t.Fatalf("reopened chain: %v %v", chain, err)
	}
}

func TestAnchors(t *testing.T) {
	db := openTemp(t)
	if _, err := db.GetAnchor([]byte("nope")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := db.PutAnchor([]byte("k"), []byte("v")); err != nil {
		t.Fatal(err)
	}
	v, err := db.GetAnchor([]byte("k"))
	if err != nil || string(v) != "v" {
		t.Fatalf("GetAnchor: %s %v", v, err)
	}
}

func TestGetChainRejectsMisplacedBlock(t *testing.T) {
	db := openTemp(t)
	if err := db.PutBlock("SHP-4", mustBlock(t, 0, blocks.GENESIS_PREVIOUS_HASH)); err != nil {
		t.Fatal(err)
	}
	stray, err := common.Encode(mustBlock(t, 7, "x"))
	if err != nil {
		t.Fatal(err)
	}
	err = db.innerDb.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(CHAINS_BUCKET)).Bucket([]byte("SHP-4"))
		return c.Put(common.BlockKey(1), stray)
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.GetChain("SHP-4"); !errors.Is(err, ErrMisplacedBlock) {
		t.Fatalf("want ErrMisplacedBlock, got %v", err)
	}
}
