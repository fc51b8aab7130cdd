package database

import (
	"errors"
	"fmt"
	"integrity-chain-go/blocks"
	"integrity-chain-go/common"
	"log"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	CHAINS_BUCKET  = "chains"
	TIPS_BUCKET    = "tips"
	ANCHORS_BUCKET = "anchors"
	OPEN_TIMEOUT   = time.Second
)

var (
	ErrNotFound    = errors.New("database: not found")
	ErrBlockExists = errors.New("database: block number already stored")
	ErrEmptyChain  = errors.New("database: empty chain id")

	ErrMisplacedBlock = errors.New("database: block stored under another number")
)

// Database is the persistence collaborator. Blocks live in one nested
// bucket per chain id, keyed by big-endian block number.
type Database struct {
	innerDb *bolt.DB
}

// Entry pairs a stored block with the chain it belongs to.
type Entry struct {
	ChainID string
	Block   *blocks.Block
}

func Open(path string) (*Database, error) {
	existed := common.ExistFile(path)
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: OPEN_TIMEOUT})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{CHAINS_BUCKET, TIPS_BUCKET, ANCHORS_BUCKET} {
			_, err := tx.CreateBucketIfNotExists([]byte(name))
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	if existed {
		log.Printf("found existing database at %s\n", path)
	} else {
		log.Printf("database at %s is created\n", path)
	}
	return &Database{db}, nil
}

func (db *Database) Close() error {
	return db.innerDb.Close()
}

func (db *Database) PutBlock(chainID string, block *blocks.Block) error {
	if chainID == "" {
		return ErrEmptyChain
	}
	return db.innerDb.Update(func(tx *bolt.Tx) error {
		chains := tx.Bucket([]byte(CHAINS_BUCKET))
		c, err := chains.CreateBucketIfNotExists([]byte(chainID))
		if err != nil {
			return err
		}
		h := common.BlockKey(block.BlockNumber)
		if c.Get(h) != nil {
			return fmt.Errorf(
				"%w: chain %s block %d", ErrBlockExists, chainID, block.BlockNumber,
			)
		}
		enc, err := common.Encode(block)
		if err != nil {
			return err
		}
		err = c.Put(h, enc)
		if err != nil {
			return err
		}

		// shortcut for latest
		return tx.Bucket([]byte(TIPS_BUCKET)).Put([]byte(chainID), []byte(block.Hash))
	})
}

func (db *Database) GetBlock(chainID string, blockNumber uint64) (*blocks.Block, error) {
	var enc []byte
	err := db.innerDb.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(CHAINS_BUCKET)).Bucket([]byte(chainID))
		if c == nil {
			return nil
		}
		enc = copyBytes(c.Get(common.BlockKey(blockNumber)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, ErrNotFound
	}
	return common.Decode[blocks.Block](enc)
}

// GetChain returns the chain in ascending block number. An unknown chain
// is an empty slice.
func (db *Database) GetChain(chainID string) ([]*blocks.Block, error) {
	var keys, raw [][]byte
	err := db.innerDb.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(CHAINS_BUCKET)).Bucket([]byte(chainID))
		if c == nil {
			return nil
		}
		return c.ForEach(func(k, v []byte) error {
			keys = append(keys, copyBytes(k))
			raw = append(raw, copyBytes(v))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return decodeAll(keys, raw)
}

// GetLatest returns the block with the highest number, or nil for an
// unknown chain.
func (db *Database) GetLatest(chainID string) (*blocks.Block, error) {
	var enc []byte
	err := db.innerDb.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(CHAINS_BUCKET)).Bucket([]byte(chainID))
		if c == nil {
			return nil
		}
		_, v := c.Cursor().Last()
		enc = copyBytes(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, nil
	}
	return common.Decode[blocks.Block](enc)
}

func (db *Database) GetTip(chainID string) (string, error) {
	var tip []byte
	err := db.innerDb.View(func(tx *bolt.Tx) error {
		tip = copyBytes(tx.Bucket([]byte(TIPS_BUCKET)).Get([]byte(chainID)))
		return nil
	})
	if err != nil {
		return "", err
	}
	if tip == nil {
		return "", ErrNotFound
	}
	return string(tip), nil
}

func (db *Database) ListChains() ([]string, error) {
	ids := []string{}
	err := db.innerDb.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(CHAINS_BUCKET)).ForEach(func(k, v []byte) error {
			// nested buckets report a nil value
			if v == nil {
				ids = append(ids, string(k))
			}
			return nil
		})
	})
	return ids, err
}

// SetTransactionHash stores the ledger reference of a block. The reference
// is not part of the hashed fields.
func (db *Database) SetTransactionHash(chainID string, blockNumber uint64, ref string) error {
	return db.innerDb.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(CHAINS_BUCKET)).Bucket([]byte(chainID))
		if c == nil {
			return ErrNotFound
		}
		h := common.BlockKey(blockNumber)
		enc := c.Get(h)
		if enc == nil {
			return ErrNotFound
		}
		block, err := common.Decode[blocks.Block](enc)
		if err != nil {
			return err
		}
		block.TransactionHash = &ref
		enc, err = common.Encode(block)
		if err != nil {
			return err
		}
		return c.Put(h, enc)
	})
}

func (db *Database) FindUnanchored() ([]Entry, error) {
	ids, err := db.ListChains()
	if err != nil {
		return nil, err
	}
	entries := []Entry{}
	for _, id := range ids {
		chain, err := db.GetChain(id)
		if err != nil {
			return nil, err
		}
		pending := common.FindAll(chain, func(b *blocks.Block) bool {
			return !b.IsAnchored()
		})
		for _, b := range pending {
			entries = append(entries, Entry{ChainID: id, Block: b})
		}
	}
	return entries, nil
}

func (db *Database) PutAnchor(key []byte, enc []byte) error {
	return db.innerDb.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(ANCHORS_BUCKET)).Put(key, enc)
	})
}

func (db *Database) GetAnchor(key []byte) ([]byte, error) {
	var enc []byte
	err := db.innerDb.View(func(tx *bolt.Tx) error {
		enc = copyBytes(tx.Bucket([]byte(ANCHORS_BUCKET)).Get(key))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, ErrNotFound
	}
	return enc, nil
}

// decodeAll rejects a block stored under another number's key, since
// ordering and latest lookups trust the keys.
func decodeAll(keys, raw [][]byte) ([]*blocks.Block, error) {
	chain := make([]*blocks.Block, 0, len(raw))
	for i, enc := range raw {
		number, err := common.ParseBlockKey(keys[i])
		if err != nil {
			return nil, err
		}
		block, err := common.Decode[blocks.Block](enc)
		if err != nil {
			return nil, err
		}
		if block.BlockNumber != number {
			return nil, fmt.Errorf(
				"%w: key %d holds block %d", ErrMisplacedBlock, number, block.BlockNumber,
			)
		}
		chain = append(chain, block)
	}
	return chain, nil
}

// bolt values are only valid inside the transaction
func copyBytes(v []byte) []byte {
	if v == nil {
		return nil
	}
	return append([]byte{}, v...)
}
