package blocks

import (
	"integrity-chain-go/hashing"
	"time"
)

const (
	DIGEST_LENGTH = 64
	// kept byte-for-byte with chains already persisted by the ERP,
	// even though it is four characters longer than a digest
	GENESIS_PREVIOUS_HASH = "00000000000000000000000000000000000000000000000000000000000000000000"
	GENESIS_BLOCK_NUMBER  = 0
)

// HashInput is the exact structure that is serialized and hashed.
// Field order is part of the hash format.
type HashInput struct {
	BlockNumber  uint64      `json:"blockNumber"`
	Timestamp    int64       `json:"timestamp"`
	Data         interface{} `json:"data"`
	PreviousHash string      `json:"previousHash"`
	Nonce        uint32      `json:"nonce"`
}

type Block struct {
	BlockNumber     uint64      `json:"blockNumber"`
	Timestamp       time.Time   `json:"timestamp"`
	Data            interface{} `json:"data"`
	PreviousHash    string      `json:"previousHash"`
	Hash            string      `json:"hash"`
	Nonce           uint32      `json:"nonce"`
	RawHashInput    string      `json:"rawHashInput"`
	TransactionHash *string     `json:"transactionHash"`
}

func NewBlock(
	data interface{},
	previousHash string,
	blockNumber uint64,
	nonce uint32,
	now time.Time,
) (*Block, error) {
	// hash the stored shape of data, not the caller's
	normalized, err := hashing.Normalize(data)
	if err != nil {
		return nil, err
	}
	block := Block{
		BlockNumber:  blockNumber,
		Timestamp:    time.UnixMilli(now.UnixMilli()),
		Data:         normalized,
		PreviousHash: previousHash,
		Nonce:        nonce,
	}
	raw, err := block.CanonicalInput()
	if err != nil {
		return nil, err
	}
	block.RawHashInput = raw
	block.Hash = hashing.DigestString(raw)
	return &block, nil
}

func (b *Block) HashInput() HashInput {
	return HashInput{
		BlockNumber:  b.BlockNumber,
		Timestamp:    b.Timestamp.UnixMilli(),
		Data:         b.Data,
		PreviousHash: b.PreviousHash,
		Nonce:        b.Nonce,
	}
}

// CanonicalInput serializes the hashed fields as they currently stand.
func (b *Block) CanonicalInput() (string, error) {
	return hashing.Canonical(b.HashInput())
}

func (b *Block) IsGenesis() bool {
	return b.BlockNumber == GENESIS_BLOCK_NUMBER && b.PreviousHash == GENESIS_PREVIOUS_HASH
}

func (b *Block) IsAnchored() bool {
	return b.TransactionHash != nil
}
