package blockchain

import (
	"fmt"
	"integrity-chain-go/blocks"
	"integrity-chain-go/hashing"
	"log"
)

const (
	MSG_EMPTY_CHAIN  = "chain is empty"
	MSG_VALID_CHAIN  = "chain is valid"
	MSG_TAMPERED_FMT = "block %d has been tampered with"
	MSG_INVALID_PREV = "block %d has invalid previous hash"
)

// ChainReport describes the outcome of VerifyChain. Only the first
// violation is reported.
type ChainReport struct {
	IsValid      bool    `json:"isValid"`
	Message      string  `json:"message"`
	TotalBlocks  int     `json:"totalBlocks,omitempty"`
	BlockNumber  *uint64 `json:"blockNumber,omitempty"`
	ExpectedHash string  `json:"expectedHash,omitempty"`
	ActualHash   string  `json:"actualHash,omitempty"`
}

// VerifyBlock recomputes the hash from the block's stored fields.
func VerifyBlock(block *blocks.Block) bool {
	if block == nil || block.Hash == "" || block.PreviousHash == "" {
		return false
	}
	raw, err := block.CanonicalInput()
	if err != nil {
		log.Printf("block %d cannot be serialized: %v\n", block.BlockNumber, err)
		return false
	}
	if hashing.DigestString(raw) != block.Hash {
		return false
	}
	if block.RawHashInput != "" && hashing.DigestString(block.RawHashInput) != block.Hash {
		return false
	}
	return true
}

// VerifyChain walks blocks in the given order and stops at the first
// tampered block or broken link.
func VerifyChain(chain []*blocks.Block) ChainReport {
	if len(chain) == 0 {
		return ChainReport{IsValid: true, Message: MSG_EMPTY_CHAIN}
	}

	for i, block := range chain {
		if !VerifyBlock(block) {
			var number uint64
			if block != nil {
				number = block.BlockNumber
			}
			return ChainReport{
				IsValid:     false,
				Message:     fmt.Sprintf(MSG_TAMPERED_FMT, number),
				BlockNumber: &number,
			}
		}
		if i == 0 {
			continue
		}
		previous := chain[i-1]
		if block.PreviousHash != previous.Hash {
			number := block.BlockNumber
			return ChainReport{
				IsValid:      false,
				Message:      fmt.Sprintf(MSG_INVALID_PREV, number),
				BlockNumber:  &number,
				ExpectedHash: previous.Hash,
				ActualHash:   block.PreviousHash,
			}
		}
	}
	return ChainReport{IsValid: true, Message: MSG_VALID_CHAIN, TotalBlocks: len(chain)}
}
