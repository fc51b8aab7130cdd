// Package proofs binds payloads to points in time (proof of existence) and
// to Merkle roots over ad hoc data sets.
package proofs

import (
	"integrity-chain-go/hashing"
	"log"
	"time"
)

// Proof binds a payload's digest to the millisecond it was attested.
type Proof struct {
	Hash      string `json:"hash"`
	Timestamp int64  `json:"timestamp"`
	DataHash  string `json:"dataHash"`
}

type attestation struct {
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

func GenerateProof(data interface{}) (*Proof, error) {
	dataHash, err := hashing.Digest(data)
	if err != nil {
		return nil, err
	}
	timestamp := time.Now().UnixMilli()
	hash, err := hashing.Digest(attestation{Data: data, Timestamp: timestamp})
	if err != nil {
		return nil, err
	}
	return &Proof{Hash: hash, Timestamp: timestamp, DataHash: dataHash}, nil
}

// VerifyProof fails closed on an incomplete proof; both the data digest and
// the timestamp binding must match. A zero Timestamp is the value a proof
// decoded without its timestamp field carries, so it counts as missing.
func VerifyProof(data interface{}, proof *Proof) bool {
	if proof == nil || proof.Hash == "" || proof.DataHash == "" || proof.Timestamp == 0 {
		return false
	}
	dataHash, err := hashing.Digest(data)
	if err != nil || dataHash != proof.DataHash {
		return false
	}
	hash, err := hashing.Digest(attestation{Data: data, Timestamp: proof.Timestamp})
	if err != nil {
		return false
	}
	return hash == proof.Hash
}

// Step is one sibling on the path from a leaf to the root. Left reports
// whether the sibling sits on the left of the running hash.
type Step struct {
	Hash string `json:"hash"`
	Left bool   `json:"left"`
}

type MerkleProof struct {
	MerkleRoot string `json:"merkleRoot"`
	Index      int    `json:"index"`
	ItemHash   string `json:"itemHash"`
	TotalItems int    `json:"totalItems"`
	Siblings   []Step `json:"siblings"`
}

// CreateMerkleProof returns nil for a nil data set, an out-of-range index
// or an item that cannot be serialized.
func CreateMerkleProof(dataSet []interface{}, index int) *MerkleProof {
	if dataSet == nil || index < 0 || index >= len(dataSet) {
		return nil
	}
	hashes := make([]string, 0, len(dataSet))
	for i, item := range dataSet {
		h, err := hashing.Digest(item)
		if err != nil {
			log.Printf("merkle proof: item %d cannot be hashed: %v\n", i, err)
			return nil
		}
		hashes = append(hashes, h)
	}

	siblings := []Step{}
	level := hashes
	idx := index
	for len(level) > 1 {
		sibling := idx ^ 1
		if sibling >= len(level) {
			// odd tail is paired with itself
			sibling = idx
		}
		siblings = append(siblings, Step{Hash: level[sibling], Left: idx%2 == 1})
		level = hashing.NextLevel(level)
		idx /= 2
	}

	return &MerkleProof{
		MerkleRoot: level[0],
		Index:      index,
		ItemHash:   hashes[index],
		TotalItems: len(dataSet),
		Siblings:   siblings,
	}
}

// VerifyMerkleProof recomputes the root from the item hash and the sibling
// path. The path must have exactly one step per level of a tree over
// TotalItems leaves, and every step must sit where Index puts it.
func VerifyMerkleProof(proof *MerkleProof) bool {
	if proof == nil || proof.ItemHash == "" || proof.MerkleRoot == "" {
		return false
	}
	if proof.Index < 0 || proof.Index >= proof.TotalItems {
		return false
	}
	running := proof.ItemHash
	idx := proof.Index
	depth := 0
	for width := proof.TotalItems; width > 1; width = (width + 1) / 2 {
		if depth >= len(proof.Siblings) {
			return false
		}
		step := proof.Siblings[depth]
		if step.Left != (idx%2 == 1) {
			return false
		}
		// odd tail is paired with itself
		if idx == width-1 && width%2 == 1 && step.Hash != running {
			return false
		}
		if step.Left {
			running = hashing.HashPair(step.Hash, running)
		} else {
			running = hashing.HashPair(running, step.Hash)
		}
		idx /= 2
		depth++
	}
	if depth != len(proof.Siblings) {
		return false
	}
	return running == proof.MerkleRoot
}

// VerifyItem checks that item is the element a proof was issued for.
func VerifyItem(item interface{}, proof *MerkleProof) bool {
	if proof == nil {
		return false
	}
	h, err := hashing.Digest(item)
	if err != nil {
		return false
	}
	return h == proof.ItemHash && VerifyMerkleProof(proof)
}
