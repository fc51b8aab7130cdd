// Package ledger defines the external ledger collaborator that anchors
// block hashes, plus a bbolt-backed local implementation.
package ledger

import (
	"context"
	"errors"
	"integrity-chain-go/common"
	"integrity-chain-go/database"
	"integrity-chain-go/hashing"
	"log"
	"time"

	"github.com/btcsuite/btcutil/base58"
	"github.com/google/uuid"
)

const (
	REF_SEPARATOR = "|"
)

var (
	ErrDisabled = errors.New("ledger: publication disabled")
	ErrNotFound = errors.New("ledger: anchor not found")
)

// Publisher records (recordID, recordType, hash) and returns an opaque
// transaction reference.
type Publisher interface {
	Publish(ctx context.Context, recordID, recordType, hash string) (string, error)
}

type Noop struct{}

func (Noop) Publish(ctx context.Context, recordID, recordType, hash string) (string, error) {
	return "", ErrDisabled
}

type Anchor struct {
	ID         uuid.UUID `json:"id"`
	RecordID   string    `json:"recordId"`
	RecordType string    `json:"recordType"`
	Hash       string    `json:"hash"`
	TxRef      string    `json:"txRef"`
	AnchoredAt time.Time `json:"anchoredAt"`
}

// LocalLedger anchors hashes in the anchors bucket of a Database.
type LocalLedger struct {
	db *database.Database
}

func NewLocalLedger(db *database.Database) *LocalLedger {
	return &LocalLedger{db: db}
}

func (l *LocalLedger) Publish(
	ctx context.Context, recordID, recordType, hash string,
) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	anchor := Anchor{
		ID:         uuid.New(),
		RecordID:   recordID,
		RecordType: recordType,
		Hash:       hash,
		AnchoredAt: time.Now().UTC(),
	}
	anchor.TxRef = base58.Encode(hashing.SHA3.Sum(
		[]byte(recordType), []byte(REF_SEPARATOR),
		[]byte(recordID), []byte(REF_SEPARATOR),
		[]byte(hash), []byte(REF_SEPARATOR),
		anchor.ID[:],
	))

	enc, err := common.Encode(anchor)
	if err != nil {
		return "", err
	}
	err = l.db.PutAnchor([]byte(anchor.TxRef), enc)
	if err != nil {
		return "", err
	}
	log.Printf("anchored %s %s\n tx: %s\n hash: %s", recordType, recordID, anchor.TxRef, hash)
	return anchor.TxRef, nil
}

func (l *LocalLedger) Lookup(txRef string) (*Anchor, error) {
	enc, err := l.db.GetAnchor([]byte(txRef))
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return common.Decode[Anchor](enc)
}
