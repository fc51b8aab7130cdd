// Package records classifies block payloads into the record types the
// external ledger understands.
package records

import (
	"encoding/json"
	"log"
	"strconv"
)

type Kind byte

const (
	GENERIC Kind = iota + 1
	DOCUMENT_TRANSFER
	DELIVERY_PROOF
	VEHICLE_OWNERSHIP
)

const (
	TRANSFER_TOKEN_FIELD = "transferToken"
	POD_TOKEN_FIELD      = "podToken"
	VEHICLE_ID_FIELD     = "vehicleId"
	OWNER_ID_FIELD       = "ownerId"
)

func (k Kind) ToString() string {
	switch k {
	case GENERIC:
		return "GENERIC"
	case DOCUMENT_TRANSFER:
		return "DOCUMENT_TRANSFER"
	case DELIVERY_PROOF:
		return "DELIVERY_PROOF"
	case VEHICLE_OWNERSHIP:
		return "VEHICLE_OWNERSHIP"
	default:
		log.Panicf("unknown record kind %d", k)
	}
	return ""
}

type Record struct {
	Kind Kind
	ID   string
}

// Classify inspects well-known marker fields. The first match wins in the
// order transferToken, podToken, vehicleId+ownerId; anything else is GENERIC
// with an empty ID.
func Classify(data interface{}) Record {
	fields, ok := data.(map[string]interface{})
	if !ok {
		return Record{Kind: GENERIC}
	}
	if id, ok := marker(fields, TRANSFER_TOKEN_FIELD); ok {
		return Record{Kind: DOCUMENT_TRANSFER, ID: id}
	}
	if id, ok := marker(fields, POD_TOKEN_FIELD); ok {
		return Record{Kind: DELIVERY_PROOF, ID: id}
	}
	if id, ok := marker(fields, VEHICLE_ID_FIELD); ok {
		if _, owned := marker(fields, OWNER_ID_FIELD); owned {
			return Record{Kind: VEHICLE_OWNERSHIP, ID: id}
		}
	}
	return Record{Kind: GENERIC}
}

func marker(fields map[string]interface{}, name string) (string, bool) {
	switch v := fields[name].(type) {
	case string:
		return v, v != ""
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	default:
		return "", false
	}
}
