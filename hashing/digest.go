package hashing

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"hash"
	"log"
	"strings"

	"golang.org/x/crypto/sha3"
)

type Hasher byte

const (
	SHA256 Hasher = iota + 1
	SHA3
)

func (h Hasher) New() hash.Hash {
	switch h {
	case SHA256:
		return sha256.New()
	case SHA3:
		return sha3.New256()
	default:
		log.Panicf("unknown hasher %d", h)
	}
	return nil
}

func (h Hasher) ToString() string {
	switch h {
	case SHA256:
		return "sha256"
	case SHA3:
		return "sha3-256"
	default:
		log.Panicf("unknown hasher %d", h)
	}
	return ""
}

// Sum hashes the concatenation of parts.
func (h Hasher) Sum(parts ...[]byte) []byte {
	inner := h.New()
	for _, p := range parts {
		inner.Write(p)
	}
	return inner.Sum(nil)
}

func (h Hasher) HexSum(parts ...[]byte) string {
	return hex.EncodeToString(h.Sum(parts...))
}

// DigestString hashes the bytes of s with SHA-256 and returns lowercase hex.
func DigestString(s string) string {
	return SHA256.HexSum([]byte(s))
}

// Digest hashes a string directly and anything else through its canonical
// JSON text.
func Digest(value interface{}) (string, error) {
	if s, ok := value.(string); ok {
		return DigestString(s), nil
	}
	canonical, err := Canonical(value)
	if err != nil {
		return "", err
	}
	return DigestString(canonical), nil
}

// Canonical renders value as compact JSON without HTML escaping.
// Struct fields keep declaration order and map keys are sorted; pass the
// result of Normalize when the value has to survive a storage round-trip.
func Canonical(value interface{}) (string, error) {
	buff := new(bytes.Buffer)
	encoder := json.NewEncoder(buff)
	encoder.SetEscapeHTML(false)
	err := encoder.Encode(value)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(buff.String(), "\n"), nil
}

// Normalize converts value into the shape it has after a JSON round-trip:
// objects become maps with sorted keys and numbers stay json.Number
// literals, so the canonical text of the result never changes on reload.
func Normalize(value interface{}) (interface{}, error) {
	canonical, err := Canonical(value)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(strings.NewReader(canonical))
	decoder.UseNumber()
	var normalized interface{}
	err = decoder.Decode(&normalized)
	if err != nil {
		return nil, err
	}
	return normalized, nil
}
