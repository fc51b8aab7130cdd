package common

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

const (
	BLOCK_KEY_LENGTH = 8
)

var ErrBlockKey = errors.New("common: malformed block key")

// Encode writes the stored form of a record. HTML characters in payloads
// are kept as is so hashes over stored text match the originals.
func Encode(data interface{}) ([]byte, error) {
	buff := new(bytes.Buffer)
	encoder := json.NewEncoder(buff)
	encoder.SetEscapeHTML(false)
	err := encoder.Encode(data)
	if err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

// Decode is the inverse of Encode for stored records.
func Decode[T interface{}](bs []byte) (*T, error) {
	var data T
	decoder := json.NewDecoder(bytes.NewReader(bs))
	// numbers inside interface{} fields keep their literal text
	decoder.UseNumber()
	err := decoder.Decode(&data)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// BlockKey is the bucket key of a block number. Big-endian keeps bolt's
// byte order equal to numeric order.
func BlockKey(blockNumber uint64) []byte {
	key := make([]byte, BLOCK_KEY_LENGTH)
	binary.BigEndian.PutUint64(key, blockNumber)
	return key
}

func ParseBlockKey(key []byte) (uint64, error) {
	if len(key) != BLOCK_KEY_LENGTH {
		return 0, fmt.Errorf("%w: %d bytes", ErrBlockKey, len(key))
	}
	return binary.BigEndian.Uint64(key), nil
}

func FindAll[T interface{}](
	s []T, f func(e T) bool,
) []T {
	found := []T{}
	for _, elem := range s {
		if f(elem) {
			found = append(found, elem)
		}
	}
	return found
}

func ExistFile(name string) bool {
	_, err := os.Stat(name)
	return !os.IsNotExist(err)
}
