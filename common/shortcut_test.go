package common

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"testing/quick"
)

type sample struct {
	Name  string
	Count int
}

func TestEncodeDecode(t *testing.T) {
	enc, err := Encode(sample{"a<b", 3})
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode[sample](enc)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "a<b" || got.Count != 3 {
		t.Fatalf("decoded %+v", got)
	}
}

func TestBlockKeysKeepOrder(t *testing.T) {
	f := func(n uint64) bool {
		key := BlockKey(n)
		if len(key) != BLOCK_KEY_LENGTH {
			return false
		}
		back, err := ParseBlockKey(key)
		return err == nil && back == n
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
	if string(BlockKey(2)) >= string(BlockKey(256)) {
		t.Fatal("big-endian keys must sort numerically")
	}
	if _, err := ParseBlockKey([]byte("tip")); !errors.Is(err, ErrBlockKey) {
		t.Fatalf("want ErrBlockKey, got %v", err)
	}
}

func TestDecodeKeepsNumberLiterals(t *testing.T) {
	enc, err := Encode(map[string]interface{}{"id": uint64(9007199254740993)})
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode[map[string]interface{}](enc)
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := (*got)["id"].(json.Number); !ok || n.String() != "9007199254740993" {
		t.Fatalf("decoded %#v", (*got)["id"])
	}
}

func TestFindAll(t *testing.T) {
	even := FindAll([]int{1, 2, 3, 4}, func(e int) bool { return e%2 == 0 })
	if len(even) != 2 || even[0] != 2 || even[1] != 4 {
		t.Fatalf("FindAll: %v", even)
	}
}

func TestExistFile(t *testing.T) {
	if ExistFile(filepath.Join(t.TempDir(), "missing")) {
		t.Fatal("missing file reported as existing")
	}
}
