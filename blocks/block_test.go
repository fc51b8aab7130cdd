package blocks

import (
	"encoding/json"
	"integrity-chain-go/hashing"
	"testing"
	"time"
)

func TestNewBlockHashesRawInput(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 30, 0, 123456789, time.UTC)
	block, err := NewBlock(map[string]interface{}{"shipmentId": "123"}, "0", 1, 7, now)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"blockNumber":1,"timestamp":` +
		"1792143000123" +
		`,"data":{"shipmentId":"123"},"previousHash":"0","nonce":7}`
	if block.RawHashInput != want {
		t.Fatalf("raw input:\n got %s\nwant %s", block.RawHashInput, want)
	}
	if block.Hash != hashing.DigestString(want) {
		t.Fatal("hash is not the digest of the raw input")
	}
	if !block.Timestamp.Equal(time.UnixMilli(1792143000123)) {
		t.Fatalf("timestamp not truncated to ms: %v", block.Timestamp)
	}
	if block.TransactionHash != nil {
		t.Fatal("fresh block must not be anchored")
	}
}

func TestBlockJSONContract(t *testing.T) {
	block, err := NewBlock(map[string]interface{}{"a": 1}, GENESIS_PREVIOUS_HASH, 0, 1, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	enc, err := json.Marshal(block)
	if err != nil {
		t.Fatal(err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(enc, &fields); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{
		"blockNumber", "timestamp", "data", "previousHash",
		"hash", "nonce", "rawHashInput", "transactionHash",
	} {
		if _, ok := fields[name]; !ok {
			t.Errorf("missing field %s", name)
		}
	}
	if fields["transactionHash"] != nil {
		t.Error("transactionHash should encode as null")
	}
}

func TestStoredBlockReproducesInput(t *testing.T) {
	block, err := NewBlock(
		map[string]interface{}{"z": "last", "a": []interface{}{1.5, true, "x"}, "m": map[string]interface{}{"k": 2}},
		"abc", 3, 99, time.Now(),
	)
	if err != nil {
		t.Fatal(err)
	}
	enc, err := json.Marshal(block)
	if err != nil {
		t.Fatal(err)
	}
	var stored Block
	if err := json.Unmarshal(enc, &stored); err != nil {
		t.Fatal(err)
	}
	raw, err := stored.CanonicalInput()
	if err != nil {
		t.Fatal(err)
	}
	if raw != block.RawHashInput {
		t.Fatalf("round-tripped input differs:\n%s\n%s", raw, block.RawHashInput)
	}
}

func TestGenesisSentinel(t *testing.T) {
	if len(GENESIS_PREVIOUS_HASH) != 68 {
		t.Fatalf("sentinel length changed: %d", len(GENESIS_PREVIOUS_HASH))
	}
	block, err := NewBlock(nil, GENESIS_PREVIOUS_HASH, 0, 0, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if !block.IsGenesis() {
		t.Fatal("expected genesis block")
	}
}
