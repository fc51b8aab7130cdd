package tokens

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DEFAULT_PREFIX = "TKN"
	TOKEN_FMT      = "%s-%d-%s%s"
	RANDOM_BYTES   = 4
)

// GenerateToken returns PREFIX-YEAR-<base36 ms><random hex>, upper-cased.
func GenerateToken(prefix string) (string, error) {
	if prefix == "" {
		prefix = DEFAULT_PREFIX
	}
	now := time.Now()
	random := make([]byte, RANDOM_BYTES)
	_, err := rand.Read(random)
	if err != nil {
		return "", err
	}
	stamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return fmt.Sprintf(
		TOKEN_FMT,
		prefix, now.Year(), stamp, strings.ToUpper(hex.EncodeToString(random)),
	), nil
}

// GenerateNonce draws a uniform uint32 from crypto/rand.
func GenerateNonce() (uint32, error) {
	var buf [4]byte
	_, err := rand.Read(buf[:])
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}
