// Package secrets encrypts short sensitive strings (ID numbers, licence
// numbers) into "ivHex:ciphertextHex" envelopes.
package secrets

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	ENVELOPE_SEPARATOR = ":"
)

var ErrDecryption = errors.New("secrets: cannot decrypt")

func deriveKey(key string) []byte {
	sum := sha256.Sum256([]byte(key))
	return sum[:]
}

func Encrypt(plaintext string, key string) (string, error) {
	block, err := aes.NewCipher(deriveKey(key))
	if err != nil {
		return "", err
	}
	iv := make([]byte, aes.BlockSize)
	_, err = rand.Read(iv)
	if err != nil {
		return "", err
	}

	padded := pad([]byte(plaintext))
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	return hex.EncodeToString(iv) + ENVELOPE_SEPARATOR + hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. Every failure matches ErrDecryption.
func Decrypt(envelope string, key string) (string, error) {
	ivHex, ctHex, ok := strings.Cut(envelope, ENVELOPE_SEPARATOR)
	if !ok {
		return "", fmt.Errorf("%w: missing separator", ErrDecryption)
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != aes.BlockSize {
		return "", fmt.Errorf("%w: invalid iv", ErrDecryption)
	}
	ciphertext, err := hex.DecodeString(ctHex)
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: invalid ciphertext", ErrDecryption)
	}

	block, err := aes.NewCipher(deriveKey(key))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryption, err)
	}
	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)

	plain, err = unpad(plain)
	if err != nil {
		return "", err
	}
	// a wrong key that happens to leave valid padding still yields garbage
	if !utf8.Valid(plain) {
		return "", fmt.Errorf("%w: invalid plaintext", ErrDecryption)
	}
	return string(plain), nil
}

func pad(data []byte) []byte {
	n := aes.BlockSize - len(data)%aes.BlockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil, fmt.Errorf("%w: bad padding", ErrDecryption)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: bad padding", ErrDecryption)
		}
	}
	return data[:len(data)-n], nil
}
