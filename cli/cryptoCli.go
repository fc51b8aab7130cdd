package cli

import (
	"encoding/json"
	"fmt"
	"integrity-chain-go/config"
	"integrity-chain-go/proofs"
	"integrity-chain-go/secrets"
	"integrity-chain-go/tokens"
	"io"

	"github.com/fatih/color"
)

func loadKey(flags commonFlags) (string, error) {
	if *flags.key != "" {
		return *flags.key, nil
	}
	cfg, err := config.Load(*flags.config)
	if err != nil {
		return "", err
	}
	if cfg.Crypto.Key == "" {
		return "", fmt.Errorf("%w: no key configured, pass -key", ErrUsage)
	}
	return cfg.Crypto.Key, nil
}

func tokenCmd(args []string, w io.Writer) error {
	fs, flags := newFlagSet("token")
	prefix := fs.String("prefix", "", "token prefix, defaults to config")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *prefix == "" {
		cfg, err := config.Load(*flags.config)
		if err != nil {
			return err
		}
		*prefix = cfg.Token.Prefix
	}
	token, err := tokens.GenerateToken(*prefix)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, token)
	return nil
}

func encryptCmd(args []string, w io.Writer) error {
	fs, flags := newFlagSet("encrypt")
	text := fs.String("text", "", "plaintext")
	if err := parse(fs, args); err != nil {
		return err
	}
	key, err := loadKey(flags)
	if err != nil {
		return err
	}
	envelope, err := secrets.Encrypt(*text, key)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, envelope)
	return nil
}

func decryptCmd(args []string, w io.Writer) error {
	fs, flags := newFlagSet("decrypt")
	text := fs.String("text", "", "envelope")
	if err := parse(fs, args); err != nil {
		return err
	}
	key, err := loadKey(flags)
	if err != nil {
		return err
	}
	plain, err := secrets.Decrypt(*text, key)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, plain)
	return nil
}

func proofCmd(args []string, w io.Writer) error {
	fs, _ := newFlagSet("proof")
	raw := fs.String("data", "", "JSON payload")
	check := fs.String("verify", "", "proof JSON to check against -data")
	if err := parse(fs, args); err != nil {
		return err
	}
	var data interface{}
	if err := json.Unmarshal([]byte(*raw), &data); err != nil {
		return fmt.Errorf("%w: -data is not JSON: %v", ErrUsage, err)
	}

	if *check == "" {
		proof, err := proofs.GenerateProof(data)
		if err != nil {
			return err
		}
		return printJSON(w, proof)
	}

	var proof proofs.Proof
	if err := json.Unmarshal([]byte(*check), &proof); err != nil {
		return fmt.Errorf("%w: -verify is not a proof: %v", ErrUsage, err)
	}
	if proofs.VerifyProof(data, &proof) {
		color.New(color.FgGreen).Fprintln(w, "OK: proof matches data")
		return nil
	}
	color.New(color.FgRed).Fprintln(w, "FAIL: proof does not match data")
	return ErrVerificationFailed
}
