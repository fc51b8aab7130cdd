package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

var (
	ErrUsage              = errors.New("cli: invalid usage")
	ErrVerificationFailed = errors.New("cli: verification failed")
)

func printUsage(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "usage:")
	fmt.Fprintln(w, " append -chain ID -data JSON (append a record to a chain)")
	fmt.Fprintln(w, " verify -chain ID (verify a stored chain)")
	fmt.Fprintln(w, " stats -chain ID (print chain statistics)")
	fmt.Fprintln(w, " anchor [-watch] (publish unanchored blocks to the ledger)")
	fmt.Fprintln(w, " proof -data JSON | -verify PROOF (proof of existence)")
	fmt.Fprintln(w, " token [-prefix POD] (generate a token)")
	fmt.Fprintln(w, " encrypt -text TEXT (encrypt with the configured key)")
	fmt.Fprintln(w, " decrypt -text ENVELOPE (decrypt with the configured key)")
	fmt.Fprintln(w, "common flags: -config PATH -db PATH -key KEY")
	fmt.Fprintln(w)
}

type command func(args []string, w io.Writer) error

var commands = map[string]command{
	"append":  appendCmd,
	"verify":  verifyCmd,
	"stats":   statsCmd,
	"anchor":  anchorCmd,
	"proof":   proofCmd,
	"token":   tokenCmd,
	"encrypt": encryptCmd,
	"decrypt": decryptCmd,
}

func Run() error {
	err := run(os.Args[1:], os.Stdout)
	if errors.Is(err, ErrUsage) {
		printUsage(os.Stderr)
	}
	return err
}

func run(args []string, w io.Writer) error {
	if len(args) < 1 {
		return ErrUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	return cmd(args[1:], w)
}

// commonFlags registers the flags every subcommand accepts.
type commonFlags struct {
	config *string
	db     *string
	key    *string
}

func newFlagSet(name string) (*flag.FlagSet, commonFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs, commonFlags{
		config: fs.String("config", "integrity.yaml", "path to config file"),
		db:     fs.String("db", "", "database file, overrides config"),
		key:    fs.String("key", "", "encryption key, overrides config"),
	}
}

func parse(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}
