package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"integrity-chain-go/anchor"
	"integrity-chain-go/blockchain"
	"integrity-chain-go/config"
	"integrity-chain-go/database"
	"integrity-chain-go/ledger"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
)

type services struct {
	cfg    *config.Config
	db     *database.Database
	engine *blockchain.Engine
}

func openServices(flags commonFlags) (*services, error) {
	cfg, err := config.Load(*flags.config)
	if err != nil {
		return nil, err
	}
	if *flags.db != "" {
		cfg.Database.Path = *flags.db
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	var publisher ledger.Publisher = ledger.Noop{}
	if cfg.Ledger.Enabled {
		publisher = ledger.NewLocalLedger(db)
	}
	return &services{
		cfg:    cfg,
		db:     db,
		engine: blockchain.NewEngine(publisher, cfg.Ledger.Timeout),
	}, nil
}

func requireChain(chainID string) error {
	if chainID == "" {
		return fmt.Errorf("%w: -chain is required", ErrUsage)
	}
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func appendCmd(args []string, w io.Writer) error {
	fs, flags := newFlagSet("append")
	chainID := fs.String("chain", "", "chain id, e.g. a shipment id")
	raw := fs.String("data", "", "JSON payload")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireChain(*chainID); err != nil {
		return err
	}
	var data interface{}
	if err := json.Unmarshal([]byte(*raw), &data); err != nil {
		return fmt.Errorf("%w: -data is not JSON: %v", ErrUsage, err)
	}

	s, err := openServices(flags)
	if err != nil {
		return err
	}
	defer s.db.Close()

	block, err := blockchain.NewBlockchain(s.engine, s.db).Append(context.Background(), *chainID, data)
	if err != nil {
		return err
	}
	return printJSON(w, block)
}

func verifyCmd(args []string, w io.Writer) error {
	fs, flags := newFlagSet("verify")
	chainID := fs.String("chain", "", "chain id")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireChain(*chainID); err != nil {
		return err
	}
	s, err := openServices(flags)
	if err != nil {
		return err
	}
	defer s.db.Close()

	report, err := blockchain.NewBlockchain(s.engine, s.db).Verify(*chainID)
	if err != nil {
		return err
	}
	if report.IsValid {
		color.New(color.FgGreen).Fprintf(w, "OK: %s (%d blocks)\n", report.Message, report.TotalBlocks)
		return nil
	}
	color.New(color.FgRed).Fprintf(w, "FAIL: %s\n", report.Message)
	if report.ExpectedHash != "" {
		fmt.Fprintf(w, " expected: %s\n actual:   %s\n", report.ExpectedHash, report.ActualHash)
	}
	return ErrVerificationFailed
}

func statsCmd(args []string, w io.Writer) error {
	fs, flags := newFlagSet("stats")
	chainID := fs.String("chain", "", "chain id")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireChain(*chainID); err != nil {
		return err
	}
	s, err := openServices(flags)
	if err != nil {
		return err
	}
	defer s.db.Close()

	stats, err := blockchain.NewBlockchain(s.engine, s.db).Statistics(*chainID)
	if err != nil {
		return err
	}
	bold := color.New(color.Bold)
	bold.Fprintf(w, "chain %s\n", *chainID)
	fmt.Fprintf(w, " blocks:        %d\n", stats.TotalBlocks)
	fmt.Fprintf(w, " timespan:      %d ms\n", stats.TotalTimespan)
	fmt.Fprintf(w, " average block: %.1f ms\n", stats.AverageBlockTime)
	if stats.LastBlock != nil {
		fmt.Fprintf(w, " latest hash:   %s\n", stats.LastBlock.Hash)
	}
	return nil
}

func anchorCmd(args []string, w io.Writer) error {
	fs, flags := newFlagSet("anchor")
	watch := fs.Bool("watch", false, "keep anchoring on the configured interval")
	if err := parse(fs, args); err != nil {
		return err
	}
	s, err := openServices(flags)
	if err != nil {
		return err
	}
	defer s.db.Close()
	if !s.cfg.Ledger.Enabled {
		return fmt.Errorf("%w: ledger is disabled in config", ErrUsage)
	}

	a := anchor.NewAnchorer(s.engine, s.db)
	if *watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return a.Run(ctx, s.cfg.Anchor.Interval)
	}

	err = a.Load()
	if err != nil {
		return err
	}
	n, err := a.Flush(context.Background())
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(w, "anchored %d blocks, %d pending\n", n, a.Pending())
	return nil
}
