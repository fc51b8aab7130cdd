package main

import (
	"errors"
	"integrity-chain-go/cli"
	"log"
	"os"
)

func main() {
	err := cli.Run()
	if errors.Is(err, cli.ErrVerificationFailed) {
		os.Exit(2)
	}
	if errors.Is(err, cli.ErrUsage) {
		log.Println(err)
		os.Exit(1)
	}
	if err != nil {
		log.Fatal(err)
	}
}
