package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/IgorBayerl/showcov/internal/cli"

	_ "github.com/IgorBayerl/showcov/internal/parser/cobertura"
)

func main() {
	cmd := cli.NewShowcovCommand()
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, cli.ErrThresholdNotMet) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "showcov: %v\n", err)
		os.Exit(1)
	}
}
