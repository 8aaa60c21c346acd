package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	treasurycmd "github.com/ansu555/Moltiverse-cult/internal/cmd/treasury"
)

// main starts the treasury MCP server on stdio.
func main() {
	cfg, err := treasurycmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[TREASURY] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := treasurycmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve treasury: %v", err)
	}
}
