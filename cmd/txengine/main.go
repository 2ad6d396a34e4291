package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/clearhouse-io/clearhouse/internal/engine"
	"github.com/clearhouse-io/clearhouse/internal/logging"
	"github.com/clearhouse-io/clearhouse/internal/stream"
)

// txengine reads a transaction CSV, replays it through a fresh ledger and
// writes the final account table to stdout. Rejected rows are logged to
// stderr and skipped; they never stop the run.
func main() {
	var input string
	var logLevel string
	flag.StringVar(&input, "input", "", "Path to the transaction CSV (or pass it as the first argument)")
	flag.StringVar(&logLevel, "log-level", strings.ToLower(os.Getenv("LOG_LEVEL")), "Log level (debug, info, warn, error)")
	flag.Parse()

	if input == "" {
		input = flag.Arg(0)
	}
	if input == "" {
		fmt.Fprintln(os.Stderr, "usage: txengine [-input] transactions.csv")
		os.Exit(2)
	}

	logger := logging.New(os.Stderr, logLevel)

	f, err := os.Open(input)
	if err != nil {
		logger.Error("open input", "path", input, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	reader, err := stream.NewReader(f)
	if err != nil {
		logger.Error("unusable input", "path", input, "error", err)
		os.Exit(1)
	}

	ledger := engine.NewLedger()
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn("skipping malformed row", "error", err)
			continue
		}
		if err := ledger.Process(rec); err != nil {
			logger.Warn("transaction rejected", "type", rec.Type, "client", rec.Client, "tx", rec.Tx, "error", err)
		}
	}

	snapshots := ledger.Snapshots(func(clientID uint16, err error) {
		logger.Warn("account omitted from report", "client", clientID, "error", err)
	})

	if err := stream.NewWriter(os.Stdout).WriteSnapshots(snapshots); err != nil {
		logger.Error("write report", "error", err)
		os.Exit(1)
	}
}
