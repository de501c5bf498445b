package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/okian/contest/internal/cli"
)

const (
	defaultURL     = "http://localhost:9080"
	defaultTimeout = 30 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		os.Stderr.WriteString("failed to read .env: " + err.Error() + "\n")
		os.Exit(1)
	}

	var (
		baseURL   = flag.String("url", envOr("CONTEST_URL", defaultURL), "Base URL of the service")
		sessionID = flag.String("session", os.Getenv("CONTEST_SESSION"), "Session id")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		noColor   = flag.Bool("no-color", false, "Disable colored output")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		cli.ShowHelp(os.Stdout)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &cli.Config{
		BaseURL:   *baseURL,
		SessionID: *sessionID,
		Timeout:   *timeout,
		NoColor:   *noColor,
		Out:       os.Stdout,
	}
	if err := cli.Run(ctx, cfg, flag.Args()); err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
