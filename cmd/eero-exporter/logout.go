package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	sessionfile "github.com/fulviofreitas/eero-exporter/internal/adapters/session/file"
	"github.com/fulviofreitas/eero-exporter/internal/adapters/upstream/eeroapi"
)

func runLogout(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, ec, ok := loadConfig(args, stderr)
	if !ok {
		return ec
	}

	sessions := sessionfile.New(cfg.SessionFile)
	if !sessions.Exists() {
		fmt.Fprintln(stdout, "No session file; nothing to do.")
		return 0
	}

	// Best effort: the local file goes away even when the upstream call
	// fails.
	client, err := eeroapi.New(cfg.APIBase, &http.Client{Timeout: cfg.Timeout}, sessions)
	if err == nil {
		if err := client.Logout(ctx); err != nil {
			fmt.Fprintf(stderr, "upstream logout failed: %v\n", err)
		}
	}

	if err := sessions.Clear(); err != nil {
		fmt.Fprintf(stderr, "remove session file: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Session removed from %s.\n", sessions.Path())
	return 0
}
