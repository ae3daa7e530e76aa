package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	sessionfile "github.com/fulviofreitas/eero-exporter/internal/adapters/session/file"
	"github.com/fulviofreitas/eero-exporter/internal/adapters/upstream/eeroapi"
)

// Exit codes: 0 session valid, 1 invalid or expired, 2 no session file.
func runValidate(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	quiet := false
	rest := make([]string, 0, len(args))
	for _, a := range args {
		if a == "-quiet" || a == "--quiet" {
			quiet = true
			continue
		}
		rest = append(rest, a)
	}

	cfg, ec, ok := loadConfig(rest, stderr)
	if !ok {
		return ec
	}

	say := func(format string, a ...any) {
		if !quiet {
			fmt.Fprintf(stdout, format, a...)
		}
	}

	sessions := sessionfile.New(cfg.SessionFile)
	if !sessions.Exists() {
		say("No session file at %s. Run \"eero-exporter login\" first.\n", sessions.Path())
		return 2
	}

	sess, err := sessions.Load()
	if err != nil || !sess.Valid() {
		say("Session file is unreadable or incomplete.\n")
		return 1
	}

	client, err := eeroapi.New(cfg.APIBase, &http.Client{Timeout: cfg.Timeout}, sessions)
	if err != nil {
		fmt.Fprintf(stderr, "upstream client: %v\n", err)
		return 1
	}
	if _, err := client.Account(ctx); err != nil {
		say("Session rejected by the upstream: %v\n", err)
		return 1
	}

	say("Session valid.\n")
	return 0
}
