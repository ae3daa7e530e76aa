package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"

	sessionfile "github.com/fulviofreitas/eero-exporter/internal/adapters/session/file"
	"github.com/fulviofreitas/eero-exporter/internal/adapters/upstream/eeroapi"
)

func runStatus(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, ec, ok := loadConfig(args, stderr)
	if !ok {
		return ec
	}

	sessions := sessionfile.New(cfg.SessionFile)
	sess, err := sessions.Load()
	if err != nil {
		fmt.Fprintf(stderr, "read session: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Session file:      %s\n", sessions.Path())
	fmt.Fprintf(stdout, "Session valid:     %t\n", sess.Valid())
	if sess.SessionExpiry != "" {
		fmt.Fprintf(stdout, "Session expiry:    %s\n", sess.SessionExpiry)
	}
	if sess.PreferredNetworkID != "" {
		fmt.Fprintf(stdout, "Preferred network: %s\n", sess.PreferredNetworkID)
	}
	if !sess.Valid() {
		return 0
	}

	client, err := eeroapi.New(cfg.APIBase, &http.Client{Timeout: cfg.Timeout}, sessions)
	if err != nil {
		fmt.Fprintf(stderr, "upstream client: %v\n", err)
		return 1
	}
	account, err := client.Account(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "account lookup failed: %v\n", err)
		return 1
	}

	if account.Name != "" {
		fmt.Fprintf(stdout, "Account:           %s\n", account.Name)
	}
	if account.PremiumStatus != "" {
		fmt.Fprintf(stdout, "Subscription:      %s\n", account.PremiumStatus)
	}

	if len(account.Networks) == 0 {
		fmt.Fprintln(stdout, "\nNo networks on this account.")
		return 0
	}

	fmt.Fprintln(stdout)
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NETWORK\tID\tSTATUS")
	for _, n := range account.Networks {
		status := n.Status
		if status == "" {
			status = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", n.Name, n.ID(), status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(stderr, "render table: %v\n", err)
		return 1
	}
	return 0
}
