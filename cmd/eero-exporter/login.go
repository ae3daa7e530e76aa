package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	sessionfile "github.com/fulviofreitas/eero-exporter/internal/adapters/session/file"
	"github.com/fulviofreitas/eero-exporter/internal/adapters/upstream/eeroapi"
)

func runLogin(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		fmt.Fprintln(stderr, "usage: eero-exporter login <email-or-phone> [flags]")
		return 1
	}
	identifier := args[0]

	cfg, ec, ok := loadConfig(args[1:], stderr)
	if !ok {
		return ec
	}

	// No session source: login starts from nothing.
	client, err := eeroapi.New(cfg.APIBase, &http.Client{Timeout: cfg.Timeout}, nil)
	if err != nil {
		fmt.Fprintf(stderr, "upstream client: %v\n", err)
		return 1
	}

	userToken, err := client.Login(ctx, identifier)
	if err != nil {
		fmt.Fprintf(stderr, "login failed: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Verification code sent to %s.\n", identifier)
	fmt.Fprint(stdout, "Code: ")
	code, err := readLine(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "read code: %v\n", err)
		return 1
	}
	if code == "" {
		fmt.Fprintln(stderr, "empty verification code")
		return 1
	}

	sess, err := client.Verify(ctx, userToken, code)
	if err != nil {
		fmt.Fprintf(stderr, "verification failed: %v\n", err)
		return 1
	}

	sessions := sessionfile.New(cfg.SessionFile)
	if err := sessions.Save(sess); err != nil {
		fmt.Fprintf(stderr, "save session: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Logged in. Session saved to %s.\n", sessions.Path())
	if sess.PreferredNetworkID != "" {
		fmt.Fprintf(stdout, "Preferred network: %s\n", sess.PreferredNetworkID)
	}
	return 0
}

func readLine(r io.Reader) (string, error) {
	s, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(s), nil
}
