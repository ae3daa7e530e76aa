// Command eero-exporter polls the eero cloud API in the background and
// serves the results as pull-based Prometheus metrics, alongside
// subcommands for managing the stored session.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulviofreitas/eero-exporter/internal/config"
)

// Populated through ldflags at release build time.
var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

const usageText = `Usage: eero-exporter <command> [flags]

Commands:
  serve     run the exporter (collection loop + HTTP endpoints)
  login     authenticate against the eero cloud and store a session
  logout    invalidate and remove the stored session
  validate  check the stored session against the account endpoint
  status    print session state and a network summary
  test      run one collection cycle and print the exposition text
  version   print build information

Run "eero-exporter <command> -h" for command flags.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exit(dispatch(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func exit(code int) { os.Exit(code) }

func dispatch(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usageText)
		return 2
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "serve":
		return runServe(ctx, rest, stderr)
	case "login":
		return runLogin(ctx, rest, stdin, stdout, stderr)
	case "logout":
		return runLogout(ctx, rest, stdout, stderr)
	case "validate":
		return runValidate(ctx, rest, stdout, stderr)
	case "status":
		return runStatus(ctx, rest, stdout, stderr)
	case "test":
		return runTest(ctx, rest, stdout, stderr)
	case "version":
		return runVersion(stdout)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usageText)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usageText)
		return 2
	}
}

// loadConfig parses a subcommand's flags. When ok is false the returned
// code is the exit status (0 after -h, 1 on a real error).
func loadConfig(args []string, stderr io.Writer) (config.Config, int, bool) {
	cfg, err := config.Load(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return config.Config{}, 0, false
		}
		fmt.Fprintf(stderr, "configuration: %v\n", err)
		return config.Config{}, 1, false
	}
	return cfg, 0, true
}

func versionString() string {
	if buildVersion == "" {
		return "dev"
	}
	return buildVersion
}
