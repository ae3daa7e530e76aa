package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"

	"github.com/fulviofreitas/eero-exporter/internal/adapters/prom"
	sessionfile "github.com/fulviofreitas/eero-exporter/internal/adapters/session/file"
	"github.com/fulviofreitas/eero-exporter/internal/adapters/upstream/eeroapi"
	"github.com/fulviofreitas/eero-exporter/internal/services/scheduler"
	"github.com/fulviofreitas/eero-exporter/internal/store"
)

// runTest performs one collection cycle and prints what /metrics would
// serve. Diagnostics go to stderr so stdout stays pipeable exposition text.
func runTest(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, ec, ok := loadConfig(args, stderr)
	if !ok {
		return ec
	}

	sessions := sessionfile.New(cfg.SessionFile)
	client, err := eeroapi.New(cfg.APIBase, &http.Client{Timeout: cfg.Timeout}, sessions)
	if err != nil {
		fmt.Fprintf(stderr, "upstream client: %v\n", err)
		return 1
	}

	cache := store.NewSnapshotCache()
	health := store.NewHealth()
	sched := scheduler.New(scheduler.Config{
		Interval:        cfg.Interval,
		UpstreamTimeout: cfg.Timeout,
		IncludeDevices:  cfg.IncludeDevices,
		IncludeProfiles: cfg.IncludeProfiles,
		WithActivity:    cfg.IncludeActivity,
		WithBackup:      cfg.IncludeBackup,
	}, client, sessions, cache, health, zap.NewNop())

	out, done := sched.RunOnce(ctx)
	if !done {
		fmt.Fprintln(stderr, "collection aborted")
		return 1
	}
	if !out.Success {
		fmt.Fprintf(stderr, "collection failed: %s\n", out.Err)
		return 1
	}
	fmt.Fprintf(stderr, "collected %d samples in %s\n", out.Samples, out.Duration.Round(time.Millisecond))

	reg := prometheus.NewRegistry()
	reg.MustRegister(prom.NewBridge(cache, health))
	mfs, err := reg.Gather()
	if err != nil {
		fmt.Fprintf(stderr, "gather: %v\n", err)
		return 1
	}
	if err := writeExposition(stdout, mfs); err != nil {
		fmt.Fprintf(stderr, "render: %v\n", err)
		return 1
	}
	return 0
}

func writeExposition(w io.Writer, mfs []*dto.MetricFamily) error {
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
