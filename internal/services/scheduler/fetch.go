package scheduler

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fulviofreitas/eero-exporter/internal/domain"
	"github.com/fulviofreitas/eero-exporter/internal/ports"
	"github.com/fulviofreitas/eero-exporter/internal/store"
)

// fetcher assembles one cycle's bundle. Detail payloads usually embed the
// eero, device and profile collections; the per-collection endpoints are
// only hit when the detail left one empty.
type fetcher struct {
	upstream        ports.Upstream
	includeDevices  bool
	includeProfiles bool
	withActivity    bool
	withBackup      bool
	log             *zap.Logger
}

func newFetcher(upstream ports.Upstream, cfg Config, log *zap.Logger) *fetcher {
	return &fetcher{
		upstream:        upstream,
		includeDevices:  cfg.IncludeDevices,
		includeProfiles: cfg.IncludeProfiles,
		withActivity:    cfg.WithActivity,
		withBackup:      cfg.WithBackup,
		log:             log,
	}
}

// tally counts upstream requests per endpoint and result.
type tally struct {
	calls []store.CallStat
}

func (t *tally) add(endpoint string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	t.calls = append(t.calls, store.CallStat{Endpoint: endpoint, Status: status, Count: 1})
}

func (f *fetcher) fetch(ctx context.Context) (domain.Bundle, []store.CallStat, error) {
	var t tally

	networks, err := f.upstream.Networks(ctx)
	t.add("networks", err)
	if err != nil {
		return domain.Bundle{}, t.calls, err
	}

	b := domain.Bundle{Networks: make([]domain.NetworkData, 0, len(networks))}
	for _, summary := range networks {
		id := summary.ID()
		if id == "" {
			// carried through so the mapper reports the bad record
			b.Networks = append(b.Networks, domain.NetworkData{Network: summary})
			continue
		}
		nd, err := f.network(ctx, &t, id, summary)
		if err != nil {
			return domain.Bundle{}, t.calls, err
		}
		b.Networks = append(b.Networks, nd)
	}
	return b, t.calls, nil
}

func (f *fetcher) network(ctx context.Context, t *tally, id string, summary domain.Network) (domain.NetworkData, error) {
	detail, err := f.upstream.Network(ctx, id)
	t.add("network", err)
	if err != nil {
		if errors.Is(err, domain.ErrAuth) || errors.Is(err, domain.ErrRateLimited) {
			return domain.NetworkData{}, err
		}
		f.log.Warn("network detail unavailable, using account summary",
			zap.String("network", id), zap.Error(err))
		detail = summary
	}
	nd := domain.NetworkData{Network: detail, Eeros: detail.Eeros}

	if len(nd.Eeros) == 0 {
		eeros, err := f.upstream.Eeros(ctx, id)
		t.add("eeros", err)
		if err != nil {
			return domain.NetworkData{}, err
		}
		nd.Eeros = eeros
	}

	if f.includeDevices {
		nd.Devices = detail.Devices
		if len(nd.Devices) == 0 {
			devices, err := f.upstream.Devices(ctx, id)
			t.add("devices", err)
			if err != nil {
				return domain.NetworkData{}, err
			}
			nd.Devices = devices
		}
	}

	if f.includeProfiles {
		nd.Profiles = detail.Profiles
		if len(nd.Profiles) == 0 {
			profiles, err := f.upstream.Profiles(ctx, id)
			t.add("profiles", err)
			if err != nil {
				return domain.NetworkData{}, err
			}
			nd.Profiles = profiles
		}
	}

	// Activity and backup state are plan-dependent extras; their absence
	// never fails a cycle. Auth and throttling still have to surface.
	if f.withActivity {
		activity, err := f.upstream.Activity(ctx, id)
		t.add("activity", err)
		switch {
		case errors.Is(err, domain.ErrAuth), errors.Is(err, domain.ErrRateLimited):
			return domain.NetworkData{}, err
		case err != nil:
			f.log.Warn("activity unavailable", zap.String("network", id), zap.Error(err))
		default:
			nd.Activity = activity
		}
	}
	if f.withBackup {
		backup, err := f.upstream.Backup(ctx, id)
		t.add("backup", err)
		switch {
		case errors.Is(err, domain.ErrAuth), errors.Is(err, domain.ErrRateLimited):
			return domain.NetworkData{}, err
		case err != nil:
			f.log.Warn("backup state unavailable", zap.String("network", id), zap.Error(err))
		default:
			nd.Backup = backup
		}
	}
	return nd, nil
}
