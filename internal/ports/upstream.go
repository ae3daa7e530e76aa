package ports

import (
	"context"

	"github.com/fulviofreitas/eero-exporter/internal/domain"
)

type Upstream interface {
	Networks(ctx context.Context) ([]domain.Network, error)
	Network(ctx context.Context, id string) (domain.Network, error)
	Eeros(ctx context.Context, networkID string) ([]domain.Eero, error)
	Devices(ctx context.Context, networkID string) ([]domain.Device, error)
	Profiles(ctx context.Context, networkID string) ([]domain.Profile, error)
	Activity(ctx context.Context, networkID string) (*domain.Activity, error)
	Backup(ctx context.Context, networkID string) (*domain.Backup, error)
}
