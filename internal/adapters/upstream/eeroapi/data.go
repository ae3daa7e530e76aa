package eeroapi

import (
	"context"

	"github.com/fulviofreitas/eero-exporter/internal/domain"
)

// Account fetches the account summary, network list included.
func (c *Client) Account(ctx context.Context) (domain.Account, error) {
	var acct domain.Account
	if err := c.getJSON(ctx, "/account", &acct); err != nil {
		return domain.Account{}, err
	}
	return acct, nil
}

// Networks lists the mesh networks on the account. There is no dedicated
// list endpoint; the account payload carries them.
func (c *Client) Networks(ctx context.Context) ([]domain.Network, error) {
	acct, err := c.Account(ctx)
	if err != nil {
		return nil, err
	}
	return acct.Networks, nil
}

// Network fetches one network's detail payload, which usually embeds the
// eero, device and profile collections.
func (c *Client) Network(ctx context.Context, id string) (domain.Network, error) {
	var n domain.Network
	if err := c.getJSON(ctx, "/networks/"+id, &n); err != nil {
		return domain.Network{}, err
	}
	return n, nil
}

// Eeros lists the mesh nodes of a network.
func (c *Client) Eeros(ctx context.Context, networkID string) ([]domain.Eero, error) {
	var items domain.Collection[domain.Eero]
	if err := c.getJSON(ctx, "/networks/"+networkID+"/eeros", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Devices lists the client devices of a network.
func (c *Client) Devices(ctx context.Context, networkID string) ([]domain.Device, error) {
	var items domain.Collection[domain.Device]
	if err := c.getJSON(ctx, "/networks/"+networkID+"/devices", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Profiles lists the device profiles of a network.
func (c *Client) Profiles(ctx context.Context, networkID string) ([]domain.Profile, error) {
	var items domain.Collection[domain.Profile]
	if err := c.getJSON(ctx, "/networks/"+networkID+"/profiles", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Activity fetches the eero Plus usage summary for a network.
func (c *Client) Activity(ctx context.Context, networkID string) (*domain.Activity, error) {
	var a domain.Activity
	if err := c.getJSON(ctx, "/networks/"+networkID+"/activity", &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Backup fetches the backup-internet state for a network.
func (c *Client) Backup(ctx context.Context, networkID string) (*domain.Backup, error) {
	var b domain.Backup
	if err := c.getJSON(ctx, "/networks/"+networkID+"/backupinternet", &b); err != nil {
		return nil, err
	}
	return &b, nil
}
