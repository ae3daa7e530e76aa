// Package mapper flattens one cycle's fetched domain bundle into the flat
// sample set served at /metrics. The transform is pure and deterministic:
// identical input maps to identical output, entity by entity, so a single
// malformed record never costs the samples of its siblings.
package mapper

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fulviofreitas/eero-exporter/internal/domain"
)

// Mapper applies the catalog to domain entities. Device- and profile-level
// samples can be gated off wholesale to bound label cardinality on large
// networks.
type Mapper struct {
	includeDevices  bool
	includeProfiles bool
}

func New(includeDevices, includeProfiles bool) *Mapper {
	return &Mapper{includeDevices: includeDevices, includeProfiles: includeProfiles}
}

// Map flattens the bundle. Per-entity shape violations are returned as
// EntityErrors next to the samples of every entity that did map; the error
// return is non-nil only when the payload is unusable as a whole.
func (m *Mapper) Map(b domain.Bundle) ([]domain.Sample, []*domain.EntityError, error) {
	if len(b.Networks) == 0 {
		return nil, nil, fmt.Errorf("no networks in payload: %w", domain.ErrMapping)
	}

	e := &emitter{seen: make(map[string]struct{})}
	mapped := 0
	for _, nd := range b.Networks {
		netID := nd.Network.ID()
		if netID == "" {
			e.fail("network", nd.Network.Name, "missing url")
			continue
		}
		mapped++

		netName := nd.Network.Name
		if netName == "" {
			netName = "Unknown"
		}

		m.network(e, netID, netName, nd)
		m.eeros(e, netID, netName, nd.Eeros)
		if m.includeDevices {
			m.devices(e, netID, netName, nd.Devices)
		}
		if m.includeProfiles {
			m.profiles(e, netID, nd.Profiles)
		}
	}
	if mapped == 0 {
		return nil, e.errs, fmt.Errorf("no usable network in payload: %w", domain.ErrMapping)
	}
	return e.samples, e.errs, nil
}

func (m *Mapper) network(e *emitter, id, name string, nd domain.NetworkData) {
	n := nd.Network

	status := n.Status
	if status == "" {
		status = "unknown"
	}
	e.emit(MetricNetworkInfo, 1, id, name, status,
		strOr(n.ISPName, "unknown"), strOr(n.PublicIP, "unknown"),
		strOr(n.WANType, "unknown"), strOr(n.GatewayIP, "unknown"))
	e.emit(MetricNetworkStatus, bit(statusUp(n.Status)), id, name)

	if h := n.Health; h != nil {
		if h.Internet != nil {
			e.emit(MetricHealthStatus, bit(h.Internet.Status == "connected"), id, "internet")
		}
		if h.EeroNetwork != nil {
			e.emit(MetricHealthStatus, bit(h.EeroNetwork.Status == "connected"), id, "eero_network")
		}
	}

	if sp := n.Speed; sp != nil {
		if sp.Up != nil {
			e.emitPtr(MetricSpeedUploadMbps, sp.Up.Value, id)
		}
		if sp.Down != nil {
			e.emitPtr(MetricSpeedDownloadMbps, sp.Down.Value, id)
		}
		if sp.Date != "" {
			if ts, err := time.Parse(time.RFC3339, sp.Date); err == nil {
				e.emit(MetricSpeedTestTimestamp, float64(ts.Unix()), id)
			}
		}
	}

	if a := nd.Activity; a != nil {
		e.emitPtr(MetricActivityDownloadBytes, a.DownloadBytes, id)
		e.emitPtr(MetricActivityUploadBytes, a.UploadBytes, id)
		e.emitPtr(MetricActivityBlockedThreats, a.BlockedThreats, id)
		e.emitPtr(MetricActivityBlockedContent, a.BlockedContent, id)
		e.emitPtr(MetricActivityAdsBlocked, a.AdsBlocked, id)
	}

	if bk := nd.Backup; bk != nil {
		if bk.Enabled != nil {
			e.emit(MetricBackupEnabled, bit(*bk.Enabled), id)
		}
		if bk.Active != nil {
			e.emit(MetricBackupActive, bit(*bk.Active), id)
		}
	}
}

func (m *Mapper) eeros(e *emitter, netID, netName string, eeros []domain.Eero) {
	e.emit(MetricNetworkEerosCount, float64(len(eeros)), netID, netName)

	for _, node := range eeros {
		id := node.ID()
		if id == "" {
			e.fail("eero", firstNonEmpty(node.Serial, node.Location), "missing url")
			continue
		}
		location := orUnknown(node.Location)
		model := orUnknown(node.Model)
		serial := orUnknown(node.Serial)

		osVersion := "unknown"
		if node.OSVersion != nil && *node.OSVersion != "" {
			osVersion = *node.OSVersion
		} else if node.OS != nil && *node.OS != "" {
			osVersion = *node.OS
		}

		e.emit(MetricEeroInfo, 1, netID, id, serial, location, model,
			strOr(node.ModelNumber, "unknown"), osVersion,
			strOr(node.MACAddress, "unknown"), strOr(node.IPAddress, "unknown"))
		e.emit(MetricEeroStatus, bit(statusUp(node.Status)), netID, id, location, model)
		e.emit(MetricEeroIsGateway, bit(node.Gateway), netID, id, location)
		e.emit(MetricEeroClients, float64(node.ConnectedClientsCount), netID, id, location, model)

		if node.ConnectedWiredClients != nil {
			e.emit(MetricEeroWiredClients, float64(*node.ConnectedWiredClients), netID, id, location)
		}
		if node.ConnectedWirelessClients != nil {
			e.emit(MetricEeroWirelessClients, float64(*node.ConnectedWirelessClients), netID, id, location)
		}
		if node.MeshQualityBars != nil {
			e.emit(MetricEeroMeshQuality, float64(*node.MeshQualityBars), netID, id, location, model)
		}
		e.emitPtr(MetricEeroUptime, node.UptimeSeconds, netID, id, location)
		if node.LEDOn != nil {
			e.emit(MetricEeroLEDOn, bit(*node.LEDOn), netID, id, location)
		}
		if node.UpdateAvailable != nil {
			e.emit(MetricEeroUpdateAvailable, bit(*node.UpdateAvailable), netID, id, location)
		}
		if node.HeartbeatOK != nil {
			e.emit(MetricEeroHeartbeatOK, bit(*node.HeartbeatOK), netID, id, location)
		}
		if node.Wired != nil {
			e.emit(MetricEeroWired, bit(*node.Wired), netID, id, location)
		}

		for _, p := range node.Ports {
			if p.Position == "" {
				continue
			}
			if p.LinkUp != nil {
				e.emit(MetricEeroPortLinkUp, bit(*p.LinkUp), netID, id, location, p.Position)
			}
			if p.Speed != nil {
				if mbps, err := strconv.ParseFloat(strings.TrimSpace(*p.Speed), 64); err == nil {
					e.emit(MetricEeroPortSpeed, mbps, netID, id, location, p.Position)
				}
			}
		}
	}
}

func (m *Mapper) devices(e *emitter, netID, netName string, devices []domain.Device) {
	connected := 0
	for _, d := range devices {
		if d.Connected {
			connected++
		}
	}
	e.emit(MetricNetworkClientsCount, float64(connected), netID, netName)

	for _, d := range devices {
		id := d.ID()
		if id == "" {
			e.fail("device", d.Name(), "missing url")
			continue
		}
		mac := d.HardwareAddr()
		if mac == "" {
			e.fail("device", id, "missing mac address")
			continue
		}
		name := d.Name()

		e.emit(MetricDeviceInfo, 1, netID, id, mac, name,
			strOr(d.Manufacturer, "unknown"), strOr(d.IP, "unknown"),
			strOr(d.DeviceType, "unknown"), strOr(d.Hostname, "unknown"))
		e.emit(MetricDeviceConnected, bit(d.Connected), netID, id, name, mac)
		e.emit(MetricDeviceWireless, bit(d.Wireless), netID, id, name)
		e.emit(MetricDeviceBlocked, bit(d.Blacklisted), netID, id, name, mac)
		e.emit(MetricDevicePaused, bit(d.Paused), netID, id, name)
		e.emit(MetricDeviceIsGuest, bit(d.IsGuest), netID, id, name)

		if c := d.Connectivity; c != nil {
			// A wired device reports a reserved 0 dBm; suppress the sample
			// entirely rather than publish a meaningless reading.
			if d.Wireless && c.Signal != nil {
				if dbm, ok := parseSignal(*c.Signal); ok {
					e.emit(MetricDeviceSignalStrength, dbm, netID, id, name)
				}
			}
			if c.Score != nil {
				e.emit(MetricDeviceScore, clampPercent(*c.Score), netID, id, name)
			}
			if c.ScoreBars != nil {
				e.emit(MetricDeviceScoreBars, float64(*c.ScoreBars), netID, id, name)
			}
		}
	}
}

func (m *Mapper) profiles(e *emitter, netID string, profiles []domain.Profile) {
	for _, p := range profiles {
		id := p.ID()
		if id == "" {
			e.fail("profile", p.Name, "missing url")
			continue
		}
		name := orUnknown(p.Name)
		e.emit(MetricProfilePaused, bit(p.Paused), netID, id, name)
		e.emit(MetricProfileDevicesCount, float64(len(p.Devices)), netID, id, name)
	}
}

// emitter accumulates samples, enforcing the (name, labels) uniqueness
// invariant, and collects per-entity errors.
type emitter struct {
	seen    map[string]struct{}
	samples []domain.Sample
	errs    []*domain.EntityError
}

func (e *emitter) emit(name string, value float64, labelValues ...string) {
	s, ok := NewSample(name, value, labelValues...)
	if !ok {
		return
	}
	var key strings.Builder
	key.WriteString(name)
	for _, v := range labelValues {
		key.WriteByte(0)
		key.WriteString(v)
	}
	k := key.String()
	if _, dup := e.seen[k]; dup {
		return
	}
	e.seen[k] = struct{}{}
	e.samples = append(e.samples, s)
}

func (e *emitter) emitPtr(name string, v *float64, labelValues ...string) {
	if v != nil {
		e.emit(name, *v, labelValues...)
	}
}

func (e *emitter) fail(category, id, reason string) {
	e.errs = append(e.errs, &domain.EntityError{Category: category, EntityID: id, Reason: reason})
}

func bit(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func statusUp(s string) bool {
	switch strings.ToLower(s) {
	case "connected", "online":
		return true
	}
	return false
}

// parseSignal converts readings like "-42 dBm" to a float.
func parseSignal(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, " dBm", ""))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

func strOr(p *string, def string) string {
	if p != nil && *p != "" {
		return *p
	}
	return def
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
