package mapper

import "github.com/fulviofreitas/eero-exporter/internal/domain"

// Metric names. The catalog below is the single source of truth for help
// text, kind, and label order; handlers and the exposition bridge consume
// it instead of re-declaring any of this.
const (
	MetricNetworkInfo         = "eero_network_info"
	MetricNetworkStatus       = "eero_network_status"
	MetricNetworkClientsCount = "eero_network_clients_count"
	MetricNetworkEerosCount   = "eero_network_eeros_count"

	MetricSpeedUploadMbps    = "eero_speed_upload_mbps"
	MetricSpeedDownloadMbps  = "eero_speed_download_mbps"
	MetricSpeedTestTimestamp = "eero_speed_test_timestamp_seconds"
	MetricHealthStatus       = "eero_health_status"

	MetricActivityDownloadBytes  = "eero_activity_download_bytes_total"
	MetricActivityUploadBytes    = "eero_activity_upload_bytes_total"
	MetricActivityBlockedThreats = "eero_activity_blocked_threats_total"
	MetricActivityBlockedContent = "eero_activity_blocked_content_total"
	MetricActivityAdsBlocked     = "eero_activity_ads_blocked_total"

	MetricBackupEnabled = "eero_backup_internet_enabled"
	MetricBackupActive  = "eero_backup_internet_active"

	MetricEeroInfo            = "eero_eero_info"
	MetricEeroStatus          = "eero_eero_status"
	MetricEeroIsGateway       = "eero_eero_is_gateway"
	MetricEeroClients         = "eero_eero_connected_clients_count"
	MetricEeroWiredClients    = "eero_eero_connected_wired_clients_count"
	MetricEeroWirelessClients = "eero_eero_connected_wireless_clients_count"
	MetricEeroMeshQuality     = "eero_eero_mesh_quality_bars"
	MetricEeroUptime          = "eero_eero_uptime_seconds"
	MetricEeroLEDOn           = "eero_eero_led_on"
	MetricEeroUpdateAvailable = "eero_eero_update_available"
	MetricEeroHeartbeatOK     = "eero_eero_heartbeat_ok"
	MetricEeroWired           = "eero_eero_wired"
	MetricEeroPortLinkUp      = "eero_eero_port_link_up"
	MetricEeroPortSpeed       = "eero_eero_port_speed_mbps"

	MetricDeviceInfo           = "eero_device_info"
	MetricDeviceConnected      = "eero_device_connected"
	MetricDeviceWireless       = "eero_device_wireless"
	MetricDeviceBlocked        = "eero_device_blocked"
	MetricDevicePaused         = "eero_device_paused"
	MetricDeviceIsGuest        = "eero_device_is_guest"
	MetricDeviceSignalStrength = "eero_device_signal_strength_dbm"
	MetricDeviceScore          = "eero_device_connection_score"
	MetricDeviceScoreBars      = "eero_device_connection_score_bars"

	MetricProfilePaused       = "eero_profile_paused"
	MetricProfileDevicesCount = "eero_profile_devices_count"

	MetricScrapeDuration = "eero_exporter_scrape_duration_seconds"
	MetricScrapeSuccess  = "eero_exporter_scrape_success"
	MetricScrapeErrors   = "eero_exporter_scrape_errors_total"
	MetricAPIRequests    = "eero_exporter_api_requests_total"
	MetricProcessCPU     = "eero_exporter_process_cpu_percent"
	MetricProcessRSS     = "eero_exporter_process_resident_memory_bytes"
	MetricGoroutines     = "eero_exporter_process_goroutines"
)

// Spec is one catalog entry. Labels are in exposition order; samples carry
// label values in exactly this order.
type Spec struct {
	Name   string
	Help   string
	Kind   domain.MetricKind
	Labels []string
}

// Catalog lists every metric this exporter can emit, grouped by entity
// category in emission order.
var Catalog = []Spec{
	{MetricNetworkInfo, "Information about the eero network", domain.Info,
		[]string{"network_id", "name", "status", "isp", "public_ip", "wan_type", "gateway_ip"}},
	{MetricNetworkStatus, "Network status (1=online, 0=offline)", domain.Gauge,
		[]string{"network_id", "name"}},
	{MetricNetworkClientsCount, "Total number of clients on the network", domain.Gauge,
		[]string{"network_id", "name"}},
	{MetricNetworkEerosCount, "Number of eero devices in the network", domain.Gauge,
		[]string{"network_id", "name"}},

	{MetricSpeedUploadMbps, "Latest speed test upload result in Mbps", domain.Gauge,
		[]string{"network_id"}},
	{MetricSpeedDownloadMbps, "Latest speed test download result in Mbps", domain.Gauge,
		[]string{"network_id"}},
	{MetricSpeedTestTimestamp, "Timestamp of the last speed test (Unix epoch)", domain.Gauge,
		[]string{"network_id"}},
	{MetricHealthStatus, "Health status of network components (1=healthy, 0=unhealthy)", domain.Gauge,
		[]string{"network_id", "source"}},

	{MetricActivityDownloadBytes, "Bytes downloaded as reported by the upstream activity summary", domain.Counter,
		[]string{"network_id"}},
	{MetricActivityUploadBytes, "Bytes uploaded as reported by the upstream activity summary", domain.Counter,
		[]string{"network_id"}},
	{MetricActivityBlockedThreats, "Threats blocked as reported by the upstream activity summary", domain.Counter,
		[]string{"network_id"}},
	{MetricActivityBlockedContent, "Content blocks as reported by the upstream activity summary", domain.Counter,
		[]string{"network_id"}},
	{MetricActivityAdsBlocked, "Ads blocked as reported by the upstream activity summary", domain.Counter,
		[]string{"network_id"}},

	{MetricBackupEnabled, "Whether backup internet is configured (1=yes, 0=no)", domain.Gauge,
		[]string{"network_id"}},
	{MetricBackupActive, "Whether the network is currently on backup internet (1=yes, 0=no)", domain.Gauge,
		[]string{"network_id"}},

	{MetricEeroInfo, "Information about an eero device", domain.Info,
		[]string{"network_id", "eero_id", "serial", "location", "model", "model_number", "os_version", "mac_address", "ip_address"}},
	{MetricEeroStatus, "Eero device status (1=online, 0=offline)", domain.Gauge,
		[]string{"network_id", "eero_id", "location", "model"}},
	{MetricEeroIsGateway, "Whether the eero is the gateway (1=yes, 0=no)", domain.Gauge,
		[]string{"network_id", "eero_id", "location"}},
	{MetricEeroClients, "Number of clients connected to this eero", domain.Gauge,
		[]string{"network_id", "eero_id", "location", "model"}},
	{MetricEeroWiredClients, "Number of wired clients connected to this eero", domain.Gauge,
		[]string{"network_id", "eero_id", "location"}},
	{MetricEeroWirelessClients, "Number of wireless clients connected to this eero", domain.Gauge,
		[]string{"network_id", "eero_id", "location"}},
	{MetricEeroMeshQuality, "Mesh quality indicator (0-5 bars)", domain.Gauge,
		[]string{"network_id", "eero_id", "location", "model"}},
	{MetricEeroUptime, "Eero device uptime in seconds", domain.Gauge,
		[]string{"network_id", "eero_id", "location"}},
	{MetricEeroLEDOn, "Whether the eero LED is on (1=on, 0=off)", domain.Gauge,
		[]string{"network_id", "eero_id", "location"}},
	{MetricEeroUpdateAvailable, "Whether an update is available (1=yes, 0=no)", domain.Gauge,
		[]string{"network_id", "eero_id", "location"}},
	{MetricEeroHeartbeatOK, "Whether the eero heartbeat is OK (1=yes, 0=no)", domain.Gauge,
		[]string{"network_id", "eero_id", "location"}},
	{MetricEeroWired, "Whether the eero is wired (1=yes, 0=no)", domain.Gauge,
		[]string{"network_id", "eero_id", "location"}},
	{MetricEeroPortLinkUp, "Whether the wired port has link (1=yes, 0=no)", domain.Gauge,
		[]string{"network_id", "eero_id", "location", "port"}},
	{MetricEeroPortSpeed, "Negotiated wired port speed in Mbps", domain.Gauge,
		[]string{"network_id", "eero_id", "location", "port"}},

	{MetricDeviceInfo, "Information about a connected device", domain.Info,
		[]string{"network_id", "device_id", "mac", "name", "manufacturer", "ip", "device_type", "hostname"}},
	{MetricDeviceConnected, "Whether the device is connected (1=yes, 0=no)", domain.Gauge,
		[]string{"network_id", "device_id", "name", "mac"}},
	{MetricDeviceWireless, "Whether the device is wireless (1=yes, 0=no)", domain.Gauge,
		[]string{"network_id", "device_id", "name"}},
	{MetricDeviceBlocked, "Whether the device is blocked (1=yes, 0=no)", domain.Gauge,
		[]string{"network_id", "device_id", "name", "mac"}},
	{MetricDevicePaused, "Whether the device is paused (1=yes, 0=no)", domain.Gauge,
		[]string{"network_id", "device_id", "name"}},
	{MetricDeviceIsGuest, "Whether the device is on guest network (1=yes, 0=no)", domain.Gauge,
		[]string{"network_id", "device_id", "name"}},
	{MetricDeviceSignalStrength, "Device signal strength in dBm", domain.Gauge,
		[]string{"network_id", "device_id", "name"}},
	{MetricDeviceScore, "Device connection quality score", domain.Gauge,
		[]string{"network_id", "device_id", "name"}},
	{MetricDeviceScoreBars, "Device connection quality score in bars (0-5)", domain.Gauge,
		[]string{"network_id", "device_id", "name"}},

	{MetricProfilePaused, "Whether the profile is paused (1=yes, 0=no)", domain.Gauge,
		[]string{"network_id", "profile_id", "name"}},
	{MetricProfileDevicesCount, "Number of devices in the profile", domain.Gauge,
		[]string{"network_id", "profile_id", "name"}},

	{MetricScrapeDuration, "Time taken to collect metrics from the eero API", domain.Gauge, nil},
	{MetricScrapeSuccess, "Whether the last collection was successful (1=yes, 0=no)", domain.Gauge, nil},
	{MetricScrapeErrors, "Total number of collection errors", domain.Counter,
		[]string{"error_type"}},
	{MetricAPIRequests, "Total number of API requests made", domain.Counter,
		[]string{"endpoint", "status"}},
	{MetricProcessCPU, "Exporter process CPU utilisation percent", domain.Gauge, nil},
	{MetricProcessRSS, "Exporter resident memory in bytes", domain.Gauge, nil},
	{MetricGoroutines, "Goroutines alive in the exporter process", domain.Gauge, nil},
}

var specsByName = func() map[string]Spec {
	m := make(map[string]Spec, len(Catalog))
	for _, s := range Catalog {
		m[s.Name] = s
	}
	return m
}()

// Lookup returns the catalog entry for name.
func Lookup(name string) (Spec, bool) {
	s, ok := specsByName[name]
	return s, ok
}

// NewSample builds a sample for a cataloged metric, zipping values against
// the catalog's label order. ok is false for unknown names or a label
// count mismatch.
func NewSample(name string, value float64, labelValues ...string) (domain.Sample, bool) {
	spec, ok := specsByName[name]
	if !ok || len(labelValues) != len(spec.Labels) {
		return domain.Sample{}, false
	}
	var labels map[string]string
	if len(spec.Labels) > 0 {
		labels = make(map[string]string, len(spec.Labels))
		for i, k := range spec.Labels {
			labels[k] = labelValues[i]
		}
	}
	return domain.Sample{Name: name, Kind: spec.Kind, Labels: labels, Value: value}, true
}
