package domain

import (
	"encoding/json"
	"strings"
)

// Collection tolerates both shapes the upstream uses for lists: a bare
// JSON array and a {"data": [...]} envelope.
type Collection[T any] []T

func (c *Collection[T]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err == nil {
		*c = items
		return nil
	}
	var wrapped struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	*c = wrapped.Data
	return nil
}

// IDFromURL returns the trailing path segment of an upstream resource URL,
// e.g. "/2.2/networks/1234" -> "1234".
func IDFromURL(u string) string {
	u = strings.TrimRight(u, "/")
	if i := strings.LastIndexByte(u, '/'); i >= 0 {
		return u[i+1:]
	}
	return u
}

// Account is the owner-level upstream summary: contact info, subscription
// tier and the network list the collector walks.
type Account struct {
	Name          string              `json:"name"`
	Email         ContactField        `json:"email"`
	Phone         ContactField        `json:"phone"`
	PremiumStatus string              `json:"premium_status"`
	Networks      Collection[Network] `json:"networks"`
}

// ContactField is the {"value": ...} wrapper the upstream puts around
// contact entries.
type ContactField struct {
	Value    string `json:"value"`
	Verified bool   `json:"verified"`
}

// Network is one mesh network as reported by the upstream. The detail
// payload may inline eeros, devices and profiles; the summary entry from
// the account payload carries only the basics.
type Network struct {
	URL       string             `json:"url"`
	Name      string             `json:"name"`
	Status    string             `json:"status"`
	ISPName   *string            `json:"isp_name"`
	PublicIP  *string            `json:"public_ip"`
	WANType   *string            `json:"wan_type"`
	GatewayIP *string            `json:"gateway_ip"`
	Health    *NetworkHealth     `json:"health"`
	Speed     *SpeedTest         `json:"speed"`
	Eeros     Collection[Eero]   `json:"eeros"`
	Devices   Collection[Device] `json:"devices"`
	Profiles  Collection[Profile] `json:"profiles"`
}

func (n Network) ID() string { return IDFromURL(n.URL) }

// NetworkHealth groups the two upstream health sources.
type NetworkHealth struct {
	Internet    *HealthSource `json:"internet"`
	EeroNetwork *HealthSource `json:"eero_network"`
}

type HealthSource struct {
	Status string `json:"status"`
}

// SpeedTest is the latest upstream speed measurement. Date is RFC 3339.
type SpeedTest struct {
	Up   *SpeedReading `json:"up"`
	Down *SpeedReading `json:"down"`
	Date string        `json:"date"`
}

type SpeedReading struct {
	Value *float64 `json:"value"`
}

// Eero is one mesh node.
type Eero struct {
	URL                      string  `json:"url"`
	Serial                   string  `json:"serial"`
	Location                 string  `json:"location"`
	Model                    string  `json:"model"`
	ModelNumber              *string `json:"model_number"`
	OSVersion                *string `json:"os_version"`
	OS                       *string `json:"os"`
	MACAddress               *string `json:"mac_address"`
	IPAddress                *string `json:"ip_address"`
	Status                   string  `json:"status"`
	Gateway                  bool    `json:"gateway"`
	ConnectedClientsCount    int     `json:"connected_clients_count"`
	ConnectedWiredClients    *int    `json:"connected_wired_clients_count"`
	ConnectedWirelessClients *int    `json:"connected_wireless_clients_count"`
	MeshQualityBars          *int    `json:"mesh_quality_bars"`
	UptimeSeconds            *float64 `json:"uptime"`
	LEDOn                    *bool   `json:"led_on"`
	UpdateAvailable          *bool   `json:"update_available"`
	HeartbeatOK              *bool   `json:"heartbeat_ok"`
	Wired                    *bool   `json:"wired"`
	Ports                    []Port  `json:"ports"`
}

func (e Eero) ID() string { return IDFromURL(e.URL) }

// Port is one wired port on an eero node.
type Port struct {
	Position        string  `json:"position"`
	EthernetAddress *string `json:"ethernet_address"`
	Speed           *string `json:"speed"`
	LinkUp          *bool   `json:"link_up"`
}

// Device is one client on the network.
type Device struct {
	URL          string        `json:"url"`
	MAC          *string       `json:"mac"`
	EUI64        *string       `json:"eui64"`
	DisplayName  *string       `json:"display_name"`
	Hostname     *string       `json:"hostname"`
	Nickname     *string       `json:"nickname"`
	Manufacturer *string       `json:"manufacturer"`
	IP           *string       `json:"ip"`
	DeviceType   *string       `json:"device_type"`
	Connected    bool          `json:"connected"`
	Wireless     bool          `json:"wireless"`
	Blacklisted  bool          `json:"blacklisted"`
	Paused       bool          `json:"paused"`
	IsGuest      bool          `json:"is_guest"`
	Connectivity *Connectivity `json:"connectivity"`
}

func (d Device) ID() string { return IDFromURL(d.URL) }

// HardwareAddr prefers the MAC, falling back to the EUI-64 some IoT
// devices report instead.
func (d Device) HardwareAddr() string {
	if d.MAC != nil && *d.MAC != "" {
		return *d.MAC
	}
	if d.EUI64 != nil {
		return *d.EUI64
	}
	return ""
}

// Name picks the friendliest available identifier, in the upstream app's
// own precedence order.
func (d Device) Name() string {
	for _, s := range []*string{d.DisplayName, d.Hostname, d.Nickname} {
		if s != nil && *s != "" {
			return *s
		}
	}
	return d.HardwareAddr()
}

// Connectivity carries radio quality readings. Signal arrives as a string
// like "-42 dBm".
type Connectivity struct {
	Signal    *string  `json:"signal"`
	Score     *float64 `json:"score"`
	ScoreBars *int     `json:"score_bars"`
}

// Profile is a device group with shared pause/filter policy.
type Profile struct {
	URL     string                    `json:"url"`
	Name    string                    `json:"name"`
	Paused  bool                      `json:"paused"`
	Devices Collection[ProfileDevice] `json:"devices"`
}

func (p Profile) ID() string { return IDFromURL(p.URL) }

type ProfileDevice struct {
	URL string `json:"url"`
}

// Activity is the eero Plus usage summary for one network.
type Activity struct {
	DownloadBytes  *float64 `json:"download_bytes"`
	UploadBytes    *float64 `json:"upload_bytes"`
	BlockedThreats *float64 `json:"blocked_threats"`
	BlockedContent *float64 `json:"blocked_content"`
	AdsBlocked     *float64 `json:"ads_blocked"`
}

// Backup is the backup-internet state for one network.
type Backup struct {
	Enabled *bool `json:"enabled"`
	Active  *bool `json:"is_using_backup"`
}

// NetworkData is everything one cycle fetched for a single network.
type NetworkData struct {
	Network  Network
	Eeros    []Eero
	Devices  []Device
	Profiles []Profile
	Activity *Activity
	Backup   *Backup
}

// Bundle is one cycle's complete fetched input to the mapper.
type Bundle struct {
	Networks []NetworkData
}
