// Package model defines the simulated network: devices, ports, cables,
// CLI views and the results handed back to a CLI session.
package model

import (
	"sort"
	"strings"
)

// DeviceType is the device category shown in the topology editor.
type DeviceType string

const (
	DeviceSwitch   DeviceType = "Switch"
	DeviceRouter   DeviceType = "Router"
	DevicePC       DeviceType = "PC"
	DeviceAP       DeviceType = "AP"
	DeviceFirewall DeviceType = "Firewall"
	DeviceWireless DeviceType = "Wireless"
)

// Vendor selects the CLI dialect a device presents.
type Vendor string

const (
	VendorHuawei   Vendor = "Huawei"
	VendorCisco    Vendor = "Cisco"
	VendorDLink    Vendor = "D-Link"
	VendorNetSim   Vendor = "NetSim"
	VendorPC       Vendor = "PC"
	VendorRouter   Vendor = "Router"
	VendorAruba    Vendor = "Aruba"
	VendorMikroTik Vendor = "MikroTik"
)

// PortType is the physical connector of a port.
type PortType string

const (
	PortRJ45    PortType = "RJ45"
	PortSFP     PortType = "SFP"
	PortConsole PortType = "Console"
)

// CableType is the medium of a cable.
type CableType string

const (
	CableCopper CableType = "copper"
	CableFiber  CableType = "fiber"
)

// LinkStatus is the physical link state of a port, independent of its
// administrative state.
type LinkStatus string

const (
	LinkUp   LinkStatus = "up"
	LinkDown LinkStatus = "down"
)

// PortMode determines which PortConfig fields are meaningful.
type PortMode string

const (
	ModeAccess PortMode = "access"
	ModeTrunk  PortMode = "trunk"
	ModeHybrid PortMode = "hybrid"
	ModeRouted PortMode = "routed"
)

// ParsePortMode maps a link-type keyword to a PortMode.
// Only the switched modes are accepted; routed ports are set by topology.
func ParsePortMode(s string) (PortMode, bool) {
	switch PortMode(s) {
	case ModeAccess, ModeTrunk, ModeHybrid:
		return PortMode(s), true
	}
	return "", false
}

// DefaultPrefixLen is assumed when an address has no stored mask.
const DefaultPrefixLen = 24

// PortConfig is the configurable state of a port. Handlers write only the
// fields relevant to the active mode; fields from a previous mode may remain.
type PortConfig struct {
	VLAN         *int     `json:"vlan,omitempty" yaml:"vlan,omitempty"`
	AllowedVLANs []int    `json:"allowedVlans,omitempty" yaml:"allowedVlans,omitempty"`
	Mode         PortMode `json:"mode" yaml:"mode"`
	IPAddress    string   `json:"ipAddress,omitempty" yaml:"ipAddress,omitempty"`
	SubnetMask   *int     `json:"subnetMask,omitempty" yaml:"subnetMask,omitempty"`
	Enabled      bool     `json:"enabled" yaml:"enabled"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Speed        string   `json:"speed,omitempty" yaml:"speed,omitempty"`
	Duplex       string   `json:"duplex,omitempty" yaml:"duplex,omitempty"`
}

// HasIP returns true if an IPv4 address is configured.
func (c *PortConfig) HasIP() bool {
	return c.IPAddress != ""
}

// PrefixLen returns the stored prefix length, or DefaultPrefixLen.
func (c *PortConfig) PrefixLen() int {
	if c.SubnetMask == nil {
		return DefaultPrefixLen
	}
	return *c.SubnetMask
}

// SetIP stores an address and prefix length.
func (c *PortConfig) SetIP(ip string, prefixLen int) {
	c.IPAddress = ip
	c.SubnetMask = IntPtr(prefixLen)
}

// ClearIP removes the address and its mask.
func (c *PortConfig) ClearIP() {
	c.IPAddress = ""
	c.SubnetMask = nil
}

// Port is a device port. Ports are addressed by case-insensitive name from
// the CLI and by ID from cables.
type Port struct {
	ID               string     `json:"id" yaml:"id"`
	Name             string     `json:"name" yaml:"name"`
	Type             PortType   `json:"type" yaml:"type"`
	Status           LinkStatus `json:"status" yaml:"status"`
	Config           PortConfig `json:"config" yaml:"config"`
	ConnectedCableID string     `json:"connectedCableId,omitempty" yaml:"connectedCableId,omitempty"`
}

// StaticRoute is a configured static route.
type StaticRoute struct {
	Destination string `json:"destination" yaml:"destination"`
	PrefixLen   int    `json:"prefixLen" yaml:"prefixLen"`
	NextHop     string `json:"nextHop" yaml:"nextHop"`
}

// Device is a simulated switch, router or host.
//
// OSPFEnabled, BGPEnabled and DHCPEnabled are tri-state: nil means the
// feature was never touched.
type Device struct {
	ID           string        `json:"id" yaml:"id"`
	Type         DeviceType    `json:"type" yaml:"type"`
	Vendor       Vendor        `json:"vendor" yaml:"vendor"`
	Hostname     string        `json:"hostname" yaml:"hostname"`
	Model        string        `json:"model" yaml:"model"`
	Ports        []Port        `json:"ports" yaml:"ports"`
	VLANs        []int         `json:"vlans" yaml:"vlans"`
	OSPFEnabled  *bool         `json:"ospfEnabled,omitempty" yaml:"ospfEnabled,omitempty"`
	BGPEnabled   *bool         `json:"bgpEnabled,omitempty" yaml:"bgpEnabled,omitempty"`
	DHCPEnabled  *bool         `json:"dhcpEnabled,omitempty" yaml:"dhcpEnabled,omitempty"`
	StaticRoutes []StaticRoute `json:"staticRoutes,omitempty" yaml:"staticRoutes,omitempty"`
}

// FindPort looks up a port by case-insensitive exact name.
func (d *Device) FindPort(name string) *Port {
	for i := range d.Ports {
		if strings.EqualFold(d.Ports[i].Name, name) {
			return &d.Ports[i]
		}
	}
	return nil
}

// PortByID looks up a port by ID.
func (d *Device) PortByID(id string) *Port {
	for i := range d.Ports {
		if d.Ports[i].ID == id {
			return &d.Ports[i]
		}
	}
	return nil
}

// FirstPort returns the first port, or nil for a portless device.
func (d *Device) FirstPort() *Port {
	if len(d.Ports) == 0 {
		return nil
	}
	return &d.Ports[0]
}

// FirstRoutedPort returns the first port in routed mode.
func (d *Device) FirstRoutedPort() *Port {
	for i := range d.Ports {
		if d.Ports[i].Config.Mode == ModeRouted {
			return &d.Ports[i]
		}
	}
	return nil
}

// FirstIPPort returns the first port holding an IPv4 address.
func (d *Device) FirstIPPort() *Port {
	for i := range d.Ports {
		if d.Ports[i].Config.HasIP() {
			return &d.Ports[i]
		}
	}
	return nil
}

// PrimaryIP returns the address of the first addressed port, or "".
func (d *Device) PrimaryIP() string {
	if p := d.FirstIPPort(); p != nil {
		return p.Config.IPAddress
	}
	return ""
}

// HasVLAN returns true if id is in the configured VLAN set. VLAN 1 is
// implicit and reported present even when not stored.
func (d *Device) HasVLAN(id int) bool {
	if id == 1 {
		return true
	}
	for _, v := range d.VLANs {
		if v == id {
			return true
		}
	}
	return false
}

// AddVLAN adds id to the VLAN set, keeping it sorted. Returns false if
// the VLAN was already present.
func (d *Device) AddVLAN(id int) bool {
	for _, v := range d.VLANs {
		if v == id {
			return false
		}
	}
	d.VLANs = append(d.VLANs, id)
	sort.Ints(d.VLANs)
	return true
}

// RemoveVLAN removes id from the VLAN set. Returns false if not present.
func (d *Device) RemoveVLAN(id int) bool {
	for i, v := range d.VLANs {
		if v == id {
			d.VLANs = append(d.VLANs[:i], d.VLANs[i+1:]...)
			return true
		}
	}
	return false
}

// AddStaticRoute adds a route, replacing any route with the same prefix.
func (d *Device) AddStaticRoute(r StaticRoute) {
	for i, existing := range d.StaticRoutes {
		if existing.Destination == r.Destination && existing.PrefixLen == r.PrefixLen {
			d.StaticRoutes[i] = r
			return
		}
	}
	d.StaticRoutes = append(d.StaticRoutes, r)
}

// RemoveStaticRoutes deletes every route to destination and returns the
// number removed.
func (d *Device) RemoveStaticRoutes(destination string) int {
	kept := d.StaticRoutes[:0]
	removed := 0
	for _, r := range d.StaticRoutes {
		if r.Destination == destination {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	d.StaticRoutes = kept
	return removed
}

// Clone returns a deep copy safe to hand outside the store lock.
func (d *Device) Clone() *Device {
	c := *d
	c.Ports = make([]Port, len(d.Ports))
	for i, p := range d.Ports {
		c.Ports[i] = p
		c.Ports[i].Config.VLAN = cloneIntPtr(p.Config.VLAN)
		c.Ports[i].Config.SubnetMask = cloneIntPtr(p.Config.SubnetMask)
		if p.Config.AllowedVLANs != nil {
			c.Ports[i].Config.AllowedVLANs = append([]int(nil), p.Config.AllowedVLANs...)
		}
	}
	if d.VLANs != nil {
		c.VLANs = append([]int(nil), d.VLANs...)
	}
	if d.StaticRoutes != nil {
		c.StaticRoutes = append([]StaticRoute(nil), d.StaticRoutes...)
	}
	c.OSPFEnabled = cloneBoolPtr(d.OSPFEnabled)
	c.BGPEnabled = cloneBoolPtr(d.BGPEnabled)
	c.DHCPEnabled = cloneBoolPtr(d.DHCPEnabled)
	return &c
}

// CLI families returned by Device.Dialect.
const (
	DialectHuawei = "huawei"
	DialectCisco  = "cisco"
	DialectHost   = "host"
)

// Dialect returns the CLI family used for prompts.
func (d *Device) Dialect() string {
	if d.Type == DevicePC || d.Vendor == VendorPC {
		return DialectHost
	}
	switch d.Vendor {
	case VendorCisco, VendorDLink, VendorAruba:
		return DialectCisco
	}
	return DialectHuawei
}

// Cable joins two device ports. Cables are undirected; Source and Target
// are labels only.
type Cable struct {
	ID             string    `json:"id" yaml:"id"`
	Type           CableType `json:"type" yaml:"type"`
	SourceDeviceID string    `json:"sourceDeviceId" yaml:"sourceDeviceId"`
	SourcePortID   string    `json:"sourcePortId" yaml:"sourcePortId"`
	TargetDeviceID string    `json:"targetDeviceId" yaml:"targetDeviceId"`
	TargetPortID   string    `json:"targetPortId" yaml:"targetPortId"`
}

// BoolPtr returns a pointer to b, for tri-state flags.
func BoolPtr(b bool) *bool {
	return &b
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}

// IsTrue reports whether a tri-state flag is explicitly enabled.
func IsTrue(b *bool) bool {
	return b != nil && *b
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	return IntPtr(*p)
}

func cloneBoolPtr(p *bool) *bool {
	if p == nil {
		return nil
	}
	return BoolPtr(*p)
}
