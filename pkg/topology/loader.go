package topology

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/newtron-network/netsim/pkg/model"
	"github.com/newtron-network/netsim/pkg/util"
)

//go:embed default.yaml
var defaultTopology []byte

// File is the on-disk topology format. JSON files parse too.
type File struct {
	Devices []model.Device `yaml:"devices"`
	Cables  []model.Cable  `yaml:"cables"`
}

// LoadFile reads and validates a topology file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading topology %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("topology %s: %w", path, err)
	}
	return f, nil
}

// Default returns the built-in lab topology.
func Default() *File {
	f, err := Parse(defaultTopology)
	if err != nil {
		panic(fmt.Sprintf("built-in topology is invalid: %v", err))
	}
	return f
}

// Parse decodes and validates topology data, then links each cabled port
// to its cable ID.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing topology: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	f.linkPorts()
	return &f, nil
}

// Apply replaces the contents of store with this topology.
func (f *File) Apply(store *Store) {
	store.Load(f.Devices, f.Cables)
}

// Validate checks identity and reference integrity. Ports without a mode
// default to access and ports without a status default to down.
func (f *File) Validate() error {
	v := &util.ValidationBuilder{}

	type endpoint struct{ device, port string }
	ports := make(map[endpoint]*model.Port)
	devices := make(map[string]bool)

	for i := range f.Devices {
		d := &f.Devices[i]
		if d.ID == "" {
			v.AddErrorf("device[%d] has no id", i)
			continue
		}
		if devices[d.ID] {
			v.AddErrorf("duplicate device id '%s'", d.ID)
			continue
		}
		devices[d.ID] = true

		if d.Hostname != "" {
			if err := util.ValidateHostname(d.Hostname); err != nil {
				v.AddErrorf("device '%s': %v", d.ID, err)
			}
		}
		for _, vlan := range d.VLANs {
			if err := util.ValidateVLANID(vlan); err != nil {
				v.AddErrorf("device '%s': %v", d.ID, err)
			}
		}

		for j := range d.Ports {
			p := &d.Ports[j]
			key := endpoint{d.ID, p.ID}
			if p.ID == "" {
				v.AddErrorf("device '%s' port[%d] has no id", d.ID, j)
				continue
			}
			if _, dup := ports[key]; dup {
				v.AddErrorf("device '%s' has duplicate port id '%s'", d.ID, p.ID)
				continue
			}
			ports[key] = p
			validatePortConfig(v, d.ID, p)
		}
	}

	cabled := make(map[endpoint]string)
	for i, c := range f.Cables {
		for _, end := range []endpoint{{c.SourceDeviceID, c.SourcePortID}, {c.TargetDeviceID, c.TargetPortID}} {
			if !devices[end.device] {
				v.AddErrorf("cable '%s': device '%s' not found", c.ID, end.device)
				continue
			}
			if _, ok := ports[end]; !ok {
				v.AddErrorf("cable '%s': port '%s' not found on device '%s'", c.ID, end.port, end.device)
				continue
			}
			if other, taken := cabled[end]; taken {
				v.AddErrorf("cable '%s': port '%s' on device '%s' already used by cable '%s'",
					c.ID, end.port, end.device, other)
				continue
			}
			cabled[end] = c.ID
		}
		if c.ID == "" {
			v.AddErrorf("cable[%d] has no id", i)
		}
	}

	return v.Build()
}

func validatePortConfig(v *util.ValidationBuilder, deviceID string, p *model.Port) {
	c := &p.Config
	switch c.Mode {
	case model.ModeAccess, model.ModeTrunk, model.ModeHybrid, model.ModeRouted:
	case "":
		c.Mode = model.ModeAccess
	default:
		v.AddErrorf("device '%s' port '%s': unknown mode '%s'", deviceID, p.Name, c.Mode)
	}
	if c.IPAddress != "" && !util.IsValidIPv4(c.IPAddress) {
		v.AddErrorf("device '%s' port '%s': invalid IP '%s'", deviceID, p.Name, c.IPAddress)
	}
	if c.SubnetMask != nil && (*c.SubnetMask < 0 || *c.SubnetMask > 32) {
		v.AddErrorf("device '%s' port '%s': invalid prefix length %d", deviceID, p.Name, *c.SubnetMask)
	}
	if c.VLAN != nil {
		if err := util.ValidateVLANID(*c.VLAN); err != nil {
			v.AddErrorf("device '%s' port '%s': %v", deviceID, p.Name, err)
		}
	}
	for _, vlan := range c.AllowedVLANs {
		if err := util.ValidateVLANID(vlan); err != nil {
			v.AddErrorf("device '%s' port '%s': %v", deviceID, p.Name, err)
		}
	}
	if p.Status == "" {
		p.Status = model.LinkDown
	}
}

// linkPorts fills ConnectedCableID on every cabled port and marks the
// link up.
func (f *File) linkPorts() {
	index := make(map[string]*model.Device, len(f.Devices))
	for i := range f.Devices {
		index[f.Devices[i].ID] = &f.Devices[i]
	}
	mark := func(deviceID, portID, cableID string) {
		d := index[deviceID]
		if d == nil {
			return
		}
		if p := d.PortByID(portID); p != nil {
			p.ConnectedCableID = cableID
			p.Status = model.LinkUp
		}
	}
	for _, c := range f.Cables {
		mark(c.SourceDeviceID, c.SourcePortID, c.ID)
		mark(c.TargetDeviceID, c.TargetPortID, c.ID)
	}
}
