package command

import (
	"fmt"
	"strings"

	"github.com/newtron-network/netsim/pkg/model"
	"github.com/newtron-network/netsim/pkg/util"
)

// interfaceHandler enters interface view and applies per-port settings.
type interfaceHandler struct{}

func (interfaceHandler) Name() string { return "interface" }

func (h interfaceHandler) Handle(c *Context) *model.CommandResult {
	switch {
	case c.HasPrefix("interface "):
		return h.enter(c)

	case c.Is("display ip interface brief", "show ip interface brief"):
		return model.Ok(interfaceBrief(c.Device))

	case c.HasPrefix("display interface", "show interface"):
		return h.display(c)

	case c.HasPrefix("ip address "):
		return h.setAddress(c)

	case c.Is("undo ip address", "no ip address"):
		return h.clearAddress(c)

	case c.Is("shutdown"):
		return h.withPort(c, firstPort, func(p *model.Port) *model.CommandResult {
			p.Config.Enabled = false
			return model.Ok("Interface administratively disabled")
		})

	case c.Is("undo shutdown", "no shutdown"):
		return h.withPort(c, firstPort, func(p *model.Port) *model.CommandResult {
			p.Config.Enabled = true
			return model.Ok("Interface enabled")
		})

	case c.HasPrefix("description "):
		desc := c.After("description ")
		return h.withPort(c, firstPort, func(p *model.Port) *model.CommandResult {
			if desc == "" {
				return model.Fail("Error: Description cannot be empty")
			}
			p.Config.Description = desc
			return model.Okf("Description set to '%s'", desc)
		})

	case c.HasPrefix("port link-type ", "switchport mode "):
		modeStr := c.Last()
		return h.withPort(c, firstPort, func(p *model.Port) *model.CommandResult {
			mode, ok := model.ParsePortMode(modeStr)
			if !ok {
				return model.Errorf("Invalid port mode '%s'. Use access, trunk, or hybrid.", modeStr)
			}
			p.Config.Mode = mode
			return model.Okf("Port link-type set to %s", modeStr)
		})

	case c.HasPrefix("port default vlan ", "switchport access vlan "):
		vlanStr := c.Last()
		return h.withPort(c, firstPort, func(p *model.Port) *model.CommandResult {
			vlan, err := util.ParseVLANID(vlanStr)
			if err != nil {
				return model.Fail("Error: Invalid VLAN ID (1-4094)")
			}
			p.Config.VLAN = model.IntPtr(vlan)
			return model.Okf("Access VLAN set to %d", vlan)
		})

	case c.HasPrefix("port trunk allow-pass vlan ", "switchport trunk allowed vlan "):
		spec := c.After("port trunk allow-pass vlan ", "switchport trunk allowed vlan ")
		return h.withPort(c, firstPort, func(p *model.Port) *model.CommandResult {
			vlans, err := util.ParseVLANList(spec)
			if err != nil {
				return model.Errorf("%v", err)
			}
			p.Config.AllowedVLANs = vlans
			return model.Okf("Trunk allowed VLANs set to: %s", spec)
		})

	case c.HasPrefix("speed "):
		speed := c.After("speed ")
		return h.withPort(c, firstPort, func(p *model.Port) *model.CommandResult {
			if !validSpeeds[speed] {
				return model.Errorf("Invalid speed '%s'. Use 10, 100, 1000, 10000, or auto.", speed)
			}
			p.Config.Speed = speed
			return model.Okf("Speed set to %s", speed)
		})

	case c.HasPrefix("duplex "):
		duplex := c.After("duplex ")
		return h.withPort(c, firstPort, func(p *model.Port) *model.CommandResult {
			if !validDuplex[duplex] {
				return model.Errorf("Invalid duplex '%s'. Use full, half, or auto.", duplex)
			}
			p.Config.Duplex = duplex
			return model.Okf("Duplex set to %s", duplex)
		})
	}
	return nil
}

var (
	validSpeeds = map[string]bool{"10": true, "100": true, "1000": true, "10000": true, "auto": true}
	validDuplex = map[string]bool{"full": true, "half": true, "auto": true}
)

// enter handles interface <name>. Tokens after the verb are joined
// without separators, so "gigabitethernet 0/0/1" names one port.
// LAG bundle names are left to the LAG handler unless a physical port
// carries that name.
func (interfaceHandler) enter(c *Context) *model.CommandResult {
	name := strings.Join(c.Parts[1:], "")
	port := c.Device.FindPort(name)
	if port == nil && isLogicalName(name) {
		return nil
	}

	if r := c.requireEntry(); r != nil {
		return r
	}
	if len(c.Parts) < 2 {
		return model.Fail("Incomplete command. Usage: interface <type><number>")
	}
	if port == nil {
		return model.Errorf("Interface %s not found.", name)
	}

	r := model.Okf("Entered interface view for %s", name).WithView(model.InterfaceView)
	r.NewInterface = port.Name
	return r
}

func (interfaceHandler) display(c *Context) *model.CommandResult {
	if len(c.Parts) >= 3 {
		name := strings.Join(c.Parts[2:], "")
		port := c.Device.FindPort(name)
		if port == nil {
			return model.Errorf("Interface %s not found.", name)
		}
		return model.Ok(interfaceDetail(port))
	}

	var b strings.Builder
	for i := range c.Device.Ports {
		b.WriteString(interfaceDetail(&c.Device.Ports[i]))
		b.WriteString("\n")
	}
	return model.Ok(b.String())
}

func (interfaceHandler) setAddress(c *Context) *model.CommandResult {
	if r := c.require(model.InterfaceView); r != nil {
		return r
	}
	if len(c.Parts) < 4 {
		return model.Fail("Error: Incomplete command. Usage: ip address <ip> <mask>")
	}
	ip, maskStr := c.Parts[2], c.Parts[3]
	if !util.IsValidIPv4(ip) {
		return model.Errorf("Invalid IP address '%s'", ip)
	}
	prefixLen, err := util.ParseMask(maskStr)
	if err != nil {
		return model.Errorf("Invalid mask '%s'", maskStr)
	}

	port, fail := c.targetPort(firstRouted)
	if fail != nil {
		return fail
	}
	if port.Config.Mode != model.ModeRouted {
		return model.Errorf("Interface %s is not a routed port", port.Name)
	}
	port.Config.SetIP(ip, prefixLen)
	c.log().WithField("port", port.Name).Debugf("Address set to %s/%d", ip, prefixLen)
	return model.Okf("IP address %s %s configured", ip, maskStr)
}

func (interfaceHandler) clearAddress(c *Context) *model.CommandResult {
	if r := c.require(model.InterfaceView); r != nil {
		return r
	}
	port, fail := c.targetPort(firstAddressed)
	if fail != nil {
		return fail
	}
	if !port.Config.HasIP() {
		return model.Fail("Error: No IP address to remove")
	}
	port.Config.ClearIP()
	return model.Ok("IP address removed")
}

// withPort gates on interface view, resolves the target port and runs fn.
func (interfaceHandler) withPort(c *Context, rule portRule, fn func(p *model.Port) *model.CommandResult) *model.CommandResult {
	if r := c.require(model.InterfaceView); r != nil {
		return r
	}
	port, fail := c.targetPort(rule)
	if fail != nil {
		return fail
	}
	return fn(port)
}

func interfaceBrief(d *model.Device) string {
	lines := []string{
		fmt.Sprintf("%-20s %-16s %-8s %-12s %-10s", "Interface", "IP-Address", "Status", "Protocol", "Mode"),
		strings.Repeat("-", 70),
	}
	for _, p := range d.Ports {
		ip := "unassigned"
		if p.Config.HasIP() {
			ip = util.FormatIPWithMask(p.Config.IPAddress, p.Config.PrefixLen())
		}
		protocol := "down"
		if p.Config.Enabled {
			protocol = "up"
		}
		lines = append(lines, fmt.Sprintf("%-20s %-16s %-8s %-12s %-10s",
			p.Name, ip, p.Status, protocol, p.Config.Mode))
	}
	return strings.Join(lines, "\n")
}

func interfaceDetail(p *model.Port) string {
	admin := "administratively down"
	if p.Config.Enabled {
		admin = "up"
	}
	lines := []string{
		"Interface: " + p.Name,
		"  Type: " + string(p.Type),
		"  Status: " + util.CapitalizeFirst(string(p.Status)),
		"  Admin Status: " + admin,
		"  Mode: " + util.CapitalizeFirst(string(p.Config.Mode)),
	}
	if p.Config.HasIP() {
		lines = append(lines, "  IP Address: "+util.FormatIPWithMask(p.Config.IPAddress, p.Config.PrefixLen()))
	}
	if p.Config.Description != "" {
		lines = append(lines, "  Description: "+p.Config.Description)
	}
	if p.Config.VLAN != nil {
		lines = append(lines, fmt.Sprintf("  VLAN: %d", *p.Config.VLAN))
	}
	if p.Config.AllowedVLANs != nil {
		lines = append(lines, "  Allowed VLANs: "+util.CompactRange(p.Config.AllowedVLANs))
	}
	return strings.Join(lines, "\n")
}
