package command

import (
	"fmt"
	"strings"

	"github.com/newtron-network/netsim/pkg/model"
	"github.com/newtron-network/netsim/pkg/util"
)

// dhcpHandler toggles the DHCP service and acknowledges pool and relay
// configuration. Pools are not persisted; the session only remembers the
// pool being edited.
type dhcpHandler struct{}

func (dhcpHandler) Name() string { return "dhcp" }

func (h dhcpHandler) Handle(c *Context) *model.CommandResult {
	switch {
	case c.Is("display ip pool", "show ip dhcp pool"):
		return model.Ok(dhcpPools(c.Device))

	case c.Is("display ip pool interface", "show ip dhcp binding"):
		return model.Ok(dhcpBindings())

	case c.Is("display dhcp server statistics", "show ip dhcp server statistics"):
		return model.Ok(dhcpStatistics)

	case c.Is("display dhcp server conflict", "show ip dhcp conflict"):
		return model.Ok("No DHCP address conflicts detected.")

	case c.Is("dhcp enable", "service dhcp"):
		return h.toggle(c, true)

	case c.Is("undo dhcp enable", "no service dhcp"):
		return h.toggle(c, false)

	case c.HasPrefix("ip pool ", "ip dhcp pool "):
		return h.enterPool(c)

	case c.HasPrefix("undo ip pool ", "no ip dhcp pool "):
		if r := c.require(model.SystemView); r != nil {
			return r
		}
		return model.Okf("DHCP pool '%s' deleted", c.Last())

	case c.HasPrefix("ip dhcp excluded-address "):
		if r := c.require(model.SystemView); r != nil {
			return r
		}
		return excludedRange(c)

	case c.Is("reset ip pool", "clear ip dhcp binding *"):
		if r := c.require(model.SystemView); r != nil {
			return r
		}
		return model.Ok("All DHCP bindings cleared.")

	case c.HasPrefix("network "):
		return h.poolNetwork(c)

	case c.HasPrefix("gateway-list ", "default-router "):
		return h.inPool(c, func() *model.CommandResult {
			gw := c.Last()
			if !util.IsValidIPv4(gw) {
				return model.Errorf("Invalid gateway address '%s'", gw)
			}
			return model.Okf("Default gateway set to %s", gw)
		})

	case c.HasPrefix("dns-list ", "dns-server "):
		return h.inPool(c, func() *model.CommandResult {
			servers := c.Parts[1:]
			for _, s := range servers {
				if !util.IsValidIPv4(s) {
					return model.Errorf("Invalid DNS server address '%s'", s)
				}
			}
			return model.Okf("DNS servers set to: %s", strings.Join(servers, ", "))
		})

	case c.HasPrefix("lease "):
		return h.inPool(c, func() *model.CommandResult {
			return model.Okf("Lease time set to %s days", c.Arg(1))
		})

	case c.HasPrefix("excluded-ip-address "):
		return h.inPool(c, func() *model.CommandResult {
			return excludedRange(c)
		})

	case c.HasPrefix("domain-name "):
		return h.inPool(c, func() *model.CommandResult {
			return model.Okf("Domain name set to '%s'", c.After("domain-name "))
		})

	case c.HasPrefix("dhcp relay server-ip ", "ip helper-address "):
		if r := c.require(model.InterfaceView); r != nil {
			return r
		}
		server := c.Last()
		if !util.IsValidIPv4(server) {
			return model.Errorf("Invalid server address '%s'", server)
		}
		return model.Okf("DHCP relay configured to forward to %s", server)

	case c.Is("dhcp select relay"):
		if r := c.require(model.InterfaceView); r != nil {
			return r
		}
		return model.Ok("DHCP relay enabled on interface")

	case c.Is("dhcp select global", "dhcp select interface"):
		if r := c.require(model.InterfaceView); r != nil {
			return r
		}
		return model.Ok("DHCP server enabled on interface")
	}
	return nil
}

func (dhcpHandler) toggle(c *Context, on bool) *model.CommandResult {
	if r := c.require(model.SystemView); r != nil {
		return r
	}
	c.Device.DHCPEnabled = model.BoolPtr(on)
	if on {
		return model.Ok("DHCP service enabled")
	}
	return model.Ok("DHCP service disabled")
}

func (dhcpHandler) enterPool(c *Context) *model.CommandResult {
	if r := c.require(model.SystemView); r != nil {
		return r
	}
	name := c.After("ip pool ", "ip dhcp pool ")
	if name == "" {
		return model.Fail("Error: Pool name required")
	}
	r := model.Okf("DHCP pool '%s' created. Entering pool configuration.", name).WithView(model.PoolView)
	r.NewPool = name
	return r
}

func (dhcpHandler) inPool(c *Context, fn func() *model.CommandResult) *model.CommandResult {
	if r := c.require(model.PoolView); r != nil {
		return r
	}
	return fn()
}

// poolNetwork accepts "network <ip> mask <mask>" and "network <ip> <mask>".
// Outside pool view routing has already claimed the command.
func (h dhcpHandler) poolNetwork(c *Context) *model.CommandResult {
	return h.inPool(c, func() *model.CommandResult {
		network := c.Arg(1)
		if !util.IsValidIPv4(network) {
			return model.Errorf("Invalid network address '%s'", network)
		}
		if c.Arg(2) == "mask" && len(c.Parts) >= 4 {
			return model.Okf("Pool network set to %s mask %s", network, c.Arg(3))
		}
		if len(c.Parts) >= 3 {
			return model.Okf("Pool network set to %s %s", network, c.Arg(2))
		}
		return model.Fail("Error: Incomplete command. Usage: network <ip> mask <mask>")
	})
}

// excludedRange echoes the last two address tokens as a range; a single
// address is a range of one.
func excludedRange(c *Context) *model.CommandResult {
	n := len(c.Parts)
	if n < 2 {
		return model.Fail("Error: Incomplete command")
	}
	start, end := c.Parts[n-1], c.Parts[n-1]
	if n >= 3 && util.IsValidIPv4(c.Parts[n-2]) {
		start = c.Parts[n-2]
	}
	for _, ip := range []string{start, end} {
		if !util.IsValidIPv4(ip) {
			return model.Errorf("Invalid IP address '%s'", ip)
		}
	}
	return model.Okf("Excluded addresses: %s - %s", start, end)
}

func dhcpPools(d *model.Device) string {
	enabled := model.IsTrue(d.DHCPEnabled)
	state := "Disabled"
	if enabled {
		state = "Enabled"
	}
	lines := []string{
		"DHCP Server Pool Information",
		"DHCP Service: " + state,
		"",
	}
	if !enabled {
		lines = append(lines, "(DHCP service is not enabled. Use 'dhcp enable' to start.)")
		return strings.Join(lines, "\n")
	}

	row := func(name, network, gateway, leases string) string {
		return fmt.Sprintf("%-15s %-18s %-15s %-10s", name, network, gateway, leases)
	}
	lines = append(lines,
		row("Pool Name", "Network", "Gateway", "Leases"),
		strings.Repeat("-", 60),
		row("LAN_POOL", "192.168.1.0/24", "192.168.1.1", "0/254"),
		row("GUEST_POOL", "10.0.0.0/24", "10.0.0.1", "0/254"),
		"",
		"(Showing simulated pools - configure with 'ip pool <name>')",
	)
	return strings.Join(lines, "\n")
}

func dhcpBindings() string {
	row := func(ip, mac, typ, expires string) string {
		return fmt.Sprintf("%-16s %-18s %-12s %-20s", ip, mac, typ, expires)
	}
	return strings.Join([]string{
		"DHCP Address Bindings",
		"",
		row("IP Address", "MAC Address", "Type", "Lease Expires"),
		strings.Repeat("-", 70),
		row("192.168.1.100", "00:50:56:C0:00:01", "Dynamic", "Jan 18 2026 12:00"),
		row("192.168.1.101", "00:50:56:C0:00:02", "Dynamic", "Jan 18 2026 14:30"),
		row("192.168.1.50", "00:50:56:C0:00:10", "Static", "Infinite"),
		"",
		"Total bindings: 3",
	}, "\n")
}

const dhcpStatistics = `DHCP Server Statistics

Message         Received    Sent
---------------------------------
DISCOVER        15          0
OFFER           0           15
REQUEST         12          0
ACK             0           12
NAK             0           0
DECLINE         0           0
RELEASE         3           0
INFORM          0           0

Total leases: 3
Available addresses: 251
Utilization: 1.2%`
