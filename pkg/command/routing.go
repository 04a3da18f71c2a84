package command

import (
	"fmt"
	"strings"

	"github.com/newtron-network/netsim/pkg/model"
	"github.com/newtron-network/netsim/pkg/util"
)

// routingHandler owns static routes and the OSPF/BGP toggles. Protocol
// sub-commands are acknowledged but do not build any routing state.
type routingHandler struct{}

func (routingHandler) Name() string { return "routing" }

func (h routingHandler) Handle(c *Context) *model.CommandResult {
	switch {
	case c.Is("display ip routing-table", "show ip route", "show ip route static"):
		return model.Ok(routingTable(c.Device))

	case c.Is("display ospf neighbor", "show ip ospf neighbor"):
		if !model.IsTrue(c.Device.OSPFEnabled) {
			return model.Ok("OSPF is not enabled on this device.")
		}
		return model.Ok("OSPF Neighbor Information\n\n(No OSPF neighbors discovered - connect routers to establish adjacencies)")

	case c.Is("display ospf lsdb", "show ip ospf database"):
		return model.Ok("OSPF Link State Database - Area 0\n\n(No entries - simulation mode)")

	case c.Is("display bgp peer", "show ip bgp summary", "show bgp summary"):
		if !model.IsTrue(c.Device.BGPEnabled) {
			return model.Ok("BGP is not enabled on this device.")
		}
		return model.Okf("BGP Summary\nRouter ID: %s (simulated)\nLocal AS: 65000 (simulated)\n\n(No BGP peers configured)",
			c.Device.Hostname)

	case c.Is("display bgp routing-table", "show ip bgp"):
		return model.Ok("BGP Routing Table\n\n(No routes - simulation mode)")

	case c.HasPrefix("ip route-static ", "ip route "):
		return h.addRoute(c)

	case c.HasPrefix("undo ip route-static ", "no ip route "):
		if r := c.require(model.SystemView); r != nil {
			return r
		}
		if len(c.Parts) < 4 {
			return model.Fail("Error: Incomplete command")
		}
		dest := c.Parts[3]
		n := c.Device.RemoveStaticRoutes(dest)
		c.log().Debugf("Removed %d static routes to %s", n, dest)
		return model.Okf("Static route to %s removed", dest)

	case c.HasPrefix("ospf ", "router ospf "):
		process := c.Arg(1)
		if c.Arg(0) == "router" {
			process = c.Arg(2)
		}
		return h.toggle(c, &c.Device.OSPFEnabled, true, fmt.Sprintf("OSPF process %s enabled", process))

	case c.Is("undo ospf", "no router ospf"):
		return h.toggle(c, &c.Device.OSPFEnabled, false, "OSPF disabled")

	case c.HasPrefix("area "):
		if r := c.require(model.SystemView); r != nil {
			return r
		}
		return model.Okf("Entered OSPF area %s configuration", c.Arg(1))

	case c.HasPrefix("network ") && c.View != model.PoolView:
		return h.network(c)

	case c.HasPrefix("bgp ", "router bgp "):
		return h.enableBGP(c)

	case c.Is("undo bgp") || c.HasPrefix("no router bgp"):
		return h.toggle(c, &c.Device.BGPEnabled, false, "BGP disabled")

	case c.HasPrefix("peer ", "neighbor "):
		return h.peer(c)
	}
	return nil
}

func (routingHandler) addRoute(c *Context) *model.CommandResult {
	if r := c.require(model.SystemView); r != nil {
		return r
	}
	if len(c.Parts) < 5 {
		return model.Fail("Error: Incomplete command. Usage: ip route-static <dest> <mask> <next-hop>")
	}
	dest, maskStr, nextHop := c.Parts[2], c.Parts[3], c.Parts[4]
	if !util.IsValidIPv4(dest) {
		return model.Errorf("Invalid destination address '%s'", dest)
	}
	if !util.IsValidIPv4(nextHop) {
		return model.Errorf("Invalid next-hop address '%s'", nextHop)
	}
	prefixLen, err := util.ParseMask(maskStr)
	if err != nil {
		return model.Errorf("Invalid mask '%s'", maskStr)
	}
	c.Device.AddStaticRoute(model.StaticRoute{
		Destination: dest,
		PrefixLen:   prefixLen,
		NextHop:     nextHop,
	})
	return model.Okf("Static route added: %s/%d via %s", dest, prefixLen, nextHop)
}

func (routingHandler) toggle(c *Context, flag **bool, on bool, msg string) *model.CommandResult {
	if r := c.require(model.SystemView); r != nil {
		return r
	}
	*flag = model.BoolPtr(on)
	return model.Ok(msg)
}

func (h routingHandler) enableBGP(c *Context) *model.CommandResult {
	if r := c.require(model.SystemView); r != nil {
		return r
	}
	asn, err := util.ParseASN(c.Last())
	if err != nil {
		return model.Errorf("%v", err)
	}
	return h.toggle(c, &c.Device.BGPEnabled, true, fmt.Sprintf("BGP AS %d enabled", asn))
}

func (routingHandler) network(c *Context) *model.CommandResult {
	if r := c.require(model.SystemView); r != nil {
		return r
	}
	if strings.Contains(c.Command, "area") && len(c.Parts) >= 5 {
		return model.Okf("Network %s added to OSPF area %s", c.Arg(1), c.Last())
	}
	return model.Okf("Network %s added to OSPF", c.Arg(1))
}

func (routingHandler) peer(c *Context) *model.CommandResult {
	if r := c.require(model.SystemView); r != nil {
		return r
	}
	if len(c.Parts) >= 4 {
		for i, p := range c.Parts {
			if (p == "as-number" || p == "remote-as") && i+1 < len(c.Parts) {
				return model.Okf("BGP peer %s AS %s configured", c.Parts[1], c.Parts[i+1])
			}
		}
	}
	return model.Fail("Error: Incomplete peer command. Usage: peer <ip> as-number <as>")
}

// routingTable lists one Direct route per addressed port followed by the
// configured static routes.
func routingTable(d *model.Device) string {
	row := func(dest, proto, pre, cost, nh, iface string) string {
		return fmt.Sprintf("%-20s %-8s %-6s %-6s %-16s %-15s", dest, proto, pre, cost, nh, iface)
	}
	lines := []string{
		"Routing Table: Main",
		"Device: " + d.Hostname,
		"",
		row("Destination/Mask", "Proto", "Pre", "Cost", "NextHop", "Interface"),
		strings.Repeat("-", 75),
	}
	for _, p := range d.Ports {
		if !p.Config.HasIP() {
			continue
		}
		n := p.Config.PrefixLen()
		network := util.ComputeNetworkAddr(p.Config.IPAddress, n)
		lines = append(lines, row(util.FormatIPWithMask(network, n), "Direct", "0", "0", "127.0.0.1", p.Name))
	}
	for _, r := range d.StaticRoutes {
		lines = append(lines, row(util.FormatIPWithMask(r.Destination, r.PrefixLen), "Static", "60", "0", r.NextHop, staticEgress(d, r.NextHop)))
	}
	return strings.Join(lines, "\n")
}

// staticEgress names the addressed port whose subnet holds nextHop, or "-".
func staticEgress(d *model.Device, nextHop string) string {
	for _, p := range d.Ports {
		if !p.Config.HasIP() {
			continue
		}
		n := p.Config.PrefixLen()
		if util.ComputeNetworkAddr(p.Config.IPAddress, n) == util.ComputeNetworkAddr(nextHop, n) {
			return p.Name
		}
	}
	return "-"
}
