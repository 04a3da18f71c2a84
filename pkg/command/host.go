package command

import (
	"fmt"
	"strings"

	"github.com/newtron-network/netsim/pkg/metrics"
	"github.com/newtron-network/netsim/pkg/model"
	"github.com/newtron-network/netsim/pkg/util"
)

const (
	pingCount        = 4
	tracerouteHops   = 3
	traceroutePerHop = 3
)

// hostHandler serves the end-host vocabulary. None of it is view-gated.
type hostHandler struct{}

func (hostHandler) Name() string { return "host" }

func (h hostHandler) Handle(c *Context) *model.CommandResult {
	switch {
	case c.HasPrefix("ping "):
		target := c.Arg(1)
		if !util.IsValidIPv4(target) {
			return model.Errorf("Invalid IP address '%s'", target)
		}
		return model.Ok(h.ping(c, target))

	case c.HasPrefix("traceroute ", "tracert "):
		target := c.Arg(1)
		if !util.IsValidIPv4(target) {
			return model.Errorf("Invalid IP address '%s'", target)
		}
		return model.Ok(h.traceroute(c, target))

	case c.Is("ipconfig", "ifconfig", "ip a", "ip addr"):
		return model.Ok(ipconfig(c.Device))

	case c.Is("ipconfig /all", "ifconfig -a"):
		return model.Ok(ipconfigAll(c.Device))

	case c.Is("ip dhcp"):
		return model.Ok("DHCP request sent...\nReceived IP: 192.168.1.100/24\nGateway: 192.168.1.1\nDNS: 8.8.8.8")

	case c.HasPrefix("ip ") && startsWithDigit(c.Arg(1)):
		return h.setHostAddress(c)

	case c.Is("arp -a", "display arp", "show arp"):
		return model.Ok(arpTable)

	case c.HasPrefix("nslookup "):
		return model.Okf("Server:  dns.netsim.local\nAddress: 8.8.8.8\n\nNon-authoritative answer:\nName:    %s\nAddress: 93.184.216.34 (simulated)",
			c.Arg(1))

	case c.Is("netstat", "netstat -an"):
		return model.Ok(netstatTable)
	}
	return nil
}

// ping sends four echo requests from the device's first address. Without
// an address nothing is sent and every probe counts as lost.
func (hostHandler) ping(c *Context, target string) string {
	lines := []string{fmt.Sprintf("PING %s (%s) 56 bytes of data.", target, target)}
	summary := func(received int) {
		lines = append(lines, "",
			fmt.Sprintf("--- %s ping statistics ---", target),
			fmt.Sprintf("%d packets transmitted, %d received, %d%% packet loss",
				pingCount, received, (pingCount-received)*25))
	}

	src := c.Device.PrimaryIP()
	if src == "" {
		lines = append(lines, fmt.Sprintf("From %s: Network is unreachable (no IP configured)", c.Device.Hostname))
		summary(0)
		return strings.Join(lines, "\n")
	}

	received := 0
	for seq := 1; seq <= pingCount; seq++ {
		reply := c.probe(src, target, seq)
		metrics.RecordPingProbe(reply != nil)
		if reply == nil {
			lines = append(lines, fmt.Sprintf("Request timeout for icmp_seq=%d", seq))
			continue
		}
		received++
		lines = append(lines, fmt.Sprintf("64 bytes from %s: icmp_seq=%d ttl=%d time=%dms",
			reply.SrcIP, seq, reply.TTL, probeRTT(seq)))
	}
	summary(received)
	return strings.Join(lines, "\n")
}

// traceroute reports a single hop when the target answers directly and
// gives up after three silent hops otherwise.
func (hostHandler) traceroute(c *Context, target string) string {
	lines := []string{fmt.Sprintf("traceroute to %s (%s), 30 hops max, 60 byte packets", target, target)}

	src := c.Device.PrimaryIP()
	if src == "" {
		lines = append(lines, fmt.Sprintf("From %s: Network is unreachable (no IP configured)", c.Device.Hostname))
		return strings.Join(lines, "\n")
	}

	var rtts []string
	for seq := 1; seq <= traceroutePerHop; seq++ {
		if c.probe(src, target, seq) == nil {
			break
		}
		rtts = append(rtts, fmt.Sprintf("%d ms", probeRTT(seq)))
	}
	if len(rtts) == traceroutePerHop {
		lines = append(lines, fmt.Sprintf(" 1  %s  %s", target, strings.Join(rtts, "  ")))
		return strings.Join(lines, "\n")
	}

	for hop := 1; hop <= tracerouteHops; hop++ {
		lines = append(lines, fmt.Sprintf(" %d  * * *", hop))
	}
	lines = append(lines, "Trace incomplete: no route to "+target)
	return strings.Join(lines, "\n")
}

// probe sends one echo request through the engine. The store lock is
// already held, so the engine reads topology through the transaction.
func (c *Context) probe(src, target string, seq int) *model.Packet {
	pkt := model.NewICMPEcho(model.PingSourceMAC, model.BroadcastMAC, src, target, uint16(seq))
	return c.exec.engine.ProcessPacketImmediate(c.Tx, c.Device.ID, pkt)
}

func probeRTT(seq int) int {
	return 1 + seq%3
}

// setHostAddress handles the PC form "ip <address> <mask> <gateway>",
// applied to the first port.
func (hostHandler) setHostAddress(c *Context) *model.CommandResult {
	if len(c.Parts) < 4 {
		return model.Fail("Usage: ip <address> <mask> <gateway>")
	}
	ip, maskStr, gateway := c.Parts[1], c.Parts[2], c.Parts[3]
	if !util.IsValidIPv4(ip) || !util.IsValidIPv4(gateway) {
		return model.Fail("Error: Invalid IP address format")
	}
	prefixLen, err := util.ParseMask(maskStr)
	if err != nil {
		return model.Errorf("Invalid mask '%s'", maskStr)
	}
	port := c.Device.FirstPort()
	if port == nil {
		return model.Fail("Error: No interface available")
	}
	port.Config.SetIP(ip, prefixLen)
	return model.Okf("IP configuration set:\n  Address: %s\n  Mask: %s\n  Gateway: %s", ip, maskStr, gateway)
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func ipconfig(d *model.Device) string {
	lines := []string{"Host: " + d.Hostname, ""}
	for _, p := range d.Ports {
		lines = append(lines, "Interface: "+p.Name)
		if p.Config.HasIP() {
			lines = append(lines,
				"   IPv4 Address: "+p.Config.IPAddress,
				"   Subnet Mask:  "+util.PrefixLenToMask(p.Config.PrefixLen()))
		} else {
			lines = append(lines, "   IPv4 Address: (not configured)")
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func ipconfigAll(d *model.Device) string {
	lines := []string{
		"Host Name: " + d.Hostname,
		"Primary DNS Suffix: netsim.local",
		"Node Type: Hybrid",
		"IP Routing Enabled: Yes",
		"",
	}
	for _, p := range d.Ports {
		dhcp := "Yes"
		if p.Config.Mode == model.ModeRouted {
			dhcp = "No"
		}
		lines = append(lines,
			fmt.Sprintf("Ethernet adapter %s:", p.Name),
			"",
			"   Connection-specific DNS Suffix: netsim.local",
			"   Description: NetSim Virtual NIC",
			"   Physical Address: 00-50-56-C0-00-01",
			"   DHCP Enabled: "+dhcp)
		if p.Config.HasIP() {
			lines = append(lines,
				"   IPv4 Address: "+p.Config.IPAddress,
				"   Subnet Mask: "+util.PrefixLenToMask(p.Config.PrefixLen()),
				"   Default Gateway: 192.168.1.1")
		} else {
			lines = append(lines, "   Media State: Media disconnected")
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

const arpTable = `Address Resolution Protocol

Interface: eth0 (192.168.1.100)
Internet Address      Physical Address       Type
192.168.1.1           00-50-56-c0-00-08      dynamic
192.168.1.254         00-50-56-c0-00-01      dynamic
224.0.0.22            01-00-5e-00-00-16      static`

const netstatTable = `Active Connections

Proto  Local Address          Foreign Address        State
TCP    0.0.0.0:22             0.0.0.0:0              LISTENING
TCP    0.0.0.0:80             0.0.0.0:0              LISTENING
TCP    127.0.0.1:8080         127.0.0.1:49152        ESTABLISHED`
