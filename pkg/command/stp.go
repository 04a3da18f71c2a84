package command

import (
	"strconv"
	"strings"

	"github.com/newtron-network/netsim/pkg/model"
)

// Bridge priorities are multiples of priorityStep up to maxBridgePriority.
const (
	maxBridgePriority = 61440
	priorityStep      = 4096
)

var stpModes = map[string]bool{"stp": true, "rstp": true, "mstp": true}

// stpHandler acknowledges spanning-tree configuration. No tree is computed.
type stpHandler struct{}

func (stpHandler) Name() string { return "stp" }

func (h stpHandler) Handle(c *Context) *model.CommandResult {
	if !c.HasPrefix("stp", "spanning-tree", "undo stp", "no spanning-tree", "display stp", "show spanning-tree") {
		return nil
	}

	switch {
	case c.Is("display stp", "show spanning-tree"):
		return model.Ok(stpStatus)

	case c.Is("display stp brief", "show spanning-tree summary"):
		return model.Ok(stpSummary)

	case c.HasPrefix("display stp interface", "show spanning-tree interface"):
		return model.Okf("STP Port State for %s\n"+
			"Port Role: Designated\n"+
			"Port State: Forwarding\n"+
			"Port Cost: 20000\n"+
			"Port Priority: 128\n"+
			"Designated Bridge: 32768.0050.5600.0001", c.Last())

	case c.Is("stp enable", "spanning-tree"):
		return h.global(c, "Spanning Tree Protocol enabled")

	case c.Is("undo stp enable", "no spanning-tree"):
		return h.global(c, "Spanning Tree Protocol disabled")

	case c.HasPrefix("stp mode "):
		if r := c.require(model.SystemView); r != nil {
			return r
		}
		mode := c.After("stp mode ")
		if !stpModes[mode] {
			return model.Errorf("Invalid mode '%s'. Use stp, rstp, or mstp.", mode)
		}
		return model.Okf("STP mode set to %s", strings.ToUpper(mode))

	case c.HasPrefix("spanning-tree mode "):
		return h.global(c, "Spanning tree mode set to "+c.After("spanning-tree mode "))

	case c.HasPrefix("stp priority "):
		if r := c.require(model.SystemView); r != nil {
			return r
		}
		p, err := strconv.ParseUint(c.After("stp priority "), 10, 32)
		if err != nil || p > maxBridgePriority || p%priorityStep != 0 {
			return model.Fail("Error: Priority must be 0-61440 in increments of 4096")
		}
		return model.Okf("Bridge priority set to %d", p)

	case c.HasPrefix("spanning-tree vlan ") && c.argAfter("priority") != "":
		return h.global(c, "VLAN bridge priority set to "+c.argAfter("priority"))

	case c.Is("stp root primary"):
		return h.global(c, "This switch is configured as root bridge (priority 0)")

	case c.HasPrefix("spanning-tree vlan") && strings.Contains(c.Command, "root primary"):
		return h.global(c, "This switch is configured as root bridge for specified VLANs")

	case strings.Contains(c.Command, "root secondary"):
		return h.global(c, "This switch is configured as secondary root bridge")

	case c.Is("stp bpdu-protection"):
		return h.global(c, "BPDU protection enabled")

	case c.Is("spanning-tree portfast bpduguard default"):
		return h.global(c, "BPDU guard enabled")

	case c.HasPrefix("stp cost ", "spanning-tree cost "):
		return h.port(c, "Port cost set to "+c.Last())

	case c.HasPrefix("stp port-priority ", "spanning-tree port-priority "):
		return h.port(c, "Port priority set to "+c.Last())

	case c.Is("stp edged-port enable"):
		return h.port(c, "Port configured as edge port (fast transition to forwarding)")

	case c.Is("spanning-tree portfast"):
		return h.port(c, "PortFast enabled on interface")

	case c.Is("spanning-tree bpduguard enable"):
		return h.port(c, "BPDU guard enabled")

	case c.Is("stp root-protection", "spanning-tree guard root"):
		return h.port(c, "Root guard enabled on port")

	case c.Is("stp loop-protection", "spanning-tree guard loop"):
		return h.port(c, "Loop guard enabled on port")
	}
	return nil
}

func (stpHandler) global(c *Context, msg string) *model.CommandResult {
	if r := c.require(model.SystemView); r != nil {
		return r
	}
	return model.Ok(msg)
}

func (stpHandler) port(c *Context, msg string) *model.CommandResult {
	if r := c.require(model.InterfaceView); r != nil {
		return r
	}
	return model.Ok(msg)
}

// argAfter returns the token following keyword, or "".
func (c *Context) argAfter(keyword string) string {
	for i, p := range c.Parts {
		if p == keyword {
			return c.Arg(i + 1)
		}
	}
	return ""
}

const stpStatus = `Spanning Tree Protocol Status

Mode: RSTP (Rapid Spanning Tree)
Bridge ID: 32768.0050.5600.0001
Root Bridge: 32768.0050.5600.0001 (This bridge is root)

Interface       Role       State      Cost   Priority
-------------------------------------------------------
GE0/0/1         Designated Forwarding 20000  128
GE0/0/2         Designated Forwarding 20000  128
GE0/0/3         Designated Forwarding 20000  128
GE0/0/4         Root       Forwarding 20000  128

Forward Delay: 15s, Max Age: 20s, Hello Time: 2s`

const stpSummary = `STP Summary

Bridge Mode: RSTP
Root Bridge: Yes (this switch)
Bridge Priority: 32768
Bridge MAC: 0050.5600.0001
Total Ports: 24
Forwarding: 4
Blocking: 0
Topology Changes: 0`
