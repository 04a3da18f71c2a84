package command

import (
	"github.com/newtron-network/netsim/pkg/model"
)

// lagHandler acknowledges link aggregation commands. Entering a bundle
// moves the session into interface view on the bundle's logical name; no
// membership or LACP state is kept.
type lagHandler struct{}

func (lagHandler) Name() string { return "lag" }

// bundleKinds maps the command keyword to the bundle's display name.
var bundleKinds = []struct{ keyword, name string }{
	{"eth-trunk", "Eth-Trunk"},
	{"port-channel", "Port-channel"},
}

func (h lagHandler) Handle(c *Context) *model.CommandResult {
	for _, k := range bundleKinds {
		switch {
		case c.HasPrefix("interface " + k.keyword):
			return h.enter(c, k.name, c.After("interface "+k.keyword))
		case c.HasPrefix("undo interface "+k.keyword, "no interface "+k.keyword):
			if r := c.require(model.SystemView); r != nil {
				return r
			}
			return model.Okf("%s %s deleted", k.name, c.Last())
		}
	}

	switch {
	case c.Is("display eth-trunk") || c.HasPrefix("display eth-trunk "):
		return model.Ok(ethTrunkSummary)

	case c.Is("show etherchannel summary", "show etherchannel"):
		return model.Ok(etherChannelSummary)

	case c.Is("show etherchannel detail"):
		return model.Ok(etherChannelDetail)

	case c.Is("display lacp", "show lacp neighbor"):
		return model.Ok(lacpNeighbors)

	case c.HasPrefix("eth-trunk "):
		return h.member(c, "Interface added to Eth-Trunk "+c.After("eth-trunk "))

	case c.HasPrefix("channel-group "):
		if len(c.Parts) >= 4 {
			return h.member(c, "Interface added to channel-group "+c.Arg(1)+" mode "+c.Arg(3))
		}
		return h.member(c, "Interface added to channel-group "+c.Arg(1))

	case c.HasPrefix("mode lacp"):
		return h.member(c, "LACP mode configured")

	case c.Is("mode manual load-balance"):
		return h.member(c, "Manual load balance mode configured")

	case c.HasPrefix("load-balance "):
		return h.member(c, "Load balance method set to "+c.After("load-balance "))

	case c.HasPrefix("lacp timeout ", "lacp rate "):
		return h.member(c, "LACP timeout set to "+c.Last())

	case c.HasPrefix("max active-linknumber ", "lacp max-bundle "):
		return h.member(c, "Maximum active links set to "+c.Last())

	case c.HasPrefix("port-channel load-balance "):
		return h.global(c, "Port-channel load balance set to "+c.After("port-channel load-balance "))

	case c.HasPrefix("lacp priority "):
		return h.global(c, "LACP system priority set to "+c.After("lacp priority "))
	}
	return nil
}

// enter creates the bundle and switches the session to it. Both
// "interface eth-trunk 1" and "interface eth-trunk1" name bundle 1.
func (lagHandler) enter(c *Context, kind, id string) *model.CommandResult {
	if r := c.requireEntry(); r != nil {
		return r
	}
	if id == "" {
		return model.Failf("Error: Incomplete command. Usage: interface %s <id>", kind)
	}
	r := model.Okf("%s %s created. Entering interface configuration.", kind, id).WithView(model.InterfaceView)
	r.NewInterface = kind + id
	return r
}

func (lagHandler) member(c *Context, msg string) *model.CommandResult {
	if r := c.require(model.InterfaceView); r != nil {
		return r
	}
	return model.Ok(msg)
}

func (lagHandler) global(c *Context, msg string) *model.CommandResult {
	if r := c.require(model.SystemView); r != nil {
		return r
	}
	return model.Ok(msg)
}

const ethTrunkSummary = `Eth-Trunk Summary

Trunk ID    Mode        Status    Member Ports
------------------------------------------------
Eth-Trunk1  LACP        Up        GE0/0/1, GE0/0/2
Eth-Trunk2  Manual      Down      (no members)

Load Balance: src-dst-mac
LACP Priority: 32768`

const etherChannelSummary = `EtherChannel Summary

Group  Port-channel  Protocol    Ports
------------------------------------------
1      Po1(SU)       LACP        Gi0/1(P) Gi0/2(P)
2      Po2(SD)       -           (none)

Flags:  D - down        P - bundled in port-channel
        I - stand-alone s - suspended
        H - Hot-standby R - Layer3      S - Layer2
        U - in use      N - not in use`

const etherChannelDetail = `Port-Channel 1:
Ports: 2
Port-state: Port-channel Ag-Inuse
Protocol: LACP

Age of the Port-channel: 0d:00h:15m:30s
Last bundled: 0d:00h:15m:30s

Member Ports:
Port: Gi0/1 (Active)
Port: Gi0/2 (Active)`

const lacpNeighbors = `LACP Information

System Priority: 32768
System MAC: 0050.5600.0001

Port          Partner     Partner  State
Port          System ID   Port
------------------------------------------
GE0/0/1       32768.0050  Gi0/1    Active
GE0/0/2       32768.0050  Gi0/2    Active`
