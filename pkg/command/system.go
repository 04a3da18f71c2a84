package command

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/newtron-network/netsim/pkg/model"
	"github.com/newtron-network/netsim/pkg/util"
	"github.com/newtron-network/netsim/pkg/version"
)

// DefaultHostname is restored by undo sysname.
const DefaultHostname = "Router"

// historySize is how many commands display history-command shows.
const historySize = 10

// systemHandler covers navigation, hostname, version, configuration
// display and save, history and help.
type systemHandler struct{}

func (systemHandler) Name() string { return "system" }

func (h systemHandler) Handle(c *Context) *model.CommandResult {
	switch {
	case c.Is("return", "end"):
		return model.Ok("").WithView(model.UserView)

	case c.HasPrefix("sysname ", "hostname "):
		return h.setHostname(c)

	case c.Is("undo sysname", "no hostname"):
		if r := c.require(model.SystemView); r != nil {
			return r
		}
		c.Device.Hostname = DefaultHostname
		r := model.Ok("Hostname reset to default.")
		r.NewHostname = DefaultHostname
		return r

	case c.Is("system-view", "configure terminal", "conf t"):
		return model.Ok("Enter configuration commands, one per line. End with CNTL/Z.").
			WithView(model.SystemView)

	case c.Is("display version", "show version"):
		return model.Okf("NetSim OS Software, Version %s\n"+
			"Copyright (C) 2024-2026 NetSim Community\n"+
			"\n"+
			"Device:    %s\n"+
			"Model:     %s\n"+
			"Vendor:    %s\n"+
			"Uptime:    0 days, 0 hours, 0 minutes\n"+
			"Engine:    netsim %s",
			version.OSVersion, c.Device.Hostname, c.Device.Model, c.Device.Vendor, version.Version)

	case c.Is("display current-configuration", "show running-config", "show run"):
		return model.Ok(RunningConfig(c.Device))

	case c.Is("display saved-configuration", "show startup-config"):
		return h.savedConfig(c)

	case c.Is("save", "write", "write memory", "copy running-config startup-config"):
		return h.save(c)

	case c.Is("display history-command", "show history"):
		return h.history(c)

	case c.Is("?", "help"):
		return model.Ok(helpText)
	}
	return nil
}

func (systemHandler) setHostname(c *Context) *model.CommandResult {
	if r := c.require(model.SystemView); r != nil {
		return r
	}
	_, name, _ := strings.Cut(c.Command, " ")
	name = strings.TrimSpace(name)
	if err := util.ValidateHostname(name); err != nil {
		return model.Fail("Error: " + err.Error())
	}
	c.Device.Hostname = name
	r := model.Okf("Hostname set to '%s'", name)
	r.NewHostname = name
	return r
}

func (systemHandler) save(c *Context) *model.CommandResult {
	if _, err := c.exec.configs.Save(c.Context(), c.Device.ID, RunningConfig(c.Device)); err != nil {
		c.log().WithError(err).Warn("Save failed")
		return model.Errorf("Failed to save configuration: %v", err)
	}
	return model.Ok("Configuration saved successfully.")
}

func (systemHandler) savedConfig(c *Context) *model.CommandResult {
	saved, err := c.exec.configs.Load(c.Context(), c.Device.ID)
	if errors.Is(err, util.ErrNotFound) {
		return model.Okf("!\n! Last saved configuration\n!\nhostname %s\n!\n! (No saved configuration)",
			c.Device.Hostname)
	}
	if err != nil {
		return model.Errorf("Failed to read saved configuration: %v", err)
	}
	return model.Okf("! Saved at %s\n%s", saved.SavedAt.Format(time.RFC3339), saved.Config)
}

func (systemHandler) history(c *Context) *model.CommandResult {
	cmds, err := c.exec.History(c.Device.ID, historySize)
	if err != nil {
		return model.Errorf("%v", err)
	}
	if len(cmds) == 0 {
		return model.Ok("(No command history)")
	}
	var b strings.Builder
	for i, cmd := range cmds {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "  %s", cmd)
	}
	return model.Ok(b.String())
}

const helpText = `Available commands:

Navigation:
- system-view / configure terminal  Enter configuration mode
- return / end                      Return to user view
- exit / quit                       Exit current view

System:
- sysname <name> / hostname <name>  Set device hostname (requires system-view)
- display version / show version    Display system version
- display current-configuration     Show running config
- save / write memory               Save configuration
- display history-command           Show recent commands

Interface:
- interface <name>                  Enter interface config
- display ip interface brief        Show IP summary
- ip address <ip> <mask>            Set interface address (requires interface-view)

VLAN:
- vlan <id> / vlan batch <list>     Create VLANs (requires system-view)
- display vlan                      Show VLANs

Routing:
- ip route-static <dst> <mask> <nh> Add static route (requires system-view)
- display ip routing-table          Show routing table

Host:
- ping <ip> / traceroute <ip>       Test connectivity
- ipconfig                          Show host addresses
`
