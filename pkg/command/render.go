package command

import (
	"fmt"
	"strings"

	"github.com/newtron-network/netsim/pkg/model"
	"github.com/newtron-network/netsim/pkg/util"
)

// RunningConfig renders the device configuration in the "!"-delimited
// running-config layout shown by display current-configuration.
func RunningConfig(d *model.Device) string {
	var lines []string
	add := func(format string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	add("!")
	add("! NetSim Configuration - %s", d.Hostname)
	add("! Generated by NetSim Engine")
	add("!")
	add("hostname %s", d.Hostname)
	add("!")

	if len(d.VLANs) > 0 {
		for _, v := range d.VLANs {
			add("vlan %d", v)
		}
		add("!")
	}

	for _, p := range d.Ports {
		add("interface %s", p.Name)
		if p.Config.Description != "" {
			add(" description %s", p.Config.Description)
		}
		switch p.Config.Mode {
		case model.ModeAccess:
			add(" port link-type access")
			if p.Config.VLAN != nil {
				add(" port default vlan %d", *p.Config.VLAN)
			}
		case model.ModeTrunk:
			add(" port link-type trunk")
			if p.Config.AllowedVLANs != nil {
				add(" port trunk allow-pass vlan %s", util.JoinInts(p.Config.AllowedVLANs, " "))
			}
		case model.ModeHybrid:
			add(" port link-type hybrid")
		}
		if p.Config.HasIP() {
			add(" ip address %s %s", p.Config.IPAddress, util.PrefixLenToMask(p.Config.PrefixLen()))
		}
		if p.Config.Speed != "" {
			add(" speed %s", p.Config.Speed)
		}
		if p.Config.Duplex != "" {
			add(" duplex %s", p.Config.Duplex)
		}
		if !p.Config.Enabled {
			add(" shutdown")
		}
		add("!")
	}

	if len(d.StaticRoutes) > 0 {
		for _, r := range d.StaticRoutes {
			add("ip route-static %s %s %s", r.Destination, util.PrefixLenToMask(r.PrefixLen), r.NextHop)
		}
		add("!")
	}

	if model.IsTrue(d.OSPFEnabled) {
		add("router ospf 1")
		add(" area 0")
		add("!")
	}
	if model.IsTrue(d.BGPEnabled) {
		add("bgp")
		add("!")
	}
	if model.IsTrue(d.DHCPEnabled) {
		add("dhcp enable")
		add("!")
	}

	add("!")
	add("end")
	return strings.Join(lines, "\n")
}
