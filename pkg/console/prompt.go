// Package console serves interactive device consoles: vendor-style
// prompts, a line-discipline session loop, and an SSH front end.
package console

import (
	"strings"

	"github.com/newtron-network/netsim/pkg/model"
)

// dialect is the prompt family a device presents.
type dialect int

const (
	dialectVRP dialect = iota
	dialectIOS
	dialectHost
)

func dialectOf(dev *model.Device) dialect {
	if dev.Type == model.DevicePC || dev.Vendor == model.VendorPC {
		return dialectHost
	}
	switch dev.Vendor {
	case model.VendorCisco, model.VendorAruba:
		return dialectIOS
	}
	return dialectVRP
}

// iosModes names the configuration modes that differ from config-<view>.
var iosModes = map[model.CliView]string{
	model.InterfaceView: "config-if",
	model.BgpView:       "config-router",
	model.PoolView:      "dhcp-config",
	model.AclView:       "config-acl",
}

// Prompt renders the prompt for dev in the session's current view.
func Prompt(dev *model.Device, s *model.Session) string {
	host := dev.Hostname
	if host == "" {
		host = dev.ID
	}
	view := model.UserView
	if s != nil {
		view = s.View
	}

	switch dialectOf(dev) {
	case dialectHost:
		return host + "$ "

	case dialectIOS:
		switch view {
		case model.UserView:
			return host + ">"
		case model.SystemView:
			return host + "(config)#"
		}
		if mode, ok := iosModes[view]; ok {
			return host + "(" + mode + ")#"
		}
		return host + "(config-" + shortView(view) + ")#"
	}

	switch view {
	case model.UserView:
		return "<" + host + ">"
	case model.SystemView:
		return "[" + host + "]"
	case model.InterfaceView:
		if s.CurrentInterface != "" {
			return "[" + host + "-" + s.CurrentInterface + "]"
		}
	case model.PoolView:
		if s.CurrentPool != "" {
			return "[" + host + "-ip-pool-" + s.CurrentPool + "]"
		}
	case model.AclView:
		if s.CurrentACL != "" {
			return "[" + host + "-acl-" + s.CurrentACL + "]"
		}
	}
	return "[" + host + "-" + shortView(view) + "]"
}

// shortView is the view keyword without its "-view" suffix.
func shortView(v model.CliView) string {
	return strings.TrimSuffix(v.Keyword(), "-view")
}
