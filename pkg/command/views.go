package command

import (
	"strings"

	"github.com/newtron-network/netsim/pkg/model"
	"github.com/newtron-network/netsim/pkg/util"
)

// enterCommand is the command shown in wrong-view errors for each view.
var enterCommand = map[model.CliView]string{
	model.SystemView:    "system-view",
	model.InterfaceView: "interface <name>",
	model.PoolView:      "ip pool <name>",
	model.AclView:       "acl number <id>",
	model.BgpView:       "bgp <as-number>",
	model.AaaView:       "aaa",
}

// viewFailure is the result for a command issued outside its view.
func viewFailure(required model.CliView) *model.CommandResult {
	enter, ok := enterCommand[required]
	if !ok {
		enter = required.Keyword()
	}
	return model.Fail("Error: " + util.NewViewError(required.Keyword(), enter).Error())
}

// require returns nil when the session is in v, else the view failure.
func (c *Context) require(v model.CliView) *model.CommandResult {
	if c.View == v {
		return nil
	}
	return viewFailure(v)
}

// requireEntry gates interface entry, which is also allowed from another
// interface.
func (c *Context) requireEntry() *model.CommandResult {
	if c.View == model.SystemView || c.View == model.InterfaceView {
		return nil
	}
	return viewFailure(model.SystemView)
}

// portRule selects a port when no session interface is tracked.
type portRule int

const (
	firstPort      portRule = iota
	firstRouted             // ip address
	firstAddressed          // undo ip address
)

// logicalPrefixes name interfaces that exist only as LAG bundles.
var logicalPrefixes = []string{"eth-trunk", "port-channel"}

func isLogicalName(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range logicalPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// targetPort resolves the port an interface command acts on: the
// session's current interface when one is tracked, otherwise the first
// port matching rule.
func (c *Context) targetPort(rule portRule) (*model.Port, *model.CommandResult) {
	if c.Session != nil && c.Session.CurrentInterface != "" {
		name := c.Session.CurrentInterface
		p := c.Device.FindPort(name)
		if p == nil {
			if isLogicalName(name) {
				return nil, model.Errorf("Interface %s is not a physical port.", name)
			}
			return nil, model.Errorf("Interface %s not found.", name)
		}
		return p, nil
	}

	switch rule {
	case firstRouted:
		if p := c.Device.FirstRoutedPort(); p != nil {
			return p, nil
		}
		return nil, model.Fail("Error: No routed interface available")
	case firstAddressed:
		if p := c.Device.FirstIPPort(); p != nil {
			return p, nil
		}
		return nil, model.Fail("Error: No IP address to remove")
	default:
		if p := c.Device.FirstPort(); p != nil {
			return p, nil
		}
		return nil, model.Fail("Error: No interface available")
	}
}

// sessionInterface returns the tracked interface name, or "".
func (c *Context) sessionInterface() string {
	if c.Session == nil {
		return ""
	}
	return c.Session.CurrentInterface
}
