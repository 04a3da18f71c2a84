package command

import (
	"strings"

	"github.com/newtron-network/netsim/pkg/model"
)

// securityHandler acknowledges ACL, port-security, AAA and management
// access commands. Nothing here is enforced on simulated traffic.
type securityHandler struct{}

func (securityHandler) Name() string { return "security" }

func (h securityHandler) Handle(c *Context) *model.CommandResult {
	switch {
	case c.HasPrefix("acl number ", "acl name "):
		return h.enterACL(c, c.Arg(2), "ACL %s created. Entering ACL configuration.")

	case c.HasPrefix("ip access-list "):
		if len(c.Parts) < 4 {
			return h.incomplete(c, model.SystemView)
		}
		return h.enterACL(c, c.Arg(3), c.Arg(2)+" ACL '%s' created. Entering ACL configuration.")

	case c.HasPrefix("access-list "):
		return h.system(c, func() *model.CommandResult {
			if len(c.Parts) < 4 {
				return model.Fail("Error: Incomplete command. Usage: access-list <number> permit|deny <source>")
			}
			return model.Okf("ACL %s rule added: %s %s", c.Arg(1), c.Arg(2), c.Arg(3))
		})

	case c.HasPrefix("rule "):
		if r := c.require(model.AclView); r != nil {
			return r
		}
		if len(c.Parts) < 4 {
			return model.Fail("Error: Incomplete command. Usage: rule <id> permit|deny source <source>")
		}
		return model.Okf("Rule %s (%s) added successfully", c.Arg(1), c.Arg(2))

	case c.HasPrefix("permit ", "deny "):
		if r := c.require(model.AclView); r != nil {
			return r
		}
		return model.Okf("%s %s - rule added", c.Arg(0), c.After(c.Arg(0)))

	case c.HasPrefix("undo acl ", "no access-list ", "no ip access-list "):
		return h.system(c, func() *model.CommandResult {
			return model.Okf("ACL %s deleted", c.Last())
		})

	case c.HasPrefix("traffic-filter "):
		return h.iface(c, func() *model.CommandResult {
			if len(c.Parts) < 4 {
				return model.Fail("Error: Incomplete command. Usage: traffic-filter inbound|outbound acl <id>")
			}
			return model.Okf("ACL %s applied %s on interface", c.Last(), c.Arg(1))
		})

	case c.HasPrefix("ip access-group "):
		return h.iface(c, func() *model.CommandResult {
			if len(c.Parts) < 4 {
				return model.Fail("Error: Incomplete command. Usage: ip access-group <acl> in|out")
			}
			return model.Okf("ACL %s applied %s on interface", c.Arg(2), c.Arg(3))
		})

	case c.Is("display acl all", "show access-lists", "show ip access-lists"):
		return model.Ok(aclTable)

	case c.HasPrefix("display acl ", "show access-list "):
		return model.Okf("ACL %s\nRule 5 permit source 192.168.1.0 0.0.0.255\nRule 10 deny source any\n"+
			"(Simulated ACL - configure with 'acl number <id>')", c.Last())

	case c.Is("port-security enable", "switchport port-security"):
		return h.iface(c, func() *model.CommandResult {
			return model.Ok("Port security enabled on interface")
		})

	case c.HasPrefix("port-security max-mac-num ", "switchport port-security maximum "):
		return h.iface(c, func() *model.CommandResult {
			return model.Okf("Maximum MAC addresses set to %s", c.Last())
		})

	case c.HasPrefix("port-security protect-action ", "switchport port-security violation "):
		return h.iface(c, func() *model.CommandResult {
			return model.Okf("Violation action set to '%s'", c.Last())
		})

	case c.Is("switchport port-security mac-address sticky"):
		return h.iface(c, func() *model.CommandResult {
			return model.Ok("Sticky MAC address learning enabled")
		})

	case c.Is("display port-security", "show port-security", "show port-security interface"):
		return model.Ok(portSecurityTable)

	case c.Is("aaa"):
		if r := c.require(model.SystemView); r != nil {
			return r
		}
		return model.Ok("AAA enabled").WithView(model.AaaView)

	case c.Is("aaa new-model"):
		return h.system(c, func() *model.CommandResult {
			return model.Ok("AAA enabled")
		})

	case c.HasPrefix("local-user "):
		if c.View != model.SystemView && c.View != model.AaaView {
			return viewFailure(model.SystemView)
		}
		return model.Okf("Local user '%s' configuration", c.Arg(1))

	case c.HasPrefix("username "):
		return h.system(c, func() *model.CommandResult {
			return model.Okf("Username '%s' configured", c.Arg(1))
		})

	case c.HasPrefix("enable secret ", "enable password "):
		return h.system(c, func() *model.CommandResult {
			return model.Ok("Enable password configured")
		})

	case c.HasPrefix("line console ", "line vty "):
		return h.system(c, func() *model.CommandResult {
			return model.Okf("Entering %s line configuration", c.Arg(1))
		})

	case c.Is("login local", "login"):
		return h.system(c, func() *model.CommandResult {
			return model.Ok("Login authentication configured")
		})

	case c.HasPrefix("password "):
		return h.system(c, func() *model.CommandResult {
			return model.Ok("Password configured")
		})

	case c.HasPrefix("ssh server enable") || c.Is("ip ssh version 2"):
		return h.system(c, func() *model.CommandResult {
			return model.Ok("SSH server enabled")
		})

	case c.HasPrefix("transport input "):
		return h.system(c, func() *model.CommandResult {
			return model.Okf("Transport input set to: %s", c.After("transport input "))
		})
	}
	return nil
}

// enterACL switches to ACL view with id as the session's current list.
func (securityHandler) enterACL(c *Context, id, format string) *model.CommandResult {
	if r := c.require(model.SystemView); r != nil {
		return r
	}
	if id == "" {
		return model.Fail("Error: Incomplete command. Usage: acl number <id>")
	}
	r := model.Okf(format, id).WithView(model.AclView)
	r.NewACL = id
	return r
}

func (securityHandler) incomplete(c *Context, v model.CliView) *model.CommandResult {
	if r := c.require(v); r != nil {
		return r
	}
	return model.Fail("Error: Incomplete command")
}

func (securityHandler) system(c *Context, fn func() *model.CommandResult) *model.CommandResult {
	if r := c.require(model.SystemView); r != nil {
		return r
	}
	return fn()
}

func (securityHandler) iface(c *Context, fn func() *model.CommandResult) *model.CommandResult {
	if r := c.require(model.InterfaceView); r != nil {
		return r
	}
	return fn()
}

var aclTable = strings.Join([]string{
	"Access Control Lists",
	"",
	"ACL 2000 (Basic ACL)",
	"Rule 5 permit source 192.168.1.0 0.0.0.255",
	"Rule 10 permit source 10.0.0.0 0.255.255.255",
	"Rule 100 deny source any",
	"",
	"ACL 3000 (Advanced ACL)",
	"Rule 5 permit ip source 192.168.1.0 0.0.0.255 destination 172.16.0.0 0.0.255.255",
	"Rule 10 deny ip source any destination any",
	"",
	"(Simulated ACLs - configure with 'acl number <id>')",
}, "\n")

const portSecurityTable = `Port Security Status

Interface       Max    Current  Violation  Action
-------------------------------------------------
GE0/0/1         3      1        0          Protect
GE0/0/2         5      2        0          Restrict
GE0/0/3         1      1        1          Shutdown

Total ports with security: 3
Total violations: 1`
