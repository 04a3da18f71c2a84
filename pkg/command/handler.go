package command

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/newtron-network/netsim/pkg/model"
	"github.com/newtron-network/netsim/pkg/topology"
	"github.com/newtron-network/netsim/pkg/util"
)

// Handler owns the command vocabulary of one configuration domain.
// Handle returns nil when the command is not its to handle.
type Handler interface {
	Name() string
	Handle(c *Context) *model.CommandResult
}

// DefaultHandlers returns the standard chain in priority order. Several
// vocabularies overlap ("network ..." is both OSPF and DHCP pool syntax),
// so the order decides which handler wins.
func DefaultHandlers() []Handler {
	return []Handler{
		systemHandler{},
		interfaceHandler{},
		vlanHandler{},
		routingHandler{},
		hostHandler{},
		dhcpHandler{},
		securityHandler{},
		stpHandler{},
		lagHandler{},
	}
}

// Context is one command in flight. Device is the live device and is
// valid only until the handler returns.
type Context struct {
	ctx     context.Context
	Device  *model.Device
	View    model.CliView
	Session *model.Session // nil when the caller passed a bare view
	Tx      *topology.Tx
	Command string // trimmed, lower-cased
	Raw     string // as typed
	Parts   []string
	exec    *Executor
}

// Context returns the request context.
func (c *Context) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// Is reports whether the command equals any of the given forms.
func (c *Context) Is(forms ...string) bool {
	for _, f := range forms {
		if c.Command == f {
			return true
		}
	}
	return false
}

// HasPrefix reports whether the command starts with any of the prefixes.
func (c *Context) HasPrefix(prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(c.Command, p) {
			return true
		}
	}
	return false
}

// After returns the trimmed text following the first matching prefix.
func (c *Context) After(prefixes ...string) string {
	for _, p := range prefixes {
		if strings.HasPrefix(c.Command, p) {
			return strings.TrimSpace(c.Command[len(p):])
		}
	}
	return ""
}

// Arg returns the i-th token, or "".
func (c *Context) Arg(i int) string {
	if i < 0 || i >= len(c.Parts) {
		return ""
	}
	return c.Parts[i]
}

// Last returns the final token.
func (c *Context) Last() string {
	return util.LastToken(c.Command)
}

// log returns an entry tagged with the device and command.
func (c *Context) log() *logrus.Entry {
	return util.WithCommand(c.Device.ID, c.Command)
}
