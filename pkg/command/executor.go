// Package command dispatches vendor-style CLI text to a simulated device.
//
// An Executor owns the ordered handler chain. Each command runs with the
// topology store locked for its whole duration: the dispatcher looks the
// device up, normalizes the text, handles exit/quit, then offers the
// command to each handler in turn until one claims it. Handlers mutate the
// live device through the Context and return a CommandResult; they return
// nil to decline.
//
// Every failure, including a handler panic, comes back as a failed
// CommandResult. Nothing escapes Execute as an error or a panic.
package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/newtron-network/netsim/pkg/audit"
	"github.com/newtron-network/netsim/pkg/configstore"
	"github.com/newtron-network/netsim/pkg/metrics"
	"github.com/newtron-network/netsim/pkg/model"
	"github.com/newtron-network/netsim/pkg/simulation"
	"github.com/newtron-network/netsim/pkg/topology"
	"github.com/newtron-network/netsim/pkg/util"
)

// Executor runs CLI commands against devices in a topology store.
type Executor struct {
	store    *topology.Store
	engine   *simulation.Engine
	configs  configstore.Store
	audit    audit.Logger
	user     string
	handlers []Handler
}

// Option configures an Executor.
type Option func(*Executor)

// WithEngine sets the simulation engine used by ping and traceroute.
func WithEngine(e *simulation.Engine) Option {
	return func(x *Executor) { x.engine = e }
}

// WithConfigStore sets where save writes the running configuration.
func WithConfigStore(s configstore.Store) Option {
	return func(x *Executor) { x.configs = s }
}

// WithAuditLogger sets the logger that records every command. The same
// logger backs the command history display.
func WithAuditLogger(l audit.Logger) Option {
	return func(x *Executor) { x.audit = l }
}

// WithUser sets the user name recorded in audit events.
func WithUser(user string) Option {
	return func(x *Executor) { x.user = user }
}

// WithHandlers replaces the handler chain. Order is priority order.
func WithHandlers(h ...Handler) Option {
	return func(x *Executor) { x.handlers = h }
}

// NewExecutor creates an executor over store. Without options it uses a
// fresh engine, an in-memory config store, the default audit logger (or
// an in-memory one when none is set) and the standard handler chain.
func NewExecutor(store *topology.Store, opts ...Option) *Executor {
	x := &Executor{store: store}
	for _, opt := range opts {
		opt(x)
	}
	if x.engine == nil {
		x.engine = simulation.NewEngine()
	}
	if x.configs == nil {
		x.configs = configstore.NewMemoryStore()
	}
	if x.audit == nil {
		x.audit = audit.DefaultLogger()
	}
	if x.audit == nil {
		x.audit = audit.NewMemoryLogger(0)
	}
	if x.handlers == nil {
		x.handlers = DefaultHandlers()
	}
	return x
}

// Store returns the topology store the executor runs against.
func (x *Executor) Store() *topology.Store { return x.store }

// Engine returns the simulation engine.
func (x *Executor) Engine() *simulation.Engine { return x.engine }

// Execute runs one command from the given view. Interface commands act on
// the implicitly selected port since no session tracks the interface.
// The caller applies any view change carried by the result.
func (x *Executor) Execute(deviceID, text string, view model.CliView) *model.CommandResult {
	return x.dispatch(context.Background(), deviceID, text, view, nil)
}

// ExecuteSession runs one command in a tracked session and applies the
// result to it. Interface commands act on the session's current interface.
func (x *Executor) ExecuteSession(ctx context.Context, deviceID, text string, s *model.Session) *model.CommandResult {
	if s == nil {
		s = model.NewSession()
	}
	res := x.dispatch(ctx, deviceID, text, s.View, s)
	s.Apply(res)
	return res
}

func (x *Executor) dispatch(ctx context.Context, deviceID, text string, view model.CliView, s *model.Session) (res *model.CommandResult) {
	start := time.Now()
	handler := ""
	cmd := strings.ToLower(strings.TrimSpace(text))

	defer func() {
		if r := recover(); r != nil {
			util.WithCommand(deviceID, cmd).Warnf("Recovered from handler panic: %v", r)
			res = model.Failf("Internal Error: %v", r)
		}
		x.record(deviceID, text, view, s, handler, res, time.Since(start))
	}()

	err := x.store.Update(func(tx *topology.Tx) error {
		dev := tx.Device(deviceID)
		if dev == nil {
			res = model.Fail("Device not found")
			return nil
		}

		if cmd == "exit" || cmd == "quit" {
			handler = "navigation"
			res = model.Ok("").WithView(view.Parent())
			return nil
		}

		c := &Context{
			ctx:     ctx,
			Device:  dev,
			View:    view,
			Session: s,
			Tx:      tx,
			Command: cmd,
			Raw:     text,
			Parts:   strings.Fields(cmd),
			exec:    x,
		}
		for _, h := range x.handlers {
			handler = h.Name()
			if r := h.Handle(c); r != nil {
				res = r
				return nil
			}
		}
		handler = ""
		res = model.Errorf("Unrecognized command '%s' (Engine Fallback Triggered)", text)
		return nil
	})
	if err != nil {
		res = model.Failf("Internal Error: %v", err)
	}
	return res
}

func (x *Executor) record(deviceID, text string, view model.CliView, s *model.Session, handler string, res *model.CommandResult, d time.Duration) {
	entry := util.WithCommand(deviceID, text).
		WithField("view", view).
		WithField("handler", handler).
		WithField("success", res.Success)
	if handler == "" && res.Output != "Device not found" {
		entry.Warn("Unrecognized command")
	} else {
		entry.Debug("Command executed")
	}

	metrics.RecordCommand(handler, res.Success, d)

	ev := audit.NewEvent(x.user, deviceID, text).
		WithView(string(view)).
		WithHandler(handler).
		WithDuration(d)
	if s != nil {
		ev.WithInterface(s.CurrentInterface)
	}
	if res.Success {
		ev.WithSuccess()
	} else {
		ev.WithFailure(res.Output)
	}
	if err := x.audit.Log(ev); err != nil {
		util.WithDevice(deviceID).Warnf("audit: %v", err)
	}
}

// History returns the device's most recent commands, oldest first.
func (x *Executor) History(deviceID string, n int) ([]string, error) {
	events, err := x.audit.Query(audit.Filter{Device: deviceID, Tail: n})
	if err != nil {
		return nil, fmt.Errorf("reading command history: %w", err)
	}
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Command)
	}
	return out, nil
}
