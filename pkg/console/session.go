package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"

	"github.com/newtron-network/netsim/pkg/command"
	"github.com/newtron-network/netsim/pkg/metrics"
	"github.com/newtron-network/netsim/pkg/model"
	"github.com/newtron-network/netsim/pkg/util"
)

// Session is one interactive console attached to a device. It owns the
// CLI view state for its lifetime.
type Session struct {
	exec     *command.Executor
	deviceID string
	state    *model.Session
}

// NewSession attaches a console to deviceID, starting in user view.
func NewSession(exec *command.Executor, deviceID string) *Session {
	return &Session{
		exec:     exec,
		deviceID: deviceID,
		state:    model.NewSession(),
	}
}

// DeviceID returns the device the session is attached to.
func (s *Session) DeviceID() string { return s.deviceID }

// State returns the session's CLI state.
func (s *Session) State() *model.Session { return s.state }

// Prompt renders the prompt for the current view.
func (s *Session) Prompt() string {
	dev, err := s.exec.Store().Device(s.deviceID)
	if err != nil {
		return s.deviceID + "> "
	}
	return Prompt(dev, s.state)
}

// Exec runs one input line. done is true when the line ends the session:
// exit or quit typed in user view. Blank lines succeed with no output.
func (s *Session) Exec(ctx context.Context, line string) (res *model.CommandResult, done bool) {
	cmd := strings.ToLower(strings.TrimSpace(line))
	if cmd == "" {
		return model.Ok(""), false
	}
	if (cmd == "exit" || cmd == "quit") && !s.state.View.IsConfig() {
		return model.Ok(""), true
	}
	return s.exec.ExecuteSession(ctx, s.deviceID, line, s.state), false
}

// Run reads lines from rw until the user logs out, the input ends or ctx
// is cancelled. Line editing and echo come from an x/term Terminal, so rw
// can be a raw TTY or an SSH channel.
func (s *Session) Run(ctx context.Context, rw io.ReadWriter) error {
	if _, err := s.exec.Store().Device(s.deviceID); err != nil {
		return fmt.Errorf("attaching console: %w", err)
	}

	metrics.SessionOpened()
	defer metrics.SessionClosed()

	log := util.WithDevice(s.deviceID)
	log.Debug("Console session opened")
	defer log.Debug("Console session closed")

	t := term.NewTerminal(rw, s.Prompt())
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := t.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		res, done := s.Exec(ctx, line)
		if done {
			return nil
		}
		if res.Output != "" {
			if _, err := fmt.Fprintln(t, res.Output); err != nil {
				return err
			}
		}
		t.SetPrompt(s.Prompt())
	}
}
