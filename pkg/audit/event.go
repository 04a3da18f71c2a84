// Package audit records every CLI command dispatched to a simulated device.
package audit

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Event is one dispatched command.
type Event struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	User      string        `json:"user,omitempty"`
	Device    string        `json:"device"`
	Command   string        `json:"command"`
	View      string        `json:"view"`
	Handler   string        `json:"handler,omitempty"`
	Interface string        `json:"interface,omitempty"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
	SessionID string        `json:"session_id,omitempty"`
}

// Filter defines criteria for querying audit events.
// Tail keeps only the newest Tail matches and is applied after Offset and Limit.
type Filter struct {
	Device      string
	User        string
	Handler     string
	View        string
	SessionID   string
	StartTime   time.Time
	EndTime     time.Time
	SuccessOnly bool
	FailureOnly bool
	Limit       int
	Offset      int
	Tail        int
}

// NewEvent creates an event stamped with the current time.
func NewEvent(user, device, command string) *Event {
	return &Event{
		ID:        generateID(),
		Timestamp: time.Now(),
		User:      user,
		Device:    device,
		Command:   command,
	}
}

// WithView sets the view the command was issued from
func (e *Event) WithView(view string) *Event {
	e.View = view
	return e
}

// WithHandler sets the handler that claimed the command
func (e *Event) WithHandler(handler string) *Event {
	e.Handler = handler
	return e
}

// WithInterface sets the session interface
func (e *Event) WithInterface(iface string) *Event {
	e.Interface = iface
	return e
}

// WithSession sets the session ID
func (e *Event) WithSession(id string) *Event {
	e.SessionID = id
	return e
}

// WithSuccess marks the event as successful
func (e *Event) WithSuccess() *Event {
	e.Success = true
	return e
}

// WithFailure marks the event as failed with a message
func (e *Event) WithFailure(msg string) *Event {
	e.Success = false
	e.Error = msg
	return e
}

// WithError marks the event as failed
func (e *Event) WithError(err error) *Event {
	e.Success = false
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// WithDuration sets how long dispatch took
func (e *Event) WithDuration(d time.Duration) *Event {
	e.Duration = d
	return e
}

// Match reports whether the event satisfies every field set in f.
// Offset, Limit and Tail are not considered.
func (f Filter) Match(e *Event) bool {
	if f.Device != "" && e.Device != f.Device {
		return false
	}
	if f.User != "" && e.User != f.User {
		return false
	}
	if f.Handler != "" && e.Handler != f.Handler {
		return false
	}
	if f.View != "" && e.View != f.View {
		return false
	}
	if f.SessionID != "" && e.SessionID != f.SessionID {
		return false
	}
	if !f.StartTime.IsZero() && e.Timestamp.Before(f.StartTime) {
		return false
	}
	if !f.EndTime.IsZero() && e.Timestamp.After(f.EndTime) {
		return false
	}
	if f.SuccessOnly && !e.Success {
		return false
	}
	if f.FailureOnly && e.Success {
		return false
	}
	return true
}

// page applies Offset, Limit and Tail to matched events.
func (f Filter) page(events []*Event) []*Event {
	if f.Offset > 0 {
		if f.Offset >= len(events) {
			events = nil
		} else {
			events = events[f.Offset:]
		}
	}
	if f.Limit > 0 && f.Limit < len(events) {
		events = events[:f.Limit]
	}
	if f.Tail > 0 && f.Tail < len(events) {
		events = events[len(events)-f.Tail:]
	}
	return events
}

var idSeq atomic.Uint64

func generateID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), idSeq.Add(1))
}
