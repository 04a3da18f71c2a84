package model

import (
	"fmt"
	"strings"
)

// CliView is the configuration context of a CLI session. It is owned by
// the session, not the device.
type CliView string

const (
	UserView           CliView = "userView"
	SystemView         CliView = "systemView"
	InterfaceView      CliView = "interfaceView"
	BgpView            CliView = "bgpView"
	PoolView           CliView = "poolView"
	ZoneView           CliView = "zoneView"
	AaaView            CliView = "aaaView"
	AclView            CliView = "aclView"
	SecurityPolicyView CliView = "securityPolicyView"
	SecurityRuleView   CliView = "securityRuleView"
)

// AllViews lists every view in declaration order.
var AllViews = []CliView{
	UserView, SystemView, InterfaceView, BgpView, PoolView,
	ZoneView, AaaView, AclView, SecurityPolicyView, SecurityRuleView,
}

// ParseView accepts the camelCase wire form ("systemView"), the Go-style
// form ("SystemView") or the CLI keyword form ("system-view").
func ParseView(s string) (CliView, error) {
	key := strings.ToLower(strings.ReplaceAll(s, "-", ""))
	for _, v := range AllViews {
		if strings.ToLower(string(v)) == key {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown CLI view '%s'", s)
}

// Parent returns the view that exit/quit returns to.
func (v CliView) Parent() CliView {
	if v == InterfaceView || v.IsSubView() {
		return SystemView
	}
	return UserView
}

// IsSubView returns true for named configuration sub-views below SystemView.
func (v CliView) IsSubView() bool {
	switch v {
	case BgpView, PoolView, ZoneView, AaaView, AclView, SecurityPolicyView, SecurityRuleView:
		return true
	}
	return false
}

// IsConfig returns true for every view other than UserView.
func (v CliView) IsConfig() bool {
	return v != UserView
}

// Keyword returns the hyphenated name used in CLI messages ("pool-view").
func (v CliView) Keyword() string {
	s := string(v)
	s = strings.TrimSuffix(s, "View")
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	b.WriteString("-view")
	return b.String()
}

// Session is the per-connection CLI state. The caller owns it and passes
// it to every command.
type Session struct {
	View             CliView `json:"view"`
	CurrentInterface string  `json:"currentInterface,omitempty"`
	CurrentPool      string  `json:"currentPool,omitempty"`
	CurrentACL       string  `json:"currentAcl,omitempty"`
}

// NewSession returns a session in UserView.
func NewSession() *Session {
	return &Session{View: UserView}
}

// Apply records the state changes carried by a command result.
// Leaving a view drops the context that belonged to it.
func (s *Session) Apply(r *CommandResult) {
	if r == nil {
		return
	}
	if r.NewView != nil {
		s.View = *r.NewView
		if s.View != InterfaceView {
			s.CurrentInterface = ""
		}
		if s.View != PoolView {
			s.CurrentPool = ""
		}
		if s.View != AclView {
			s.CurrentACL = ""
		}
	}
	if r.NewInterface != "" {
		s.CurrentInterface = r.NewInterface
	}
	if r.NewPool != "" {
		s.CurrentPool = r.NewPool
	}
	if r.NewACL != "" {
		s.CurrentACL = r.NewACL
	}
}
