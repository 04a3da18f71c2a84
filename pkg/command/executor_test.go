package command

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/newtron-network/netsim/pkg/audit"
	"github.com/newtron-network/netsim/pkg/model"
	"github.com/newtron-network/netsim/pkg/topology"
)

func routed(id, name, ip string) model.Port {
	p := model.Port{
		ID:     id,
		Name:   name,
		Type:   model.PortRJ45,
		Status: model.LinkUp,
		Config: model.PortConfig{Mode: model.ModeRouted, Enabled: true},
	}
	if ip != "" {
		p.Config.SetIP(ip, 24)
	}
	return p
}

func access(id, name string) model.Port {
	return model.Port{
		ID:     id,
		Name:   name,
		Type:   model.PortRJ45,
		Status: model.LinkUp,
		Config: model.PortConfig{Mode: model.ModeAccess, Enabled: true},
	}
}

// newTestExecutor builds:
//
//	r1 (router, GE0/0/1 routed, GE0/0/2 routed)
//	sw (switch, GE0/0/1 access, GE0/0/2 access)
//	a  (PC, eth0 routed, no address) --cable-- b (PC, eth0 10.0.0.2)
func newTestExecutor(t *testing.T, opts ...Option) (*Executor, *topology.Store) {
	t.Helper()
	store := topology.NewStore()
	store.Load([]model.Device{
		{
			ID: "r1", Type: model.DeviceRouter, Vendor: model.VendorHuawei, Hostname: "R1", Model: "AR2220",
			Ports: []model.Port{routed("r1-p1", "GE0/0/1", ""), routed("r1-p2", "GE0/0/2", "")},
		},
		{
			ID: "sw", Type: model.DeviceSwitch, Vendor: model.VendorCisco, Hostname: "SW", Model: "C2960",
			Ports: []model.Port{access("sw-p1", "GE0/0/1"), access("sw-p2", "GE0/0/2")},
		},
		{
			ID: "a", Type: model.DevicePC, Vendor: model.VendorPC, Hostname: "PC-A",
			Ports: []model.Port{routed("a-p1", "eth0", "")},
		},
		{
			ID: "b", Type: model.DevicePC, Vendor: model.VendorPC, Hostname: "PC-B",
			Ports: []model.Port{routed("b-p1", "eth0", "10.0.0.2")},
		},
	}, []model.Cable{
		{ID: "c1", Type: model.CableCopper, SourceDeviceID: "a", SourcePortID: "a-p1", TargetDeviceID: "b", TargetPortID: "b-p1"},
	})

	opts = append([]Option{WithAuditLogger(audit.NewMemoryLogger(0))}, opts...)
	return NewExecutor(store, opts...), store
}

func device(t *testing.T, store *topology.Store, id string) *model.Device {
	t.Helper()
	d, err := store.Device(id)
	if err != nil {
		t.Fatalf("Device(%s): %v", id, err)
	}
	return d
}

func mustSucceed(t *testing.T, res *model.CommandResult) {
	t.Helper()
	if !res.Success {
		t.Fatalf("command failed: %s", res.Output)
	}
}

// ============================================================================
// Dispatcher
// ============================================================================

func TestExecute_DeviceNotFound(t *testing.T) {
	x, _ := newTestExecutor(t)
	for _, cmd := range []string{"display version", "exit", "banana", ""} {
		res := x.Execute("nope", cmd, model.UserView)
		if res.Success {
			t.Errorf("Execute(nope, %q) succeeded", cmd)
		}
		if res.Output != "Device not found" {
			t.Errorf("output = %q", res.Output)
		}
	}
}

func TestExecute_Unrecognized(t *testing.T) {
	x, _ := newTestExecutor(t)
	for _, cmd := range []string{"banana", "BaNaNa split"} {
		res := x.Execute("r1", cmd, model.UserView)
		if res.Success {
			t.Fatalf("%q succeeded", cmd)
		}
		if !strings.Contains(res.Output, cmd) {
			t.Errorf("output %q does not echo %q", res.Output, cmd)
		}
	}
}

func TestExecute_ExitQuit(t *testing.T) {
	tests := []struct {
		from model.CliView
		want model.CliView
	}{
		{model.InterfaceView, model.SystemView},
		{model.SystemView, model.UserView},
		{model.UserView, model.UserView},
		{model.PoolView, model.SystemView},
		{model.AclView, model.SystemView},
		{model.BgpView, model.SystemView},
		{model.AaaView, model.SystemView},
		{model.SecurityRuleView, model.SystemView},
	}

	x, _ := newTestExecutor(t)
	for _, tt := range tests {
		for _, cmd := range []string{"exit", "  QUIT "} {
			res := x.Execute("r1", cmd, tt.from)
			if !res.Success || res.TargetView() != tt.want {
				t.Errorf("%q from %s = (%v, %s), want %s", cmd, tt.from, res.Success, res.TargetView(), tt.want)
			}
		}
	}
}

func TestExecute_CaseInsensitive(t *testing.T) {
	x, _ := newTestExecutor(t)
	res := x.Execute("r1", "  SYSTEM-VIEW  ", model.UserView)
	mustSucceed(t, res)
	if res.TargetView() != model.SystemView {
		t.Errorf("view = %s", res.TargetView())
	}
}

func TestExecute_WrongViewLeavesDeviceUnchanged(t *testing.T) {
	systemCommands := []string{
		"sysname core",
		"undo sysname",
		"vlan 10",
		"vlan batch 10 to 12",
		"undo vlan 20",
		"ip route-static 10.1.0.0 255.255.0.0 10.0.0.254",
		"undo ip route-static 10.1.0.0",
		"ospf 1",
		"undo ospf",
		"bgp 65001",
		"undo bgp",
		"dhcp enable",
		"undo dhcp enable",
		"ip pool lan",
		"acl number 2000",
		"stp priority 4096",
	}
	interfaceCommands := []string{
		"ip address 192.168.1.1 255.255.255.0",
		"undo ip address",
		"shutdown",
		"description uplink",
		"port link-type trunk",
		"port default vlan 10",
		"port trunk allow-pass vlan 10 20",
		"speed 100",
		"duplex full",
	}

	check := func(t *testing.T, cmd string, view model.CliView, wantMsg string) {
		x, store := newTestExecutor(t)
		before := device(t, store, "r1")
		res := x.Execute("r1", cmd, view)
		if res.Success {
			t.Fatalf("%q from %s succeeded: %s", cmd, view, res.Output)
		}
		if res.Output != wantMsg {
			t.Errorf("%q from %s: output = %q", cmd, view, res.Output)
		}
		if after := device(t, store, "r1"); !reflect.DeepEqual(before, after) {
			t.Errorf("%q from %s mutated the device", cmd, view)
		}
	}

	sysMsg := "Error: Command requires system-view. Enter 'system-view' first."
	ifMsg := "Error: Command requires interface-view. Enter 'interface <name>' first."
	for _, cmd := range systemCommands {
		for _, view := range []model.CliView{model.UserView, model.InterfaceView} {
			t.Run(cmd+"/"+string(view), func(t *testing.T) { check(t, cmd, view, sysMsg) })
		}
	}
	for _, cmd := range interfaceCommands {
		for _, view := range []model.CliView{model.UserView, model.SystemView} {
			t.Run(cmd+"/"+string(view), func(t *testing.T) { check(t, cmd, view, ifMsg) })
		}
	}
}

func TestExecute_DisplayFromAnyView(t *testing.T) {
	displays := []string{
		"display version",
		"display current-configuration",
		"display vlan",
		"display ip interface brief",
		"display ip routing-table",
		"display ip pool",
		"display acl all",
		"display stp",
		"display eth-trunk",
		"show running-config",
	}
	x, _ := newTestExecutor(t)
	for _, cmd := range displays {
		for _, view := range model.AllViews {
			if res := x.Execute("r1", cmd, view); !res.Success {
				t.Errorf("%q from %s failed: %s", cmd, view, res.Output)
			}
		}
	}
}

type panicHandler struct{}

func (panicHandler) Name() string                           { return "faulty" }
func (panicHandler) Handle(c *Context) *model.CommandResult { panic("boom") }

func TestExecute_RecoversFromPanic(t *testing.T) {
	logger := audit.NewMemoryLogger(0)
	x, store := newTestExecutor(t, WithHandlers(panicHandler{}), WithAuditLogger(logger))
	res := x.Execute("r1", "anything", model.UserView)
	if res.Success || !strings.Contains(res.Output, "boom") {
		t.Fatalf("result = %+v", res)
	}

	events, err := logger.Query(audit.Filter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(events) != 1 || events[0].Handler != "faulty" || events[0].Success {
		t.Errorf("audit after panic = %+v", events)
	}

	// The store lock must have been released.
	if store.Len() != 4 {
		t.Errorf("Len() = %d", store.Len())
	}
	if res := x.Execute("r1", "anything", model.UserView); !strings.Contains(res.Output, "Internal Error") {
		t.Errorf("second call = %q", res.Output)
	}
}

func TestExecute_AuditsEveryCommand(t *testing.T) {
	logger := audit.NewMemoryLogger(0)
	x, _ := newTestExecutor(t, WithAuditLogger(logger), WithUser("alice"))

	x.Execute("r1", "system-view", model.UserView)
	x.Execute("r1", "banana", model.UserView)
	x.Execute("missing", "display vlan", model.UserView)

	events, err := logger.Query(audit.Filter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Handler != "system" || !events[0].Success || events[0].User != "alice" {
		t.Errorf("event[0] = %+v", events[0])
	}
	if events[1].Handler != "" || events[1].Success || events[1].Error == "" {
		t.Errorf("event[1] = %+v", events[1])
	}
	if events[2].Device != "missing" || events[2].Success {
		t.Errorf("event[2] = %+v", events[2])
	}
}

// ============================================================================
// Sessions
// ============================================================================

func TestExecuteSession_TracksInterface(t *testing.T) {
	x, store := newTestExecutor(t)
	ctx := context.Background()
	s := model.NewSession()

	for _, cmd := range []string{"system-view", "interface GE0/0/2", "ip address 192.168.2.1 255.255.255.0"} {
		mustSucceed(t, x.ExecuteSession(ctx, "r1", cmd, s))
	}
	if s.View != model.InterfaceView || s.CurrentInterface != "GE0/0/2" {
		t.Fatalf("session = %+v", s)
	}

	d := device(t, store, "r1")
	if d.Ports[0].Config.HasIP() {
		t.Errorf("GE0/0/1 got an address: %s", d.Ports[0].Config.IPAddress)
	}
	if d.Ports[1].Config.IPAddress != "192.168.2.1" {
		t.Errorf("GE0/0/2 address = %q", d.Ports[1].Config.IPAddress)
	}

	mustSucceed(t, x.ExecuteSession(ctx, "r1", "exit", s))
	if s.View != model.SystemView || s.CurrentInterface != "" {
		t.Errorf("after exit session = %+v", s)
	}
}

func TestExecute_ImplicitPortWithoutSession(t *testing.T) {
	x, store := newTestExecutor(t)
	mustSucceed(t, x.Execute("r1", "ip address 192.168.2.1 24", model.InterfaceView))
	mustSucceed(t, x.Execute("r1", "shutdown", model.InterfaceView))

	d := device(t, store, "r1")
	if d.Ports[0].Config.IPAddress != "192.168.2.1" || d.Ports[0].Config.Enabled {
		t.Errorf("GE0/0/1 config = %+v", d.Ports[0].Config)
	}
	if d.Ports[1].Config.HasIP() || !d.Ports[1].Config.Enabled {
		t.Errorf("GE0/0/2 changed: %+v", d.Ports[1].Config)
	}
}

func TestExecuteSession_SessionInterfaceRemoved(t *testing.T) {
	x, _ := newTestExecutor(t)
	s := &model.Session{View: model.InterfaceView, CurrentInterface: "GE0/0/9"}
	res := x.ExecuteSession(context.Background(), "r1", "shutdown", s)
	if res.Success || res.Output != "Error: Interface GE0/0/9 not found." {
		t.Errorf("result = %+v", res)
	}
}

func TestExecuteSession_SubViews(t *testing.T) {
	tests := []struct {
		cmd  string
		view model.CliView
		pool string
		acl  string
		port string
	}{
		{"ip pool lan", model.PoolView, "lan", "", ""},
		{"ip dhcp pool guest", model.PoolView, "guest", "", ""},
		{"acl number 3000", model.AclView, "", "3000", ""},
		{"ip access-list extended web", model.AclView, "", "web", ""},
		{"aaa", model.AaaView, "", "", ""},
		{"interface eth-trunk 1", model.InterfaceView, "", "", "Eth-Trunk1"},
		{"interface port-channel 2", model.InterfaceView, "", "", "Port-channel2"},
	}

	x, _ := newTestExecutor(t)
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			s := &model.Session{View: model.SystemView}
			mustSucceed(t, x.ExecuteSession(context.Background(), "r1", tt.cmd, s))
			if s.View != tt.view || s.CurrentPool != tt.pool || s.CurrentACL != tt.acl || s.CurrentInterface != tt.port {
				t.Errorf("session = %+v", s)
			}
			mustSucceed(t, x.ExecuteSession(context.Background(), "r1", "quit", s))
			if s.View != model.SystemView || s.CurrentPool != "" || s.CurrentACL != "" || s.CurrentInterface != "" {
				t.Errorf("after quit session = %+v", s)
			}
		})
	}
}

func TestExecuteSession_LogicalInterfaceRejectsPortCommands(t *testing.T) {
	x, _ := newTestExecutor(t)
	ctx := context.Background()
	s := &model.Session{View: model.SystemView}

	mustSucceed(t, x.ExecuteSession(ctx, "r1", "interface eth-trunk 1", s))
	mustSucceed(t, x.ExecuteSession(ctx, "r1", "mode lacp-static", s))

	res := x.ExecuteSession(ctx, "r1", "shutdown", s)
	if res.Success || res.Output != "Error: Interface Eth-Trunk1 is not a physical port." {
		t.Errorf("shutdown on bundle = %+v", res)
	}
}

// ============================================================================
// History and saved configuration
// ============================================================================

func TestHistory(t *testing.T) {
	x, _ := newTestExecutor(t)

	res := x.Execute("r1", "display history-command", model.UserView)
	if res.Output != "(No command history)" {
		t.Errorf("empty history = %q", res.Output)
	}

	x.Execute("r1", "system-view", model.UserView)
	x.Execute("r1", "vlan 10", model.SystemView)
	x.Execute("sw", "vlan 20", model.SystemView)

	res = x.Execute("r1", "show history", model.UserView)
	want := "  display history-command\n  system-view\n  vlan 10"
	if res.Output != want {
		t.Errorf("history = %q, want %q", res.Output, want)
	}
}

func TestHistory_LastTen(t *testing.T) {
	x, _ := newTestExecutor(t)
	for i := 0; i < 15; i++ {
		x.Execute("r1", "display version", model.UserView)
	}
	cmds, err := x.History("r1", historySize)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(cmds) != historySize {
		t.Errorf("len = %d, want %d", len(cmds), historySize)
	}
}

func TestSaveAndDisplaySaved(t *testing.T) {
	x, _ := newTestExecutor(t)

	res := x.Execute("r1", "display saved-configuration", model.UserView)
	mustSucceed(t, res)
	if !strings.Contains(res.Output, "(No saved configuration)") || !strings.Contains(res.Output, "hostname R1") {
		t.Errorf("unsaved = %q", res.Output)
	}

	mustSucceed(t, x.Execute("r1", "sysname core1", model.SystemView))
	res = x.Execute("r1", "save", model.UserView)
	mustSucceed(t, res)
	if res.Output != "Configuration saved successfully." {
		t.Errorf("save = %q", res.Output)
	}

	// Later changes do not alter the saved copy.
	mustSucceed(t, x.Execute("r1", "sysname core2", model.SystemView))

	res = x.Execute("r1", "show startup-config", model.UserView)
	if !strings.HasPrefix(res.Output, "! Saved at ") || !strings.Contains(res.Output, "hostname core1") {
		t.Errorf("saved = %q", res.Output)
	}
}
