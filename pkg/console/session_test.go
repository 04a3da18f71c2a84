package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/newtron-network/netsim/pkg/audit"
	"github.com/newtron-network/netsim/pkg/command"
	"github.com/newtron-network/netsim/pkg/model"
	"github.com/newtron-network/netsim/pkg/topology"
)

func newTestExecutor(t *testing.T) *command.Executor {
	t.Helper()
	store := topology.NewStore()
	store.Load([]model.Device{
		{
			ID: "R1", Type: model.DeviceRouter, Vendor: model.VendorHuawei, Hostname: "R1",
			Ports: []model.Port{{
				ID: "r1-p1", Name: "GE0/0/1", Type: model.PortRJ45, Status: model.LinkUp,
				Config: model.PortConfig{Mode: model.ModeRouted, Enabled: true},
			}},
		},
		{
			ID: "SW", Type: model.DeviceSwitch, Vendor: model.VendorCisco, Hostname: "SW",
			Ports: []model.Port{{
				ID: "sw-p1", Name: "Gi0/1", Type: model.PortRJ45, Status: model.LinkUp,
				Config: model.PortConfig{Mode: model.ModeAccess, Enabled: true},
			}},
		},
	}, nil)
	return command.NewExecutor(store, command.WithAuditLogger(audit.NewMemoryLogger(0)))
}

type pipeRW struct {
	io.Reader
	io.Writer
}

func TestSession_Exec(t *testing.T) {
	x := newTestExecutor(t)
	s := NewSession(x, "R1")
	ctx := context.Background()

	steps := []struct {
		line       string
		wantOut    string
		wantDone   bool
		wantPrompt string
	}{
		{"", "", false, "<R1>"},
		{"system-view", "", false, "[R1]"},
		{"interface GE0/0/1", "", false, "[R1-GE0/0/1]"},
		{"quit", "", false, "[R1]"},
		{"vlan 10", "VLAN 10 created", false, "[R1]"},
		{"exit", "", false, "<R1>"},
		{"  QUIT ", "", true, "<R1>"},
	}

	for _, st := range steps {
		res, done := s.Exec(ctx, st.line)
		if !res.Success {
			t.Errorf("Exec(%q) failed: %s", st.line, res.Output)
		}
		if st.wantOut != "" && !strings.Contains(res.Output, st.wantOut) {
			t.Errorf("Exec(%q) output = %q, want substring %q", st.line, res.Output, st.wantOut)
		}
		if done != st.wantDone {
			t.Errorf("Exec(%q) done = %v, want %v", st.line, done, st.wantDone)
		}
		if got := s.Prompt(); got != st.wantPrompt {
			t.Errorf("after %q prompt = %q, want %q", st.line, got, st.wantPrompt)
		}
	}
}

func TestSession_ExecFailure(t *testing.T) {
	s := NewSession(newTestExecutor(t), "R1")
	res, done := s.Exec(context.Background(), "vlan 10")
	if done {
		t.Fatal("vlan 10 should not end the session")
	}
	if res.Success {
		t.Error("vlan 10 in user view should fail")
	}
	if s.State().View != model.UserView {
		t.Errorf("view = %s, want userView", s.State().View)
	}
}

func TestSession_Run(t *testing.T) {
	x := newTestExecutor(t)
	var out bytes.Buffer
	in := strings.NewReader("configure terminal\rvlan 20\rend\rquit\rdisplay version\r")

	if err := NewSession(x, "SW").Run(context.Background(), pipeRW{in, &out}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{"SW>", "SW(config)#", "VLAN 20 created"} {
		if !strings.Contains(got, want) {
			t.Errorf("console output missing %q:\n%s", want, got)
		}
	}
	// quit from user view ends the session before the last line runs
	if strings.Contains(got, "NetSim OS Software") {
		t.Errorf("command after logout was executed:\n%s", got)
	}

	dev, err := x.Store().Device("SW")
	if err != nil {
		t.Fatal(err)
	}
	if !dev.HasVLAN(20) {
		t.Error("vlan 20 typed at the console was not applied")
	}
}

func TestSession_RunEndsAtEOF(t *testing.T) {
	x := newTestExecutor(t)
	var out bytes.Buffer
	err := NewSession(x, "R1").Run(context.Background(), pipeRW{strings.NewReader("system-view\r"), &out})
	if err != nil {
		t.Fatalf("Run() at EOF error = %v, want nil", err)
	}
	if !strings.Contains(out.String(), "[R1]") {
		t.Errorf("prompt not updated after system-view:\n%s", out.String())
	}
}

func TestSession_RunUnknownDevice(t *testing.T) {
	x := newTestExecutor(t)
	var out bytes.Buffer
	if err := NewSession(x, "nope").Run(context.Background(), pipeRW{strings.NewReader(""), &out}); err == nil {
		t.Error("Run() on unknown device should error")
	}
}

func TestSession_RunCancelled(t *testing.T) {
	x := newTestExecutor(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	if err := NewSession(x, "R1").Run(ctx, pipeRW{strings.NewReader("system-view\r"), &out}); err != context.Canceled {
		t.Errorf("Run() with cancelled context = %v, want context.Canceled", err)
	}
}
