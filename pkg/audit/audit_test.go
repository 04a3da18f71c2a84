package audit

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEvent_New(t *testing.T) {
	event := NewEvent("alice", "r1", "display version")

	if event.User != "alice" {
		t.Errorf("User = %q, want %q", event.User, "alice")
	}
	if event.Device != "r1" {
		t.Errorf("Device = %q, want %q", event.Device, "r1")
	}
	if event.Command != "display version" {
		t.Errorf("Command = %q", event.Command)
	}
	if event.ID == "" {
		t.Error("ID should not be empty")
	}
	if event.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
	if other := NewEvent("alice", "r1", "x"); other.ID == event.ID {
		t.Error("IDs should be unique")
	}
}

func TestEvent_Chaining(t *testing.T) {
	event := NewEvent("alice", "r1", "ip address 10.0.0.1 24").
		WithView("interfaceView").
		WithHandler("interface").
		WithInterface("GE0/0/0").
		WithSession("s1").
		WithSuccess().
		WithDuration(time.Millisecond)

	if event.View != "interfaceView" || event.Handler != "interface" {
		t.Errorf("View = %q Handler = %q", event.View, event.Handler)
	}
	if event.Interface != "GE0/0/0" || event.SessionID != "s1" {
		t.Errorf("Interface = %q SessionID = %q", event.Interface, event.SessionID)
	}
	if !event.Success || event.Duration != time.Millisecond {
		t.Errorf("Success = %v Duration = %v", event.Success, event.Duration)
	}
}

func TestEvent_WithError(t *testing.T) {
	event := NewEvent("alice", "r1", "x").WithError(errors.New("test error"))
	if event.Success || event.Error != "test error" {
		t.Errorf("Success = %v Error = %q", event.Success, event.Error)
	}

	event2 := NewEvent("alice", "r1", "x").WithError(nil)
	if event2.Success || event2.Error != "" {
		t.Errorf("nil error: Success = %v Error = %q", event2.Success, event2.Error)
	}

	event3 := NewEvent("alice", "r1", "x").WithSuccess().WithFailure("Error: bad")
	if event3.Success || event3.Error != "Error: bad" {
		t.Errorf("WithFailure: Success = %v Error = %q", event3.Success, event3.Error)
	}
}

func sampleEvents() []*Event {
	return []*Event{
		NewEvent("alice", "r1", "system-view").WithHandler("system").WithView("userView").WithSuccess(),
		NewEvent("bob", "r1", "vlan 10").WithHandler("vlan").WithView("systemView").WithSuccess(),
		NewEvent("alice", "sw1", "banana").WithView("userView").WithFailure("Error: Unrecognized command"),
		NewEvent("carol", "pc1", "ping 10.0.0.1").WithHandler("host").WithView("userView").WithSuccess(),
	}
}

func testLoggers(t *testing.T) map[string]Logger {
	t.Helper()
	file, err := NewFileLogger(filepath.Join(t.TempDir(), "audit.log"), RotationConfig{})
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	t.Cleanup(func() { file.Close() })
	return map[string]Logger{
		"file":   file,
		"memory": NewMemoryLogger(0),
	}
}

func TestLogger_QueryFilters(t *testing.T) {
	for name, logger := range testLoggers(t) {
		t.Run(name, func(t *testing.T) {
			for _, e := range sampleEvents() {
				if err := logger.Log(e); err != nil {
					t.Fatalf("Log failed: %v", err)
				}
			}

			tests := []struct {
				name   string
				filter Filter
				want   int
			}{
				{"all", Filter{}, 4},
				{"by user", Filter{User: "alice"}, 2},
				{"by device", Filter{Device: "r1"}, 2},
				{"by handler", Filter{Handler: "vlan"}, 1},
				{"by view", Filter{View: "userView"}, 3},
				{"success only", Filter{SuccessOnly: true}, 3},
				{"failure only", Filter{FailureOnly: true}, 1},
				{"limit", Filter{Limit: 2}, 2},
				{"offset", Filter{Offset: 2}, 2},
				{"offset beyond", Filter{Offset: 10}, 0},
				{"tail", Filter{Tail: 1}, 1},
				{"start in future", Filter{StartTime: time.Now().Add(time.Hour)}, 0},
				{"end in past", Filter{EndTime: time.Now().Add(-time.Hour)}, 0},
			}
			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					got, err := logger.Query(tt.filter)
					if err != nil {
						t.Fatalf("Query failed: %v", err)
					}
					if len(got) != tt.want {
						t.Errorf("got %d events, want %d", len(got), tt.want)
					}
				})
			}

			tail, _ := logger.Query(Filter{Tail: 1})
			if len(tail) == 1 && tail[0].Command != "ping 10.0.0.1" {
				t.Errorf("Tail returned %q, want newest event", tail[0].Command)
			}
		})
	}
}

func TestMemoryLogger_Capacity(t *testing.T) {
	logger := NewMemoryLogger(3)
	for _, cmd := range []string{"a", "b", "c", "d", "e"} {
		logger.Log(NewEvent("", "r1", cmd))
	}

	events, _ := logger.Query(Filter{})
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Command != "c" || events[2].Command != "e" {
		t.Errorf("kept %q..%q, want c..e", events[0].Command, events[2].Command)
	}
}

func TestMemoryLogger_CopiesEvents(t *testing.T) {
	logger := NewMemoryLogger(0)
	e := NewEvent("", "r1", "vlan 10")
	logger.Log(e)
	e.Command = "changed"

	events, _ := logger.Query(Filter{})
	if events[0].Command != "vlan 10" {
		t.Error("logger aliases the caller's event")
	}
	events[0].Command = "changed"
	again, _ := logger.Query(Filter{})
	if again[0].Command != "vlan 10" {
		t.Error("Query result aliases stored event")
	}
}

func TestFileLogger_NonExistentDir(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nonexistent", "audit.log")
	logger, err := NewFileLogger(logPath, RotationConfig{})
	if err != nil {
		t.Fatalf("NewFileLogger should create directories: %v", err)
	}
	defer logger.Close()
}

func TestFileLogger_QueryMissingFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.log")
	logger, err := NewFileLogger(logPath, RotationConfig{})
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	defer logger.Close()
	os.Remove(logPath)

	results, err := logger.Query(Filter{})
	if err != nil {
		t.Errorf("Query on missing file should not error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected 0 events, got %d", len(results))
	}
}

func TestFileLogger_OpenErrors(t *testing.T) {
	if _, err := NewFileLogger("/dev/null/impossible/audit.log", RotationConfig{}); err == nil {
		t.Error("NewFileLogger should fail when directory creation fails")
	}

	logPath := filepath.Join(t.TempDir(), "audit.log")
	if err := os.Mkdir(logPath, 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if _, err := NewFileLogger(logPath, RotationConfig{}); err == nil {
		t.Error("NewFileLogger should fail when log path is a directory")
	}
}

func TestFileLogger_QueryMalformedJSON(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.log")
	content := `{"device":"r1","command":"vlan 10","success":true}
invalid json line
{"device":"sw1","command":"vlan 20","success":true}
`
	if err := os.WriteFile(logPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test data: %v", err)
	}

	logger, err := NewFileLogger(logPath, RotationConfig{})
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	defer logger.Close()

	results, err := logger.Query(Filter{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 valid events (skipping malformed), got %d", len(results))
	}
}

func TestFileLogger_Rotation(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "audit.log")
	logger, err := NewFileLogger(logPath, RotationConfig{MaxSize: 50, MaxBackups: 2})
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	defer logger.Close()

	for i := 0; i < 10; i++ {
		if err := logger.Log(NewEvent("alice", "r1", "display vlan")); err != nil {
			t.Fatalf("Log failed on iteration %d: %v", i, err)
		}
	}

	matches, err := filepath.Glob(filepath.Join(dir, "audit.log.*"))
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(matches) == 0 {
		t.Error("Expected rotation to create backup files")
	}
	if len(matches) > 2 {
		t.Errorf("Expected at most 2 backup files, got %d", len(matches))
	}
}

func TestDefaultLogger(t *testing.T) {
	SetDefaultLogger(nil)
	defer SetDefaultLogger(nil)

	if err := Log(NewEvent("test", "test", "test")); err != nil {
		t.Errorf("Log with nil default should not error: %v", err)
	}
	results, err := Query(Filter{})
	if err != nil || len(results) != 0 {
		t.Errorf("Query with nil default = %d, %v", len(results), err)
	}

	SetDefaultLogger(NewMemoryLogger(0))
	if err := Log(NewEvent("alice", "r1", "test").WithSuccess()); err != nil {
		t.Errorf("Log failed: %v", err)
	}
	results, _ = Query(Filter{})
	if len(results) != 1 {
		t.Errorf("Expected 1 result, got %d", len(results))
	}
}
