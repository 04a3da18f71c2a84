package console

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/ssh"
)

func startSSH(t *testing.T) string {
	t.Helper()
	srv, err := NewSSHServer(newTestExecutor(t), "lab", nil)
	if err != nil {
		t.Fatalf("NewSSHServer() error = %v", err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	})
	return ln.Addr().String()
}

func dial(addr, user, password string) (*ssh.Client, error) {
	return ssh.Dial("tcp", addr, &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{ssh.Password(password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         5 * time.Second,
	})
}

func TestSSHServer_Session(t *testing.T) {
	addr := startSSH(t)

	client, err := dial(addr, "R1", "lab")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	sess, err := client.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer sess.Close()

	var out bytes.Buffer
	sess.Stdout = &out
	sess.Stdin = strings.NewReader("system-view\rsysname core\rreturn\rquit\r")
	if err := sess.Shell(); err != nil {
		t.Fatalf("Shell: %v", err)
	}
	if err := sess.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	got := out.String()
	for _, want := range []string{"<R1>", "[R1]", "<core>"} {
		if !strings.Contains(got, want) {
			t.Errorf("ssh console output missing %q:\n%s", want, got)
		}
	}
}

func TestSSHServer_RejectsLogin(t *testing.T) {
	addr := startSSH(t)

	tests := []struct {
		name     string
		user     string
		password string
	}{
		{"wrong password", "R1", "guess"},
		{"unknown device", "R9", "lab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := dial(addr, tt.user, tt.password)
			if err == nil {
				client.Close()
				t.Fatal("login should have been rejected")
			}
		})
	}
}

func TestNewSSHServer_RequiresPassword(t *testing.T) {
	if _, err := NewSSHServer(newTestExecutor(t), "", nil); err == nil {
		t.Error("NewSSHServer() without password should error")
	}
}

func TestEphemeralHostKey(t *testing.T) {
	k, err := EphemeralHostKey()
	if err != nil {
		t.Fatalf("EphemeralHostKey() error = %v", err)
	}
	if k.PublicKey().Type() != ssh.KeyAlgoED25519 {
		t.Errorf("host key type = %s, want %s", k.PublicKey().Type(), ssh.KeyAlgoED25519)
	}
}
