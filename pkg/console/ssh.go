package console

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"net"
	"sync"

	"golang.org/x/crypto/ssh"

	"github.com/newtron-network/netsim/pkg/command"
	"github.com/newtron-network/netsim/pkg/util"
)

// SSHServer exposes device consoles over SSH. The login name selects the
// device: "ssh R1@host" attaches to device R1.
type SSHServer struct {
	exec   *command.Executor
	config *ssh.ServerConfig

	wg sync.WaitGroup
}

// NewSSHServer creates a server that accepts password. A nil hostKey
// generates an ephemeral ed25519 key.
func NewSSHServer(exec *command.Executor, password string, hostKey ssh.Signer) (*SSHServer, error) {
	if password == "" {
		return nil, fmt.Errorf("ssh console: %w: password required", util.ErrInvalidConfig)
	}
	if hostKey == nil {
		var err error
		if hostKey, err = EphemeralHostKey(); err != nil {
			return nil, err
		}
	}

	srv := &SSHServer{exec: exec}
	srv.config = &ssh.ServerConfig{
		PasswordCallback: func(meta ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
			if subtle.ConstantTimeCompare(pass, []byte(password)) != 1 {
				return nil, errors.New("password rejected")
			}
			if _, err := exec.Store().Device(meta.User()); err != nil {
				return nil, fmt.Errorf("no device '%s'", meta.User())
			}
			return &ssh.Permissions{}, nil
		},
	}
	srv.config.AddHostKey(hostKey)
	return srv, nil
}

// EphemeralHostKey generates a fresh ed25519 host key.
func EphemeralHostKey() (ssh.Signer, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating host key: %w", err)
	}
	return ssh.NewSignerFromKey(priv)
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *SSHServer) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then waits for
// open sessions to finish.
func (s *SSHServer) Serve(ctx context.Context, ln net.Listener) error {
	util.WithField("addr", ln.Addr().String()).Info("SSH console listening")

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	defer s.wg.Wait()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

func (s *SSHServer) handleConn(ctx context.Context, nConn net.Conn) {
	conn, chans, reqs, err := ssh.NewServerConn(nConn, s.config)
	if err != nil {
		util.WithField("remote", nConn.RemoteAddr().String()).Debugf("SSH handshake failed: %v", err)
		nConn.Close()
		return
	}
	defer conn.Close()
	go ssh.DiscardRequests(reqs)

	// Close the connection when the server shuts down so sessions unblock.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	deviceID := conn.User()
	util.WithDevice(deviceID).WithField("remote", conn.RemoteAddr().String()).Info("SSH console login")

	var wg sync.WaitGroup
	for newCh := range chans {
		if newCh.ChannelType() != "session" {
			newCh.Reject(ssh.UnknownChannelType, "only session channels are supported")
			continue
		}
		ch, requests, err := newCh.Accept()
		if err != nil {
			util.WithDevice(deviceID).Warnf("accepting SSH channel: %v", err)
			continue
		}
		go acceptShell(requests)

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer ch.Close()
			status := uint32(0)
			if err := NewSession(s.exec, deviceID).Run(ctx, ch); err != nil {
				util.WithDevice(deviceID).Debugf("console session ended: %v", err)
				status = 1
			}
			ch.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{status}))
		}()
	}
	wg.Wait()
}

// acceptShell grants the requests an interactive client makes before and
// during a shell session.
func acceptShell(in <-chan *ssh.Request) {
	for req := range in {
		switch req.Type {
		case "shell", "pty-req", "window-change", "env":
			req.Reply(true, nil)
		default:
			req.Reply(false, nil)
		}
	}
}
