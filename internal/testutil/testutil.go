//go:build integration

// Package testutil provides helpers for integration tests that need a
// Redis server.
//
// The server is found through NETSIM_TEST_REDIS_ADDR, or else by asking
// Docker for the address of the netsim-test-redis container.
package testutil

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
)

// TestDB is the Redis database integration tests write to.
const TestDB = 9

const containerName = "netsim-test-redis"

// Redis is a connection to the test database, flushed when opened.
type Redis struct {
	Addr   string
	DB     int
	Client *redis.Client
	t      *testing.T
}

// OpenRedis connects to the test server and flushes TestDB, or skips the
// test when no server is reachable. The client is closed on cleanup.
func OpenRedis(t *testing.T) *Redis {
	t.Helper()

	addr := RedisAddr()
	if addr == "" {
		t.Skip("test Redis not available: set NETSIM_TEST_REDIS_ADDR or start " + containerName)
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: TestDB})
	t.Cleanup(func() { client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("test Redis not reachable at %s: %v", addr, err)
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flushing DB %d: %v", TestDB, err)
	}
	return &Redis{Addr: addr, DB: TestDB, Client: client, t: t}
}

// RedisAddr returns the address of the test Redis server, or "".
func RedisAddr() string {
	if addr := os.Getenv("NETSIM_TEST_REDIS_ADDR"); addr != "" {
		return addr
	}
	out, err := exec.Command("docker", "inspect",
		"--format", "{{range .NetworkSettings.Networks}}{{.IPAddress}}{{end}}",
		containerName).Output()
	if err != nil {
		return ""
	}
	if ip := strings.TrimSpace(string(out)); ip != "" {
		return ip + ":6379"
	}
	return ""
}

// Context returns a context that is cancelled when the test ends.
func Context(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// HSet writes fields into the hash at key.
func (r *Redis) HSet(key string, fields map[string]string) {
	r.t.Helper()
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	if err := r.Client.HSet(context.Background(), key, args...).Err(); err != nil {
		r.t.Fatalf("writing %s: %v", key, err)
	}
}

// HGetAll reads the hash at key. A missing key reads as an empty map.
func (r *Redis) HGetAll(key string) map[string]string {
	r.t.Helper()
	vals, err := r.Client.HGetAll(context.Background(), key).Result()
	if err != nil {
		r.t.Fatalf("reading %s: %v", key, err)
	}
	return vals
}

// Exists reports whether key is present.
func (r *Redis) Exists(key string) bool {
	r.t.Helper()
	n, err := r.Client.Exists(context.Background(), key).Result()
	if err != nil {
		r.t.Fatalf("checking %s: %v", key, err)
	}
	return n > 0
}
