//go:build integration

package configstore

import (
	"errors"
	"testing"

	"github.com/newtron-network/netsim/internal/testutil"
	"github.com/newtron-network/netsim/pkg/util"
)

func TestRedisStore_Integration(t *testing.T) {
	rdb := testutil.OpenRedis(t)
	ctx := testutil.Context(t)

	s := NewRedisStore(rdb.Addr, rdb.DB)
	defer s.Close()
	if err := s.Connect(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Load(ctx, "r1"); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("Load before save: err = %v", err)
	}

	if _, err := s.Save(ctx, "r1", "!\nhostname R1\nend"); err != nil {
		t.Fatal(err)
	}

	entry := rdb.HGetAll(redisKey("r1"))
	if entry["config"] != "!\nhostname R1\nend" || entry["saved_at"] == "" {
		t.Errorf("hash = %v", entry)
	}

	got, err := s.Load(ctx, "r1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Config != "!\nhostname R1\nend" || got.SavedAt.IsZero() {
		t.Errorf("Load = %+v", got)
	}

	rdb.HSet(redisKey("sw1"), map[string]string{"config": "x"})
	ids, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "r1" || ids[1] != "sw1" {
		t.Errorf("List = %v", ids)
	}

	if err := s.Delete(ctx, "r1"); err != nil {
		t.Fatal(err)
	}
	if rdb.Exists(redisKey("r1")) {
		t.Error("Delete left the hash behind")
	}
}
