package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-roster/internal/config"
	"github.com/jakechorley/shift-roster/pkg/core/roster"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c := NewFromConfig(config.Cache{RedisAddr: mr.Addr(), TTL: ttl}, zap.NewNop())
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func testEntry() *Entry {
	return &Entry{
		Candidates: []Snapshot{
			{Signature: `2025-01-01_DAY:"alice";`, Seed: 3, FairnessBias: 0.5333333333333333},
			{Signature: `2025-01-01_DAY:"bob";`, Seed: 0, FairnessBias: 0.4},
		},
		Attempts: 12,
		Accepted: 1,
		BestSeen: 2,
		CachedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCache_PutGet(t *testing.T) {
	c, mr := newTestCache(t, time.Hour)
	ctx := context.Background()

	_, ok := c.Get(ctx, "abc")
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "abc", testEntry()))
	assert.True(t, mr.Exists("shift-roster:candidates:abc"))
	assert.Equal(t, time.Hour, mr.TTL("shift-roster:candidates:abc"))

	got, ok := c.Get(ctx, "abc")
	require.True(t, ok)
	assert.Equal(t, testEntry(), got)

	require.NoError(t, c.Invalidate(ctx, "abc"))
	_, ok = c.Get(ctx, "abc")
	assert.False(t, ok)
}

func TestCache_Expires(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "abc", testEntry()))
	mr.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, "abc")
	assert.False(t, ok)
}

func TestCache_CorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t, time.Hour)

	require.NoError(t, mr.Set(Key("abc"), "{not json"))

	_, ok := c.Get(context.Background(), "abc")
	assert.False(t, ok)
}

func TestCache_Disabled(t *testing.T) {
	ctx := context.Background()

	for name, c := range map[string]*Cache{
		"no address": NewFromConfig(config.Cache{}, zap.NewNop()),
		"nil":        nil,
	} {
		t.Run(name, func(t *testing.T) {
			assert.False(t, c.Enabled())
			assert.NoError(t, c.Put(ctx, "abc", testEntry()))
			_, ok := c.Get(ctx, "abc")
			assert.False(t, ok)
			assert.NoError(t, c.Invalidate(ctx, "abc"))
			assert.NoError(t, c.Close())
		})
	}
}

func TestCache_RedisErrors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := New(client, time.Hour, zap.NewNop())
	ctx := context.Background()

	mock.ExpectGet(Key("abc")).SetErr(errors.New("connection refused"))
	_, ok := c.Get(ctx, "abc")
	assert.False(t, ok, "read errors are a miss")

	mock.ExpectGet(Key("abc")).RedisNil()
	_, ok = c.Get(ctx, "abc")
	assert.False(t, ok)

	mock.Regexp().ExpectSet(Key("abc"), `.*`, time.Hour).SetErr(errors.New("READONLY"))
	err := c.Put(ctx, "abc", testEntry())
	assert.ErrorContains(t, err, "failed to write candidate cache")

	mock.ExpectDel(Key("abc")).SetErr(redis.ErrClosed)
	assert.Error(t, c.Invalidate(ctx, "abc"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInputs_Fingerprint(t *testing.T) {
	id := func(d int) roster.SlotID {
		return roster.SlotID{Date: roster.NewDate(2025, 1, d), Category: roster.Day}
	}
	alice := roster.NewMember("alice", []roster.SlotID{id(2), id(1)}, nil, map[roster.Category]int{roster.Day: 2}, 3)
	aliceReordered := roster.NewMember("alice", []roster.SlotID{id(1), id(2)}, nil, map[roster.Category]int{roster.Day: 2}, 3)
	bob := roster.NewMember("bob", []roster.SlotID{id(1)}, []roster.SlotID{id(2)}, nil, 2)
	slots := []roster.Slot{{ID: id(1), Required: 1}, {ID: id(2), Required: 2}}

	base := Inputs{Members: []roster.Member{alice, bob}, Slots: slots, Count: 3, MinSatisfaction: 0.7}
	fp := base.Fingerprint()
	assert.Len(t, fp, 16)

	same := base
	same.Members = []roster.Member{aliceReordered, bob}
	assert.Equal(t, fp, same.Fingerprint(), "availability order does not matter")

	swapped := base
	swapped.Members = []roster.Member{bob, alice}
	assert.NotEqual(t, fp, swapped.Fingerprint(), "member order matters")

	threshold := base
	threshold.MinSatisfaction = 0.5
	assert.NotEqual(t, fp, threshold.Fingerprint())

	paired := base
	paired.PairedWith = []string{`2025-01-01_NIGHT:"bob";`}
	assert.NotEqual(t, fp, paired.Fingerprint())

	required := base
	required.Slots = []roster.Slot{{ID: id(1), Required: 1}, {ID: id(2), Required: 1}}
	assert.NotEqual(t, fp, required.Fingerprint())
}
