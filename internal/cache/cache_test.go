// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time           { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(ttl time.Duration) (*Cache, *fakeClock) {
	clk := &fakeClock{t: time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)}
	return New(ttl, WithClock(clk.Now)), clk
}

func TestNew_DefaultTTL(t *testing.T) {
	c := New(0)
	assert.Equal(t, DefaultTTL, c.TTL())

	c = New(-time.Second)
	assert.Equal(t, DefaultTTL, c.TTL())

	c = New(time.Minute)
	assert.Equal(t, time.Minute, c.TTL())
}

func TestCache_GetSet(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	_, ok := c.Get("seasons")
	assert.False(t, ok, "empty cache must miss")

	c.Set("seasons", []byte(`["24-25"]`))
	got, ok := c.Get("seasons")
	require.True(t, ok)
	assert.Equal(t, `["24-25"]`, string(got))
}

func TestCache_Expiry(t *testing.T) {
	tests := []struct {
		name    string
		advance time.Duration
		wantHit bool
	}{
		{name: "fresh", advance: 0, wantHit: true},
		{name: "just before expiry", advance: 5*time.Minute - time.Nanosecond, wantHit: true},
		{name: "at expiry", advance: 5 * time.Minute, wantHit: false},
		{name: "after expiry", advance: 6 * time.Minute, wantHit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, clk := newTestCache(DefaultTTL)
			c.Set("k", []byte("v"))
			clk.Advance(tt.advance)
			_, ok := c.Get("k")
			assert.Equal(t, tt.wantHit, ok)
		})
	}
}

func TestCache_OverwriteResetsExpiry(t *testing.T) {
	c, clk := newTestCache(time.Minute)
	c.Set("k", []byte("old"))
	clk.Advance(2 * time.Minute)

	_, ok := c.Get("k")
	require.False(t, ok)

	c.Set("k", []byte("new"))
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", string(got))
}

func TestCache_KeysAreIndependent(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	c.Set("projects/details/A", []byte(`{"id":"A"}`))

	_, ok := c.Get("projects/details/B")
	assert.False(t, ok)

	c.Set("projects/details/B", []byte(`{"id":"B"}`))
	a, ok := c.Get("projects/details/A")
	require.True(t, ok)
	assert.Equal(t, `{"id":"A"}`, string(a))
}

func TestCache_ReturnsCopies(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	in := []byte("abc")
	c.Set("k", in)
	in[0] = 'x'

	got, _ := c.Get("k")
	assert.Equal(t, "abc", string(got))

	got[1] = 'y'
	again, _ := c.Get("k")
	assert.Equal(t, "abc", string(again))
}

func TestCache_DeleteAndPrefix(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	c.Set("seasons", []byte("1"))
	c.Set("projects/season/24-25", []byte("2"))
	c.Set("projects/season/23-24", []byte("3"))
	c.Set("projects/details/rec1", []byte("4"))

	assert.Equal(t, 2, c.DeletePrefix("projects/season/"))
	assert.Equal(t, 2, c.Len())

	c.Delete("seasons")
	_, ok := c.Get("seasons")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestCache_State(t *testing.T) {
	c, clk := newTestCache(time.Minute)
	c.Set("b", []byte("12"))
	clk.Advance(30 * time.Second)
	c.Set("a", []byte("1"))
	clk.Advance(45 * time.Second)

	c.Get("a")
	c.Get("b")
	c.Get("missing")

	state := c.State()
	assert.Equal(t, time.Minute, state.TTL)
	assert.Equal(t, int64(1), state.Hits)
	assert.Equal(t, int64(2), state.Misses)
	require.Len(t, state.Entries, 2)

	assert.Equal(t, "a", state.Entries[0].Key)
	assert.True(t, state.Entries[0].Valid)
	assert.Equal(t, 15*time.Second, state.Entries[0].ExpiresIn)

	assert.Equal(t, "b", state.Entries[1].Key)
	assert.False(t, state.Entries[1].Valid)
	assert.Equal(t, 2, state.Entries[1].Size)
}

func TestCache_SetIfGeneration(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	gen := c.Generation()
	assert.True(t, c.SetIfGeneration("seasons", []byte(`["24-25"]`), gen))

	for name, invalidate := range map[string]func(){
		"delete": func() { c.Delete("seasons") },
		"prefix": func() { c.DeletePrefix("sea") },
		"clear":  func() { c.Clear() },
	} {
		t.Run(name, func(t *testing.T) {
			gen := c.Generation()
			invalidate()
			assert.False(t, c.SetIfGeneration("seasons", []byte(`["stale"]`), gen))
			_, ok := c.Get("seasons")
			assert.False(t, ok)

			assert.True(t, c.SetIfGeneration("seasons", []byte(`["fresh"]`), c.Generation()))
		})
	}

	data, ok := c.Get("seasons")
	require.True(t, ok)
	assert.Equal(t, `["fresh"]`, string(data))
}
