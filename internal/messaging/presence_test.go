package messaging

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopConn struct{ id string }

func (nopConn) WriteJSON(v interface{}) error { return nil }

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Lookup("alice")
	assert.False(t, ok, "unknown user should be offline")

	c := &nopConn{id: "c1"}
	r.Register("alice", c)

	got, ok := r.Lookup("alice")
	require.True(t, ok)
	assert.Same(t, c, got.(*nopConn))
	assert.Equal(t, 1, r.Online())
}

func TestRegistryLastRegistrationWins(t *testing.T) {
	r := NewRegistry()

	first := &nopConn{id: "first"}
	second := &nopConn{id: "second"}
	r.Register("alice", first)
	r.Register("alice", second)

	got, ok := r.Lookup("alice")
	require.True(t, ok)
	assert.Same(t, second, got.(*nopConn))
	assert.Equal(t, 1, r.Online(), "re-registration must not create a second entry")
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	r.Register("bob", &nopConn{})

	r.Remove("bob")
	_, ok := r.Lookup("bob")
	assert.False(t, ok)

	// Removing an absent entry is a no-op, not an error.
	r.Remove("bob")
	r.Remove("never-registered")
	assert.Equal(t, 0, r.Online())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("user-%d", n%10)
			r.Register(id, &nopConn{})
			r.Lookup(id)
			if n%3 == 0 {
				r.Remove(id)
			}
		}(i)
	}
	wg.Wait()

	// The exact population depends on interleaving; it just has to be
	// internally consistent.
	assert.LessOrEqual(t, r.Online(), 10)
}
