package messaging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	events     []outboundEvent
	failWrites bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	if f.failWrites {
		return errors.New("connection is dead")
	}
	f.events = append(f.events, v.(outboundEvent))
	return nil
}

func TestDispatchDeliversToOnlineRecipient(t *testing.T) {
	rl := NewRelay()
	bob := &fakeConn{}
	rl.Registry().Register("bob", bob)

	rl.dispatch("alice", inboundEvent{Event: "send-msg", To: "bob", Text: "hi"})

	require.Len(t, bob.events, 1)
	assert.Equal(t, "msg-receive", bob.events[0].Event)
	assert.Equal(t, "alice", bob.events[0].From)
	assert.Equal(t, "hi", bob.events[0].Text)
}

func TestDispatchDropsWhenRecipientOffline(t *testing.T) {
	rl := NewRelay()
	alice := &fakeConn{}
	rl.Registry().Register("alice", alice)

	// No registration for carol; the payload must be dropped silently
	// and nothing must reach anyone else.
	rl.dispatch("alice", inboundEvent{Event: "send-msg", To: "carol", Text: "hi"})

	assert.Empty(t, alice.events)
}

func TestDispatchSwallowsDeadHandleWrites(t *testing.T) {
	rl := NewRelay()
	rl.Registry().Register("bob", &fakeConn{failWrites: true})

	// Must not panic and must not surface the failure anywhere.
	rl.dispatch("alice", inboundEvent{Event: "send-msg", To: "bob", Text: "hi"})
}

func TestDispatchTargetsLatestRegistration(t *testing.T) {
	rl := NewRelay()
	stale := &fakeConn{}
	live := &fakeConn{}
	rl.Registry().Register("bob", stale)
	rl.Registry().Register("bob", live)

	rl.dispatch("alice", inboundEvent{Event: "send-msg", To: "bob", Text: "hi"})

	assert.Empty(t, stale.events, "old handle must not receive anything")
	require.Len(t, live.events, 1)
	assert.Equal(t, "hi", live.events[0].Text)
}

func TestDispatchIgnoresMalformedEvents(t *testing.T) {
	rl := NewRelay()
	bob := &fakeConn{}
	rl.Registry().Register("bob", bob)

	rl.dispatch("alice", inboundEvent{Event: "unknown", To: "bob", Text: "hi"})
	rl.dispatch("alice", inboundEvent{Event: "send-msg", To: "", Text: "hi"})
	rl.dispatch("alice", inboundEvent{Event: "send-msg", To: "bob", Text: ""})

	assert.Empty(t, bob.events)
}
