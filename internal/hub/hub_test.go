package hub

import (
	"encoding/json"
	"testing"
)

func testClient() *Client {
	return &Client{send: make(chan []byte, 8)}
}

// nextEvent pops one queued event off a client's send channel.
func nextEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case data := <-c.send:
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		return ev
	default:
		t.Fatal("expected a queued event, got none")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("expected no event, got %s", data)
	default:
	}
}

func TestRegisterDeliversRefreshToNewConnectionOnly(t *testing.T) {
	h := New()
	first := testClient()
	h.add(first)
	h.Register("alice", first)

	ev := nextEvent(t, first)
	if ev.Name != "refreshFriendRequests" {
		t.Fatalf("expected refreshFriendRequests, got %q", ev.Name)
	}

	second := testClient()
	h.add(second)
	h.Register("alice", second)

	nextEvent(t, second)
	assertNoEvent(t, first)
}

func TestRegisterEmptyUsernameIsIgnored(t *testing.T) {
	h := New()
	c := testClient()
	h.add(c)
	h.Register("", c)

	if len(h.rooms) != 0 || len(h.presence) != 0 {
		t.Fatal("empty username must not join a room")
	}
	assertNoEvent(t, c)
}

func TestEmitToUserReachesEveryConnection(t *testing.T) {
	h := New()
	first, second := testClient(), testClient()
	h.add(first)
	h.add(second)
	h.Register("alice", first)
	h.Register("alice", second)
	nextEvent(t, first)
	nextEvent(t, second)

	h.EmitToUser("alice", "newMessage", map[string]string{"content": "hi"})

	for _, c := range []*Client{first, second} {
		ev := nextEvent(t, c)
		if ev.Name != "newMessage" {
			t.Fatalf("expected newMessage, got %q", ev.Name)
		}
	}
}

func TestEmitToOfflineUserIsNoOp(t *testing.T) {
	h := New()
	c := testClient()
	h.add(c)
	h.Register("alice", c)
	nextEvent(t, c)

	h.EmitToUser("bob", "newMessage", map[string]string{"content": "hi"})

	assertNoEvent(t, c)
	if h.IsOnline("bob") {
		t.Fatal("bob must not be online")
	}
}

func TestUserStaysOnlineWhileAnyConnectionRemains(t *testing.T) {
	h := New()
	first, second := testClient(), testClient()
	h.add(first)
	h.add(second)
	h.Register("alice", first)
	h.Register("alice", second)

	h.remove(first)
	if !h.IsOnline("alice") {
		t.Fatal("alice must stay online while one connection remains")
	}

	h.remove(second)
	if h.IsOnline("alice") {
		t.Fatal("alice must go offline when her last connection drops")
	}
	if len(h.rooms) != 0 {
		t.Fatal("empty room must be dropped")
	}
}

func TestRemoveReassignsPresenceConnection(t *testing.T) {
	h := New()
	first, second := testClient(), testClient()
	h.add(first)
	h.add(second)
	h.Register("alice", first)
	h.Register("alice", second)

	// second holds the presence slot last-write-wins; dropping it must hand
	// the slot to the surviving connection.
	h.remove(second)

	h.mu.RLock()
	holder := h.presence["alice"]
	h.mu.RUnlock()
	if holder != first {
		t.Fatal("presence must fall back to the remaining connection")
	}
}

func TestOnlineUsersSnapshot(t *testing.T) {
	h := New()
	for _, username := range []string{"alice", "bob"} {
		c := testClient()
		h.add(c)
		h.Register(username, c)
	}

	users := h.OnlineUsers()
	if len(users) != 2 {
		t.Fatalf("expected 2 online users, got %d", len(users))
	}
	seen := map[string]bool{}
	for _, u := range users {
		seen[u] = true
	}
	if !seen["alice"] || !seen["bob"] {
		t.Fatalf("unexpected snapshot: %v", users)
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	h := New()
	alice, bob, anon := testClient(), testClient(), testClient()
	h.add(alice)
	h.add(bob)
	h.add(anon)
	h.Register("alice", alice)
	h.Register("bob", bob)
	nextEvent(t, alice)
	nextEvent(t, bob)

	h.Broadcast("postAdded", map[string]string{"id": "p1"})

	for _, c := range []*Client{alice, bob, anon} {
		ev := nextEvent(t, c)
		if ev.Name != "postAdded" {
			t.Fatalf("expected postAdded, got %q", ev.Name)
		}
	}
}

func TestSlowClientDoesNotBlockEmit(t *testing.T) {
	h := New()
	slow := &Client{send: make(chan []byte)} // unbuffered, nobody reading
	h.add(slow)
	h.Register("alice", slow)

	// Must return instead of blocking on the full channel.
	h.EmitToUser("alice", "newMessage", map[string]string{"content": "hi"})
}

func TestDispatchTypingRelaysToReceiver(t *testing.T) {
	h := New()
	alice, bob := testClient(), testClient()
	alice.hub, bob.hub = h, h
	h.add(alice)
	h.add(bob)
	h.Register("alice", alice)
	h.Register("bob", bob)
	nextEvent(t, alice)
	nextEvent(t, bob)

	payload, _ := json.Marshal(typingInput{Sender: "alice", Receiver: "bob"})
	alice.dispatch(inboundEvent{Name: "typing", Payload: payload})

	ev := nextEvent(t, bob)
	if ev.Name != "userTyping" {
		t.Fatalf("expected userTyping, got %q", ev.Name)
	}
	assertNoEvent(t, alice)

	alice.dispatch(inboundEvent{Name: "stopTyping", Payload: payload})
	ev = nextEvent(t, bob)
	if ev.Name != "userStoppedTyping" {
		t.Fatalf("expected userStoppedTyping, got %q", ev.Name)
	}
}

func TestDispatchUserConnected(t *testing.T) {
	h := New()
	c := testClient()
	c.hub = h
	h.add(c)

	payload, _ := json.Marshal("alice")
	c.dispatch(inboundEvent{Name: "userConnected", Payload: payload})

	if !h.IsOnline("alice") {
		t.Fatal("userConnected must register the user")
	}
	ev := nextEvent(t, c)
	if ev.Name != "refreshFriendRequests" {
		t.Fatalf("expected refreshFriendRequests, got %q", ev.Name)
	}
}

func TestDispatchUnknownEventReportsError(t *testing.T) {
	h := New()
	c := testClient()
	c.hub = h
	h.add(c)

	c.dispatch(inboundEvent{Name: "bogus"})

	ev := nextEvent(t, c)
	if ev.Name != "error" {
		t.Fatalf("expected error event, got %q", ev.Name)
	}
}
