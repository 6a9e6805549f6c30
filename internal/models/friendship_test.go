package models

import "testing"

func TestPairKeyIsOrderIndependent(t *testing.T) {
	if PairKey("alice", "bob") != PairKey("bob", "alice") {
		t.Fatal("pair key must not depend on argument order")
	}
	if PairKey("alice", "bob") != "alice:bob" {
		t.Fatalf("unexpected key: %q", PairKey("alice", "bob"))
	}
}

func TestPairKeyDistinguishesPairs(t *testing.T) {
	if PairKey("alice", "bob") == PairKey("alice", "carol") {
		t.Fatal("different pairs must produce different keys")
	}
}
