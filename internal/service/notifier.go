package service

// Notifier is the event delivery capability services need: targeted room
// delivery and broadcast. Delivery is fire-and-forget; an offline target is
// silently skipped. The hub satisfies this in production.
type Notifier interface {
	EmitToUser(username, event string, payload interface{})
	Broadcast(event string, payload interface{})
}
