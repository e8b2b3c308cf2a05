package realtime

// EventFrame is the wire shape of every server push.
type EventFrame struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Event names pushed by the forum.
const (
	EventNewMessage      = "new_message"
	EventNewNotification = "new_notification"
)

// Publisher is the one handle HTTP handlers get to the realtime layer.
// Publishing is fire-and-forget: no acknowledgment, no retry, and callers
// must not assume delivery. Handlers receive it by injection so nothing in
// the HTTP tier reaches for a process-wide gateway slot.
type Publisher interface {
	Publish(userID, event string, payload interface{})
}

// NopPublisher stands in when no gateway is running (realtime disabled,
// tests, startup). Every publish is a silent no-op, which keeps every call
// site branch-free.
type NopPublisher struct{}

func (NopPublisher) Publish(string, string, interface{}) {}
