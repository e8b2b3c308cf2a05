package model

import "time"

const Collection = "notifications"

// Kinds
const (
	KindComment = "comment"
	KindMessage = "message"
	KindGroup   = "group"
)

// Notification is one inbox entry for a member. The realtime push carries
// the same fields; the stored row is what clients re-sync from on page
// load, so a missed push loses nothing.
type Notification struct {
	NotifID  string `bson:"notif_id" json:"notif_id"`
	UserID   string `bson:"user_id" json:"user_id"` // recipient
	ActorID  string `bson:"actor_id" json:"actor_id"`
	Kind     string `bson:"kind" json:"kind"`
	Text     string `bson:"text" json:"text"`
	TargetID string `bson:"target_id,omitempty" json:"target_id,omitempty"`

	Read      bool      `bson:"read" json:"read"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
