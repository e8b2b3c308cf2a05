package model

import "time"

const Collection = "messages"

// Message is one direct message between two members.
type Message struct {
	MsgID  string `bson:"msg_id" json:"msg_id"`
	FromID string `bson:"from_id" json:"from_id"`
	ToID   string `bson:"to_id" json:"to_id"`
	Text   string `bson:"text" json:"text"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
