package model

import "time"

const Collection = "comments"

// Comment is one reply inside a topic thread.
type Comment struct {
	CommentID string `bson:"comment_id" json:"comment_id"`
	TopicID   string `bson:"topic_id" json:"topic_id"`
	AuthorID  string `bson:"author_id" json:"author_id"`
	Body      string `bson:"body" json:"body"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
