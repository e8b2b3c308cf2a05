package model

import "time"

const (
	Collection       = "topics"
	RatingCollection = "topic_ratings"
)

// Categories
const (
	CategoryAnime   = "anime"
	CategoryManga   = "manga"
	CategoryGeneral = "general"
)

// Topic is one forum thread.
type Topic struct {
	TopicID  string   `bson:"topic_id" json:"topic_id"`
	AuthorID string   `bson:"author_id" json:"author_id"`
	Title    string   `bson:"title" json:"title"`
	Body     string   `bson:"body" json:"body"`
	Category string   `bson:"category" json:"category"`
	Tags     []string `bson:"tags,omitempty" json:"tags,omitempty"`

	// Rating aggregates are maintained incrementally on each Rate call so
	// list pages never aggregate over topic_ratings.
	RatingSum    int64 `bson:"rating_sum" json:"-"`
	RatingCount  int64 `bson:"rating_count" json:"rating_count"`
	CommentCount int64 `bson:"comment_count" json:"comment_count"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// AverageRating is what clients render.
func (t *Topic) AverageRating() float64 {
	if t.RatingCount == 0 {
		return 0
	}
	return float64(t.RatingSum) / float64(t.RatingCount)
}

// Rating is one member's 1-5 stars on a topic; one row per (topic, user).
type Rating struct {
	TopicID   string    `bson:"topic_id" json:"topic_id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Stars     int       `bson:"stars" json:"stars"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
