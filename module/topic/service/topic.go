package service

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	topicmodel "github.com/Hany173g/OtakuZone-sub001/module/topic/model"
	usersvc "github.com/Hany173g/OtakuZone-sub001/module/user/service"
	"github.com/Hany173g/OtakuZone-sub001/tools/errs"
	"github.com/Hany173g/OtakuZone-sub001/tools/ids"
)

const (
	maxTitleLen = 200
	maxBodyLen  = 20000
)

type CreateParams struct {
	AuthorID string
	Title    string
	Body     string
	Category string
	Tags     []string
}

func validCategory(c string) bool {
	switch c {
	case topicmodel.CategoryAnime, topicmodel.CategoryManga, topicmodel.CategoryGeneral:
		return true
	}
	return false
}

// Create opens a new thread.
func Create(ctx context.Context, db *mongo.Database, in CreateParams) (topicmodel.Topic, error) {
	title := strings.TrimSpace(in.Title)
	body := strings.TrimSpace(in.Body)
	if title == "" || len(title) > maxTitleLen || body == "" || len(body) > maxBodyLen {
		return topicmodel.Topic{}, errs.ErrValidation.WrapMsg("title/body")
	}
	if in.Category == "" {
		in.Category = topicmodel.CategoryGeneral
	}
	if !validCategory(in.Category) {
		return topicmodel.Topic{}, errs.ErrValidation.WrapMsg("category")
	}

	now := time.Now()
	t := topicmodel.Topic{
		TopicID:   ids.GenerateString(),
		AuthorID:  in.AuthorID,
		Title:     title,
		Body:      body,
		Category:  in.Category,
		Tags:      in.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := db.Collection(topicmodel.Collection).InsertOne(ctx, t); err != nil {
		return topicmodel.Topic{}, errs.ErrServerInternal.WrapMsg(err.Error())
	}
	return t, nil
}

// List pages threads, newest first, optionally by category.
func List(ctx context.Context, db *mongo.Database, category string, page, perPage int64) ([]topicmodel.Topic, error) {
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	if page < 1 {
		page = 1
	}
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * perPage).
		SetLimit(perPage)
	cur, err := db.Collection(topicmodel.Collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, errs.ErrServerInternal.WrapMsg(err.Error())
	}
	defer cur.Close(ctx)

	out := []topicmodel.Topic{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errs.ErrServerInternal.WrapMsg(err.Error())
	}
	return out, nil
}

// Get loads one thread.
func Get(ctx context.Context, db *mongo.Database, topicID string) (topicmodel.Topic, error) {
	var t topicmodel.Topic
	err := db.Collection(topicmodel.Collection).
		FindOne(ctx, bson.M{"topic_id": topicID}).Decode(&t)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return topicmodel.Topic{}, errs.ErrRecordNotFound.Wrap()
	}
	if err != nil {
		return topicmodel.Topic{}, errs.ErrServerInternal.WrapMsg(err.Error())
	}
	return t, nil
}

// Update edits title/body; author only.
func Update(ctx context.Context, db *mongo.Database, topicID, callerID, title, body string) (topicmodel.Topic, error) {
	t, err := Get(ctx, db, topicID)
	if err != nil {
		return topicmodel.Topic{}, err
	}
	if t.AuthorID != callerID {
		return topicmodel.Topic{}, errs.ErrForbidden.Wrap()
	}
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" || len(title) > maxTitleLen || body == "" || len(body) > maxBodyLen {
		return topicmodel.Topic{}, errs.ErrValidation.WrapMsg("title/body")
	}
	t.Title, t.Body, t.UpdatedAt = title, body, time.Now()
	_, err = db.Collection(topicmodel.Collection).UpdateOne(ctx,
		bson.M{"topic_id": topicID},
		bson.M{"$set": bson.M{"title": t.Title, "body": t.Body, "updated_at": t.UpdatedAt}},
	)
	if err != nil {
		return topicmodel.Topic{}, errs.ErrServerInternal.WrapMsg(err.Error())
	}
	return t, nil
}

// Delete removes a thread with its comments and ratings. Author or staff.
func Delete(ctx context.Context, db *mongo.Database, topicID, callerID string) error {
	t, err := Get(ctx, db, topicID)
	if err != nil {
		return err
	}
	if t.AuthorID != callerID {
		caller, err := usersvc.GetByID(ctx, db, callerID)
		if err != nil {
			return err
		}
		if !caller.IsStaff() {
			return errs.ErrForbidden.Wrap()
		}
	}
	if _, err := db.Collection(topicmodel.Collection).DeleteOne(ctx, bson.M{"topic_id": topicID}); err != nil {
		return errs.ErrServerInternal.WrapMsg(err.Error())
	}
	_, _ = db.Collection(topicmodel.RatingCollection).DeleteMany(ctx, bson.M{"topic_id": topicID})
	_, _ = db.Collection("comments").DeleteMany(ctx, bson.M{"topic_id": topicID})
	return nil
}

// Rate upserts the caller's 1-5 stars and keeps the topic aggregates in
// step: a fresh vote bumps count and sum, a changed vote only moves the
// sum by the delta.
func Rate(ctx context.Context, db *mongo.Database, topicID, userID string, stars int) (topicmodel.Topic, error) {
	if stars < 1 || stars > 5 {
		return topicmodel.Topic{}, errs.ErrValidation.WrapMsg("stars 1-5")
	}
	if _, err := Get(ctx, db, topicID); err != nil {
		return topicmodel.Topic{}, err
	}

	ratings := db.Collection(topicmodel.RatingCollection)
	now := time.Now()

	// One atomic upsert per (topic, user); the pre-image says whether this
	// was a fresh vote or a revision and by how much the sum moves. Two
	// concurrent first votes race on the upsert, not on a read-then-insert,
	// so the count can never double.
	res := ratings.FindOneAndUpdate(ctx,
		bson.M{"topic_id": topicID, "user_id": userID},
		bson.M{
			"$set":         bson.M{"stars": stars, "updated_at": now},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.Before),
	)

	var prev topicmodel.Rating
	err := res.Decode(&prev)
	switch {
	case stderrors.Is(err, mongo.ErrNoDocuments):
		_, err = db.Collection(topicmodel.Collection).UpdateOne(ctx,
			bson.M{"topic_id": topicID},
			bson.M{"$inc": bson.M{"rating_sum": int64(stars), "rating_count": 1}},
		)
		if err != nil {
			return topicmodel.Topic{}, errs.ErrServerInternal.WrapMsg(err.Error())
		}
	case err != nil:
		return topicmodel.Topic{}, errs.ErrServerInternal.WrapMsg(err.Error())
	default:
		if prev.Stars != stars {
			_, err = db.Collection(topicmodel.Collection).UpdateOne(ctx,
				bson.M{"topic_id": topicID},
				bson.M{"$inc": bson.M{"rating_sum": int64(stars - prev.Stars)}},
			)
			if err != nil {
				return topicmodel.Topic{}, errs.ErrServerInternal.WrapMsg(err.Error())
			}
		}
	}
	return Get(ctx, db, topicID)
}
