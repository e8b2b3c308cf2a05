package service

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	commentmodel "github.com/Hany173g/OtakuZone-sub001/module/comment/model"
	notifmodel "github.com/Hany173g/OtakuZone-sub001/module/notification/model"
	notifsvc "github.com/Hany173g/OtakuZone-sub001/module/notification/service"
	topicmodel "github.com/Hany173g/OtakuZone-sub001/module/topic/model"
	topicsvc "github.com/Hany173g/OtakuZone-sub001/module/topic/service"
	usersvc "github.com/Hany173g/OtakuZone-sub001/module/user/service"
	"github.com/Hany173g/OtakuZone-sub001/service/realtime"
	"github.com/Hany173g/OtakuZone-sub001/tools/errs"
	"github.com/Hany173g/OtakuZone-sub001/tools/ids"
)

const maxBodyLen = 10000

// Create posts a reply, bumps the topic's comment counter, and notifies the
// topic author (stored + pushed; self-replies notify nobody).
func Create(ctx context.Context, db *mongo.Database, pub realtime.Publisher, topicID, authorID, body string) (commentmodel.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" || len(body) > maxBodyLen {
		return commentmodel.Comment{}, errs.ErrValidation.Wrap()
	}
	t, err := topicsvc.Get(ctx, db, topicID)
	if err != nil {
		return commentmodel.Comment{}, err
	}
	author, err := usersvc.GetByID(ctx, db, authorID)
	if err != nil {
		return commentmodel.Comment{}, err
	}

	cm := commentmodel.Comment{
		CommentID: ids.GenerateString(),
		TopicID:   topicID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: time.Now(),
	}
	if _, err := db.Collection(commentmodel.Collection).InsertOne(ctx, cm); err != nil {
		return commentmodel.Comment{}, errs.ErrServerInternal.WrapMsg(err.Error())
	}
	_, _ = db.Collection(topicmodel.Collection).UpdateOne(ctx,
		bson.M{"topic_id": topicID},
		bson.M{"$inc": bson.M{"comment_count": 1}},
	)

	_, _ = notifsvc.Create(ctx, db, pub, notifsvc.CreateParams{
		UserID:   t.AuthorID,
		ActorID:  authorID,
		Kind:     notifmodel.KindComment,
		Text:     "علّق " + author.Username + " على موضوعك: " + t.Title,
		TargetID: topicID,
	})
	return cm, nil
}

// ListByTopic pages the replies of a thread, oldest first.
func ListByTopic(ctx context.Context, db *mongo.Database, topicID string, limit int64) ([]commentmodel.Comment, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(limit)
	cur, err := db.Collection(commentmodel.Collection).Find(ctx, bson.M{"topic_id": topicID}, opts)
	if err != nil {
		return nil, errs.ErrServerInternal.WrapMsg(err.Error())
	}
	defer cur.Close(ctx)

	out := []commentmodel.Comment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errs.ErrServerInternal.WrapMsg(err.Error())
	}
	return out, nil
}

// Delete removes a reply; author or staff only.
func Delete(ctx context.Context, db *mongo.Database, commentID, callerID string) error {
	var cm commentmodel.Comment
	err := db.Collection(commentmodel.Collection).
		FindOne(ctx, bson.M{"comment_id": commentID}).Decode(&cm)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return errs.ErrRecordNotFound.Wrap()
	}
	if err != nil {
		return errs.ErrServerInternal.WrapMsg(err.Error())
	}
	if cm.AuthorID != callerID {
		caller, err := usersvc.GetByID(ctx, db, callerID)
		if err != nil {
			return err
		}
		if !caller.IsStaff() {
			return errs.ErrForbidden.Wrap()
		}
	}
	if _, err := db.Collection(commentmodel.Collection).DeleteOne(ctx, bson.M{"comment_id": commentID}); err != nil {
		return errs.ErrServerInternal.WrapMsg(err.Error())
	}
	_, _ = db.Collection(topicmodel.Collection).UpdateOne(ctx,
		bson.M{"topic_id": cm.TopicID},
		bson.M{"$inc": bson.M{"comment_count": -1}},
	)
	return nil
}
