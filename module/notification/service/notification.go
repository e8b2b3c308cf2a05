package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	notifmodel "github.com/Hany173g/OtakuZone-sub001/module/notification/model"
	usersvc "github.com/Hany173g/OtakuZone-sub001/module/user/service"
	"github.com/Hany173g/OtakuZone-sub001/service/realtime"
	"github.com/Hany173g/OtakuZone-sub001/tools/errs"
	"github.com/Hany173g/OtakuZone-sub001/tools/ids"
)

type CreateParams struct {
	UserID   string // recipient
	ActorID  string
	Kind     string
	Text     string
	TargetID string
}

// Create stores a notification and pushes it to the recipient's channel.
// Self-notifications and notifications across a blocked pair are dropped.
// The push is best-effort; the stored row is the source of truth.
func Create(ctx context.Context, db *mongo.Database, pub realtime.Publisher, in CreateParams) (notifmodel.Notification, error) {
	if in.UserID == "" || in.UserID == in.ActorID {
		return notifmodel.Notification{}, nil
	}
	if in.ActorID != "" {
		blocked, err := usersvc.IsBlocked(ctx, db, in.ActorID, in.UserID)
		if err != nil {
			return notifmodel.Notification{}, err
		}
		if blocked {
			return notifmodel.Notification{}, nil
		}
	}
	n := notifmodel.Notification{
		NotifID:   ids.GenerateString(),
		UserID:    in.UserID,
		ActorID:   in.ActorID,
		Kind:      in.Kind,
		Text:      in.Text,
		TargetID:  in.TargetID,
		CreatedAt: time.Now(),
	}
	if _, err := db.Collection(notifmodel.Collection).InsertOne(ctx, n); err != nil {
		return notifmodel.Notification{}, errs.ErrServerInternal.WrapMsg(err.Error())
	}
	pub.Publish(n.UserID, realtime.EventNewNotification, n)
	return n, nil
}

// List returns the recipient's notifications, newest first.
func List(ctx context.Context, db *mongo.Database, userID string, limit int64) ([]notifmodel.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := db.Collection(notifmodel.Collection).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, errs.ErrServerInternal.WrapMsg(err.Error())
	}
	defer cur.Close(ctx)

	out := []notifmodel.Notification{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errs.ErrServerInternal.WrapMsg(err.Error())
	}
	return out, nil
}

// MarkRead flags one notification; only the owner can.
func MarkRead(ctx context.Context, db *mongo.Database, userID, notifID string) error {
	res, err := db.Collection(notifmodel.Collection).UpdateOne(ctx,
		bson.M{"notif_id": notifID, "user_id": userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return errs.ErrServerInternal.WrapMsg(err.Error())
	}
	if res.MatchedCount == 0 {
		return errs.ErrRecordNotFound.Wrap()
	}
	return nil
}

// MarkAllRead flags everything in the inbox.
func MarkAllRead(ctx context.Context, db *mongo.Database, userID string) error {
	_, err := db.Collection(notifmodel.Collection).UpdateMany(ctx,
		bson.M{"user_id": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return errs.ErrServerInternal.WrapMsg(err.Error())
	}
	return nil
}
