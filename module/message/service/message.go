package service

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	msgmodel "github.com/Hany173g/OtakuZone-sub001/module/message/model"
	notifmodel "github.com/Hany173g/OtakuZone-sub001/module/notification/model"
	notifsvc "github.com/Hany173g/OtakuZone-sub001/module/notification/service"
	usersvc "github.com/Hany173g/OtakuZone-sub001/module/user/service"
	"github.com/Hany173g/OtakuZone-sub001/service/realtime"
	"github.com/Hany173g/OtakuZone-sub001/tools/errs"
	"github.com/Hany173g/OtakuZone-sub001/tools/ids"
)

const maxTextLen = 4000

// Send persists a direct message, pushes new_message to every live
// connection of the recipient, and drops a notification in their inbox.
// Blocked pairs cannot message each other.
func Send(ctx context.Context, db *mongo.Database, pub realtime.Publisher, fromID, toID, text string) (msgmodel.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > maxTextLen || fromID == toID {
		return msgmodel.Message{}, errs.ErrValidation.Wrap()
	}

	sender, err := usersvc.GetByID(ctx, db, fromID)
	if err != nil {
		return msgmodel.Message{}, err
	}
	if _, err := usersvc.GetByID(ctx, db, toID); err != nil {
		return msgmodel.Message{}, err
	}
	blocked, err := usersvc.IsBlocked(ctx, db, fromID, toID)
	if err != nil {
		return msgmodel.Message{}, err
	}
	if blocked {
		return msgmodel.Message{}, errs.ErrBlocked.Wrap()
	}

	m := msgmodel.Message{
		MsgID:     ids.GenerateString(),
		FromID:    fromID,
		ToID:      toID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if _, err := db.Collection(msgmodel.Collection).InsertOne(ctx, m); err != nil {
		return msgmodel.Message{}, errs.ErrServerInternal.WrapMsg(err.Error())
	}

	pub.Publish(toID, realtime.EventNewMessage, m)

	_, _ = notifsvc.Create(ctx, db, pub, notifsvc.CreateParams{
		UserID:   toID,
		ActorID:  fromID,
		Kind:     notifmodel.KindMessage,
		Text:     "رسالة جديدة من " + sender.Username,
		TargetID: m.MsgID,
	})
	return m, nil
}

// Conversation lists the messages exchanged between two members, newest
// first.
func Conversation(ctx context.Context, db *mongo.Database, userID, peerID string, limit int64) ([]msgmodel.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	filter := bson.M{"$or": bson.A{
		bson.M{"from_id": userID, "to_id": peerID},
		bson.M{"from_id": peerID, "to_id": userID},
	}}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := db.Collection(msgmodel.Collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, errs.ErrServerInternal.WrapMsg(err.Error())
	}
	defer cur.Close(ctx)

	out := []msgmodel.Message{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errs.ErrServerInternal.WrapMsg(err.Error())
	}
	return out, nil
}
