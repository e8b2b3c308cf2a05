package service

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	groupmodel "github.com/Hany173g/OtakuZone-sub001/module/group/model"
	notifmodel "github.com/Hany173g/OtakuZone-sub001/module/notification/model"
	notifsvc "github.com/Hany173g/OtakuZone-sub001/module/notification/service"
	"github.com/Hany173g/OtakuZone-sub001/service/realtime"
	"github.com/Hany173g/OtakuZone-sub001/tools/errs"
	"github.com/Hany173g/OtakuZone-sub001/tools/ids"
)

// Create opens a group; the owner is its first member. Group names are
// unique.
func Create(ctx context.Context, db *mongo.Database, ownerID, name, description string) (groupmodel.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return groupmodel.Group{}, errs.ErrValidation.WrapMsg("name")
	}
	coll := db.Collection(groupmodel.Collection)
	n, err := coll.CountDocuments(ctx, bson.M{"name": name})
	if err != nil {
		return groupmodel.Group{}, errs.ErrServerInternal.WrapMsg(err.Error())
	}
	if n > 0 {
		return groupmodel.Group{}, errs.ErrRecordExists.Wrap()
	}

	now := time.Now()
	g := groupmodel.Group{
		GroupID:     ids.GenerateString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		OwnerID:     ownerID,
		Members:     []string{ownerID},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := coll.InsertOne(ctx, g); err != nil {
		return groupmodel.Group{}, errs.ErrServerInternal.WrapMsg(err.Error())
	}
	return g, nil
}

// Get loads one group.
func Get(ctx context.Context, db *mongo.Database, groupID string) (groupmodel.Group, error) {
	var g groupmodel.Group
	err := db.Collection(groupmodel.Collection).
		FindOne(ctx, bson.M{"group_id": groupID}).Decode(&g)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return groupmodel.Group{}, errs.ErrRecordNotFound.Wrap()
	}
	if err != nil {
		return groupmodel.Group{}, errs.ErrServerInternal.WrapMsg(err.Error())
	}
	return g, nil
}

// List pages groups, newest first.
func List(ctx context.Context, db *mongo.Database, page, perPage int64) ([]groupmodel.Group, error) {
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	if page < 1 {
		page = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * perPage).
		SetLimit(perPage)
	cur, err := db.Collection(groupmodel.Collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errs.ErrServerInternal.WrapMsg(err.Error())
	}
	defer cur.Close(ctx)

	out := []groupmodel.Group{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errs.ErrServerInternal.WrapMsg(err.Error())
	}
	return out, nil
}

// Join adds the caller; joining twice is a no-op.
func Join(ctx context.Context, db *mongo.Database, groupID, userID string) error {
	if _, err := Get(ctx, db, groupID); err != nil {
		return err
	}
	_, err := db.Collection(groupmodel.Collection).UpdateOne(ctx,
		bson.M{"group_id": groupID},
		bson.M{"$addToSet": bson.M{"members": userID}, "$set": bson.M{"updated_at": time.Now()}},
	)
	if err != nil {
		return errs.ErrServerInternal.WrapMsg(err.Error())
	}
	return nil
}

// Leave removes the caller. The owner cannot leave their own group.
func Leave(ctx context.Context, db *mongo.Database, groupID, userID string) error {
	g, err := Get(ctx, db, groupID)
	if err != nil {
		return err
	}
	if g.OwnerID == userID {
		return errs.ErrForbidden.WrapMsg("owner cannot leave")
	}
	_, err = db.Collection(groupmodel.Collection).UpdateOne(ctx,
		bson.M{"group_id": groupID},
		bson.M{"$pull": bson.M{"members": userID}, "$set": bson.M{"updated_at": time.Now()}},
	)
	if err != nil {
		return errs.ErrServerInternal.WrapMsg(err.Error())
	}
	return nil
}

// RemoveMember is the owner's moderation tool; the removed member gets a
// notification.
func RemoveMember(ctx context.Context, db *mongo.Database, pub realtime.Publisher, groupID, callerID, memberID string) error {
	g, err := Get(ctx, db, groupID)
	if err != nil {
		return err
	}
	if g.OwnerID != callerID {
		return errs.ErrForbidden.Wrap()
	}
	if memberID == callerID {
		return errs.ErrValidation.WrapMsg("owner cannot remove self")
	}
	if !g.HasMember(memberID) {
		return errs.ErrRecordNotFound.Wrap()
	}
	_, err = db.Collection(groupmodel.Collection).UpdateOne(ctx,
		bson.M{"group_id": groupID},
		bson.M{"$pull": bson.M{"members": memberID}, "$set": bson.M{"updated_at": time.Now()}},
	)
	if err != nil {
		return errs.ErrServerInternal.WrapMsg(err.Error())
	}
	_, _ = notifsvc.Create(ctx, db, pub, notifsvc.CreateParams{
		UserID:   memberID,
		ActorID:  callerID,
		Kind:     notifmodel.KindGroup,
		Text:     "تمت إزالتك من المجموعة " + g.Name,
		TargetID: groupID,
	})
	return nil
}
