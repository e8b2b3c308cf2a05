package service

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	usermodel "github.com/Hany173g/OtakuZone-sub001/module/user/model"
	"github.com/Hany173g/OtakuZone-sub001/tools/errs"
	"github.com/Hany173g/OtakuZone-sub001/tools/ids"
)

type RegisterParams struct {
	Username string
	Email    string
	Password string
	Nickname string
}

// Register creates a member. Usernames and emails are unique; duplicates
// answer ErrRecordExists.
func Register(ctx context.Context, db *mongo.Database, in RegisterParams) (usermodel.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || len(in.Password) < 8 {
		return usermodel.User{}, errs.ErrValidation.WrapMsg("username/email/password")
	}

	coll := db.Collection(usermodel.Collection)
	n, err := coll.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}})
	if err != nil {
		return usermodel.User{}, errs.ErrServerInternal.WrapMsg(err.Error())
	}
	if n > 0 {
		return usermodel.User{}, errs.ErrRecordExists.Wrap()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return usermodel.User{}, errs.ErrServerInternal.WrapMsg(err.Error())
	}

	now := time.Now()
	u := usermodel.User{
		UserID:       ids.GenerateString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Nickname:     strings.TrimSpace(in.Nickname),
		Role:         usermodel.RoleUser,
		Status:       usermodel.StatusNormal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := coll.InsertOne(ctx, u); err != nil {
		return usermodel.User{}, errs.ErrServerInternal.WrapMsg(err.Error())
	}
	return u, nil
}

// Login checks the password and returns the member record. Wrong username
// and wrong password answer the same error.
func Login(ctx context.Context, db *mongo.Database, username, password string) (usermodel.User, error) {
	var u usermodel.User
	err := db.Collection(usermodel.Collection).
		FindOne(ctx, bson.M{"username": strings.TrimSpace(username)}).Decode(&u)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return usermodel.User{}, errs.ErrBadCredentials.Wrap()
	}
	if err != nil {
		return usermodel.User{}, errs.ErrServerInternal.WrapMsg(err.Error())
	}
	if u.Status == usermodel.StatusBanned {
		return usermodel.User{}, errs.ErrForbidden.Wrap()
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return usermodel.User{}, errs.ErrBadCredentials.Wrap()
	}
	return u, nil
}

// GetByID loads one member.
func GetByID(ctx context.Context, db *mongo.Database, userID string) (usermodel.User, error) {
	var u usermodel.User
	err := db.Collection(usermodel.Collection).
		FindOne(ctx, bson.M{"user_id": userID}).Decode(&u)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return usermodel.User{}, errs.ErrRecordNotFound.Wrap()
	}
	if err != nil {
		return usermodel.User{}, errs.ErrServerInternal.WrapMsg(err.Error())
	}
	return u, nil
}

// Block adds target to the caller's block list; blocking twice is a no-op.
func Block(ctx context.Context, db *mongo.Database, userID, targetID string) error {
	if userID == targetID {
		return errs.ErrValidation.WrapMsg("cannot block self")
	}
	if _, err := GetByID(ctx, db, targetID); err != nil {
		return err
	}
	_, err := db.Collection(usermodel.Collection).UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$addToSet": bson.M{"blocked": targetID}, "$set": bson.M{"updated_at": time.Now()}},
	)
	if err != nil {
		return errs.ErrServerInternal.WrapMsg(err.Error())
	}
	return nil
}

// Unblock removes target from the caller's block list.
func Unblock(ctx context.Context, db *mongo.Database, userID, targetID string) error {
	_, err := db.Collection(usermodel.Collection).UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$pull": bson.M{"blocked": targetID}, "$set": bson.M{"updated_at": time.Now()}},
	)
	if err != nil {
		return errs.ErrServerInternal.WrapMsg(err.Error())
	}
	return nil
}

// IsBlocked reports whether owner has blocked other, in either direction of
// a DM: the sender being on the recipient's list or vice versa suppresses
// contact.
func IsBlocked(ctx context.Context, db *mongo.Database, a, b string) (bool, error) {
	n, err := db.Collection(usermodel.Collection).CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"user_id": a, "blocked": b},
		bson.M{"user_id": b, "blocked": a},
	}})
	if err != nil {
		return false, errs.ErrServerInternal.WrapMsg(err.Error())
	}
	return n > 0, nil
}
