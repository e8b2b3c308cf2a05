package service

import (
	"context"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	notifmodel "github.com/Hany173g/OtakuZone-sub001/module/notification/model"
)

type capturePublisher struct {
	mu    sync.Mutex
	calls []struct{ UserID, Event string }
}

func (p *capturePublisher) Publish(userID, event string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, struct{ UserID, Event string }{userID, event})
}

func TestCreate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("blocked pair stores and pushes nothing", func(mt *mtest.T) {
		// block lookup finds a match in either direction
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "otakuzone.users", mtest.FirstBatch,
			bson.D{{Key: "n", Value: 1}}))

		pub := &capturePublisher{}
		n, err := Create(context.Background(), mt.DB, pub, CreateParams{
			UserID:  "victim",
			ActorID: "pest",
			Kind:    notifmodel.KindComment,
			Text:    "علّق pest على موضوعك",
		})
		if err != nil {
			mt.Fatalf("Create: %v", err)
		}
		if n.NotifID != "" {
			mt.Errorf("notification stored across a blocked pair: %+v", n)
		}
		if len(pub.calls) != 0 {
			mt.Errorf("pushed %d events, want 0", len(pub.calls))
		}
	})

	mt.Run("self notification drops before any lookup", func(mt *mtest.T) {
		pub := &capturePublisher{}
		n, err := Create(context.Background(), mt.DB, pub, CreateParams{
			UserID:  "u1",
			ActorID: "u1",
			Kind:    notifmodel.KindComment,
		})
		if err != nil || n.NotifID != "" || len(pub.calls) != 0 {
			mt.Errorf("self notification not dropped: n=%+v err=%v pushes=%d", n, err, len(pub.calls))
		}
	})

	mt.Run("unblocked pair stores and pushes", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "otakuzone.users", mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)

		pub := &capturePublisher{}
		n, err := Create(context.Background(), mt.DB, pub, CreateParams{
			UserID:  "reader",
			ActorID: "author",
			Kind:    notifmodel.KindComment,
			Text:    "علّق author على موضوعك",
		})
		if err != nil {
			mt.Fatalf("Create: %v", err)
		}
		if n.NotifID == "" || n.UserID != "reader" {
			mt.Errorf("stored notification = %+v", n)
		}
		if len(pub.calls) != 1 ||
			pub.calls[0].UserID != "reader" ||
			pub.calls[0].Event != "new_notification" {
			mt.Errorf("pushes = %+v, want one new_notification to reader", pub.calls)
		}
	})
}
