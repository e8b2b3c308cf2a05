package realtime

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	security "github.com/Hany173g/OtakuZone-sub001/tools/security"
)

var testJWT = security.DefaultOptions([]byte("gateway-test-secret"))

func newTestGateway(t *testing.T) (*Gateway, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gw := NewGateway(Options{JWT: testJWT})
	r := gin.New()
	r.GET("/realtime", gw.HandleWS)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	t.Cleanup(gw.Close)
	return gw, srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/realtime"
}

func socketToken(t *testing.T, userID string) string {
	t.Helper()
	token, _, err := security.Issue(testJWT, userID, security.ScopeSocket)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return token
}

func dialOK(t *testing.T, url string, hdr http.Header) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, hdr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func waitForCount(t *testing.T, gw *Gateway, channel string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if gw.Conns().Count(channel) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("channel %s never reached %d connections", channel, want)
}

func TestHandshakeRejectedWithoutCredential(t *testing.T) {
	gw, srv := newTestGateway(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err == nil {
		t.Fatal("dial succeeded without credential")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %v, want 401", resp)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "unauthorized" {
		t.Errorf("body = %q, want %q", body, "unauthorized")
	}
	if gw.Conns().Len() != 0 {
		t.Error("registry gained an entry from a rejected handshake")
	}
}

func TestHandshakeRejectedBadCredential(t *testing.T) {
	cases := []struct {
		name  string
		token string
	}{
		{"garbage", "nonsense"},
		{"wrong scope", func() string {
			tok, _, _ := security.Issue(testJWT, "userA", security.ScopeSession)
			return tok
		}()},
		{"expired", func() string {
			expired := testJWT
			expired.TTL = -time.Hour
			tok, _, _ := security.Issue(expired, "userA", security.ScopeSocket)
			return tok
		}()},
		{"wrong secret", func() string {
			other := security.DefaultOptions([]byte("not-the-secret"))
			tok, _, _ := security.Issue(other, "userA", security.ScopeSocket)
			return tok
		}()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw, srv := newTestGateway(t)
			_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv)+"?token="+tc.token, nil)
			if err == nil {
				t.Fatal("dial succeeded with bad credential")
			}
			if resp == nil || resp.StatusCode != http.StatusUnauthorized {
				t.Fatalf("status = %v, want 401", resp)
			}
			if gw.Conns().Len() != 0 {
				t.Error("registry gained an entry")
			}
		})
	}
}

// A valid credential binds the connection to user:<sub> no matter which of
// the three handshake sources carried it.
func TestHandshakeCredentialSources(t *testing.T) {
	token := func(t *testing.T) string { return socketToken(t, "userA") }

	cases := []struct {
		name string
		dial func(t *testing.T, url string)
	}{
		{"auth header", func(t *testing.T, url string) {
			hdr := http.Header{}
			hdr.Set("Authorization", "Bearer "+token(t))
			dialOK(t, url, hdr)
		}},
		{"query param", func(t *testing.T, url string) {
			dialOK(t, url+"?token="+token(t), nil)
		}},
		{"cookie", func(t *testing.T, url string) {
			hdr := http.Header{}
			hdr.Set("Cookie", "auth-token="+token(t))
			dialOK(t, url, hdr)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw, srv := newTestGateway(t)
			tc.dial(t, wsURL(srv))
			waitForCount(t, gw, ChannelFor("userA"), 1)
			if got := gw.Conns().Len(); got != 1 {
				t.Errorf("Len = %d, want 1", got)
			}
		})
	}
}

// Two tabs of user A both receive a publish to A; user B receives nothing.
func TestPublishFanOutTwoTabs(t *testing.T) {
	gw, srv := newTestGateway(t)

	tabA1 := dialOK(t, wsURL(srv)+"?token="+socketToken(t, "userA"), nil)
	tabA2 := dialOK(t, wsURL(srv)+"?token="+socketToken(t, "userA"), nil)
	tabB := dialOK(t, wsURL(srv)+"?token="+socketToken(t, "userB"), nil)

	waitForCount(t, gw, ChannelFor("userA"), 2)
	waitForCount(t, gw, ChannelFor("userB"), 1)

	gw.Publish("userA", EventNewMessage, map[string]string{"text": "hi"})

	for _, tab := range []*websocket.Conn{tabA1, tabA2} {
		raw := readFrame(t, tab)
		var frame EventFrame
		if err := json.Unmarshal([]byte(raw), &frame); err != nil {
			t.Fatalf("bad frame %q: %v", raw, err)
		}
		if frame.Event != EventNewMessage {
			t.Errorf("event = %q, want %q", frame.Event, EventNewMessage)
		}
		payload, ok := frame.Payload.(map[string]interface{})
		if !ok || payload["text"] != "hi" {
			t.Errorf("payload = %#v, want text=hi", frame.Payload)
		}
	}
	expectNoFrame(t, tabB)
}

func TestPublishToOfflineUserIsNoop(t *testing.T) {
	gw, _ := newTestGateway(t)
	// must not panic nor error
	gw.Publish("ghost", EventNewNotification, map[string]string{"k": "v"})
}

func TestPublishUnserializablePayloadSwallowed(t *testing.T) {
	gw, srv := newTestGateway(t)
	tab := dialOK(t, wsURL(srv)+"?token="+socketToken(t, "userA"), nil)
	waitForCount(t, gw, ChannelFor("userA"), 1)

	gw.Publish("userA", EventNewMessage, make(chan int)) // cannot marshal
	expectNoFrame(t, tab)
}

func TestDisconnectCleansRegistry(t *testing.T) {
	gw, srv := newTestGateway(t)

	ws := dialOK(t, wsURL(srv)+"?token="+socketToken(t, "userA"), nil)
	waitForCount(t, gw, ChannelFor("userA"), 1)

	_ = ws.Close()
	waitForCount(t, gw, ChannelFor("userA"), 0)
	if got := gw.Conns().Len(); got != 0 {
		t.Errorf("Len = %d, want 0", got)
	}
}

func TestNopPublisher(t *testing.T) {
	var pub Publisher = NopPublisher{}
	// absent gateway: publishing is a silent no-op
	pub.Publish("userA", EventNewMessage, map[string]string{"text": "hi"})
}
