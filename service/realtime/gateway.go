package realtime

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Hany173g/OtakuZone-sub001/logger"
	"github.com/Hany173g/OtakuZone-sub001/service/storage"
	"github.com/Hany173g/OtakuZone-sub001/tools/safe"
	security "github.com/Hany173g/OtakuZone-sub001/tools/security"
)

const (
	pingInterval = 25 * time.Second
	pongWait     = 60 * time.Second
	readLimit    = 1 << 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Options configures the gateway.
type Options struct {
	JWT        security.Options  // verification shares the issuer's secret
	Presence   *storage.Presence // optional; nil degrades to no tracking
	Production bool
}

// Gateway owns the channel registry and the websocket endpoint. It shares
// the HTTP listener through gin: the handshake is a plain GET that gets
// upgraded after the credential checks out.
//
// Each connection attempt moves through pending -> authenticating ->
// bound or rejected; bound connections leave only through disconnect.
// Rejection happens before the upgrade, so a refused attempt never touches
// the registry.
type Gateway struct {
	conns    *ConnManager
	jwt      security.Options
	presence *storage.Presence
	prod     bool
}

func NewGateway(opts Options) *Gateway {
	return &Gateway{
		conns:    NewConnManager(),
		jwt:      opts.JWT,
		presence: opts.Presence,
		prod:     opts.Production,
	}
}

// Conns exposes the registry for tests.
func (g *Gateway) Conns() *ConnManager { return g.conns }

// credentialFromRequest pulls the socket token from the handshake request.
// Priority: explicit Authorization header, then the token query parameter,
// then the auth-token cookie. First non-empty source wins.
func credentialFromRequest(r *http.Request) string {
	if authz := strings.TrimSpace(r.Header.Get("Authorization")); authz != "" {
		if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return strings.TrimSpace(authz[len("bearer "):])
		}
		return authz
	}
	if tok := strings.TrimSpace(r.URL.Query().Get("token")); tok != "" {
		return tok
	}
	if ck, err := r.Cookie("auth-token"); err == nil {
		return strings.TrimSpace(ck.Value)
	}
	return ""
}

// HandleWS authenticates and serves one websocket connection.
func (g *Gateway) HandleWS(c *gin.Context) {
	token := credentialFromRequest(c.Request)
	var claims *security.Claims
	var err error
	if token != "" {
		claims, err = security.Verify(g.jwt, token, security.ScopeSocket)
	}
	if token == "" || err != nil || claims == nil || claims.UserID == "" {
		if !g.prod {
			logger.Debugf("[ws] reject handshake from %s: %v", c.ClientIP(), err)
		}
		c.String(http.StatusUnauthorized, "unauthorized")
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Infof("[ws] upgrade error: %v", err)
		return
	}

	conn := newConn(uuid.NewString(), claims.UserID, ws)
	g.conns.Bind(conn)
	g.presence.Online(c.Request.Context(), conn.UserID, conn.ID)
	logger.Debugf("[ws] bound conn=%s channel=%s", conn.ID, ChannelFor(conn.UserID))

	g.serve(conn)
}

// serve runs the read loop until the transport drops, then cleans up. The
// forum only pushes server->client, so inbound frames are drained and
// discarded; reading is still required to process control frames.
func (g *Gateway) serve(conn *Conn) {
	ws := conn.ws
	ws.SetReadLimit(readLimit)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	safe.Go(func() {
		t := time.NewTicker(pingInterval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := conn.ping(); err != nil {
					return
				}
			}
		}
	})

	for {
		_, _, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Debugf("[ws] peer closed conn=%s", conn.ID)
			} else if ne, ok := err.(net.Error); ok && ne.Timeout() {
				logger.Debugf("[ws] read timeout conn=%s", conn.ID)
			} else {
				logger.Debugf("[ws] read err conn=%s: %v", conn.ID, err)
			}
			break
		}
	}

	close(done)
	g.disconnect(conn)
}

// disconnect removes the connection from its channel and closes the
// transport. Calling it again for the same connection is harmless.
func (g *Gateway) disconnect(conn *Conn) {
	g.conns.Remove(conn.ID)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	g.presence.Offline(ctx, conn.UserID, conn.ID)
	cancel()
	conn.close()
}

// Publish pushes one event to every connection bound to the user. It never
// returns an error: serialization or write failures are logged at debug and
// dropped, publishing to an offline user delivers to nobody, and the domain
// write that triggered the event remains the source of truth.
func (g *Gateway) Publish(userID, event string, payload interface{}) {
	data, err := json.Marshal(EventFrame{Event: event, Payload: payload})
	if err != nil {
		logger.Debugf("[ws] publish marshal err event=%s: %v", event, err)
		return
	}
	n := g.conns.Broadcast(ChannelFor(userID), data)
	if n > 0 {
		logger.Debugf("[ws] publish event=%s user=%s delivered=%d", event, userID, n)
	}
}

// Close drops every connection; used on shutdown.
func (g *Gateway) Close() {
	g.conns.CloseAll()
}
