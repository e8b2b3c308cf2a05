// Package client is the Go counterpart of the browser's realtime connector:
// it trades an HTTP session for a socket credential, keeps one websocket to
// the gateway, and hands incoming events to registered handlers. Realtime
// is an enhancement, so every failure path here is silent and callers only
// observe Connected().
package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/singleflight"

	"github.com/Hany173g/OtakuZone-sub001/logger"
	"github.com/Hany173g/OtakuZone-sub001/tools/decode"
	"github.com/Hany173g/OtakuZone-sub001/tools/safe"
)

const tokenPath = "/api/realtime/token"

// Event is one server push.
type Event struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Decode maps the raw payload onto a caller struct.
func (e Event) Decode(v interface{}) error {
	return decode.Map(e.Payload, v)
}

// Options configures a Connector.
type Options struct {
	// Enabled is the realtime feature flag. Nil follows the environment
	// default: on outside production, off in production.
	Enabled    *bool
	Production bool

	BaseURL      string // e.g. http://localhost:8080
	SessionToken string // HTTP session credential for the token endpoint

	HTTPClient *http.Client
	Dialer     *websocket.Dialer
}

// Connector maintains one connection to the realtime gateway.
type Connector struct {
	enabled bool
	baseURL string
	session string
	httpc   *http.Client
	dialer  *websocket.Dialer

	sf singleflight.Group

	mu        sync.RWMutex
	ws        *websocket.Conn
	connected bool
	handlers  map[string][]func(Event)
}

// New builds a Connector. A disabled one is a working no-op stand-in:
// every method is inert and Connected reports false, so calling code needs
// no conditional branches.
func New(opts Options) *Connector {
	enabled := !opts.Production
	if opts.Enabled != nil {
		enabled = *opts.Enabled
	}
	httpc := opts.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	dialer := opts.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	return &Connector{
		enabled:  enabled,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		session:  opts.SessionToken,
		httpc:    httpc,
		dialer:   dialer,
		handlers: make(map[string][]func(Event)),
	}
}

// Connected reports whether a live connection exists.
func (c *Connector) Connected() bool {
	if c == nil || !c.enabled {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// On registers a handler for an event name.
func (c *Connector) On(event string, fn func(Event)) {
	if c == nil || !c.enabled || fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = append(c.handlers[event], fn)
}

// Connect fetches a fresh credential and dials the gateway. Failures are
// swallowed: a failed token fetch or dial leaves the connector disconnected
// and the caller checks Connected. Concurrent calls share one in-flight
// attempt instead of fetching twice.
func (c *Connector) Connect(ctx context.Context) {
	if c == nil || !c.enabled {
		return
	}
	_, _, _ = c.sf.Do("connect", func() (interface{}, error) {
		c.connect(ctx)
		return nil, nil
	})
}

func (c *Connector) connect(ctx context.Context) {
	c.mu.RLock()
	already := c.connected
	c.mu.RUnlock()
	if already {
		return
	}

	token := c.fetchToken(ctx)
	if token == "" {
		return
	}

	u, err := url.Parse(c.baseURL + "/realtime")
	if err != nil {
		return
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	hdr := http.Header{}
	hdr.Set("Authorization", "Bearer "+token)

	ws, resp, err := c.dialer.DialContext(ctx, u.String(), hdr)
	if err != nil {
		logger.Debugf("[client] dial failed: %v", err)
		if resp != nil {
			_ = resp.Body.Close()
		}
		return
	}

	c.mu.Lock()
	c.ws = ws
	c.connected = true
	c.mu.Unlock()

	safe.Go(func() { c.readLoop(ws) })
}

// fetchToken asks the issuer for a socket credential; empty on any failure.
func (c *Connector) fetchToken(ctx context.Context) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+tokenPath, nil)
	if err != nil {
		return ""
	}
	if c.session != "" {
		req.Header.Set("Authorization", "Bearer "+c.session)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		logger.Debugf("[client] token fetch failed: %v", err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logger.Debugf("[client] token fetch status=%d", resp.StatusCode)
		return ""
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	return body.Token
}

func (c *Connector) readLoop(ws *websocket.Conn) {
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			c.mu.Lock()
			if c.ws == ws {
				c.ws = nil
				c.connected = false
			}
			c.mu.Unlock()
			_ = ws.Close()

			// An expired credential shows up as an unauthorized close;
			// one retry with a freshly issued token covers it. Network
			// blips are the caller's concern.
			if strings.Contains(strings.ToLower(err.Error()), "unauthorized") {
				c.Connect(context.Background())
			}
			return
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			continue
		}
		c.mu.RLock()
		fns := append([]func(Event){}, c.handlers[ev.Event]...)
		c.mu.RUnlock()
		for _, fn := range fns {
			fn(ev)
		}
	}
}

// Close drops the connection if one exists.
func (c *Connector) Close() {
	if c == nil || !c.enabled {
		return
	}
	c.mu.Lock()
	ws := c.ws
	c.ws = nil
	c.connected = false
	c.mu.Unlock()
	if ws != nil {
		_ = ws.Close()
	}
}
