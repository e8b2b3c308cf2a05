package realtime

import (
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Conn is one live websocket session already bound to a user. Connections
// that fail credential verification are refused before a Conn is ever
// created.
type Conn struct {
	ID     string
	UserID string
	Remote net.Addr

	ws      *websocket.Conn
	writeMu sync.Mutex

	JoinedAt time.Time
}

func newConn(id, userID string, ws *websocket.Conn) *Conn {
	c := &Conn{ID: id, UserID: userID, ws: ws, JoinedAt: time.Now()}
	if ra := ws.RemoteAddr(); ra != nil {
		c.Remote = ra
	}
	return c
}

// write sends one text frame; gorilla allows a single concurrent writer, so
// the mutex also keeps ping control frames from racing event frames.
func (c *Conn) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *Conn) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeWait))
}

func (c *Conn) close() {
	_ = c.ws.Close()
}

// ChannelFor names the per-user fan-out channel.
func ChannelFor(userID string) string {
	return "user:" + userID
}

// ConnManager is the channel registry: an index from channel key to the
// live connections joined to it. Insert-on-bind and remove-on-disconnect
// are the only mutations and both are idempotent. The registry is private
// to the gateway; nothing else holds a Conn.
type ConnManager struct {
	mu     sync.RWMutex
	byID   map[string]*Conn
	byChan map[string]map[string]*Conn // channel -> connID -> conn
}

func NewConnManager() *ConnManager {
	return &ConnManager{
		byID:   make(map[string]*Conn),
		byChan: make(map[string]map[string]*Conn),
	}
}

// Bind registers the connection under its user channel. A connection joins
// exactly one channel, the one matching its bound user.
func (m *ConnManager) Bind(c *Conn) {
	if c == nil || c.ID == "" || c.UserID == "" {
		return
	}
	ch := ChannelFor(c.UserID)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[c.ID] = c
	if m.byChan[ch] == nil {
		m.byChan[ch] = make(map[string]*Conn)
	}
	m.byChan[ch][c.ID] = c
}

// Remove drops the connection from the registry. Removing an id that is
// already gone does nothing; disconnect paths can race without corrupting
// the index.
func (m *ConnManager) Remove(connID string) *Conn {
	if connID == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.byID[connID]
	if !ok {
		return nil
	}
	delete(m.byID, connID)

	ch := ChannelFor(c.UserID)
	if mm := m.byChan[ch]; mm != nil {
		delete(mm, connID)
		if len(mm) == 0 {
			delete(m.byChan, ch)
		}
	}
	return c
}

// Broadcast writes data to every connection in the channel and reports how
// many deliveries happened. Write failures are counted out but otherwise
// swallowed; the read loop of a broken connection cleans it up.
func (m *ConnManager) Broadcast(channel string, data []byte) int {
	m.mu.RLock()
	conns := make([]*Conn, 0, len(m.byChan[channel]))
	for _, c := range m.byChan[channel] {
		conns = append(conns, c)
	}
	m.mu.RUnlock()

	n := 0
	for _, c := range conns {
		if err := c.write(data); err == nil {
			n++
		}
	}
	return n
}

// Count reports how many connections are joined to the channel.
func (m *ConnManager) Count(channel string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byChan[channel])
}

// Len reports the total number of registered connections.
func (m *ConnManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

// CloseAll closes every connection and empties the registry.
func (m *ConnManager) CloseAll() {
	m.mu.Lock()
	conns := make([]*Conn, 0, len(m.byID))
	for _, c := range m.byID {
		conns = append(conns, c)
	}
	m.byID = make(map[string]*Conn)
	m.byChan = make(map[string]map[string]*Conn)
	m.mu.Unlock()

	for _, c := range conns {
		c.close()
	}
}
