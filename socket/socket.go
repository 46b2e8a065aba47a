package socket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 10 * time.Second

// Envelope is the frame format on the wire: an event name plus its payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Handler receives the raw payload of an inbound event.
type Handler func(data json.RawMessage)

// Conn is the persistent event channel to the chat server.
type Conn struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu       sync.RWMutex
	handlers map[string][]Handler

	closeOnce sync.Once
	closed    chan struct{}
}

// Dial connects to the websocket server. The jar carries the HTTP session
// cookie so the server can identify the user.
func Dial(ctx context.Context, wsURL string, jar http.CookieJar) (*Conn, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 10 * time.Second,
		Jar:              jar,
	}
	conn, resp, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to connect to websocket: %w, status: %s", err, resp.Status)
		}
		return nil, fmt.Errorf("failed to connect to websocket: %w", err)
	}
	return newConn(conn), nil
}

func newConn(conn *websocket.Conn) *Conn {
	return &Conn{
		conn:     conn,
		handlers: map[string][]Handler{},
		closed:   make(chan struct{}),
	}
}

// On registers h for event. Handlers run on the Listen goroutine in the
// order events arrive.
func (c *Conn) On(event string, h Handler) {
	c.mu.Lock()
	c.handlers[event] = append(c.handlers[event], h)
	c.mu.Unlock()
}

// Emit sends event with payload. It does not wait for any acknowledgement.
func (c *Conn) Emit(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event, err)
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(Envelope{Event: event, Data: data}); err != nil {
		return fmt.Errorf("failed to send %s: %w", event, err)
	}
	return nil
}

// Listen reads events until the connection ends. It returns nil when the
// connection was closed through Close or by a normal close frame.
func (c *Conn) Listen() error {
	for {
		var env Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			select {
			case <-c.closed:
				return nil
			default:
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				log.Warn().Err(err).Msg("[socket] dropping malformed frame")
				continue
			}
			return fmt.Errorf("error reading event: %w", err)
		}
		c.dispatch(env)
	}
}

func (c *Conn) dispatch(env Envelope) {
	c.mu.RLock()
	hs := append([]Handler(nil), c.handlers[env.Event]...)
	c.mu.RUnlock()
	if len(hs) == 0 {
		log.Debug().Str("event", env.Event).Msg("[socket] no handler")
		return
	}
	for _, h := range hs {
		h(env.Data)
	}
}

// Close sends a close frame and closes the connection. Safe to call twice.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}
