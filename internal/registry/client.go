package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Logger defines the logging interface used by the registry client.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

const (
	handshakeTimeout = 10 * time.Second
	writeTimeout     = 10 * time.Second
)

// Client is the websocket client for the platform's registry command
// protocol. Commands carry a monotonically increasing ID; responses
// are correlated back to their callers by that ID, so concurrent
// commands over one connection are safe.
type Client struct {
	url    string
	token  string
	logger Logger

	writeMu sync.Mutex
	conn    *websocket.Conn

	nextID atomic.Int64

	pendingMu sync.Mutex
	pending   map[int64]chan serverMessage

	closed    chan struct{}
	closeOnce sync.Once
}

// NewClient creates a registry client for the given websocket URL
// (ws://host:8123/api/websocket) and long-lived access token.
func NewClient(url, token string) *Client {
	return &Client{
		url:     url,
		token:   token,
		logger:  noopLogger{},
		pending: make(map[int64]chan serverMessage),
		closed:  make(chan struct{}),
	}
}

// SetLogger sets the logger for the client.
func (c *Client) SetLogger(logger Logger) {
	c.logger = logger
}

// Connect dials the platform and performs the auth handshake:
// auth_required from the server, auth with the token, then auth_ok or
// auth_invalid. On success the read loop starts and the client is
// ready for commands.
func (c *Client) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("%w: dialing %s: %v", ErrExternalCall, c.url, err)
	}

	var hello serverMessage
	if err := conn.ReadJSON(&hello); err != nil {
		conn.Close() //nolint:errcheck // Already failing
		return fmt.Errorf("%w: reading handshake: %v", ErrExternalCall, err)
	}
	if hello.Type != msgTypeAuthRequired {
		conn.Close() //nolint:errcheck // Already failing
		return fmt.Errorf("%w: unexpected handshake message %q", ErrExternalCall, hello.Type)
	}

	if err := conn.WriteJSON(authMessage{Type: msgTypeAuth, AccessToken: c.token}); err != nil {
		conn.Close() //nolint:errcheck // Already failing
		return fmt.Errorf("%w: sending auth: %v", ErrExternalCall, err)
	}

	var authResult serverMessage
	if err := conn.ReadJSON(&authResult); err != nil {
		conn.Close() //nolint:errcheck // Already failing
		return fmt.Errorf("%w: reading auth result: %v", ErrExternalCall, err)
	}
	if authResult.Type != msgTypeAuthOK {
		conn.Close() //nolint:errcheck // Auth already rejected
		return fmt.Errorf("%w: %s", ErrAuthFailed, authResult.Message)
	}

	c.conn = conn
	c.logger.Info("registry connected", "url", c.url, "version", authResult.HAVersion)

	go c.readLoop()
	return nil
}

// Close terminates the connection. Pending commands fail with
// ErrNotConnected.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}

// Call sends one command and waits for its correlated result. The
// command map must not contain an "id" field; the client assigns it.
func (c *Client) Call(ctx context.Context, command map[string]any) (json.RawMessage, error) {
	if c.conn == nil {
		return nil, ErrNotConnected
	}

	id := c.nextID.Add(1)
	command["id"] = id

	ch := make(chan serverMessage, 1)
	c.pendingMu.Lock()
	c.pending[id] = ch
	c.pendingMu.Unlock()
	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
	}()

	c.writeMu.Lock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck // Best effort
	err := c.conn.WriteJSON(command)
	c.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("%w: sending command: %v", ErrExternalCall, err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.closed:
		return nil, ErrNotConnected
	case msg := <-ch:
		if !msg.Success {
			if msg.Error != nil {
				if msg.Error.Code == "not_found" {
					return nil, fmt.Errorf("%w: %s", ErrNotFound, msg.Error.Message)
				}
				return nil, fmt.Errorf("%w: %s: %s", ErrExternalCall, msg.Error.Code, msg.Error.Message)
			}
			return nil, fmt.Errorf("%w: command %v rejected", ErrExternalCall, command["type"])
		}
		return msg.Result, nil
	}
}

// readLoop dispatches result frames to their waiting callers. Frames
// without a pending caller (events, late results) are dropped.
func (c *Client) readLoop() {
	for {
		var msg serverMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			select {
			case <-c.closed:
			default:
				c.logger.Error("registry connection lost", "error", err)
				c.Close() //nolint:errcheck // Already failing
			}
			return
		}

		if msg.Type != msgTypeResult {
			c.logger.Debug("ignoring frame", "type", msg.Type)
			continue
		}

		c.pendingMu.Lock()
		ch, ok := c.pending[msg.ID]
		c.pendingMu.Unlock()
		if ok {
			ch <- msg
		}
	}
}
