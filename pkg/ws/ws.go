// Package ws holds the websocket plumbing shared by the realtime endpoints:
// token auth from the query string, serialized writes and Redis pub/sub relaying.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"hookr/pkg/jwt"
	"hookr/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 8192
)

var ErrUnauthorized = errors.New("unauthorized")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Authenticate resolves the caller from ?token= or a bearer header. Browsers cannot set
// headers on websocket handshakes, hence the query parameter.
func Authenticate(c *gin.Context, jwtService *jwt.Service) (string, error) {
	token := c.Query("token")
	if token == "" {
		if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
			token = strings.TrimPrefix(h, "Bearer ")
		}
	}
	if token == "" {
		return "", ErrUnauthorized
	}

	claims, err := jwtService.ValidateToken(token)
	if err != nil {
		return "", ErrUnauthorized
	}
	return claims.UserID, nil
}

// Conn is a websocket connection that is safe for concurrent writers.
type Conn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func Upgrade(c *gin.Context) (*Conn, error) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	return &Conn{conn: conn}, nil
}

func (c *Conn) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

func (c *Conn) WriteText(data []byte) error {
	return c.write(websocket.TextMessage, data)
}

func (c *Conn) WriteJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.WriteText(data)
}

// Read blocks for the next data frame. Any inbound frame extends the read deadline.
func (c *Conn) Read() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	return data, nil
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}

// KeepAlive pings the peer until ctx is done or a ping fails.
func (c *Conn) KeepAlive(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// IsPing reports whether an inbound frame is an application-level ping,
// either the bare string "ping" or {"type":"ping"}.
func IsPing(data []byte) bool {
	s := strings.TrimSpace(string(data))
	if s == "ping" {
		return true
	}
	var frame struct {
		Type string `json:"type"`
	}
	return json.Unmarshal(data, &frame) == nil && frame.Type == "ping"
}

// Relay subscribes to channels and forwards every payload to conn until ctx is done.
// It returns once the subscription is confirmed; forwarding continues in the background.
func Relay(ctx context.Context, client *redis.Client, conn *Conn, log *logger.Logger, channels ...string) error {
	pubsub := client.Subscribe(ctx, channels...)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return err
	}

	go func() {
		defer pubsub.Close()
		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				if err := conn.WriteText([]byte(msg.Payload)); err != nil {
					log.Warn("Failed to relay %s to websocket: %v", msg.Channel, err)
					return
				}
			}
		}
	}()
	return nil
}
