// Package feed maintains the websocket subscription to the node's
// event stream.
package feed

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Angleito/SuiFlashBotTemplate/utils"
)

const HeartbeatInterval = 10 * time.Second

type Client struct {
	conn        *websocket.Conn
	url         string
	OnEvent     func([]byte)
	isConnected atomic.Bool
	retry       backoff.BackOff
	log         *zap.SugaredLogger
}

func NewClient(url string, log *zap.SugaredLogger) *Client {
	return &Client{
		url:   url,
		retry: utils.NewExponentialBackoff(),
		log:   log,
	}
}

func (c *Client) Connect() error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	conn, _, err := dialer.Dial(c.url, nil)
	if err != nil {
		return err
	}

	c.conn = conn
	c.isConnected.Store(true)

	go c.heartbeat()

	return nil
}

func (c *Client) heartbeat() {
	ticker := time.NewTicker(HeartbeatInterval)
	defer ticker.Stop()

	for range ticker.C {
		if !c.isConnected.Load() {
			return
		}
		if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			c.log.Warnw("Failed to send heartbeat", "error", err)
			c.isConnected.Store(false)
			c.conn.Close()
			return
		}
	}
}

// Listen reads events until ctx is cancelled, reconnecting with
// exponential backoff after any connection failure. The backoff resets
// on each successful connect.
func (c *Client) Listen(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		if !c.isConnected.Load() {
			if err := c.Connect(); err != nil {
				wait := c.retry.NextBackOff()
				if wait == backoff.Stop {
					c.retry.Reset()
					wait = c.retry.NextBackOff()
				}
				c.log.Warnw("Feed connection failed",
					"error", err,
					"retry_in", wait)
				select {
				case <-time.After(wait):
					continue
				case <-ctx.Done():
					return
				}
			}
			c.retry.Reset()
		}

		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Warnw("Error reading feed message", "error", err)
			c.isConnected.Store(false)
			c.conn.Close()
			continue
		}

		if c.OnEvent != nil {
			c.OnEvent(message)
		}
	}
}

func (c *Client) Close() {
	c.isConnected.Store(false)
	if c.conn != nil {
		c.conn.Close()
	}
}

// SendJSON writes a JSON frame, typically the subscribe request.
func (c *Client) SendJSON(v interface{}) error {
	if !c.isConnected.Load() {
		return fmt.Errorf("feed is not connected")
	}
	return c.conn.WriteJSON(v)
}
