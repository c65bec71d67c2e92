package controller

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	outboxSize     = 64
)

var (
	errClientClosed = errors.New("client closed")
	errOutboxFull   = errors.New("outbox full")
)

// client owns the write side of one websocket. Frames are queued in outbox
// and written by writePump, so Send never blocks the caller.
type client struct {
	conn      *websocket.Conn
	outbox    chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn:   conn,
		outbox: make(chan []byte, outboxSize),
		done:   make(chan struct{}),
	}
}

// Send queues data. A client that cannot keep up is closed.
func (c *client) Send(data []byte) error {
	select {
	case <-c.done:
		return errClientClosed
	default:
	}

	select {
	case c.outbox <- data:
		return nil
	default:
		c.Close()
		return errOutboxFull
	}
}

func (c *client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})

	return err
}

// prepareRead sets the read limits and the pong based liveness deadline.
func (c *client) prepareRead() {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case data := <-c.outbox:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
