package testutil

import (
	"net/http"
	"sync"
	"testing"
	"time"

	gorillaWS "github.com/gorilla/websocket"

	"github.com/dom/user-directory/internal/domain"
)

// WSClient is a test watcher on the change-notification stream
type WSClient struct {
	t      *testing.T
	conn   *gorillaWS.Conn
	events chan domain.DirectoryEvent
	done   chan struct{}
	once   sync.Once
}

// NewWSClient dials the stream, presenting the cookies held by client's jar
func NewWSClient(t *testing.T, ts *TestServer, client *http.Client) *WSClient {
	t.Helper()

	dialer := gorillaWS.Dialer{
		HandshakeTimeout: 5 * time.Second,
		Jar:              client.Jar,
	}

	header := http.Header{}
	header.Set("Origin", TestOrigin)

	conn, _, err := dialer.Dial(ts.WebSocketURL(), header)
	if err != nil {
		t.Fatalf("failed to connect to websocket: %v", err)
	}

	c := &WSClient{
		t:      t,
		conn:   conn,
		events: make(chan domain.DirectoryEvent, 100),
		done:   make(chan struct{}),
	}

	go c.readPump()

	t.Cleanup(c.Close)

	return c
}

func (c *WSClient) readPump() {
	defer close(c.events)
	for {
		var event domain.DirectoryEvent
		if err := c.conn.ReadJSON(&event); err != nil {
			return
		}
		select {
		case c.events <- event:
		case <-c.done:
			return
		}
	}
}

// WaitForEvent returns the next event or fails the test after timeout
func (c *WSClient) WaitForEvent(timeout time.Duration) domain.DirectoryEvent {
	c.t.Helper()

	select {
	case event, ok := <-c.events:
		if !ok {
			c.t.Fatal("websocket closed while waiting for event")
		}
		return event
	case <-time.After(timeout):
		c.t.Fatalf("timed out waiting for event after %s", timeout)
	}
	return domain.DirectoryEvent{}
}

// Close closes the WebSocket connection gracefully
func (c *WSClient) Close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
		c.conn.Close()
	})
}
