package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dom/user-directory/internal/domain"
)

// Watcher follows the server's change stream and refreshes the directory's
// current page whenever another client adds or removes a user.
type Watcher struct {
	url     string
	origin  string
	jar     http.CookieJar
	store   *DirectoryStore
	onEvent func(domain.DirectoryEvent)
}

type WatcherOption func(*Watcher)

// WithOnEvent registers a hook run for every event, after the refresh.
func WithOnEvent(fn func(domain.DirectoryEvent)) WatcherOption {
	return func(w *Watcher) {
		w.onEvent = fn
	}
}

func NewWatcher(api *APIClient, store *DirectoryStore, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		url:    api.Config().WatchURL,
		origin: api.Config().Origin,
		jar:    api.Jar(),
		store:  store,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run blocks until ctx is done or the server closes the stream.
func (w *Watcher) Run(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
		Jar:              w.jar,
	}

	header := http.Header{}
	if w.origin != "" {
		header.Set("Origin", w.origin)
	}

	conn, resp, err := dialer.DialContext(ctx, w.url, header)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
			return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("watch rejected: %v", err)}
		}
		return fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		var event domain.DirectoryEvent
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
		}

		w.store.FetchPage(ctx, w.store.State().CurrentPage)
		if w.onEvent != nil {
			w.onEvent(event)
		}
	}
}
