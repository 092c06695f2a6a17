package api

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/110782829/moomoo-chatgpt-trader/internal/models"
)

// Stream subscribes to the bot's websocket event feed (orders, fills,
// strategy signals) and delivers activity items over a channel. It
// reconnects with capped exponential backoff until its context is
// cancelled.
type Stream struct {
	url    string
	dialer *websocket.Dialer
	log    *slog.Logger
	items  chan models.ActivityItem
}

const (
	streamInitialBackoff = time.Second
	streamMaxBackoff     = 30 * time.Second
	streamBuffer         = 64
)

// NewStream creates a stream for the bot at apiBaseURL; the websocket
// endpoint is derived from it (/ws/events over ws or wss).
func NewStream(apiBaseURL string, log *slog.Logger) (*Stream, error) {
	u, err := url.Parse(apiBaseURL)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/events"

	if log == nil {
		log = slog.Default()
	}
	return &Stream{
		url:    u.String(),
		dialer: websocket.DefaultDialer,
		log:    log,
		items:  make(chan models.ActivityItem, streamBuffer),
	}, nil
}

// Events is the channel activity items arrive on. Closed when Run returns.
func (s *Stream) Events() <-chan models.ActivityItem {
	return s.items
}

// Run reads from the feed until ctx is cancelled, redialing on failure.
// Always returns ctx.Err().
func (s *Stream) Run(ctx context.Context) error {
	defer close(s.items)

	backoff := streamInitialBackoff
	for {
		connected, err := s.readOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if connected {
			backoff = streamInitialBackoff
		}
		s.log.Debug("event stream disconnected", "err", err, "retry_in", backoff)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, streamMaxBackoff)
	}
}

// readOnce dials the feed and pumps messages until the connection drops.
func (s *Stream) readOnce(ctx context.Context) (bool, error) {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return false, err
	}
	defer conn.Close()
	s.log.Debug("event stream connected", "url", s.url)

	// Close the connection when the context ends so the blocked read
	// returns promptly.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var item models.ActivityItem
		if err := conn.ReadJSON(&item); err != nil {
			return true, err
		}
		if item.Timestamp.IsZero() {
			item.Timestamp = time.Now()
		}
		select {
		case s.items <- item:
		default:
			// Feed is faster than the UI drains; drop the oldest.
			select {
			case <-s.items:
			default:
			}
			s.items <- item
		}
	}
}
