package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/holdemtable/internal/table"
)

// Push subscribes to the server's websocket channel. The channel carries the
// same snapshot payload as the status endpoint, so subscribers run it
// through the same reconciliation path as a poll result.
type Push struct {
	conn      *websocket.Conn
	logger    *log.Logger
	snapshots chan *table.Snapshot
	closeOnce sync.Once
}

// DialPush connects to the push channel of the server at baseURL.
func DialPush(ctx context.Context, baseURL string, logger *log.Logger) (*Push, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/api/poker/ws"

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial push channel: %w", err)
	}

	p := &Push{
		conn:      conn,
		logger:    logger.WithPrefix("push"),
		snapshots: make(chan *table.Snapshot, 16),
	}
	go p.readPump()

	p.logger.Info("connected to push channel", "url", u.String())
	return p, nil
}

// Snapshots returns the channel of decoded snapshots. It is closed when the
// connection drops or Close is called.
func (p *Push) Snapshots() <-chan *table.Snapshot {
	return p.snapshots
}

// Close shuts the push channel down.
func (p *Push) Close() error {
	var err error
	p.closeOnce.Do(func() {
		err = p.conn.Close()
	})
	return err
}

func (p *Push) readPump() {
	defer close(p.snapshots)

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				p.logger.Error("push channel error", "error", err)
			}
			return
		}

		snap, err := DecodeSnapshot(data)
		if err != nil {
			// Frames other than snapshots (or truncated ones) are dropped;
			// the next poll re-synchronizes regardless.
			if errors.Is(err, ErrMalformed) {
				p.logger.Debug("dropping non-snapshot frame")
				continue
			}
			p.logger.Debug("dropping undecodable frame", "error", err)
			continue
		}

		p.snapshots <- snap
	}
}
