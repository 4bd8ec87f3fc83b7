package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"

	"github.com/lox/holdemtable/internal/table"
)

// Client talks to the game server's REST API. Every call is a single
// fire-and-await round trip; there is no batching and no automatic retry.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *log.Logger
	entropy *ulid.MonotonicEntropy
}

// NewClient creates a client for the given base URL. An empty token means
// requests go out unauthenticated.
func NewClient(baseURL, token string, timeout time.Duration, logger *log.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.WithPrefix("api"),
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// Status fetches the current snapshot. Returns ErrNoGame when no game is in
// progress, ErrMalformed when the payload has no players sequence.
func (c *Client) Status(ctx context.Context) (*table.Snapshot, error) {
	return c.getSnapshot(ctx, "/api/poker/status")
}

// Start creates a new game from the given roster and returns its snapshot.
func (c *Client) Start(ctx context.Context, roster []PlayerInfo) (*table.Snapshot, error) {
	return c.postSnapshot(ctx, "/api/poker/start", roster)
}

// Deal asks the server to deal the community cards for the given phase.
// Only Flop, Turn and River are dealable.
func (c *Client) Deal(ctx context.Context, phase table.Phase) (*table.Snapshot, error) {
	var path string
	switch phase {
	case table.Flop:
		path = "/api/poker/flop"
	case table.Turn:
		path = "/api/poker/turn"
	case table.River:
		path = "/api/poker/river"
	default:
		return nil, fmt.Errorf("phase %s is not dealable", phase)
	}
	return c.getSnapshot(ctx, path)
}

// End resolves the hand and returns the server's winner announcement.
func (c *Client) End(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/poker/end", nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// Fold folds the given seat.
func (c *Client) Fold(ctx context.Context, playerID string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/poker/fold", actionRequest{PlayerID: playerID})
	return err
}

// Check checks for the given seat. Legality is validated locally before
// this is called; the server may still refuse.
func (c *Client) Check(ctx context.Context, playerID string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/poker/check", actionRequest{PlayerID: playerID})
	return err
}

// Bet places a bet or raise for the given seat.
func (c *Client) Bet(ctx context.Context, playerID string, amount int) error {
	_, err := c.do(ctx, http.MethodPost, "/api/poker/bet", actionRequest{PlayerID: playerID, Amount: amount})
	return err
}

// BotAction asks the server to act for one automated seat and returns the
// server's description of what it did.
func (c *Client) BotAction(ctx context.Context, playerID string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/poker/bot-action/"+playerID, nil)
	if err != nil {
		return "", err
	}
	var ack botActionResponse
	if err := json.Unmarshal(body, &ack); err != nil {
		// Some server builds answer with plain text.
		return strings.TrimSpace(string(body)), nil
	}
	return ack.Message, nil
}

// Reset resets the game, optionally keeping the seated players.
func (c *Client) Reset(ctx context.Context, keepPlayers bool) (*table.Snapshot, error) {
	return c.postSnapshot(ctx, "/api/poker/reset", resetRequest{KeepPlayers: keepPlayers})
}

// NewMatch starts a fresh match with the current players.
func (c *Client) NewMatch(ctx context.Context) (*table.Snapshot, error) {
	return c.postSnapshot(ctx, "/api/poker/new-match", nil)
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// wireSnapshot mirrors table.Snapshot with a pointer players field so a
// missing players key is distinguishable from an empty roster.
type wireSnapshot struct {
	Phase          table.Phase         `json:"phase"`
	Players        *[]table.PlayerView `json:"players"`
	CommunityCards []table.Card        `json:"communityCards"`
	CurrentPot     int                 `json:"currentPot"`
	CurrentBet     int                 `json:"currentBet"`
	PlayerActions  map[string]bool     `json:"playerActions"`
}

func (c *Client) getSnapshot(ctx context.Context, path string) (*table.Snapshot, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return DecodeSnapshot(body)
}

func (c *Client) postSnapshot(ctx context.Context, path string, payload any) (*table.Snapshot, error) {
	body, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}
	return DecodeSnapshot(body)
}

// DecodeSnapshot parses a snapshot payload, enforcing the presence of the
// players sequence. Shared with the push channel, which carries the same
// payload over a different transport.
func DecodeSnapshot(data []byte) (*table.Snapshot, error) {
	var wire wireSnapshot
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if wire.Players == nil {
		return nil, ErrMalformed
	}
	return &table.Snapshot{
		Phase:          wire.Phase,
		Players:        *wire.Players,
		CommunityCards: wire.CommunityCards,
		CurrentPot:     wire.CurrentPot,
		CurrentBet:     wire.CurrentBet,
		PlayerActions:  wire.PlayerActions,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	requestID := ulid.MustNew(ulid.Timestamp(time.Now()), c.entropy).String()
	req.Header.Set("X-Request-ID", requestID)

	c.logger.Debug("request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNoGame
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, &RejectedError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%s %s: server error (status %d)", method, path, resp.StatusCode)
	}

	return body, nil
}
