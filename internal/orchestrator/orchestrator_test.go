package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemtable/internal/api"
	"github.com/lox/holdemtable/internal/table"
)

// recordSink captures events and diagnostics for assertions.
type recordSink struct {
	mu          sync.Mutex
	events      []string
	diagnostics []string
}

func (s *recordSink) Event(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, msg)
}

func (s *recordSink) Diagnostic(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagnostics = append(s.diagnostics, msg)
}

func (s *recordSink) Diagnostics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.diagnostics...)
}

// fakeGame is a scripted stand-in for the game server. It mutates a single
// snapshot the way the real backend would and records every request so
// tests can assert exactly which calls went out.
type fakeGame struct {
	t  *testing.T
	mu sync.Mutex

	snap      *table.Snapshot // nil means no active game (404)
	malformed bool            // serve a snapshot without players
	failDeals bool            // refuse flop/turn/river
	gateBots  bool            // refuse bot actions until the human has acted
	humanID   string

	calls []string
	srv   *httptest.Server
}

func newFakeGame(t *testing.T) *fakeGame {
	t.Helper()
	f := &fakeGame{t: t, humanID: "Alice"}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/poker/status", f.handleStatus)
	mux.HandleFunc("/api/poker/start", f.handleStart)
	mux.HandleFunc("/api/poker/flop", f.handleDeal(table.Flop))
	mux.HandleFunc("/api/poker/turn", f.handleDeal(table.Turn))
	mux.HandleFunc("/api/poker/river", f.handleDeal(table.River))
	mux.HandleFunc("/api/poker/end", f.handleEnd)
	mux.HandleFunc("/api/poker/fold", f.handleFold)
	mux.HandleFunc("/api/poker/check", f.handleCheck)
	mux.HandleFunc("/api/poker/bet", f.handleBet)
	mux.HandleFunc("/api/poker/bot-action/", f.handleBotAction)

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeGame) record(r *http.Request) {
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
}

func (f *fakeGame) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGame) CallCount(call string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeGame) writeSnap(w http.ResponseWriter) {
	data, err := json.Marshal(f.snap)
	if err != nil {
		f.t.Errorf("marshal snapshot: %v", err)
		return
	}
	_, _ = w.Write(data)
}

func (f *fakeGame) player(id string) *table.PlayerView {
	for i := range f.snap.Players {
		if f.snap.Players[i].ID == id {
			return &f.snap.Players[i]
		}
	}
	return nil
}

func (f *fakeGame) handleStatus(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(r)

	if f.malformed {
		_, _ = w.Write([]byte(`{"phase": "PRE_FLOP", "currentPot": 0}`))
		return
	}
	if f.snap == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	f.writeSnap(w)
}

func (f *fakeGame) handleStart(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(r)

	var roster []api.PlayerInfo
	body, _ := io.ReadAll(r.Body)
	if err := json.Unmarshal(body, &roster); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	players := make([]table.PlayerView, len(roster))
	for i, info := range roster {
		players[i] = table.PlayerView{
			ID:    info.Name,
			Name:  info.Name,
			Chips: info.StartingChips,
		}
	}
	f.snap = &table.Snapshot{
		Phase:         table.PreFlop,
		Players:       players,
		PlayerActions: map[string]bool{},
	}
	f.writeSnap(w)
}

func (f *fakeGame) handleDeal(phase table.Phase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.record(r)

		if f.failDeals {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		f.snap.Phase = phase
		f.snap.CommunityCards = make([]table.Card, phase.BoardSize())
		for i := range f.snap.CommunityCards {
			f.snap.CommunityCards[i] = table.Card{Suit: "SPADES", Value: "TWO"}
		}
		f.snap.PlayerActions = map[string]bool{}
		f.writeSnap(w)
	}
}

func (f *fakeGame) handleEnd(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(r)

	winner := ""
	for _, p := range f.snap.Players {
		if !p.Folded {
			winner = p.Name
			break
		}
	}
	f.snap.Phase = table.Showdown
	f.snap.CommunityCards = make([]table.Card, 5)
	_, _ = fmt.Fprintf(w, "Game ended. Winner is: %s", winner)
}

func (f *fakeGame) handleFold(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(r)

	var req struct {
		PlayerID string `json:"playerId"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	if p := f.player(req.PlayerID); p != nil {
		p.Folded = true
		f.snap.PlayerActions[p.ID] = true
	}
	_, _ = w.Write([]byte("Player folded successfully."))
}

func (f *fakeGame) handleCheck(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(r)

	var req struct {
		PlayerID string `json:"playerId"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.snap.PlayerActions[req.PlayerID] = true
	_, _ = w.Write([]byte("Player checked."))
}

func (f *fakeGame) handleBet(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(r)

	var req struct {
		PlayerID string `json:"playerId"`
		Amount   int    `json:"amount"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	// Amount is the delta added to the seat's standing bet.
	if p := f.player(req.PlayerID); p != nil {
		p.Chips -= req.Amount
		p.BetAmount += req.Amount
		f.snap.PlayerActions[p.ID] = true
	}
	_, _ = w.Write([]byte("Bet placed successfully."))
}

func (f *fakeGame) handleBotAction(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(r)

	if f.gateBots && !f.snap.PlayerActions[f.humanID] {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Not this seat's turn."))
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/poker/bot-action/")
	p := f.player(id)
	if p == nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// The scripted bot always calls the highest bet.
	call := table.HighestBet(f.snap.Players)
	p.Chips -= call - p.BetAmount
	p.BetAmount = call
	f.snap.PlayerActions[p.ID] = true

	_, _ = fmt.Fprintf(w, `{"message": "calls %d"}`, call)
}

func testRoster() []api.PlayerInfo {
	return []api.PlayerInfo{
		{Name: "Bot A", StartingChips: 1000, IsBot: true},
		{Name: "Alice", StartingChips: 1000},
	}
}

func newTestOrchestrator(t *testing.T, f *fakeGame) (*Orchestrator, *recordSink) {
	t.Helper()
	logger := log.New(io.Discard)
	client := api.NewClient(f.srv.URL, "", 5*time.Second, logger)
	sink := &recordSink{}
	return New(client, testRoster(), sink, logger), sink
}

// seed installs a two-seat pre-flop snapshot on the fake.
func (f *fakeGame) seed(players []table.PlayerView, actions map[string]bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if actions == nil {
		actions = map[string]bool{}
	}
	f.snap = &table.Snapshot{
		Phase:         table.PreFlop,
		Players:       players,
		PlayerActions: actions,
	}
}

func twoSeats() []table.PlayerView {
	return []table.PlayerView{
		{ID: "Alice", Name: "Alice", Chips: 1000},
		{ID: "Bot A", Name: "Bot A", Chips: 1000},
	}
}

func TestBetDrivesBotThenAdvancesToFlop(t *testing.T) {
	t.Parallel()

	f := newFakeGame(t)
	f.gateBots = true
	f.seed(twoSeats(), nil)

	orch, _ := newTestOrchestrator(t, f)
	ctx := context.Background()

	// Initial sync: the bot cannot act yet and the human has not acted, so
	// the phase must not advance.
	orch.Sync(ctx)
	assert.Equal(t, table.PreFlop, orch.View().Phase)
	assert.Zero(t, f.CallCount("GET /api/poker/flop"))

	// Human bets 50: the sequencer drives the bot to call, then the
	// transition engine advances to the flop and the acted map resets.
	require.NoError(t, orch.Bet(ctx, 50))

	view := orch.View()
	assert.Equal(t, table.Flop, view.Phase)
	assert.Len(t, view.Board, 3)
	assert.Equal(t, 100, view.Pot, "pot is derived from bet amounts")
	assert.Equal(t, 1, f.CallCount("POST /api/poker/bet"))
	assert.GreaterOrEqual(t, f.CallCount("POST /api/poker/bot-action/Bot A"), 1)
	assert.Equal(t, 1, f.CallCount("GET /api/poker/flop"))
	assert.True(t, view.YourTurn, "acted map resets on the new phase")
}

func TestAdvanceNeverFiresWithUnactedSeat(t *testing.T) {
	t.Parallel()

	f := newFakeGame(t)
	// Bot already acted; the human has not.
	f.seed(twoSeats(), map[string]bool{"Bot A": true})

	orch, _ := newTestOrchestrator(t, f)
	orch.Sync(context.Background())

	assert.Equal(t, table.PreFlop, orch.View().Phase)
	assert.Zero(t, f.CallCount("GET /api/poker/flop"))
	assert.Zero(t, f.CallCount("POST /api/poker/bot-action/Bot A"))
}

func TestFoldWithOneSeatLeftAdvancesToEndOfHand(t *testing.T) {
	t.Parallel()

	f := newFakeGame(t)
	f.seed(twoSeats(), map[string]bool{"Bot A": true})

	orch, _ := newTestOrchestrator(t, f)
	ctx := context.Background()
	orch.Sync(ctx)

	require.NoError(t, orch.Fold(ctx))

	// With one unfolded seat the all-acted rule is vacuously true at every
	// phase, so the hand runs straight through to resolution with no
	// further bot turns.
	view := orch.View()
	assert.True(t, view.HandOver)
	assert.Contains(t, view.Winner, "Bot A")
	assert.Equal(t, 1, f.CallCount("GET /api/poker/end"))
	assert.Zero(t, f.CallCount("POST /api/poker/bot-action/Bot A"))
}

func TestIllegalCheckRejectedBeforeDispatch(t *testing.T) {
	t.Parallel()

	f := newFakeGame(t)
	players := twoSeats()
	players[1].BetAmount = 50 // bot has bet, human has not matched
	f.seed(players, map[string]bool{"Bot A": true})

	orch, sink := newTestOrchestrator(t, f)
	ctx := context.Background()
	orch.Sync(ctx)

	err := orch.Check(ctx)
	assert.ErrorIs(t, err, ErrIllegalCheck)
	assert.Zero(t, f.CallCount("POST /api/poker/check"), "no server call on a local rejection")
	assert.NotEmpty(t, sink.Diagnostics())
}

func TestBetAmountValidatedBeforeDispatch(t *testing.T) {
	t.Parallel()

	f := newFakeGame(t)
	f.seed(twoSeats(), map[string]bool{"Bot A": true})

	orch, _ := newTestOrchestrator(t, f)
	ctx := context.Background()
	orch.Sync(ctx)

	assert.ErrorIs(t, orch.Bet(ctx, 0), ErrBadAmount)
	assert.ErrorIs(t, orch.Bet(ctx, -10), ErrBadAmount)
	assert.ErrorIs(t, orch.Bet(ctx, 2000), ErrBadAmount)
	assert.Zero(t, f.CallCount("POST /api/poker/bet"))
}

func TestMalformedSnapshotKeepsPriorState(t *testing.T) {
	t.Parallel()

	f := newFakeGame(t)
	f.seed(twoSeats(), map[string]bool{"Bot A": true})

	orch, sink := newTestOrchestrator(t, f)
	ctx := context.Background()
	orch.Sync(ctx)
	require.True(t, orch.View().Active)

	f.mu.Lock()
	f.malformed = true
	f.mu.Unlock()

	orch.Sync(ctx)

	view := orch.View()
	assert.True(t, view.Active, "prior state survives a malformed payload")
	assert.Len(t, view.Seats, 2)
	assert.NotEmpty(t, sink.Diagnostics())
}

func TestNotFoundBootstrapsNewGame(t *testing.T) {
	t.Parallel()

	f := newFakeGame(t)
	// No snapshot seeded: the server reports no active game.

	orch, _ := newTestOrchestrator(t, f)
	orch.Sync(context.Background())

	assert.Equal(t, 1, f.CallCount("POST /api/poker/start"))
	view := orch.View()
	assert.True(t, view.Active)
	require.NotNil(t, view.Human)
	assert.Equal(t, "Alice", view.Human.Name)
}

func TestDealFailureResynchronizesInsteadOfAdvancing(t *testing.T) {
	t.Parallel()

	f := newFakeGame(t)
	players := twoSeats()
	players[0].BetAmount = 50
	players[1].BetAmount = 50
	f.seed(players, map[string]bool{"Alice": true, "Bot A": true})
	f.failDeals = true

	orch, sink := newTestOrchestrator(t, f)
	orch.Sync(context.Background())

	// The deal was refused, so the local phase must still be the server's.
	view := orch.View()
	assert.Equal(t, table.PreFlop, view.Phase)
	assert.GreaterOrEqual(t, f.CallCount("GET /api/poker/flop"), 1)
	assert.NotEmpty(t, sink.Diagnostics())
}

func TestPotIsDerivedNotTrusted(t *testing.T) {
	t.Parallel()

	f := newFakeGame(t)
	players := twoSeats()
	players[0].BetAmount = 50
	players[1].BetAmount = 30
	f.seed(players, map[string]bool{"Alice": true, "Bot A": false})
	f.mu.Lock()
	f.snap.CurrentPot = 999 // server pot diverges from the bet amounts
	f.snap.PlayerActions = map[string]bool{"Alice": true, "Bot A": true}
	f.mu.Unlock()
	f.failDeals = true // hold the game at pre-flop for the assertion

	orch, _ := newTestOrchestrator(t, f)
	orch.Sync(context.Background())

	assert.Equal(t, 80, orch.View().Pot)
}

func TestDeliverAdoptsPushedSnapshotWithoutPolling(t *testing.T) {
	t.Parallel()

	f := newFakeGame(t)

	orch, _ := newTestOrchestrator(t, f)

	// The table is waiting on the human, so adopting the pushed snapshot
	// should settle without a single request to the server.
	pushed := &table.Snapshot{
		Phase:          table.Flop,
		Players:        twoSeats(),
		CommunityCards: make([]table.Card, 3),
		PlayerActions:  map[string]bool{"Bot A": true},
	}
	orch.Deliver(context.Background(), pushed)

	view := orch.View()
	assert.True(t, view.Active)
	assert.Equal(t, table.Flop, view.Phase)
	assert.Len(t, view.Board, 3)
	assert.True(t, view.YourTurn)
	assert.Empty(t, f.Calls())
}

func TestDispatchWithoutHumanSeatIsNoOp(t *testing.T) {
	t.Parallel()

	f := newFakeGame(t)
	f.seed([]table.PlayerView{
		{ID: "Bot A", Name: "Bot A", Chips: 1000},
		{ID: "Bot B", Name: "Bot B", Chips: 1000},
	}, map[string]bool{"Bot A": true, "Bot B": true})

	orch, sink := newTestOrchestrator(t, f)
	ctx := context.Background()
	orch.Sync(ctx)

	require.NoError(t, orch.Fold(ctx))
	require.NoError(t, orch.Check(ctx))
	require.NoError(t, orch.Bet(ctx, 50))

	assert.Zero(t, f.CallCount("POST /api/poker/fold"))
	assert.Zero(t, f.CallCount("POST /api/poker/check"))
	assert.Zero(t, f.CallCount("POST /api/poker/bet"))
	assert.NotEmpty(t, sink.Diagnostics())
}

func TestDeliveredShowdownSnapshotIsTerminal(t *testing.T) {
	t.Parallel()

	f := newFakeGame(t)
	f.seed(twoSeats(), nil)
	f.mu.Lock()
	f.snap.Phase = table.Showdown
	f.snap.CommunityCards = make([]table.Card, 5)
	f.mu.Unlock()

	orch, _ := newTestOrchestrator(t, f)

	pushed := &table.Snapshot{
		Phase:          table.Showdown,
		Players:        twoSeats(),
		CommunityCards: make([]table.Card, 5),
	}
	orch.Deliver(context.Background(), pushed)

	view := orch.View()
	assert.True(t, view.HandOver, "showdown is a finished hand however it arrives")
	assert.False(t, view.YourTurn, "no action may be invited at the terminal phase")
	assert.Zero(t, f.CallCount("POST /api/poker/bot-action/Bot A"),
		"no seat is sequenced at the terminal phase")
}

func TestSyncAtShowdownFetchesWinner(t *testing.T) {
	t.Parallel()

	f := newFakeGame(t)
	f.seed(twoSeats(), nil)
	f.mu.Lock()
	f.snap.Phase = table.Showdown
	f.snap.CommunityCards = make([]table.Card, 5)
	f.mu.Unlock()

	orch, _ := newTestOrchestrator(t, f)
	orch.Sync(context.Background())

	// A client joining mid-showdown still learns who won.
	view := orch.View()
	assert.True(t, view.HandOver)
	assert.Contains(t, view.Winner, "Alice")
	assert.Equal(t, 1, f.CallCount("GET /api/poker/end"))
	assert.Zero(t, f.CallCount("POST /api/poker/bot-action/Bot A"))
}

func TestSuggestedRaiseWithinBounds(t *testing.T) {
	t.Parallel()

	f := newFakeGame(t)
	players := twoSeats()
	players[1].BetAmount = 100
	f.seed(players, map[string]bool{"Bot A": true})

	orch, _ := newTestOrchestrator(t, f)
	orch.Sync(context.Background())

	// ceil(100 * 1.5) = 150 plus a 5-10% nudge, never above the stack.
	for i := 0; i < 20; i++ {
		suggested := orch.SuggestedRaise()
		assert.GreaterOrEqual(t, suggested, 150)
		assert.LessOrEqual(t, suggested, 1000)
	}
}
