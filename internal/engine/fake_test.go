package engine

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Fake is a single-game-at-a-time, non-concurrent stand-in for the
// Postgres-backed store. WithTx does not roll back on error -- callers
// that need to assert partial-application behavior should do so against
// the real store instead.
type Fake struct {
	mu sync.Mutex

	seq int

	games       map[string]*Game
	activeGame  string
	blinds      map[int]*GameBlind
	players     map[string]*Player
	playerOrder map[string][]string
	hands       map[string]*Hand
	handOrder   map[string][]string
	actions     []*Action
}

var _ Repository = (*Fake)(nil)

func newFake() *Fake {
	return &Fake{
		games:       map[string]*Game{},
		blinds:      map[int]*GameBlind{},
		players:     map[string]*Player{},
		playerOrder: map[string][]string{},
		hands:       map[string]*Hand{},
		handOrder:   map[string][]string{},
	}
}

func (f *Fake) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%06d", prefix, f.seq)
}

// SeedBlind populates the static blind-level lookup table.
func (f *Fake) SeedBlind(b GameBlind) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := b
	f.blinds[b.GameLevel] = &cp
}

func (f *Fake) WithTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error {
	return fn(ctx, f)
}

func (f *Fake) CreateGame(ctx context.Context, g *Game) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g.ID = f.nextID("game")
	cp := *g
	f.games[g.ID] = &cp
	f.activeGame = g.ID
	return nil
}

func (f *Fake) GetActiveGame(ctx context.Context) (*Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.activeGame == "" {
		return nil, nil
	}
	g, ok := f.games[f.activeGame]
	if !ok || g.EndTime != nil {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (f *Fake) GetGame(ctx context.Context, id string) (*Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.games[id]
	if !ok {
		return nil, &NotFoundError{Kind: "game", ID: id}
	}
	cp := *g
	return &cp, nil
}

func (f *Fake) EndGame(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.games[id]
	if !ok {
		return &NotFoundError{Kind: "game", ID: id}
	}
	now := time.Now()
	g.EndTime = &now
	if f.activeGame == id {
		f.activeGame = ""
	}
	return nil
}

func (f *Fake) SetGameLevel(ctx context.Context, gameID string, level int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.games[gameID]
	if !ok {
		return &NotFoundError{Kind: "game", ID: gameID}
	}
	g.Level = level
	return nil
}

func (f *Fake) GetGameBlind(ctx context.Context, level int) (*GameBlind, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.blinds[level]
	if !ok {
		return nil, &NotFoundError{Kind: "game_blind", ID: fmt.Sprint(level)}
	}
	cp := *b
	return &cp, nil
}

func (f *Fake) CreatePlayers(ctx context.Context, gameID string, seats []SeatSpec, startingChips int64) ([]*Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*Player, 0, len(seats))
	for i, s := range seats {
		p := &Player{
			ID:       f.nextID("player"),
			GameID:   gameID,
			Name:     s.Name,
			Amount:   startingChips,
			IsOnline: s.IsOnline,
			IsActive: true,
			Seat:     i,
		}
		f.players[p.ID] = p
		f.playerOrder[gameID] = append(f.playerOrder[gameID], p.ID)
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (f *Fake) ListPlayersByGame(ctx context.Context, gameID string) ([]*Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := f.playerOrder[gameID]
	out := make([]*Player, 0, len(ids))
	for _, id := range ids {
		cp := *f.players[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (f *Fake) GetPlayer(ctx context.Context, id string) (*Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.players[id]
	if !ok {
		return nil, &NotFoundError{Kind: "player", ID: id}
	}
	cp := *p
	return &cp, nil
}

func (f *Fake) UpdatePlayer(ctx context.Context, p *Player) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.players[p.ID]; !ok {
		return &NotFoundError{Kind: "player", ID: p.ID}
	}
	cp := *p
	f.players[p.ID] = &cp
	return nil
}

func (f *Fake) IncrementPlayerAmount(ctx context.Context, playerID string, delta int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.players[playerID]
	if !ok {
		return &NotFoundError{Kind: "player", ID: playerID}
	}
	p.Amount += delta
	return nil
}

func (f *Fake) ResetStreetState(ctx context.Context, gameID string, playerIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range playerIDs {
		p, ok := f.players[id]
		if !ok {
			return &NotFoundError{Kind: "player", ID: id}
		}
		p.Action = ActionNone
		p.ActionAmount = 0
	}
	return nil
}

func (f *Fake) ResetHandState(ctx context.Context, gameID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.playerOrder[gameID] {
		p := f.players[id]
		p.Action = ActionNone
		p.ActionAmount = 0
		p.AllBetSum = 0
	}
	return nil
}

func (f *Fake) CreateHand(ctx context.Context, h *Hand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	h.ID = f.nextID("hand")
	h.CreatedAt = time.Now()
	cp := *h
	f.hands[h.ID] = &cp
	f.handOrder[h.GameID] = append(f.handOrder[h.GameID], h.ID)
	return nil
}

func (f *Fake) GetHand(ctx context.Context, id string) (*Hand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hands[id]
	if !ok {
		return nil, &NotFoundError{Kind: "hand", ID: id}
	}
	cp := *h
	return &cp, nil
}

func (f *Fake) UpdateHand(ctx context.Context, h *Hand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.hands[h.ID]; !ok {
		return &NotFoundError{Kind: "hand", ID: h.ID}
	}
	cp := *h
	f.hands[h.ID] = &cp
	return nil
}

func (f *Fake) ListHandsByGame(ctx context.Context, gameID string) ([]*Hand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := f.handOrder[gameID]
	out := make([]*Hand, 0, len(ids))
	for _, id := range ids {
		cp := *f.hands[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (f *Fake) AppendAction(ctx context.Context, a *Action) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = f.nextID("action")
	a.CreatedAt = time.Now()
	cp := *a
	f.actions = append(f.actions, &cp)
	return nil
}

func (f *Fake) LastAction(ctx context.Context, handID string) (*Action, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var last *Action
	for _, a := range f.actions {
		if a.HandID != handID {
			continue
		}
		if last == nil || a.ActionOrder > last.ActionOrder {
			last = a
		}
	}
	if last == nil {
		return nil, nil
	}
	cp := *last
	return &cp, nil
}

func (f *Fake) SumBetAmount(ctx context.Context, handID, playerID string, round *Round) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int64
	for _, a := range f.actions {
		if a.HandID != handID || a.PlayerID != playerID {
			continue
		}
		if round != nil && a.Round != *round {
			continue
		}
		sum += a.BetAmount
	}
	return sum, nil
}

func (f *Fake) SumBetAmountByPlayer(ctx context.Context, handID string, round Round) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]int64{}
	for _, a := range f.actions {
		if a.HandID != handID || a.Round != round {
			continue
		}
		out[a.PlayerID] += a.BetAmount
	}
	return out, nil
}

func (f *Fake) DistinctActionTypes(ctx context.Context, handID string, round Round) (map[ActionType]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[ActionType]bool{}
	for _, a := range f.actions {
		if a.HandID != handID || a.Round != round {
			continue
		}
		out[a.ActionType] = true
	}
	return out, nil
}

func (f *Fake) ActionsThisRound(ctx context.Context, handID string, round Round) ([]*Action, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Action
	for _, a := range f.actions {
		if a.HandID != handID || a.Round != round {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}
