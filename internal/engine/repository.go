package engine

import "context"

// Repository abstracts persistence for the engine. Every method may run
// inside a transaction opened by WithTx; the engine never holds
// engine-local mutable state across a suspension point — all state lives
// behind this interface.
type Repository interface {
	// WithTx runs fn within a single transaction. If fn returns an error
	// the transaction is rolled back and the error propagated unchanged
	// (DomainError/NotFoundError pass through verbatim; anything else is
	// an Infrastructure error to the caller).
	WithTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error

	CreateGame(ctx context.Context, g *Game) error
	// GetActiveGame returns (nil, nil) when no game is currently active --
	// that is an expected steady state, not a NotFoundError.
	GetActiveGame(ctx context.Context) (*Game, error)
	GetGame(ctx context.Context, id string) (*Game, error)
	EndGame(ctx context.Context, id string) error
	SetGameLevel(ctx context.Context, gameID string, level int) error

	GetGameBlind(ctx context.Context, level int) (*GameBlind, error)

	CreatePlayers(ctx context.Context, gameID string, seats []SeatSpec, startingChips int64) ([]*Player, error)
	ListPlayersByGame(ctx context.Context, gameID string) ([]*Player, error)
	GetPlayer(ctx context.Context, id string) (*Player, error)
	UpdatePlayer(ctx context.Context, p *Player) error
	IncrementPlayerAmount(ctx context.Context, playerID string, delta int64) error
	// ResetStreetState clears Action/ActionAmount for exactly the given
	// players (the hand's live, non-folded seats -- all-in included, since
	// a stale non-zero ActionAmount from an earlier street would otherwise
	// look like a live bet to the next street's chip-capping pass).
	ResetStreetState(ctx context.Context, gameID string, playerIDs []string) error
	// ResetHandState clears Action/ActionAmount/AllBetSum on every player
	// of the game (used when a new hand begins).
	ResetHandState(ctx context.Context, gameID string) error

	CreateHand(ctx context.Context, h *Hand) error
	GetHand(ctx context.Context, id string) (*Hand, error)
	UpdateHand(ctx context.Context, h *Hand) error
	ListHandsByGame(ctx context.Context, gameID string) ([]*Hand, error)

	AppendAction(ctx context.Context, a *Action) error
	LastAction(ctx context.Context, handID string) (*Action, error)
	// SumBetAmount totals bet_amount for (handID, playerID), optionally
	// restricted to one round when round != nil.
	SumBetAmount(ctx context.Context, handID, playerID string, round *Round) (int64, error)
	// SumBetAmountByPlayer totals bet_amount for every player that has
	// acted in (handID, round).
	SumBetAmountByPlayer(ctx context.Context, handID string, round Round) (map[string]int64, error)
	// DistinctActionTypes returns the set of action types logged for
	// (handID, round).
	DistinctActionTypes(ctx context.Context, handID string, round Round) (map[ActionType]bool, error)
	// ActionsThisRound returns every log entry for (handID, round) ordered
	// by action_order ascending. The turn advancer uses it to find each
	// live player's most recent action and the most recent aggressive one.
	ActionsThisRound(ctx context.Context, handID string, round Round) ([]*Action, error)
}
