package engine

import (
	"context"
	"time"

	"github.com/coder/quartz"
)

// Engine is the command-level orchestrator. Every exported method opens
// exactly one transaction and returns either its result or an error: a
// DomainError (ConflictingTurn included), a NotFoundError, or a store error
// passed through unchanged. With a transactional Repository, callers never
// see a half-applied command.
type Engine struct {
	repo  Repository
	clock quartz.Clock
}

func New(repo Repository, clock quartz.Clock) *Engine {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Engine{repo: repo, clock: clock}
}

// StartGame seeds a fresh Game and its first Hand.
func (e *Engine) StartGame(ctx context.Context, blindTimeSecs int, startingChips int64, seats []SeatSpec) (*Snapshot, error) {
	var snap *Snapshot
	err := e.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		active, err := repo.GetActiveGame(ctx)
		if err != nil {
			return err
		}
		if active != nil {
			return newDomainError(CodeGameAlreadyEnded, "a game is already active")
		}

		_, hand, err := startGame(ctx, repo, e.clock.Now(), blindTimeSecs, startingChips, seats)
		if err != nil {
			return err
		}
		snap, err = buildSnapshot(ctx, repo, hand)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// EndGame marks the active game ended.
func (e *Engine) EndGame(ctx context.Context, gameID string) (bool, error) {
	ended := false
	err := e.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		game, err := repo.GetGame(ctx, gameID)
		if err != nil {
			return err
		}
		if game.EndTime != nil {
			return newDomainError(CodeGameAlreadyEnded, "game already ended")
		}
		if err := repo.EndGame(ctx, gameID); err != nil {
			return err
		}
		ended = true
		return nil
	})
	return ended, err
}

// GetActiveGame returns the current snapshot, or (nil, nil) if no game is
// active.
func (e *Engine) GetActiveGame(ctx context.Context) (*Snapshot, error) {
	var snap *Snapshot
	err := e.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		game, err := repo.GetActiveGame(ctx)
		if err != nil {
			return err
		}
		if game == nil {
			return nil
		}
		hands, err := repo.ListHandsByGame(ctx, game.ID)
		if err != nil {
			return err
		}
		if len(hands) == 0 {
			return newDomainError(CodeNoActiveGame, "active game has no hands")
		}
		hand := hands[len(hands)-1]
		snap, err = buildSnapshot(ctx, repo, hand)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// PlayerAction validates and applies one player action, advances the turn,
// and returns the resulting snapshot.
func (e *Engine) PlayerAction(ctx context.Context, gameID, handID, playerID string, actionType ActionType, betAmount *int64) (*Snapshot, error) {
	var snap *Snapshot
	err := e.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		hand, err := repo.GetHand(ctx, handID)
		if err != nil {
			return err
		}
		player, err := repo.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		if hand.GameID != gameID || player.GameID != gameID {
			return newDomainError(CodeGameMismatch, "hand/player do not belong to this game")
		}
		if !player.IsActive {
			return newDomainError(CodeInactivePlayer, "player is not active in the tournament")
		}
		if hand.CurrentPlayerTurnID != player.ID {
			return newDomainError(CodeConflictingTurn, "it is not this player's turn")
		}

		if err := applyAction(ctx, repo, hand, player, actionType, betAmount, false); err != nil {
			return err
		}

		players, err := repo.ListPlayersByGame(ctx, gameID)
		if err != nil {
			return err
		}
		if err := advanceTurn(ctx, repo, hand, players, player); err != nil {
			return err
		}

		snap, err = buildSnapshot(ctx, repo, hand)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// NextHand closes out lastHandID and deals the next hand.
func (e *Engine) NextHand(ctx context.Context, gameID, lastHandID string, winners []WinnerShare, newLevel int, rebuyPlayerIDs []string) (*Snapshot, error) {
	var snap *Snapshot
	err := e.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		game, err := repo.GetGame(ctx, gameID)
		if err != nil {
			return err
		}
		lastHand, err := repo.GetHand(ctx, lastHandID)
		if err != nil {
			return err
		}
		if lastHand.GameID != gameID {
			return newDomainError(CodeGameMismatch, "hand does not belong to this game")
		}

		hand, err := handleNextHand(ctx, repo, e.clock.Now(), game, lastHand, winners, newLevel, rebuyPlayerIDs)
		if err != nil {
			return err
		}
		snap, err = buildSnapshot(ctx, repo, hand)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Rebuy restores one eliminated player's stack outside the bulk next-hand
// path.
func (e *Engine) Rebuy(ctx context.Context, gameID, handID, playerID string) (*Snapshot, error) {
	var snap *Snapshot
	err := e.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		game, err := repo.GetGame(ctx, gameID)
		if err != nil {
			return err
		}
		hand, err := repo.GetHand(ctx, handID)
		if err != nil {
			return err
		}
		if hand.GameID != gameID {
			return newDomainError(CodeGameMismatch, "hand does not belong to this game")
		}
		if err := rebuy(ctx, repo, playerID, game.Chips); err != nil {
			return err
		}
		snap, err = buildSnapshot(ctx, repo, hand)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// ElapsedLevel reports how long the game's current blind level has been
// running, measured from the earliest hand dealt at that level (hands are
// returned oldest first), falling back to the game's start time if no hand
// has been dealt yet.
func (e *Engine) ElapsedLevel(ctx context.Context, gameID string) (int, time.Duration, error) {
	var level int
	var elapsed time.Duration
	err := e.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		game, err := repo.GetGame(ctx, gameID)
		if err != nil {
			return err
		}
		level = game.Level

		hands, err := repo.ListHandsByGame(ctx, gameID)
		if err != nil {
			return err
		}
		levelStart := game.StartTime
		for _, h := range hands {
			if h.Level == level {
				levelStart = h.CreatedAt
				break
			}
		}
		elapsed = e.clock.Now().Sub(levelStart)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return level, elapsed, nil
}
