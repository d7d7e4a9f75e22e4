package engine

import (
	"context"
	"time"
)

// newHandFromRotation builds the Hand row for a freshly computed rotation;
// it does not persist anything.
func newHandFromRotation(game *Game, players []*Player, rot rotation, blind *GameBlind) *Hand {
	dealer := players[rot.DealerIdx]
	bb := players[rot.BigBlindIdx]

	var sbID *string
	if rot.SmallBlindIdx != nil {
		id := players[*rot.SmallBlindIdx].ID
		sbID = &id
	}

	return &Hand{
		GameID:                game.ID,
		Level:                 game.Level,
		Dealer:                dealer.ID,
		SmallBlind:            sbID,
		BigBlind:              bb.ID,
		CurrentPlayerTurnID:   players[rot.FirstToActIdx].ID,
		PotAmount:             0,
		Ante:                  blind.Ante,
		SmallBlindAmount:      blind.SmallBlindAmount,
		BigBlindAmount:        blind.BigBlindAmount,
		CurrentMaxBet:         0,
		LastRaiseAmount:       0,
		CurrentRound:          RoundPreflop,
		IsChangedCurrentRound: true,
	}
}

// postBlinds synthesizes the forced preflop posts through the normal
// action processor, exactly as a voluntary action would be applied, so
// pot/current_max_bet/last_raise_amount come out identical either way.
// When the small blind is dead the big blind posts alone as a Bet, since
// there is no outstanding bet yet for them to raise over.
func postBlinds(ctx context.Context, repo Repository, hand *Hand, players []*Player, rot rotation) error {
	bb := players[rot.BigBlindIdx]

	if rot.SmallBlindIdx == nil {
		amt := hand.BigBlindAmount
		if err := applyAction(ctx, repo, hand, bb, ActionBet, &amt, true); err != nil {
			return err
		}
		return advanceTurn(ctx, repo, hand, players, bb)
	}

	sb := players[*rot.SmallBlindIdx]
	sbAmt := hand.SmallBlindAmount
	if err := applyAction(ctx, repo, hand, sb, ActionBet, &sbAmt, true); err != nil {
		return err
	}
	if err := advanceTurn(ctx, repo, hand, players, sb); err != nil {
		return err
	}

	bbAmt := hand.BigBlindAmount
	if err := applyAction(ctx, repo, hand, bb, ActionRaise, &bbAmt, true); err != nil {
		return err
	}
	// applyRaise records last_raise_amount as the increment over the small
	// blind (big_blind_amount - small_blind_amount). The min-raise
	// baseline a hand starts with is conventionally the big blind itself
	// regardless of the small blind's size, so it is corrected here rather
	// than in applyRaise, which must keep computing increments correctly
	// for every later in-game raise.
	hand.LastRaiseAmount = hand.BigBlindAmount
	if err := repo.UpdateHand(ctx, hand); err != nil {
		return err
	}
	return advanceTurn(ctx, repo, hand, players, bb)
}

// startGame implements §4.1's start-game.
func startGame(ctx context.Context, repo Repository, now time.Time, blindTimeSecs int, startingChips int64, seats []SeatSpec) (*Game, *Hand, error) {
	blind, err := repo.GetGameBlind(ctx, 1)
	if err != nil {
		return nil, nil, err
	}

	game := &Game{
		BlindTime: blindTimeSecs,
		Level:     1,
		Chips:     startingChips,
		StartTime: now,
	}
	if err := repo.CreateGame(ctx, game); err != nil {
		return nil, nil, err
	}

	players, err := repo.CreatePlayers(ctx, game.ID, seats, startingChips)
	if err != nil {
		return nil, nil, err
	}

	rot, err := ComputeRotation(players, -1, "")
	if err != nil {
		return nil, nil, err
	}

	hand := newHandFromRotation(game, players, rot, blind)
	if err := repo.CreateHand(ctx, hand); err != nil {
		return nil, nil, err
	}

	if err := postBlinds(ctx, repo, hand, players, rot); err != nil {
		return nil, nil, err
	}

	return game, hand, nil
}

// rebuy is the one primitive shared by the standalone rebuy command and
// handleNextHand's bulk rebuy pass: restore the player to a fresh stack
// and clear their elimination marker.
func rebuy(ctx context.Context, repo Repository, playerID string, startingChips int64) error {
	p, err := repo.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	if p.IsActive {
		return newDomainError(CodeNotEligibleRebuy, "player is not eliminated")
	}
	p.Amount = startingChips
	p.IsActive = true
	p.InactiveAtHandID = nil
	p.Action = ActionNone
	p.ActionAmount = 0
	return repo.UpdatePlayer(ctx, p)
}

// handleNextHand implements §4.1's handle-next-hand. lastHand is the hand
// being closed out; its Dealer seat anchors the next rotation.
func handleNextHand(ctx context.Context, repo Repository, now time.Time, game *Game, lastHand *Hand, winners []WinnerShare, newLevel int, rebuyPlayerIDs []string) (*Hand, error) {
	for _, w := range winners {
		if err := repo.IncrementPlayerAmount(ctx, w.PlayerID, w.Amount); err != nil {
			return nil, err
		}
	}

	for _, id := range rebuyPlayerIDs {
		if err := rebuy(ctx, repo, id, game.Chips); err != nil {
			return nil, err
		}
	}

	if err := repo.SetGameLevel(ctx, game.ID, newLevel); err != nil {
		return nil, err
	}
	game.Level = newLevel

	players, err := repo.ListPlayersByGame(ctx, game.ID)
	if err != nil {
		return nil, err
	}

	for _, p := range players {
		if p.Amount == 0 && p.InactiveAtHandID == nil {
			p.IsActive = false
			id := lastHand.ID
			p.InactiveAtHandID = &id
			if err := repo.UpdatePlayer(ctx, p); err != nil {
				return nil, err
			}
		}
	}

	prevDealerIdx := seatIndexByID(players, lastHand.Dealer)
	rot, err := ComputeRotation(players, prevDealerIdx, lastHand.ID)
	if err != nil {
		return nil, err
	}

	blind, err := repo.GetGameBlind(ctx, newLevel)
	if err != nil {
		return nil, err
	}

	hand := newHandFromRotation(game, players, rot, blind)
	if err := repo.CreateHand(ctx, hand); err != nil {
		return nil, err
	}

	// The ante is charged to the big blind's stack alone at hand creation
	// and never folds into pot_amount or all_bet_sum -- a deliberately
	// preserved quirk (see DESIGN.md), which is why the chip-conservation
	// invariant subtracts total antes paid rather than crediting the pot.
	bb := players[rot.BigBlindIdx]
	bb.Amount -= blind.Ante
	if err := repo.UpdatePlayer(ctx, bb); err != nil {
		return nil, err
	}

	if err := repo.ResetHandState(ctx, game.ID); err != nil {
		return nil, err
	}
	for _, p := range players {
		p.Action = ActionNone
		p.ActionAmount = 0
		p.AllBetSum = 0
	}

	if err := postBlinds(ctx, repo, hand, players, rot); err != nil {
		return nil, err
	}

	return hand, nil
}
