package engine

import "context"

// ComputeOpportunities implements the Opportunity Calculator (§4.4) for the
// player currently on turn.
//
// roundHasRaise deliberately does not count the hand's forced blind posts,
// even though the big blind's post is itself recorded as a Raise: the
// first voluntary bettor this street must still see isCanRaise rather than
// being forced straight to isCanReRaise just because the blinds were
// posted. Everything else is read straight off the action log via
// ActionsThisRound rather than the coarser DistinctActionTypes, which
// cannot make that distinction.
func ComputeOpportunities(ctx context.Context, repo Repository, hand *Hand, turnPlayer *Player) (*Opportunities, error) {
	entries, err := repo.ActionsThisRound(ctx, hand.ID, hand.CurrentRound)
	if err != nil {
		return nil, err
	}

	var roundHasBet, roundHasRaise, roundHasAllIn bool
	for _, a := range entries {
		switch a.ActionType {
		case ActionBet:
			roundHasBet = true
		case ActionRaise, ActionReRaise:
			if !a.IsForcedPost {
				roundHasRaise = true
			}
		case ActionAllIn:
			roundHasAllIn = true
		}
	}
	roundHasBetOrAllIn := roundHasBet || roundHasAllIn || hand.CurrentMaxBet > 0

	raiseMinAmount := 2 * hand.CurrentMaxBet
	betMinAmount := hand.BigBlindAmount

	owed := hand.CurrentMaxBet - turnPlayer.ActionAmount
	if owed < 0 {
		owed = 0
	}
	callAmount := owed
	if callAmount > turnPlayer.Amount {
		callAmount = turnPlayer.Amount
	}

	// facingBet is per-player, not per-street: the big blind's own forced
	// post can already match current_max_bet even though a bet exists this
	// street, which is exactly what gives them the preflop option to check
	// instead of call. IsCanBet stays street-scoped -- once any bet is open
	// nobody "bets" again, they raise.
	facingBet := owed > 0

	opp := &Opportunities{
		IsCanFold:      facingBet,
		IsCanCall:      facingBet,
		IsCanCheck:     !facingBet,
		IsCanBet:       !roundHasBetOrAllIn,
		IsCanRaise:     roundHasBetOrAllIn && !roundHasRaise,
		IsCanReRaise:   roundHasRaise && turnPlayer.Amount > raiseMinAmount,
		IsCanAllIn:     true,
		BetMinAmount:   betMinAmount,
		RaiseMinAmount: raiseMinAmount,
		CallAmount:     callAmount,
		AllInAmount:    turnPlayer.Amount,
	}
	return opp, nil
}
