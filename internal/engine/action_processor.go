package engine

import "context"

// minRaise is the smallest legal raise-to total for the current street: the
// high bet plus the size of the last raise, or the big blind when no bet is
// open yet.
func minRaise(h *Hand) int64 {
	if h.CurrentMaxBet > 0 {
		return h.CurrentMaxBet + h.LastRaiseAmount
	}
	return h.CurrentMaxBet + h.BigBlindAmount
}

// applyAction mutates hand and player in place, appends the Action log
// entry, and persists both through repo. It assumes the caller has already
// checked that player is the hand's current actor. isForcedPost is true
// only for the synthetic blind posts issued by the hand lifecycle.
func applyAction(ctx context.Context, repo Repository, hand *Hand, player *Player, actionType ActionType, betAmount *int64, isForcedPost bool) error {
	prevMax := hand.CurrentMaxBet
	prevLastRaise := hand.LastRaiseAmount

	var delta int64
	var err error
	switch actionType {
	case ActionBet:
		if isForcedPost && betAmount != nil && *betAmount < hand.BigBlindAmount {
			// The small blind's forced post is below the big blind by
			// definition, so it is held to its own amount as the minimum.
			bigBlind := hand.BigBlindAmount
			hand.BigBlindAmount = *betAmount
			delta, err = applyBet(hand, player, betAmount)
			hand.BigBlindAmount = bigBlind
		} else {
			delta, err = applyBet(hand, player, betAmount)
		}
	case ActionRaise, ActionReRaise:
		delta, err = applyRaise(hand, player, actionType, betAmount)
	case ActionCall:
		delta = applyCall(hand, player)
	case ActionCheck:
		err = applyCheck(hand, player)
	case ActionFold:
		player.Action = ActionFold
	case ActionAllIn:
		delta = applyAllIn(hand, player)
	default:
		err = newDomainError(CodeInvalidActionType, "unknown action type: "+string(actionType))
	}
	if err != nil {
		return err
	}

	if err := repo.UpdatePlayer(ctx, player); err != nil {
		return err
	}
	if err := repo.UpdateHand(ctx, hand); err != nil {
		return err
	}

	last, err := repo.LastAction(ctx, hand.ID)
	if err != nil {
		return err
	}
	bettingRound, order := 1, 1
	if last != nil {
		bettingRound = last.BettingRound + 1
		order = last.ActionOrder + 1
	}
	isAggressive := hand.CurrentMaxBet > prevMax
	if isAggressive && actionType == ActionAllIn {
		// A short all-in lifts current_max_bet by less than a full raise and
		// does not reopen action.
		fullRaise := prevLastRaise
		if hand.BigBlindAmount > fullRaise {
			fullRaise = hand.BigBlindAmount
		}
		isAggressive = hand.CurrentMaxBet-prevMax >= fullRaise
	}
	logEntry := &Action{
		HandID:       hand.ID,
		PlayerID:     player.ID,
		Round:        hand.CurrentRound,
		BettingRound: bettingRound,
		ActionOrder:  order,
		ActionType:   player.Action,
		BetAmount:    delta,
		IsAggressive: isAggressive,
		IsForcedPost: isForcedPost,
	}
	return repo.AppendAction(ctx, logEntry)
}

func applyBet(hand *Hand, player *Player, betAmount *int64) (int64, error) {
	if hand.CurrentMaxBet != 0 {
		return 0, newDomainError(CodeBetAlreadyOpen, "cannot bet: a bet is already open this street")
	}
	if betAmount == nil {
		return 0, newDomainError(CodeMissingBetAmount, "bet requires an amount")
	}
	amount := *betAmount
	if amount <= 0 || amount > player.Amount {
		return 0, newDomainError(CodeInvalidBetSize, "bet amount must be positive and within stack")
	}
	if amount < hand.BigBlindAmount && amount != player.Amount {
		return 0, newDomainError(CodeInvalidBetSize, "bet below the minimum bet size")
	}
	player.Amount -= amount
	player.ActionAmount += amount
	player.AllBetSum += amount
	hand.PotAmount += amount
	hand.CurrentMaxBet = amount
	hand.LastRaiseAmount = amount
	player.Action = ActionBet
	return amount, nil
}

// applyRaise folds Raise and Re-raise into one handler: a cold Raise is
// simply the case where the player had committed nothing yet this street.
// last_raise_amount is recorded as the increment over the previous high
// bet (new top - previous top), not the literal new bet total -- see
// DESIGN.md for why the naive "write the new bet" formula is rejected.
func applyRaise(hand *Hand, player *Player, actionType ActionType, betAmount *int64) (int64, error) {
	if hand.CurrentMaxBet == 0 {
		return 0, newDomainError(CodeNoOutstandingBet, "cannot raise: no outstanding bet this street")
	}
	if betAmount == nil {
		return 0, newDomainError(CodeMissingBetAmount, "raise requires an amount")
	}
	to := *betAmount
	delta := to - player.ActionAmount
	if delta <= 0 {
		return 0, newDomainError(CodeInvalidRaiseSize, "raise must increase the player's commitment")
	}
	if delta > player.Amount {
		return 0, newDomainError(CodeInvalidRaiseSize, "raise exceeds available stack")
	}
	if to < minRaise(hand) {
		return 0, newDomainError(CodeInvalidRaiseSize, "raise below the minimum raise size")
	}
	prevMax := hand.CurrentMaxBet
	player.Amount -= delta
	player.ActionAmount = to
	player.AllBetSum += delta
	hand.PotAmount += delta
	hand.CurrentMaxBet = to
	hand.LastRaiseAmount = to - prevMax
	player.Action = actionType
	return delta, nil
}

func applyCall(hand *Hand, player *Player) int64 {
	owed := hand.CurrentMaxBet - player.ActionAmount
	if owed < 0 {
		owed = 0
	}
	paid := owed
	allIn := false
	if player.Amount <= owed {
		paid = player.Amount
		allIn = true
	}
	player.Amount -= paid
	player.ActionAmount += paid
	player.AllBetSum += paid
	hand.PotAmount += paid
	if allIn {
		player.Action = ActionAllIn
	} else {
		player.Action = ActionCall
	}
	return paid
}

func applyCheck(hand *Hand, player *Player) error {
	if hand.CurrentMaxBet > player.ActionAmount {
		return newDomainError(CodeNoOutstandingBet, "cannot check: a bet is outstanding")
	}
	player.Action = ActionCheck
	return nil
}

// applyAllIn commits the player's entire remaining stack. If the new
// street-scoped total exceeds current_max_bet, it raises; but a short
// all-in -- one that raises without meeting minRaise's increment -- must
// not shrink last_raise_amount, or a subsequent raiser could legally pass
// minRaise with an increment smaller than the one the short all-in was
// itself too small to meet. It still advances current_max_bet and never
// reopens action, because it is never marked IsAggressive by the caller.
func applyAllIn(hand *Hand, player *Player) int64 {
	shove := player.Amount
	newTotal := player.ActionAmount + shove
	prevMax := hand.CurrentMaxBet
	player.Amount = 0
	player.ActionAmount = newTotal
	player.AllBetSum += shove
	hand.PotAmount += shove
	if newTotal > prevMax {
		fullRaise := hand.LastRaiseAmount
		if hand.BigBlindAmount > fullRaise {
			fullRaise = hand.BigBlindAmount
		}
		if newTotal >= prevMax+fullRaise {
			hand.LastRaiseAmount = newTotal - prevMax
		}
		hand.CurrentMaxBet = newTotal
	}
	player.Action = ActionAllIn
	return shove
}
