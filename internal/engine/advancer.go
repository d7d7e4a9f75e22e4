package engine

import "context"

func seatIndexByID(players []*Player, id string) int {
	for i, p := range players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// nextMatchingFrom walks players with wraparound starting strictly after
// idx and returns the first seat satisfying pred.
func nextMatchingFrom(players []*Player, idx int, pred func(*Player) bool) (int, bool) {
	n := len(players)
	if n == 0 {
		return 0, false
	}
	for step := 1; step <= n; step++ {
		candidate := ((idx+step)%n + n) % n
		if pred(players[candidate]) {
			return candidate, true
		}
	}
	return 0, false
}

func isLiveNotAllIn(p *Player) bool {
	return p.IsActive && p.Action != ActionFold && p.Amount > 0
}

func isLive(p *Player) bool {
	return p.IsActive && p.Action != ActionFold
}

// advanceTurn runs after every accepted action. It mutates hand in place:
// either it closes the betting round (running chip-capping, advancing
// current_round, and picking the first live-not-all-in seat after the
// dealer) or it stays mid-street and picks the next live-not-all-in seat
// after the player who just acted. players must be seat-ordered and fresh.
func advanceTurn(ctx context.Context, repo Repository, hand *Hand, players []*Player, actingPlayer *Player) error {
	live := make([]*Player, 0, len(players))
	for _, p := range players {
		if isLive(p) {
			live = append(live, p)
		}
	}

	if len(live) < 2 {
		if refunded := applyChipCapping(hand, live); refunded != nil {
			if err := repo.UpdatePlayer(ctx, refunded); err != nil {
				return err
			}
		}
		return finishToShowdown(ctx, repo, hand)
	}

	liveNotAllIn := make([]*Player, 0, len(live))
	for _, p := range live {
		if p.Amount > 0 {
			liveNotAllIn = append(liveNotAllIn, p)
		}
	}

	// A single remaining not-all-in player still owes a decision if their
	// street commitment hasn't caught up to current_max_bet -- an all-in
	// shove against them is exactly that case, and skipping straight to
	// showdown here would deny them the call/fold that decides the pot.
	if len(liveNotAllIn) == 1 && liveNotAllIn[0].ActionAmount < hand.CurrentMaxBet {
		hand.CurrentPlayerTurnID = liveNotAllIn[0].ID
		hand.IsChangedCurrentRound = false
		return repo.UpdateHand(ctx, hand)
	}

	if len(liveNotAllIn) <= 1 {
		if refunded := applyChipCapping(hand, live); refunded != nil {
			if err := repo.UpdatePlayer(ctx, refunded); err != nil {
				return err
			}
		}
		return finishToShowdown(ctx, repo, hand)
	}

	everyoneActed, allEqualized, err := roundComplete(ctx, repo, hand, liveNotAllIn)
	if err != nil {
		return err
	}

	if everyoneActed && allEqualized {
		if refunded := applyChipCapping(hand, live); refunded != nil {
			if err := repo.UpdatePlayer(ctx, refunded); err != nil {
				return err
			}
		}

		if hand.CurrentRound == RoundRiver {
			return finishToShowdown(ctx, repo, hand)
		}

		ids := make([]string, len(live))
		for i, p := range live {
			ids[i] = p.ID
			p.Action = ActionNone
			p.ActionAmount = 0
		}
		if err := repo.ResetStreetState(ctx, hand.GameID, ids); err != nil {
			return err
		}

		hand.CurrentRound = nextRound(hand.CurrentRound)
		hand.CurrentMaxBet = 0
		hand.IsChangedCurrentRound = true

		// Re-evaluate: capping or folds upstream could leave <2 players
		// able to act even though the street moved on.
		stillNotAllIn := 0
		for _, p := range live {
			if p.Amount > 0 {
				stillNotAllIn++
			}
		}
		if stillNotAllIn <= 1 {
			return finishToShowdown(ctx, repo, hand)
		}

		dealerIdx := seatIndexByID(players, hand.Dealer)
		nextIdx, ok := nextMatchingFrom(players, dealerIdx, isLiveNotAllIn)
		if !ok {
			return newDomainError(CodeRotationFailed, "no player available to act on the new street")
		}
		hand.CurrentPlayerTurnID = players[nextIdx].ID
		return repo.UpdateHand(ctx, hand)
	}

	actIdx := seatIndexByID(players, actingPlayer.ID)
	nextIdx, ok := nextMatchingFrom(players, actIdx, isLiveNotAllIn)
	if !ok {
		return newDomainError(CodeRotationFailed, "no player available to act next")
	}
	hand.CurrentPlayerTurnID = players[nextIdx].ID
	hand.IsChangedCurrentRound = false
	return repo.UpdateHand(ctx, hand)
}

func finishToShowdown(ctx context.Context, repo Repository, hand *Hand) error {
	hand.CurrentRound = RoundShowdown
	hand.CurrentPlayerTurnID = ""
	hand.IsChangedCurrentRound = true
	return repo.UpdateHand(ctx, hand)
}

// roundComplete reports whether every live-not-all-in player has acted
// since the most recent aggressive action this street (everyoneActed) and
// whether their street commitments all match current_max_bet (allEqualized).
//
// "Acted since the last aggression" -- rather than the simpler "at least
// one action this street" -- is what makes this converge correctly.
// A voluntary raiser is exempt from needing to act again purely because
// everyone else's subsequent call postdates their own raise; that exemption
// is what lets the round close right after the last caller. But a forced
// blind post must NOT grant its own poster that exemption, or the big
// blind would lose their preflop option the moment action folds back
// around with nobody having raised over the blind. IsForcedPost is the one
// bit that tells the two cases apart; a short all-in that never raises
// current_max_bet is simply never IsAggressive, so it never resets the
// threshold for players who already called.
func roundComplete(ctx context.Context, repo Repository, hand *Hand, liveNotAllIn []*Player) (everyoneActed, allEqualized bool, err error) {
	entries, err := repo.ActionsThisRound(ctx, hand.ID, hand.CurrentRound)
	if err != nil {
		return false, false, err
	}

	sinceOrder := 0
	exemptPlayerID := ""
	latestByPlayer := make(map[string]int, len(liveNotAllIn))
	for _, a := range entries {
		latestByPlayer[a.PlayerID] = a.ActionOrder
		if a.IsAggressive {
			sinceOrder = a.ActionOrder
			if a.IsForcedPost {
				exemptPlayerID = ""
			} else {
				exemptPlayerID = a.PlayerID
			}
		}
	}

	everyoneActed = true
	allEqualized = true
	for _, p := range liveNotAllIn {
		if p.ID != exemptPlayerID {
			order, ok := latestByPlayer[p.ID]
			if !ok || order <= sinceOrder {
				everyoneActed = false
			}
		}
		if p.ActionAmount != hand.CurrentMaxBet {
			allEqualized = false
		}
	}
	return everyoneActed, allEqualized, nil
}
