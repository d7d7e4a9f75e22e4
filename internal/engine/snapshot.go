package engine

import "context"

// buildSnapshot assembles the response shape returned by every command.
// PlayerActions is nil once the hand has reached showdown -- there is no
// one on turn to compute an opportunity set for.
func buildSnapshot(ctx context.Context, repo Repository, hand *Hand) (*Snapshot, error) {
	players, err := repo.ListPlayersByGame(ctx, hand.GameID)
	if err != nil {
		return nil, err
	}

	game, err := repo.GetGame(ctx, hand.GameID)
	if err != nil {
		return nil, err
	}

	var opp *Opportunities
	if hand.CurrentRound != RoundShowdown && hand.CurrentPlayerTurnID != "" {
		turnPlayer, err := repo.GetPlayer(ctx, hand.CurrentPlayerTurnID)
		if err != nil {
			return nil, err
		}
		opp, err = ComputeOpportunities(ctx, repo, hand, turnPlayer)
		if err != nil {
			return nil, err
		}
	}

	return &Snapshot{
		Players:       players,
		Hand:          hand,
		Level:         game.Level,
		BlindTime:     game.BlindTime,
		PlayerActions: opp,
	}, nil
}
