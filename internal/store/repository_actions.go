package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"tourney-engine/internal/engine"
)

func (s *Store) AppendAction(ctx context.Context, a *engine.Action) error {
	a.ID = NewID()
	row := s.db.QueryRow(ctx, `
		INSERT INTO actions (id, hand_id, player_id, round, betting_round, action_order,
			action_type, bet_amount, is_aggressive, is_forced_post)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at`,
		a.ID, a.HandID, a.PlayerID, a.Round, a.BettingRound, a.ActionOrder,
		a.ActionType, a.BetAmount, a.IsAggressive, a.IsForcedPost)
	return row.Scan(&a.CreatedAt)
}

const actionColumns = `id, hand_id, player_id, round, betting_round, action_order, action_type, bet_amount, is_aggressive, is_forced_post, created_at`

func scanAction(row pgx.Row) (*engine.Action, error) {
	var a engine.Action
	if err := row.Scan(&a.ID, &a.HandID, &a.PlayerID, &a.Round, &a.BettingRound, &a.ActionOrder,
		&a.ActionType, &a.BetAmount, &a.IsAggressive, &a.IsForcedPost, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) LastAction(ctx context.Context, handID string) (*engine.Action, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+actionColumns+` FROM actions WHERE hand_id = $1 ORDER BY action_order DESC LIMIT 1`, handID)
	a, err := scanAction(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Store) SumBetAmount(ctx context.Context, handID, playerID string, round *engine.Round) (int64, error) {
	var sum int64
	var err error
	if round == nil {
		err = s.db.QueryRow(ctx, `
			SELECT COALESCE(SUM(bet_amount), 0) FROM actions WHERE hand_id = $1 AND player_id = $2`,
			handID, playerID).Scan(&sum)
	} else {
		err = s.db.QueryRow(ctx, `
			SELECT COALESCE(SUM(bet_amount), 0) FROM actions WHERE hand_id = $1 AND player_id = $2 AND round = $3`,
			handID, playerID, *round).Scan(&sum)
	}
	return sum, err
}

func (s *Store) SumBetAmountByPlayer(ctx context.Context, handID string, round engine.Round) (map[string]int64, error) {
	rows, err := s.db.Query(ctx, `
		SELECT player_id, SUM(bet_amount) FROM actions
		WHERE hand_id = $1 AND round = $2 GROUP BY player_id`, handID, round)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int64{}
	for rows.Next() {
		var id string
		var sum int64
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, err
		}
		out[id] = sum
	}
	return out, rows.Err()
}

func (s *Store) DistinctActionTypes(ctx context.Context, handID string, round engine.Round) (map[engine.ActionType]bool, error) {
	rows, err := s.db.Query(ctx, `
		SELECT DISTINCT action_type FROM actions WHERE hand_id = $1 AND round = $2`, handID, round)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[engine.ActionType]bool{}
	for rows.Next() {
		var t engine.ActionType
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out[t] = true
	}
	return out, rows.Err()
}

func (s *Store) ActionsThisRound(ctx context.Context, handID string, round engine.Round) ([]*engine.Action, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+actionColumns+` FROM actions WHERE hand_id = $1 AND round = $2 ORDER BY action_order ASC`,
		handID, round)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*engine.Action
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
