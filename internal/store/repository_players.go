package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"tourney-engine/internal/engine"
)

func (s *Store) CreatePlayers(ctx context.Context, gameID string, seats []engine.SeatSpec, startingChips int64) ([]*engine.Player, error) {
	out := make([]*engine.Player, 0, len(seats))
	for i, spec := range seats {
		p := &engine.Player{
			ID:       NewID(),
			GameID:   gameID,
			Name:     spec.Name,
			Amount:   startingChips,
			IsOnline: spec.IsOnline,
			IsActive: true,
			Seat:     i,
		}
		_, err := s.db.Exec(ctx, `
			INSERT INTO players (id, game_id, name, amount, is_online, is_active, seat)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.ID, p.GameID, p.Name, p.Amount, p.IsOnline, p.IsActive, p.Seat)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func scanPlayer(row pgx.Row) (*engine.Player, error) {
	var p engine.Player
	if err := row.Scan(&p.ID, &p.GameID, &p.Name, &p.Amount, &p.IsOnline, &p.IsActive,
		&p.Action, &p.ActionAmount, &p.AllBetSum, &p.InactiveAtHandID, &p.Seat); err != nil {
		return nil, err
	}
	return &p, nil
}

const playerColumns = `id, game_id, name, amount, is_online, is_active, action, action_amount, all_bet_sum, inactive_time_hand_id, seat`

func (s *Store) ListPlayersByGame(ctx context.Context, gameID string) ([]*engine.Player, error) {
	rows, err := s.db.Query(ctx, `SELECT `+playerColumns+` FROM players WHERE game_id = $1 ORDER BY seat ASC`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*engine.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetPlayer(ctx context.Context, id string) (*engine.Player, error) {
	row := s.db.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id)
	p, err := scanPlayer(row)
	if err != nil {
		return nil, mapNotFound(err, "player", id)
	}
	return p, nil
}

func (s *Store) UpdatePlayer(ctx context.Context, p *engine.Player) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE players SET
			name = $2, amount = $3, is_online = $4, is_active = $5, action = $6,
			action_amount = $7, all_bet_sum = $8, inactive_time_hand_id = $9, seat = $10
		WHERE id = $1`,
		p.ID, p.Name, p.Amount, p.IsOnline, p.IsActive, p.Action,
		p.ActionAmount, p.AllBetSum, p.InactiveAtHandID, p.Seat)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &engine.NotFoundError{Kind: "player", ID: p.ID}
	}
	return nil
}

func (s *Store) IncrementPlayerAmount(ctx context.Context, playerID string, delta int64) error {
	tag, err := s.db.Exec(ctx, `UPDATE players SET amount = amount + $1 WHERE id = $2`, delta, playerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &engine.NotFoundError{Kind: "player", ID: playerID}
	}
	return nil
}

func (s *Store) ResetStreetState(ctx context.Context, gameID string, playerIDs []string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE players SET action = '', action_amount = 0
		WHERE game_id = $1 AND id = ANY($2)`, gameID, playerIDs)
	return err
}

func (s *Store) ResetHandState(ctx context.Context, gameID string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE players SET action = '', action_amount = 0, all_bet_sum = 0
		WHERE game_id = $1`, gameID)
	return err
}
