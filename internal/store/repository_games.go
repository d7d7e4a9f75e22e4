package store

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"

	"tourney-engine/internal/engine"
)

func (s *Store) CreateGame(ctx context.Context, g *engine.Game) error {
	g.ID = NewID()
	_, err := s.db.Exec(ctx, `
		INSERT INTO games (id, blind_time, level, chips, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		g.ID, g.BlindTime, g.Level, g.Chips, g.StartTime, g.EndTime)
	return err
}

func scanGame(row pgx.Row) (*engine.Game, error) {
	var g engine.Game
	if err := row.Scan(&g.ID, &g.BlindTime, &g.Level, &g.Chips, &g.StartTime, &g.EndTime); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Store) GetActiveGame(ctx context.Context) (*engine.Game, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, blind_time, level, chips, start_time, end_time
		FROM games WHERE end_time IS NULL LIMIT 1`)
	g, err := scanGame(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Store) GetGame(ctx context.Context, id string) (*engine.Game, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, blind_time, level, chips, start_time, end_time
		FROM games WHERE id = $1`, id)
	g, err := scanGame(row)
	if err != nil {
		return nil, mapNotFound(err, "game", id)
	}
	return g, nil
}

func (s *Store) EndGame(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `UPDATE games SET end_time = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &engine.NotFoundError{Kind: "game", ID: id}
	}
	return nil
}

func (s *Store) SetGameLevel(ctx context.Context, gameID string, level int) error {
	tag, err := s.db.Exec(ctx, `UPDATE games SET level = $1 WHERE id = $2`, level, gameID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &engine.NotFoundError{Kind: "game", ID: gameID}
	}
	return nil
}

func (s *Store) GetGameBlind(ctx context.Context, level int) (*engine.GameBlind, error) {
	row := s.db.QueryRow(ctx, `
		SELECT game_level, small_blind_amount, big_blind_amount, ante
		FROM game_blinds WHERE game_level = $1`, level)
	var b engine.GameBlind
	if err := row.Scan(&b.GameLevel, &b.SmallBlindAmount, &b.BigBlindAmount, &b.Ante); err != nil {
		if err == pgx.ErrNoRows {
			return nil, &engine.NotFoundError{Kind: "game_blind", ID: strconv.Itoa(level)}
		}
		return nil, err
	}
	return &b, nil
}
