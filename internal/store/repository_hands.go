package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"tourney-engine/internal/engine"
)

const handColumns = `id, game_id, level, dealer, small_blind, big_blind, current_player_turn_id,
	pot_amount, ante, small_blind_amount, big_blind_amount, last_call_amount,
	current_max_bet, last_raise_amount, current_round, is_changed_current_round, created_at`

func (s *Store) CreateHand(ctx context.Context, h *engine.Hand) error {
	h.ID = NewID()
	row := s.db.QueryRow(ctx, `
		INSERT INTO hands (id, game_id, level, dealer, small_blind, big_blind, current_player_turn_id,
			pot_amount, ante, small_blind_amount, big_blind_amount, last_call_amount,
			current_max_bet, last_raise_amount, current_round, is_changed_current_round)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING created_at`,
		h.ID, h.GameID, h.Level, h.Dealer, h.SmallBlind, h.BigBlind, h.CurrentPlayerTurnID,
		h.PotAmount, h.Ante, h.SmallBlindAmount, h.BigBlindAmount, h.LastCallAmount,
		h.CurrentMaxBet, h.LastRaiseAmount, h.CurrentRound, h.IsChangedCurrentRound)
	return row.Scan(&h.CreatedAt)
}

func scanHand(row pgx.Row) (*engine.Hand, error) {
	var h engine.Hand
	if err := row.Scan(&h.ID, &h.GameID, &h.Level, &h.Dealer, &h.SmallBlind, &h.BigBlind, &h.CurrentPlayerTurnID,
		&h.PotAmount, &h.Ante, &h.SmallBlindAmount, &h.BigBlindAmount, &h.LastCallAmount,
		&h.CurrentMaxBet, &h.LastRaiseAmount, &h.CurrentRound, &h.IsChangedCurrentRound, &h.CreatedAt); err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *Store) GetHand(ctx context.Context, id string) (*engine.Hand, error) {
	row := s.db.QueryRow(ctx, `SELECT `+handColumns+` FROM hands WHERE id = $1`, id)
	h, err := scanHand(row)
	if err != nil {
		return nil, mapNotFound(err, "hand", id)
	}
	return h, nil
}

func (s *Store) UpdateHand(ctx context.Context, h *engine.Hand) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE hands SET
			current_player_turn_id = $2, pot_amount = $3, current_max_bet = $4,
			last_raise_amount = $5, last_call_amount = $6, current_round = $7,
			is_changed_current_round = $8
		WHERE id = $1`,
		h.ID, h.CurrentPlayerTurnID, h.PotAmount, h.CurrentMaxBet,
		h.LastRaiseAmount, h.LastCallAmount, h.CurrentRound, h.IsChangedCurrentRound)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &engine.NotFoundError{Kind: "hand", ID: h.ID}
	}
	return nil
}

func (s *Store) ListHandsByGame(ctx context.Context, gameID string) ([]*engine.Hand, error) {
	rows, err := s.db.Query(ctx, `SELECT `+handColumns+` FROM hands WHERE game_id = $1 ORDER BY created_at ASC`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*engine.Hand
	for rows.Next() {
		h, err := scanHand(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
