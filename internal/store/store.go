// Package store is the Postgres-backed implementation of engine.Repository.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"tourney-engine/internal/engine"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, letting every
// repository method run unmodified whether or not it is inside WithTx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store wraps DB access and implements engine.Repository.
type Store struct {
	Pool *pgxpool.Pool
	db   querier
}

var _ engine.Repository = (*Store)(nil)

func New(dsn string) (*Store, error) {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool, db: pool}, nil
}

func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Pool.Ping(ctx)
}

// WithTx opens one transaction and runs fn against a Store backed by it. A
// DomainError/NotFoundError returned by fn rolls the transaction back and
// propagates unchanged; nil commits.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, repo engine.Repository) error) error {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	txStore := &Store{Pool: s.Pool, db: tx}
	if err := fn(ctx, txStore); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func mapNotFound(err error, kind, id string) error {
	if err == pgx.ErrNoRows {
		return &engine.NotFoundError{Kind: kind, ID: id}
	}
	return err
}
