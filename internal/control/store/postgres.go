package store

import (
	"context"
	"database/sql"
	"fmt"

	"coinscious/internal/control"
	id "coinscious/pkg/domain"
)

// PostgresStore persists control state in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE control_state (
//	    singleton          BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
//	    paused             BOOLEAN NOT NULL,
//	    admin_wallet       TEXT NOT NULL,
//	    oracle_wallet      TEXT NOT NULL,
//	    controller_wallet  TEXT NOT NULL,
//	    pending_controller TEXT NOT NULL
//	);
//
//	CREATE TABLE frozen_wallets (
//	    wallet TEXT PRIMARY KEY
//	);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed control store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Seed writes the genesis state if none exists yet. Safe to call on every
// startup.
func (s *PostgresStore) Seed(ctx context.Context, genesis control.State) error {
	query := `
		INSERT INTO control_state (singleton, paused, admin_wallet, oracle_wallet, controller_wallet, pending_controller)
		VALUES (TRUE, $1, $2, $3, $4, $5)
		ON CONFLICT (singleton) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		genesis.Paused,
		genesis.Admin.String(),
		genesis.Oracle.String(),
		genesis.Controller.String(),
		genesis.PendingController.String(),
	)
	if err != nil {
		return fmt.Errorf("seed control state: %w", err)
	}
	return nil
}

const selectState = `
	SELECT paused, admin_wallet, oracle_wallet, controller_wallet, pending_controller
	FROM control_state
	WHERE singleton
`

func scanState(row *sql.Row) (control.State, error) {
	var (
		st                                 control.State
		admin, oracle, controller, pending string
	)
	if err := row.Scan(&st.Paused, &admin, &oracle, &controller, &pending); err != nil {
		return control.State{}, err
	}
	st.Admin = id.WalletAddress(admin)
	st.Oracle = id.WalletAddress(oracle)
	st.Controller = id.WalletAddress(controller)
	st.PendingController = id.WalletAddress(pending)
	return st, nil
}

func (s *PostgresStore) Get(ctx context.Context) (control.State, error) {
	st, err := scanState(s.db.QueryRowContext(ctx, selectState))
	if err != nil {
		return control.State{}, fmt.Errorf("get control state: %w", err)
	}
	return st, nil
}

// Update runs fn against the singleton row under FOR UPDATE so concurrent
// handover and pause calls serialize.
func (s *PostgresStore) Update(ctx context.Context, fn func(*control.State) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update control state: %w", err)
	}
	defer tx.Rollback()

	st, err := scanState(tx.QueryRowContext(ctx, selectState+" FOR UPDATE"))
	if err != nil {
		return fmt.Errorf("update control state: %w", err)
	}
	if err := fn(&st); err != nil {
		return err
	}

	query := `
		UPDATE control_state
		SET paused = $1, admin_wallet = $2, oracle_wallet = $3,
		    controller_wallet = $4, pending_controller = $5
		WHERE singleton
	`
	if _, err := tx.ExecContext(ctx, query,
		st.Paused,
		st.Admin.String(),
		st.Oracle.String(),
		st.Controller.String(),
		st.PendingController.String(),
	); err != nil {
		return fmt.Errorf("update control state: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update control state: %w", err)
	}
	return nil
}

func (s *PostgresStore) IsFrozen(ctx context.Context, wallet id.WalletAddress) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM frozen_wallets WHERE wallet = $1)`,
		wallet.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check freeze: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) SetFrozen(ctx context.Context, wallet id.WalletAddress, frozen bool) error {
	var err error
	if frozen {
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO frozen_wallets (wallet) VALUES ($1) ON CONFLICT (wallet) DO NOTHING`,
			wallet.String(),
		)
	} else {
		_, err = s.db.ExecContext(ctx,
			`DELETE FROM frozen_wallets WHERE wallet = $1`,
			wallet.String(),
		)
	}
	if err != nil {
		return fmt.Errorf("set freeze: %w", err)
	}
	return nil
}
