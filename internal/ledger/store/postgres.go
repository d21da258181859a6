package store

import (
	"context"
	"database/sql"
	"fmt"

	id "coinscious/pkg/domain"
)

// PostgresStore persists balances and supply in PostgreSQL. Every Apply*
// runs in one transaction so balance and supply never drift apart.
//
// Schema:
//
//	CREATE TABLE balances (
//	    wallet    TEXT NOT NULL,
//	    partition TEXT NOT NULL,
//	    balance   BIGINT NOT NULL CHECK (balance >= 0),
//	    PRIMARY KEY (wallet, partition)
//	);
//
//	CREATE TABLE partition_supply (
//	    partition TEXT PRIMARY KEY,
//	    supply    BIGINT NOT NULL CHECK (supply >= 0)
//	);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed ledger store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Balance(ctx context.Context, wallet id.WalletAddress, partition id.Partition) (int64, error) {
	var balance int64
	err := s.db.QueryRowContext(ctx,
		`SELECT balance FROM balances WHERE wallet = $1 AND partition = $2`,
		wallet.String(), partition.String(),
	).Scan(&balance)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}

func (s *PostgresStore) Supply(ctx context.Context, partition id.Partition) (int64, error) {
	var supply int64
	err := s.db.QueryRowContext(ctx,
		`SELECT supply FROM partition_supply WHERE partition = $1`,
		partition.String(),
	).Scan(&supply)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("get supply: %w", err)
	}
	return supply, nil
}

func (s *PostgresStore) View(ctx context.Context, partition id.Partition) (PartitionView, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return PartitionView{}, fmt.Errorf("view partition: %w", err)
	}
	defer tx.Rollback()

	view := PartitionView{Balances: make(map[id.WalletAddress]int64)}

	err = tx.QueryRowContext(ctx,
		`SELECT supply FROM partition_supply WHERE partition = $1`,
		partition.String(),
	).Scan(&view.Supply)
	if err != nil && err != sql.ErrNoRows {
		return PartitionView{}, fmt.Errorf("view partition: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT wallet, balance FROM balances WHERE partition = $1 AND balance <> 0`,
		partition.String(),
	)
	if err != nil {
		return PartitionView{}, fmt.Errorf("view partition: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			wallet  string
			balance int64
		)
		if err := rows.Scan(&wallet, &balance); err != nil {
			return PartitionView{}, fmt.Errorf("view partition: %w", err)
		}
		view.Balances[id.WalletAddress(wallet)] = balance
	}
	if err := rows.Err(); err != nil {
		return PartitionView{}, fmt.Errorf("view partition: %w", err)
	}
	return view, nil
}

func (s *PostgresStore) ApplyIssue(ctx context.Context, partition id.Partition, to id.WalletAddress, amount int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := credit(ctx, tx, partition, to, amount); err != nil {
			return err
		}
		return adjustSupply(ctx, tx, partition, amount)
	})
}

func (s *PostgresStore) ApplyRedeem(ctx context.Context, partition id.Partition, from id.WalletAddress, amount int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := debit(ctx, tx, partition, from, amount); err != nil {
			return err
		}
		return adjustSupply(ctx, tx, partition, -amount)
	})
}

func (s *PostgresStore) ApplyTransfer(ctx context.Context, partition id.Partition, from, to id.WalletAddress, amount int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := debit(ctx, tx, partition, from, amount); err != nil {
			return err
		}
		return credit(ctx, tx, partition, to, amount)
	})
}

func (s *PostgresStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger tx: %w", err)
	}
	return nil
}

func credit(ctx context.Context, tx *sql.Tx, partition id.Partition, wallet id.WalletAddress, amount int64) error {
	query := `
		INSERT INTO balances (wallet, partition, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (wallet, partition) DO UPDATE SET
			balance = balances.balance + EXCLUDED.balance
	`
	if _, err := tx.ExecContext(ctx, query, wallet.String(), partition.String(), amount); err != nil {
		return fmt.Errorf("credit: %w", err)
	}
	return nil
}

func debit(ctx context.Context, tx *sql.Tx, partition id.Partition, wallet id.WalletAddress, amount int64) error {
	query := `
		UPDATE balances
		SET balance = balance - $3
		WHERE wallet = $1 AND partition = $2 AND balance >= $3
	`
	res, err := tx.ExecContext(ctx, query, wallet.String(), partition.String(), amount)
	if err != nil {
		return fmt.Errorf("debit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit: %w", err)
	}
	if affected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

func adjustSupply(ctx context.Context, tx *sql.Tx, partition id.Partition, delta int64) error {
	query := `
		INSERT INTO partition_supply (partition, supply)
		VALUES ($1, $2)
		ON CONFLICT (partition) DO UPDATE SET
			supply = partition_supply.supply + EXCLUDED.supply
	`
	if _, err := tx.ExecContext(ctx, query, partition.String(), delta); err != nil {
		return fmt.Errorf("adjust supply: %w", err)
	}
	return nil
}
