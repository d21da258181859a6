package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"coinscious/internal/registry"
	id "coinscious/pkg/domain"
)

// PostgresStore persists wallet records in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE wallet_records (
//	    wallet          TEXT PRIMARY KEY,
//	    country         TEXT NOT NULL,
//	    accredited      BOOLEAN NOT NULL,
//	    us_tax_resident BOOLEAN NOT NULL,
//	    lockup_until    TIMESTAMPTZ,
//	    expires_at      TIMESTAMPTZ,
//	    whitelisted     BOOLEAN NOT NULL,
//	    revoked         BOOLEAN NOT NULL,
//	    updated_at      TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed wallet record store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, wallet id.WalletAddress) (*registry.WalletRecord, error) {
	query := `
		SELECT wallet, country, accredited, us_tax_resident, lockup_until, expires_at,
		       whitelisted, revoked, updated_at
		FROM wallet_records
		WHERE wallet = $1
	`
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, wallet.String()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get wallet record: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) Put(ctx context.Context, rec *registry.WalletRecord) error {
	query := `
		INSERT INTO wallet_records
			(wallet, country, accredited, us_tax_resident, lockup_until, expires_at,
			 whitelisted, revoked, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (wallet) DO UPDATE SET
			country         = EXCLUDED.country,
			accredited      = EXCLUDED.accredited,
			us_tax_resident = EXCLUDED.us_tax_resident,
			lockup_until    = EXCLUDED.lockup_until,
			expires_at      = EXCLUDED.expires_at,
			whitelisted     = EXCLUDED.whitelisted,
			revoked         = EXCLUDED.revoked,
			updated_at      = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.Wallet.String(),
		rec.Claims.Country,
		rec.Claims.Accredited,
		rec.Claims.USTaxResident,
		nullTime(rec.Claims.LockupUntil),
		nullTime(rec.Claims.ExpiresAt),
		rec.Whitelisted,
		rec.Revoked,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("put wallet record: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*registry.WalletRecord, error) {
	query := `
		SELECT wallet, country, accredited, us_tax_resident, lockup_until, expires_at,
		       whitelisted, revoked, updated_at
		FROM wallet_records
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list wallet records: %w", err)
	}
	defer rows.Close()

	var out []*registry.WalletRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("list wallet records: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list wallet records: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*registry.WalletRecord, error) {
	var (
		rec         registry.WalletRecord
		wallet      string
		lockupUntil sql.NullTime
		expiresAt   sql.NullTime
	)
	err := row.Scan(
		&wallet,
		&rec.Claims.Country,
		&rec.Claims.Accredited,
		&rec.Claims.USTaxResident,
		&lockupUntil,
		&expiresAt,
		&rec.Whitelisted,
		&rec.Revoked,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Wallet = id.WalletAddress(wallet)
	if lockupUntil.Valid {
		rec.Claims.LockupUntil = lockupUntil.Time
	}
	if expiresAt.Valid {
		rec.Claims.ExpiresAt = expiresAt.Time
	}
	return &rec, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
