package store

import (
	"context"
	"database/sql"
	"fmt"

	"coinscious/internal/audit"
	id "coinscious/pkg/domain"
)

// PostgresStore persists audit events in PostgreSQL. Append-only: the store
// issues no UPDATE or DELETE statements.
//
// Schema:
//
//	CREATE TABLE audit_events (
//	    id          UUID PRIMARY KEY,
//	    ts          TIMESTAMPTZ NOT NULL,
//	    action      TEXT NOT NULL,
//	    actor       TEXT NOT NULL,
//	    role        TEXT NOT NULL,
//	    source      TEXT NOT NULL,
//	    destination TEXT NOT NULL,
//	    partition   TEXT NOT NULL,
//	    amount      BIGINT NOT NULL,
//	    allowed     BOOLEAN NOT NULL,
//	    reason      TEXT NOT NULL,
//	    note        TEXT NOT NULL,
//	    request_id  TEXT NOT NULL
//	);
//	CREATE INDEX audit_events_ts_idx ON audit_events (ts DESC);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed audit store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO audit_events
			(id, ts, action, actor, role, source, destination, partition,
			 amount, allowed, reason, note, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.Timestamp,
		string(event.Action),
		event.Actor.String(),
		event.Role.String(),
		event.Source,
		event.Destination.String(),
		event.Partition.String(),
		event.Amount,
		event.Allowed,
		event.Reason.String(),
		event.Note,
		event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, filter Filter) ([]audit.Event, error) {
	query := `
		SELECT id, ts, action, actor, role, source, destination, partition,
		       amount, allowed, reason, note, request_id
		FROM audit_events
		WHERE ($1 = '' OR actor = $1 OR source = $1 OR destination = $1)
		ORDER BY ts DESC
		LIMIT CASE WHEN $2 > 0 THEN $2 ELSE NULL END
	`
	rows, err := s.db.QueryContext(ctx, query, filter.Wallet.String(), filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []audit.Event
	for rows.Next() {
		var (
			e           audit.Event
			action      string
			actor       string
			role        string
			destination string
			partition   string
			reason      string
		)
		if err := rows.Scan(
			&e.ID, &e.Timestamp, &action, &actor, &role, &e.Source,
			&destination, &partition, &e.Amount, &e.Allowed, &reason,
			&e.Note, &e.RequestID,
		); err != nil {
			return nil, fmt.Errorf("list audit events: %w", err)
		}
		e.Action = audit.Action(action)
		e.Actor = id.WalletAddress(actor)
		e.Role = id.Role(role)
		e.Destination = id.WalletAddress(destination)
		e.Partition = id.Partition(partition)
		e.Reason = id.ReasonCode(reason)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return out, nil
}
