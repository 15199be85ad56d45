package oracle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "civicred/pkg/domain"
	"civicred/pkg/platform/sentinel"
)

// PendingSchema for the postgres-backed request ledger.
const PendingSchema = `
CREATE TABLE IF NOT EXISTS pending_requests (
	request_id      TEXT NOT NULL,
	kind            TEXT NOT NULL,
	registration_id BIGINT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (request_id, kind)
);
`

// PostgresPendingStore persists the request ledger in PostgreSQL. Create and
// Take are single statements, so the check-and-set semantics survive
// concurrent callers without explicit locking.
type PostgresPendingStore struct {
	db *sql.DB
}

func NewPostgresPendingStore(db *sql.DB) *PostgresPendingStore {
	return &PostgresPendingStore{db: db}
}

func (s *PostgresPendingStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, PendingSchema); err != nil {
		return fmt.Errorf("ensure pending schema: %w", err)
	}
	return nil
}

func (s *PostgresPendingStore) Create(ctx context.Context, pending PendingRequest) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO pending_requests (request_id, kind, registration_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (request_id, kind) DO NOTHING
	`, string(pending.RequestID), string(pending.Kind), uint64(pending.RegistrationID))
	if err != nil {
		return fmt.Errorf("create pending request: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create pending request: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrAlreadyUsed
	}
	return nil
}

func (s *PostgresPendingStore) Get(ctx context.Context, requestID id.RequestID, kind Kind) (*PendingRequest, error) {
	pending := PendingRequest{RequestID: requestID, Kind: kind}
	var regID uint64
	err := s.db.QueryRowContext(ctx, `
		SELECT registration_id, created_at FROM pending_requests
		WHERE request_id = $1 AND kind = $2
	`, string(requestID), string(kind)).Scan(&regID, &pending.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get pending request: %w", err)
	}
	pending.RegistrationID = id.RegistrationID(regID)
	return &pending, nil
}

func (s *PostgresPendingStore) Take(ctx context.Context, requestID id.RequestID, kind Kind) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM pending_requests WHERE request_id = $1 AND kind = $2
	`, string(requestID), string(kind))
	if err != nil {
		return fmt.Errorf("take pending request: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("take pending request: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
