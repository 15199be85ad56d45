package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"civicred/internal/registration/models"
	id "civicred/pkg/domain"
	"civicred/pkg/platform/sentinel"
)

// Schema for the postgres-backed registration store. Registration ids come
// from a BIGSERIAL so they are monotonic from 1 and never reused, matching
// the in-memory arena semantics.
const Schema = `
CREATE TABLE IF NOT EXISTS registrations (
	id                BIGSERIAL PRIMARY KEY,
	national_id       BYTEA NOT NULL,
	date_of_birth     BYTEA NOT NULL,
	address_hash      BYTEA NOT NULL,
	eligibility_flags BYTEA NOT NULL,
	status            TEXT NOT NULL DEFAULT 'pending',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS credentials (
	registration_id BIGINT PRIMARY KEY REFERENCES registrations(id),
	value           TEXT NOT NULL DEFAULT '',
	issued          BOOLEAN NOT NULL DEFAULT FALSE
);
`

// Postgres persists registrations and credential records in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the tables when absent.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure registration schema: %w", err)
	}
	return nil
}

func (s *Postgres) Create(ctx context.Context, ciphertexts models.CiphertextBundle) (id.RegistrationID, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create registration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var regID uint64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO registrations (national_id, date_of_birth, address_hash, eligibility_flags, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id
	`, []byte(ciphertexts.NationalID), []byte(ciphertexts.DateOfBirth),
		[]byte(ciphertexts.AddressHash), []byte(ciphertexts.EligibilityFlags)).Scan(&regID)
	if err != nil {
		return 0, fmt.Errorf("insert registration: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO credentials (registration_id) VALUES ($1)
	`, regID); err != nil {
		return 0, fmt.Errorf("insert credential record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create registration: %w", err)
	}
	return id.RegistrationID(regID), nil
}

func (s *Postgres) Get(ctx context.Context, regID id.RegistrationID) (*models.EncryptedRegistration, error) {
	reg := models.EncryptedRegistration{ID: regID}
	var nationalID, dateOfBirth, addressHash, eligibilityFlags []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT national_id, date_of_birth, address_hash, eligibility_flags, status, created_at
		FROM registrations WHERE id = $1
	`, uint64(regID)).Scan(&nationalID, &dateOfBirth, &addressHash, &eligibilityFlags, &reg.Status, &reg.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	reg.Ciphertexts = models.CiphertextBundle{
		NationalID:       nationalID,
		DateOfBirth:      dateOfBirth,
		AddressHash:      addressHash,
		EligibilityFlags: eligibilityFlags,
	}
	return &reg, nil
}

func (s *Postgres) SetStatus(ctx context.Context, regID id.RegistrationID, from, to models.Status) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE registrations SET status = $3 WHERE id = $1 AND status = $2
	`, uint64(regID), string(from), string(to))
	if err != nil {
		return fmt.Errorf("set registration status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set registration status: %w", err)
	}
	if rows == 0 {
		// Distinguish a missing row from a lost state race.
		var exists bool
		if err := s.db.QueryRowContext(ctx, `
			SELECT EXISTS (SELECT 1 FROM registrations WHERE id = $1)
		`, uint64(regID)).Scan(&exists); err != nil {
			return fmt.Errorf("set registration status: %w", err)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrInvalidState
	}
	return nil
}

func (s *Postgres) GetCredential(ctx context.Context, regID id.RegistrationID) (*models.CredentialRecord, error) {
	cred := models.CredentialRecord{RegistrationID: regID}
	err := s.db.QueryRowContext(ctx, `
		SELECT value, issued FROM credentials WHERE registration_id = $1
	`, uint64(regID)).Scan(&cred.Value, &cred.Issued)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get credential: %w", err)
	}
	return &cred, nil
}

func (s *Postgres) MarkIssued(ctx context.Context, regID id.RegistrationID, value string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE credentials SET value = $2, issued = TRUE
		WHERE registration_id = $1 AND issued = FALSE
	`, uint64(regID), value)
	if err != nil {
		return fmt.Errorf("mark credential issued: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark credential issued: %w", err)
	}
	if rows == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx, `
			SELECT EXISTS (SELECT 1 FROM credentials WHERE registration_id = $1)
		`, uint64(regID)).Scan(&exists); err != nil {
			return fmt.Errorf("mark credential issued: %w", err)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrAlreadyUsed
	}
	return nil
}
