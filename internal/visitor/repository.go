package visitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound means no visitor exists for the identity key. During a
	// matched capture this signals a face-directory/ledger inconsistency.
	ErrNotFound = errors.New("visitor not found")

	// ErrVersionConflict means the record changed between read and write.
	// A concurrent capture of the same visitor won the race; the update
	// must not be silently reapplied over it.
	ErrVersionConflict = errors.New("visitor version conflict")
)

// Repository persists visitor records. Put has full-record overwrite
// semantics conditional on the version read: callers read-modify-write.
type Repository interface {
	Get(ctx context.Context, identityKey string) (Visitor, error)
	Put(ctx context.Context, v Visitor) error
}

// PostgresRepository implements Repository using PostgreSQL. Photos are kept
// as a jsonb document alongside the profile columns so the whole record is
// replaced in one conditional statement.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed visitor repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get fetches a visitor by identity key.
func (r *PostgresRepository) Get(ctx context.Context, identityKey string) (Visitor, error) {
	row := r.db.QueryRow(ctx, `SELECT identity_key, name, phone_number, photos, version
        FROM visitors WHERE identity_key = $1`, identityKey)

	var (
		v      Visitor
		photos []byte
	)
	if err := row.Scan(&v.IdentityKey, &v.Name, &v.PhoneNumber, &photos, &v.Version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Visitor{}, ErrNotFound
		}
		return Visitor{}, fmt.Errorf("get visitor: %w", err)
	}

	if len(photos) > 0 {
		if err := json.Unmarshal(photos, &v.Photos); err != nil {
			return Visitor{}, fmt.Errorf("decode photo history: %w", err)
		}
	}
	return v, nil
}

// Put replaces the stored record wholesale, conditional on v.Version matching
// the persisted revision. The stored version is bumped on success.
func (r *PostgresRepository) Put(ctx context.Context, v Visitor) error {
	photos, err := json.Marshal(v.Photos)
	if err != nil {
		return fmt.Errorf("encode photo history: %w", err)
	}

	cmd, err := r.db.Exec(ctx, `UPDATE visitors
        SET name = $2, phone_number = $3, photos = $4, version = version + 1
        WHERE identity_key = $1 AND version = $5`,
		v.IdentityKey, v.Name, v.PhoneNumber, photos, v.Version)
	if err != nil {
		return fmt.Errorf("put visitor: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		// Either the key vanished or another writer bumped the version.
		if _, getErr := r.Get(ctx, v.IdentityKey); errors.Is(getErr, ErrNotFound) {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	return nil
}
