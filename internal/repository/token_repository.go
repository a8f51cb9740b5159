package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sawirah/municipality-web/internal/model"
)

// TokenRepo is the refresh-token ledger. Rows hold only the SHA-256 digest
// of the token value, never the value itself, and the digest column carries
// a unique index so a value can exist for at most one user at a time.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

const tokenColumns = "id,user_id,token_hash,expires_at,used,revoked_at,replaced_by,created_ip,user_agent,created_at"

// FindByHash returns the ledger row for a token digest, sql.ErrNoRows when
// the token was never issued.
func (r *TokenRepo) FindByHash(ctx context.Context, tokenHash string) (model.RefreshToken, error) {
	var t model.RefreshToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+tokenColumns+" FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.Used,
		&t.RevokedAt, &t.ReplacedBy, &t.CreatedIP, &t.UserAgent, &t.CreatedAt)
	return t, err
}

// Create inserts a new ledger row. The generated id is written back onto
// the record. The insert is durable once this returns nil; callers must
// not hand the token value to a client before then.
func (r *TokenRepo) Create(ctx context.Context, t *model.RefreshToken) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_ip, user_agent) VALUES (?,?,?,?,?,?)",
		t.ID, t.UserID, t.TokenHash, t.ExpiresAt, t.CreatedIP, t.UserAgent)
	return err
}

// Rotate atomically retires the presented token and records its successor.
// The UPDATE only matches while the row is still unused and unrevoked, so
// of two concurrent rotations of the same token exactly one commits; the
// other sees zero rows affected and gets ErrTokenRotated. The replacement
// insert rides in the same transaction: either the old token is retired
// and the new one exists, or neither happened.
func (r *TokenRepo) Rotate(ctx context.Context, oldHash string, replacement *model.RefreshToken) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if replacement.ID == "" {
		replacement.ID = uuid.NewString()
	}
	res, err := tx.ExecContext(ctx,
		"UPDATE refresh_tokens SET used=1, replaced_by=?, revoked_at=NOW() WHERE token_hash=? AND used=0 AND revoked_at IS NULL",
		replacement.TokenHash, oldHash)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTokenRotated
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_ip, user_agent) VALUES (?,?,?,?,?,?)",
		replacement.ID, replacement.UserID, replacement.TokenHash, replacement.ExpiresAt,
		replacement.CreatedIP, replacement.UserAgent)
	if err != nil {
		return fmt.Errorf("insert replacement: %w", err)
	}
	return tx.Commit()
}

// RevokeByHash marks a token as revoked. Revoking an already revoked or
// unknown token is a no-op, which keeps logout idempotent.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForUser revokes every active token owned by a user. Used for
// reuse teardown and when an account is disabled.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return err
}

// IsNotFound reports whether err means the token digest has no ledger row.
func IsNotFound(err error) bool { return errors.Is(err, sql.ErrNoRows) }
