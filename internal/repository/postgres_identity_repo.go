package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/tabiplan/internal/model"
)

// PostgresIdentityRepo はPostgreSQLを使用したidentityリポジトリ。
type PostgresIdentityRepo struct {
	db *sql.DB
}

// NewPostgresIdentityRepo はPostgresIdentityRepoを生成する。
func NewPostgresIdentityRepo(db *sql.DB) *PostgresIdentityRepo {
	return &PostgresIdentityRepo{db: db}
}

const identityColumns = `id, user_id, email, password_hash, display_name, photo_url, created_at, updated_at`

func scanIdentity(row *sql.Row) (*model.Identity, error) {
	ident := &model.Identity{}
	err := row.Scan(
		&ident.ID, &ident.UserID, &ident.Email, &ident.PasswordHash,
		&ident.DisplayName, &ident.PhotoURL, &ident.CreatedAt, &ident.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan identity: %w", err)
	}
	return ident, nil
}

// FindByEmail はメールアドレスでidentityを検索する。見つからない場合はnilを返す。
func (r *PostgresIdentityRepo) FindByEmail(ctx context.Context, email string) (*model.Identity, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE email = $1`,
		email,
	)
	return scanIdentity(row)
}

// FindByUserID はユーザーIDでidentityを検索する。見つからない場合はnilを返す。
func (r *PostgresIdentityRepo) FindByUserID(ctx context.Context, userID string) (*model.Identity, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE user_id = $1`,
		userID,
	)
	return scanIdentity(row)
}

// CreateWithUser はidentityとusersミラードキュメントを同一トランザクションで作成する。
// identities.user_idはusers.idへの外部キーのため、usersを先に挿入する。
func (r *PostgresIdentityRepo) CreateWithUser(ctx context.Context, identity *model.Identity, user *model.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, email, name, photo_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.Name, user.PhotoURL, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO identities (id, user_id, email, password_hash, display_name, photo_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		identity.ID, identity.UserID, identity.Email, identity.PasswordHash,
		identity.DisplayName, identity.PhotoURL, identity.CreatedAt, identity.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert identity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpdateProfileFields はdisplay_name/photo_urlのうちnilでないフィールドのみを部分更新する。
// 両方nilの場合は何もしない。
func (r *PostgresIdentityRepo) UpdateProfileFields(ctx context.Context, userID string, displayName, photoURL *string) error {
	if displayName == nil && photoURL == nil {
		return nil
	}

	query := `UPDATE identities SET updated_at = now()`
	args := []interface{}{}
	argPos := 1

	if displayName != nil {
		query += fmt.Sprintf(", display_name = $%d", argPos)
		args = append(args, *displayName)
		argPos++
	}
	if photoURL != nil {
		query += fmt.Sprintf(", photo_url = $%d", argPos)
		args = append(args, *photoURL)
		argPos++
	}

	query += fmt.Sprintf(" WHERE user_id = $%d", argPos)
	args = append(args, userID)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update identity profile fields: %w", err)
	}

	return nil
}

// UpdatePasswordHash はパスワードハッシュを更新する。
func (r *PostgresIdentityRepo) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE identities SET password_hash = $1, updated_at = now() WHERE user_id = $2`,
		passwordHash, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("identity not found for user: %s", userID)
	}
	return nil
}

// compile-time interface check
var _ IdentityRepository = (*PostgresIdentityRepo)(nil)
