package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/tabiplan/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, photo_url, created_at, updated_at FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Email, &user.Name, &user.PhotoURL, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return user, nil
}

// UpdateFields はname/photo_urlのうちnilでないフィールドのみを部分更新する。
// 両方nilの場合は何もしない。
func (r *PostgresUserRepo) UpdateFields(ctx context.Context, id string, name, photoURL *string) error {
	if name == nil && photoURL == nil {
		return nil
	}

	query := `UPDATE users SET updated_at = now()`
	args := []interface{}{}
	argPos := 1

	if name != nil {
		query += fmt.Sprintf(", name = $%d", argPos)
		args = append(args, *name)
		argPos++
	}
	if photoURL != nil {
		query += fmt.Sprintf(", photo_url = $%d", argPos)
		args = append(args, *photoURL)
		argPos++
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update user fields: %w", err)
	}

	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
