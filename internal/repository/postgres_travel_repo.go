package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/tabiplan/internal/model"
)

// PostgresTravelRepo はPostgreSQLを使用した旅行リポジトリ。
type PostgresTravelRepo struct {
	db *sql.DB
}

// NewPostgresTravelRepo はPostgresTravelRepoを生成する。
func NewPostgresTravelRepo(db *sql.DB) *PostgresTravelRepo {
	return &PostgresTravelRepo{db: db}
}

// ListByOwner は指定ユーザーが所有する全旅行を作成順で返す。
func (r *PostgresTravelRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Travel, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, destination, description, date, location_name, lat, lng, created_at
		 FROM travels WHERE owner_id = $1 ORDER BY created_at`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list travels by owner: %w", err)
	}
	defer rows.Close()

	var travels []*model.Travel
	for rows.Next() {
		t := &model.Travel{}
		if err := rows.Scan(
			&t.ID, &t.OwnerID, &t.Destination, &t.Description, &t.Date,
			&t.LocationName, &t.Lat, &t.Lng, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan travel: %w", err)
		}
		travels = append(travels, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate travels: %w", err)
	}

	return travels, nil
}

// FindByID は指定IDの旅行を取得する。見つからない場合はnilを返す。
func (r *PostgresTravelRepo) FindByID(ctx context.Context, id string) (*model.Travel, error) {
	t := &model.Travel{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, destination, description, date, location_name, lat, lng, created_at
		 FROM travels WHERE id = $1`,
		id,
	).Scan(
		&t.ID, &t.OwnerID, &t.Destination, &t.Description, &t.Date,
		&t.LocationName, &t.Lat, &t.Lng, &t.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find travel by ID: %w", err)
	}

	return t, nil
}

// Create は旅行を作成する。lat/lngは未ジオコーディングの場合NULLとなる。
func (r *PostgresTravelRepo) Create(ctx context.Context, travel *model.Travel) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO travels (id, owner_id, destination, description, date, location_name, lat, lng, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		travel.ID, travel.OwnerID, travel.Destination, travel.Description, travel.Date,
		travel.LocationName, travel.Lat, travel.Lng, travel.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert travel: %w", err)
	}
	return nil
}

// Delete は指定IDの旅行を削除する。存在しないIDは成功として扱う（冪等）。
func (r *PostgresTravelRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM travels WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete travel: %w", err)
	}
	return nil
}

// compile-time interface check
var _ TravelRepository = (*PostgresTravelRepo)(nil)
