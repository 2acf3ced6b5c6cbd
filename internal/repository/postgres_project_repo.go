package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hitoshi/tabiplan/internal/model"
)

// PostgresProjectRepo はPostgreSQLを使用したプロジェクトリポジトリ。
// 埋め込み型タスク列はtasks JSONBカラムに保持する。
type PostgresProjectRepo struct {
	db *sql.DB
}

// NewPostgresProjectRepo はPostgresProjectRepoを生成する。
func NewPostgresProjectRepo(db *sql.DB) *PostgresProjectRepo {
	return &PostgresProjectRepo{db: db}
}

// taskDoc はtasks JSONBカラムのドキュメント形式。
// スキーマレスなドキュメントを型付きで読み書きするための境界型。
type taskDoc struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

func marshalTasks(tasks []model.Task) ([]byte, error) {
	docs := make([]taskDoc, len(tasks))
	for i, t := range tasks {
		docs[i] = taskDoc{ID: t.ID, Name: t.Name, Completed: t.Completed}
	}
	data, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tasks: %w", err)
	}
	return data, nil
}

func unmarshalTasks(data []byte) ([]model.Task, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var docs []taskDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tasks: %w", err)
	}
	tasks := make([]model.Task, len(docs))
	for i, d := range docs {
		tasks[i] = model.Task{ID: d.ID, Name: d.Name, Completed: d.Completed}
	}
	return tasks, nil
}

// ListByOwner は指定ユーザーが所有する全プロジェクトを作成順で返す。
func (r *PostgresProjectRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, name, description, date, progress, tasks, created_at, updated_at
		 FROM projects WHERE owner_id = $1 ORDER BY created_at`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects by owner: %w", err)
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		p := &model.Project{}
		var tasksJSON []byte
		if err := rows.Scan(
			&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Date,
			&p.Progress, &tasksJSON, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		tasks, err := unmarshalTasks(tasksJSON)
		if err != nil {
			return nil, err
		}
		p.Tasks = tasks
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return projects, nil
}

// FindByID は指定IDのプロジェクトを取得する。見つからない場合はnilを返す。
func (r *PostgresProjectRepo) FindByID(ctx context.Context, id string) (*model.Project, error) {
	p := &model.Project{}
	var tasksJSON []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, description, date, progress, tasks, created_at, updated_at
		 FROM projects WHERE id = $1`,
		id,
	).Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Date,
		&p.Progress, &tasksJSON, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find project by ID: %w", err)
	}

	tasks, err := unmarshalTasks(tasksJSON)
	if err != nil {
		return nil, err
	}
	p.Tasks = tasks

	return p, nil
}

// Create はプロジェクトを作成する。
func (r *PostgresProjectRepo) Create(ctx context.Context, project *model.Project) error {
	tasksJSON, err := marshalTasks(project.Tasks)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO projects (id, owner_id, name, description, date, progress, tasks, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		project.ID, project.OwnerID, project.Name, project.Description, project.Date,
		project.Progress, tasksJSON, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

// Update はプロジェクトドキュメントを上書き更新する。owner_idも再設定される。
func (r *PostgresProjectRepo) Update(ctx context.Context, project *model.Project) error {
	tasksJSON, err := marshalTasks(project.Tasks)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE projects
		 SET owner_id = $1, name = $2, description = $3, date = $4, progress = $5, tasks = $6, updated_at = $7
		 WHERE id = $8`,
		project.OwnerID, project.Name, project.Description, project.Date,
		project.Progress, tasksJSON, project.UpdatedAt, project.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("project not found: %s", project.ID)
	}
	return nil
}

// Delete は指定IDのプロジェクトを削除する。存在しないIDは成功として扱う（冪等）。
// 子コレクションのタスクはFK制約によりCASCADE削除される。
func (r *PostgresProjectRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ProjectRepository = (*PostgresProjectRepo)(nil)
