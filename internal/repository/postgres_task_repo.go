package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/tabiplan/internal/model"
)

// PostgresTaskRepo はPostgreSQLを使用した子コレクション型タスクリポジトリ。
// projects/{id}/tasks パスに相当するproject_tasksテーブルを操作する。
type PostgresTaskRepo struct {
	db *sql.DB
}

// NewPostgresTaskRepo はPostgresTaskRepoを生成する。
func NewPostgresTaskRepo(db *sql.DB) *PostgresTaskRepo {
	return &PostgresTaskRepo{db: db}
}

// ListByProject は指定プロジェクトの全タスクを挿入順で返す。
func (r *PostgresTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*model.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, completed FROM project_tasks
		 WHERE project_id = $1 ORDER BY position`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks by project: %w", err)
	}
	defer rows.Close()

	var tasks []*model.Task
	for rows.Next() {
		t := &model.Task{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

// FindByID は指定プロジェクト内の指定IDのタスクを取得する。見つからない場合はnilを返す。
func (r *PostgresTaskRepo) FindByID(ctx context.Context, projectID, taskID string) (*model.Task, error) {
	t := &model.Task{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, completed FROM project_tasks
		 WHERE project_id = $1 AND id = $2`,
		projectID, taskID,
	).Scan(&t.ID, &t.Name, &t.Completed)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task by ID: %w", err)
	}

	return t, nil
}

// Create はタスクを作成する。positionは既存タスクの末尾に採番される。
func (r *PostgresTaskRepo) Create(ctx context.Context, projectID string, task *model.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO project_tasks (id, project_id, name, completed, position)
		 VALUES ($1, $2, $3, $4,
		         (SELECT COALESCE(MAX(position), 0) + 1 FROM project_tasks WHERE project_id = $2))`,
		task.ID, projectID, task.Name, task.Completed,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// UpdateName はタスク名を変更する。
func (r *PostgresTaskRepo) UpdateName(ctx context.Context, projectID, taskID, name string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE project_tasks SET name = $1 WHERE project_id = $2 AND id = $3`,
		name, projectID, taskID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task name: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("task not found: %s", taskID)
	}
	return nil
}

// SetCompleted はタスクの完了フラグを設定する。
func (r *PostgresTaskRepo) SetCompleted(ctx context.Context, projectID, taskID string, completed bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE project_tasks SET completed = $1 WHERE project_id = $2 AND id = $3`,
		completed, projectID, taskID,
	)
	if err != nil {
		return fmt.Errorf("failed to set task completed: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("task not found: %s", taskID)
	}
	return nil
}

// Delete は指定IDのタスクを削除する。存在しないIDは成功として扱う（冪等）。
func (r *PostgresTaskRepo) Delete(ctx context.Context, projectID, taskID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM project_tasks WHERE project_id = $1 AND id = $2`,
		projectID, taskID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// compile-time interface check
var _ TaskRepository = (*PostgresTaskRepo)(nil)
