// Package task はプロジェクト配下のタスク管理のビジネスロジックを提供する。
package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/hitoshi/tabiplan/internal/model"
	"github.com/hitoshi/tabiplan/internal/repository"
)

// Service はタスクに関するビジネスロジックを提供する。
// 全操作で親プロジェクトの所有権を検証する。
// プロジェクトごとの一覧スナップショットをメモリ上に保持する。
type Service struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository

	mu       sync.RWMutex
	snapshot map[string][]model.Task // projectID -> タスク一覧
}

// NewService はServiceを生成する。
func NewService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) *Service {
	return &Service{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		snapshot:    make(map[string][]model.Task),
	}
}

// List は指定プロジェクトの全タスクを挿入順で返す。
// ストア読み取りに失敗した場合は、最後に同期したスナップショットを返す。
func (s *Service) List(ctx context.Context, userID, projectID string) ([]*model.Task, error) {
	if err := s.checkOwnership(ctx, userID, projectID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListByProject(ctx, projectID)
	if err != nil {
		snap, ok := s.readSnapshot(projectID)
		if !ok {
			return nil, fmt.Errorf("failed to list tasks: %w", err)
		}
		slog.Warn("failed to list tasks; serving last synced snapshot",
			slog.String("error", err.Error()),
			slog.String("project_id", projectID),
		)
		return snap, nil
	}
	if tasks == nil {
		tasks = []*model.Task{}
	}

	s.mu.Lock()
	list := make([]model.Task, len(tasks))
	for i, t := range tasks {
		list[i] = *t
	}
	s.snapshot[projectID] = list
	s.mu.Unlock()

	return tasks, nil
}

// Add はタスクを追加する。完了フラグは未完了で初期化される。
func (s *Service) Add(ctx context.Context, userID, projectID, name string) (*model.Task, error) {
	if name == "" {
		return nil, model.NewValidationError("タスク名は必須です。")
	}
	if err := s.checkOwnership(ctx, userID, projectID); err != nil {
		return nil, err
	}

	task := &model.Task{
		ID:        uuid.New().String(),
		Name:      name,
		Completed: false,
	}

	if err := s.taskRepo.Create(ctx, projectID, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.mu.Lock()
	s.snapshot[projectID] = model.AddTask(s.snapshot[projectID], *task)
	s.mu.Unlock()

	return task, nil
}

// Rename はタスク名を変更する。
func (s *Service) Rename(ctx context.Context, userID, projectID, taskID, name string) (*model.Task, error) {
	if name == "" {
		return nil, model.NewValidationError("タスク名は必須です。")
	}
	if err := s.checkOwnership(ctx, userID, projectID); err != nil {
		return nil, err
	}

	task, err := s.findTask(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.UpdateName(ctx, projectID, taskID, name); err != nil {
		return nil, fmt.Errorf("failed to rename task: %w", err)
	}
	task.Name = name

	s.mu.Lock()
	s.snapshot[projectID] = model.UpdateTaskName(s.snapshot[projectID], taskID, name)
	s.mu.Unlock()

	return task, nil
}

// Toggle はタスクの完了状態を反転する。
func (s *Service) Toggle(ctx context.Context, userID, projectID, taskID string) (*model.Task, error) {
	if err := s.checkOwnership(ctx, userID, projectID); err != nil {
		return nil, err
	}

	task, err := s.findTask(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed
	if err := s.taskRepo.SetCompleted(ctx, projectID, taskID, task.Completed); err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}

	s.mu.Lock()
	s.snapshot[projectID] = model.ToggleTask(s.snapshot[projectID], taskID)
	s.mu.Unlock()

	return task, nil
}

// Delete はタスクを削除する。存在しないIDは成功として扱う（冪等）。
func (s *Service) Delete(ctx context.Context, userID, projectID, taskID string) error {
	if err := s.checkOwnership(ctx, userID, projectID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, projectID, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.mu.Lock()
	s.snapshot[projectID] = model.RemoveTask(s.snapshot[projectID], taskID)
	s.mu.Unlock()

	return nil
}

// readSnapshot は指定プロジェクトのスナップショットのコピーを返す。
// 一度も同期されていない場合はfalseを返す。
func (s *Service) readSnapshot(projectID string) ([]*model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshot[projectID]
	if !ok {
		return nil, false
	}
	out := make([]*model.Task, len(snap))
	for i := range snap {
		t := snap[i]
		out[i] = &t
	}
	return out, true
}

// checkOwnership は親プロジェクトが指定ユーザーの所有であることを検証する。
// 存在しない、または他ユーザー所有の場合はPROJECT_NOT_FOUNDを返す。
func (s *Service) checkOwnership(ctx context.Context, userID, projectID string) error {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to find project: %w", err)
	}
	if project == nil || project.OwnerID != userID {
		return model.NewProjectNotFoundError(projectID)
	}
	return nil
}

// findTask は指定プロジェクト内のタスクを取得する。
// 見つからない場合はTASK_NOT_FOUNDを返す。
func (s *Service) findTask(ctx context.Context, projectID, taskID string) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, projectID, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task == nil {
		return nil, model.NewTaskNotFoundError(taskID)
	}
	return task, nil
}
