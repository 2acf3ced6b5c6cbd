// Package project はプロジェクト管理のビジネスロジックを提供する。
package project

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/tabiplan/internal/model"
	"github.com/hitoshi/tabiplan/internal/repository"
	"github.com/hitoshi/tabiplan/internal/security"
)

// Service はプロジェクトに関するビジネスロジックを提供する。
// ユーザーごとの最新一覧スナップショットをメモリ上に保持し、
// 書き込み操作のたびにストアと同期する。
type Service struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	sanitizer   security.TextSanitizerService

	mu       sync.RWMutex
	snapshot map[string][]*model.Project // userID -> 所有プロジェクト一覧
}

// NewService はServiceを生成する。
func NewService(
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	sanitizer security.TextSanitizerService,
) *Service {
	return &Service{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		sanitizer:   sanitizer,
		snapshot:    make(map[string][]*model.Project),
	}
}

// ListOwned は指定ユーザーが所有する全プロジェクトを返す。
// 取得結果でスナップショットを更新する。スナップショットは独立したコピーで保持し、
// 呼び出し側へ返したスライスと配列を共有しない。
// ストア読み取りに失敗した場合は、最後に同期したスナップショットを返す。
func (s *Service) ListOwned(ctx context.Context, userID string) ([]*model.Project, error) {
	projects, err := s.projectRepo.ListByOwner(ctx, userID)
	if err != nil {
		snap, ok := s.readSnapshot(userID)
		if !ok {
			return nil, fmt.Errorf("failed to list projects: %w", err)
		}
		slog.Warn("failed to list projects; serving last synced snapshot",
			slog.String("error", err.Error()),
			slog.String("user_id", userID),
		)
		return snap, nil
	}
	if projects == nil {
		projects = []*model.Project{}
	}

	s.mu.Lock()
	snap := make([]*model.Project, len(projects))
	copy(snap, projects)
	s.snapshot[userID] = snap
	s.mu.Unlock()

	return projects, nil
}

// readSnapshot は指定ユーザーのスナップショットのコピーを返す。
// 一度も同期されていない場合はfalseを返す。
func (s *Service) readSnapshot(userID string) ([]*model.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshot[userID]
	if !ok {
		return nil, false
	}
	out := make([]*model.Project, len(snap))
	copy(out, snap)
	return out, true
}

// Create はプロジェクトを新規作成する。
// 入力を検証し、説明文をサニタイズした上で永続化する。
func (s *Service) Create(ctx context.Context, userID string, input model.ProjectInput) (*model.Project, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	project := &model.Project{
		ID:          uuid.New().String(),
		OwnerID:     userID,
		Name:        input.Name,
		Description: s.sanitizer.Sanitize(input.Description),
		Date:        input.Date,
		Progress:    input.Progress,
		Tasks:       input.Tasks,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.mu.Lock()
	s.snapshot[userID] = append(s.snapshot[userID], project)
	s.mu.Unlock()

	slog.Info("project created",
		slog.String("project_id", project.ID),
		slog.String("user_id", userID),
	)

	return project, nil
}

// Update は既存プロジェクトを上書き更新する。
// 所有者以外のプロジェクト・存在しないIDはPROJECT_NOT_FOUNDを返す。
// 更新時もOwnerIDは呼び出しユーザーで再設定される。
func (s *Service) Update(ctx context.Context, userID, projectID string, input model.ProjectInput) (*model.Project, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.findOwned(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	project := &model.Project{
		ID:          projectID,
		OwnerID:     userID,
		Name:        input.Name,
		Description: s.sanitizer.Sanitize(input.Description),
		Date:        input.Date,
		Progress:    input.Progress,
		Tasks:       input.Tasks,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   time.Now(),
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.mu.Lock()
	for i, p := range s.snapshot[userID] {
		if p.ID == projectID {
			s.snapshot[userID][i] = project
			break
		}
	}
	s.mu.Unlock()

	return project, nil
}

// Delete はプロジェクトを削除する。存在しないIDは成功として扱う（冪等）。
// 子コレクションのタスクもあわせて削除される。
func (s *Service) Delete(ctx context.Context, userID, projectID string) error {
	existing, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to find project: %w", err)
	}
	if existing == nil {
		return nil
	}
	if existing.OwnerID != userID {
		return model.NewProjectNotFoundError(projectID)
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.mu.Lock()
	list := s.snapshot[userID]
	for i, p := range list {
		if p.ID == projectID {
			s.snapshot[userID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	slog.Info("project deleted",
		slog.String("project_id", projectID),
		slog.String("user_id", userID),
	)

	return nil
}

// ToggleTask はプロジェクト内タスクの完了状態を反転し、永続化する。
func (s *Service) ToggleTask(ctx context.Context, userID, projectID, taskID string) (*model.Task, error) {
	if _, err := s.findOwned(ctx, userID, projectID); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByID(ctx, projectID, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task == nil {
		return nil, model.NewTaskNotFoundError(taskID)
	}

	task.Completed = !task.Completed
	if err := s.taskRepo.SetCompleted(ctx, projectID, taskID, task.Completed); err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}

	s.mu.Lock()
	for _, p := range s.snapshot[userID] {
		if p.ID == projectID {
			p.Tasks = model.ToggleTask(p.Tasks, taskID)
			break
		}
	}
	s.mu.Unlock()

	return task, nil
}

// findOwned は指定ユーザー所有のプロジェクトを取得する。
// 存在しない、または他ユーザー所有の場合はPROJECT_NOT_FOUNDを返す。
// 他ユーザーのリソースの存在を漏らさないため、両者は区別しない。
func (s *Service) findOwned(ctx context.Context, userID, projectID string) (*model.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if project == nil || project.OwnerID != userID {
		return nil, model.NewProjectNotFoundError(projectID)
	}
	return project, nil
}
