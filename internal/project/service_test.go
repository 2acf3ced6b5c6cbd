package project

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/tabiplan/internal/model"
)

// mockProjectRepository はProjectRepositoryのモック実装。
type mockProjectRepository struct {
	projects map[string]*model.Project
	order    []string
	listErr  error
}

func newMockProjectRepository() *mockProjectRepository {
	return &mockProjectRepository{projects: make(map[string]*model.Project)}
}

func (m *mockProjectRepository) ListByOwner(ctx context.Context, ownerID string) ([]*model.Project, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*model.Project
	for _, id := range m.order {
		if p, ok := m.projects[id]; ok && p.OwnerID == ownerID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockProjectRepository) FindByID(ctx context.Context, id string) (*model.Project, error) {
	return m.projects[id], nil
}

func (m *mockProjectRepository) Create(ctx context.Context, project *model.Project) error {
	m.projects[project.ID] = project
	m.order = append(m.order, project.ID)
	return nil
}

func (m *mockProjectRepository) Update(ctx context.Context, project *model.Project) error {
	m.projects[project.ID] = project
	return nil
}

func (m *mockProjectRepository) Delete(ctx context.Context, id string) error {
	delete(m.projects, id)
	return nil
}

// mockTaskRepository はTaskRepositoryのモック実装。
type mockTaskRepository struct {
	tasks map[string]map[string]*model.Task // projectID -> taskID -> task
}

func newMockTaskRepository() *mockTaskRepository {
	return &mockTaskRepository{tasks: make(map[string]map[string]*model.Task)}
}

func (m *mockTaskRepository) put(projectID string, task *model.Task) {
	if m.tasks[projectID] == nil {
		m.tasks[projectID] = make(map[string]*model.Task)
	}
	m.tasks[projectID][task.ID] = task
}

func (m *mockTaskRepository) ListByProject(ctx context.Context, projectID string) ([]*model.Task, error) {
	var result []*model.Task
	for _, t := range m.tasks[projectID] {
		result = append(result, t)
	}
	return result, nil
}

func (m *mockTaskRepository) FindByID(ctx context.Context, projectID, taskID string) (*model.Task, error) {
	if m.tasks[projectID] == nil {
		return nil, nil
	}
	t, ok := m.tasks[projectID][taskID]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (m *mockTaskRepository) Create(ctx context.Context, projectID string, task *model.Task) error {
	m.put(projectID, task)
	return nil
}

func (m *mockTaskRepository) UpdateName(ctx context.Context, projectID, taskID, name string) error {
	if t, ok := m.tasks[projectID][taskID]; ok {
		t.Name = name
	}
	return nil
}

func (m *mockTaskRepository) SetCompleted(ctx context.Context, projectID, taskID string, completed bool) error {
	if t, ok := m.tasks[projectID][taskID]; ok {
		t.Completed = completed
	}
	return nil
}

func (m *mockTaskRepository) Delete(ctx context.Context, projectID, taskID string) error {
	delete(m.tasks[projectID], taskID)
	return nil
}

// noopSanitizer はテスト用のサニタイザ。入力をそのまま返す。
type noopSanitizer struct{}

func (noopSanitizer) Sanitize(input string) string { return input }

func newTestService() (*Service, *mockProjectRepository, *mockTaskRepository) {
	projects := newMockProjectRepository()
	tasks := newMockTaskRepository()
	svc := NewService(projects, tasks, noopSanitizer{})
	return svc, projects, tasks
}

func TestCreate(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	project, err := svc.Create(ctx, "user-1", model.ProjectInput{
		Name:     "引っ越し準備",
		Date:     "2026-09-15",
		Progress: 0,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if project.ID == "" {
		t.Error("project ID is empty")
	}
	if project.OwnerID != "user-1" {
		t.Errorf("OwnerID = %s, want user-1", project.OwnerID)
	}
	if _, ok := repo.projects[project.ID]; !ok {
		t.Error("project was not persisted")
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name  string
		input model.ProjectInput
	}{
		{"name missing", model.ProjectInput{Date: "2026-09-15"}},
		{"date missing", model.ProjectInput{Name: "引っ越し準備"}},
		{"progress over 100", model.ProjectInput{Name: "引っ越し準備", Date: "2026-09-15", Progress: 101}},
		{"progress negative", model.ProjectInput{Name: "引っ越し準備", Date: "2026-09-15", Progress: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "user-1", tt.input)
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidationFailed {
				t.Errorf("Create() error = %v, want VALIDATION_FAILED", err)
			}
		})
	}
}

func TestListOwnedFiltersByOwner(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "user-1", model.ProjectInput{Name: "A", Date: "2026-09-01"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(ctx, "user-2", model.ProjectInput{Name: "B", Date: "2026-09-02"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	projects, err := svc.ListOwned(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListOwned() error = %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("len(projects) = %d, want 1", len(projects))
	}
	if projects[0].Name != "A" {
		t.Errorf("project name = %s, want A", projects[0].Name)
	}
}

func TestListOwnedServesSnapshotOnStoreFailure(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "user-1", model.ProjectInput{Name: "A", Date: "2026-09-01"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	created, err := svc.Create(ctx, "user-1", model.ProjectInput{Name: "B", Date: "2026-09-02"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.ListOwned(ctx, "user-1"); err != nil {
		t.Fatalf("ListOwned() error = %v", err)
	}

	// ストア障害時は最後に同期したスナップショットを返す
	repo.listErr = errors.New("connection refused")
	projects, err := svc.ListOwned(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListOwned() during store failure error = %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("len(projects) = %d, want 2", len(projects))
	}

	// 削除後はミラーとストアが同じ状態になる
	repo.listErr = nil
	if err := svc.Delete(ctx, "user-1", created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	repo.listErr = errors.New("connection refused")
	projects, err = svc.ListOwned(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListOwned() after delete error = %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("len(projects) after delete = %d, want 1", len(projects))
	}
	if projects[0].Name != "A" {
		t.Errorf("remaining project = %s, want A", projects[0].Name)
	}
}

func TestListOwnedStoreFailureWithoutSnapshot(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	// 一度も同期していない場合はエラーを返す
	repo.listErr = errors.New("connection refused")
	if _, err := svc.ListOwned(ctx, "user-1"); err == nil {
		t.Error("ListOwned() with no snapshot should return error")
	}
}

func TestDeleteDoesNotMutateReturnedList(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, "user-1", model.ProjectInput{Name: "A", Date: "2026-09-01"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(ctx, "user-1", model.ProjectInput{Name: "B", Date: "2026-09-02"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	listed, err := svc.ListOwned(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListOwned() error = %v", err)
	}

	// 返却済みスライスはスナップショットと配列を共有しないため、
	// 削除が呼び出し側の保持する一覧を書き換えない
	if err := svc.Delete(ctx, "user-1", first.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("len(listed) = %d, want 2", len(listed))
	}
	if listed[0].ID != first.ID {
		t.Errorf("listed[0].ID = %s, want %s", listed[0].ID, first.ID)
	}
}

func TestUpdateOwnership(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", model.ProjectInput{Name: "A", Date: "2026-09-01"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// 他ユーザーからの更新は存在しない扱い
	_, err = svc.Update(ctx, "user-2", created.ID, model.ProjectInput{Name: "奪取", Date: "2026-09-01"})
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeProjectNotFound {
		t.Errorf("Update() error = %v, want PROJECT_NOT_FOUND", err)
	}
}

func TestUpdate(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", model.ProjectInput{Name: "A", Date: "2026-09-01", Progress: 10})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := svc.Update(ctx, "user-1", created.ID, model.ProjectInput{
		Name:     "A改",
		Date:     "2026-09-02",
		Progress: 50,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Progress != 50 {
		t.Errorf("Progress = %d, want 50", updated.Progress)
	}
	if updated.OwnerID != "user-1" {
		t.Errorf("OwnerID = %s, want user-1", updated.OwnerID)
	}
	if repo.projects[created.ID].Name != "A改" {
		t.Errorf("persisted name = %s, want A改", repo.projects[created.ID].Name)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", model.ProjectInput{Name: "A", Date: "2026-09-01"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(ctx, "user-1", created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	// 2回目も成功する
	if err := svc.Delete(ctx, "user-1", created.ID); err != nil {
		t.Errorf("second Delete() error = %v", err)
	}
	// 存在しないIDも成功する
	if err := svc.Delete(ctx, "user-1", "no-such-id"); err != nil {
		t.Errorf("Delete() of unknown ID error = %v", err)
	}
}

func TestDeleteForeignProject(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", model.ProjectInput{Name: "A", Date: "2026-09-01"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err = svc.Delete(ctx, "user-2", created.ID)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeProjectNotFound {
		t.Errorf("Delete() error = %v, want PROJECT_NOT_FOUND", err)
	}
	if _, ok := repo.projects[created.ID]; !ok {
		t.Error("project was deleted by a foreign user")
	}
}

func TestToggleTask(t *testing.T) {
	svc, _, tasks := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", model.ProjectInput{Name: "A", Date: "2026-09-01"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	tasks.put(created.ID, &model.Task{ID: "task-1", Name: "荷造り", Completed: false})

	toggled, err := svc.ToggleTask(ctx, "user-1", created.ID, "task-1")
	if err != nil {
		t.Fatalf("ToggleTask() error = %v", err)
	}
	if !toggled.Completed {
		t.Error("task was not marked completed")
	}
	if !tasks.tasks[created.ID]["task-1"].Completed {
		t.Error("completion was not persisted")
	}

	again, err := svc.ToggleTask(ctx, "user-1", created.ID, "task-1")
	if err != nil {
		t.Fatalf("second ToggleTask() error = %v", err)
	}
	if again.Completed {
		t.Error("second toggle did not revert completion")
	}
}

func TestToggleTaskNotFound(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", model.ProjectInput{Name: "A", Date: "2026-09-01"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = svc.ToggleTask(ctx, "user-1", created.ID, "no-such-task")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeTaskNotFound {
		t.Errorf("ToggleTask() error = %v, want TASK_NOT_FOUND", err)
	}
}
