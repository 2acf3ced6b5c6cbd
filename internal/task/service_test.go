package task

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/tabiplan/internal/model"
)

// mockTaskRepository はTaskRepositoryのモック実装。
type mockTaskRepository struct {
	tasks   map[string][]*model.Task // projectID -> 挿入順のタスク列
	listErr error
}

func newMockTaskRepository() *mockTaskRepository {
	return &mockTaskRepository{tasks: make(map[string][]*model.Task)}
}

func (m *mockTaskRepository) ListByProject(ctx context.Context, projectID string) ([]*model.Task, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.tasks[projectID], nil
}

func (m *mockTaskRepository) FindByID(ctx context.Context, projectID, taskID string) (*model.Task, error) {
	for _, t := range m.tasks[projectID] {
		if t.ID == taskID {
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockTaskRepository) Create(ctx context.Context, projectID string, task *model.Task) error {
	m.tasks[projectID] = append(m.tasks[projectID], task)
	return nil
}

func (m *mockTaskRepository) UpdateName(ctx context.Context, projectID, taskID, name string) error {
	for _, t := range m.tasks[projectID] {
		if t.ID == taskID {
			t.Name = name
		}
	}
	return nil
}

func (m *mockTaskRepository) SetCompleted(ctx context.Context, projectID, taskID string, completed bool) error {
	for _, t := range m.tasks[projectID] {
		if t.ID == taskID {
			t.Completed = completed
		}
	}
	return nil
}

func (m *mockTaskRepository) Delete(ctx context.Context, projectID, taskID string) error {
	list := m.tasks[projectID]
	for i, t := range list {
		if t.ID == taskID {
			m.tasks[projectID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	return nil
}

// mockProjectRepository はProjectRepositoryのモック実装。
// タスク操作の所有権検証に必要なFindByIDのみ実データを持つ。
type mockProjectRepository struct {
	projects map[string]*model.Project
}

func newMockProjectRepository() *mockProjectRepository {
	return &mockProjectRepository{projects: make(map[string]*model.Project)}
}

func (m *mockProjectRepository) ListByOwner(ctx context.Context, ownerID string) ([]*model.Project, error) {
	return nil, nil
}

func (m *mockProjectRepository) FindByID(ctx context.Context, id string) (*model.Project, error) {
	return m.projects[id], nil
}

func (m *mockProjectRepository) Create(ctx context.Context, project *model.Project) error {
	m.projects[project.ID] = project
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

func newTestService() (*Service, *mockTaskRepository, *mockProjectRepository) {
	tasks := newMockTaskRepository()
	projects := newMockProjectRepository()
	projects.projects["proj-1"] = &model.Project{ID: "proj-1", OwnerID: "user-1", Name: "引っ越し準備"}
	svc := NewService(tasks, projects)
	return svc, tasks, projects
}

func TestAdd(t *testing.T) {
	svc, tasks, _ := newTestService()
	ctx := context.Background()

	task, err := svc.Add(ctx, "user-1", "proj-1", "荷造り")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if task.ID == "" {
		t.Error("task ID is empty")
	}
	if task.Completed {
		t.Error("new task should not be completed")
	}
	if len(tasks.tasks["proj-1"]) != 1 {
		t.Errorf("len(tasks) = %d, want 1", len(tasks.tasks["proj-1"]))
	}
}

func TestAddEmptyName(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Add(context.Background(), "user-1", "proj-1", "")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidationFailed {
		t.Errorf("Add() error = %v, want VALIDATION_FAILED", err)
	}
}

func TestAddForeignProject(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Add(context.Background(), "user-2", "proj-1", "荷造り")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeProjectNotFound {
		t.Errorf("Add() error = %v, want PROJECT_NOT_FOUND", err)
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	names := []string{"荷造り", "住所変更", "掃除"}
	for _, name := range names {
		if _, err := svc.Add(ctx, "user-1", "proj-1", name); err != nil {
			t.Fatalf("Add(%s) error = %v", name, err)
		}
	}

	list, err := svc.List(ctx, "user-1", "proj-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != len(names) {
		t.Fatalf("len(list) = %d, want %d", len(list), len(names))
	}
	for i, name := range names {
		if list[i].Name != name {
			t.Errorf("list[%d].Name = %s, want %s", i, list[i].Name, name)
		}
	}
}

func TestListServesSnapshotOnStoreFailure(t *testing.T) {
	svc, tasks, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Add(ctx, "user-1", "proj-1", "荷造り"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := svc.Add(ctx, "user-1", "proj-1", "住所変更"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := svc.List(ctx, "user-1", "proj-1"); err != nil {
		t.Fatalf("List() error = %v", err)
	}

	// ストア障害時は最後に同期したスナップショットを返す
	tasks.listErr = errors.New("connection refused")
	list, err := svc.List(ctx, "user-1", "proj-1")
	if err != nil {
		t.Fatalf("List() during outage error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(list) = %d, want 2", len(list))
	}
	if list[0].Name != "荷造り" {
		t.Errorf("list[0].Name = %s, want 荷造り", list[0].Name)
	}
}

func TestRename(t *testing.T) {
	svc, tasks, _ := newTestService()
	ctx := context.Background()

	task, err := svc.Add(ctx, "user-1", "proj-1", "荷造り")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	renamed, err := svc.Rename(ctx, "user-1", "proj-1", task.ID, "荷ほどき")
	if err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if renamed.Name != "荷ほどき" {
		t.Errorf("name = %s, want 荷ほどき", renamed.Name)
	}
	if tasks.tasks["proj-1"][0].Name != "荷ほどき" {
		t.Error("rename was not persisted")
	}
}

func TestRenameUnknownTask(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Rename(context.Background(), "user-1", "proj-1", "no-such-task", "新名称")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeTaskNotFound {
		t.Errorf("Rename() error = %v, want TASK_NOT_FOUND", err)
	}
}

func TestToggle(t *testing.T) {
	svc, tasks, _ := newTestService()
	ctx := context.Background()

	task, err := svc.Add(ctx, "user-1", "proj-1", "荷造り")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	toggled, err := svc.Toggle(ctx, "user-1", "proj-1", task.ID)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if !toggled.Completed {
		t.Error("task was not marked completed")
	}
	if !tasks.tasks["proj-1"][0].Completed {
		t.Error("completion was not persisted")
	}

	again, err := svc.Toggle(ctx, "user-1", "proj-1", task.ID)
	if err != nil {
		t.Fatalf("second Toggle() error = %v", err)
	}
	if again.Completed {
		t.Error("second toggle did not revert completion")
	}
}

func TestDeleteIdempotent(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	task, err := svc.Add(ctx, "user-1", "proj-1", "荷造り")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := svc.Delete(ctx, "user-1", "proj-1", task.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(ctx, "user-1", "proj-1", task.ID); err != nil {
		t.Errorf("second Delete() error = %v", err)
	}
}

func TestOperationsOnForeignProject(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	task, err := svc.Add(ctx, "user-1", "proj-1", "荷造り")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	var apiErr *model.APIError

	if _, err := svc.List(ctx, "user-2", "proj-1"); !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeProjectNotFound {
		t.Errorf("List() error = %v, want PROJECT_NOT_FOUND", err)
	}
	if _, err := svc.Toggle(ctx, "user-2", "proj-1", task.ID); !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeProjectNotFound {
		t.Errorf("Toggle() error = %v, want PROJECT_NOT_FOUND", err)
	}
	if err := svc.Delete(ctx, "user-2", "proj-1", task.ID); !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeProjectNotFound {
		t.Errorf("Delete() error = %v, want PROJECT_NOT_FOUND", err)
	}
}
