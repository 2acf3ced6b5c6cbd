package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/tabiplan/internal/middleware"
	"github.com/hitoshi/tabiplan/internal/model"
)

// TaskServiceInterface はタスクハンドラーが必要とするサービスインターフェース。
type TaskServiceInterface interface {
	List(ctx context.Context, userID, projectID string) ([]*model.Task, error)
	Add(ctx context.Context, userID, projectID, name string) (*model.Task, error)
	Rename(ctx context.Context, userID, projectID, taskID, name string) (*model.Task, error)
	Toggle(ctx context.Context, userID, projectID, taskID string) (*model.Task, error)
	Delete(ctx context.Context, userID, projectID, taskID string) error
}

// TaskHandler はプロジェクト配下のタスク管理のHTTPハンドラー。
type TaskHandler struct {
	service TaskServiceInterface
}

// NewTaskHandler はTaskHandlerを生成する。
func NewTaskHandler(service TaskServiceInterface) *TaskHandler {
	return &TaskHandler{service: service}
}

// taskRequest はタスク作成・名前変更リクエストのボディ。
type taskRequest struct {
	Name string `json:"name"`
}

// ListTasks はプロジェクトのタスク一覧を返す。
// GET /api/projects/:id/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	projectID := chi.URLParam(r, "id")

	tasks, err := h.service.List(r.Context(), userID, projectID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, taskResponse{
			ID:        t.ID,
			Name:      t.Name,
			Completed: t.Completed,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddTask はタスクを追加する。
// POST /api/projects/:id/tasks
func (h *TaskHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	projectID := chi.URLParam(r, "id")

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	task, err := h.service.Add(r.Context(), userID, projectID, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, taskResponse{
		ID:        task.ID,
		Name:      task.Name,
		Completed: task.Completed,
	})
}

// RenameTask はタスク名を変更する。
// PATCH /api/projects/:id/tasks/:taskID
func (h *TaskHandler) RenameTask(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	projectID := chi.URLParam(r, "id")
	taskID := chi.URLParam(r, "taskID")

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	task, err := h.service.Rename(r.Context(), userID, projectID, taskID, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, taskResponse{
		ID:        task.ID,
		Name:      task.Name,
		Completed: task.Completed,
	})
}

// ToggleTask はタスクの完了状態を反転する。
// POST /api/projects/:id/tasks/:taskID/toggle
func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	projectID := chi.URLParam(r, "id")
	taskID := chi.URLParam(r, "taskID")

	task, err := h.service.Toggle(r.Context(), userID, projectID, taskID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, taskResponse{
		ID:        task.ID,
		Name:      task.Name,
		Completed: task.Completed,
	})
}

// DeleteTask はタスクを削除する。
// DELETE /api/projects/:id/tasks/:taskID
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	projectID := chi.URLParam(r, "id")
	taskID := chi.URLParam(r, "taskID")

	if err := h.service.Delete(r.Context(), userID, projectID, taskID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
