package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/tabiplan/internal/middleware"
	"github.com/hitoshi/tabiplan/internal/model"
)

// ProjectServiceInterface はプロジェクトハンドラーが必要とするサービスインターフェース。
type ProjectServiceInterface interface {
	ListOwned(ctx context.Context, userID string) ([]*model.Project, error)
	Create(ctx context.Context, userID string, input model.ProjectInput) (*model.Project, error)
	Update(ctx context.Context, userID, projectID string, input model.ProjectInput) (*model.Project, error)
	Delete(ctx context.Context, userID, projectID string) error
}

// ProjectHandler はプロジェクト管理のHTTPハンドラー。
type ProjectHandler struct {
	service ProjectServiceInterface
}

// NewProjectHandler はProjectHandlerを生成する。
func NewProjectHandler(service ProjectServiceInterface) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// projectRequest はプロジェクト作成・更新リクエストのボディ。
type projectRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Date        string         `json:"date"`
	Progress    int            `json:"progress"`
	Tasks       []taskResponse `json:"tasks"`
}

// projectResponse はプロジェクト情報のAPIレスポンス。
type projectResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Date        string         `json:"date"`
	Progress    int            `json:"progress"`
	Tasks       []taskResponse `json:"tasks"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// taskResponse はタスク情報のAPIレスポンス。
type taskResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// ListProjects はログインユーザーのプロジェクト一覧を返す。
// 取得失敗時はログに記録し、空の一覧を返す（一覧画面をエラーで塞がない）。
// GET /api/projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	projects, err := h.service.ListOwned(r.Context(), userID)
	if err != nil {
		slog.Error("プロジェクト一覧の取得に失敗しました",
			slog.String("error", err.Error()),
			slog.String("user_id", userID),
		)
		projects = nil
	}

	resp := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		resp = append(resp, toProjectResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateProject はプロジェクトを作成する。
// POST /api/projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	project, err := h.service.Create(r.Context(), userID, toProjectInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProjectResponse(project))
}

// UpdateProject はプロジェクトを上書き更新する。
// PUT /api/projects/:id
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	projectID := chi.URLParam(r, "id")

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	project, err := h.service.Update(r.Context(), userID, projectID, toProjectInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectResponse(project))
}

// DeleteProject はプロジェクトを削除する。
// DELETE /api/projects/:id
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	projectID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, projectID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- ヘルパー関数 ---

// toProjectInput はリクエストボディからサービス入力に変換する。
func toProjectInput(req projectRequest) model.ProjectInput {
	tasks := make([]model.Task, 0, len(req.Tasks))
	for _, t := range req.Tasks {
		tasks = append(tasks, model.Task{
			ID:        t.ID,
			Name:      t.Name,
			Completed: t.Completed,
		})
	}
	return model.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Date:        req.Date,
		Progress:    req.Progress,
		Tasks:       tasks,
	}
}

// toProjectResponse はmodel.ProjectからAPIレスポンスに変換する。
func toProjectResponse(p *model.Project) projectResponse {
	tasks := make([]taskResponse, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		tasks = append(tasks, taskResponse{
			ID:        t.ID,
			Name:      t.Name,
			Completed: t.Completed,
		})
	}
	return projectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Date:        p.Date,
		Progress:    p.Progress,
		Tasks:       tasks,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
