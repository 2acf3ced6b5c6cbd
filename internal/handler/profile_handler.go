package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/tabiplan/internal/middleware"
	"github.com/hitoshi/tabiplan/internal/model"
	"github.com/hitoshi/tabiplan/internal/profile"
)

// ProfileServiceInterface はプロフィールハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	Load(ctx context.Context, userID string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, userID string, input profile.ProfileInput) (*model.Profile, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	UploadAvatar(ctx context.Context, userID, dataURL string) (*model.Profile, error)
}

// UploadMetrics はアバターアップロード結果のメトリクス記録インターフェース。
type UploadMetrics interface {
	RecordAvatarUploadSuccess()
	RecordAvatarUploadFailure()
}

// ProfileHandler はプロフィール管理のHTTPハンドラー。
type ProfileHandler struct {
	service ProfileServiceInterface
	metrics UploadMetrics
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(service ProfileServiceInterface, metrics UploadMetrics) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		metrics: metrics,
	}
}

// updateProfileRequest はプロフィール部分更新リクエストのボディ。
// 省略されたフィールドは変更されない。
type updateProfileRequest struct {
	Name     *string `json:"name"`
	PhotoURL *string `json:"photo_url"`
}

// changePasswordRequest はパスワード変更リクエストのボディ。
type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// uploadAvatarRequest はアバターアップロードリクエストのボディ。
// 画像はdata URL形式で送信される。
type uploadAvatarRequest struct {
	Image string `json:"image"`
}

// profileResponse はプロフィール情報のAPIレスポンス。
type profileResponse struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// GetProfile はログインユーザーのプロフィールを返す。
// GET /api/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	p, err := h.service.Load(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(p))
}

// UpdateProfile はプロフィールを部分更新する。
// PATCH /api/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	p, err := h.service.UpdateProfile(r.Context(), userID, profile.ProfileInput{
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(p))
}

// ChangePassword は現在のパスワードで再認証した上でパスワードを変更する。
// PUT /api/profile/password
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if err := h.service.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadAvatar はアバター画像をアップロードしプロフィールに反映する。
// POST /api/profile/avatar
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req uploadAvatarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	p, err := h.service.UploadAvatar(r.Context(), userID, req.Image)
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordAvatarUploadFailure()
		}
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordAvatarUploadSuccess()
	}

	writeJSON(w, http.StatusOK, toProfileResponse(p))
}

// toProfileResponse はmodel.ProfileからAPIレスポンスに変換する。
func toProfileResponse(p *model.Profile) profileResponse {
	return profileResponse{
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		Email:       p.Email,
		PhotoURL:    p.PhotoURL,
	}
}
