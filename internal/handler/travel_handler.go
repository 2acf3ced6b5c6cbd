package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/tabiplan/internal/middleware"
	"github.com/hitoshi/tabiplan/internal/model"
)

// TravelServiceInterface は旅行ハンドラーが必要とするサービスインターフェース。
type TravelServiceInterface interface {
	ListOwned(ctx context.Context, userID string) ([]*model.Travel, error)
	Create(ctx context.Context, userID string, input model.TravelInput) (*model.Travel, error)
	Delete(ctx context.Context, userID, travelID string) error
	ResolveLocation(ctx context.Context, query string) (*model.Coordinates, error)
}

// GeocodeMetrics はジオコーディング結果のメトリクス記録インターフェース。
type GeocodeMetrics interface {
	RecordGeocodeSuccess()
	RecordGeocodeFailure(reason string)
}

// TravelHandler は旅行管理のHTTPハンドラー。
type TravelHandler struct {
	service TravelServiceInterface
	metrics GeocodeMetrics
}

// NewTravelHandler はTravelHandlerを生成する。
func NewTravelHandler(service TravelServiceInterface, metrics GeocodeMetrics) *TravelHandler {
	return &TravelHandler{
		service: service,
		metrics: metrics,
	}
}

// travelRequest は旅行作成リクエストのボディ。
type travelRequest struct {
	Destination  string   `json:"destination"`
	Description  string   `json:"description"`
	Date         string   `json:"date"`
	LocationName string   `json:"location_name"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
}

// travelResponse は旅行情報のAPIレスポンス。
type travelResponse struct {
	ID           string    `json:"id"`
	Destination  string    `json:"destination"`
	Description  string    `json:"description"`
	Date         string    `json:"date"`
	LocationName string    `json:"location_name"`
	Lat          *float64  `json:"lat"`
	Lng          *float64  `json:"lng"`
	CreatedAt    time.Time `json:"created_at"`
}

// geocodeRequest は地名検索リクエストのボディ。
type geocodeRequest struct {
	Query string `json:"query"`
}

// geocodeResponse は地名検索のAPIレスポンス。
type geocodeResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ListTravels はログインユーザーの旅行一覧を返す。
// 取得失敗時はログに記録し、空の一覧を返す（一覧画面をエラーで塞がない）。
// GET /api/travels
func (h *TravelHandler) ListTravels(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	travels, err := h.service.ListOwned(r.Context(), userID)
	if err != nil {
		slog.Error("旅行一覧の取得に失敗しました",
			slog.String("error", err.Error()),
			slog.String("user_id", userID),
		)
		travels = nil
	}

	resp := make([]travelResponse, 0, len(travels))
	for _, t := range travels {
		resp = append(resp, toTravelResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateTravel は旅行を作成する。
// POST /api/travels
func (h *TravelHandler) CreateTravel(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req travelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	travel, err := h.service.Create(r.Context(), userID, model.TravelInput{
		Destination:  req.Destination,
		Description:  req.Description,
		Date:         req.Date,
		LocationName: req.LocationName,
		Lat:          req.Lat,
		Lng:          req.Lng,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTravelResponse(travel))
}

// DeleteTravel は旅行を削除する。
// DELETE /api/travels/:id
func (h *TravelHandler) DeleteTravel(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	travelID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, travelID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Geocode は地名検索クエリを座標に解決する。
// POST /api/geocode
func (h *TravelHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	var req geocodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	coords, err := h.service.ResolveLocation(r.Context(), req.Query)
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordGeocodeFailure(geocodeFailureReason(err))
		}
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordGeocodeSuccess()
	}

	writeJSON(w, http.StatusOK, geocodeResponse{
		Lat: coords.Lat,
		Lng: coords.Lng,
	})
}

// --- ヘルパー関数 ---

// geocodeFailureReason はジオコーディング失敗のメトリクス理由ラベルを決定する。
func geocodeFailureReason(err error) string {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case model.ErrCodeLocationNotFound:
			return "not_found"
		case model.ErrCodeValidationFailed:
			return "validation"
		}
	}
	return "transport"
}

// toTravelResponse はmodel.TravelからAPIレスポンスに変換する。
func toTravelResponse(t *model.Travel) travelResponse {
	return travelResponse{
		ID:           t.ID,
		Destination:  t.Destination,
		Description:  t.Description,
		Date:         t.Date,
		LocationName: t.LocationName,
		Lat:          t.Lat,
		Lng:          t.Lng,
		CreatedAt:    t.CreatedAt,
	}
}
