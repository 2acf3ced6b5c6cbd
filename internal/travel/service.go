// Package travel は旅行計画管理のビジネスロジックを提供する。
package travel

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

// Geocoder は地名から座標を解決するインターフェース。
type Geocoder interface {
	// Resolve は検索クエリに対する座標を返す。
	// 該当なしの場合はLOCATION_NOT_FOUNDを返す。
	Resolve(ctx context.Context, query string) (*model.Coordinates, error)
}

// Service は旅行に関するビジネスロジックを提供する。
// プロジェクトと同様、ユーザーごとの一覧スナップショットを保持する。
type Service struct {
	travelRepo repository.TravelRepository
	geocoder   Geocoder
	sanitizer  security.TextSanitizerService

	mu       sync.RWMutex
	snapshot map[string][]*model.Travel
}

// NewService はServiceを生成する。
func NewService(
	travelRepo repository.TravelRepository,
	geocoder Geocoder,
	sanitizer security.TextSanitizerService,
) *Service {
	return &Service{
		travelRepo: travelRepo,
		geocoder:   geocoder,
		sanitizer:  sanitizer,
		snapshot:   make(map[string][]*model.Travel),
	}
}

// ListOwned は指定ユーザーが所有する全旅行を返す。
// 取得結果でスナップショットを更新する。スナップショットは独立したコピーで保持し、
// 呼び出し側へ返したスライスと配列を共有しない。
// ストア読み取りに失敗した場合は、最後に同期したスナップショットを返す。
func (s *Service) ListOwned(ctx context.Context, userID string) ([]*model.Travel, error) {
	travels, err := s.travelRepo.ListByOwner(ctx, userID)
	if err != nil {
		snap, ok := s.readSnapshot(userID)
		if !ok {
			return nil, fmt.Errorf("failed to list travels: %w", err)
		}
		slog.Warn("failed to list travels; serving last synced snapshot",
			slog.String("error", err.Error()),
			slog.String("user_id", userID),
		)
		return snap, nil
	}
	if travels == nil {
		travels = []*model.Travel{}
	}

	s.mu.Lock()
	snap := make([]*model.Travel, len(travels))
	copy(snap, travels)
	s.snapshot[userID] = snap
	s.mu.Unlock()

	return travels, nil
}

// readSnapshot は指定ユーザーのスナップショットのコピーを返す。
// 一度も同期されていない場合はfalseを返す。
func (s *Service) readSnapshot(userID string) ([]*model.Travel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshot[userID]
	if !ok {
		return nil, false
	}
	out := make([]*model.Travel, len(snap))
	copy(out, snap)
	return out, true
}

// Create は旅行を新規作成する。
// 座標は入力で与えられた値をそのまま保存する（未ジオコーディングの場合はnil）。
func (s *Service) Create(ctx context.Context, userID string, input model.TravelInput) (*model.Travel, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	travel := &model.Travel{
		ID:           uuid.New().String(),
		OwnerID:      userID,
		Destination:  input.Destination,
		Description:  s.sanitizer.Sanitize(input.Description),
		Date:         input.Date,
		LocationName: input.LocationName,
		Lat:          input.Lat,
		Lng:          input.Lng,
		CreatedAt:    time.Now(),
	}

	if err := s.travelRepo.Create(ctx, travel); err != nil {
		return nil, fmt.Errorf("failed to create travel: %w", err)
	}

	s.mu.Lock()
	s.snapshot[userID] = append(s.snapshot[userID], travel)
	s.mu.Unlock()

	slog.Info("travel created",
		slog.String("travel_id", travel.ID),
		slog.String("user_id", userID),
		slog.String("destination", travel.Destination),
	)

	return travel, nil
}

// Delete は旅行を削除する。存在しないIDは成功として扱う（冪等）。
// 他ユーザー所有の旅行はTRAVEL_NOT_FOUNDを返す。
func (s *Service) Delete(ctx context.Context, userID, travelID string) error {
	existing, err := s.travelRepo.FindByID(ctx, travelID)
	if err != nil {
		return fmt.Errorf("failed to find travel: %w", err)
	}
	if existing == nil {
		return nil
	}
	if existing.OwnerID != userID {
		return model.NewTravelNotFoundError(travelID)
	}

	if err := s.travelRepo.Delete(ctx, travelID); err != nil {
		return fmt.Errorf("failed to delete travel: %w", err)
	}

	s.mu.Lock()
	list := s.snapshot[userID]
	for i, t := range list {
		if t.ID == travelID {
			s.snapshot[userID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	slog.Info("travel deleted",
		slog.String("travel_id", travelID),
		slog.String("user_id", userID),
	)

	return nil
}

// ResolveLocation は地名検索クエリを座標に解決する。
// 結果はクライアント側で旅行作成フォームに反映される想定のため、
// ここでは保存を行わない。
func (s *Service) ResolveLocation(ctx context.Context, query string) (*model.Coordinates, error) {
	return s.geocoder.Resolve(ctx, query)
}
