// Package profile はユーザープロフィール管理のビジネスロジックを提供する。
package profile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/tabiplan/internal/model"
	"github.com/hitoshi/tabiplan/internal/repository"
)

// PasswordChanger はパスワード変更のインターフェース。
// 実装は認証サービスが提供する。
type PasswordChanger interface {
	UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

// AvatarUploader は画像アップロードのインターフェース。
// data URL形式の画像を受け取り、公開URLを返す。
type AvatarUploader interface {
	UploadAvatar(ctx context.Context, dataURL string) (string, error)
}

// ProfileInput はプロフィール部分更新の入力を表す。
// nilのフィールドは変更しない。
type ProfileInput struct {
	Name     *string
	PhotoURL *string
}

// Service はプロフィールに関するビジネスロジックを提供する。
// プロフィールはusersミラードキュメントとidentityの両方に保持されるため、
// 更新時は両者へ書き込む。
type Service struct {
	userRepo  repository.UserRepository
	identRepo repository.IdentityRepository
	passwords PasswordChanger
	uploader  AvatarUploader
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	identRepo repository.IdentityRepository,
	passwords PasswordChanger,
	uploader AvatarUploader,
) *Service {
	return &Service{
		userRepo:  userRepo,
		identRepo: identRepo,
		passwords: passwords,
		uploader:  uploader,
	}
}

// Load は表示用プロフィールを返す。
// usersドキュメントの値を優先し、未設定のフィールドはidentityの値で補う。
// メールアドレスのみidentityの値を常に優先する（認証基盤が正）。
func (s *Service) Load(ctx context.Context, userID string) (*model.Profile, error) {
	identity, err := s.identRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}
	if identity == nil {
		return nil, model.NewUserNotFoundError()
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	profile := &model.Profile{
		UserID:      userID,
		DisplayName: identity.DisplayName,
		Email:       identity.Email,
		PhotoURL:    identity.PhotoURL,
	}
	if user != nil {
		if user.Name != "" {
			profile.DisplayName = user.Name
		}
		if user.PhotoURL != "" {
			profile.PhotoURL = user.PhotoURL
		}
	}

	return profile, nil
}

// UpdateProfile はプロフィールを部分更新する。
// nilのフィールドは変更されない。identityとusersドキュメントの両方へ書き込む。
func (s *Service) UpdateProfile(ctx context.Context, userID string, input ProfileInput) (*model.Profile, error) {
	if input.Name == nil && input.PhotoURL == nil {
		return s.Load(ctx, userID)
	}
	if input.Name != nil && *input.Name == "" {
		return nil, model.NewValidationError("表示名は必須です。")
	}

	identity, err := s.identRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}
	if identity == nil {
		return nil, model.NewUserNotFoundError()
	}

	if err := s.identRepo.UpdateProfileFields(ctx, userID, input.Name, input.PhotoURL); err != nil {
		return nil, fmt.Errorf("failed to update identity profile: %w", err)
	}
	if err := s.userRepo.UpdateFields(ctx, userID, input.Name, input.PhotoURL); err != nil {
		return nil, fmt.Errorf("failed to update user document: %w", err)
	}

	slog.Info("profile updated", slog.String("user_id", userID))

	return s.Load(ctx, userID)
}

// ChangePassword は現在のパスワードで再認証した上でパスワードを変更する。
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	return s.passwords.UpdatePassword(ctx, userID, currentPassword, newPassword)
}

// UploadAvatar はアバター画像をアップロードし、得られたURLをプロフィールに反映する。
// アップロード失敗時はプロフィールを変更しない。
func (s *Service) UploadAvatar(ctx context.Context, userID, dataURL string) (*model.Profile, error) {
	photoURL, err := s.uploader.UploadAvatar(ctx, dataURL)
	if err != nil {
		return nil, err
	}

	return s.UpdateProfile(ctx, userID, ProfileInput{PhotoURL: &photoURL})
}
