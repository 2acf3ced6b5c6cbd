// Package auth はメール+パスワード認証とセッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/tabiplan/internal/model"
	"github.com/hitoshi/tabiplan/internal/repository"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	identRepo   repository.IdentityRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	identRepo repository.IdentityRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:    userRepo,
		identRepo:   identRepo,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// Register は新規ユーザーを登録し、セッションを発行する。
// identityレコードとusersミラードキュメントを同一トランザクションで作成する。
// メールアドレスが登録済みの場合はEMAIL_TAKENを返す。
func (s *Service) Register(ctx context.Context, email, password, name string) (*model.Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, model.NewValidationError("メールアドレスは必須です。")
	}
	if err := ValidatePassword(password); err != nil {
		return nil, model.NewValidationError("パスワードは8文字以上で指定してください。")
	}

	existing, err := s.identRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find identity by email: %w", err)
	}
	if existing != nil {
		return nil, model.NewEmailTakenError(email)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	userID := uuid.New().String()
	now := time.Now()

	identity := &model.Identity{
		ID:           uuid.New().String(),
		UserID:       userID,
		Email:        email,
		PasswordHash: hash,
		DisplayName:  name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// usersドキュメントのIDは認証基盤のユーザーIDと1:1で一致させる
	user := &model.User{
		ID:        userID,
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.identRepo.CreateWithUser(ctx, identity, user); err != nil {
		return nil, fmt.Errorf("failed to create identity and user: %w", err)
	}

	slog.Info("new user registered",
		slog.String("user_id", userID),
		slog.String("email", email),
	)

	session, err := s.createSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// Login はメールアドレスとパスワードでログインし、セッションを発行する。
func (s *Service) Login(ctx context.Context, email, password string) (*model.Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	identity, err := s.identRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find identity by email: %w", err)
	}
	if identity == nil {
		return nil, model.NewUserNotFoundError()
	}

	ok, err := VerifyPassword(identity.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.NewWrongPasswordError()
	}

	session, err := s.createSession(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("user logged in", slog.String("user_id", identity.UserID))
	return session, nil
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// GetCurrentUser はセッションから現在のユーザーを取得する。
// セッションが無効・期限切れの場合はSESSION_EXPIREDを返す。
func (s *Service) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, model.NewUnauthorizedError()
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, model.NewSessionExpiredError()
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	return user, nil
}

// Reauthenticate は現在のパスワードでユーザーを再認証する。
// パスワード変更の前提条件として使用する。
func (s *Service) Reauthenticate(ctx context.Context, userID, currentPassword string) error {
	identity, err := s.identRepo.FindByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find identity: %w", err)
	}
	if identity == nil {
		return model.NewUserNotFoundError()
	}

	ok, err := VerifyPassword(identity.PasswordHash, currentPassword)
	if err != nil {
		return err
	}
	if !ok {
		return model.NewWrongPasswordError()
	}

	return nil
}

// UpdatePassword は現在のパスワードで再認証した上で新しいパスワードを設定する。
// パスワードは認証基盤にのみ保存され、usersドキュメントへはミラーされない。
// 成功時は当該ユーザーの全セッションを無効化し、再ログインを要求する。
func (s *Service) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return model.NewValidationError("新しいパスワードは8文字以上で指定してください。")
	}

	if err := s.Reauthenticate(ctx, userID, currentPassword); err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.identRepo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}

	// パスワード変更後は既存セッションをすべて破棄する
	if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to invalidate sessions: %w", err)
	}

	slog.Info("password updated", slog.String("user_id", userID))
	return nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, userID string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
