// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, project, travel, task, profile, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeEmailTaken       = "EMAIL_TAKEN"
	ErrCodeWrongPassword    = "WRONG_PASSWORD"
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodeSessionExpired   = "SESSION_EXPIRED"
	ErrCodeProjectNotFound  = "PROJECT_NOT_FOUND"
	ErrCodeTravelNotFound   = "TRAVEL_NOT_FOUND"
	ErrCodeTaskNotFound     = "TASK_NOT_FOUND"
	ErrCodeLocationNotFound = "LOCATION_NOT_FOUND"
	ErrCodeGeocodeFailed    = "GEOCODE_FAILED"
	ErrCodeUploadFailed     = "UPLOAD_FAILED"
	ErrCodeNetworkError     = "NETWORK_ERROR"
)

// NewValidationError は必須項目不足などの入力検証エラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  reason,
		Category: "validation",
		Action:   "入力内容を確認してから再度お試しください。",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  fmt.Sprintf("このメールアドレスは既に登録されています: %s", email),
		Category: "auth",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewWrongPasswordError はパスワード不一致エラーを生成する。
func NewWrongPasswordError() *APIError {
	return &APIError{
		Code:     ErrCodeWrongPassword,
		Message:  "現在のパスワードが正しくありません。",
		Category: "auth",
		Action:   "パスワードを確認してから再度お試しください。",
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewSessionExpiredError はセッション期限切れエラーを生成する。
func NewSessionExpiredError() *APIError {
	return &APIError{
		Code:     ErrCodeSessionExpired,
		Message:  "セッションの有効期限が切れました。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewProjectNotFoundError はプロジェクト未検出エラーを生成する。
// 他ユーザー所有のプロジェクトへのアクセスも同じエラーとして扱う。
func NewProjectNotFoundError(projectID string) *APIError {
	return &APIError{
		Code:     ErrCodeProjectNotFound,
		Message:  fmt.Sprintf("指定されたプロジェクトが見つかりません: %s", projectID),
		Category: "project",
		Action:   "プロジェクト一覧を再読み込みしてください。",
	}
}

// NewTravelNotFoundError は旅行未検出エラーを生成する。
func NewTravelNotFoundError(travelID string) *APIError {
	return &APIError{
		Code:     ErrCodeTravelNotFound,
		Message:  fmt.Sprintf("指定された旅行が見つかりません: %s", travelID),
		Category: "travel",
		Action:   "旅行一覧を再読み込みしてください。",
	}
}

// NewTaskNotFoundError はタスク未検出エラーを生成する。
func NewTaskNotFoundError(taskID string) *APIError {
	return &APIError{
		Code:     ErrCodeTaskNotFound,
		Message:  fmt.Sprintf("指定されたタスクが見つかりません: %s", taskID),
		Category: "task",
		Action:   "タスク一覧を再読み込みしてください。",
	}
}

// NewLocationNotFoundError はジオコーディング結果なしエラーを生成する。
func NewLocationNotFoundError(query string) *APIError {
	return &APIError{
		Code:     ErrCodeLocationNotFound,
		Message:  fmt.Sprintf("該当する場所が見つかりませんでした: %s", query),
		Category: "travel",
		Action:   "地名の表記を変えて再度検索してください。",
	}
}

// NewGeocodeFailedError はジオコーディングAPIの呼び出し失敗エラーを生成する。
func NewGeocodeFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeGeocodeFailed,
		Message:  fmt.Sprintf("場所の検索に失敗しました: %s", reason),
		Category: "travel",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewUploadFailedError は画像アップロード失敗エラーを生成する。
func NewUploadFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeUploadFailed,
		Message:  fmt.Sprintf("画像のアップロードに失敗しました: %s", reason),
		Category: "profile",
		Action:   "画像の形式とサイズを確認してから再度お試しください。",
	}
}

// NewNetworkError は外部サービスへの接続失敗エラーを生成する。
func NewNetworkError() *APIError {
	return &APIError{
		Code:     ErrCodeNetworkError,
		Message:  "接続エラーが発生しました。",
		Category: "system",
		Action:   "通信環境を確認してから再度お試しください。",
	}
}
