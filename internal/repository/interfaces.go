// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"database/sql"

	"github.com/hitoshi/tabiplan/internal/model"
)

// UserRepository はユーザープロフィールのミラードキュメントの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// UpdateFields はname/photo_urlのうちnilでないフィールドのみを部分更新する。
	UpdateFields(ctx context.Context, id string, name, photoURL *string) error
}

// IdentityRepository は認証基盤側ユーザー情報の永続化インターフェース。
type IdentityRepository interface {
	// FindByEmail はメールアドレスでidentityを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.Identity, error)

	// FindByUserID はユーザーIDでidentityを検索する。見つからない場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.Identity, error)

	// CreateWithUser はidentityとusersミラードキュメントを同一トランザクションで作成する。
	CreateWithUser(ctx context.Context, identity *model.Identity, user *model.User) error

	// UpdateProfileFields はdisplay_name/photo_urlのうちnilでないフィールドのみを部分更新する。
	UpdateProfileFields(ctx context.Context, userID string, displayName, photoURL *string) error

	// UpdatePasswordHash はパスワードハッシュを更新する。
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// ProjectRepository はプロジェクトドキュメントの永続化インターフェース。
type ProjectRepository interface {
	// ListByOwner は指定ユーザーが所有する全プロジェクトを作成順で返す。
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Project, error)

	// FindByID は指定IDのプロジェクトを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Project, error)

	// Create はプロジェクトを作成する。
	Create(ctx context.Context, project *model.Project) error

	// Update はプロジェクトドキュメントを上書き更新する。owner_idも再設定される。
	Update(ctx context.Context, project *model.Project) error

	// Delete は指定IDのプロジェクトを削除する。存在しないIDは成功として扱う（冪等）。
	// 子コレクションのタスクはCASCADE削除される。
	Delete(ctx context.Context, id string) error
}

// TaskRepository は子コレクション型タスクの永続化インターフェース。
// projects/{id}/tasks パスに相当するproject_tasksテーブルを操作する。
type TaskRepository interface {
	// ListByProject は指定プロジェクトの全タスクを挿入順で返す。
	ListByProject(ctx context.Context, projectID string) ([]*model.Task, error)

	// FindByID は指定プロジェクト内の指定IDのタスクを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, projectID, taskID string) (*model.Task, error)

	// Create はタスクを作成する。
	Create(ctx context.Context, projectID string, task *model.Task) error

	// UpdateName はタスク名を変更する。
	UpdateName(ctx context.Context, projectID, taskID, name string) error

	// SetCompleted はタスクの完了フラグを設定する。
	SetCompleted(ctx context.Context, projectID, taskID string, completed bool) error

	// Delete は指定IDのタスクを削除する。存在しないIDは成功として扱う（冪等）。
	Delete(ctx context.Context, projectID, taskID string) error
}

// TravelRepository は旅行ドキュメントの永続化インターフェース。
type TravelRepository interface {
	// ListByOwner は指定ユーザーが所有する全旅行を作成順で返す。
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Travel, error)

	// FindByID は指定IDの旅行を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Travel, error)

	// Create は旅行を作成する。
	Create(ctx context.Context, travel *model.Travel) error

	// Delete は指定IDの旅行を削除する。存在しないIDは成功として扱う（冪等）。
	Delete(ctx context.Context, id string) error
}

// TxBeginner はトランザクション開始用のインターフェース。
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}
