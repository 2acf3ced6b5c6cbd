// Package model はドメインモデルを定義する。
package model

import "time"

// User はユーザープロフィールのミラードキュメントを表す。
// IDはIdentityのUserIDと1:1で一致する。
type User struct {
	ID        string
	Email     string
	Name      string
	PhotoURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity は認証基盤側のユーザー情報を表す。
// メールアドレスとパスワードハッシュ、表示名・写真URLを保持する。
// パスワードハッシュはIdentityにのみ存在し、Userへはミラーされない。
type Identity struct {
	ID           string
	UserID       string
	Email        string
	PasswordHash string
	DisplayName  string
	PhotoURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session はユーザーのログインセッションを表す。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Profile はUserドキュメントとIdentityをマージした表示用プロフィール。
// フィールドの優先順位はprofileサービスが決定する。
type Profile struct {
	UserID      string
	DisplayName string
	Email       string
	PhotoURL    string
}
