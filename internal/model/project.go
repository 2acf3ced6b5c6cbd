// Package model はドメインモデルを定義する。
package model

import "time"

// Project はユーザーが所有するプロジェクトを表す。
// OwnerIDは作成時に確定し、以後変更されない。
// Tasksは埋め込み型（プロジェクト保存時に一括永続化される）のタスク列。
// 子コレクション型のタスクはTaskとして別テーブルに保持される。
type Project struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	Date        string
	Progress    int
	Tasks       []Task
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectInput はプロジェクト作成・更新の入力を表す。
type ProjectInput struct {
	Name        string
	Description string
	Date        string
	Progress    int
	Tasks       []Task
}

// ProgressMin とProgressMax は進捗率の許容範囲。
const (
	ProgressMin = 0
	ProgressMax = 100
)

// Validate はプロジェクト入力の必須項目と進捗率の範囲を検証する。
// 不正な場合はVALIDATION_FAILEDのAPIErrorを返す。
func (in ProjectInput) Validate() error {
	if in.Name == "" {
		return NewValidationError("プロジェクト名は必須です。")
	}
	if in.Date == "" {
		return NewValidationError("日付は必須です。")
	}
	if in.Progress < ProgressMin || in.Progress > ProgressMax {
		return NewValidationError("進捗率は0〜100の範囲で指定してください。")
	}
	return nil
}
