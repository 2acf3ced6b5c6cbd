// Package security はアプリケーションのセキュリティ機能を提供する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService はユーザー入力テキストのサニタイズ機能のインターフェースを定義する。
// プロジェクト・旅行の説明文など、自由入力フィールドの保存前に使用される。
type TextSanitizerService interface {
	// Sanitize は入力テキストからHTMLタグをすべて除去したプレーンテキストを返す。
	// ストアに保存される説明文は書式を持たないため、許可タグはない。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(input string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのStrictPolicyを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyはすべてのHTML要素と属性を除去する。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力テキストからHTMLタグをすべて除去したプレーンテキストを返す。
// 前後の空白も取り除く。
func (s *textSanitizer) Sanitize(input string) string {
	if input == "" {
		return ""
	}
	return strings.TrimSpace(s.policy.Sanitize(input))
}

// compile-time interface check
var _ TextSanitizerService = (*textSanitizer)(nil)
