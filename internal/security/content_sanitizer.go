// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService はユーザーが入力したメッセージ本文をサニタイズし、
// XSS攻撃などのセキュリティリスクから他の閲覧者を保護する。
// チャットメッセージはプレーンテキストとして扱うため、
// bluemondayのStrictPolicy（全タグ除去）を使用する。
package security

import (
	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService はメッセージ本文のサニタイズ機能のインターフェースを定義する。
// メッセージの保存前に使用される。
type ContentSanitizerService interface {
	// Sanitize はメッセージ本文からHTMLタグをすべて除去して返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// チャット本文はHTMLを許可しないため、StrictPolicy（許可タグなし）を使用する。
// scriptタグやon*イベント属性を含むあらゆるマークアップが除去される。
func NewContentSanitizer() *contentSanitizer {
	return &contentSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はメッセージ本文からHTMLタグをすべて除去して返す。
func (s *contentSanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}
