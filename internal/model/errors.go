// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, channel, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnverifiedEmail = "UNVERIFIED_EMAIL"
	ErrCodeChannelNotFound = "CHANNEL_NOT_FOUND"
	ErrCodeEmptyContent    = "EMPTY_CONTENT"
	ErrCodeSessionInvalid  = "SESSION_INVALID"
	ErrCodeUserNotFound    = "USER_NOT_FOUND"
)

// NewUnverifiedEmailError はメールアドレス未検証エラーを生成する。
// コールバックでGoogleがemail_verifiedを返さない場合、セッションは確立されない。
func NewUnverifiedEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeUnverifiedEmail,
		Message:  "メールアドレスが利用できないか、Googleによって検証されていません。",
		Category: "auth",
		Action:   "Googleアカウントでメールアドレスを検証してから再度ログインしてください。",
	}
}

// NewChannelNotFoundError はチャンネル未検出エラーを生成する。
func NewChannelNotFoundError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeChannelNotFound,
		Message:  fmt.Sprintf("指定されたチャンネルが見つかりません: %s", name),
		Category: "channel",
		Action:   "チャンネル一覧から存在するチャンネルを選択してください。",
	}
}

// NewEmptyContentError は空メッセージエラーを生成する。
// ハンドラーはこのエラーをエラー表示ではなく同一チャンネルへのリダイレクトに変換する。
func NewEmptyContentError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyContent,
		Message:  "メッセージ本文が空です。",
		Category: "validation",
		Action:   "本文を入力してから送信してください。",
	}
}

// NewSessionInvalidError は無効セッションエラーを生成する。
// セッションが存在しないユーザーを参照している場合も匿名として扱う。
func NewSessionInvalidError() *APIError {
	return &APIError{
		Code:     ErrCodeSessionInvalid,
		Message:  "セッションが無効です。",
		Category: "auth",
		Action:   "再度ログインしてください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}
