// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// IDはGoogleのsubjectクレーム（不透明な文字列）をそのまま主キーとして使用する。
// 認証コールバックのたびにプロフィール情報で上書き保存（UPSERT）される。
type User struct {
	ID         string
	FirstName  string
	LastName   string
	Email      string
	PictureURL string
	LastLogin  time.Time
	CreatedAt  time.Time
}

// DisplayName は表示用のフルネームを返す。
func (u *User) DisplayName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Session はユーザーのログインセッションを表す。
// IDは暗号的に安全なランダム値で、ブラウザのHTTP Only Cookieに保持される。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
