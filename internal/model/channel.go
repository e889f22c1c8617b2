// Package model はドメインモデルを定義する。
package model

import "time"

// Channel は名前付きのメッセージボードを表す。
// 名前は大文字小文字を区別し、DBのユニーク制約で一意性を保証する。
type Channel struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Message はチャンネルに投稿されたチャットメッセージを表す。
// ChannelNameは外部キーではなくチャンネル名の文字列を保持する。
// チャンネルが削除されてもメッセージ行は残り、読み取り時に不可視になるだけである。
type Message struct {
	ID          string
	ChannelName string
	Content     string
	SentAt      time.Time
	AuthorID    string
}
