// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/chatman/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// Upsert はユーザーをIDをキーに挿入または上書きする。
	// 認証コールバックのたびに呼ばれ、last_loginを含む全フィールドを更新する。
	Upsert(ctx context.Context, user *model.User) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteExpired は期限切れセッションをすべて削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// ChannelRepository はチャンネルデータの永続化インターフェース。
type ChannelRepository interface {
	// FindByName はチャンネル名でチャンネルを検索する。見つからない場合はnilを返す。
	FindByName(ctx context.Context, name string) (*model.Channel, error)

	// List は全チャンネルを名前の昇順で返す。
	List(ctx context.Context) ([]*model.Channel, error)

	// Create はチャンネルを作成する。
	// 同名チャンネルが既に存在する場合は何もしない（ON CONFLICT DO NOTHING）。
	Create(ctx context.Context, channel *model.Channel) error

	// DeleteByID は指定IDのチャンネルを削除する。存在しないIDでもエラーにしない。
	DeleteByID(ctx context.Context, id string) error
}

// MessageRepository はメッセージデータの永続化インターフェース。
type MessageRepository interface {
	// Create はメッセージを作成する。
	Create(ctx context.Context, message *model.Message) error

	// ListByChannel は指定チャンネル名のメッセージをsent_atの昇順で返す。
	ListByChannel(ctx context.Context, channelName string) ([]*model.Message, error)

	// DeleteByID は指定IDのメッセージを削除する。存在しないIDでもエラーにしない。
	DeleteByID(ctx context.Context, id string) error
}
