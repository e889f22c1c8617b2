package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/chatman/internal/model"
)

// PostgresMessageRepo はPostgreSQLを使用したメッセージリポジトリ。
type PostgresMessageRepo struct {
	db *sql.DB
}

// NewPostgresMessageRepo はPostgresMessageRepoを生成する。
func NewPostgresMessageRepo(db *sql.DB) *PostgresMessageRepo {
	return &PostgresMessageRepo{db: db}
}

// Create はメッセージを作成する。
func (r *PostgresMessageRepo) Create(ctx context.Context, message *model.Message) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, channel_name, content, sent_at, author_id)
		 VALUES ($1, $2, $3, $4, $5)`,
		message.ID, message.ChannelName, message.Content, message.SentAt, message.AuthorID,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListByChannel は指定チャンネル名のメッセージをsent_atの昇順で返す。
// 読者に見えるメッセージ順は挿入順ではなくsent_atのみで決まる。
func (r *PostgresMessageRepo) ListByChannel(ctx context.Context, channelName string) ([]*model.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, channel_name, content, sent_at, author_id
		 FROM messages
		 WHERE channel_name = $1
		 ORDER BY sent_at ASC`,
		channelName,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		message := &model.Message{}
		if err := rows.Scan(&message.ID, &message.ChannelName, &message.Content, &message.SentAt, &message.AuthorID); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate message rows: %w", err)
	}

	return messages, nil
}

// DeleteByID は指定IDのメッセージを削除する。存在しないIDでもエラーにしない（冪等）。
func (r *PostgresMessageRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM messages WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// compile-time interface check
var _ MessageRepository = (*PostgresMessageRepo)(nil)
