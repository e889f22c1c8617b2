package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/chatman/internal/model"
)

// PostgresChannelRepo はPostgreSQLを使用したチャンネルリポジトリ。
type PostgresChannelRepo struct {
	db *sql.DB
}

// NewPostgresChannelRepo はPostgresChannelRepoを生成する。
func NewPostgresChannelRepo(db *sql.DB) *PostgresChannelRepo {
	return &PostgresChannelRepo{db: db}
}

// FindByName はチャンネル名でチャンネルを検索する。見つからない場合はnilを返す。
func (r *PostgresChannelRepo) FindByName(ctx context.Context, name string) (*model.Channel, error) {
	channel := &model.Channel{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM channels WHERE name = $1`,
		name,
	).Scan(&channel.ID, &channel.Name, &channel.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find channel by name: %w", err)
	}

	return channel, nil
}

// List は全チャンネルを名前の昇順で返す。ページネーションは行わない。
func (r *PostgresChannelRepo) List(ctx context.Context) ([]*model.Channel, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM channels ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	defer rows.Close()

	var channels []*model.Channel
	for rows.Next() {
		channel := &model.Channel{}
		if err := rows.Scan(&channel.ID, &channel.Name, &channel.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan channel row: %w", err)
		}
		channels = append(channels, channel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate channel rows: %w", err)
	}

	return channels, nil
}

// Create はチャンネルを作成する。
// 同名チャンネルが既に存在する場合はユニーク制約により何もしない。
// 並行する同名作成が重複行を生むことはない。
func (r *PostgresChannelRepo) Create(ctx context.Context, channel *model.Channel) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO channels (id, name, created_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO NOTHING`,
		channel.ID, channel.Name, channel.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create channel: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのチャンネルを削除する。
// 存在しないIDでもエラーにしない（冪等）。メッセージへのカスケードは行わない。
func (r *PostgresChannelRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM channels WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete channel: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ChannelRepository = (*PostgresChannelRepo)(nil)
