// Package message はメッセージ投稿・閲覧のドメインロジックを提供する。
package message

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/chatman/internal/model"
	"github.com/hitoshi/chatman/internal/repository"
	"github.com/hitoshi/chatman/internal/security"
	"github.com/hitoshi/chatman/internal/view"
)

// ChannelFinder はチャンネル存在確認に必要なインターフェース。
// repository.ChannelRepositoryの部分集合として定義する。
type ChannelFinder interface {
	FindByName(ctx context.Context, name string) (*model.Channel, error)
}

// MetricsRecorder はメッセージ操作のメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordMessagePosted()
	RecordMessageDeleted()
}

// Service はメッセージ投稿・閲覧のサービス層。
type Service struct {
	messageRepo   repository.MessageRepository
	userRepo      repository.UserRepository
	channelFinder ChannelFinder
	sanitizer     security.ContentSanitizerService
	metrics       MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilを許容する。
func NewService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	channelFinder ChannelFinder,
	sanitizer security.ContentSanitizerService,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		messageRepo:   messageRepo,
		userRepo:      userRepo,
		channelFinder: channelFinder,
		sanitizer:     sanitizer,
		metrics:       metrics,
	}
}

// Post はメッセージを投稿する。
// 本文がトリム後に空の場合はEmptyContentエラーを返し、レコードを作成しない。
// 本文は保存前にサニタイズされ、送信時刻はサーバー側の現在UTC時刻が割り当てられる。
// クライアントから時刻を受け付けることはない。
func (s *Service) Post(ctx context.Context, channelName, authorID, content string) error {
	if strings.TrimSpace(content) == "" {
		return model.NewEmptyContentError()
	}

	sanitized := s.sanitizer.Sanitize(content)
	if strings.TrimSpace(sanitized) == "" {
		// マークアップのみの本文はサニタイズ後に空になる
		return model.NewEmptyContentError()
	}

	message := &model.Message{
		ID:          uuid.New().String(),
		ChannelName: channelName,
		Content:     sanitized,
		SentAt:      time.Now().UTC(),
		AuthorID:    authorID,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	slog.Info("message posted",
		slog.String("message_id", message.ID),
		slog.String("channel", channelName),
		slog.String("author_id", authorID),
	)
	if s.metrics != nil {
		s.metrics.RecordMessagePosted()
	}
	return nil
}

// ListViews は指定チャンネルのメッセージをsent_at昇順のビューモデルで返す。
// チャンネル名が存在しない場合はChannelNotFoundエラーを返す。
// 各メッセージの著者はメッセージごとに1回のルックアップで結合する。
// 著者が既に存在しないメッセージは警告ログを出してスキップする。
func (s *Service) ListViews(ctx context.Context, channelName string, now time.Time) ([]view.MessageView, error) {
	channel, err := s.channelFinder.FindByName(ctx, channelName)
	if err != nil {
		return nil, fmt.Errorf("failed to find channel: %w", err)
	}
	if channel == nil {
		return nil, model.NewChannelNotFoundError(channelName)
	}

	messages, err := s.messageRepo.ListByChannel(ctx, channelName)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	views := make([]view.MessageView, 0, len(messages))
	for _, m := range messages {
		author, err := s.userRepo.FindByID(ctx, m.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("failed to find author: %w", err)
		}
		if author == nil {
			// 著者が削除されたメッセージは表示から除外する
			slog.Warn("message author not found, skipping",
				slog.String("message_id", m.ID),
				slog.String("author_id", m.AuthorID),
			)
			continue
		}
		views = append(views, view.NewMessageView(m, author, now))
	}

	return views, nil
}

// Delete は指定IDのメッセージを無条件に削除する。
// 存在しないIDでもエラーにしない（冪等）。
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.messageRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	slog.Info("message deleted", slog.String("message_id", id))
	if s.metrics != nil {
		s.metrics.RecordMessageDeleted()
	}
	return nil
}
