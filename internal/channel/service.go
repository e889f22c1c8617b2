// Package channel はチャンネル管理のドメインロジックを提供する。
package channel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/chatman/internal/model"
	"github.com/hitoshi/chatman/internal/repository"
)

// MetricsRecorder はチャンネル操作のメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordChannelCreated()
	RecordChannelDeleted()
}

// Service はチャンネル管理のサービス層。
type Service struct {
	channelRepo repository.ChannelRepository
	metrics     MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilを許容する。
func NewService(channelRepo repository.ChannelRepository, metrics MetricsRecorder) *Service {
	return &Service{
		channelRepo: channelRepo,
		metrics:     metrics,
	}
}

// List は全チャンネルを名前の昇順で返す。
// ページネーションは行わず、毎回全件をメモリに読み込む。
func (s *Service) List(ctx context.Context) ([]*model.Channel, error) {
	channels, err := s.channelRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	return channels, nil
}

// First はリスト順（名前昇順）で先頭のチャンネルを返す。
// チャンネルが1件も存在しない場合はnilを返し、呼び出し側は
// 空インデックス参照ではなく空状態ページの表示に切り替える。
func (s *Service) First(ctx context.Context) (*model.Channel, error) {
	channels, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		return nil, nil
	}
	return channels[0], nil
}

// Create はチャンネルを名前で冪等に作成する。
// 同名チャンネルが既に存在する場合は新規レコードを作らず既存チャンネルを返す。
// 名前の一意性はDBのユニーク制約で書き込み時に保証されるため、
// 並行作成でも重複行は生じない。
func (s *Service) Create(ctx context.Context, name string) (*model.Channel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("channel name is required")
	}

	existing, err := s.channelRepo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find channel: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	newChannel := &model.Channel{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.channelRepo.Create(ctx, newChannel); err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	// 並行作成でON CONFLICTにより挿入がスキップされた可能性があるため、
	// 確定した行を読み直して返す。
	created, err := s.channelRepo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to reload channel: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("channel disappeared after create: %s", name)
	}

	if created.ID == newChannel.ID {
		slog.Info("channel created",
			slog.String("channel_id", created.ID),
			slog.String("name", created.Name),
		)
		if s.metrics != nil {
			s.metrics.RecordChannelCreated()
		}
	}

	return created, nil
}

// Exists は指定名のチャンネルが存在するかを返す。
func (s *Service) Exists(ctx context.Context, name string) (bool, error) {
	channel, err := s.channelRepo.FindByName(ctx, name)
	if err != nil {
		return false, fmt.Errorf("failed to find channel: %w", err)
	}
	return channel != nil, nil
}

// Delete は指定IDのチャンネルを無条件に削除する。
// 存在しないIDでもエラーにしない。メッセージは削除されず、
// 同名チャンネルが再作成されない限り読み取り時に不可視になる。
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.channelRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete channel: %w", err)
	}

	slog.Info("channel deleted", slog.String("channel_id", id))
	if s.metrics != nil {
		s.metrics.RecordChannelDeleted()
	}
	return nil
}
