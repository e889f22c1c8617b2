// Package cleanup は期限切れセッションの自動削除ジョブを提供する。
// expires_atを過ぎたセッション行を定期バッチで削除する。
// 期限切れセッションは読み取り時点で既に無効として扱われるため、
// このジョブは行の物理削除のみを担当する。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ExpiredSessionDeleter は期限切れセッションの削除に必要なインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type ExpiredSessionDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// CleanupMetricsRecorder はクリーンアップ件数のメトリクス記録インターフェース。
type CleanupMetricsRecorder interface {
	RecordSessionsCleaned(count int)
}

// SessionCleanupJob は期限切れセッションの自動削除ジョブ。
// 定期実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type SessionCleanupJob struct {
	sessions ExpiredSessionDeleter
	logger   *slog.Logger
	metrics  CleanupMetricsRecorder
}

// NewSessionCleanupJob は新しいSessionCleanupJobを生成する。
// metricsはnilを許容する。
func NewSessionCleanupJob(sessions ExpiredSessionDeleter, logger *slog.Logger, metrics CleanupMetricsRecorder) *SessionCleanupJob {
	return &SessionCleanupJob{
		sessions: sessions,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run は期限切れセッションを1回削除する。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *SessionCleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	deletedCount, err := j.sessions.DeleteExpired(ctx)
	if err != nil {
		j.logger.Error("セッションクリーンアップジョブの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("セッションクリーンアップの実行に失敗: %w", err)
	}

	duration := time.Since(start)
	j.logger.Info("セッションクリーンアップジョブが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	if j.metrics != nil && deletedCount > 0 {
		j.metrics.RecordSessionsCleaned(int(deletedCount))
	}

	return nil
}

// Start は指定間隔でRunを繰り返し実行する。
// コンテキストがキャンセルされるまでブロックする。
// 個々の実行エラーはログに記録した上で次の周期へ継続する。
func (j *SessionCleanupJob) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("セッションクリーンアップワーカーを開始します",
		slog.String("interval", interval.String()),
	)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("セッションクリーンアップワーカーを停止します")
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				// Runの中でログ済み。次の周期へ継続する。
				continue
			}
		}
	}
}
