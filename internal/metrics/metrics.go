// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層やミドルウェアから利用する。
type MetricsCollector interface {
	RecordMessagePosted()
	RecordMessageDeleted()
	RecordChannelCreated()
	RecordChannelDeleted()
	RecordLogin()
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordSessionsCleaned(count int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	messagesPosted  prometheus.Counter
	messagesDeleted prometheus.Counter
	channelsCreated prometheus.Counter
	channelsDeleted prometheus.Counter
	logins          prometheus.Counter
	httpStatus      *prometheus.CounterVec
	requestLatency  prometheus.Histogram
	sessionsCleaned prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		messagesPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatman_messages_posted_total",
			Help: "投稿されたメッセージの合計数",
		}),
		messagesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatman_messages_deleted_total",
			Help: "削除されたメッセージの合計数",
		}),
		channelsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatman_channels_created_total",
			Help: "作成されたチャンネルの合計数",
		}),
		channelsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatman_channels_deleted_total",
			Help: "削除されたチャンネルの合計数",
		}),
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatman_logins_total",
			Help: "ログイン成功の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chatman_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		sessionsCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chatman_sessions_cleaned_total",
			Help: "クリーンアップで削除された期限切れセッションの合計数",
		}),
	}

	reg.MustRegister(
		c.messagesPosted,
		c.messagesDeleted,
		c.channelsCreated,
		c.channelsDeleted,
		c.logins,
		c.httpStatus,
		c.requestLatency,
		c.sessionsCleaned,
	)

	return c
}

// RecordMessagePosted はメッセージ投稿を記録する。
func (c *Collector) RecordMessagePosted() {
	c.messagesPosted.Inc()
}

// RecordMessageDeleted はメッセージ削除を記録する。
func (c *Collector) RecordMessageDeleted() {
	c.messagesDeleted.Inc()
}

// RecordChannelCreated はチャンネル作成を記録する。
func (c *Collector) RecordChannelCreated() {
	c.channelsCreated.Inc()
}

// RecordChannelDeleted はチャンネル削除を記録する。
func (c *Collector) RecordChannelDeleted() {
	c.channelsDeleted.Inc()
}

// RecordLogin はログイン成功を記録する。
func (c *Collector) RecordLogin() {
	c.logins.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordSessionsCleaned はクリーンアップされたセッション数を記録する。
func (c *Collector) RecordSessionsCleaned(count int) {
	c.sessionsCleaned.Add(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
