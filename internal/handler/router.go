package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/chatman/internal/metrics"
	"github.com/hitoshi/chatman/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Logger *slog.Logger

	// ミドルウェア依存
	SessionFinder middleware.SessionFinder
	UserFinder    middleware.UserFinder
	CSRFConfig    middleware.CSRFConfig

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// チャンネル・メッセージ
	ChannelService ChannelServiceInterface
	MessageService MessageServiceInterface

	// テンプレート
	Renderer *Renderer

	// 監視
	DB              Pinger
	Metrics         *metrics.Collector
	MetricsGatherer prometheus.Gatherer
}

// NewRouter は全ルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Logging → (保護ルートのみ: Session → CSRF)
//
// 認証ルート（/login, /callback）と監視ルート（/health, /metrics）は
// セッションゲートの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Metricsがnilのままインターフェースに包まれると型付きnilになるため明示的に変換する
	var httpMetrics middleware.HTTPMetricsRecorder
	var loginMetrics LoginMetricsRecorder
	if deps.Metrics != nil {
		httpMetrics = deps.Metrics
		loginMetrics = deps.Metrics
	}

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, httpMetrics))

	authHandler := NewAuthHandler(deps.AuthService, deps.Renderer, deps.AuthConfig, loginMetrics)
	channelHandler := NewChannelHandler(deps.ChannelService, deps.MessageService, deps.Renderer)
	healthHandler := NewHealthHandler(deps.DB)

	// --- 認証不要のルート ---

	r.Get("/", authHandler.Index)
	r.Get("/login", authHandler.Login)
	r.Get("/callback", authHandler.Callback)
	r.Get("/logout", authHandler.Logout)

	// 監視
	r.Get("/health", healthHandler.Check)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → CSRF
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder, deps.UserFinder))
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

		r.Get("/channel/", channelHandler.Index)
		r.Get("/channel/{name}/", channelHandler.Show)
		r.Post("/channel/{name}/", channelHandler.PostMessage)

		r.Get("/add-channel", channelHandler.AddChannel)
		r.Post("/add-channel", channelHandler.AddChannel)

		r.Get("/delete-message/{id}", channelHandler.DeleteMessage)
		r.Get("/delete-channel/{id}/", channelHandler.DeleteChannel)
	})

	return r
}
