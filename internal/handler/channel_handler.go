package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/chatman/internal/middleware"
	"github.com/hitoshi/chatman/internal/model"
	"github.com/hitoshi/chatman/internal/view"
)

// ChannelServiceInterface はチャンネルハンドラーが必要とするサービスインターフェース。
type ChannelServiceInterface interface {
	List(ctx context.Context) ([]*model.Channel, error)
	First(ctx context.Context) (*model.Channel, error)
	Create(ctx context.Context, name string) (*model.Channel, error)
	Delete(ctx context.Context, id string) error
}

// MessageServiceInterface はチャンネルハンドラーが必要とするメッセージサービスインターフェース。
type MessageServiceInterface interface {
	Post(ctx context.Context, channelName, authorID, content string) error
	ListViews(ctx context.Context, channelName string, now time.Time) ([]view.MessageView, error)
	Delete(ctx context.Context, id string) error
}

// ChannelHandler はチャンネル・メッセージ関連のHTTPハンドラー。
type ChannelHandler struct {
	channelService ChannelServiceInterface
	messageService MessageServiceInterface
	renderer       *Renderer
}

// NewChannelHandler はChannelHandlerを生成する。
func NewChannelHandler(channelService ChannelServiceInterface, messageService MessageServiceInterface, renderer *Renderer) *ChannelHandler {
	return &ChannelHandler{
		channelService: channelService,
		messageService: messageService,
		renderer:       renderer,
	}
}

// channelPageData はchannel.htmlテンプレートに渡すデータ。
type channelPageData struct {
	User           *model.User
	Channels       []*model.Channel
	CurrentChannel *model.Channel
	Messages       []view.MessageView
	CSRFToken      string
}

// emptyPageData はempty.htmlテンプレートに渡すデータ。
type emptyPageData struct {
	User      *model.User
	CSRFToken string
}

// Index はチャンネルインデックスを処理する。
// GET /channel/
// リスト順で先頭のチャンネルへリダイレクトする。
// チャンネルが1件もない場合は空状態ページをレンダリングする。
func (h *ChannelHandler) Index(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	first, err := h.channelService.First(r.Context())
	if err != nil {
		slog.Error("failed to get first channel", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if first == nil {
		data := emptyPageData{
			User:      user,
			CSRFToken: middleware.CSRFTokenFromContext(r.Context()),
		}
		if err := h.renderer.Render(w, "empty.html", data); err != nil {
			slog.Error("failed to render empty page", slog.String("error", err.Error()))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, channelPath(first.Name), http.StatusFound)
}

// Show はチャンネルページをレンダリングする。
// GET /channel/{name}/
// メッセージはsent_at昇順、チャンネル一覧は名前昇順で表示する。
func (h *ChannelHandler) Show(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	name := chi.URLParam(r, "name")

	messages, err := h.messageService.ListViews(r.Context(), name, time.Now().UTC())
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == "CHANNEL_NOT_FOUND" {
			http.Error(w, apiErr.Message, http.StatusNotFound)
			return
		}
		slog.Error("failed to list messages", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	channels, err := h.channelService.List(r.Context())
	if err != nil {
		slog.Error("failed to list channels", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var current *model.Channel
	for _, c := range channels {
		if c.Name == name {
			current = c
			break
		}
	}
	if current == nil {
		// ListViewsの後に削除された場合
		http.Error(w, "channel not found", http.StatusNotFound)
		return
	}

	data := channelPageData{
		User:           user,
		Channels:       channels,
		CurrentChannel: current,
		Messages:       messages,
		CSRFToken:      middleware.CSRFTokenFromContext(r.Context()),
	}
	if err := h.renderer.Render(w, "channel.html", data); err != nil {
		slog.Error("failed to render channel page", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// PostMessage はメッセージを投稿する。
// POST /channel/{name}/
// 空の本文はレコードを作成せず、同じチャンネルページへ戻すだけで成功扱いとする。
func (h *ChannelHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	name := chi.URLParam(r, "name")
	content := r.PostFormValue("content")

	if err := h.messageService.Post(r.Context(), name, user.ID, content); err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == "EMPTY_CONTENT" {
			// 空投稿はエラーページを出さずリダイレクトのみ
			http.Redirect(w, r, channelPath(name), http.StatusFound)
			return
		}
		slog.Error("failed to post message", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, channelPath(name), http.StatusFound)
}

// AddChannel はチャンネルを作成する。
// POST /add-channel（フォームフィールド: channel-name）
// 同名チャンネルが既に存在する場合は作成せず既存チャンネルへリダイレクトする。
// GETでアクセスされた場合は何もせずルートへ戻す。
func (h *ChannelHandler) AddChannel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	name := r.PostFormValue("channel-name")
	created, err := h.channelService.Create(r.Context(), name)
	if err != nil {
		slog.Warn("failed to create channel",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		http.Redirect(w, r, "/channel/", http.StatusFound)
		return
	}

	http.Redirect(w, r, channelPath(created.Name), http.StatusFound)
}

// DeleteMessage はメッセージを削除する。
// GET /delete-message/{id}?redirect={channel}
// 存在しないIDでもエラーにせず、元のチャンネルページへ戻す。
func (h *ChannelHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.messageService.Delete(r.Context(), id); err != nil {
		slog.Error("failed to delete message", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	redirect := r.URL.Query().Get("redirect")
	if redirect == "" {
		http.Redirect(w, r, "/channel/", http.StatusFound)
		return
	}
	http.Redirect(w, r, channelPath(redirect), http.StatusFound)
}

// DeleteChannel はチャンネルを削除する。
// GET /delete-channel/{id}/
// メッセージは削除されず、チャンネル自体のみが消える。
func (h *ChannelHandler) DeleteChannel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.channelService.Delete(r.Context(), id); err != nil {
		slog.Error("failed to delete channel", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// channelPath はチャンネルページのURLパスを返す。
// チャンネル名はURLエスケープする。
func channelPath(name string) string {
	return "/channel/" + url.PathEscape(name) + "/"
}
