package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/chatman/internal/middleware"
	"github.com/hitoshi/chatman/internal/model"
	"github.com/hitoshi/chatman/internal/view"
)

type mockChannelService struct {
	listFunc   func(ctx context.Context) ([]*model.Channel, error)
	firstFunc  func(ctx context.Context) (*model.Channel, error)
	createFunc func(ctx context.Context, name string) (*model.Channel, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockChannelService) List(ctx context.Context) ([]*model.Channel, error) {
	return m.listFunc(ctx)
}

func (m *mockChannelService) First(ctx context.Context) (*model.Channel, error) {
	return m.firstFunc(ctx)
}

func (m *mockChannelService) Create(ctx context.Context, name string) (*model.Channel, error) {
	return m.createFunc(ctx, name)
}

func (m *mockChannelService) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

var _ ChannelServiceInterface = (*mockChannelService)(nil)

type mockMessageService struct {
	postFunc      func(ctx context.Context, channelName, authorID, content string) error
	listViewsFunc func(ctx context.Context, channelName string, now time.Time) ([]view.MessageView, error)
	deleteFunc    func(ctx context.Context, id string) error
}

func (m *mockMessageService) Post(ctx context.Context, channelName, authorID, content string) error {
	return m.postFunc(ctx, channelName, authorID, content)
}

func (m *mockMessageService) ListViews(ctx context.Context, channelName string, now time.Time) ([]view.MessageView, error) {
	return m.listViewsFunc(ctx, channelName, now)
}

func (m *mockMessageService) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

var _ MessageServiceInterface = (*mockMessageService)(nil)

func testUser() *model.User {
	return &model.User{ID: "sub-1", FirstName: "太郎", LastName: "山田"}
}

// authedRequest は認証済みユーザーをコンテキストに注入したリクエストを作る。
func authedRequest(method, target string, body *strings.Reader) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return req.WithContext(middleware.ContextWithUser(req.Context(), testUser()))
}

// withURLParam はchiのURLパラメータをリクエストコンテキストに設定する。
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// TestChannelIndex_RedirectsToFirstChannel はチャンネルインデックスが
// リスト順先頭のチャンネルへリダイレクトされることを検証する。
func TestChannelIndex_RedirectsToFirstChannel(t *testing.T) {
	channelService := &mockChannelService{
		firstFunc: func(_ context.Context) (*model.Channel, error) {
			return &model.Channel{ID: "ch-1", Name: "general"}, nil
		},
	}
	h := NewChannelHandler(channelService, &mockMessageService{}, newTestRenderer(t))

	req := authedRequest(http.MethodGet, "/channel/", nil)
	w := httptest.NewRecorder()

	h.Index(w, req)

	if w.Code != http.StatusFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusFound)
	}
	if loc := w.Header().Get("Location"); loc != "/channel/general/" {
		t.Errorf("Location = %q, want /channel/general/", loc)
	}
}

// TestChannelIndex_NoChannels_RendersEmptyState はチャンネルが1件もない場合に
// クラッシュせず空状態ページがレンダリングされることを検証する。
func TestChannelIndex_NoChannels_RendersEmptyState(t *testing.T) {
	channelService := &mockChannelService{
		firstFunc: func(_ context.Context) (*model.Channel, error) {
			return nil, nil
		},
	}
	h := NewChannelHandler(channelService, &mockMessageService{}, newTestRenderer(t))

	req := authedRequest(http.MethodGet, "/channel/", nil)
	w := httptest.NewRecorder()

	h.Index(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "add-channel") {
		t.Error("expected empty state page to contain add-channel form")
	}
}

// TestShow_RendersMessagesInOrder はチャンネルページにメッセージが
// 著者名・相対時刻つきで表示されることを検証する。
func TestShow_RendersMessagesInOrder(t *testing.T) {
	channelService := &mockChannelService{
		listFunc: func(_ context.Context) ([]*model.Channel, error) {
			return []*model.Channel{
				{ID: "ch-1", Name: "general"},
				{ID: "ch-2", Name: "random"},
			}, nil
		},
	}
	messageService := &mockMessageService{
		listViewsFunc: func(_ context.Context, channelName string, _ time.Time) ([]view.MessageView, error) {
			return []view.MessageView{
				{ID: "m1", ChannelName: channelName, Content: "こんにちは", SentAt: "3分前", AuthorFirstName: "太郎", AuthorLastName: "山田"},
				{ID: "m2", ChannelName: channelName, Content: "やあ", SentAt: "たった今", AuthorFirstName: "花子", AuthorLastName: "佐藤"},
			}, nil
		},
	}
	h := NewChannelHandler(channelService, messageService, newTestRenderer(t))

	req := authedRequest(http.MethodGet, "/channel/general/", nil)
	req = withURLParam(req, "name", "general")
	w := httptest.NewRecorder()

	h.Show(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	for _, want := range []string{"こんにちは", "やあ", "3分前", "たった今", "山田", "佐藤", "random"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}

	// メッセージはサービスが返した順で表示される
	if strings.Index(body, "こんにちは") > strings.Index(body, "やあ") {
		t.Error("expected messages in service order")
	}
}

// TestShow_UnknownChannel_Returns404 は存在しないチャンネルへのアクセスが
// 404になりメッセージ一覧が表示されないことを検証する。
func TestShow_UnknownChannel_Returns404(t *testing.T) {
	messageService := &mockMessageService{
		listViewsFunc: func(_ context.Context, channelName string, _ time.Time) ([]view.MessageView, error) {
			return nil, model.NewChannelNotFoundError(channelName)
		},
	}
	h := NewChannelHandler(&mockChannelService{}, messageService, newTestRenderer(t))

	req := authedRequest(http.MethodGet, "/channel/nonexistent/", nil)
	req = withURLParam(req, "name", "nonexistent")
	w := httptest.NewRecorder()

	h.Show(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// TestShow_EscapesMessageContent はメッセージ本文中のHTML特殊文字が
// エスケープされて出力されることを検証する。
func TestShow_EscapesMessageContent(t *testing.T) {
	channelService := &mockChannelService{
		listFunc: func(_ context.Context) ([]*model.Channel, error) {
			return []*model.Channel{{ID: "ch-1", Name: "general"}}, nil
		},
	}
	messageService := &mockMessageService{
		listViewsFunc: func(_ context.Context, channelName string, _ time.Time) ([]view.MessageView, error) {
			return []view.MessageView{
				{ID: "m1", ChannelName: channelName, Content: "a < b & c", SentAt: "たった今", AuthorFirstName: "太郎", AuthorLastName: "山田"},
			}, nil
		},
	}
	h := NewChannelHandler(channelService, messageService, newTestRenderer(t))

	req := authedRequest(http.MethodGet, "/channel/general/", nil)
	req = withURLParam(req, "name", "general")
	w := httptest.NewRecorder()

	h.Show(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "a &lt; b &amp; c") {
		t.Error("expected HTML special characters to be escaped")
	}
}

// TestPostMessage_RedirectsBackToChannel は投稿後に同じチャンネルページへ
// リダイレクトされることを検証する。
func TestPostMessage_RedirectsBackToChannel(t *testing.T) {
	var postedChannel, postedAuthor, postedContent string
	messageService := &mockMessageService{
		postFunc: func(_ context.Context, channelName, authorID, content string) error {
			postedChannel = channelName
			postedAuthor = authorID
			postedContent = content
			return nil
		},
	}
	h := NewChannelHandler(&mockChannelService{}, messageService, newTestRenderer(t))

	form := url.Values{}
	form.Set("content", "hello")
	req := authedRequest(http.MethodPost, "/channel/general/", strings.NewReader(form.Encode()))
	req = withURLParam(req, "name", "general")
	w := httptest.NewRecorder()

	h.PostMessage(w, req)

	if postedChannel != "general" || postedAuthor != "sub-1" || postedContent != "hello" {
		t.Errorf("posted (%q, %q, %q), want (general, sub-1, hello)", postedChannel, postedAuthor, postedContent)
	}
	if w.Code != http.StatusFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusFound)
	}
	if loc := w.Header().Get("Location"); loc != "/channel/general/" {
		t.Errorf("Location = %q, want /channel/general/", loc)
	}
}

// TestPostMessage_EmptyContent_RedirectsWithoutError は空本文の投稿が
// エラーページを出さずリダイレクトのみで完了することを検証する。
func TestPostMessage_EmptyContent_RedirectsWithoutError(t *testing.T) {
	messageService := &mockMessageService{
		postFunc: func(_ context.Context, _, _, _ string) error {
			return model.NewEmptyContentError()
		},
	}
	h := NewChannelHandler(&mockChannelService{}, messageService, newTestRenderer(t))

	form := url.Values{}
	form.Set("content", "   ")
	req := authedRequest(http.MethodPost, "/channel/general/", strings.NewReader(form.Encode()))
	req = withURLParam(req, "name", "general")
	w := httptest.NewRecorder()

	h.PostMessage(w, req)

	if w.Code != http.StatusFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusFound)
	}
	if loc := w.Header().Get("Location"); loc != "/channel/general/" {
		t.Errorf("Location = %q, want /channel/general/", loc)
	}
}

// TestAddChannel_Post_CreatesAndRedirects はチャンネル作成後に
// そのチャンネルページへリダイレクトされることを検証する。
func TestAddChannel_Post_CreatesAndRedirects(t *testing.T) {
	channelService := &mockChannelService{
		createFunc: func(_ context.Context, name string) (*model.Channel, error) {
			return &model.Channel{ID: "ch-new", Name: name}, nil
		},
	}
	h := NewChannelHandler(channelService, &mockMessageService{}, newTestRenderer(t))

	form := url.Values{}
	form.Set("channel-name", "random")
	req := authedRequest(http.MethodPost, "/add-channel", strings.NewReader(form.Encode()))
	w := httptest.NewRecorder()

	h.AddChannel(w, req)

	if w.Code != http.StatusFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusFound)
	}
	if loc := w.Header().Get("Location"); loc != "/channel/random/" {
		t.Errorf("Location = %q, want /channel/random/", loc)
	}
}

// TestAddChannel_Get_RedirectsToRoot はGETでのアクセスが何も作成せず
// ルートへリダイレクトされることを検証する。
func TestAddChannel_Get_RedirectsToRoot(t *testing.T) {
	channelService := &mockChannelService{
		createFunc: func(_ context.Context, name string) (*model.Channel, error) {
			t.Error("Create should not be called for GET")
			return nil, nil
		},
	}
	h := NewChannelHandler(channelService, &mockMessageService{}, newTestRenderer(t))

	req := authedRequest(http.MethodGet, "/add-channel", nil)
	w := httptest.NewRecorder()

	h.AddChannel(w, req)

	if w.Code != http.StatusFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusFound)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
}

// TestDeleteMessage_RedirectsToSourceChannel はメッセージ削除後に
// redirectクエリで指定されたチャンネルへ戻ることを検証する。
func TestDeleteMessage_RedirectsToSourceChannel(t *testing.T) {
	var deletedID string
	messageService := &mockMessageService{
		deleteFunc: func(_ context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	h := NewChannelHandler(&mockChannelService{}, messageService, newTestRenderer(t))

	req := authedRequest(http.MethodGet, "/delete-message/m1?redirect=general", nil)
	req = withURLParam(req, "id", "m1")
	w := httptest.NewRecorder()

	h.DeleteMessage(w, req)

	if deletedID != "m1" {
		t.Errorf("deleted ID = %q, want m1", deletedID)
	}
	if loc := w.Header().Get("Location"); loc != "/channel/general/" {
		t.Errorf("Location = %q, want /channel/general/", loc)
	}
}

// TestDeleteMessage_NonexistentID_StillRedirects は存在しないIDの削除でも
// エラーにならずリダイレクトされることを検証する。
func TestDeleteMessage_NonexistentID_StillRedirects(t *testing.T) {
	messageService := &mockMessageService{
		deleteFunc: func(_ context.Context, _ string) error {
			return nil
		},
	}
	h := NewChannelHandler(&mockChannelService{}, messageService, newTestRenderer(t))

	req := authedRequest(http.MethodGet, "/delete-message/no-such-id", nil)
	req = withURLParam(req, "id", "no-such-id")
	w := httptest.NewRecorder()

	h.DeleteMessage(w, req)

	if w.Code != http.StatusFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusFound)
	}
}

// TestDeleteChannel_RedirectsToRoot はチャンネル削除後にルートへ
// リダイレクトされることを検証する。
func TestDeleteChannel_RedirectsToRoot(t *testing.T) {
	var deletedID string
	channelService := &mockChannelService{
		deleteFunc: func(_ context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	h := NewChannelHandler(channelService, &mockMessageService{}, newTestRenderer(t))

	req := authedRequest(http.MethodGet, "/delete-channel/ch-1/", nil)
	req = withURLParam(req, "id", "ch-1")
	w := httptest.NewRecorder()

	h.DeleteChannel(w, req)

	if deletedID != "ch-1" {
		t.Errorf("deleted ID = %q, want ch-1", deletedID)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
}
