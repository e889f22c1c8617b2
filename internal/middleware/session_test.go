package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/chatman/internal/model"
)

type mockSessionFinder struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Session, error)
}

func (m *mockSessionFinder) FindByID(ctx context.Context, id string) (*model.Session, error) {
	return m.findByIDFunc(ctx, id)
}

var _ SessionFinder = (*mockSessionFinder)(nil)

type mockUserFinder struct {
	findByIDFunc func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserFinder) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.findByIDFunc(ctx, id)
}

var _ UserFinder = (*mockUserFinder)(nil)

func validSessionFinder(userID string) *mockSessionFinder {
	return &mockSessionFinder{
		findByIDFunc: func(_ context.Context, id string) (*model.Session, error) {
			return &model.Session{
				ID:        id,
				UserID:    userID,
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
	}
}

func knownUserFinder(user *model.User) *mockUserFinder {
	return &mockUserFinder{
		findByIDFunc: func(_ context.Context, id string) (*model.User, error) {
			if user != nil && id == user.ID {
				return user, nil
			}
			return nil, nil
		},
	}
}

// TestSessionMiddleware_ValidSession_InjectsUser は有効なセッションで
// ユーザーがコンテキストに注入されることを検証する。
func TestSessionMiddleware_ValidSession_InjectsUser(t *testing.T) {
	user := &model.User{ID: "sub-1", FirstName: "太郎", LastName: "山田"}
	mw := NewSessionMiddleware(validSessionFinder("sub-1"), knownUserFinder(user))

	var gotUser *model.User
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := UserFromContext(r.Context())
		if err != nil {
			t.Errorf("UserFromContext returned error: %v", err)
		}
		gotUser = u
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/channel/general/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-abc"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotUser == nil || gotUser.ID != "sub-1" {
		t.Errorf("injected user = %+v, want sub-1", gotUser)
	}
}

// TestSessionMiddleware_NoCookie_RedirectsToLogin はCookieなしのリクエストが
// ログインページへリダイレクトされることを検証する。
func TestSessionMiddleware_NoCookie_RedirectsToLogin(t *testing.T) {
	mw := NewSessionMiddleware(validSessionFinder("sub-1"), knownUserFinder(nil))

	called := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/channel/general/", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if called {
		t.Error("handler should not be called for unauthenticated request")
	}
	if w.Code != http.StatusFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusFound)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
}

// TestSessionMiddleware_UnknownSession_RedirectsToLogin は期限切れ・不明な
// セッションIDがクラッシュせずリダイレクトされることを検証する。
func TestSessionMiddleware_UnknownSession_RedirectsToLogin(t *testing.T) {
	finder := &mockSessionFinder{
		findByIDFunc: func(_ context.Context, _ string) (*model.Session, error) {
			return nil, nil
		},
	}
	mw := NewSessionMiddleware(finder, knownUserFinder(nil))

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/channel/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "stale-or-forged"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusFound)
	}
}

// TestSessionMiddleware_FinderError_RedirectsToLogin はセッション検索エラー時に
// 500ではなくリダイレクトされることを検証する。
func TestSessionMiddleware_FinderError_RedirectsToLogin(t *testing.T) {
	finder := &mockSessionFinder{
		findByIDFunc: func(_ context.Context, _ string) (*model.Session, error) {
			return nil, fmt.Errorf("db down")
		},
	}
	mw := NewSessionMiddleware(finder, knownUserFinder(nil))

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/channel/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-abc"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusFound)
	}
}

// TestSessionMiddleware_UserGone_RedirectsToLogin はセッションは有効だが
// ユーザーが存在しない場合にリダイレクトされることを検証する。
func TestSessionMiddleware_UserGone_RedirectsToLogin(t *testing.T) {
	mw := NewSessionMiddleware(validSessionFinder("sub-gone"), knownUserFinder(nil))

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/channel/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-abc"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusFound)
	}
}

// TestUserFromContext_NotSet はコンテキストにユーザーが未設定の場合に
// エラーを返すことを検証する。
func TestUserFromContext_NotSet(t *testing.T) {
	if _, err := UserFromContext(context.Background()); err == nil {
		t.Error("expected error for missing user in context")
	}
}

// TestContextWithUser_RoundTrip はContextWithUserで注入したユーザーが
// UserFromContextで取得できることを検証する。
func TestContextWithUser_RoundTrip(t *testing.T) {
	user := &model.User{ID: "sub-1"}
	ctx := ContextWithUser(context.Background(), user)

	got, err := UserFromContext(ctx)
	if err != nil {
		t.Fatalf("UserFromContext returned error: %v", err)
	}
	if got.ID != "sub-1" {
		t.Errorf("user ID = %q, want sub-1", got.ID)
	}
}
