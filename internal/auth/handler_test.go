package auth

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/camp-forge/internal/repositories/users"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	creds := NewCredentialStore(users.NewMemoryRepository())
	manager := NewSessionManager(NewMemoryTokenStore(), time.Hour)
	handler := NewHandler(creds, manager)

	router := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions(SessionCookieName, store))
	router.Use(ResolveIdentity(manager))

	router.POST("/auth/register", handler.Register)
	router.POST("/auth/login", handler.Login)
	router.POST("/auth/logout", RequireLogin(), VerifyCSRF(), handler.Logout)
	router.GET("/whoami", RequireLogin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": IdentityFrom(c).Username})
	})
	return router
}

type client struct {
	router  *gin.Engine
	cookies []*http.Cookie
	csrf    string
}

func (cl *client) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cl.cookies {
		req.AddCookie(c)
	}
	if cl.csrf != "" {
		req.Header.Set("X-CSRF-Token", cl.csrf)
	}

	rec := httptest.NewRecorder()
	cl.router.ServeHTTP(rec, req)

	if set := rec.Result().Cookies(); len(set) > 0 {
		cl.cookies = set
	}
	if token := rec.Header().Get("X-CSRF-Token"); token != "" {
		cl.csrf = token
	}
	return rec
}

func TestRegisterCreatesSession(t *testing.T) {
	cl := &client{router: newAuthRouter(t)}

	rec := cl.do(t, http.MethodPost, "/auth/register", `{"username":"alice","password":"pw1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
	if cl.csrf == "" {
		t.Fatal("expected CSRF token header")
	}

	// 登録直後からログイン状態です。
	rec = cl.do(t, http.MethodGet, "/whoami", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRegisterDuplicateReturnsConflict(t *testing.T) {
	cl := &client{router: newAuthRouter(t)}

	rec := cl.do(t, http.MethodPost, "/auth/register", `{"username":"alice","password":"pw1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	other := &client{router: cl.router}
	rec = other.do(t, http.MethodPost, "/auth/register", `{"username":"alice","password":"pw2"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestLoginWithWrongPassword(t *testing.T) {
	router := newAuthRouter(t)
	setup := &client{router: router}
	if rec := setup.do(t, http.MethodPost, "/auth/register", `{"username":"alice","password":"pw1"}`); rec.Code != http.StatusCreated {
		t.Fatalf("setup failed: %d", rec.Code)
	}

	cl := &client{router: router}
	rec := cl.do(t, http.MethodPost, "/auth/login", `{"username":"alice","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}

	// 未知のユーザーでも同じ応答コードです。
	rec = cl.do(t, http.MethodPost, "/auth/login", `{"username":"nobody","password":"pw1"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestLoginThenLogout(t *testing.T) {
	router := newAuthRouter(t)
	setup := &client{router: router}
	if rec := setup.do(t, http.MethodPost, "/auth/register", `{"username":"alice","password":"pw1"}`); rec.Code != http.StatusCreated {
		t.Fatalf("setup failed: %d", rec.Code)
	}

	cl := &client{router: router}
	rec := cl.do(t, http.MethodPost, "/auth/login", `{"username":"alice","password":"pw1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}

	rec = cl.do(t, http.MethodGet, "/whoami", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	rec = cl.do(t, http.MethodPost, "/auth/logout", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}

	// ログアウト後は匿名扱いに戻ります。
	rec = cl.do(t, http.MethodGet, "/whoami", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestLogoutRequiresCSRF(t *testing.T) {
	router := newAuthRouter(t)
	cl := &client{router: router}
	if rec := cl.do(t, http.MethodPost, "/auth/register", `{"username":"alice","password":"pw1"}`); rec.Code != http.StatusCreated {
		t.Fatalf("setup failed: %d", rec.Code)
	}

	cl.csrf = ""
	rec := cl.do(t, http.MethodPost, "/auth/logout", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestLoginRateLimit(t *testing.T) {
	router := newAuthRouter(t)
	setup := &client{router: router}
	if rec := setup.do(t, http.MethodPost, "/auth/register", `{"username":"alice","password":"pw1"}`); rec.Code != http.StatusCreated {
		t.Fatalf("setup failed: %d", rec.Code)
	}

	cl := &client{router: router}
	for i := 0; i < maxLoginAttempts; i++ {
		rec := cl.do(t, http.MethodPost, "/auth/login", `{"username":"alice","password":"wrong"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: unexpected status %d", i, rec.Code)
		}
	}

	rec := cl.do(t, http.MethodPost, "/auth/login", `{"username":"alice","password":"pw1"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}
