package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/camp-forge/internal/models"
)

var (
	loginWindow      = 15 * time.Minute
	lockDuration     = 10 * time.Minute
	maxLoginAttempts = 5
)

type attemptState struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// Handler は登録・ログイン・ログアウトのHTTPハンドラーをまとめた構造体です。
// ログイン試行はIP単位で回数制限されます。
type Handler struct {
	creds    *CredentialStore
	sessions *SessionManager

	lock     sync.Mutex
	attempts map[string]*attemptState
}

// NewHandler は Handler を作成します。
func NewHandler(creds *CredentialStore, sessions *SessionManager) *Handler {
	return &Handler{
		creds:    creds,
		sessions: sessions,
		attempts: make(map[string]*attemptState),
	}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register は POST /api/auth/register のハンドラーです。
// 登録成功時はそのままログイン状態になります（元の挙動を踏襲）。
func (h *Handler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "username と password を JSON で送ってください",
		})
		return
	}

	user, err := h.creds.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateUsername):
			c.JSON(http.StatusConflict, gin.H{
				"code":    "DUPLICATE_USERNAME",
				"message": "このユーザー名は既に使用されています",
			})
		case errors.Is(err, ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "ユーザー名とパスワードを入力してください",
			})
		default:
			log.Printf("user registration failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    "STORAGE_FAILURE",
				"message": "サーバー内部でエラーが発生しました",
			})
		}
		return
	}

	csrf, err := h.openSession(c, user.ID, user.Username)
	if err != nil {
		log.Printf("failed to open session after registration: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "SESSION_SAVE_FAILED",
			"message": "セッションの保存に失敗しました",
		})
		return
	}

	c.Header(csrfHeader, csrf)
	c.JSON(http.StatusCreated, gin.H{
		"id":       user.ID,
		"username": user.Username,
	})
}

// Login は POST /api/auth/login のハンドラーです。
func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "username と password を JSON で送ってください",
		})
		return
	}

	ip := c.ClientIP()
	if retryAfter := h.checkLock(ip); retryAfter > 0 {
		c.Header("Retry-After", strconv.FormatInt(int64(retryAfter.Seconds()), 10))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"code":    "TOO_MANY_ATTEMPTS",
			"message": "一定時間後に再度お試しください",
		})
		return
	}

	user, err := h.creds.Verify(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			remaining := h.recordFailure(ip)
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":              "INVALID_CREDENTIALS",
				"message":           "ユーザー名またはパスワードが正しくありません",
				"remainingAttempts": remaining,
			})
			return
		}
		log.Printf("credential verification failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "STORAGE_FAILURE",
			"message": "サーバー内部でエラーが発生しました",
		})
		return
	}

	h.resetAttempts(ip)

	csrf, err := h.openSession(c, user.ID, user.Username)
	if err != nil {
		log.Printf("failed to open session after login: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "SESSION_SAVE_FAILED",
			"message": "セッションの保存に失敗しました",
		})
		return
	}

	c.Header(csrfHeader, csrf)
	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
	})
}

// Logout は POST /api/auth/logout のハンドラーです。
// サーバー側の紐付けを即座に失効させてからクッキーを破棄します。
func (h *Handler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	token, _ := session.Get(sessionKeyToken).(string)

	if err := h.sessions.End(c.Request.Context(), token); err != nil {
		log.Printf("failed to end session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "STORAGE_FAILURE",
			"message": "サーバー内部でエラーが発生しました",
		})
		return
	}

	session.Clear()
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "SESSION_SAVE_FAILED",
			"message": "セッションの削除に失敗しました",
		})
		return
	}
	c.Status(http.StatusNoContent)
}

// openSession はサーバー側トークンを発行し、署名付きクッキーへトークンと
// CSRFトークンを保存します。発行したCSRFトークンを返します。
func (h *Handler) openSession(c *gin.Context, userID, username string) (string, error) {
	token, err := h.sessions.Start(c.Request.Context(), &models.User{ID: userID, Username: username})
	if err != nil {
		return "", err
	}

	csrf, err := generateCSRFToken()
	if err != nil {
		return "", err
	}

	session := sessions.Default(c)
	session.Set(sessionKeyToken, token)
	session.Set(sessionKeyCSRF, csrf)
	if err := session.Save(); err != nil {
		return "", fmt.Errorf("failed to save session cookie: %w", err)
	}
	return csrf, nil
}

func (h *Handler) checkLock(ip string) time.Duration {
	h.lock.Lock()
	defer h.lock.Unlock()

	state, ok := h.attempts[ip]
	if !ok {
		return 0
	}
	now := time.Now()
	if now.After(state.lockedUntil) {
		return 0
	}
	return time.Until(state.lockedUntil)
}

func (h *Handler) recordFailure(ip string) int {
	h.lock.Lock()
	defer h.lock.Unlock()

	now := time.Now()
	state, ok := h.attempts[ip]
	if !ok || now.Sub(state.firstAttempt) > loginWindow {
		state = &attemptState{firstAttempt: now}
		h.attempts[ip] = state
	}

	state.count++
	if state.count >= maxLoginAttempts {
		state.lockedUntil = now.Add(lockDuration)
		state.count = maxLoginAttempts
	}

	remaining := maxLoginAttempts - state.count
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

func (h *Handler) resetAttempts(ip string) {
	h.lock.Lock()
	defer h.lock.Unlock()
	delete(h.attempts, ip)
}

func generateCSRFToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
