package auth

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	// SessionCookieName は署名付きセッションクッキーの名前です。
	SessionCookieName = "cf_session"

	sessionKeyToken = "session_token"
	sessionKeyCSRF  = "csrf_token"

	csrfHeader = "X-CSRF-Token"
)

// ContextIdentityKey は、解決済み Identity をリクエストコンテキストで
// 共有するためのキーです。リクエスト自身のデータにのみ付与され、
// プロセス全体の可変状態には置きません。
const ContextIdentityKey = "auth.identity"

// IdentityFrom はリクエストに付与された解決済み Identity を返します。
// ResolveIdentity ミドルウェアより前に呼ばれた場合は匿名を返します。
func IdentityFrom(c *gin.Context) Identity {
	v, ok := c.Get(ContextIdentityKey)
	if !ok {
		return Anonymous
	}
	identity, ok := v.(Identity)
	if !ok {
		return Anonymous
	}
	return identity
}

// ResolveIdentity はセッションクッキーのトークンを一度だけ解決し、
// 結果をリクエストコンテキストに付与するミドルウェアを返します。
// 後続のハンドラーとゲートは再解決せずにこの結果を使用します。
// ストア障害時は匿名にも認証済みにも倒さず、リクエストを打ち切ります。
func ResolveIdentity(manager *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get(sessionKeyToken).(string)

		identity, err := manager.Resolve(c.Request.Context(), token)
		if err != nil {
			log.Printf("identity resolution failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":    "STORAGE_FAILURE",
				"message": "サーバー内部でエラーが発生しました",
			})
			return
		}

		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

// RequireLogin はログイン済みであることを要求するミドルウェアを返します。
// 匿名の場合はハンドラーを実行せずに拒否します。リソースの参照は
// 行いません。
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IdentityFrom(c).IsAnonymous() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHENTICATED",
				"message": "ログインが必要です",
			})
			return
		}
		c.Next()
	}
}

// VerifyCSRF は X-CSRF-Token ヘッダーを検証するミドルウェアです。
// 安全なメソッド（GET など）は検証をスキップします。
func VerifyCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		session := sessions.Default(c)
		expected, ok := session.Get(sessionKeyCSRF).(string)
		if !ok || expected == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    "CSRF_MISSING",
				"message": "CSRF トークンが設定されていません",
			})
			return
		}

		received := c.GetHeader(csrfHeader)
		if subtle.ConstantTimeCompare([]byte(expected), []byte(received)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    "CSRF_INVALID",
				"message": "CSRF トークンが一致しません",
			})
			return
		}

		c.Next()
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
