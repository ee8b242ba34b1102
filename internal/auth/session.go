package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yourusername/camp-forge/internal/models"
)

const defaultSessionLifetime = 12 * time.Hour

// Identity はリクエストのセッショントークンから解決されたユーザーを表します。
// ゼロ値は匿名（未ログイン）です。
type Identity struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// Anonymous は未ログイン状態を表す Identity です。
var Anonymous = Identity{}

// IsAnonymous は未ログイン状態かどうかを返します。
func (id Identity) IsAnonymous() bool {
	return id.UserID == ""
}

// SessionManager は不透明トークンとユーザーの紐付けを管理します。
// 紐付けはサーバー側の TokenStore に有効期限付きで保存されるため、
// End による失効は即座に反映されます。
type SessionManager struct {
	tokens   TokenStore
	lifetime time.Duration
}

// NewSessionManager は SessionManager を作成します。
// lifetime が 0 以下の場合は既定値（12時間）を使用します。
func NewSessionManager(tokens TokenStore, lifetime time.Duration) *SessionManager {
	if lifetime <= 0 {
		lifetime = defaultSessionLifetime
	}
	return &SessionManager{tokens: tokens, lifetime: lifetime}
}

// Lifetime はセッションの有効期間を返します。
func (m *SessionManager) Lifetime() time.Duration {
	return m.lifetime
}

// Start はユーザーに紐づく新しい不透明トークンを発行します。
func (m *SessionManager) Start(ctx context.Context, user *models.User) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		return "", fmt.Errorf("failed to encode session binding: %w", err)
	}
	if err := m.tokens.Save(ctx, token, data, m.lifetime); err != nil {
		return "", fmt.Errorf("failed to save session binding: %w", err)
	}
	return token, nil
}

// Resolve はトークンからユーザーを解決します。トークンが空・未知・期限切れの
// 場合は匿名を返します。ストア障害は「未登録」と区別できるためエラーとして
// 返し、匿名にも認証済みにも倒しません。
func (m *SessionManager) Resolve(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Anonymous, nil
	}

	data, ok, err := m.tokens.Lookup(ctx, token)
	if err != nil {
		return Anonymous, fmt.Errorf("failed to look up session binding: %w", err)
	}
	if !ok {
		return Anonymous, nil
	}

	var identity Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		// 壊れた紐付けは無効として扱います。
		return Anonymous, nil
	}
	return identity, nil
}

// End はトークンの紐付けを即座に失効させます。
// 以後の Resolve は同じトークンに対して匿名を返します。
func (m *SessionManager) End(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.tokens.Delete(ctx, token)
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
