// Package auth は認証・認可機能を提供します。
// 資格情報の保存と検証、セッションによるアイデンティティの解決、
// ログイン必須ゲートと所有者ゲートをまとめています。
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/camp-forge/internal/models"
	"github.com/yourusername/camp-forge/internal/repositories/users"
)

var (
	// ErrDuplicateUsername は登録済みユーザー名での再登録を表します。
	ErrDuplicateUsername = errors.New("auth: duplicate username")
	// ErrInvalidCredentials は認証失敗を表します。
	// ユーザー不在とパスワード不一致を区別せず、同一のエラーを返します。
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrInvalidInput はユーザー名・パスワードの形式不正を表します。
	ErrInvalidInput = errors.New("auth: invalid username or password format")
)

// CredentialStore はユーザーごとのパスワードハッシュを管理します。
// ハッシュは bcrypt（ソルト内蔵）で、平文パスワードは保存しません。
type CredentialStore struct {
	users users.Repository
}

// NewCredentialStore は CredentialStore を作成します。
func NewCredentialStore(repo users.Repository) *CredentialStore {
	return &CredentialStore{users: repo}
}

// Register は新規ユーザーを作成します。ユーザー名の一意性は
// ストレージ層の制約で原子的に保証され、重複時は状態を変更せずに
// ErrDuplicateUsername を返します。
func (s *CredentialStore) Register(ctx context.Context, username, password string) (*models.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, users.ErrDuplicateUsername) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// Verify はユーザー名とパスワードを検証します。ユーザーが存在しない場合も
// ハッシュが一致しない場合も同じ ErrInvalidCredentials を返し、
// どちらであったかを漏らしません。検証は読み取りのみです。
func (s *CredentialStore) Verify(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
