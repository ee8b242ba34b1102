package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/camp-forge/internal/repositories/users"
)

func TestRegisterThenVerify(t *testing.T) {
	store := NewCredentialStore(users.NewMemoryRepository())
	ctx := context.Background()

	registered, err := store.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.NotEmpty(t, registered.ID)

	verified, err := store.Verify(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, verified.ID)
}

func TestRegisterNeverStoresPlaintext(t *testing.T) {
	repo := users.NewMemoryRepository()
	store := NewCredentialStore(repo)
	ctx := context.Background()

	const password = "super-secret-password"
	registered, err := store.Register(ctx, "alice", password)
	require.NoError(t, err)

	stored, err := repo.FindByID(ctx, registered.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.False(t, strings.Contains(stored.PasswordHash, password))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	store := NewCredentialStore(users.NewMemoryRepository())
	ctx := context.Background()

	first, err := store.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = store.Register(ctx, "alice", "pw2")
	require.ErrorIs(t, err, ErrDuplicateUsername)

	// 先に登録した資格情報は変更されていません。
	verified, err := store.Verify(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, verified.ID)
}

func TestRegisterCaseSensitiveUsername(t *testing.T) {
	store := NewCredentialStore(users.NewMemoryRepository())
	ctx := context.Background()

	_, err := store.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	// 大文字小文字は区別されるため別ユーザーとして登録できます。
	_, err = store.Register(ctx, "Alice", "pw2")
	require.NoError(t, err)
}

func TestRegisterRejectsEmptyInput(t *testing.T) {
	store := NewCredentialStore(users.NewMemoryRepository())
	ctx := context.Background()

	_, err := store.Register(ctx, "", "pw")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = store.Register(ctx, "alice", "")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestVerifyFailsUniformly(t *testing.T) {
	store := NewCredentialStore(users.NewMemoryRepository())
	ctx := context.Background()

	_, err := store.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	// ユーザー不在とパスワード不一致で同じエラーを返します。
	_, unknownErr := store.Verify(ctx, "nobody", "pw1")
	_, mismatchErr := store.Verify(ctx, "alice", "wrong")
	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, mismatchErr, ErrInvalidCredentials)
}
