// Package users はユーザーの永続化を担うリポジトリを提供します。
package users

import (
	"context"
	"errors"

	"github.com/yourusername/camp-forge/internal/models"
)

var (
	// ErrNotFound は指定ユーザーが存在しないことを表します。
	ErrNotFound = errors.New("users: not found")
	// ErrDuplicateUsername はユーザー名の一意制約違反を表します。
	// 重複判定はストレージ層の制約で原子的に行われます。
	ErrDuplicateUsername = errors.New("users: duplicate username")
)

// Repository はユーザーの作成と検索を提供します。
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}
