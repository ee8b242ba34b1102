// Package comments はコメントの永続化を担うリポジトリを提供します。
package comments

import (
	"context"
	"errors"

	"github.com/yourusername/camp-forge/internal/models"
)

// ErrNotFound は指定コメントが存在しないことを表します。
var ErrNotFound = errors.New("comments: not found")

// Repository はコメントのCRUDを提供します。
type Repository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	FindByID(ctx context.Context, id string) (*models.Comment, error)
	ListByCampground(ctx context.Context, campgroundID string) ([]*models.Comment, error)
	// Update はテキストのみ更新します。Author と所属キャンプ場は不変です。
	Update(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	Delete(ctx context.Context, id string) error
	// DeleteByCampground はキャンプ場配下の全コメントを削除し、件数を返します。
	// 対象が存在しない場合は 0 件の正常終了です。
	DeleteByCampground(ctx context.Context, campgroundID string) (int64, error)
}
