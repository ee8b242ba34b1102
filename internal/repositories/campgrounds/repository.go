// Package campgrounds はキャンプ場の永続化を担うリポジトリを提供します。
package campgrounds

import (
	"context"
	"errors"

	"github.com/yourusername/camp-forge/internal/models"
)

// ErrNotFound は指定キャンプ場が存在しないことを表します。
var ErrNotFound = errors.New("campgrounds: not found")

// Repository はキャンプ場のCRUDを提供します。
type Repository interface {
	Create(ctx context.Context, camp *models.Campground) (*models.Campground, error)
	FindByID(ctx context.Context, id string) (*models.Campground, error)
	List(ctx context.Context) ([]*models.Campground, error)
	// Update は内容フィールドのみ更新します。Author は作成時から不変です。
	Update(ctx context.Context, camp *models.Campground) (*models.Campground, error)
	Delete(ctx context.Context, id string) error
}
