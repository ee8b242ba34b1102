// Package campground はキャンプ場リソースのサービスとHTTPハンドラーを
// 提供します。
package campground

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/yourusername/camp-forge/internal/auth"
	"github.com/yourusername/camp-forge/internal/models"
	"github.com/yourusername/camp-forge/internal/repositories/campgrounds"
	"github.com/yourusername/camp-forge/internal/repositories/comments"
)

// ErrNotFound は対象キャンプ場の不在を表します。
var ErrNotFound = campgrounds.ErrNotFound

// Scheduler はキャンプ場削除後のコメント一括削除ジョブを投入します。
type Scheduler interface {
	SchedulePurge(ctx context.Context, campgroundID string) error
}

// Input はキャンプ場の作成・更新内容です。
type Input struct {
	Name        string `json:"name" binding:"required"`
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description"`
}

// Service はキャンプ場のユースケースを実装します。
type Service struct {
	camps     campgrounds.Repository
	comments  comments.Repository
	scheduler Scheduler
}

// NewService は Service を作成します。scheduler は nil 可で、その場合
// コメントの一括削除は削除時に同期実行されます。
func NewService(camps campgrounds.Repository, commentRepo comments.Repository, scheduler Scheduler) *Service {
	return &Service{camps: camps, comments: commentRepo, scheduler: scheduler}
}

// List は全キャンプ場を新しい順で返します。
func (s *Service) List(ctx context.Context) ([]*models.Campground, error) {
	return s.camps.List(ctx)
}

// Get はキャンプ場とそのコメント一覧を返します。
func (s *Service) Get(ctx context.Context, id string) (*models.Campground, []*models.Comment, error) {
	camp, err := s.camps.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	list, err := s.comments.ListByCampground(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return camp, list, nil
}

// Create は作成者スナップショットを埋め込んだ新しいキャンプ場を作成します。
func (s *Service) Create(ctx context.Context, author models.AuthorRef, input Input) (*models.Campground, error) {
	camp := &models.Campground{
		ID:          uuid.NewString(),
		Name:        input.Name,
		ImageURL:    input.ImageURL,
		Description: input.Description,
		Author:      author,
	}
	return s.camps.Create(ctx, camp)
}

// Update は内容フィールドを更新します。作成者は変更されません。
func (s *Service) Update(ctx context.Context, id string, input Input) (*models.Campground, error) {
	camp := &models.Campground{
		ID:          id,
		Name:        input.Name,
		ImageURL:    input.ImageURL,
		Description: input.Description,
	}
	return s.camps.Update(ctx, camp)
}

// Delete はキャンプ場を削除し、配下コメントの一括削除を依頼します。
// ゲートの取得後に他のリクエストが先に削除していた場合は ErrNotFound を
// 返すだけで、それ以上の副作用はありません。
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.camps.Delete(ctx, id); err != nil {
		return err
	}

	if s.scheduler != nil {
		if err := s.scheduler.SchedulePurge(ctx, id); err != nil {
			return fmt.Errorf("failed to schedule comment purge: %w", err)
		}
		return nil
	}

	if _, err := s.comments.DeleteByCampground(ctx, id); err != nil {
		return fmt.Errorf("failed to purge comments: %w", err)
	}
	return nil
}

// Finder は所有者ゲート用のリソース取得関数を返します。
func Finder(repo campgrounds.Repository) auth.ResourceFinder {
	return func(ctx context.Context, id string) (auth.OwnedResource, error) {
		camp, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, campgrounds.ErrNotFound) {
				return nil, auth.ErrResourceNotFound
			}
			return nil, err
		}
		return camp, nil
	}
}
