// Package comment はコメントリソースのサービスとHTTPハンドラーを提供します。
package comment

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

var (
	// ErrNotFound は対象コメントの不在を表します。
	ErrNotFound = comments.ErrNotFound
	// ErrCampgroundNotFound はコメント先キャンプ場の不在を表します。
	ErrCampgroundNotFound = campgrounds.ErrNotFound
)

// Input はコメントの作成・更新内容です。
type Input struct {
	Text string `json:"text" binding:"required"`
}

// Service はコメントのユースケースを実装します。
type Service struct {
	comments comments.Repository
	camps    campgrounds.Repository
}

// NewService は Service を作成します。
func NewService(commentRepo comments.Repository, camps campgrounds.Repository) *Service {
	return &Service{comments: commentRepo, camps: camps}
}

// Create はキャンプ場配下に新しいコメントを作成します。
// キャンプ場が存在しない場合は ErrCampgroundNotFound を返します。
func (s *Service) Create(ctx context.Context, campgroundID string, author models.AuthorRef, input Input) (*models.Comment, error) {
	if _, err := s.camps.FindByID(ctx, campgroundID); err != nil {
		if errors.Is(err, campgrounds.ErrNotFound) {
			return nil, ErrCampgroundNotFound
		}
		return nil, fmt.Errorf("failed to fetch campground: %w", err)
	}

	comment := &models.Comment{
		ID:           uuid.NewString(),
		CampgroundID: campgroundID,
		Text:         input.Text,
		Author:       author,
	}
	return s.comments.Create(ctx, comment)
}

// Update はコメント本文を更新します。作成者と所属キャンプ場は不変です。
func (s *Service) Update(ctx context.Context, id string, input Input) (*models.Comment, error) {
	comment := &models.Comment{ID: id, Text: input.Text}
	return s.comments.Update(ctx, comment)
}

// Delete はコメントを削除します。
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.comments.Delete(ctx, id)
}

// Finder は所有者ゲート用のリソース取得関数を返します。
func Finder(repo comments.Repository) auth.ResourceFinder {
	return func(ctx context.Context, id string) (auth.OwnedResource, error) {
		comment, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, comments.ErrNotFound) {
				return nil, auth.ErrResourceNotFound
			}
			return nil, err
		}
		return comment, nil
	}
}
