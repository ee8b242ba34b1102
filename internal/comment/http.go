package comment

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/camp-forge/internal/auth"
	"github.com/yourusername/camp-forge/internal/models"
)

// Creator は作成を提供します。
type Creator interface {
	Create(ctx context.Context, campgroundID string, author models.AuthorRef, input Input) (*models.Comment, error)
}

// Updater は更新を提供します。
type Updater interface {
	Update(ctx context.Context, id string, input Input) (*models.Comment, error)
}

// Deleter は削除を提供します。
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// CreateHandler は POST /api/campgrounds/:id/comments のハンドラーを
// 返します。RequireLogin の背後に配置します。
func CreateHandler(svc Creator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input Input
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "text は必須です",
			})
			return
		}

		author, err := auth.AttachAuthor(auth.IdentityFrom(c))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHENTICATED",
				"message": "ログインが必要です",
			})
			return
		}

		comment, err := svc.Create(c.Request.Context(), c.Param("id"), author, input)
		if err != nil {
			if errors.Is(err, ErrCampgroundNotFound) {
				c.JSON(http.StatusNotFound, gin.H{
					"code":    "CAMPGROUND_NOT_FOUND",
					"message": "指定されたキャンプ場は存在しません",
				})
				return
			}
			log.Printf("failed to create comment: %v", err)
			c.JSON(http.StatusInternalServerError, storageFailure())
			return
		}
		c.JSON(http.StatusCreated, gin.H{"comment": comment})
	}
}

// UpdateHandler は PUT /api/campgrounds/:id/comments/:commentId の
// ハンドラーを返します。RequireOwner の背後に配置します。
func UpdateHandler(svc Updater) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input Input
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "text は必須です",
			})
			return
		}

		comment, err := svc.Update(c.Request.Context(), c.Param("commentId"), input)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				c.JSON(http.StatusNotFound, notFound())
				return
			}
			log.Printf("failed to update comment: %v", err)
			c.JSON(http.StatusInternalServerError, storageFailure())
			return
		}
		c.JSON(http.StatusOK, gin.H{"comment": comment})
	}
}

// DeleteHandler は DELETE /api/campgrounds/:id/comments/:commentId の
// ハンドラーを返します。RequireOwner の背後に配置します。
func DeleteHandler(svc Deleter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("commentId")); err != nil {
			if errors.Is(err, ErrNotFound) {
				c.JSON(http.StatusNotFound, notFound())
				return
			}
			log.Printf("failed to delete comment: %v", err)
			c.JSON(http.StatusInternalServerError, storageFailure())
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func notFound() gin.H {
	return gin.H{
		"code":    "COMMENT_NOT_FOUND",
		"message": "指定されたコメントは存在しません",
	}
}

func storageFailure() gin.H {
	return gin.H{
		"code":    "STORAGE_FAILURE",
		"message": "サーバー内部でエラーが発生しました",
	}
}
