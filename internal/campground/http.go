package campground

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/camp-forge/internal/auth"
	"github.com/yourusername/camp-forge/internal/models"
)

// Lister は一覧取得を提供します。
type Lister interface {
	List(ctx context.Context) ([]*models.Campground, error)
}

// Getter は詳細取得を提供します。
type Getter interface {
	Get(ctx context.Context, id string) (*models.Campground, []*models.Comment, error)
}

// Creator は作成を提供します。
type Creator interface {
	Create(ctx context.Context, author models.AuthorRef, input Input) (*models.Campground, error)
}

// Updater は更新を提供します。
type Updater interface {
	Update(ctx context.Context, id string, input Input) (*models.Campground, error)
}

// Deleter は削除を提供します。
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// ListHandler は GET /api/campgrounds のハンドラーを返します。
func ListHandler(svc Lister) gin.HandlerFunc {
	return func(c *gin.Context) {
		camps, err := svc.List(c.Request.Context())
		if err != nil {
			log.Printf("failed to list campgrounds: %v", err)
			c.JSON(http.StatusInternalServerError, storageFailure())
			return
		}
		if camps == nil {
			camps = []*models.Campground{}
		}
		c.JSON(http.StatusOK, gin.H{"campgrounds": camps})
	}
}

// ShowHandler は GET /api/campgrounds/:id のハンドラーを返します。
func ShowHandler(svc Getter) gin.HandlerFunc {
	return func(c *gin.Context) {
		camp, commentList, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				c.JSON(http.StatusNotFound, notFound())
				return
			}
			log.Printf("failed to fetch campground: %v", err)
			c.JSON(http.StatusInternalServerError, storageFailure())
			return
		}
		if commentList == nil {
			commentList = []*models.Comment{}
		}
		c.JSON(http.StatusOK, gin.H{
			"campground": camp,
			"comments":   commentList,
		})
	}
}

// CreateHandler は POST /api/campgrounds のハンドラーを返します。
// RequireLogin の背後に配置します。
func CreateHandler(svc Creator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input Input
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "name は必須です",
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

		camp, err := svc.Create(c.Request.Context(), author, input)
		if err != nil {
			log.Printf("failed to create campground: %v", err)
			c.JSON(http.StatusInternalServerError, storageFailure())
			return
		}
		c.JSON(http.StatusCreated, gin.H{"campground": camp})
	}
}

// EditHandler は GET /api/campgrounds/:id/edit のハンドラーを返します。
// RequireOwner の背後に配置し、ゲートが取得済みのリソースをそのまま
// 返します（再読み込みしません）。
func EditHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		camp, ok := auth.ResourceFrom(c).(*models.Campground)
		if !ok {
			c.JSON(http.StatusInternalServerError, storageFailure())
			return
		}
		c.JSON(http.StatusOK, gin.H{"campground": camp})
	}
}

// UpdateHandler は PUT /api/campgrounds/:id のハンドラーを返します。
// RequireOwner の背後に配置します。
func UpdateHandler(svc Updater) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input Input
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "name は必須です",
			})
			return
		}

		camp, err := svc.Update(c.Request.Context(), c.Param("id"), input)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				c.JSON(http.StatusNotFound, notFound())
				return
			}
			log.Printf("failed to update campground: %v", err)
			c.JSON(http.StatusInternalServerError, storageFailure())
			return
		}
		c.JSON(http.StatusOK, gin.H{"campground": camp})
	}
}

// DeleteHandler は DELETE /api/campgrounds/:id のハンドラーを返します。
// RequireOwner の背後に配置します。ゲート通過後に他のリクエストが先に
// 削除していた場合は 404 を返すだけです。
func DeleteHandler(svc Deleter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			if errors.Is(err, ErrNotFound) {
				c.JSON(http.StatusNotFound, notFound())
				return
			}
			log.Printf("failed to delete campground: %v", err)
			c.JSON(http.StatusInternalServerError, storageFailure())
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func notFound() gin.H {
	return gin.H{
		"code":    "CAMPGROUND_NOT_FOUND",
		"message": "指定されたキャンプ場は存在しません",
	}
}

func storageFailure() gin.H {
	return gin.H{
		"code":    "STORAGE_FAILURE",
		"message": "サーバー内部でエラーが発生しました",
	}
}
