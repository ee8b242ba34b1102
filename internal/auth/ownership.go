package auth

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/camp-forge/internal/models"
)

var (
	// ErrUnauthenticated は匿名アイデンティティでの操作を表します。
	ErrUnauthenticated = errors.New("auth: unauthenticated")
	// ErrResourceNotFound は所有権判定対象のリソースが存在しないことを
	// 表します。ResourceFinder は対象不在をこのエラーで正規化します。
	ErrResourceNotFound = errors.New("auth: resource not found")
)

// ContextResourceKey は、所有者ゲートが取得したリソースをハンドラーへ
// 引き渡すためのキーです。ゲートとハンドラーで二重に読み込みません。
const ContextResourceKey = "auth.resource"

// OwnedResource は作成者スナップショットを持つリソースです。
type OwnedResource interface {
	AuthorRef() models.AuthorRef
}

// ResourceFinder はIDからリソースを1回だけ読み取ります。
// 対象不在は ErrResourceNotFound で表し、それ以外のエラーはストア障害
// として扱われます。
type ResourceFinder func(ctx context.Context, id string) (OwnedResource, error)

// ResourceFrom は所有者ゲートが取得したリソースを返します。
func ResourceFrom(c *gin.Context) OwnedResource {
	v, ok := c.Get(ContextResourceKey)
	if !ok {
		return nil
	}
	resource, ok := v.(OwnedResource)
	if !ok {
		return nil
	}
	return resource
}

// RequireOwner は、解決済みアイデンティティがリソースの作成者と一致する
// ことを要求するミドルウェアを返します。判定は作成者IDの値の等価比較で、
// 表示名やオブジェクト同一性は使いません。
//
// リソース不在（404）と所有権不一致（403）は呼び出し側が区別できるよう
// 別々の応答になります。取得したリソースはコンテキストに付与され、
// ゲートがリソースを変更することはありません。
func RequireOwner(param, notFoundCode, notFoundMessage string, find ResourceFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFrom(c)
		if identity.IsAnonymous() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHENTICATED",
				"message": "ログインが必要です",
			})
			return
		}

		resource, err := find(c.Request.Context(), c.Param(param))
		if err != nil {
			if errors.Is(err, ErrResourceNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
					"code":    notFoundCode,
					"message": notFoundMessage,
				})
				return
			}
			log.Printf("ownership check failed to fetch resource: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":    "STORAGE_FAILURE",
				"message": "サーバー内部でエラーが発生しました",
			})
			return
		}

		if resource.AuthorRef().ID != identity.UserID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    "NOT_OWNER",
				"message": "この操作を行う権限がありません",
			})
			return
		}

		c.Set(ContextResourceKey, resource)
		c.Next()
	}
}

// AttachAuthor は解決済みアイデンティティから作成者スナップショットを
// 作成します。リソース作成ハンドラーが作成時に一度だけ呼び出します。
// 匿名アイデンティティでは失敗します（作成ハンドラーは RequireLogin の
// 背後に置くこと）。
func AttachAuthor(identity Identity) (models.AuthorRef, error) {
	if identity.IsAnonymous() {
		return models.AuthorRef{}, ErrUnauthenticated
	}
	return models.AuthorRef{ID: identity.UserID, Username: identity.Username}, nil
}
