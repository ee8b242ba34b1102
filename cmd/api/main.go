// Package main はAPIサーバーのエントリーポイントです。
package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"

	"github.com/yourusername/camp-forge/internal/auth"
	"github.com/yourusername/camp-forge/internal/campground"
	"github.com/yourusername/camp-forge/internal/comment"
	"github.com/yourusername/camp-forge/internal/config"
	"github.com/yourusername/camp-forge/internal/jobs"
	"github.com/yourusername/camp-forge/internal/repositories/campgrounds"
	"github.com/yourusername/camp-forge/internal/repositories/comments"
	"github.com/yourusername/camp-forge/internal/repositories/users"
	"github.com/yourusername/camp-forge/internal/storage"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	// リポジトリの初期化（DSN未設定ならインメモリ）
	var (
		userRepo    users.Repository
		campRepo    campgrounds.Repository
		commentRepo comments.Repository
	)
	if cfg.DatabaseDSN != "" {
		pg, err := storage.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer pg.Close()
		userRepo = pg.Users()
		campRepo = pg.Campgrounds()
		commentRepo = pg.Comments()
	} else {
		log.Printf("DATABASE_DSN is empty; using in-memory repositories")
		userRepo = users.NewMemoryRepository()
		campRepo = campgrounds.NewMemoryRepository()
		commentRepo = comments.NewMemoryRepository()
	}

	// セッション紐付けストアの初期化（URL未設定ならインメモリ）
	var tokenStore auth.TokenStore
	if cfg.SessionRedisURL != "" {
		opt, err := redis.ParseURL(cfg.SessionRedisURL)
		if err != nil {
			log.Fatalf("Failed to parse session redis url: %v", err)
		}
		tokenStore = auth.NewRedisTokenStore(redis.NewClient(opt))
	} else {
		log.Printf("SESSION_REDIS_URL is empty; using in-memory token store")
		tokenStore = auth.NewMemoryTokenStore()
	}

	lifetime := time.Duration(cfg.SessionLifetimeHours) * time.Hour
	sessionManager := auth.NewSessionManager(tokenStore, lifetime)

	// セッションストアの設定（クッキー署名鍵は release モードで必須）
	secret := cfg.SessionSecret
	if secret == "" {
		secret = "camp-forge-dev-secret"
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(lifetime.Seconds()),
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteStrictMode,
	})

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()
	router.Use(sessions.Sessions(auth.SessionCookieName, store))

	// CORSミドルウェアの設定
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
		"X-CSRF-Token", // CSRF保護用ヘッダー
	}
	// フロントエンドがレスポンスヘッダーから CSRF トークンを読み取れるように公開
	corsConfig.ExposeHeaders = []string{"X-CSRF-Token"}
	router.Use(cors.New(corsConfig))

	// 非同期ジョブの初期化（URL未設定なら同期削除にフォールバック）
	var scheduler campground.Scheduler
	if cfg.QueueRedisURL != "" {
		manager, err := jobs.NewManager(cfg.QueueRedisURL, commentRepo, log.Default())
		if err != nil {
			log.Fatalf("Failed to set up jobs: %v", err)
		}
		manager.StartWorkers()
		defer manager.Shutdown(context.Background())
		scheduler = manager
	} else {
		log.Printf("QUEUE_REDIS_URL is empty; comment purge runs synchronously")
	}

	// サービスとハンドラーの組み立て
	credStore := auth.NewCredentialStore(userRepo)
	authHandler := auth.NewHandler(credStore, sessionManager)
	campService := campground.NewService(campRepo, commentRepo, scheduler)
	commentService := comment.NewService(commentRepo, campRepo)

	setupRoutes(router, sessionManager, authHandler, campService, commentService, campRepo, commentRepo)

	// サーバーの起動
	addr := ":" + cfg.Port
	log.Printf("Starting API server on %s (mode: %s)", addr, cfg.GinMode)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "camp-forge-api",
		"version": "0.1.0",
	})
}

// setupRoutes は API グループとゲートの配線を行います。
// /api 配下の全リクエストは最初にセッションを一度だけ解決し、
// 解決結果を後続のゲートとハンドラーが共有します。
func setupRoutes(
	router *gin.Engine,
	sessionManager *auth.SessionManager,
	authHandler *auth.Handler,
	campService *campground.Service,
	commentService *comment.Service,
	campRepo campgrounds.Repository,
	commentRepo comments.Repository,
) {
	// まずは誰でも叩けるヘルスチェックを登録
	router.GET("/health", handleHealth)

	api := router.Group("/api")
	api.Use(auth.ResolveIdentity(sessionManager))
	{
		authRoutes := api.Group("/auth")
		{
			// 登録・ログイン時はセッション未生成なので CSRF 検証は不要
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout",
				auth.RequireLogin(),
				auth.VerifyCSRF(),
				authHandler.Logout,
			)
		}

		camps := api.Group("/campgrounds")
		{
			camps.GET("", campground.ListHandler(campService))
			camps.GET("/:id", campground.ShowHandler(campService))
			camps.POST("",
				auth.RequireLogin(),
				auth.VerifyCSRF(),
				campground.CreateHandler(campService),
			)

			campOwner := auth.RequireOwner("id",
				"CAMPGROUND_NOT_FOUND", "指定されたキャンプ場は存在しません",
				campground.Finder(campRepo))
			camps.GET("/:id/edit", campOwner, campground.EditHandler())
			camps.PUT("/:id", campOwner, auth.VerifyCSRF(), campground.UpdateHandler(campService))
			camps.DELETE("/:id", campOwner, auth.VerifyCSRF(), campground.DeleteHandler(campService))

			camps.POST("/:id/comments",
				auth.RequireLogin(),
				auth.VerifyCSRF(),
				comment.CreateHandler(commentService),
			)

			commentOwner := auth.RequireOwner("commentId",
				"COMMENT_NOT_FOUND", "指定されたコメントは存在しません",
				comment.Finder(commentRepo))
			camps.PUT("/:id/comments/:commentId", commentOwner, auth.VerifyCSRF(), comment.UpdateHandler(commentService))
			camps.DELETE("/:id/comments/:commentId", commentOwner, auth.VerifyCSRF(), comment.DeleteHandler(commentService))
		}
	}
}
