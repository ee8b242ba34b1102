// Package storage は永続化バックエンドの初期化を提供します。
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/yourusername/camp-forge/internal/migrations"
	"github.com/yourusername/camp-forge/internal/repositories/campgrounds"
	"github.com/yourusername/camp-forge/internal/repositories/comments"
	"github.com/yourusername/camp-forge/internal/repositories/users"
)

// Postgres は PostgreSQL 上のリポジトリ一式を束ねます。
type Postgres struct {
	db          *sql.DB
	users       users.Repository
	campgrounds campgrounds.Repository
	comments    comments.Repository
}

// Open は接続を開き、埋め込みマイグレーションを適用した上で
// リポジトリ一式を返します。
func Open(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &Postgres{
		db:          db,
		users:       users.NewPostgresRepository(db),
		campgrounds: campgrounds.NewPostgresRepository(db),
		comments:    comments.NewPostgresRepository(db),
	}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Conn は生の *sql.DB を返します。
func (p *Postgres) Conn() *sql.DB { return p.db }

// Users はユーザーリポジトリを返します。
func (p *Postgres) Users() users.Repository { return p.users }

// Campgrounds はキャンプ場リポジトリを返します。
func (p *Postgres) Campgrounds() campgrounds.Repository { return p.campgrounds }

// Comments はコメントリポジトリを返します。
func (p *Postgres) Comments() comments.Repository { return p.comments }

// Close は接続を閉じます。
func (p *Postgres) Close() error { return p.db.Close() }
