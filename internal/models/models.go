// Package models はアプリケーション全体で共有するデータモデルを定義します。
package models

import "time"

// User は登録済みユーザーを表します。
// PasswordHash は bcrypt ハッシュであり、平文パスワードは一切保持しません。
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AuthorRef はリソース作成時の作成者スナップショットです。
// 作成時に一度だけ設定され、以後変更されません（ユーザー名変更は過去の
// リソースへ遡及しない）。
type AuthorRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Campground はキャンプ場リソースを表します。
type Campground struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ImageURL    string    `json:"imageUrl"`
	Description string    `json:"description"`
	Author      AuthorRef `json:"author"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AuthorRef は作成者スナップショットを返します。
func (c *Campground) AuthorRef() AuthorRef { return c.Author }

// Comment はキャンプ場に紐づくコメントを表します。
// ちょうど1つの Campground に属します。
type Comment struct {
	ID           string    `json:"id"`
	CampgroundID string    `json:"campgroundId"`
	Text         string    `json:"text"`
	Author       AuthorRef `json:"author"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AuthorRef は作成者スナップショットを返します。
func (c *Comment) AuthorRef() AuthorRef { return c.Author }
