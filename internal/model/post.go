package model

import "time"

// defaultPostImage は画像未設定の投稿に使用するデフォルト画像。
const defaultPostImage = "dog.png"

// summaryMaxRunes は投稿サマリーの最大文字数。
const summaryMaxRunes = 100

// Post はブログ投稿を表す。
// AuthorIDは作成時に一度だけ設定され、以後変更されない。
type Post struct {
	ID         string
	AuthorID   string
	AuthorName string
	Title      string
	Content    string
	Image      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Comment は投稿へのコメントを表す。
// AuthorIDは作成時に一度だけ設定され、以後変更されない。
type Comment struct {
	ID         string
	PostID     string
	AuthorID   string
	AuthorName string
	Content    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Summary は一覧表示用のサマリーを返す。
// 本文の先頭100文字を切り出し、それより長い場合は "..." を付与する。
func (p *Post) Summary() string {
	runes := []rune(p.Content)
	if len(runes) <= summaryMaxRunes {
		return p.Content
	}
	return string(runes[:summaryMaxRunes]) + "..."
}

// ImageOrDefault は画像が未設定の場合にデフォルト画像を返す。
func (p *Post) ImageOrDefault() string {
	if p.Image == "" {
		return defaultPostImage
	}
	return p.Image
}
