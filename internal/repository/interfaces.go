// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/blogman/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByName は表示名でユーザーを検索する。見つからない場合はnilを返す。
	FindByName(ctx context.Context, name string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error
}

// PostRepository は投稿データの永続化インターフェース。
type PostRepository interface {
	// FindByID は指定IDの投稿を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Post, error)

	// ListByAuthor は指定ユーザーの投稿一覧を作成日時の降順で返す。
	ListByAuthor(ctx context.Context, authorID string) ([]*model.Post, error)

	// ListRecent は全ユーザーの投稿を作成日時の降順で最大limit件返す。
	ListRecent(ctx context.Context, limit int) ([]*model.Post, error)

	// Create は投稿を作成する。
	Create(ctx context.Context, post *model.Post) error

	// Update は投稿のタイトル・本文・更新日時を更新する。
	// author_idは作成時から変更しない。
	Update(ctx context.Context, post *model.Post) error

	// Delete は指定IDの投稿を削除する。
	// 削除された行数を返す。既に存在しない場合は0を返す。
	Delete(ctx context.Context, id string) (int64, error)
}

// CommentRepository はコメントデータの永続化インターフェース。
type CommentRepository interface {
	// FindByID は指定IDのコメントを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Comment, error)

	// ListByPost は指定投稿のコメント一覧を作成日時の降順で返す。
	ListByPost(ctx context.Context, postID string) ([]*model.Comment, error)

	// Create はコメントを作成する。
	Create(ctx context.Context, comment *model.Comment) error

	// Update はコメントの本文・更新日時を更新する。
	// author_idは作成時から変更しない。
	Update(ctx context.Context, comment *model.Comment) error

	// Delete は指定IDのコメントを削除する。
	// 削除された行数を返す。既に存在しない場合は0を返す。
	Delete(ctx context.Context, id string) (int64, error)
}
