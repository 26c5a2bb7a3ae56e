package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/blogman/internal/model"
)

// PostgresPostRepo はPostgreSQLを使用した投稿リポジトリ。
type PostgresPostRepo struct {
	db *sql.DB
}

// NewPostgresPostRepo はPostgresPostRepoを生成する。
func NewPostgresPostRepo(db *sql.DB) *PostgresPostRepo {
	return &PostgresPostRepo{db: db}
}

// FindByID は指定IDの投稿を取得する。見つからない場合はnilを返す。
func (r *PostgresPostRepo) FindByID(ctx context.Context, id string) (*model.Post, error) {
	post := &model.Post{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, author_id, author_name, title, content, image, created_at, updated_at
		 FROM posts WHERE id = $1`,
		id,
	).Scan(&post.ID, &post.AuthorID, &post.AuthorName, &post.Title, &post.Content,
		&post.Image, &post.CreatedAt, &post.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post by ID: %w", err)
	}

	return post, nil
}

// ListByAuthor は指定ユーザーの投稿一覧を作成日時の降順で返す。
func (r *PostgresPostRepo) ListByAuthor(ctx context.Context, authorID string) ([]*model.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, author_id, author_name, title, content, image, created_at, updated_at
		 FROM posts WHERE author_id = $1
		 ORDER BY created_at DESC`,
		authorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by author: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// ListRecent は全ユーザーの投稿を作成日時の降順で最大limit件返す。
func (r *PostgresPostRepo) ListRecent(ctx context.Context, limit int) ([]*model.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, author_id, author_name, title, content, image, created_at, updated_at
		 FROM posts
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// Create は投稿を作成する。
func (r *PostgresPostRepo) Create(ctx context.Context, post *model.Post) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, author_id, author_name, title, content, image, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		post.ID, post.AuthorID, post.AuthorName, post.Title, post.Content,
		post.Image, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// Update は投稿のタイトル・本文・更新日時を更新する。
// author_idは作成時から変更しない。
func (r *PostgresPostRepo) Update(ctx context.Context, post *model.Post) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE posts SET title = $1, content = $2, updated_at = $3 WHERE id = $4`,
		post.Title, post.Content, post.UpdatedAt, post.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return nil
}

// Delete は指定IDの投稿を削除する。削除された行数を返す。
func (r *PostgresPostRepo) Delete(ctx context.Context, id string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM posts WHERE id = $1`,
		id,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete post: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// scanPosts はクエリ結果を*model.Postのスライスに変換する。
func scanPosts(rows *sql.Rows) ([]*model.Post, error) {
	var posts []*model.Post
	for rows.Next() {
		post := &model.Post{}
		if err := rows.Scan(&post.ID, &post.AuthorID, &post.AuthorName, &post.Title,
			&post.Content, &post.Image, &post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}

// compile-time interface check
var _ PostRepository = (*PostgresPostRepo)(nil)
