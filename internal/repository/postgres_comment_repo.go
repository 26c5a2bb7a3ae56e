package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/blogman/internal/model"
)

// PostgresCommentRepo はPostgreSQLを使用したコメントリポジトリ。
type PostgresCommentRepo struct {
	db *sql.DB
}

// NewPostgresCommentRepo はPostgresCommentRepoを生成する。
func NewPostgresCommentRepo(db *sql.DB) *PostgresCommentRepo {
	return &PostgresCommentRepo{db: db}
}

// FindByID は指定IDのコメントを取得する。見つからない場合はnilを返す。
func (r *PostgresCommentRepo) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	comment := &model.Comment{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, post_id, author_id, author_name, content, created_at, updated_at
		 FROM comments WHERE id = $1`,
		id,
	).Scan(&comment.ID, &comment.PostID, &comment.AuthorID, &comment.AuthorName,
		&comment.Content, &comment.CreatedAt, &comment.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find comment by ID: %w", err)
	}

	return comment, nil
}

// ListByPost は指定投稿のコメント一覧を作成日時の降順で返す。
func (r *PostgresCommentRepo) ListByPost(ctx context.Context, postID string) ([]*model.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, post_id, author_id, author_name, content, created_at, updated_at
		 FROM comments WHERE post_id = $1
		 ORDER BY created_at DESC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments by post: %w", err)
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		comment := &model.Comment{}
		if err := rows.Scan(&comment.ID, &comment.PostID, &comment.AuthorID,
			&comment.AuthorName, &comment.Content, &comment.CreatedAt, &comment.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return comments, nil
}

// Create はコメントを作成する。
func (r *PostgresCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (id, post_id, author_id, author_name, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		comment.ID, comment.PostID, comment.AuthorID, comment.AuthorName,
		comment.Content, comment.CreatedAt, comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

// Update はコメントの本文・更新日時を更新する。
// author_idは作成時から変更しない。
func (r *PostgresCommentRepo) Update(ctx context.Context, comment *model.Comment) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE comments SET content = $1, updated_at = $2 WHERE id = $3`,
		comment.Content, comment.UpdatedAt, comment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return nil
}

// Delete は指定IDのコメントを削除する。削除された行数を返す。
func (r *PostgresCommentRepo) Delete(ctx context.Context, id string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM comments WHERE id = $1`,
		id,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete comment: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// compile-time interface check
var _ CommentRepository = (*PostgresCommentRepo)(nil)
