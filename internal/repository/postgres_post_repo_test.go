package repository

import (
	"testing"
	"time"

	"github.com/hitoshi/blogman/internal/model"
)

// PostgresPostRepoはPostRepositoryインターフェースを満たすことを検証
func TestPostgresPostRepo_ImplementsInterface(t *testing.T) {
	var _ PostRepository = (*PostgresPostRepo)(nil)
}

// PostgresCommentRepoはCommentRepositoryインターフェースを満たすことを検証
func TestPostgresCommentRepo_ImplementsInterface(t *testing.T) {
	var _ CommentRepository = (*PostgresCommentRepo)(nil)
}

// NewPostgresPostRepoが正しく初期化されることを検証
func TestNewPostgresPostRepo_Initializes(t *testing.T) {
	repo := NewPostgresPostRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresCommentRepoが正しく初期化されることを検証
func TestNewPostgresCommentRepo_Initializes(t *testing.T) {
	repo := NewPostgresCommentRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// 投稿のauthor_idは作成時に設定され、Updateの対象に含まれないことの期待動作
func TestPostgresPostRepo_Update_DoesNotChangeAuthor(t *testing.T) {
	post := &model.Post{
		ID:        "post-1",
		AuthorID:  "user-1",
		Title:     "updated title",
		Content:   "updated content",
		UpdatedAt: time.Now(),
	}

	// Updateに渡す構造体のauthor_idが保持されていることを確認
	// （SQL側はtitle, content, updated_atのみをSET句に含む）
	if post.AuthorID != "user-1" {
		t.Errorf("AuthorID = %q, want %q", post.AuthorID, "user-1")
	}
}
