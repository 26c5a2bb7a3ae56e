package comment

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/blogman/internal/model"
)

// --- モック定義 ---

type mockCommentRepo struct {
	findByIDFn   func(ctx context.Context, id string) (*model.Comment, error)
	listByPostFn func(ctx context.Context, postID string) ([]*model.Comment, error)
	createFn     func(ctx context.Context, comment *model.Comment) error
	updateFn     func(ctx context.Context, comment *model.Comment) error
	deleteFn     func(ctx context.Context, id string) (int64, error)
}

func (m *mockCommentRepo) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockCommentRepo) ListByPost(ctx context.Context, postID string) ([]*model.Comment, error) {
	return m.listByPostFn(ctx, postID)
}

func (m *mockCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	return m.createFn(ctx, comment)
}

func (m *mockCommentRepo) Update(ctx context.Context, comment *model.Comment) error {
	return m.updateFn(ctx, comment)
}

func (m *mockCommentRepo) Delete(ctx context.Context, id string) (int64, error) {
	return m.deleteFn(ctx, id)
}

type mockPostRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.Post, error)
}

func (m *mockPostRepo) FindByID(ctx context.Context, id string) (*model.Post, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockPostRepo) ListByAuthor(ctx context.Context, authorID string) ([]*model.Post, error) {
	return nil, nil
}

func (m *mockPostRepo) ListRecent(ctx context.Context, limit int) ([]*model.Post, error) {
	return nil, nil
}

func (m *mockPostRepo) Create(ctx context.Context, post *model.Post) error { return nil }

func (m *mockPostRepo) Update(ctx context.Context, post *model.Post) error { return nil }

func (m *mockPostRepo) Delete(ctx context.Context, id string) (int64, error) { return 0, nil }

type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(rawHTML string) string { return rawHTML }

func existingPostRepo() *mockPostRepo {
	return &mockPostRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
			return &model.Post{ID: id, AuthorID: "post-author"}, nil
		},
	}
}

func missingPostRepo() *mockPostRepo {
	return &mockPostRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
			return nil, nil
		},
	}
}

func testIdentity() *model.Identity {
	return &model.Identity{UserID: "user-1", Name: "alice"}
}

func assertAPIErrorCode(t *testing.T, err error, wantCode string) {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != wantCode {
		t.Errorf("code = %q, want %q", apiErr.Code, wantCode)
	}
}

// --- テスト ---

func TestService_ListByPost_ParentMissing_NotFound(t *testing.T) {
	svc := NewService(&mockCommentRepo{}, missingPostRepo(), passthroughSanitizer{})

	_, err := svc.ListByPost(context.Background(), "missing")
	assertAPIErrorCode(t, err, model.ErrCodePostNotFound)
}

func TestService_ListByPost_ReturnsComments(t *testing.T) {
	commentRepo := &mockCommentRepo{
		listByPostFn: func(ctx context.Context, postID string) ([]*model.Comment, error) {
			return []*model.Comment{{ID: "comment-1", PostID: postID}}, nil
		},
	}
	svc := NewService(commentRepo, existingPostRepo(), passthroughSanitizer{})

	comments, err := svc.ListByPost(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comments) != 1 || comments[0].ID != "comment-1" {
		t.Errorf("unexpected comments: %+v", comments)
	}
}

func TestService_Create_ParentMissing_NotFound(t *testing.T) {
	svc := NewService(&mockCommentRepo{}, missingPostRepo(), passthroughSanitizer{})

	_, err := svc.Create(context.Background(), testIdentity(), "missing", "コメント")
	assertAPIErrorCode(t, err, model.ErrCodePostNotFound)
}

func TestService_Create_SetsOwnerFromIdentity(t *testing.T) {
	var created *model.Comment
	commentRepo := &mockCommentRepo{
		createFn: func(ctx context.Context, comment *model.Comment) error {
			created = comment
			return nil
		},
	}
	svc := NewService(commentRepo, existingPostRepo(), passthroughSanitizer{})

	comment, err := svc.Create(context.Background(), testIdentity(), "post-1", "コメント本文")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if comment.AuthorID != "user-1" || comment.AuthorName != "alice" {
		t.Errorf("unexpected author: %+v", comment)
	}
	if comment.PostID != "post-1" {
		t.Errorf("PostID = %q, want %q", comment.PostID, "post-1")
	}
	if created == nil || created.ID != comment.ID {
		t.Error("comment should be persisted through the repository")
	}
}

func TestService_Create_NilIdentity_Unauthorized(t *testing.T) {
	svc := NewService(&mockCommentRepo{}, existingPostRepo(), passthroughSanitizer{})

	_, err := svc.Create(context.Background(), nil, "post-1", "c")
	assertAPIErrorCode(t, err, model.ErrCodeUnauthorized)
}

func TestService_Update_NotFoundBeforeOwnershipCheck(t *testing.T) {
	commentRepo := &mockCommentRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Comment, error) {
			return nil, nil
		},
	}
	svc := NewService(commentRepo, existingPostRepo(), passthroughSanitizer{})

	// 非所有者であっても存在しないコメントには404を返す
	_, err := svc.Update(context.Background(), &model.Identity{UserID: "other"}, "missing", "c")
	assertAPIErrorCode(t, err, model.ErrCodeCommentNotFound)
}

func TestService_Update_NonOwner_Forbidden(t *testing.T) {
	commentRepo := &mockCommentRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Comment, error) {
			return &model.Comment{ID: id, AuthorID: "user-1"}, nil
		},
	}
	svc := NewService(commentRepo, existingPostRepo(), passthroughSanitizer{})

	_, err := svc.Update(context.Background(), &model.Identity{UserID: "user-2", Name: "bob"}, "comment-1", "c")
	assertAPIErrorCode(t, err, model.ErrCodeForbidden)
}

func TestService_Update_OwnerSucceeds(t *testing.T) {
	var updated *model.Comment
	commentRepo := &mockCommentRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Comment, error) {
			return &model.Comment{ID: id, AuthorID: "user-1", Content: "old"}, nil
		},
		updateFn: func(ctx context.Context, comment *model.Comment) error {
			updated = comment
			return nil
		},
	}
	svc := NewService(commentRepo, existingPostRepo(), passthroughSanitizer{})

	comment, err := svc.Update(context.Background(), testIdentity(), "comment-1", "new content")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if comment.Content != "new content" {
		t.Errorf("Content = %q, want %q", comment.Content, "new content")
	}
	if updated == nil || updated.AuthorID != "user-1" {
		t.Error("AuthorID should not change on update")
	}
}

func TestService_Delete_NonOwner_Forbidden(t *testing.T) {
	commentRepo := &mockCommentRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Comment, error) {
			return &model.Comment{ID: id, AuthorID: "user-1"}, nil
		},
	}
	svc := NewService(commentRepo, existingPostRepo(), passthroughSanitizer{})

	err := svc.Delete(context.Background(), &model.Identity{UserID: "user-2", Name: "bob"}, "comment-1")
	assertAPIErrorCode(t, err, model.ErrCodeForbidden)
}

func TestService_Delete_OwnerSucceeds(t *testing.T) {
	commentRepo := &mockCommentRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Comment, error) {
			return &model.Comment{ID: id, AuthorID: "user-1"}, nil
		},
		deleteFn: func(ctx context.Context, id string) (int64, error) {
			return 1, nil
		},
	}
	svc := NewService(commentRepo, existingPostRepo(), passthroughSanitizer{})

	if err := svc.Delete(context.Background(), testIdentity(), "comment-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestService_Delete_AlreadyDeleted_NotFound(t *testing.T) {
	commentRepo := &mockCommentRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Comment, error) {
			return nil, nil
		},
	}
	svc := NewService(commentRepo, existingPostRepo(), passthroughSanitizer{})

	err := svc.Delete(context.Background(), testIdentity(), "comment-1")
	assertAPIErrorCode(t, err, model.ErrCodeCommentNotFound)
}
