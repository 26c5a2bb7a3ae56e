// Package comment はコメント管理のドメインロジックを提供する。
package comment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/blogman/internal/auth"
	"github.com/hitoshi/blogman/internal/model"
	"github.com/hitoshi/blogman/internal/repository"
	"github.com/hitoshi/blogman/internal/security"
)

// Service はコメント管理のサービス層。
// コメントの作成、一覧取得、更新、削除のビジネスロジックを提供する。
// 更新・削除は存在チェックの後に所有権チェックを行う。
type Service struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	sanitizer   security.ContentSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	sanitizer security.ContentSanitizerService,
) *Service {
	return &Service{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		sanitizer:   sanitizer,
	}
}

// ListByPost は指定投稿のコメント一覧を作成日時の降順で返す。
// 親投稿が存在しない場合はPOST_NOT_FOUNDを返す。
func (s *Service) ListByPost(ctx context.Context, postID string) ([]*model.Comment, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(postID)
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("コメント一覧の取得に失敗しました: %w", err)
	}
	return comments, nil
}

// Create は指定投稿に新しいコメントを作成する。
// 親投稿が存在しない場合はPOST_NOT_FOUNDを返す。
// 所有者は呼び出しユーザーに設定され、以後変更されない。
func (s *Service) Create(ctx context.Context, identity *model.Identity, postID, content string) (*model.Comment, error) {
	if identity == nil {
		return nil, model.NewUnauthorizedError()
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(postID)
	}

	now := time.Now()
	comment := &model.Comment{
		ID:         uuid.New().String(),
		PostID:     postID,
		AuthorID:   identity.UserID,
		AuthorName: identity.Name,
		Content:    s.sanitizer.Sanitize(content),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("コメントの作成に失敗しました: %w", err)
	}

	slog.Info("comment created",
		slog.String("comment_id", comment.ID),
		slog.String("post_id", postID),
		slog.String("author_id", comment.AuthorID),
	)

	return comment, nil
}

// Update は指定コメントの本文を更新する。
// コメントが存在しない場合はCOMMENT_NOT_FOUND、所有者でない場合はFORBIDDENを返す。
// 存在チェックを所有権チェックより先に行う。
func (s *Service) Update(ctx context.Context, identity *model.Identity, commentID, content string) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("コメントの取得に失敗しました: %w", err)
	}
	if comment == nil {
		return nil, model.NewCommentNotFoundError(commentID)
	}

	if err := auth.AuthorizeOwner(identity, comment.AuthorID); err != nil {
		return nil, err
	}

	comment.Content = s.sanitizer.Sanitize(content)
	comment.UpdatedAt = time.Now()

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("コメントの更新に失敗しました: %w", err)
	}

	slog.Info("comment updated",
		slog.String("comment_id", comment.ID),
		slog.String("author_id", comment.AuthorID),
	)

	return comment, nil
}

// Delete は指定コメントを削除する。
// コメントが存在しない場合はCOMMENT_NOT_FOUND、所有者でない場合はFORBIDDENを返す。
// 削除済みのコメントを再度削除しようとした場合もCOMMENT_NOT_FOUNDになる。
func (s *Service) Delete(ctx context.Context, identity *model.Identity, commentID string) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("コメントの取得に失敗しました: %w", err)
	}
	if comment == nil {
		return model.NewCommentNotFoundError(commentID)
	}

	if err := auth.AuthorizeOwner(identity, comment.AuthorID); err != nil {
		return err
	}

	rows, err := s.commentRepo.Delete(ctx, commentID)
	if err != nil {
		return fmt.Errorf("コメントの削除に失敗しました: %w", err)
	}
	if rows == 0 {
		// 存在チェックと削除の間に消えた場合
		return model.NewCommentNotFoundError(commentID)
	}

	slog.Info("comment deleted",
		slog.String("comment_id", commentID),
		slog.String("author_id", comment.AuthorID),
	)

	return nil
}
