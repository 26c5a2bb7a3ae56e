// Package post は投稿管理のドメインロジックを提供する。
package post

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

// communityListLimit はコミュニティ一覧で返す最大投稿数。
const communityListLimit = 20

// Service は投稿管理のサービス層。
// 投稿の作成、一覧取得、更新、削除のビジネスロジックを提供する。
// 更新・削除は存在チェックの後に所有権チェックを行う。
type Service struct {
	postRepo  repository.PostRepository
	sanitizer security.ContentSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(postRepo repository.PostRepository, sanitizer security.ContentSanitizerService) *Service {
	return &Service{
		postRepo:  postRepo,
		sanitizer: sanitizer,
	}
}

// ListOwn は呼び出しユーザー自身の投稿一覧を作成日時の降順で返す。
func (s *Service) ListOwn(ctx context.Context, identity *model.Identity) ([]*model.Post, error) {
	if identity == nil {
		return nil, model.NewUnauthorizedError()
	}

	posts, err := s.postRepo.ListByAuthor(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("投稿一覧の取得に失敗しました: %w", err)
	}
	return posts, nil
}

// ListCommunity は全ユーザーの最新投稿を作成日時の降順で最大20件返す。
// 認証不要の公開一覧として提供する。
func (s *Service) ListCommunity(ctx context.Context) ([]*model.Post, error) {
	posts, err := s.postRepo.ListRecent(ctx, communityListLimit)
	if err != nil {
		return nil, fmt.Errorf("コミュニティ一覧の取得に失敗しました: %w", err)
	}
	return posts, nil
}

// Get は指定IDの投稿を取得する。存在しない場合はPOST_NOT_FOUNDを返す。
func (s *Service) Get(ctx context.Context, postID string) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(postID)
	}
	return post, nil
}

// Create は新しい投稿を作成する。
// 所有者は呼び出しユーザーに設定され、以後変更されない。
// 本文はサニタイズしてから保存する。
func (s *Service) Create(ctx context.Context, identity *model.Identity, title, content, image string) (*model.Post, error) {
	if identity == nil {
		return nil, model.NewUnauthorizedError()
	}

	now := time.Now()
	post := &model.Post{
		ID:         uuid.New().String(),
		AuthorID:   identity.UserID,
		AuthorName: identity.Name,
		Title:      title,
		Content:    s.sanitizer.Sanitize(content),
		Image:      image,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("投稿の作成に失敗しました: %w", err)
	}

	slog.Info("post created",
		slog.String("post_id", post.ID),
		slog.String("author_id", post.AuthorID),
	)

	return post, nil
}

// Update は指定投稿のタイトルと本文を更新する。
// 投稿が存在しない場合はPOST_NOT_FOUND、所有者でない場合はFORBIDDENを返す。
// 存在チェックを所有権チェックより先に行う。
func (s *Service) Update(ctx context.Context, identity *model.Identity, postID, title, content string) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(postID)
	}

	if err := auth.AuthorizeOwner(identity, post.AuthorID); err != nil {
		return nil, err
	}

	post.Title = title
	post.Content = s.sanitizer.Sanitize(content)
	post.UpdatedAt = time.Now()

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("投稿の更新に失敗しました: %w", err)
	}

	slog.Info("post updated",
		slog.String("post_id", post.ID),
		slog.String("author_id", post.AuthorID),
	)

	return post, nil
}

// Delete は指定投稿を削除する。
// 投稿が存在しない場合はPOST_NOT_FOUND、所有者でない場合はFORBIDDENを返す。
// 削除済みの投稿を再度削除しようとした場合もPOST_NOT_FOUNDになる。
func (s *Service) Delete(ctx context.Context, identity *model.Identity, postID string) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}
	if post == nil {
		return model.NewPostNotFoundError(postID)
	}

	if err := auth.AuthorizeOwner(identity, post.AuthorID); err != nil {
		return err
	}

	rows, err := s.postRepo.Delete(ctx, postID)
	if err != nil {
		return fmt.Errorf("投稿の削除に失敗しました: %w", err)
	}
	if rows == 0 {
		// 存在チェックと削除の間に消えた場合
		return model.NewPostNotFoundError(postID)
	}

	slog.Info("post deleted",
		slog.String("post_id", postID),
		slog.String("author_id", post.AuthorID),
	)

	return nil
}
