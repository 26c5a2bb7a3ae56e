package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/blogman/internal/middleware"
	"github.com/hitoshi/blogman/internal/model"
)

// PostServiceInterface は投稿ハンドラーが必要とするサービスインターフェース。
type PostServiceInterface interface {
	// ListOwn は呼び出しユーザー自身の投稿一覧を返す。
	ListOwn(ctx context.Context, identity *model.Identity) ([]*model.Post, error)
	// ListCommunity は全ユーザーの最新投稿を返す。
	ListCommunity(ctx context.Context) ([]*model.Post, error)
	// Get は指定IDの投稿を取得する。
	Get(ctx context.Context, postID string) (*model.Post, error)
	// Create は新しい投稿を作成する。
	Create(ctx context.Context, identity *model.Identity, title, content, image string) (*model.Post, error)
	// Update は指定投稿のタイトルと本文を更新する。
	Update(ctx context.Context, identity *model.Identity, postID, title, content string) (*model.Post, error)
	// Delete は指定投稿を削除する。
	Delete(ctx context.Context, identity *model.Identity, postID string) error
}

// PostHandler は投稿管理のHTTPハンドラー。
type PostHandler struct {
	service PostServiceInterface
}

// NewPostHandler はPostHandlerを生成する。
func NewPostHandler(service PostServiceInterface) *PostHandler {
	return &PostHandler{service: service}
}

// createPostRequest は投稿作成リクエストのボディ。
type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Image   string `json:"image"`
}

// updatePostRequest は投稿更新リクエストのボディ。
type updatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// postResponse は投稿詳細のAPIレスポンス。
type postResponse struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Summary    string    `json:"summary"`
	Image      string    `json:"image"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// postSummaryResponse は一覧表示用のAPIレスポンス。
// 本文は先頭100文字のサマリーに切り詰める。
type postSummaryResponse struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	Image      string    `json:"image"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListPosts はログインユーザー自身の投稿一覧を返す。
// GET /api/posts
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	posts, err := h.service.ListOwn(r.Context(), identity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPostSummaryResponses(posts))
}

// ListCommunity は全ユーザーの最新投稿一覧を返す。
// GET /api/community
// 認証不要の公開エンドポイント。
func (h *PostHandler) ListCommunity(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListCommunity(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPostSummaryResponses(posts))
}

// GetPost は投稿詳細を取得する。
// GET /api/posts/:id
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")

	post, err := h.service.Get(r.Context(), postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPostResponse(post))
}

// CreatePost は投稿作成を処理する。
// POST /api/posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	if req.Title == "" || req.Content == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("titleとcontentは必須です"))
		return
	}

	post, err := h.service.Create(r.Context(), identity, req.Title, req.Content, req.Image)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toPostResponse(post))
}

// UpdatePost は投稿更新を処理する。
// PUT /api/posts/:id
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	postID := chi.URLParam(r, "id")

	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	if req.Title == "" || req.Content == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("titleとcontentは必須です"))
		return
	}

	post, err := h.service.Update(r.Context(), identity, postID, req.Title, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPostResponse(post))
}

// DeletePost は投稿削除を処理する。
// DELETE /api/posts/:id
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	postID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), identity, postID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toPostResponse(post *model.Post) postResponse {
	return postResponse{
		ID:         post.ID,
		AuthorID:   post.AuthorID,
		AuthorName: post.AuthorName,
		Title:      post.Title,
		Content:    post.Content,
		Summary:    post.Summary(),
		Image:      post.ImageOrDefault(),
		CreatedAt:  post.CreatedAt,
		UpdatedAt:  post.UpdatedAt,
	}
}

func toPostSummaryResponses(posts []*model.Post) []postSummaryResponse {
	results := make([]postSummaryResponse, len(posts))
	for i, post := range posts {
		results[i] = postSummaryResponse{
			ID:         post.ID,
			AuthorID:   post.AuthorID,
			AuthorName: post.AuthorName,
			Title:      post.Title,
			Summary:    post.Summary(),
			Image:      post.ImageOrDefault(),
			CreatedAt:  post.CreatedAt,
		}
	}
	return results
}
