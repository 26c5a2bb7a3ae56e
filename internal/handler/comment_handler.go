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

// CommentServiceInterface はコメントハンドラーが必要とするサービスインターフェース。
type CommentServiceInterface interface {
	// ListByPost は指定投稿のコメント一覧を返す。
	ListByPost(ctx context.Context, postID string) ([]*model.Comment, error)
	// Create は指定投稿に新しいコメントを作成する。
	Create(ctx context.Context, identity *model.Identity, postID, content string) (*model.Comment, error)
	// Update は指定コメントの本文を更新する。
	Update(ctx context.Context, identity *model.Identity, commentID, content string) (*model.Comment, error)
	// Delete は指定コメントを削除する。
	Delete(ctx context.Context, identity *model.Identity, commentID string) error
}

// CommentHandler はコメント管理のHTTPハンドラー。
type CommentHandler struct {
	service CommentServiceInterface
}

// NewCommentHandler はCommentHandlerを生成する。
func NewCommentHandler(service CommentServiceInterface) *CommentHandler {
	return &CommentHandler{service: service}
}

// commentRequest はコメント作成・更新リクエストのボディ。
type commentRequest struct {
	Content string `json:"content"`
}

// commentResponse はコメントのAPIレスポンス。
type commentResponse struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ListComments は投稿のコメント一覧を返す。
// GET /api/posts/:id/comments
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")

	comments, err := h.service.ListByPost(r.Context(), postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]commentResponse, len(comments))
	for i, comment := range comments {
		results[i] = toCommentResponse(comment)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// CreateComment はコメント作成を処理する。
// POST /api/posts/:id/comments
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	postID := chi.URLParam(r, "id")

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	if req.Content == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("contentは必須です"))
		return
	}

	comment, err := h.service.Create(r.Context(), identity, postID, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toCommentResponse(comment))
}

// UpdateComment はコメント更新を処理する。
// PUT /api/posts/:id/comments/:commentID
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	commentID := chi.URLParam(r, "commentID")

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	if req.Content == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("contentは必須です"))
		return
	}

	comment, err := h.service.Update(r.Context(), identity, commentID, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toCommentResponse(comment))
}

// DeleteComment はコメント削除を処理する。
// DELETE /api/posts/:id/comments/:commentID
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	commentID := chi.URLParam(r, "commentID")

	if err := h.service.Delete(r.Context(), identity, commentID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toCommentResponse(comment *model.Comment) commentResponse {
	return commentResponse{
		ID:         comment.ID,
		PostID:     comment.PostID,
		AuthorID:   comment.AuthorID,
		AuthorName: comment.AuthorName,
		Content:    comment.Content,
		CreatedAt:  comment.CreatedAt,
		UpdatedAt:  comment.UpdatedAt,
	}
}
