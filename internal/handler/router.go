package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/blogman/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	VerifierMetrics   middleware.VerifierMetrics
	HTTPMetrics       middleware.HTTPMetrics
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 投稿
	PostService PostServiceInterface

	// コメント
	CommentService CommentServiceInterface

	// 運用エンドポイント
	MetricsHandler http.Handler
	HealthHandler  http.HandlerFunc
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Logging → Recovery → Metrics
//
// 認証が必要なルートにはさらに Auth → RateLimit(General) が適用される。
// 投稿・コメント作成には書き込み専用レート制限を追加する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.HTTPMetrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPMetrics))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	postHandler := NewPostHandler(deps.PostService)
	commentHandler := NewCommentHandler(deps.CommentService)

	// --- 認証不要のルート ---

	r.Post("/auth/signup", authHandler.Signup)
	r.Post("/auth/login", authHandler.Login)
	r.Post("/auth/logout", authHandler.Logout)

	// コミュニティ一覧は公開エンドポイント
	r.Get("/api/community", postHandler.ListCommunity)

	if deps.HealthHandler != nil {
		r.Get("/health", deps.HealthHandler)
	}
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier, deps.VerifierMetrics))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/auth/me", authHandler.Me)

		// 投稿管理
		r.Route("/api/posts", func(r chi.Router) {
			r.Get("/", postHandler.ListPosts)

			// POST /api/posts - 投稿作成（書き込み専用レート制限を追加）
			r.With(deps.RateLimiter.WriteMiddleware()).Post("/", postHandler.CreatePost)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", postHandler.GetPost)
				r.Put("/", postHandler.UpdatePost)
				r.Delete("/", postHandler.DeletePost)

				// コメント管理
				r.Route("/comments", func(r chi.Router) {
					r.Get("/", commentHandler.ListComments)
					r.With(deps.RateLimiter.WriteMiddleware()).Post("/", commentHandler.CreateComment)

					r.Route("/{commentID}", func(r chi.Router) {
						r.Put("/", commentHandler.UpdateComment)
						r.Delete("/", commentHandler.DeleteComment)
					})
				})
			})
		})
	})

	return r
}
