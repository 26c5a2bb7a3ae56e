// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hitoshi/blogman/internal/model"
)

// tokenCookieName はセッショントークンを保持するCookieの名前。
const tokenCookieName = "token"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// identityContextKey はリクエストコンテキストに認証済みユーザー情報を格納するためのキー。
var identityContextKey = contextKey("identity")

// TokenVerifier はトークンの検証に必要なインターフェース。
// auth.TokenManagerの部分集合として定義する。
// nilの返却は未認証を意味し、失敗の種類（欠落・改ざん・期限切れ）を区別しない。
type TokenVerifier interface {
	Verify(raw string) *model.Identity
}

// VerifierMetrics はトークン検証失敗の記録インターフェース。
// metrics.Collectorの部分集合として定義する。
type VerifierMetrics interface {
	RecordTokenRejected()
}

// NewAuthMiddleware はリクエストからセッショントークンを読み取り、
// 検証するミドルウェアを返す。
// トークンはAuthorization: Bearerヘッダー、次にtoken Cookieの順で探し、
// 先に見つかった方を使用する。
// 検証済みユーザー情報をリクエストコンテキストに注入する。
// 未認証リクエストには401 Unauthorizedを返す。クロスリクエスト状態は持たない。
func NewAuthMiddleware(verifier TokenVerifier, metrics VerifierMetrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := verifier.Verify(ExtractToken(r))
			if identity == nil {
				if metrics != nil {
					metrics.RecordTokenRejected()
				}
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			ctx := ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken はリクエストからトークン文字列を取り出す。
// Authorizationヘッダーが存在すればBearerプレフィックスを除いた値を使い、
// 存在しない場合のみtoken Cookieにフォールバックする。
// どちらも無い場合は空文字列を返す。
func ExtractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if cookie, err := r.Cookie(tokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// IdentityFromContext はリクエストコンテキストから認証済みユーザー情報を取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func IdentityFromContext(ctx context.Context) (*model.Identity, error) {
	identity, ok := ctx.Value(identityContextKey).(*model.Identity)
	if !ok || identity == nil || identity.UserID == "" {
		return nil, fmt.Errorf("identity not found in context")
	}
	return identity, nil
}

// ContextWithIdentity はコンテキストに認証済みユーザー情報を注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}
