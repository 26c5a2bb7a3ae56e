// Package auth はトークンの発行・検証、認証認可のドメインロジックを提供する。
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hitoshi/blogman/internal/model"
)

// TokenTTL はセッショントークンの有効期間。発行時刻から24時間で固定。
const TokenTTL = 24 * time.Hour

// Claims はセッショントークンに埋め込むクレームセット。
// 標準クレーム（iat, exp, sub）に加えてユーザーIDと表示名を含む。
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

// TokenManager はHS256署名によるセッショントークンの発行と検証を行う。
// サーバー側に状態を持たず、トークン自体が全情報を含む。
type TokenManager struct {
	secret []byte
}

// NewTokenManager はTokenManagerを生成する。
// シークレットの存在チェックはconfig.Loadが起動時に行うため、ここでは検証しない。
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Issue は検証済みユーザーに対してセッショントークンを発行する。
// 有効期限は発行時刻のちょうど24時間後。
func (m *TokenManager) Issue(user *model.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
		UserID:   user.ID,
		UserName: user.Name,
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify はトークン文字列を検証し、認証済みユーザー情報を復元する。
// トークンの欠落・署名不正・改ざん・期限切れはすべて区別せずnilを返す。
// 呼び出し側はnilを一律に「未認証」として扱う。エラーは返さない。
func (m *TokenManager) Verify(raw string) *model.Identity {
	if raw == "" {
		return nil
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	if claims.UserID == "" {
		return nil
	}

	return &model.Identity{
		UserID: claims.UserID,
		Name:   claims.UserName,
	}
}
