// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordHashはbcryptハッシュを保持し、平文パスワードは一切保存しない。
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity は検証済みトークンから復元した認証済みユーザー情報を表す。
// 1リクエストの間だけ存在し、永続化されない。
type Identity struct {
	UserID string
	Name   string
}
