package auth

import "github.com/hitoshi/blogman/internal/model"

// AuthorizeOwner は認証済みユーザーが対象リソースの所有者かどうかを判定する。
// 所有者IDが完全一致する場合のみnilを返し、それ以外はForbiddenエラーを返す。
// 呼び出し側は必ずリソースの存在チェックの後にこの判定を行うこと。
// （存在しないIDを探る非所有者には403ではなく404を返すため）
func AuthorizeOwner(identity *model.Identity, ownerID string) error {
	if identity == nil || identity.UserID == "" {
		return model.NewUnauthorizedError()
	}
	if identity.UserID != ownerID {
		return model.NewForbiddenError()
	}
	return nil
}
