// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// CredentialsReq は/api/auth/signup と /api/auth/login のリクエストボディです。
// 必須チェックはユースケース側で行い、エラーメッセージを統一します。
type CredentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileReq は/api/user/profile のリクエストボディです。
// profile は部分更新ではなく丸ごと置き換えます。
type ProfileReq struct {
	Profile *Profile `json:"profile"`
}
