package dto

import "facecounter_backend/internal/feature/auth/domain/entity"

// Profile は面接内容の調整に使う自己申告の経歴です。
type Profile struct {
	Name       string `json:"name,omitempty"`
	CurrentJob string `json:"currentJob,omitempty"`
	TargetJob  string `json:"targetJob,omitempty"`
	Experience string `json:"experience,omitempty"`
	Industry   string `json:"industry,omitempty"`
}

// UserRes はユーザーの公開情報です。パスワードハッシュは含めません。
type UserRes struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthRes はlogin・meのレスポンスです。プロフィール未登録時はprofileがnullになります。
type AuthRes struct {
	User    UserRes  `json:"user"`
	Profile *Profile `json:"profile"`
}

// SignupRes はsignupのレスポンスです。
type SignupRes struct {
	Message string  `json:"message"`
	User    UserRes `json:"user"`
}

// URLRes はGoogle同意画面のURLです。
type URLRes struct {
	URL string `json:"url"`
}

// MessageRes は汎用の成功レスポンスです。
type MessageRes struct {
	Message string `json:"message"`
}

// ErrorRes はJSONエラーレスポンスの共通ボディです。
type ErrorRes struct {
	Error string `json:"error"`
}

// NewUserRes はユーザーを公開フィールドに変換します。
func NewUserRes(u *entity.User) UserRes {
	return UserRes{ID: u.ID, Email: u.Email}
}

// NewAuthRes はlogin・meのレスポンスを生成します。
func NewAuthRes(u *entity.User) AuthRes {
	return AuthRes{User: NewUserRes(u), Profile: ProfileFromEntity(u.Profile)}
}

// ProfileFromEntity はドメインのプロフィールを変換します。nilはnilのままです。
func ProfileFromEntity(p *entity.Profile) *Profile {
	if p == nil {
		return nil
	}
	return &Profile{
		Name:       p.Name,
		CurrentJob: p.CurrentJob,
		TargetJob:  p.TargetJob,
		Experience: p.Experience,
		Industry:   p.Industry,
	}
}

// ToEntity はリクエストのプロフィールをドメインに変換します。nilはnilのままです。
func (p *Profile) ToEntity() *entity.Profile {
	if p == nil {
		return nil
	}
	return &entity.Profile{
		Name:       p.Name,
		CurrentJob: p.CurrentJob,
		TargetJob:  p.TargetJob,
		Experience: p.Experience,
		Industry:   p.Industry,
	}
}
