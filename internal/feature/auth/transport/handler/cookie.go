package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// stateCookieTTL はOAuth同意画面を開いたままにできる時間です（stateトークンの有効期限と同じ）。
const stateCookieTTL = 10 * time.Minute

// CookieConfig はセッションCookieの設定です。
// フロントエンドがクロスサイトで埋め込まれる場合があるため、Secure有効時はSameSite=Noneを使用します。
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

func (cfg CookieConfig) set(c *gin.Context, token string) {
	cfg.write(c, cfg.Name, token, int(cfg.TTL.Seconds()))
}

func (cfg CookieConfig) clear(c *gin.Context) {
	cfg.write(c, cfg.Name, "", -1)
}

// token はブラウザが送ったセッショントークンを返します。無ければ""です。
func (cfg CookieConfig) token(c *gin.Context) string {
	return cfg.read(c, cfg.Name)
}

// stateName はOAuthフローを開始したブラウザを識別するnonce用Cookie名です。
func (cfg CookieConfig) stateName() string {
	return cfg.Name + "_oauth_state"
}

func (cfg CookieConfig) setState(c *gin.Context, nonce string) {
	cfg.write(c, cfg.stateName(), nonce, int(stateCookieTTL.Seconds()))
}

func (cfg CookieConfig) clearState(c *gin.Context) {
	cfg.write(c, cfg.stateName(), "", -1)
}

func (cfg CookieConfig) stateNonce(c *gin.Context) string {
	return cfg.read(c, cfg.stateName())
}

func (cfg CookieConfig) write(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(cfg.sameSite())
	c.SetCookie(name, value, maxAge, "/", "", cfg.Secure, true)
}

func (cfg CookieConfig) read(c *gin.Context, name string) string {
	v, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return v
}

// SameSite=NoneはSecureなしではブラウザに拒否されるため、HTTPでの開発時はLaxにします。
func (cfg CookieConfig) sameSite() http.SameSite {
	if cfg.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
