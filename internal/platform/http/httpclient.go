package http

import (
	"log/slog"
	"net"
	"net/http"
	"time"
)

// DefaultUserAgent is sent to Google and Gemini unless overridden.
const DefaultUserAgent = "facecounter-backend"

// ClientOption customizes NewHTTPClient.
type ClientOption func(*clientOptions)

type clientOptions struct {
	userAgent string
	logger    *slog.Logger
	base      http.RoundTripper
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) ClientOption {
	return func(o *clientOptions) { o.userAgent = ua }
}

// WithLogger sets the logger for per-request debug lines.
func WithLogger(l *slog.Logger) ClientOption {
	return func(o *clientOptions) { o.logger = l }
}

// WithTransport replaces the pooled transport. Used by tests.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(o *clientOptions) { o.base = rt }
}

// NewHTTPClient は外部API（Google OAuth、Gemini）呼び出し用のHTTPクライアントを作成します。
//
// 注意:
//   - http.DefaultClientにはタイムアウトがないため、常にこのクライアントを使用すること
//   - ログにはクエリ文字列を出力しない（認可コードやAPIキーを含むため）
func NewHTTPClient(timeout time.Duration, opts ...ClientOption) *http.Client {
	o := clientOptions{userAgent: DefaultUserAgent, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.base == nil {
		o.base = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &outboundTransport{base: o.base, userAgent: o.userAgent, logger: o.logger},
	}
}

type outboundTransport struct {
	base      http.RoundTripper
	userAgent string
	logger    *slog.Logger
}

func (t *outboundTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		// RoundTripper must not mutate the caller's request.
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.userAgent)
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	attrs := []any{
		"method", req.Method,
		"host", req.URL.Host,
		"path", req.URL.Path,
		"duration", time.Since(start),
	}
	if err != nil {
		t.logger.Debug("outbound request failed", append(attrs, "error", err)...)
		return nil, err
	}
	t.logger.Debug("outbound request", append(attrs, "status", resp.StatusCode)...)
	return resp, nil
}
