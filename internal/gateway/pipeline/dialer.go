package pipeline

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"circle_pipeline/pkg/errorx"

	"github.com/gorilla/websocket"
)

// wsDialer 基于 gorilla/websocket 的 Dialer
type wsDialer struct {
	dialer *websocket.Dialer
}

// NewDialer 创建生产环境使用的 Dialer
func NewDialer(handshakeTimeout time.Duration) Dialer {
	return &wsDialer{
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
			ReadBufferSize:   4096,
			WriteBufferSize:  1024,
		},
	}
}

func (d *wsDialer) Dial(ctx context.Context, rawURL string, header http.Header) (Conn, error) {
	conn, resp, err := d.dialer.DialContext(ctx, rawURL, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return nil, errorx.Wrapf(err, errorx.CodeTransportError, "pipeline handshake failed with status %d", resp.StatusCode)
		}
		return nil, errorx.Wrap(err, errorx.CodeTransportError, "pipeline dial failed")
	}
	return conn, nil
}

// cookiePair 取 cookie 串中第一个 name=value 段
func cookiePair(cookie string) string {
	pair, _, _ := strings.Cut(cookie, ";")
	return strings.TrimSpace(pair)
}

// authTokenFromCookie 从 "auth=xxx; Path=/; ..." 中解析出 token
func authTokenFromCookie(cookie string) (string, error) {
	_, token, ok := strings.Cut(cookiePair(cookie), "=")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return "", errorx.New(errorx.CodeInvalidInput, "auth cookie missing auth token")
	}
	return token, nil
}

// ValidateAuthCookie 检查 auth cookie 能否解析出 token
func ValidateAuthCookie(cookie string) error {
	_, err := authTokenFromCookie(cookie)
	return err
}

// buildRequest 生成连接地址和请求头
func buildRequest(opts Options, authCookie, twoFactorCookie string) (string, http.Header, error) {
	token, err := authTokenFromCookie(authCookie)
	if err != nil {
		return "", nil, err
	}

	cookies := []string{cookiePair(authCookie)}
	if twoFA := cookiePair(twoFactorCookie); twoFA != "" {
		cookies = append(cookies, twoFA)
	}

	header := http.Header{}
	header.Set("Host", opts.Host)
	header.Set("User-Agent", opts.UserAgent)
	header.Set("Cookie", strings.Join(cookies, "; "))
	return opts.Endpoint + "?authToken=" + url.QueryEscape(token), header, nil
}
