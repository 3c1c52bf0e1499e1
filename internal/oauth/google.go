package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrConfigInvalid   = errors.New("google oauth config invalid")
	ErrRequestFailed   = errors.New("google oauth request failed")
	ErrTokenRejected   = errors.New("google oauth token rejected")
	ErrResponseInvalid = errors.New("google oauth response invalid")
)

const (
	defaultUserinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
	defaultTimeout     = 5 * time.Second
)

// Config Google 登录配置
type Config struct {
	UserinfoURL string
	TimeoutMS   int
}

// UserInfo Google userinfo 端点返回的用户信息
type UserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// GoogleClient 通过 access token 交换用户信息
type GoogleClient struct {
	userinfoURL string
	httpClient  *http.Client
}

// NewGoogleClient 创建 Google 登录客户端
func NewGoogleClient(cfg Config) *GoogleClient {
	endpoint := strings.TrimSpace(cfg.UserinfoURL)
	if endpoint == "" {
		endpoint = defaultUserinfoURL
	}
	timeout := defaultTimeout
	if cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	return &GoogleClient{
		userinfoURL: endpoint,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// FetchUserInfo 用 access token 获取用户信息
func (c *GoogleClient) FetchUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	token := strings.TrimSpace(accessToken)
	if token == "" {
		return nil, fmt.Errorf("%w: access token is required", ErrConfigInvalid)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userinfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response failed", ErrResponseInvalid)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrTokenRejected
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: userinfo status %d", ErrResponseInvalid, resp.StatusCode)
	}

	var info UserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("%w: decode userinfo failed", ErrResponseInvalid)
	}
	if strings.TrimSpace(info.Email) == "" {
		return nil, fmt.Errorf("%w: missing email", ErrResponseInvalid)
	}
	return &info, nil
}
