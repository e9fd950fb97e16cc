package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gundalow-collections/f5networks/internal/config"
	f5errors "github.com/gundalow-collections/f5networks/pkg/errors"
)

const loginPath = "/mgmt/shared/authn/login"

// Client talks to the appliance iControl REST management API.
// It authenticates once per invocation via the token endpoint and sends the
// token on every subsequent request.
// Client 与设备的 iControl REST 管理 API 通信。
// 每次调用只通过令牌端点认证一次，之后的请求都携带令牌。
type Client struct {
	baseURL  string
	user     string
	password string
	token    string
	http     *http.Client
}

// Response is a decoded device reply. Body is nil when the payload was not a
// JSON object.
// Response 是已解码的设备应答。负载不是 JSON 对象时 Body 为 nil。
type Response struct {
	Status int
	Body   map[string]interface{}
	Raw    []byte
}

// Code returns the error code carried in the response body, or 0.
func (r *Response) Code() int {
	if r.Body == nil {
		return 0
	}
	if v, ok := r.Body["code"]; ok {
		if f, ok := v.(float64); ok {
			return int(f)
		}
	}
	return 0
}

// Message returns the device error message carried in the response body.
func (r *Response) Message() (string, bool) {
	if r.Body == nil {
		return "", false
	}
	if v, ok := r.Body["message"]; ok {
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return "", false
}

// New builds a client from provider settings.
// New 根据 provider 配置构建客户端。
func New(p config.ProviderConfig) *Client {
	timeout := time.Duration(p.Timeout) * time.Second
	if p.Timeout == 0 {
		timeout = time.Duration(config.DefaultTimeout) * time.Second
	}
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: !p.ValidateCerts}, //nolint:gosec
	}
	port := p.ServerPort
	if port == 0 {
		port = config.DefaultServerPort
	}
	return &Client{
		baseURL:  fmt.Sprintf("https://%s:%d", p.Server, port),
		user:     p.User,
		password: p.Password,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// NewForURL builds a client against a fixed base URL. Used by tests.
func NewForURL(baseURL, user, password string) *Client {
	return &Client{
		baseURL:  baseURL,
		user:     user,
		password: password,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Login obtains an auth token from the device.
// Login 从设备获取认证令牌。
func (c *Client) Login(ctx context.Context) error {
	payload := map[string]string{
		"username":          c.user,
		"password":          c.password,
		"loginProviderName": "tmos",
	}
	resp, err := c.do(ctx, http.MethodPost, loginPath, payload, false)
	if err != nil {
		return fmt.Errorf("%w: %v", f5errors.ErrAuthFailed, err)
	}
	if resp.Status < 200 || resp.Status >= 300 {
		if msg, ok := resp.Message(); ok {
			return fmt.Errorf("%w: %s", f5errors.ErrAuthFailed, msg)
		}
		return fmt.Errorf("%w: status %d", f5errors.ErrAuthFailed, resp.Status)
	}
	token, ok := tokenFromBody(resp.Body)
	if !ok {
		return fmt.Errorf("%w: no token in login response", f5errors.ErrAuthFailed)
	}
	c.token = token
	return nil
}

func tokenFromBody(body map[string]interface{}) (string, bool) {
	t, ok := body["token"].(map[string]interface{})
	if !ok {
		return "", false
	}
	s, ok := t["token"].(string)
	return s, ok
}

// Get issues a GET against an API path.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.request(ctx, http.MethodGet, path, nil)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.request(ctx, http.MethodPost, path, body)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.request(ctx, http.MethodPatch, path, body)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.request(ctx, http.MethodPut, path, body)
}

// Delete issues a DELETE against an API path.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.request(ctx, http.MethodDelete, path, nil)
}

func (c *Client) request(ctx context.Context, method, path string, body interface{}) (*Response, error) {
	if c.token == "" && c.password != "" {
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
	}
	return c.do(ctx, method, path, body, true)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, authed bool) (*Response, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authed && c.token != "" {
		req.Header.Set("X-F5-Auth-Token", c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw := new(bytes.Buffer)
	if _, err := raw.ReadFrom(resp.Body); err != nil {
		return nil, err
	}

	out := &Response{Status: resp.StatusCode, Raw: raw.Bytes()}
	if len(out.Raw) > 0 {
		var decoded map[string]interface{}
		if err := json.Unmarshal(out.Raw, &decoded); err == nil {
			out.Body = decoded
		}
	}
	return out, nil
}

// CheckError applies the uniform error policy: a response carrying one of the
// given error codes fails with the device message verbatim when present, or
// the raw payload otherwise. Responses that are not JSON objects fail
// immediately.
// CheckError 应用统一错误策略：携带给定错误码的响应会原样透出设备消息；
// 非 JSON 对象的响应立即失败。
func CheckError(resp *Response, codes ...int) error {
	if resp.Body == nil {
		return fmt.Errorf("%w: %s", f5errors.ErrMalformedResponse, string(resp.Raw))
	}
	code := resp.Code()
	for _, c := range codes {
		if code == c {
			if msg, ok := resp.Message(); ok {
				return f5errors.NewDeviceError(msg)
			}
			return f5errors.NewDeviceError(string(resp.Raw))
		}
	}
	return nil
}
