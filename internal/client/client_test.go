package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	f5errors "github.com/gundalow-collections/f5networks/pkg/errors"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/mgmt/shared/authn/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"code":    401,
				"message": "Authentication failed.",
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"token": map[string]interface{}{"token": "ABCD"},
		})
	})
	mux.HandleFunc("/", handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// TestLogin tests token acquisition
// TestLogin 测试获取令牌
func TestLogin(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	c := NewForURL(srv.URL, "admin", "secret")

	require.NoError(t, c.Login(context.Background()))
	assert.Equal(t, "ABCD", c.token)
}

// TestLoginBadPassword tests that a rejected login surfaces the device message
// TestLoginBadPassword 测试登录被拒绝时透出设备消息
func TestLoginBadPassword(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	c := NewForURL(srv.URL, "admin", "wrong")

	err := c.Login(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, f5errors.ErrAuthFailed)
	assert.Contains(t, err.Error(), "Authentication failed.")
}

// TestTokenHeaderSent tests that the auth token is attached to requests
// TestTokenHeaderSent 测试请求携带认证令牌
func TestTokenHeaderSent(t *testing.T) {
	var gotToken string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-F5-Auth-Token")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"name": "foo"})
	})
	c := NewForURL(srv.URL, "admin", "secret")

	resp, err := c.Get(context.Background(), "/mgmt/tm/ltm/profile/http/~Common~foo")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "ABCD", gotToken)
	assert.Equal(t, "foo", resp.Body["name"])
}

// TestResponseCodeAndMessage tests decoding of error envelopes
// TestResponseCodeAndMessage 测试错误封套的解码
func TestResponseCodeAndMessage(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"code":    404,
			"message": "01020036:3: The requested profile was not found.",
		})
	})
	c := NewForURL(srv.URL, "admin", "secret")

	resp, err := c.Get(context.Background(), "/mgmt/tm/ltm/profile/http/~Common~missing")
	require.NoError(t, err)
	assert.Equal(t, 404, resp.Code())
	msg, ok := resp.Message()
	assert.True(t, ok)
	assert.Contains(t, msg, "was not found")
}

// TestCheckError tests the uniform error policy
// TestCheckError 测试统一错误策略
func TestCheckError(t *testing.T) {
	t.Run("device message surfaced verbatim", func(t *testing.T) {
		resp := &Response{
			Status: 400,
			Body: map[string]interface{}{
				"code":    float64(400),
				"message": "invalid property value",
			},
		}
		err := CheckError(resp, 400, 403, 404)
		require.Error(t, err)
		assert.ErrorIs(t, err, f5errors.ErrDeviceError)
		assert.Contains(t, err.Error(), "invalid property value")
	})

	t.Run("code not in list passes", func(t *testing.T) {
		resp := &Response{
			Status: 200,
			Body:   map[string]interface{}{"name": "foo"},
		}
		assert.NoError(t, CheckError(resp, 400, 403, 404))
	})

	t.Run("malformed JSON fails immediately", func(t *testing.T) {
		resp := &Response{Status: 200, Raw: []byte("<html>not json</html>")}
		err := CheckError(resp, 400)
		require.Error(t, err)
		assert.ErrorIs(t, err, f5errors.ErrMalformedResponse)
	})
}
