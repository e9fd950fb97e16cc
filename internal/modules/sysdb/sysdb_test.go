package sysdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gundalow-collections/f5networks/internal/client"
	f5errors "github.com/gundalow-collections/f5networks/pkg/errors"
)

// fakeDevice serves one database variable and records patches.
// fakeDevice 提供单个数据库变量并记录 patch 操作。
type fakeDevice struct {
	srv          *httptest.Server
	value        string
	defaultValue string
	patched      []map[string]interface{}
	resetTakes   bool
}

func newFakeDevice(t *testing.T, value, defaultValue string) *fakeDevice {
	t.Helper()
	d := &fakeDevice{value: value, defaultValue: defaultValue, resetTakes: true}
	mux := http.NewServeMux()
	mux.HandleFunc("/mgmt/tm/sys/db/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"name":         "setup.run",
				"value":        d.value,
				"defaultValue": d.defaultValue,
			})
		case http.MethodPatch:
			var body map[string]interface{}
			_ = json.NewDecoder(r.Body).Decode(&body)
			d.patched = append(d.patched, body)
			if d.resetTakes {
				if v, ok := body["value"].(string); ok {
					d.value = v
				}
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{})
		}
	})
	d.srv = httptest.NewServer(mux)
	t.Cleanup(d.srv.Close)
	return d
}

func (d *fakeDevice) client() *client.Client {
	return client.NewForURL(d.srv.URL, "admin", "")
}

// TestSetValue tests setting a drifted variable
// TestSetValue 测试设置发生漂移的变量
func TestSetValue(t *testing.T) {
	device := newFakeDevice(t, "true", "true")

	mgr, err := NewManager(device.client(), map[string]interface{}{
		"key":   "setup.run",
		"value": "false",
	}, false)
	require.NoError(t, err)

	result, err := mgr.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Changed)
	require.Len(t, device.patched, 1)
	assert.Equal(t, "false", device.patched[0]["value"])
	assert.Equal(t, "setup.run", result.Changes["name"])
	assert.Equal(t, "false", result.Changes["value"])
	assert.Equal(t, "true", result.Changes["default_value"])
}

// TestSetValueIdempotent tests that a matching value writes nothing
// TestSetValueIdempotent 测试值一致时不产生写操作
func TestSetValueIdempotent(t *testing.T) {
	device := newFakeDevice(t, "false", "true")

	mgr, err := NewManager(device.client(), map[string]interface{}{
		"key":   "setup.run",
		"value": "false",
	}, false)
	require.NoError(t, err)

	result, err := mgr.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Changed)
	assert.Empty(t, device.patched)
}

// TestSetWithoutValue tests the value requirement
// TestSetWithoutValue 测试必须提供 value 的约束
func TestSetWithoutValue(t *testing.T) {
	device := newFakeDevice(t, "true", "true")

	mgr, err := NewManager(device.client(), map[string]interface{}{
		"key": "setup.run",
	}, false)
	require.NoError(t, err)

	_, err = mgr.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, f5errors.ErrMissingParameter)
}

// TestBooleanValueFolding tests non-string value folding
// TestBooleanValueFolding 测试非字符串 value 的折叠
func TestBooleanValueFolding(t *testing.T) {
	device := newFakeDevice(t, "false", "true")

	mgr, err := NewManager(device.client(), map[string]interface{}{
		"key":   "setup.run",
		"value": false,
	}, false)
	require.NoError(t, err)

	result, err := mgr.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Changed)
}

// TestReset tests folding the default back in
// TestReset 测试恢复默认值
func TestReset(t *testing.T) {
	device := newFakeDevice(t, "false", "true")

	mgr, err := NewManager(device.client(), map[string]interface{}{
		"key":   "setup.run",
		"state": "reset",
	}, false)
	require.NoError(t, err)

	result, err := mgr.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Changed)
	require.Len(t, device.patched, 1)
	assert.Equal(t, "true", device.patched[0]["value"])
	assert.Equal(t, "true", result.Changes["value"])
}

// TestResetIdempotent tests reset on an already-default variable
// TestResetIdempotent 测试对已是默认值的变量执行 reset
func TestResetIdempotent(t *testing.T) {
	device := newFakeDevice(t, "true", "true")

	mgr, err := NewManager(device.client(), map[string]interface{}{
		"key":   "setup.run",
		"state": "reset",
	}, false)
	require.NoError(t, err)

	result, err := mgr.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Changed)
	assert.Empty(t, device.patched)
}

// TestResetVerifyFailure tests the reset verification
// TestResetVerifyFailure 测试 reset 后的校验
func TestResetVerifyFailure(t *testing.T) {
	device := newFakeDevice(t, "false", "true")
	device.resetTakes = false

	mgr, err := NewManager(device.client(), map[string]interface{}{
		"key":   "setup.run",
		"state": "reset",
	}, false)
	require.NoError(t, err)

	_, err = mgr.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, f5errors.ErrDeviceError)
}

// TestCheckMode tests that check mode performs no writes
// TestCheckMode 测试检查模式不执行写操作
func TestCheckMode(t *testing.T) {
	device := newFakeDevice(t, "true", "true")

	mgr, err := NewManager(device.client(), map[string]interface{}{
		"key":   "setup.run",
		"value": "false",
	}, true)
	require.NoError(t, err)

	result, err := mgr.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.Empty(t, device.patched)
}

// TestMissingKey tests the key requirement
// TestMissingKey 测试必须提供 key 的约束
func TestMissingKey(t *testing.T) {
	_, err := NewManager(nil, map[string]interface{}{"value": "x"}, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, f5errors.ErrMissingParameter)
}
