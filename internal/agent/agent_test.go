package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gundalow-collections/f5networks/internal/client"
)

// newFakeDevice serves sys/db variables from a fixed table and fails the
// test on any write: the agent only ever checks.
// newFakeDevice 从固定表提供 sys/db 变量，任何写操作都会使测试失败：
// agent 只做检查。
func newFakeDevice(t *testing.T, values map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/mgmt/tm/sys/db/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("drift check must not write, got %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		key := strings.TrimPrefix(r.URL.Path, "/mgmt/tm/sys/db/")
		value, ok := values[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"code": 404, "message": "not found",
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"name":         key,
			"value":        value,
			"defaultValue": value,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeDesired(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "desired.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCheckOnce(t *testing.T) {
	srv := newFakeDevice(t, map[string]string{
		"setup.run":         "false",
		"ui.advisory.color": "blue",
	})
	file := writeDesired(t, `
kind: sys/db
params:
  key: setup.run
  value: "false"
---
kind: sys/db
params:
  key: ui.advisory.color
  value: "red"
`)

	a := &Agent{
		Client: client.NewForURL(srv.URL, "admin", ""),
		File:   file,
	}
	summary, err := a.CheckOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, map[string]int{"sys/db": 1}, summary.Drifted)
}

func TestCheckOnceNoDrift(t *testing.T) {
	srv := newFakeDevice(t, map[string]string{"setup.run": "false"})
	file := writeDesired(t, `
kind: sys/db
params:
  key: setup.run
  value: "false"
`)

	a := &Agent{
		Client: client.NewForURL(srv.URL, "admin", ""),
		File:   file,
	}
	summary, err := a.CheckOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Total)
	assert.Empty(t, summary.Drifted)
}

func TestCheckOnceBadKind(t *testing.T) {
	srv := newFakeDevice(t, nil)
	file := writeDesired(t, `
kind: ltm/pool
params:
  name: web-pool
`)

	a := &Agent{
		Client: client.NewForURL(srv.URL, "admin", ""),
		File:   file,
	}
	_, err := a.CheckOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ltm/pool")
}

func TestCheckOnceMissingFile(t *testing.T) {
	a := &Agent{File: filepath.Join(t.TempDir(), "missing.yaml")}
	_, err := a.CheckOnce(context.Background())
	require.Error(t, err)
}
