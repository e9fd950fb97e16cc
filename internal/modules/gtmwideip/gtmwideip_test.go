package gtmwideip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gundalow-collections/f5networks/internal/reconcile"
	f5errors "github.com/gundalow-collections/f5networks/pkg/errors"
)

func TestRecordTypePaths(t *testing.T) {
	def := Definition()
	want, err := def.NormalizeModule(map[string]interface{}{
		"name":      "app.example.com",
		"partition": "Common",
		"type":      "a",
	})
	require.NoError(t, err)
	assert.Equal(t, "/mgmt/tm/gtm/wideip/a/", def.CollectionPath(want))
	assert.Equal(t, "/mgmt/tm/gtm/wideip/a/~Common~app.example.com", def.ItemPath(want))

	want.Set("type", "srv")
	assert.Equal(t, "/mgmt/tm/gtm/wideip/srv/", def.CollectionPath(want))
}

func TestRecordTypeValidation(t *testing.T) {
	def := Definition()
	_, err := def.NormalizeModule(map[string]interface{}{
		"name":      "app.example.com",
		"partition": "Common",
		"type":      "txt",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, f5errors.ErrInvalidChoice)

	_, err = def.NormalizeModule(map[string]interface{}{
		"name":      "app.example.com",
		"partition": "Common",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, f5errors.ErrMissingParameter)
}

func TestPoolLbMethodValidation(t *testing.T) {
	def := Definition()
	for _, method := range []string{"round-robin", "ratio", "topology", "global-availability"} {
		want, err := def.NormalizeModule(map[string]interface{}{
			"name":           "app.example.com",
			"partition":      "Common",
			"type":           "a",
			"pool_lb_method": method,
		})
		require.NoError(t, err)
		assert.Equal(t, method, want.Str("pool_lb_method"))
	}

	_, err := def.NormalizeModule(map[string]interface{}{
		"name":           "app.example.com",
		"partition":      "Common",
		"type":           "a",
		"pool_lb_method": "fastest",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, f5errors.ErrInvalidChoice)
}

func TestPoolNormalization(t *testing.T) {
	def := Definition()
	want, err := def.NormalizeModule(map[string]interface{}{
		"name":      "app.example.com",
		"partition": "Common",
		"type":      "a",
		"pools": []interface{}{
			map[string]interface{}{"name": "pool1", "order": 0, "ratio": 10},
			map[string]interface{}{"name": "/Other/pool2", "order": 1},
		},
	})
	require.NoError(t, err)

	pools, ok := want.Get("pools")
	require.True(t, ok)
	entries := pools.([]interface{})
	require.Len(t, entries, 2)

	first := entries[0].(map[string]interface{})
	assert.Equal(t, "/Common/pool1", first["name"])
	assert.Equal(t, 0, first["order"])
	assert.Equal(t, 10, first["ratio"])

	second := entries[1].(map[string]interface{})
	assert.Equal(t, "/Other/pool2", second["name"])
}

func TestPoolNormalizationRejectsBadEntries(t *testing.T) {
	def := Definition()
	_, err := def.NormalizeModule(map[string]interface{}{
		"name":      "app.example.com",
		"partition": "Common",
		"type":      "a",
		"pools": []interface{}{
			map[string]interface{}{"order": 0},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, f5errors.ErrMissingParameter)

	_, err = def.NormalizeModule(map[string]interface{}{
		"name":      "app.example.com",
		"partition": "Common",
		"type":      "a",
		"pools": []interface{}{
			map[string]interface{}{"name": "pool1", "ratio": -1},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, f5errors.ErrInvalidRange)
}

func TestPoolSetComparison(t *testing.T) {
	def := Definition()
	want, err := def.NormalizeModule(map[string]interface{}{
		"name":      "app.example.com",
		"partition": "Common",
		"type":      "a",
		"pools": []interface{}{
			map[string]interface{}{"name": "pool1", "order": 0},
			map[string]interface{}{"name": "pool2", "order": 1},
		},
	})
	require.NoError(t, err)

	have, err := def.TranslateFromAPI(map[string]interface{}{
		"pools": []interface{}{
			map[string]interface{}{"name": "pool2", "partition": "Common", "order": 1},
			map[string]interface{}{"name": "pool1", "partition": "Common", "order": 0},
		},
	})
	require.NoError(t, err)

	changes, err := def.Diff(want, have)
	require.NoError(t, err)
	assert.False(t, changes.Has("pools"), "ordering alone must not produce drift")

	have2, err := def.TranslateFromAPI(map[string]interface{}{
		"pools": []interface{}{
			map[string]interface{}{"name": "pool1", "partition": "Common", "order": 0},
			map[string]interface{}{"name": "pool2", "partition": "Common", "order": 2},
		},
	})
	require.NoError(t, err)

	changes, err = def.Diff(want, have2)
	require.NoError(t, err)
	assert.True(t, changes.Has("pools"), "a changed member order must produce drift")
}

func TestPoolPayloadShape(t *testing.T) {
	def := Definition()
	changes := reconcile.NewParams()
	changes.Set("pools", []interface{}{
		map[string]interface{}{"name": "/Common/pool1", "order": 0, "ratio": 5},
	})

	payload := def.APIParams(changes)
	pools, ok := payload["pools"].([]interface{})
	require.True(t, ok)
	require.Len(t, pools, 1)

	entry := pools[0].(map[string]interface{})
	assert.Equal(t, "pool1", entry["name"])
	assert.Equal(t, "Common", entry["partition"])
	assert.Equal(t, 0, entry["order"])
	assert.Equal(t, 5, entry["ratio"])
}

func TestPersistenceFolding(t *testing.T) {
	def := Definition()
	want, err := def.NormalizeModule(map[string]interface{}{
		"name":        "app.example.com",
		"partition":   "Common",
		"type":        "a",
		"persistence": "yes",
	})
	require.NoError(t, err)
	assert.Equal(t, "enabled", want.Str("persistence"))

	changes := reconcile.NewParams()
	changes.Set("persistence", "disabled")
	report := def.ReportableChanges(changes)
	assert.Equal(t, "no", report["persistence"])
}

func TestLastResortPoolFolding(t *testing.T) {
	def := Definition()
	want, err := def.NormalizeModule(map[string]interface{}{
		"name":             "app.example.com",
		"partition":        "Common",
		"type":             "a",
		"last_resort_pool": "backup-pool",
	})
	require.NoError(t, err)
	assert.Equal(t, "a /Common/backup-pool", want.Str("last_resort_pool"))
}

func TestLastResortPoolClear(t *testing.T) {
	def := Definition()
	want, err := def.NormalizeModule(map[string]interface{}{
		"name":             "app.example.com",
		"partition":        "Common",
		"type":             "a",
		"last_resort_pool": "none",
	})
	require.NoError(t, err)

	// Clearing against a device that has nothing set is a no-op.
	have := reconcile.NewParams()
	changes, err := def.Diff(want, have)
	require.NoError(t, err)
	assert.False(t, changes.Has("last_resort_pool"))

	have.Set("last_resort_pool", "a /Common/backup-pool")
	changes, err = def.Diff(want, have)
	require.NoError(t, err)
	v, ok := changes.Get("last_resort_pool")
	require.True(t, ok)
	assert.Equal(t, "", v)
}
