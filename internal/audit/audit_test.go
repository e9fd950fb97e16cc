package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gundalow-collections/f5networks/internal/reconcile"
)

func TestWriterAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit", "audit.log")
	w, err := NewWriter(path)
	require.NoError(t, err)

	require.NoError(t, w.Log("net/vlan", "internal", "present", false, &reconcile.Result{
		Changed: true,
		Changes: map[string]interface{}{"mtu": 9000},
	}))
	require.NoError(t, w.Log("net/vlan", "internal", "present", false, &reconcile.Result{
		Changed: false,
	}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, records, 2)

	assert.Equal(t, "net/vlan", records[0].Kind)
	assert.Equal(t, "internal", records[0].Name)
	assert.True(t, records[0].Changed)
	assert.Equal(t, float64(9000), records[0].Changes["mtu"])
	assert.False(t, records[1].Changed)
	assert.Nil(t, records[1].Changes)
}

func TestNilWriterDiscards(t *testing.T) {
	var w *Writer
	assert.NoError(t, w.Log("net/vlan", "internal", "present", false, &reconcile.Result{}))
}

func TestFollow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	w, err := NewWriter(path)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out := make(chan Record, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = Follow(ctx, path, out)
	}()

	require.NoError(t, w.Log("sys/db", "setup.run", "present", false, &reconcile.Result{Changed: true}))

	select {
	case rec := <-out:
		assert.Equal(t, "sys/db", rec.Kind)
		assert.Equal(t, "setup.run", rec.Name)
		assert.True(t, rec.Changed)
	case <-ctx.Done():
		t.Fatal("no audit record streamed")
	}

	cancel()
	<-done
}
