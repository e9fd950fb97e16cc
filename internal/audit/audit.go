// Package audit keeps a local log of applied changes, one JSON record per
// reconcile run, and can stream it live.
// Package audit 在本地保存已应用变更的日志，每次调谐一条 JSON 记录，
// 并支持实时跟踪。
package audit

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nxadm/tail"

	"github.com/gundalow-collections/f5networks/internal/reconcile"
)

// Record is one audit log entry.
type Record struct {
	Time    time.Time              `json:"time"`
	Kind    string                 `json:"kind"`
	Name    string                 `json:"name"`
	State   string                 `json:"state,omitempty"`
	Check   bool                   `json:"check,omitempty"`
	Changed bool                   `json:"changed"`
	Changes map[string]interface{} `json:"changes,omitempty"`
}

// Writer appends records to an audit log file. A nil Writer discards.
type Writer struct {
	mu   sync.Mutex
	path string
}

// NewWriter prepares an appender for path, creating parent directories.
// NewWriter 为 path 准备追加器，并创建父目录。
func NewWriter(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, err
	}
	return &Writer{path: path}, nil
}

// Log appends one reconcile outcome. Secret-bearing change values were
// already excluded upstream by the per-resource report lists.
// Log 追加一次调谐结果。涉密变更值已在上游被各资源的报告列表排除。
func (w *Writer) Log(kind, name, state string, check bool, result *reconcile.Result) error {
	if w == nil {
		return nil
	}
	rec := Record{
		Time:    time.Now().UTC(),
		Kind:    kind,
		Name:    name,
		State:   state,
		Check:   check,
		Changed: result.Changed,
		Changes: result.Changes,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}

// Follow streams audit records from path to out until the context ends.
// The file may not exist yet; rotation is handled by reopening.
// Follow 将 path 中的审计记录流式发送到 out，直到 context 结束。文件
// 可以尚不存在；轮转通过重新打开处理。
func Follow(ctx context.Context, path string, out chan<- Record) error {
	defer close(out)

	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: false,
		Poll:      true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return err
	}
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-t.Lines:
			if !ok {
				return nil
			}
			if line.Err != nil {
				continue
			}
			var rec Record
			if err := json.Unmarshal([]byte(line.Text), &rec); err != nil {
				// Skip lines that are not audit records.
				continue
			}
			select {
			case out <- rec:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
