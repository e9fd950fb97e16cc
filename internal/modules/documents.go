package modules

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gundalow-collections/f5networks/internal/client"
	"github.com/gundalow-collections/f5networks/internal/reconcile"
	f5errors "github.com/gundalow-collections/f5networks/pkg/errors"
)

// Document is one desired-state record of an apply file: the resource kind,
// the requested lifecycle state and the module parameters.
// Document 是 apply 文件中的一条期望状态记录：资源 kind、请求的生命周期
// 状态和模块参数。
type Document struct {
	Kind   string                 `yaml:"kind"`
	State  string                 `yaml:"state"`
	Params map[string]interface{} `yaml:"params"`
}

// DecodeDocuments reads every YAML document from r. Empty documents are
// skipped; a document without a kind fails.
// DecodeDocuments 从 r 读取全部 YAML 文档。空文档跳过；缺少 kind 的文档
// 失败。
func DecodeDocuments(r io.Reader) ([]Document, error) {
	dec := yaml.NewDecoder(r)
	var out []Document
	for {
		var doc Document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if doc.Kind == "" && doc.Params == nil {
			continue
		}
		if doc.Kind == "" {
			return nil, f5errors.NewMissingError("kind")
		}
		out = append(out, doc)
	}
	return out, nil
}

// LoadDocuments reads an apply file from disk.
func LoadDocuments(path string) ([]Document, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeDocuments(f)
}

// RunDocument dispatches one document through the registry. The document's
// state overrides any state key inside params.
// RunDocument 通过注册表分发单条文档。文档的 state 覆盖 params 内的
// state 键。
func RunDocument(ctx context.Context, c *client.Client, doc Document, checkMode bool) (*reconcile.Result, error) {
	runner, err := Lookup(doc.Kind)
	if err != nil {
		return nil, err
	}
	input := make(map[string]interface{}, len(doc.Params)+1)
	for k, v := range doc.Params {
		input[k] = v
	}
	if doc.State != "" {
		input["state"] = doc.State
	}
	return runner(ctx, c, input, checkMode)
}
