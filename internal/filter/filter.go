// Package filter evaluates list filter expressions against fetched
// collection items.
// Package filter 对已获取的集合条目求值列表过滤表达式。
//
// Expressions see one item at a time as a flat environment, e.g.
// `name == "http-custom"` or `mtu > 1500`. Attributes absent from an item
// evaluate as nil.
// 表达式每次针对一个条目求值，条目即扁平环境，例如 `name == "http-custom"`
// 或 `mtu > 1500`。条目中不存在的属性求值为 nil。
package filter

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	f5errors "github.com/gundalow-collections/f5networks/pkg/errors"
)

// Filter is a compiled item filter.
type Filter struct {
	src     string
	program *vm.Program
}

// Compile builds a filter from an expression source. An empty source matches
// everything.
// Compile 从表达式源码构建过滤器。空源码匹配全部。
func Compile(src string) (*Filter, error) {
	if src == "" {
		return &Filter{src: src}, nil
	}
	program, err := expr.Compile(src,
		expr.Env(map[string]interface{}{}),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: filter %q: %v", f5errors.ErrInvalidParameter, src, err)
	}
	return &Filter{src: src, program: program}, nil
}

// Match reports whether one item satisfies the filter.
// Match 报告单个条目是否满足过滤器。
func (f *Filter) Match(item map[string]interface{}) (bool, error) {
	if f.program == nil {
		return true, nil
	}
	output, err := expr.Run(f.program, item)
	if err != nil {
		return false, fmt.Errorf("%w: filter %q: %v", f5errors.ErrInvalidParameter, f.src, err)
	}
	ok, isBool := output.(bool)
	if !isBool {
		return false, fmt.Errorf("%w: filter %q did not yield a boolean", f5errors.ErrInvalidParameter, f.src)
	}
	return ok, nil
}

// Apply keeps the items that satisfy the filter.
// Apply 保留满足过滤器的条目。
func (f *Filter) Apply(items []map[string]interface{}) ([]map[string]interface{}, error) {
	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		ok, err := f.Match(item)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, item)
		}
	}
	return out, nil
}

// Items extracts the item list from a collection document. The management
// API wraps collections as {"items": [...]}; a missing list is an empty
// collection.
// Items 从集合文档中提取条目列表。管理 API 将集合包装为 {"items": [...]}；
// 缺失的列表视为空集合。
func Items(body map[string]interface{}) []map[string]interface{} {
	if body == nil {
		return nil
	}
	raw, ok := body["items"].([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(raw))
	for _, entry := range raw {
		if m, ok := entry.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}
