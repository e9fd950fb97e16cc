package reconcile

import (
	"fmt"
	"sort"
)

// Params is a flat key/value configuration record. Desired state, current
// device state and the computed change set are all carried in this shape.
// A key that is absent (or nil) means "not specified".
// Params 是扁平的键值配置记录。期望状态、设备当前状态和计算出的变更集
// 都使用这种形式。键不存在（或为 nil）表示“未指定”。
type Params struct {
	m map[string]interface{}
}

// NewParams returns an empty record.
func NewParams() *Params {
	return &Params{m: make(map[string]interface{})}
}

// ParamsFrom wraps an existing map. Nil values are treated as unset.
func ParamsFrom(m map[string]interface{}) *Params {
	p := NewParams()
	for k, v := range m {
		if v != nil {
			p.m[k] = v
		}
	}
	return p
}

// Get returns the raw value for key.
func (p *Params) Get(key string) (interface{}, bool) {
	v, ok := p.m[key]
	return v, ok
}

// Set stores a value. Setting nil removes the key.
func (p *Params) Set(key string, value interface{}) {
	if value == nil {
		delete(p.m, key)
		return
	}
	p.m[key] = value
}

// Delete removes a key.
func (p *Params) Delete(key string) {
	delete(p.m, key)
}

// Has reports whether key carries a value.
func (p *Params) Has(key string) bool {
	_, ok := p.m[key]
	return ok
}

// Len returns the number of set keys.
func (p *Params) Len() int {
	return len(p.m)
}

// Keys returns the set keys in sorted order.
func (p *Params) Keys() []string {
	keys := make([]string, 0, len(p.m))
	for k := range p.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Str returns the value as a string, or "" when unset or not a string.
func (p *Params) Str(key string) string {
	if v, ok := p.m[key].(string); ok {
		return v
	}
	return ""
}

// Int returns the value as an int. JSON numbers arrive as float64 and are
// folded down.
// Int 以 int 返回值。JSON 数字以 float64 形式到达，会被折算。
func (p *Params) Int(key string) (int, bool) {
	switch v := p.m[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// Bool returns the value as a bool.
func (p *Params) Bool(key string) (bool, bool) {
	v, ok := p.m[key].(bool)
	return v, ok
}

// StrList returns the value as a string slice. Scalar elements of a
// []interface{} are coerced to their string spelling, so numeric input
// like [400, 500] or [1.1, 1.2] keeps its members.
// StrList 以字符串切片返回值。[]interface{} 的标量元素会被强制转为字符串
// 写法，因此 [400, 500] 或 [1.1, 1.2] 这类数字输入不会丢失成员。
func (p *Params) StrList(key string) ([]string, bool) {
	switch v := p.m[key].(type) {
	case []string:
		return v, true
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out, true
	}
	return nil, false
}

// Map returns the value as a nested object.
func (p *Params) Map(key string) (map[string]interface{}, bool) {
	v, ok := p.m[key].(map[string]interface{})
	return v, ok
}

// Copy returns a shallow copy of the record.
func (p *Params) Copy() *Params {
	out := NewParams()
	for k, v := range p.m {
		out.m[k] = v
	}
	return out
}

// ToMap exports the record as a plain map.
func (p *Params) ToMap() map[string]interface{} {
	out := make(map[string]interface{}, len(p.m))
	for k, v := range p.m {
		out[k] = v
	}
	return out
}
