package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParamsBasics tests set/get/delete on the flat record
// TestParamsBasics 测试扁平记录的增删查
func TestParamsBasics(t *testing.T) {
	p := NewParams()
	p.Set("name", "foo")
	p.Set("mtu", 1500)

	assert.True(t, p.Has("name"))
	assert.Equal(t, "foo", p.Str("name"))

	mtu, ok := p.Int("mtu")
	assert.True(t, ok)
	assert.Equal(t, 1500, mtu)

	// nil assignment removes the key
	// 赋值 nil 会移除该键
	p.Set("name", nil)
	assert.False(t, p.Has("name"))

	p.Delete("mtu")
	assert.Equal(t, 0, p.Len())
}

// TestParamsFromDropsNil tests that nil values are treated as unset
// TestParamsFromDropsNil 测试 nil 值被视为未设置
func TestParamsFromDropsNil(t *testing.T) {
	p := ParamsFrom(map[string]interface{}{
		"name":        "foo",
		"description": nil,
	})
	assert.True(t, p.Has("name"))
	assert.False(t, p.Has("description"))
}

// TestParamsIntFoldsFloat tests JSON float64 folding
// TestParamsIntFoldsFloat 测试 JSON float64 折算
func TestParamsIntFoldsFloat(t *testing.T) {
	p := ParamsFrom(map[string]interface{}{"timeout": float64(300)})
	v, ok := p.Int("timeout")
	assert.True(t, ok)
	assert.Equal(t, 300, v)
}

// TestParamsStrList tests list coercion from decoded JSON
// TestParamsStrList 测试从解码后的 JSON 转换列表
func TestParamsStrList(t *testing.T) {
	p := ParamsFrom(map[string]interface{}{
		"methods": []interface{}{"GET", "POST"},
		"codes":   []string{"200", "302"},
	})

	methods, ok := p.StrList("methods")
	assert.True(t, ok)
	assert.Equal(t, []string{"GET", "POST"}, methods)

	codes, ok := p.StrList("codes")
	assert.True(t, ok)
	assert.Equal(t, []string{"200", "302"}, codes)
}

// TestParamsStrListCoercesScalars tests that numeric elements keep their
// string spelling instead of being dropped
// TestParamsStrListCoercesScalars 测试数字元素保留其字符串写法而不被丢弃
func TestParamsStrListCoercesScalars(t *testing.T) {
	p := ParamsFrom(map[string]interface{}{
		"codes":      []interface{}{400, 500},
		"interfaces": []interface{}{1.1, 1.2},
		"mixed":      []interface{}{"1.3", 2.1},
	})

	codes, ok := p.StrList("codes")
	assert.True(t, ok)
	assert.Equal(t, []string{"400", "500"}, codes)

	interfaces, ok := p.StrList("interfaces")
	assert.True(t, ok)
	assert.Equal(t, []string{"1.1", "1.2"}, interfaces)

	mixed, ok := p.StrList("mixed")
	assert.True(t, ok)
	assert.Equal(t, []string{"1.3", "2.1"}, mixed)
}

func TestParamsCopyIsIndependent(t *testing.T) {
	p := ParamsFrom(map[string]interface{}{"name": "foo"})
	c := p.Copy()
	c.Set("name", "bar")
	assert.Equal(t, "foo", p.Str("name"))
	assert.Equal(t, "bar", c.Str("name"))
}

func TestParamsKeysSorted(t *testing.T) {
	p := ParamsFrom(map[string]interface{}{"b": 1, "a": 2, "c": 3})
	assert.Equal(t, []string{"a", "b", "c"}, p.Keys())
}
