package reconcile

import (
	"fmt"
	"reflect"
)

// deepEqual compares two values, folding numeric types first so that ints
// from user input compare equal to the float64s JSON decoding produces.
// deepEqual 比较两个值，先折叠数值类型，使用户输入的 int 与 JSON 解码出的
// float64 能够相等。
func deepEqual(a, b interface{}) bool {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}
	}
	if as, aok := a.([]string); aok {
		a = interface{}(as)
		if bl := toStrSlice(b); bl != nil {
			return reflect.DeepEqual(as, bl)
		}
	}
	if bs, bok := b.([]string); bok {
		if al := toStrSlice(a); al != nil {
			return reflect.DeepEqual(al, bs)
		}
	}
	return reflect.DeepEqual(a, b)
}

// AsInt folds a numeric value down to int.
func AsInt(v interface{}) (int, bool) {
	f, ok := asFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// FlattenBoolean folds the many spellings of a boolean into "yes"/"no".
// nil stays nil so unspecified parameters are never compared.
// FlattenBoolean 将布尔值的多种写法折叠为 "yes"/"no"。
// nil 保持为 nil，未指定的参数不会参与比较。
func FlattenBoolean(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case string:
		switch v {
		case "yes", "on", "1", "true", "True", "enabled":
			return "yes"
		case "no", "off", "0", "false", "False", "disabled":
			return "no"
		}
	}
	return value
}

// YesNoToEnabled maps a flattened boolean to the wire enabled/disabled form.
func YesNoToEnabled(value interface{}) interface{} {
	flat := FlattenBoolean(value)
	switch flat {
	case "yes":
		return "enabled"
	case "no":
		return "disabled"
	}
	return flat
}

// EnabledToYesNo maps the wire enabled/disabled form back to yes/no.
func EnabledToYesNo(value interface{}) interface{} {
	switch value {
	case "enabled":
		return "yes"
	case "disabled":
		return "no"
	}
	return value
}

// CmpStrWithNone compares two optional strings where the empty string on the
// desired side means "clear the value".
// CmpStrWithNone 比较两个可选字符串，期望侧的空字符串表示“清除该值”。
func CmpStrWithNone(want, have interface{}) interface{} {
	if want == nil {
		return nil
	}
	if have == nil && want == "" {
		return nil
	}
	if !reflect.DeepEqual(want, have) {
		return want
	}
	return nil
}

// CmpSimpleList compares two lists as sets. The sentinel values "" and
// "none" on the desired side clear the list on the device.
// CmpSimpleList 以集合方式比较两个列表。期望侧的 "" 和 "none" 哨兵值
// 会清空设备上的列表。
func CmpSimpleList(want, have interface{}) interface{} {
	if want == nil {
		return nil
	}
	if s, ok := want.(string); ok && (s == "" || s == "none") {
		if have == nil {
			return nil
		}
		return []string{}
	}
	wantList := toStrSlice(want)
	if have == nil {
		return wantList
	}
	haveList := toStrSlice(have)
	if !sameSet(wantList, haveList) {
		return wantList
	}
	return nil
}

func toStrSlice(v interface{}) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []interface{}:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
				continue
			}
			// Numeric members keep their string spelling.
			// 数字成员保留其字符串写法。
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		return []string{s}
	}
	return nil
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, s := range a {
		seen[s]++
	}
	for _, s := range b {
		if seen[s] == 0 {
			return false
		}
		seen[s]--
	}
	return true
}
