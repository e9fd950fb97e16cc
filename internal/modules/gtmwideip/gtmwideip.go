// Package gtmwideip manages GTM wide IPs under /mgmt/tm/gtm/wideip/{type}.
// Package gtmwideip 管理 /mgmt/tm/gtm/wideip/{type} 下的 GTM wide IP。
//
// The record type is part of the collection path, so it can never change
// after creation; it selects among a/aaaa/cname/mx/naptr/srv.
// 记录类型是集合路径的一部分，创建后不可变更；可选 a/aaaa/cname/mx/
// naptr/srv。
package gtmwideip

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gundalow-collections/f5networks/internal/reconcile"
	f5errors "github.com/gundalow-collections/f5networks/pkg/errors"
)

const basePath = "/mgmt/tm/gtm/wideip/"

var recordTypes = []string{"a", "aaaa", "cname", "mx", "naptr", "srv"}

var lbMethods = []string{
	"round-robin",
	"ratio",
	"topology",
	"global-availability",
}

// Definition returns the wide IP resource schema.
// Definition 返回 wide IP 资源模式。
func Definition() *reconcile.Definition {
	return &reconcile.Definition{
		Kind: "gtm/wideip",
		CollectionPath: func(p *reconcile.Params) string {
			return basePath + p.Str("type") + "/"
		},
		ItemPath: func(p *reconcile.Params) string {
			return basePath + p.Str("type") + "/" +
				reconcile.TransformName(p.Str("partition"), p.Str("name"))
		},
		APIMap: map[string]string{
			"poolLbMode":     "pool_lb_method",
			"lastResortPool": "last_resort_pool",
		},
		APIAttributes: []string{
			"description",
			"poolLbMode",
			"lastResortPool",
			"persistence",
			"pools",
		},
		Returnables: []string{
			"description",
			"pool_lb_method",
			"last_resort_pool",
			"persistence",
			"pools",
		},
		Updatables: []string{
			"description",
			"pool_lb_method",
			"last_resort_pool",
			"persistence",
			"pools",
		},
		ModuleNorm: map[string]reconcile.NormFunc{
			"type": func(p *reconcile.Params) (interface{}, error) {
				v := p.Str("type")
				if v == "" {
					return nil, f5errors.NewMissingError("type")
				}
				for _, t := range recordTypes {
					if v == t {
						return v, nil
					}
				}
				return nil, f5errors.NewChoiceError("type", v)
			},
			"pool_lb_method": func(p *reconcile.Params) (interface{}, error) {
				if !p.Has("pool_lb_method") {
					return nil, nil
				}
				v := p.Str("pool_lb_method")
				for _, m := range lbMethods {
					if v == m {
						return v, nil
					}
				}
				return nil, f5errors.NewChoiceError("pool_lb_method", v)
			},
			"persistence": func(p *reconcile.Params) (interface{}, error) {
				v, _ := p.Get("persistence")
				return reconcile.YesNoToEnabled(v), nil
			},
			"last_resort_pool": normLastResort,
			"pools":            normPools,
		},
		APINorm: map[string]reconcile.NormFunc{
			"pools": func(p *reconcile.Params) (interface{}, error) {
				v, ok := p.Get("pools")
				if !ok {
					return nil, nil
				}
				entries, isList := v.([]interface{})
				if !isList {
					return nil, nil
				}
				result := make([]interface{}, 0, len(entries))
				for _, entry := range entries {
					m, isMap := entry.(map[string]interface{})
					if !isMap {
						continue
					}
					pool := map[string]interface{}{
						"name": reconcile.FqName(fmt.Sprint(m["partition"]), fmt.Sprint(m["name"])),
					}
					if order, ok := m["order"]; ok {
						pool["order"], _ = reconcile.AsInt(order)
					}
					if ratio, ok := m["ratio"]; ok {
						pool["ratio"], _ = reconcile.AsInt(ratio)
					}
					result = append(result, pool)
				}
				return result, nil
			},
		},
		Usable: map[string]reconcile.AssembleFunc{
			"pools": func(changes *reconcile.Params) (interface{}, bool) {
				v, ok := changes.Get("pools")
				if !ok {
					return nil, false
				}
				entries, isList := v.([]interface{})
				if !isList {
					return nil, false
				}
				result := make([]interface{}, 0, len(entries))
				for _, entry := range entries {
					m, isMap := entry.(map[string]interface{})
					if !isMap {
						continue
					}
					pool := make(map[string]interface{})
					full := fmt.Sprint(m["name"])
					// The wire wants name and partition split apart.
					// 线上要求 name 和 partition 分开。
					parts := strings.Split(strings.TrimPrefix(full, "/"), "/")
					if len(parts) == 2 {
						pool["partition"] = parts[0]
						pool["name"] = parts[1]
					} else {
						pool["name"] = full
					}
					if order, ok := m["order"]; ok {
						pool["order"] = order
					}
					if ratio, ok := m["ratio"]; ok {
						pool["ratio"] = ratio
					}
					result = append(result, pool)
				}
				return result, true
			},
		},
		Report: map[string]reconcile.ReportFunc{
			"persistence": func(changes *reconcile.Params) (interface{}, bool) {
				v, ok := changes.Get("persistence")
				if !ok {
					return nil, false
				}
				return reconcile.EnabledToYesNo(v), true
			},
		},
		Compare: map[string]reconcile.CompareFunc{
			"pools":            cmpPools,
			"last_resort_pool": cmpLastResort,
		},
		CreateErrorCodes: []int{400, 403, 404},
		UpdateErrorCodes: []int{400, 404},
	}
}

// normLastResort folds the last resort pool into its typed wire spelling,
// e.g. "a /Common/pool". ""/"none" clears.
// normLastResort 将 last resort pool 折叠为带类型的线上写法，
// 例如 "a /Common/pool"。""/"none" 表示清空。
func normLastResort(p *reconcile.Params) (interface{}, error) {
	v, ok := p.Get("last_resort_pool")
	if !ok {
		return nil, nil
	}
	s, isStr := v.(string)
	if !isStr {
		return nil, fmt.Errorf("%w: last_resort_pool must be a string", f5errors.ErrInvalidParameter)
	}
	if s == "" || s == "none" {
		return "", nil
	}
	return p.Str("type") + " " + reconcile.FqName(p.Str("partition"), s), nil
}

// normPools folds the pool option list into canonical entries with
// fq names and integer order/ratio.
// normPools 将 pool 选项列表折叠为带全限定名和整数 order/ratio 的
// 规范条目。
func normPools(p *reconcile.Params) (interface{}, error) {
	v, ok := p.Get("pools")
	if !ok {
		return nil, nil
	}
	entries, isList := v.([]interface{})
	if !isList {
		return nil, fmt.Errorf("%w: pools must be a list", f5errors.ErrInvalidParameter)
	}
	result := make([]interface{}, 0, len(entries))
	for _, entry := range entries {
		m, isMap := entry.(map[string]interface{})
		if !isMap {
			return nil, fmt.Errorf("%w: pools entries must carry a name", f5errors.ErrInvalidParameter)
		}
		rawName, ok := m["name"]
		if !ok {
			return nil, fmt.Errorf("%w: pools entries must carry a name", f5errors.ErrMissingParameter)
		}
		partition := p.Str("partition")
		if v, ok := m["partition"]; ok {
			partition = fmt.Sprint(v)
		}
		name := fmt.Sprint(rawName)
		if !strings.HasPrefix(name, "/") {
			name = reconcile.FqName(partition, name)
		}
		pool := map[string]interface{}{"name": name}
		if order, ok := m["order"]; ok {
			n, isNum := reconcile.AsInt(order)
			if !isNum || n < 0 {
				return nil, f5errors.NewRangeError("order", "0 or greater")
			}
			pool["order"] = n
		}
		if ratio, ok := m["ratio"]; ok {
			n, isNum := reconcile.AsInt(ratio)
			if !isNum || n < 0 {
				return nil, f5errors.NewRangeError("ratio", "0 or greater")
			}
			pool["ratio"] = n
		}
		result = append(result, pool)
	}
	return result, nil
}

// cmpPools compares the pool memberships as sets of (name, order, ratio).
// cmpPools 以 (name, order, ratio) 集合的方式比较 pool 成员。
func cmpPools(want, have *reconcile.Params) (interface{}, error) {
	wv, ok := want.Get("pools")
	if !ok {
		return nil, nil
	}
	hv, _ := have.Get("pools")
	if sameKeys(poolKeys(wv), poolKeys(hv)) {
		return nil, nil
	}
	return wv, nil
}

func poolKeys(v interface{}) []string {
	entries, ok := v.([]interface{})
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		key := fmt.Sprint(m["name"])
		if order, ok := m["order"]; ok {
			if n, isNum := reconcile.AsInt(order); isNum {
				key += fmt.Sprintf("|order=%d", n)
			}
		}
		if ratio, ok := m["ratio"]; ok {
			if n, isNum := reconcile.AsInt(ratio); isNum {
				key += fmt.Sprintf("|ratio=%d", n)
			}
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sameKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// cmpLastResort treats the clear sentinel against an unset device value as
// a no-op.
// cmpLastResort 将清空哨兵值与设备未设置视为空操作。
func cmpLastResort(want, have *reconcile.Params) (interface{}, error) {
	wv, ok := want.Get("last_resort_pool")
	if !ok {
		return nil, nil
	}
	hv, haveSet := have.Get("last_resort_pool")
	if wv == "" {
		if !haveSet || hv == "" || hv == "none" {
			return nil, nil
		}
		return "", nil
	}
	if !haveSet || wv != hv {
		return wv, nil
	}
	return nil, nil
}
