// Package firewallrule manages AFM firewall rules nested under a policy or
// a rule list.
// Package firewallrule 管理嵌套在策略或规则列表下的 AFM 防火墙规则。
//
// Rules never live at a top-level collection: exactly one of parent_policy
// and parent_rule_list selects the containing object, and the rule name is
// unique within that container only.
// 规则不存在于顶层集合：parent_policy 和 parent_rule_list 必须二选一来
// 确定容器对象，规则名只在该容器内唯一。
package firewallrule

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gundalow-collections/f5networks/internal/reconcile"
	f5errors "github.com/gundalow-collections/f5networks/pkg/errors"
)

// Definition returns the firewall rule resource schema.
// Definition 返回防火墙规则资源模式。
func Definition() *reconcile.Definition {
	return &reconcile.Definition{
		Kind:           "security/firewall-rule",
		CollectionPath: collectionPath,
		ItemPath: func(p *reconcile.Params) string {
			return parentPath(p) + "/rules/" + p.Str("name")
		},
		APIMap: map[string]string{
			"ipProtocol": "protocol",
			"log":        "logging",
			"icmp":       "icmp_message",
		},
		APIAttributes: []string{
			"action",
			"description",
			"destination",
			"icmp",
			"ipProtocol",
			"log",
			"schedule",
			"source",
			"status",
		},
		Returnables: []string{
			"action",
			"description",
			"destination",
			"icmp_message",
			"protocol",
			"logging",
			"schedule",
			"source",
			"status",
		},
		Updatables: []string{
			"action",
			"description",
			"destination",
			"icmp_message",
			"protocol",
			"logging",
			"schedule",
			"source",
			"status",
		},
		ModuleNorm: map[string]reconcile.NormFunc{
			"parent_policy": normParents,
			"action": choiceNorm("action",
				"accept", "drop", "reject", "accept-decisively"),
			"status": choiceNorm("status",
				"enabled", "disabled", "scheduled"),
			"place": choiceNorm("place", "first", "last"),
			"schedule": func(p *reconcile.Params) (interface{}, error) {
				has := p.Has("schedule")
				if p.Str("status") == "scheduled" && !has {
					return nil, fmt.Errorf(
						"%w: schedule is required when status is scheduled",
						f5errors.ErrMissingParameter,
					)
				}
				if has && p.Has("status") && p.Str("status") != "scheduled" {
					return nil, fmt.Errorf(
						"%w: schedule can only be specified when status is scheduled",
						f5errors.ErrInvalidParameter,
					)
				}
				if !has {
					return nil, nil
				}
				return reconcile.FqName(p.Str("partition"), p.Str("schedule")), nil
			},
			"protocol": func(p *reconcile.Params) (interface{}, error) {
				v, ok := p.Get("protocol")
				if !ok {
					return nil, nil
				}
				// Numbers and names are both accepted on the wire; fold
				// numbers to their string spelling.
				// 线上同时接受数字和名称；数字折叠为字符串写法。
				if n, isNum := reconcile.AsInt(v); isNum {
					if n < 0 || n > 255 {
						return nil, f5errors.NewRangeError("protocol", "0 - 255, or a protocol name")
					}
					return fmt.Sprint(n), nil
				}
				return v, nil
			},
			"logging": func(p *reconcile.Params) (interface{}, error) {
				v, _ := p.Get("logging")
				return reconcile.FlattenBoolean(v), nil
			},
			"icmp_message": normICMP,
			"source": func(p *reconcile.Params) (interface{}, error) {
				return normEndpoint(p, "source")
			},
			"destination": func(p *reconcile.Params) (interface{}, error) {
				return normEndpoint(p, "destination")
			},
		},
		APINorm: map[string]reconcile.NormFunc{
			"logging": func(p *reconcile.Params) (interface{}, error) {
				v, ok := p.Get("logging")
				if !ok {
					return nil, nil
				}
				if b, isBool := v.(bool); isBool {
					v = b
				}
				return reconcile.FlattenBoolean(v), nil
			},
		},
		Usable: map[string]reconcile.AssembleFunc{
			"log": func(changes *reconcile.Params) (interface{}, bool) {
				v, ok := changes.Get("logging")
				if !ok {
					return nil, false
				}
				return reconcile.FlattenBoolean(v) == "yes", true
			},
		},
		Report: map[string]reconcile.ReportFunc{
			"logging": func(changes *reconcile.Params) (interface{}, bool) {
				v, ok := changes.Get("logging")
				if !ok {
					return nil, false
				}
				return reconcile.FlattenBoolean(v), true
			},
		},
		Compare: map[string]reconcile.CompareFunc{
			"source": func(want, have *reconcile.Params) (interface{}, error) {
				return cmpEndpoint(want, have, "source")
			},
			"destination": func(want, have *reconcile.Params) (interface{}, error) {
				return cmpEndpoint(want, have, "destination")
			},
			"icmp_message": cmpICMP,
		},
		CreateErrorCodes: []int{400, 403, 404},
		UpdateErrorCodes: []int{400, 404},
	}
}

// collectionPath appends the placement query so a "first" rule lands at the
// top of the container on create.
// collectionPath 追加放置查询参数，使 "first" 规则在创建时置于容器顶部。
func collectionPath(p *reconcile.Params) string {
	path := parentPath(p) + "/rules/"
	if p.Str("place") == "first" {
		return path + "?placeBefore=first"
	}
	return path
}

func parentPath(p *reconcile.Params) string {
	if policy := p.Str("parent_policy"); policy != "" {
		return "/mgmt/tm/security/firewall/policy/" +
			reconcile.TransformName(p.Str("partition"), policy)
	}
	return "/mgmt/tm/security/firewall/rule-list/" +
		reconcile.TransformName(p.Str("partition"), p.Str("parent_rule_list"))
}

// normParents enforces the exactly-one container constraint.
// normParents 强制容器二选一的约束。
func normParents(p *reconcile.Params) (interface{}, error) {
	hasPolicy := p.Has("parent_policy")
	hasList := p.Has("parent_rule_list")
	if hasPolicy && hasList {
		return nil, fmt.Errorf(
			"%w: parent_policy and parent_rule_list are mutually exclusive",
			f5errors.ErrInvalidParameter,
		)
	}
	if !hasPolicy && !hasList {
		return nil, fmt.Errorf(
			"%w: one of parent_policy or parent_rule_list is required",
			f5errors.ErrMissingParameter,
		)
	}
	if !hasPolicy {
		return nil, nil
	}
	return p.Str("parent_policy"), nil
}

// normICMP folds ICMP message options into the wire name list. The type:code
// pair joins with a colon; a single ""/"none" entry clears.
// normICMP 将 ICMP 消息选项折叠为线上名称列表。type:code 用冒号连接；
// 单个 ""/"none" 条目表示清空。
func normICMP(p *reconcile.Params) (interface{}, error) {
	v, ok := p.Get("icmp_message")
	if !ok {
		return nil, nil
	}
	items, isList := v.([]interface{})
	if !isList {
		return nil, fmt.Errorf("%w: icmp_message must be a list", f5errors.ErrInvalidParameter)
	}
	if len(items) == 1 {
		if s, isStr := items[0].(string); isStr && (s == "" || s == "none") {
			return []interface{}{}, nil
		}
	}
	result := make([]interface{}, 0, len(items))
	for _, item := range items {
		entry, isMap := item.(map[string]interface{})
		if !isMap {
			return nil, fmt.Errorf("%w: icmp_message entries must carry a type", f5errors.ErrInvalidParameter)
		}
		msgType, ok := entry["type"]
		if !ok {
			return nil, fmt.Errorf("%w: icmp_message entries must carry a type", f5errors.ErrMissingParameter)
		}
		name := fmt.Sprint(msgType)
		if code, ok := entry["code"]; ok {
			name = name + ":" + fmt.Sprint(code)
		}
		result = append(result, map[string]interface{}{"name": name})
	}
	return result, nil
}

// endpoint option key to wire category.
// 端点选项键到线上分类的映射。
var endpointCategories = map[string]string{
	"address":       "addresses",
	"address_range": "addresses",
	"address_list":  "addressLists",
	"country":       "geo",
	"vlan":          "vlans",
	"port":          "ports",
	"port_range":    "ports",
	"port_list":     "portLists",
}

// fq-named categories get the partition folded in.
// 需要全限定名的分类会折入 partition。
var fqCategories = map[string]bool{
	"addressLists": true,
	"portLists":    true,
	"vlans":        true,
}

// normEndpoint folds source/destination option lists into the wire
// sub-document of per-category name lists.
// normEndpoint 将 source/destination 选项列表折叠为按分类组织的线上
// 子文档。
func normEndpoint(p *reconcile.Params, key string) (interface{}, error) {
	v, ok := p.Get(key)
	if !ok {
		return nil, nil
	}
	items, isList := v.([]interface{})
	if !isList {
		return nil, fmt.Errorf("%w: %s must be a list", f5errors.ErrInvalidParameter, key)
	}
	result := make(map[string]interface{})
	for _, item := range items {
		entry, isMap := item.(map[string]interface{})
		if !isMap {
			return nil, fmt.Errorf("%w: %s entries must be option maps", f5errors.ErrInvalidParameter, key)
		}
		for option, raw := range entry {
			category, known := endpointCategories[option]
			if !known {
				return nil, f5errors.NewChoiceError(key, option)
			}
			name := fmt.Sprint(raw)
			if fqCategories[category] && !strings.HasPrefix(name, "/") {
				name = reconcile.FqName(p.Str("partition"), name)
			}
			list, _ := result[category].([]interface{})
			result[category] = append(list, map[string]interface{}{"name": name})
		}
	}
	return result, nil
}

// cmpEndpoint compares the per-category name sets, ignoring order.
// cmpEndpoint 按分类比较名称集合，忽略顺序。
func cmpEndpoint(want, have *reconcile.Params, key string) (interface{}, error) {
	wv, ok := want.Get(key)
	if !ok {
		return nil, nil
	}
	hv, _ := have.Get(key)
	if endpointEqual(canonEndpoint(wv), canonEndpoint(hv)) {
		return nil, nil
	}
	return wv, nil
}

func canonEndpoint(v interface{}) map[string][]string {
	out := make(map[string][]string)
	doc, ok := v.(map[string]interface{})
	if !ok {
		return out
	}
	for category, raw := range doc {
		entries, ok := raw.([]interface{})
		if !ok {
			continue
		}
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			names = append(names, entryName(entry))
		}
		sort.Strings(names)
		if len(names) > 0 {
			out[category] = names
		}
	}
	return out
}

func entryName(entry interface{}) string {
	if m, ok := entry.(map[string]interface{}); ok {
		return fmt.Sprint(m["name"])
	}
	return fmt.Sprint(entry)
}

func endpointEqual(a, b map[string][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for category, names := range a {
		other, ok := b[category]
		if !ok || len(other) != len(names) {
			return false
		}
		for i := range names {
			if names[i] != other[i] {
				return false
			}
		}
	}
	return true
}

func cmpICMP(want, have *reconcile.Params) (interface{}, error) {
	wv, ok := want.Get("icmp_message")
	if !ok {
		return nil, nil
	}
	hv, _ := have.Get("icmp_message")
	wantNames := icmpNames(wv)
	haveNames := icmpNames(hv)
	if len(wantNames) == 0 && len(haveNames) == 0 {
		return nil, nil
	}
	if len(wantNames) == len(haveNames) {
		same := true
		for i := range wantNames {
			if wantNames[i] != haveNames[i] {
				same = false
				break
			}
		}
		if same {
			return nil, nil
		}
	}
	return wv, nil
}

func icmpNames(v interface{}) []string {
	entries, ok := v.([]interface{})
	if !ok {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entryName(entry))
	}
	sort.Strings(names)
	return names
}

func choiceNorm(key string, choices ...string) reconcile.NormFunc {
	return func(p *reconcile.Params) (interface{}, error) {
		if !p.Has(key) {
			return nil, nil
		}
		v := p.Str(key)
		for _, c := range choices {
			if v == c {
				return v, nil
			}
		}
		return nil, f5errors.NewChoiceError(key, v)
	}
}
