// Package vlan manages VLANs under /mgmt/tm/net/vlan.
// Package vlan 管理 /mgmt/tm/net/vlan 下的 VLAN。
//
// Interface membership is read back through the interfaces sub-collection
// and written as a flat interfaces list; the tagged_interfaces and
// untagged_interfaces shorthands fold into that same list.
// 接口成员关系通过 interfaces 子集合读回，以扁平的 interfaces 列表写入；
// tagged_interfaces 和 untagged_interfaces 简写折叠进同一个列表。
package vlan

import (
	"fmt"
	"sort"

	"github.com/gundalow-collections/f5networks/internal/reconcile"
	f5errors "github.com/gundalow-collections/f5networks/pkg/errors"
)

const basePath = "/mgmt/tm/net/vlan/"

const defaultMTU = 1500

// Definition returns the VLAN resource schema.
// Definition 返回 VLAN 资源模式。
func Definition() *reconcile.Definition {
	def := &reconcile.Definition{
		Kind: "net/vlan",
		CollectionPath: func(p *reconcile.Params) string {
			return basePath
		},
		ItemPath: func(p *reconcile.Params) string {
			return basePath + reconcile.TransformName(p.Str("partition"), p.Str("name"))
		},
		ReadPath: func(p *reconcile.Params) string {
			return basePath + reconcile.TransformName(p.Str("partition"), p.Str("name")) +
				"?expandSubcollections=true"
		},
		APIMap: map[string]string{
			"cmpHash":             "cmp_hash",
			"dagTunnel":           "dag_tunnel",
			"dagRoundRobin":       "dag_round_robin",
			"interfacesReference": "interfaces",
			"sourceChecking":      "source_check",
			"failsafe":            "fail_safe",
			"failsafeAction":      "fail_safe_action",
			"failsafeTimeout":     "fail_safe_timeout",
		},
		APIAttributes: []string{
			"description",
			"interfaces",
			"tag",
			"mtu",
			"cmpHash",
			"dagTunnel",
			"dagRoundRobin",
			"sourceChecking",
			"failsafe",
			"failsafeAction",
			"failsafeTimeout",
			"sflow",
		},
		Returnables: []string{
			"description",
			"partition",
			"tag",
			"interfaces",
			"tagged_interfaces",
			"untagged_interfaces",
			"mtu",
			"cmp_hash",
			"dag_tunnel",
			"dag_round_robin",
			"source_check",
			"fail_safe",
			"fail_safe_action",
			"fail_safe_timeout",
			"sflow_poll_interval",
			"sflow_sampling_rate",
			"sflow",
		},
		Reportables: []string{
			"description",
			"partition",
			"tag",
			"interfaces",
			"tagged_interfaces",
			"untagged_interfaces",
			"mtu",
			"cmp_hash",
			"dag_tunnel",
			"dag_round_robin",
			"source_check",
			"fail_safe",
			"fail_safe_action",
			"fail_safe_timeout",
			"sflow_poll_interval",
			"sflow_sampling_rate",
		},
		Updatables: []string{
			"interfaces",
			"tagged_interfaces",
			"untagged_interfaces",
			"tag",
			"description",
			"mtu",
			"cmp_hash",
			"dag_tunnel",
			"dag_round_robin",
			"source_check",
			"fail_safe",
			"fail_safe_action",
			"fail_safe_timeout",
			"sflow",
		},
		ModuleNorm: map[string]reconcile.NormFunc{
			"interfaces": normInterfaces,
			"tagged_interfaces": func(p *reconcile.Params) (interface{}, error) {
				return normNameList(p, "tagged_interfaces")
			},
			"untagged_interfaces": func(p *reconcile.Params) (interface{}, error) {
				return normNameList(p, "untagged_interfaces")
			},
			"mtu": func(p *reconcile.Params) (interface{}, error) {
				if !p.Has("mtu") {
					return nil, nil
				}
				n, ok := p.Int("mtu")
				if !ok || n < 576 || n > 9198 {
					return nil, f5errors.NewRangeError("mtu", "576 - 9198")
				}
				return n, nil
			},
			"cmp_hash": normCmpHash,
			"dag_round_robin": func(p *reconcile.Params) (interface{}, error) {
				v, ok := p.Bool("dag_round_robin")
				if !ok {
					return nil, nil
				}
				if v {
					return "enabled", nil
				}
				return "disabled", nil
			},
			"source_check": func(p *reconcile.Params) (interface{}, error) {
				v, _ := p.Get("source_check")
				return reconcile.FlattenBoolean(v), nil
			},
			"fail_safe": func(p *reconcile.Params) (interface{}, error) {
				v, _ := p.Get("fail_safe")
				return reconcile.FlattenBoolean(v), nil
			},
		},
		APINorm: map[string]reconcile.NormFunc{
			"interfaces": apiInterfaces,
			"tagged_interfaces": func(p *reconcile.Params) (interface{}, error) {
				return deviceNames(p, true)
			},
			"untagged_interfaces": func(p *reconcile.Params) (interface{}, error) {
				return deviceNames(p, false)
			},
			"source_check": func(p *reconcile.Params) (interface{}, error) {
				v, _ := p.Get("source_check")
				return reconcile.FlattenBoolean(v), nil
			},
			"fail_safe": func(p *reconcile.Params) (interface{}, error) {
				v, _ := p.Get("fail_safe")
				return reconcile.FlattenBoolean(v), nil
			},
			"sflow_poll_interval": func(p *reconcile.Params) (interface{}, error) {
				v, _ := subVal(p, "sflow", "pollInterval")
				return v, nil
			},
			"sflow_sampling_rate": func(p *reconcile.Params) (interface{}, error) {
				v, _ := subVal(p, "sflow", "samplingRate")
				return v, nil
			},
		},
		Usable: map[string]reconcile.AssembleFunc{
			"sourceChecking": assembleEnabled("source_check"),
			"failsafe":       assembleEnabled("fail_safe"),
		},
		Report: map[string]reconcile.ReportFunc{
			"tagged_interfaces": func(changes *reconcile.Params) (interface{}, bool) {
				return reportNames(changes, true)
			},
			"untagged_interfaces": func(changes *reconcile.Params) (interface{}, bool) {
				return reportNames(changes, false)
			},
			"source_check": reportFlat("source_check"),
			"fail_safe":    reportFlat("fail_safe"),
			"sflow_poll_interval": func(changes *reconcile.Params) (interface{}, bool) {
				v, ok := subVal(changes, "sflow", "pollInterval")
				return v, ok
			},
			"sflow_sampling_rate": func(changes *reconcile.Params) (interface{}, bool) {
				v, ok := subVal(changes, "sflow", "samplingRate")
				return v, ok
			},
		},
		Compare: map[string]reconcile.CompareFunc{
			"interfaces": cmpInterfaceList,
			"tagged_interfaces": func(want, have *reconcile.Params) (interface{}, error) {
				return cmpShorthand(want, have, "tagged_interfaces", "tagged")
			},
			"untagged_interfaces": func(want, have *reconcile.Params) (interface{}, error) {
				return cmpShorthand(want, have, "untagged_interfaces", "untagged")
			},
			"sflow": cmpSflow,
		},
		CreateErrorCodes: []int{400, 403},
	}
	def.OnCreate = func(m *reconcile.Manager) error {
		if !m.Want.Has("mtu") {
			m.Want.Set("mtu", defaultMTU)
		}
		// Creation stages a diff against an empty record so the interface
		// shorthands fold into the interfaces payload.
		// 创建时对空记录求差，使接口简写折叠进 interfaces 载荷。
		changes, err := def.Diff(m.Want, reconcile.NewParams())
		if err != nil {
			return err
		}
		m.Changes = changes
		return nil
	}
	return def
}

// normInterfaces folds the interface option list into the wire membership
// list. A single ""/"none" entry is the clear sentinel.
// normInterfaces 将接口选项列表折叠为线上成员列表。单个 ""/"none" 条目
// 是清空哨兵值。
func normInterfaces(p *reconcile.Params) (interface{}, error) {
	v, ok := p.Get("interfaces")
	if !ok {
		return nil, nil
	}
	items, isList := v.([]interface{})
	if !isList {
		return nil, fmt.Errorf("%w: interfaces must be a list", f5errors.ErrInvalidParameter)
	}
	if len(items) == 1 {
		if s, isStr := items[0].(string); isStr && (s == "" || s == "none") {
			return "", nil
		}
	}
	result := make([]interface{}, 0, len(items))
	for _, item := range items {
		entry, isMap := item.(map[string]interface{})
		if !isMap {
			return nil, fmt.Errorf("%w: interfaces must be a list of interface/tagging entries", f5errors.ErrInvalidParameter)
		}
		name, ok := entry["interface"]
		if !ok {
			return nil, fmt.Errorf("%w: an 'interface' key must be provided when specifying a list of interfaces", f5errors.ErrMissingParameter)
		}
		tagging, ok := entry["tagging"]
		if !ok {
			return nil, fmt.Errorf("%w: a 'tagging' key must be provided when specifying a list of interfaces", f5errors.ErrMissingParameter)
		}
		member := map[string]interface{}{"name": fmt.Sprint(name)}
		if tagging == "tagged" {
			member["tagged"] = true
		} else {
			member["untagged"] = true
		}
		result = append(result, member)
	}
	return result, nil
}

func normNameList(p *reconcile.Params, key string) (interface{}, error) {
	list, ok := p.StrList(key)
	if !ok {
		return nil, nil
	}
	if len(list) == 1 && list[0] == "" {
		return "", nil
	}
	out := append([]string(nil), list...)
	sort.Strings(out)
	return out, nil
}

func normCmpHash(p *reconcile.Params) (interface{}, error) {
	if !p.Has("cmp_hash") {
		return nil, nil
	}
	switch v := p.Str("cmp_hash"); v {
	case "source-address", "src", "src-ip", "source":
		return "src-ip", nil
	case "destination-address", "dest", "dst-ip", "destination", "dst":
		return "dst-ip", nil
	case "default":
		return "default", nil
	default:
		return nil, f5errors.NewChoiceError("cmp_hash", v)
	}
}

// apiInterfaces flattens the expanded interfaces sub-collection into the
// membership list.
// apiInterfaces 将展开的 interfaces 子集合展平为成员列表。
func apiInterfaces(p *reconcile.Params) (interface{}, error) {
	ref, ok := p.Map("interfaces")
	if !ok {
		return nil, nil
	}
	items, ok := ref["items"].([]interface{})
	if !ok {
		return nil, nil
	}
	result := make([]interface{}, 0, len(items))
	for _, item := range items {
		entry, isMap := item.(map[string]interface{})
		if !isMap {
			continue
		}
		member := map[string]interface{}{"name": fmt.Sprint(entry["name"])}
		if tagged, ok := entry["tagged"]; ok {
			member["tagged"] = tagged
		}
		if untagged, ok := entry["untagged"]; ok {
			member["untagged"] = untagged
		}
		result = append(result, member)
	}
	return result, nil
}

func deviceNames(p *reconcile.Params, tagged bool) (interface{}, error) {
	v, ok := p.Get("interfaces")
	if !ok {
		return nil, nil
	}
	list, err := apiInterfaces(p)
	if err != nil {
		return nil, err
	}
	if list == nil {
		// Already flattened by the interfaces hook.
		// 已被 interfaces 钩子展平。
		list = v
	}
	members, ok := list.([]interface{})
	if !ok {
		return nil, nil
	}
	return memberNames(members, tagged), nil
}

func memberNames(members []interface{}, tagged bool) []string {
	key := "untagged"
	if tagged {
		key = "tagged"
	}
	names := make([]string, 0, len(members))
	for _, m := range members {
		entry, ok := m.(map[string]interface{})
		if !ok {
			continue
		}
		if flagged, ok := entry[key].(bool); ok && flagged {
			names = append(names, fmt.Sprint(entry["name"]))
		}
	}
	sort.Strings(names)
	return names
}

// cmpInterfaceList compares the explicit membership lists as sets of
// (name, tagging) pairs.
// cmpInterfaceList 以 (name, tagging) 对的集合方式比较显式成员列表。
func cmpInterfaceList(want, have *reconcile.Params) (interface{}, error) {
	wv, ok := want.Get("interfaces")
	if !ok {
		return nil, nil
	}
	hv, haveSet := have.Get("interfaces")
	hl, _ := hv.([]interface{})
	if s, isStr := wv.(string); isStr && (s == "" || s == "none") {
		// An already-empty membership has nothing to clear.
		// 已经为空的成员列表没有可清除的内容。
		if len(hl) == 0 {
			return nil, nil
		}
		return map[string]interface{}{"interfaces": []interface{}{}}, nil
	}
	wl, _ := wv.([]interface{})
	if !haveSet {
		return map[string]interface{}{"interfaces": wl}, nil
	}
	if sameMembers(wl, hl) {
		return nil, nil
	}
	return map[string]interface{}{"interfaces": wl}, nil
}

func cmpShorthand(want, have *reconcile.Params, key, tagKey string) (interface{}, error) {
	wv, ok := want.Get(key)
	if !ok {
		return nil, nil
	}
	hv, _ := have.Get(key)
	haveNames, _ := hv.([]string)
	if s, isStr := wv.(string); isStr && s == "" {
		if len(haveNames) == 0 {
			return nil, nil
		}
		return map[string]interface{}{"interfaces": []interface{}{}}, nil
	}
	wantNames, _ := wv.([]string)
	if len(haveNames) > 0 && sameNameSet(wantNames, haveNames) {
		return nil, nil
	}
	members := make([]interface{}, 0, len(wantNames))
	for _, name := range wantNames {
		members = append(members, map[string]interface{}{"name": name, tagKey: true})
	}
	return map[string]interface{}{"interfaces": members}, nil
}

// cmpSflow merges the drifted sFlow settings into one wire sub-document.
// cmpSflow 将漂移的 sFlow 设置合并为一个线上子文档。
func cmpSflow(want, have *reconcile.Params) (interface{}, error) {
	result := make(map[string]interface{})
	if v, ok := want.Get("sflow_poll_interval"); ok {
		if hv, _ := have.Get("sflow_poll_interval"); !numEqual(v, hv) {
			result["pollInterval"] = v
		}
	}
	if v, ok := want.Get("sflow_sampling_rate"); ok {
		if hv, _ := have.Get("sflow_sampling_rate"); !numEqual(v, hv) {
			result["samplingRate"] = v
		}
	}
	if len(result) == 0 {
		return nil, nil
	}
	return map[string]interface{}{"sflow": result}, nil
}

func numEqual(a, b interface{}) bool {
	an, aok := reconcile.AsInt(a)
	bn, bok := reconcile.AsInt(b)
	return aok && bok && an == bn
}

func sameMembers(a, b []interface{}) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, m := range a {
		seen[memberKey(m)]++
	}
	for _, m := range b {
		k := memberKey(m)
		if seen[k] == 0 {
			return false
		}
		seen[k]--
	}
	return true
}

func memberKey(m interface{}) string {
	entry, ok := m.(map[string]interface{})
	if !ok {
		return fmt.Sprint(m)
	}
	tag := "untagged"
	if tagged, ok := entry["tagged"].(bool); ok && tagged {
		tag = "tagged"
	}
	return fmt.Sprint(entry["name"]) + "/" + tag
}

func sameNameSet(a, b []string) bool {
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

func subVal(p *reconcile.Params, doc, key string) (interface{}, bool) {
	m, ok := p.Map(doc)
	if !ok {
		return nil, false
	}
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func assembleEnabled(key string) reconcile.AssembleFunc {
	return func(changes *reconcile.Params) (interface{}, bool) {
		v, ok := changes.Get(key)
		if !ok {
			return nil, false
		}
		return reconcile.YesNoToEnabled(v), true
	}
}

func reportFlat(key string) reconcile.ReportFunc {
	return func(changes *reconcile.Params) (interface{}, bool) {
		v, ok := changes.Get(key)
		if !ok {
			return nil, false
		}
		return reconcile.FlattenBoolean(v), true
	}
}

func reportNames(changes *reconcile.Params, tagged bool) (interface{}, bool) {
	v, ok := changes.Get("interfaces")
	if !ok {
		return nil, false
	}
	members, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	names := memberNames(members, tagged)
	if len(names) == 0 {
		return nil, false
	}
	return names, true
}
