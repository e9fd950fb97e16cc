// Package tunnel manages tunnels under /mgmt/tm/net/tunnels/tunnel.
// Package tunnel 管理 /mgmt/tm/net/tunnels/tunnel 下的隧道。
package tunnel

import (
	"strconv"

	"github.com/gundalow-collections/f5networks/internal/reconcile"
	f5errors "github.com/gundalow-collections/f5networks/pkg/errors"
)

const basePath = "/mgmt/tm/net/tunnels/tunnel/"

// Definition returns the tunnel resource schema.
// Definition 返回隧道资源模式。
func Definition() *reconcile.Definition {
	return &reconcile.Definition{
		Kind: "net/tunnel",
		CollectionPath: func(p *reconcile.Params) string {
			return basePath
		},
		ItemPath: func(p *reconcile.Params) string {
			return basePath + reconcile.TransformName(p.Str("partition"), p.Str("name"))
		},
		APIMap: map[string]string{
			"localAddress":  "local_address",
			"remoteAddress": "remote_address",
		},
		APIAttributes: []string{
			"description",
			"profile",
			"key",
			"localAddress",
			"remoteAddress",
			"mtu",
			"mode",
			"transparent",
			"tos",
		},
		Returnables: []string{
			"description",
			"profile",
			"key",
			"local_address",
			"remote_address",
			"mtu",
			"mode",
			"transparent",
			"tos",
		},
		Updatables: []string{
			"description",
			"key",
			"local_address",
			"remote_address",
			"mtu",
			"mode",
			"transparent",
			"tos",
			"profile",
		},
		ModuleNorm: map[string]reconcile.NormFunc{
			"profile": func(p *reconcile.Params) (interface{}, error) {
				if !p.Has("profile") {
					return nil, nil
				}
				return reconcile.FqName(p.Str("partition"), p.Str("profile")), nil
			},
			"mode": func(p *reconcile.Params) (interface{}, error) {
				if !p.Has("mode") {
					return nil, nil
				}
				switch v := p.Str("mode"); v {
				case "bidirectional", "inbound", "outbound":
					return v, nil
				default:
					return nil, f5errors.NewChoiceError("mode", v)
				}
			},
			"tos": normTos,
			"mtu": func(p *reconcile.Params) (interface{}, error) {
				if !p.Has("mtu") {
					return nil, nil
				}
				n, ok := p.Int("mtu")
				if !ok || n < 0 || n > 65535 {
					return nil, f5errors.NewRangeError("mtu", "0 - 65535")
				}
				return n, nil
			},
			"key": func(p *reconcile.Params) (interface{}, error) {
				if !p.Has("key") {
					return nil, nil
				}
				n, ok := p.Int("key")
				if !ok || n < 0 {
					return nil, f5errors.NewRangeError("key", "0 - 4294967295")
				}
				return n, nil
			},
			"transparent": func(p *reconcile.Params) (interface{}, error) {
				v, _ := p.Get("transparent")
				return reconcile.FlattenBoolean(v), nil
			},
		},
		APINorm: map[string]reconcile.NormFunc{
			"transparent": func(p *reconcile.Params) (interface{}, error) {
				v, _ := p.Get("transparent")
				return reconcile.FlattenBoolean(v), nil
			},
		},
		Usable: map[string]reconcile.AssembleFunc{
			"transparent": func(changes *reconcile.Params) (interface{}, bool) {
				v, ok := changes.Get("transparent")
				if !ok {
					return nil, false
				}
				return reconcile.YesNoToEnabled(v), true
			},
		},
		Compare: map[string]reconcile.CompareFunc{
			"profile": func(want, have *reconcile.Params) (interface{}, error) {
				wv, ok := want.Get("profile")
				if !ok {
					return nil, nil
				}
				if hv, ok := have.Get("profile"); ok && wv != hv {
					// The encapsulation profile is fixed at creation.
					// 封装 profile 在创建时固定。
					return nil, f5errors.ErrParentChanged
				}
				return nil, nil
			},
			"tos": func(want, have *reconcile.Params) (interface{}, error) {
				wv, ok := want.Get("tos")
				if !ok {
					return nil, nil
				}
				hv, _ := have.Get("tos")
				if tosEqual(wv, hv) {
					return nil, nil
				}
				return wv, nil
			},
		},
		CreateErrorCodes: []int{400, 403, 404},
		UpdateErrorCodes: []int{400, 404},
		OnCreate: func(m *reconcile.Manager) error {
			if !m.Want.Has("profile") {
				return f5errors.NewMissingError("profile")
			}
			return nil
		},
	}
}

// normTos accepts "preserve" or a numeric TOS value.
// normTos 接受 "preserve" 或数值形式的 TOS。
func normTos(p *reconcile.Params) (interface{}, error) {
	v, ok := p.Get("tos")
	if !ok {
		return nil, nil
	}
	if s, isStr := v.(string); isStr {
		if s == "preserve" {
			return s, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, f5errors.NewRangeError("tos", "0 - 255, or 'preserve'")
		}
		v = n
	}
	n, ok := reconcile.AsInt(v)
	if !ok || n < 0 || n > 255 {
		return nil, f5errors.NewRangeError("tos", "0 - 255, or 'preserve'")
	}
	return n, nil
}

// tosEqual folds the numeric and string spellings the device may report.
// tosEqual 折叠设备可能报告的数值和字符串两种写法。
func tosEqual(want, have interface{}) bool {
	if ws, ok := want.(string); ok {
		hs, _ := have.(string)
		return ws == hs
	}
	wn, wok := reconcile.AsInt(want)
	hn, hok := reconcile.AsInt(have)
	if wok && hok {
		return wn == hn
	}
	if hs, ok := have.(string); ok && wok {
		if hn, err := strconv.Atoi(hs); err == nil {
			return wn == hn
		}
	}
	return false
}
