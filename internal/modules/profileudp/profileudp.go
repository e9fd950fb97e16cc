// Package profileudp manages UDP profiles under /mgmt/tm/ltm/profile/udp.
// Package profileudp 管理 /mgmt/tm/ltm/profile/udp 下的 UDP profile。
package profileudp

import (
	"strconv"

	"github.com/gundalow-collections/f5networks/internal/reconcile"
	f5errors "github.com/gundalow-collections/f5networks/pkg/errors"
)

const basePath = "/mgmt/tm/ltm/profile/udp/"

// idle_timeout carries two named spellings on top of the numeric range.
// idle_timeout 在数值范围之外还有两个具名写法。
const (
	idleTimeoutIndefinite = 4294967295
	idleTimeoutImmediate  = 0
)

// Definition returns the UDP profile resource schema.
// Definition 返回 UDP profile 资源模式。
func Definition() *reconcile.Definition {
	return &reconcile.Definition{
		Kind: "ltm/profile-udp",
		CollectionPath: func(p *reconcile.Params) string {
			return basePath
		},
		ItemPath: func(p *reconcile.Params) string {
			return basePath + reconcile.TransformName(p.Str("partition"), p.Str("name"))
		},
		APIMap: map[string]string{
			"idleTimeout":           "idle_timeout",
			"defaultsFrom":          "parent",
			"datagramLoadBalancing": "datagram_load_balancing",
		},
		APIAttributes: []string{
			"idleTimeout",
			"defaultsFrom",
			"datagramLoadBalancing",
		},
		Returnables: []string{
			"idle_timeout",
			"parent",
			"datagram_load_balancing",
		},
		Updatables: []string{
			"idle_timeout",
			"parent",
			"datagram_load_balancing",
		},
		ModuleNorm: map[string]reconcile.NormFunc{
			"parent": func(p *reconcile.Params) (interface{}, error) {
				if !p.Has("parent") {
					return nil, nil
				}
				return reconcile.FqName(p.Str("partition"), p.Str("parent")), nil
			},
			"idle_timeout": normIdleTimeout,
			"datagram_load_balancing": func(p *reconcile.Params) (interface{}, error) {
				v, _ := p.Get("datagram_load_balancing")
				return reconcile.YesNoToEnabled(v), nil
			},
		},
		Report: map[string]reconcile.ReportFunc{
			"idle_timeout": func(changes *reconcile.Params) (interface{}, bool) {
				v, ok := changes.Int("idle_timeout")
				if !ok {
					return nil, false
				}
				switch v {
				case idleTimeoutIndefinite:
					return "indefinite", true
				case idleTimeoutImmediate:
					return "immediate", true
				}
				return v, true
			},
			"datagram_load_balancing": func(changes *reconcile.Params) (interface{}, bool) {
				v, ok := changes.Get("datagram_load_balancing")
				if !ok {
					return nil, false
				}
				return reconcile.EnabledToYesNo(v), true
			},
		},
		Compare: map[string]reconcile.CompareFunc{
			"parent": func(want, have *reconcile.Params) (interface{}, error) {
				wv, ok := want.Get("parent")
				if !ok {
					return nil, nil
				}
				if hv, ok := have.Get("parent"); ok && wv != hv {
					return nil, f5errors.ErrParentChanged
				}
				return nil, nil
			},
		},
		OnCreate: func(m *reconcile.Manager) error {
			if !m.Want.Has("parent") {
				parent := reconcile.FqName(m.Want.Str("partition"), "udp")
				m.Want.Set("parent", parent)
				m.Changes.Set("parent", parent)
			}
			return nil
		},
	}
}

func normIdleTimeout(p *reconcile.Params) (interface{}, error) {
	v, ok := p.Get("idle_timeout")
	if !ok {
		return nil, nil
	}
	if s, isStr := v.(string); isStr {
		switch s {
		case "indefinite":
			return idleTimeoutIndefinite, nil
		case "immediate":
			return idleTimeoutImmediate, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, f5errors.NewRangeError("idle_timeout", "0 - 4294967295, 'indefinite', or 'immediate'")
		}
		v = n
	}
	n, ok := reconcile.AsInt(v)
	if !ok || n < 0 || n > idleTimeoutIndefinite {
		return nil, f5errors.NewRangeError("idle_timeout", "0 - 4294967295, 'indefinite', or 'immediate'")
	}
	return n, nil
}
