// Package profiletcp manages TCP profiles under /mgmt/tm/ltm/profile/tcp.
// Package profiletcp 管理 /mgmt/tm/ltm/profile/tcp 下的 TCP profile。
package profiletcp

import (
	"strconv"

	"github.com/gundalow-collections/f5networks/internal/reconcile"
	f5errors "github.com/gundalow-collections/f5networks/pkg/errors"
)

const basePath = "/mgmt/tm/ltm/profile/tcp/"

// idleTimeoutIndefinite is the wire value backing the "indefinite" spelling.
const idleTimeoutIndefinite = 4294967295

// Definition returns the TCP profile resource schema.
// Definition 返回 TCP profile 资源模式。
func Definition() *reconcile.Definition {
	return &reconcile.Definition{
		Kind: "ltm/profile-tcp",
		CollectionPath: func(p *reconcile.Params) string {
			return basePath
		},
		ItemPath: func(p *reconcile.Params) string {
			return basePath + reconcile.TransformName(p.Str("partition"), p.Str("name"))
		},
		APIMap: map[string]string{
			"idleTimeout":     "idle_timeout",
			"defaultsFrom":    "parent",
			"timeWaitRecycle": "time_wait_recycle",
			"earlyRetransmit": "early_retransmit",
			"proxyOptions":    "proxy_options",
			"initCwnd":        "initial_congestion_window_size",
			"initRwnd":        "initial_receive_window_size",
			"synRtoBase":      "syn_rto_base",
		},
		APIAttributes: []string{
			"idleTimeout",
			"defaultsFrom",
			"timeWaitRecycle",
			"nagle",
			"earlyRetransmit",
			"proxyOptions",
			"initCwnd",
			"initRwnd",
			"synRtoBase",
		},
		Returnables: []string{
			"idle_timeout",
			"parent",
			"time_wait_recycle",
			"nagle",
			"early_retransmit",
			"proxy_options",
			"initial_congestion_window_size",
			"initial_receive_window_size",
			"syn_rto_base",
		},
		Updatables: []string{
			"idle_timeout",
			"parent",
			"time_wait_recycle",
			"nagle",
			"early_retransmit",
			"proxy_options",
			"initial_congestion_window_size",
			"initial_receive_window_size",
			"syn_rto_base",
		},
		ModuleNorm: map[string]reconcile.NormFunc{
			"parent": func(p *reconcile.Params) (interface{}, error) {
				if !p.Has("parent") {
					return nil, nil
				}
				return reconcile.FqName(p.Str("partition"), p.Str("parent")), nil
			},
			"idle_timeout": normIdleTimeout,
			"time_wait_recycle": func(p *reconcile.Params) (interface{}, error) {
				v, _ := p.Get("time_wait_recycle")
				return reconcile.YesNoToEnabled(v), nil
			},
			"early_retransmit": func(p *reconcile.Params) (interface{}, error) {
				v, _ := p.Get("early_retransmit")
				return reconcile.YesNoToEnabled(v), nil
			},
			"proxy_options": func(p *reconcile.Params) (interface{}, error) {
				v, _ := p.Get("proxy_options")
				return reconcile.YesNoToEnabled(v), nil
			},
			"nagle": func(p *reconcile.Params) (interface{}, error) {
				if !p.Has("nagle") {
					return nil, nil
				}
				switch v := p.Str("nagle"); v {
				case "enabled", "disabled", "auto":
					return v, nil
				default:
					return nil, f5errors.NewChoiceError("nagle", v)
				}
			},
			"initial_congestion_window_size": rangeNorm("initial_congestion_window_size", 0, 16, "0 - 16 MSS units"),
			"initial_receive_window_size":    rangeNorm("initial_receive_window_size", 0, 16, "0 - 16 MSS units"),
			"syn_rto_base":                   rangeNorm("syn_rto_base", 0, 5000, "0 - 5000 milliseconds"),
		},
		Report: map[string]reconcile.ReportFunc{
			"idle_timeout": func(changes *reconcile.Params) (interface{}, bool) {
				v, ok := changes.Int("idle_timeout")
				if !ok {
					return nil, false
				}
				if v == idleTimeoutIndefinite {
					return "indefinite", true
				}
				return v, true
			},
			"time_wait_recycle": reportYesNo("time_wait_recycle"),
			"early_retransmit":  reportYesNo("early_retransmit"),
			"proxy_options":     reportYesNo("proxy_options"),
		},
		OnCreate: func(m *reconcile.Manager) error {
			// A profile is always anchored to a parent; "tcp" is the
			// built-in default.
			// profile 总是挂在某个父 profile 上，默认是内置的 "tcp"。
			if !m.Want.Has("parent") {
				parent := reconcile.FqName(m.Want.Str("partition"), "tcp")
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
		if s == "indefinite" {
			return idleTimeoutIndefinite, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, f5errors.NewRangeError("idle_timeout", "1 - 4294967295, or 'indefinite'")
		}
		v = n
	}
	n, ok := reconcile.AsInt(v)
	if !ok || n < 0 || n > idleTimeoutIndefinite {
		return nil, f5errors.NewRangeError("idle_timeout", "1 - 4294967295, or 'indefinite'")
	}
	return n, nil
}

func rangeNorm(key string, min, max int, hint string) reconcile.NormFunc {
	return func(p *reconcile.Params) (interface{}, error) {
		if !p.Has(key) {
			return nil, nil
		}
		n, ok := p.Int(key)
		if !ok || n < min || n > max {
			return nil, f5errors.NewRangeError(key, hint)
		}
		return n, nil
	}
}

func reportYesNo(key string) reconcile.ReportFunc {
	return func(changes *reconcile.Params) (interface{}, bool) {
		v, ok := changes.Get(key)
		if !ok {
			return nil, false
		}
		return reconcile.EnabledToYesNo(v), true
	}
}
