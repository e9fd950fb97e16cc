// Package profilehttp manages HTTP profiles under /mgmt/tm/ltm/profile/http.
// Package profilehttp 管理 /mgmt/tm/ltm/profile/http 下的 HTTP profile。
//
// The HTTP profile is the widest resource surface: the explicit proxy,
// HSTS, enforcement and sFlow settings live in nested sub-documents on the
// wire but are exposed as flat fields to the user.
// HTTP profile 是最宽的资源面：explicit proxy、HSTS、enforcement 和 sFlow
// 设置在线上以嵌套子文档存在，但对用户暴露为扁平字段。
package profilehttp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gundalow-collections/f5networks/internal/reconcile"
	f5errors "github.com/gundalow-collections/f5networks/pkg/errors"
)

const basePath = "/mgmt/tm/ltm/profile/http/"

const (
	// maximumAgeIndefinite backs the "indefinite" spelling of maximum_age.
	maximumAgeIndefinite = 4294967295

	defaultMaxHeaderCount = 64
	defaultMaxHeaderSize  = 32768
	defaultMaxRequests    = 0
)

// defaultKnownMethods is the device's built-in method set, expanded when the
// user writes "default" in known_methods.
var defaultKnownMethods = []string{
	"CONNECT", "DELETE", "GET", "HEAD", "LOCK", "OPTIONS",
	"POST", "PROPFIND", "PUT", "TRACE", "UNLOCK",
}

// Definition returns the HTTP profile resource schema.
// Definition 返回 HTTP profile 资源模式。
func Definition() *reconcile.Definition {
	return &reconcile.Definition{
		Kind: "ltm/profile-http",
		CollectionPath: func(p *reconcile.Params) string {
			return basePath
		},
		ItemPath: func(p *reconcile.Params) string {
			return basePath + reconcile.TransformName(p.Str("partition"), p.Str("name"))
		},
		APIMap: map[string]string{
			"defaultsFrom":              "parent",
			"insertXforwardedFor":       "insert_xforwarded_for",
			"redirectRewrite":           "redirect_rewrite",
			"encryptCookies":            "encrypt_cookies",
			"encryptCookieSecret":       "encrypt_cookie_secret",
			"proxyType":                 "proxy_type",
			"explicitProxy":             "explicit_proxy",
			"headerErase":               "header_erase",
			"headerInsert":              "header_insert",
			"serverAgentName":           "server_agent_name",
			"acceptXff":                 "accept_xff",
			"xffAlternativeNames":       "xff_alternative_names",
			"fallbackHost":              "fallback_host",
			"fallbackStatusCodes":       "fallback_status_codes",
			"oneconnectTransformations": "oneconnect_transformations",
			"requestChunking":           "request_chunking",
			"responseChunking":          "response_chunking",
		},
		APIAttributes: []string{
			"insertXforwardedFor",
			"description",
			"defaultsFrom",
			"redirectRewrite",
			"encryptCookies",
			"encryptCookieSecret",
			"proxyType",
			"explicitProxy",
			"headerErase",
			"headerInsert",
			"hsts",
			"serverAgentName",
			"acceptXff",
			"xffAlternativeNames",
			"fallbackHost",
			"fallbackStatusCodes",
			"oneconnectTransformations",
			"requestChunking",
			"responseChunking",
			"enforcement",
			"sflow",
		},
		Returnables: []string{
			"parent",
			"description",
			"insert_xforwarded_for",
			"redirect_rewrite",
			"encrypt_cookies",
			"proxy_type",
			"explicit_proxy",
			"dns_resolver",
			"dns_resolver_address",
			"hsts_mode",
			"maximum_age",
			"include_subdomains",
			"server_agent_name",
			"header_erase",
			"header_insert",
			"accept_xff",
			"xff_alternative_names",
			"fallback_host",
			"fallback_status_codes",
			"oneconnect_transformations",
			"request_chunking",
			"response_chunking",
			"truncated_redirects",
			"excess_client_headers",
			"excess_server_headers",
			"oversize_client_headers",
			"oversize_server_headers",
			"pipeline",
			"unknown_method",
			"max_header_count",
			"max_header_size",
			"max_requests",
			"known_methods",
			"poll_interval",
			"poll_interval_global",
			"sampling_rate",
			"sampling_rate_global",
		},
		Reportables: []string{
			"parent",
			"description",
			"insert_xforwarded_for",
			"redirect_rewrite",
			"encrypt_cookies",
			"proxy_type",
			"explicit_proxy",
			"dns_resolver",
			"hsts_mode",
			"maximum_age",
			"include_subdomains",
			"server_agent_name",
			"header_erase",
			"header_insert",
			"accept_xff",
			"xff_alternative_names",
			"fallback_host",
			"fallback_status_codes",
			"oneconnect_transformations",
			"request_chunking",
			"response_chunking",
			"enforcement",
			"sflow",
		},
		Updatables: []string{
			"description",
			"insert_xforwarded_for",
			"redirect_rewrite",
			"encrypt_cookies",
			"encrypt_cookie_secret",
			"proxy_type",
			"dns_resolver",
			"hsts_mode",
			"maximum_age",
			"include_subdomains",
			"server_agent_name",
			"header_erase",
			"header_insert",
			"accept_xff",
			"xff_alternative_names",
			"fallback_host",
			"fallback_status_codes",
			"oneconnect_transformations",
			"request_chunking",
			"response_chunking",
			"truncated_redirects",
			"excess_client_headers",
			"excess_server_headers",
			"oversize_client_headers",
			"oversize_server_headers",
			"pipeline",
			"unknown_method",
			"max_header_count",
			"max_header_size",
			"max_requests",
			"known_methods",
			"poll_interval",
			"poll_interval_global",
			"sampling_rate",
			"sampling_rate_global",
			"parent",
		},
		ModuleNorm:       moduleNorm(),
		APINorm:          apiNorm(),
		Usable:           usable(),
		Report:           report(),
		Compare:          compare(),
		CreateErrorCodes: []int{400, 403, 404},
		UpdateErrorCodes: []int{400, 404},
		OnCreate: func(m *reconcile.Manager) error {
			if !m.Want.Has("parent") {
				parent := reconcile.FqName(m.Want.Str("partition"), "http")
				m.Want.Set("parent", parent)
				m.Changes.Set("parent", parent)
			}
			return nil
		},
	}
}

func moduleNorm() map[string]reconcile.NormFunc {
	norm := map[string]reconcile.NormFunc{
		"parent": func(p *reconcile.Params) (interface{}, error) {
			if !p.Has("parent") {
				return nil, nil
			}
			return reconcile.FqName(p.Str("partition"), p.Str("parent")), nil
		},
		"proxy_type": func(p *reconcile.Params) (interface{}, error) {
			if !p.Has("proxy_type") {
				return nil, nil
			}
			v := p.Str("proxy_type")
			switch v {
			case "reverse", "transparent", "explicit":
			default:
				return nil, f5errors.NewChoiceError("proxy_type", v)
			}
			if v == "explicit" {
				resolver, err := normDNSResolver(p)
				if err != nil {
					return nil, err
				}
				if resolver == nil || resolver == "" {
					return nil, fmt.Errorf(
						"%w: a proxy type cannot be set to %s without providing a DNS resolver",
						f5errors.ErrInvalidParameter, v,
					)
				}
			}
			return v, nil
		},
		"dns_resolver": normDNSResolver,
		"dns_resolver_address": func(p *reconcile.Params) (interface{}, error) {
			resolver, err := normDNSResolver(p)
			if err != nil || resolver == nil {
				return nil, err
			}
			fq, _ := resolver.(string)
			if fq == "" {
				return nil, nil
			}
			parts := strings.Split(fq, "/")
			if len(parts) != 3 {
				return nil, nil
			}
			return map[string]interface{}{
				"link": "https://localhost/mgmt/tm/net/dns-resolver/~" + parts[1] + "~" + parts[2],
			}, nil
		},
		"encrypt_cookies": func(p *reconcile.Params) (interface{}, error) {
			list, ok := p.StrList("encrypt_cookies")
			if !ok {
				return nil, nil
			}
			if len(list) == 1 && (list[0] == "" || list[0] == "none") {
				return []string{}, nil
			}
			return list, nil
		},
		"maximum_age": func(p *reconcile.Params) (interface{}, error) {
			v, ok := p.Get("maximum_age")
			if !ok {
				return nil, nil
			}
			if s, isStr := v.(string); isStr {
				if s == "indefinite" {
					return maximumAgeIndefinite, nil
				}
				n, err := strconv.Atoi(s)
				if err != nil {
					return nil, f5errors.NewRangeError("maximum_age", "0 - 4294967295, or 'indefinite'")
				}
				v = n
			}
			n, ok := reconcile.AsInt(v)
			if !ok || n < 0 || n > maximumAgeIndefinite {
				return nil, f5errors.NewRangeError("maximum_age", "0 - 4294967295, or 'indefinite'")
			}
			return n, nil
		},
		"header_erase":  normHeader("header_erase"),
		"header_insert": normHeader("header_insert"),
		"fallback_status_codes": func(p *reconcile.Params) (interface{}, error) {
			list, ok := p.StrList("fallback_status_codes")
			if !ok {
				return nil, nil
			}
			for _, code := range list {
				n, err := strconv.Atoi(code)
				if err != nil || !validFallbackCode(n) {
					return nil, fmt.Errorf(
						"%w: invalid HTTP error code or error code range specified",
						f5errors.ErrInvalidParameter,
					)
				}
			}
			return list, nil
		},
		// The nested input documents have been flattened above; drop them
		// from the canonical record.
		// 嵌套输入文档已在上面被展平，从规范记录中删除。
		"enforcement": dropKey,
		"sflow":       dropKey,

		"truncated_redirects": func(p *reconcile.Params) (interface{}, error) {
			v, ok := subVal(p, "enforcement", "truncated_redirects")
			if !ok {
				return nil, nil
			}
			return reconcile.YesNoToEnabled(v), nil
		},
		"excess_client_headers":   subPassthrough("enforcement", "excess_client_headers"),
		"excess_server_headers":   subPassthrough("enforcement", "excess_server_headers"),
		"oversize_client_headers": subPassthrough("enforcement", "oversize_client_headers"),
		"oversize_server_headers": subPassthrough("enforcement", "oversize_server_headers"),
		"pipeline":                subPassthrough("enforcement", "pipeline"),
		"unknown_method":          subPassthrough("enforcement", "unknown_method"),
		"max_header_count": normEnforcementRange(
			"max_header_count", 16, 4096, defaultMaxHeaderCount, "16 - 4096, or 'default'",
		),
		"max_header_size": normEnforcementRange(
			"max_header_size", 0, maximumAgeIndefinite, defaultMaxHeaderSize, "0 - 4294967295, or 'default'",
		),
		"max_requests": normEnforcementRange(
			"max_requests", 0, maximumAgeIndefinite, defaultMaxRequests, "0 - 4294967295, or 'default'",
		),
		"known_methods": func(p *reconcile.Params) (interface{}, error) {
			v, ok := subVal(p, "enforcement", "known_methods")
			if !ok {
				return nil, nil
			}
			known := toStrList(v)
			if known == nil {
				return nil, nil
			}
			if len(known) == 1 {
				if known[0] == "default" {
					return append([]string(nil), defaultKnownMethods...), nil
				}
				if known[0] == "" {
					return []string{}, nil
				}
			}
			for _, m := range known {
				if m == "default" {
					out := make([]string, 0, len(known)+len(defaultKnownMethods))
					for _, method := range known {
						if method != "default" {
							out = append(out, method)
						}
					}
					return append(out, defaultKnownMethods...), nil
				}
			}
			return known, nil
		},
		"poll_interval":  normSflowRange("poll_interval", "0 - 4294967295 seconds"),
		"sampling_rate":  normSflowRange("sampling_rate", "0 - 4294967295 packets"),
		"poll_interval_global": func(p *reconcile.Params) (interface{}, error) {
			v, ok := subVal(p, "sflow", "poll_interval_global")
			if !ok {
				return nil, nil
			}
			return reconcile.FlattenBoolean(v), nil
		},
		"sampling_rate_global": func(p *reconcile.Params) (interface{}, error) {
			v, ok := subVal(p, "sflow", "sampling_rate_global")
			if !ok {
				return nil, nil
			}
			return reconcile.FlattenBoolean(v), nil
		},
	}
	for _, key := range []string{
		"accept_xff",
		"insert_xforwarded_for",
		"oneconnect_transformations",
		"include_subdomains",
		"hsts_mode",
	} {
		key := key
		norm[key] = func(p *reconcile.Params) (interface{}, error) {
			v, ok := p.Get(key)
			if !ok {
				return nil, nil
			}
			return reconcile.YesNoToEnabled(v), nil
		}
	}
	return norm
}

func apiNorm() map[string]reconcile.NormFunc {
	return map[string]reconcile.NormFunc{
		// The device reports these inside nested sub-documents; flatten
		// them to the user-facing fields and drop the containers.
		// 设备在嵌套子文档中报告这些字段；展平为面向用户的字段并删除容器。
		"poll_interval":           fromSubDoc("sflow", "pollInterval"),
		"poll_interval_global":    fromSubDoc("sflow", "pollIntervalGlobal"),
		"sampling_rate":           fromSubDoc("sflow", "samplingRate"),
		"sampling_rate_global":    fromSubDoc("sflow", "samplingRateGlobal"),
		"truncated_redirects":     fromSubDoc("enforcement", "truncatedRedirects"),
		"excess_client_headers":   fromSubDoc("enforcement", "excessClientHeaders"),
		"excess_server_headers":   fromSubDoc("enforcement", "excessServerHeaders"),
		"oversize_client_headers": fromSubDoc("enforcement", "oversizeClientHeaders"),
		"oversize_server_headers": fromSubDoc("enforcement", "oversizeServerHeaders"),
		"pipeline":                fromSubDoc("enforcement", "pipeline"),
		"unknown_method":          fromSubDoc("enforcement", "unknownMethod"),
		"max_header_count":        fromSubDoc("enforcement", "maxHeaderCount"),
		"max_header_size":         fromSubDoc("enforcement", "maxHeaderSize"),
		"max_requests":            fromSubDoc("enforcement", "maxRequests"),
		"known_methods":           fromSubDoc("enforcement", "knownMethods"),
		"hsts_mode":               fromSubDoc("hsts", "mode"),
		"maximum_age":             fromSubDoc("hsts", "maximumAge"),
		"include_subdomains":      fromSubDoc("hsts", "includeSubdomains"),
		"dns_resolver":            fromSubDoc("explicit_proxy", "dnsResolver"),
		"dns_resolver_address":    fromSubDoc("explicit_proxy", "dnsResolverReference"),
		"sflow":                   dropKey,
		"enforcement":             dropKey,
		"hsts":                    dropKey,
		"explicit_proxy":          dropKey,
	}
}

func usable() map[string]reconcile.AssembleFunc {
	return map[string]reconcile.AssembleFunc{
		"explicitProxy": func(changes *reconcile.Params) (interface{}, bool) {
			result := make(map[string]interface{})
			if v, ok := changes.Get("dns_resolver"); ok {
				result["dnsResolver"] = v
			}
			if v, ok := changes.Get("dns_resolver_address"); ok {
				result["dnsResolverReference"] = v
			}
			if len(result) == 0 {
				return nil, false
			}
			return result, true
		},
		"hsts": assembleSubDoc(map[string]string{
			"mode":              "hsts_mode",
			"maximumAge":        "maximum_age",
			"includeSubdomains": "include_subdomains",
		}),
		"enforcement": assembleSubDoc(map[string]string{
			"excessClientHeaders":   "excess_client_headers",
			"excessServerHeaders":   "excess_server_headers",
			"knownMethods":          "known_methods",
			"maxHeaderCount":        "max_header_count",
			"maxHeaderSize":         "max_header_size",
			"maxRequests":           "max_requests",
			"oversizeClientHeaders": "oversize_client_headers",
			"oversizeServerHeaders": "oversize_server_headers",
			"pipeline":              "pipeline",
			"truncatedRedirects":    "truncated_redirects",
			"unknownMethod":         "unknown_method",
		}),
		"sflow": assembleSubDoc(map[string]string{
			"pollInterval":       "poll_interval",
			"pollIntervalGlobal": "poll_interval_global",
			"samplingRate":       "sampling_rate",
			"samplingRateGlobal": "sampling_rate_global",
		}),
	}
}

func report() map[string]reconcile.ReportFunc {
	return map[string]reconcile.ReportFunc{
		"insert_xforwarded_for":      reportEnabled("insert_xforwarded_for"),
		"hsts_mode":                  reportEnabled("hsts_mode"),
		"include_subdomains":         reportEnabled("include_subdomains"),
		"accept_xff":                 reportEnabled("accept_xff"),
		"oneconnect_transformations": reportEnabled("oneconnect_transformations"),
		"maximum_age": func(changes *reconcile.Params) (interface{}, bool) {
			v, ok := changes.Int("maximum_age")
			if !ok {
				return nil, false
			}
			if v == maximumAgeIndefinite {
				return "indefinite", true
			}
			return v, true
		},
		"enforcement": func(changes *reconcile.Params) (interface{}, bool) {
			result := make(map[string]interface{})
			for _, key := range []string{
				"excess_client_headers",
				"excess_server_headers",
				"oversize_client_headers",
				"oversize_server_headers",
				"pipeline",
				"unknown_method",
			} {
				if v, ok := changes.Get(key); ok {
					result[key] = v
				}
			}
			if v, ok := changes.Get("truncated_redirects"); ok {
				result["truncated_redirects"] = reconcile.EnabledToYesNo(v)
			}
			if v, ok := changes.Int("max_header_count"); ok {
				result["max_header_count"] = reportDefault(v, defaultMaxHeaderCount)
			}
			if v, ok := changes.Int("max_header_size"); ok {
				result["max_header_size"] = reportDefault(v, defaultMaxHeaderSize)
			}
			if v, ok := changes.Int("max_requests"); ok {
				result["max_requests"] = reportDefault(v, defaultMaxRequests)
			}
			if known, ok := changes.StrList("known_methods"); ok {
				result["known_methods"] = reportKnownMethods(known)
			}
			if len(result) == 0 {
				return nil, false
			}
			return result, true
		},
		"sflow": func(changes *reconcile.Params) (interface{}, bool) {
			result := make(map[string]interface{})
			for _, key := range []string{
				"poll_interval",
				"poll_interval_global",
				"sampling_rate",
				"sampling_rate_global",
			} {
				if v, ok := changes.Get(key); ok {
					result[key] = v
				}
			}
			if len(result) == 0 {
				return nil, false
			}
			return result, true
		},
	}
}

func compare() map[string]reconcile.CompareFunc {
	cmp := map[string]reconcile.CompareFunc{
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
		"dns_resolver": func(want, have *reconcile.Params) (interface{}, error) {
			wv, ok := want.Get("dns_resolver")
			if !ok {
				return nil, nil
			}
			hv, haveSet := have.Get("dns_resolver")
			if wv == "" {
				if !haveSet || hv == "none" {
					return nil, nil
				}
				if have.Str("proxy_type") == "explicit" && !want.Has("proxy_type") {
					return nil, fmt.Errorf(
						"%w: DNS resolver cannot be empty or 'none' while the profile proxy type is explicit",
						f5errors.ErrInvalidParameter,
					)
				}
				return wv, nil
			}
			if !haveSet {
				return wv, nil
			}
			return nil, nil
		},
		"encrypt_cookies": func(want, have *reconcile.Params) (interface{}, error) {
			wl, ok := want.StrList("encrypt_cookies")
			if !ok {
				return nil, nil
			}
			hl, haveSet := have.StrList("encrypt_cookies")
			if !haveSet || len(hl) == 0 {
				if len(wl) == 0 {
					return nil, nil
				}
				return wl, nil
			}
			return reconcile.CmpSimpleList(wl, hl), nil
		},
		"encrypt_cookie_secret": func(want, have *reconcile.Params) (interface{}, error) {
			wv, ok := want.Get("encrypt_cookie_secret")
			if !ok {
				return nil, nil
			}
			if hv, _ := have.Get("encrypt_cookie_secret"); wv != hv {
				// Secrets are write-only on the wire; only resend them
				// when the user asked for unconditional updates.
				// 密钥在线上只写不读，仅在用户要求无条件更新时重发。
				if want.Str("update_password") == "always" {
					return wv, nil
				}
			}
			return nil, nil
		},
		"xff_alternative_names": cmpList("xff_alternative_names"),
		"fallback_status_codes": cmpList("fallback_status_codes"),
		"known_methods":         cmpList("known_methods"),
	}
	for _, key := range []string{"header_erase", "header_insert", "server_agent_name"} {
		key := key
		cmp[key] = func(want, have *reconcile.Params) (interface{}, error) {
			wv, ok := want.Get(key)
			if !ok {
				return nil, nil
			}
			hv, haveSet := have.Get(key)
			if wv == "" || wv == "none" {
				if !haveSet || hv == "none" {
					return nil, nil
				}
			}
			if !haveSet || wv != hv {
				return wv, nil
			}
			return nil, nil
		}
	}
	return cmp
}

func normDNSResolver(p *reconcile.Params) (interface{}, error) {
	v, ok := p.Get("dns_resolver")
	if !ok {
		return nil, nil
	}
	s, _ := v.(string)
	if s == "" || s == "none" {
		return "", nil
	}
	return reconcile.FqName(p.Str("partition"), s), nil
}

// normHeader validates a raw HTTP header spelling. The sentinels "" and
// "none" pass through so an existing header can be cleared.
func normHeader(key string) reconcile.NormFunc {
	return func(p *reconcile.Params) (interface{}, error) {
		v, ok := p.Get(key)
		if !ok {
			return nil, nil
		}
		s, isStr := v.(string)
		if !isStr {
			return nil, fmt.Errorf("%w: %s must be a string", f5errors.ErrInvalidParameter, key)
		}
		if s == "" || s == "none" {
			return s, nil
		}
		if strings.ContainsAny(s, "\r\n\x00") {
			return nil, fmt.Errorf(
				"%w: %s contains invalid characters for an HTTP header",
				f5errors.ErrInvalidParameter, key,
			)
		}
		return s, nil
	}
}

func normEnforcementRange(key string, min, max, def int, hint string) reconcile.NormFunc {
	return func(p *reconcile.Params) (interface{}, error) {
		v, ok := subVal(p, "enforcement", key)
		if !ok {
			return nil, nil
		}
		if s, isStr := v.(string); isStr {
			if s == "default" {
				return def, nil
			}
			n, err := strconv.Atoi(s)
			if err != nil {
				return nil, f5errors.NewRangeError(key, hint)
			}
			v = n
		}
		n, ok := reconcile.AsInt(v)
		if !ok || n < min || n > max {
			return nil, f5errors.NewRangeError(key, hint)
		}
		return n, nil
	}
}

func normSflowRange(key, hint string) reconcile.NormFunc {
	return func(p *reconcile.Params) (interface{}, error) {
		v, ok := subVal(p, "sflow", key)
		if !ok {
			return nil, nil
		}
		n, numOK := reconcile.AsInt(v)
		if !numOK || n < 0 || n > maximumAgeIndefinite {
			return nil, f5errors.NewRangeError(key, hint)
		}
		return n, nil
	}
}

// Fallback status codes accept the client error range 400-417 and the
// server error range 500-505.
func validFallbackCode(n int) bool {
	if n >= 400 && n <= 417 {
		return true
	}
	return n >= 500 && n <= 505
}

func dropKey(*reconcile.Params) (interface{}, error) {
	return nil, nil
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

func subPassthrough(doc, key string) reconcile.NormFunc {
	return func(p *reconcile.Params) (interface{}, error) {
		v, ok := subVal(p, doc, key)
		if !ok {
			return nil, nil
		}
		return v, nil
	}
}

func fromSubDoc(doc, key string) reconcile.NormFunc {
	return func(p *reconcile.Params) (interface{}, error) {
		v, ok := subVal(p, doc, key)
		if !ok {
			return nil, nil
		}
		return v, nil
	}
}

func assembleSubDoc(fields map[string]string) reconcile.AssembleFunc {
	return func(changes *reconcile.Params) (interface{}, bool) {
		result := make(map[string]interface{})
		for wire, user := range fields {
			if v, ok := changes.Get(user); ok {
				result[wire] = v
			}
		}
		if len(result) == 0 {
			return nil, false
		}
		return result, true
	}
}

func reportEnabled(key string) reconcile.ReportFunc {
	return func(changes *reconcile.Params) (interface{}, bool) {
		v, ok := changes.Get(key)
		if !ok {
			return nil, false
		}
		return reconcile.EnabledToYesNo(v), true
	}
}

func reportDefault(v, def int) interface{} {
	if v == def {
		return "default"
	}
	return strconv.Itoa(v)
}

func reportKnownMethods(known []string) []string {
	if len(known) == 0 {
		return []string{""}
	}
	seen := make(map[string]bool, len(known))
	for _, m := range known {
		seen[m] = true
	}
	missing := false
	for _, m := range defaultKnownMethods {
		if !seen[m] {
			missing = true
			break
		}
	}
	if missing {
		return known
	}
	extra := make([]string, 0, len(known))
	for _, m := range known {
		if !isDefaultMethod(m) {
			extra = append(extra, m)
		}
	}
	if len(extra) == 0 {
		return []string{"default"}
	}
	return append(extra, "default")
}

func isDefaultMethod(m string) bool {
	for _, d := range defaultKnownMethods {
		if d == m {
			return true
		}
	}
	return false
}

func cmpList(key string) reconcile.CompareFunc {
	return func(want, have *reconcile.Params) (interface{}, error) {
		wv, ok := want.Get(key)
		if !ok {
			return nil, nil
		}
		hv, _ := have.Get(key)
		return reconcile.CmpSimpleList(wv, hv), nil
	}
}

func toStrList(v interface{}) []string {
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
			out = append(out, fmt.Sprint(item))
		}
		return out
	}
	return nil
}
