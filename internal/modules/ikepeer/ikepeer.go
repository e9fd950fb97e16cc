// Package ikepeer manages IKE peers under /mgmt/tm/net/ipsec/ike-peer.
// Package ikepeer 管理 /mgmt/tm/net/ipsec/ike-peer 下的 IKE 对端。
//
// The preshared key is write-only: the device only ever reports an
// encrypted form, so the key is resent solely when update_password is
// "always".
// 预共享密钥只写不读：设备只报告加密形式，因此仅当 update_password 为
// "always" 时才重发密钥。
package ikepeer

import (
	"fmt"

	"github.com/gundalow-collections/f5networks/internal/reconcile"
	f5errors "github.com/gundalow-collections/f5networks/pkg/errors"
)

const basePath = "/mgmt/tm/net/ipsec/ike-peer/"

// Definition returns the IKE peer resource schema.
// Definition 返回 IKE 对端资源模式。
func Definition() *reconcile.Definition {
	return &reconcile.Definition{
		Kind: "net/ike-peer",
		CollectionPath: func(p *reconcile.Params) string {
			return basePath
		},
		ItemPath: func(p *reconcile.Params) string {
			return basePath + reconcile.TransformName(p.Str("partition"), p.Str("name"))
		},
		APIMap: map[string]string{
			"myIdType":               "my_id_type",
			"myIdValue":              "my_id_value",
			"peersIdType":            "peers_id_type",
			"peersIdValue":           "peers_id_value",
			"phase1AuthMethod":       "phase1_auth_method",
			"phase1EncryptAlgorithm": "phase1_encryption_algorithm",
			"presharedKey":           "preshared_key",
			"presharedKeyEncrypted":  "preshared_key_encrypted",
			"remoteAddress":          "remote_address",
		},
		APIAttributes: []string{
			"description",
			"myIdType",
			"myIdValue",
			"peersIdType",
			"peersIdValue",
			"phase1AuthMethod",
			"phase1EncryptAlgorithm",
			"presharedKey",
			"remoteAddress",
			"version",
		},
		Returnables: []string{
			"description",
			"my_id_type",
			"my_id_value",
			"peers_id_type",
			"peers_id_value",
			"phase1_auth_method",
			"phase1_encryption_algorithm",
			"preshared_key",
			"remote_address",
			"version",
		},
		Reportables: []string{
			"description",
			"my_id_type",
			"my_id_value",
			"peers_id_type",
			"peers_id_value",
			"phase1_auth_method",
			"phase1_encryption_algorithm",
			"remote_address",
			"version",
		},
		Updatables: []string{
			"description",
			"my_id_type",
			"my_id_value",
			"peers_id_type",
			"peers_id_value",
			"phase1_auth_method",
			"phase1_encryption_algorithm",
			"preshared_key",
			"remote_address",
			"version",
		},
		ModuleNorm: map[string]reconcile.NormFunc{
			"version": func(p *reconcile.Params) (interface{}, error) {
				list, ok := p.StrList("version")
				if !ok {
					return nil, nil
				}
				if len(list) == 0 {
					return nil, fmt.Errorf("%w: version must name at least one of v1, v2", f5errors.ErrInvalidParameter)
				}
				for _, v := range list {
					if v != "v1" && v != "v2" {
						return nil, f5errors.NewChoiceError("version", v)
					}
				}
				return list, nil
			},
			"phase1_auth_method": choiceNorm("phase1_auth_method",
				"pre-shared-key", "rsa-signature"),
			"phase1_encryption_algorithm": choiceNorm("phase1_encryption_algorithm",
				"3des", "des", "blowfish", "cast128", "aes128", "aes192", "aes256", "camellia"),
			"my_id_type": choiceNorm("my_id_type",
				"address", "asn1dn", "fqdn", "keyid-tag", "user-fqdn", "override"),
			"peers_id_type": choiceNorm("peers_id_type",
				"address", "asn1dn", "fqdn", "keyid-tag", "user-fqdn", "override"),
		},
		Compare: map[string]reconcile.CompareFunc{
			"version": func(want, have *reconcile.Params) (interface{}, error) {
				wv, ok := want.Get("version")
				if !ok {
					return nil, nil
				}
				hv, _ := have.Get("version")
				return reconcile.CmpSimpleList(wv, hv), nil
			},
			"preshared_key": func(want, have *reconcile.Params) (interface{}, error) {
				wv, ok := want.Get("preshared_key")
				if !ok {
					return nil, nil
				}
				if want.Str("update_password") == "always" {
					return wv, nil
				}
				return nil, nil
			},
		},
		CreateErrorCodes: []int{400, 403, 404},
		UpdateErrorCodes: []int{400, 404},
		OnCreate: func(m *reconcile.Manager) error {
			if m.Want.Str("phase1_auth_method") == "pre-shared-key" && !m.Want.Has("preshared_key") {
				return fmt.Errorf(
					"%w: preshared_key is required when phase1_auth_method is pre-shared-key",
					f5errors.ErrMissingParameter,
				)
			}
			return nil
		},
	}
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
