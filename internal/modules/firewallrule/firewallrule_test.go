package firewallrule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	f5errors "github.com/gundalow-collections/f5networks/pkg/errors"
)

// TestParentSelection tests the policy/rule-list container constraint
// TestParentSelection 测试策略/规则列表容器的约束
func TestParentSelection(t *testing.T) {
	def := Definition()

	_, err := def.NormalizeModule(map[string]interface{}{
		"name": "rule1",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, f5errors.ErrMissingParameter)

	_, err = def.NormalizeModule(map[string]interface{}{
		"name":             "rule1",
		"parent_policy":    "policy1",
		"parent_rule_list": "rl1",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, f5errors.ErrInvalidParameter)

	want, err := def.NormalizeModule(map[string]interface{}{
		"name":          "rule1",
		"parent_policy": "policy1",
		"partition":     "Common",
	})
	require.NoError(t, err)
	assert.Equal(t,
		"/mgmt/tm/security/firewall/policy/~Common~policy1/rules/rule1",
		def.ItemPath(want))

	want, err = def.NormalizeModule(map[string]interface{}{
		"name":             "rule1",
		"parent_rule_list": "rl1",
		"partition":        "Common",
	})
	require.NoError(t, err)
	assert.Equal(t,
		"/mgmt/tm/security/firewall/rule-list/~Common~rl1/rules/rule1",
		def.ItemPath(want))
}

// TestPlacement tests the create placement query
// TestPlacement 测试创建时的放置查询参数
func TestPlacement(t *testing.T) {
	def := Definition()

	want, err := def.NormalizeModule(map[string]interface{}{
		"name":          "rule1",
		"parent_policy": "policy1",
		"partition":     "Common",
		"place":         "first",
	})
	require.NoError(t, err)
	assert.Equal(t,
		"/mgmt/tm/security/firewall/policy/~Common~policy1/rules/?placeBefore=first",
		def.CollectionPath(want))

	want.Set("place", "last")
	assert.Equal(t,
		"/mgmt/tm/security/firewall/policy/~Common~policy1/rules/",
		def.CollectionPath(want))

	_, err = def.NormalizeModule(map[string]interface{}{
		"name":          "rule1",
		"parent_policy": "policy1",
		"place":         "middle",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, f5errors.ErrInvalidChoice)
}

// TestProtocolNormalization tests number/name protocol folding
// TestProtocolNormalization 测试协议数字/名称的折叠
func TestProtocolNormalization(t *testing.T) {
	def := Definition()

	want, err := def.NormalizeModule(map[string]interface{}{
		"name":          "rule1",
		"parent_policy": "policy1",
		"protocol":      6,
	})
	require.NoError(t, err)
	assert.Equal(t, "6", want.Str("protocol"))

	want, err = def.NormalizeModule(map[string]interface{}{
		"name":          "rule1",
		"parent_policy": "policy1",
		"protocol":      "tcp",
	})
	require.NoError(t, err)
	assert.Equal(t, "tcp", want.Str("protocol"))

	_, err = def.NormalizeModule(map[string]interface{}{
		"name":          "rule1",
		"parent_policy": "policy1",
		"protocol":      256,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, f5errors.ErrInvalidRange)
}

// TestScheduleConstraints tests schedule/status coupling
// TestScheduleConstraints 测试 schedule/status 的耦合约束
func TestScheduleConstraints(t *testing.T) {
	def := Definition()

	_, err := def.NormalizeModule(map[string]interface{}{
		"name":          "rule1",
		"parent_policy": "policy1",
		"status":        "scheduled",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, f5errors.ErrMissingParameter)

	_, err = def.NormalizeModule(map[string]interface{}{
		"name":          "rule1",
		"parent_policy": "policy1",
		"status":        "enabled",
		"schedule":      "work-hours",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, f5errors.ErrInvalidParameter)

	want, err := def.NormalizeModule(map[string]interface{}{
		"name":          "rule1",
		"parent_policy": "policy1",
		"status":        "scheduled",
		"schedule":      "work-hours",
	})
	require.NoError(t, err)
	assert.Equal(t, "/Common/work-hours", want.Str("schedule"))
}

// TestEndpointFolding tests source/destination sub-document assembly
// TestEndpointFolding 测试 source/destination 子文档的组装
func TestEndpointFolding(t *testing.T) {
	def := Definition()

	want, err := def.NormalizeModule(map[string]interface{}{
		"name":          "rule1",
		"parent_policy": "policy1",
		"source": []interface{}{
			map[string]interface{}{"address": "10.0.0.0/8"},
			map[string]interface{}{"vlan": "net1"},
			map[string]interface{}{"country": "US"},
			map[string]interface{}{"port": 8080},
		},
		"destination": []interface{}{
			map[string]interface{}{"address_range": "10.1.1.1-10.1.1.9"},
			map[string]interface{}{"address_list": "internal"},
		},
	})
	require.NoError(t, err)

	source, ok := want.Map("source")
	require.True(t, ok)
	addresses := source["addresses"].([]interface{})
	require.Len(t, addresses, 1)
	assert.Equal(t, "10.0.0.0/8", addresses[0].(map[string]interface{})["name"])
	vlans := source["vlans"].([]interface{})
	assert.Equal(t, "/Common/net1", vlans[0].(map[string]interface{})["name"])
	geo := source["geo"].([]interface{})
	assert.Equal(t, "US", geo[0].(map[string]interface{})["name"])
	ports := source["ports"].([]interface{})
	assert.Equal(t, "8080", ports[0].(map[string]interface{})["name"])

	destination, _ := want.Map("destination")
	lists := destination["addressLists"].([]interface{})
	assert.Equal(t, "/Common/internal", lists[0].(map[string]interface{})["name"])

	_, err = def.NormalizeModule(map[string]interface{}{
		"name":          "rule1",
		"parent_policy": "policy1",
		"source": []interface{}{
			map[string]interface{}{"hostname": "example.com"},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, f5errors.ErrInvalidChoice)
}

// TestEndpointSetComparison tests order-independent endpoint comparison
// TestEndpointSetComparison 测试与顺序无关的端点比较
func TestEndpointSetComparison(t *testing.T) {
	def := Definition()

	want, err := def.NormalizeModule(map[string]interface{}{
		"name":          "rule1",
		"parent_policy": "policy1",
		"source": []interface{}{
			map[string]interface{}{"address": "10.0.0.1"},
			map[string]interface{}{"address": "10.0.0.2"},
		},
	})
	require.NoError(t, err)

	have, err := def.TranslateFromAPI(map[string]interface{}{
		"name": "rule1",
		"source": map[string]interface{}{
			"addresses": []interface{}{
				map[string]interface{}{"name": "10.0.0.2"},
				map[string]interface{}{"name": "10.0.0.1"},
			},
		},
	})
	require.NoError(t, err)

	changes, err := def.Diff(want, have)
	require.NoError(t, err)
	assert.False(t, changes.Has("source"))

	// A missing member rewrites the endpoint
	// 缺少成员时重写端点
	have, err = def.TranslateFromAPI(map[string]interface{}{
		"name": "rule1",
		"source": map[string]interface{}{
			"addresses": []interface{}{
				map[string]interface{}{"name": "10.0.0.1"},
			},
		},
	})
	require.NoError(t, err)
	changes, err = def.Diff(want, have)
	require.NoError(t, err)
	assert.True(t, changes.Has("source"))
}

// TestICMPFolding tests ICMP message folding and comparison
// TestICMPFolding 测试 ICMP 消息的折叠与比较
func TestICMPFolding(t *testing.T) {
	def := Definition()

	want, err := def.NormalizeModule(map[string]interface{}{
		"name":          "rule1",
		"parent_policy": "policy1",
		"protocol":      "icmp",
		"icmp_message": []interface{}{
			map[string]interface{}{"type": 8, "code": 0},
			map[string]interface{}{"type": 3},
		},
	})
	require.NoError(t, err)

	msgs, ok := want.Get("icmp_message")
	require.True(t, ok)
	entries := msgs.([]interface{})
	require.Len(t, entries, 2)
	assert.Equal(t, "8:0", entries[0].(map[string]interface{})["name"])
	assert.Equal(t, "3", entries[1].(map[string]interface{})["name"])

	have, err := def.TranslateFromAPI(map[string]interface{}{
		"name": "rule1",
		"icmp": []interface{}{
			map[string]interface{}{"name": "3"},
			map[string]interface{}{"name": "8:0"},
		},
	})
	require.NoError(t, err)
	changes, err := def.Diff(want, have)
	require.NoError(t, err)
	assert.False(t, changes.Has("icmp_message"))
}

// TestLoggingWireForm tests the boolean log attribute
// TestLoggingWireForm 测试布尔型 log 属性
func TestLoggingWireForm(t *testing.T) {
	def := Definition()

	want, err := def.NormalizeModule(map[string]interface{}{
		"name":          "rule1",
		"parent_policy": "policy1",
		"logging":       true,
	})
	require.NoError(t, err)
	assert.Equal(t, "yes", want.Str("logging"))

	payload := def.APIParams(want)
	assert.Equal(t, true, payload["log"])

	report := def.ReportableChanges(want)
	assert.Equal(t, "yes", report["logging"])

	// Device reports a real boolean
	// 设备报告真正的布尔值
	have, err := def.TranslateFromAPI(map[string]interface{}{
		"name": "rule1",
		"log":  true,
	})
	require.NoError(t, err)
	changes, err := def.Diff(want, have)
	require.NoError(t, err)
	assert.False(t, changes.Has("logging"))
}
