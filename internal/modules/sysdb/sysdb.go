// Package sysdb manages system database variables under /mgmt/tm/sys/db.
// Package sysdb 管理 /mgmt/tm/sys/db 下的系统数据库变量。
//
// Database variables do not follow the create/delete lifecycle of the other
// resources: every key always exists on the device, so the states are
// "present" (set to a value) and "reset" (fold the device default back in),
// and every write is a patch against the item.
// 数据库变量不遵循其他资源的创建/删除生命周期：每个键在设备上始终存在，
// 因此状态是 "present"（设为某值）和 "reset"（恢复设备默认值），
// 所有写操作都是对单个对象的 patch。
package sysdb

import (
	"context"
	"fmt"

	"github.com/gundalow-collections/f5networks/internal/client"
	"github.com/gundalow-collections/f5networks/internal/reconcile"
	"github.com/gundalow-collections/f5networks/internal/utils/logger"
	f5errors "github.com/gundalow-collections/f5networks/pkg/errors"
)

const basePath = "/mgmt/tm/sys/db/"

// Kind identifies this resource type in the module registry.
const Kind = "sys/db"

// Manager reconciles one database variable.
// Manager 调谐单个数据库变量。
type Manager struct {
	Client    *client.Client
	Want      *reconcile.Params
	Have      *reconcile.Params
	Changes   *reconcile.Params
	CheckMode bool
}

// NewManager validates the desired-state input and prepares a run.
// NewManager 校验期望状态输入并准备一次运行。
func NewManager(c *client.Client, input map[string]interface{}, checkMode bool) (*Manager, error) {
	want := reconcile.ParamsFrom(input)
	if want.Str("key") == "" {
		return nil, f5errors.NewMissingError("key")
	}
	if v, ok := want.Get("value"); ok {
		if _, isStr := v.(string); !isStr {
			// Variables are strings on the wire.
			// 变量在线上是字符串。
			want.Set("value", fmt.Sprint(v))
		}
	}
	return &Manager{
		Client:    c,
		Want:      want,
		Have:      reconcile.NewParams(),
		Changes:   reconcile.NewParams(),
		CheckMode: checkMode,
	}, nil
}

// Run executes the requested state transition and reports the outcome.
// Run 执行请求的状态迁移并报告结果。
func (m *Manager) Run(ctx context.Context) (*reconcile.Result, error) {
	log := logger.Get(ctx)
	state := reconcile.State(m.Want.Str("state"))
	if state == "" {
		state = reconcile.StatePresent
	}

	var changed bool
	var err error
	switch state {
	case reconcile.StatePresent:
		changed, err = m.present(ctx)
	case reconcile.StateReset:
		changed, err = m.reset(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", f5errors.ErrInvalidState, state)
	}
	if err != nil {
		return nil, err
	}

	result := &reconcile.Result{
		Changed: changed,
		Changes: m.reportableChanges(),
	}
	log.Debugf("reconciled %s key=%s changed=%v", Kind, m.Want.Str("key"), changed)
	return result, nil
}

func (m *Manager) present(ctx context.Context) (bool, error) {
	matches, err := m.valueMatches(ctx)
	if err != nil {
		return false, err
	}
	if matches {
		return false, nil
	}
	return m.update(ctx)
}

func (m *Manager) update(ctx context.Context) (bool, error) {
	if !m.Want.Has("value") {
		return false, fmt.Errorf("%w: when setting a key, a value must be supplied", f5errors.ErrMissingParameter)
	}
	have, err := m.readCurrent(ctx)
	if err != nil {
		return false, err
	}
	m.Have = have

	if m.Want.Str("value") == m.Have.Str("value") {
		return false, nil
	}
	m.stageChanges(m.Want.Str("value"))

	if m.CheckMode {
		return true, nil
	}
	return true, m.patchValue(ctx, m.Want.Str("value"))
}

func (m *Manager) reset(ctx context.Context) (bool, error) {
	have, err := m.readCurrent(ctx)
	if err != nil {
		return false, err
	}
	m.Have = have

	def := m.Have.Str("default_value")
	if m.Have.Str("value") == def {
		return false, nil
	}
	m.stageChanges(def)

	if m.CheckMode {
		return true, nil
	}
	if err := m.patchValue(ctx, def); err != nil {
		return false, err
	}

	// Verify the device actually took the default back.
	// 校验设备确实恢复了默认值。
	m.Want.Set("value", def)
	matches, err := m.valueMatches(ctx)
	if err != nil {
		return false, err
	}
	if !matches {
		return false, f5errors.NewDeviceError("failed to reset the DB variable")
	}
	return true, nil
}

// valueMatches reads the variable and compares its value to the wanted one.
// valueMatches 读取变量并将其值与期望值比较。
func (m *Manager) valueMatches(ctx context.Context) (bool, error) {
	resp, err := m.Client.Get(ctx, m.itemPath())
	if err != nil {
		return false, err
	}
	if resp.Body == nil {
		return false, f5errors.ErrMalformedResponse
	}
	current, ok := resp.Body["value"]
	if !ok {
		return false, nil
	}
	return fmt.Sprint(current) == m.Want.Str("value"), nil
}

func (m *Manager) readCurrent(ctx context.Context) (*reconcile.Params, error) {
	resp, err := m.Client.Get(ctx, m.itemPath())
	if err != nil {
		return nil, err
	}
	if err := client.CheckError(resp, 400); err != nil {
		return nil, err
	}
	have := reconcile.NewParams()
	for k, v := range resp.Body {
		if k == "defaultValue" {
			k = "default_value"
		}
		have.Set(k, v)
	}
	return have, nil
}

func (m *Manager) patchValue(ctx context.Context, value string) error {
	resp, err := m.Client.Patch(ctx, m.itemPath(), map[string]interface{}{"value": value})
	if err != nil {
		return err
	}
	return client.CheckError(resp, 400)
}

func (m *Manager) stageChanges(value string) {
	m.Changes = reconcile.NewParams()
	m.Changes.Set("name", m.Want.Str("key"))
	m.Changes.Set("value", value)
	if v, ok := m.Have.Get("default_value"); ok {
		m.Changes.Set("default_value", v)
	}
}

func (m *Manager) reportableChanges() map[string]interface{} {
	out := make(map[string]interface{})
	for _, key := range []string{"name", "value", "default_value"} {
		if v, ok := m.Changes.Get(key); ok {
			out[key] = v
		}
	}
	return out
}

func (m *Manager) itemPath() string {
	return basePath + m.Want.Str("key")
}
