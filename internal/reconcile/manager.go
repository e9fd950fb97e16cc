package reconcile

import (
	"context"
	"fmt"

	"github.com/gundalow-collections/f5networks/internal/client"
	"github.com/gundalow-collections/f5networks/internal/utils/logger"
	f5errors "github.com/gundalow-collections/f5networks/pkg/errors"
)

// Result is the normalized outcome of one reconcile run.
// Result 是一次调谐运行的规范化结果。
type Result struct {
	Changed bool                   `json:"changed" yaml:"changed"`
	Changes map[string]interface{} `json:"changes,omitempty" yaml:"changes,omitempty"`
}

// Manager drives one resource through the present/absent lifecycle: fetch
// current state, diff against desired state, and issue the create, update or
// delete call that reconciles the two.
// Manager 驱动单个资源走完 present/absent 生命周期：获取当前状态，与期望
// 状态求差，并发出使两者一致的创建、更新或删除调用。
type Manager struct {
	Client    *client.Client
	Def       *Definition
	Want      *Params
	Have      *Params
	Changes   *Params
	CheckMode bool
}

// NewManager validates and normalizes the desired-state input and prepares a
// run. The returned manager has not touched the device yet.
// NewManager 校验并规范化期望状态输入，准备一次运行。返回的 manager 尚未
// 访问设备。
func NewManager(c *client.Client, def *Definition, input map[string]interface{}, checkMode bool) (*Manager, error) {
	want, err := def.NormalizeModule(input)
	if err != nil {
		return nil, err
	}
	nameField := def.NameField
	if nameField == "" {
		nameField = "name"
	}
	if want.Str(nameField) == "" {
		return nil, f5errors.NewMissingError(nameField)
	}
	return &Manager{
		Client:    c,
		Def:       def,
		Want:      want,
		Have:      NewParams(),
		Changes:   NewParams(),
		CheckMode: checkMode,
	}, nil
}

// Run executes the requested state transition and reports the outcome.
// Run 执行请求的状态迁移并报告结果。
func (m *Manager) Run(ctx context.Context) (*Result, error) {
	log := logger.Get(ctx)
	state := State(m.Want.Str("state"))
	if state == "" {
		state = StatePresent
	}

	var changed bool
	var err error
	switch state {
	case StatePresent:
		changed, err = m.present(ctx)
	case StateAbsent:
		changed, err = m.absent(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", f5errors.ErrInvalidState, state)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{
		Changed: changed,
		Changes: m.Def.ReportableChanges(m.Changes),
	}
	log.Debugf("reconciled %s name=%s changed=%v", m.Def.Kind, m.Want.Str("name"), changed)
	return result, nil
}

func (m *Manager) present(ctx context.Context) (bool, error) {
	exists, err := m.Exists(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		return m.update(ctx)
	}
	return m.create(ctx)
}

func (m *Manager) absent(ctx context.Context) (bool, error) {
	exists, err := m.Exists(ctx)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	return m.remove(ctx)
}

// Exists queries the item endpoint. A body that fails to decode, a 404
// status, or a 404 body code all mean the object is not there.
// Exists 查询单个对象端点。无法解码的响应体、404 状态码或响应体中的
// 404 错误码都表示对象不存在。
func (m *Manager) Exists(ctx context.Context) (bool, error) {
	resp, err := m.Client.Get(ctx, m.Def.ItemPath(m.Want))
	if err != nil {
		return false, err
	}
	if resp.Body == nil {
		return false, nil
	}
	if resp.Status == 404 || resp.Code() == 404 {
		return false, nil
	}
	return true, nil
}

func (m *Manager) create(ctx context.Context) (bool, error) {
	m.setChangedOptions()
	if m.Def.OnCreate != nil {
		if err := m.Def.OnCreate(m); err != nil {
			return false, err
		}
	}
	if m.CheckMode {
		return true, nil
	}
	return true, m.createOnDevice(ctx)
}

func (m *Manager) update(ctx context.Context) (bool, error) {
	have, err := m.ReadCurrent(ctx)
	if err != nil {
		return false, err
	}
	m.Have = have

	changes, err := m.Def.Diff(m.Want, m.Have)
	if err != nil {
		return false, err
	}
	if changes.Len() == 0 {
		return false, nil
	}
	m.Changes = changes

	if m.CheckMode {
		return true, nil
	}
	return true, m.updateOnDevice(ctx)
}

func (m *Manager) remove(ctx context.Context) (bool, error) {
	if m.CheckMode {
		return true, nil
	}
	if err := m.removeFromDevice(ctx); err != nil {
		return false, err
	}
	exists, err := m.Exists(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		return false, f5errors.ErrDeleteFailed
	}
	return true, nil
}

// setChangedOptions stages every specified returnable for a create.
// setChangedOptions 为创建操作暂存所有已指定的可返回字段。
func (m *Manager) setChangedOptions() {
	changes := NewParams()
	for _, key := range m.Def.Returnables {
		if v, ok := m.Want.Get(key); ok {
			changes.Set(key, v)
		}
	}
	m.Changes = changes
}

// ReadCurrent fetches and translates the object's current device state.
// ReadCurrent 获取并翻译对象在设备上的当前状态。
func (m *Manager) ReadCurrent(ctx context.Context) (*Params, error) {
	path := m.Def.ItemPath
	if m.Def.ReadPath != nil {
		path = m.Def.ReadPath
	}
	resp, err := m.Client.Get(ctx, path(m.Want))
	if err != nil {
		return nil, err
	}
	if err := client.CheckError(resp, 400); err != nil {
		return nil, err
	}
	return m.Def.TranslateFromAPI(resp.Body)
}

func (m *Manager) createOnDevice(ctx context.Context) error {
	payload := m.Def.APIParams(m.Changes)
	payload["name"] = m.Want.Str("name")
	if partition := m.Want.Str("partition"); partition != "" {
		payload["partition"] = partition
	}
	resp, err := m.Client.Post(ctx, m.Def.CollectionPath(m.Want), payload)
	if err != nil {
		return err
	}
	codes := m.Def.CreateErrorCodes
	if codes == nil {
		codes = []int{400, 403, 404}
	}
	return client.CheckError(resp, codes...)
}

func (m *Manager) updateOnDevice(ctx context.Context) error {
	payload := m.Def.APIParams(m.Changes)
	resp, err := m.Client.Patch(ctx, m.Def.ItemPath(m.Want), payload)
	if err != nil {
		return err
	}
	codes := m.Def.UpdateErrorCodes
	if codes == nil {
		codes = []int{400, 404}
	}
	return client.CheckError(resp, codes...)
}

func (m *Manager) removeFromDevice(ctx context.Context) error {
	resp, err := m.Client.Delete(ctx, m.Def.ItemPath(m.Want))
	if err != nil {
		return err
	}
	if resp.Status == 200 {
		return nil
	}
	return f5errors.NewDeviceError(string(resp.Raw))
}
