package reconcile

// State is the requested lifecycle state of a resource.
type State string

const (
	StatePresent State = "present"
	StateAbsent  State = "absent"
	StateReset   State = "reset"
)

// NormFunc derives the canonical value of one field from a whole record.
// Returning nil leaves the field unset; returning an error aborts the run.
// NormFunc 从整条记录推导某个字段的规范值。返回 nil 表示该字段未设置，
// 返回错误则中止本次执行。
type NormFunc func(p *Params) (interface{}, error)

// AssembleFunc builds the wire value of one API attribute from the change
// set. The bool reports whether the attribute should be sent at all.
// AssembleFunc 从变更集构建某个 API 属性的线上值。bool 表示是否发送该属性。
type AssembleFunc func(changes *Params) (interface{}, bool)

// ReportFunc converts a changed canonical value back to its user-facing
// spelling for the result report.
// ReportFunc 将已变更的规范值转换回面向用户的写法，用于结果报告。
type ReportFunc func(changes *Params) (interface{}, bool)

// CompareFunc overrides the default want-vs-have comparison for one field.
// A non-nil return value is the change to apply; an error aborts the run.
// CompareFunc 覆盖某个字段的默认期望-实际比较。非 nil 返回值即为要应用的
// 变更；错误会中止本次执行。
type CompareFunc func(want, have *Params) (interface{}, error)

// Definition is the static schema of one appliance resource type: its REST
// paths, the wire-to-user name translation table, the attribute lists that
// drive payload building, diffing and reporting, and the per-field hooks.
// Definition 是某类设备资源的静态模式：REST 路径、线上名到用户名的翻译表、
// 驱动载荷构建/差异计算/结果报告的属性列表，以及各字段的钩子。
type Definition struct {
	// Kind identifies the resource type, e.g. "ltm/profile-http".
	Kind string

	// NameField is the identifying parameter, "name" unless overridden
	// (sys/db addresses objects by "key").
	NameField string

	// CollectionPath is the endpoint objects are created under.
	CollectionPath func(p *Params) string
	// ItemPath addresses one object.
	ItemPath func(p *Params) string
	// ReadPath addresses one object for reads, when reading needs extra
	// query parameters (sub-collection expansion). Defaults to ItemPath.
	ReadPath func(p *Params) string

	// APIMap translates wire attribute names to user-facing names. Wire
	// attributes without an entry keep their name on both sides.
	APIMap map[string]string

	// APIAttributes are the wire attributes included in write payloads.
	APIAttributes []string

	// Returnables are the user-facing fields staged into the change set
	// when creating.
	Returnables []string

	// Reportables are the user-facing fields included in the result
	// report. Defaults to Returnables.
	Reportables []string

	// Updatables are the user-facing fields compared on update.
	Updatables []string

	// ModuleNorm validates and normalizes desired-state input per field.
	ModuleNorm map[string]NormFunc

	// APINorm derives canonical fields from the raw device document, after
	// the flat APIMap translation has been applied.
	APINorm map[string]NormFunc

	// Usable overrides payload assembly per wire attribute (folding split
	// fields back into nested API sub-documents).
	Usable map[string]AssembleFunc

	// Report overrides result reporting per user-facing field.
	Report map[string]ReportFunc

	// Compare overrides diffing per user-facing field.
	Compare map[string]CompareFunc

	// OnCreate runs after the change set for a create has been staged and
	// before the payload is sent (default folding, required checks).
	OnCreate func(m *Manager) error

	// CreateErrorCodes / UpdateErrorCodes list the body error codes whose
	// message is surfaced verbatim. Defaults: 400,403,404 and 400,404.
	CreateErrorCodes []int
	UpdateErrorCodes []int
}

// TranslateFromAPI maps a raw device document into the user-facing record:
// flat APIMap renames first, then APINorm derivations.
// TranslateFromAPI 将设备原始文档映射为面向用户的记录：先做 APIMap 的扁平
// 重命名，再执行 APINorm 推导。
func (d *Definition) TranslateFromAPI(doc map[string]interface{}) (*Params, error) {
	raw := NewParams()
	for k, v := range doc {
		if v == nil {
			continue
		}
		if user, ok := d.APIMap[k]; ok {
			raw.Set(user, v)
		} else {
			raw.Set(k, v)
		}
	}
	out := raw.Copy()
	for key, norm := range d.APINorm {
		v, err := norm(raw)
		if err != nil {
			return nil, err
		}
		out.Set(key, v)
	}
	return out, nil
}

// NormalizeModule maps raw desired-state input into the canonical record.
// Hooks observe the raw input; fields without a hook pass through. The
// partition default is folded in first, as the hooks build /partition/name
// references from it.
// NormalizeModule 将原始期望状态输入映射为规范记录。钩子观察原始输入；
// 没有钩子的字段原样通过。partition 默认值最先折入，钩子会用它构建
// /partition/name 引用。
func (d *Definition) NormalizeModule(input map[string]interface{}) (*Params, error) {
	raw := ParamsFrom(input)
	if raw.Str("partition") == "" {
		raw.Set("partition", "Common")
	}
	out := raw.Copy()
	for key, norm := range d.ModuleNorm {
		v, err := norm(raw)
		if err != nil {
			return nil, err
		}
		out.Set(key, v)
	}
	return out, nil
}

// APIParams builds the wire payload for the given change set.
// APIParams 为给定变更集构建线上载荷。
func (d *Definition) APIParams(changes *Params) map[string]interface{} {
	payload := make(map[string]interface{})
	for _, attr := range d.APIAttributes {
		if assemble, ok := d.Usable[attr]; ok {
			if v, send := assemble(changes); send {
				payload[attr] = v
			}
			continue
		}
		key := attr
		if user, ok := d.APIMap[attr]; ok {
			key = user
		}
		if v, ok := changes.Get(key); ok {
			payload[attr] = v
		}
	}
	return payload
}

// ReportableChanges converts a change set into the user-facing report,
// restricted to returnable fields.
// ReportableChanges 将变更集转换为面向用户的报告，仅限可返回字段。
func (d *Definition) ReportableChanges(changes *Params) map[string]interface{} {
	keys := d.Reportables
	if keys == nil {
		keys = d.Returnables
	}
	out := make(map[string]interface{})
	for _, key := range keys {
		if report, ok := d.Report[key]; ok {
			if v, send := report(changes); send && v != nil {
				out[key] = v
			}
			continue
		}
		if v, ok := changes.Get(key); ok {
			out[key] = v
		}
	}
	return out
}

// Diff computes the change set between desired and current state over the
// updatable fields. Per-field Compare overrides run first; the default is
// deep inequality with an unset desired side meaning "don't care".
// Diff 在可更新字段上计算期望与当前状态之间的变更集。字段级 Compare 覆盖
// 优先；默认为深度不等比较，期望侧未设置表示“不关心”。
func (d *Definition) Diff(want, have *Params) (*Params, error) {
	changes := NewParams()
	for _, key := range d.Updatables {
		if cmp, ok := d.Compare[key]; ok {
			v, err := cmp(want, have)
			if err != nil {
				return nil, err
			}
			if v == nil {
				continue
			}
			// A map-valued change merges into the set, mirroring the
			// nested sub-document updates of the management API.
			// map 类型的变更会并入变更集，对应管理 API 的嵌套子文档更新。
			if m, ok := v.(map[string]interface{}); ok {
				for mk, mv := range m {
					changes.Set(mk, mv)
				}
				continue
			}
			changes.Set(key, v)
			continue
		}
		changes.Set(key, defaultCompare(want, have, key))
	}
	return changes, nil
}

func defaultCompare(want, have *Params, key string) interface{} {
	wv, ok := want.Get(key)
	if !ok {
		return nil
	}
	hv, ok := have.Get(key)
	if !ok {
		return wv
	}
	if !deepEqual(wv, hv) {
		return wv
	}
	return nil
}
