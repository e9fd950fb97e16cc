// Package modules registers every resource definition under its kind and
// dispatches reconcile runs to the right manager.
// Package modules 将每种资源定义登记在其 kind 下，并把调谐运行分发给
// 对应的 manager。
package modules

import (
	"context"
	"sort"

	"github.com/gundalow-collections/f5networks/internal/client"
	"github.com/gundalow-collections/f5networks/internal/modules/firewallrule"
	"github.com/gundalow-collections/f5networks/internal/modules/gtmwideip"
	"github.com/gundalow-collections/f5networks/internal/modules/ikepeer"
	"github.com/gundalow-collections/f5networks/internal/modules/profilehttp"
	"github.com/gundalow-collections/f5networks/internal/modules/profiletcp"
	"github.com/gundalow-collections/f5networks/internal/modules/profileudp"
	"github.com/gundalow-collections/f5networks/internal/modules/sysdb"
	"github.com/gundalow-collections/f5networks/internal/modules/tunnel"
	"github.com/gundalow-collections/f5networks/internal/modules/vlan"
	"github.com/gundalow-collections/f5networks/internal/reconcile"
	f5errors "github.com/gundalow-collections/f5networks/pkg/errors"
)

// Runner executes one reconcile run for a single resource record.
// Runner 对单条资源记录执行一次调谐运行。
type Runner func(ctx context.Context, c *client.Client, input map[string]interface{}, checkMode bool) (*reconcile.Result, error)

var definitions = map[string]func() *reconcile.Definition{}

var runners = map[string]Runner{}

func init() {
	for _, def := range []func() *reconcile.Definition{
		profilehttp.Definition,
		profiletcp.Definition,
		profileudp.Definition,
		vlan.Definition,
		tunnel.Definition,
		ikepeer.Definition,
		firewallrule.Definition,
		gtmwideip.Definition,
	} {
		register(def)
	}

	// sys/db has its own lifecycle (present/reset, PATCH only) and does not
	// go through the generic definition.
	// sys/db 有自己的生命周期（present/reset，仅 PATCH），不走通用定义。
	runners[sysdb.Kind] = func(ctx context.Context, c *client.Client, input map[string]interface{}, checkMode bool) (*reconcile.Result, error) {
		m, err := sysdb.NewManager(c, input, checkMode)
		if err != nil {
			return nil, err
		}
		return m.Run(ctx)
	}
}

func register(def func() *reconcile.Definition) {
	kind := def().Kind
	definitions[kind] = def
	runners[kind] = func(ctx context.Context, c *client.Client, input map[string]interface{}, checkMode bool) (*reconcile.Result, error) {
		m, err := reconcile.NewManager(c, def(), input, checkMode)
		if err != nil {
			return nil, err
		}
		return m.Run(ctx)
	}
}

// Lookup returns the runner registered for kind.
// Lookup 返回登记在 kind 下的 runner。
func Lookup(kind string) (Runner, error) {
	r, ok := runners[kind]
	if !ok {
		return nil, f5errors.NewKindError(kind)
	}
	return r, nil
}

// Describe returns the definition registered for kind. sys/db has no
// generic definition and is not described.
// Describe 返回登记在 kind 下的定义。sys/db 没有通用定义，不可描述。
func Describe(kind string) (*reconcile.Definition, error) {
	def, ok := definitions[kind]
	if !ok {
		return nil, f5errors.NewKindError(kind)
	}
	return def(), nil
}

// Kinds lists every registered kind in sorted order.
// Kinds 按排序列出所有已登记的 kind。
func Kinds() []string {
	out := make([]string, 0, len(runners))
	for kind := range runners {
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}
