// Package agent runs the drift watcher: it periodically replays a
// desired-state file against the device in check mode and exports the
// outcome as Prometheus gauges.
// Package agent 运行漂移监视器：周期性地以 check 模式将期望状态文件与
// 设备比对，并将结果导出为 Prometheus 指标。
package agent

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gundalow-collections/f5networks/internal/client"
	"github.com/gundalow-collections/f5networks/internal/modules"
	"github.com/gundalow-collections/f5networks/internal/utils/logger"
)

const (
	// DefaultInterval is the pause between drift checks.
	DefaultInterval = 60 * time.Second
	// DefaultListenAddr serves the /metrics endpoint.
	DefaultListenAddr = ":11813"
)

var (
	resourcesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "f5ctl_resources_total",
			Help: "Number of resources in the watched desired-state file",
		},
	)
	resourcesDrifted = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "f5ctl_resources_drifted",
			Help: "Resources whose device state differs from the desired state",
		},
		[]string{"kind"},
	)
	checkDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "f5ctl_check_duration_seconds",
			Help: "Wall time of the last drift check",
		},
	)
	checkErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "f5ctl_check_errors_total",
			Help: "Total drift checks that failed",
		},
	)
)

// Agent watches one desired-state file against one device.
type Agent struct {
	Client     *client.Client
	File       string
	Interval   time.Duration
	ListenAddr string
}

// Summary is the outcome of one drift check.
// Summary 是单次漂移检查的结果。
type Summary struct {
	Total   int
	Drifted map[string]int
}

// CheckOnce replays the desired-state file in check mode and records the
// per-kind drift counts. The file is re-read every pass so edits take
// effect without a restart.
// CheckOnce 以 check 模式重放期望状态文件并记录每种 kind 的漂移数。
// 每轮都重新读取文件，修改无需重启即可生效。
func (a *Agent) CheckOnce(ctx context.Context) (*Summary, error) {
	start := time.Now()
	docs, err := modules.LoadDocuments(a.File)
	if err != nil {
		checkErrors.Inc()
		return nil, err
	}

	summary := &Summary{Total: len(docs), Drifted: make(map[string]int)}
	for _, doc := range docs {
		result, err := modules.RunDocument(ctx, a.Client, doc, true)
		if err != nil {
			checkErrors.Inc()
			return nil, fmt.Errorf("kind %s: %w", doc.Kind, err)
		}
		if result.Changed {
			summary.Drifted[doc.Kind]++
		}
	}

	resourcesTotal.Set(float64(summary.Total))
	resourcesDrifted.Reset()
	for kind, n := range summary.Drifted {
		resourcesDrifted.WithLabelValues(kind).Set(float64(n))
	}
	checkDuration.Set(time.Since(start).Seconds())
	return summary, nil
}

// Run serves /metrics and loops drift checks until the context ends.
// A failing check is logged and retried at the next tick.
// Run 提供 /metrics 并循环执行漂移检查，直到 context 结束。失败的检查
// 记录日志并在下个周期重试。
func (a *Agent) Run(ctx context.Context) error {
	log := logger.Get(ctx)
	interval := a.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	addr := a.ListenAddr
	if addr == "" {
		addr = DefaultListenAddr
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("metrics server: %v", err)
		}
	}()
	defer server.Close()

	log.Infof("drift agent watching %s every %s, metrics on %s", a.File, interval, addr)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		summary, err := a.CheckOnce(ctx)
		if err != nil {
			log.Errorf("drift check failed: %v", err)
		} else {
			log.Infof("drift check: %d resources, %d drifted",
				summary.Total, driftedTotal(summary))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func driftedTotal(s *Summary) int {
	total := 0
	for _, n := range s.Drifted {
		total += n
	}
	return total
}
