package server

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	vm "github.com/VictoriaMetrics/metrics"
	gometrics "github.com/rcrowley/go-metrics"

	"github.com/ValentinKolb/wordkv/lib/dictionary"
	"github.com/ValentinKolb/wordkv/lib/pool"
	"github.com/ValentinKolb/wordkv/rpc/common"
)

// serverMetrics collects the metrics of one server.
// Prometheus metrics live in a private VictoriaMetrics set so that several servers
// (e.g. in tests) do not share counters. The go-metrics registry provides the rates
// used for the periodic stats log and the admin status.
type serverMetrics struct {
	set *vm.Set

	sessionsTotal *vm.Counter
	persistErrors *vm.Counter

	registry    gometrics.Registry
	connections gometrics.Meter

	stopOnce sync.Once
	stop     chan struct{}
}

func newServerMetrics(p *pool.Pool) *serverMetrics {
	set := vm.NewSet()
	set.NewGauge("wordkv_pool_idle_workers", func() float64 { return float64(p.Idle()) })
	set.NewGauge("wordkv_pool_queued_sessions", func() float64 { return float64(p.Queued()) })
	set.NewGauge("wordkv_pool_size", func() float64 { return float64(p.Size()) })

	registry := gometrics.NewRegistry()

	return &serverMetrics{
		set:           set,
		sessionsTotal: set.NewCounter("wordkv_sessions_total"),
		persistErrors: set.NewCounter("wordkv_persist_errors_total"),
		registry:      registry,
		connections:   gometrics.GetOrRegisterMeter("connections", registry),
		stop:          make(chan struct{}),
	}
}

// sessionAccepted records a new connection
func (m *serverMetrics) sessionAccepted() {
	m.sessionsTotal.Inc()
	m.connections.Mark(1)
}

// commandHandled records one handled command and its duration
func (m *serverMetrics) commandHandled(cmd common.CommandName, result dictionary.Result, start time.Time) {
	name := commandLabel(cmd)
	m.set.GetOrCreateCounter(fmt.Sprintf(`wordkv_commands_total{command=%q,result=%q}`, name, resultLabel(result))).Inc()
	m.set.GetOrCreateHistogram(fmt.Sprintf(`wordkv_command_duration_seconds{command=%q}`, name)).Update(time.Since(start).Seconds())
	gometrics.GetOrRegisterTimer("command."+name, m.registry).UpdateSince(start)
}

func (m *serverMetrics) persistFailed() {
	m.persistErrors.Inc()
}

// writePrometheus writes all metrics in Prometheus text format
func (m *serverMetrics) writePrometheus(w io.Writer) {
	m.set.WritePrometheus(w)
}

// summary returns the current rates, used by the admin status endpoint
func (m *serverMetrics) summary() map[string]interface{} {
	out := make(map[string]interface{})
	m.registry.Each(func(name string, i interface{}) {
		switch metric := i.(type) {
		case gometrics.Meter:
			s := metric.Snapshot()
			out[name] = map[string]interface{}{
				"count":  s.Count(),
				"rate1m": s.Rate1(),
			}
		case gometrics.Timer:
			s := metric.Snapshot()
			out[name] = map[string]interface{}{
				"count":   s.Count(),
				"rate1m":  s.Rate1(),
				"mean_ms": s.Mean() / float64(time.Millisecond),
				"p99_ms":  s.Percentile(0.99) / float64(time.Millisecond),
			}
		}
	})
	return out
}

// logStats writes one line per metric to the server logger
func (m *serverMetrics) logStats() {
	summary := m.summary()
	names := make([]string, 0, len(summary))
	for name := range summary {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		Logger.Infof("stats %-28s %v", name, summary[name])
	}
}

// startStatsLog logs the stats every interval until close is called.
// A non-positive interval disables the log.
func (m *serverMetrics) startStatsLog(interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.logStats()
			case <-m.stop:
				return
			}
		}
	}()
}

// close stops the stats log and the meter goroutines
func (m *serverMetrics) close() {
	m.stopOnce.Do(func() {
		close(m.stop)
		m.registry.UnregisterAll()
	})
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// commandLabel keeps client supplied command names out of metric names
func commandLabel(cmd common.CommandName) string {
	if cmd.Valid() {
		return cmd.String()
	}
	return "unknown"
}

func resultLabel(r dictionary.Result) string {
	switch {
	case r.IsError():
		return "error"
	case r.Changed:
		return "success"
	default:
		return "ok"
	}
}
