package canvas

import (
	"expvar"
	"sync/atomic"
	"time"
)

// Metrics collects operational counters for a canvas. Values are atomics
// so they can be read from an HTTP handler while the render loop runs.
//
// Call RegisterExpvar to expose them under /debug/vars:
//
//	import _ "expvar"
//	c.Metrics().RegisterExpvar()
type Metrics struct {
	framesRendered atomic.Int64
	framesSkipped  atomic.Int64
	clicks         atomic.Int64
	resizes        atomic.Int64
	scriptErrors   atomic.Int64
	scriptReloads  atomic.Int64

	frameLatencyNs    atomic.Int64
	frameLatencyCount atomic.Int64

	running    atomic.Int32
	registered atomic.Bool
}

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RegisterExpvar publishes all metrics with the expvar package.
// Safe to call multiple times; only the first call registers.
func (m *Metrics) RegisterExpvar() {
	if m.registered.Swap(true) {
		return
	}

	expvar.Publish("canvas_frames_rendered_total", expvar.Func(func() any { return m.framesRendered.Load() }))
	expvar.Publish("canvas_frames_skipped_total", expvar.Func(func() any { return m.framesSkipped.Load() }))
	expvar.Publish("canvas_clicks_total", expvar.Func(func() any { return m.clicks.Load() }))
	expvar.Publish("canvas_resizes_total", expvar.Func(func() any { return m.resizes.Load() }))
	expvar.Publish("canvas_script_errors_total", expvar.Func(func() any { return m.scriptErrors.Load() }))
	expvar.Publish("canvas_script_reloads_total", expvar.Func(func() any { return m.scriptReloads.Load() }))
	expvar.Publish("canvas_running", expvar.Func(func() any { return m.running.Load() }))
	expvar.Publish("canvas_frame_latency_avg_ms", expvar.Func(func() any {
		return float64(m.Snapshot().FrameLatencyAvg) / float64(time.Millisecond)
	}))
}

// IncrementScriptErrors counts a failed sketch callback.
func (m *Metrics) IncrementScriptErrors() { m.scriptErrors.Add(1) }

// IncrementScriptReloads counts a sketch hot reload.
func (m *Metrics) IncrementScriptReloads() { m.scriptReloads.Add(1) }

func (m *Metrics) recordFrame(d time.Duration) {
	m.framesRendered.Add(1)
	m.frameLatencyNs.Add(d.Nanoseconds())
	m.frameLatencyCount.Add(1)
}

func (m *Metrics) recordSkip()   { m.framesSkipped.Add(1) }
func (m *Metrics) recordClick()  { m.clicks.Add(1) }
func (m *Metrics) recordResize() { m.resizes.Add(1) }

func (m *Metrics) setRunning(running bool) {
	if running {
		m.running.Store(1)
		return
	}
	m.running.Store(0)
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	FramesRendered  int64
	FramesSkipped   int64
	Clicks          int64
	Resizes         int64
	ScriptErrors    int64
	ScriptReloads   int64
	Running         bool
	FrameLatencyAvg time.Duration
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avg time.Duration
	if n := m.frameLatencyCount.Load(); n > 0 {
		avg = time.Duration(m.frameLatencyNs.Load() / n)
	}
	return MetricsSnapshot{
		FramesRendered:  m.framesRendered.Load(),
		FramesSkipped:   m.framesSkipped.Load(),
		Clicks:          m.clicks.Load(),
		Resizes:         m.resizes.Load(),
		ScriptErrors:    m.scriptErrors.Load(),
		ScriptReloads:   m.scriptReloads.Load(),
		Running:         m.running.Load() > 0,
		FrameLatencyAvg: avg,
	}
}
