package ice

import (
	"sync/atomic"
	"time"
)

// LatencyBuckets defines the latency histogram buckets in nanoseconds,
// covering 1us to 10s with logarithmic spacing.
var LatencyBuckets = []uint64{
	1_000,          // 1us
	10_000,         // 10us
	100_000,        // 100us
	1_000_000,      // 1ms
	10_000_000,     // 10ms
	100_000_000,    // 100ms
	1_000_000_000,  // 1s
	10_000_000_000, // 10s
}

const numLatencyBuckets = 8

// Metrics tracks per-operation counters and latency for a Context's I/O.
type Metrics struct {
	AcceptOps, ConnectOps, RecvOps, SendOps   atomic.Uint64
	AcceptErrors, ConnectErrors, RecvErrors, SendErrors atomic.Uint64

	RecvBytes, SendBytes atomic.Uint64

	TotalLatencyNs atomic.Uint64
	OpCount        atomic.Uint64

	LatencyBuckets [numLatencyBuckets]atomic.Uint64

	StartTime atomic.Int64
	StopTime  atomic.Int64
}

// NewMetrics creates a new metrics instance with StartTime set to now.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.StartTime.Store(time.Now().UnixNano())
	return m
}

func (m *Metrics) RecordAccept(latencyNs uint64, err error) {
	m.AcceptOps.Add(1)
	if err != nil {
		m.AcceptErrors.Add(1)
	}
	m.recordLatency(latencyNs)
}

func (m *Metrics) RecordConnect(latencyNs uint64, err error) {
	m.ConnectOps.Add(1)
	if err != nil {
		m.ConnectErrors.Add(1)
	}
	m.recordLatency(latencyNs)
}

func (m *Metrics) RecordRecv(n int, latencyNs uint64, err error) {
	m.RecvOps.Add(1)
	if err != nil {
		m.RecvErrors.Add(1)
	} else {
		m.RecvBytes.Add(uint64(n))
	}
	m.recordLatency(latencyNs)
}

func (m *Metrics) RecordSend(n int, latencyNs uint64, err error) {
	m.SendOps.Add(1)
	if err != nil {
		m.SendErrors.Add(1)
	} else {
		m.SendBytes.Add(uint64(n))
	}
	m.recordLatency(latencyNs)
}

func (m *Metrics) recordLatency(latencyNs uint64) {
	m.TotalLatencyNs.Add(latencyNs)
	m.OpCount.Add(1)
	for i, bucket := range LatencyBuckets {
		if latencyNs <= bucket {
			m.LatencyBuckets[i].Add(1)
		}
	}
}

// Stop records the metrics' stop timestamp, fixing Snapshot's uptime.
func (m *Metrics) Stop() {
	m.StopTime.Store(time.Now().UnixNano())
}

// MetricsSnapshot is a point-in-time, non-atomic view of Metrics.
type MetricsSnapshot struct {
	AcceptOps, ConnectOps, RecvOps, SendOps             uint64
	AcceptErrors, ConnectErrors, RecvErrors, SendErrors uint64
	RecvBytes, SendBytes                                 uint64

	AvgLatencyNs uint64
	UptimeNs     uint64

	LatencyP50Ns, LatencyP99Ns, LatencyP999Ns uint64
	LatencyHistogram                          [numLatencyBuckets]uint64

	TotalOps   uint64
	TotalBytes uint64
	ErrorRate  float64
}

// Snapshot returns a consistent-enough point-in-time view of m.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		AcceptOps:     m.AcceptOps.Load(),
		ConnectOps:    m.ConnectOps.Load(),
		RecvOps:       m.RecvOps.Load(),
		SendOps:       m.SendOps.Load(),
		AcceptErrors:  m.AcceptErrors.Load(),
		ConnectErrors: m.ConnectErrors.Load(),
		RecvErrors:    m.RecvErrors.Load(),
		SendErrors:    m.SendErrors.Load(),
		RecvBytes:     m.RecvBytes.Load(),
		SendBytes:     m.SendBytes.Load(),
	}

	snap.TotalOps = snap.AcceptOps + snap.ConnectOps + snap.RecvOps + snap.SendOps
	snap.TotalBytes = snap.RecvBytes + snap.SendBytes

	totalLatencyNs := m.TotalLatencyNs.Load()
	opCount := m.OpCount.Load()
	if opCount > 0 {
		snap.AvgLatencyNs = totalLatencyNs / opCount
	}

	startTime := m.StartTime.Load()
	stopTime := m.StopTime.Load()
	if stopTime > 0 {
		snap.UptimeNs = uint64(stopTime - startTime)
	} else {
		snap.UptimeNs = uint64(time.Now().UnixNano() - startTime)
	}

	totalErrors := snap.AcceptErrors + snap.ConnectErrors + snap.RecvErrors + snap.SendErrors
	if snap.TotalOps > 0 {
		snap.ErrorRate = float64(totalErrors) / float64(snap.TotalOps) * 100.0
	}

	for i := 0; i < numLatencyBuckets; i++ {
		snap.LatencyHistogram[i] = m.LatencyBuckets[i].Load()
	}

	if opCount > 0 {
		snap.LatencyP50Ns = m.calculatePercentile(0.50)
		snap.LatencyP99Ns = m.calculatePercentile(0.99)
		snap.LatencyP999Ns = m.calculatePercentile(0.999)
	}

	return snap
}

// calculatePercentile estimates the latency at the given percentile (0.0-1.0)
// using linear interpolation between histogram buckets.
func (m *Metrics) calculatePercentile(percentile float64) uint64 {
	totalOps := m.OpCount.Load()
	if totalOps == 0 {
		return 0
	}

	targetCount := uint64(float64(totalOps) * percentile)

	prevBucket := uint64(0)
	for i, bucket := range LatencyBuckets {
		bucketCount := m.LatencyBuckets[i].Load()
		if bucketCount >= targetCount {
			prevCount := uint64(0)
			if i > 0 {
				prevCount = m.LatencyBuckets[i-1].Load()
			}
			if bucketCount == prevCount {
				return bucket
			}
			fraction := float64(targetCount-prevCount) / float64(bucketCount-prevCount)
			return prevBucket + uint64(fraction*float64(bucket-prevBucket))
		}
		prevBucket = bucket
	}

	return LatencyBuckets[numLatencyBuckets-1]
}

// Observer is the pluggable metrics-collection interface a Context reports
// I/O completions to.
type Observer interface {
	ObserveAccept(latencyNs uint64, err error)
	ObserveConnect(latencyNs uint64, err error)
	ObserveRecv(n int, latencyNs uint64, err error)
	ObserveSend(n int, latencyNs uint64, err error)
}

// NoOpObserver discards every observation.
type NoOpObserver struct{}

func (NoOpObserver) ObserveAccept(uint64, error)       {}
func (NoOpObserver) ObserveConnect(uint64, error)       {}
func (NoOpObserver) ObserveRecv(int, uint64, error)     {}
func (NoOpObserver) ObserveSend(int, uint64, error)     {}

// MetricsObserver implements Observer by recording into a Metrics.
type MetricsObserver struct {
	metrics *Metrics
}

// NewMetricsObserver creates an observer that records into m.
func NewMetricsObserver(m *Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (o *MetricsObserver) ObserveAccept(latencyNs uint64, err error) {
	o.metrics.RecordAccept(latencyNs, err)
}

func (o *MetricsObserver) ObserveConnect(latencyNs uint64, err error) {
	o.metrics.RecordConnect(latencyNs, err)
}

func (o *MetricsObserver) ObserveRecv(n int, latencyNs uint64, err error) {
	o.metrics.RecordRecv(n, latencyNs, err)
}

func (o *MetricsObserver) ObserveSend(n int, latencyNs uint64, err error) {
	o.metrics.RecordSend(n, latencyNs, err)
}

var _ Observer = (*MetricsObserver)(nil)
var _ Observer = (*NoOpObserver)(nil)
