package logger

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

type counter struct {
	total   atomic.Int64
	failed  atomic.Int64
	latency atomic.Int64
}

type Metrics struct {
	mu         sync.Mutex
	operations map[string]*counter
}

var globalMetrics = &Metrics{operations: make(map[string]*counter)}

type OperationStats struct {
	Operation    string
	Total        int64
	Failed       int64
	AvgLatencyMs float64
}

func (m *Metrics) get(operation string) *counter {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.operations[operation]
	if !ok {
		c = &counter{}
		m.operations[operation] = c
	}
	return c
}

func RecordOperation(operation string, err error, duration time.Duration) {
	c := globalMetrics.get(operation)
	c.total.Add(1)
	c.latency.Add(duration.Nanoseconds())
	if err != nil {
		c.failed.Add(1)
	}
}

func GetMetrics() map[string]OperationStats {
	globalMetrics.mu.Lock()
	defer globalMetrics.mu.Unlock()

	result := make(map[string]OperationStats, len(globalMetrics.operations))
	for op, c := range globalMetrics.operations {
		stats := OperationStats{
			Operation: op,
			Total:     c.total.Load(),
			Failed:    c.failed.Load(),
		}
		if stats.Total > 0 {
			stats.AvgLatencyMs = float64(c.latency.Load()) / float64(stats.Total) / 1e6
		}
		result[op] = stats
	}
	return result
}

// SortedMetrics returns the collected stats ordered by operation name.
func SortedMetrics() []OperationStats {
	m := GetMetrics()
	out := make([]OperationStats, 0, len(m))
	for _, s := range m {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Operation < out[j].Operation })
	return out
}

// LogMetrics writes one debug line per recorded operation.
func LogMetrics(ctx context.Context) {
	log := FromContext(ctx)
	for _, s := range SortedMetrics() {
		log.Debug("operation stats",
			"operation", s.Operation,
			"total", s.Total,
			"failed", s.Failed,
			"avg_latency_ms", s.AvgLatencyMs,
		)
	}
}

func TimedOperation(ctx context.Context, operation string, fn func() error) error {
	start := time.Now()
	log := FromContext(ctx).With("operation", operation)
	log.Debug("starting operation")

	err := fn()
	duration := time.Since(start)

	RecordOperation(operation, err, duration)

	if err != nil {
		log.Debug("operation failed", "error", err, "duration", duration)
	} else {
		log.Debug("operation completed", "duration", duration)
	}

	return err
}

func ResetMetrics() {
	globalMetrics.mu.Lock()
	defer globalMetrics.mu.Unlock()
	globalMetrics.operations = make(map[string]*counter)
}
