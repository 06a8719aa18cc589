package soaprouter

import (
	"sync"
	"time"
)

// inMemoryMetricsCollector implements MetricsCollector in memory,
// the same default-storage shape as the ambient framework's
// in-memory metrics storage: an append-only slice under one mutex,
// with defensive copies on write and on export.
type inMemoryMetricsCollector struct {
	mu       sync.RWMutex
	samples  []DispatchSample
	counters map[string]int64
}

// NewInMemoryMetricsCollector returns a MetricsCollector backed by
// process memory. It is the router's default; callers needing
// durable or externally-scraped metrics should wrap or replace it.
func NewInMemoryMetricsCollector() MetricsCollector {
	return &inMemoryMetricsCollector{
		counters: make(map[string]int64),
	}
}

func (c *inMemoryMetricsCollector) RecordDispatch(sample DispatchSample) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples = append(c.samples, sample)
}

func (c *inMemoryMetricsCollector) IncrementCounter(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[name]++
}

func (c *inMemoryMetricsCollector) StartTimer(name string) Timer {
	return &memoryTimer{collector: c, name: name, start: time.Now()}
}

// Export returns a snapshot safe for callers to read without racing
// further writes: sample_count, per-operation counters, and the raw
// counters map.
func (c *inMemoryMetricsCollector) Export() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	byOperation := make(map[string]int)
	var faulted int
	for _, s := range c.samples {
		byOperation[s.NamespaceURI+"#"+s.LocalName]++
		if s.Faulted {
			faulted++
		}
	}

	counters := make(map[string]int64, len(c.counters))
	for k, v := range c.counters {
		counters[k] = v
	}

	return map[string]any{
		"sample_count":  len(c.samples),
		"faulted_count": faulted,
		"by_operation":  byOperation,
		"counters":      counters,
	}
}

type memoryTimer struct {
	collector *inMemoryMetricsCollector
	name      string
	start     time.Time
}

func (t *memoryTimer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	t.collector.IncrementCounter(t.name + "_total")
	return elapsed
}
