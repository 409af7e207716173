// Package stats counts read elements and shaped records.
package stats

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

type Counts struct {
	Elements int64
	Nodes    int64
	Ways     int64
	Records  int64
	Duration time.Duration
}

// Counter is safe for concurrent use.
type Counter struct {
	elements int64
	nodes    int64
	ways     int64
	records  int64
	start    time.Time
}

func NewCounter() *Counter {
	return &Counter{start: time.Now()}
}

// AddElement, AddNode and AddWay also update the process wide
// Prometheus metrics.
func (c *Counter) AddElement() {
	atomic.AddInt64(&c.elements, 1)
	ElementsTotal.Inc()
}

func (c *Counter) AddNode() {
	atomic.AddInt64(&c.nodes, 1)
	RecordsTotal.WithLabelValues("node").Inc()
}

func (c *Counter) AddWay() {
	atomic.AddInt64(&c.ways, 1)
	RecordsTotal.WithLabelValues("way").Inc()
}

func (c *Counter) AddRecords(n int) {
	atomic.AddInt64(&c.records, int64(n))
}

func (c *Counter) Counts() Counts {
	return Counts{
		Elements: atomic.LoadInt64(&c.elements),
		Nodes:    atomic.LoadInt64(&c.nodes),
		Ways:     atomic.LoadInt64(&c.ways),
		Records:  atomic.LoadInt64(&c.records),
		Duration: time.Since(c.start),
	}
}

// Rps returns the records per second.
func (c Counts) Rps() float64 {
	if c.Duration <= 0 {
		return 0
	}
	return float64(c.Records) / c.Duration.Seconds()
}

func (c Counts) String() string {
	return fmt.Sprintf("%s elements, %s nodes, %s ways, %s records (%s/s)",
		humanize.Comma(c.Elements),
		humanize.Comma(c.Nodes),
		humanize.Comma(c.Ways),
		humanize.Comma(c.Records),
		humanize.Comma(int64(c.Rps())),
	)
}
