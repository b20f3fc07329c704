package stackarena

import "github.com/prometheus/client_golang/prometheus"

// MetricsSource is anything that can report arena metrics. Both *Arena and
// *SafeArena implement it; collect a plain *Arena only when scrapes cannot
// race with allocations.
type MetricsSource interface {
	Metrics() Metrics
}

// Collector exports arena metrics to Prometheus.
type Collector struct {
	src MetricsSource

	capacity      *prometheus.Desc
	used          *prometheus.Desc
	available     *prometheus.Desc
	padding       *prometheus.Desc
	allocations   *prometheus.Desc
	deallocations *prometheus.Desc
}

var _ prometheus.Collector = &Collector{}

// NewCollector returns a collector reading from src on every scrape.
func NewCollector(src MetricsSource, constLabels prometheus.Labels) *Collector {
	return &Collector{
		src: src,
		capacity: prometheus.NewDesc(
			"stackarena_capacity_bytes",
			"Size of the arena region in bytes.",
			nil, constLabels,
		),
		used: prometheus.NewDesc(
			"stackarena_used_bytes",
			"Bytes below the arena cursor, alignment padding included.",
			nil, constLabels,
		),
		available: prometheus.NewDesc(
			"stackarena_available_bytes",
			"Bytes above the arena cursor.",
			nil, constLabels,
		),
		padding: prometheus.NewDesc(
			"stackarena_padding_bytes_total",
			"Alignment padding bytes inserted into the region.",
			nil, constLabels,
		),
		allocations: prometheus.NewDesc(
			"stackarena_allocations_total",
			"Allocations by where they were served from.",
			[]string{"origin"}, constLabels,
		),
		deallocations: prometheus.NewDesc(
			"stackarena_deallocations_total",
			"Deallocations by outcome.",
			[]string{"outcome"}, constLabels,
		),
	}
}

func (c *Collector) Describe(descs chan<- *prometheus.Desc) {
	descs <- c.capacity
	descs <- c.used
	descs <- c.available
	descs <- c.padding
	descs <- c.allocations
	descs <- c.deallocations
}

func (c *Collector) Collect(metrics chan<- prometheus.Metric) {
	m := c.src.Metrics()
	metrics <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(m.Capacity))
	metrics <- prometheus.MustNewConstMetric(c.used, prometheus.GaugeValue, float64(m.Used))
	metrics <- prometheus.MustNewConstMetric(c.available, prometheus.GaugeValue, float64(m.Available))
	metrics <- prometheus.MustNewConstMetric(c.padding, prometheus.CounterValue, float64(m.PaddingBytes))
	metrics <- prometheus.MustNewConstMetric(c.allocations, prometheus.CounterValue, float64(m.RegionAllocs), "region")
	metrics <- prometheus.MustNewConstMetric(c.allocations, prometheus.CounterValue, float64(m.HeapAllocs), "heap")
	metrics <- prometheus.MustNewConstMetric(c.deallocations, prometheus.CounterValue, float64(m.Reclaims), "reclaimed")
	metrics <- prometheus.MustNewConstMetric(c.deallocations, prometheus.CounterValue, float64(m.InteriorFrees), "interior")
	metrics <- prometheus.MustNewConstMetric(c.deallocations, prometheus.CounterValue, float64(m.HeapFrees), "heap")
}
