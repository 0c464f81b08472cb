package clock

import (
	"github.com/prometheus/client_golang/prometheus"
)

type ntpCollector struct {
	clock *NTPClock

	offsetSeconds   *prometheus.Desc
	lastSyncSeconds *prometheus.Desc
	healthy         *prometheus.Desc
}

func (c *ntpCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.offsetSeconds
	ch <- c.lastSyncSeconds
	ch <- c.healthy
}

func (c *ntpCollector) Collect(ch chan<- prometheus.Metric) {
	h := c.clock.Health()
	ch <- prometheus.MustNewConstMetric(c.offsetSeconds, prometheus.GaugeValue, h.Offset.Seconds())

	var lastSync float64
	if !h.LastSync.IsZero() {
		lastSync = float64(h.LastSync.Unix())
	}
	ch <- prometheus.MustNewConstMetric(c.lastSyncSeconds, prometheus.GaugeValue, lastSync)

	var healthy float64
	if h.Healthy {
		healthy = 1
	}
	ch <- prometheus.MustNewConstMetric(c.healthy, prometheus.GaugeValue, healthy)
}

// RegisterMetrics registers gauges describing c with reg.
func RegisterMetrics(reg prometheus.Registerer, c *NTPClock) error {
	return reg.Register(&ntpCollector{
		clock: c,
		offsetSeconds: prometheus.NewDesc(
			"koyomi_clock_offset_seconds",
			"Positive means the local clock is behind NTP time",
			nil, nil,
		),
		lastSyncSeconds: prometheus.NewDesc(
			"koyomi_clock_last_sync_unix",
			"Last successful NTP sync as a Unix timestamp",
			nil, nil,
		),
		healthy: prometheus.NewDesc(
			"koyomi_clock_healthy",
			"1 if the NTP clock is healthy, otherwise 0",
			nil, nil,
		),
	})
}
