package session

import "github.com/prometheus/client_golang/prometheus"

// Collector exposes a session's snapshot as Prometheus metrics. It is
// read-only: every scrape takes one snapshot, so the scrape never
// tears a half-updated view.
type Collector struct {
	s *Session

	state           *prometheus.Desc
	packetsSent     *prometheus.Desc
	packetsReceived *prometheus.Desc
	discarded       *prometheus.Desc
	lastLatency     *prometheus.Desc
	avgLatency      *prometheus.Desc
}

// NewCollector creates a collector for s. Register it with a
// prometheus.Registerer to expose it.
func NewCollector(s *Session) *Collector {
	return &Collector{
		s: s,
		state: prometheus.NewDesc("poselink_session_state",
			"Session lifecycle state (0 disconnected, 1 connecting, 2 connected, 3 failed)", nil, nil),
		packetsSent: prometheus.NewDesc("poselink_session_packets_sent_total",
			"Pose packets sent over the data channel", nil, nil),
		packetsReceived: prometheus.NewDesc("poselink_session_packets_received_total",
			"Pose packets received and decoded", nil, nil),
		discarded: prometheus.NewDesc("poselink_session_packets_discarded_total",
			"Inbound buffers dropped because they failed to decode", nil, nil),
		lastLatency: prometheus.NewDesc("poselink_session_last_latency_ms",
			"Latency of the most recent received packet in milliseconds", nil, nil),
		avgLatency: prometheus.NewDesc("poselink_session_avg_latency_ms",
			"Mean latency over the trailing window in milliseconds", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.state
	ch <- c.packetsSent
	ch <- c.packetsReceived
	ch <- c.discarded
	ch <- c.lastLatency
	ch <- c.avgLatency
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.s.Snapshot()

	ch <- prometheus.MustNewConstMetric(c.state, prometheus.GaugeValue, float64(snap.State))
	ch <- prometheus.MustNewConstMetric(c.packetsSent, prometheus.CounterValue, float64(snap.Stats.PacketsSent))
	ch <- prometheus.MustNewConstMetric(c.packetsReceived, prometheus.CounterValue, float64(snap.Stats.PacketsReceived))
	ch <- prometheus.MustNewConstMetric(c.discarded, prometheus.CounterValue, float64(snap.Stats.Discarded))
	if snap.Stats.HasLatency {
		ch <- prometheus.MustNewConstMetric(c.lastLatency, prometheus.GaugeValue, snap.Stats.LastLatencyMS)
		ch <- prometheus.MustNewConstMetric(c.avgLatency, prometheus.GaugeValue, snap.Stats.AvgLatencyMS)
	}
}
