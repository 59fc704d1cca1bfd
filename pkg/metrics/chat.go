package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ChatMetrics tracks websocket connections and message fan-out.
type ChatMetrics struct {
	connected  prometheus.Gauge
	deliveries *prometheus.CounterVec
	dropped    prometheus.Counter
}

// NewChatMetrics registers the chat metrics on the provided registerer.
func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	if reg == nil {
		return &ChatMetrics{}
	}
	connected := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_connected_clients",
		Help: "Currently connected chat websocket clients.",
	})
	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_message_deliveries",
		Help: "Chat messages delivered to websocket clients.",
	}, []string{"direction"})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_dropped",
		Help: "Chat messages dropped due to slow clients.",
	})
	reg.MustRegister(connected, deliveries, dropped)
	return &ChatMetrics{
		connected:  connected,
		deliveries: deliveries,
		dropped:    dropped,
	}
}

// ClientConnected increments the connected client gauge.
func (c *ChatMetrics) ClientConnected() {
	if c == nil || c.connected == nil {
		return
	}
	c.connected.Inc()
}

// ClientDisconnected decrements the connected client gauge.
func (c *ChatMetrics) ClientDisconnected() {
	if c == nil || c.connected == nil {
		return
	}
	c.connected.Dec()
}

// IncDelivered records a delivered message, direction is "inbound" or "outbound".
func (c *ChatMetrics) IncDelivered(direction string) {
	if c == nil || c.deliveries == nil {
		return
	}
	c.deliveries.WithLabelValues(normalizeLabel(direction)).Inc()
}

// IncDropped records a message dropped because a client buffer was full.
func (c *ChatMetrics) IncDropped() {
	if c == nil || c.dropped == nil {
		return
	}
	c.dropped.Inc()
}
