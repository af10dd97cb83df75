package eventbus

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterMetrics экспортирует счётчики шины в reg. Значения читаются
// из bus.Metrics() в момент сбора, name различает несколько шин.
func RegisterMetrics(reg prometheus.Registerer, name string, bus EventBus) error {
	labels := prometheus.Labels{"bus": name}
	collectors := []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   "eventbus",
			Name:        "messages_published_total",
			Help:        "Общее число опубликованных сообщений.",
			ConstLabels: labels,
		}, func() float64 { return float64(bus.Metrics().Published) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   "eventbus",
			Name:        "messages_consumed_total",
			Help:        "Общее число доставленных сообщений подписчикам.",
			ConstLabels: labels,
		}, func() float64 { return float64(bus.Metrics().Consumed) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   "eventbus",
			Name:        "messages_dropped_total",
			Help:        "Сообщений, отброшенных из-за ошибок или ограничения back-pressure.",
			ConstLabels: labels,
		}, func() float64 { return float64(bus.Metrics().Dropped) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   "eventbus",
			Name:        "messages_inflight",
			Help:        "Количество сообщений, находящихся в очереди (не доставленных).",
			ConstLabels: labels,
		}, func() float64 { return float64(bus.Metrics().InFlight) }),
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
