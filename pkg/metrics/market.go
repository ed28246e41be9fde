package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "flea_market"

// Market holds the marketplace collectors. A nil *Market is valid and
// records nothing.
type Market struct {
	offersActive    *prometheus.GaugeVec
	offersExpired   *prometheus.CounterVec
	offersGenerated prometheus.Counter
	purchases       *prometheus.CounterVec
	taxCollected    prometheus.Counter
	updateDuration  prometheus.Histogram
}

func NewMarket(reg prometheus.Registerer) *Market {
	f := promauto.With(reg)

	return &Market{
		offersActive: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "offers_active",
			Help:      "Offers currently listed, by seller type.",
		}, []string{"seller_type"}),
		offersExpired: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_expired_total",
			Help:      "Offers removed by the scheduler because they went stale.",
		}, []string{"seller_type"}),
		offersGenerated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_generated_total",
			Help:      "Dynamic offers created by the generator.",
		}),
		purchases: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_total",
			Help:      "Completed purchases, by seller type.",
		}, []string{"seller_type"}),
		taxCollected: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tax_collected_roubles_total",
			Help:      "Listing and extension fees charged to players.",
		}),
		updateDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scheduler_update_duration_seconds",
			Help:      "Duration of a scheduler tick.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Market) SetActive(sellerType string, n int) {
	if m == nil {
		return
	}

	m.offersActive.WithLabelValues(sellerType).Set(float64(n))
}

func (m *Market) IncExpired(sellerType string) {
	if m == nil {
		return
	}

	m.offersExpired.WithLabelValues(sellerType).Inc()
}

func (m *Market) AddGenerated(n int) {
	if m == nil || n <= 0 {
		return
	}

	m.offersGenerated.Add(float64(n))
}

func (m *Market) IncPurchase(sellerType string) {
	if m == nil {
		return
	}

	m.purchases.WithLabelValues(sellerType).Inc()
}

func (m *Market) AddTax(roubles int64) {
	if m == nil || roubles <= 0 {
		return
	}

	m.taxCollected.Add(float64(roubles))
}

func (m *Market) ObserveUpdate(d time.Duration) {
	if m == nil {
		return
	}

	m.updateDuration.Observe(d.Seconds())
}
