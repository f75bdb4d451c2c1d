package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// BookingsTotal counts booking attempts by outcome.
	BookingsTotal *prometheus.CounterVec
	// BookingRevenueCentavos accumulates recorded booking totals.
	BookingRevenueCentavos prometheus.Counter
	// AvailabilityUpdatesTotal counts fleet availability flag changes by target state.
	AvailabilityUpdatesTotal *prometheus.CounterVec
	// MessagesTotal counts submitted customer messages.
	MessagesTotal prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		BookingsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_total",
			Help:      "Count of booking attempts by outcome.",
		}, []string{"result"})
		BookingRevenueCentavos = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_revenue_centavos_total",
			Help:      "Sum of recorded booking totals in centavos.",
		})
		AvailabilityUpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fleet_availability_updates_total",
			Help:      "Count of fleet availability updates by target state.",
		}, []string{"state"})
		MessagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "customer_messages_total",
			Help:      "Count of submitted customer messages.",
		})

		mustRegisterCollector(reg, BookingsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				BookingsTotal = v
			}
		})
		mustRegisterCollector(reg, BookingRevenueCentavos, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				BookingRevenueCentavos = v
			}
		})
		mustRegisterCollector(reg, AvailabilityUpdatesTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				AvailabilityUpdatesTotal = v
			}
		})
		mustRegisterCollector(reg, MessagesTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				MessagesTotal = v
			}
		})
	})
}
