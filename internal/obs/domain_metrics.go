package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// OrdersCreatedTotal counts checkout outcomes by currency.
	OrdersCreatedTotal *prometheus.CounterVec
	// OrderNumberRetries counts order number collisions resolved by retry.
	OrderNumberRetries prometheus.Counter
	// LicensesIssuedTotal counts issued rental licenses by kind and class.
	LicensesIssuedTotal *prometheus.CounterVec
	// LicenseVerifyTotal counts digital access verification outcomes.
	LicenseVerifyTotal *prometheus.CounterVec
	// LicensesExpiredTotal counts licenses closed by the expiry sweep.
	LicensesExpiredTotal prometheus.Counter
	// PaymentWebhookTotal counts inbound payment webhook processing outcomes.
	PaymentWebhookTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		OrdersCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Count of checkout outcomes by currency and result.",
		}, []string{"currency", "result"})
		OrderNumberRetries = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_number_retries_total",
			Help:      "Number of order number collisions resolved by retrying.",
		})
		LicensesIssuedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "licenses_issued_total",
			Help:      "Count of issued rental licenses by kind and rental class.",
		}, []string{"kind", "class"})
		LicenseVerifyTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "license_verify_total",
			Help:      "Count of digital access verification outcomes.",
		}, []string{"result"})
		LicensesExpiredTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "licenses_expired_total",
			Help:      "Number of licenses closed by the expiry sweep.",
		})
		PaymentWebhookTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_webhook_total",
			Help:      "Count of processed payment webhooks by outcome.",
		}, []string{"result"})

		mustRegisterCollector(reg, OrdersCreatedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				OrdersCreatedTotal = v
			}
		})
		mustRegisterCollector(reg, OrderNumberRetries, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				OrderNumberRetries = v
			}
		})
		mustRegisterCollector(reg, LicensesIssuedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				LicensesIssuedTotal = v
			}
		})
		mustRegisterCollector(reg, LicenseVerifyTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				LicenseVerifyTotal = v
			}
		})
		mustRegisterCollector(reg, LicensesExpiredTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				LicensesExpiredTotal = v
			}
		})
		mustRegisterCollector(reg, PaymentWebhookTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PaymentWebhookTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
