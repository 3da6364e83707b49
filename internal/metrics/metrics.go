// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// PaymentsCompleted counts payments that reached the completed state
	// after provider verification.
	PaymentsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payments_completed_total",
		Help: "Count of payments verified and marked completed",
	})

	// CouponsRedeemed counts successful coupon redemptions.
	CouponsRedeemed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coupons_redeemed_total",
		Help: "Count of coupons redeemed",
	})

	// PremiumRevoked counts accounts downgraded by the expiry sweeper.
	PremiumRevoked = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "premium_revoked_total",
		Help: "Count of premium accounts downgraded after expiry",
	})

	// MailJobsPublished counts mail jobs handed to the broker.
	MailJobsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mail_jobs_published_total",
		Help: "Count of mail jobs published to the outbound queue",
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(PaymentsCompleted, CouponsRedeemed, PremiumRevoked, MailJobsPublished)
}
