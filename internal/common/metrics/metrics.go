// Package metrics holds the Prometheus collectors for phone verification.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// OTPIssued counts Issue calls by outcome code ("ok", "delivery_failed", ...)
	OTPIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codekick",
		Name:      "otp_issue_total",
		Help:      "Phone OTP issuance attempts by result.",
	}, []string{"result"})

	// OTPVerified counts Verify calls by outcome code
	OTPVerified = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codekick",
		Name:      "otp_verify_total",
		Help:      "Phone OTP verification attempts by result.",
	}, []string{"result"})

	// ProfileSyncFailures counts successful verifications whose profile update failed
	ProfileSyncFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "codekick",
		Name:      "otp_profile_sync_failures_total",
		Help:      "Verified OTPs whose profile phone_verified update failed.",
	})
)

// Handler exposes the default registry for GET /metrics
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
