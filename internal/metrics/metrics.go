// Package metrics collects Prometheus metrics for the HTTP API and the auth flows.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the services and the router report to.
type Recorder interface {
	RecordRequest(method, route string, status int, duration time.Duration)
	RecordLogin(result string)
	RecordOTPCreated()
	RecordOTPVerification(result string)
}

// Login results.
const (
	LoginSuccess         = "success"
	LoginNotFound        = "not_found"
	LoginInvalidPassword = "invalid_password"
)

// OTP verification results.
const (
	OTPSuccess  = "success"
	OTPMissing  = "missing"
	OTPMismatch = "mismatch"
)

type Collector struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	logins          *prometheus.CounterVec
	otpCreated      prometheus.Counter
	otpVerified     *prometheus.CounterVec
}

// NewCollector creates the metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todo_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "todo_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todo_auth_logins_total",
			Help: "Log-in attempts by result.",
		}, []string{"result"}),
		otpCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todo_otp_created_total",
			Help: "OTP codes generated.",
		}),
		otpVerified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todo_otp_verifications_total",
			Help: "OTP verification attempts by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.requests,
		c.requestDuration,
		c.logins,
		c.otpCreated,
		c.otpVerified,
	)

	return c
}

func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordLogin(result string) {
	c.logins.WithLabelValues(result).Inc()
}

func (c *Collector) RecordOTPCreated() {
	c.otpCreated.Inc()
}

func (c *Collector) RecordOTPVerification(result string) {
	c.otpVerified.WithLabelValues(result).Inc()
}

// Handler serves the Prometheus scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything. Used when metrics are not wired, e.g. in tests.
type Nop struct{}

func (Nop) RecordRequest(string, string, int, time.Duration) {}
func (Nop) RecordLogin(string)                              {}
func (Nop) RecordOTPCreated()                               {}
func (Nop) RecordOTPVerification(string)                    {}
