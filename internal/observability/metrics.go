package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	apiRequestsTotal   *prometheus.CounterVec
	apiLatencySeconds  *prometheus.HistogramVec
	apiErrorsTotal     *prometheus.CounterVec
	bookingsTotal      *prometheus.CounterVec
	leadSubmissions    *prometheus.CounterVec
	slotReleasesTotal  *prometheus.CounterVec
	uploadLatencySecs  prometheus.Histogram
	uploadRejectsTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "melodia_api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "melodia_api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "melodia_api_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		bookingsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "melodia_bookings_total",
			Help: "Lesson booking attempts by outcome.",
		}, []string{"outcome"})

		leadSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "melodia_lead_submissions_total",
			Help: "Lead form submissions by outcome.",
		}, []string{"outcome"})

		slotReleasesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "melodia_slot_releases_total",
			Help: "Availability slot releases by outcome.",
		}, []string{"outcome"})

		uploadLatencySecs = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "melodia_upload_latency_seconds",
			Help:    "Latency distribution for course material uploads.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		})

		uploadRejectsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "melodia_upload_rejected_total",
			Help: "Course material uploads rejected during validation.",
		}, []string{"reason"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			bookingsTotal,
			leadSubmissions,
			slotReleasesTotal,
			uploadLatencySecs,
			uploadRejectsTotal,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// Bookings exposes the lesson booking outcome counter.
func Bookings() *prometheus.CounterVec {
	RegisterMetrics()
	return bookingsTotal
}

// LeadSubmissions exposes the lead submission outcome counter.
func LeadSubmissions() *prometheus.CounterVec {
	RegisterMetrics()
	return leadSubmissions
}

// SlotReleases exposes the slot release outcome counter.
func SlotReleases() *prometheus.CounterVec {
	RegisterMetrics()
	return slotReleasesTotal
}

// UploadLatency exposes the upload latency histogram.
func UploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return uploadLatencySecs
}

// UploadRejected exposes the upload rejection counter.
func UploadRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRejectsTotal
}
