// services/monitoring.go
package services

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const (
	MONITORING_SVC          = "monitoring_svc"
	SERVICE_NAME            = "nissekomm_backend"
	DEFAULT_PROMETHEUS_PORT = 2112
)

// Progression metrics
var (
	codeSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nissekomm_code_submissions_total",
			Help: "Mission code submissions by outcome",
		},
		[]string{"outcome"},
	)

	decryptionAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nissekomm_decryption_attempts_total",
			Help: "Decryption attempts by outcome",
		},
		[]string{"outcome"},
	)

	badgesAwardedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nissekomm_badges_awarded_total",
			Help: "Badges awarded by badge id",
		},
		[]string{"badge_id"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// MonitoringService exposes Prometheus metrics on a dedicated port.
type MonitoringService struct {
	context.DefaultService

	port     int
	registry *prometheus.Registry
	server   *http.Server
}

func (svc MonitoringService) Id() string {
	return MONITORING_SVC
}

func (svc *MonitoringService) Configure(ctx *context.Context) error {
	svc.port = DEFAULT_PROMETHEUS_PORT
	if port := os.Getenv("PROMETHEUS_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	}

	svc.registry = prometheus.NewRegistry()
	svc.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		codeSubmissionsTotal,
		decryptionAttemptsTotal,
		badgesAwardedTotal,
		httpRequestsTotal,
	)

	return svc.DefaultService.Configure(ctx)
}

func (svc *MonitoringService) Start() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(svc.registry, promhttp.HandlerOpts{}))

	svc.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", svc.port),
		Handler: mux,
	}

	go func() {
		log.WithField("port", svc.port).Info("Prometheus metrics listening")
		if err := svc.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Metrics server stopped")
		}
	}()

	return nil
}

func (svc *MonitoringService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Close()
	}
}

// CountRequest records one handled HTTP request.
func CountRequest(endpoint, method string, status int) {
	httpRequestsTotal.WithLabelValues(endpoint, method, strconv.Itoa(status)).Inc()
}
