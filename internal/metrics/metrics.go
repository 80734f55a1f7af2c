// Package metrics exposes rotation outcomes as Prometheus series.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coldstore/snapkeeper/internal/logging"
	"github.com/coldstore/snapkeeper/internal/rotation"
)

type Metrics struct {
	runs           *prometheus.CounterVec
	kept           *prometheus.GaugeVec
	deleted        *prometheus.CounterVec
	deleteFailures *prometheus.CounterVec
	volumeFailures *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "snapkeeper_runs_total",
			Help: "Rotation runs by overall result.",
		}, []string{"result"}),
		kept: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "snapkeeper_snapshots_kept",
			Help: "Snapshots retained by the last rotation, per volume.",
		}, []string{"volume"}),
		deleted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "snapkeeper_snapshots_deleted_total",
			Help: "Snapshots deleted, per volume.",
		}, []string{"volume"}),
		deleteFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "snapkeeper_delete_failures_total",
			Help: "Snapshot deletions that failed, per volume.",
		}, []string{"volume"}),
		volumeFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "snapkeeper_volume_failures_total",
			Help: "Volumes that never reached done, per volume and reason.",
		}, []string{"volume", "reason"}),
	}
}

// Observe records one rotation report.
func (m *Metrics) Observe(rep rotation.Report) {
	result := "ok"
	if !rep.OverallOk() {
		result = "failed"
	}
	m.runs.WithLabelValues(result).Inc()

	for _, v := range rep.Volumes {
		if v.Failed {
			m.volumeFailures.WithLabelValues(v.Volume, v.FailureReason).Inc()
			continue
		}
		m.kept.WithLabelValues(v.Volume).Set(float64(len(v.Kept)))
		m.deleted.WithLabelValues(v.Volume).Add(float64(len(v.Deleted)))
		m.deleteFailures.WithLabelValues(v.Volume).Add(float64(len(v.FailedDeletions)))
	}
}

// Serve exposes g under /metrics on addr until ctx ends.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, log logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("metrics listener started", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("metrics listener failed", "error", err)
	}
}
