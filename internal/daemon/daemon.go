// Package daemon schedules rotation runs and executes them one at a time.
// Cron fires a trigger, the gate decides whether the run may proceed, and a
// single-slot mailbox collapses overlapping triggers so at most one rotation
// runs per volume at any moment.
package daemon

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/coldstore/snapkeeper/internal/config"
	"github.com/coldstore/snapkeeper/internal/gate"
	"github.com/coldstore/snapkeeper/internal/logging"
	"github.com/coldstore/snapkeeper/internal/mailbox"
	"github.com/coldstore/snapkeeper/internal/metrics"
	"github.com/coldstore/snapkeeper/internal/rotation"
)

// Trigger is one request to run a rotation.
type Trigger struct {
	At time.Time
}

type Daemon struct {
	mu     sync.RWMutex
	cfg    *config.Config
	log    logging.Logger
	runner *rotation.Runner
	mb     *mailbox.Mailbox[Trigger]
	reg    *prometheus.Registry
	met    *metrics.Metrics
}

func New(cfg *config.Config, log logging.Logger) *Daemon {
	reg := prometheus.NewRegistry()
	return &Daemon{
		cfg:    cfg,
		log:    log,
		runner: rotation.New(log),
		mb:     mailbox.New[Trigger](),
		reg:    reg,
		met:    metrics.New(reg),
	}
}

// UpdateConfig hot-reloads the configuration; the next trigger uses it.
func (d *Daemon) UpdateConfig(cfg *config.Config) {
	d.mu.Lock()
	d.cfg = cfg
	d.mu.Unlock()
	d.log.Info("config reloaded")
}

// Run starts the cron schedule and processes triggers until ctx ends.
func (d *Daemon) Run(ctx context.Context) error {
	d.mu.RLock()
	schedule := d.cfg.Schedule.Cron
	listen := d.cfg.Metrics.Listen
	d.mu.RUnlock()

	if schedule == "" {
		return fmt.Errorf("daemon mode needs schedule.cron in the config")
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		d.mb.Put(Trigger{At: time.Now()})
	}); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	c.Start()
	defer c.Stop()

	if listen != "" {
		go metrics.Serve(ctx, listen, d.reg, d.log)
	}

	d.log.Info("daemon started", "schedule", schedule)
	for {
		trig, ok := d.mb.Take(ctx)
		if !ok {
			d.log.Info("daemon stopped")
			return nil
		}
		d.runOnce(ctx, trig)
	}
}

func (d *Daemon) runOnce(ctx context.Context, trig Trigger) {
	d.mu.RLock()
	cfg := d.cfg
	d.mu.RUnlock()

	d.log.Info("rotation triggered", "at", trig.At)

	g := gate.New(cfg.Gate, d.log)
	if err := g.Wait(ctx); err != nil {
		d.log.Warn("stopped waiting for transfer marker", "error", err)
		return
	}
	if ok, reason := g.Check(cfg.Volumes); !ok {
		d.log.Warn("rotation skipped", "reason", reason)
		return
	}

	rep, err := d.runner.Rotate(ctx, cfg.Volumes, cfg.Policy, time.Now())
	if err != nil {
		d.log.Error("rotation aborted", "error", err)
		return
	}
	d.met.Observe(rep)
	g.Consume()

	if rep.OverallOk() {
		d.log.Info("rotation complete", "summary", rep.Summary())
	} else {
		d.log.Error("rotation finished with failures", "summary", rep.Summary())
	}
}
