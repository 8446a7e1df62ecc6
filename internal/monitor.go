package internal

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"riesgopais/internal/domain"
	"riesgopais/internal/risk"
)

// ReadingService produces the current country-risk reading.
type ReadingService interface {
	CurrentReading(ctx context.Context) (domain.RiskReading, error)
}

// ReadingAppender records readings for the dashboard stream.
type ReadingAppender interface {
	Append(reading domain.RiskReading) error
}

// Monitor drives the periodic refresh: every interval it computes a reading
// and appends it to the session store. The core never schedules itself; all
// refresh timing lives here.
type Monitor struct {
	service           ReadingService
	store             ReadingAppender
	interval          time.Duration
	alertThresholdBps float64
}

// NewMonitor creates a monitor instance.
func NewMonitor(service ReadingService, store ReadingAppender, interval time.Duration, alertThresholdBps float64) *Monitor {
	return &Monitor{
		service:           service,
		store:             store,
		interval:          interval,
		alertThresholdBps: alertThresholdBps,
	}
}

// Run executes the refresh loop until ctx is cancelled. An unavailable
// reading is logged and skipped; the next tick retries for real.
func (m *Monitor) Run(ctx context.Context, logger *zap.Logger) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	logger.Info("starting risk monitor", zap.Duration("interval", m.interval))

	// first reading immediately so the dashboard is not empty for a tick
	m.refresh(ctx, logger)

	for {
		select {
		case <-ctx.Done():
			logger.Info("context done, stopping risk monitor")
			return ctx.Err()
		case <-ticker.C:
			m.refresh(ctx, logger)
		}
	}
}

func (m *Monitor) refresh(ctx context.Context, logger *zap.Logger) {
	reading, err := m.service.CurrentReading(ctx)
	if err != nil {
		if errors.Is(err, risk.ErrUnavailable) {
			logger.Warn("no reading this tick", zap.Error(err))
		} else {
			logger.Error("reading failed", zap.Error(err))
		}
		return
	}

	if err := m.store.Append(reading); err != nil {
		logger.Error("failed to persist reading", zap.Error(err))
	}

	if m.alertThresholdBps > 0 && reading.SpreadBps >= m.alertThresholdBps {
		logger.Warn("spread above alert threshold",
			zap.Float64("spread_bps", reading.SpreadBps),
			zap.Float64("threshold_bps", m.alertThresholdBps))
	}
}
