package inventory

import (
	"context"
	"log/slog"
	"time"

	"github.com/okonkwolabs/kasuwa/internal/notify"
	"github.com/okonkwolabs/kasuwa/internal/task"
	"github.com/okonkwolabs/kasuwa/internal/telemetry"
)

// LowStockThreshold is the level at or below which an item is flagged.
const LowStockThreshold = 5

// Monitor periodically refreshes the simulator and reports low stock
// and price drops.
type Monitor struct {
	sim      *Simulator
	notifier notify.Notifier
	logger   *slog.Logger
	interval time.Duration
}

// NewMonitor creates a stock monitor over the simulator.
func NewMonitor(sim *Simulator, notifier notify.Notifier, logger *slog.Logger, interval time.Duration) *Monitor {
	return &Monitor{
		sim:      sim,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "inventory_monitor")),
		interval: interval,
	}
}

// Start schedules the refresh loop and returns its handle. The caller
// owns the handle and stops the loop by cancelling it.
func (m *Monitor) Start(ctx context.Context) *task.Handle {
	m.logger.Info("starting inventory monitor", slog.Duration("interval", m.interval))
	return task.Every(ctx, m.interval, m.sweep)
}

func (m *Monitor) sweep(ctx context.Context) {
	drops := m.sim.Refresh(ctx)
	for _, d := range drops {
		m.logger.Info("price drop started",
			slog.String("item_id", d.ItemID),
			slog.Int("percent", d.Percent))
		m.publish(ctx, notify.Event{
			Kind:       notify.EventPriceDrop,
			OccurredAt: time.Now(),
			Fields:     map[string]any{"item_id": d.ItemID, "percent": d.Percent},
		})
	}

	var lowIDs []string
	for id, level := range m.sim.Levels() {
		if level <= LowStockThreshold {
			lowIDs = append(lowIDs, id)
			m.logger.Warn("low stock",
				slog.String("item_id", id),
				slog.Int("level", level))
		}
	}
	if len(lowIDs) > 0 {
		m.publish(ctx, notify.Event{
			Kind:       notify.EventLowStock,
			OccurredAt: time.Now(),
			Fields:     map[string]any{"item_ids": lowIDs},
		})
	}
	telemetry.Business.SetLowStockItems(len(lowIDs))
}

func (m *Monitor) publish(ctx context.Context, event notify.Event) {
	if m.notifier == nil {
		return
	}
	if err := m.notifier.Publish(ctx, event); err != nil {
		m.logger.Warn("notice publish failed",
			slog.String("kind", event.Kind),
			slog.String("error", err.Error()))
	}
}
