package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Pinger is satisfied by every task store backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor periodically probes the task store and caches the result for the
// health endpoint.
type Monitor struct {
	store  Pinger
	driver string

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
}

func New(store Pinger, driver string, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval < time.Second {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Monitor{
		store:    store,
		driver:   driver,
		interval: interval,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger,
	}

	m.cron.Schedule(cron.Every(interval), cron.FuncJob(m.Refresh))
	return m
}

// Start probes once and then launches the scheduler.
func (m *Monitor) Start() {
	m.Refresh()
	m.cron.Start()
}

// Stop waits for a running probe to finish or ctx to expire.
func (m *Monitor) Stop(ctx context.Context) {
	stopCtx := m.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Online
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Refresh pings the store synchronously and records the outcome.
func (m *Monitor) Refresh() {
	status := Status{Driver: m.driver, LastCheck: time.Now().UTC()}

	if m.store == nil {
		status.Error = "store not configured"
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := m.store.Ping(ctx)
		cancel()
		if err != nil {
			status.Error = err.Error()
		} else {
			status.Online = true
		}
	}

	m.mu.Lock()
	wasOnline := m.status.Online
	first := m.status.LastCheck.IsZero()
	m.status = status
	m.mu.Unlock()

	if (first || wasOnline) && !status.Online {
		m.logger.Warn("task store unreachable", zap.String("driver", m.driver), zap.String("error", status.Error))
	}
	if !first && !wasOnline && status.Online {
		m.logger.Info("task store reachable again", zap.String("driver", m.driver))
	}
}
