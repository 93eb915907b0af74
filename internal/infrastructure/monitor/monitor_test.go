package monitor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakePinger struct {
	mu    sync.Mutex
	err   error
	calls atomic.Int32
}

func (p *fakePinger) Ping(ctx context.Context) error {
	p.calls.Add(1)
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *fakePinger) fail(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

func TestRefreshTracksStoreState(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	pinger := &fakePinger{}
	m := New(pinger, "bolt", time.Minute, zap.New(core))

	m.Refresh()
	status := m.GetStatus()
	assert.True(t, status.Online)
	assert.Equal(t, "bolt", status.Driver)
	assert.Empty(t, status.Error)
	assert.False(t, status.LastCheck.IsZero())

	pinger.fail(errors.New("dial tcp: connection refused"))
	m.Refresh()
	assert.False(t, m.IsOnline())
	assert.Equal(t, "dial tcp: connection refused", m.GetStatus().Error)
	assert.Equal(t, 1, logs.FilterMessage("task store unreachable").Len())

	pinger.fail(nil)
	m.Refresh()
	assert.Equal(t, 1, logs.FilterMessage("task store reachable again").Len())
}

func TestMissingStoreIsOffline(t *testing.T) {
	m := New(nil, "mongo", 0, nil)
	m.Refresh()
	assert.False(t, m.IsOnline())
	assert.Equal(t, "store not configured", m.GetStatus().Error)
}

func TestStartProbesImmediately(t *testing.T) {
	pinger := &fakePinger{}
	m := New(pinger, "postgres", time.Hour, nil)

	m.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	m.Stop(ctx)

	assert.Equal(t, int32(1), pinger.calls.Load())
	assert.True(t, m.IsOnline())
}

func TestFirstProbeFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	pinger := &fakePinger{}
	pinger.fail(errors.New("server selection timeout"))
	m := New(pinger, "mongo", time.Minute, zap.New(core))

	m.Refresh()
	assert.False(t, m.IsOnline())
	assert.Equal(t, 1, logs.FilterMessage("task store unreachable").Len())

	m.Refresh()
	assert.Equal(t, 1, logs.FilterMessage("task store unreachable").Len())
}

func TestNewSchedulesProbe(t *testing.T) {
	m := New(&fakePinger{}, "bolt", 30*time.Second, nil)

	entries := m.cron.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, cron.ConstantDelaySchedule{Delay: 30 * time.Second}, entries[0].Schedule)

	fallback := New(&fakePinger{}, "bolt", 0, nil)
	require.Len(t, fallback.cron.Entries(), 1)
	assert.Equal(t, cron.ConstantDelaySchedule{Delay: 10 * time.Second}, fallback.cron.Entries()[0].Schedule)
}
