package monitor

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taskdeck/backend/internal/infrastructure/prefstore"
	"github.com/taskdeck/backend/store"
)

// Monitor periodically samples the health of the service's two stateful
// pieces: the durable preference store and the in-memory task collection.
// The health endpoint reads the last sample instead of probing inline.
type Monitor struct {
	prefs *prefstore.Store
	tasks *store.Store

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	logger   *zap.Logger
}

func New(prefs *prefstore.Store, tasks *store.Store, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		prefs:    prefs,
		tasks:    tasks,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	close(m.stopCh)
}

func (m *Monitor) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Preferences
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.refresh()
	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	status := Status{
		Preferences: m.checkPrefs(),
		LastCheck:   time.Now(),
	}
	if m.tasks != nil {
		status.TaskCount = m.tasks.Len()
		status.Version = m.tasks.Version()
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}

func (m *Monitor) checkPrefs() bool {
	if m.prefs == nil {
		return false
	}
	if err := m.prefs.Ping(); err != nil {
		m.logger.Warn("preference store check failed", zap.Error(err))
		return false
	}
	return true
}
