package capture

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Manager tracks the open capture devices of an application, providing
// open/remove/list operations keyed by device identity.
type Manager struct {
	log     *slog.Logger
	mu      sync.RWMutex
	devices map[uuid.UUID]*Device
}

// NewManager creates a device manager. If log is nil, slog.Default() is used.
func NewManager(log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		log:     log.With("component", "device-manager"),
		devices: make(map[uuid.UUID]*Device),
	}
}

// Open creates a device over the given backend and registers it.
func (m *Manager) Open(backend Backend) *Device {
	d := NewDevice(backend, m.log)

	m.mu.Lock()
	m.devices[d.ID()] = d
	m.mu.Unlock()

	m.log.Info("device registered", "device", d.ID().String())
	return d
}

// Remove drops a device from the manager. It does not dispose the device.
func (m *Manager) Remove(id uuid.UUID) {
	m.mu.Lock()
	_, ok := m.devices[id]
	if ok {
		delete(m.devices, id)
	}
	m.mu.Unlock()

	if ok {
		m.log.Info("device removed", "device", id.String())
	}
}

// Get returns the device with the given identity, or false if not tracked.
func (m *Manager) Get(id uuid.UUID) (*Device, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.devices[id]
	return d, ok
}

// List returns all tracked devices.
func (m *Manager) List() []*Device {
	m.mu.RLock()
	defer m.mu.RUnlock()

	devices := make([]*Device, 0, len(m.devices))
	for _, d := range m.devices {
		devices = append(devices, d)
	}
	return devices
}

// DisposeAll disposes every tracked device concurrently and removes them,
// returning the first disposal error encountered.
func (m *Manager) DisposeAll(ctx context.Context) error {
	devices := m.List()

	var g errgroup.Group
	for _, d := range devices {
		d := d
		g.Go(func() error {
			return d.Dispose(ctx)
		})
	}
	err := g.Wait()

	for _, d := range devices {
		m.Remove(d.ID())
	}
	return err
}
