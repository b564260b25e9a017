// Package events maintains the collected fork event history and emits
// newly seen events to the session router.
package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gabeln-jetzt/gabeln/internal/domain"
)

// Collector produces the current fork event list for all tracked users.
type Collector interface {
	Collect(ctx context.Context) ([]domain.ForkEvent, error)
}

// Manager holds the event history, serves snapshots to the HTTP surface,
// and delivers only newly seen events over its update channel.
type Manager struct {
	collector Collector
	logger    zerolog.Logger
	updates   chan domain.ForkEvent

	mu     sync.RWMutex
	events []domain.ForkEvent
	known  map[string]struct{}
}

// NewManager creates a new event manager
func NewManager(collector Collector, logger zerolog.Logger) *Manager {
	return &Manager{
		collector: collector,
		logger:    logger,
		updates:   make(chan domain.ForkEvent, 256),
		known:     make(map[string]struct{}),
	}
}

// Bootstrap performs the initial collection. It sets the baseline without
// emitting anything: history present before startup is never broadcast.
func (m *Manager) Bootstrap(ctx context.Context) error {
	collected, err := m.collector.Collect(ctx)
	if err != nil {
		return fmt.Errorf("failed to bootstrap fork events: %w", err)
	}

	m.mu.Lock()
	m.events = collected
	for _, event := range collected {
		m.known[event.ID] = struct{}{}
	}
	m.mu.Unlock()

	m.logger.Info().Int("events", len(collected)).Msg("Fork event history loaded")

	return nil
}

// Refresh re-collects events and emits the ones not seen before.
func (m *Manager) Refresh(ctx context.Context) error {
	collected, err := m.collector.Collect(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh fork events: %w", err)
	}

	m.mu.Lock()
	var fresh []domain.ForkEvent
	for _, event := range collected {
		if _, seen := m.known[event.ID]; seen {
			continue
		}
		m.known[event.ID] = struct{}{}
		m.events = append(m.events, event)
		fresh = append(fresh, event)
	}
	m.mu.Unlock()

	// Emit outside the lock; the channel is buffered generously but a
	// stalled consumer must not stall readers of the snapshot.
	for _, event := range fresh {
		select {
		case m.updates <- event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if len(fresh) > 0 {
		m.logger.Info().Int("new_events", len(fresh)).Msg("New fork events collected")
	}

	return nil
}

// Snapshot returns a copy of the full event history, oldest first.
func (m *Manager) Snapshot() []domain.ForkEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.ForkEvent, len(m.events))
	copy(out, m.events)
	return out
}

// Updates returns the stream of newly seen fork events.
func (m *Manager) Updates() <-chan domain.ForkEvent {
	return m.updates
}
