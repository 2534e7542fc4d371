package store

import (
	"context"
	"sync"
	"time"

	"quarters/internal/domain"
)

// Memory keeps preferences in process. Used when no database is configured;
// choices are lost on restart.
type Memory struct {
	mu    sync.RWMutex
	prefs map[string]domain.Preference
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{prefs: make(map[string]domain.Preference), now: time.Now}
}

func (m *Memory) GetPreference(_ context.Context, visitorID string) (domain.Preference, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pref, ok := m.prefs[visitorID]
	if !ok {
		return domain.Preference{}, ErrNotFound
	}
	return pref, nil
}

func (m *Memory) SavePreference(_ context.Context, input PreferenceInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	pref, ok := m.prefs[input.VisitorID]
	if !ok {
		pref = domain.Preference{VisitorID: input.VisitorID, CreatedAt: now}
	}
	pref.Timezone = input.Timezone
	pref.UpdatedAt = now
	m.prefs[input.VisitorID] = pref
	return nil
}

func (m *Memory) DeletePreference(_ context.Context, visitorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.prefs[visitorID]; !ok {
		return ErrNotFound
	}
	delete(m.prefs, visitorID)
	return nil
}
