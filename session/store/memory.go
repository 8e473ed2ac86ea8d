// Package store provides session.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/overtime-engine/engine"
	"github.com/warp/overtime-engine/session"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	records  map[string]session.Record
	byWorker map[string][]string // insertion order
}

func NewMemory() *Memory {
	return &Memory{
		records:  make(map[string]session.Record),
		byWorker: make(map[string][]string),
	}
}

var _ session.Store = (*Memory)(nil)

func (m *Memory) Insert(_ context.Context, r session.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.ID] = r
	m.byWorker[r.WorkerID] = append(m.byWorker[r.WorkerID], r.ID)
	return nil
}

func (m *Memory) Update(_ context.Context, r session.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[r.ID]; !ok {
		return session.ErrSessionNotFound
	}
	m.records[r.ID] = r
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (session.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[id]
	if !ok {
		return session.Record{}, session.ErrSessionNotFound
	}
	return r, nil
}

func (m *Memory) Open(_ context.Context, workerID string) (*session.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.byWorker[workerID] {
		r := m.records[id]
		if !r.Completed() {
			copied := r
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *Memory) CompletedOn(_ context.Context, workerID string, day time.Time) ([]session.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key := engine.DayKey(day)
	var result []session.Record
	for _, id := range m.byWorker[workerID] {
		r := m.records[id]
		if r.Completed() && r.DayKey() == key {
			result = append(result, r)
		}
	}
	sortByClockIn(result)
	return result, nil
}

func (m *Memory) ListRange(_ context.Context, workerID string, from, to time.Time) ([]session.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []session.Record
	for _, id := range m.byWorker[workerID] {
		r := m.records[id]
		if !r.ClockIn.Before(from) && r.ClockIn.Before(to) {
			result = append(result, r)
		}
	}
	sortByClockIn(result)
	return result, nil
}

func sortByClockIn(rs []session.Record) {
	sort.Slice(rs, func(i, j int) bool { return rs[i].ClockIn.Before(rs[j].ClockIn) })
}
