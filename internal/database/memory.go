package database

import (
	"context"
	"sync"
)

// MemoryJournal keeps the newest analyses in a fixed-size ring. It
// backs the journal when no database is configured so the API surface
// behaves the same either way.
type MemoryJournal struct {
	mu       sync.RWMutex
	records  []*AnalysisRecord
	capacity int
	next     int
	full     bool
}

// NewMemoryJournal creates a ring holding up to capacity records.
// Values <= 0 fall back to 1000.
func NewMemoryJournal(capacity int) *MemoryJournal {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemoryJournal{
		records:  make([]*AnalysisRecord, capacity),
		capacity: capacity,
	}
}

// SaveAnalysis appends to the ring, overwriting the oldest entry once
// full.
func (m *MemoryJournal) SaveAnalysis(ctx context.Context, rec *AnalysisRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[m.next] = rec
	m.next = (m.next + 1) % m.capacity
	if m.next == 0 {
		m.full = true
	}
	return nil
}

// RecentAnalyses returns the newest records first, optionally filtered
// by symbol.
func (m *MemoryJournal) RecentAnalyses(ctx context.Context, symbol string, limit int) ([]*AnalysisRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*AnalysisRecord
	for i := 0; i < m.size() && len(out) < limit; i++ {
		rec := m.at(i)
		if symbol != "" && rec.Symbol != symbol {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Summarize aggregates everything currently in the ring.
func (m *MemoryJournal) Summarize(ctx context.Context) (*Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summary := &Summary{BySignal: make(map[string]int)}

	var scoreSum float64
	for i := 0; i < m.size(); i++ {
		rec := m.at(i)
		summary.TotalAnalyses++
		summary.BySignal[rec.SignalType]++
		scoreSum += rec.QualityScore
		if rec.GatePassed != nil && !*rec.GatePassed {
			summary.GateRejected++
		}
		if summary.LastAnalysis == nil || rec.CreatedAt.After(*summary.LastAnalysis) {
			t := rec.CreatedAt
			summary.LastAnalysis = &t
		}
	}

	if summary.TotalAnalyses > 0 {
		summary.AverageScore = scoreSum / float64(summary.TotalAnalyses)
	}
	return summary, nil
}

// size returns how many records the ring holds. Caller must hold the
// lock.
func (m *MemoryJournal) size() int {
	if m.full {
		return m.capacity
	}
	return m.next
}

// at returns the i-th newest record. Caller must hold the lock.
func (m *MemoryJournal) at(i int) *AnalysisRecord {
	idx := (m.next - 1 - i + m.capacity*2) % m.capacity
	return m.records[idx]
}
