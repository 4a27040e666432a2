package cache

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/opentalent/talentgraph-backend/internal/domain"
)

// MemoryStats is an in-process Stats with the same semantics as the Redis
// implementation. It backs tests and serves as the fallback when REDIS_ADDR
// is unset.
type MemoryStats struct {
	mu     sync.RWMutex
	boards map[string]map[string]int64 // leaderboard -> member -> count
}

func NewMemoryStats() *MemoryStats {
	return &MemoryStats{boards: make(map[string]map[string]int64)}
}

func (m *MemoryStats) incr(board, member string) {
	counts := m.boards[board]
	if counts == nil {
		counts = make(map[string]int64)
		m.boards[board] = counts
	}
	counts[member]++
}

func (m *MemoryStats) RecordApplication(_ context.Context, personID, jobID string) error {
	if personID == "" || jobID == "" {
		return fmt.Errorf("%w: missing person or job id", domain.ErrInvalidInput)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.incr(statApplicationsByJob, jobID)
	m.incr(statApplicationsByPerson, personID)
	return nil
}

func (m *MemoryStats) RecordConnection(_ context.Context, personA, personB string) error {
	if personA == "" || personB == "" {
		return fmt.Errorf("%w: missing person id", domain.ErrInvalidInput)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.incr(statConnectionsCount, personA)
	m.incr(statConnectionsCount, personB)
	return nil
}

func (m *MemoryStats) RecordProfileView(_ context.Context, personID string) error {
	if personID == "" {
		return fmt.Errorf("%w: missing person id", domain.ErrInvalidInput)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.incr(statProfileViews, personID)
	return nil
}

func (m *MemoryStats) TopJobsByApplications(_ context.Context, n int) ([]domain.StatEntry, error) {
	return m.top(statApplicationsByJob, n), nil
}

func (m *MemoryStats) TopPeopleByApplications(_ context.Context, n int) ([]domain.StatEntry, error) {
	return m.top(statApplicationsByPerson, n), nil
}

func (m *MemoryStats) TopPeopleByConnections(_ context.Context, n int) ([]domain.StatEntry, error) {
	return m.top(statConnectionsCount, n), nil
}

func (m *MemoryStats) TopProfileViews(_ context.Context, n int) ([]domain.StatEntry, error) {
	return m.top(statProfileViews, n), nil
}

func (m *MemoryStats) top(board string, n int) []domain.StatEntry {
	if n <= 0 {
		n = DefaultStatsTopN
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.StatEntry, 0, len(m.boards[board]))
	for member, count := range m.boards[board] {
		out = append(out, domain.StatEntry{ID: member, Count: count})
	}
	// Count descending, ties broken by id for a deterministic order.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func (m *MemoryStats) PersonStats(_ context.Context, personID string) (domain.PersonStats, error) {
	if personID == "" {
		return domain.PersonStats{}, fmt.Errorf("%w: missing person id", domain.ErrInvalidInput)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.PersonStats{
		PersonID:     personID,
		Applications: m.boards[statApplicationsByPerson][personID],
		Connections:  m.boards[statConnectionsCount][personID],
		ProfileViews: m.boards[statProfileViews][personID],
	}, nil
}
