package cache

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/opentalent/talentgraph-backend/internal/domain"
)

type memoryEntry struct {
	scores    map[string]float64
	expiresAt time.Time
}

// MemoryRanking is the in-process Ranking used by tests and as the fallback
// when REDIS_ADDR is unset. The clock is injectable so expiry is testable.
type MemoryRanking struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryRanking() *MemoryRanking {
	return &MemoryRanking{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// SetClock replaces the time source. Test hook.
func (m *MemoryRanking) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *MemoryRanking) SetRanking(_ context.Context, jobID string, scores map[string]float64, ttl time.Duration) error {
	if jobID == "" {
		return fmt.Errorf("%w: missing job id", domain.ErrInvalidInput)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	copied := make(map[string]float64, len(scores))
	for k, v := range scores {
		copied[k] = v
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(copied) == 0 {
		delete(m.entries, jobID)
		return nil
	}
	m.entries[jobID] = memoryEntry{scores: copied, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemoryRanking) TopK(_ context.Context, jobID string, k int) ([]domain.RankingEntry, error) {
	if jobID == "" {
		return nil, fmt.Errorf("%w: missing job id", domain.ErrInvalidInput)
	}
	if k <= 0 {
		return nil, nil
	}
	m.mu.RLock()
	entry, ok := m.entries[jobID]
	now := m.now()
	m.mu.RUnlock()
	if !ok || now.After(entry.expiresAt) {
		return nil, nil
	}
	out := make([]domain.RankingEntry, 0, len(entry.scores))
	for personID, score := range entry.scores {
		out = append(out, domain.RankingEntry{PersonID: personID, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].PersonID < out[j].PersonID
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}
