package cache

import (
	"context"

	"github.com/opentalent/talentgraph-backend/internal/domain"
)

// Leaderboard names. Each is a sorted set of entity id to running count.
const (
	statApplicationsByJob    = "applications_by_job"
	statApplicationsByPerson = "applications_by_person"
	statConnectionsCount     = "connections_count"
	statProfileViews         = "profile_views"
)

// DefaultStatsTopN bounds leaderboard reads when the caller gives no limit.
const DefaultStatsTopN = 10

// Stats keeps activity counters and their leaderboards. Counters only ever
// increment; they are an observability signal, not authoritative data, so
// recording is expected to be best-effort at the call site.
type Stats interface {
	RecordApplication(ctx context.Context, personID, jobID string) error
	// RecordConnection increments the connection counter for both people.
	RecordConnection(ctx context.Context, personA, personB string) error
	RecordProfileView(ctx context.Context, personID string) error

	TopJobsByApplications(ctx context.Context, n int) ([]domain.StatEntry, error)
	TopPeopleByApplications(ctx context.Context, n int) ([]domain.StatEntry, error)
	TopPeopleByConnections(ctx context.Context, n int) ([]domain.StatEntry, error)
	TopProfileViews(ctx context.Context, n int) ([]domain.StatEntry, error)
	// PersonStats reads every counter kept for one person; absent counters
	// read as zero.
	PersonStats(ctx context.Context, personID string) (domain.PersonStats, error)
}
