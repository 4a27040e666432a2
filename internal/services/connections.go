package services

import (
	"context"
	"fmt"
	"time"

	"github.com/opentalent/talentgraph-backend/internal/data/cache"
	"github.com/opentalent/talentgraph-backend/internal/data/graph"
	"github.com/opentalent/talentgraph-backend/internal/domain"
	"github.com/opentalent/talentgraph-backend/internal/platform/logger"
)

// ConnectionService manages person-to-person edges. Unlike synchronization,
// the graph is the primary store for connections, so failures propagate to
// the caller.
type ConnectionService interface {
	// Create links source to target. A two-way request issues two independent
	// directed upserts; if the second fails the connection is left asymmetric
	// and the error is returned (the next create repairs it).
	Create(ctx context.Context, sourceID, targetID, relType, direction string) error
	// Delete removes the typed edge source->target, or, with an empty type,
	// every edge type between the pair. Returns the number of edges removed.
	Delete(ctx context.Context, sourceID, targetID, relType string) (int, error)
}

type connectionService struct {
	store   graph.Store
	stats   cache.Stats
	log     *logger.Logger
	timeout time.Duration
}

func NewConnectionService(store graph.Store, stats cache.Stats, log *logger.Logger, timeout time.Duration) ConnectionService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &connectionService{
		store:   store,
		stats:   stats,
		log:     log.With("service", "Connections"),
		timeout: timeout,
	}
}

func (s *connectionService) Create(ctx context.Context, sourceID, targetID, relType, direction string) error {
	if sourceID == "" || targetID == "" {
		return fmt.Errorf("%w: missing source or target id", domain.ErrInvalidInput)
	}
	if sourceID == targetID {
		return fmt.Errorf("%w: cannot connect a person to themselves", domain.ErrInvalidInput)
	}
	kind, err := domain.ParseRelKind(relType)
	if err != nil {
		return err
	}
	if direction == "" {
		direction = domain.DirectionTwoWay
	}
	if direction != domain.DirectionOneWay && direction != domain.DirectionTwoWay {
		return fmt.Errorf("%w: unknown direction %q", domain.ErrInvalidInput, direction)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.UpsertEdge(ctx, domain.LabelPerson, sourceID, domain.LabelPerson, targetID,
		string(kind), nil); err != nil {
		return err
	}
	if direction == domain.DirectionTwoWay {
		if err := s.store.UpsertEdge(ctx, domain.LabelPerson, targetID, domain.LabelPerson, sourceID,
			string(kind), nil); err != nil {
			s.log.Warn("two-way connection left asymmetric",
				"source_id", sourceID, "target_id", targetID, "type", kind, "error", err)
			return err
		}
	}
	if s.stats != nil {
		// Counters are best-effort; a stats failure never fails the connection.
		if err := s.stats.RecordConnection(ctx, sourceID, targetID); err != nil {
			s.log.Warn("connection stats skipped",
				"source_id", sourceID, "target_id", targetID, "error", err)
		}
	}
	return nil
}

func (s *connectionService) Delete(ctx context.Context, sourceID, targetID, relType string) (int, error) {
	if sourceID == "" || targetID == "" {
		return 0, fmt.Errorf("%w: missing source or target id", domain.ErrInvalidInput)
	}
	edgeType := ""
	if relType != "" {
		kind, err := domain.ParseRelKind(relType)
		if err != nil {
			return 0, err
		}
		edgeType = string(kind)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.DeleteEdges(ctx, sourceID, targetID, edgeType)
}
