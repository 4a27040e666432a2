package jobs

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/opentalent/talentgraph-backend/internal/data/cache"
	"github.com/opentalent/talentgraph-backend/internal/data/graph"
	"github.com/opentalent/talentgraph-backend/internal/domain"
	"github.com/opentalent/talentgraph-backend/internal/matching"
	"github.com/opentalent/talentgraph-backend/internal/platform/logger"
	"github.com/opentalent/talentgraph-backend/internal/services"
)

func TestRunOnceRefreshesAllJobs(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	ranking := cache.NewMemoryRanking()
	log := &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
	matchSvc := services.NewMatchingService(store, ranking, matching.DefaultWeights(), time.Hour, log, 0)

	key, display := domain.CanonicalSkill("Go")
	if err := store.UpsertNode(ctx, domain.LabelSkill, key, map[string]any{"name": display}); err != nil {
		t.Fatalf("skill: %v", err)
	}
	if err := store.UpsertNode(ctx, domain.LabelPerson, "p1", map[string]any{"name": "Ada"}); err != nil {
		t.Fatalf("person: %v", err)
	}
	if err := store.UpsertEdge(ctx, domain.LabelPerson, "p1", domain.LabelSkill, key,
		domain.EdgeHasSkill, map[string]any{"level": 3}); err != nil {
		t.Fatalf("possession: %v", err)
	}
	for _, jobID := range []string{"j1", "j2", "j3"} {
		if err := store.UpsertNode(ctx, domain.LabelJob, jobID, map[string]any{"title": "Job " + jobID}); err != nil {
			t.Fatalf("job %s: %v", jobID, err)
		}
		if err := store.UpsertEdge(ctx, domain.LabelJob, jobID, domain.LabelSkill, key,
			domain.EdgeRequiresSkill, nil); err != nil {
			t.Fatalf("requirement %s: %v", jobID, err)
		}
	}

	NewRematcher(store, matchSvc, log, "", 2).RunOnce(ctx)

	for _, jobID := range []string{"j1", "j2", "j3"} {
		top, err := ranking.TopK(ctx, jobID, 5)
		if err != nil {
			t.Fatalf("topk %s: %v", jobID, err)
		}
		if len(top) != 1 || top[0].PersonID != "p1" {
			t.Fatalf("job %s ranking = %+v", jobID, top)
		}
	}
}

func TestStartRejectsMalformedSchedule(t *testing.T) {
	log := &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
	store := graph.NewMemoryStore()
	ranking := cache.NewMemoryRanking()
	matchSvc := services.NewMatchingService(store, ranking, matching.DefaultWeights(), time.Hour, log, 0)

	r := NewRematcher(store, matchSvc, log, "not a schedule", 1)
	if err := r.Start(context.Background()); err == nil {
		r.Stop()
		t.Fatal("expected schedule parse error")
	}
}
