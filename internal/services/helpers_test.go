package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/opentalent/talentgraph-backend/internal/data/graph"
	"github.com/opentalent/talentgraph-backend/internal/domain"
	"github.com/opentalent/talentgraph-backend/internal/platform/logger"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func seedPerson(t *testing.T, store graph.Store, id, name string) {
	t.Helper()
	if err := store.UpsertNode(context.Background(), domain.LabelPerson, id, map[string]any{
		"name": name,
		"role": "Engineer",
	}); err != nil {
		t.Fatalf("seed person %s: %v", id, err)
	}
}

func seedJob(t *testing.T, store graph.Store, id, title string) {
	t.Helper()
	if err := store.UpsertNode(context.Background(), domain.LabelJob, id, map[string]any{
		"title": title,
	}); err != nil {
		t.Fatalf("seed job %s: %v", id, err)
	}
}

func seedSkillEdge(t *testing.T, store graph.Store, personID, skillName string, level int) {
	t.Helper()
	ctx := context.Background()
	key, display := domain.CanonicalSkill(skillName)
	if err := store.UpsertNode(ctx, domain.LabelSkill, key, map[string]any{"name": display}); err != nil {
		t.Fatalf("seed skill %s: %v", skillName, err)
	}
	if err := store.UpsertEdge(ctx, domain.LabelPerson, personID, domain.LabelSkill, key,
		domain.EdgeHasSkill, map[string]any{"level": level}); err != nil {
		t.Fatalf("seed possession %s->%s: %v", personID, skillName, err)
	}
}

func seedRequirement(t *testing.T, store graph.Store, jobID, skillName string, mandatory bool) {
	t.Helper()
	ctx := context.Background()
	key, display := domain.CanonicalSkill(skillName)
	if err := store.UpsertNode(ctx, domain.LabelSkill, key, map[string]any{"name": display}); err != nil {
		t.Fatalf("seed skill %s: %v", skillName, err)
	}
	edgeType := domain.EdgeDesiresSkill
	if mandatory {
		edgeType = domain.EdgeRequiresSkill
	}
	if err := store.UpsertEdge(ctx, domain.LabelJob, jobID, domain.LabelSkill, key, edgeType, nil); err != nil {
		t.Fatalf("seed requirement %s->%s: %v", jobID, skillName, err)
	}
}

// failingStore forces UpsertNode to fail, for verifying that sync swallows
// graph errors instead of surfacing them.
type failingStore struct {
	graph.Store
}

var errInjected = errors.New("injected store failure")

func (f *failingStore) UpsertNode(context.Context, string, string, map[string]any) error {
	return errInjected
}

func seedCourse(t *testing.T, store graph.Store, id, name string) {
	t.Helper()
	if err := store.UpsertNode(context.Background(), domain.LabelCourse, id, map[string]any{
		"name": name,
	}); err != nil {
		t.Fatalf("seed course %s: %v", id, err)
	}
}

func seedTeaches(t *testing.T, store graph.Store, courseID, skillName string, level int) {
	t.Helper()
	ctx := context.Background()
	key, display := domain.CanonicalSkill(skillName)
	if err := store.UpsertNode(ctx, domain.LabelSkill, key, map[string]any{"name": display}); err != nil {
		t.Fatalf("seed skill %s: %v", skillName, err)
	}
	if err := store.UpsertEdge(ctx, domain.LabelCourse, courseID, domain.LabelSkill, key,
		domain.EdgeTeaches, map[string]any{"level": level}); err != nil {
		t.Fatalf("seed teaches %s->%s: %v", courseID, skillName, err)
	}
}
