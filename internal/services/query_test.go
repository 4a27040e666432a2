package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/opentalent/talentgraph-backend/internal/data/cache"
	"github.com/opentalent/talentgraph-backend/internal/data/graph"
	"github.com/opentalent/talentgraph-backend/internal/domain"
	"github.com/opentalent/talentgraph-backend/internal/matching"
)

func newQuery(store graph.Store) QueryService {
	return NewQueryService(store, cache.NewMemoryStats(), matching.DefaultWeights(), testLogger(), 0)
}

func connect(t *testing.T, store graph.Store, from, to string, kind domain.RelKind) {
	t.Helper()
	if err := store.UpsertEdge(context.Background(), domain.LabelPerson, from, domain.LabelPerson, to,
		string(kind), nil); err != nil {
		t.Fatalf("connect %s->%s: %v", from, to, err)
	}
}

func TestNetworkListsOneEntryPerEdgeType(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	svc := newQuery(store)

	seedPerson(t, store, "p1", "Ada")
	seedPerson(t, store, "p2", "Grace")
	connect(t, store, "p1", "p2", domain.RelFriendship)
	connect(t, store, "p1", "p2", domain.RelCollaboration)

	network, err := svc.Network(ctx, "p1")
	if err != nil {
		t.Fatalf("network: %v", err)
	}
	if len(network) != 2 {
		t.Fatalf("expected two entries for two edge types, got %+v", network)
	}
	if network[0].TargetID != "p2" || network[1].TargetID != "p2" {
		t.Fatalf("unexpected targets: %+v", network)
	}
	if network[0].EdgeType == network[1].EdgeType {
		t.Fatalf("entries should differ by edge type: %+v", network)
	}
}

func TestCommonConnections(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	svc := newQuery(store)

	for _, p := range []string{"p1", "p2", "shared", "onlyP1"} {
		seedPerson(t, store, p, "Person "+p)
	}
	connect(t, store, "p1", "shared", domain.RelFriendship)
	connect(t, store, "p2", "shared", domain.RelMentorship)
	connect(t, store, "p1", "onlyP1", domain.RelFriendship)

	common, err := svc.CommonConnections(ctx, "p1", "p2")
	if err != nil {
		t.Fatalf("common: %v", err)
	}
	if len(common) != 1 || common[0].ID != "shared" {
		t.Fatalf("expected only the shared contact, got %+v", common)
	}
}

func TestSuggestedConnectionsExcludesSelfAndDirect(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	svc := newQuery(store)

	for _, p := range []string{"me", "friend", "fof", "direct"} {
		seedPerson(t, store, p, "Person "+p)
	}
	connect(t, store, "me", "friend", domain.RelFriendship)
	connect(t, store, "me", "direct", domain.RelFriendship)
	connect(t, store, "friend", "fof", domain.RelFriendship)
	connect(t, store, "friend", "me", domain.RelFriendship)
	connect(t, store, "friend", "direct", domain.RelFriendship)

	suggested, err := svc.SuggestedConnections(ctx, "me")
	if err != nil {
		t.Fatalf("suggested: %v", err)
	}
	if len(suggested) != 1 || suggested[0].ID != "fof" {
		t.Fatalf("expected only fof, got %+v", suggested)
	}
}

func TestSuggestedConnectionsCappedAtFive(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	svc := newQuery(store)

	seedPerson(t, store, "me", "Me")
	seedPerson(t, store, "hub", "Hub")
	connect(t, store, "me", "hub", domain.RelFriendship)
	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("fof%d", i)
		seedPerson(t, store, id, "Person "+id)
		connect(t, store, "hub", id, domain.RelFriendship)
	}

	suggested, err := svc.SuggestedConnections(ctx, "me")
	if err != nil {
		t.Fatalf("suggested: %v", err)
	}
	if len(suggested) != SuggestedConnectionsCap {
		t.Fatalf("expected %d suggestions, got %d", SuggestedConnectionsCap, len(suggested))
	}
}

func TestJobRecommendationsWeighting(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	svc := newQuery(store)

	seedPerson(t, store, "p1", "Ada")
	seedSkillEdge(t, store, "p1", "Go", 4)
	seedSkillEdge(t, store, "p1", "Docker", 2)
	seedJob(t, store, "j1", "Backend Engineer")
	seedRequirement(t, store, "j1", "Go", true)
	seedRequirement(t, store, "j1", "Docker", false)
	seedJob(t, store, "j2", "Platform Engineer")
	seedRequirement(t, store, "j2", "Docker", true)

	recs, err := svc.JobRecommendations(ctx, "p1", 0)
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected two jobs, got %+v", recs)
	}
	// j1: Go mandatory 4*2.0 + Docker desirable 2*1.0 = 10.0
	if recs[0].JobID != "j1" || recs[0].Score != 10.0 {
		t.Fatalf("top job = %+v", recs[0])
	}
	if len(recs[0].MatchedSkills) != 2 {
		t.Fatalf("matched skills = %+v", recs[0].MatchedSkills)
	}
	// j2: Docker mandatory 2*2.0 = 4.0
	if recs[1].JobID != "j2" || recs[1].Score != 4.0 {
		t.Fatalf("second job = %+v", recs[1])
	}
}

func TestJobRecommendationsLimit(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	svc := newQuery(store)

	seedPerson(t, store, "p1", "Ada")
	seedSkillEdge(t, store, "p1", "Go", 3)
	for i := 0; i < 4; i++ {
		id := fmt.Sprintf("j%d", i)
		seedJob(t, store, id, "Job "+id)
		seedRequirement(t, store, id, "Go", true)
	}

	recs, err := svc.JobRecommendations(ctx, "p1", 2)
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected limit 2, got %d", len(recs))
	}
}

func TestPeopleBySkillMinLevel(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	svc := newQuery(store)

	seedPerson(t, store, "p1", "Ada")
	seedPerson(t, store, "p2", "Grace")
	seedSkillEdge(t, store, "p1", "Go", 4)
	seedSkillEdge(t, store, "p2", "Go", 2)

	holders, err := svc.PeopleBySkill(ctx, "Go", 3)
	if err != nil {
		t.Fatalf("people by skill: %v", err)
	}
	if len(holders) != 1 || holders[0].PersonID != "p1" {
		t.Fatalf("expected only p1, got %+v", holders)
	}
}

func TestAppliedJobsAndApplicants(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	svc := newQuery(store)

	seedPerson(t, store, "p1", "Ada")
	seedJob(t, store, "j1", "Backend Engineer")
	if err := store.UpsertEdge(ctx, domain.LabelPerson, "p1", domain.LabelJob, "j1",
		domain.EdgeAppliedTo, nil); err != nil {
		t.Fatalf("seed application: %v", err)
	}

	applied, err := svc.AppliedJobs(ctx, "p1")
	if err != nil {
		t.Fatalf("applied jobs: %v", err)
	}
	if len(applied) != 1 || applied[0].Title != "Backend Engineer" {
		t.Fatalf("applied = %+v", applied)
	}
	applicants, err := svc.Applicants(ctx, "j1")
	if err != nil {
		t.Fatalf("applicants: %v", err)
	}
	if len(applicants) != 1 || applicants[0].Name != "Ada" {
		t.Fatalf("applicants = %+v", applicants)
	}
}

func TestQueryValidation(t *testing.T) {
	svc := newQuery(graph.NewMemoryStore())
	ctx := context.Background()

	if _, err := svc.Network(ctx, ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("network: %v", err)
	}
	if _, err := svc.CommonConnections(ctx, "p1", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("common: %v", err)
	}
	if _, err := svc.PeopleBySkill(ctx, "   ", 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("blank skill: %v", err)
	}
	if _, err := svc.PeopleBySkill(ctx, "Go", -1); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("negative level: %v", err)
	}
}

func TestCourseRecommendationsRankInterestCoverage(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	svc := newQuery(store)
	seedPerson(t, store, "p1", "Ada")
	seedCourse(t, store, "c1", "Graph Databases")
	seedTeaches(t, store, "c1", "Neo4j", 3)
	seedTeaches(t, store, "c1", "Cypher", 2)
	seedCourse(t, store, "c2", "Intro to Graphs")
	seedTeaches(t, store, "c2", "Neo4j", 1)
	seedCourse(t, store, "c3", "Watercolors")
	seedTeaches(t, store, "c3", "Painting", 1)

	for _, interest := range []string{"Neo4j", "Cypher"} {
		key, _ := domain.CanonicalSkill(interest)
		if err := store.UpsertEdge(ctx, domain.LabelPerson, "p1", domain.LabelSkill, key,
			domain.EdgeInterestedIn, nil); err != nil {
			t.Fatalf("interest %s: %v", interest, err)
		}
	}

	courses, err := svc.CourseRecommendations(ctx, "p1")
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("courses = %+v", courses)
	}
	if courses[0].ID != "c1" || courses[1].ID != "c2" {
		t.Fatalf("order = %s, %s", courses[0].ID, courses[1].ID)
	}

	if _, err := svc.CourseRecommendations(ctx, ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNetworkRecordsProfileView(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	stats := cache.NewMemoryStats()
	svc := NewQueryService(store, stats, matching.DefaultWeights(), testLogger(), 0)
	seedPerson(t, store, "p1", "Ada")

	for i := 0; i < 3; i++ {
		if _, err := svc.Network(ctx, "p1"); err != nil {
			t.Fatalf("network %d: %v", i, err)
		}
	}

	ps, err := stats.PersonStats(ctx, "p1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if ps.ProfileViews != 3 {
		t.Fatalf("profile views = %d", ps.ProfileViews)
	}
}
