package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/opentalent/talentgraph-backend/internal/domain"
)

func addPerson(t *testing.T, m *MemoryStore, id string) {
	t.Helper()
	if err := m.UpsertNode(context.Background(), domain.LabelPerson, id, map[string]any{
		"name": "Person " + id,
		"role": "Engineer",
	}); err != nil {
		t.Fatalf("add person %s: %v", id, err)
	}
}

func TestUpsertEdgeRequiresBothEndpoints(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	addPerson(t, m, "p1")

	err := m.UpsertEdge(ctx, domain.LabelPerson, "p1", domain.LabelPerson, "ghost",
		string(domain.RelFriendship), nil)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	err = m.UpsertEdge(ctx, domain.LabelPerson, "ghost", domain.LabelPerson, "p1",
		string(domain.RelFriendship), nil)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsertEdgeRejectsUnknownType(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	addPerson(t, m, "p1")
	addPerson(t, m, "p2")

	for _, bad := range []string{"", "KNOWS", "has_skill", "X)-[r]-(m) DELETE m //"} {
		err := m.UpsertEdge(ctx, domain.LabelPerson, "p1", domain.LabelPerson, "p2", bad, nil)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("type %q: expected ErrInvalidInput, got %v", bad, err)
		}
	}
}

func TestUpsertNodeRejectsUnknownLabel(t *testing.T) {
	err := NewMemoryStore().UpsertNode(context.Background(), "Widget", "w1", nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpsertEdgeMergesProps(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	addPerson(t, m, "p1")
	if err := m.UpsertNode(ctx, domain.LabelCourse, "c1", map[string]any{"title": "Course"}); err != nil {
		t.Fatalf("course: %v", err)
	}

	if err := m.UpsertEdge(ctx, domain.LabelPerson, "p1", domain.LabelCourse, "c1",
		domain.EdgeEnrolledIn, map[string]any{"progress": 10, "status": domain.EnrollmentInProgress}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := m.UpsertEdge(ctx, domain.LabelPerson, "p1", domain.LabelCourse, "c1",
		domain.EdgeEnrolledIn, map[string]any{"progress": 60}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	e := m.edges[edgeKey(domain.LabelPerson, "p1", domain.EdgeEnrolledIn, domain.LabelCourse, "c1")]
	if e == nil {
		t.Fatal("edge missing")
	}
	if got := propInt(e.props, "progress"); got != 60 {
		t.Fatalf("progress = %d, want 60", got)
	}
	if got := propStr(e.props, "status"); got != domain.EnrollmentInProgress {
		t.Fatalf("status lost on merge: %q", got)
	}
}

func TestDeleteEdgesTypelessClearsBothDirections(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	addPerson(t, m, "p1")
	addPerson(t, m, "p2")
	addPerson(t, m, "p3")

	edges := []struct{ from, to, typ string }{
		{"p1", "p2", string(domain.RelFriendship)},
		{"p2", "p1", string(domain.RelFriendship)},
		{"p1", "p2", string(domain.RelMentorship)},
		{"p1", "p3", string(domain.RelFriendship)},
	}
	for _, e := range edges {
		if err := m.UpsertEdge(ctx, domain.LabelPerson, e.from, domain.LabelPerson, e.to, e.typ, nil); err != nil {
			t.Fatalf("seed %+v: %v", e, err)
		}
	}

	n, err := m.DeleteEdges(ctx, "p1", "p2", "")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 3 {
		t.Fatalf("deleted %d, want 3", n)
	}
	network, err := m.Network(ctx, "p1")
	if err != nil {
		t.Fatalf("network: %v", err)
	}
	if len(network) != 1 || network[0].TargetID != "p3" {
		t.Fatalf("unrelated edge touched: %+v", network)
	}
}

func TestDeleteNodeDetachesEdges(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	addPerson(t, m, "p1")
	addPerson(t, m, "p2")
	if err := m.UpsertEdge(ctx, domain.LabelPerson, "p2", domain.LabelPerson, "p1",
		string(domain.RelFollows), nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := m.DeleteNode(ctx, domain.LabelPerson, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	network, err := m.Network(ctx, "p2")
	if err != nil {
		t.Fatalf("network: %v", err)
	}
	if len(network) != 0 {
		t.Fatalf("dangling edge after node delete: %+v", network)
	}
}

func TestGrantSkillNoOpForAbsentPerson(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	if err := m.GrantSkill(ctx, "ghost", domain.GrantedSkill{Name: "Go", Level: 3}); err != nil {
		t.Fatalf("grant: %v", err)
	}
	holders, err := m.PeopleBySkill(ctx, "Go", 0)
	if err != nil {
		t.Fatalf("holders: %v", err)
	}
	if len(holders) != 0 {
		t.Fatalf("grant to absent person created edges: %+v", holders)
	}
}

func TestGrantSkillKeepsHigherLevel(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	addPerson(t, m, "p1")

	if err := m.GrantSkill(ctx, "p1", domain.GrantedSkill{Name: "Go", Level: 2}); err != nil {
		t.Fatalf("first grant: %v", err)
	}
	if err := m.GrantSkill(ctx, "p1", domain.GrantedSkill{Name: "Go", Level: 4}); err != nil {
		t.Fatalf("upgrade grant: %v", err)
	}
	if err := m.GrantSkill(ctx, "p1", domain.GrantedSkill{Name: "Go", Level: 1}); err != nil {
		t.Fatalf("downgrade grant: %v", err)
	}

	holders, err := m.PeopleBySkill(ctx, "Go", 0)
	if err != nil {
		t.Fatalf("holders: %v", err)
	}
	if len(holders) != 1 || holders[0].Level != 4 {
		t.Fatalf("expected level 4 kept, got %+v", holders)
	}
}

func TestJobMatchesTieBreakIsDeterministic(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	addPerson(t, m, "p1")
	key, display := domain.CanonicalSkill("Go")
	if err := m.UpsertNode(ctx, domain.LabelSkill, key, map[string]any{"name": display}); err != nil {
		t.Fatalf("skill: %v", err)
	}
	if err := m.UpsertEdge(ctx, domain.LabelPerson, "p1", domain.LabelSkill, key,
		domain.EdgeHasSkill, map[string]any{"level": 3}); err != nil {
		t.Fatalf("possession: %v", err)
	}
	for _, jobID := range []string{"jb", "ja"} {
		if err := m.UpsertNode(ctx, domain.LabelJob, jobID, map[string]any{"title": "Job " + jobID}); err != nil {
			t.Fatalf("job %s: %v", jobID, err)
		}
		if err := m.UpsertEdge(ctx, domain.LabelJob, jobID, domain.LabelSkill, key,
			domain.EdgeRequiresSkill, nil); err != nil {
			t.Fatalf("requirement %s: %v", jobID, err)
		}
	}

	matches, err := m.JobMatches(ctx, "p1", 2.0, 1.0, 10)
	if err != nil {
		t.Fatalf("matches: %v", err)
	}
	if len(matches) != 2 || matches[0].JobID != "ja" || matches[1].JobID != "jb" {
		t.Fatalf("tie order not by job id: %+v", matches)
	}
	if matches[0].Score != 6.0 {
		t.Fatalf("score = %v, want 6.0", matches[0].Score)
	}
}

func TestSuggestedConnectionsDeduplicatesPaths(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	for _, p := range []string{"me", "f1", "f2", "fof"} {
		addPerson(t, m, p)
	}
	for _, pair := range [][2]string{{"me", "f1"}, {"me", "f2"}, {"f1", "fof"}, {"f2", "fof"}} {
		if err := m.UpsertEdge(ctx, domain.LabelPerson, pair[0], domain.LabelPerson, pair[1],
			string(domain.RelFriendship), nil); err != nil {
			t.Fatalf("seed %v: %v", pair, err)
		}
	}

	suggested, err := m.SuggestedConnections(ctx, "me", 5)
	if err != nil {
		t.Fatalf("suggested: %v", err)
	}
	if len(suggested) != 1 || suggested[0].ID != "fof" {
		t.Fatalf("expected fof once, got %+v", suggested)
	}
}

func TestCourseGrantsReadsTeachesEdges(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	if err := m.UpsertNode(ctx, domain.LabelCourse, "c1", map[string]any{"title": "Course"}); err != nil {
		t.Fatalf("course: %v", err)
	}
	for _, g := range []domain.GrantedSkill{{Name: "Kubernetes", Level: 3}, {Name: "Docker", Level: 2}} {
		key, display := domain.CanonicalSkill(g.Name)
		if err := m.UpsertNode(ctx, domain.LabelSkill, key, map[string]any{"name": display}); err != nil {
			t.Fatalf("skill: %v", err)
		}
		if err := m.UpsertEdge(ctx, domain.LabelCourse, "c1", domain.LabelSkill, key,
			domain.EdgeTeaches, map[string]any{"level": g.Level}); err != nil {
			t.Fatalf("teaches: %v", err)
		}
	}

	grants, err := m.CourseGrants(ctx, "c1")
	if err != nil {
		t.Fatalf("grants: %v", err)
	}
	if len(grants) != 2 || grants[0].Name != "Docker" || grants[1].Name != "Kubernetes" {
		t.Fatalf("grants = %+v", grants)
	}
	if grants[1].Level != 3 {
		t.Fatalf("kubernetes level = %d", grants[1].Level)
	}
}

func TestCourseRecommendationsFollowInterests(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	addPerson(t, m, "p1")
	for _, course := range []struct{ id, name string }{
		{"c1", "Graph Databases"}, {"c2", "Cloud Basics"}, {"c3", "Pottery"},
	} {
		if err := m.UpsertNode(ctx, domain.LabelCourse, course.id, map[string]any{"name": course.name}); err != nil {
			t.Fatalf("course %s: %v", course.id, err)
		}
	}
	teach := func(courseID, skill string) {
		key, display := domain.CanonicalSkill(skill)
		if err := m.UpsertNode(ctx, domain.LabelSkill, key, map[string]any{"name": display}); err != nil {
			t.Fatalf("skill %s: %v", skill, err)
		}
		if err := m.UpsertEdge(ctx, domain.LabelCourse, courseID, domain.LabelSkill, key,
			domain.EdgeTeaches, map[string]any{"level": 2}); err != nil {
			t.Fatalf("teaches %s: %v", skill, err)
		}
	}
	teach("c1", "Neo4j")
	teach("c1", "Cypher")
	teach("c2", "Neo4j")
	teach("c3", "Ceramics")

	for _, interest := range []string{"Neo4j", "Cypher"} {
		key, _ := domain.CanonicalSkill(interest)
		if err := m.UpsertEdge(ctx, domain.LabelPerson, "p1", domain.LabelSkill, key,
			domain.EdgeInterestedIn, nil); err != nil {
			t.Fatalf("interest %s: %v", interest, err)
		}
	}

	courses, err := m.CourseRecommendations(ctx, "p1", 10)
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	// c1 covers two interests and ranks first; c3 teaches nothing of interest.
	if len(courses) != 2 {
		t.Fatalf("courses = %+v", courses)
	}
	if courses[0].ID != "c1" || courses[1].ID != "c2" {
		t.Fatalf("order = %s, %s", courses[0].ID, courses[1].ID)
	}
	if len(courses[0].MatchedSkills) != 2 || courses[0].MatchedSkills[0] != "Cypher" {
		t.Fatalf("matched skills = %v", courses[0].MatchedSkills)
	}

	capped, err := m.CourseRecommendations(ctx, "p1", 1)
	if err != nil {
		t.Fatalf("capped: %v", err)
	}
	if len(capped) != 1 || capped[0].ID != "c1" {
		t.Fatalf("capped = %+v", capped)
	}
}
