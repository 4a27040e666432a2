package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/opentalent/talentgraph-backend/internal/domain"
)

func TestStatsLeaderboardOrderAndTruncation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStats()

	record := func(personID, jobID string, times int) {
		for i := 0; i < times; i++ {
			if err := s.RecordApplication(ctx, personID, jobID); err != nil {
				t.Fatalf("record %s->%s: %v", personID, jobID, err)
			}
		}
	}
	record("p1", "j1", 3)
	record("p2", "j2", 1)
	record("p3", "j2", 1)

	jobs, err := s.TopJobsByApplications(ctx, 10)
	if err != nil {
		t.Fatalf("top jobs: %v", err)
	}
	if len(jobs) != 2 || jobs[0].ID != "j1" || jobs[0].Count != 3 || jobs[1].Count != 2 {
		t.Fatalf("jobs = %+v", jobs)
	}

	people, err := s.TopPeopleByApplications(ctx, 2)
	if err != nil {
		t.Fatalf("top people: %v", err)
	}
	// p1 leads with 3; p2 and p3 tie at 1 and the lower id wins the cut.
	if len(people) != 2 || people[0].ID != "p1" || people[1].ID != "p2" {
		t.Fatalf("people = %+v", people)
	}
}

func TestStatsConnectionCountsBothSides(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStats()
	if err := s.RecordConnection(ctx, "a", "b"); err != nil {
		t.Fatalf("record: %v", err)
	}
	top, err := s.TopPeopleByConnections(ctx, 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 || top[0].Count != 1 || top[1].Count != 1 {
		t.Fatalf("top = %+v", top)
	}
}

func TestStatsPersonCountersDefaultZero(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStats()
	if err := s.RecordProfileView(ctx, "p1"); err != nil {
		t.Fatalf("record view: %v", err)
	}

	ps, err := s.PersonStats(ctx, "p1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := domain.PersonStats{PersonID: "p1", ProfileViews: 1}
	if ps != want {
		t.Fatalf("stats = %+v", ps)
	}

	never, err := s.PersonStats(ctx, "ghost")
	if err != nil {
		t.Fatalf("ghost stats: %v", err)
	}
	if never.Applications != 0 || never.Connections != 0 || never.ProfileViews != 0 {
		t.Fatalf("ghost stats = %+v", never)
	}
}

func TestStatsRejectEmptyIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStats()
	if err := s.RecordApplication(ctx, "", "j1"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("application: %v", err)
	}
	if err := s.RecordConnection(ctx, "a", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("connection: %v", err)
	}
	if err := s.RecordProfileView(ctx, ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("view: %v", err)
	}
	if _, err := s.PersonStats(ctx, ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("person stats: %v", err)
	}
}
