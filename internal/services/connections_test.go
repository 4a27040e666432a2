package services

import (
	"context"
	"errors"
	"testing"

	"github.com/opentalent/talentgraph-backend/internal/data/cache"
	"github.com/opentalent/talentgraph-backend/internal/data/graph"
	"github.com/opentalent/talentgraph-backend/internal/domain"
)

func newConnections(store graph.Store) ConnectionService {
	return NewConnectionService(store, cache.NewMemoryStats(), testLogger(), 0)
}

func TestCreateTwoWayVisibleFromBothSides(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	svc := newConnections(store)

	seedPerson(t, store, "p1", "Ada")
	seedPerson(t, store, "p2", "Grace")

	if err := svc.Create(ctx, "p1", "p2", "friendship", domain.DirectionTwoWay); err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, id := range []string{"p1", "p2"} {
		network, err := store.Network(ctx, id)
		if err != nil {
			t.Fatalf("network %s: %v", id, err)
		}
		if len(network) != 1 || network[0].EdgeType != string(domain.RelFriendship) {
			t.Fatalf("network of %s = %+v", id, network)
		}
	}
}

func TestCreateOneWayVisibleFromSourceOnly(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	svc := newConnections(store)

	seedPerson(t, store, "p1", "Ada")
	seedPerson(t, store, "p2", "Grace")

	if err := svc.Create(ctx, "p1", "p2", "follows", domain.DirectionOneWay); err != nil {
		t.Fatalf("create: %v", err)
	}

	fromSource, err := store.Network(ctx, "p1")
	if err != nil {
		t.Fatalf("network p1: %v", err)
	}
	if len(fromSource) != 1 || fromSource[0].TargetID != "p2" {
		t.Fatalf("source network = %+v", fromSource)
	}
	fromTarget, err := store.Network(ctx, "p2")
	if err != nil {
		t.Fatalf("network p2: %v", err)
	}
	if len(fromTarget) != 0 {
		t.Fatalf("one-way edge visible from target: %+v", fromTarget)
	}
}

func TestCreateDefaultsToTwoWay(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	svc := newConnections(store)

	seedPerson(t, store, "p1", "Ada")
	seedPerson(t, store, "p2", "Grace")

	if err := svc.Create(ctx, "p1", "p2", "collaboration", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	network, err := store.Network(ctx, "p2")
	if err != nil {
		t.Fatalf("network p2: %v", err)
	}
	if len(network) != 1 {
		t.Fatalf("default direction was not two-way: %+v", network)
	}
}

func TestCreateValidation(t *testing.T) {
	store := graph.NewMemoryStore()
	svc := newConnections(store)
	seedPerson(t, store, "p1", "Ada")
	seedPerson(t, store, "p2", "Grace")

	cases := []struct {
		name      string
		source    string
		target    string
		relType   string
		direction string
	}{
		{"missing source", "", "p2", "friendship", domain.DirectionTwoWay},
		{"self connection", "p1", "p1", "friendship", domain.DirectionTwoWay},
		{"unknown type", "p1", "p2", "nemesis", domain.DirectionTwoWay},
		{"unknown direction", "p1", "p2", "friendship", "sideways"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Create(context.Background(), tc.source, tc.target, tc.relType, tc.direction)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCreateUnknownPersonPropagatesNotFound(t *testing.T) {
	store := graph.NewMemoryStore()
	svc := newConnections(store)
	seedPerson(t, store, "p1", "Ada")

	err := svc.Create(context.Background(), "p1", "ghost", "friendship", domain.DirectionOneWay)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTypedIsDirectional(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	svc := newConnections(store)

	seedPerson(t, store, "p1", "Ada")
	seedPerson(t, store, "p2", "Grace")
	if err := svc.Create(ctx, "p1", "p2", "mentorship", domain.DirectionTwoWay); err != nil {
		t.Fatalf("create: %v", err)
	}

	n, err := svc.Delete(ctx, "p1", "p2", "mentorship")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 edge deleted, got %d", n)
	}
	reverse, err := store.Network(ctx, "p2")
	if err != nil {
		t.Fatalf("network p2: %v", err)
	}
	if len(reverse) != 1 {
		t.Fatalf("typed delete removed the reverse edge: %+v", reverse)
	}
}

func TestDeleteTypelessClearsPairBothDirections(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	svc := newConnections(store)

	seedPerson(t, store, "p1", "Ada")
	seedPerson(t, store, "p2", "Grace")
	if err := svc.Create(ctx, "p1", "p2", "friendship", domain.DirectionTwoWay); err != nil {
		t.Fatalf("create friendship: %v", err)
	}
	if err := svc.Create(ctx, "p1", "p2", "collaboration", domain.DirectionOneWay); err != nil {
		t.Fatalf("create collaboration: %v", err)
	}

	n, err := svc.Delete(ctx, "p1", "p2", "")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 edges deleted, got %d", n)
	}
	for _, id := range []string{"p1", "p2"} {
		network, err := store.Network(ctx, id)
		if err != nil {
			t.Fatalf("network %s: %v", id, err)
		}
		if len(network) != 0 {
			t.Fatalf("edges left after typeless delete for %s: %+v", id, network)
		}
	}
}

func TestDeleteUnknownTypeRejected(t *testing.T) {
	svc := newConnections(graph.NewMemoryStore())
	_, err := svc.Delete(context.Background(), "p1", "p2", "nemesis")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDeleteMissingEdgeReturnsZero(t *testing.T) {
	store := graph.NewMemoryStore()
	svc := newConnections(store)
	seedPerson(t, store, "p1", "Ada")
	seedPerson(t, store, "p2", "Grace")

	n, err := svc.Delete(context.Background(), "p1", "p2", "friendship")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0, got %d", n)
	}
}

func TestCreateIncrementsConnectionCounters(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemoryStore()
	stats := cache.NewMemoryStats()
	svc := NewConnectionService(store, stats, testLogger(), 0)
	seedPerson(t, store, "p1", "Ada")
	seedPerson(t, store, "p2", "Grace")

	if err := svc.Create(ctx, "p1", "p2", "friendship", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, id := range []string{"p1", "p2"} {
		ps, err := stats.PersonStats(ctx, id)
		if err != nil {
			t.Fatalf("stats %s: %v", id, err)
		}
		if ps.Connections != 1 {
			t.Fatalf("%s connections = %d", id, ps.Connections)
		}
	}
}
