package graph

import (
	"context"
	"fmt"
	"regexp"

	"github.com/opentalent/talentgraph-backend/internal/domain"
)

// Adapter is the mutation boundary against the underlying graph engine. All
// upserts are idempotent. DeleteEdges with an empty edgeType removes every
// edge type between the pair and returns the count deleted.
type Adapter interface {
	UpsertNode(ctx context.Context, label, id string, props map[string]any) error
	UpsertEdge(ctx context.Context, fromLabel, fromID, toLabel, toID, edgeType string, props map[string]any) error
	DeleteEdges(ctx context.Context, fromID, toID, edgeType string) (int, error)
	// DeleteOutEdges removes all edges of one type leaving a node, regardless
	// of target. Full-replace synchronization is built on it.
	DeleteOutEdges(ctx context.Context, fromID, edgeType string) (int, error)
	DeleteNode(ctx context.Context, label, id string) error
	// GrantSkill upserts a possession edge, keeping the higher of the existing
	// and granted level. Used by course-completion grants.
	GrantSkill(ctx context.Context, personID string, skill domain.GrantedSkill) error
}

// Reader serves the traversal queries the recommendation paths need. Every
// method is a pure function of graph contents at call time.
type Reader interface {
	Network(ctx context.Context, personID string) ([]domain.NetworkEntry, error)
	CommonConnections(ctx context.Context, a, b string) ([]domain.PersonRef, error)
	SuggestedConnections(ctx context.Context, personID string, limit int) ([]domain.PersonRef, error)
	JobMatches(ctx context.Context, personID string, mandatoryW, desirableW float64, limit int) ([]domain.JobMatch, error)
	CandidateMatches(ctx context.Context, jobID string) ([]domain.SkillMatch, error)
	PeopleBySkill(ctx context.Context, skillName string, minLevel int) ([]domain.SkillHolder, error)
	CourseGrants(ctx context.Context, courseID string) ([]domain.GrantedSkill, error)
	CourseRecommendations(ctx context.Context, personID string, limit int) ([]domain.CourseRef, error)
	AppliedJobs(ctx context.Context, personID string) ([]domain.JobRef, error)
	Applicants(ctx context.Context, jobID string) ([]domain.PersonRef, error)
	ListJobs(ctx context.Context) ([]domain.JobRef, error)
	JobExists(ctx context.Context, jobID string) (bool, error)
}

// Store is the full graph boundary injected into services.
type Store interface {
	Adapter
	Reader
}

var edgeTypePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

var knownEdgeTypes = map[string]struct{}{
	domain.EdgeHasSkill:             {},
	domain.EdgeRequiresSkill:        {},
	domain.EdgeDesiresSkill:         {},
	domain.EdgeInterestedIn:         {},
	domain.EdgeAppliedTo:            {},
	domain.EdgeEnrolledIn:           {},
	domain.EdgeWorksAt:              {},
	domain.EdgeTeaches:              {},
	string(domain.RelMentorship):    {},
	string(domain.RelCollaboration): {},
	string(domain.RelFriendship):    {},
	string(domain.RelFollows):       {},
}

// validEdgeType gates every edge type before it reaches a query string.
// Relationship types cannot be parameterized in Cypher, so the closed set is
// the injection boundary.
func validEdgeType(edgeType string) error {
	if _, ok := knownEdgeTypes[edgeType]; !ok {
		return fmt.Errorf("%w: unknown edge type %q", domain.ErrInvalidInput, edgeType)
	}
	if !edgeTypePattern.MatchString(edgeType) {
		return fmt.Errorf("%w: malformed edge type %q", domain.ErrInvalidInput, edgeType)
	}
	return nil
}

var knownLabels = map[string]struct{}{
	domain.LabelPerson:  {},
	domain.LabelSkill:   {},
	domain.LabelCompany: {},
	domain.LabelJob:     {},
	domain.LabelCourse:  {},
}

func validLabel(label string) error {
	if _, ok := knownLabels[label]; !ok {
		return fmt.Errorf("%w: unknown node label %q", domain.ErrInvalidInput, label)
	}
	return nil
}
