package domain

import (
	"fmt"
	"strings"
)

// RelKind is a person-to-person connection type. The set is closed: the graph
// never stores an edge type assembled from raw user input.
type RelKind string

const (
	RelMentorship    RelKind = "MENTORSHIP"
	RelCollaboration RelKind = "COLLABORATION"
	RelFriendship    RelKind = "FRIENDSHIP"
	RelFollows       RelKind = "FOLLOWS"
)

// Connection directions. A two-way request creates two independent directed
// edges; it is a composition, not an atomic graph construct.
const (
	DirectionOneWay = "one-way"
	DirectionTwoWay = "two-way"
)

var relKinds = map[string]RelKind{
	"mentorship":    RelMentorship,
	"collaboration": RelCollaboration,
	"friendship":    RelFriendship,
	"follows":       RelFollows,
}

// ParseRelKind validates a caller-supplied relationship type. Unknown types
// are ErrInvalidInput.
func ParseRelKind(s string) (RelKind, error) {
	k, ok := relKinds[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: unknown relationship type %q", ErrInvalidInput, s)
	}
	return k, nil
}

// ConnectionKinds lists the edge types a person-to-person connection may use,
// for queries that must distinguish social edges from structural ones.
func ConnectionKinds() []RelKind {
	return []RelKind{RelMentorship, RelCollaboration, RelFriendship, RelFollows}
}

// IsConnectionKind reports whether an edge type string is a social connection
// type.
func IsConnectionKind(edgeType string) bool {
	_, ok := relKinds[strings.ToLower(edgeType)]
	return ok
}
