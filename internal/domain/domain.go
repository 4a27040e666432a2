package domain

import "strings"

// Node labels in the talent graph.
const (
	LabelPerson  = "Person"
	LabelSkill   = "Skill"
	LabelCompany = "Company"
	LabelJob     = "Job"
	LabelCourse  = "Course"
)

// Edge types between nodes. Person-to-person connection types are a separate
// closed set (see relation.go); these are the structural edges the
// synchronizer owns.
const (
	EdgeHasSkill      = "HAS_SKILL"      // Person -> Skill, property "level" 1..5
	EdgeRequiresSkill = "REQUIRES_SKILL" // Job -> Skill, mandatory requirement
	EdgeDesiresSkill  = "DESIRES_SKILL"  // Job -> Skill, desirable requirement
	EdgeInterestedIn  = "INTERESTED_IN"  // Person -> Skill, no level, signals learning interest
	EdgeAppliedTo     = "APPLIED_TO"     // Person -> Job, existence only
	EdgeEnrolledIn    = "ENROLLED_IN"    // Person -> Course, mutated in place
	EdgeWorksAt       = "WORKS_AT"       // Person -> Company
	EdgeTeaches       = "TEACHES"        // Course -> Skill, property "level" granted on completion
)

// Enrollment statuses derived from progress.
const (
	EnrollmentNotStarted = "not started"
	EnrollmentInProgress = "in progress"
	EnrollmentCompleted  = "completed"
)

// EnrollmentStatus derives the status stored on an enrollment edge from its
// progress value (0-100).
func EnrollmentStatus(progress int) string {
	switch {
	case progress >= 100:
		return EnrollmentCompleted
	case progress > 0:
		return EnrollmentInProgress
	default:
		return EnrollmentNotStarted
	}
}

// SkillLevel is one possession edge as seen by the scorer and sync paths.
type SkillLevel struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// GrantedSkill is a skill a course confers on completion.
type GrantedSkill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// NetworkEntry is one outgoing connection edge. A person connected to the same
// target via two relationship types appears twice, once per edge type.
type NetworkEntry struct {
	TargetID string `json:"targetId"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	EdgeType string `json:"edgeType"`
}

// PersonRef is a person reached by a traversal.
type PersonRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// JobMatch is one aggregated job recommendation.
type JobMatch struct {
	JobID         string   `json:"jobId"`
	Title         string   `json:"title"`
	MatchedSkills []string `json:"matchedSkills"`
	Score         float64  `json:"score"`
}

// SkillMatch is one raw (person, skill) hit against a job requirement, before
// weighting. Mandatory distinguishes REQUIRES_SKILL from DESIRES_SKILL.
type SkillMatch struct {
	PersonID  string `json:"personId"`
	Skill     string `json:"skill"`
	Level     int    `json:"level"`
	Mandatory bool   `json:"mandatory"`
}

// SkillHolder is one person holding a skill at a level.
type SkillHolder struct {
	PersonID string `json:"personId"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Level    int    `json:"level"`
}

// RankingEntry is one (person, score) pair in a job's materialized ranking.
type RankingEntry struct {
	PersonID string  `json:"personId"`
	Score    float64 `json:"score"`
}

// CourseRef is one recommended course, reached from a person's interests
// through the skills it teaches.
type CourseRef struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	MatchedSkills []string `json:"matchedSkills"`
}

// JobRef identifies a job node for listing and re-matching.
type JobRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// StatEntry is one leaderboard row: an entity id and its running counter.
type StatEntry struct {
	ID    string `json:"id"`
	Count int64  `json:"count"`
}

// PersonStats aggregates the activity counters kept for one person.
type PersonStats struct {
	PersonID     string `json:"personId"`
	Applications int64  `json:"applications"`
	Connections  int64  `json:"connections"`
	ProfileViews int64  `json:"profileViews"`
}

// CanonicalSkill normalizes a skill name: the key (node identity) is the
// trimmed, case-folded form so "Go", "go " and "GO" share one node; the
// display form keeps the trimmed original casing.
func CanonicalSkill(name string) (key, display string) {
	display = strings.TrimSpace(name)
	return strings.ToLower(display), display
}
