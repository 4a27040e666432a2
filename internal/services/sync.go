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

// PersonChange is the projection of an authoritative person write.
// SkillsPresent distinguishes "payload carried a skills list" (full replace,
// empty removes everything) from "payload said nothing about skills";
// InterestsPresent does the same for the interest list.
type PersonChange struct {
	ID               string
	Name             string
	Role             string
	CompanyID        string
	Skills           []domain.SkillLevel
	SkillsPresent    bool
	Interests        []string
	InterestsPresent bool
}

// JobChange is the projection of an authoritative job write.
type JobChange struct {
	ID                  string
	Title               string
	CompanyID           string
	MandatorySkills     []string
	DesirableSkills     []string
	RequirementsPresent bool
}

// CompanyChange mirrors the authoritative company record.
type CompanyChange struct {
	ID       string
	Name     string
	Industry string
}

// CourseChange mirrors the authoritative course record, including the skills
// the course confers on completion.
type CourseChange struct {
	ID       string
	Title    string
	Provider string
	Grants   []domain.GrantedSkill
}

// SyncService projects authoritative-store events into graph state. Every
// call is best-effort: graph failures are logged and swallowed so the
// caller's primary write never fails on account of the derived graph; the
// next write to the same entity repairs it. Only ErrInvalidInput is surfaced,
// and always before any mutation.
type SyncService interface {
	OnPersonChanged(ctx context.Context, ev PersonChange) error
	OnPersonDeleted(ctx context.Context, personID string) error
	OnJobChanged(ctx context.Context, ev JobChange) error
	OnJobDeleted(ctx context.Context, jobID string) error
	OnCompanyChanged(ctx context.Context, ev CompanyChange) error
	OnCompanyDeleted(ctx context.Context, companyID string) error
	OnCourseChanged(ctx context.Context, ev CourseChange) error
	OnCourseDeleted(ctx context.Context, courseID string) error
	OnApplication(ctx context.Context, personID, jobID string) error
	OnEnrollmentProgress(ctx context.Context, personID, courseID string, progress int, grade *int) error
	OnEnrollmentComplete(ctx context.Context, personID, courseID string, grade *int, certificateURL string) error
}

type syncService struct {
	store   graph.Store
	stats   cache.Stats
	log     *logger.Logger
	timeout time.Duration
}

func NewSyncService(store graph.Store, stats cache.Stats, log *logger.Logger, timeout time.Duration) SyncService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &syncService{
		store:   store,
		stats:   stats,
		log:     log.With("service", "GraphSync"),
		timeout: timeout,
	}
}

// swallow logs a graph failure and reports success to the caller. The graph
// is eventually consistent; the authoritative write already happened.
func (s *syncService) swallow(op string, err error, kv ...interface{}) error {
	if err != nil {
		s.log.Warn("graph sync skipped", append([]interface{}{"op", op, "error", err}, kv...)...)
	}
	return nil
}

func (s *syncService) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *syncService) OnPersonChanged(ctx context.Context, ev PersonChange) error {
	if ev.ID == "" {
		return fmt.Errorf("%w: missing person id", domain.ErrInvalidInput)
	}
	if ev.SkillsPresent {
		for _, sk := range ev.Skills {
			if _, key := skillKey(sk.Name); key == "" {
				return fmt.Errorf("%w: empty skill name", domain.ErrInvalidInput)
			}
			if sk.Level < 1 || sk.Level > 5 {
				return fmt.Errorf("%w: skill level %d out of range 1-5", domain.ErrInvalidInput, sk.Level)
			}
		}
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.store.UpsertNode(ctx, domain.LabelPerson, ev.ID, map[string]any{
		"name": ev.Name,
		"role": ev.Role,
	}); err != nil {
		return s.swallow("person node", err, "person_id", ev.ID)
	}

	if ev.SkillsPresent {
		// Full replace: the graph must never retain a removed skill. The
		// delete-then-recreate window is visible to concurrent readers and
		// accepted.
		if _, err := s.store.DeleteOutEdges(ctx, ev.ID, domain.EdgeHasSkill); err != nil {
			return s.swallow("clear possession edges", err, "person_id", ev.ID)
		}
		for _, sk := range ev.Skills {
			display, key := skillKey(sk.Name)
			if err := s.store.UpsertNode(ctx, domain.LabelSkill, key, map[string]any{"name": display}); err != nil {
				return s.swallow("skill node", err, "skill", display)
			}
			if err := s.store.UpsertEdge(ctx, domain.LabelPerson, ev.ID, domain.LabelSkill, key,
				domain.EdgeHasSkill, map[string]any{"level": sk.Level}); err != nil {
				return s.swallow("possession edge", err, "person_id", ev.ID, "skill", display)
			}
		}
	}

	if ev.InterestsPresent {
		// Interests replace the same way skills do. An interest names a skill
		// the person wants to learn; the edge carries no level.
		if _, err := s.store.DeleteOutEdges(ctx, ev.ID, domain.EdgeInterestedIn); err != nil {
			return s.swallow("clear interest edges", err, "person_id", ev.ID)
		}
		for _, name := range ev.Interests {
			display, key := skillKey(name)
			if key == "" {
				continue
			}
			if err := s.store.UpsertNode(ctx, domain.LabelSkill, key, map[string]any{"name": display}); err != nil {
				return s.swallow("skill node", err, "skill", display)
			}
			if err := s.store.UpsertEdge(ctx, domain.LabelPerson, ev.ID, domain.LabelSkill, key,
				domain.EdgeInterestedIn, nil); err != nil {
				return s.swallow("interest edge", err, "person_id", ev.ID, "skill", display)
			}
		}
	}

	if ev.CompanyID != "" {
		if _, err := s.store.DeleteOutEdges(ctx, ev.ID, domain.EdgeWorksAt); err != nil {
			return s.swallow("clear employment edge", err, "person_id", ev.ID)
		}
		if err := s.store.UpsertEdge(ctx, domain.LabelPerson, ev.ID, domain.LabelCompany, ev.CompanyID,
			domain.EdgeWorksAt, nil); err != nil {
			return s.swallow("employment edge", err, "person_id", ev.ID, "company_id", ev.CompanyID)
		}
	}
	return nil
}

func (s *syncService) OnPersonDeleted(ctx context.Context, personID string) error {
	if personID == "" {
		return fmt.Errorf("%w: missing person id", domain.ErrInvalidInput)
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.swallow("delete person node",
		s.store.DeleteNode(ctx, domain.LabelPerson, personID), "person_id", personID)
}

func (s *syncService) OnJobChanged(ctx context.Context, ev JobChange) error {
	if ev.ID == "" {
		return fmt.Errorf("%w: missing job id", domain.ErrInvalidInput)
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()

	props := map[string]any{"title": ev.Title}
	if ev.CompanyID != "" {
		props["company_id"] = ev.CompanyID
	}
	if err := s.store.UpsertNode(ctx, domain.LabelJob, ev.ID, props); err != nil {
		return s.swallow("job node", err, "job_id", ev.ID)
	}

	if !ev.RequirementsPresent {
		return nil
	}
	// Requirements changed: drop both kinds, recreate from the event.
	if _, err := s.store.DeleteOutEdges(ctx, ev.ID, domain.EdgeRequiresSkill); err != nil {
		return s.swallow("clear mandatory requirements", err, "job_id", ev.ID)
	}
	if _, err := s.store.DeleteOutEdges(ctx, ev.ID, domain.EdgeDesiresSkill); err != nil {
		return s.swallow("clear desirable requirements", err, "job_id", ev.ID)
	}
	for _, name := range ev.MandatorySkills {
		if err := s.linkRequirement(ctx, ev.ID, name, domain.EdgeRequiresSkill); err != nil {
			return s.swallow("mandatory requirement edge", err, "job_id", ev.ID, "skill", name)
		}
	}
	for _, name := range ev.DesirableSkills {
		if err := s.linkRequirement(ctx, ev.ID, name, domain.EdgeDesiresSkill); err != nil {
			return s.swallow("desirable requirement edge", err, "job_id", ev.ID, "skill", name)
		}
	}
	return nil
}

func (s *syncService) linkRequirement(ctx context.Context, jobID, skillName, edgeType string) error {
	display, key := skillKey(skillName)
	if key == "" {
		return nil
	}
	if err := s.store.UpsertNode(ctx, domain.LabelSkill, key, map[string]any{"name": display}); err != nil {
		return err
	}
	return s.store.UpsertEdge(ctx, domain.LabelJob, jobID, domain.LabelSkill, key, edgeType, nil)
}

func (s *syncService) OnJobDeleted(ctx context.Context, jobID string) error {
	if jobID == "" {
		return fmt.Errorf("%w: missing job id", domain.ErrInvalidInput)
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.swallow("delete job node",
		s.store.DeleteNode(ctx, domain.LabelJob, jobID), "job_id", jobID)
}

func (s *syncService) OnCompanyChanged(ctx context.Context, ev CompanyChange) error {
	if ev.ID == "" {
		return fmt.Errorf("%w: missing company id", domain.ErrInvalidInput)
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.swallow("company node", s.store.UpsertNode(ctx, domain.LabelCompany, ev.ID, map[string]any{
		"name":     ev.Name,
		"industry": ev.Industry,
	}), "company_id", ev.ID)
}

func (s *syncService) OnCompanyDeleted(ctx context.Context, companyID string) error {
	if companyID == "" {
		return fmt.Errorf("%w: missing company id", domain.ErrInvalidInput)
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.swallow("delete company node",
		s.store.DeleteNode(ctx, domain.LabelCompany, companyID), "company_id", companyID)
}

func (s *syncService) OnCourseChanged(ctx context.Context, ev CourseChange) error {
	if ev.ID == "" {
		return fmt.Errorf("%w: missing course id", domain.ErrInvalidInput)
	}
	for _, g := range ev.Grants {
		if g.Level < 0 || g.Level > 5 {
			return fmt.Errorf("%w: grant level %d out of range", domain.ErrInvalidInput, g.Level)
		}
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.store.UpsertNode(ctx, domain.LabelCourse, ev.ID, map[string]any{
		"title":    ev.Title,
		"provider": ev.Provider,
	}); err != nil {
		return s.swallow("course node", err, "course_id", ev.ID)
	}

	if _, err := s.store.DeleteOutEdges(ctx, ev.ID, domain.EdgeTeaches); err != nil {
		return s.swallow("clear teaches edges", err, "course_id", ev.ID)
	}
	for _, g := range ev.Grants {
		display, key := skillKey(g.Name)
		if key == "" {
			continue
		}
		level := g.Level
		if level < 1 {
			level = 1
		}
		if err := s.store.UpsertNode(ctx, domain.LabelSkill, key, map[string]any{"name": display}); err != nil {
			return s.swallow("skill node", err, "skill", display)
		}
		if err := s.store.UpsertEdge(ctx, domain.LabelCourse, ev.ID, domain.LabelSkill, key,
			domain.EdgeTeaches, map[string]any{"level": level}); err != nil {
			return s.swallow("teaches edge", err, "course_id", ev.ID, "skill", display)
		}
	}
	return nil
}

func (s *syncService) OnCourseDeleted(ctx context.Context, courseID string) error {
	if courseID == "" {
		return fmt.Errorf("%w: missing course id", domain.ErrInvalidInput)
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.swallow("delete course node",
		s.store.DeleteNode(ctx, domain.LabelCourse, courseID), "course_id", courseID)
}

func (s *syncService) OnApplication(ctx context.Context, personID, jobID string) error {
	if personID == "" || jobID == "" {
		return fmt.Errorf("%w: missing person or job id", domain.ErrInvalidInput)
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	// Existence-only edge; re-applying is a no-op here, history lives in the
	// authoritative store.
	if err := s.store.UpsertEdge(ctx,
		domain.LabelPerson, personID, domain.LabelJob, jobID, domain.EdgeAppliedTo, nil); err != nil {
		return s.swallow("application edge", err, "person_id", personID, "job_id", jobID)
	}
	if s.stats != nil {
		_ = s.swallow("application stats", s.stats.RecordApplication(ctx, personID, jobID),
			"person_id", personID, "job_id", jobID)
	}
	return nil
}

func (s *syncService) OnEnrollmentProgress(ctx context.Context, personID, courseID string, progress int, grade *int) error {
	if personID == "" || courseID == "" {
		return fmt.Errorf("%w: missing person or course id", domain.ErrInvalidInput)
	}
	if progress < 0 || progress > 100 {
		return fmt.Errorf("%w: progress %d out of range 0-100", domain.ErrInvalidInput, progress)
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()

	props := map[string]any{
		"progress":   progress,
		"status":     domain.EnrollmentStatus(progress),
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	}
	if grade != nil {
		props["grade"] = *grade
	}
	// One edge per (person, course), mutated in place as progress advances.
	if err := s.store.UpsertEdge(ctx, domain.LabelPerson, personID, domain.LabelCourse, courseID,
		domain.EdgeEnrolledIn, props); err != nil {
		return s.swallow("enrollment edge", err, "person_id", personID, "course_id", courseID)
	}
	if progress >= 100 {
		s.grantCourseSkills(ctx, personID, courseID)
	}
	return nil
}

func (s *syncService) OnEnrollmentComplete(ctx context.Context, personID, courseID string, grade *int, certificateURL string) error {
	if personID == "" || courseID == "" {
		return fmt.Errorf("%w: missing person or course id", domain.ErrInvalidInput)
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()

	props := map[string]any{
		"progress":   100,
		"status":     domain.EnrollmentCompleted,
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	}
	if grade != nil {
		props["grade"] = *grade
	}
	if certificateURL != "" {
		props["certificate_url"] = certificateURL
	}
	if err := s.store.UpsertEdge(ctx, domain.LabelPerson, personID, domain.LabelCourse, courseID,
		domain.EdgeEnrolledIn, props); err != nil {
		return s.swallow("enrollment edge", err, "person_id", personID, "course_id", courseID)
	}
	s.grantCourseSkills(ctx, personID, courseID)
	return nil
}

// grantCourseSkills gives the person every skill the course teaches, at the
// course's granted level, never downgrading an existing higher proficiency.
func (s *syncService) grantCourseSkills(ctx context.Context, personID, courseID string) {
	grants, err := s.store.CourseGrants(ctx, courseID)
	if err != nil {
		_ = s.swallow("read course grants", err, "course_id", courseID)
		return
	}
	for _, g := range grants {
		if err := s.store.GrantSkill(ctx, personID, g); err != nil {
			_ = s.swallow("grant skill", err, "person_id", personID, "skill", g.Name)
		}
	}
}

func skillKey(name string) (display, key string) {
	key, display = domain.CanonicalSkill(name)
	return display, key
}
