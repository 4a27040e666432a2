package graph

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/opentalent/talentgraph-backend/internal/domain"
)

type memEdge struct {
	fromLabel string
	fromID    string
	toLabel   string
	toID      string
	edgeType  string
	props     map[string]any
}

// MemoryStore is an in-process property graph with the same semantics as the
// Neo4j store. It backs tests and serves as the fallback when NEO4J_URI is
// unset.
type MemoryStore struct {
	mu    sync.RWMutex
	nodes map[string]map[string]map[string]any // label -> id -> props
	edges map[string]*memEdge
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes: make(map[string]map[string]map[string]any),
		edges: make(map[string]*memEdge),
	}
}

func edgeKey(fromLabel, fromID, edgeType, toLabel, toID string) string {
	return fromLabel + "|" + fromID + "|" + edgeType + "|" + toLabel + "|" + toID
}

func (m *MemoryStore) findNode(id string) (label string, props map[string]any, ok bool) {
	for l, byID := range m.nodes {
		if p, exists := byID[id]; exists {
			return l, p, true
		}
	}
	return "", nil, false
}

// ---- mutations ----

func (m *MemoryStore) UpsertNode(_ context.Context, label, id string, props map[string]any) error {
	if err := validLabel(label); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: missing node id", domain.ErrInvalidInput)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	byID := m.nodes[label]
	if byID == nil {
		byID = make(map[string]map[string]any)
		m.nodes[label] = byID
	}
	existing := byID[id]
	if existing == nil {
		existing = make(map[string]any)
		byID[id] = existing
	}
	for k, v := range props {
		existing[k] = v
	}
	return nil
}

func (m *MemoryStore) UpsertEdge(_ context.Context, fromLabel, fromID, toLabel, toID, edgeType string, props map[string]any) error {
	if err := validLabel(fromLabel); err != nil {
		return err
	}
	if err := validLabel(toLabel); err != nil {
		return err
	}
	if err := validEdgeType(edgeType); err != nil {
		return err
	}
	if fromID == "" || toID == "" {
		return fmt.Errorf("%w: missing edge endpoint id", domain.ErrInvalidInput)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[fromLabel][fromID]; !ok {
		return fmt.Errorf("upsert edge %s (%s)-(%s): %w", edgeType, fromID, toID, domain.ErrNotFound)
	}
	if _, ok := m.nodes[toLabel][toID]; !ok {
		return fmt.Errorf("upsert edge %s (%s)-(%s): %w", edgeType, fromID, toID, domain.ErrNotFound)
	}
	key := edgeKey(fromLabel, fromID, edgeType, toLabel, toID)
	e := m.edges[key]
	if e == nil {
		e = &memEdge{
			fromLabel: fromLabel, fromID: fromID,
			toLabel: toLabel, toID: toID,
			edgeType: edgeType,
			props:    make(map[string]any),
		}
		m.edges[key] = e
	}
	for k, v := range props {
		e.props[k] = v
	}
	return nil
}

func (m *MemoryStore) DeleteEdges(_ context.Context, fromID, toID, edgeType string) (int, error) {
	if fromID == "" || toID == "" {
		return 0, fmt.Errorf("%w: missing edge endpoint id", domain.ErrInvalidInput)
	}
	if edgeType != "" {
		if err := validEdgeType(edgeType); err != nil {
			return 0, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	deleted := 0
	for key, e := range m.edges {
		directed := e.fromID == fromID && e.toID == toID
		reversed := e.fromID == toID && e.toID == fromID
		if edgeType == "" {
			// Typeless delete clears the pair in both directions.
			if directed || reversed {
				delete(m.edges, key)
				deleted++
			}
			continue
		}
		if directed && e.edgeType == edgeType {
			delete(m.edges, key)
			deleted++
		}
	}
	return deleted, nil
}

func (m *MemoryStore) DeleteOutEdges(_ context.Context, fromID, edgeType string) (int, error) {
	if fromID == "" {
		return 0, fmt.Errorf("%w: missing node id", domain.ErrInvalidInput)
	}
	if err := validEdgeType(edgeType); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	deleted := 0
	for key, e := range m.edges {
		if e.fromID == fromID && e.edgeType == edgeType {
			delete(m.edges, key)
			deleted++
		}
	}
	return deleted, nil
}

func (m *MemoryStore) DeleteNode(_ context.Context, label, id string) error {
	if err := validLabel(label); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: missing node id", domain.ErrInvalidInput)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.nodes[label], id)
	for key, e := range m.edges {
		if (e.fromLabel == label && e.fromID == id) || (e.toLabel == label && e.toID == id) {
			delete(m.edges, key)
		}
	}
	return nil
}

func (m *MemoryStore) GrantSkill(_ context.Context, personID string, skill domain.GrantedSkill) error {
	key, display := domain.CanonicalSkill(skill.Name)
	if personID == "" || key == "" {
		return fmt.Errorf("%w: missing person or skill", domain.ErrInvalidInput)
	}
	level := skill.Level
	if level < 1 {
		level = 1
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[domain.LabelPerson][personID]; !ok {
		// Mirrors the Cypher MATCH: an absent person makes the grant a no-op.
		return nil
	}
	skills := m.nodes[domain.LabelSkill]
	if skills == nil {
		skills = make(map[string]map[string]any)
		m.nodes[domain.LabelSkill] = skills
	}
	if _, ok := skills[key]; !ok {
		skills[key] = map[string]any{"name": display}
	}
	ek := edgeKey(domain.LabelPerson, personID, domain.EdgeHasSkill, domain.LabelSkill, key)
	e := m.edges[ek]
	if e == nil {
		m.edges[ek] = &memEdge{
			fromLabel: domain.LabelPerson, fromID: personID,
			toLabel: domain.LabelSkill, toID: key,
			edgeType: domain.EdgeHasSkill,
			props:    map[string]any{"level": level},
		}
		return nil
	}
	if cur, _ := e.props["level"].(int); cur < level {
		e.props["level"] = level
	}
	return nil
}

// ---- reads ----

func (m *MemoryStore) Network(_ context.Context, personID string) ([]domain.NetworkEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.NetworkEntry
	for _, e := range m.edges {
		if e.fromLabel != domain.LabelPerson || e.fromID != personID || e.toLabel != domain.LabelPerson {
			continue
		}
		target := m.nodes[domain.LabelPerson][e.toID]
		out = append(out, domain.NetworkEntry{
			TargetID: e.toID,
			Name:     propStr(target, "name"),
			Role:     propStr(target, "role"),
			EdgeType: e.edgeType,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TargetID != out[j].TargetID {
			return out[i].TargetID < out[j].TargetID
		}
		return out[i].EdgeType < out[j].EdgeType
	})
	return out, nil
}

func (m *MemoryStore) CommonConnections(_ context.Context, a, b string) ([]domain.PersonRef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fromA := m.outgoingPersonTargets(a)
	fromB := m.outgoingPersonTargets(b)
	var out []domain.PersonRef
	for id := range fromA {
		if _, ok := fromB[id]; !ok {
			continue
		}
		out = append(out, m.personRef(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) SuggestedConnections(_ context.Context, personID string, limit int) ([]domain.PersonRef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	direct := m.outgoingPersonTargets(personID)
	// An incoming edge also counts as "already connected".
	for _, e := range m.edges {
		if e.toLabel == domain.LabelPerson && e.toID == personID && e.fromLabel == domain.LabelPerson {
			direct[e.fromID] = struct{}{}
		}
	}
	seen := make(map[string]struct{})
	var out []domain.PersonRef
	firstHops := make([]string, 0, len(direct))
	for id := range m.outgoingPersonTargets(personID) {
		firstHops = append(firstHops, id)
	}
	sort.Strings(firstHops)
	for _, mid := range firstHops {
		secondHops := make([]string, 0)
		for id := range m.outgoingPersonTargets(mid) {
			secondHops = append(secondHops, id)
		}
		sort.Strings(secondHops)
		for _, cand := range secondHops {
			if cand == personID {
				continue
			}
			if _, already := direct[cand]; already {
				continue
			}
			if _, dup := seen[cand]; dup {
				continue
			}
			seen[cand] = struct{}{}
			out = append(out, m.personRef(cand))
			if len(out) >= limit {
				return out, nil
			}
		}
	}
	return out, nil
}

func (m *MemoryStore) JobMatches(_ context.Context, personID string, mandatoryW, desirableW float64, limit int) ([]domain.JobMatch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type acc struct {
		score  float64
		skills map[string]struct{}
	}
	byJob := make(map[string]*acc)
	for _, h := range m.possessionEdges(personID) {
		level := propInt(h.props, "level")
		skillName := propStr(m.nodes[domain.LabelSkill][h.toID], "name")
		for _, r := range m.requirementEdgesTo(h.toID) {
			w := desirableW
			if r.edgeType == domain.EdgeRequiresSkill {
				w = mandatoryW
			}
			a := byJob[r.fromID]
			if a == nil {
				a = &acc{skills: make(map[string]struct{})}
				byJob[r.fromID] = a
			}
			a.score += float64(level) * w
			a.skills[skillName] = struct{}{}
		}
	}

	var out []domain.JobMatch
	for jobID, a := range byJob {
		if a.score <= 0 {
			continue
		}
		skills := make([]string, 0, len(a.skills))
		for s := range a.skills {
			skills = append(skills, s)
		}
		sort.Strings(skills)
		out = append(out, domain.JobMatch{
			JobID:         jobID,
			Title:         propStr(m.nodes[domain.LabelJob][jobID], "title"),
			MatchedSkills: skills,
			Score:         a.score,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].JobID < out[j].JobID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) CandidateMatches(_ context.Context, jobID string) ([]domain.SkillMatch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.SkillMatch
	for _, r := range m.edgesFrom(jobID, domain.EdgeRequiresSkill, domain.EdgeDesiresSkill) {
		skillName := propStr(m.nodes[domain.LabelSkill][r.toID], "name")
		for _, h := range m.edgesToSkill(r.toID) {
			out = append(out, domain.SkillMatch{
				PersonID:  h.fromID,
				Skill:     skillName,
				Level:     propInt(h.props, "level"),
				Mandatory: r.edgeType == domain.EdgeRequiresSkill,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PersonID != out[j].PersonID {
			return out[i].PersonID < out[j].PersonID
		}
		return out[i].Skill < out[j].Skill
	})
	return out, nil
}

func (m *MemoryStore) PeopleBySkill(_ context.Context, skillName string, minLevel int) ([]domain.SkillHolder, error) {
	key, _ := domain.CanonicalSkill(skillName)
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.SkillHolder
	for _, h := range m.edgesToSkill(key) {
		level := propInt(h.props, "level")
		if level < minLevel {
			continue
		}
		person := m.nodes[domain.LabelPerson][h.fromID]
		out = append(out, domain.SkillHolder{
			PersonID: h.fromID,
			Name:     propStr(person, "name"),
			Role:     propStr(person, "role"),
			Level:    level,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level > out[j].Level
		}
		return out[i].PersonID < out[j].PersonID
	})
	return out, nil
}

func (m *MemoryStore) CourseGrants(_ context.Context, courseID string) ([]domain.GrantedSkill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.GrantedSkill
	for _, e := range m.edges {
		if e.fromID == courseID && e.edgeType == domain.EdgeTeaches {
			out = append(out, domain.GrantedSkill{
				Name:  propStr(m.nodes[domain.LabelSkill][e.toID], "name"),
				Level: propInt(e.props, "level"),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) CourseRecommendations(_ context.Context, personID string, limit int) ([]domain.CourseRef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	interests := make(map[string]struct{})
	for _, e := range m.edges {
		if e.fromID == personID && e.edgeType == domain.EdgeInterestedIn {
			interests[e.toID] = struct{}{}
		}
	}
	byCourse := make(map[string]map[string]struct{})
	for _, e := range m.edges {
		if e.edgeType != domain.EdgeTeaches {
			continue
		}
		if _, ok := interests[e.toID]; !ok {
			continue
		}
		skills := byCourse[e.fromID]
		if skills == nil {
			skills = make(map[string]struct{})
			byCourse[e.fromID] = skills
		}
		skills[propStr(m.nodes[domain.LabelSkill][e.toID], "name")] = struct{}{}
	}
	var out []domain.CourseRef
	for courseID, skillSet := range byCourse {
		skills := make([]string, 0, len(skillSet))
		for s := range skillSet {
			skills = append(skills, s)
		}
		sort.Strings(skills)
		out = append(out, domain.CourseRef{
			ID:            courseID,
			Name:          propStr(m.nodes[domain.LabelCourse][courseID], "name"),
			MatchedSkills: skills,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].MatchedSkills) != len(out[j].MatchedSkills) {
			return len(out[i].MatchedSkills) > len(out[j].MatchedSkills)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) AppliedJobs(_ context.Context, personID string) ([]domain.JobRef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.JobRef
	for _, e := range m.edges {
		if e.fromID == personID && e.edgeType == domain.EdgeAppliedTo {
			out = append(out, domain.JobRef{
				ID:    e.toID,
				Title: propStr(m.nodes[domain.LabelJob][e.toID], "title"),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) Applicants(_ context.Context, jobID string) ([]domain.PersonRef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.PersonRef
	for _, e := range m.edges {
		if e.toID == jobID && e.edgeType == domain.EdgeAppliedTo {
			out = append(out, m.personRef(e.fromID))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) ListJobs(_ context.Context) ([]domain.JobRef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.JobRef
	for id, props := range m.nodes[domain.LabelJob] {
		out = append(out, domain.JobRef{ID: id, Title: propStr(props, "title")})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) JobExists(_ context.Context, jobID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.nodes[domain.LabelJob][jobID]
	return ok, nil
}

// ---- traversal helpers (callers hold the lock) ----

func (m *MemoryStore) outgoingPersonTargets(personID string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, e := range m.edges {
		if e.fromLabel == domain.LabelPerson && e.fromID == personID && e.toLabel == domain.LabelPerson {
			out[e.toID] = struct{}{}
		}
	}
	return out
}

func (m *MemoryStore) possessionEdges(personID string) []*memEdge {
	var out []*memEdge
	for _, e := range m.edges {
		if e.fromID == personID && e.edgeType == domain.EdgeHasSkill {
			out = append(out, e)
		}
	}
	return out
}

func (m *MemoryStore) requirementEdgesTo(skillKey string) []*memEdge {
	var out []*memEdge
	for _, e := range m.edges {
		if e.toID == skillKey && (e.edgeType == domain.EdgeRequiresSkill || e.edgeType == domain.EdgeDesiresSkill) {
			out = append(out, e)
		}
	}
	return out
}

func (m *MemoryStore) edgesFrom(fromID string, types ...string) []*memEdge {
	want := make(map[string]struct{}, len(types))
	for _, t := range types {
		want[t] = struct{}{}
	}
	var out []*memEdge
	for _, e := range m.edges {
		if e.fromID != fromID {
			continue
		}
		if _, ok := want[e.edgeType]; ok {
			out = append(out, e)
		}
	}
	return out
}

func (m *MemoryStore) edgesToSkill(skillKey string) []*memEdge {
	var out []*memEdge
	for _, e := range m.edges {
		if e.toID == skillKey && e.edgeType == domain.EdgeHasSkill {
			out = append(out, e)
		}
	}
	return out
}

func (m *MemoryStore) personRef(id string) domain.PersonRef {
	props := m.nodes[domain.LabelPerson][id]
	return domain.PersonRef{ID: id, Name: propStr(props, "name"), Role: propStr(props, "role")}
}

func propStr(props map[string]any, key string) string {
	if props == nil {
		return ""
	}
	s, _ := props[key].(string)
	return s
}

func propInt(props map[string]any, key string) int {
	if props == nil {
		return 0
	}
	switch n := props[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
