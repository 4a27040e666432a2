package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/opentalent/talentgraph-backend/internal/domain"
	"github.com/opentalent/talentgraph-backend/internal/platform/logger"
	"github.com/opentalent/talentgraph-backend/internal/platform/neo4jdb"
)

type neo4jStore struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

// NewNeo4jStore wraps a connected client. Schema helpers are created
// best-effort; they may fail for restricted users and the store still works.
func NewNeo4jStore(ctx context.Context, client *neo4jdb.Client, log *logger.Logger) (Store, error) {
	if client == nil || client.Driver == nil {
		return nil, fmt.Errorf("graph: neo4j client required")
	}
	if log == nil {
		return nil, fmt.Errorf("graph: logger required")
	}
	s := &neo4jStore{client: client, log: log.With("store", "Neo4jGraph")}
	s.initSchema(ctx)
	return s, nil
}

func (s *neo4jStore) initSchema(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	session := s.writeSession(ctx)
	defer session.Close(ctx)
	for label := range knownLabels {
		stmt := fmt.Sprintf(
			`CREATE CONSTRAINT %s_id_unique IF NOT EXISTS FOR (n:%s) REQUIRE n.id IS UNIQUE`,
			lowerLabel(label), label)
		if res, err := session.Run(ctx, stmt, nil); err != nil {
			s.log.Warn("neo4j schema init failed (continuing)", "label", label, "error", err)
		} else {
			_, _ = res.Consume(ctx)
		}
	}
}

func lowerLabel(label string) string {
	out := make([]byte, len(label))
	for i := 0; i < len(label); i++ {
		c := label[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

func (s *neo4jStore) writeSession(ctx context.Context) neo4j.SessionWithContext {
	return s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.client.Database,
	})
}

func (s *neo4jStore) readSession(ctx context.Context) neo4j.SessionWithContext {
	return s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.client.Database,
	})
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrGraphUnavailable, err)
}

// ---- mutations ----

func (s *neo4jStore) UpsertNode(ctx context.Context, label, id string, props map[string]any) error {
	if err := validLabel(label); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: missing node id", domain.ErrInvalidInput)
	}
	if props == nil {
		props = map[string]any{}
	}
	session := s.writeSession(ctx)
	defer session.Close(ctx)

	stmt := fmt.Sprintf(`MERGE (n:%s {id: $id}) SET n += $props, n.synced_at = $now`, label)
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, stmt, map[string]any{
			"id":    id,
			"props": props,
			"now":   time.Now().UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		return unavailable("upsert node", err)
	}
	return nil
}

func (s *neo4jStore) UpsertEdge(ctx context.Context, fromLabel, fromID, toLabel, toID, edgeType string, props map[string]any) error {
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
	if props == nil {
		props = map[string]any{}
	}
	session := s.writeSession(ctx)
	defer session.Close(ctx)

	stmt := fmt.Sprintf(`
MATCH (a:%s {id: $from})
MATCH (b:%s {id: $to})
MERGE (a)-[r:%s]->(b)
SET r += $props, r.synced_at = $now
RETURN count(r) AS n
`, fromLabel, toLabel, edgeType)

	matched, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, stmt, map[string]any{
			"from":  fromID,
			"to":    toID,
			"props": props,
			"now":   time.Now().UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			// No row means an endpoint did not match.
			return int64(0), nil
		}
		n, _ := rec.Get("n")
		return n, nil
	})
	if err != nil {
		return unavailable("upsert edge", err)
	}
	if n, ok := matched.(int64); ok && n == 0 {
		return fmt.Errorf("upsert edge %s (%s)-(%s): %w", edgeType, fromID, toID, domain.ErrNotFound)
	}
	return nil
}

func (s *neo4jStore) DeleteEdges(ctx context.Context, fromID, toID, edgeType string) (int, error) {
	if fromID == "" || toID == "" {
		return 0, fmt.Errorf("%w: missing edge endpoint id", domain.ErrInvalidInput)
	}
	// A typed delete removes the directional primitive; a typeless delete
	// clears every edge type between the pair in both directions.
	var stmt string
	if edgeType == "" {
		stmt = `MATCH (a {id: $from})-[r]-(b {id: $to}) DELETE r`
	} else {
		if err := validEdgeType(edgeType); err != nil {
			return 0, err
		}
		stmt = fmt.Sprintf(`MATCH (a {id: $from})-[r:%s]->(b {id: $to}) DELETE r`, edgeType)
	}
	return s.runDelete(ctx, "delete edges", stmt, map[string]any{"from": fromID, "to": toID})
}

func (s *neo4jStore) DeleteOutEdges(ctx context.Context, fromID, edgeType string) (int, error) {
	if fromID == "" {
		return 0, fmt.Errorf("%w: missing node id", domain.ErrInvalidInput)
	}
	if err := validEdgeType(edgeType); err != nil {
		return 0, err
	}
	stmt := fmt.Sprintf(`MATCH (a {id: $from})-[r:%s]->() DELETE r`, edgeType)
	return s.runDelete(ctx, "delete out edges", stmt, map[string]any{"from": fromID})
}

func (s *neo4jStore) runDelete(ctx context.Context, op, stmt string, params map[string]any) (int, error) {
	session := s.writeSession(ctx)
	defer session.Close(ctx)

	deleted, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, stmt, params)
		if err != nil {
			return nil, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return nil, err
		}
		return summary.Counters().RelationshipsDeleted(), nil
	})
	if err != nil {
		return 0, unavailable(op, err)
	}
	n, _ := deleted.(int)
	return n, nil
}

func (s *neo4jStore) DeleteNode(ctx context.Context, label, id string) error {
	if err := validLabel(label); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: missing node id", domain.ErrInvalidInput)
	}
	session := s.writeSession(ctx)
	defer session.Close(ctx)

	stmt := fmt.Sprintf(`MATCH (n:%s {id: $id}) DETACH DELETE n`, label)
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, stmt, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		return unavailable("delete node", err)
	}
	return nil
}

func (s *neo4jStore) GrantSkill(ctx context.Context, personID string, skill domain.GrantedSkill) error {
	key, display := domain.CanonicalSkill(skill.Name)
	if personID == "" || key == "" {
		return fmt.Errorf("%w: missing person or skill", domain.ErrInvalidInput)
	}
	level := skill.Level
	if level < 1 {
		level = 1
	}
	session := s.writeSession(ctx)
	defer session.Close(ctx)

	// Grants never downgrade an existing proficiency.
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MERGE (s:Skill {id: $key})
ON CREATE SET s.name = $name
WITH s
MATCH (p:Person {id: $pid})
MERGE (p)-[h:HAS_SKILL]->(s)
ON CREATE SET h.level = $level
ON MATCH SET h.level = CASE WHEN h.level < $level THEN $level ELSE h.level END
SET h.synced_at = $now
`, map[string]any{
			"key":   key,
			"name":  display,
			"pid":   personID,
			"level": level,
			"now":   time.Now().UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		return unavailable("grant skill", err)
	}
	return nil
}

// ---- reads ----

func (s *neo4jStore) Network(ctx context.Context, personID string) ([]domain.NetworkEntry, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	res, err := session.Run(ctx, `
MATCH (p:Person {id: $id})-[r]->(o:Person)
RETURN o.id AS targetId, o.name AS name, o.role AS role, type(r) AS edgeType
ORDER BY targetId ASC, edgeType ASC
`, map[string]any{"id": personID})
	if err != nil {
		return nil, unavailable("network", err)
	}
	var out []domain.NetworkEntry
	for res.Next(ctx) {
		rec := res.Record()
		out = append(out, domain.NetworkEntry{
			TargetID: recStr(rec, "targetId"),
			Name:     recStr(rec, "name"),
			Role:     recStr(rec, "role"),
			EdgeType: recStr(rec, "edgeType"),
		})
	}
	if err := res.Err(); err != nil {
		return nil, unavailable("network", err)
	}
	return out, nil
}

func (s *neo4jStore) CommonConnections(ctx context.Context, a, b string) ([]domain.PersonRef, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	res, err := session.Run(ctx, `
MATCH (a:Person {id: $a})-->(x:Person)<--(b:Person {id: $b})
RETURN DISTINCT x.id AS id, x.name AS name, x.role AS role
ORDER BY id ASC
`, map[string]any{"a": a, "b": b})
	if err != nil {
		return nil, unavailable("common connections", err)
	}
	return collectPersons(ctx, res, "common connections")
}

func (s *neo4jStore) SuggestedConnections(ctx context.Context, personID string, limit int) ([]domain.PersonRef, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	res, err := session.Run(ctx, `
MATCH (p:Person {id: $id})-->(:Person)-->(s:Person)
WHERE s.id <> $id AND NOT (p)--(s)
RETURN DISTINCT s.id AS id, s.name AS name, s.role AS role
LIMIT $limit
`, map[string]any{"id": personID, "limit": limit})
	if err != nil {
		return nil, unavailable("suggested connections", err)
	}
	return collectPersons(ctx, res, "suggested connections")
}

func (s *neo4jStore) JobMatches(ctx context.Context, personID string, mandatoryW, desirableW float64, limit int) ([]domain.JobMatch, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	res, err := session.Run(ctx, `
MATCH (p:Person {id: $id})-[h:HAS_SKILL]->(s:Skill)<-[r:REQUIRES_SKILL|DESIRES_SKILL]-(j:Job)
WITH j, s, h, CASE type(r) WHEN 'REQUIRES_SKILL' THEN $mw ELSE $dw END AS w
WITH j, collect(DISTINCT s.name) AS skills, sum(h.level * w) AS score
WHERE score > 0
RETURN j.id AS jobId, j.title AS title, skills, score
ORDER BY score DESC, jobId ASC
LIMIT $limit
`, map[string]any{"id": personID, "mw": mandatoryW, "dw": desirableW, "limit": limit})
	if err != nil {
		return nil, unavailable("job matches", err)
	}
	var out []domain.JobMatch
	for res.Next(ctx) {
		rec := res.Record()
		out = append(out, domain.JobMatch{
			JobID:         recStr(rec, "jobId"),
			Title:         recStr(rec, "title"),
			MatchedSkills: recStrSlice(rec, "skills"),
			Score:         recFloat(rec, "score"),
		})
	}
	if err := res.Err(); err != nil {
		return nil, unavailable("job matches", err)
	}
	return out, nil
}

func (s *neo4jStore) CandidateMatches(ctx context.Context, jobID string) ([]domain.SkillMatch, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	res, err := session.Run(ctx, `
MATCH (p:Person)-[h:HAS_SKILL]->(s:Skill)<-[r:REQUIRES_SKILL|DESIRES_SKILL]-(j:Job {id: $id})
RETURN p.id AS personId, s.name AS skill, h.level AS level, type(r) = 'REQUIRES_SKILL' AS mandatory
ORDER BY personId ASC, skill ASC
`, map[string]any{"id": jobID})
	if err != nil {
		return nil, unavailable("candidate matches", err)
	}
	var out []domain.SkillMatch
	for res.Next(ctx) {
		rec := res.Record()
		out = append(out, domain.SkillMatch{
			PersonID:  recStr(rec, "personId"),
			Skill:     recStr(rec, "skill"),
			Level:     recInt(rec, "level"),
			Mandatory: recBool(rec, "mandatory"),
		})
	}
	if err := res.Err(); err != nil {
		return nil, unavailable("candidate matches", err)
	}
	return out, nil
}

func (s *neo4jStore) PeopleBySkill(ctx context.Context, skillName string, minLevel int) ([]domain.SkillHolder, error) {
	key, _ := domain.CanonicalSkill(skillName)
	session := s.readSession(ctx)
	defer session.Close(ctx)

	res, err := session.Run(ctx, `
MATCH (p:Person)-[h:HAS_SKILL]->(s:Skill {id: $key})
WHERE h.level >= $min
RETURN p.id AS personId, p.name AS name, p.role AS role, h.level AS level
ORDER BY level DESC, personId ASC
`, map[string]any{"key": key, "min": minLevel})
	if err != nil {
		return nil, unavailable("people by skill", err)
	}
	var out []domain.SkillHolder
	for res.Next(ctx) {
		rec := res.Record()
		out = append(out, domain.SkillHolder{
			PersonID: recStr(rec, "personId"),
			Name:     recStr(rec, "name"),
			Role:     recStr(rec, "role"),
			Level:    recInt(rec, "level"),
		})
	}
	if err := res.Err(); err != nil {
		return nil, unavailable("people by skill", err)
	}
	return out, nil
}

func (s *neo4jStore) CourseGrants(ctx context.Context, courseID string) ([]domain.GrantedSkill, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	res, err := session.Run(ctx, `
MATCH (c:Course {id: $id})-[t:TEACHES]->(s:Skill)
RETURN s.name AS name, t.level AS level
ORDER BY name ASC
`, map[string]any{"id": courseID})
	if err != nil {
		return nil, unavailable("course grants", err)
	}
	var out []domain.GrantedSkill
	for res.Next(ctx) {
		rec := res.Record()
		out = append(out, domain.GrantedSkill{
			Name:  recStr(rec, "name"),
			Level: recInt(rec, "level"),
		})
	}
	if err := res.Err(); err != nil {
		return nil, unavailable("course grants", err)
	}
	return out, nil
}

func (s *neo4jStore) CourseRecommendations(ctx context.Context, personID string, limit int) ([]domain.CourseRef, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	res, err := session.Run(ctx, `
MATCH (p:Person {id: $id})-[:INTERESTED_IN]->(s:Skill)<-[:TEACHES]-(c:Course)
WITH c, s ORDER BY s.name ASC
WITH c, collect(DISTINCT s.name) AS skills
RETURN c.id AS id, c.name AS name, skills
ORDER BY size(skills) DESC, id ASC
LIMIT $limit
`, map[string]any{"id": personID, "limit": limit})
	if err != nil {
		return nil, unavailable("course recommendations", err)
	}
	var out []domain.CourseRef
	for res.Next(ctx) {
		rec := res.Record()
		out = append(out, domain.CourseRef{
			ID:            recStr(rec, "id"),
			Name:          recStr(rec, "name"),
			MatchedSkills: recStrSlice(rec, "skills"),
		})
	}
	if err := res.Err(); err != nil {
		return nil, unavailable("course recommendations", err)
	}
	return out, nil
}

func (s *neo4jStore) AppliedJobs(ctx context.Context, personID string) ([]domain.JobRef, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	res, err := session.Run(ctx, `
MATCH (p:Person {id: $id})-[:APPLIED_TO]->(j:Job)
RETURN j.id AS id, j.title AS title
ORDER BY id ASC
`, map[string]any{"id": personID})
	if err != nil {
		return nil, unavailable("applied jobs", err)
	}
	return collectJobs(ctx, res, "applied jobs")
}

func (s *neo4jStore) Applicants(ctx context.Context, jobID string) ([]domain.PersonRef, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	res, err := session.Run(ctx, `
MATCH (p:Person)-[:APPLIED_TO]->(j:Job {id: $id})
RETURN p.id AS id, p.name AS name, p.role AS role
ORDER BY id ASC
`, map[string]any{"id": jobID})
	if err != nil {
		return nil, unavailable("applicants", err)
	}
	return collectPersons(ctx, res, "applicants")
}

func (s *neo4jStore) ListJobs(ctx context.Context) ([]domain.JobRef, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	res, err := session.Run(ctx, `MATCH (j:Job) RETURN j.id AS id, j.title AS title ORDER BY id ASC`, nil)
	if err != nil {
		return nil, unavailable("list jobs", err)
	}
	return collectJobs(ctx, res, "list jobs")
}

func (s *neo4jStore) JobExists(ctx context.Context, jobID string) (bool, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	res, err := session.Run(ctx, `MATCH (j:Job {id: $id}) RETURN count(j) AS n`, map[string]any{"id": jobID})
	if err != nil {
		return false, unavailable("job exists", err)
	}
	rec, err := res.Single(ctx)
	if err != nil {
		return false, unavailable("job exists", err)
	}
	n, _ := rec.Get("n")
	count, _ := n.(int64)
	return count > 0, nil
}

// ---- record helpers ----

func collectPersons(ctx context.Context, res neo4j.ResultWithContext, op string) ([]domain.PersonRef, error) {
	var out []domain.PersonRef
	for res.Next(ctx) {
		rec := res.Record()
		out = append(out, domain.PersonRef{
			ID:   recStr(rec, "id"),
			Name: recStr(rec, "name"),
			Role: recStr(rec, "role"),
		})
	}
	if err := res.Err(); err != nil {
		return nil, unavailable(op, err)
	}
	return out, nil
}

func collectJobs(ctx context.Context, res neo4j.ResultWithContext, op string) ([]domain.JobRef, error) {
	var out []domain.JobRef
	for res.Next(ctx) {
		rec := res.Record()
		out = append(out, domain.JobRef{
			ID:    recStr(rec, "id"),
			Title: recStr(rec, "title"),
		})
	}
	if err := res.Err(); err != nil {
		return nil, unavailable(op, err)
	}
	return out, nil
}

func recStr(rec *neo4j.Record, key string) string {
	v, _ := rec.Get(key)
	s, _ := v.(string)
	return s
}

func recInt(rec *neo4j.Record, key string) int {
	v, _ := rec.Get(key)
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

func recFloat(rec *neo4j.Record, key string) float64 {
	v, _ := rec.Get(key)
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	return 0
}

func recBool(rec *neo4j.Record, key string) bool {
	v, _ := rec.Get(key)
	b, _ := v.(bool)
	return b
}

func recStrSlice(rec *neo4j.Record, key string) []string {
	v, _ := rec.Get(key)
	raw, _ := v.([]any)
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
