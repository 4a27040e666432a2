package matching

import (
	"sort"

	"github.com/opentalent/talentgraph-backend/internal/domain"
)

// Weights configure how much a requirement match contributes per proficiency
// level. A mandatory requirement counts double by default.
type Weights struct {
	Mandatory float64 `yaml:"mandatory"`
	Desirable float64 `yaml:"desirable"`
}

func DefaultWeights() Weights {
	return Weights{Mandatory: 2.0, Desirable: 1.0}
}

// Normalized substitutes defaults for unset (zero or negative) weights.
func (w Weights) Normalized() Weights {
	d := DefaultWeights()
	if w.Mandatory <= 0 {
		w.Mandatory = d.Mandatory
	}
	if w.Desirable <= 0 {
		w.Desirable = d.Desirable
	}
	return w
}

// Score aggregates raw skill matches for one job into per-person affinity
// scores: each match contributes proficiency level × requirement weight, and
// a person's matches accumulate into a single score. Zero or negative
// contributions are kept out of the map so absent and zero-affinity people
// look the same.
func Score(matches []domain.SkillMatch, w Weights) map[string]float64 {
	w = w.Normalized()
	scores := make(map[string]float64)
	for _, m := range matches {
		if m.PersonID == "" || m.Level <= 0 {
			continue
		}
		weight := w.Desirable
		if m.Mandatory {
			weight = w.Mandatory
		}
		scores[m.PersonID] += float64(m.Level) * weight
	}
	for personID, score := range scores {
		if score <= 0 {
			delete(scores, personID)
		}
	}
	return scores
}

// Rank orders a score map as a ranked candidate list: descending score, ties
// broken by person id ascending so runs are reproducible.
func Rank(scores map[string]float64) []domain.RankingEntry {
	out := make([]domain.RankingEntry, 0, len(scores))
	for personID, score := range scores {
		if score <= 0 {
			continue
		}
		out = append(out, domain.RankingEntry{PersonID: personID, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].PersonID < out[j].PersonID
	})
	return out
}
