package repository

import (
	"context"
	"sync"

	"github.com/okian/contest/internal/domain/model"
	"github.com/okian/contest/pkg/logger"
	"github.com/okian/contest/pkg/metrics"
)

// Metric label values.
const (
	entityContestant = "contestant"
	entityJudge      = "judge"
	entityWeight     = "weight"
	entityScore      = "score"

	actionAdd    = "add"
	actionUpdate = "update"
	actionRemove = "remove"
	actionSet    = "set"
	actionAppend = "append"
)

// MemoryStore is an in-memory Roster. It is safe for concurrent use.
type MemoryStore struct {
	mu sync.RWMutex

	contestants []model.Contestant
	judges      []model.Judge
	weights     model.SkillWeights
	scores      []model.ScoreEntry

	// ids only grow, so a removed row's id is never handed out again
	nextContestantID int
	nextJudgeID      int

	logger logger.Logger
}

var _ Roster = (*MemoryStore)(nil)

// NewMemoryStore creates a store holding a deep copy of seed.
func NewMemoryStore(seed model.Roster, opts ...Option) *MemoryStore {
	r := seed.Clone()
	s := &MemoryStore{
		contestants: r.Contestants,
		judges:      r.Judges,
		weights:     r.Weights,
		scores:      r.Scores,
	}
	for _, c := range s.contestants {
		s.nextContestantID = max(s.nextContestantID, c.ID)
	}
	for _, j := range s.judges {
		s.nextJudgeID = max(s.nextJudgeID, j.ID)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) trace(ctx context.Context, entity, action string, fields ...logger.Field) {
	metrics.RecordRosterMutation(entity, action)
	if s.logger != nil {
		fields = append(fields, logger.String("entity", entity), logger.String("action", action))
		s.logger.Debug(ctx, "roster mutation", fields...)
	}
}

// AddContestant appends a contestant row.
func (s *MemoryStore) AddContestant(ctx context.Context, name string, skills []string) model.Contestant {
	s.mu.Lock()
	s.nextContestantID++
	c := model.Contestant{ID: s.nextContestantID, Name: name, Skills: copyStrings(skills)}
	s.contestants = append(s.contestants, c)
	s.mu.Unlock()

	s.trace(ctx, entityContestant, actionAdd, logger.String("name", name), logger.Int("id", c.ID))
	c.Skills = copyStrings(c.Skills)
	return c
}

// UpdateContestant rewrites every row named name.
func (s *MemoryStore) UpdateContestant(ctx context.Context, name, newName string, skills []string) int {
	s.mu.Lock()
	n := 0
	for i := range s.contestants {
		if s.contestants[i].Name == name {
			s.contestants[i].Name = newName
			s.contestants[i].Skills = copyStrings(skills)
			n++
		}
	}
	s.mu.Unlock()

	s.trace(ctx, entityContestant, actionUpdate, logger.String("name", name), logger.Int("affected", n))
	return n
}

// RemoveContestant deletes every row named name.
func (s *MemoryStore) RemoveContestant(ctx context.Context, name string) int {
	s.mu.Lock()
	kept := s.contestants[:0]
	for _, c := range s.contestants {
		if c.Name != name {
			kept = append(kept, c)
		}
	}
	n := len(s.contestants) - len(kept)
	s.contestants = kept
	s.mu.Unlock()

	s.trace(ctx, entityContestant, actionRemove, logger.String("name", name), logger.Int("affected", n))
	return n
}

// Contestants returns a copy of the contestant table in insertion order.
func (s *MemoryStore) Contestants(_ context.Context) []model.Contestant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Contestant, len(s.contestants))
	for i, c := range s.contestants {
		c.Skills = copyStrings(c.Skills)
		out[i] = c
	}
	return out
}

// AddJudge appends a judge row.
func (s *MemoryStore) AddJudge(ctx context.Context, name string, skills []string) model.Judge {
	s.mu.Lock()
	s.nextJudgeID++
	j := model.Judge{ID: s.nextJudgeID, Name: name, SkillsJudged: copyStrings(skills)}
	s.judges = append(s.judges, j)
	s.mu.Unlock()

	s.trace(ctx, entityJudge, actionAdd, logger.String("name", name), logger.Int("id", j.ID))
	j.SkillsJudged = copyStrings(j.SkillsJudged)
	return j
}

// UpdateJudge rewrites every row named name.
func (s *MemoryStore) UpdateJudge(ctx context.Context, name, newName string, skills []string) int {
	s.mu.Lock()
	n := 0
	for i := range s.judges {
		if s.judges[i].Name == name {
			s.judges[i].Name = newName
			s.judges[i].SkillsJudged = copyStrings(skills)
			n++
		}
	}
	s.mu.Unlock()

	s.trace(ctx, entityJudge, actionUpdate, logger.String("name", name), logger.Int("affected", n))
	return n
}

// RemoveJudge deletes every row named name.
func (s *MemoryStore) RemoveJudge(ctx context.Context, name string) int {
	s.mu.Lock()
	kept := s.judges[:0]
	for _, j := range s.judges {
		if j.Name != name {
			kept = append(kept, j)
		}
	}
	n := len(s.judges) - len(kept)
	s.judges = kept
	s.mu.Unlock()

	s.trace(ctx, entityJudge, actionRemove, logger.String("name", name), logger.Int("affected", n))
	return n
}

// Judges returns a copy of the judge table in insertion order.
func (s *MemoryStore) Judges(_ context.Context) []model.Judge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Judge, len(s.judges))
	for i, j := range s.judges {
		j.SkillsJudged = copyStrings(j.SkillsJudged)
		out[i] = j
	}
	return out
}

// SetSkillWeight assigns weight to skill in place.
func (s *MemoryStore) SetSkillWeight(ctx context.Context, skill string, weight int) {
	s.mu.Lock()
	if s.weights == nil {
		s.weights = make(model.SkillWeights)
	}
	s.weights[skill] = weight
	s.mu.Unlock()

	s.trace(ctx, entityWeight, actionSet, logger.String("skill", skill), logger.Int("weight", weight))
}

// SkillWeights returns a copy of the weight map.
func (s *MemoryStore) SkillWeights(_ context.Context) model.SkillWeights {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weights.Clone()
}

// AppendScore adds entry to the end of the score log.
func (s *MemoryStore) AppendScore(ctx context.Context, entry model.ScoreEntry) {
	s.mu.Lock()
	s.scores = append(s.scores, entry)
	s.mu.Unlock()

	metrics.RecordScoreSubmitted()
	s.trace(ctx, entityScore, actionAppend,
		logger.String("judge", entry.Judge),
		logger.String("contestant", entry.Contestant),
		logger.String("skill", entry.Skill),
		logger.Int("score", entry.Score),
	)
}

// Scores returns a copy of the score log in append order.
func (s *MemoryStore) Scores(_ context.Context) []model.ScoreEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ScoreEntry, len(s.scores))
	copy(out, s.scores)
	return out
}

// Snapshot returns a deep copy of all tables.
func (s *MemoryStore) Snapshot(_ context.Context) model.Roster {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Roster{
		Contestants: s.contestants,
		Judges:      s.judges,
		Weights:     s.weights,
		Scores:      s.scores,
	}.Clone()
}

func copyStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
