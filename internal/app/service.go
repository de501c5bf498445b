// Package service owns the session registry. Every session holds its own
// roster tables, seeded from the configured roster when it is opened.
package service

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	repository "github.com/okian/contest/internal/adapters/repository"
	"github.com/okian/contest/internal/domain/dedupe"
	"github.com/okian/contest/internal/domain/model"
	"github.com/okian/contest/internal/domain/scoring"
	"github.com/okian/contest/internal/domain/types"
	"github.com/okian/contest/pkg/logger"
	"github.com/okian/contest/pkg/metrics"
)

// Eviction reasons reported to metrics.
const (
	reasonClosed   = "closed"
	reasonIdle     = "idle"
	reasonCapacity = "capacity"
	reasonShutdown = "shutdown"
)

type session struct {
	id       string
	store    *repository.MemoryStore
	deduper  dedupe.Deduper
	lastSeen time.Time
	elem     *list.Element
}

// Service implements the API dependencies for the roster service.
type Service struct {
	mu sync.Mutex

	sessions map[string]*session
	lru      *list.List // front = most recently used

	// Configuration
	seed        model.Roster
	maxSessions int           // 0 means unbounded
	sessionTTL  time.Duration // 0 means sessions never idle out
	dedupeSize  int
	now         func() time.Time

	aggregator *scoring.Aggregator

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSeed sets the roster every new session starts from.
func WithSeed(seed model.Roster) Option {
	return func(s *Service) {
		s.seed = seed.Clone()
	}
}

// WithMaxSessions caps the number of live sessions. Once full, opening a
// session evicts the least recently used one.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxSessions = n
		}
	}
}

// WithSessionTTL sets how long a session may sit unused before it is dropped.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithDedupeSize sets how many submission ids each session remembers.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		sessions:    make(map[string]*session),
		lru:         list.New(),
		seed:        model.Roster{Weights: model.SkillWeights{}},
		maxSessions: 1_000,
		sessionTTL:  time.Hour,
		dedupeSize:  10_000,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start prepares the service for use.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.aggregator = scoring.NewAggregator(scoring.WithLogger(s.logger))
	s.started = true

	s.logger.Info(ctx, "roster service started",
		logger.Int("maxSessions", s.maxSessions),
		logger.Duration("sessionTTL", s.sessionTTL),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("seedContestants", len(s.seed.Contestants)),
		logger.Int("seedJudges", len(s.seed.Judges)),
	)
	return nil
}

// Stop drops every session.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	for _, sess := range s.sessions {
		s.dropLocked(sess, reasonShutdown)
	}
	s.started = false
	s.logger.Info(context.Background(), "roster service stopped")
}

// OpenSession creates a session seeded from the configured roster and
// returns its id.
func (s *Service) OpenSession(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return "", ErrNotStarted
	}
	if s.maxSessions > 0 {
		for len(s.sessions) >= s.maxSessions {
			oldest := s.lru.Back()
			if oldest == nil {
				break
			}
			victim := oldest.Value.(*session)
			s.logger.Warn(ctx, "session cap reached, evicting least recently used",
				logger.String("sessionID", victim.id))
			s.dropLocked(victim, reasonCapacity)
		}
	}

	id := uuid.NewString()
	sess := &session{
		id:       id,
		store:    repository.NewMemoryStore(s.seed, repository.WithLogger(s.logger.Named("store").With(logger.String("sessionID", id)))),
		deduper:  dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize)),
		lastSeen: s.now(),
	}
	sess.elem = s.lru.PushFront(sess)
	s.sessions[id] = sess

	metrics.RecordSessionOpened()
	metrics.UpdateActiveSessions(len(s.sessions))
	s.logger.Debug(ctx, "session opened", logger.String("sessionID", id))
	return id, nil
}

// CloseSession drops the session with the given id.
func (s *Service) CloseSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("close %q: %w", id, ErrSessionNotFound)
	}
	s.dropLocked(sess, reasonClosed)
	s.logger.Debug(ctx, "session closed", logger.String("sessionID", id))
	return nil
}

// Roster returns the tables of the session with the given id.
func (s *Service) Roster(_ context.Context, id string) (repository.Roster, error) {
	sess, err := s.touch(id)
	if err != nil {
		return nil, err
	}
	return sess.store, nil
}

// SubmitScore appends entry to the session's score log. A non-empty
// submissionID that was already seen in this session is not appended
// again and reports duplicate.
func (s *Service) SubmitScore(ctx context.Context, id, submissionID string, entry model.ScoreEntry) (bool, error) {
	sess, err := s.touch(id)
	if err != nil {
		return false, err
	}
	if submissionID != "" && sess.deduper.SeenAndRecord(ctx, submissionID) {
		metrics.RecordScoreDuplicate()
		s.logger.Debug(ctx, "duplicate score submission, skipping",
			logger.String("sessionID", id),
			logger.String("submissionID", submissionID),
		)
		return true, nil
	}
	sess.store.AppendScore(ctx, entry)
	return false, nil
}

// Totals computes the weighted total per contestant name for a session.
func (s *Service) Totals(ctx context.Context, id string) (map[string]float64, error) {
	sess, err := s.touch(id)
	if err != nil {
		return nil, err
	}
	snap := sess.store.Snapshot(ctx)
	return s.aggregator.Totals(ctx, snap.Scores, snap.Weights), nil
}

// Leaderboard returns up to n ranked totals for a session. n <= 0 returns
// every row.
func (s *Service) Leaderboard(ctx context.Context, id string, n int) ([]types.Entry, error) {
	sess, err := s.touch(id)
	if err != nil {
		return nil, err
	}
	snap := sess.store.Snapshot(ctx)
	return s.aggregator.Standings(ctx, snap.Scores, snap.Weights, n), nil
}

// SweepIdle drops sessions unused for longer than the session TTL and
// reports how many were dropped.
func (s *Service) SweepIdle(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessionTTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.sessionTTL)
	dropped := 0
	// oldest sit at the back
	for el := s.lru.Back(); el != nil; {
		sess := el.Value.(*session)
		if sess.lastSeen.After(cutoff) {
			break
		}
		prev := el.Prev()
		s.dropLocked(sess, reasonIdle)
		dropped++
		el = prev
	}
	if dropped > 0 {
		s.logger.Info(ctx, "idle sessions swept", logger.Int("dropped", dropped))
	}
	return dropped
}

// Sessions returns the number of live sessions.
func (s *Service) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tracked int64
	for _, sess := range s.sessions {
		tracked += sess.deduper.Size()
	}
	stats := map[string]interface{}{
		"started":            s.started,
		"sessions":           len(s.sessions),
		"maxSessions":        s.maxSessions,
		"sessionTTL":         s.sessionTTL.String(),
		"dedupeSize":         s.dedupeSize,
		"trackedSubmissions": tracked,
	}
	metrics.UpdateActiveSessions(len(s.sessions))
	return stats
}

// touch looks a session up and marks it as used. A session past its TTL
// is dropped and reported as not found.
func (s *Service) touch(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	now := s.now()
	if s.sessionTTL > 0 && now.Sub(sess.lastSeen) >= s.sessionTTL {
		s.dropLocked(sess, reasonIdle)
		return nil, fmt.Errorf("session %q expired: %w", id, ErrSessionNotFound)
	}
	sess.lastSeen = now
	s.lru.MoveToFront(sess.elem)
	return sess, nil
}

func (s *Service) dropLocked(sess *session, reason string) {
	s.lru.Remove(sess.elem)
	delete(s.sessions, sess.id)
	metrics.RecordSessionEvicted(reason)
	metrics.UpdateActiveSessions(len(s.sessions))
}
