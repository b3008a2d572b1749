// forum/store.go
package forum

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store owns the persisted topic collection. Every operation loads the whole
// slot, mutates it in memory and writes it back.
type Store struct {
	mu      sync.Mutex
	backend Backend
	log     *zap.Logger
	now     func() time.Time
	newID   func() string
	demo    *Generator
	minimum int
	strict  bool
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs replaces the identifier source.
func WithIDs(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithDemo makes ListTopics seed, top up and inject activity using g. The
// store keeps a copy of g that still draws from g's random source, and a
// Generator is not safe for concurrent use, so give each Store its own.
func WithDemo(g *Generator, minPerCategory int) Option {
	return func(s *Store) {
		s.demo = g
		s.minimum = minPerCategory
	}
}

// WithStrictDecode makes a corrupt slot an error instead of an empty collection.
func WithStrictDecode() Option {
	return func(s *Store) { s.strict = true }
}

func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		log:     zap.NewNop(),
		now:     time.Now,
		newID:   uuid.NewString,
		minimum: MinTopicsPerCategory,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.demo != nil {
		// ids follow the store; the caller's generator is left as is
		demo := *s.demo
		demo.newID = s.newID
		s.demo = &demo
	}
	return s
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Load reads the full collection.
func (s *Store) Load(ctx context.Context) ([]Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Save replaces the full collection.
func (s *Store) Save(ctx context.Context, topics []Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, topics)
}

func (s *Store) load(ctx context.Context) ([]Topic, error) {
	data, err := s.backend.Load(ctx)
	if err != nil {
		return nil, err
	}
	topics, err := decodeTopics(data)
	if errors.Is(err, ErrCorruptSlot) {
		if s.strict {
			return nil, err
		}
		s.log.Warn("discarding corrupt forum slot", zap.Int("bytes", len(data)), zap.Error(err))
		return []Topic{}, nil
	}
	return topics, err
}

func (s *Store) save(ctx context.Context, topics []Topic) error {
	data, err := encodeTopics(topics)
	if err != nil {
		return err
	}
	return s.backend.Save(ctx, data)
}

// ListTopics returns every topic, most recently active first. With a demo
// generator configured it seeds, tops up and injects activity before reading.
func (s *Store) ListTopics(ctx context.Context) ([]Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	topics, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if s.demo != nil {
		var mutated bool
		topics, mutated = s.populate(topics, true)
		if mutated {
			if err := s.save(ctx, topics); err != nil {
				return nil, err
			}
		}
	}
	SortByActivity(topics)
	return topics, nil
}

// Seed fills an empty collection and tops up thin categories. It returns how
// many topics were added. It does nothing without a demo generator.
func (s *Store) Seed(ctx context.Context) (int, error) {
	if s.demo == nil {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	topics, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	before := len(topics)
	topics, mutated := s.populate(topics, false)
	if !mutated {
		return 0, nil
	}
	if err := s.save(ctx, topics); err != nil {
		return 0, err
	}
	s.log.Info("seeded forum", zap.Int("added", len(topics)-before), zap.Int("total", len(topics)))
	return len(topics) - before, nil
}

// SimulateActivity runs one round of random activity. It reports whether
// anything changed.
func (s *Store) SimulateActivity(ctx context.Context) (bool, error) {
	if s.demo == nil {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	topics, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	topics, mutated := s.demo.Activity(topics, s.now())
	if !mutated {
		return false, nil
	}
	return true, s.save(ctx, topics)
}

func (s *Store) populate(topics []Topic, activity bool) ([]Topic, bool) {
	now := s.now()
	mutated := false
	if len(topics) == 0 {
		topics = s.demo.Seed(now)
		mutated = true
		s.log.Debug("seeded empty forum", zap.Int("topics", len(topics)))
	}
	topics, added := s.demo.TopUp(topics, s.minimum, now)
	mutated = mutated || added
	if activity {
		var active bool
		topics, active = s.demo.Activity(topics, now)
		mutated = mutated || active
	}
	return topics, mutated
}

// GetTopic returns nil when no topic has the given id.
func (s *Store) GetTopic(ctx context.Context, id string) (*Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	topics, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOf(topics, id); i >= 0 {
		return &topics[i], nil
	}
	return nil, nil
}

// CreateTopic stores a new topic. Field contents are not validated.
func (s *Store) CreateTopic(ctx context.Context, in NewTopic) (*Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UnixMilli()
	topic := Topic{
		ID:        s.newID(),
		Title:     in.Title,
		Category:  in.Category,
		Author:    in.Author,
		Message:   in.Message,
		CreatedAt: now,
		UpdatedAt: now,
		Views:     0,
		Replies:   []Reply{},
	}
	topics, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	topics = append(topics, topic)
	if err := s.save(ctx, topics); err != nil {
		return nil, err
	}
	return &topic, nil
}

// AddReply appends a reply to a topic. It returns nil, without writing, when
// the topic does not exist.
func (s *Store) AddReply(ctx context.Context, topicID string, in NewReply) (*Topic, error) {
	return s.update(ctx, topicID, func(t *Topic) {
		reply := Reply{
			ID:        s.newID(),
			Author:    in.Author,
			Message:   in.Message,
			CreatedAt: s.now().UnixMilli(),
		}
		t.Replies = append(t.Replies, reply)
		t.UpdatedAt = reply.CreatedAt
	})
}

// IncrementViews adds one view. It returns nil when the topic does not exist.
func (s *Store) IncrementViews(ctx context.Context, topicID string) (*Topic, error) {
	return s.update(ctx, topicID, func(t *Topic) {
		t.Views++
	})
}

func (s *Store) update(ctx context.Context, id string, fn func(*Topic)) (*Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	topics, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(topics, id)
	if i < 0 {
		return nil, nil
	}
	updated := topics[i].clone()
	fn(&updated)
	topics[i] = updated
	if err := s.save(ctx, topics); err != nil {
		return nil, err
	}
	return &updated, nil
}

func indexOf(topics []Topic, id string) int {
	return slices.IndexFunc(topics, func(t Topic) bool { return t.ID == id })
}

// SortByActivity orders topics by UpdatedAt, newest first.
func SortByActivity(topics []Topic) {
	slices.SortStableFunc(topics, func(a, b Topic) int {
		switch {
		case a.UpdatedAt > b.UpdatedAt:
			return -1
		case a.UpdatedAt < b.UpdatedAt:
			return 1
		}
		return 0
	})
}
