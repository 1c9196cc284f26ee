package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-pricegen/pkg/drag"
	"github.com/goliatone/go-pricegen/pkg/forms"
)

type session struct {
	id         string
	baseURL    string
	training   *forms.TrainingForm
	prediction *forms.PredictionForm
	viewport   *drag.Bus
	logger     *zap.Logger

	loadMu           sync.Mutex
	trainingLoaded   bool
	predictionLoaded bool

	lastUsed time.Time
}

// load brings both forms to Ready. Forms that already loaded are left alone
// so a retry after a partial failure keeps edits.
func (s *session) load(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.trainingLoaded && s.predictionLoaded {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if !s.trainingLoaded {
		g.Go(func() error {
			if err := s.training.Load(gctx); err != nil {
				return err
			}
			s.trainingLoaded = true
			return nil
		})
	}
	if !s.predictionLoaded {
		g.Go(func() error {
			out, err := s.prediction.Load(gctx)
			if err != nil {
				return err
			}
			s.predictionLoaded = true
			if out.Err != nil {
				s.logger.Warn("initial prediction failed", zap.Error(out.Err))
			}
			return nil
		})
	}
	err := g.Wait()
	if err != nil {
		s.logger.Warn("session load failed", zap.Error(err))
	}
	return err
}

func (s *session) close() {
	s.prediction.Close()
}

type sessionFactory func(id, baseURL string) (*session, error)

// sessionStore keeps at most max sessions, evicting the least recently used.
type sessionStore struct {
	mu      sync.Mutex
	max     int
	items   map[string]*session
	factory sessionFactory
	now     func() time.Time
	logger  *zap.Logger
}

func newSessionStore(max int, factory sessionFactory, logger *zap.Logger) *sessionStore {
	return &sessionStore{
		max:     max,
		items:   make(map[string]*session),
		factory: factory,
		now:     time.Now,
		logger:  logger,
	}
}

func (s *sessionStore) get(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.items[id]
	if ok {
		sess.lastUsed = s.now()
	}
	return sess, ok
}

func (s *sessionStore) create(baseURL string) (*session, error) {
	sess, err := s.factory(uuid.NewString(), baseURL)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	sess.lastUsed = s.now()
	s.items[sess.id] = sess
	var evicted []*session
	for len(s.items) > s.max {
		oldest := s.oldestLocked(sess.id)
		delete(s.items, oldest.id)
		evicted = append(evicted, oldest)
	}
	s.mu.Unlock()

	for _, old := range evicted {
		s.logger.Debug("evicting session", zap.String("session", old.id))
		old.close()
	}
	return sess, nil
}

func (s *sessionStore) oldestLocked(keep string) *session {
	var oldest *session
	for id, sess := range s.items {
		if id == keep {
			continue
		}
		if oldest == nil || sess.lastUsed.Before(oldest.lastUsed) {
			oldest = sess
		}
	}
	return oldest
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *sessionStore) closeAll() {
	s.mu.Lock()
	items := s.items
	s.items = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range items {
		sess.close()
	}
}
