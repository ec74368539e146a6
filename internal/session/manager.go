package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crease-labs/matchdesk/internal/logic"
)

// Manager applies events to sessions one at a time per session id, so each
// event handler sees and writes a consistent state.
// Locks are process local; with a shared Redis store, requests of one
// session must reach the same instance.
type Manager struct {
	store  Store
	logger *zap.SugaredLogger

	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func NewManager(store Store, logger *zap.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger.Sugar(),
		locks:  make(map[string]*keyLock),
	}
}

// Create starts an empty session bound to csrfToken.
func (m *Manager) Create(ctx context.Context, csrfToken string) (*logic.Session, error) {
	s := logic.NewSession(uuid.NewString(), csrfToken)
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	m.logger.Infow("Session created", "session", s.ID)
	return s, nil
}

// Get loads a session without locking it.
func (m *Manager) Get(ctx context.Context, id string) (*logic.Session, error) {
	return m.store.Get(ctx, id)
}

// Update loads the session, applies fn and saves the result while holding the
// session's lock. When fn fails nothing is saved and its error is returned
// together with the unsaved session.
func (m *Manager) Update(ctx context.Context, id string, fn func(*logic.Session) error) (*logic.Session, error) {
	unlock := m.lock(id)
	defer unlock()

	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return s, err
	}
	if err := m.store.Save(ctx, s); err != nil {
		m.logger.Errorw("Failed to save session", "session", id, "error", err)
		return nil, err
	}
	return s, nil
}

// Delete discards a session. An in-flight prediction of it settles into
// ErrNotFound and is dropped.
func (m *Manager) Delete(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()

	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.logger.Infow("Session deleted", "session", id)
	return nil
}

func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &keyLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}
