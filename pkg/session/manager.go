package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/checkout/internal/logging"
	"github.com/aretw0/checkout/pkg/domain"
	"github.com/aretw0/checkout/pkg/ports"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a crashed replica can hold a session.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// Every read-modify-write of a session runs under its lock, so two advances
// of the same checkout (e.g. a double click on "Pay") are serialized and the
// second one sees the outcome of the first.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store  ports.StateStore
	engine ports.FlowController

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
	newID   func() string
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithIDGenerator replaces the uuid generator used by Create.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// NewManager creates a new Session Manager over a store and a flow controller.
func NewManager(store ports.StateStore, engine ports.FlowController, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		engine:  engine,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Create starts a checkout under a fresh ID and persists it.
func (m *Manager) Create(ctx context.Context) (*domain.FormSession, error) {
	id := m.newID()
	var created *domain.FormSession
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		s, err := m.engine.Start(ctx, id)
		if err != nil {
			return err
		}
		if err := m.store.Save(ctx, id, s); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		created = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.logger.Debug("session created", "session_id", id)
	return created, nil
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.FormSession, error) {
	var s *domain.FormSession
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		s, err = m.store.Load(ctx, sessionID)
		return err
	})
	return s, err
}

// Save persists the session.
func (m *Manager) Save(ctx context.Context, sessionID string, s *domain.FormSession) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, sessionID, s)
	})
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying state store.
func (m *Manager) Store() ports.StateStore {
	return m.store
}

// UpdateFunc computes the next session from the current one.
type UpdateFunc func(ctx context.Context, current *domain.FormSession) (*domain.FormSession, error)

// Update loads the session, applies fn and saves the result, all under the
// session lock. A session returned together with an error is still saved:
// the flow reports blocked transitions that way and the annotations belong
// to the session.
func (m *Manager) Update(ctx context.Context, sessionID string, fn UpdateFunc) (*domain.FormSession, error) {
	var (
		next  *domain.FormSession
		opErr error
	)
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		current, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}

		next, opErr = fn(ctx, current)
		if next == nil {
			return opErr
		}
		if err := m.store.Save(ctx, sessionID, next); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return next, opErr
}

// Advance runs the flow controller's Advance on a stored session.
func (m *Manager) Advance(ctx context.Context, sessionID string) (*domain.FormSession, error) {
	return m.Update(ctx, sessionID, m.engine.Advance)
}

// Retreat runs the flow controller's Retreat on a stored session.
func (m *Manager) Retreat(ctx context.Context, sessionID string) (*domain.FormSession, error) {
	return m.Update(ctx, sessionID, m.engine.Retreat)
}

// Reset runs the flow controller's Reset on a stored session.
func (m *Manager) Reset(ctx context.Context, sessionID string) (*domain.FormSession, error) {
	return m.Update(ctx, sessionID, m.engine.Reset)
}

// ChangeField applies an input event to a stored session.
func (m *Manager) ChangeField(ctx context.Context, sessionID, field, value string) (*domain.FormSession, error) {
	return m.Update(ctx, sessionID, func(ctx context.Context, s *domain.FormSession) (*domain.FormSession, error) {
		return m.engine.ChangeField(ctx, s, field, value)
	})
}

// ValidateField applies a blur event to a stored session.
func (m *Manager) ValidateField(ctx context.Context, sessionID, field string) (*domain.FormSession, error) {
	return m.Update(ctx, sessionID, func(ctx context.Context, s *domain.FormSession) (*domain.FormSession, error) {
		return m.engine.ValidateField(ctx, s, field)
	})
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			// The request context may already be canceled; release anyway.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// IsNotFound reports whether err means the session does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrSessionNotFound)
}
