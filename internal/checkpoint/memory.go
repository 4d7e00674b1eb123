package checkpoint

// #region imports
import (
	"context"
	"fmt"
	"sync"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/session"
)

// #endregion

// #region memory-store
// MemoryStore is the in-process Store used by tests and the replay harness.
// Snapshots are deep-copied on both save and load so callers never alias the
// stored state.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]*session.State
}

// NewMemoryStore returns an empty in-memory checkpoint store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]*session.State)}
}

// #endregion memory-store

// #region save
// Save stores a deep copy of the state under its session identity.
func (m *MemoryStore) Save(_ context.Context, st *session.State) error {
	cp, err := st.Clone()
	if err != nil {
		return fmt.Errorf("clone state: %w", err)
	}
	m.mu.Lock()
	m.snapshots[st.SessionID] = cp
	m.mu.Unlock()
	return nil
}

// #endregion save

// #region load
// Load returns a deep copy of the stored state, or ErrNotFound.
func (m *MemoryStore) Load(_ context.Context, sessionID string) (*session.State, error) {
	m.mu.RLock()
	st, ok := m.snapshots[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	cp, err := st.Clone()
	if err != nil {
		return nil, fmt.Errorf("clone state: %w", err)
	}
	return cp, nil
}

// #endregion load

// #region close
// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }

// #endregion close
