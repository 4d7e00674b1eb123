// Package checkpoint persists one Turn State snapshot per session identity.
package checkpoint

// #region imports
import (
	"context"
	"errors"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/session"
)

// #endregion

// #region errors

// ErrNotFound is the documented "no prior state" signal for a new session.
var ErrNotFound = errors.New("checkpoint: no state for session")

// #endregion

// #region store-interface

// Store durably associates the full Turn State with its session identity.
// Save overwrites any prior checkpoint for the same identity; Load returns
// the most recent saved state or ErrNotFound. Load immediately after Save for
// the same identity returns a state equal in all fields to what was saved.
// Sessions are fully isolated from one another.
type Store interface {
	Save(ctx context.Context, st *session.State) error
	Load(ctx context.Context, sessionID string) (*session.State, error)
	Close() error
}

// #endregion
