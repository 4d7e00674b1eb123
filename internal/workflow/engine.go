// Package workflow executes the fixed turn-processing graph:
//
//	classify_intent → (conditional) → {answer | summarize | calculate} → update_memory → END
//
// over the shared Turn State, merging each stage's partial update with
// per-field reducers and checkpointing the whole state after every stage.
package workflow

// #region imports
import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/checkpoint"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/schema"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/session"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/transcript"
)

// #endregion

// #region errors

// ErrPersistence marks checkpoint-store failures. They are fatal to the turn
// and distinct from content-generation failures, since the next turn could
// not resume correctly.
var ErrPersistence = errors.New("workflow: persistence failure")

// #endregion errors

// #region stage-interface

// Stage is a single named unit of work in the processing graph. Run returns
// a partial update; it must not mutate the state directly.
type Stage interface {
	Name() string
	Run(ctx context.Context, st *session.State) (session.Update, error)
}

// #endregion stage-interface

// #region engine

// Engine walks the graph for one turn at a time. Turns for the same session
// are serialized; distinct sessions are independent and may run concurrently.
type Engine struct {
	stages     map[string]Stage
	store      checkpoint.Store
	transcript *transcript.Log // optional capability trace sink
	log        *zap.SugaredLogger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New validates that every graph node is present and returns an Engine.
func New(store checkpoint.Store, tlog *transcript.Log, log *zap.SugaredLogger, stages ...Stage) (*Engine, error) {
	byName := make(map[string]Stage, len(stages))
	for _, s := range stages {
		byName[s.Name()] = s
	}
	required := []string{
		session.StageClassify,
		session.StageAnswer,
		session.StageSummarize,
		session.StageCalculate,
		session.StageUpdateMemory,
	}
	for _, name := range required {
		if _, ok := byName[name]; !ok {
			return nil, fmt.Errorf("workflow: missing stage %q", name)
		}
	}
	return &Engine{
		stages:     byName,
		store:      store,
		transcript: tlog,
		log:        log,
		locks:      make(map[string]*sync.Mutex),
	}, nil
}

// #endregion engine

// #region process-turn

// ProcessTurn loads (or creates) the session state, runs the full stage
// sequence for one input, and returns the specialized stage's response.
func (e *Engine) ProcessTurn(ctx context.Context, sessionID, userID, input string) (*schema.Response, error) {
	lock := e.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	st, err := e.store.Load(ctx, sessionID)
	if errors.Is(err, checkpoint.ErrNotFound) {
		st = session.NewState(sessionID, userID)
		e.log.Infof("[FLOW] new session %s", sessionID)
	} else if err != nil {
		return nil, fmt.Errorf("%w: load session %s: %w", ErrPersistence, sessionID, err)
	}

	turnID := uuid.New().String()
	st.BeginTurn(input)

	if err := e.runStage(ctx, turnID, st, session.StageClassify); err != nil {
		return nil, err
	}

	// The conditional edge. RouteIntent already falls back to the answer
	// stage; re-derive here so a stale NextStage can never route elsewhere.
	next := st.NextStage
	if _, ok := e.stages[next]; !ok || next == session.StageClassify || next == session.StageUpdateMemory {
		next = session.StageAnswer
	}
	if err := e.runStage(ctx, turnID, st, next); err != nil {
		return nil, err
	}

	if err := e.runStage(ctx, turnID, st, session.StageUpdateMemory); err != nil {
		return nil, err
	}

	e.log.Infof("[FLOW] turn %s complete: session=%s stages=%d", turnID, sessionID, len(st.ActionsTaken))
	return st.CurrentResponse, nil
}

// #endregion process-turn

// #region run-stage

// runStage executes one node: a caller-supplied timeout aborts before the
// stage begins rather than mid-flight. On success the engine records the
// stage name, merges the partial update, and checkpoints the whole state; a
// failed stage's partial update is never persisted.
func (e *Engine) runStage(ctx context.Context, turnID string, st *session.State, name string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("turn aborted before stage %s: %w", name, err)
	}

	stg, ok := e.stages[name]
	if !ok {
		return fmt.Errorf("workflow: unknown stage %q", name)
	}

	upd, err := stg.Run(ctx, st)
	if err != nil {
		return fmt.Errorf("stage %s: %w", name, err)
	}

	upd.ActionsTaken = append(upd.ActionsTaken, name)
	session.Apply(st, upd)

	e.trace(turnID, st.SessionID, name, upd.ToolsUsed)

	if err := e.store.Save(ctx, st); err != nil {
		return fmt.Errorf("%w: after stage %s: %w", ErrPersistence, name, err)
	}
	return nil
}

// trace appends the stage's capability invocations to the transcript log,
// best-effort.
func (e *Engine) trace(turnID, sessionID, stageName string, calls []session.ToolCall) {
	if e.transcript == nil {
		return
	}
	for _, tc := range calls {
		err := e.transcript.Append(transcript.Entry{
			SessionID: sessionID,
			TurnID:    turnID,
			Stage:     stageName,
			Tool:      tc.Tool,
			Input:     tc.Input,
			Output:    tc.Output,
			CreatedAt: tc.CreatedAt,
		})
		if err != nil {
			e.log.Warnf("[FLOW] transcript append failed: %v", err)
		}
	}
}

// #endregion run-stage

// #region session-state

// SessionState returns the last checkpointed state for a session.
func (e *Engine) SessionState(ctx context.Context, sessionID string) (*session.State, error) {
	st, err := e.store.Load(ctx, sessionID)
	if errors.Is(err, checkpoint.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load session %s: %w", ErrPersistence, sessionID, err)
	}
	return st, nil
}

// #endregion session-state

// #region session-lock

func (e *Engine) sessionLock(sessionID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[sessionID] = lock
	}
	return lock
}

// #endregion session-lock
