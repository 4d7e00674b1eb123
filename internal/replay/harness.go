// Package replay drives recorded turns through the full workflow against
// scripted capability stubs, checking routing and response kinds.
package replay

// #region imports
import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/checkpoint"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/eval"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/llm"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/session"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/stage"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/workflow"
)

// #endregion

// #region result-types

// TurnResult captures the outcome of replaying one turn.
type TurnResult struct {
	Input  string
	Stage  string // specialized stage that ran
	Kind   string // response kind returned
	Err    string
	Pass   bool
	Reason string
}

// Summary aggregates a replay run.
type Summary struct {
	Total      int
	Passed     int
	Results    []TurnResult
	FinalState *session.State
}

// #endregion result-types

// #region run

// Run replays all fixture turns through a fresh in-memory engine.
func Run(fx Fixture, log *zap.SugaredLogger) (Summary, error) {
	completer := NewScriptedCompleter()
	for name, payloads := range fx.Script {
		completer.Queue(name, payloads...)
	}
	for name, payload := range fx.Defaults {
		completer.Default(name, payload)
	}

	store := NewStaticDocs(fx.documents()...)
	gen := llm.NewGenerator(completer, "scripted", 1, log)

	engine, err := workflow.New(checkpoint.NewMemoryStore(), nil, log,
		stage.NewClassifier(gen, log),
		stage.NewAnswer(gen, store, log),
		stage.NewSummarize(gen, store, log),
		stage.NewCalculate(store, eval.NewLocal(), log),
		stage.NewMemory(gen, log),
	)
	if err != nil {
		return Summary{}, fmt.Errorf("build engine: %w", err)
	}

	const sessionID = "replay-session"
	ctx := context.Background()

	summary := Summary{Total: len(fx.Turns)}
	var actionsSeen int
	for _, turn := range fx.Turns {
		res := TurnResult{Input: turn.Input, Pass: true}

		resp, err := engine.ProcessTurn(ctx, sessionID, "replay-user", turn.Input)
		if err != nil {
			res.Err = err.Error()
			res.Pass = false
			res.Reason = "turn failed"
			summary.Results = append(summary.Results, res)
			continue
		}
		res.Kind = string(resp.Kind)

		st, err := engineState(ctx, engine, sessionID)
		if err != nil {
			return summary, err
		}
		// The specialized stage is the middle entry of this turn's three.
		if len(st.ActionsTaken) >= actionsSeen+3 {
			res.Stage = st.ActionsTaken[actionsSeen+1]
		}
		actionsSeen = len(st.ActionsTaken)
		summary.FinalState = st

		if turn.WantStage != "" && res.Stage != turn.WantStage {
			res.Pass = false
			res.Reason = fmt.Sprintf("routed to %s, want %s", res.Stage, turn.WantStage)
		}
		if turn.WantKind != "" && res.Kind != turn.WantKind {
			res.Pass = false
			res.Reason = fmt.Sprintf("kind %s, want %s", res.Kind, turn.WantKind)
		}
		if res.Pass {
			summary.Passed++
		}
		summary.Results = append(summary.Results, res)
	}
	return summary, nil
}

// engineState reloads the session snapshot the engine just checkpointed.
func engineState(ctx context.Context, engine *workflow.Engine, sessionID string) (*session.State, error) {
	return engine.SessionState(ctx, sessionID)
}

// #endregion run
