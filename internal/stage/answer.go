package stage

// #region imports
import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/docs"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/llm"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/schema"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/session"
)

// #endregion

// #region prompt

const answerSystemPrompt = `You answer the user's question. Ground the answer
in the provided documents when they are relevant, cite their identifiers as
sources, and state a confidence in [0,1] that reflects how well the retrieved
material supports the answer.`

// degradedConfidenceCap bounds confidence when nothing could be retrieved.
const degradedConfidenceCap = 0.5

// #endregion prompt

// #region answer

// Answer handles question-answering turns, grounding responses in retrieved
// documents. It is also the fallback target for unknown intents.
type Answer struct {
	gen  *llm.Generator
	docs DocumentStore
	log  *zap.SugaredLogger
}

// NewAnswer wires the answer stage.
func NewAnswer(gen *llm.Generator, store DocumentStore, log *zap.SugaredLogger) *Answer {
	return &Answer{gen: gen, docs: store, log: log}
}

// Name returns the stage name recorded in ActionsTaken.
func (a *Answer) Name() string { return session.StageAnswer }

// #endregion answer

// #region run

// Run searches and retrieves grounding documents, then generates a structured
// answer. Retrieval failures degrade the answer rather than aborting; only a
// generation failure fails the turn.
func (a *Answer) Run(ctx context.Context, st *session.State) (session.Update, error) {
	var tools []session.ToolCall
	var notes []string

	ids := docIDsIn(st.UserInput)

	results, err := a.docs.Search(ctx, st.UserInput, docs.Filters{Limit: 5})
	if err != nil {
		a.log.Warnf("[STAGE] answer: search unavailable: %v", err)
		notes = append(notes, "document search was unavailable for this turn")
	} else {
		hitIDs := make([]string, len(results))
		for i, r := range results {
			hitIDs[i] = r.ID
			ids = appendUnique(ids, r.ID)
		}
		tools = append(tools, toolCall(ToolDocumentSearch, st.UserInput, hitIDs))
	}

	// Follow-ups without hits stay grounded in the documents in focus.
	if len(ids) == 0 {
		ids = append(ids, st.ActiveDocuments...)
	}

	var consulted []string
	var grounding string
	if len(ids) > 0 {
		found, missing, err := a.docs.Get(ctx, ids)
		if err != nil {
			a.log.Warnf("[STAGE] answer: retrieval unavailable: %v", err)
			notes = append(notes, "document retrieval was unavailable for this turn")
		} else {
			consulted = consultedIDs(ids, found)
			grounding = contextBlock(ids, found)
			tools = append(tools, toolCall(ToolDocumentGet, ids, consulted))
			if len(missing) > 0 {
				notes = append(notes, fmt.Sprintf("unknown document identifiers: %s", strings.Join(missing, ", ")))
			}
		}
	}

	user := fmt.Sprintf("Conversation so far:\n%s\nDocuments:\n%s\nQuestion: %s",
		recentHistory(st, 10), grounding, st.UserInput)
	if len(notes) > 0 {
		user += "\nCaveats to reflect in the answer: " + strings.Join(notes, "; ")
	}

	var res schema.AnswerResult
	if err := a.gen.Generate(ctx, answerSystemPrompt, user, "answer_result", schema.AnswerSchema(), &res); err != nil {
		return session.Update{}, fmt.Errorf("answer generation: %w", err)
	}

	// Sources reflect what was actually consulted, not what the model claims.
	res.Sources = consulted
	if len(consulted) == 0 && res.Confidence > degradedConfidenceCap {
		res.Confidence = degradedConfidenceCap
	}
	if res.Question == "" {
		res.Question = st.UserInput
	}
	res.Timestamp = time.Now().UTC()

	a.log.Infof("[STAGE] answer: sources=%d confidence=%.2f", len(res.Sources), res.Confidence)

	return session.Update{
		CurrentResponse: schema.NewAnswerResponse(res),
		MessageLog:      []session.Message{{Role: "assistant", Content: res.Answer, CreatedAt: res.Timestamp}},
		ToolsUsed:       tools,
		NextStage:       session.StringPtr(session.StageUpdateMemory),
	}, nil
}

// #endregion run
