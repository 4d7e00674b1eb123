package stage

// #region imports
import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/llm"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/schema"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/session"
)

// #endregion

// #region prompt

const classifySystemPrompt = `You classify a user's request into one category:
answer_question (factual question to answer from documents or conversation),
summarize (condense one or more documents), calculate (arithmetic over
document figures), or unknown. Respond with the category, a confidence in
[0,1], and one sentence of reasoning.`

// #endregion prompt

// #region classifier

// Classifier determines user intent and derives the routing decision.
// Validation failures inside the generator are retried a bounded number of
// times; on exhaustion (or transport failure) the stage defaults to the
// unknown category instead of failing the turn.
type Classifier struct {
	gen *llm.Generator
	log *zap.SugaredLogger
}

// NewClassifier wires the classifier stage.
func NewClassifier(gen *llm.Generator, log *zap.SugaredLogger) *Classifier {
	return &Classifier{gen: gen, log: log}
}

// Name returns the stage name recorded in ActionsTaken.
func (c *Classifier) Name() string { return session.StageClassify }

// #endregion classifier

// #region run

// Run classifies the current input and sets intent and next_stage.
func (c *Classifier) Run(ctx context.Context, st *session.State) (session.Update, error) {
	user := fmt.Sprintf("Conversation so far:\n%s\nLatest request: %s",
		recentHistory(st, 10), st.UserInput)

	var intent schema.Intent
	err := c.gen.Generate(ctx, classifySystemPrompt, user, "user_intent", schema.IntentSchema(), &intent)
	if err != nil {
		c.log.Warnf("[STAGE] classify unavailable, defaulting to unknown: %v", err)
		intent = schema.Intent{
			Category:   schema.IntentUnknown,
			Confidence: 0,
			Reasoning:  "classification unavailable",
		}
	}

	next := session.RouteIntent(intent.Category)
	c.log.Infof("[STAGE] classify: category=%s confidence=%.2f next=%s",
		intent.Category, intent.Confidence, next)

	return session.Update{
		Intent:    &intent,
		NextStage: session.StringPtr(next),
	}, nil
}

// #endregion run
