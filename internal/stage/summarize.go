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

const summarizeSystemPrompt = `You summarize the provided documents for the
user. Produce a concise summary and the key points that matter for the user's
request.`

// summarizeSearchLimit caps how many documents a multi-document request pulls in.
const summarizeSearchLimit = 8

// #endregion prompt

// #region summarize

// Summarize condenses one or more retrieved documents into a structured
// summary with key points.
type Summarize struct {
	gen  *llm.Generator
	docs DocumentStore
	log  *zap.SugaredLogger
}

// NewSummarize wires the summarize stage.
func NewSummarize(gen *llm.Generator, store DocumentStore, log *zap.SugaredLogger) *Summarize {
	return &Summarize{gen: gen, docs: store, log: log}
}

// Name returns the stage name recorded in ActionsTaken.
func (s *Summarize) Name() string { return session.StageSummarize }

// #endregion summarize

// #region run

// Run resolves the documents the request spans, retrieves each, and generates
// the summary. With no retrievable content there is nothing to summarize, so
// the turn fails.
func (s *Summarize) Run(ctx context.Context, st *session.State) (session.Update, error) {
	var tools []session.ToolCall

	ids := docIDsIn(st.UserInput)
	if len(ids) == 0 {
		results, err := s.docs.Search(ctx, st.UserInput, docs.Filters{Limit: summarizeSearchLimit})
		if err != nil {
			s.log.Warnf("[STAGE] summarize: search unavailable: %v", err)
		} else {
			hitIDs := make([]string, len(results))
			for i, r := range results {
				hitIDs[i] = r.ID
				ids = appendUnique(ids, r.ID)
			}
			tools = append(tools, toolCall(ToolDocumentSearch, st.UserInput, hitIDs))
		}
	}
	if len(ids) == 0 {
		ids = append(ids, st.ActiveDocuments...)
	}
	if len(ids) == 0 {
		return session.Update{}, fmt.Errorf("summarize: no documents matched the request")
	}

	found, missing, err := s.docs.Get(ctx, ids)
	if err != nil {
		return session.Update{}, fmt.Errorf("summarize: retrieval failed: %w", err)
	}
	covered := consultedIDs(ids, found)
	tools = append(tools, toolCall(ToolDocumentGet, ids, covered))
	if len(covered) == 0 {
		return session.Update{}, fmt.Errorf("summarize: none of the requested documents exist: %s", strings.Join(missing, ", "))
	}

	originalLength := 0
	for _, id := range covered {
		originalLength += len(found[id].Content)
	}

	user := fmt.Sprintf("Documents:\n%s\nRequest: %s", contextBlock(ids, found), st.UserInput)

	var res schema.SummarizationResult
	if err := s.gen.Generate(ctx, summarizeSystemPrompt, user, "summarization_result", schema.SummarizationSchema(), &res); err != nil {
		return session.Update{}, fmt.Errorf("summarization generation: %w", err)
	}

	// Covered documents and the content size are computed, not model-claimed.
	res.DocumentIDs = covered
	res.OriginalLength = originalLength
	res.Timestamp = time.Now().UTC()

	s.log.Infof("[STAGE] summarize: documents=%d original_length=%d", len(covered), originalLength)

	return session.Update{
		CurrentResponse: schema.NewSummaryResponse(res),
		MessageLog:      []session.Message{{Role: "assistant", Content: res.Summary, CreatedAt: res.Timestamp}},
		ToolsUsed:       tools,
		NextStage:       session.StringPtr(session.StageUpdateMemory),
	}, nil
}

// #endregion run
