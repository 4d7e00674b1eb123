package stage

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/llm"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/schema"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/session"
)

// #endregion

// #region prompt

const memorySystemPrompt = `You maintain the rolling memory of a document
assistant conversation. Given the prior summary and the latest exchange,
produce an updated summary (a compression, not a transcript) and the document
identifiers relevant to the latest turn only.`

// #endregion prompt

// #region memory

// Memory refreshes the conversation summary and the set of documents in
// focus. The summary and active documents are replacements, not merges:
// prior turns' documents fall out of focus unless re-referenced. Memory
// maintenance is best-effort relative to delivering the user-facing
// response, so this stage never fails the turn.
type Memory struct {
	gen *llm.Generator
	log *zap.SugaredLogger
}

// NewMemory wires the update-memory stage.
func NewMemory(gen *llm.Generator, log *zap.SugaredLogger) *Memory {
	return &Memory{gen: gen, log: log}
}

// Name returns the stage name recorded in ActionsTaken.
func (m *Memory) Name() string { return session.StageUpdateMemory }

// #endregion memory

// #region run

// Run produces the memory update. On generation failure it degrades: the
// summary is left unchanged and active documents come from identifiers
// already known locally this turn.
func (m *Memory) Run(ctx context.Context, st *session.State) (session.Update, error) {
	localIDs := localDocumentIDs(st)

	user := fmt.Sprintf("Prior summary:\n%s\nLatest exchange:\n%s\nDocuments referenced this turn: %s",
		st.ConversationSummary, recentHistory(st, 4), strings.Join(localIDs, ", "))

	var mu schema.MemoryUpdate
	err := m.gen.Generate(ctx, memorySystemPrompt, user, "memory_update", schema.MemoryUpdateSchema(), &mu)
	if err != nil {
		m.log.Warnf("[STAGE] update_memory degraded, keeping prior summary: %v", err)
		return session.Update{
			ActiveDocuments: localIDs,
			NextStage:       session.StringPtr(session.StageEnd),
		}, nil
	}

	active := mu.DocumentIDs
	if len(active) == 0 {
		active = localIDs
	}

	m.log.Infof("[STAGE] update_memory: active_documents=%d", len(active))

	return session.Update{
		ConversationSummary: session.StringPtr(mu.Summary),
		ActiveDocuments:     active,
		NextStage:           session.StringPtr(session.StageEnd),
	}, nil
}

// #endregion run

// #region local-ids

// localDocumentIDs gathers document identifiers already known this turn:
// the current response's own list first, then the turn's retrieval trace.
func localDocumentIDs(st *session.State) []string {
	if st.CurrentResponse != nil {
		if ids := st.CurrentResponse.DocumentIDs(); len(ids) > 0 {
			return ids
		}
	}

	var ids []string
	for _, tc := range st.ToolsUsed {
		if tc.Tool != ToolDocumentGet {
			continue
		}
		// Output holds the ids actually retrieved.
		var retrieved []string
		if err := json.Unmarshal([]byte(tc.Output), &retrieved); err != nil {
			continue
		}
		for _, id := range retrieved {
			ids = appendUnique(ids, id)
		}
	}
	return ids
}

// #endregion local-ids
