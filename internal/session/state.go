package session

// #region imports
import (
	"encoding/json"
	"time"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/schema"
)

// #endregion

// #region stage-names

// Stage names as recorded in NextStage and ActionsTaken.
const (
	StageClassify     = "classify_intent"
	StageAnswer       = "answer"
	StageSummarize    = "summarize"
	StageCalculate    = "calculate"
	StageUpdateMemory = "update_memory"
	StageEnd          = "end"
)

// RouteIntent maps a classification category to the specialized stage that
// handles it. Unknown and unrecognized categories fall back to the answer
// stage: an unroutable request is better served by an attempt at direct
// answering than by failure.
func RouteIntent(c schema.IntentCategory) string {
	switch c {
	case schema.IntentAnswerQuestion:
		return StageAnswer
	case schema.IntentSummarize:
		return StageSummarize
	case schema.IntentCalculate:
		return StageCalculate
	default:
		return StageAnswer
	}
}

// #endregion

// #region message

// Message is one entry in the append-only conversation log.
type Message struct {
	Role      string    `json:"role"` // "user" | "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// #endregion

// #region tool-call

// ToolCall records one external capability invocation made during a turn.
// Input and Output are JSON-encoded so the transcript stays queryable.
type ToolCall struct {
	Tool      string    `json:"tool"`
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	CreatedAt time.Time `json:"created_at"`
}

// #endregion

// #region state

// State is the shared Turn State for one session, threaded through the
// workflow graph and checkpointed after every stage. MessageLog and
// ActionsTaken grow monotonically across the session lifetime; all other
// fields reflect only the latest turn or latest summarization.
type State struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`

	UserInput  string    `json:"user_input"`
	MessageLog []Message `json:"message_log"`

	Intent    *schema.Intent `json:"intent,omitempty"`
	NextStage string         `json:"next_stage"`

	ConversationSummary string   `json:"conversation_summary"`
	ActiveDocuments     []string `json:"active_documents"`

	CurrentResponse *schema.Response `json:"current_response,omitempty"`
	ToolsUsed       []ToolCall       `json:"tools_used"`

	ActionsTaken []string `json:"actions_taken"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewState creates the initial Turn State on first contact with a session.
func NewState(sessionID, userID string) *State {
	now := time.Now().UTC()
	return &State{
		SessionID: sessionID,
		UserID:    userID,
		NextStage: StageClassify,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// #endregion

// #region begin-turn

// BeginTurn prepares the state for a new turn: sets the raw input, appends
// the user message to the log, and resets the per-turn tool trace. These are
// turn-boundary actions; everything inside the turn goes through reducers.
func (s *State) BeginTurn(input string) {
	now := time.Now().UTC()
	s.UserInput = input
	s.MessageLog = append(s.MessageLog, Message{Role: "user", Content: input, CreatedAt: now})
	s.ToolsUsed = nil
	s.UpdatedAt = now
}

// #endregion

// #region clone

// Clone returns a deep copy via the JSON codec, so in-memory checkpoints
// never alias the live state.
func (s *State) Clone() (*State, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out State
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// #endregion
