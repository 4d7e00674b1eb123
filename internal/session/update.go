package session

// #region imports
import (
	"time"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/schema"
)

// #endregion

// #region update

// Update is the partial state delta a stage returns after execution. A stage
// only fills the fields it changes; the engine merges each field with its
// reducer from FieldReducers.
//
// Replace-fields use pointers (or nil slices) so "absent" is distinguishable
// from "set to zero value": nil leaves the existing value untouched, while a
// non-nil empty slice clears the field.
type Update struct {
	// Append fields.
	MessageLog   []Message
	ActionsTaken []string
	ToolsUsed    []ToolCall

	// Replace fields.
	UserInput           *string
	Intent              *schema.Intent
	NextStage           *string
	ConversationSummary *string
	ActiveDocuments     []string
	CurrentResponse     *schema.Response
}

// #endregion

// #region reducer-table

// ReducerKind names the merge discipline for one state field.
type ReducerKind string

const (
	ReduceAppend  ReducerKind = "append"
	ReduceReplace ReducerKind = "replace"
)

// FieldReducers is the static merge contract between stages and the engine.
// Append fields never lose history; replace fields are last-write-wins with
// absent values leaving the prior value untouched.
var FieldReducers = map[string]ReducerKind{
	"message_log":          ReduceAppend,
	"actions_taken":        ReduceAppend,
	"tools_used":           ReduceAppend,
	"user_input":           ReduceReplace,
	"intent":               ReduceReplace,
	"next_stage":           ReduceReplace,
	"conversation_summary": ReduceReplace,
	"active_documents":     ReduceReplace,
	"current_response":     ReduceReplace,
}

// mergeOrder fixes the application order so merges are reproducible.
var mergeOrder = []string{
	"message_log",
	"actions_taken",
	"tools_used",
	"user_input",
	"intent",
	"next_stage",
	"conversation_summary",
	"active_documents",
	"current_response",
}

// mergers holds one merge function per field, keyed like FieldReducers.
var mergers = map[string]func(*State, Update){
	"message_log": func(s *State, u Update) {
		s.MessageLog = append(s.MessageLog, u.MessageLog...)
	},
	"actions_taken": func(s *State, u Update) {
		s.ActionsTaken = append(s.ActionsTaken, u.ActionsTaken...)
	},
	"tools_used": func(s *State, u Update) {
		s.ToolsUsed = append(s.ToolsUsed, u.ToolsUsed...)
	},
	"user_input": func(s *State, u Update) {
		if u.UserInput != nil {
			s.UserInput = *u.UserInput
		}
	},
	"intent": func(s *State, u Update) {
		if u.Intent != nil {
			s.Intent = u.Intent
		}
	},
	"next_stage": func(s *State, u Update) {
		if u.NextStage != nil {
			s.NextStage = *u.NextStage
		}
	},
	"conversation_summary": func(s *State, u Update) {
		if u.ConversationSummary != nil {
			s.ConversationSummary = *u.ConversationSummary
		}
	},
	"active_documents": func(s *State, u Update) {
		if u.ActiveDocuments != nil {
			s.ActiveDocuments = u.ActiveDocuments
		}
	},
	"current_response": func(s *State, u Update) {
		if u.CurrentResponse != nil {
			s.CurrentResponse = u.CurrentResponse
		}
	},
}

// #endregion

// #region apply

// Apply merges a partial update into the state, one field at a time, in the
// fixed mergeOrder. Stages never touch fields outside their update.
func Apply(s *State, u Update) {
	for _, field := range mergeOrder {
		mergers[field](s, u)
	}
	s.UpdatedAt = time.Now().UTC()
}

// #endregion

// #region ptr-helpers

// StringPtr returns a pointer for replace-field updates.
func StringPtr(v string) *string { return &v }

// #endregion
