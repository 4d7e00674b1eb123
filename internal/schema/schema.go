package schema

// #region imports
import (
	"fmt"
	"time"
)

// #endregion

// #region intent-category

// IntentCategory classifies what the user is asking for.
type IntentCategory string

const (
	IntentAnswerQuestion IntentCategory = "answer_question"
	IntentSummarize      IntentCategory = "summarize"
	IntentCalculate      IntentCategory = "calculate"
	IntentUnknown        IntentCategory = "unknown"
)

// Valid reports whether c is one of the recognized categories.
func (c IntentCategory) Valid() bool {
	switch c {
	case IntentAnswerQuestion, IntentSummarize, IntentCalculate, IntentUnknown:
		return true
	default:
		return false
	}
}

// #endregion

// #region intent

// Intent is the structured output of the classification stage.
type Intent struct {
	Category   IntentCategory `json:"category"`
	Confidence float64        `json:"confidence"`
	Reasoning  string         `json:"reasoning"`
}

// Validate checks the category enum and confidence range.
func (i Intent) Validate() error {
	if !i.Category.Valid() {
		return fmt.Errorf("intent: unrecognized category %q", i.Category)
	}
	if i.Confidence < 0 || i.Confidence > 1 {
		return fmt.Errorf("intent: confidence %.3f outside [0,1]", i.Confidence)
	}
	return nil
}

// #endregion

// #region answer-result

// highConfidenceFloor is the confidence above which an answer must cite sources.
const highConfidenceFloor = 0.7

// AnswerResult is the structured output of the answer stage.
type AnswerResult struct {
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Sources    []string  `json:"sources"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// Validate enforces the confidence range and the sources-when-confident rule.
func (r AnswerResult) Validate() error {
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("answer: confidence %.3f outside [0,1]", r.Confidence)
	}
	if r.Confidence >= highConfidenceFloor && len(r.Sources) == 0 {
		return fmt.Errorf("answer: confidence %.2f requires at least one source", r.Confidence)
	}
	if r.Answer == "" {
		return fmt.Errorf("answer: empty answer text")
	}
	return nil
}

// #endregion

// #region summarization-result

// SummarizationResult is the structured output of the summarize stage.
type SummarizationResult struct {
	Summary        string    `json:"summary"`
	KeyPoints      []string  `json:"key_points"`
	DocumentIDs    []string  `json:"document_ids"`
	OriginalLength int       `json:"original_length"`
	Timestamp      time.Time `json:"timestamp"`
}

// Validate checks for non-empty summary text.
func (r SummarizationResult) Validate() error {
	if r.Summary == "" {
		return fmt.Errorf("summarization: empty summary text")
	}
	if r.OriginalLength < 0 {
		return fmt.Errorf("summarization: negative original length %d", r.OriginalLength)
	}
	return nil
}

// #endregion

// #region calculation-result

// CalculationResult is the structured output of the calculate stage.
type CalculationResult struct {
	Expression  string    `json:"expression"`
	Result      float64   `json:"result"`
	Explanation string    `json:"explanation"`
	Units       string    `json:"units,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Validate checks for a non-empty expression.
func (r CalculationResult) Validate() error {
	if r.Expression == "" {
		return fmt.Errorf("calculation: empty expression")
	}
	return nil
}

// #endregion

// #region memory-update

// MemoryUpdate is the structured output of the update-memory stage.
type MemoryUpdate struct {
	Summary     string   `json:"summary"`
	DocumentIDs []string `json:"document_ids"`
}

// Validate checks for non-empty summary text.
func (m MemoryUpdate) Validate() error {
	if m.Summary == "" {
		return fmt.Errorf("memory update: empty summary")
	}
	return nil
}

// #endregion
