package schema

// #region imports
import "fmt"

// #endregion

// #region response-kind

// ResponseKind tags which specialized stage produced the turn response.
type ResponseKind string

const (
	ResponseAnswer      ResponseKind = "answer"
	ResponseSummary     ResponseKind = "summary"
	ResponseCalculation ResponseKind = "calculation"
)

// #endregion

// #region response

// Response is the tagged union of specialized stage results. Exactly one
// variant matching Kind is populated; the others stay nil so callers cannot
// read fields that are meaningless for the active variant.
type Response struct {
	Kind        ResponseKind         `json:"kind"`
	Answer      *AnswerResult        `json:"answer,omitempty"`
	Summary     *SummarizationResult `json:"summary,omitempty"`
	Calculation *CalculationResult   `json:"calculation,omitempty"`
}

// NewAnswerResponse wraps an AnswerResult as the active variant.
func NewAnswerResponse(r AnswerResult) *Response {
	return &Response{Kind: ResponseAnswer, Answer: &r}
}

// NewSummaryResponse wraps a SummarizationResult as the active variant.
func NewSummaryResponse(r SummarizationResult) *Response {
	return &Response{Kind: ResponseSummary, Summary: &r}
}

// NewCalculationResponse wraps a CalculationResult as the active variant.
func NewCalculationResponse(r CalculationResult) *Response {
	return &Response{Kind: ResponseCalculation, Calculation: &r}
}

// #endregion

// #region validate

// Validate checks that exactly one variant is set and that it matches Kind.
func (r *Response) Validate() error {
	set := 0
	if r.Answer != nil {
		set++
	}
	if r.Summary != nil {
		set++
	}
	if r.Calculation != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("response: %d variants populated, want exactly 1", set)
	}
	switch r.Kind {
	case ResponseAnswer:
		if r.Answer == nil {
			return fmt.Errorf("response: kind %q without answer variant", r.Kind)
		}
	case ResponseSummary:
		if r.Summary == nil {
			return fmt.Errorf("response: kind %q without summary variant", r.Kind)
		}
	case ResponseCalculation:
		if r.Calculation == nil {
			return fmt.Errorf("response: kind %q without calculation variant", r.Kind)
		}
	default:
		return fmt.Errorf("response: unrecognized kind %q", r.Kind)
	}
	return nil
}

// #endregion

// #region document-ids

// DocumentIDs returns the document identifiers carried by the active variant.
// Calculation results carry none; callers fall back to the turn's tool trace.
func (r *Response) DocumentIDs() []string {
	switch {
	case r.Answer != nil:
		return r.Answer.Sources
	case r.Summary != nil:
		return r.Summary.DocumentIDs
	default:
		return nil
	}
}

// #endregion
