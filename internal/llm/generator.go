package llm

// #region imports
import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// #endregion

// #region errors

// ErrValidation marks structured output that failed decoding or contract
// validation after the bounded retries were exhausted. Callers distinguish it
// from transport failures with errors.Is.
var ErrValidation = errors.New("llm: structured output validation failed")

// #endregion errors

// #region validator

// Validator lets result contracts enforce their own invariants after decode.
type Validator interface {
	Validate() error
}

// #endregion validator

// #region generator

// Generator produces shape-constrained structured results from the
// generation capability, retrying validation failures a bounded number of
// times. Transport failures are returned immediately.
type Generator struct {
	completer  Completer
	model      string
	maxRetries int
	log        *zap.SugaredLogger
}

// NewGenerator wires a Generator over a Completer. maxRetries counts extra
// attempts after the first, so 2 means up to 3 calls.
func NewGenerator(completer Completer, model string, maxRetries int, log *zap.SugaredLogger) *Generator {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Generator{completer: completer, model: model, maxRetries: maxRetries, log: log}
}

// #endregion generator

// #region generate

// Generate invokes the capability with a JSON-schema constrained response
// format and decodes the result into out. If out implements Validator, the
// contract invariants are checked too.
func (g *Generator) Generate(ctx context.Context, system, user, schemaName string, schemaDef map[string]any, out any) error {
	req := ChatRequest{
		Model: g.model,
		Messages: []ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   schemaName,
				"strict": true,
				"schema": schemaDef,
			},
		},
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		content, err := g.completer.Complete(ctx, req)
		if err != nil {
			return fmt.Errorf("generate %s: %w", schemaName, err)
		}

		if err := decodeInto(content, out); err != nil {
			lastErr = err
			g.log.Warnf("[LLM] %s attempt %d invalid: %v", schemaName, attempt+1, err)
			continue
		}
		return nil
	}

	return fmt.Errorf("%w: %s after %d attempts: %v", ErrValidation, schemaName, g.maxRetries+1, lastErr)
}

// decodeInto parses the model output as JSON and runs contract validation.
// Tolerates markdown code fences around the payload.
func decodeInto(content string, out any) error {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")

	if err := json.Unmarshal([]byte(strings.TrimSpace(trimmed)), out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if v, ok := out.(Validator); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// #endregion generate
