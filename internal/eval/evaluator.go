// Package eval is the arithmetic evaluation capability used by the
// calculation stage.
package eval

// #region imports
import (
	"context"
	"errors"
)

// #endregion

// #region errors

// ErrEvaluation marks an expression the capability could not evaluate.
var ErrEvaluation = errors.New("eval: evaluation failed")

// #endregion errors

// #region evaluator

// Evaluator computes a numeric result for an arithmetic expression.
type Evaluator interface {
	Evaluate(ctx context.Context, expression string) (float64, error)
}

// #endregion evaluator
