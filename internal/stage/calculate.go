package stage

// #region imports
import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/docs"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/eval"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/schema"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/session"
)

// #endregion

// #region figure

// figure is one labeled numeric value extracted from document content.
type figure struct {
	Label string
	Value float64
	DocID string
}

// figurePattern matches "label: 1,234.56" style lines, optional currency sign.
var figurePattern = regexp.MustCompile(`(?i)([a-z][a-z /_-]*?)\s*[:=]\s*\$?\s*([0-9][0-9,]*\.?[0-9]*)`)

// #endregion figure

// #region calculate

// Calculate answers arithmetic requests over document figures. It retrieves
// the referenced documents, builds an expression from their figures, and
// delegates evaluation to the external capability. When that capability
// fails, it computes the result itself from the already-retrieved figures
// and discloses the fallback in the explanation.
type Calculate struct {
	docs      DocumentStore
	evaluator eval.Evaluator
	log       *zap.SugaredLogger
}

// NewCalculate wires the calculate stage.
func NewCalculate(store DocumentStore, evaluator eval.Evaluator, log *zap.SugaredLogger) *Calculate {
	return &Calculate{docs: store, evaluator: evaluator, log: log}
}

// Name returns the stage name recorded in ActionsTaken.
func (c *Calculate) Name() string { return session.StageCalculate }

// #endregion calculate

// #region run

// Run retrieves figures and produces a CalculationResult.
func (c *Calculate) Run(ctx context.Context, st *session.State) (session.Update, error) {
	var tools []session.ToolCall

	ids := docIDsIn(st.UserInput)
	if len(ids) == 0 {
		results, err := c.docs.Search(ctx, st.UserInput, docs.Filters{Limit: 3})
		if err != nil {
			return session.Update{}, fmt.Errorf("calculate: search failed: %w", err)
		}
		hitIDs := make([]string, len(results))
		for i, r := range results {
			hitIDs[i] = r.ID
			ids = appendUnique(ids, r.ID)
		}
		tools = append(tools, toolCall(ToolDocumentSearch, st.UserInput, hitIDs))
	}
	if len(ids) == 0 {
		ids = append(ids, st.ActiveDocuments...)
	}
	if len(ids) == 0 {
		return session.Update{}, fmt.Errorf("calculate: no documents matched the request")
	}

	found, _, err := c.docs.Get(ctx, ids)
	if err != nil {
		return session.Update{}, fmt.Errorf("calculate: retrieval failed: %w", err)
	}
	consulted := consultedIDs(ids, found)
	tools = append(tools, toolCall(ToolDocumentGet, ids, consulted))

	var figures []figure
	var units string
	for _, id := range consulted {
		d := found[id]
		figures = append(figures, extractFigures(d)...)
		if units == "" {
			units = d.Currency
		}
	}
	figures = dropDerivedTotals(figures)
	if len(figures) == 0 {
		return session.Update{}, fmt.Errorf("calculate: no figures found in documents %s", strings.Join(consulted, ", "))
	}

	expression := buildExpression(figures)

	result, evalErr := c.evaluator.Evaluate(ctx, expression)
	var explanation string
	if evalErr != nil {
		// Required resilience path: the stage computes the result itself and
		// says so.
		c.log.Warnf("[STAGE] calculate: evaluator failed, computing locally: %v", evalErr)
		result = 0
		for _, f := range figures {
			result += f.Value
		}
		explanation = fmt.Sprintf(
			"External evaluator was unavailable; computed manually from retrieved figures: %s = %s.",
			describeFigures(figures), formatNumber(result))
		tools = append(tools, toolCall(ToolEvaluate, expression, map[string]string{"error": evalErr.Error()}))
	} else {
		explanation = fmt.Sprintf("Evaluated %s from %s: %s = %s.",
			expression, strings.Join(consulted, ", "), describeFigures(figures), formatNumber(result))
		tools = append(tools, toolCall(ToolEvaluate, expression, result))
	}

	now := time.Now().UTC()
	res := schema.CalculationResult{
		Expression:  expression,
		Result:      result,
		Explanation: explanation,
		Units:       units,
		Timestamp:   now,
	}

	c.log.Infof("[STAGE] calculate: %s = %s (fallback=%v)", expression, formatNumber(result), evalErr != nil)

	msg := fmt.Sprintf("%s = %s", expression, formatNumber(result))
	if units != "" {
		msg += " " + units
	}
	return session.Update{
		CurrentResponse: schema.NewCalculationResponse(res),
		MessageLog:      []session.Message{{Role: "assistant", Content: msg, CreatedAt: now}},
		ToolsUsed:       tools,
		NextStage:       session.StringPtr(session.StageUpdateMemory),
	}, nil
}

// #endregion run

// #region figure-extraction

// extractFigures pulls labeled numeric values from document content.
func extractFigures(d docs.Document) []figure {
	var out []figure
	for _, m := range figurePattern.FindAllStringSubmatch(d.Content, -1) {
		raw := strings.ReplaceAll(m[2], ",", "")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		out = append(out, figure{
			Label: strings.ToLower(strings.TrimSpace(m[1])),
			Value: v,
			DocID: d.ID,
		})
	}
	return out
}

// dropDerivedTotals removes "total"-labeled figures when component figures
// exist, so a stated total is not double-counted into the computed one.
// "subtotal" is a component, not a derived total.
func dropDerivedTotals(figures []figure) []figure {
	var components []figure
	for _, f := range figures {
		if !isTotalLabel(f.Label) {
			components = append(components, f)
		}
	}
	if len(components) == 0 {
		return figures
	}
	return components
}

func isTotalLabel(label string) bool {
	return label == "total" || strings.HasSuffix(label, " total")
}

func buildExpression(figures []figure) string {
	parts := make([]string, len(figures))
	for i, f := range figures {
		parts[i] = formatNumber(f.Value)
	}
	return strings.Join(parts, " + ")
}

func describeFigures(figures []figure) string {
	parts := make([]string, len(figures))
	for i, f := range figures {
		parts[i] = fmt.Sprintf("%s (%s)", formatNumber(f.Value), f.Label)
	}
	return strings.Join(parts, " + ")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// #endregion figure-extraction
