package eval

// #region imports
import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// #endregion

// #region remote

// Remote calls an external evaluation service: POST /evaluate with the
// expression, numeric result back. Evaluation failures (4xx and service-side
// errors) wrap ErrEvaluation so the calculation stage can fall back.
type Remote struct {
	baseURL    string
	httpClient *http.Client
}

// NewRemote creates a client for the evaluation service.
func NewRemote(baseURL string, timeout time.Duration) *Remote {
	return &Remote{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// #endregion remote

// #region wire-types

type evaluateRequest struct {
	Expression string `json:"expression"`
}

type evaluateResponse struct {
	Result float64 `json:"result"`
	Error  string  `json:"error,omitempty"`
}

// #endregion wire-types

// #region evaluate

// Evaluate sends the expression to the service.
func (r *Remote) Evaluate(ctx context.Context, expression string) (float64, error) {
	body, err := json.Marshal(evaluateRequest{Expression: expression})
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/evaluate", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEvaluation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%w: read response: %v", ErrEvaluation, err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d", ErrEvaluation, resp.StatusCode)
	}

	var parsed evaluateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return 0, fmt.Errorf("%w: decode response: %v", ErrEvaluation, err)
	}
	if parsed.Error != "" {
		return 0, fmt.Errorf("%w: %s", ErrEvaluation, parsed.Error)
	}
	return parsed.Result, nil
}

// #endregion evaluate
