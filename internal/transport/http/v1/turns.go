package v1

// #region imports
import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/schema"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/workflow"
)

// #endregion

// #region request-response

// TurnRequest is the POST /v1/turns payload. SessionID is optional; a fresh
// session is created when it is empty.
type TurnRequest struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Input     string `json:"input"`
}

// TurnResponse wraps the tagged-union response so callers can always
// determine which variant was returned.
type TurnResponse struct {
	SessionID string           `json:"session_id"`
	Response  *schema.Response `json:"response"`
}

// #endregion request-response

// #region process-turn

// ProcessTurn runs one full turn. Persistence failures return 503, distinct
// from content-generation failures (502), because the next turn could not
// resume correctly.
func (h *Handler) ProcessTurn(c echo.Context) error {
	var req TurnRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errJSON("invalid_request", "malformed body"))
	}
	if req.Input == "" {
		return c.JSON(http.StatusBadRequest, errJSON("invalid_request", "input is required"))
	}
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}
	if req.UserID == "" {
		req.UserID = "anonymous"
	}

	resp, err := h.engine.ProcessTurn(c.Request().Context(), req.SessionID, req.UserID, req.Input)
	if err != nil {
		if errors.Is(err, workflow.ErrPersistence) {
			h.log.Errorf("[HTTP] persistence failure: %v", err)
			return c.JSON(http.StatusServiceUnavailable, errJSON("persistence_failure", err.Error()))
		}
		h.log.Errorf("[HTTP] turn failure: %v", err)
		return c.JSON(http.StatusBadGateway, errJSON("generation_failure", err.Error()))
	}

	return c.JSON(http.StatusOK, TurnResponse{SessionID: req.SessionID, Response: resp})
}

// #endregion process-turn
