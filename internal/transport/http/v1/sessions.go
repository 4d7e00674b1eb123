package v1

// #region imports
import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/checkpoint"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/transcript"
)

// #endregion

// #region get-session

// GetSession returns the last checkpointed Turn State for a session.
func (h *Handler) GetSession(c echo.Context) error {
	sessionID := c.Param("session_id")

	st, err := h.engine.SessionState(c.Request().Context(), sessionID)
	if errors.Is(err, checkpoint.ErrNotFound) {
		return c.JSON(http.StatusNotFound, errJSON("not_found", "no state for session"))
	}
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errJSON("persistence_failure", err.Error()))
	}
	return c.JSON(http.StatusOK, st)
}

// #endregion get-session

// #region get-transcript

// GetTranscript returns a session's capability trace in execution order.
func (h *Handler) GetTranscript(c echo.Context) error {
	if h.transcript == nil {
		return c.JSON(http.StatusNotFound, errJSON("not_found", "transcript log not configured"))
	}
	sessionID := c.Param("session_id")

	limit := 200
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.transcript.BySession(sessionID, limit)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errJSON("persistence_failure", err.Error()))
	}
	if entries == nil {
		entries = []transcript.Entry{}
	}
	return c.JSON(http.StatusOK, map[string]any{"session_id": sessionID, "entries": entries})
}

// #endregion get-transcript
