// Package v1 exposes the turn-processing workflow over HTTP.
package v1

// #region imports
import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/transcript"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/workflow"
)

// #endregion

// #region handler

// Handler bundles the engine and read-side stores for the v1 routes.
type Handler struct {
	engine     *workflow.Engine
	transcript *transcript.Log
	log        *zap.SugaredLogger
}

// NewHandler creates the v1 handler.
func NewHandler(engine *workflow.Engine, tlog *transcript.Log, log *zap.SugaredLogger) *Handler {
	return &Handler{engine: engine, transcript: tlog, log: log}
}

// Register mounts the v1 routes.
func (h *Handler) Register(e *echo.Echo) {
	e.POST("/v1/turns", h.ProcessTurn)
	e.GET("/v1/sessions/:session_id", h.GetSession)
	e.GET("/v1/sessions/:session_id/transcript", h.GetTranscript)
}

// #endregion handler

// #region error-envelope

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func errJSON(typ, msg string) errorBody {
	return errorBody{Error: errorDetail{Type: typ, Message: msg}}
}

// #endregion error-envelope
