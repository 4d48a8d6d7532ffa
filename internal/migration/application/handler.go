package application

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ftrs/dos-migration/internal/migration/events"
	"github.com/ftrs/dos-migration/internal/migration/processor"
	"github.com/ftrs/dos-migration/internal/migration/transformer"
	"github.com/ftrs/dos-migration/internal/migration/validation"
	"github.com/ftrs/dos-migration/internal/platform/auth"
	"github.com/ftrs/dos-migration/internal/platform/fhir"
	"github.com/ftrs/dos-migration/internal/referencedata"
)

type Handler struct {
	app *Application
}

func NewHandler(app *Application) *Handler {
	return &Handler{app: app}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/events/dms", h.HandleEvents, auth.RequireScope(auth.ScopeEvents))
	api.POST("/events/reference-data", h.HandleReferenceData, auth.RequireScope(auth.ScopeReferenceData))
	api.POST("/sync/full", h.FullSync, auth.RequireScope(auth.ScopeSync))
	api.POST("/sync/service/:id", h.SyncService, auth.RequireScope(auth.ScopeSync))
	api.GET("/preview/:id", h.Preview, auth.RequireScope(auth.ScopeRead))
}

func (h *Handler) HandleEvents(c echo.Context) error {
	var batch events.Batch
	if err := c.Bind(&batch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid batch: "+err.Error())
	}
	snap, err := h.app.HandleBatch(c.Request().Context(), &batch)
	switch {
	case errors.Is(err, events.ErrInvalidEvent):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, processor.ErrServiceNotFound):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *Handler) HandleReferenceData(c echo.Context) error {
	var evt events.ReferenceDataEvent
	if err := c.Bind(&evt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event: "+err.Error())
	}
	sum, err := h.app.HandleReferenceData(c.Request().Context(), evt)
	if errors.Is(err, referencedata.ErrUnknownType) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *Handler) FullSync(c echo.Context) error {
	run, err := h.app.HandleFullSync(c.Request().Context())
	if err != nil && run == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	status := http.StatusOK
	if err != nil {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, run)
}

func (h *Handler) SyncService(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	snap, err := h.app.HandleService(c.Request().Context(), id)
	if errors.Is(err, processor.ErrServiceNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, snap)
}

// PreviewResponse is the transform of one service without persistence.
type PreviewResponse struct {
	Output  *transformer.Output    `json:"output,omitempty"`
	Issues  *fhir.OperationOutcome `json:"issues,omitempty"`
	Skipped string                 `json:"skipped,omitempty"`
}

func (h *Handler) Preview(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	out, result, reason, err := h.app.Processor().Preview(c.Request().Context(), id)
	if errors.Is(err, processor.ErrServiceNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := PreviewResponse{Output: out, Skipped: reason}
	if result != nil && len(result.Issues) > 0 {
		resp.Issues = validation.ToOperationOutcome(result.Issues)
	}
	return c.JSON(http.StatusOK, resp)
}
