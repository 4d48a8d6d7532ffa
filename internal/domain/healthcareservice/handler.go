package healthcareservice

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ftrs/dos-migration/internal/platform/auth"
	"github.com/ftrs/dos-migration/internal/platform/docstore"
	"github.com/ftrs/dos-migration/internal/platform/fhir"
)

type Handler struct {
	services HealthcareServiceRepository
}

func NewHandler(services HealthcareServiceRepository) *Handler {
	return &Handler{services: services}
}

func (h *Handler) RegisterRoutes(api *echo.Group, fhirGroup *echo.Group) {
	api.GET("/healthcare-services/:id", h.GetHealthcareService, auth.RequireScope(auth.ScopeRead))
	fhirGroup.GET("/HealthcareService/:id", h.GetHealthcareServiceFHIR)
}

func (h *Handler) get(c echo.Context) (*HealthcareService, *echo.HTTPError) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	hs, err := h.services.GetByID(c.Request().Context(), id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "healthcare service not found")
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return hs, nil
}

// GetHealthcareService returns the stored document as migrated.
func (h *Handler) GetHealthcareService(c echo.Context) error {
	hs, httpErr := h.get(c)
	if httpErr != nil {
		return httpErr
	}
	return c.JSON(http.StatusOK, hs)
}

func (h *Handler) GetHealthcareServiceFHIR(c echo.Context) error {
	hs, httpErr := h.get(c)
	if httpErr != nil {
		switch httpErr.Code {
		case http.StatusNotFound:
			return c.JSON(http.StatusNotFound, fhir.NotFoundOutcome("HealthcareService", c.Param("id")))
		default:
			return c.JSON(httpErr.Code, fhir.ErrorOutcome(httpErr.Message.(string)))
		}
	}
	return c.JSON(http.StatusOK, hs.ToFHIR())
}
