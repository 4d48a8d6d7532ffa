package organisation

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ftrs/dos-migration/internal/platform/docstore"
	"github.com/ftrs/dos-migration/internal/platform/fhir"
)

// Handler serves migrated organisations and their endpoints as FHIR.
type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(fhirGroup *echo.Group) {
	fhirGroup.GET("/Organization/:id", h.GetOrganizationFHIR)
	fhirGroup.GET("/Organization/:id/Endpoint", h.ListEndpointsFHIR)
}

func (h *Handler) load(c echo.Context) (*Organisation, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, c.JSON(http.StatusBadRequest, fhir.ErrorOutcome("invalid id"))
	}
	o, err := h.repo.GetByID(c.Request().Context(), id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, c.JSON(http.StatusNotFound, fhir.NotFoundOutcome("Organization", c.Param("id")))
	}
	if err != nil {
		return nil, c.JSON(http.StatusInternalServerError, fhir.ErrorOutcome(err.Error()))
	}
	return o, nil
}

func (h *Handler) GetOrganizationFHIR(c echo.Context) error {
	o, err := h.load(c)
	if o == nil {
		return err
	}
	return c.JSON(http.StatusOK, o.ToFHIR())
}

func (h *Handler) ListEndpointsFHIR(c echo.Context) error {
	o, err := h.load(c)
	if o == nil {
		return err
	}
	resources := make([]interface{}, 0, len(o.Endpoints))
	for i := range o.Endpoints {
		resources = append(resources, o.Endpoints[i].ToFHIR())
	}
	bundle, err := fhir.NewSearchBundle(c.Request().URL.Path, resources)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, fhir.ErrorOutcome(err.Error()))
	}
	return c.JSON(http.StatusOK, bundle)
}
