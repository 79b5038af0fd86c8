package handlers

import (
	"github.com/gin-gonic/gin"

	"fieldstock/internal/domain/catalogs/location"
	"fieldstock/internal/infrastructure/http/v1/dto"
)

// LocationHandler serves the location catalog.
type LocationHandler struct {
	*BaseHandler
	service *location.Service
}

func NewLocationHandler(base *BaseHandler, service *location.Service) *LocationHandler {
	return &LocationHandler{BaseHandler: base, service: service}
}

// Create handles POST /locations.
func (h *LocationHandler) Create(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}

	var req dto.LocationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	locType := req.Type
	if locType == "" {
		locType = location.TypeWarehouse
	}
	loc := location.NewLocation(companyID, req.Name, locType)
	loc.IsDefault = req.IsDefault

	if err := h.service.Create(c.Request.Context(), loc); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, loc.ID.String())
}

// Get handles GET /locations/:id.
func (h *LocationHandler) Get(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	locationID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	loc, err := h.service.GetByID(c.Request.Context(), companyID, locationID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, loc)
}

// Update handles PUT /locations/:id.
func (h *LocationHandler) Update(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	locationID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.LocationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	loc, err := h.service.GetByID(c.Request.Context(), companyID, locationID)
	if err != nil {
		h.Error(c, err)
		return
	}

	loc.Name = req.Name
	if req.Type != "" {
		loc.Type = req.Type
	}
	loc.IsDefault = req.IsDefault
	loc.SetVersion(req.Version)

	if err := h.service.Update(c.Request.Context(), loc); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, loc)
}

// List handles GET /locations.
func (h *LocationHandler) List(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}

	locations, err := h.service.List(c.Request.Context(), companyID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(locations))
}

// Delete handles DELETE /locations/:id.
func (h *LocationHandler) Delete(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	locationID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), companyID, locationID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
