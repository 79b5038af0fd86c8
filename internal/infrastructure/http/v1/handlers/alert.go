package handlers

import (
	"github.com/gin-gonic/gin"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/id"
	"fieldstock/internal/domain/alerts"
	"fieldstock/internal/infrastructure/http/v1/dto"
)

// AlertHandler serves stock alerts.
type AlertHandler struct {
	*BaseHandler
	service *alerts.Service
}

func NewAlertHandler(base *BaseHandler, service *alerts.Service) *AlertHandler {
	return &AlertHandler{BaseHandler: base, service: service}
}

// List handles GET /alerts. "active=true" narrows to unresolved alerts.
func (h *AlertHandler) List(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}

	filter := alerts.ListFilter{
		OnlyActive: c.Query("active") == "true",
		Limit:      h.ParseIntQuery(c, "limit", 100),
		Offset:     h.ParseIntQuery(c, "offset", 0),
	}
	if raw := c.Query("itemId"); raw != "" {
		itemID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid itemId"))
			return
		}
		filter.ItemID = &itemID
	}

	list, err := h.service.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(list))
}
