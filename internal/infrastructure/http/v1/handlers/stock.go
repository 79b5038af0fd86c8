package handlers

import (
	"github.com/gin-gonic/gin"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/domain/stock"
	"fieldstock/internal/infrastructure/http/v1/dto"
)

// StockHandler serves stock availability reads.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// Summaries handles GET /stock: the company-wide overview.
func (h *StockHandler) Summaries(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}

	filter := stock.SummaryFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Limit:    h.ParseIntQuery(c, "limit", 0),
		Offset:   h.ParseIntQuery(c, "offset", 0),
	}
	if raw := c.Query("status"); raw != "" {
		status := stock.Status(raw)
		switch status {
		case stock.StatusInStock, stock.StatusLowStock, stock.StatusOutOfStock:
			filter.Status = status
		default:
			h.Error(c, apperror.NewValidation("invalid status filter").WithDetail("status", raw))
			return
		}
	}

	summaries, err := h.service.Summaries(c.Request.Context(), companyID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(summaries))
}

// ItemDetail handles GET /stock/:itemId: per-location breakdown.
func (h *StockHandler) ItemDetail(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	itemID, ok := h.ParseIDParam(c, "itemId")
	if !ok {
		return
	}

	details, err := h.service.LocationDetails(c.Request.Context(), companyID, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(details))
}

// Diagnostics handles GET /stock/diagnostics: health of the read path.
func (h *StockHandler) Diagnostics(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	h.OK(c, h.service.Diagnose(c.Request.Context(), companyID))
}
