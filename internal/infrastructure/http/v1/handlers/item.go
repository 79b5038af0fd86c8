package handlers

import (
	"github.com/gin-gonic/gin"

	"fieldstock/internal/domain/audit"
	"fieldstock/internal/domain/catalogs/item"
	"fieldstock/internal/infrastructure/http/v1/dto"
)

// ItemHandler serves the item catalog.
type ItemHandler struct {
	*BaseHandler
	service *item.Service
	history audit.HistoryReader
}

func NewItemHandler(base *BaseHandler, service *item.Service, history audit.HistoryReader) *ItemHandler {
	return &ItemHandler{BaseHandler: base, service: service, history: history}
}

// Create handles POST /items.
func (h *ItemHandler) Create(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}

	var req dto.ItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	it := item.NewItem(companyID, req.Name)
	applyItemRequest(it, req)

	if err := h.service.Create(c.Request.Context(), it); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, it.ID.String())
}

// Get handles GET /items/:id.
func (h *ItemHandler) Get(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	it, err := h.service.GetByID(c.Request.Context(), companyID, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, it)
}

// Update handles PUT /items/:id.
func (h *ItemHandler) Update(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	it, err := h.service.GetByID(c.Request.Context(), companyID, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	it.Name = req.Name
	it.SetVersion(req.Version)
	applyItemRequest(it, req)

	if err := h.service.Update(c.Request.Context(), it); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, it)
}

// List handles GET /items.
func (h *ItemHandler) List(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}

	filter := item.ListFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Limit:    h.ParseIntQuery(c, "limit", 100),
		Offset:   h.ParseIntQuery(c, "offset", 0),
	}

	items, err := h.service.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(items))
}

// Categories handles GET /items/categories.
func (h *ItemHandler) Categories(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}

	categories, err := h.service.Categories(c.Request.Context(), companyID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(categories))
}

// History handles GET /items/:id/history: the item's audit trail, newest
// first.
func (h *ItemHandler) History(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)
	entries, err := h.history.EntityHistory(c.Request.Context(), companyID, "inventory_item", itemID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(entries))
}

// Dependencies handles GET /items/:id/dependencies: the deletability
// preflight.
func (h *ItemHandler) Dependencies(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	categories, err := h.service.CheckDependencies(c.Request.Context(), companyID, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.DeleteConflictResponse{Categories: categories})
}

// Delete handles DELETE /items/:id. A "force=true" query switches to the
// cascading force delete, which requires the manager role.
func (h *ItemHandler) Delete(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if c.Query("force") == "true" {
		if err := h.service.ForceDelete(ctx, companyID, itemID); err != nil {
			h.Error(c, err)
			return
		}
		h.NoContent(c)
		return
	}

	if err := h.service.Delete(ctx, companyID, itemID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

func applyItemRequest(it *item.Item, req dto.ItemRequest) {
	it.SKU = req.SKU
	it.Description = req.Description
	it.Category = req.Category
	if req.UnitOfMeasure != "" {
		it.UnitOfMeasure = req.UnitOfMeasure
	}
	it.Cost = req.Cost
	it.SellPrice = req.SellPrice
	it.ReorderPoint = req.ReorderPoint
}
