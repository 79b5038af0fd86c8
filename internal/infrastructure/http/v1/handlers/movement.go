package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/entity"
	"fieldstock/internal/core/id"
	"fieldstock/internal/domain/ledger"
	"fieldstock/internal/infrastructure/http/v1/dto"
)

// MovementHandler serves the movement ledger.
type MovementHandler struct {
	*BaseHandler
	service *ledger.Service
}

func NewMovementHandler(base *BaseHandler, service *ledger.Service) *MovementHandler {
	return &MovementHandler{BaseHandler: base, service: service}
}

// Create handles POST /movements: appends one ledger entry.
func (h *MovementHandler) Create(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}

	var req dto.MovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	itemID, err := id.Parse(req.ItemID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid itemId"))
		return
	}
	locationID, err := id.Parse(req.LocationID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid locationId"))
		return
	}

	m := entity.NewMovement(companyID, itemID, locationID, entity.MovementType(req.MovementType), req.Quantity)
	m.UnitCost = req.UnitCost
	m.Note = req.Note
	if req.WorkOrderID != nil {
		workOrderID, err := id.Parse(*req.WorkOrderID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid workOrderId"))
			return
		}
		m.WorkOrderID = &workOrderID
	}

	created, err := h.service.Append(c.Request.Context(), &m)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created.ID.String())
}

// List handles GET /movements with optional filters.
func (h *MovementHandler) List(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}

	filter := ledger.MovementFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}
	if raw := c.Query("itemId"); raw != "" {
		itemID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid itemId"))
			return
		}
		filter.ItemID = &itemID
	}
	if raw := c.Query("locationId"); raw != "" {
		locationID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid locationId"))
			return
		}
		filter.LocationID = &locationID
	}
	if raw := c.Query("type"); raw != "" {
		mType := entity.MovementType(raw)
		if !entity.ValidMovementType(mType) {
			h.Error(c, apperror.NewValidation("invalid movement type").WithDetail("type", raw))
			return
		}
		filter.Type = &mType
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid from date, expected RFC3339"))
			return
		}
		filter.FromDate = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid to date, expected RFC3339"))
			return
		}
		filter.ToDate = &to
	}

	movements, err := h.service.List(c.Request.Context(), companyID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(movements))
}

// ReleaseAllocation handles POST /movements/release: appends a negative
// ALLOCATION entry that frees a reservation.
func (h *MovementHandler) ReleaseAllocation(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}

	var req dto.ReleaseAllocationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	itemID, err := id.Parse(req.ItemID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid itemId"))
		return
	}
	locationID, err := id.Parse(req.LocationID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid locationId"))
		return
	}
	var workOrderID *id.ID
	if req.WorkOrderID != nil {
		parsed, err := id.Parse(*req.WorkOrderID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid workOrderId"))
			return
		}
		workOrderID = &parsed
	}

	created, err := h.service.ReleaseAllocation(c.Request.Context(), companyID, itemID, locationID, req.Quantity, workOrderID, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created.ID.String())
}
