package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldstock/internal/core/apperror"
	"fieldstock/internal/core/id"
	"fieldstock/internal/domain/transfer"
	"fieldstock/internal/infrastructure/http/v1/dto"
)

// TransferHandler serves stock transfers.
type TransferHandler struct {
	*BaseHandler
	service *transfer.Service
}

func NewTransferHandler(base *BaseHandler, service *transfer.Service) *TransferHandler {
	return &TransferHandler{BaseHandler: base, service: service}
}

// Create handles POST /transfers.
func (h *TransferHandler) Create(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}

	var req dto.TransferRequest
	if !h.BindJSON(c, &req) {
		return
	}

	itemID, err := id.Parse(req.ItemID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid itemId"))
		return
	}
	fromID, err := id.Parse(req.FromLocationID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid fromLocationId"))
		return
	}
	toID, err := id.Parse(req.ToLocationID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid toLocationId"))
		return
	}

	result, err := h.service.Execute(c.Request.Context(), companyID, transfer.Request{
		ItemID:         itemID,
		FromLocationID: fromID,
		ToLocationID:   toID,
		Quantity:       req.Quantity,
		Note:           req.Note,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}
