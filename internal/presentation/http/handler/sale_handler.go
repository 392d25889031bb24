package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/ferrigb/sistema-nota/internal/application/service"
	"github.com/ferrigb/sistema-nota/internal/presentation/http/dto/request"
	"github.com/ferrigb/sistema-nota/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// SaleHandler handles sale-related HTTP requests
type SaleHandler struct {
	saleService   *service.SaleService
	ticketService *service.TicketService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService, ticketService *service.TicketService) *SaleHandler {
	return &SaleHandler{
		saleService:   saleService,
		ticketService: ticketService,
	}
}

// List returns finalized sales, newest first, as a plain array.
// With page or per_page the result is wrapped with pagination info.
func (h *SaleHandler) List(c *gin.Context) {
	params := paginationFromQuery(c)
	result, err := h.saleService.ListFinalizedSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	if params == nil {
		response.OK(c, "Sales retrieved successfully", result.Items)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "Sales retrieved successfully", result)
}

// ListAll returns a summary of every stored sale
func (h *SaleHandler) ListAll(c *gin.Context) {
	summaries, err := h.saleService.ListAllSales(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales retrieved successfully", summaries)
}

// Current returns the open sale, creating one when none exists
func (h *SaleHandler) Current(c *gin.Context) {
	sale, err := h.saleService.GetOrCreateCurrentSale(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Current sale retrieved successfully", sale)
}

// ClearCurrent discards the open sale and starts a new one
func (h *SaleHandler) ClearCurrent(c *gin.Context) {
	sale, err := h.saleService.ClearCurrentSale(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Current sale cleared successfully", sale)
}

// Create starts a new open sale
func (h *SaleHandler) Create(c *gin.Context) {
	sale, err := h.saleService.CreateSale(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale created successfully", sale)
}

// Get returns a sale with its items
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// Delete removes an open sale
func (h *SaleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	if err := h.saleService.DeleteSale(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale deleted successfully", nil)
}

// AddItem adds an item to a sale and returns the updated sale
func (h *SaleHandler) AddItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sale, err := h.saleService.AddItem(c.Request.Context(), id, req.ToSpec())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Item added successfully", sale)
}

// UpdateItem changes an item of a sale and returns the updated sale
func (h *SaleHandler) UpdateItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}
	itemID, ok := parseID(c, "item_id")
	if !ok {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	var req request.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	upd := req.ToUpdate()
	if upd.IsEmpty() {
		response.BadRequest(c, "No fields to update")
		return
	}

	sale, err := h.saleService.UpdateItem(c.Request.Context(), id, itemID, upd)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item updated successfully", sale)
}

// RemoveItem removes an item from a sale and returns the updated sale
func (h *SaleHandler) RemoveItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}
	itemID, ok := parseID(c, "item_id")
	if !ok {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	sale, err := h.saleService.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed successfully", sale)
}

// Finalize closes a sale. The body is optional.
func (h *SaleHandler) Finalize(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req request.FinalizeSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sale, err := h.saleService.FinalizeSale(c.Request.Context(), id, req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale finalized successfully", sale)
}

// Ticket downloads the receipt of a finalized sale as pdf or txt
func (h *SaleHandler) Ticket(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	file, err := h.ticketService.RenderTicket(c.Request.Context(), id, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, file.Filename, file.ContentType, file.Content)
}
