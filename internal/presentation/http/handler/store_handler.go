package handler

import (
	"github.com/ferrigb/sistema-nota/internal/application/service"
	"github.com/ferrigb/sistema-nota/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// StoreHandler handles the store information printed on receipts
type StoreHandler struct {
	storeService *service.StoreService
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(storeService *service.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// Get returns the configured store
func (h *StoreHandler) Get(c *gin.Context) {
	store, err := h.storeService.GetStore(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Store information retrieved successfully", store)
}

// Configure creates or replaces the store information
func (h *StoreHandler) Configure(c *gin.Context) {
	var input service.ConfigureStoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	store, err := h.storeService.ConfigureStore(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Store information saved successfully", store)
}
