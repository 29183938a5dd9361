// internal/handlers/sale.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stockroomhq/stockroom-backend/internal/services"
	"github.com/stockroomhq/stockroom-backend/internal/utils"
)

type SaleHandler struct {
	saleService *services.SaleService
}

func NewSaleHandler(saleService *services.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// GET /sales
func (h *SaleHandler) GetSales(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.saleService.List(services.SaleSearchParams{PaginationParams: params})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, gin.H{
		"sales":             result.Sales,
		"page_total_amount": result.PageTotalAmount,
		"page_items_sold":   result.PageItemsSold,
	}, gin.H{
		"pagination": gin.H{
			"page":  params.Page,
			"limit": params.Limit,
			"total": result.Total,
		},
	})
}

// POST /sales and POST /products/:id/sell
func (h *SaleHandler) Sell(c *gin.Context) {
	var req services.SellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	// When mounted under a product, the path wins over the body.
	if idParam := c.Param("id"); idParam != "" {
		productID, err := uuid.Parse(idParam)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid product ID", nil)
			return
		}
		req.ProductID = productID
	}

	var actorID *uuid.UUID
	if userIDStr, exists := utils.GetUserIDFromContext(c); exists {
		if uid, err := uuid.Parse(userIDStr); err == nil {
			actorID = &uid
		}
	}

	result, err := h.saleService.Sell(&req, actorID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":         "Sale recorded",
		"sale":            result.Sale,
		"remaining_stock": result.RemainingStock,
	})
}

// GET /sales/:id
func (h *SaleHandler) GetSale(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid sale ID", nil)
		return
	}

	sale, err := h.saleService.Get(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"sale": sale,
	})
}

// DELETE /sales/:id
func (h *SaleHandler) DeleteSale(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid sale ID", nil)
		return
	}

	if err := h.saleService.Delete(id); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Sale deleted",
	})
}
