package handlers

import (
	"github.com/gin-gonic/gin"

	"stocktally/internal/domain/sale"
	"stocktally/internal/infrastructure/http/v1/dto"
)

// SaleHandler handles HTTP requests for sale settlement and lookup.
type SaleHandler struct {
	*BaseHandler
	service *sale.Service
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(base *BaseHandler, service *sale.Service) *SaleHandler {
	return &SaleHandler{BaseHandler: base, service: service}
}

func (h *SaleHandler) Settle(c *gin.Context) {
	var req dto.SettleSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cart, err := req.ToCart()
	if err != nil {
		h.Error(c, err)
		return
	}

	committed, err := h.service.Settle(c.Request.Context(), cart, req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, committed)
}

func (h *SaleHandler) Get(c *gin.Context) {
	saleID, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	s, err := h.service.GetByID(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, s)
}

func (h *SaleHandler) GetByNumber(c *gin.Context) {
	s, err := h.service.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, s)
}

func (h *SaleHandler) Delete(c *gin.Context) {
	saleID, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), saleID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

func (h *SaleHandler) List(c *gin.Context) {
	filter := sale.ListFilter{
		From:   h.ParseTimeQuery(c, "from"),
		To:     h.ParseTimeQuery(c, "to"),
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	sales, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OKList(c, sales, len(sales))
}

// RegisterRoutes registers sale routes.
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Settle)
	rg.GET("/number/:number", h.GetByNumber)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Delete)
}
