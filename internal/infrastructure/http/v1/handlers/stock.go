package handlers

import (
	"github.com/gin-gonic/gin"

	"stocktally/internal/domain/ledger"
	"stocktally/internal/domain/stock"
	"stocktally/internal/infrastructure/http/v1/dto"
)

// StockHandler handles stock mutations and ledger queries.
type StockHandler struct {
	*BaseHandler
	stock  *stock.Service
	ledger *ledger.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, stockSvc *stock.Service, ledgerSvc *ledger.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, stock: stockSvc, ledger: ledgerSvc}
}

// --- Mutations ---

func (h *StockHandler) Add(c *gin.Context) {
	var req dto.AddStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	m, err := h.stock.AddStock(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, m)
}

func (h *StockHandler) Remove(c *gin.Context) {
	var req dto.RemoveStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	m, err := h.stock.RemoveStock(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, m)
}

func (h *StockHandler) Adjust(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	m, err := h.stock.AdjustStock(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, m)
}

// --- Ledger queries ---

func (h *StockHandler) GetMovement(c *gin.Context) {
	movementID, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	m, err := h.ledger.GetByID(c.Request.Context(), movementID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, m)
}

func (h *StockHandler) ListMovements(c *gin.Context) {
	filter := h.movementFilter(c)

	movements, err := h.ledger.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OKList(c, movements, len(movements))
}

func (h *StockHandler) Summary(c *gin.Context) {
	filter := h.movementFilter(c)

	summary, err := h.ledger.Summary(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summary)
}

func (h *StockHandler) movementFilter(c *gin.Context) ledger.Filter {
	filter := ledger.Filter{
		ProductID: h.ParseIDQuery(c, "productId"),
		From:      h.ParseTimeQuery(c, "from"),
		To:        h.ParseTimeQuery(c, "to"),
		Limit:     h.ParseIntQuery(c, "limit", 50),
		Offset:    h.ParseIntQuery(c, "offset", 0),
	}
	if t := c.Query("type"); t != "" {
		mt := ledger.MovementType(t)
		filter.Type = &mt
	}
	return filter
}

// RegisterRoutes registers stock routes.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/add", h.Add)
	rg.POST("/remove", h.Remove)
	rg.POST("/adjust", h.Adjust)

	rg.GET("/movements", h.ListMovements)
	rg.GET("/movements/:id", h.GetMovement)
	rg.GET("/summary", h.Summary)
}
