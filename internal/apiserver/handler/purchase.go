package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/scentory/scentory/internal/apiserver/service"
	"github.com/scentory/scentory/internal/common/dto"
)

// Purchase serves the spending ledger
type Purchase struct {
	ledger *service.LedgerService
	logger *zap.Logger
}

func NewPurchase(ledger *service.LedgerService, logger *zap.Logger) *Purchase {
	return &Purchase{ledger: ledger, logger: logger}
}

func (h *Purchase) HandleCreate(c *gin.Context) {
	var req dto.CreatePurchaseRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	purchase, err := h.ledger.Create(c.Request.Context(), principalID(c), service.PurchaseInput{
		PerfumeID: req.PerfumeID,
		Date:      req.Date.Time,
		Price:     *req.Price,
		Store:     req.Store,
		ML:        req.ML,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toPurchase(purchase))
}

func (h *Purchase) HandleList(c *gin.Context) {
	var q dto.PurchaseListQuery
	if err := bindQuery(c, &q); err != nil {
		respondError(c, h.logger, err)
		return
	}

	items, total, err := h.ledger.List(c.Request.Context(), principalID(c), service.PurchaseQuery{
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		MinPrice:  q.MinPrice,
		MaxPrice:  q.MaxPrice,
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, purchasePage(items, total))
}

func (h *Purchase) HandleGet(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	purchase, err := h.ledger.Get(c.Request.Context(), id, principalID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toPurchase(purchase))
}

func (h *Purchase) HandleDelete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.ledger.Delete(c.Request.Context(), id, principalID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	noContent(c)
}
