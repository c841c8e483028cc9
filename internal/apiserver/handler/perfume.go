package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/scentory/scentory/internal/apiserver/database"
	"github.com/scentory/scentory/internal/apiserver/service"
	"github.com/scentory/scentory/internal/common/dto"
)

// Perfume serves the requester's collection
type Perfume struct {
	catalog *service.CatalogService
	logger  *zap.Logger
}

func NewPerfume(catalog *service.CatalogService, logger *zap.Logger) *Perfume {
	return &Perfume{catalog: catalog, logger: logger}
}

func (h *Perfume) HandleCreate(c *gin.Context) {
	var req dto.CreatePerfumeRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	perfume, err := h.catalog.Create(c.Request.Context(), principalID(c), service.PerfumeInput{
		Name:          req.Name,
		Brand:         req.Brand,
		Concentration: database.Concentration(req.Concentration),
		Season:        database.Season(req.Season),
		Available:     req.Available,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toPerfume(perfume))
}

func (h *Perfume) HandleList(c *gin.Context) {
	var q dto.PerfumeListQuery
	if err := bindQuery(c, &q); err != nil {
		respondError(c, h.logger, err)
		return
	}

	query := service.PerfumeQuery{
		Available: q.Available,
		Brand:     q.Brand,
		SortBy:    q.SortBy,
		Order:     q.Order,
		Limit:     q.Limit,
		Offset:    q.Offset,
	}
	if q.Concentration != nil {
		v := database.Concentration(*q.Concentration)
		query.Concentration = &v
	}
	if q.Season != nil {
		v := database.Season(*q.Season)
		query.Season = &v
	}

	items, total, err := h.catalog.List(c.Request.Context(), principalID(c), query)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPage(mapSlice(items, toPerfume), total))
}

func (h *Perfume) HandleGet(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	perfume, err := h.catalog.Get(c.Request.Context(), id, principalID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toPerfume(perfume))
}

func (h *Perfume) HandleUpdate(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req dto.UpdatePerfumeRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	patch := service.PerfumePatch{Name: req.Name, Brand: req.Brand, Available: req.Available}
	if req.Concentration != nil {
		v := database.Concentration(*req.Concentration)
		patch.Concentration = &v
	}
	if req.Season != nil {
		v := database.Season(*req.Season)
		patch.Season = &v
	}

	perfume, err := h.catalog.Update(c.Request.Context(), id, principalID(c), patch)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toPerfume(perfume))
}

func (h *Perfume) HandleDelete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.catalog.Delete(c.Request.Context(), id, principalID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	noContent(c)
}

// HandleListPurchases pages through the purchases recorded against one perfume
func (h *Perfume) HandleListPurchases(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var q dto.PageQuery
	if err := bindQuery(c, &q); err != nil {
		respondError(c, h.logger, err)
		return
	}

	items, total, err := h.catalog.ListPurchasesFor(c.Request.Context(), id, principalID(c), q.Limit, q.Offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, purchasePage(items, total))
}
