package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/scentory/scentory/internal/apiserver/service"
	"github.com/scentory/scentory/internal/common/dto"
)

// Stats serves the per-user spending rollups
type Stats struct {
	stats  *service.StatsService
	logger *zap.Logger
}

func NewStats(stats *service.StatsService, logger *zap.Logger) *Stats {
	return &Stats{stats: stats, logger: logger}
}

func (h *Stats) HandleSpending(c *gin.Context) {
	var q dto.DateRangeQuery
	if err := bindQuery(c, &q); err != nil {
		respondError(c, h.logger, err)
		return
	}

	summary, err := h.stats.SpendingSummary(c.Request.Context(), principalID(c), q.StartDate, q.EndDate)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.SpendingSummaryResponse{
		TotalSpent:     summary.TotalSpent,
		TotalPurchases: summary.TotalPurchases,
		AveragePrice:   summary.AveragePrice,
	})
}

func (h *Stats) HandleMostExpensive(c *gin.Context) {
	var q dto.MostExpensiveQuery
	if err := bindQuery(c, &q); err != nil {
		respondError(c, h.logger, err)
		return
	}

	ranked, err := h.stats.MostExpensive(c.Request.Context(), principalID(c), q.Num)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	out := make([]dto.RankedPurchaseResponse, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, dto.RankedPurchaseResponse{
			Rank:        r.Rank,
			PerfumeName: r.PerfumeName,
			Brand:       r.Brand,
			Price:       r.Price,
			Date:        dto.NewDate(r.Date),
		})
	}
	c.JSON(http.StatusOK, out)
}
