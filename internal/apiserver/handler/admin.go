package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/scentory/scentory/internal/apiserver/database"
	"github.com/scentory/scentory/internal/apiserver/service"
	"github.com/scentory/scentory/internal/common/cnst"
	"github.com/scentory/scentory/internal/common/dto"
)

// Admin serves user administration and the store-wide statistics
type Admin struct {
	accounts *service.AccountService
	stats    *service.StatsService
	logger   *zap.Logger
}

func NewAdmin(accounts *service.AccountService, stats *service.StatsService, logger *zap.Logger) *Admin {
	return &Admin{accounts: accounts, stats: stats, logger: logger}
}

func (h *Admin) HandleDashboard(c *gin.Context) {
	d, err := h.stats.AdminDashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.DashboardResponse{
		TotalUsers:     d.TotalUsers,
		TotalPerfumes:  d.TotalPerfumes,
		TotalPurchases: d.TotalPurchases,
		TotalAmount:    d.TotalAmount,
		ActiveUsers:    d.ActiveUsers,
	})
}

func (h *Admin) HandleTopUsers(c *gin.Context) {
	var q dto.TopUsersQuery
	if err := bindQuery(c, &q); err != nil {
		respondError(c, h.logger, err)
		return
	}

	top, err := h.stats.TopUsers(c.Request.Context(), q.Limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.TopUsersResponse{
		MostPerfumes: mapSlice(top.MostPerfumes, func(e *database.UserPerfumeCount) dto.PerfumeCountEntry {
			return dto.PerfumeCountEntry{PerfumeCount: e.Count, User: toUser(e.User)}
		}),
		MostExpensivePurchase: mapSlice(top.MostExpensivePurchase, func(e *database.PurchaseWithRefs) dto.ExpensivePurchaseEntry {
			return dto.ExpensivePurchaseEntry{Price: e.Purchase.Price, Perfume: toPerfume(e.Perfume), User: toUser(e.User)}
		}),
		MostExpensiveCollection: mapSlice(top.MostExpensiveCollection, func(e *database.UserSpend) dto.CollectionSpendEntry {
			return dto.CollectionSpendEntry{TotalSpent: e.Total, User: toUser(e.User)}
		}),
	})
}

func (h *Admin) HandleListUsers(c *gin.Context) {
	var q dto.PageQuery
	if err := bindQuery(c, &q); err != nil {
		respondError(c, h.logger, err)
		return
	}
	page, err := pageOf(q)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	users, total, err := h.accounts.ListUsers(c.Request.Context(), page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPage(mapSlice(users, toUser), total))
}

func (h *Admin) HandleUpdateUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req dto.UpdateUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	patch := service.UserPatch{IsActive: req.IsActive}
	if req.Role != nil {
		role := cnst.Role(*req.Role)
		patch.Role = &role
	}
	user, err := h.accounts.UpdateUser(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toUser(user))
}

func (h *Admin) HandleDeleteUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.accounts.DeleteUser(c.Request.Context(), id, principalID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	noContent(c)
}
