package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/scentory/scentory/internal/apiserver/database"
	"github.com/scentory/scentory/internal/apiserver/middleware"
	"github.com/scentory/scentory/internal/apiserver/service"
	"github.com/scentory/scentory/internal/common/cnst"
	"github.com/scentory/scentory/internal/common/dto"
	"github.com/scentory/scentory/internal/i18n"
)

// respondError writes err as a translated JSON error. Server-side failures are
// logged with their cause and attached to the gin context.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	if e, ok := i18n.AsErrorWithCode(err); !ok || e.GetCode() >= i18n.ErrorInternalServer {
		_ = c.Error(err)
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.String("request_id", c.GetString(cnst.CtxKeyRequestID)),
			zap.Error(err),
		)
	}
	i18n.RespondWithError(c, err)
}

func bindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return bindError(err, i18n.ErrMalformedRequest)
	}
	return nil
}

func bindQuery(c *gin.Context, obj any) error {
	if err := c.ShouldBindWith(obj, binding.Query); err != nil {
		return bindError(err, i18n.ErrBadRequest)
	}
	return nil
}

// pathID parses the :id route parameter as a positive integer
func pathID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, i18n.ErrValidationFailed.WithParam("Detail", "id must be a positive integer")
	}
	return uint(id), nil
}

// principalID is the id of the authenticated user; guards run before every caller
func principalID(c *gin.Context) uint {
	if user := middleware.Principal(c); user != nil {
		return user.ID
	}
	return 0
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func toUser(u *database.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsActive:  u.IsActive,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func toPerfume(p *database.Perfume) dto.PerfumeResponse {
	return dto.PerfumeResponse{
		ID:            p.ID,
		Name:          p.Name,
		Brand:         p.Brand,
		Concentration: string(p.Concentration),
		Season:        string(p.Season),
		Available:     p.Available,
		UserID:        p.UserID,
	}
}

func toPurchase(p *database.Purchase) dto.PurchaseResponse {
	return dto.PurchaseResponse{
		ID:        p.ID,
		PerfumeID: p.PerfumeID,
		UserID:    p.UserID,
		Date:      dto.NewDate(p.Date),
		Price:     p.Price,
		Store:     p.Store,
		ML:        p.ML,
	}
}

func mapSlice[T, R any](in []T, f func(T) R) []R {
	if in == nil {
		return nil
	}
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}

func purchasePage(items []*database.Purchase, total int64) dto.Page[dto.PurchaseResponse] {
	return dto.NewPage(mapSlice(items, toPurchase), total)
}

func pageOf(q dto.PageQuery) (database.Page, error) {
	return service.NewPage(q.Limit, q.Offset)
}
