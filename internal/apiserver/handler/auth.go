package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/scentory/scentory/internal/apiserver/middleware"
	"github.com/scentory/scentory/internal/apiserver/service"
	"github.com/scentory/scentory/internal/common/dto"
	"github.com/scentory/scentory/internal/i18n"
)

// Auth serves registration, login, logout and the current user
type Auth struct {
	accounts *service.AccountService
	logger   *zap.Logger
}

func NewAuth(accounts *service.AccountService, logger *zap.Logger) *Auth {
	return &Auth{accounts: accounts, logger: logger}
}

// HandleRegister creates an account
func (h *Auth) HandleRegister(c *gin.Context) {
	var req dto.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toUser(user))
}

// HandleLogin exchanges form-encoded credentials for a bearer token
func (h *Auth) HandleLogin(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindWith(&req, binding.FormPost); err != nil {
		respondError(c, h.logger, bindError(err, i18n.ErrMalformedRequest))
		return
	}

	grant, err := h.accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken: grant.AccessToken,
		TokenType:   grant.TokenType,
		ExpiresIn:   int64(grant.ExpiresIn.Seconds()),
	})
}

func (h *Auth) HandleMe(c *gin.Context) {
	c.JSON(http.StatusOK, toUser(middleware.Principal(c)))
}

// HandleLogout revokes the presented token
func (h *Auth) HandleLogout(c *gin.Context) {
	if err := h.accounts.Logout(c.Request.Context(), middleware.Claims(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	noContent(c)
}
