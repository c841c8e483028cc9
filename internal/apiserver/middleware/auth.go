package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scentory/scentory/internal/apiserver/database"
	"github.com/scentory/scentory/internal/auth/jwt"
	"github.com/scentory/scentory/internal/common/cnst"
	"github.com/scentory/scentory/internal/i18n"
)

// PrincipalResolver turns a bearer token into the requesting user
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, token string) (*database.User, *jwt.Claims, error)
}

// Authenticate resolves the bearer token and stores the principal and its
// claims in the context. Failures answer 401 with a Bearer challenge.
func Authenticate(resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(cnst.HeaderAuthorization))
		if !ok {
			unauthenticated(c, i18n.ErrNotAuthenticated)
			return
		}

		user, claims, err := resolver.ResolvePrincipal(c.Request.Context(), token)
		if err != nil {
			if e, ok := i18n.AsErrorWithCode(err); ok && e.GetCode() == i18n.ErrorUnauthorized {
				unauthenticated(c, err)
				return
			}
			_ = c.Error(err)
			i18n.RespondWithError(c, err)
			return
		}

		c.Set(cnst.CtxKeyPrincipal, user)
		c.Set(cnst.CtxKeyClaims, claims)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, cnst.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthenticated(c *gin.Context, err error) {
	c.Header(cnst.HeaderWWWAuthenticate, cnst.BearerScheme)
	i18n.RespondWithError(c, err)
}

// RequireActiveUser admits only active principals whose token role is USER
func RequireActiveUser() gin.HandlerFunc {
	return requireRole(cnst.RoleUser, i18n.ErrUserRoleRequired)
}

// RequireAdmin admits only active principals whose token role is ADMIN
func RequireAdmin() gin.HandlerFunc {
	return requireRole(cnst.RoleAdmin, i18n.ErrAdminRequired)
}

func requireRole(role cnst.Role, denied *i18n.ErrorWithCode) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := Principal(c)
		if user == nil {
			unauthenticated(c, i18n.ErrNotAuthenticated)
			return
		}
		if !user.IsActive {
			i18n.RespondWithError(c, i18n.ErrInactiveUser)
			return
		}
		if user.Role != role {
			i18n.RespondWithError(c, denied)
			return
		}
		c.Next()
	}
}

// Principal returns the user stored by Authenticate, or nil
func Principal(c *gin.Context) *database.User {
	v, ok := c.Get(cnst.CtxKeyPrincipal)
	if !ok {
		return nil
	}
	user, _ := v.(*database.User)
	return user
}

// Claims returns the token claims stored by Authenticate, or nil
func Claims(c *gin.Context) *jwt.Claims {
	v, ok := c.Get(cnst.CtxKeyClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*jwt.Claims)
	return claims
}
