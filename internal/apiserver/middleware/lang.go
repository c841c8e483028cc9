package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/scentory/scentory/internal/common/cnst"
	"github.com/scentory/scentory/internal/i18n"
)

// Lang resolves the response language once per request
func Lang() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(cnst.XLang, i18n.LanguageFromRequest(c.Request))
		c.Next()
	}
}
