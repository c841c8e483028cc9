package handler

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/scentory/scentory/internal/apiserver/middleware"
	"github.com/scentory/scentory/internal/apiserver/service"
	"github.com/scentory/scentory/internal/common/cnst"
	"github.com/scentory/scentory/internal/i18n"
	"github.com/scentory/scentory/pkg/metrics"
	"github.com/scentory/scentory/pkg/openapi"
	"github.com/scentory/scentory/pkg/version"
)

// Deps wires the services and cross-cutting pieces into the router
type Deps struct {
	Accounts *service.AccountService
	Catalog  *service.CatalogService
	Ledger   *service.LedgerService
	Stats    *service.StatsService
	Logger   *zap.Logger

	// Optional
	Metrics     *metrics.Metrics
	AuthLimiter *middleware.RateLimiter
	TraceName   string
}

// NewRouter builds the gin engine serving every route of the apiserver
func NewRouter(d Deps) *gin.Engine {
	RegisterValidators()

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		func(c *gin.Context) { c.Header("Server", version.UserAgent()) },
		middleware.RequestLogger(d.Logger),
		middleware.Recovery(d.Logger),
		middleware.Lang(),
	)
	if d.TraceName != "" {
		r.Use(otelgin.Middleware(d.TraceName))
	}
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	r.NoRoute(func(c *gin.Context) { i18n.RespondWithError(c, i18n.ErrRouteNotFound) })

	doc := openapi.Document(cnst.ServiceName, version.Get())
	r.GET("/", handleHealth)
	r.GET("/openapi.json", handleOpenAPI(doc))

	var (
		authH     = NewAuth(d.Accounts, d.Logger)
		perfumeH  = NewPerfume(d.Catalog, d.Logger)
		purchaseH = NewPurchase(d.Ledger, d.Logger)
		statsH    = NewStats(d.Stats, d.Logger)
		adminH    = NewAdmin(d.Accounts, d.Stats, d.Logger)

		authenticate = middleware.Authenticate(d.Accounts)
		activeUser   = middleware.RequireActiveUser()
	)

	auth := r.Group("/auth")
	{
		limited := auth.Group("")
		if d.AuthLimiter != nil {
			limited.Use(d.AuthLimiter.Middleware())
		}
		limited.POST("/register", authH.HandleRegister)
		limited.POST("/login", authH.HandleLogin)

		auth.GET("/me", authenticate, activeUser, authH.HandleMe)
		auth.POST("/logout", authenticate, authH.HandleLogout)
	}

	user := r.Group("", authenticate, activeUser)
	{
		user.POST("/perfumes", perfumeH.HandleCreate)
		user.GET("/perfumes", perfumeH.HandleList)
		user.GET("/perfumes/:id", perfumeH.HandleGet)
		user.PATCH("/perfumes/:id", perfumeH.HandleUpdate)
		user.DELETE("/perfumes/:id", perfumeH.HandleDelete)
		user.GET("/perfumes/:id/purchases", perfumeH.HandleListPurchases)

		user.POST("/purchases", purchaseH.HandleCreate)
		user.GET("/purchases", purchaseH.HandleList)
		user.GET("/purchases/:id", purchaseH.HandleGet)
		user.DELETE("/purchases/:id", purchaseH.HandleDelete)

		user.GET("/stats/spending", statsH.HandleSpending)
		user.GET("/stats/most_expensive", statsH.HandleMostExpensive)
	}

	admin := r.Group("/admin", authenticate, middleware.RequireAdmin())
	{
		admin.GET("/stats/dashboard", adminH.HandleDashboard)
		admin.GET("/stats/top-users", adminH.HandleTopUsers)
		admin.GET("/users", adminH.HandleListUsers)
		admin.PATCH("/users/:id", adminH.HandleUpdateUser)
		admin.DELETE("/users/:id", adminH.HandleDeleteUser)
	}

	return r
}

func handleHealth(c *gin.Context) {
	i18n.Success(i18n.SuccessServiceRunning).With("status", "ok").Send(c)
}

func handleOpenAPI(doc *openapi3.T) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, doc)
	}
}
