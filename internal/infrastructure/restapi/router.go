package restapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"portfolio_tracker/internal/pkg/utils"
)

// SetupRouter wires all HTTP routes into a configured Gin engine.
func SetupRouter(
	portfolioHandler *PortfolioHandler,
	walletHandler *WalletHandler,
	settingsHandler *SettingsHandler,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.Use(utils.ZapLoggerMiddleware(logger))
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/portfolio", portfolioHandler.GetPortfolioHandler)
		v1.POST("/portfolio/refresh", portfolioHandler.RefreshPortfolioHandler)

		v1.GET("/wallets", walletHandler.ListWalletsHandler)
		v1.POST("/wallets", walletHandler.AddWalletHandler)
		v1.PATCH("/wallets/:address", walletHandler.UpdateWalletHandler)
		v1.DELETE("/wallets/:address", walletHandler.RemoveWalletHandler)

		v1.GET("/currencies", settingsHandler.ListCurrenciesHandler)
		v1.PUT("/settings/currency", settingsHandler.SetCurrencyHandler)
		v1.PUT("/settings/credentials", settingsHandler.SetCredentialsHandler)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
