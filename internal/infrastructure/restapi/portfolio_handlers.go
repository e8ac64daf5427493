package restapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
)

// APIPortfolioResponse is the response envelope of the portfolio endpoints.
type APIPortfolioResponse struct {
	Data struct {
		Portfolio entity.PortfolioSnapshot `json:"portfolio"`
	} `json:"data"`
	ServiceErrors []entity.PortfolioError `json:"service_errors,omitempty"`
	StatusMessage string                  `json:"status_message"`
}

// PortfolioHandler handles portfolio HTTP requests.
type PortfolioHandler struct {
	portfolioService port.PortfolioService
	converter        port.CurrencyConverter
	settings         port.SettingsStore
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(ps port.PortfolioService, cc port.CurrencyConverter, ss port.SettingsStore) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: ps,
		converter:        cc,
		settings:         ss,
	}
}

// GetPortfolioHandler serves the latest snapshot, converted to the requested
// display currency. When no snapshot exists yet a cycle is run first.
func (h *PortfolioHandler) GetPortfolioHandler(c *gin.Context) {
	ctx := c.Request.Context()

	currency := c.Query("currency")
	if currency == "" {
		currency = h.settings.SelectedCurrency()
	}
	if !entity.IsSupportedCurrency(currency) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported currency: " + currency})
		return
	}

	var serviceErrors []entity.PortfolioError
	snapshot, found := h.portfolioService.LastSnapshot()
	if !found {
		var err error
		snapshot, serviceErrors, err = h.portfolioService.Refresh(ctx)
		if err != nil {
			writeCycleError(c, err)
			return
		}
	}

	response := buildPortfolioResponse(h.converter.Convert(ctx, snapshot, currency), serviceErrors)
	c.JSON(http.StatusOK, response)
}

// RefreshPortfolioHandler forces a new aggregation cycle and serves the
// result in the selected display currency.
func (h *PortfolioHandler) RefreshPortfolioHandler(c *gin.Context) {
	ctx := c.Request.Context()

	snapshot, serviceErrors, err := h.portfolioService.Refresh(ctx)
	if err != nil {
		writeCycleError(c, err)
		return
	}

	currency := h.settings.SelectedCurrency()
	response := buildPortfolioResponse(h.converter.Convert(ctx, snapshot, currency), serviceErrors)
	c.JSON(http.StatusOK, response)
}

func buildPortfolioResponse(snapshot entity.PortfolioSnapshot, serviceErrors []entity.PortfolioError) APIPortfolioResponse {
	response := APIPortfolioResponse{ServiceErrors: serviceErrors}
	response.Data.Portfolio = snapshot

	switch {
	case len(serviceErrors) > 0 && len(snapshot.Holdings) == 0:
		response.StatusMessage = "Failed to retrieve any balances due to service errors."
	case len(serviceErrors) > 0:
		response.StatusMessage = "Portfolio retrieved. Some wallets encountered errors."
	case len(snapshot.Holdings) == 0:
		response.StatusMessage = "No holdings found. Check the tracked wallet list."
	default:
		response.StatusMessage = "Portfolio retrieved successfully."
	}
	return response
}

// writeCycleError maps an aggregation failure to a status code: credential
// problems are the caller's to fix, anything else is on us.
func writeCycleError(c *gin.Context, err error) {
	var confErr *entity.ConfigurationError
	if errors.As(err, &confErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": confErr.Error(), "provider": confErr.Provider})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
