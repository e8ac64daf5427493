package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
)

// SettingsHandler handles preference and credential HTTP requests.
type SettingsHandler struct {
	settings port.SettingsStore
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(ss port.SettingsStore) *SettingsHandler {
	return &SettingsHandler{settings: ss}
}

type setCurrencyRequest struct {
	Currency string `json:"currency" binding:"required"`
}

type setCredentialsRequest struct {
	HeliusAPIKey  string `json:"heliusApiKey" binding:"required"`
	MoralisAPIKey string `json:"moralisApiKey" binding:"required"`
}

// ListCurrenciesHandler returns the supported display currencies.
func (h *SettingsHandler) ListCurrenciesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"currencies": entity.SupportedCurrencies(),
		"selected":   h.settings.SelectedCurrency(),
	}})
}

// SetCurrencyHandler persists the display currency.
func (h *SettingsHandler) SetCurrencyHandler(c *gin.Context) {
	var req setCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.settings.SetSelectedCurrency(req.Currency); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"currency": req.Currency}})
}

// SetCredentialsHandler validates and persists provider API keys. Persisted
// keys are applied on the next startup.
func (h *SettingsHandler) SetCredentialsHandler(c *gin.Context) {
	var req setCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.settings.SetCredentials(req.HeliusAPIKey, req.MoralisAPIKey); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status_message": "Credentials saved. They take effect on next startup."})
}
