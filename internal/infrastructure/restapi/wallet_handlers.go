package restapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
)

// WalletHandler handles wallet list HTTP requests.
type WalletHandler struct {
	wallets port.WalletStore
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(ws port.WalletStore) *WalletHandler {
	return &WalletHandler{wallets: ws}
}

type addWalletRequest struct {
	Address     string `json:"address" binding:"required"`
	DisplayName string `json:"displayName"`
}

type updateWalletRequest struct {
	DisplayName *string `json:"displayName"`
	Enabled     *bool   `json:"enabled"`
}

// ListWalletsHandler returns all tracked wallets.
func (h *WalletHandler) ListWalletsHandler(c *gin.Context) {
	wallets, err := h.wallets.GetWallets()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"wallets": wallets}})
}

// AddWalletHandler adds a wallet to the tracked set. New wallets start
// enabled.
func (h *WalletHandler) AddWalletHandler(c *gin.Context) {
	var req addWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wallet := entity.Wallet{
		Address:     strings.TrimSpace(req.Address),
		DisplayName: req.DisplayName,
		Enabled:     true,
	}
	if err := h.wallets.AddWallet(wallet); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"wallet": wallet}})
}

// UpdateWalletHandler renames or toggles a tracked wallet.
func (h *WalletHandler) UpdateWalletHandler(c *gin.Context) {
	var req updateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wallet, err := h.wallets.UpdateWallet(c.Param("address"), req.DisplayName, req.Enabled)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"wallet": wallet}})
}

// RemoveWalletHandler removes a wallet from the tracked set.
func (h *WalletHandler) RemoveWalletHandler(c *gin.Context) {
	if err := h.wallets.RemoveWallet(c.Param("address")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
