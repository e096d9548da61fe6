package http

import (
	"errors"
	"net/http"

	"hookr/pkg/middleware"
	"hookr/pkg/pagination"
	"hookr/services/wallet/internal/entity"
	"hookr/services/wallet/internal/usecase"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	walletUseCase usecase.WalletUseCase
}

func NewWalletHandler(walletUseCase usecase.WalletUseCase) *WalletHandler {
	return &WalletHandler{walletUseCase: walletUseCase}
}

type TopUpRequest struct {
	AmountCents int64 `json:"amount_cents" binding:"required,min=100,max=1000000"`
}

type TipRequest struct {
	AmountCents int64 `json:"amount_cents" binding:"required,min=1,max=1000000"`
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrInsufficientFunds):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrModelNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Model not found"})
	case errors.Is(err, entity.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
	case errors.Is(err, entity.ErrSubscriptionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrInvalidAmount),
		errors.Is(err, entity.ErrInvalidTier),
		errors.Is(err, entity.ErrOwnModel),
		errors.Is(err, entity.ErrOwnPost):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// GetWallet godoc
// @Summary      Get the caller's wallet
// @Description  Creates an empty wallet on first access.
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.Wallet
// @Router       /wallet [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	wallet, err := h.walletUseCase.GetWallet(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wallet)
}

// TopUp godoc
// @Summary      Top up the wallet
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body TopUpRequest true "Amount in cents (100 to 1000000)"
// @Success      200  {object}  entity.Wallet
// @Failure      400  {object}  map[string]string
// @Router       /wallet/topup [post]
func (h *WalletHandler) TopUp(c *gin.Context) {
	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wallet, err := h.walletUseCase.TopUp(c.Request.Context(), middleware.UserID(c), req.AmountCents)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wallet)
}

// GetTransactions godoc
// @Summary      Wallet ledger, newest first
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int false "Page size"
// @Param        offset query int false "Offset"
// @Success      200  {array}   entity.Transaction
// @Router       /wallet/transactions [get]
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	page := pagination.FromQuery(c, pagination.DefaultLimit)
	transactions, err := h.walletUseCase.GetTransactions(c.Request.Context(), middleware.UserID(c), page.Limit, page.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// TipPost godoc
// @Summary      Tip the creator of a post
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string     true "Post ID"
// @Param        request body TipRequest true "Amount in cents"
// @Success      200  {object}  entity.Wallet
// @Failure      402  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/tip [post]
func (h *WalletHandler) TipPost(c *gin.Context) {
	var req TipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wallet, err := h.walletUseCase.TipPost(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.AmountCents)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wallet)
}
