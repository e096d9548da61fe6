package http

import (
	"net/http"

	"hookr/pkg/middleware"
	"hookr/pkg/pagination"
	"hookr/services/wallet/internal/usecase"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subscriptionUseCase usecase.SubscriptionUseCase
}

func NewSubscriptionHandler(subscriptionUseCase usecase.SubscriptionUseCase) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionUseCase: subscriptionUseCase}
}

type SubscribeRequest struct {
	Tier string `json:"tier" binding:"required,tier"`
}

// Tiers godoc
// @Summary      Subscription tiers
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   entity.Tier
// @Router       /subscriptions/tiers [get]
func (h *SubscriptionHandler) Tiers(c *gin.Context) {
	c.JSON(http.StatusOK, h.subscriptionUseCase.Tiers())
}

// Subscribe godoc
// @Summary      Subscribe to a model
// @Description  Charges the wallet and extends an existing subscription from its current expiry.
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        model_id path string           true "Model ID"
// @Param        request  body SubscribeRequest true "Tier"
// @Success      201  {object}  entity.SubscribeResult
// @Failure      400  {object}  map[string]string
// @Failure      402  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /subscriptions/{model_id} [post]
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.subscriptionUseCase.Subscribe(c.Request.Context(), middleware.UserID(c), c.Param("model_id"), req.Tier)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Cancel godoc
// @Summary      Cancel a subscription
// @Description  Access continues until expires_at.
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        model_id path string true "Model ID"
// @Success      200  {object}  entity.Subscription
// @Failure      404  {object}  map[string]string
// @Router       /subscriptions/{model_id} [delete]
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	sub, err := h.subscriptionUseCase.Cancel(c.Request.Context(), middleware.UserID(c), c.Param("model_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// GetState godoc
// @Summary      Subscription state for a model
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        model_id path string true "Model ID"
// @Success      200  {object}  entity.SubscriptionState
// @Router       /subscriptions/{model_id} [get]
func (h *SubscriptionHandler) GetState(c *gin.Context) {
	state, err := h.subscriptionUseCase.GetState(c.Request.Context(), middleware.UserID(c), c.Param("model_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// ListSubscriptions godoc
// @Summary      The caller's subscriptions
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int false "Page size"
// @Param        offset query int false "Offset"
// @Success      200  {array}   entity.Subscription
// @Router       /subscriptions [get]
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	page := pagination.FromQuery(c, pagination.DefaultLimit)
	subs, err := h.subscriptionUseCase.ListSubscriptions(c.Request.Context(), middleware.UserID(c), page.Limit, page.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, subs)
}

// ListSubscribers godoc
// @Summary      Active subscribers of the calling creator
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int false "Page size"
// @Param        offset query int false "Offset"
// @Success      200  {array}   entity.Subscriber
// @Router       /subscribers [get]
func (h *SubscriptionHandler) ListSubscribers(c *gin.Context) {
	page := pagination.FromQuery(c, pagination.DefaultLimit)
	subscribers, err := h.subscriptionUseCase.ListSubscribers(c.Request.Context(), middleware.UserID(c), page.Limit, page.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, subscribers)
}
