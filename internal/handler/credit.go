package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"quickgpt/internal/pkg/ctxutil"
	"quickgpt/internal/service"
)

// CreditHandler 积分套餐接口
type CreditHandler struct {
	credits *service.CreditService
}

// NewCreditHandler 创建积分接口
func NewCreditHandler(credits *service.CreditService) *CreditHandler {
	return &CreditHandler{credits: credits}
}

// Plans 套餐目录
// @Summary      套餐目录
// @Tags         积分
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/credit/plans [get]
func (h *CreditHandler) Plans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "plans": h.credits.Plans()})
}

// PurchaseRequest 购买请求
type PurchaseRequest struct {
	PlanID string `json:"planId" binding:"required"`
}

// Purchase 购买套餐
// @Summary      购买积分套餐
// @Description  创建支付会话，返回支付页面URL
// @Tags         积分
// @Accept       json
// @Produce      json
// @Param        request  body      PurchaseRequest  true  "购买请求"
// @Success      200      {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /api/v1/credit/purchase [post]
func (h *CreditHandler) Purchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "planId is required"})
		return
	}

	user, ok := ctxutil.GetUser(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized"})
		return
	}

	origin := c.GetHeader("Origin")
	if origin == "" {
		origin = "http://localhost:5173"
	}

	url, err := h.credits.Purchase(c.Request.Context(), user.ID, req.PlanID, origin)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Plan not found"})
		case errors.Is(err, service.ErrPaymentDisabled):
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Payments are not available"})
		default:
			log.Error().Err(err).Str("plan_id", req.PlanID).Msg("purchase failed")
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Failed to start purchase. Please try again."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "url": url})
}

// Webhook Stripe 支付回调
// @Summary      Stripe 支付回调
// @Description  校验签名后确认交易并充值，重复回调幂等
// @Tags         积分
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/stripe/webhook [post]
func (h *CreditHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := h.credits.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		log.Error().Err(err).Msg("stripe webhook failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
