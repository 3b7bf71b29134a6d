package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quickgpt/internal/model"
	"quickgpt/internal/pkg/ctxutil"
	"quickgpt/internal/service"
)

// MessageHandler 消息生成接口
type MessageHandler struct {
	gen *service.GenerateService
}

// NewMessageHandler 创建消息接口
func NewMessageHandler(gen *service.GenerateService) *MessageHandler {
	return &MessageHandler{gen: gen}
}

// MessageRequest 消息生成请求
type MessageRequest struct {
	ChatID      string `json:"chatId" binding:"required"` // 对话ID
	Prompt      string `json:"prompt" binding:"required"` // 提示词
	IsPublished bool   `json:"isPublished"`               // 是否发布到画廊（仅图片）
}

// Text 文本消息生成
// @Summary      文本消息生成
// @Description  向对话发送文本提示词，返回AI回复，扣1积分
// @Tags         消息
// @Accept       json
// @Produce      json
// @Param        request  body      MessageRequest  true  "生成请求"
// @Success      200      {object}  model.Envelope
// @Security     BearerAuth
// @Router       /api/v1/message/text [post]
func (h *MessageHandler) Text(c *gin.Context) {
	h.generate(c, model.ModeText)
}

// Image 图片消息生成
// @Summary      图片消息生成
// @Description  向对话发送图片提示词，返回图片URL，扣2积分
// @Tags         消息
// @Accept       json
// @Produce      json
// @Param        request  body      MessageRequest  true  "生成请求"
// @Success      200      {object}  model.Envelope
// @Security     BearerAuth
// @Router       /api/v1/message/image [post]
func (h *MessageHandler) Image(c *gin.Context) {
	h.generate(c, model.ModeImage)
}

func (h *MessageHandler) generate(c *gin.Context, mode model.Mode) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.Fail("chatId and prompt are required"))
		return
	}

	user, ok := ctxutil.GetUser(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, model.Fail("Not authorized"))
		return
	}

	reply, err := h.gen.Generate(c.Request.Context(), &model.GenerateRequest{
		Mode:        mode,
		ChatID:      req.ChatID,
		Prompt:      req.Prompt,
		UserID:      user.ID,
		Credits:     user.Credits,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		c.JSON(http.StatusOK, model.Fail(failMessage(err, mode)))
		return
	}

	c.JSON(http.StatusOK, model.OK(reply))
}

// failMessage 把编排层错误映射成用户可读的提示
// 失败同样返回HTTP 200，业务结果看信封里的 success
func failMessage(err error, mode model.Mode) string {
	switch {
	case errors.Is(err, service.ErrChatNotFound):
		return "Chat not found"
	case errors.Is(err, service.ErrInsufficientCredits):
		if mode == model.ModeImage {
			return "Not enough credits for image generation"
		}
		return "You don't have enough credits"
	default:
		if mode == model.ModeImage {
			return "Image generation failed. Please try again."
		}
		return "Failed to generate response. Please try again."
	}
}
