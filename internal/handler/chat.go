package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"quickgpt/internal/pkg/ctxutil"
	"quickgpt/internal/repository"
	"quickgpt/internal/service"
)

// ChatHandler 对话管理接口
type ChatHandler struct {
	chats *service.ChatService
}

// NewChatHandler 创建对话接口
func NewChatHandler(chats *service.ChatService) *ChatHandler {
	return &ChatHandler{chats: chats}
}

// Create 创建对话
// @Summary      创建对话
// @Tags         对话
// @Produce      json
// @Success      200  {object}  model.Envelope
// @Security     BearerAuth
// @Router       /api/v1/chat/create [get]
func (h *ChatHandler) Create(c *gin.Context) {
	user, ok := ctxutil.GetUser(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized"})
		return
	}

	chat, err := h.chats.Create(c.Request.Context(), user.ID, user.Name)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("create chat failed")
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Failed to create chat"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Chat created successfully", "chat": chat})
}

// List 列出对话
// @Summary      列出当前用户的全部对话
// @Tags         对话
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /api/v1/chat/list [get]
func (h *ChatHandler) List(c *gin.Context) {
	user, ok := ctxutil.GetUser(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized"})
		return
	}

	chats, err := h.chats.List(c.Request.Context(), user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("list chats failed")
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Failed to load chats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "chats": chats})
}

// DeleteRequest 删除对话请求
type DeleteRequest struct {
	ChatID string `json:"chatId" binding:"required"`
}

// Delete 删除对话
// @Summary      删除对话
// @Tags         对话
// @Accept       json
// @Produce      json
// @Param        request  body      DeleteRequest  true  "删除请求"
// @Success      200      {object}  model.Envelope
// @Security     BearerAuth
// @Router       /api/v1/chat/delete [post]
func (h *ChatHandler) Delete(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "chatId is required"})
		return
	}

	user, ok := ctxutil.GetUser(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized"})
		return
	}

	if err := h.chats.Delete(c.Request.Context(), req.ChatID, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Chat not found"})
			return
		}
		log.Error().Err(err).Str("chat_id", req.ChatID).Msg("delete chat failed")
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Failed to delete chat"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Chat deleted successfully"})
}
