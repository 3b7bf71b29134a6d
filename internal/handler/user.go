package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"quickgpt/internal/pkg/ctxutil"
	"quickgpt/internal/service"
)

// UserHandler 用户接口
type UserHandler struct {
	auth  *service.AuthService
	chats *service.ChatService
}

// NewUserHandler 创建用户接口
func NewUserHandler(auth *service.AuthService, chats *service.ChatService) *UserHandler {
	return &UserHandler{auth: auth, chats: chats}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register 用户注册
// @Summary      用户注册
// @Description  注册新账号，新用户带初始积分，返回登录token
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "注册请求"
// @Success      200      {object}  map[string]interface{}
// @Router       /api/v1/user/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Missing or invalid details"})
		return
	}

	_, token, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "User already exists"})
			return
		}
		log.Error().Err(err).Msg("register failed")
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Registration failed. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 用户登录
// @Summary      用户登录
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "登录请求"
// @Success      200      {object}  map[string]interface{}
// @Router       /api/v1/user/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Missing or invalid details"})
		return
	}

	_, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid email or password"})
			return
		}
		log.Error().Err(err).Msg("login failed")
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Login failed. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

// Data 当前用户信息
// @Summary      当前用户信息
// @Description  返回当前登录用户的资料和积分余额
// @Tags         用户
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /api/v1/user/data [get]
func (h *UserHandler) Data(c *gin.Context) {
	authUser, ok := ctxutil.GetUser(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized"})
		return
	}

	user, err := h.auth.GetUser(c.Request.Context(), authUser.ID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// PublishedImages 社区画廊
// @Summary      社区画廊
// @Description  列出所有用户发布的AI生成图片
// @Tags         用户
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/user/published-images [get]
func (h *UserHandler) PublishedImages(c *gin.Context) {
	images, err := h.chats.ListPublishedImages(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("list published images failed")
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Failed to load images"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "images": images})
}
