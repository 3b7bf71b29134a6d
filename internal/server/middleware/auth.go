package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"quickgpt/internal/model"
	"quickgpt/internal/pkg/ctxutil"
	"quickgpt/internal/pkg/jwt"
	"quickgpt/internal/repository"
)

// Auth JWT 认证中间件
// 从 Authorization header 中提取 Bearer token，验证后从库里加载用户，
// 把用户ID、用户名和余额快照注入 context
func Auth(jwtUtil *jwt.JWT, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.Fail("Not authorized, no token"))
			return
		}

		// 提取 Token（Bearer {token}）
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.Fail("Invalid authorization header"))
			return
		}

		claims, err := jwtUtil.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.Fail("Not authorized, token failed"))
			return
		}

		// token 只带用户ID，余额每次请求时取最新值
		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.Fail("Not authorized, user not found"))
			return
		}

		ctx := ctxutil.WithUser(c.Request.Context(), ctxutil.AuthUser{
			ID:      user.ID,
			Name:    user.Name,
			Credits: user.Credits,
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
