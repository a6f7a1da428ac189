package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"cropguard-http-service/config"
	"cropguard-http-service/services"
)

var jwtService services.InterfaceJWTService

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(cfg *config.Config) {
	jwtService = services.NewJWTService(cfg)
}

// extractToken 从授权头中提取token
func extractToken(authHeader string) string {
	// 检查并移除 "Bearer " 前缀
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

// authenticate 验证令牌并检查角色是否在允许列表内，
// 通过后将用户信息存入上下文
func authenticate(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Authorization header is required",
				"data":    nil,
			})
			c.Abort()
			return
		}

		// 提取token
		tokenString := extractToken(authHeader)
		token, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Invalid token: " + err.Error(),
				"data":    nil,
			})
			c.Abort()
			return
		}

		if !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Invalid token",
				"data":    nil,
			})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Invalid token claims",
				"data":    nil,
			})
			c.Abort()
			return
		}

		// 检查角色
		role, exists := claims["role"].(string)
		if !exists || !roleAllowed(role, allowedRoles) {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    403,
				"message": "Insufficient permissions",
				"data":    nil,
			})
			c.Abort()
			return
		}

		// 存储claims到上下文
		if userID, ok := claims["user_id"].(float64); ok {
			c.Set("userID", uint(userID))
		}
		if username, ok := claims["username"].(string); ok {
			c.Set("username", username)
		}
		c.Set("role", role)
		c.Set("claims", claims)
		c.Next()
	}
}

func roleAllowed(role string, allowed []string) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}

// AuthenticateAdmin 验证系统管理员权限
func AuthenticateAdmin() gin.HandlerFunc {
	return authenticate("admin")
}

// AuthenticateExpert 验证专家权限，管理员也可以访问专家的接口
func AuthenticateExpert() gin.HandlerFunc {
	return authenticate("expert", "admin")
}

// AuthenticateUser 验证任意已登录用户
func AuthenticateUser() gin.HandlerFunc {
	return authenticate("user", "expert", "admin")
}
