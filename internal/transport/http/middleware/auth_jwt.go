package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-auth-backend/internal/core/auth"
	resp "go-auth-backend/internal/transport/http/response"
)

// KeyClaims 已验证的令牌声明在 gin context 中的键；下游处理器直接信任
const KeyClaims = "claims"

// AuthJWT 鉴权门：roles 为空表示任意已登录身份
func AuthJWT(j *auth.JWTer, roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if ah == "" {
			resp.Error(c, http.StatusUnauthorized, resp.MsgNoToken)
			return
		}
		token, ok := strings.CutPrefix(ah, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			resp.Error(c, http.StatusUnauthorized, resp.MsgBadAuthFormat)
			return
		}
		claims, err := j.Parse(strings.TrimSpace(token))
		if err != nil {
			resp.Error(c, http.StatusUnauthorized, resp.MsgBadToken)
			return
		}
		if len(allowed) > 0 {
			if _, ok := allowed[claims.Role]; !ok {
				resp.Error(c, http.StatusForbidden, resp.MsgForbidden)
				return
			}
		}
		c.Set(KeyClaims, claims)
		c.Next()
	}
}

// ClaimsFrom 取出鉴权中间件写入的声明
func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(KeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
