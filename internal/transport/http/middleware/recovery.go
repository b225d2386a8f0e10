package middleware

import (
	"github.com/gin-gonic/gin"

	resp "go-auth-backend/internal/transport/http/response"
)

func SimpleRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				resp.Internal(c)
			}
		}()
		c.Next()
	}
}
