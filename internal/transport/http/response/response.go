package response

import "github.com/gin-gonic/gin"

// Message 统一错误载荷
type Message struct {
	Message string `json:"message"`
}

func Error(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Message{Message: msg})
}

// Internal 不向调用方泄露内部细节
func Internal(c *gin.Context) {
	Error(c, 500, MsgInternal)
}
