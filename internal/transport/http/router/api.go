package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-auth-backend/internal/core/auth"
	"go-auth-backend/internal/core/server"
	"go-auth-backend/internal/domain"
	"go-auth-backend/internal/transport/http/handler"
	mdw "go-auth-backend/internal/transport/http/middleware"
	resp "go-auth-backend/internal/transport/http/response"
)

func NewAPIEngine(l *zap.Logger, authH *handler.AuthHandler, adminH *handler.AdminHandler, jwter *auth.JWTer) *gin.Engine {
	r := server.NewRouter(l)

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	// API 信息 / 健康检查 / 指标
	r.GET("/", apiInfo)
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/auth")

	// 公共路由
	api.POST("/signup", authH.Signup)
	api.POST("/login", authH.Login)

	// 任意已登录身份
	api.GET("/me", mdw.AuthJWT(jwter), authH.Me)

	// superadmin 专属
	admin := api.Group("")
	admin.Use(mdw.AuthJWT(jwter, string(domain.RoleSuperAdmin)))
	admin.GET("/users", adminH.ListUsers)
	admin.DELETE("/users/all", adminH.DeleteAllUsers)
	admin.DELETE("/users/:id", adminH.DeleteUser)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": resp.MsgRouteNotFound, "path": c.Request.URL.Path})
	})

	return r
}

func apiInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Auth Backend API",
		"version": "1.0.0",
		"status":  "running",
		"endpoints": gin.H{
			"signup": "POST /api/auth/signup",
			"login":  "POST /api/auth/login",
			"me":     "GET /api/auth/me (requires token)",
			"users":  "GET /api/auth/users (requires superadmin)",
		},
	})
}
