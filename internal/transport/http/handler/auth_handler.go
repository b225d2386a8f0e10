package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-auth-backend/internal/core/cache"
	"go-auth-backend/internal/domain"
	"go-auth-backend/internal/service"
	mdw "go-auth-backend/internal/transport/http/middleware"
	resp "go-auth-backend/internal/transport/http/response"
)

const userCachePrefix = "user:"

type AuthHandler struct {
	svc      *service.AccountService
	cache    *cache.Cache // 可为 nil（未配置 redis）
	cacheTTL time.Duration
}

func NewAuthHandler(svc *service.AccountService, c *cache.Cache, cacheTTL time.Duration) *AuthHandler {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &AuthHandler{svc: svc, cache: c, cacheTTL: cacheTTL}
}

type signupReq struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	Role          string `json:"role"`
	SuperAdminKey string `json:"superAdminKey"`
}

type signupResp struct {
	Message string     `json:"message"`
	User    signupUser `json:"user"`
}

type signupUser struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, resp.MsgMissingFields)
		return
	}
	u, err := h.svc.Signup(req.Email, req.Password, req.Role, req.SuperAdminKey)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, signupResp{
			Message: "User created successfully",
			User:    signupUser{Email: u.Email, Role: u.Role},
		})
	case errors.Is(err, service.ErrInvalidInput):
		resp.Error(c, http.StatusBadRequest, resp.MsgMissingFields)
	case errors.Is(err, service.ErrInvalidRole):
		resp.Error(c, http.StatusBadRequest, resp.MsgInvalidRole)
	case errors.Is(err, service.ErrBadSuperAdminKey):
		resp.Error(c, http.StatusForbidden, resp.MsgBadSuperAdminKey)
	case errors.Is(err, service.ErrEmailTaken):
		resp.Error(c, http.StatusBadRequest, resp.MsgUserExists)
	default:
		resp.Internal(c)
	}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, resp.MsgMissingFields)
		return
	}
	out, err := h.svc.Login(req.Email, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, out)
	case errors.Is(err, service.ErrInvalidInput):
		resp.Error(c, http.StatusBadRequest, resp.MsgMissingFields)
	case errors.Is(err, service.ErrInvalidCredentials):
		resp.Error(c, http.StatusBadRequest, resp.MsgInvalidCredentials)
	default:
		resp.Internal(c)
	}
}

type meResp struct {
	User domain.Public `json:"user"`
}

// Me 声明已由鉴权中间件验证；这里只做回查（用户可能已被删除）
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := mdw.ClaimsFrom(c)
	if !ok {
		resp.Error(c, http.StatusUnauthorized, resp.MsgBadToken)
		return
	}
	u, err := h.currentUser(c, claims.UID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, meResp{User: u})
	case errors.Is(err, service.ErrUserNotFound):
		resp.Error(c, http.StatusNotFound, resp.MsgUserNotFound)
	default:
		resp.Internal(c)
	}
}

func (h *AuthHandler) currentUser(c *gin.Context, uid string) (domain.Public, error) {
	if h.cache == nil {
		return h.svc.CurrentUser(uid)
	}
	u, err := cache.GetOrLoadJSON[domain.Public](h.cache, c.Request.Context(), userCachePrefix+uid, h.cacheTTL,
		func(context.Context) (*domain.Public, error) {
			p, e := h.svc.CurrentUser(uid)
			if e != nil {
				return nil, e
			}
			return &p, nil
		})
	if err != nil {
		return domain.Public{}, err
	}
	if u == nil {
		return domain.Public{}, service.ErrUserNotFound
	}
	return *u, nil
}
