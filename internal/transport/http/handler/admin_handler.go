package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-auth-backend/internal/core/cache"
	"go-auth-backend/internal/domain"
	"go-auth-backend/internal/service"
	mdw "go-auth-backend/internal/transport/http/middleware"
	resp "go-auth-backend/internal/transport/http/response"
)

// AdminHandler 仅挂在 superadmin 鉴权分组之下
type AdminHandler struct {
	svc   *service.AccountService
	cache *cache.Cache
}

func NewAdminHandler(svc *service.AccountService, c *cache.Cache) *AdminHandler {
	return &AdminHandler{svc: svc, cache: c}
}

type listUsersResp struct {
	Users []domain.Public `json:"users"`
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers()
	if err != nil {
		resp.Internal(c)
		return
	}
	c.JSON(http.StatusOK, listUsersResp{Users: users})
}

type deleteResp struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	claims, _ := mdw.ClaimsFrom(c)
	n, err := h.svc.DeleteUser(id, claims)
	switch {
	case err == nil:
		if h.cache != nil {
			h.cache.Invalidate(c.Request.Context(), userCachePrefix+id)
		}
		c.JSON(http.StatusOK, deleteResp{Message: "User deleted", DeletedCount: n})
	case errors.Is(err, service.ErrUserNotFound):
		resp.Error(c, http.StatusNotFound, resp.MsgUserNotFound)
	case errors.Is(err, service.ErrInvalidInput):
		resp.Error(c, http.StatusBadRequest, resp.MsgUserNotFound)
	default:
		resp.Internal(c)
	}
}

func (h *AdminHandler) DeleteAllUsers(c *gin.Context) {
	claims, _ := mdw.ClaimsFrom(c)
	n, err := h.svc.DeleteAllUsers(claims)
	if err != nil {
		resp.Internal(c)
		return
	}
	if h.cache != nil {
		h.cache.InvalidatePrefix(c.Request.Context(), userCachePrefix)
	}
	c.JSON(http.StatusOK, deleteResp{Message: "All users deleted", DeletedCount: n})
}
