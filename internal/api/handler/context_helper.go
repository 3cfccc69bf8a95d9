package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/model"
	pkgerrors "github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/errors"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/jwt"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/response"
)

// 与 middleware.JWTAuth 注入的上下文键一致
const (
	ctxUserID = "user_id"
	ctxRole   = "role"
	ctxClaims = "token_claims"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxUserID)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxRole)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// GetClaims 当前请求的 Access Token 声明，未注入时返回 nil
func GetClaims(c *gin.Context) *jwt.Claims {
	v, exists := c.Get(ctxClaims)
	if !exists {
		return nil
	}
	claims, _ := v.(*jwt.Claims)
	return claims
}

// MustBeSelfOrStaff 学生只能访问自己的数据，教师与管理员不受限
func MustBeSelfOrStaff(c *gin.Context, ownerID string) bool {
	userID, ok := MustGetUserID(c)
	if !ok {
		return false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return false
	}
	if role == model.RoleStudent && userID != ownerID {
		response.Forbidden(c, 10003, "无权限访问")
		return false
	}
	return true
}

// handleCommonError 未被模块单独处理的错误按类别映射
func handleCommonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrInvalidInput):
		response.BadRequest(c, 10001, err.Error())
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.NotFound(c, 10006, err.Error())
	case errors.Is(err, pkgerrors.ErrDuplicate):
		response.Conflict(c, 10007, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Error(c, http.StatusConflict, 10008, err.Error())
	default:
		response.InternalError(c)
	}
}
