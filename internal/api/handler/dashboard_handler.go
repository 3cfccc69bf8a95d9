package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/model"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/service"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/response"
)

// DashboardHandler 首页数据处理器
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// GetDashboard 按当前用户角色返回首页数据
// GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	var (
		data interface{}
		err  error
	)
	switch role {
	case model.RoleAdmin:
		data, err = h.dashboardSvc.Admin(c.Request.Context())
	case model.RoleTeacher:
		data, err = h.dashboardSvc.Teacher(c.Request.Context(), userID)
	case model.RoleStudent:
		data, err = h.dashboardSvc.Student(c.Request.Context(), userID)
	default:
		response.Forbidden(c, 10003, "无权限访问")
		return
	}
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, data)
}
