package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/dto"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/service"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/response"
)

// ModuleHandler 教学模块 HTTP 处理器
type ModuleHandler struct {
	moduleSvc service.ModuleService
}

// NewModuleHandler 创建 ModuleHandler
func NewModuleHandler(moduleSvc service.ModuleService) *ModuleHandler {
	return &ModuleHandler{moduleSvc: moduleSvc}
}

// CreateModule 创建模块
// POST /api/v1/modules
func (h *ModuleHandler) CreateModule(c *gin.Context) {
	var req dto.CreateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 17001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	module, err := h.moduleSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleModuleError(c, err)
		return
	}
	response.Created(c, module)
}

// ListModules 模块列表
// GET /api/v1/modules
func (h *ModuleHandler) ListModules(c *gin.Context) {
	var req dto.ModuleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 17001, "参数校验失败")
		return
	}

	modules, err := h.moduleSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleModuleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": modules})
}

// GetModule 模块详情
// GET /api/v1/modules/:id
func (h *ModuleHandler) GetModule(c *gin.Context) {
	module, err := h.moduleSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleModuleError(c, err)
		return
	}
	response.OK(c, module)
}

// UpdateModule 更新模块
// PUT /api/v1/modules/:id
func (h *ModuleHandler) UpdateModule(c *gin.Context) {
	var req dto.UpdateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 17001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	module, err := h.moduleSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleModuleError(c, err)
		return
	}
	response.OK(c, module)
}

// AssignTeacher 指派或取消指派教师
// PUT /api/v1/modules/:id/teacher
func (h *ModuleHandler) AssignTeacher(c *gin.Context) {
	var req dto.AssignTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 17001, "参数校验失败")
		return
	}

	module, err := h.moduleSvc.AssignTeacher(c.Request.Context(), c.Param("id"), req.TeacherID)
	if err != nil {
		h.handleModuleError(c, err)
		return
	}
	response.OK(c, module)
}

// DeleteModule 删除模块
// DELETE /api/v1/modules/:id
func (h *ModuleHandler) DeleteModule(c *gin.Context) {
	if err := h.moduleSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleModuleError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *ModuleHandler) handleModuleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrModuleNotFound):
		response.NotFound(c, 17301, "模块不存在")
	case errors.Is(err, service.ErrProgramNotFound):
		response.BadRequest(c, 17302, "专业不存在")
	case errors.Is(err, service.ErrTeacherNotFound):
		response.BadRequest(c, 17303, "教师不存在")
	case errors.Is(err, service.ErrNotATeacher):
		response.BadRequest(c, 17304, "该用户不是教师")
	default:
		handleCommonError(c, err)
	}
}
