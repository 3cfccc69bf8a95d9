package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/dto"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/service"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/response"
)

// ProgramHandler 专业模块 HTTP 处理器
type ProgramHandler struct {
	programSvc service.ProgramService
}

// NewProgramHandler 创建 ProgramHandler
func NewProgramHandler(programSvc service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programSvc: programSvc}
}

// CreateProgram 创建专业
// POST /api/v1/programs
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	var req dto.CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 17001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	program, err := h.programSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleProgramError(c, err)
		return
	}
	response.Created(c, program)
}

// ListPrograms 专业列表
// GET /api/v1/programs
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	programs, err := h.programSvc.List(c.Request.Context())
	if err != nil {
		h.handleProgramError(c, err)
		return
	}
	response.OK(c, gin.H{"list": programs})
}

// GetProgram 专业详情
// GET /api/v1/programs/:id
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	program, err := h.programSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleProgramError(c, err)
		return
	}
	response.OK(c, program)
}

// UpdateProgram 更新专业
// PUT /api/v1/programs/:id
func (h *ProgramHandler) UpdateProgram(c *gin.Context) {
	var req dto.UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 17001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	program, err := h.programSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleProgramError(c, err)
		return
	}
	response.OK(c, program)
}

// DeleteProgram 删除专业
// DELETE /api/v1/programs/:id
func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	if err := h.programSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleProgramError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *ProgramHandler) handleProgramError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgramNotFound):
		response.NotFound(c, 17101, "专业不存在")
	case errors.Is(err, service.ErrProgramNameTaken):
		response.Conflict(c, 17102, "专业名称已存在")
	default:
		handleCommonError(c, err)
	}
}
