package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/dto"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/service"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/response"
)

// EvaluationHandler 成绩模块 HTTP 处理器
type EvaluationHandler struct {
	evaluationSvc service.EvaluationService
}

// NewEvaluationHandler 创建 EvaluationHandler
func NewEvaluationHandler(evaluationSvc service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluationSvc: evaluationSvc}
}

// CreateEvaluation 录入成绩
// POST /api/v1/evaluations
func (h *EvaluationHandler) CreateEvaluation(c *gin.Context) {
	var req dto.CreateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 15001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	evaluation, err := h.evaluationSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}
	response.Created(c, evaluation)
}

// GetEvaluation 成绩详情
// GET /api/v1/evaluations/:id
func (h *EvaluationHandler) GetEvaluation(c *gin.Context) {
	evaluation, err := h.evaluationSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}
	if !MustBeSelfOrStaff(c, evaluation.StudentID) {
		return
	}
	response.OK(c, evaluation)
}

// UpdateEvaluation 修改成绩（乐观锁）
// PUT /api/v1/evaluations/:id
func (h *EvaluationHandler) UpdateEvaluation(c *gin.Context) {
	var req dto.UpdateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 15001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	evaluation, err := h.evaluationSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}
	response.OK(c, evaluation)
}

// DeleteEvaluation 删除成绩
// DELETE /api/v1/evaluations/:id
func (h *EvaluationHandler) DeleteEvaluation(c *gin.Context) {
	if err := h.evaluationSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleEvaluationError(c, err)
		return
	}
	response.NoContent(c)
}

// ListByStudent 学生成绩列表
// GET /api/v1/students/:id/evaluations
func (h *EvaluationHandler) ListByStudent(c *gin.Context) {
	studentID := c.Param("id")
	if !MustBeSelfOrStaff(c, studentID) {
		return
	}

	list, err := h.evaluationSvc.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ListByModule 模块成绩列表
// GET /api/v1/modules/:id/evaluations
func (h *EvaluationHandler) ListByModule(c *gin.Context) {
	list, err := h.evaluationSvc.ListByModule(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// StudentAverage 学生平均分
// GET /api/v1/students/:id/average
func (h *EvaluationHandler) StudentAverage(c *gin.Context) {
	studentID := c.Param("id")
	if !MustBeSelfOrStaff(c, studentID) {
		return
	}

	avg, err := h.evaluationSvc.StudentAverage(c.Request.Context(), studentID)
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}
	response.OK(c, avg)
}

// ModuleAverage 模块平均分
// GET /api/v1/modules/:id/average
func (h *EvaluationHandler) ModuleAverage(c *gin.Context) {
	avg, err := h.evaluationSvc.ModuleAverage(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}
	response.OK(c, avg)
}

func (h *EvaluationHandler) handleEvaluationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEvaluationNotFound):
		response.NotFound(c, 15101, "成绩记录不存在")
	case errors.Is(err, service.ErrEvaluationExists):
		response.Conflict(c, 15102, "该学生在此模块已有成绩记录")
	case errors.Is(err, service.ErrEvaluationVersion):
		response.Conflict(c, 15103, "成绩已被他人修改，请刷新后重试")
	case errors.Is(err, service.ErrPartialScoreOutOfRange):
		response.BadRequest(c, 15104, "分项成绩必须在 0 到 20 之间")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 15105, "学生不存在")
	case errors.Is(err, service.ErrModuleNotFound):
		response.NotFound(c, 15106, "模块不存在")
	case errors.Is(err, service.ErrNotAStudent):
		response.BadRequest(c, 15107, "该用户不是学生")
	default:
		handleCommonError(c, err)
	}
}
