package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/dto"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/service"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/response"
)

// EnrollmentHandler 选课模块 HTTP 处理器
type EnrollmentHandler struct {
	enrollmentSvc service.EnrollmentService
}

// NewEnrollmentHandler 创建 EnrollmentHandler
func NewEnrollmentHandler(enrollmentSvc service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentSvc: enrollmentSvc}
}

// Enroll 学生选课
// POST /api/v1/enrollments
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req dto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	opts := service.EnrollOptions{AcademicYear: req.AcademicYear, Semester: req.Semester}
	enrollment, err := h.enrollmentSvc.Enroll(c.Request.Context(), req.StudentID, req.ModuleID, opts, callerID)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}
	response.Created(c, enrollment)
}

// Unenroll 按学生与模块退课
// POST /api/v1/enrollments/unenroll
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	var req dto.UnenrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	if err := h.enrollmentSvc.Unenroll(c.Request.Context(), req.StudentID, req.ModuleID); err != nil {
		h.handleEnrollmentError(c, err)
		return
	}
	response.NoContent(c)
}

// UnenrollByID 按记录 ID 退课
// DELETE /api/v1/enrollments/:id
func (h *EnrollmentHandler) UnenrollByID(c *gin.Context) {
	if err := h.enrollmentSvc.UnenrollByID(c.Request.Context(), c.Param("id")); err != nil {
		h.handleEnrollmentError(c, err)
		return
	}
	response.NoContent(c)
}

// MassEnroll 按专业/年级/学期批量选课
// POST /api/v1/enrollments/mass
func (h *EnrollmentHandler) MassEnroll(c *gin.Context) {
	var req dto.MassEnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.enrollmentSvc.MassEnroll(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateStatus 修改选课状态
// PUT /api/v1/enrollments/:id/status
func (h *EnrollmentHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateEnrollmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	enrollment, err := h.enrollmentSvc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, callerID)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}
	response.OK(c, enrollment)
}

// GetEnrollment 选课记录详情
// GET /api/v1/enrollments/:id
func (h *EnrollmentHandler) GetEnrollment(c *gin.Context) {
	enrollment, err := h.enrollmentSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}
	if !MustBeSelfOrStaff(c, enrollment.StudentID) {
		return
	}
	response.OK(c, enrollment)
}

// ListEnrollments 选课记录筛选与分页
// GET /api/v1/enrollments
func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	var req dto.EnrollmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	list, total, err := h.enrollmentSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Stats 选课统计
// GET /api/v1/enrollments/stats
func (h *EnrollmentHandler) Stats(c *gin.Context) {
	stats, err := h.enrollmentSvc.Stats(c.Request.Context())
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}
	response.OK(c, stats)
}

// StudentModules 学生已选模块
// GET /api/v1/students/:id/modules
func (h *EnrollmentHandler) StudentModules(c *gin.Context) {
	studentID := c.Param("id")
	if !MustBeSelfOrStaff(c, studentID) {
		return
	}

	modules, err := h.enrollmentSvc.ModulesOf(c.Request.Context(), studentID)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}
	response.OK(c, gin.H{"list": modules})
}

func (h *EnrollmentHandler) handleEnrollmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEnrollmentNotFound):
		response.NotFound(c, 14101, "选课记录不存在")
	case errors.Is(err, service.ErrEnrollmentExists):
		response.Conflict(c, 14102, "该学生已选此模块")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 14103, "学生不存在")
	case errors.Is(err, service.ErrModuleNotFound):
		response.NotFound(c, 14104, "模块不存在")
	case errors.Is(err, service.ErrNotAStudent):
		response.BadRequest(c, 14105, "该用户不是学生")
	case errors.Is(err, service.ErrInvalidStatusTransition):
		response.BadRequest(c, 14106, "不允许的选课状态变更")
	default:
		handleCommonError(c, err)
	}
}
