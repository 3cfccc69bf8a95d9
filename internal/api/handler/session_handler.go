package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/dto"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/service"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/response"
)

// SessionHandler 课次模块 HTTP 处理器
type SessionHandler struct {
	sessionSvc  service.SessionService
	calendarSvc service.CalendarService
}

// NewSessionHandler 创建 SessionHandler
func NewSessionHandler(sessionSvc service.SessionService, calendarSvc service.CalendarService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc, calendarSvc: calendarSvc}
}

// CreateSession 创建课次（冲突检测后写入）
// POST /api/v1/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req dto.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	session, err := h.sessionSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}
	response.Created(c, session)
}

// GetSession 课次详情
// GET /api/v1/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.sessionSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleSessionError(c, err)
		return
	}
	response.OK(c, session)
}

// ListSessions 按模块/教师/教室/班组与时间窗查询
// GET /api/v1/sessions
func (h *SessionHandler) ListSessions(c *gin.Context) {
	var req dto.SessionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	sessions, err := h.sessionSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}
	response.OK(c, gin.H{"list": sessions})
}

// UpdateSession 修改课次，自身不参与冲突
// PUT /api/v1/sessions/:id
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	var req dto.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	session, err := h.sessionSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}
	response.OK(c, session)
}

// DeleteSession 删除课次
// DELETE /api/v1/sessions/:id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.sessionSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleSessionError(c, err)
		return
	}
	response.NoContent(c)
}

// CheckConflicts 冲突预检，返回三个维度的完整报告
// POST /api/v1/sessions/conflicts
func (h *SessionHandler) CheckConflicts(c *gin.Context) {
	var req dto.ConflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	report, err := h.sessionSvc.CheckConflicts(c.Request.Context(), &req)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}
	response.OK(c, report)
}

// ListChangeLogs 课次变更记录
// GET /api/v1/sessions/:id/change-logs
func (h *SessionHandler) ListChangeLogs(c *gin.Context) {
	var req dto.ChangeLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	logs, total, err := h.sessionSvc.ListChangeLogs(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}
	response.OKPage(c, logs, total, req.GetPage(), req.GetPageSize())
}

// ExportCalendar 导出班组或教师课表
// GET /api/v1/calendar.ics?group=G1 或 ?teacher_id=...
func (h *SessionHandler) ExportCalendar(c *gin.Context) {
	var req dto.CalendarRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	body, filename, err := h.calendarSvc.Export(c.Request.Context(), &req)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}
	response.File(c, filename, "text/calendar; charset=utf-8", body)
}

func (h *SessionHandler) handleSessionError(c *gin.Context, err error) {
	var conflict *service.ConflictError
	if errors.As(err, &conflict) {
		response.ErrorWithData(c, 409, 13201, conflict.Error(), gin.H{"dimensions": conflict.Dimensions})
		return
	}

	switch {
	case errors.Is(err, service.ErrSchedulingBusy):
		response.Conflict(c, 13202, "资源正被其他操作占用，请稍后重试")
	case errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(c, 13101, "课次不存在")
	case errors.Is(err, service.ErrSessionStartRequired):
		response.BadRequest(c, 13102, "课次开始时间不能为空")
	case errors.Is(err, service.ErrSessionDurationInvalid):
		response.BadRequest(c, 13103, "课次时长必须为正整数（分钟）")
	case errors.Is(err, service.ErrSessionGroupRequired):
		response.BadRequest(c, 13104, "班组不能为空")
	case errors.Is(err, service.ErrRoomUnavailable):
		response.BadRequest(c, 13105, "教室当前不可用")
	case errors.Is(err, service.ErrModuleNotFound):
		response.BadRequest(c, 13106, "模块不存在")
	case errors.Is(err, service.ErrTeacherNotFound):
		response.BadRequest(c, 13107, "教师不存在")
	case errors.Is(err, service.ErrNotATeacher):
		response.BadRequest(c, 13108, "该用户不是教师")
	case errors.Is(err, service.ErrRoomNotFound):
		response.BadRequest(c, 13109, "教室不存在")
	case errors.Is(err, service.ErrCalendarTargetRequired):
		response.BadRequest(c, 13110, "请指定班组或教师")
	default:
		handleCommonError(c, err)
	}
}
