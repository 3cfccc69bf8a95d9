package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/dto"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/service"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/response"
)

// maxImportFileSize 导入文件大小上限
const maxImportFileSize = 5 << 20

// PersonHandler 用户模块 HTTP 处理器
type PersonHandler struct {
	personSvc service.PersonService
}

// NewPersonHandler 创建 PersonHandler
func NewPersonHandler(personSvc service.PersonService) *PersonHandler {
	return &PersonHandler{personSvc: personSvc}
}

// CreatePerson 创建学生/教师/管理员
// POST /api/v1/persons
func (h *PersonHandler) CreatePerson(c *gin.Context) {
	var req dto.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	person, err := h.personSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handlePersonError(c, err)
		return
	}

	response.Created(c, person)
}

// GetPerson 用户详情
// GET /api/v1/persons/:id
func (h *PersonHandler) GetPerson(c *gin.Context) {
	person, err := h.personSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handlePersonError(c, err)
		return
	}
	response.OK(c, person)
}

// ListPersons 用户列表
// GET /api/v1/persons
func (h *PersonHandler) ListPersons(c *gin.Context) {
	var req dto.PersonListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	persons, total, err := h.personSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handlePersonError(c, err)
		return
	}

	response.OKPage(c, persons, total, req.GetPage(), req.GetPageSize())
}

// DeletePerson 删除用户
// DELETE /api/v1/persons/:id
func (h *PersonHandler) DeletePerson(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.personSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handlePersonError(c, err)
		return
	}
	response.NoContent(c)
}

// ImportStudents Excel 批量导入学生
// POST /api/v1/persons/import (multipart, 字段名 file)
func (h *PersonHandler) ImportStudents(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 12001, "请上传 Excel 文件")
		return
	}
	if fileHeader.Size > maxImportFileSize {
		response.BadRequest(c, 12001, "文件大小不能超过 5MB")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, 12001, "无法读取上传文件")
		return
	}
	defer file.Close()

	rows, err := h.personSvc.ParseImportFile(file)
	if err != nil {
		h.handlePersonError(c, err)
		return
	}

	result, err := h.personSvc.ImportStudents(c.Request.Context(), rows, callerID)
	if err != nil {
		h.handlePersonError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *PersonHandler) handlePersonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPersonNotFound):
		response.NotFound(c, 12101, "用户不存在")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, 12102, "邮箱已被使用")
	case errors.Is(err, service.ErrProfileMismatch):
		response.BadRequest(c, 12103, "必须且只能提供与角色对应的档案")
	case errors.Is(err, service.ErrUserSelfDelete):
		response.BadRequest(c, 12104, "不能删除自己")
	case errors.Is(err, service.ErrProgramNotFound):
		response.BadRequest(c, 12105, "专业不存在")
	case errors.Is(err, service.ErrImportNoData),
		errors.Is(err, service.ErrImportBadHeader),
		errors.Is(err, service.ErrImportTooManyRow):
		response.BadRequest(c, 12106, err.Error())
	default:
		handleCommonError(c, err)
	}
}
