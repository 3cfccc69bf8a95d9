package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/config"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/dto"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/model"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/repository"
	pkgerrors "github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/errors"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/metrics"
)

// ── 选课模块业务错误 ──

var (
	ErrEnrollmentNotFound      = fmt.Errorf("%w: 选课记录不存在", pkgerrors.ErrNotFound)
	ErrStudentNotFound         = fmt.Errorf("%w: 学生不存在", pkgerrors.ErrNotFound)
	ErrModuleNotFound          = fmt.Errorf("%w: 模块不存在", pkgerrors.ErrNotFound)
	ErrEnrollmentExists        = fmt.Errorf("%w: 该学生已选此模块", pkgerrors.ErrAlreadyEnrolled)
	ErrNotAStudent             = fmt.Errorf("%w: 该用户不是学生", pkgerrors.ErrInvalidInput)
	ErrInvalidStatusTransition = fmt.Errorf("%w: 不允许的选课状态变更", pkgerrors.ErrInvalidInput)
)

// enrollmentTransitions 管理员可执行的状态变更；COMPLETED 为终态
var enrollmentTransitions = map[string][]string{
	model.EnrollmentActive:    {model.EnrollmentCompleted, model.EnrollmentSuspended},
	model.EnrollmentSuspended: {model.EnrollmentActive},
}

// CanTransition 状态 from 能否变更为 to
func CanTransition(from, to string) bool {
	for _, s := range enrollmentTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// EnrollOptions 可选覆盖项，为空时按默认规则推导
type EnrollOptions struct {
	AcademicYear string
	Semester     string
}

// EnrollmentService 选课业务接口
type EnrollmentService interface {
	Enroll(ctx context.Context, studentID, moduleID string, opts EnrollOptions, callerID string) (*dto.EnrollmentResponse, error)
	Unenroll(ctx context.Context, studentID, moduleID string) error
	UnenrollByID(ctx context.Context, enrollmentID string) error
	ModulesOf(ctx context.Context, studentID string) ([]dto.ModuleResponse, error)
	MassEnroll(ctx context.Context, req *dto.MassEnrollRequest, callerID string) (*dto.MassEnrollResponse, error)
	UpdateStatus(ctx context.Context, enrollmentID, status, callerID string) (*dto.EnrollmentResponse, error)
	GetByID(ctx context.Context, enrollmentID string) (*dto.EnrollmentResponse, error)
	List(ctx context.Context, req *dto.EnrollmentListRequest) ([]dto.EnrollmentResponse, int64, error)
	Stats(ctx context.Context) (*dto.EnrollmentStatsResponse, error)
}

type enrollmentService struct {
	cfg    config.EnrollmentConfig
	repo   *repository.Repository
	source EnrollmentSource
	now    func() time.Time
	logger *zap.Logger
}

// NewEnrollmentService 创建 EnrollmentService 实例
func NewEnrollmentService(cfg config.EnrollmentConfig, repo *repository.Repository, source EnrollmentSource, logger *zap.Logger) EnrollmentService {
	return &enrollmentService{
		cfg:    cfg,
		repo:   repo,
		source: source,
		now:    time.Now,
		logger: logger,
	}
}

// AcademicYearOf "{Y}-{Y+1}"，Y 为 t 所在的公历年
func AcademicYearOf(t time.Time) string {
	y := t.Year()
	return strconv.Itoa(y) + "-" + strconv.Itoa(y+1)
}

// ────────────────────── Enroll ──────────────────────

func (s *enrollmentService) Enroll(ctx context.Context, studentID, moduleID string, opts EnrollOptions, callerID string) (*dto.EnrollmentResponse, error) {
	student, err := s.loadStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	module, err := s.loadModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	enrollment, err := s.enroll(ctx, student, module, opts, callerID)
	if err != nil {
		return nil, err
	}
	enrollment.Student, enrollment.Module = student, module

	resp := toEnrollmentResponse(enrollment)
	return &resp, nil
}

// enroll 单个学生选课，批量选课复用
func (s *enrollmentService) enroll(ctx context.Context, student *model.Person, module *model.Module, opts EnrollOptions, callerID string) (*model.Enrollment, error) {
	// 1. 同一 (学生, 模块) 已有任何状态的记录即拒绝
	exists, err := s.repo.Enrollment.ExistsForPair(ctx, student.UserID, module.ModuleID)
	if err != nil {
		s.logger.Error("查询选课记录失败", zap.Error(err))
		return nil, err
	}
	if exists {
		metrics.Enrollments.WithLabelValues(metrics.ResultAlreadyEnrolled).Inc()
		return nil, ErrEnrollmentExists
	}

	// 2. 推导学年、学期、年级、专业
	year := opts.AcademicYear
	if year == "" {
		year = s.cfg.AcademicYearOverride
	}
	if year == "" {
		year = AcademicYearOf(s.now())
	}
	semester := opts.Semester
	if semester == "" {
		semester = module.Semester
	}

	enrollment := &model.Enrollment{
		StudentID:    student.UserID,
		ModuleID:     module.ModuleID,
		AcademicYear: year,
		Semester:     semester,
		Status:       model.EnrollmentActive,
		EnrolledAt:   s.now(),
	}
	if student.Student != nil {
		enrollment.Level = student.Student.Level
		enrollment.ProgramID = student.Student.ProgramID
	}
	if callerID != "" {
		enrollment.CreatedBy = &callerID
		enrollment.UpdatedBy = &callerID
	}

	// 3. 写入（含旧版关联）；唯一索引兜住并发重复
	if err := s.repo.Enrollment.Create(ctx, enrollment); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			metrics.Enrollments.WithLabelValues(metrics.ResultAlreadyEnrolled).Inc()
			return nil, ErrEnrollmentExists
		}
		metrics.Enrollments.WithLabelValues(metrics.ResultFailed).Inc()
		s.logger.Error("创建选课记录失败",
			zap.String("student_id", student.UserID),
			zap.String("module_id", module.ModuleID),
			zap.Error(err))
		return nil, err
	}

	metrics.Enrollments.WithLabelValues(metrics.ResultEnrolled).Inc()
	return enrollment, nil
}

// ────────────────────── Unenroll ──────────────────────

func (s *enrollmentService) Unenroll(ctx context.Context, studentID, moduleID string) error {
	enrollment, err := s.repo.Enrollment.GetByStudentAndModule(ctx, studentID, moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentNotFound
		}
		s.logger.Error("查询选课记录失败", zap.Error(err))
		return err
	}
	return s.delete(ctx, enrollment)
}

func (s *enrollmentService) UnenrollByID(ctx context.Context, enrollmentID string) error {
	enrollment, err := s.repo.Enrollment.GetByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentNotFound
		}
		s.logger.Error("查询选课记录失败", zap.String("id", enrollmentID), zap.Error(err))
		return err
	}
	return s.delete(ctx, enrollment)
}

func (s *enrollmentService) delete(ctx context.Context, enrollment *model.Enrollment) error {
	if err := s.repo.Enrollment.Delete(ctx, enrollment); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentNotFound
		}
		s.logger.Error("删除选课记录失败", zap.String("id", enrollment.EnrollmentID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ModulesOf ──────────────────────

func (s *enrollmentService) ModulesOf(ctx context.Context, studentID string) ([]dto.ModuleResponse, error) {
	if _, err := s.loadStudent(ctx, studentID); err != nil {
		return nil, err
	}
	modules, err := s.source.ModulesOf(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生模块失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	return toModuleResponses(modules), nil
}

// ────────────────────── MassEnroll ──────────────────────

// MassEnroll 逐个学生选课，单个失败只记录不中断
func (s *enrollmentService) MassEnroll(ctx context.Context, req *dto.MassEnrollRequest, callerID string) (*dto.MassEnrollResponse, error) {
	if _, err := s.repo.Program.GetByID(ctx, req.ProgramID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		s.logger.Error("查询专业失败", zap.String("id", req.ProgramID), zap.Error(err))
		return nil, err
	}
	module, err := s.loadModule(ctx, req.ModuleID)
	if err != nil {
		return nil, err
	}

	students, err := s.repo.Person.ListStudents(ctx, req.ProgramID, req.Level)
	if err != nil {
		s.logger.Error("查询学生列表失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.MassEnrollResponse{Errors: []dto.RowError{}}
	opts := EnrollOptions{AcademicYear: req.AcademicYear, Semester: req.Semester}
	for i := range students {
		student := &students[i]
		_, err := s.enroll(ctx, student, module, opts, callerID)
		switch {
		case err == nil:
			resp.Enrolled++
		case errors.Is(err, pkgerrors.ErrAlreadyEnrolled):
			resp.AlreadyEnrolled++
		default:
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.RowError{ID: student.UserID, Message: err.Error()})
		}
	}

	s.logger.Info("批量选课完成",
		zap.String("module_id", module.ModuleID),
		zap.Int("enrolled", resp.Enrolled),
		zap.Int("already_enrolled", resp.AlreadyEnrolled),
		zap.Int("failed", resp.Failed))

	return resp, nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *enrollmentService) UpdateStatus(ctx context.Context, enrollmentID, status, callerID string) (*dto.EnrollmentResponse, error) {
	enrollment, err := s.repo.Enrollment.GetByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		s.logger.Error("查询选课记录失败", zap.String("id", enrollmentID), zap.Error(err))
		return nil, err
	}

	if !CanTransition(enrollment.Status, status) {
		return nil, ErrInvalidStatusTransition
	}

	var operator *string
	if callerID != "" {
		operator = &callerID
	}
	if err := s.repo.Enrollment.UpdateStatus(ctx, enrollmentID, status, operator); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		s.logger.Error("更新选课状态失败", zap.String("id", enrollmentID), zap.Error(err))
		return nil, err
	}

	enrollment.Status = status
	resp := toEnrollmentResponse(enrollment)
	return &resp, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *enrollmentService) GetByID(ctx context.Context, enrollmentID string) (*dto.EnrollmentResponse, error) {
	enrollment, err := s.repo.Enrollment.GetByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		s.logger.Error("查询选课记录失败", zap.String("id", enrollmentID), zap.Error(err))
		return nil, err
	}
	resp := toEnrollmentResponse(enrollment)
	return &resp, nil
}

func (s *enrollmentService) List(ctx context.Context, req *dto.EnrollmentListRequest) ([]dto.EnrollmentResponse, int64, error) {
	filter := repository.EnrollmentFilter{
		Keyword:   req.Keyword,
		StudentID: req.StudentID,
		ModuleID:  req.ModuleID,
		ProgramID: req.ProgramID,
		Level:     req.Level,
		Semester:  req.Semester,
		Status:    req.Status,
	}
	enrollments, total, err := s.repo.Enrollment.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询选课列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.EnrollmentResponse, 0, len(enrollments))
	for i := range enrollments {
		result = append(result, toEnrollmentResponse(&enrollments[i]))
	}
	return result, total, nil
}

func (s *enrollmentService) Stats(ctx context.Context) (*dto.EnrollmentStatsResponse, error) {
	stats, err := s.repo.Enrollment.Stats(ctx)
	if err != nil {
		s.logger.Error("查询选课统计失败", zap.Error(err))
		return nil, err
	}
	return &dto.EnrollmentStatsResponse{
		Total:           stats.Total,
		Active:          stats.Active,
		Completed:       stats.Completed,
		Suspended:       stats.Suspended,
		ActiveByProgram: stats.ActiveByProgram,
	}, nil
}

// ── 辅助 ──

func (s *enrollmentService) loadStudent(ctx context.Context, id string) (*model.Person, error) {
	person, err := s.repo.Person.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if person.Role != model.RoleStudent {
		return nil, ErrNotAStudent
	}
	return person, nil
}

func (s *enrollmentService) loadModule(ctx context.Context, id string) (*model.Module, error) {
	module, err := s.repo.Module.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}
		s.logger.Error("查询模块失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return module, nil
}
