package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/dto"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/model"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/repository"
	pkgerrors "github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/errors"
)

// ── 教学模块业务错误 ──

var (
	ErrTeacherNotFound = fmt.Errorf("%w: 教师不存在", pkgerrors.ErrNotFound)
	ErrNotATeacher     = fmt.Errorf("%w: 该用户不是教师", pkgerrors.ErrInvalidInput)
)

// ModuleService 教学模块业务接口
type ModuleService interface {
	Create(ctx context.Context, req *dto.CreateModuleRequest, callerID string) (*dto.ModuleResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ModuleResponse, error)
	List(ctx context.Context, req *dto.ModuleListRequest) ([]dto.ModuleResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateModuleRequest, callerID string) (*dto.ModuleResponse, error)
	AssignTeacher(ctx context.Context, id string, teacherID *string) (*dto.ModuleResponse, error)
	Delete(ctx context.Context, id string) error
}

type moduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewModuleService 创建 ModuleService 实例
func NewModuleService(repo *repository.Repository, logger *zap.Logger) ModuleService {
	return &moduleService{repo: repo, logger: logger}
}

func (s *moduleService) Create(ctx context.Context, req *dto.CreateModuleRequest, callerID string) (*dto.ModuleResponse, error) {
	if err := s.ensureProgram(ctx, req.ProgramID); err != nil {
		return nil, err
	}
	if req.TeacherID != nil {
		if _, err := loadTeacher(ctx, s.repo, s.logger, *req.TeacherID); err != nil {
			return nil, err
		}
	}

	module := &model.Module{
		Name:           req.Name,
		Hours:          req.Hours,
		RequiredSkills: model.StringArray(req.RequiredSkills),
		Semester:       req.Semester,
		ProgramID:      req.ProgramID,
		TeacherID:      req.TeacherID,
	}
	module.CreatedBy = &callerID
	module.UpdatedBy = &callerID

	if err := s.repo.Module.Create(ctx, module); err != nil {
		s.logger.Error("创建模块失败", zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, module.ModuleID)
}

func (s *moduleService) GetByID(ctx context.Context, id string) (*dto.ModuleResponse, error) {
	module, err := s.repo.Module.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}
		s.logger.Error("查询模块失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toModuleResponse(module)
	return &resp, nil
}

func (s *moduleService) List(ctx context.Context, req *dto.ModuleListRequest) ([]dto.ModuleResponse, error) {
	modules, err := s.repo.Module.List(ctx, repository.ModuleFilter{
		ProgramID: req.ProgramID,
		Semester:  req.Semester,
		TeacherID: req.TeacherID,
	})
	if err != nil {
		s.logger.Error("列出模块失败", zap.Error(err))
		return nil, err
	}
	return toModuleResponses(modules), nil
}

// Update 学期与学时只能经由此处修改
func (s *moduleService) Update(ctx context.Context, id string, req *dto.UpdateModuleRequest, callerID string) (*dto.ModuleResponse, error) {
	module, err := s.repo.Module.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}
		s.logger.Error("查询模块失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		module.Name = *req.Name
	}
	if req.Hours != nil {
		module.Hours = *req.Hours
	}
	if req.RequiredSkills != nil {
		module.RequiredSkills = model.StringArray(req.RequiredSkills)
	}
	if req.Semester != nil {
		module.Semester = *req.Semester
	}
	if req.ProgramID != nil && *req.ProgramID != module.ProgramID {
		if err := s.ensureProgram(ctx, *req.ProgramID); err != nil {
			return nil, err
		}
		module.ProgramID = *req.ProgramID
	}
	module.UpdatedBy = &callerID

	if err := s.repo.Module.Update(ctx, module); err != nil {
		s.logger.Error("更新模块失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func (s *moduleService) AssignTeacher(ctx context.Context, id string, teacherID *string) (*dto.ModuleResponse, error) {
	if teacherID != nil {
		if _, err := loadTeacher(ctx, s.repo, s.logger, *teacherID); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Module.AssignTeacher(ctx, id, teacherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}
		s.logger.Error("指派教师失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *moduleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Module.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrModuleNotFound
		}
		s.logger.Error("删除模块失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *moduleService) ensureProgram(ctx context.Context, programID string) error {
	if _, err := s.repo.Program.GetByID(ctx, programID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProgramNotFound
		}
		s.logger.Error("查询专业失败", zap.String("id", programID), zap.Error(err))
		return err
	}
	return nil
}

// loadTeacher 查询并确认用户角色为教师
func loadTeacher(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id string) (*model.Person, error) {
	person, err := repo.Person.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		logger.Error("查询教师失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if person.Role != model.RoleTeacher {
		return nil, ErrNotATeacher
	}
	return person, nil
}
