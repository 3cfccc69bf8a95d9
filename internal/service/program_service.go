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

// ── 专业模块业务错误 ──

var (
	ErrProgramNotFound  = fmt.Errorf("%w: 专业不存在", pkgerrors.ErrNotFound)
	ErrProgramNameTaken = fmt.Errorf("%w: 专业名称已存在", pkgerrors.ErrDuplicate)
)

// ProgramService 专业业务接口
type ProgramService interface {
	Create(ctx context.Context, req *dto.CreateProgramRequest, callerID string) (*dto.ProgramResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ProgramResponse, error)
	List(ctx context.Context) ([]dto.ProgramResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateProgramRequest, callerID string) (*dto.ProgramResponse, error)
	Delete(ctx context.Context, id string) error
}

type programService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProgramService 创建 ProgramService 实例
func NewProgramService(repo *repository.Repository, logger *zap.Logger) ProgramService {
	return &programService{repo: repo, logger: logger}
}

func (s *programService) Create(ctx context.Context, req *dto.CreateProgramRequest, callerID string) (*dto.ProgramResponse, error) {
	program := &model.Program{Name: req.Name, Description: req.Description}
	program.CreatedBy = &callerID
	program.UpdatedBy = &callerID

	if err := s.repo.Program.Create(ctx, program); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			return nil, ErrProgramNameTaken
		}
		s.logger.Error("创建专业失败", zap.Error(err))
		return nil, err
	}

	resp := toProgramResponse(program)
	return &resp, nil
}

func (s *programService) GetByID(ctx context.Context, id string) (*dto.ProgramResponse, error) {
	program, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toProgramResponse(program)
	return &resp, nil
}

func (s *programService) List(ctx context.Context) ([]dto.ProgramResponse, error) {
	programs, err := s.repo.Program.List(ctx)
	if err != nil {
		s.logger.Error("列出专业失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ProgramResponse, 0, len(programs))
	for i := range programs {
		result = append(result, toProgramResponse(&programs[i]))
	}
	return result, nil
}

func (s *programService) Update(ctx context.Context, id string, req *dto.UpdateProgramRequest, callerID string) (*dto.ProgramResponse, error) {
	program, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		program.Name = *req.Name
	}
	if req.Description != nil {
		program.Description = *req.Description
	}
	program.UpdatedBy = &callerID

	if err := s.repo.Program.Update(ctx, program); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			return nil, ErrProgramNameTaken
		}
		s.logger.Error("更新专业失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toProgramResponse(program)
	return &resp, nil
}

func (s *programService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Program.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProgramNotFound
		}
		s.logger.Error("删除专业失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *programService) get(ctx context.Context, id string) (*model.Program, error) {
	program, err := s.repo.Program.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		s.logger.Error("查询专业失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return program, nil
}
