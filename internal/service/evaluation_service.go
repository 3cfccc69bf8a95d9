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

// ── 成绩模块业务错误 ──

var (
	ErrEvaluationNotFound = fmt.Errorf("%w: 成绩记录不存在", pkgerrors.ErrNotFound)
	ErrEvaluationExists   = fmt.Errorf("%w: 该学生在此模块已有成绩记录", pkgerrors.ErrDuplicate)
	ErrEvaluationVersion  = fmt.Errorf("%w: 成绩已被他人修改，请刷新后重试", pkgerrors.ErrOptimisticLock)
)

// EvaluationService 成绩业务接口
type EvaluationService interface {
	Create(ctx context.Context, req *dto.CreateEvaluationRequest, callerID string) (*dto.EvaluationResponse, error)
	GetByID(ctx context.Context, id string) (*dto.EvaluationResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateEvaluationRequest, callerID string) (*dto.EvaluationResponse, error)
	Delete(ctx context.Context, id string) error
	ListByStudent(ctx context.Context, studentID string) ([]dto.EvaluationResponse, error)
	ListByModule(ctx context.Context, moduleID string) ([]dto.EvaluationResponse, error)
	StudentAverage(ctx context.Context, studentID string) (*dto.AverageResponse, error)
	ModuleAverage(ctx context.Context, moduleID string) (*dto.AverageResponse, error)
}

type evaluationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEvaluationService 创建 EvaluationService 实例
func NewEvaluationService(repo *repository.Repository, logger *zap.Logger) EvaluationService {
	return &evaluationService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *evaluationService) Create(ctx context.Context, req *dto.CreateEvaluationRequest, callerID string) (*dto.EvaluationResponse, error) {
	if err := ValidatePartialScores(req.TP, req.DS, req.Project, req.Participation); err != nil {
		return nil, err
	}

	student, err := s.repo.Person.GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", req.StudentID), zap.Error(err))
		return nil, err
	}
	if student.Role != model.RoleStudent {
		return nil, ErrNotAStudent
	}
	module, err := s.repo.Module.GetByID(ctx, req.ModuleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}
		s.logger.Error("查询模块失败", zap.String("id", req.ModuleID), zap.Error(err))
		return nil, err
	}

	evaluation := &model.Evaluation{
		StudentID:     req.StudentID,
		ModuleID:      req.ModuleID,
		TP:            req.TP,
		DS:            req.DS,
		Project:       req.Project,
		Participation: req.Participation,
		FinalScore:    ComputeFinalScore(req.TP, req.DS, req.Project, req.Participation),
		Feedback:      req.Feedback,
		EvaluatedAt:   req.EvaluatedAt,
	}
	evaluation.Version = 1
	evaluation.CreatedBy = &callerID
	evaluation.UpdatedBy = &callerID

	if err := s.repo.Evaluation.Create(ctx, evaluation); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			return nil, ErrEvaluationExists
		}
		s.logger.Error("创建成绩失败", zap.Error(err))
		return nil, err
	}

	evaluation.Student, evaluation.Module = student, module
	resp := toEvaluationResponse(evaluation)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

// Update 分项整体替换并重新计算总评
func (s *evaluationService) Update(ctx context.Context, id string, req *dto.UpdateEvaluationRequest, callerID string) (*dto.EvaluationResponse, error) {
	if err := ValidatePartialScores(req.TP, req.DS, req.Project, req.Participation); err != nil {
		return nil, err
	}

	evaluation, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if evaluation.Version != req.Version {
		return nil, ErrEvaluationVersion
	}

	evaluation.TP = req.TP
	evaluation.DS = req.DS
	evaluation.Project = req.Project
	evaluation.Participation = req.Participation
	evaluation.FinalScore = ComputeFinalScore(req.TP, req.DS, req.Project, req.Participation)
	evaluation.Feedback = req.Feedback
	if req.EvaluatedAt != nil {
		evaluation.EvaluatedAt = req.EvaluatedAt
	}
	evaluation.UpdatedBy = &callerID

	if err := s.repo.Evaluation.Update(ctx, evaluation); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrEvaluationVersion
		}
		s.logger.Error("更新成绩失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toEvaluationResponse(evaluation)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *evaluationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Evaluation.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEvaluationNotFound
		}
		s.logger.Error("删除成绩失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 查询 ──────────────────────

func (s *evaluationService) GetByID(ctx context.Context, id string) (*dto.EvaluationResponse, error) {
	evaluation, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toEvaluationResponse(evaluation)
	return &resp, nil
}

func (s *evaluationService) ListByStudent(ctx context.Context, studentID string) ([]dto.EvaluationResponse, error) {
	evaluations, err := s.repo.Evaluation.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生成绩失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	return toEvaluationResponses(evaluations), nil
}

func (s *evaluationService) ListByModule(ctx context.Context, moduleID string) ([]dto.EvaluationResponse, error) {
	evaluations, err := s.repo.Evaluation.ListByModule(ctx, moduleID)
	if err != nil {
		s.logger.Error("查询模块成绩失败", zap.String("module_id", moduleID), zap.Error(err))
		return nil, err
	}
	return toEvaluationResponses(evaluations), nil
}

// StudentAverage 未出总评的记录按 0 计
func (s *evaluationService) StudentAverage(ctx context.Context, studentID string) (*dto.AverageResponse, error) {
	avg, err := s.repo.Evaluation.AverageByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("计算学生平均分失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	return &dto.AverageResponse{ID: studentID, Average: avg}, nil
}

func (s *evaluationService) ModuleAverage(ctx context.Context, moduleID string) (*dto.AverageResponse, error) {
	avg, err := s.repo.Evaluation.AverageByModule(ctx, moduleID)
	if err != nil {
		s.logger.Error("计算模块平均分失败", zap.String("module_id", moduleID), zap.Error(err))
		return nil, err
	}
	return &dto.AverageResponse{ID: moduleID, Average: avg}, nil
}

func (s *evaluationService) get(ctx context.Context, id string) (*model.Evaluation, error) {
	evaluation, err := s.repo.Evaluation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEvaluationNotFound
		}
		s.logger.Error("查询成绩失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return evaluation, nil
}
