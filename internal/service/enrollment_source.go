package service

import (
	"context"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/model"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/repository"
)

// EnrollmentSource 学生所修模块的数据来源
type EnrollmentSource interface {
	ModulesOf(ctx context.Context, studentID string) ([]model.Module, error)
}

// enrollmentTableSource 以 enrollments 表为准
type enrollmentTableSource struct {
	repo repository.EnrollmentRepository
}

// NewEnrollmentTableSource 基于选课记录的数据源
func NewEnrollmentTableSource(repo repository.EnrollmentRepository) EnrollmentSource {
	return &enrollmentTableSource{repo: repo}
}

func (s *enrollmentTableSource) ModulesOf(ctx context.Context, studentID string) ([]model.Module, error) {
	return s.repo.ListModulesByStudent(ctx, studentID)
}

// legacyModuleSource 以旧版 student_modules 关联为准
type legacyModuleSource struct {
	repo repository.StudentModuleRepository
}

// NewLegacyModuleSource 基于旧版直接关联的数据源
func NewLegacyModuleSource(repo repository.StudentModuleRepository) EnrollmentSource {
	return &legacyModuleSource{repo: repo}
}

func (s *legacyModuleSource) ModulesOf(ctx context.Context, studentID string) ([]model.Module, error) {
	return s.repo.ListModules(ctx, studentID)
}

// preferCurrentSource primary 为空时回退到 fallback
type preferCurrentSource struct {
	primary  EnrollmentSource
	fallback EnrollmentSource
}

// PreferCurrent 组合两个数据源：优先 primary，结果为空时使用 fallback
// primary 出错时直接返回错误，不回退
func PreferCurrent(primary, fallback EnrollmentSource) EnrollmentSource {
	return &preferCurrentSource{primary: primary, fallback: fallback}
}

func (s *preferCurrentSource) ModulesOf(ctx context.Context, studentID string) ([]model.Module, error) {
	modules, err := s.primary.ModulesOf(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if len(modules) > 0 {
		return modules, nil
	}
	return s.fallback.ModulesOf(ctx, studentID)
}

// NewDefaultEnrollmentSource 选课记录优先、旧版关联兜底
func NewDefaultEnrollmentSource(repo *repository.Repository) EnrollmentSource {
	return PreferCurrent(
		NewEnrollmentTableSource(repo.Enrollment),
		NewLegacyModuleSource(repo.StudentModule),
	)
}
