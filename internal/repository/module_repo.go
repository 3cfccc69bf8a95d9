package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/model"
)

// ModuleFilter 模块列表过滤条件
type ModuleFilter struct {
	ProgramID string
	Semester  string
	TeacherID string
}

// ModuleRepository 教学模块数据访问接口
type ModuleRepository interface {
	Create(ctx context.Context, module *model.Module) error
	GetByID(ctx context.Context, id string) (*model.Module, error)
	List(ctx context.Context, filter ModuleFilter) ([]model.Module, error)
	Update(ctx context.Context, module *model.Module) error
	AssignTeacher(ctx context.Context, moduleID string, teacherID *string) error
	Delete(ctx context.Context, id string) error
}

type moduleRepo struct {
	db *gorm.DB
}

// NewModuleRepo 创建 ModuleRepository 实例
func NewModuleRepo(db *gorm.DB) ModuleRepository {
	return &moduleRepo{db: db}
}

func (r *moduleRepo) Create(ctx context.Context, module *model.Module) error {
	return translate(r.db.WithContext(ctx).Create(module).Error)
}

func (r *moduleRepo) GetByID(ctx context.Context, id string) (*model.Module, error) {
	var module model.Module
	err := r.db.WithContext(ctx).
		Preload("Program").
		Preload("Teacher").
		Where("module_id = ?", id).
		First(&module).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *moduleRepo) List(ctx context.Context, filter ModuleFilter) ([]model.Module, error) {
	db := r.db.WithContext(ctx).Preload("Program").Preload("Teacher")
	if filter.ProgramID != "" {
		db = db.Where("program_id = ?", filter.ProgramID)
	}
	if filter.Semester != "" {
		db = db.Where("semester = ?", filter.Semester)
	}
	if filter.TeacherID != "" {
		db = db.Where("teacher_id = ?", filter.TeacherID)
	}

	var modules []model.Module
	err := db.Order("semester, name").Find(&modules).Error
	return modules, err
}

func (r *moduleRepo) Update(ctx context.Context, module *model.Module) error {
	return translate(r.db.WithContext(ctx).
		Model(module).
		Where("module_id = ?", module.ModuleID).
		Updates(map[string]interface{}{
			"name":            module.Name,
			"hours":           module.Hours,
			"required_skills": module.RequiredSkills,
			"semester":        module.Semester,
			"program_id":      module.ProgramID,
			"updated_by":      module.UpdatedBy,
		}).Error)
}

func (r *moduleRepo) AssignTeacher(ctx context.Context, moduleID string, teacherID *string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Module{}).
		Where("module_id = ?", moduleID).
		Update("teacher_id", teacherID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *moduleRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("module_id = ?", id).Delete(&model.Module{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
