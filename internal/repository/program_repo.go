package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/model"
)

// ProgramRepository 专业数据访问接口
type ProgramRepository interface {
	Create(ctx context.Context, program *model.Program) error
	GetByID(ctx context.Context, id string) (*model.Program, error)
	List(ctx context.Context) ([]model.Program, error)
	Update(ctx context.Context, program *model.Program) error
	Delete(ctx context.Context, id string) error
}

type programRepo struct {
	db *gorm.DB
}

// NewProgramRepo 创建 ProgramRepository 实例
func NewProgramRepo(db *gorm.DB) ProgramRepository {
	return &programRepo{db: db}
}

func (r *programRepo) Create(ctx context.Context, program *model.Program) error {
	return translate(r.db.WithContext(ctx).Create(program).Error)
}

func (r *programRepo) GetByID(ctx context.Context, id string) (*model.Program, error) {
	var program model.Program
	if err := r.db.WithContext(ctx).Where("program_id = ?", id).First(&program).Error; err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *programRepo) List(ctx context.Context) ([]model.Program, error) {
	var programs []model.Program
	err := r.db.WithContext(ctx).Order("name").Find(&programs).Error
	return programs, err
}

func (r *programRepo) Update(ctx context.Context, program *model.Program) error {
	return translate(r.db.WithContext(ctx).Save(program).Error)
}

func (r *programRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("program_id = ?", id).Delete(&model.Program{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
