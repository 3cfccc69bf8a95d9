package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/model"
)

// PersonFilter 用户列表过滤条件
type PersonFilter struct {
	Role      string
	Keyword   string
	ProgramID string
	Level     string
}

// PersonRepository 用户数据访问接口
type PersonRepository interface {
	Create(ctx context.Context, person *model.Person) error
	GetByID(ctx context.Context, id string) (*model.Person, error)
	GetByEmail(ctx context.Context, email string) (*model.Person, error)
	List(ctx context.Context, filter PersonFilter, offset, limit int) ([]model.Person, int64, error)
	// ListStudents 按专业与年级列出学生，批量选课使用
	ListStudents(ctx context.Context, programID, level string) ([]model.Person, error)
	CountByRole(ctx context.Context) (map[string]int64, error)
	Delete(ctx context.Context, id string) error
}

type personRepo struct {
	db *gorm.DB
}

// NewPersonRepo 创建 PersonRepository 实例
func NewPersonRepo(db *gorm.DB) PersonRepository {
	return &personRepo{db: db}
}

// Create 连同角色档案一并写入
func (r *personRepo) Create(ctx context.Context, person *model.Person) error {
	return translate(r.db.WithContext(ctx).Create(person).Error)
}

func (r *personRepo) GetByID(ctx context.Context, id string) (*model.Person, error) {
	var person model.Person
	err := r.withProfiles(r.db.WithContext(ctx)).
		Where("user_id = ?", id).
		First(&person).Error
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *personRepo) GetByEmail(ctx context.Context, email string) (*model.Person, error) {
	var person model.Person
	err := r.withProfiles(r.db.WithContext(ctx)).
		Where("LOWER(email) = LOWER(?)", email).
		First(&person).Error
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *personRepo) List(ctx context.Context, filter PersonFilter, offset, limit int) ([]model.Person, int64, error) {
	var persons []model.Person
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Person{})
	if filter.Role != "" {
		db = db.Where("users.role = ?", filter.Role)
	}
	if filter.Keyword != "" {
		kw := "%" + filter.Keyword + "%"
		db = db.Where("users.first_name ILIKE ? OR users.last_name ILIKE ? OR users.email ILIKE ?", kw, kw, kw)
	}
	if filter.ProgramID != "" || filter.Level != "" {
		db = db.Joins("JOIN student_profiles sp ON sp.user_id = users.user_id")
		if filter.ProgramID != "" {
			db = db.Where("sp.program_id = ?", filter.ProgramID)
		}
		if filter.Level != "" {
			db = db.Where("sp.level = ?", filter.Level)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.withProfiles(db).
		Offset(offset).Limit(limit).
		Order("users.last_name, users.first_name").
		Find(&persons).Error; err != nil {
		return nil, 0, err
	}

	return persons, total, nil
}

func (r *personRepo) ListStudents(ctx context.Context, programID, level string) ([]model.Person, error) {
	var persons []model.Person
	err := r.db.WithContext(ctx).
		Preload("Student").
		Joins("JOIN student_profiles sp ON sp.user_id = users.user_id").
		Where("users.role = ? AND sp.program_id = ? AND sp.level = ?", model.RoleStudent, programID, level).
		Order("users.last_name, users.first_name").
		Find(&persons).Error
	return persons, err
}

func (r *personRepo) CountByRole(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Role  string
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Person{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}

// Delete 软删除
func (r *personRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("user_id = ?", id).Delete(&model.Person{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *personRepo) withProfiles(db *gorm.DB) *gorm.DB {
	return db.Preload("Student").Preload("Student.Program").Preload("Teacher").Preload("Admin")
}
