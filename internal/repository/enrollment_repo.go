package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/model"
)

// EnrollmentFilter 选课列表过滤条件
type EnrollmentFilter struct {
	Keyword   string // 学生姓名/邮箱或模块名
	StudentID string
	ModuleID  string
	ProgramID string
	Level     string
	Semester  string
	Status    string
}

// EnrollmentStats 选课统计
type EnrollmentStats struct {
	Total           int64            `json:"total"`
	Active          int64            `json:"active"`
	Completed       int64            `json:"completed"`
	Suspended       int64            `json:"suspended"`
	ActiveByProgram map[string]int64 `json:"active_by_program"`
}

// EnrollmentRepository 选课数据访问接口
type EnrollmentRepository interface {
	// Create 写入选课记录并在同一事务内补齐旧版 student_modules 关联
	Create(ctx context.Context, enrollment *model.Enrollment) error
	GetByID(ctx context.Context, id string) (*model.Enrollment, error)
	GetByStudentAndModule(ctx context.Context, studentID, moduleID string) (*model.Enrollment, error)
	// ExistsForPair 不区分状态
	ExistsForPair(ctx context.Context, studentID, moduleID string) (bool, error)
	// Delete 删除选课记录并在同一事务内移除旧版关联
	Delete(ctx context.Context, enrollment *model.Enrollment) error
	UpdateStatus(ctx context.Context, id, status string, operatorID *string) error
	ListModulesByStudent(ctx context.Context, studentID string) ([]model.Module, error)
	List(ctx context.Context, filter EnrollmentFilter, offset, limit int) ([]model.Enrollment, int64, error)
	Stats(ctx context.Context) (*EnrollmentStats, error)
}

// StudentModuleRepository 旧版学生-模块关联数据访问接口
type StudentModuleRepository interface {
	ListModules(ctx context.Context, studentID string) ([]model.Module, error)
}

// ── Enrollment Repository 实现 ──

type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo 创建 EnrollmentRepository 实例
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(enrollment).Error; err != nil {
			return err
		}
		link := &model.StudentModule{StudentID: enrollment.StudentID, ModuleID: enrollment.ModuleID}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(link).Error
	}))
}

func (r *enrollmentRepo) GetByID(ctx context.Context, id string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Module").
		Preload("Program").
		Where("enrollment_id = ?", id).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepo) GetByStudentAndModule(ctx context.Context, studentID, moduleID string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND module_id = ?", studentID, moduleID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepo) ExistsForPair(ctx context.Context, studentID, moduleID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("student_id = ? AND module_id = ?", studentID, moduleID).
		Count(&count).Error
	return count > 0, err
}

func (r *enrollmentRepo) Delete(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("enrollment_id = ?", enrollment.EnrollmentID).Delete(&model.Enrollment{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.
			Where("student_id = ? AND module_id = ?", enrollment.StudentID, enrollment.ModuleID).
			Delete(&model.StudentModule{}).Error
	})
}

func (r *enrollmentRepo) UpdateStatus(ctx context.Context, id, status string, operatorID *string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("enrollment_id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": operatorID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *enrollmentRepo) ListModulesByStudent(ctx context.Context, studentID string) ([]model.Module, error) {
	var modules []model.Module
	err := r.db.WithContext(ctx).
		Preload("Program").
		Preload("Teacher").
		Joins("JOIN enrollments e ON e.module_id = modules.module_id").
		Where("e.student_id = ?", studentID).
		Order("modules.semester, modules.name").
		Find(&modules).Error
	return modules, err
}

func (r *enrollmentRepo) List(ctx context.Context, filter EnrollmentFilter, offset, limit int) ([]model.Enrollment, int64, error) {
	var enrollments []model.Enrollment
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Enrollment{})
	if filter.StudentID != "" {
		db = db.Where("enrollments.student_id = ?", filter.StudentID)
	}
	if filter.ModuleID != "" {
		db = db.Where("enrollments.module_id = ?", filter.ModuleID)
	}
	if filter.ProgramID != "" {
		db = db.Where("enrollments.program_id = ?", filter.ProgramID)
	}
	if filter.Level != "" {
		db = db.Where("enrollments.level = ?", filter.Level)
	}
	if filter.Semester != "" {
		db = db.Where("enrollments.semester = ?", filter.Semester)
	}
	if filter.Status != "" {
		db = db.Where("enrollments.status = ?", filter.Status)
	}
	if filter.Keyword != "" {
		kw := "%" + filter.Keyword + "%"
		db = db.
			Joins("JOIN users u ON u.user_id = enrollments.student_id").
			Joins("JOIN modules m ON m.module_id = enrollments.module_id").
			Where("u.first_name ILIKE ? OR u.last_name ILIKE ? OR u.email ILIKE ? OR m.name ILIKE ?", kw, kw, kw, kw)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.
		Preload("Student").
		Preload("Module").
		Preload("Program").
		Order("enrollments.enrolled_at DESC").
		Offset(offset).Limit(limit).
		Find(&enrollments).Error; err != nil {
		return nil, 0, err
	}

	return enrollments, total, nil
}

func (r *enrollmentRepo) Stats(ctx context.Context) (*EnrollmentStats, error) {
	var byStatus []struct {
		Status string
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}

	stats := &EnrollmentStats{ActiveByProgram: make(map[string]int64)}
	for _, row := range byStatus {
		stats.Total += row.Count
		switch row.Status {
		case model.EnrollmentActive:
			stats.Active = row.Count
		case model.EnrollmentCompleted:
			stats.Completed = row.Count
		case model.EnrollmentSuspended:
			stats.Suspended = row.Count
		}
	}

	var byProgram []struct {
		Name  string
		Count int64
	}
	if err := r.db.WithContext(ctx).
		Table("enrollments e").
		Select("p.name AS name, COUNT(*) AS count").
		Joins("JOIN programs p ON p.program_id = e.program_id").
		Where("e.status = ?", model.EnrollmentActive).
		Group("p.name").
		Scan(&byProgram).Error; err != nil {
		return nil, err
	}
	for _, row := range byProgram {
		stats.ActiveByProgram[row.Name] = row.Count
	}

	return stats, nil
}

// ── StudentModule Repository 实现 ──

type studentModuleRepo struct {
	db *gorm.DB
}

// NewStudentModuleRepo 创建 StudentModuleRepository 实例
func NewStudentModuleRepo(db *gorm.DB) StudentModuleRepository {
	return &studentModuleRepo{db: db}
}

func (r *studentModuleRepo) ListModules(ctx context.Context, studentID string) ([]model.Module, error) {
	var modules []model.Module
	err := r.db.WithContext(ctx).
		Preload("Program").
		Preload("Teacher").
		Joins("JOIN student_modules sm ON sm.module_id = modules.module_id").
		Where("sm.student_id = ?", studentID).
		Order("modules.semester, modules.name").
		Find(&modules).Error
	return modules, err
}
