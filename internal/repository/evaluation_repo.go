package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/model"
	pkgerrors "github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/errors"
)

// EvaluationRepository 成绩数据访问接口
type EvaluationRepository interface {
	Create(ctx context.Context, evaluation *model.Evaluation) error
	GetByID(ctx context.Context, id string) (*model.Evaluation, error)
	GetByStudentAndModule(ctx context.Context, studentID, moduleID string) (*model.Evaluation, error)
	// Update 乐观锁更新，版本不一致返回 pkgerrors.ErrOptimisticLock
	Update(ctx context.Context, evaluation *model.Evaluation) error
	Delete(ctx context.Context, id string) error
	ListByStudent(ctx context.Context, studentID string) ([]model.Evaluation, error)
	ListByModule(ctx context.Context, moduleID string) ([]model.Evaluation, error)
	// AverageByStudent / AverageByModule 未出分记为 0，无记录时返回 0
	AverageByStudent(ctx context.Context, studentID string) (float64, error)
	AverageByModule(ctx context.Context, moduleID string) (float64, error)
}

type evaluationRepo struct {
	db *gorm.DB
}

// NewEvaluationRepo 创建 EvaluationRepository 实例
func NewEvaluationRepo(db *gorm.DB) EvaluationRepository {
	return &evaluationRepo{db: db}
}

func (r *evaluationRepo) Create(ctx context.Context, evaluation *model.Evaluation) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(evaluation).Error)
}

func (r *evaluationRepo) GetByID(ctx context.Context, id string) (*model.Evaluation, error) {
	var evaluation model.Evaluation
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Module").
		Where("evaluation_id = ?", id).
		First(&evaluation).Error
	if err != nil {
		return nil, err
	}
	return &evaluation, nil
}

func (r *evaluationRepo) GetByStudentAndModule(ctx context.Context, studentID, moduleID string) (*model.Evaluation, error) {
	var evaluation model.Evaluation
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND module_id = ?", studentID, moduleID).
		First(&evaluation).Error
	if err != nil {
		return nil, err
	}
	return &evaluation, nil
}

func (r *evaluationRepo) Update(ctx context.Context, evaluation *model.Evaluation) error {
	oldVersion := evaluation.Version
	result := r.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Where("evaluation_id = ? AND version = ?", evaluation.EvaluationID, oldVersion).
		Updates(map[string]interface{}{
			"tp":            evaluation.TP,
			"ds":            evaluation.DS,
			"project":       evaluation.Project,
			"participation": evaluation.Participation,
			"final_score":   evaluation.FinalScore,
			"feedback":      evaluation.Feedback,
			"evaluated_at":  evaluation.EvaluatedAt,
			"updated_by":    evaluation.UpdatedBy,
			"version":       oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	evaluation.Version = oldVersion + 1
	return nil
}

func (r *evaluationRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("evaluation_id = ?", id).Delete(&model.Evaluation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *evaluationRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Evaluation, error) {
	var evaluations []model.Evaluation
	err := r.db.WithContext(ctx).
		Preload("Module").
		Where("student_id = ?", studentID).
		Order("created_at").
		Find(&evaluations).Error
	return evaluations, err
}

func (r *evaluationRepo) ListByModule(ctx context.Context, moduleID string) ([]model.Evaluation, error) {
	var evaluations []model.Evaluation
	err := r.db.WithContext(ctx).
		Preload("Student").
		Joins("JOIN users u ON u.user_id = evaluations.student_id").
		Where("evaluations.module_id = ?", moduleID).
		Order("u.last_name, u.first_name").
		Find(&evaluations).Error
	return evaluations, err
}

func (r *evaluationRepo) AverageByStudent(ctx context.Context, studentID string) (float64, error) {
	return r.average(ctx, "student_id = ?", studentID)
}

func (r *evaluationRepo) AverageByModule(ctx context.Context, moduleID string) (float64, error) {
	return r.average(ctx, "module_id = ?", moduleID)
}

func (r *evaluationRepo) average(ctx context.Context, cond string, arg string) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Select("COALESCE(AVG(COALESCE(final_score, 0)), 0)").
		Where(cond, arg).
		Scan(&avg).Error
	return avg, err
}
