package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/model"
)

// SessionFilter 课次列表过滤条件，零值字段不参与过滤
type SessionFilter struct {
	ModuleID  string
	TeacherID string
	RoomID    string
	GroupName string
	From      *time.Time
	To        *time.Time
}

// SessionRepository 课次数据访问接口
// 写操作与变更日志在同一事务内完成
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session, operatorID *string) error
	GetByID(ctx context.Context, id string) (*model.Session, error)
	Update(ctx context.Context, session *model.Session, before *model.Session, operatorID *string) error
	Delete(ctx context.Context, session *model.Session, operatorID *string) error
	List(ctx context.Context, filter SessionFilter) ([]model.Session, error)
	// FindOverlapping 查询指定维度上与 [start, end) 重叠的课次，excludeID 非空时排除该课次
	FindOverlapping(ctx context.Context, dim model.ConflictDimension, value string, start, end time.Time, excludeID string) ([]model.Session, error)
}

// SessionChangeLogRepository 课次变更日志数据访问接口
type SessionChangeLogRepository interface {
	ListBySession(ctx context.Context, sessionID string, offset, limit int) ([]model.SessionChangeLog, int64, error)
}

// ── Session Repository 实现 ──

type sessionRepo struct {
	db *gorm.DB
}

// NewSessionRepo 创建 SessionRepository 实例
func NewSessionRepo(db *gorm.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, session *model.Session, operatorID *string) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(session).Error; err != nil {
			return err
		}
		return writeChangeLog(tx, session.SessionID, model.ChangeActionCreate, operatorID, nil, session)
	}))
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	err := r.db.WithContext(ctx).
		Preload("Module").
		Preload("Teacher").
		Preload("Room").
		Where("session_id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) Update(ctx context.Context, session *model.Session, before *model.Session, operatorID *string) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(session).Error; err != nil {
			return err
		}
		return writeChangeLog(tx, session.SessionID, model.ChangeActionUpdate, operatorID, before, session)
	}))
}

func (r *sessionRepo) Delete(ctx context.Context, session *model.Session, operatorID *string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("session_id = ?", session.SessionID).Delete(&model.Session{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return writeChangeLog(tx, session.SessionID, model.ChangeActionDelete, operatorID, session, nil)
	})
}

func (r *sessionRepo) List(ctx context.Context, filter SessionFilter) ([]model.Session, error) {
	db := r.db.WithContext(ctx).Preload("Module").Preload("Teacher").Preload("Room")
	if filter.ModuleID != "" {
		db = db.Where("module_id = ?", filter.ModuleID)
	}
	if filter.TeacherID != "" {
		db = db.Where("teacher_id = ?", filter.TeacherID)
	}
	if filter.RoomID != "" {
		db = db.Where("room_id = ?", filter.RoomID)
	}
	if filter.GroupName != "" {
		db = db.Where("group_name = ?", filter.GroupName)
	}
	// 时间窗同样按半开区间求交
	if filter.To != nil {
		db = db.Where("start_at < ?", *filter.To)
	}
	if filter.From != nil {
		db = db.Where("end_at > ?", *filter.From)
	}

	var sessions []model.Session
	err := db.Order("start_at").Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepo) FindOverlapping(ctx context.Context, dim model.ConflictDimension, value string, start, end time.Time, excludeID string) ([]model.Session, error) {
	column, err := dimensionColumn(dim)
	if err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx).
		Where(column+" = ?", value).
		Where("start_at < ? AND end_at > ?", end, start)
	if excludeID != "" {
		db = db.Where("session_id <> ?", excludeID)
	}

	var sessions []model.Session
	err = db.Order("start_at").Find(&sessions).Error
	return sessions, err
}

func dimensionColumn(dim model.ConflictDimension) (string, error) {
	switch dim {
	case model.DimensionRoom:
		return "room_id", nil
	case model.DimensionTeacher:
		return "teacher_id", nil
	case model.DimensionGroup:
		return "group_name", nil
	}
	return "", fmt.Errorf("未知的冲突维度: %q", dim)
}

// writeChangeLog 在事务内写入课次快照
func writeChangeLog(tx *gorm.DB, sessionID, action string, operatorID *string, before, after *model.Session) error {
	entry := &model.SessionChangeLog{
		SessionID:  sessionID,
		Action:     action,
		OperatorID: operatorID,
	}
	var err error
	if entry.Before, err = snapshot(before); err != nil {
		return err
	}
	if entry.After, err = snapshot(after); err != nil {
		return err
	}
	return tx.Create(entry).Error
}

// snapshot 只保留课次自身字段，不含关联对象
func snapshot(s *model.Session) (datatypes.JSON, error) {
	if s == nil {
		return nil, nil
	}
	flat := *s
	flat.Module, flat.Teacher, flat.Room = nil, nil, nil
	b, err := json.Marshal(flat)
	if err != nil {
		return nil, fmt.Errorf("序列化课次快照失败: %w", err)
	}
	return datatypes.JSON(b), nil
}

// ── SessionChangeLog Repository 实现 ──

type sessionChangeLogRepo struct {
	db *gorm.DB
}

// NewSessionChangeLogRepo 创建 SessionChangeLogRepository 实例
func NewSessionChangeLogRepo(db *gorm.DB) SessionChangeLogRepository {
	return &sessionChangeLogRepo{db: db}
}

func (r *sessionChangeLogRepo) ListBySession(ctx context.Context, sessionID string, offset, limit int) ([]model.SessionChangeLog, int64, error) {
	var logs []model.SessionChangeLog
	var total int64

	db := r.db.WithContext(ctx).Model(&model.SessionChangeLog{}).Where("session_id = ?", sessionID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
