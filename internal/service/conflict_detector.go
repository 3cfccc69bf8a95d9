package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/model"
	pkgerrors "github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/errors"
)

// ── 冲突检测业务错误 ──

var (
	ErrSessionStartRequired   = fmt.Errorf("%w: 课次开始时间不能为空", pkgerrors.ErrInvalidInput)
	ErrSessionDurationInvalid = fmt.Errorf("%w: 课次时长必须为正整数（分钟）", pkgerrors.ErrInvalidInput)
	ErrSessionGroupRequired   = fmt.Errorf("%w: 班组不能为空", pkgerrors.ErrInvalidInput)
)

// ConflictError 课次冲突，携带发生冲突的维度
// errors.Is(err, pkgerrors.ErrSchedulingConflict) 成立
type ConflictError struct {
	Dimensions []model.ConflictDimension
}

func (e *ConflictError) Error() string {
	names := make([]string, 0, len(e.Dimensions))
	for _, d := range e.Dimensions {
		names = append(names, dimensionLabel(d))
	}
	return fmt.Sprintf("%s: %s", pkgerrors.ErrSchedulingConflict.Error(), strings.Join(names, "、"))
}

func (e *ConflictError) Unwrap() error { return pkgerrors.ErrSchedulingConflict }

func dimensionLabel(d model.ConflictDimension) string {
	switch d {
	case model.DimensionRoom:
		return "教室已被占用"
	case model.DimensionTeacher:
		return "教师时间冲突"
	case model.DimensionGroup:
		return "班组时间冲突"
	}
	return string(d)
}

// ConflictCandidate 待检测的课次
type ConflictCandidate struct {
	TeacherID       string
	RoomID          string
	GroupName       string
	StartAt         *time.Time
	DurationMinutes int
}

// Interval 校验通过后的 [start, end)
func (c ConflictCandidate) Interval() (time.Time, time.Time) {
	return *c.StartAt, model.SessionEnd(*c.StartAt, c.DurationMinutes)
}

func (c ConflictCandidate) valueOf(dim model.ConflictDimension) string {
	switch dim {
	case model.DimensionRoom:
		return c.RoomID
	case model.DimensionTeacher:
		return c.TeacherID
	}
	return strings.TrimSpace(c.GroupName)
}

// ConflictReport 三个维度的冲突明细
type ConflictReport struct {
	Room    []model.Session
	Teacher []model.Session
	Group   []model.Session
}

// Dimensions 按检查顺序返回存在冲突的维度
func (r *ConflictReport) Dimensions() []model.ConflictDimension {
	var dims []model.ConflictDimension
	if len(r.Room) > 0 {
		dims = append(dims, model.DimensionRoom)
	}
	if len(r.Teacher) > 0 {
		dims = append(dims, model.DimensionTeacher)
	}
	if len(r.Group) > 0 {
		dims = append(dims, model.DimensionGroup)
	}
	return dims
}

// HasConflict 是否存在任一维度冲突
func (r *ConflictReport) HasConflict() bool {
	return len(r.Room) > 0 || len(r.Teacher) > 0 || len(r.Group) > 0
}

// Err 无冲突时返回 nil，否则返回携带全部维度的 *ConflictError
func (r *ConflictReport) Err() error {
	if !r.HasConflict() {
		return nil
	}
	return &ConflictError{Dimensions: r.Dimensions()}
}

// SessionFinder 冲突检测所需的课次查询
type SessionFinder interface {
	FindOverlapping(ctx context.Context, dim model.ConflictDimension, value string, start, end time.Time, excludeID string) ([]model.Session, error)
}

// ConflictDetector 课次冲突检测，只读
type ConflictDetector struct {
	sessions SessionFinder
}

// NewConflictDetector 创建冲突检测器
func NewConflictDetector(sessions SessionFinder) *ConflictDetector {
	return &ConflictDetector{sessions: sessions}
}

// Validate 开始时间必填、时长为正、班组非空
func (d *ConflictDetector) Validate(c ConflictCandidate) error {
	if c.StartAt == nil || c.StartAt.IsZero() {
		return ErrSessionStartRequired
	}
	if c.DurationMinutes <= 0 {
		return ErrSessionDurationInvalid
	}
	if strings.TrimSpace(c.GroupName) == "" {
		return ErrSessionGroupRequired
	}
	return nil
}

// ConflictsForRoom 与候选课次同教室且时间重叠的课次
func (d *ConflictDetector) ConflictsForRoom(ctx context.Context, c ConflictCandidate, excludeID string) ([]model.Session, error) {
	return d.conflictsFor(ctx, model.DimensionRoom, c, excludeID)
}

// ConflictsForTeacher 与候选课次同教师且时间重叠的课次
func (d *ConflictDetector) ConflictsForTeacher(ctx context.Context, c ConflictCandidate, excludeID string) ([]model.Session, error) {
	return d.conflictsFor(ctx, model.DimensionTeacher, c, excludeID)
}

// ConflictsForGroup 与候选课次同班组且时间重叠的课次
func (d *ConflictDetector) ConflictsForGroup(ctx context.Context, c ConflictCandidate, excludeID string) ([]model.Session, error) {
	return d.conflictsFor(ctx, model.DimensionGroup, c, excludeID)
}

// HasConflict 任一维度冲突即返回 true，命中后不再检查后续维度
func (d *ConflictDetector) HasConflict(ctx context.Context, c ConflictCandidate, excludeID string) (bool, error) {
	err := d.FirstConflict(ctx, c, excludeID)
	if err == nil {
		return false, nil
	}
	if _, ok := err.(*ConflictError); ok {
		return true, nil
	}
	return false, err
}

// FirstConflict 按 教室 → 教师 → 班组 顺序检查，返回首个冲突维度的 *ConflictError
func (d *ConflictDetector) FirstConflict(ctx context.Context, c ConflictCandidate, excludeID string) error {
	if err := d.Validate(c); err != nil {
		return err
	}
	for _, dim := range model.ConflictDimensions() {
		found, err := d.conflictsFor(ctx, dim, c, excludeID)
		if err != nil {
			return err
		}
		if len(found) > 0 {
			return &ConflictError{Dimensions: []model.ConflictDimension{dim}}
		}
	}
	return nil
}

// Check 三个维度全部检查，返回完整报告
func (d *ConflictDetector) Check(ctx context.Context, c ConflictCandidate, excludeID string) (*ConflictReport, error) {
	if err := d.Validate(c); err != nil {
		return nil, err
	}
	report := &ConflictReport{}
	var err error
	if report.Room, err = d.conflictsFor(ctx, model.DimensionRoom, c, excludeID); err != nil {
		return nil, err
	}
	if report.Teacher, err = d.conflictsFor(ctx, model.DimensionTeacher, c, excludeID); err != nil {
		return nil, err
	}
	if report.Group, err = d.conflictsFor(ctx, model.DimensionGroup, c, excludeID); err != nil {
		return nil, err
	}
	return report, nil
}

func (d *ConflictDetector) conflictsFor(ctx context.Context, dim model.ConflictDimension, c ConflictCandidate, excludeID string) ([]model.Session, error) {
	if err := d.Validate(c); err != nil {
		return nil, err
	}
	start, end := c.Interval()
	found, err := d.sessions.FindOverlapping(ctx, dim, c.valueOf(dim), start, end, excludeID)
	if err != nil {
		return nil, err
	}
	// 仓储已按 id 排除，这里再按半开区间过滤一次
	out := found[:0]
	for _, s := range found {
		if s.SessionID == excludeID && excludeID != "" {
			continue
		}
		if Overlaps(s.StartAt, s.EndAt, start, end) {
			out = append(out, s)
		}
	}
	return out, nil
}

// Overlaps 半开区间 [aStart, aEnd) 与 [bStart, bEnd) 是否相交，首尾相接不算
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
