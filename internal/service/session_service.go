package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/dto"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/model"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/repository"
	pkgerrors "github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/errors"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/metrics"
)

// ── 课次模块业务错误 ──

var ErrSessionNotFound = fmt.Errorf("%w: 课次不存在", pkgerrors.ErrNotFound)

// exclusionDimensions 数据库排他约束名 → 冲突维度
var exclusionDimensions = map[string]model.ConflictDimension{
	"ex_sessions_room":    model.DimensionRoom,
	"ex_sessions_teacher": model.DimensionTeacher,
	"ex_sessions_group":   model.DimensionGroup,
}

// SessionService 课次业务接口
type SessionService interface {
	Create(ctx context.Context, req *dto.SessionRequest, callerID string) (*dto.SessionResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SessionResponse, error)
	List(ctx context.Context, req *dto.SessionListRequest) ([]dto.SessionResponse, error)
	Update(ctx context.Context, id string, req *dto.SessionRequest, callerID string) (*dto.SessionResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	CheckConflicts(ctx context.Context, req *dto.ConflictCheckRequest) (*dto.ConflictReportResponse, error)
	ListChangeLogs(ctx context.Context, id string, req *dto.ChangeLogListRequest) ([]dto.SessionChangeLogResponse, int64, error)
}

type sessionService struct {
	repo     *repository.Repository
	detector *ConflictDetector
	locker   Locker
	logger   *zap.Logger
}

// NewSessionService 创建 SessionService 实例
func NewSessionService(repo *repository.Repository, locker Locker, logger *zap.Logger) SessionService {
	if locker == nil {
		locker = noopLocker{}
	}
	return &sessionService{
		repo:     repo,
		detector: NewConflictDetector(repo.Session),
		locker:   locker,
		logger:   logger,
	}
}

func candidateOf(req *dto.SessionRequest) ConflictCandidate {
	return ConflictCandidate{
		TeacherID:       req.TeacherID,
		RoomID:          req.RoomID,
		GroupName:       strings.TrimSpace(req.GroupName),
		StartAt:         req.StartAt,
		DurationMinutes: req.DurationMinutes,
	}
}

// ────────────────────── Create ──────────────────────

func (s *sessionService) Create(ctx context.Context, req *dto.SessionRequest, callerID string) (*dto.SessionResponse, error) {
	candidate := candidateOf(req)

	// 1. 时间与班组校验
	if err := s.detector.Validate(candidate); err != nil {
		return nil, err
	}

	// 2. 引用校验
	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}

	session := &model.Session{
		ModuleID:        req.ModuleID,
		TeacherID:       req.TeacherID,
		RoomID:          req.RoomID,
		GroupName:       candidate.GroupName,
		StartAt:         *req.StartAt,
		DurationMinutes: req.DurationMinutes,
		Type:            sessionTypeOr(req.Type, model.SessionTypeLecture),
	}
	session.EndAt = model.SessionEnd(session.StartAt, session.DurationMinutes)
	session.CreatedBy = &callerID
	session.UpdatedBy = &callerID

	// 3. 加锁后检测冲突并写入
	err := s.withLock(ctx, candidate, func() error {
		if err := s.detector.FirstConflict(ctx, candidate, ""); err != nil {
			return err
		}
		return s.repo.Session.Create(ctx, session, &callerID)
	})
	if err != nil {
		return nil, s.writeError("创建课次失败", err)
	}

	return s.GetByID(ctx, session.SessionID)
}

// ────────────────────── Update ──────────────────────

func (s *sessionService) Update(ctx context.Context, id string, req *dto.SessionRequest, callerID string) (*dto.SessionResponse, error) {
	current, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	candidate := candidateOf(req)
	if err := s.detector.Validate(candidate); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}

	before := *current
	updated := *current
	updated.Module, updated.Teacher, updated.Room = nil, nil, nil
	updated.ModuleID = req.ModuleID
	updated.TeacherID = req.TeacherID
	updated.RoomID = req.RoomID
	updated.GroupName = candidate.GroupName
	updated.StartAt = *req.StartAt
	updated.DurationMinutes = req.DurationMinutes
	updated.EndAt = model.SessionEnd(updated.StartAt, updated.DurationMinutes)
	updated.Type = sessionTypeOr(req.Type, current.Type)
	updated.UpdatedBy = &callerID

	// 自身记录不参与冲突
	err = s.withLock(ctx, candidate, func() error {
		if err := s.detector.FirstConflict(ctx, candidate, id); err != nil {
			return err
		}
		return s.repo.Session.Update(ctx, &updated, &before, &callerID)
	})
	if err != nil {
		return nil, s.writeError("更新课次失败", err)
	}

	return s.GetByID(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *sessionService) Delete(ctx context.Context, id string, callerID string) error {
	session, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	session.Module, session.Teacher, session.Room = nil, nil, nil

	if err := s.repo.Session.Delete(ctx, session, &callerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		s.logger.Error("删除课次失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 查询 ──────────────────────

func (s *sessionService) GetByID(ctx context.Context, id string) (*dto.SessionResponse, error) {
	session, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toSessionResponse(session)
	return &resp, nil
}

func (s *sessionService) List(ctx context.Context, req *dto.SessionListRequest) ([]dto.SessionResponse, error) {
	if req.From != nil && req.To != nil && !req.To.After(*req.From) {
		return nil, fmt.Errorf("%w: 结束时间必须晚于开始时间", pkgerrors.ErrInvalidInput)
	}
	sessions, err := s.repo.Session.List(ctx, repository.SessionFilter{
		ModuleID:  req.ModuleID,
		TeacherID: req.TeacherID,
		RoomID:    req.RoomID,
		GroupName: strings.TrimSpace(req.GroupName),
		From:      req.From,
		To:        req.To,
	})
	if err != nil {
		s.logger.Error("查询课次列表失败", zap.Error(err))
		return nil, err
	}
	return toSessionResponses(sessions), nil
}

// CheckConflicts 三个维度全部检查，不写库
func (s *sessionService) CheckConflicts(ctx context.Context, req *dto.ConflictCheckRequest) (*dto.ConflictReportResponse, error) {
	report, err := s.detector.Check(ctx, candidateOf(&req.SessionRequest), req.ExcludeSessionID)
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrInvalidInput) {
			s.logger.Error("冲突预检失败", zap.Error(err))
		}
		return nil, err
	}
	return toConflictReportResponse(report), nil
}

func (s *sessionService) ListChangeLogs(ctx context.Context, id string, req *dto.ChangeLogListRequest) ([]dto.SessionChangeLogResponse, int64, error) {
	logs, total, err := s.repo.SessionChangeLog.ListBySession(ctx, id, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询课次变更记录失败", zap.String("id", id), zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.SessionChangeLogResponse, 0, len(logs))
	for i := range logs {
		result = append(result, toChangeLogResponse(&logs[i]))
	}
	return result, total, nil
}

// ── 辅助 ──

func (s *sessionService) get(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.repo.Session.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("查询课次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return session, nil
}

// checkReferences 模块存在、教师角色正确、教室存在且可用
func (s *sessionService) checkReferences(ctx context.Context, req *dto.SessionRequest) error {
	if _, err := s.repo.Module.GetByID(ctx, req.ModuleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrModuleNotFound
		}
		s.logger.Error("查询模块失败", zap.String("id", req.ModuleID), zap.Error(err))
		return err
	}
	if _, err := loadTeacher(ctx, s.repo, s.logger, req.TeacherID); err != nil {
		return err
	}
	room, err := s.repo.Room.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		s.logger.Error("查询教室失败", zap.String("id", req.RoomID), zap.Error(err))
		return err
	}
	if !room.Available {
		return ErrRoomUnavailable
	}
	return nil
}

func (s *sessionService) withLock(ctx context.Context, c ConflictCandidate, fn func() error) error {
	release, err := s.locker.Lock(ctx, sessionLockKeys(c)...)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

// writeError 统一处理冲突与约束错误，其余记录日志后原样返回
func (s *sessionService) writeError(msg string, err error) error {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		for _, d := range conflict.Dimensions {
			metrics.SchedulingConflicts.WithLabelValues(string(d)).Inc()
		}
		return err
	}

	// 并发写入越过检测时由排他约束拒绝
	var ce *pkgerrors.ConstraintError
	if errors.As(err, &ce) && errors.Is(ce.Kind, pkgerrors.ErrSchedulingConflict) {
		dim, ok := exclusionDimensions[ce.Constraint]
		if !ok {
			dim = model.DimensionRoom
		}
		metrics.SchedulingConflicts.WithLabelValues(string(dim)).Inc()
		return &ConflictError{Dimensions: []model.ConflictDimension{dim}}
	}

	if errors.Is(err, pkgerrors.ErrSchedulingConflict) {
		return err
	}
	s.logger.Error(msg, zap.Error(err))
	return err
}

func sessionTypeOr(t, fallback string) string {
	if t == "" {
		return fallback
	}
	return t
}
