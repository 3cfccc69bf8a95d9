package service

import (
	"go.uber.org/zap"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/config"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/repository"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/jwt"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Person     PersonService
	Program    ProgramService
	Room       RoomService
	Module     ModuleService
	Session    SessionService
	Calendar   CalendarService
	Enrollment EnrollmentService
	Evaluation EvaluationService
	Export     ExportService
	Dashboard  DashboardService
}

// NewService 创建 Service 聚合
// rdb 可为 nil：此时不加排课锁，注销不写黑名单
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	var blacklist TokenBlacklist
	if rdb != nil {
		blacklist = rdb
	}
	source := NewDefaultEnrollmentSource(repo)
	locker := NewLocker(rdb, cfg.Scheduling.LockEnabled, cfg.Scheduling.LockTTL, logger)

	return &Service{
		Auth:       NewAuthService(repo, jwtMgr, blacklist, logger),
		Person:     NewPersonService(repo, logger),
		Program:    NewProgramService(repo, logger),
		Room:       NewRoomService(repo, logger),
		Module:     NewModuleService(repo, logger),
		Session:    NewSessionService(repo, locker, logger),
		Calendar:   NewCalendarService(cfg.Scheduling, repo, logger),
		Enrollment: NewEnrollmentService(cfg.Enrollment, repo, source, logger),
		Evaluation: NewEvaluationService(repo, logger),
		Export:     NewExportService(repo, logger),
		Dashboard:  NewDashboardService(repo, source, logger),
	}
}
