package handler

import (
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/config"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Person     *PersonHandler
	Program    *ProgramHandler
	Room       *RoomHandler
	Module     *ModuleHandler
	Session    *SessionHandler
	Enrollment *EnrollmentHandler
	Evaluation *EvaluationHandler
	Export     *ExportHandler
	Dashboard  *DashboardHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth, cfg),
		Person:     NewPersonHandler(svc.Person),
		Program:    NewProgramHandler(svc.Program),
		Room:       NewRoomHandler(svc.Room),
		Module:     NewModuleHandler(svc.Module),
		Session:    NewSessionHandler(svc.Session, svc.Calendar),
		Enrollment: NewEnrollmentHandler(svc.Enrollment),
		Evaluation: NewEvaluationHandler(svc.Evaluation),
		Export:     NewExportHandler(svc.Export),
		Dashboard:  NewDashboardHandler(svc.Dashboard),
	}
}
