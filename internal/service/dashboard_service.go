package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/dto"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/model"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/repository"
)

// upcomingWindow 首页展示的课次范围
const upcomingWindow = 7 * 24 * time.Hour

// DashboardService 按角色聚合首页数据
type DashboardService interface {
	Admin(ctx context.Context) (*dto.AdminDashboardResponse, error)
	Teacher(ctx context.Context, teacherID string) (*dto.TeacherDashboardResponse, error)
	Student(ctx context.Context, studentID string) (*dto.StudentDashboardResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	source EnrollmentSource
	now    func() time.Time
	logger *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(repo *repository.Repository, source EnrollmentSource, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, source: source, now: time.Now, logger: logger}
}

func (s *dashboardService) Admin(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	counts, err := s.repo.Person.CountByRole(ctx)
	if err != nil {
		s.logger.Error("统计用户失败", zap.Error(err))
		return nil, err
	}
	programs, err := s.repo.Program.List(ctx)
	if err != nil {
		s.logger.Error("统计专业失败", zap.Error(err))
		return nil, err
	}
	modules, err := s.repo.Module.List(ctx, repository.ModuleFilter{})
	if err != nil {
		s.logger.Error("统计模块失败", zap.Error(err))
		return nil, err
	}
	rooms, err := s.repo.Room.List(ctx)
	if err != nil {
		s.logger.Error("统计教室失败", zap.Error(err))
		return nil, err
	}
	stats, err := s.repo.Enrollment.Stats(ctx)
	if err != nil {
		s.logger.Error("查询选课统计失败", zap.Error(err))
		return nil, err
	}

	return &dto.AdminDashboardResponse{
		Students: counts[model.RoleStudent],
		Teachers: counts[model.RoleTeacher],
		Admins:   counts[model.RoleAdmin],
		Programs: len(programs),
		Modules:  len(modules),
		Rooms:    len(rooms),
		Enrollment: dto.EnrollmentStatsResponse{
			Total:           stats.Total,
			Active:          stats.Active,
			Completed:       stats.Completed,
			Suspended:       stats.Suspended,
			ActiveByProgram: stats.ActiveByProgram,
		},
	}, nil
}

func (s *dashboardService) Teacher(ctx context.Context, teacherID string) (*dto.TeacherDashboardResponse, error) {
	modules, err := s.repo.Module.List(ctx, repository.ModuleFilter{TeacherID: teacherID})
	if err != nil {
		s.logger.Error("查询教师模块失败", zap.String("teacher_id", teacherID), zap.Error(err))
		return nil, err
	}
	sessions, err := s.upcoming(ctx, repository.SessionFilter{TeacherID: teacherID})
	if err != nil {
		return nil, err
	}
	return &dto.TeacherDashboardResponse{
		Modules:          toModuleResponses(modules),
		UpcomingSessions: toSessionResponses(sessions),
	}, nil
}

func (s *dashboardService) Student(ctx context.Context, studentID string) (*dto.StudentDashboardResponse, error) {
	student, err := s.repo.Person.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", studentID), zap.Error(err))
		return nil, err
	}
	if student.Role != model.RoleStudent {
		return nil, ErrNotAStudent
	}

	// 选课记录为空时回退到旧版关联
	modules, err := s.source.ModulesOf(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生模块失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	resp := &dto.StudentDashboardResponse{
		Modules:          toModuleResponses(modules),
		UpcomingSessions: []dto.SessionResponse{},
	}
	if student.Student != nil && student.Student.GroupName != "" {
		sessions, err := s.upcoming(ctx, repository.SessionFilter{GroupName: student.Student.GroupName})
		if err != nil {
			return nil, err
		}
		resp.UpcomingSessions = toSessionResponses(sessions)
	}

	evaluations, err := s.repo.Evaluation.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生成绩失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	resp.Evaluations = toEvaluationResponses(evaluations)

	if resp.Average, err = s.repo.Evaluation.AverageByStudent(ctx, studentID); err != nil {
		s.logger.Error("计算学生平均分失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	return resp, nil
}

func (s *dashboardService) upcoming(ctx context.Context, filter repository.SessionFilter) ([]model.Session, error) {
	from := s.now()
	to := from.Add(upcomingWindow)
	filter.From, filter.To = &from, &to
	sessions, err := s.repo.Session.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询近期课次失败", zap.Error(err))
		return nil, err
	}
	return sessions, nil
}
