package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/config"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/dto"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/model"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/repository"
	pkgerrors "github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/errors"
)

// ErrCalendarTargetRequired 班组与教师至少指定一个
var ErrCalendarTargetRequired = fmt.Errorf("%w: 请指定班组或教师", pkgerrors.ErrInvalidInput)

const calendarProductID = "-//universite//emploi du temps//FR"

// CalendarService 课表 ICS 导出
type CalendarService interface {
	Export(ctx context.Context, req *dto.CalendarRequest) ([]byte, string, error)
}

type calendarService struct {
	cfg    config.SchedulingConfig
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(cfg config.SchedulingConfig, repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{cfg: cfg, repo: repo, logger: logger}
}

// Export 按班组或教师导出课次，返回 ICS 内容与建议文件名
func (s *calendarService) Export(ctx context.Context, req *dto.CalendarRequest) ([]byte, string, error) {
	group := strings.TrimSpace(req.GroupName)
	if group == "" && req.TeacherID == "" {
		return nil, "", ErrCalendarTargetRequired
	}

	sessions, err := s.repo.Session.List(ctx, repository.SessionFilter{
		TeacherID: req.TeacherID,
		GroupName: group,
		From:      req.From,
		To:        req.To,
	})
	if err != nil {
		s.logger.Error("查询课次失败", zap.Error(err))
		return nil, "", err
	}

	name := group
	if name == "" {
		name = req.TeacherID
		if len(sessions) > 0 && sessions[0].Teacher != nil {
			name = sessions[0].Teacher.FullName()
		}
	}

	cal := s.buildCalendar(name, sessions)
	filename := fmt.Sprintf("emploi_%s.ics", strings.ReplaceAll(name, " ", "_"))
	return []byte(cal.Serialize()), filename, nil
}

func (s *calendarService) buildCalendar(name string, sessions []model.Session) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName("Emploi du temps " + name)
	if s.cfg.Timezone != "" {
		cal.SetXWRTimezone(s.cfg.Timezone)
	}

	stamp := time.Now().UTC()
	for _, sess := range sessions {
		evt := cal.AddEvent(sess.SessionID + "@universite")
		evt.SetDtStampTime(stamp)
		evt.SetStartAt(sess.StartAt)
		evt.SetEndAt(sess.EndAt)
		evt.SetSummary(sessionSummary(&sess))
		if sess.Room != nil {
			evt.SetLocation(sess.Room.Name)
		}
		desc := "Groupe " + sess.GroupName
		if sess.Teacher != nil {
			desc += " / " + sess.Teacher.FullName()
		}
		evt.SetDescription(desc)
	}
	return cal
}

// sessionSummary "CM Analyse"
func sessionSummary(sess *model.Session) string {
	title := sess.ModuleID
	if sess.Module != nil {
		title = sess.Module.Name
	}
	if sess.Type == "" {
		return title
	}
	return sess.Type + " " + title
}
