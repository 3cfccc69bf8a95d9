package service

import (
	"encoding/json"
	"time"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/dto"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/model"
)

// ── model → dto 转换 ──

func toPersonResponse(p *model.Person) dto.PersonResponse {
	resp := dto.PersonResponse{
		ID:        p.UserID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		FullName:  p.FullName(),
		Email:     p.Email,
		Role:      p.Role,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
	if sp := p.Student; sp != nil {
		resp.Student = &dto.StudentProfileResponse{
			ProgramID: sp.ProgramID,
			Level:     sp.Level,
			GroupName: sp.GroupName,
			Skills:    nonNilStrings(sp.Skills),
		}
		if sp.Program != nil {
			resp.Student.ProgramName = sp.Program.Name
		}
	}
	if tp := p.Teacher; tp != nil {
		resp.Teacher = &dto.TeacherProfileResponse{
			Speciality:   tp.Speciality,
			Grade:        tp.Grade,
			TeachingLoad: tp.TeachingLoad,
			Skills:       nonNilStrings(tp.Skills),
		}
	}
	if ap := p.Admin; ap != nil {
		resp.Admin = &dto.AdminProfileResponse{Department: ap.Department}
	}
	return resp
}

func toProgramResponse(p *model.Program) dto.ProgramResponse {
	return dto.ProgramResponse{ID: p.ProgramID, Name: p.Name, Description: p.Description}
}

func toRoomResponse(r *model.Room) dto.RoomResponse {
	return dto.RoomResponse{
		ID:        r.RoomID,
		Name:      r.Name,
		Capacity:  r.Capacity,
		Type:      r.Type,
		Available: r.Available,
	}
}

func toModuleResponse(m *model.Module) dto.ModuleResponse {
	resp := dto.ModuleResponse{
		ID:             m.ModuleID,
		Name:           m.Name,
		Hours:          m.Hours,
		RequiredSkills: nonNilStrings(m.RequiredSkills),
		Semester:       m.Semester,
		ProgramID:      m.ProgramID,
		TeacherID:      m.TeacherID,
	}
	if m.Program != nil {
		resp.ProgramName = m.Program.Name
	}
	if m.Teacher != nil {
		resp.TeacherName = m.Teacher.FullName()
	}
	return resp
}

func toModuleResponses(modules []model.Module) []dto.ModuleResponse {
	out := make([]dto.ModuleResponse, 0, len(modules))
	for i := range modules {
		out = append(out, toModuleResponse(&modules[i]))
	}
	return out
}

func toSessionResponse(s *model.Session) dto.SessionResponse {
	resp := dto.SessionResponse{
		ID:              s.SessionID,
		ModuleID:        s.ModuleID,
		TeacherID:       s.TeacherID,
		RoomID:          s.RoomID,
		GroupName:       s.GroupName,
		StartAt:         s.StartAt,
		EndAt:           s.EndAt,
		DurationMinutes: s.DurationMinutes,
		Type:            s.Type,
	}
	if s.Module != nil {
		resp.ModuleName = s.Module.Name
	}
	if s.Teacher != nil {
		resp.TeacherName = s.Teacher.FullName()
	}
	if s.Room != nil {
		resp.RoomName = s.Room.Name
	}
	return resp
}

func toSessionResponses(sessions []model.Session) []dto.SessionResponse {
	out := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, toSessionResponse(&sessions[i]))
	}
	return out
}

func toSessionBriefs(sessions []model.Session) []dto.SessionBrief {
	out := make([]dto.SessionBrief, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, dto.SessionBrief{
			ID:        s.SessionID,
			ModuleID:  s.ModuleID,
			TeacherID: s.TeacherID,
			RoomID:    s.RoomID,
			GroupName: s.GroupName,
			StartAt:   s.StartAt,
			EndAt:     s.EndAt,
		})
	}
	return out
}

func toConflictReportResponse(r *ConflictReport) *dto.ConflictReportResponse {
	dims := r.Dimensions()
	names := make([]string, 0, len(dims))
	for _, d := range dims {
		names = append(names, string(d))
	}
	return &dto.ConflictReportResponse{
		HasConflict: r.HasConflict(),
		Dimensions:  names,
		Room:        toSessionBriefs(r.Room),
		Teacher:     toSessionBriefs(r.Teacher),
		Group:       toSessionBriefs(r.Group),
	}
}

func toChangeLogResponse(l *model.SessionChangeLog) dto.SessionChangeLogResponse {
	resp := dto.SessionChangeLogResponse{
		ID:         l.LogID,
		SessionID:  l.SessionID,
		Action:     l.Action,
		OperatorID: l.OperatorID,
		CreatedAt:  l.CreatedAt.Format(time.RFC3339),
	}
	if len(l.Before) > 0 {
		resp.Before = json.RawMessage(l.Before)
	}
	if len(l.After) > 0 {
		resp.After = json.RawMessage(l.After)
	}
	return resp
}

func toEnrollmentResponse(e *model.Enrollment) dto.EnrollmentResponse {
	resp := dto.EnrollmentResponse{
		ID:           e.EnrollmentID,
		StudentID:    e.StudentID,
		ModuleID:     e.ModuleID,
		ProgramID:    e.ProgramID,
		AcademicYear: e.AcademicYear,
		Semester:     e.Semester,
		Level:        e.Level,
		Status:       e.Status,
		EnrolledAt:   e.EnrolledAt,
	}
	if e.Student != nil {
		resp.StudentName = e.Student.FullName()
	}
	if e.Module != nil {
		resp.ModuleName = e.Module.Name
	}
	if e.Program != nil {
		resp.ProgramName = e.Program.Name
	}
	return resp
}

func toEvaluationResponse(e *model.Evaluation) dto.EvaluationResponse {
	resp := dto.EvaluationResponse{
		ID:            e.EvaluationID,
		StudentID:     e.StudentID,
		ModuleID:      e.ModuleID,
		TP:            e.TP,
		DS:            e.DS,
		Project:       e.Project,
		Participation: e.Participation,
		FinalScore:    e.FinalScore,
		Feedback:      e.Feedback,
		EvaluatedAt:   e.EvaluatedAt,
		Version:       e.Version,
	}
	if e.Student != nil {
		resp.StudentName = e.Student.FullName()
	}
	if e.Module != nil {
		resp.ModuleName = e.Module.Name
	}
	return resp
}

func toEvaluationResponses(evaluations []model.Evaluation) []dto.EvaluationResponse {
	out := make([]dto.EvaluationResponse, 0, len(evaluations))
	for i := range evaluations {
		out = append(out, toEvaluationResponse(&evaluations[i]))
	}
	return out
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
