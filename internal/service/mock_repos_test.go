package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/model"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/repository"
	pkgerrors "github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/errors"
)

// ── 测试用内存仓储 ──

type mockStore struct {
	persons     *mockPersonRepo
	programs    *mockProgramRepo
	rooms       *mockRoomRepo
	modules     *mockModuleRepo
	sessions    *mockSessionRepo
	enrollments *mockEnrollmentRepo
	evaluations *mockEvaluationRepo
}

func newMockStore() *mockStore {
	st := &mockStore{
		persons:  &mockPersonRepo{persons: make(map[string]*model.Person)},
		programs: &mockProgramRepo{programs: make(map[string]*model.Program)},
		modules:  &mockModuleRepo{modules: make(map[string]*model.Module)},
		sessions: &mockSessionRepo{sessions: make(map[string]*model.Session)},
	}
	st.rooms = &mockRoomRepo{rooms: make(map[string]*model.Room), sessions: st.sessions}
	st.enrollments = &mockEnrollmentRepo{
		enrollments: make(map[string]*model.Enrollment),
		links:       make(map[string]map[string]bool),
		modules:     st.modules,
		failFor:     make(map[string]error),
	}
	st.evaluations = &mockEvaluationRepo{evaluations: make(map[string]*model.Evaluation)}
	return st
}

func (st *mockStore) repository() *repository.Repository {
	return &repository.Repository{
		Person:           st.persons,
		Program:          st.programs,
		Room:             st.rooms,
		Module:           st.modules,
		Session:          st.sessions,
		SessionChangeLog: st.sessions,
		Enrollment:       st.enrollments,
		StudentModule:    &mockStudentModuleRepo{store: st.enrollments},
		Evaluation:       st.evaluations,
	}
}

// ── 数据构造辅助 ──

func (st *mockStore) addProgram(id, name string) *model.Program {
	p := &model.Program{ProgramID: id, Name: name}
	st.programs.programs[id] = p
	return p
}

func (st *mockStore) addStudent(id, programID, level, group string) *model.Person {
	pid := programID
	p := &model.Person{
		UserID:    id,
		FirstName: "Etudiant",
		LastName:  id,
		Email:     id + "@univ.test",
		Role:      model.RoleStudent,
		Student:   &model.StudentProfile{UserID: id, ProgramID: &pid, Level: level, GroupName: group},
	}
	st.persons.persons[id] = p
	return p
}

func (st *mockStore) addTeacher(id string) *model.Person {
	p := &model.Person{
		UserID:    id,
		FirstName: "Prof",
		LastName:  id,
		Email:     id + "@univ.test",
		Role:      model.RoleTeacher,
		Teacher:   &model.TeacherProfile{UserID: id},
	}
	st.persons.persons[id] = p
	return p
}

func (st *mockStore) addModule(id, programID, semester string) *model.Module {
	m := &model.Module{ModuleID: id, Name: "Module " + id, Semester: semester, ProgramID: programID, Hours: 30}
	st.modules.modules[id] = m
	return m
}

func (st *mockStore) addRoom(id string, capacity int, available bool) *model.Room {
	r := &model.Room{RoomID: id, Name: "Salle " + id, Capacity: capacity, Available: available}
	st.rooms.rooms[id] = r
	return r
}

func (st *mockStore) addSession(id, teacherID, roomID, group string, start time.Time, minutes int) *model.Session {
	s := &model.Session{
		SessionID:       id,
		ModuleID:        "m-1",
		TeacherID:       teacherID,
		RoomID:          roomID,
		GroupName:       group,
		StartAt:         start,
		DurationMinutes: minutes,
		EndAt:           model.SessionEnd(start, minutes),
		Type:            model.SessionTypeLecture,
	}
	st.sessions.sessions[id] = s
	return s
}

// ── Mock PersonRepository ──

type mockPersonRepo struct {
	persons map[string]*model.Person
	seq     int
}

func (m *mockPersonRepo) Create(_ context.Context, person *model.Person) error {
	for _, p := range m.persons {
		if strings.EqualFold(p.Email, person.Email) {
			return &pkgerrors.ConstraintError{Kind: pkgerrors.ErrDuplicate, Constraint: "uk_users_email"}
		}
	}
	if person.UserID == "" {
		m.seq++
		person.UserID = fmt.Sprintf("u-%d", m.seq)
	}
	if person.CreatedAt.IsZero() {
		person.CreatedAt = time.Now()
	}
	m.persons[person.UserID] = person
	return nil
}

func (m *mockPersonRepo) GetByID(_ context.Context, id string) (*model.Person, error) {
	if p, ok := m.persons[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPersonRepo) GetByEmail(_ context.Context, email string) (*model.Person, error) {
	for _, p := range m.persons {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPersonRepo) List(_ context.Context, filter repository.PersonFilter, offset, limit int) ([]model.Person, int64, error) {
	var result []model.Person
	for _, p := range m.persons {
		if filter.Role != "" && p.Role != filter.Role {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(strings.ToLower(p.FullName()+" "+p.Email), strings.ToLower(filter.Keyword)) {
			continue
		}
		if filter.Level != "" && (p.Student == nil || p.Student.Level != filter.Level) {
			continue
		}
		if filter.ProgramID != "" && (p.Student == nil || p.Student.ProgramID == nil || *p.Student.ProgramID != filter.ProgramID) {
			continue
		}
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	total := int64(len(result))
	if offset >= len(result) {
		return []model.Person{}, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockPersonRepo) ListStudents(_ context.Context, programID, level string) ([]model.Person, error) {
	var result []model.Person
	for _, p := range m.persons {
		if p.Role != model.RoleStudent || p.Student == nil || p.Student.ProgramID == nil {
			continue
		}
		if *p.Student.ProgramID == programID && p.Student.Level == level {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

func (m *mockPersonRepo) CountByRole(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, p := range m.persons {
		counts[p.Role]++
	}
	return counts, nil
}

func (m *mockPersonRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.persons[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.persons, id)
	return nil
}

// ── Mock ProgramRepository ──

type mockProgramRepo struct {
	programs map[string]*model.Program
	seq      int
}

func (m *mockProgramRepo) Create(_ context.Context, program *model.Program) error {
	for _, p := range m.programs {
		if strings.EqualFold(p.Name, program.Name) {
			return &pkgerrors.ConstraintError{Kind: pkgerrors.ErrDuplicate, Constraint: "uk_programs_name"}
		}
	}
	if program.ProgramID == "" {
		m.seq++
		program.ProgramID = fmt.Sprintf("p-%d", m.seq)
	}
	m.programs[program.ProgramID] = program
	return nil
}

func (m *mockProgramRepo) GetByID(_ context.Context, id string) (*model.Program, error) {
	if p, ok := m.programs[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgramRepo) List(_ context.Context) ([]model.Program, error) {
	var result []model.Program
	for _, p := range m.programs {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockProgramRepo) Update(_ context.Context, program *model.Program) error {
	for id, p := range m.programs {
		if id != program.ProgramID && strings.EqualFold(p.Name, program.Name) {
			return &pkgerrors.ConstraintError{Kind: pkgerrors.ErrDuplicate, Constraint: "uk_programs_name"}
		}
	}
	m.programs[program.ProgramID] = program
	return nil
}

func (m *mockProgramRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.programs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.programs, id)
	return nil
}

// ── Mock RoomRepository ──

type mockRoomRepo struct {
	rooms    map[string]*model.Room
	sessions *mockSessionRepo
	seq      int
}

func (m *mockRoomRepo) Create(_ context.Context, room *model.Room) error {
	for _, r := range m.rooms {
		if strings.EqualFold(r.Name, room.Name) {
			return &pkgerrors.ConstraintError{Kind: pkgerrors.ErrDuplicate, Constraint: "uk_rooms_name"}
		}
	}
	if room.RoomID == "" {
		m.seq++
		room.RoomID = fmt.Sprintf("r-%d", m.seq)
	}
	m.rooms[room.RoomID] = room
	return nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id string) (*model.Room, error) {
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) List(_ context.Context) ([]model.Room, error) {
	var result []model.Room
	for _, r := range m.rooms {
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockRoomRepo) ListFree(_ context.Context, start, end time.Time, minCapacity int) ([]model.Room, error) {
	busy := make(map[string]bool)
	for _, s := range m.sessions.sessions {
		if s.StartAt.Before(end) && s.EndAt.After(start) {
			busy[s.RoomID] = true
		}
	}
	var result []model.Room
	for _, r := range m.rooms {
		if r.Available && r.Capacity >= minCapacity && !busy[r.RoomID] {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RoomID < result[j].RoomID })
	return result, nil
}

func (m *mockRoomRepo) Update(_ context.Context, room *model.Room) error {
	m.rooms[room.RoomID] = room
	return nil
}

func (m *mockRoomRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.rooms[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.rooms, id)
	return nil
}

// ── Mock ModuleRepository ──

type mockModuleRepo struct {
	modules map[string]*model.Module
	seq     int
}

func (m *mockModuleRepo) Create(_ context.Context, module *model.Module) error {
	if module.ModuleID == "" {
		m.seq++
		module.ModuleID = fmt.Sprintf("mod-%d", m.seq)
	}
	m.modules[module.ModuleID] = module
	return nil
}

func (m *mockModuleRepo) GetByID(_ context.Context, id string) (*model.Module, error) {
	if mod, ok := m.modules[id]; ok {
		return mod, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockModuleRepo) List(_ context.Context, filter repository.ModuleFilter) ([]model.Module, error) {
	var result []model.Module
	for _, mod := range m.modules {
		if filter.ProgramID != "" && mod.ProgramID != filter.ProgramID {
			continue
		}
		if filter.Semester != "" && mod.Semester != filter.Semester {
			continue
		}
		if filter.TeacherID != "" && (mod.TeacherID == nil || *mod.TeacherID != filter.TeacherID) {
			continue
		}
		result = append(result, *mod)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ModuleID < result[j].ModuleID })
	return result, nil
}

func (m *mockModuleRepo) Update(_ context.Context, module *model.Module) error {
	m.modules[module.ModuleID] = module
	return nil
}

func (m *mockModuleRepo) AssignTeacher(_ context.Context, moduleID string, teacherID *string) error {
	mod, ok := m.modules[moduleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	mod.TeacherID = teacherID
	return nil
}

func (m *mockModuleRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.modules[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.modules, id)
	return nil
}

// ── Mock SessionRepository + SessionChangeLogRepository ──

type mockSessionRepo struct {
	sessions map[string]*model.Session
	logs     []model.SessionChangeLog
	seq      int

	findCalls int
	createErr error // 模拟数据库层拒绝
}

func (m *mockSessionRepo) Create(_ context.Context, session *model.Session, operatorID *string) error {
	if m.createErr != nil {
		return m.createErr
	}
	if session.SessionID == "" {
		m.seq++
		session.SessionID = fmt.Sprintf("s-%d", m.seq)
	}
	session.EndAt = model.SessionEnd(session.StartAt, session.DurationMinutes)
	cp := *session
	m.sessions[session.SessionID] = &cp
	m.logs = append(m.logs, model.SessionChangeLog{
		LogID: fmt.Sprintf("log-%d", len(m.logs)+1), SessionID: session.SessionID,
		Action: model.ChangeActionCreate, OperatorID: operatorID, CreatedAt: time.Now(),
	})
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id string) (*model.Session, error) {
	if s, ok := m.sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSessionRepo) Update(_ context.Context, session *model.Session, _ *model.Session, operatorID *string) error {
	if _, ok := m.sessions[session.SessionID]; !ok {
		return gorm.ErrRecordNotFound
	}
	session.EndAt = model.SessionEnd(session.StartAt, session.DurationMinutes)
	cp := *session
	m.sessions[session.SessionID] = &cp
	m.logs = append(m.logs, model.SessionChangeLog{
		LogID: fmt.Sprintf("log-%d", len(m.logs)+1), SessionID: session.SessionID,
		Action: model.ChangeActionUpdate, OperatorID: operatorID, CreatedAt: time.Now(),
	})
	return nil
}

func (m *mockSessionRepo) Delete(_ context.Context, session *model.Session, operatorID *string) error {
	if _, ok := m.sessions[session.SessionID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.sessions, session.SessionID)
	m.logs = append(m.logs, model.SessionChangeLog{
		LogID: fmt.Sprintf("log-%d", len(m.logs)+1), SessionID: session.SessionID,
		Action: model.ChangeActionDelete, OperatorID: operatorID, CreatedAt: time.Now(),
	})
	return nil
}

func (m *mockSessionRepo) List(_ context.Context, filter repository.SessionFilter) ([]model.Session, error) {
	var result []model.Session
	for _, s := range m.sessions {
		if filter.ModuleID != "" && s.ModuleID != filter.ModuleID {
			continue
		}
		if filter.TeacherID != "" && s.TeacherID != filter.TeacherID {
			continue
		}
		if filter.RoomID != "" && s.RoomID != filter.RoomID {
			continue
		}
		if filter.GroupName != "" && s.GroupName != filter.GroupName {
			continue
		}
		if filter.To != nil && !s.StartAt.Before(*filter.To) {
			continue
		}
		if filter.From != nil && !s.EndAt.After(*filter.From) {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartAt.Before(result[j].StartAt) })
	return result, nil
}

// FindOverlapping 与 SQL 相同的谓词：start_at < end AND end_at > start
func (m *mockSessionRepo) FindOverlapping(_ context.Context, dim model.ConflictDimension, value string, start, end time.Time, excludeID string) ([]model.Session, error) {
	m.findCalls++
	var result []model.Session
	for _, s := range m.sessions {
		if excludeID != "" && s.SessionID == excludeID {
			continue
		}
		var v string
		switch dim {
		case model.DimensionRoom:
			v = s.RoomID
		case model.DimensionTeacher:
			v = s.TeacherID
		case model.DimensionGroup:
			v = s.GroupName
		default:
			return nil, fmt.Errorf("未知的冲突维度: %q", dim)
		}
		if v == value && s.StartAt.Before(end) && s.EndAt.After(start) {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SessionID < result[j].SessionID })
	return result, nil
}

func (m *mockSessionRepo) ListBySession(_ context.Context, sessionID string, offset, limit int) ([]model.SessionChangeLog, int64, error) {
	var result []model.SessionChangeLog
	for _, l := range m.logs {
		if l.SessionID == sessionID {
			result = append(result, l)
		}
	}
	total := int64(len(result))
	if offset >= len(result) {
		return []model.SessionChangeLog{}, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct {
	enrollments map[string]*model.Enrollment
	links       map[string]map[string]bool // 旧版关联 studentID → moduleID
	modules     *mockModuleRepo
	failFor     map[string]error // studentID → Create 返回的错误
	seq         int
}

func (m *mockEnrollmentRepo) link(studentID, moduleID string) {
	if m.links[studentID] == nil {
		m.links[studentID] = make(map[string]bool)
	}
	m.links[studentID][moduleID] = true
}

func (m *mockEnrollmentRepo) Create(_ context.Context, enrollment *model.Enrollment) error {
	if err, ok := m.failFor[enrollment.StudentID]; ok {
		return err
	}
	for _, e := range m.enrollments {
		if e.StudentID == enrollment.StudentID && e.ModuleID == enrollment.ModuleID {
			return &pkgerrors.ConstraintError{Kind: pkgerrors.ErrDuplicate, Constraint: "uk_enrollments_student_module"}
		}
	}
	if enrollment.EnrollmentID == "" {
		m.seq++
		enrollment.EnrollmentID = fmt.Sprintf("e-%d", m.seq)
	}
	cp := *enrollment
	m.enrollments[enrollment.EnrollmentID] = &cp
	m.link(enrollment.StudentID, enrollment.ModuleID)
	return nil
}

func (m *mockEnrollmentRepo) GetByID(_ context.Context, id string) (*model.Enrollment, error) {
	if e, ok := m.enrollments[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) GetByStudentAndModule(_ context.Context, studentID, moduleID string) (*model.Enrollment, error) {
	for _, e := range m.enrollments {
		if e.StudentID == studentID && e.ModuleID == moduleID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) ExistsForPair(_ context.Context, studentID, moduleID string) (bool, error) {
	for _, e := range m.enrollments {
		if e.StudentID == studentID && e.ModuleID == moduleID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEnrollmentRepo) Delete(_ context.Context, enrollment *model.Enrollment) error {
	if _, ok := m.enrollments[enrollment.EnrollmentID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.enrollments, enrollment.EnrollmentID)
	delete(m.links[enrollment.StudentID], enrollment.ModuleID)
	return nil
}

func (m *mockEnrollmentRepo) UpdateStatus(_ context.Context, id, status string, operatorID *string) error {
	e, ok := m.enrollments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Status = status
	e.UpdatedBy = operatorID
	return nil
}

func (m *mockEnrollmentRepo) ListModulesByStudent(_ context.Context, studentID string) ([]model.Module, error) {
	var result []model.Module
	for _, e := range m.enrollments {
		if e.StudentID != studentID {
			continue
		}
		if mod, ok := m.modules.modules[e.ModuleID]; ok {
			result = append(result, *mod)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ModuleID < result[j].ModuleID })
	return result, nil
}

func (m *mockEnrollmentRepo) List(_ context.Context, filter repository.EnrollmentFilter, offset, limit int) ([]model.Enrollment, int64, error) {
	var result []model.Enrollment
	for _, e := range m.enrollments {
		if filter.StudentID != "" && e.StudentID != filter.StudentID {
			continue
		}
		if filter.ModuleID != "" && e.ModuleID != filter.ModuleID {
			continue
		}
		if filter.ProgramID != "" && (e.ProgramID == nil || *e.ProgramID != filter.ProgramID) {
			continue
		}
		if filter.Level != "" && e.Level != filter.Level {
			continue
		}
		if filter.Semester != "" && e.Semester != filter.Semester {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EnrollmentID < result[j].EnrollmentID })
	total := int64(len(result))
	if offset >= len(result) {
		return []model.Enrollment{}, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockEnrollmentRepo) Stats(_ context.Context) (*repository.EnrollmentStats, error) {
	stats := &repository.EnrollmentStats{ActiveByProgram: make(map[string]int64)}
	for _, e := range m.enrollments {
		stats.Total++
		switch e.Status {
		case model.EnrollmentActive:
			stats.Active++
			if e.ProgramID != nil {
				stats.ActiveByProgram[*e.ProgramID]++
			}
		case model.EnrollmentCompleted:
			stats.Completed++
		case model.EnrollmentSuspended:
			stats.Suspended++
		}
	}
	return stats, nil
}

// ── Mock StudentModuleRepository ──

type mockStudentModuleRepo struct {
	store *mockEnrollmentRepo
}

func (m *mockStudentModuleRepo) ListModules(_ context.Context, studentID string) ([]model.Module, error) {
	var result []model.Module
	for moduleID := range m.store.links[studentID] {
		if mod, ok := m.store.modules.modules[moduleID]; ok {
			result = append(result, *mod)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ModuleID < result[j].ModuleID })
	return result, nil
}

// ── Mock EvaluationRepository ──

type mockEvaluationRepo struct {
	evaluations map[string]*model.Evaluation
	seq         int
}

func (m *mockEvaluationRepo) Create(_ context.Context, evaluation *model.Evaluation) error {
	for _, e := range m.evaluations {
		if e.StudentID == evaluation.StudentID && e.ModuleID == evaluation.ModuleID {
			return &pkgerrors.ConstraintError{Kind: pkgerrors.ErrDuplicate, Constraint: "uk_evaluations_student_module"}
		}
	}
	if evaluation.EvaluationID == "" {
		m.seq++
		evaluation.EvaluationID = fmt.Sprintf("ev-%d", m.seq)
	}
	cp := *evaluation
	m.evaluations[evaluation.EvaluationID] = &cp
	return nil
}

func (m *mockEvaluationRepo) GetByID(_ context.Context, id string) (*model.Evaluation, error) {
	if e, ok := m.evaluations[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEvaluationRepo) GetByStudentAndModule(_ context.Context, studentID, moduleID string) (*model.Evaluation, error) {
	for _, e := range m.evaluations {
		if e.StudentID == studentID && e.ModuleID == moduleID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEvaluationRepo) Update(_ context.Context, evaluation *model.Evaluation) error {
	stored, ok := m.evaluations[evaluation.EvaluationID]
	if !ok || stored.Version != evaluation.Version {
		return pkgerrors.ErrOptimisticLock
	}
	evaluation.Version++
	cp := *evaluation
	m.evaluations[evaluation.EvaluationID] = &cp
	return nil
}

func (m *mockEvaluationRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.evaluations[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.evaluations, id)
	return nil
}

func (m *mockEvaluationRepo) list(match func(*model.Evaluation) bool) []model.Evaluation {
	var result []model.Evaluation
	for _, e := range m.evaluations {
		if match(e) {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EvaluationID < result[j].EvaluationID })
	return result
}

func (m *mockEvaluationRepo) ListByStudent(_ context.Context, studentID string) ([]model.Evaluation, error) {
	return m.list(func(e *model.Evaluation) bool { return e.StudentID == studentID }), nil
}

func (m *mockEvaluationRepo) ListByModule(_ context.Context, moduleID string) ([]model.Evaluation, error) {
	return m.list(func(e *model.Evaluation) bool { return e.ModuleID == moduleID }), nil
}

// average 未出总评按 0 计，与 SQL 的 COALESCE 一致
func average(evaluations []model.Evaluation) float64 {
	if len(evaluations) == 0 {
		return 0
	}
	var sum float64
	for _, e := range evaluations {
		if e.FinalScore != nil {
			sum += *e.FinalScore
		}
	}
	return sum / float64(len(evaluations))
}

func (m *mockEvaluationRepo) AverageByStudent(ctx context.Context, studentID string) (float64, error) {
	list, _ := m.ListByStudent(ctx, studentID)
	return average(list), nil
}

func (m *mockEvaluationRepo) AverageByModule(ctx context.Context, moduleID string) (float64, error) {
	list, _ := m.ListByModule(ctx, moduleID)
	return average(list), nil
}

// ── Mock TokenBlacklist ──

type mockBlacklist struct {
	revoked map[string]time.Duration
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{revoked: make(map[string]time.Duration)}
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.revoked[jti] = ttl
	return nil
}

func (m *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	_, ok := m.revoked[jti]
	return ok, nil
}

// ── Mock Locker ──

type mockLocker struct {
	calls [][]string
	err   error
}

func (m *mockLocker) Lock(_ context.Context, keys ...string) (func(), error) {
	m.calls = append(m.calls, keys)
	if m.err != nil {
		return nil, m.err
	}
	return func() {}, nil
}

func ptr[T any](v T) *T { return &v }
