package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/model"
)

func setupTestDashboardService() (*dashboardService, *mockStore) {
	st := newMockStore()
	st.addProgram("p-1", "Informatique")
	st.addModule("m-1", "p-1", "S1")
	st.addModule("m-2", "p-1", "S1")
	st.addTeacher("T1")
	st.addStudent("stu-1", "p-1", "L1", "G1")
	st.addRoom("R1", 40, true)
	repo := st.repository()
	svc := NewDashboardService(repo, NewDefaultEnrollmentSource(repo), zap.NewNop()).(*dashboardService)
	svc.now = func() time.Time { return monday(8, 0) }
	return svc, st
}

func TestDashboardService_Admin(t *testing.T) {
	svc, st := setupTestDashboardService()
	st.enrollments.enrollments["e-1"] = &model.Enrollment{
		EnrollmentID: "e-1", StudentID: "stu-1", ModuleID: "m-1", ProgramID: ptr("p-1"), Status: model.EnrollmentActive,
	}

	resp, err := svc.Admin(context.Background())
	if err != nil {
		t.Fatalf("管理员首页应成功: %v", err)
	}
	if resp.Students != 1 || resp.Teachers != 1 || resp.Admins != 0 {
		t.Errorf("用户统计不符，实际: %+v", resp)
	}
	if resp.Programs != 1 || resp.Modules != 2 || resp.Rooms != 1 {
		t.Errorf("基础数据统计不符，实际: %+v", resp)
	}
	if resp.Enrollment.Total != 1 || resp.Enrollment.Active != 1 {
		t.Errorf("选课统计不符，实际: %+v", resp.Enrollment)
	}
}

func TestDashboardService_Teacher(t *testing.T) {
	svc, st := setupTestDashboardService()
	st.modules.modules["m-1"].TeacherID = ptr("T1")
	st.addSession("s-1", "T1", "R1", "G1", monday(9, 0), 60)
	st.addSession("s-old", "T1", "R1", "G1", monday(9, 0).AddDate(0, 0, -7), 60)
	st.addSession("s-far", "T1", "R1", "G1", monday(9, 0).AddDate(0, 0, 14), 60)

	resp, err := svc.Teacher(context.Background(), "T1")
	if err != nil {
		t.Fatalf("教师首页应成功: %v", err)
	}
	if len(resp.Modules) != 1 || resp.Modules[0].ID != "m-1" {
		t.Errorf("期望仅 m-1，实际: %+v", resp.Modules)
	}
	if len(resp.UpcomingSessions) != 1 || resp.UpcomingSessions[0].ID != "s-1" {
		t.Errorf("只应包含七天内的课次，实际: %+v", resp.UpcomingSessions)
	}
}

func TestDashboardService_Student(t *testing.T) {
	svc, st := setupTestDashboardService()
	st.enrollments.link("stu-1", "m-2")
	st.addSession("s-1", "T1", "R1", "G1", monday(9, 0), 60)
	st.addSession("s-2", "T1", "R1", "G2", monday(11, 0), 60)
	st.evaluations.evaluations["ev-1"] = &model.Evaluation{
		EvaluationID: "ev-1", StudentID: "stu-1", ModuleID: "m-2", FinalScore: ptr(12.0),
	}

	resp, err := svc.Student(context.Background(), "stu-1")
	if err != nil {
		t.Fatalf("学生首页应成功: %v", err)
	}
	// 无选课记录时回退到旧版关联
	if len(resp.Modules) != 1 || resp.Modules[0].ID != "m-2" {
		t.Errorf("期望回退到旧版关联 m-2，实际: %+v", resp.Modules)
	}
	if len(resp.UpcomingSessions) != 1 || resp.UpcomingSessions[0].GroupName != "G1" {
		t.Errorf("只应包含本班组课次，实际: %+v", resp.UpcomingSessions)
	}
	if len(resp.Evaluations) != 1 || resp.Average != 12.0 {
		t.Errorf("成绩与平均分不符，实际: %+v / %v", resp.Evaluations, resp.Average)
	}
}

func TestDashboardService_Student_NotAStudent(t *testing.T) {
	svc, _ := setupTestDashboardService()

	if _, err := svc.Student(context.Background(), "T1"); !errors.Is(err, ErrNotAStudent) {
		t.Errorf("期望 ErrNotAStudent，实际: %v", err)
	}
	if _, err := svc.Student(context.Background(), "ghost"); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("期望 ErrStudentNotFound，实际: %v", err)
	}
}
