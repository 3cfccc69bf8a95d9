package service

import (
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/model"
)

// ── 测试辅助 ──

func setupTestExportService() (ExportService, *mockStore) {
	st := newMockStore()
	st.addProgram("p-1", "Informatique")
	st.addModule("m-1", "p-1", "S1")
	return NewExportService(st.repository(), zap.NewNop()), st
}

// ── ExportModuleGrades 测试 ──

func TestExportService_ExportModuleGrades_ModuleNotFound(t *testing.T) {
	svc, _ := setupTestExportService()

	_, _, err := svc.ExportModuleGrades(context.Background(), "ghost")
	if !errors.Is(err, ErrModuleNotFound) {
		t.Errorf("期望 ErrModuleNotFound，实际: %v", err)
	}
}

func TestExportService_ExportModuleGrades(t *testing.T) {
	svc, st := setupTestExportService()
	st.evaluations.evaluations["ev-1"] = &model.Evaluation{
		EvaluationID: "ev-1", StudentID: "stu-1", ModuleID: "m-1",
		TP: ptr(10.0), DS: ptr(15.0), FinalScore: ptr(8.0), Feedback: "bien",
	}
	st.evaluations.evaluations["ev-2"] = &model.Evaluation{
		EvaluationID: "ev-2", StudentID: "stu-2", ModuleID: "m-1",
	}

	buf, filename, err := svc.ExportModuleGrades(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("导出应成功: %v", err)
	}
	if filename != "成绩单_Module m-1.xlsx" {
		t.Errorf("文件名不符，实际: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("生成的文件应可被解析: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("成绩单")
	if err != nil {
		t.Fatalf("读取工作表应成功: %v", err)
	}
	// 标题 + 表头 + 2 行数据 + 平均分
	if len(rows) != 5 {
		t.Fatalf("期望 5 行，实际: %d", len(rows))
	}
	if rows[0][0] != "Module m-1（S1）成绩单" {
		t.Errorf("标题不符，实际: %q", rows[0][0])
	}
	if rows[1][6] != "总评" {
		t.Errorf("表头不符，实际: %v", rows[1])
	}
	if rows[2][0] != "stu-1" || rows[2][6] != "8" || rows[2][7] != "bien" {
		t.Errorf("数据行不符，实际: %v", rows[2])
	}
	// 空分项留白，行尾空单元格不会被读出
	if len(rows[3]) != 1 || rows[3][0] != "stu-2" {
		t.Errorf("空成绩行不符，实际: %v", rows[3])
	}
	// (8 + 0) / 2
	if rows[4][5] != "平均分" || rows[4][6] != "4" {
		t.Errorf("平均分行不符，实际: %v", rows[4])
	}
}
